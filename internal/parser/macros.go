package parser

import (
	"github.com/exprlang/cel/internal/ast"
	"github.com/exprlang/cel/internal/lexer"
	"github.com/exprlang/cel/internal/types"
)

// lowerHas rewrites has(e) into a TestOnly Select. The argument must itself
// be a field selection (`has(msg.field)`), never a bare identifier or an
// index expression, matching spec §3's has() semantics.
func lowerHas(p *Parser, args []ast.Expr, pos lexer.Position) ast.Expr {
	if len(args) != 1 {
		p.errs.Add(pos, "has() requires exactly one argument", p.source)
		return &ast.Literal{Value: types.NewError(types.ErrParse, "has() requires exactly one argument"), Position: pos}
	}
	sel, ok := args[0].(*ast.Select)
	if !ok || sel.TestOnly {
		p.errs.Add(pos, "has() requires a field selection argument, e.g. has(e.f)", p.source)
		return &ast.Literal{Value: types.NewError(types.ErrParse, "invalid has() argument"), Position: pos}
	}
	return &ast.Select{Receiver: sel.Receiver, Field: sel.Field, TestOnly: true, Position: pos}
}

// macroExpander rewrites `target.name(args...)` into a Comprehension,
// reporting ok=false if the argument count doesn't match the macro's
// shape (in which case the caller falls back to treating the call as an
// ordinary method Call). The table this backs is keyed by surface name
// so additional named-shape macros (e.g. a `cel.bind`-style extension)
// can be layered on without touching the parser's core grammar; only the
// fixed set below is registered.
type macroExpander func(p *Parser, target ast.Expr, args []ast.Expr, pos lexer.Position) (ast.Expr, bool)

var macroTable = map[string]macroExpander{
	"all":        expandAll,
	"exists":     expandExists,
	"exists_one": expandExistsOne,
	"filter":     expandFilter,
	"map":        expandMap,
}

// lowerMacro looks up name in macroTable. It returns ok=false for any
// name the table doesn't recognize, in which case the caller treats the
// call as an ordinary method Call (spec §3).
func lowerMacro(p *Parser, target ast.Expr, name string, args []ast.Expr, pos lexer.Position) (ast.Expr, bool) {
	expand, ok := macroTable[name]
	if !ok {
		return nil, false
	}
	return expand(p, target, args, pos)
}

func expandAll(p *Parser, target ast.Expr, args []ast.Expr, pos lexer.Position) (ast.Expr, bool) {
	if len(args) != 2 {
		return nil, false
	}
	return lowerAll(p, target, args[0], args[1], pos), true
}

func expandExists(p *Parser, target ast.Expr, args []ast.Expr, pos lexer.Position) (ast.Expr, bool) {
	if len(args) != 2 {
		return nil, false
	}
	return lowerExists(p, target, args[0], args[1], pos), true
}

func expandExistsOne(p *Parser, target ast.Expr, args []ast.Expr, pos lexer.Position) (ast.Expr, bool) {
	if len(args) != 2 {
		return nil, false
	}
	return lowerExistsOne(p, target, args[0], args[1], pos), true
}

func expandFilter(p *Parser, target ast.Expr, args []ast.Expr, pos lexer.Position) (ast.Expr, bool) {
	if len(args) != 2 {
		return nil, false
	}
	return lowerFilter(p, target, args[0], args[1], pos), true
}

func expandMap(p *Parser, target ast.Expr, args []ast.Expr, pos lexer.Position) (ast.Expr, bool) {
	switch len(args) {
	case 2:
		return lowerMap(p, target, args[0], nil, args[1], pos), true
	case 3:
		return lowerMap(p, target, args[0], args[1], args[2], pos), true
	}
	return nil, false
}

func iterVarName(arg ast.Expr) (string, bool) {
	id, ok := arg.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func boolLit(v bool, pos lexer.Position) ast.Expr {
	return &ast.Literal{Value: types.Bool(v), Position: pos}
}

// substIterVar rewrites every occurrence of the macro's user-chosen
// iteration variable name to the comprehension's fresh internal name, so
// nested macros can never collide (spec §4.4/§9).
func substIterVar(expr ast.Expr, from, to string) ast.Expr {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *ast.Ident:
		if e.Name == from {
			return &ast.Ident{Name: to, Position: e.Position}
		}
		return e
	case *ast.Select:
		return &ast.Select{Receiver: substIterVar(e.Receiver, from, to), Field: e.Field, TestOnly: e.TestOnly, Position: e.Position}
	case *ast.Call:
		args := make([]ast.Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = substIterVar(a, from, to)
		}
		var tgt ast.Expr
		if e.Target != nil {
			tgt = substIterVar(e.Target, from, to)
		}
		return &ast.Call{Target: tgt, Function: e.Function, Args: args, Position: e.Position}
	case *ast.ListExpr:
		elems := make([]ast.Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = substIterVar(el, from, to)
		}
		return &ast.ListExpr{Elems: elems, Position: e.Position}
	case *ast.MapExpr:
		entries := make([]ast.MapEntry, len(e.Entries))
		for i, en := range e.Entries {
			entries[i] = ast.MapEntry{Key: substIterVar(en.Key, from, to), Value: substIterVar(en.Value, from, to)}
		}
		return &ast.MapExpr{Entries: entries, Position: e.Position}
	case *ast.StructExpr:
		fields := make([]ast.StructField, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = ast.StructField{Name: f.Name, Value: substIterVar(f.Value, from, to)}
		}
		return &ast.StructExpr{TypeName: e.TypeName, Fields: fields, Position: e.Position}
	case *ast.Ternary:
		return &ast.Ternary{Cond: substIterVar(e.Cond, from, to), Then: substIterVar(e.Then, from, to), Else: substIterVar(e.Else, from, to), Position: e.Position}
	case *ast.Comprehension:
		// A nested macro's own bound variable shadows `from`: stop
		// substituting inside it if it reuses the same surface name.
		if e.IterVar == from {
			return e
		}
		return &ast.Comprehension{
			IterVar: e.IterVar, IterRange: substIterVar(e.IterRange, from, to),
			AccuVar: e.AccuVar, AccuInit: substIterVar(e.AccuInit, from, to),
			LoopCond: substIterVar(e.LoopCond, from, to), LoopStep: substIterVar(e.LoopStep, from, to),
			Result: substIterVar(e.Result, from, to), Position: e.Position,
		}
	default:
		return expr
	}
}

// lowerAll rewrites `range.all(v, pred)`: true only if pred holds for every
// element/key. LoopCond is the accumulator itself, so iteration stops as
// soon as accu is false, and an error from a later, unevaluated element
// never surfaces (spec §4.4's masking rule).
func lowerAll(p *Parser, target, iterArg, pred ast.Expr, pos lexer.Position) ast.Expr {
	name, ok := iterVarName(iterArg)
	if !ok {
		p.errs.Add(pos, "all() requires an identifier as its first argument", p.source)
		name = "_"
	}
	iter := p.freshIterVar("iter")
	accu := p.freshIterVar("accu")
	body := substIterVar(pred, name, iter)
	return &ast.Comprehension{
		IterVar: iter, IterRange: target,
		AccuVar: accu, AccuInit: boolLit(true, pos),
		LoopCond: &ast.Ident{Name: accu, Position: pos},
		LoopStep: &ast.Call{Function: "_&&_", Args: []ast.Expr{&ast.Ident{Name: accu, Position: pos}, body}, Position: pos},
		Result:   &ast.Ident{Name: accu, Position: pos},
		Position: pos,
	}
}

// lowerExists rewrites `range.exists(v, pred)`: true as soon as one element
// matches.
func lowerExists(p *Parser, target, iterArg, pred ast.Expr, pos lexer.Position) ast.Expr {
	name, ok := iterVarName(iterArg)
	if !ok {
		p.errs.Add(pos, "exists() requires an identifier as its first argument", p.source)
		name = "_"
	}
	iter := p.freshIterVar("iter")
	accu := p.freshIterVar("accu")
	body := substIterVar(pred, name, iter)
	notAccu := &ast.Call{Function: "!_", Args: []ast.Expr{&ast.Ident{Name: accu, Position: pos}}, Position: pos}
	return &ast.Comprehension{
		IterVar: iter, IterRange: target,
		AccuVar: accu, AccuInit: boolLit(false, pos),
		LoopCond: notAccu,
		LoopStep: &ast.Call{Function: "_||_", Args: []ast.Expr{&ast.Ident{Name: accu, Position: pos}, body}, Position: pos},
		Result:   &ast.Ident{Name: accu, Position: pos},
		Position: pos,
	}
}

// lowerExistsOne rewrites `range.exists_one(v, pred)`: true iff exactly one
// element matches. It cannot short-circuit (every element must be visited
// to count matches), so LoopCond is the constant true.
func lowerExistsOne(p *Parser, target, iterArg, pred ast.Expr, pos lexer.Position) ast.Expr {
	name, ok := iterVarName(iterArg)
	if !ok {
		p.errs.Add(pos, "exists_one() requires an identifier as its first argument", p.source)
		name = "_"
	}
	iter := p.freshIterVar("iter")
	accu := p.freshIterVar("accu")
	body := substIterVar(pred, name, iter)
	increment := &ast.Ternary{
		Cond: body,
		Then: &ast.Call{Function: "_+_", Args: []ast.Expr{&ast.Ident{Name: accu, Position: pos}, &ast.Literal{Value: types.Int(1), Position: pos}}, Position: pos},
		Else: &ast.Ident{Name: accu, Position: pos},
		Position: pos,
	}
	return &ast.Comprehension{
		IterVar: iter, IterRange: target,
		AccuVar: accu, AccuInit: &ast.Literal{Value: types.Int(0), Position: pos},
		LoopCond: boolLit(true, pos),
		LoopStep: increment,
		Result:   &ast.Call{Function: "_==_", Args: []ast.Expr{&ast.Ident{Name: accu, Position: pos}, &ast.Literal{Value: types.Int(1), Position: pos}}, Position: pos},
		Position: pos,
	}
}

// lowerFilter rewrites `range.filter(v, pred)` into an accumulating list
// comprehension keeping only elements pred holds for.
func lowerFilter(p *Parser, target, iterArg, pred ast.Expr, pos lexer.Position) ast.Expr {
	name, ok := iterVarName(iterArg)
	if !ok {
		p.errs.Add(pos, "filter() requires an identifier as its first argument", p.source)
		name = "_"
	}
	iter := p.freshIterVar("iter")
	accu := p.freshIterVar("accu")
	body := substIterVar(pred, name, iter)
	appended := &ast.Call{Function: "_+_", Args: []ast.Expr{
		&ast.Ident{Name: accu, Position: pos},
		&ast.ListExpr{Elems: []ast.Expr{&ast.Ident{Name: iter, Position: pos}}, Position: pos},
	}, Position: pos}
	step := &ast.Ternary{Cond: body, Then: appended, Else: &ast.Ident{Name: accu, Position: pos}, Position: pos}
	return &ast.Comprehension{
		IterVar: iter, IterRange: target,
		AccuVar: accu, AccuInit: &ast.ListExpr{Position: pos},
		LoopCond: boolLit(true, pos),
		LoopStep: step,
		Result:   &ast.Ident{Name: accu, Position: pos},
		Position: pos,
	}
}

// lowerMap rewrites both `range.map(v, transform)` and
// `range.map(v, filter, transform)` into an accumulating list
// comprehension; filterExpr is nil for the two-argument form.
func lowerMap(p *Parser, target, iterArg, filterExpr, transform ast.Expr, pos lexer.Position) ast.Expr {
	name, ok := iterVarName(iterArg)
	if !ok {
		p.errs.Add(pos, "map() requires an identifier as its first argument", p.source)
		name = "_"
	}
	iter := p.freshIterVar("iter")
	accu := p.freshIterVar("accu")
	body := substIterVar(transform, name, iter)
	appended := &ast.Call{Function: "_+_", Args: []ast.Expr{
		&ast.Ident{Name: accu, Position: pos},
		&ast.ListExpr{Elems: []ast.Expr{body}, Position: pos},
	}, Position: pos}

	var step ast.Expr = appended
	if filterExpr != nil {
		cond := substIterVar(filterExpr, name, iter)
		step = &ast.Ternary{Cond: cond, Then: appended, Else: &ast.Ident{Name: accu, Position: pos}, Position: pos}
	}

	return &ast.Comprehension{
		IterVar: iter, IterRange: target,
		AccuVar: accu, AccuInit: &ast.ListExpr{Position: pos},
		LoopCond: boolLit(true, pos),
		LoopStep: step,
		Result:   &ast.Ident{Name: accu, Position: pos},
		Position: pos,
	}
}
