// Package interp implements CEL's evaluation semantics: a tree-walking
// Evaluator over an internal/ast tree, resolving names through a layered
// Activation and functions/operators through an Environment's registry.
// Evaluation never touches the parser; it consumes an already-built AST,
// matching the parse/evaluate separation of spec §4.
package interp

import (
	"context"

	"github.com/exprlang/cel/internal/ast"
	interperrors "github.com/exprlang/cel/internal/interp/errors"
	"github.com/exprlang/cel/internal/types"
)

// Evaluator walks an AST against an Environment, producing a types.Value
// (never a Go error: every failure mode, including cancellation, is a
// first-class Error value that propagates like any other result).
type Evaluator struct {
	Env *Environment
}

// NewEvaluator returns an Evaluator bound to env.
func NewEvaluator(env *Environment) *Evaluator {
	return &Evaluator{Env: env}
}

// Eval evaluates expr against act with no cancellation.
func (e *Evaluator) Eval(expr ast.Expr, act *Activation) types.Value {
	return e.eval(context.Background(), expr, act)
}

// EvalContext evaluates expr against act, checking ctx for cancellation
// between comprehension iterations and before descending into any
// subexpression (spec §5).
func (e *Evaluator) EvalContext(ctx context.Context, expr ast.Expr, act *Activation) types.Value {
	return e.eval(ctx, expr, act)
}

func (e *Evaluator) eval(ctx context.Context, expr ast.Expr, act *Activation) types.Value {
	select {
	case <-ctx.Done():
		return interperrors.NewCancelledError(ctx.Err())
	default:
	}

	switch n := expr.(type) {
	case *ast.Literal:
		return n.Value
	case *ast.Ident:
		return e.evalIdent(n, act)
	case *ast.Select:
		return e.evalSelect(ctx, n, act)
	case *ast.Call:
		return e.evalCall(ctx, n, act)
	case *ast.ListExpr:
		return e.evalList(ctx, n, act)
	case *ast.MapExpr:
		return e.evalMap(ctx, n, act)
	case *ast.StructExpr:
		return e.evalStruct(ctx, n, act)
	case *ast.Ternary:
		return e.evalTernary(ctx, n, act)
	case *ast.Comprehension:
		return e.evalComprehension(ctx, n, act)
	default:
		return types.NewError(types.ErrParse, "unsupported AST node")
	}
}

// evalIdent resolves true/false/null as reserved constants (never
// shadowable, spec §3), then tries act against every longest-prefix
// candidate under the environment's container (spec §4.3).
func (e *Evaluator) evalIdent(n *ast.Ident, act *Activation) types.Value {
	switch n.Name {
	case "true":
		return types.Bool(true)
	case "false":
		return types.Bool(false)
	case "null":
		return types.Null{}
	}
	for _, candidate := range containerCandidates(e.Env.Container, n.Name) {
		if v, ok := act.Resolve(candidate); ok {
			return v
		}
	}
	return interperrors.NewUndeclaredReferenceError(n.Name, e.Env.Container)
}

// evalSelect implements both `.field` reads and has()'s TestOnly presence
// probe, against either a Map or an embedder-provided Object.
func (e *Evaluator) evalSelect(ctx context.Context, n *ast.Select, act *Activation) types.Value {
	recv := e.eval(ctx, n.Receiver, act)
	if types.IsError(recv) {
		return recv
	}
	switch r := recv.(type) {
	case *types.Map:
		if n.TestOnly {
			return types.Bool(r.Has(types.String(n.Field)))
		}
		return r.Get(types.String(n.Field))
	case types.Object:
		if n.TestOnly {
			return r.Has(n.Field)
		}
		return r.Field(n.Field)
	default:
		return interperrors.NewNoSuchFieldError(recv.Kind().String() + "." + n.Field)
	}
}

// evalCall evaluates a function or operator call. The short-circuiting
// logical operators are handled specially since they must control
// whether the right operand is evaluated at all; every other call
// evaluates its full argument list eagerly (receiver first, if any) and
// dispatches through the registry.
func (e *Evaluator) evalCall(ctx context.Context, n *ast.Call, act *Activation) types.Value {
	switch n.Function {
	case "_&&_":
		return e.evalAnd(ctx, n, act)
	case "_||_":
		return e.evalOr(ctx, n, act)
	}

	var args []types.Value
	if n.Target != nil {
		recv := e.eval(ctx, n.Target, act)
		args = append(args, recv)
	}
	for _, a := range n.Args {
		args = append(args, e.eval(ctx, a, act))
	}
	return e.dispatch(n.Function, args)
}

// dispatch evaluates the standard argument-error-propagation rule, then
// resolves an overload by operand kind, matching spec §4.3's function
// resolution: unknown name -> unbound function, known name with no
// matching overload -> no such overload.
func (e *Evaluator) dispatch(name string, args []types.Value) types.Value {
	for _, a := range args {
		if types.IsError(a) {
			return a
		}
	}
	kinds := make([]string, len(args))
	for i, a := range args {
		kinds[i] = a.Kind().String()
	}
	ov, known := e.Env.Registry.Lookup(name, kinds)
	if !known {
		return interperrors.NewUnboundFunctionError(name)
	}
	if ov == nil {
		return types.NoSuchOverload(name, args...)
	}
	return ov.Fn(args)
}

// evalAnd implements `&&` with CEL's symmetric error-masking rule: a
// false operand forces the result to false even if the other operand is
// an error, and the left operand short-circuits evaluation of the right
// entirely when it is already false (spec §4.4).
func (e *Evaluator) evalAnd(ctx context.Context, n *ast.Call, act *Activation) types.Value {
	left := e.eval(ctx, n.Args[0], act)
	if lb, ok := left.(types.Bool); ok && !bool(lb) {
		return types.Bool(false)
	}
	right := e.eval(ctx, n.Args[1], act)
	if rb, ok := right.(types.Bool); ok && !bool(rb) {
		return types.Bool(false)
	}
	if types.IsError(left) {
		return left
	}
	if types.IsError(right) {
		return right
	}
	lb, lok := left.(types.Bool)
	rb, rok := right.(types.Bool)
	if lok && rok && bool(lb) && bool(rb) {
		return types.Bool(true)
	}
	return types.NoSuchOverload("_&&_", left, right)
}

// evalOr is evalAnd's mirror: a true operand forces true and, on the
// left, skips evaluating the right at all.
func (e *Evaluator) evalOr(ctx context.Context, n *ast.Call, act *Activation) types.Value {
	left := e.eval(ctx, n.Args[0], act)
	if lb, ok := left.(types.Bool); ok && bool(lb) {
		return types.Bool(true)
	}
	right := e.eval(ctx, n.Args[1], act)
	if rb, ok := right.(types.Bool); ok && bool(rb) {
		return types.Bool(true)
	}
	if types.IsError(left) {
		return left
	}
	if types.IsError(right) {
		return right
	}
	lb, lok := left.(types.Bool)
	rb, rok := right.(types.Bool)
	if lok && rok && !bool(lb) && !bool(rb) {
		return types.Bool(false)
	}
	return types.NoSuchOverload("_||_", left, right)
}

func (e *Evaluator) evalTernary(ctx context.Context, n *ast.Ternary, act *Activation) types.Value {
	cond := e.eval(ctx, n.Cond, act)
	if types.IsError(cond) {
		return cond
	}
	b, ok := cond.(types.Bool)
	if !ok {
		return types.NoSuchOverload("_?_:_", cond)
	}
	if b {
		return e.eval(ctx, n.Then, act)
	}
	return e.eval(ctx, n.Else, act)
}

func (e *Evaluator) evalList(ctx context.Context, n *ast.ListExpr, act *Activation) types.Value {
	elems := make([]types.Value, len(n.Elems))
	for i, el := range n.Elems {
		v := e.eval(ctx, el, act)
		if types.IsError(v) {
			return v
		}
		elems[i] = v
	}
	return types.NewList(elems)
}

func (e *Evaluator) evalMap(ctx context.Context, n *ast.MapExpr, act *Activation) types.Value {
	entries := make([]types.MapEntry, 0, len(n.Entries))
	for _, en := range n.Entries {
		k := e.eval(ctx, en.Key, act)
		if types.IsError(k) {
			return k
		}
		v := e.eval(ctx, en.Value, act)
		if types.IsError(v) {
			return v
		}
		entries = append(entries, types.MapEntry{Key: k, Value: v})
	}
	return types.NewMap(entries)
}

// evalStruct resolves the struct's type name the same way identifiers
// resolve (spec §4.3 applies to declared message types too), then invokes
// the registered constructor with the evaluated field values.
func (e *Evaluator) evalStruct(ctx context.Context, n *ast.StructExpr, act *Activation) types.Value {
	fields := make(map[string]types.Value, len(n.Fields))
	for _, f := range n.Fields {
		v := e.eval(ctx, f.Value, act)
		if types.IsError(v) {
			return v
		}
		fields[f.Name] = v
	}
	for _, candidate := range containerCandidates(e.Env.Container, n.TypeName) {
		if factory, ok := e.Env.TypeFactories[candidate]; ok {
			return factory(fields)
		}
	}
	return interperrors.NewUndeclaredReferenceError(n.TypeName, e.Env.Container)
}

// evalComprehension implements the single lowered shape every macro
// compiles to (spec §4.4): evaluate the range and the accumulator's
// initial value, then for each element bind iter_var/accu_var in a
// transient top layer, test loop_cond (stopping early on false), and
// reassign accu_var from loop_step; finally evaluate result with only
// accu_var bound.
func (e *Evaluator) evalComprehension(ctx context.Context, n *ast.Comprehension, act *Activation) types.Value {
	rangeVal := e.eval(ctx, n.IterRange, act)
	if types.IsError(rangeVal) {
		return rangeVal
	}

	var items []types.Value
	switch r := rangeVal.(type) {
	case *types.List:
		items = r.Elems
	case *types.Map:
		items = make([]types.Value, len(r.Entries))
		for i, en := range r.Entries {
			items[i] = en.Key
		}
	default:
		return types.NewError(types.ErrNoSuchOverload, "comprehension range must be a list or map, got %s", rangeVal.Kind())
	}

	accu := e.eval(ctx, n.AccuInit, act)
	if types.IsError(accu) {
		return accu
	}

	for _, item := range items {
		select {
		case <-ctx.Done():
			return interperrors.NewCancelledError(ctx.Err())
		default:
		}

		frame := act.WithVars(map[string]types.Value{n.IterVar: item, n.AccuVar: accu})

		// LoopCond is evaluated "not strictly false": only a literal
		// Bool(false) stops the loop. An error or any other value from a
		// prior element's LoopStep must not abort the comprehension, since
		// a later element may still mask it (spec §8 scenario 3's
		// exists()-with-a-type-error-before-a-match case).
		cond := e.eval(ctx, n.LoopCond, frame)
		if b, ok := cond.(types.Bool); ok && !bool(b) {
			break
		}

		accu = e.eval(ctx, n.LoopStep, frame)
	}

	resultFrame := act.WithVars(map[string]types.Value{n.AccuVar: accu})
	return e.eval(ctx, n.Result, resultFrame)
}
