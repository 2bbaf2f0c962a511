package parser

import (
	"github.com/exprlang/cel/internal/ast"
	"github.com/exprlang/cel/internal/lexer"
)

// precedence levels, lowest to highest, matching spec §4.1's grammar:
// ternary < || < && < relational/in < additive < multiplicative < unary < postfix.
type precedence int

const (
	precLowest precedence = iota
	precTernary
	precOr
	precAnd
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

// binaryOp describes one infix operator: its precedence, left/right
// associativity via the "next" precedence passed to the recursive call, and
// the function name the Call node carries for evaluator dispatch.
type binaryOp struct {
	prec precedence
	fn   string
}

var binaryOps = map[lexer.TokenType]binaryOp{
	lexer.OR:  {precOr, "_||_"},
	lexer.AND: {precAnd, "_&&_"},
	lexer.EQ:  {precRelational, "_==_"},
	lexer.NE:  {precRelational, "_!=_"},
	lexer.LT:  {precRelational, "_<_"},
	lexer.LE:  {precRelational, "_<=_"},
	lexer.GT:  {precRelational, "_>_"},
	lexer.GE:  {precRelational, "_>=_"},
	lexer.PLUS:    {precAdditive, "_+_"},
	lexer.MINUS:   {precAdditive, "_-_"},
	lexer.STAR:    {precMultiplicative, "_*_"},
	lexer.SLASH:   {precMultiplicative, "_/_"},
	lexer.PERCENT: {precMultiplicative, "_%_"},
}

// parseExpr parses a binary-operator chain (||, &&, relational, `in`,
// additive, multiplicative) at or above minPrec. It never consumes a
// trailing `?:` — ternary binds looser than every binary operator and is
// only recognized by parseTernary, matching the grammar's
// `conditionalOr ('?' conditionalOr ':' expr)?` shape.
func (p *Parser) parseExpr(minPrec precedence) ast.Expr {
	if !p.enterDepth() {
		return &ast.Literal{Position: p.cur.Pos}
	}
	defer p.leaveDepth()

	left := p.parseUnary()

	for {
		if p.cur.Type == lexer.IDENT && p.cur.Literal == "in" && precRelational > minPrec {
			pos := p.cur.Pos
			p.advance()
			right := p.parseExpr(precRelational)
			left = &ast.Call{Function: "@in", Args: []ast.Expr{left, right}, Position: pos}
			continue
		}
		op, known := binaryOps[p.cur.Type]
		if !known || op.prec <= minPrec {
			break
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseExpr(op.prec)
		left = &ast.Call{Function: op.fn, Args: []ast.Expr{left, right}, Position: pos}
	}

	return left
}

// parseTernary parses a full expression: a binary chain optionally
// followed by `? then : else`. The else-branch recurses into parseTernary
// itself so `a ? b : c ? d : e` is right-associative, while the then-branch
// is restricted to a binary chain (no bare nested ternary without
// parentheses), matching spec §4.1's grammar.
func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseExpr(precLowest)
	if p.cur.Type != lexer.QUESTION {
		return cond
	}
	pos := p.cur.Pos
	p.advance()
	thenExpr := p.parseExpr(precLowest)
	p.expect(lexer.COLON)
	elseExpr := p.parseTernary()
	return &ast.Ternary{Cond: cond, Then: thenExpr, Else: elseExpr, Position: pos}
}

// parsePostfix applies `.field`, `.method(args)` and `[index]` suffixes
// (including to the `has(recv.field)` rewrite's own Select, which comes in
// already TestOnly from parseIdentOrMacroOrStruct). A free call
// `name(args)` is parsed by parseIdentOrMacroOrStruct, not here.
func (p *Parser) parsePostfix(expr ast.Expr) ast.Expr {
	for {
		switch p.cur.Type {
		case lexer.DOT:
			pos := p.cur.Pos
			p.advance()
			name := p.expect(lexer.IDENT).Literal
			if p.cur.Type == lexer.LPAREN {
				args := p.parseArgList()
				if macroCall, ok := lowerMacro(p, expr, name, args, pos); ok {
					expr = macroCall
					continue
				}
				expr = &ast.Call{Target: expr, Function: name, Args: args, Position: pos}
				continue
			}
			expr = &ast.Select{Receiver: expr, Field: name, Position: pos}
		case lexer.LBRACKET:
			pos := p.cur.Pos
			p.advance()
			index := p.parseTernary()
			p.expect(lexer.RBRACKET)
			expr = &ast.Call{Function: "_[_]", Args: []ast.Expr{expr, index}, Position: pos}
		default:
			return expr
		}
	}
}

// parseArgList parses a parenthesized, comma-separated argument list; the
// opening LPAREN must be the current token.
func (p *Parser) parseArgList() []ast.Expr {
	p.expect(lexer.LPAREN)
	var args []ast.Expr
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		args = append(args, p.parseTernary())
		if p.cur.Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return args
}

// parseListLiteral parses `[e1, e2, ...]`.
func (p *Parser) parseListLiteral() ast.Expr {
	pos := p.cur.Pos
	p.advance() // consume '['
	var elems []ast.Expr
	for p.cur.Type != lexer.RBRACKET && p.cur.Type != lexer.EOF {
		elems = append(elems, p.parseTernary())
		if p.cur.Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACKET)
	return &ast.ListExpr{Elems: elems, Position: pos}
}

// parseMapLiteral parses `{k1: v1, k2: v2, ...}`. typeName is empty for a
// bare map literal and non-empty when called from a `Name{...}` struct
// literal, in which case field names are bare identifiers rather than
// arbitrary key expressions.
func (p *Parser) parseMapLiteral(typeName string) ast.Expr {
	pos := p.cur.Pos
	p.advance() // consume '{'

	if typeName != "" {
		var fields []ast.StructField
		for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
			name := p.expect(lexer.IDENT).Literal
			p.expect(lexer.COLON)
			value := p.parseTernary()
			fields = append(fields, ast.StructField{Name: name, Value: value})
			if p.cur.Type == lexer.COMMA {
				p.advance()
				continue
			}
			break
		}
		p.expect(lexer.RBRACE)
		return &ast.StructExpr{TypeName: typeName, Fields: fields, Position: pos}
	}

	var entries []ast.MapEntry
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		key := p.parseTernary()
		p.expect(lexer.COLON)
		value := p.parseTernary()
		entries = append(entries, ast.MapEntry{Key: key, Value: value})
		if p.cur.Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE)
	return &ast.MapExpr{Entries: entries, Position: pos}
}

// parseIdentOrMacroOrStruct handles every primary expression that starts
// with a bare identifier: a namespaced-qualified identifier chain
// (`a.b.c`, resolved at eval time by longest-prefix matching, spec §4.3),
// a free-function call, the `has(...)` pseudo-macro, or a `Name{...}`
// struct literal.
func (p *Parser) parseIdentOrMacroOrStruct() ast.Expr {
	tok := p.cur
	p.advance()

	if tok.Literal == "has" && p.cur.Type == lexer.LPAREN {
		args := p.parseArgList()
		return lowerHas(p, args, tok.Pos)
	}

	if p.cur.Type == lexer.LPAREN {
		args := p.parseArgList()
		return &ast.Call{Function: tok.Literal, Args: args, Position: tok.Pos}
	}

	if p.cur.Type == lexer.LBRACE && isTypeName(tok.Literal) {
		return p.parseMapLiteral(tok.Literal)
	}

	// Qualified name chain: consume `.IDENT` hops eagerly. qualified tracks
	// the dotted name so far as long as every hop has been a plain
	// identifier (no call or index yet), so `pkg.sub.Name{...}` still
	// resolves to a single struct literal; once broken it stays empty and
	// `.IDENT` followed by `{` is left alone (handled by the caller as an
	// ordinary select, since a bare map literal can't follow `.name`).
	expr := ast.Expr(&ast.Ident{Name: tok.Literal, Position: tok.Pos})
	qualified := tok.Literal
	for p.cur.Type == lexer.DOT {
		if p.peek(0).Type != lexer.IDENT {
			break
		}
		p.advance()
		name := p.cur
		p.advance()
		switch {
		case p.cur.Type == lexer.LPAREN:
			args := p.parseArgList()
			if macroCall, ok := lowerMacro(p, expr, name.Literal, args, name.Pos); ok {
				expr = macroCall
				qualified = ""
				continue
			}
			expr = &ast.Call{Target: expr, Function: name.Literal, Args: args, Position: name.Pos}
			qualified = ""
		case p.cur.Type == lexer.LBRACE && qualified != "":
			qualified += "." + name.Literal
			return p.parseMapLiteral(qualified)
		default:
			expr = &ast.Select{Receiver: expr, Field: name.Literal, Position: name.Pos}
			if qualified != "" {
				qualified += "." + name.Literal
			}
		}
	}
	return expr
}

// isTypeName is a syntactic heuristic: struct-literal type names are
// conventionally capitalized (`Name{...}`) or dotted; a bare lowercase
// identifier followed by `{` is never a struct literal in practice, so it
// is left to the general map/ident-chain path and ultimately a parse
// error if misused.
func isTypeName(ident string) bool {
	return len(ident) > 0 && ident[0] >= 'A' && ident[0] <= 'Z'
}
