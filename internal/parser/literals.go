package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/exprlang/cel/internal/ast"
	"github.com/exprlang/cel/internal/lexer"
	"github.com/exprlang/cel/internal/types"
)

// parseIntLiteral converts a lexer INT token's text (decimal or 0x-prefixed
// hex, never signed) into an int64, rejecting magnitudes that do not fit a
// positive int64 (a bare literal can never reach math.MinInt64: only the
// "-" NUM_INT grammar combination below can).
func parseIntLiteral(text string) (int64, bool) {
	u, err := parseUintMagnitude(text)
	if err != nil || u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

// parseNegatedIntLiteral converts a literal magnitude text immediately
// preceded by unary "-" into an int64, allowing exactly math.MinInt64 (spec
// §8 scenario: `-9223372036854775808` parses to Int(MinInt64), not an
// overflow; only negating an already-parsed MinInt64 at eval time
// overflows).
func parseNegatedIntLiteral(text string) (int64, bool) {
	u, err := parseUintMagnitude(text)
	if err != nil {
		return 0, false
	}
	if u > uint64(math.MaxInt64)+1 {
		return 0, false
	}
	if u == uint64(math.MaxInt64)+1 {
		return math.MinInt64, true
	}
	return -int64(u), true
}

func parseUintMagnitude(text string) (uint64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return strconv.ParseUint(text[2:], 16, 64)
	}
	return strconv.ParseUint(text, 10, 64)
}

// parseUintLiteral converts a lexer UINT token's text (trailing u/U already
// stripped by the lexer) to a uint64.
func parseUintLiteral(text string) (uint64, bool) {
	u, err := parseUintMagnitude(text)
	if err != nil {
		return 0, false
	}
	return u, true
}

func parseDoubleLiteral(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parsePrimary handles literals, identifiers, parenthesized groups, list
// and map/struct literals, and the leading token of a member-access chain.
// Postfix `.field`, `.method(args)` and `[index]` are applied by
// parsePostfix; a free call `name(args)` is parsed with its identifier.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur
	switch tok.Type {
	case lexer.INT:
		p.advance()
		n, ok := parseIntLiteral(tok.Literal)
		if !ok {
			p.errs.Add(tok.Pos, "invalid integer literal: "+tok.Literal, p.source)
			n = 0
		}
		return &ast.Literal{Value: types.Int(n), Position: tok.Pos}
	case lexer.UINT:
		p.advance()
		n, ok := parseUintLiteral(tok.Literal)
		if !ok {
			p.errs.Add(tok.Pos, "invalid unsigned integer literal: "+tok.Literal, p.source)
			n = 0
		}
		return &ast.Literal{Value: types.Uint(n), Position: tok.Pos}
	case lexer.DOUBLE:
		p.advance()
		f, ok := parseDoubleLiteral(tok.Literal)
		if !ok {
			p.errs.Add(tok.Pos, "invalid floating point literal: "+tok.Literal, p.source)
			f = 0
		}
		return &ast.Literal{Value: types.Double(f), Position: tok.Pos}
	case lexer.STRING:
		p.advance()
		return &ast.Literal{Value: types.String(tok.Literal), Position: tok.Pos}
	case lexer.BYTES:
		p.advance()
		return &ast.Literal{Value: types.Bytes(tok.Literal), Position: tok.Pos}
	case lexer.IDENT:
		return p.parseIdentOrMacroOrStruct()
	case lexer.LPAREN:
		p.advance()
		inner := p.parseTernary()
		p.expect(lexer.RPAREN)
		return inner
	case lexer.LBRACKET:
		return p.parseListLiteral()
	case lexer.LBRACE:
		return p.parseMapLiteral("")
	case lexer.MINUS:
		return p.parseUnaryMinus()
	case lexer.NOT:
		return p.parseUnaryNot()
	default:
		p.errorf("unexpected token %q", tok.Literal)
		p.advance()
		return &ast.Literal{Value: types.NewError(types.ErrParse, "unexpected token"), Position: tok.Pos}
	}
}

// parseUnaryMinus implements spec §8's negative-literal grammar rule:
// "-" immediately followed by an INT or DOUBLE token folds into a single
// Literal, which is the only way -9223372036854775808 is representable;
// any other operand recurses and is wrapped in a genuine unary negate call
// so that double negation through parentheses produces a real Negate
// operation (and can overflow) rather than collapsing back to a literal.
func (p *Parser) parseUnaryMinus() ast.Expr {
	pos := p.cur.Pos
	p.advance() // consume '-'
	switch p.cur.Type {
	case lexer.INT:
		tok := p.cur
		p.advance()
		n, ok := parseNegatedIntLiteral(tok.Literal)
		if !ok {
			p.errs.Add(tok.Pos, "integer literal out of range: -"+tok.Literal, p.source)
			n = 0
		}
		return &ast.Literal{Value: types.Int(n), Position: pos}
	case lexer.DOUBLE:
		tok := p.cur
		p.advance()
		f, ok := parseDoubleLiteral(tok.Literal)
		if !ok {
			p.errs.Add(tok.Pos, "invalid floating point literal: "+tok.Literal, p.source)
		}
		return &ast.Literal{Value: types.Double(-f), Position: pos}
	default:
		operand := p.parseUnary()
		return &ast.Call{Function: "-_", Args: []ast.Expr{operand}, Position: pos}
	}
}

func (p *Parser) parseUnaryNot() ast.Expr {
	pos := p.cur.Pos
	p.advance() // consume '!'
	operand := p.parseUnary()
	return &ast.Call{Function: "!_", Args: []ast.Expr{operand}, Position: pos}
}

// parseUnary parses a single unary-precedence operand: a run of prefix
// `!`/`-` operators applied to a postfix expression.
func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Type {
	case lexer.MINUS:
		return p.parseUnaryMinus()
	case lexer.NOT:
		return p.parseUnaryNot()
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}
