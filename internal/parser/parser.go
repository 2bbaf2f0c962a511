// Package parser turns CEL source text into an internal/ast tree. It is
// pure: parsing never touches an Environment or Activation (spec §4.1).
package parser

import (
	"fmt"

	"github.com/exprlang/cel/internal/ast"
	"github.com/exprlang/cel/internal/errors"
	"github.com/exprlang/cel/internal/lexer"
)

// Parser is a recursive-descent / operator-precedence (Pratt) parser over a
// Lexer's token stream. Iteration depth for boolean/ternary/list/map/select
// chains is bounded only by maxDepth, checked iteratively rather than via
// native call-stack recursion limits, so nesting at least 32 deep (spec
// §4.1) never risks a stack overflow from pathological input.
type Parser struct {
	lex         *lexer.Lexer
	source      string
	errs        errors.ParseErrors
	cur         lexer.Token
	depth       int
	freshVar    int
	lexErrsSeen int
}

// maxDepth is far above the 32-level minimum spec §4.1 requires, since the
// parser tracks depth explicitly rather than relying on Go's call stack.
const maxDepth = 250

// New creates a Parser over source.
func New(source string) *Parser {
	p := &Parser{lex: lexer.New(source), source: source}
	p.advance()
	return p
}

// Parse parses a complete CEL expression and returns its AST, or the
// accumulated syntax errors if any were found. The parser does not
// evaluate anything (spec §4.1).
func Parse(source string) (ast.Expr, *errors.ParseErrors) {
	p := New(source)
	expr := p.parseTernary()
	if p.cur.Type != lexer.EOF {
		p.errorf("unexpected token %q", p.cur.Literal)
	}
	if p.errs.HasErrors() {
		return nil, &p.errs
	}
	return expr, nil
}

func (p *Parser) advance() {
	p.cur = p.lex.NextToken()
	all := p.lex.Errors()
	for _, lerr := range all[p.lexErrsSeen:] {
		p.errs.Add(lerr.Pos, lerr.Message, p.source)
	}
	p.lexErrsSeen = len(all)
}

func (p *Parser) peek(n int) lexer.Token { return p.lex.Peek(n) }

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs.Add(p.cur.Pos, fmt.Sprintf(format, args...), p.source)
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.cur
	if tok.Type != tt {
		p.errorf("expected %s, got %q", tt, tok.Literal)
		return tok
	}
	p.advance()
	return tok
}

func (p *Parser) enterDepth() bool {
	p.depth++
	if p.depth > maxDepth {
		p.errorf("expression nested too deeply")
		return false
	}
	return true
}

func (p *Parser) leaveDepth() { p.depth-- }

// freshIterVar produces a fresh comprehension binding name, never colliding
// across nested macros, mirroring cel.iterVar(depth, id) (spec §9).
func (p *Parser) freshIterVar(prefix string) string {
	p.freshVar++
	return fmt.Sprintf("__%s%d__", prefix, p.freshVar)
}
