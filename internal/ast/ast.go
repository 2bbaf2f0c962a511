// Package ast defines the CEL abstract syntax tree. Every iteration macro
// the parser recognizes lowers to a Comprehension node (spec §3), and has()
// lowers to a TestOnly Select; there is no separate macro node kind.
package ast

import (
	"github.com/exprlang/cel/internal/lexer"
	"github.com/exprlang/cel/internal/types"
)

// Node is the common interface of every AST node.
type Node interface {
	Pos() lexer.Position
}

// Expr is a CEL expression node. CEL is a pure expression language: there
// are no statement nodes.
type Expr interface {
	Node
	exprNode()
}

// Literal carries an already-evaluated constant Value straight from the
// parser (int/uint/double/string/bytes/bool/null literals).
type Literal struct {
	Value    types.Value
	Position lexer.Position
}

func (l *Literal) exprNode()          {}
func (l *Literal) Pos() lexer.Position { return l.Position }

// Ident is a bare identifier reference, resolved through the Activation's
// longest-prefix chain at evaluation time (spec §4.3/§4.4).
type Ident struct {
	Name     string
	Position lexer.Position
}

func (i *Ident) exprNode()          {}
func (i *Ident) Pos() lexer.Position { return i.Position }

// Select is `recv.field`. TestOnly is set when this node was produced by
// lowering has(recv.field): the evaluator must then produce a presence Bool
// instead of the field's value.
type Select struct {
	Receiver Expr
	Field    string
	TestOnly bool
	Position lexer.Position
}

func (s *Select) exprNode()          {}
func (s *Select) Pos() lexer.Position { return s.Position }

// Call is `function(args...)` or `target.function(args...)`. Target is nil
// for a free function call.
type Call struct {
	Target   Expr
	Function string
	Args     []Expr
	Position lexer.Position
}

func (c *Call) exprNode()          {}
func (c *Call) Pos() lexer.Position { return c.Position }

// ListExpr is a `[e1, e2, ...]` literal.
type ListExpr struct {
	Elems    []Expr
	Position lexer.Position
}

func (l *ListExpr) exprNode()          {}
func (l *ListExpr) Pos() lexer.Position { return l.Position }

// MapEntry is one `key: value` pair of a MapExpr or field of a StructExpr.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapExpr is a `{k1: v1, k2: v2, ...}` literal.
type MapExpr struct {
	Entries  []MapEntry
	Position lexer.Position
}

func (m *MapExpr) exprNode()          {}
func (m *MapExpr) Pos() lexer.Position { return m.Position }

// StructField is one `name: value` field of a StructExpr.
type StructField struct {
	Name  string
	Value Expr
}

// StructExpr is a `Name{field: expr, ...}` message-construction literal.
type StructExpr struct {
	TypeName string
	Fields   []StructField
	Position lexer.Position
}

func (s *StructExpr) exprNode()          {}
func (s *StructExpr) Pos() lexer.Position { return s.Position }

// Comprehension is the lowered form every iteration macro (all/exists/
// exists_one/map/filter) desugars to; `has()` lowers to a Select with
// TestOnly set instead. IterVar and AccuVar are fresh, never colliding with
// outer bindings or with each other in nested macros (spec §4.4).
type Comprehension struct {
	IterVar   string
	IterRange Expr
	AccuVar   string
	AccuInit  Expr
	LoopCond  Expr
	LoopStep  Expr
	Result    Expr
	Position  lexer.Position
}

func (c *Comprehension) exprNode()          {}
func (c *Comprehension) Pos() lexer.Position { return c.Position }

// Ternary is `cond ? then : alt`, kept as its own node (rather than lowered
// to a Call) because the evaluator must only evaluate the chosen branch.
type Ternary struct {
	Cond     Expr
	Then     Expr
	Else     Expr
	Position lexer.Position
}

func (t *Ternary) exprNode()          {}
func (t *Ternary) Pos() lexer.Position { return t.Position }
