// Package cel is the public embedding surface: build an Env, Compile an
// expression into a Program, and Eval it against an Activation of
// variable bindings. Everything else (lexing, parsing, the AST, the
// registry-driven evaluator) is an internal implementation detail.
package cel

import (
	"context"
	"fmt"
	"strings"

	"github.com/exprlang/cel/internal/ast"
	"github.com/exprlang/cel/internal/interp"
	"github.com/exprlang/cel/internal/jsonvalue"
	"github.com/exprlang/cel/internal/parser"
	"github.com/exprlang/cel/internal/types"
	"github.com/exprlang/cel/pkg/celprint"
)

// Value is a CEL result: an Int, Uint, Double, Bool, String, Bytes,
// Duration, Timestamp, *List, *Map, Object, Type, Null, or Error.
type Value = types.Value

// Accessor lets an embedder expose a host-language struct as a CEL
// Object; see internal/types for the full Field/TypeName contract.
type Accessor = types.Accessor

// Presence describes whether an Accessor field was set (spec §6).
type Presence = types.Presence

const (
	PresenceAbsent    = types.PresenceAbsent
	PresenceDefault   = types.PresenceDefault
	PresentNonDefault = types.PresentNonDefault
)

// Env binds a namespace container, a function/operator registry, and a
// set of struct-literal type constructors that every Program compiled
// from it shares.
type Env struct {
	env *interp.Environment
}

// Option configures an Env at construction time.
type Option func(*Env)

// Container sets the namespace dotted-prefix expressions in this Env
// resolve identifiers and struct-literal type names against (spec §4.3).
func Container(name string) Option {
	return func(e *Env) { e.env.Container = name }
}

// Function registers a custom overload, in addition to the standard
// function library every Env starts with.
func Function(name string, paramKinds []string, fn func(args []types.Value) types.Value) Option {
	return func(e *Env) { e.env.RegisterFunction(name, paramKinds, fn) }
}

// Type registers a struct-literal constructor for `Name{field: value}`
// expressions, typically building an Object over an embedder Accessor.
func Type(name string, factory func(fields map[string]types.Value) types.Value) Option {
	return func(e *Env) { e.env.RegisterType(name, factory) }
}

// NewEnv builds an Env with the standard function library already
// registered, applying opts on top.
func NewEnv(opts ...Option) *Env {
	e := &Env{env: interp.NewEnvironment("")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CompileError is returned by Compile for a source that fails to parse.
// It carries every syntax error found, not just the first, mirroring the
// teacher's best-effort multi-error diagnostics.
type CompileError struct {
	Source string
	Issues []Issue
}

// Issue is one syntax error's position and message.
type Issue struct {
	Line    int
	Column  int
	Message string
}

func (c *CompileError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cel: %d syntax error(s)", len(c.Issues))
	for _, iss := range c.Issues {
		fmt.Fprintf(&sb, "\n  %d:%d: %s", iss.Line, iss.Column, iss.Message)
	}
	return sb.String()
}

// Program is a parsed expression bound to the Env it was compiled from.
type Program struct {
	expr ast.Expr
	eval *interp.Evaluator
}

// Compile parses source and returns a Program ready to Eval, or a
// *CompileError with every syntax error the parser collected.
func (e *Env) Compile(source string) (*Program, error) {
	expr, errs := parser.Parse(source)
	if errs != nil {
		issues := make([]Issue, len(errs.Errors))
		for i, se := range errs.Errors {
			issues[i] = Issue{Line: se.Pos.Line, Column: se.Pos.Column, Message: se.Message}
		}
		return nil, &CompileError{Source: source, Issues: issues}
	}
	return &Program{expr: expr, eval: interp.NewEvaluator(e.env)}, nil
}

// Print renders the compiled expression back to canonical CEL source
// (spec §8's parse/print round trip).
func (p *Program) Print() string {
	return celprint.Print(p.expr)
}

// Eval runs the program against act with no cancellation.
func (p *Program) Eval(act *Activation) Value {
	return p.eval.Eval(p.expr, act.raw)
}

// ContextEval runs the program against act, checking ctx for
// cancellation between comprehension iterations and before evaluating
// any subexpression (spec §5).
func (p *Program) ContextEval(ctx context.Context, act *Activation) Value {
	return p.eval.EvalContext(ctx, p.expr, act.raw)
}

// Activation holds the variable bindings a Program evaluates against.
type Activation struct {
	raw *interp.Activation
}

// NewActivation builds an Activation from a flat set of bindings.
func NewActivation(vars map[string]Value) *Activation {
	return &Activation{raw: interp.NewActivation(vars)}
}

// WithVars layers additional bindings on top of a, shadowing any
// identically-named binding already visible through it.
func (a *Activation) WithVars(vars map[string]Value) *Activation {
	return &Activation{raw: a.raw.WithVars(vars)}
}

// IsError reports whether v is a CEL Error value (as opposed to a Go
// error returned from Compile).
func IsError(v Value) bool {
	return types.IsError(v)
}

// FromJSON parses an arbitrary JSON document into a Value, for embedders
// that want to bind a whole document as a single variable without
// declaring a Go struct shape for it (spec §6's host-value bridge).
func FromJSON(doc string) (Value, error) {
	return jsonvalue.FromJSON(doc)
}

// ToJSON renders a Value as a JSON document. It fails if v is itself an
// Error, since an Error never has a JSON representation.
func ToJSON(v Value) (string, error) {
	return jsonvalue.ToJSON(v)
}
