package parser

import (
	"testing"

	"github.com/exprlang/cel/internal/ast"
	"github.com/exprlang/cel/internal/types"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, errs := Parse(src)
	if errs != nil {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return expr
}

func TestParseLiterals(t *testing.T) {
	lit := mustParse(t, "42").(*ast.Literal)
	if lit.Value != types.Int(42) {
		t.Fatalf("got %v", lit.Value)
	}
}

func TestParseNegativeMinInt64Literal(t *testing.T) {
	lit := mustParse(t, "-9223372036854775808").(*ast.Literal)
	if lit.Value != types.Int(-9223372036854775808) {
		t.Fatalf("expected MinInt64 literal, got %v", lit.Value)
	}
}

func TestParseDoubleNegationIsRuntimeCall(t *testing.T) {
	expr := mustParse(t, "-(-9223372036854775808)")
	call, ok := expr.(*ast.Call)
	if !ok || call.Function != "-_" {
		t.Fatalf("expected a genuine unary negate call wrapping the parenthesized literal, got %#v", expr)
	}
	inner, ok := call.Args[0].(*ast.Literal)
	if !ok || inner.Value != types.Int(-9223372036854775808) {
		t.Fatalf("expected inner literal to be MinInt64, got %#v", call.Args[0])
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	// 1 + 2 * 3 should group as 1 + (2 * 3).
	expr := mustParse(t, "1 + 2 * 3").(*ast.Call)
	if expr.Function != "_+_" {
		t.Fatalf("expected top-level +, got %s", expr.Function)
	}
	rhs, ok := expr.Args[1].(*ast.Call)
	if !ok || rhs.Function != "_*_" {
		t.Fatalf("expected right operand to be a multiplication, got %#v", expr.Args[1])
	}
}

func TestParseTernaryIsRightAssociative(t *testing.T) {
	expr := mustParse(t, "a ? b : c ? d : e").(*ast.Ternary)
	if _, ok := expr.Else.(*ast.Ternary); !ok {
		t.Fatalf("expected else-branch to itself be a ternary, got %#v", expr.Else)
	}
}

func TestParseInOperator(t *testing.T) {
	expr := mustParse(t, "x in [1, 2, 3]").(*ast.Call)
	if expr.Function != "@in" {
		t.Fatalf("expected @in call, got %s", expr.Function)
	}
}

func TestParseSelectAndIndexAndCallChain(t *testing.T) {
	expr := mustParse(t, "a.b[0].c()")
	call, ok := expr.(*ast.Call)
	if !ok || call.Function != "c" {
		t.Fatalf("expected trailing call to c, got %#v", expr)
	}
	idx, ok := call.Target.(*ast.Call)
	if !ok || idx.Function != "_[_]" {
		t.Fatalf("expected index expression as call target, got %#v", call.Target)
	}
}

func TestParseHasLowersToTestOnlySelect(t *testing.T) {
	expr := mustParse(t, "has(msg.field)").(*ast.Select)
	if !expr.TestOnly || expr.Field != "field" {
		t.Fatalf("expected TestOnly select on field, got %#v", expr)
	}
}

func TestParseHasRejectsNonSelectArgument(t *testing.T) {
	_, errs := Parse("has(x)")
	if errs == nil || !errs.HasErrors() {
		t.Fatalf("expected a parse error for has(x)")
	}
}

func TestParseAllMacroLowersToComprehension(t *testing.T) {
	expr := mustParse(t, "[1, 2, 3].all(x, x > 0)")
	comp, ok := expr.(*ast.Comprehension)
	if !ok {
		t.Fatalf("expected Comprehension, got %#v", expr)
	}
	if comp.AccuVar == comp.IterVar {
		t.Fatalf("accu and iter vars must be distinct fresh names")
	}
}

func TestParseNestedMacrosUseDistinctFreshVars(t *testing.T) {
	expr := mustParse(t, "[1, 2].all(x, [3, 4].all(y, x < y))")
	outer, ok := expr.(*ast.Comprehension)
	if !ok {
		t.Fatalf("expected outer Comprehension, got %#v", expr)
	}
	loopStep, ok := outer.LoopStep.(*ast.Call)
	if !ok {
		t.Fatalf("expected loop step call, got %#v", outer.LoopStep)
	}
	inner, ok := loopStep.Args[1].(*ast.Comprehension)
	if !ok {
		t.Fatalf("expected inner comprehension nested in loop step, got %#v", loopStep.Args[1])
	}
	if inner.IterVar == outer.IterVar || inner.AccuVar == outer.AccuVar {
		t.Fatalf("nested macro vars collided with outer: outer=%s/%s inner=%s/%s",
			outer.IterVar, outer.AccuVar, inner.IterVar, inner.AccuVar)
	}
}

func TestParseMapMacroThreeArgForm(t *testing.T) {
	expr := mustParse(t, "[1, 2, 3].map(x, x > 1, x * 2)")
	comp, ok := expr.(*ast.Comprehension)
	if !ok {
		t.Fatalf("expected Comprehension, got %#v", expr)
	}
	if _, ok := comp.LoopStep.(*ast.Ternary); !ok {
		t.Fatalf("expected filtered map() to produce a ternary loop step, got %#v", comp.LoopStep)
	}
}

func TestParseStructLiteral(t *testing.T) {
	expr := mustParse(t, "Point{x: 1, y: 2}").(*ast.StructExpr)
	if expr.TypeName != "Point" || len(expr.Fields) != 2 {
		t.Fatalf("got %#v", expr)
	}
}

func TestParseMapLiteral(t *testing.T) {
	expr := mustParse(t, `{"a": 1, "b": 2}`).(*ast.MapExpr)
	if len(expr.Entries) != 2 {
		t.Fatalf("got %#v", expr)
	}
}

func TestParseSyntaxErrorIncludesSourceContext(t *testing.T) {
	_, errs := Parse("1 +")
	if errs == nil || !errs.HasErrors() {
		t.Fatalf("expected a parse error")
	}
	formatted := errs.Error()
	if formatted == "" {
		t.Fatalf("expected non-empty formatted error")
	}
}
