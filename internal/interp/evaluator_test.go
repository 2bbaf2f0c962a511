package interp

import (
	"context"
	"testing"

	"github.com/exprlang/cel/internal/parser"
	"github.com/exprlang/cel/internal/types"
)

func eval(t *testing.T, env *Environment, act *Activation, src string) types.Value {
	t.Helper()
	expr, errs := parser.Parse(src)
	if errs != nil {
		t.Fatalf("parse %q: %v", src, errs)
	}
	return NewEvaluator(env).Eval(expr, act)
}

func TestEvalArithmeticOverflow(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "9223372036854775807 + 1")
	if err, ok := v.(types.Error); !ok || err.ErrKind != types.ErrOverflow {
		t.Fatalf("expected overflow error, got %#v", v)
	}
}

func TestEvalDivideByZero(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "1 / 0")
	if err, ok := v.(types.Error); !ok || err.ErrKind != types.ErrDivideByZero {
		t.Fatalf("expected divide-by-zero error, got %#v", v)
	}
}

func TestEvalAndShortCircuitsOnFalse(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "false && (1/0 > 0)")
	if v != types.Bool(false) {
		t.Fatalf("expected false, got %#v", v)
	}
}

func TestEvalAndMasksErrorWhenOtherSideFalse(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "(1/0 > 0) && false")
	if v != types.Bool(false) {
		t.Fatalf("expected masked false, got %#v", v)
	}
}

func TestEvalAndSurfacesErrorWhenLeftTrue(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "true && (1/0 > 0)")
	if err, ok := v.(types.Error); !ok || err.ErrKind != types.ErrDivideByZero {
		t.Fatalf("expected divide-by-zero to surface, got %#v", v)
	}
}

func TestEvalOrShortCircuitsOnTrue(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "true || (1/0 > 0)")
	if v != types.Bool(true) {
		t.Fatalf("expected true, got %#v", v)
	}
}

func TestEvalOrMasksErrorWhenOtherSideTrue(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "(1/0 > 0) || true")
	if v != types.Bool(true) {
		t.Fatalf("expected masked true, got %#v", v)
	}
}

func TestEvalTernary(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), `true ? "yes" : "no"`)
	if v != types.String("yes") {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalIdentResolvesFromActivation(t *testing.T) {
	env := NewEnvironment("")
	act := NewActivation(map[string]types.Value{"x": types.Int(42)})
	v := eval(t, env, act, "x + 1")
	if v != types.Int(43) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalIdentUndeclaredReference(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "y")
	if err, ok := v.(types.Error); !ok || err.ErrKind != types.ErrUndeclaredReference {
		t.Fatalf("expected undeclared reference, got %#v", v)
	}
}

func TestEvalContainerLongestPrefixResolution(t *testing.T) {
	env := NewEnvironment("a.b")
	act := NewActivation(map[string]types.Value{"a.x": types.Int(1), "x": types.Int(2)})
	if v := eval(t, env, act, "x"); v != types.Int(1) {
		t.Fatalf("expected container-qualified binding to win, got %#v", v)
	}
}

func TestEvalListIndexAndContainment(t *testing.T) {
	env := NewEnvironment("")
	act := NewActivation(nil)
	if v := eval(t, env, act, "[1, 2, 3][1]"); v != types.Int(2) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, "2 in [1, 2, 3]"); v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalMapSelectAndHas(t *testing.T) {
	env := NewEnvironment("")
	act := NewActivation(nil)
	if v := eval(t, env, act, `{"a": 1}.a`); v != types.Int(1) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, `has({"a": 1}.a)`); v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, `has({"a": 1}.b)`); v != types.Bool(false) {
		t.Fatalf("got %#v", v)
	}
}

// fakeAccessor models a declared-fields set with a declared-but-unset
// field ("unset"), distinct from a name the type has never heard of
// ("missing" is absent from declared entirely).
type fakeAccessor struct {
	typeName string
	fields   map[string]types.Value
	declared map[string]bool
}

func (f fakeAccessor) Field(name string) (types.Value, types.Presence, bool) {
	if !f.declared[name] {
		return nil, types.PresenceAbsent, false
	}
	v, ok := f.fields[name]
	if !ok {
		return types.Int(0), types.PresenceAbsent, true
	}
	return v, types.PresentNonDefault, true
}
func (f fakeAccessor) TypeName() string { return f.typeName }

func TestEvalObjectFieldAndHas(t *testing.T) {
	env := NewEnvironment("")
	obj := types.Object{Accessor: fakeAccessor{
		typeName: "pkg.Msg",
		fields:   map[string]types.Value{"name": types.String("ok")},
		declared: map[string]bool{"name": true, "unset": true},
	}}
	act := NewActivation(map[string]types.Value{"msg": obj})
	if v := eval(t, env, act, "msg.name"); v != types.String("ok") {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, "has(msg.name)"); v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, "has(msg.unset)"); v != types.Bool(false) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, "has(msg.missing)"); !types.IsError(v) {
		t.Fatalf("expected no-such-member error for a genuinely undeclared field, got %#v", v)
	}
}

func TestEvalStructLiteralInvokesRegisteredFactory(t *testing.T) {
	env := NewEnvironment("")
	env.RegisterType("Point", func(fields map[string]types.Value) types.Value {
		declared := make(map[string]bool, len(fields))
		for k := range fields {
			declared[k] = true
		}
		return types.Object{Accessor: fakeAccessor{typeName: "Point", fields: fields, declared: declared}}
	})
	v := eval(t, env, NewActivation(nil), "Point{x: 1, y: 2}.x")
	if v != types.Int(1) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalAllMacro(t *testing.T) {
	env := NewEnvironment("")
	act := NewActivation(nil)
	if v := eval(t, env, act, "[1, 2, 3].all(x, x > 0)"); v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, "[1, -2, 3].all(x, x > 0)"); v != types.Bool(false) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalExistsMacro(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "[1, 2, 3].exists(x, x == 2)")
	if v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalExistsMacroMasksEarlierTypeError(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), `[1, "foo", 3].exists(e, e != "1")`)
	if v != types.Bool(true) {
		t.Fatalf("a later true element should mask an earlier type error, got %#v", v)
	}
}

func TestEvalAllMacroSurfacesErrorWithoutADeterminingFalse(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), `[1, "foo"].all(e, e != "1")`)
	if _, ok := v.(types.Error); !ok {
		t.Fatalf("expected the type error to survive when no element is false, got %#v", v)
	}
}

func TestEvalExistsOneMacro(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "[1, 2, 2, 3].exists_one(x, x == 2)")
	if v != types.Bool(false) {
		t.Fatalf("expected exists_one to reject a duplicate match, got %#v", v)
	}
}

func TestEvalFilterMacro(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "[1, 2, 3, 4].filter(x, x % 2 == 0)")
	list, ok := v.(*types.List)
	if !ok || len(list.Elems) != 2 {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalMapMacroTwoAndThreeArgForms(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "[1, 2, 3].map(x, x * 2)")
	list, ok := v.(*types.List)
	if !ok || len(list.Elems) != 3 || list.Elems[0] != types.Int(2) {
		t.Fatalf("got %#v", v)
	}
	v = eval(t, env, NewActivation(nil), "[1, 2, 3, 4].map(x, x % 2 == 0, x * 10)")
	list, ok = v.(*types.List)
	if !ok || len(list.Elems) != 2 || list.Elems[0] != types.Int(20) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalNestedMacrosDoNotCollide(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "[1, 2].all(x, [3, 4].all(y, x < y))")
	if v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalMapComprehensionRangeIteratesKeys(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), `{"a": 1, "b": 2}.all(k, size(k) == 1)`)
	if v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalStringFunctions(t *testing.T) {
	env := NewEnvironment("")
	act := NewActivation(nil)
	if v := eval(t, env, act, `"hello".startsWith("he")`); v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, `"hello".contains("ell")`); v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, `"hello".matches("^h.*o$")`); v != types.Bool(true) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, `size("hello")`); v != types.Int(5) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalConversions(t *testing.T) {
	env := NewEnvironment("")
	act := NewActivation(nil)
	if v := eval(t, env, act, `int("42")`); v != types.Int(42) {
		t.Fatalf("got %#v", v)
	}
	if v := eval(t, env, act, `string(42)`); v != types.String("42") {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalTypeFunction(t *testing.T) {
	env := NewEnvironment("")
	v := eval(t, env, NewActivation(nil), "type(1)")
	if v != (types.Type{Name: "int"}) {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalUnboundFunctionVsNoSuchOverload(t *testing.T) {
	env := NewEnvironment("")
	act := NewActivation(nil)
	v := eval(t, env, act, "1.frobnicate()")
	if err, ok := v.(types.Error); !ok || err.ErrKind != types.ErrUnboundFunction {
		t.Fatalf("expected unbound function, got %#v", v)
	}
	v = eval(t, env, act, `1 + "x"`)
	if err, ok := v.(types.Error); !ok || err.ErrKind != types.ErrNoSuchOverload {
		t.Fatalf("expected no such overload, got %#v", v)
	}
}

func TestEvalContextCancellation(t *testing.T) {
	env := NewEnvironment("")
	expr, errs := parser.Parse("[1, 2, 3].all(x, x > 0)")
	if errs != nil {
		t.Fatalf("parse: %v", errs)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := NewEvaluator(env).EvalContext(ctx, expr, NewActivation(nil))
	if err, ok := v.(types.Error); !ok || err.ErrKind != types.ErrCancelled {
		t.Fatalf("expected cancelled error, got %#v", v)
	}
}

func TestEvalDurationTimestampArithmetic(t *testing.T) {
	env := NewEnvironment("")
	act := NewActivation(nil)
	v := eval(t, env, act, `duration("1h") + duration("30m")`)
	d, ok := v.(types.Duration)
	if !ok || d.Seconds != 5400 {
		t.Fatalf("got %#v", v)
	}
}

func TestContainerCandidatesOrder(t *testing.T) {
	got := containerCandidates("a.b.c", "x")
	want := []string{"a.b.c.x", "a.b.x", "a.x", "x"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
