package cel

import (
	"context"
	"testing"
	"time"

	"github.com/exprlang/cel/internal/types"
	"github.com/gkampitakis/go-snaps/snaps"
)

func mustCompile(t *testing.T, env *Env, source string) *Program {
	t.Helper()
	prog, err := env.Compile(source)
	if err != nil {
		t.Fatalf("Compile(%q): %v", source, err)
	}
	return prog
}

func TestCompileErrorReportsIssues(t *testing.T) {
	env := NewEnv()
	_, err := env.Compile("1 +")
	if err == nil {
		t.Fatal("expected a compile error")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if len(ce.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}
}

func TestEvalArithmeticAndComparison(t *testing.T) {
	env := NewEnv()
	cases := []struct {
		src  string
		want types.Value
	}{
		{"1 + 2 * 3", types.Int(7)},
		{"10 / 4", types.Int(2)},
		{"10 % 3", types.Int(1)},
		{"2.5 + 1.5", types.Double(4)},
		{"'a' + 'b'", types.String("ab")},
		{"[1, 2] + [3]", types.NewList([]types.Value{types.Int(1), types.Int(2), types.Int(3)})},
		{"3 < 5 && 5 < 10", types.Bool(true)},
		{"1 == 1.0", types.Bool(true)},
	}
	act := NewActivation(nil)
	for _, c := range cases {
		prog := mustCompile(t, env, c.src)
		got := prog.Eval(act)
		if gv, wv := got.Format(), c.want.Format(); gv != wv {
			t.Errorf("Eval(%q) = %s, want %s", c.src, gv, wv)
		}
	}
}

func TestEvalAndOrErrorMasking(t *testing.T) {
	env := NewEnv()
	act := NewActivation(map[string]Value{"err": types.NewError(types.ErrDivideByZero, "boom")})

	falseAndErr := mustCompile(t, env, "false && err")
	if got := falseAndErr.Eval(act); got != types.Value(types.Bool(false)) {
		t.Errorf("false && err = %#v, want false", got)
	}

	errAndFalse := mustCompile(t, env, "err && false")
	if got := errAndFalse.Eval(act); got != types.Value(types.Bool(false)) {
		t.Errorf("err && false = %#v, want false", got)
	}

	trueOrErr := mustCompile(t, env, "true || err")
	if got := trueOrErr.Eval(act); got != types.Value(types.Bool(true)) {
		t.Errorf("true || err = %#v, want true", got)
	}

	errOrErr := mustCompile(t, env, "err || false")
	if !IsError(errOrErr.Eval(act)) {
		t.Errorf("err || false should surface the error")
	}
}

func TestEvalVariableBindings(t *testing.T) {
	env := NewEnv()
	prog := mustCompile(t, env, "x + y")
	act := NewActivation(map[string]Value{"x": types.Int(1), "y": types.Int(2)})
	if got := prog.Eval(act); got != types.Value(types.Int(3)) {
		t.Fatalf("got %#v, want 3", got)
	}
}

func TestEvalUndeclaredReference(t *testing.T) {
	env := NewEnv()
	prog := mustCompile(t, env, "missing")
	got := prog.Eval(NewActivation(nil))
	if !IsError(got) {
		t.Fatalf("expected an error for undeclared reference, got %#v", got)
	}
}

func TestEvalMacros(t *testing.T) {
	env := NewEnv()
	act := NewActivation(map[string]Value{
		"nums": types.NewList([]types.Value{types.Int(1), types.Int(2), types.Int(3), types.Int(4)}),
	})
	cases := []struct {
		src  string
		want types.Value
	}{
		{"nums.all(n, n > 0)", types.Bool(true)},
		{"nums.exists(n, n > 3)", types.Bool(true)},
		{"nums.exists_one(n, n == 2)", types.Bool(true)},
		{"nums.filter(n, n % 2 == 0)", types.NewList([]types.Value{types.Int(2), types.Int(4)})},
		{"nums.map(n, n * 2)", types.NewList([]types.Value{types.Int(2), types.Int(4), types.Int(6), types.Int(8)})},
	}
	for _, c := range cases {
		prog := mustCompile(t, env, c.src)
		got := prog.Eval(act)
		if got.Format() != c.want.Format() {
			t.Errorf("Eval(%q) = %s, want %s", c.src, got.Format(), c.want.Format())
		}
	}
}

func TestEvalHasOnMap(t *testing.T) {
	env := NewEnv()
	prog := mustCompile(t, env, "has(m.a) && !has(m.b)")
	act := NewActivation(map[string]Value{
		"m": types.NewMap([]types.MapEntry{{Key: types.String("a"), Value: types.Int(1)}}),
	})
	if got := prog.Eval(act); got != types.Value(types.Bool(true)) {
		t.Fatalf("got %#v, want true", got)
	}
}

type fakeAccessor struct {
	typeName string
	fields   map[string]types.Value
	declared map[string]bool
}

func (f *fakeAccessor) Field(name string) (types.Value, types.Presence, bool) {
	if !f.declared[name] {
		return nil, types.PresenceAbsent, false
	}
	v, ok := f.fields[name]
	if !ok {
		return types.Null{}, types.PresenceAbsent, true
	}
	return v, types.PresentNonDefault, true
}

func (f *fakeAccessor) TypeName() string { return f.typeName }

func TestEvalStructLiteralAndFieldAccess(t *testing.T) {
	env := NewEnv(Type("Point", func(fields map[string]types.Value) types.Value {
		declared := map[string]bool{"x": true, "y": true}
		return types.Object{Accessor: &fakeAccessor{typeName: "Point", fields: fields, declared: declared}}
	}))
	prog := mustCompile(t, env, "Point{x: 1, y: 2}.x + Point{x: 1, y: 2}.y")
	if got := prog.Eval(NewActivation(nil)); got != types.Value(types.Int(3)) {
		t.Fatalf("got %#v, want 3", got)
	}
}

func TestEvalCustomFunction(t *testing.T) {
	env := NewEnv(Function("twice", []string{"int"}, func(args []types.Value) types.Value {
		return args[0].(types.Int) * 2
	}))
	prog := mustCompile(t, env, "twice(21)")
	if got := prog.Eval(NewActivation(nil)); got != types.Value(types.Int(42)) {
		t.Fatalf("got %#v, want 42", got)
	}
}

func TestEvalContainerQualifiedNames(t *testing.T) {
	env := NewEnv(Container("pkg.sub"))
	prog := mustCompile(t, env, "name")
	act := NewActivation(map[string]Value{"pkg.sub.name": types.String("qualified")})
	if got := prog.Eval(act); got != types.Value(types.String("qualified")) {
		t.Fatalf("got %#v, want qualified", got)
	}
}

func TestContextEvalCancellation(t *testing.T) {
	env := NewEnv()
	prog := mustCompile(t, env, "1 + 1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	time.Sleep(time.Millisecond)
	got := prog.ContextEval(ctx, NewActivation(nil))
	if !IsError(got) {
		t.Fatalf("expected cancellation error, got %#v", got)
	}
}

func TestProgramPrintRoundTrips(t *testing.T) {
	env := NewEnv()
	prog := mustCompile(t, env, "(1 + 2) * 3")
	printed := prog.Print()
	reprog := mustCompile(t, env, printed)
	if got, want := reprog.Eval(NewActivation(nil)), prog.Eval(NewActivation(nil)); got.Format() != want.Format() {
		t.Fatalf("round trip changed the result: got %s, want %s", got.Format(), want.Format())
	}
}

func TestJSONBridge(t *testing.T) {
	v, err := FromJSON(`{"name": "cel", "nums": [1, 2, 3]}`)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	env := NewEnv()
	prog := mustCompile(t, env, "doc.name + string(doc.nums[1])")
	act := NewActivation(map[string]Value{"doc": v})
	got := prog.Eval(act)
	if IsError(got) {
		t.Fatalf("Eval returned an error: %v", got)
	}
	out, err := ToJSON(got)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if out != `"cel2"` {
		t.Fatalf("got %s, want \"cel2\"", out)
	}
}

// TestConformanceScenarios snapshots the formatted result of a battery of
// expressions spanning the scenarios spec §8 describes, so a future
// behavior change in any of them is caught by snapshot review rather than
// a silent regression.
func TestConformanceScenarios(t *testing.T) {
	env := NewEnv()
	scenarios := []string{
		`"hello " + "world"`,
		`[1, 2, 3].map(x, x * x)`,
		`{1: "a", 2: "b"}[2]`,
		`has({"a": 1}.a)`,
		`type(1) == type(2)`,
		`1 / 0`,
		`[1, 2, 3][5]`,
		`timestamp("2023-01-01T00:00:00Z").getFullYear()`,
		`duration("1h30m").getMinutes()`,
	}
	for _, src := range scenarios {
		prog, err := env.Compile(src)
		if err != nil {
			snaps.MatchSnapshot(t, src, err.Error())
			continue
		}
		got := prog.Eval(NewActivation(nil))
		snaps.MatchSnapshot(t, src, got.Format())
	}
}
