package jsonvalue

import (
	"testing"

	"github.com/exprlang/cel/internal/types"
	"github.com/tidwall/gjson"
)

func TestFromJSONScalars(t *testing.T) {
	cases := map[string]types.Value{
		`null`:  types.Null{},
		`true`:  types.Bool(true),
		`false`: types.Bool(false),
		`42`:    types.Double(42),
		`"hi"`:  types.String("hi"),
	}
	for doc, want := range cases {
		v, err := FromJSON(doc)
		if err != nil {
			t.Fatalf("FromJSON(%q): %v", doc, err)
		}
		if v != want {
			t.Fatalf("FromJSON(%q) = %#v, want %#v", doc, v, want)
		}
	}
}

func TestFromJSONArrayAndObject(t *testing.T) {
	v, err := FromJSON(`{"a": [1, 2, "x"], "b": null}`)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	m, ok := v.(*types.Map)
	if !ok {
		t.Fatalf("expected *types.Map, got %#v", v)
	}
	a := m.Get(types.String("a"))
	list, ok := a.(*types.List)
	if !ok || len(list.Elems) != 3 {
		t.Fatalf("expected 3-element list for a, got %#v", a)
	}
	if list.Elems[2] != types.String("x") {
		t.Fatalf("got %#v", list.Elems[2])
	}
	if m.Get(types.String("b")) != types.Value(types.Null{}) {
		t.Fatalf("expected null for b, got %#v", m.Get(types.String("b")))
	}
}

func TestFromJSONInvalidDocument(t *testing.T) {
	if _, err := FromJSON("{not valid"); err == nil {
		t.Fatalf("expected an error for invalid JSON")
	}
}

func TestToJSONScalars(t *testing.T) {
	cases := []struct {
		v    types.Value
		want string
	}{
		{types.Null{}, "null"},
		{types.Bool(true), "true"},
		{types.Int(-7), "-7"},
		{types.Uint(7), "7"},
		{types.Double(1.5), "1.5"},
		{types.String(`has "quotes"`), `"has \"quotes\""`},
	}
	for _, c := range cases {
		got, err := ToJSON(c.v)
		if err != nil {
			t.Fatalf("ToJSON(%#v): %v", c.v, err)
		}
		if got != c.want {
			t.Fatalf("ToJSON(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestToJSONListAndMap(t *testing.T) {
	list := types.NewList([]types.Value{types.Int(1), types.String("x"), types.Bool(false)})
	got, err := ToJSON(list)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !gjson.Valid(got) {
		t.Fatalf("ToJSON produced invalid JSON: %s", got)
	}
	if gjson.Get(got, "1").String() != "x" {
		t.Fatalf("got %s", got)
	}

	m := types.NewMap([]types.MapEntry{{Key: types.String("a.b"), Value: types.Int(1)}}).(*types.Map)
	got, err = ToJSON(m)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !gjson.Valid(got) {
		t.Fatalf("ToJSON produced invalid JSON: %s", got)
	}
	if gjson.Get(got, `a\.b`).Num != 1 {
		t.Fatalf("expected dotted key to round-trip, got %s", got)
	}
}

func TestToJSONErrorValue(t *testing.T) {
	if _, err := ToJSON(types.NewError(types.ErrDivideByZero, "divide by zero")); err == nil {
		t.Fatalf("expected an error result for an Error value")
	}
}

func TestRoundTrip(t *testing.T) {
	orig := `{"nums":[1,2,3],"name":"cel","flag":true}`
	v, err := FromJSON(orig)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	back, err := ToJSON(v)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !gjson.Valid(back) {
		t.Fatalf("round trip produced invalid JSON: %s", back)
	}
	if gjson.Get(back, "name").String() != "cel" {
		t.Fatalf("got %s", back)
	}
}
