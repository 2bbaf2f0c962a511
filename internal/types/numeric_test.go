package types

import (
	"math"
	"testing"
)

func TestIntOverflow(t *testing.T) {
	max := Int(math.MaxInt64)
	if r := max.Add(Int(1)); !IsError(r) {
		t.Fatalf("expected overflow error, got %v", r)
	}
	min := Int(math.MinInt64)
	if r := min.Negate(); !IsError(r) {
		t.Fatalf("expected overflow error negating MinInt64, got %v", r)
	}
	if r := min.Mul(Int(-1)); !IsError(r) {
		t.Fatalf("expected overflow error, got %v", r)
	}
	if r := min.Div(Int(-1)); !IsError(r) {
		t.Fatalf("expected overflow error, got %v", r)
	}
}

func TestIntDivModByZero(t *testing.T) {
	if r := Int(1).Div(Int(0)); !IsError(r) {
		t.Fatalf("expected divide by zero error")
	}
	if r := Int(1).Mod(Int(0)); !IsError(r) {
		t.Fatalf("expected modulus by zero error")
	}
}

func TestUintUnderflow(t *testing.T) {
	r := Uint(0).Sub(Uint(1))
	if !IsError(r) {
		t.Fatalf("expected overflow error, got %v", r)
	}
}

func TestNumericEqualityAcrossVariants(t *testing.T) {
	i := Int(3)
	u := Uint(3)
	d := Double(3.0)
	if eq, ok := i.Equal(u); !ok || !eq {
		t.Errorf("Int(3) == Uint(3) should be true")
	}
	if eq, ok := i.Equal(d); !ok || !eq {
		t.Errorf("Int(3) == Double(3.0) should be true")
	}
	if eq, ok := u.Equal(d); !ok || !eq {
		t.Errorf("Uint(3) == Double(3.0) should be true")
	}
	lossy := Double(3.1)
	if eq, ok := i.Equal(lossy); !ok || eq {
		t.Errorf("Int(3) == Double(3.1) should be false, not error")
	}
}

func TestNaNEqualsNaN(t *testing.T) {
	nan := Double(math.NaN())
	eq, ok := nan.Equal(nan)
	if !ok || !eq {
		t.Errorf("NaN == NaN should be true per CEL convention")
	}
}

func TestBoolOrdering(t *testing.T) {
	c, ok := Bool(false).Compare(Bool(true))
	if !ok || c >= 0 {
		t.Errorf("false should compare less than true")
	}
}
