package types

import (
	"math"
	"strconv"
)

// Int is CEL's signed 64-bit integer variant. Arithmetic overflow (including
// negating math.MinInt64, and the MinInt64/-1 division case) is reported as
// an Overflow error rather than silently wrapping, matching spec §4.2.
type Int int64

func (Int) Kind() Kind       { return KindInt }
func (i Int) Format() string { return strconv.FormatInt(int64(i), 10) }

func (i Int) Equal(other Value) (bool, bool) {
	switch o := other.(type) {
	case Int:
		return i == o, true
	case Uint:
		if i < 0 {
			return false, true
		}
		return uint64(i) == uint64(o), true
	case Double:
		return intEqualsDouble(int64(i), float64(o)), true
	}
	return false, false
}

func (i Int) Compare(other Value) (int, bool) {
	switch o := other.(type) {
	case Int:
		return cmpInt64(int64(i), int64(o)), true
	case Uint:
		if i < 0 {
			return -1, true
		}
		return cmpUint64(uint64(i), uint64(o)), true
	case Double:
		return cmpFloat(float64(i), float64(o)), true
	}
	return 0, false
}

// Add returns i+other with CEL overflow semantics.
func (i Int) Add(other Value) Value {
	o, ok := other.(Int)
	if !ok {
		return NoSuchOverload("_+_", i, other)
	}
	sum := int64(i) + int64(o)
	if (int64(o) > 0 && sum < int64(i)) || (int64(o) < 0 && sum > int64(i)) {
		return NewError(ErrOverflow, "return error for overflow")
	}
	return Int(sum)
}

func (i Int) Sub(other Value) Value {
	o, ok := other.(Int)
	if !ok {
		return NoSuchOverload("_-_", i, other)
	}
	diff := int64(i) - int64(o)
	if (int64(o) < 0 && diff < int64(i)) || (int64(o) > 0 && diff > int64(i)) {
		return NewError(ErrOverflow, "return error for overflow")
	}
	return Int(diff)
}

func (i Int) Mul(other Value) Value {
	o, ok := other.(Int)
	if !ok {
		return NoSuchOverload("_*_", i, other)
	}
	a, b := int64(i), int64(o)
	if a == 0 || b == 0 {
		return Int(0)
	}
	prod := a * b
	if prod/b != a || (a == math.MinInt64 && b == -1) {
		return NewError(ErrOverflow, "return error for overflow")
	}
	return Int(prod)
}

func (i Int) Div(other Value) Value {
	o, ok := other.(Int)
	if !ok {
		return NoSuchOverload("_/_", i, other)
	}
	if o == 0 {
		return NewError(ErrDivideByZero, "divide by zero")
	}
	if int64(i) == math.MinInt64 && int64(o) == -1 {
		return NewError(ErrOverflow, "return error for overflow")
	}
	return Int(int64(i) / int64(o))
}

func (i Int) Mod(other Value) Value {
	o, ok := other.(Int)
	if !ok {
		return NoSuchOverload("_%_", i, other)
	}
	if o == 0 {
		return NewError(ErrModulusByZero, "modulus by zero")
	}
	if int64(i) == math.MinInt64 && int64(o) == -1 {
		return NewError(ErrOverflow, "return error for overflow")
	}
	return Int(int64(i) % int64(o))
}

func (i Int) Negate() Value {
	if int64(i) == math.MinInt64 {
		return NewError(ErrOverflow, "return error for overflow")
	}
	return Int(-int64(i))
}

// Uint is CEL's unsigned 64-bit integer variant.
type Uint uint64

func (Uint) Kind() Kind       { return KindUint }
func (u Uint) Format() string { return strconv.FormatUint(uint64(u), 10) + "u" }

func (u Uint) Equal(other Value) (bool, bool) {
	switch o := other.(type) {
	case Uint:
		return u == o, true
	case Int:
		return o.Equal(u)
	case Double:
		return uintEqualsDouble(uint64(u), float64(o)), true
	}
	return false, false
}

func (u Uint) Compare(other Value) (int, bool) {
	switch o := other.(type) {
	case Uint:
		return cmpUint64(uint64(u), uint64(o)), true
	case Int:
		c, ok := o.Compare(u)
		return -c, ok
	case Double:
		return cmpFloat(float64(u), float64(o)), true
	}
	return 0, false
}

func (u Uint) Add(other Value) Value {
	o, ok := other.(Uint)
	if !ok {
		return NoSuchOverload("_+_", u, other)
	}
	sum := uint64(u) + uint64(o)
	if sum < uint64(u) {
		return NewError(ErrOverflow, "return error for overflow")
	}
	return Uint(sum)
}

func (u Uint) Sub(other Value) Value {
	o, ok := other.(Uint)
	if !ok {
		return NoSuchOverload("_-_", u, other)
	}
	if uint64(o) > uint64(u) {
		return NewError(ErrOverflow, "return error for overflow")
	}
	return Uint(uint64(u) - uint64(o))
}

func (u Uint) Mul(other Value) Value {
	o, ok := other.(Uint)
	if !ok {
		return NoSuchOverload("_*_", u, other)
	}
	a, b := uint64(u), uint64(o)
	if a == 0 || b == 0 {
		return Uint(0)
	}
	prod := a * b
	if prod/b != a {
		return NewError(ErrOverflow, "return error for overflow")
	}
	return Uint(prod)
}

func (u Uint) Div(other Value) Value {
	o, ok := other.(Uint)
	if !ok {
		return NoSuchOverload("_/_", u, other)
	}
	if o == 0 {
		return NewError(ErrDivideByZero, "divide by zero")
	}
	return Uint(uint64(u) / uint64(o))
}

func (u Uint) Mod(other Value) Value {
	o, ok := other.(Uint)
	if !ok {
		return NoSuchOverload("_%_", u, other)
	}
	if o == 0 {
		return NewError(ErrModulusByZero, "modulus by zero")
	}
	return Uint(uint64(u) % uint64(o))
}

// Double is CEL's IEEE-754 binary64 variant.
type Double float64

func (Double) Kind() Kind       { return KindDouble }
func (d Double) Format() string { return strconv.FormatFloat(float64(d), 'g', -1, 64) }

func (d Double) Equal(other Value) (bool, bool) {
	switch o := other.(type) {
	case Double:
		// CEL convention: NaN == NaN is true, unlike IEEE-754.
		if math.IsNaN(float64(d)) && math.IsNaN(float64(o)) {
			return true, true
		}
		return d == o, true
	case Int:
		return o.Equal(d)
	case Uint:
		return o.Equal(d)
	}
	return false, false
}

func (d Double) Compare(other Value) (int, bool) {
	switch o := other.(type) {
	case Double:
		return cmpFloat(float64(d), float64(o)), true
	case Int:
		c, ok := o.Compare(d)
		return -c, ok
	case Uint:
		c, ok := o.Compare(d)
		return -c, ok
	}
	return 0, false
}

func (d Double) Add(other Value) Value {
	o, ok := other.(Double)
	if !ok {
		return NoSuchOverload("_+_", d, other)
	}
	return d + o
}
func (d Double) Sub(other Value) Value {
	o, ok := other.(Double)
	if !ok {
		return NoSuchOverload("_-_", d, other)
	}
	return d - o
}
func (d Double) Mul(other Value) Value {
	o, ok := other.(Double)
	if !ok {
		return NoSuchOverload("_*_", d, other)
	}
	return d * o
}
func (d Double) Div(other Value) Value {
	o, ok := other.(Double)
	if !ok {
		return NoSuchOverload("_/_", d, other)
	}
	return d / o // IEEE-754 division by zero yields +/-Inf or NaN, not an error.
}
func (d Double) Negate() Value { return -d }

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// intEqualsDouble tests mathematical equality between an Int and a Double,
// exact even near the edges of float64's 53-bit mantissa.
func intEqualsDouble(i int64, d float64) bool {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return false
	}
	if d != math.Trunc(d) {
		return false
	}
	if d < -9.223372036854776e18 || d >= 9.223372036854776e18 {
		return false
	}
	return int64(d) == i
}

func uintEqualsDouble(u uint64, d float64) bool {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return false
	}
	if d != math.Trunc(d) {
		return false
	}
	if d >= 1.8446744073709552e19 {
		return false
	}
	return float64(u) == d
}
