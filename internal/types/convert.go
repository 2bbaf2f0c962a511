package types

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// roundHalfAwayFromZero implements CEL's numeric conversion rounding rule
// (spec §4.2), as opposed to Go's round-half-to-even default.
func roundHalfAwayFromZero(f float64) float64 {
	if f >= 0 {
		return math.Floor(f + 0.5)
	}
	return math.Ceil(f - 0.5)
}

// ToInt implements int(x) for every source kind the spec defines an
// overload for.
func ToInt(v Value) Value {
	switch x := v.(type) {
	case Int:
		return x
	case Uint:
		if uint64(x) > math.MaxInt64 {
			return NewError(ErrOverflow, "return error for overflow")
		}
		return Int(int64(x))
	case Double:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return NewError(ErrOverflow, "return error for overflow")
		}
		r := roundHalfAwayFromZero(float64(x))
		if r < math.MinInt64 || r >= 9223372036854775808.0 {
			return NewError(ErrOverflow, "return error for overflow")
		}
		return Int(int64(r))
	case String:
		n, err := strconv.ParseInt(string(x), 10, 64)
		if err != nil {
			return NewError(ErrConversion, "cannot convert string to int: %s", x)
		}
		return Int(n)
	case Timestamp:
		return Int(x.Seconds)
	}
	return NoSuchOverload("int", v)
}

// ToUint implements uint(x).
func ToUint(v Value) Value {
	switch x := v.(type) {
	case Uint:
		return x
	case Int:
		if x < 0 {
			return NewError(ErrOverflow, "return error for overflow")
		}
		return Uint(uint64(x))
	case Double:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) || x < 0 {
			return NewError(ErrOverflow, "return error for overflow")
		}
		r := roundHalfAwayFromZero(float64(x))
		if r >= 18446744073709551616.0 {
			return NewError(ErrOverflow, "return error for overflow")
		}
		return Uint(uint64(r))
	case String:
		n, err := strconv.ParseUint(string(x), 10, 64)
		if err != nil {
			return NewError(ErrConversion, "cannot convert string to uint: %s", x)
		}
		return Uint(n)
	}
	return NoSuchOverload("uint", v)
}

// ToDouble implements double(x).
func ToDouble(v Value) Value {
	switch x := v.(type) {
	case Double:
		return x
	case Int:
		return Double(float64(x))
	case Uint:
		return Double(float64(x))
	case String:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return NewError(ErrConversion, "cannot convert string to double: %s", x)
		}
		return Double(f)
	}
	return NoSuchOverload("double", v)
}

// ToString implements string(x).
func ToString(v Value) Value {
	switch x := v.(type) {
	case String:
		return x
	case Int:
		return String(strconv.FormatInt(int64(x), 10))
	case Uint:
		return String(strconv.FormatUint(uint64(x), 10))
	case Double:
		return String(strconv.FormatFloat(float64(x), 'g', -1, 64))
	case Bool:
		return String(x.Format())
	case Bytes:
		if !utf8.Valid(x) {
			return NewError(ErrConversion, "invalid UTF-8")
		}
		return String(string(x))
	case Timestamp:
		return String(x.Format())
	case Duration:
		return String(x.Format())
	}
	return NoSuchOverload("string", v)
}

// ToBytes implements bytes(x).
func ToBytes(v Value) Value {
	switch x := v.(type) {
	case Bytes:
		return x
	case String:
		return Bytes([]byte(x))
	}
	return NoSuchOverload("bytes", v)
}

// ToDuration implements duration(x).
func ToDuration(v Value) Value {
	s, ok := v.(String)
	if !ok {
		return NoSuchOverload("duration", v)
	}
	d, err := ParseDuration(string(s))
	if err != nil {
		return NewError(ErrRange, "range")
	}
	return d
}

// ToTimestamp implements timestamp(x).
func ToTimestamp(v Value) Value {
	switch x := v.(type) {
	case String:
		t, err := ParseTimestamp(string(x))
		if err != nil {
			return NewError(ErrRange, "range")
		}
		return t
	case Int:
		if int64(x) < minTimestampSeconds || int64(x) > maxTimestampSeconds {
			return NewError(ErrRange, "range")
		}
		return Timestamp{Seconds: int64(x)}
	}
	return NoSuchOverload("timestamp", v)
}

// ToType implements type(x).
func ToType(v Value) Value {
	return Type{Name: v.Kind().String()}
}
