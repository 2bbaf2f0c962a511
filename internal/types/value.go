// Package types implements the CEL runtime value model: a tagged sum of
// variants (Null, Bool, Int, Uint, Double, String, Bytes, Duration,
// Timestamp, List, Map, Type, Object, Error) together with the operator
// semantics CEL defines over them.
//
// Values are modeled as concrete Go types implementing a narrow Value
// interface. Operator dispatch happens in the interpreter's overload
// registry, keyed by (operator, operand type tags); the overloads held
// there call the arithmetic, equality and ordering methods (Add, Equal,
// Compare, ...) that the concrete types in this package define.
package types

import "fmt"

// Kind identifies which Value variant a value is.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindDouble
	KindString
	KindBytes
	KindDuration
	KindTimestamp
	KindList
	KindMap
	KindType
	KindObject
	KindError
)

var kindNames = [...]string{
	"null", "bool", "int", "uint", "double", "string", "bytes",
	"duration", "timestamp", "list", "map", "type", "object", "error",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is the common interface every CEL runtime value implements.
type Value interface {
	// Kind identifies the variant.
	Kind() Kind
	// Format renders the value for diagnostics (not necessarily valid CEL source).
	Format() string
}

// Equaler is implemented by values that know how to test equality
// against another Value. Equality between unrelated kinds with no
// defined overload is reported via the ok return, not an error value:
// the evaluator turns a false ok into a NoSuchOverload Error.
type Equaler interface {
	Equal(other Value) (result bool, ok bool)
}

// Comparer is implemented by values with a defined ordering.
type Comparer interface {
	Compare(other Value) (cmp int, ok bool)
}

// Type is CEL's first-class representation of a Kind, returned by type(x)
// and usable as a value in its own right (e.g. for dyn()).
type Type struct {
	Name string
}

func (t Type) Kind() Kind     { return KindType }
func (t Type) Format() string { return t.Name }
func (t Type) Equal(other Value) (bool, bool) {
	o, ok := other.(Type)
	if !ok {
		return false, false
	}
	return t.Name == o.Name, true
}

// Null is the singleton null value.
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) Format() string { return "null" }
func (Null) Equal(other Value) (bool, bool) {
	_, ok := other.(Null)
	return ok, ok
}

// Bool wraps a CEL boolean.
type Bool bool

func (Bool) Kind() Kind     { return KindBool }
func (b Bool) Format() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Equal(other Value) (bool, bool) {
	o, ok := other.(Bool)
	if !ok {
		return false, false
	}
	return b == o, true
}
func (b Bool) Compare(other Value) (int, bool) {
	o, ok := other.(Bool)
	if !ok {
		return 0, false
	}
	if b == o {
		return 0, true
	}
	if !bool(b) && bool(o) {
		return -1, true
	}
	return 1, true
}

// Error is a first-class evaluation error value. It is propagated through
// expression evaluation like any other Value and is only "thrown" to the
// caller at the top level, matching spec §4.4 / §7.
type Error struct {
	ErrKind ErrorKind
	Message string
}

// ErrorKind enumerates the evaluation error categories from spec §7.
type ErrorKind string

const (
	ErrParse               ErrorKind = "parse"
	ErrUndeclaredReference ErrorKind = "undeclared_reference"
	ErrNoSuchOverload      ErrorKind = "no_such_overload"
	ErrUnboundFunction     ErrorKind = "unbound_function"
	ErrNoSuchField         ErrorKind = "no_such_field"
	ErrNoSuchMember        ErrorKind = "no_such_member"
	ErrNoSuchKey           ErrorKind = "no_such_key"
	ErrOverflow            ErrorKind = "overflow"
	ErrDivideByZero        ErrorKind = "divide_by_zero"
	ErrModulusByZero       ErrorKind = "modulus_by_zero"
	ErrRange               ErrorKind = "range"
	ErrInvalidArgument     ErrorKind = "invalid_argument"
	ErrConversion          ErrorKind = "conversion"
	ErrUnsupportedKeyType  ErrorKind = "unsupported_key_type"
	ErrRepeatedKey         ErrorKind = "repeated_key"
	ErrCancelled           ErrorKind = "cancelled"
)

func (Error) Kind() Kind        { return KindError }
func (e Error) Format() string { return e.Message }
func (e Error) Error() string  { return e.Message }

// NewError constructs an Error value.
func NewError(kind ErrorKind, format string, args ...interface{}) Error {
	return Error{ErrKind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether v is an Error value.
func IsError(v Value) bool {
	_, ok := v.(Error)
	return ok
}

// NoSuchOverload builds the standard "no such overload" error for a
// binary or unary operator applied to operands it has no overload for.
func NoSuchOverload(op string, operands ...Value) Error {
	if len(operands) == 1 {
		return NewError(ErrNoSuchOverload, "no such overload: %s(%s)", op, operands[0].Kind())
	}
	kinds := make([]interface{}, 0, len(operands))
	for _, o := range operands {
		kinds = append(kinds, o.Kind())
	}
	format := "no such overload: %s"
	for range operands {
		format += " %s"
	}
	args := append([]interface{}{op}, kinds...)
	return NewError(ErrNoSuchOverload, format, args...)
}
