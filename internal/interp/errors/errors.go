// Package errors is the evaluation error-kind catalog: one named
// constructor per internal/types.ErrorKind, mirroring the teacher's
// category-constructor style (NewTypeError, NewRuntimeError, ...) without
// introducing a second error representation — every constructor still
// returns a types.Error, which is itself a first-class CEL Value.
package errors

import "github.com/exprlang/cel/internal/types"

func NewUndeclaredReferenceError(name, container string) types.Error {
	return types.NewError(types.ErrUndeclaredReference, "undeclared reference to '%s' (in container '%s')", name, container)
}

func NewUnboundFunctionError(name string) types.Error {
	return types.NewError(types.ErrUnboundFunction, "unbound function: %s", name)
}

func NewNoSuchFieldError(name string) types.Error {
	return types.NewError(types.ErrNoSuchField, "no such field: %s", name)
}

func NewNoSuchMemberError(name string) types.Error {
	return types.NewError(types.ErrNoSuchMember, "no such member: %s", name)
}

func NewInvalidArgumentError(format string, args ...interface{}) types.Error {
	return types.NewError(types.ErrInvalidArgument, format, args...)
}

func NewCancelledError(cause error) types.Error {
	return types.NewError(types.ErrCancelled, "evaluation cancelled: %s", cause)
}

// NoSuchOverload re-exports types.NoSuchOverload so call sites that only
// import this catalog package can still build the one error kind that
// needs the full operand list rather than a formatted message.
func NoSuchOverload(op string, operands ...types.Value) types.Error {
	return types.NoSuchOverload(op, operands...)
}
