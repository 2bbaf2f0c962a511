// Package builtins populates a registry.Registry with the standard
// function and operator library CEL expressions dispatch through: the
// primitive operators (+, -, *, /, %, comparisons, equality, indexing,
// containment), the string/conversion function library, and the
// timestamp/duration accessor methods.
package builtins

import (
	"github.com/exprlang/cel/internal/interp/registry"
	"github.com/exprlang/cel/internal/types"
)

// RegisterDefaults populates r with every overload the core language
// requires. Evaluator-level short-circuit forms (_&&_, _||_, the ternary)
// are not registered here: they need control over whether an operand is
// evaluated at all, which a registry of already-evaluated-argument
// overloads cannot express.
func RegisterDefaults(r *registry.Registry) {
	registerArithmetic(r)
	registerComparison(r)
	registerEquality(r)
	registerUnary(r)
	registerIndexAndContainment(r)
	registerConversions(r)
	registerStringFunctions(r)
	registerTemporalAccessors(r)
	registerTypeFunctions(r)
}

type adder interface{ Add(types.Value) types.Value }
type subber interface{ Sub(types.Value) types.Value }
type muler interface{ Mul(types.Value) types.Value }
type diver interface{ Div(types.Value) types.Value }
type moder interface{ Mod(types.Value) types.Value }
type negater interface{ Negate() types.Value }

func registerArithmetic(r *registry.Registry) {
	numeric := []string{"int", "uint", "double"}
	for _, k := range numeric {
		k := k
		r.Register("_+_", []string{k, k}, func(args []types.Value) types.Value {
			return args[0].(adder).Add(args[1])
		})
		r.Register("_-_", []string{k, k}, func(args []types.Value) types.Value {
			return args[0].(subber).Sub(args[1])
		})
		r.Register("_*_", []string{k, k}, func(args []types.Value) types.Value {
			return args[0].(muler).Mul(args[1])
		})
		r.Register("_/_", []string{k, k}, func(args []types.Value) types.Value {
			return args[0].(diver).Div(args[1])
		})
	}
	for _, k := range []string{"int", "uint"} {
		r.Register("_%_", []string{k, k}, func(args []types.Value) types.Value {
			return args[0].(moder).Mod(args[1])
		})
	}

	// String, bytes, and list concatenation share the "+" operator but have
	// no Add method on the types themselves since concatenation isn't a
	// numeric operation; it is implemented here directly.
	r.Register("_+_", []string{"string", "string"}, func(args []types.Value) types.Value {
		return args[0].(types.String) + args[1].(types.String)
	})
	r.Register("_+_", []string{"bytes", "bytes"}, func(args []types.Value) types.Value {
		a, b := args[0].(types.Bytes), args[1].(types.Bytes)
		out := make(types.Bytes, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		return out
	})
	r.Register("_+_", []string{"list", "list"}, func(args []types.Value) types.Value {
		a, b := args[0].(*types.List), args[1].(*types.List)
		out := make([]types.Value, 0, len(a.Elems)+len(b.Elems))
		out = append(out, a.Elems...)
		out = append(out, b.Elems...)
		return types.NewList(out)
	})

	// Duration/timestamp arithmetic.
	r.Register("_+_", []string{"duration", "duration"}, func(args []types.Value) types.Value {
		return args[0].(types.Duration).AddDuration(args[1].(types.Duration))
	})
	r.Register("_+_", []string{"timestamp", "duration"}, func(args []types.Value) types.Value {
		return args[0].(types.Timestamp).AddDuration(args[1].(types.Duration))
	})
	r.Register("_+_", []string{"duration", "timestamp"}, func(args []types.Value) types.Value {
		return args[1].(types.Timestamp).AddDuration(args[0].(types.Duration))
	})
	r.Register("_-_", []string{"duration", "duration"}, func(args []types.Value) types.Value {
		return args[0].(types.Duration).SubDuration(args[1].(types.Duration))
	})
	r.Register("_-_", []string{"timestamp", "duration"}, func(args []types.Value) types.Value {
		return args[0].(types.Timestamp).SubDuration(args[1].(types.Duration))
	})
	r.Register("_-_", []string{"timestamp", "timestamp"}, func(args []types.Value) types.Value {
		return args[0].(types.Timestamp).SubTimestamp(args[1].(types.Timestamp))
	})
}

func registerComparison(r *registry.Registry) {
	ops := map[string]func(cmp int) bool{
		"_<_":  func(c int) bool { return c < 0 },
		"_<=_": func(c int) bool { return c <= 0 },
		"_>_":  func(c int) bool { return c > 0 },
		"_>=_": func(c int) bool { return c >= 0 },
	}
	kinds := []string{"int", "uint", "double", "string", "bytes", "bool", "duration", "timestamp"}
	for fn, test := range ops {
		fn, test := fn, test
		for _, a := range kinds {
			for _, b := range kinds {
				a, b := a, b
				r.Register(fn, []string{a, b}, func(args []types.Value) types.Value {
					cmp, ok := args[0].(types.Comparer).Compare(args[1])
					if !ok {
						return types.NoSuchOverload(fn, args...)
					}
					return types.Bool(test(cmp))
				})
			}
		}
	}
}

func registerEquality(r *registry.Registry) {
	kinds := []string{
		"null", "bool", "int", "uint", "double", "string", "bytes",
		"duration", "timestamp", "list", "map", "type", "object",
	}
	for _, a := range kinds {
		for _, b := range kinds {
			a, b := a, b
			r.Register("_==_", []string{a, b}, func(args []types.Value) types.Value {
				eq, ok := equalValues(args[0], args[1])
				if !ok {
					return types.NoSuchOverload("_==_", args...)
				}
				return types.Bool(eq)
			})
			r.Register("_!=_", []string{a, b}, func(args []types.Value) types.Value {
				eq, ok := equalValues(args[0], args[1])
				if !ok {
					return types.NoSuchOverload("_!=_", args...)
				}
				return types.Bool(!eq)
			})
		}
	}
}

func equalValues(a, b types.Value) (bool, bool) {
	eq, ok := a.(types.Equaler)
	if !ok {
		return false, false
	}
	return eq.Equal(b)
}

func registerUnary(r *registry.Registry) {
	r.Register("-_", []string{"int"}, func(args []types.Value) types.Value {
		return args[0].(negater).Negate()
	})
	r.Register("-_", []string{"double"}, func(args []types.Value) types.Value {
		return -args[0].(types.Double)
	})
	r.Register("!_", []string{"bool"}, func(args []types.Value) types.Value {
		return !args[0].(types.Bool)
	})
}

func registerIndexAndContainment(r *registry.Registry) {
	for _, idxKind := range []string{"int", "uint", "double", "bool", "string"} {
		idxKind := idxKind
		r.Register("_[_]", []string{"list", idxKind}, func(args []types.Value) types.Value {
			return args[0].(*types.List).Get(args[1])
		})
		r.Register("_[_]", []string{"map", idxKind}, func(args []types.Value) types.Value {
			return args[0].(*types.Map).Get(args[1])
		})
		r.Register("@in", []string{idxKind, "list"}, func(args []types.Value) types.Value {
			return args[1].(*types.List).Contains(args[0])
		})
		r.Register("@in", []string{idxKind, "map"}, func(args []types.Value) types.Value {
			return args[1].(*types.Map).Contains(args[0])
		})
	}
}

func registerTypeFunctions(r *registry.Registry) {
	for _, k := range []string{
		"null", "bool", "int", "uint", "double", "string", "bytes",
		"duration", "timestamp", "list", "map", "type", "object",
	} {
		r.Register("type", []string{k}, func(args []types.Value) types.Value {
			return types.ToType(args[0])
		})
	}
	r.Register("dyn", []string{"dyn"}, func(args []types.Value) types.Value {
		return args[0]
	})
}
