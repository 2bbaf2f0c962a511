package builtins

import (
	"regexp"
	"strings"

	"github.com/exprlang/cel/internal/interp/registry"
	"github.com/exprlang/cel/internal/types"
)

// registerStringFunctions wires size() (receiver or free form) and the
// string member-function library (startsWith/endsWith/contains/matches).
// The regex engine itself is consumed only through the standard library's
// regexp package, matching the language's own stance of exposing regular
// expressions through an interface rather than a bespoke engine.
func registerStringFunctions(r *registry.Registry) {
	r.Register("size", []string{"dyn"}, func(args []types.Value) types.Value {
		switch v := args[0].(type) {
		case types.String:
			return types.Int(v.Size())
		case types.Bytes:
			return types.Int(v.Size())
		case *types.List:
			return types.Int(v.Size())
		case *types.Map:
			return types.Int(v.Size())
		}
		return types.NoSuchOverload("size", args[0])
	})

	r.Register("startsWith", []string{"string", "string"}, func(args []types.Value) types.Value {
		return types.Bool(strings.HasPrefix(string(args[0].(types.String)), string(args[1].(types.String))))
	})
	r.Register("endsWith", []string{"string", "string"}, func(args []types.Value) types.Value {
		return types.Bool(strings.HasSuffix(string(args[0].(types.String)), string(args[1].(types.String))))
	})
	r.Register("contains", []string{"string", "string"}, func(args []types.Value) types.Value {
		return types.Bool(strings.Contains(string(args[0].(types.String)), string(args[1].(types.String))))
	})
	r.Register("matches", []string{"string", "string"}, func(args []types.Value) types.Value {
		re, err := regexp.Compile(string(args[1].(types.String)))
		if err != nil {
			return types.NewError(types.ErrInvalidArgument, "invalid regular expression: %s", err)
		}
		return types.Bool(re.MatchString(string(args[0].(types.String))))
	})
}
