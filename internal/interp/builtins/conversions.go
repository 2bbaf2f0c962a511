package builtins

import (
	"github.com/exprlang/cel/internal/interp/registry"
	"github.com/exprlang/cel/internal/types"
)

// registerConversions wires the int()/uint()/double()/string()/bytes()/
// duration()/timestamp() conversion functions. Each types.To* helper
// already dispatches on the argument's concrete kind and returns
// NoSuchOverload itself, so a single "dyn" overload per function name is
// enough; the registry is not asked to enumerate accepted source kinds.
func registerConversions(r *registry.Registry) {
	conv := map[string]func(types.Value) types.Value{
		"int":       types.ToInt,
		"uint":      types.ToUint,
		"double":    types.ToDouble,
		"string":    types.ToString,
		"bytes":     types.ToBytes,
		"duration":  types.ToDuration,
		"timestamp": types.ToTimestamp,
	}
	for name, fn := range conv {
		fn := fn
		r.Register(name, []string{"dyn"}, func(args []types.Value) types.Value {
			return fn(args[0])
		})
	}
}
