package interp

import (
	"strings"

	"github.com/exprlang/cel/internal/interp/builtins"
	"github.com/exprlang/cel/internal/interp/registry"
	"github.com/exprlang/cel/internal/types"
)

// Environment binds a namespace container to a function/operator registry
// and a set of embedder-provided struct-literal constructors. It carries
// no variable bindings of its own; those live in an Activation supplied
// per evaluation.
type Environment struct {
	// Container is the namespace CEL's longest-prefix resolution (spec
	// §4.3) is relative to: dotted, with no leading or trailing dot.
	Container string

	Registry *registry.Registry

	// TypeFactories maps a (possibly container-qualified) type name to a
	// constructor invoked for `Name{field: value, ...}` struct literals.
	TypeFactories map[string]func(fields map[string]types.Value) types.Value
}

// NewEnvironment returns an Environment over container with the standard
// function library already registered.
func NewEnvironment(container string) *Environment {
	reg := registry.New()
	builtins.RegisterDefaults(reg)
	return &Environment{
		Container:     container,
		Registry:      reg,
		TypeFactories: make(map[string]func(map[string]types.Value) types.Value),
	}
}

// RegisterFunction adds a custom overload to the environment's registry,
// for embedder-provided functions beyond the standard library.
func (e *Environment) RegisterFunction(name string, params []string, fn func(args []types.Value) types.Value) {
	e.Registry.Register(name, params, fn)
}

// RegisterType associates a struct-literal type name with a constructor,
// so `Name{...}` expressions can build embedder-defined Objects.
func (e *Environment) RegisterType(name string, factory func(fields map[string]types.Value) types.Value) {
	e.TypeFactories[name] = factory
}

// containerCandidates returns the longest-prefix resolution order for
// name under container: container-qualified forms from most to least
// specific, then the bare name, per spec §4.3. It applies identically to
// identifiers and to struct-literal type names.
func containerCandidates(container, name string) []string {
	if container == "" {
		return []string{name}
	}
	parts := strings.Split(container, ".")
	candidates := make([]string, 0, len(parts)+1)
	for i := len(parts); i > 0; i-- {
		candidates = append(candidates, strings.Join(parts[:i], ".")+"."+name)
	}
	candidates = append(candidates, name)
	return candidates
}
