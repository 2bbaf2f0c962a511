package interp

import "github.com/exprlang/cel/internal/types"

// Activation is an immutable layered binding frame: each comprehension
// iteration and top-level Evaluate call pushes a fresh top layer rather
// than mutating a shared map, so the same base Activation can be reused
// concurrently across independent evaluations.
type Activation struct {
	parent *Activation
	vars   map[string]types.Value
}

// NewActivation builds a base Activation from a flat variable binding.
func NewActivation(vars map[string]types.Value) *Activation {
	return &Activation{vars: vars}
}

// WithVars layers additional bindings on top of a, shadowing any
// identically-named binding already visible through a.
func (a *Activation) WithVars(vars map[string]types.Value) *Activation {
	return &Activation{parent: a, vars: vars}
}

// Resolve looks up name across the frame chain, most-recently-pushed
// layer first.
func (a *Activation) Resolve(name string) (types.Value, bool) {
	for f := a; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}
