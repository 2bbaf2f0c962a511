// Package registry holds the function-overload table the evaluator
// dispatches named calls through. It is a leaf package (no dependency on
// internal/interp itself) so that internal/interp/builtins can populate a
// Registry without creating an import cycle back into the evaluator.
package registry

import "github.com/exprlang/cel/internal/types"

// Overload is one entry registered under a function name: a fixed-arity
// signature of operand kinds (or the "dyn" wildcard) and the Go function
// that implements it. Receiver-style calls (x.f(y)) and free-function
// calls (f(x, y)) are normalized to the same flat argument list before
// reaching here, so one Overload serves both call styles.
type Overload struct {
	Name   string
	Params []string
	Fn     func(args []types.Value) types.Value
}

func (o *Overload) matches(argKinds []string) bool {
	if len(o.Params) != len(argKinds) {
		return false
	}
	for i, p := range o.Params {
		if p != "dyn" && p != argKinds[i] {
			return false
		}
	}
	return true
}

// Registry is a keyed table of function overloads, mirroring the
// teacher's runtime operator registry: entries grouped by name, resolved
// by a positional operand-kind match at call time.
type Registry struct {
	entries map[string][]*Overload
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string][]*Overload)}
}

// Register adds one overload under name. Multiple overloads may share a
// name as long as their parameter signatures differ.
func (r *Registry) Register(name string, params []string, fn func(args []types.Value) types.Value) {
	r.entries[name] = append(r.entries[name], &Overload{Name: name, Params: params, Fn: fn})
}

// Lookup finds the overload of name whose Params match argKinds
// positionally. known reports whether name has any overload registered at
// all, distinguishing an unbound function from an unmatched overload set.
func (r *Registry) Lookup(name string, argKinds []string) (ov *Overload, known bool) {
	list, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	for _, o := range list {
		if o.matches(argKinds) {
			return o, true
		}
	}
	return nil, true
}

// Clone returns a shallow copy, letting an Environment start from a
// shared set of default overloads and layer its own registrations on top
// without mutating the original.
func (r *Registry) Clone() *Registry {
	clone := New()
	for name, list := range r.entries {
		copied := make([]*Overload, len(list))
		copy(copied, list)
		clone.entries[name] = copied
	}
	return clone
}
