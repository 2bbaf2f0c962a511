package types

import (
	"math"
	"strings"
)

// List is CEL's ordered, heterogeneous sequence variant.
type List struct {
	Elems []Value
}

func NewList(elems []Value) *List { return &List{Elems: elems} }

func (*List) Kind() Kind { return KindList }

func (l *List) Format() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range l.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.Format())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (l *List) Size() int { return len(l.Elems) }

// Get returns the element at index i, or a structured error for
// out-of-range access, per spec §4.2.
func (l *List) Get(i Value) Value {
	idx, ok := i.(Int)
	if !ok {
		return NewError(ErrInvalidArgument, "index must be an integer")
	}
	if int64(idx) < 0 || int64(idx) >= int64(len(l.Elems)) {
		return NewError(ErrInvalidArgument, "index out of range: %d", int64(idx))
	}
	return l.Elems[idx]
}

func (l *List) Equal(other Value) (bool, bool) {
	o, ok := other.(*List)
	if !ok {
		return false, false
	}
	if len(l.Elems) != len(o.Elems) {
		return false, true
	}
	for i := range l.Elems {
		eq, ok := valueEqual(l.Elems[i], o.Elems[i])
		if !ok || !eq {
			return false, ok
		}
	}
	return true, true
}

// Contains implements `e in list`: an equality error on one element is
// masked if a later element equals e (spec §4.2 Containment).
func (l *List) Contains(e Value) Value {
	sawErr := false
	for _, elem := range l.Elems {
		eq, ok := valueEqual(e, elem)
		if !ok {
			sawErr = true
			continue
		}
		if eq {
			return Bool(true)
		}
	}
	if sawErr {
		return NoSuchOverload("_==_", e)
	}
	return Bool(false)
}

// valueEqual is the shared cross-kind equality helper used by list/map
// equality, containment and map lookup. The evaluator's `==` operator
// applies the same Equaler.Equal rule through builtins.equalValues.
func valueEqual(a, b Value) (bool, bool) {
	if ae, ok := a.(Equaler); ok {
		return ae.Equal(b)
	}
	return false, false
}

// MapEntry is one key/value pair of a Map, kept in insertion order because
// iteration order (while not part of equality) must be deterministic.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map is CEL's Key->Value variant. Keys are restricted to Bool, Int, Uint,
// and String; construction enforces that restriction and rejects duplicate
// keys, per spec §3/§4.2.
type Map struct {
	Entries []MapEntry
}

// NewMap builds a Map from entries evaluated in source order, enforcing the
// key-type and duplicate-key invariants. Returns an Error value rather than
// a Go error so callers can surface it as a CEL evaluation result directly.
func NewMap(entries []MapEntry) Value {
	for i, e := range entries {
		switch e.Key.(type) {
		case Bool, Int, Uint, String:
		case Null:
			return NewError(ErrUnsupportedKeyType, "unsupported key type: null")
		case Double:
			return NewError(ErrUnsupportedKeyType, "unsupported key type: double")
		default:
			return NewError(ErrUnsupportedKeyType, "unsupported key type: %s", e.Key.Kind())
		}
		for j := 0; j < i; j++ {
			if eq, ok := valueEqual(e.Key, entries[j].Key); ok && eq {
				return NewError(ErrRepeatedKey, "Failed with repeated key: %s", e.Key.Format())
			}
		}
	}
	return &Map{Entries: entries}
}

func (*Map) Kind() Kind { return KindMap }

func (m *Map) Format() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range m.Entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.Key.Format())
		sb.WriteString(": ")
		sb.WriteString(e.Value.Format())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (m *Map) Size() int { return len(m.Entries) }

// find returns the entry whose key exactly equals key (cross-numeric-aware
// via valueEqual), and whether the probe itself was well-typed.
func (m *Map) find(key Value) (MapEntry, bool, bool) {
	for _, e := range m.Entries {
		eq, ok := valueEqual(key, e.Key)
		if ok && eq {
			return e, true, true
		}
	}
	return MapEntry{}, false, true
}

// Get implements `m[k]` / `m.k`: any miss, whether from an absent key or an
// unsupported key type, is reported as NoSuchKey per spec §4.2.
func (m *Map) Get(key Value) Value {
	switch key.(type) {
	case Bool, Int, Uint, Double, String:
	default:
		return NewError(ErrNoSuchKey, "no such key: %s", key.Format())
	}
	entry, found, _ := m.find(key)
	if !found {
		return NewError(ErrNoSuchKey, "no such key: %s", key.Format())
	}
	return entry.Value
}

// Has implements the map side of has(e.f): true iff the key is present.
func (m *Map) Has(key Value) bool {
	_, found, _ := m.find(key)
	return found
}

// Contains implements `k in m`. A key that cannot possibly match any entry
// because it is a non-integral Double surfaces NoSuchKey instead of false,
// per the §9 open-question resolution (3.1 has no exact integer
// representation so it can never match a Bool/Int/Uint/String key).
func (m *Map) Contains(key Value) Value {
	entry, found, _ := m.find(key)
	if found {
		_ = entry
		return Bool(true)
	}
	if d, ok := key.(Double); ok {
		if math.IsNaN(float64(d)) || math.Trunc(float64(d)) != float64(d) {
			return NewError(ErrNoSuchKey, "no such key: %s", key.Format())
		}
	}
	return Bool(false)
}

func (m *Map) Equal(other Value) (bool, bool) {
	o, ok := other.(*Map)
	if !ok {
		return false, false
	}
	if len(m.Entries) != len(o.Entries) {
		return false, true
	}
	for _, e := range m.Entries {
		oe, found, _ := o.find(e.Key)
		if !found {
			return false, true
		}
		eq, ok := valueEqual(e.Value, oe.Value)
		if !ok || !eq {
			return false, ok
		}
	}
	return true, true
}
