package types

// Presence describes whether a structured message field is present, absent,
// or present-but-default, per spec §6's Accessor interface. has(e.f) and
// wrapper-typed field reads both key off this distinction.
type Presence int

const (
	// PresenceAbsent: the field was never set (proto2 scalar, or a wrapper
	// left nil).
	PresenceAbsent Presence = iota
	// PresenceDefault: the field holds its zero value. For a proto3 scalar
	// this is indistinguishable from absent; for a wrapper type it still
	// counts as "set" (has() is true even though the wrapper's value is
	// the type's zero value).
	PresenceDefault
	// PresentNonDefault: the field is set to a non-zero value.
	PresentNonDefault
)

// Accessor lets an embedder expose a host-language structured message as a
// CEL Object without the core depending on any particular wire format.
// Protobuf codecs, struct reflection, or a hand-rolled map all implement
// this the same way.
type Accessor interface {
	// Field returns the named field's value and presence. An unknown field
	// name is reported by returning ok=false.
	Field(name string) (value Value, presence Presence, ok bool)
	// TypeName returns the object's fully-qualified type name, used by
	// type(x) and in diagnostics.
	TypeName() string
}

// Object wraps an embedder-provided Accessor as a first-class CEL value.
type Object struct {
	Accessor Accessor
}

func (Object) Kind() Kind       { return KindObject }
func (o Object) Format() string { return o.Accessor.TypeName() + "{...}" }

// Field resolves `.f` access: proto2/proto3 presence rules collapse to
// "return the value" here (absent fields still carry a Go zero value) while
// Has implements the stricter has() semantics.
func (o Object) Field(name string) Value {
	v, _, ok := o.Accessor.Field(name)
	if !ok {
		return NewError(ErrNoSuchField, "no such field: %s", name)
	}
	return v
}

// Has implements has(e.f) against the Accessor's presence rules:
//   - wrapper-typed fields: present iff the wrapper is set at all (even to
//     its zero value) -> PresenceDefault or PresentNonDefault.
//   - repeated/map fields: present iff nonempty -> the Accessor is expected
//     to report PresenceAbsent for an empty repeated/map field.
//   - scalar fields: proto2 -> present iff explicitly set; proto3 -> present
//     iff non-default. Both collapse to "not PresenceAbsent" here; the
//     Accessor implementation is responsible for proto2 vs proto3 scalar
//     distinctions since only it knows which dialect a field belongs to.
func (o Object) Has(name string) Value {
	_, presence, ok := o.Accessor.Field(name)
	if !ok {
		return NewError(ErrNoSuchMember, "no such member: %s", name)
	}
	return Bool(presence != PresenceAbsent)
}

func (o Object) Equal(other Value) (bool, bool) {
	p, ok := other.(Object)
	if !ok {
		return false, false
	}
	return o.Accessor == p.Accessor, true
}
