package types

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// String is CEL's unicode text variant. Never normalized; size() counts
// unicode code points, not bytes or UTF-16 units.
type String string

func (String) Kind() Kind       { return KindString }
func (s String) Format() string { return "\"" + string(s) + "\"" }

func (s String) Equal(other Value) (bool, bool) {
	o, ok := other.(String)
	if !ok {
		return false, false
	}
	return s == o, true
}

func (s String) Compare(other Value) (int, bool) {
	o, ok := other.(String)
	if !ok {
		return 0, false
	}
	return strings.Compare(string(s), string(o)), true
}

// Size returns the code-point length, per spec §4.2 / §8.
func (s String) Size() int { return utf8.RuneCountInString(string(s)) }

// Bytes is CEL's byte-string variant, distinct from String.
type Bytes []byte

func (Bytes) Kind() Kind       { return KindBytes }
func (b Bytes) Format() string { return "b\"" + string(b) + "\"" }

func (b Bytes) Equal(other Value) (bool, bool) {
	o, ok := other.(Bytes)
	if !ok {
		return false, false
	}
	return bytes.Equal(b, o), true
}

func (b Bytes) Compare(other Value) (int, bool) {
	o, ok := other.(Bytes)
	if !ok {
		return 0, false
	}
	return bytes.Compare(b, o), true
}

func (b Bytes) Size() int { return len(b) }
