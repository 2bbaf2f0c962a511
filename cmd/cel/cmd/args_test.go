package cmd

import (
	"testing"

	"github.com/exprlang/cel/internal/types"
)

func TestParseTypedArg(t *testing.T) {
	cases := []struct {
		raw      string
		wantName string
		want     string // Format() of the expected value
	}{
		{"x:int=41", "x", "41"},
		{"x:uint=41", "x", "41u"},
		{"x:double=1.5", "x", "1.5"},
		{"name:string=cel", "name", `"cel"`},
		{"ok:bool=true", "ok", "true"},
		{"nums:list=[1,2,3]", "nums", "[1, 2, 3]"},
		{"m:map={\"a\":1}", "m", `{"a": 1}`},
	}
	for _, c := range cases {
		name, v, err := parseTypedArg(c.raw)
		if err != nil {
			t.Fatalf("parseTypedArg(%q): %v", c.raw, err)
		}
		if name != c.wantName {
			t.Errorf("parseTypedArg(%q) name = %q, want %q", c.raw, name, c.wantName)
		}
		if got := v.Format(); got != c.want {
			t.Errorf("parseTypedArg(%q) value = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestParseTypedArgRejectsMalformed(t *testing.T) {
	cases := []string{
		"noequals",
		"notype=5",
		"x:int=notanumber",
		"x:bogus=5",
	}
	for _, raw := range cases {
		if _, _, err := parseTypedArg(raw); err == nil {
			t.Errorf("parseTypedArg(%q): expected an error", raw)
		}
	}
}

func TestParseTypedArgDuration(t *testing.T) {
	_, v, err := parseTypedArg("d:duration=1h30m")
	if err != nil {
		t.Fatalf("parseTypedArg: %v", err)
	}
	if _, ok := v.(types.Duration); !ok {
		t.Fatalf("expected a Duration, got %T", v)
	}
}

func TestParseTypedArgTimestamp(t *testing.T) {
	_, v, err := parseTypedArg("t:timestamp=2023-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("parseTypedArg: %v", err)
	}
	if _, ok := v.(types.Timestamp); !ok {
		t.Fatalf("expected a Timestamp, got %T", v)
	}
}
