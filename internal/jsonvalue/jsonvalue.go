// Package jsonvalue bridges internal/types.Value and JSON documents: it
// lets an embedder feed an arbitrary JSON document in as Activation
// bindings and get a CEL result back out as JSON (spec §6's host-value
// bridge), without depending on any fixed Go struct shape on either side.
package jsonvalue

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/exprlang/cel/internal/types"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FromJSON parses an arbitrary JSON document into a Value tree. JSON
// numbers always become Double; a caller that needs Int/Uint bindings
// converts after the fact with internal/types.ToInt/ToUint, or (like the
// CLI's typed `-a name:int=5` arguments) parses the value itself without
// this bridge, rather than this bridge guessing.
func FromJSON(doc string) (types.Value, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("jsonvalue: invalid JSON document")
	}
	return fromResult(gjson.Parse(doc)), nil
}

func fromResult(r gjson.Result) types.Value {
	switch r.Type {
	case gjson.Null:
		return types.Null{}
	case gjson.True:
		return types.Bool(true)
	case gjson.False:
		return types.Bool(false)
	case gjson.Number:
		return types.Double(r.Num)
	case gjson.String:
		return types.String(r.String())
	case gjson.JSON:
		if r.IsArray() {
			return fromArray(r)
		}
		return fromObject(r)
	default:
		return types.Null{}
	}
}

func fromArray(r gjson.Result) types.Value {
	var elems []types.Value
	r.ForEach(func(_, v gjson.Result) bool {
		elems = append(elems, fromResult(v))
		return true
	})
	return types.NewList(elems)
}

func fromObject(r gjson.Result) types.Value {
	var entries []types.MapEntry
	r.ForEach(func(k, v gjson.Result) bool {
		entries = append(entries, types.MapEntry{Key: types.String(k.String()), Value: fromResult(v)})
		return true
	})
	return types.NewMap(entries)
}

// ToJSON renders v as a JSON document. An Error value is returned as a Go
// error (it never reaches the wire as a JSON value) so callers can choose
// how to report it.
func ToJSON(v types.Value) (string, error) {
	switch x := v.(type) {
	case types.Error:
		return "", x
	case types.Null:
		return "null", nil
	case types.Bool:
		return strconv.FormatBool(bool(x)), nil
	case types.Int:
		return strconv.FormatInt(int64(x), 10), nil
	case types.Uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case types.Double:
		return strconv.FormatFloat(float64(x), 'g', -1, 64), nil
	case types.String:
		return scalarRaw(string(x))
	case types.Bytes:
		return scalarRaw(base64.StdEncoding.EncodeToString(x))
	case types.Duration:
		return scalarRaw(x.Format())
	case types.Timestamp:
		return scalarRaw(x.Format())
	case *types.List:
		return listToJSON(x)
	case *types.Map:
		return mapToJSON(x)
	default:
		return "", fmt.Errorf("jsonvalue: cannot render %s as JSON", v.Kind())
	}
}

// scalarRaw produces a correctly quoted/escaped JSON string literal by
// letting sjson do the escaping and lifting the result back out with
// gjson, rather than hand-rolling JSON string escaping.
func scalarRaw(s string) (string, error) {
	doc, err := sjson.Set("{}", "v", s)
	if err != nil {
		return "", err
	}
	return gjson.Get(doc, "v").Raw, nil
}

func listToJSON(l *types.List) (string, error) {
	doc := "[]"
	for _, e := range l.Elems {
		raw, err := ToJSON(e)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "-1", raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func mapToJSON(m *types.Map) (string, error) {
	doc := "{}"
	for _, entry := range m.Entries {
		key, ok := entry.Key.(types.String)
		if !ok {
			key = types.String(entry.Key.Format())
		}
		raw, err := ToJSON(entry.Value)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, escapeSJSONPath(string(key)), raw)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

// sjson/gjson path syntax treats '.', '*', and '?' as structural; a map
// key containing one of those characters must be escaped to be addressed
// as a single path segment rather than a nested path.
var sjsonPathEscaper = strings.NewReplacer(".", "\\.", "*", "\\*", "?", "\\?")

func escapeSJSONPath(key string) string {
	return sjsonPathEscaper.Replace(key)
}
