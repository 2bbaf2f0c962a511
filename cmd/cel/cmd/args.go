package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/exprlang/cel/internal/jsonvalue"
	"github.com/exprlang/cel/internal/types"
)

// parseTypedArg parses one `-a name:type=value` flag value into a binding
// name and a Value, using the type tag to pick the conversion instead of
// guessing from syntax the way the JSON bridge does.
func parseTypedArg(raw string) (string, types.Value, error) {
	nameType, value, ok := strings.Cut(raw, "=")
	if !ok {
		return "", nil, fmt.Errorf("malformed -a argument %q, want name:type=value", raw)
	}
	name, typeTag, ok := strings.Cut(nameType, ":")
	if !ok {
		return "", nil, fmt.Errorf("malformed -a argument %q, want name:type=value", raw)
	}
	v, err := parseTypedValue(typeTag, value)
	if err != nil {
		return "", nil, fmt.Errorf("-a %s: %w", name, err)
	}
	return name, v, nil
}

func parseTypedValue(typeTag, value string) (types.Value, error) {
	switch typeTag {
	case "int":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int %q: %w", value, err)
		}
		return types.Int(n), nil
	case "uint":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid uint %q: %w", value, err)
		}
		return types.Uint(n), nil
	case "double":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid double %q: %w", value, err)
		}
		return types.Double(f), nil
	case "string":
		return types.String(value), nil
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q: %w", value, err)
		}
		return types.Bool(b), nil
	case "bytes":
		return types.Bytes([]byte(value)), nil
	case "duration":
		d, err := types.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		return d, nil
	case "timestamp":
		ts, err := types.ParseTimestamp(value)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
		return ts, nil
	case "list":
		v, err := jsonvalue.FromJSON(value)
		if err != nil {
			return nil, fmt.Errorf("invalid list literal %q: %w", value, err)
		}
		if _, ok := v.(*types.List); !ok {
			return nil, fmt.Errorf("list literal %q did not parse to a list", value)
		}
		return v, nil
	case "map":
		v, err := jsonvalue.FromJSON(value)
		if err != nil {
			return nil, fmt.Errorf("invalid map literal %q: %w", value, err)
		}
		if v.Kind() != types.KindMap {
			return nil, fmt.Errorf("map literal %q did not parse to a map", value)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown type tag %q", typeTag)
	}
}
