package builtins

import (
	"github.com/exprlang/cel/internal/interp/registry"
	"github.com/exprlang/cel/internal/types"
)

// registerTemporalAccessors wires the timestamp and duration accessor
// method libraries. Each timestamp accessor has a bare form (implicit
// UTC) and a two-argument form taking an IANA zone name or a fixed
// "+HH:MM"/"-HH:MM" offset.
func registerTemporalAccessors(r *registry.Registry) {
	type tsAccessor func(types.Timestamp, string) (types.Value, error)

	accessors := map[string]tsAccessor{
		"getFullYear":     types.Timestamp.GetFullYear,
		"getMonth":        types.Timestamp.GetMonth,
		"getDayOfYear":    types.Timestamp.GetDayOfYear,
		"getDayOfMonth":   types.Timestamp.GetDayOfMonth,
		"getDate":         types.Timestamp.GetDate,
		"getDayOfWeek":    types.Timestamp.GetDayOfWeek,
		"getHours":        types.Timestamp.GetHours,
		"getMinutes":      types.Timestamp.GetMinutes,
		"getSeconds":      types.Timestamp.GetSeconds,
		"getMilliseconds": types.Timestamp.GetMilliseconds,
	}
	for name, accessor := range accessors {
		accessor := accessor
		r.Register(name, []string{"timestamp"}, func(args []types.Value) types.Value {
			v, err := accessor(args[0].(types.Timestamp), "")
			if err != nil {
				return types.NewError(types.ErrInvalidArgument, "%s", err)
			}
			return v
		})
		r.Register(name, []string{"timestamp", "string"}, func(args []types.Value) types.Value {
			v, err := accessor(args[0].(types.Timestamp), string(args[1].(types.String)))
			if err != nil {
				return types.NewError(types.ErrInvalidArgument, "%s", err)
			}
			return v
		})
	}

	durationAccessors := map[string]func(types.Duration) types.Value{
		"getHours":        types.Duration.GetHours,
		"getMinutes":      types.Duration.GetMinutes,
		"getSeconds":      types.Duration.GetSeconds,
		"getMilliseconds": types.Duration.GetMilliseconds,
	}
	for name, accessor := range durationAccessors {
		accessor := accessor
		r.Register(name, []string{"duration"}, func(args []types.Value) types.Value {
			return accessor(args[0].(types.Duration))
		})
	}
}
