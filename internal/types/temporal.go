package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "time/tzdata" // embed the IANA database so tz lookups work without host data files
)

const (
	// minTimestampSeconds/maxTimestampSeconds bound Timestamp to
	// [0001-01-01T00:00:00Z, 9999-12-31T23:59:59.999999999Z], seconds since
	// the Unix epoch, per spec §3.
	minTimestampSeconds = -62135596800
	maxTimestampSeconds = 253402300799

	// maxDurationSeconds bounds Duration magnitude to roughly ±10^18 s per spec §3.
	maxDurationSeconds = 1_000_000_000_000_000_000
)

// Duration is seconds+nanos, signed, matching the well-known protobuf
// Duration representation CEL is specified against. Nanos always carries
// the same sign as Seconds (or is zero).
type Duration struct {
	Seconds int64
	Nanos   int32
}

func (Duration) Kind() Kind { return KindDuration }

func (d Duration) Format() string {
	return formatGoDuration(d.asGoDuration())
}

func (d Duration) asGoDuration() time.Duration {
	return time.Duration(d.Seconds)*time.Second + time.Duration(d.Nanos)*time.Nanosecond
}

func formatGoDuration(gd time.Duration) string {
	return gd.String()
}

func (d Duration) Equal(other Value) (bool, bool) {
	o, ok := other.(Duration)
	if !ok {
		return false, false
	}
	return d.Seconds == o.Seconds && d.Nanos == o.Nanos, true
}

func (d Duration) Compare(other Value) (int, bool) {
	o, ok := other.(Duration)
	if !ok {
		return 0, false
	}
	if d.Seconds != o.Seconds {
		return cmpInt64(d.Seconds, o.Seconds), true
	}
	return cmpInt64(int64(d.Nanos), int64(o.Nanos)), true
}

func normalizeDuration(seconds int64, nanos int64) (Duration, bool) {
	extraSec := nanos / 1_000_000_000
	nanos -= extraSec * 1_000_000_000
	seconds += extraSec
	if seconds > 0 && nanos < 0 {
		seconds--
		nanos += 1_000_000_000
	} else if seconds < 0 && nanos > 0 {
		seconds++
		nanos -= 1_000_000_000
	}
	if seconds > maxDurationSeconds || seconds < -maxDurationSeconds {
		return Duration{}, false
	}
	return Duration{Seconds: seconds, Nanos: int32(nanos)}, true
}

// AddDuration returns d+o with range checking, per spec §4.2/§7 ("Range").
func (d Duration) AddDuration(o Duration) Value {
	sum, ok := addInt64Checked(d.Seconds, o.Seconds)
	if !ok {
		return NewError(ErrRange, "range")
	}
	res, ok := normalizeDuration(sum, int64(d.Nanos)+int64(o.Nanos))
	if !ok {
		return NewError(ErrRange, "range")
	}
	return res
}

func (d Duration) SubDuration(o Duration) Value {
	return d.AddDuration(Duration{Seconds: -o.Seconds, Nanos: -o.Nanos})
}

func addInt64Checked(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// ParseDuration parses a CEL duration string such as "1h30m" / "10s" / "100ms".
func ParseDuration(s string) (Duration, error) {
	gd, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, err
	}
	sec := int64(gd) / int64(time.Second)
	nsec := int64(gd) % int64(time.Second)
	res, ok := normalizeDuration(sec, nsec)
	if !ok {
		return Duration{}, fmt.Errorf("range")
	}
	return res, nil
}

// Timestamp is an absolute instant, stored as seconds+nanos since the Unix
// epoch, bounded to spec §3's representable range.
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

func (Timestamp) Kind() Kind { return KindTimestamp }

func (t Timestamp) Format() string { return t.toTime().UTC().Format(time.RFC3339Nano) }

func (t Timestamp) toTime() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

func (t Timestamp) Equal(other Value) (bool, bool) {
	o, ok := other.(Timestamp)
	if !ok {
		return false, false
	}
	return t.Seconds == o.Seconds && t.Nanos == o.Nanos, true
}

func (t Timestamp) Compare(other Value) (int, bool) {
	o, ok := other.(Timestamp)
	if !ok {
		return 0, false
	}
	if t.Seconds != o.Seconds {
		return cmpInt64(t.Seconds, o.Seconds), true
	}
	return cmpInt64(int64(t.Nanos), int64(o.Nanos)), true
}

// ParseTimestamp parses an RFC3339 timestamp, range-checked against spec §3.
func ParseTimestamp(s string) (Timestamp, error) {
	tm, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, err
	}
	return timestampFromTime(tm)
}

func timestampFromTime(tm time.Time) (Timestamp, error) {
	sec := tm.Unix()
	if sec < minTimestampSeconds || sec > maxTimestampSeconds {
		return Timestamp{}, fmt.Errorf("range")
	}
	return Timestamp{Seconds: sec, Nanos: int32(tm.Nanosecond())}, nil
}

// AddDuration returns t+d, range-checked.
func (t Timestamp) AddDuration(d Duration) Value {
	sec, ok := addInt64Checked(t.Seconds, d.Seconds)
	if !ok {
		return NewError(ErrRange, "range")
	}
	nsec := int64(t.Nanos) + int64(d.Nanos)
	extra := nsec / 1_000_000_000
	nsec -= extra * 1_000_000_000
	sec += extra
	if nsec < 0 {
		sec--
		nsec += 1_000_000_000
	}
	if sec < minTimestampSeconds || sec > maxTimestampSeconds {
		return NewError(ErrRange, "range")
	}
	return Timestamp{Seconds: sec, Nanos: int32(nsec)}
}

// SubDuration returns t-d, range-checked.
func (t Timestamp) SubDuration(d Duration) Value {
	return t.AddDuration(Duration{Seconds: -d.Seconds, Nanos: -d.Nanos})
}

// SubTimestamp returns t-o as a Duration.
func (t Timestamp) SubTimestamp(o Timestamp) Value {
	sec, ok := addInt64Checked(t.Seconds, -o.Seconds)
	if !ok {
		return NewError(ErrRange, "range")
	}
	res, ok := normalizeDuration(sec, int64(t.Nanos)-int64(o.Nanos))
	if !ok {
		return NewError(ErrRange, "range")
	}
	return res
}

// loadZone resolves a CEL timezone argument: empty means UTC, an IANA name
// (e.g. "America/New_York") is looked up via the embedded tzdata, and a
// "+HH:MM"/"-HH:MM" offset is parsed directly.
func loadZone(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	if len(tz) >= 3 && (tz[0] == '+' || tz[0] == '-') {
		parts := strings.Split(tz[1:], ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid timezone offset: %s", tz)
		}
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid timezone offset: %s", tz)
		}
		offset := h*3600 + m*60
		if tz[0] == '-' {
			offset = -offset
		}
		return time.FixedZone(tz, offset), nil
	}
	return time.LoadLocation(tz)
}

// GetFullYear etc. implement the timestamp accessor library from spec §4.2.
func (t Timestamp) inZone(tz string) (time.Time, error) {
	loc, err := loadZone(tz)
	if err != nil {
		return time.Time{}, err
	}
	return t.toTime().In(loc), nil
}

func (t Timestamp) GetFullYear(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(tm.Year()), nil
}

func (t Timestamp) GetMonth(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(int(tm.Month()) - 1), nil // CEL months are 0-based
}

func (t Timestamp) GetDayOfYear(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(tm.YearDay() - 1), nil // 0-based
}

func (t Timestamp) GetDayOfMonth(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(tm.Day() - 1), nil // 0-based
}

func (t Timestamp) GetDate(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(tm.Day()), nil // 1-based alias, per CEL's getDate()
}

func (t Timestamp) GetDayOfWeek(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(int(tm.Weekday())), nil // 0 == Sunday
}

func (t Timestamp) GetHours(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(tm.Hour()), nil
}

func (t Timestamp) GetMinutes(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(tm.Minute()), nil
}

func (t Timestamp) GetSeconds(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(tm.Second()), nil
}

func (t Timestamp) GetMilliseconds(tz string) (Value, error) {
	tm, err := t.inZone(tz)
	if err != nil {
		return nil, err
	}
	return Int(tm.Nanosecond() / int(time.Millisecond)), nil
}

// Duration accessor library: getHours/getMinutes/getSeconds/getMilliseconds
// measure the total magnitude of the duration in that unit (truncating),
// matching CEL's duration.getX() semantics (no calendar component).
func (d Duration) GetHours() Value  { return Int(int64(d.asGoDuration() / time.Hour)) }
func (d Duration) GetMinutes() Value { return Int(int64(d.asGoDuration() / time.Minute)) }
func (d Duration) GetSeconds() Value { return Int(int64(d.asGoDuration() / time.Second)) }
func (d Duration) GetMilliseconds() Value {
	return Int(int64(d.asGoDuration() / time.Millisecond))
}
