package model

import "time"

// Timestamp is a time bound exactly as the upstream sent it.
// Upstream services emit zone-less local datetimes ("2024-01-01T10:00:00")
// as well as RFC 3339 values, so the wire text is kept and parsed on demand.
type Timestamp string

// LocalMinuteLength is the length of a "YYYY-MM-DDTHH:MM" local datetime,
// the format browsers submit from datetime-local inputs
const LocalMinuteLength = len("2006-01-02T15:04")

// LocalLayout is a seconds-precision zone-less local datetime
const LocalLayout = "2006-01-02T15:04:05"

// DisplayLayout renders a bound for people
const DisplayLayout = "Jan 2, 2006, 3:04 PM"

// RangeSeparator joins the two ends of a rendered time range
const RangeSeparator = " – "

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TimestampPtr returns a pointer to a Timestamp built from s
func TimestampPtr(s string) *Timestamp {
	ts := Timestamp(s)
	return &ts
}

// String returns the wire text
func (t Timestamp) String() string {
	return string(t)
}

// Time parses the bound. Zone-less values are read as local time.
func (t Timestamp) Time() (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, string(t), time.Local); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Display renders the bound for people, falling back to the wire text when it
// does not parse.
func (t Timestamp) Display() string {
	if parsed, ok := t.Time(); ok {
		return parsed.Format(DisplayLayout)
	}
	return string(t)
}

// ResolveBound applies the per-field precedence chain: the first candidate
// that carries a non-empty value wins, and no candidate yields nil. An empty
// string counts as absent.
func ResolveBound(candidates ...*Timestamp) *Timestamp {
	for _, c := range candidates {
		if c != nil && *c != "" {
			v := *c
			return &v
		}
	}
	return nil
}

// FormatTimeRange renders a (start, end) pair. ok is false when neither bound
// is present, in which case callers should omit the time row entirely.
func FormatTimeRange(start, end *Timestamp) (text string, ok bool) {
	hasStart := start != nil && *start != ""
	hasEnd := end != nil && *end != ""
	switch {
	case hasStart && hasEnd:
		return start.Display() + RangeSeparator + end.Display(), true
	case hasStart:
		return start.Display(), true
	case hasEnd:
		return end.Display(), true
	default:
		return "", false
	}
}

// PadSeconds appends a zero-seconds suffix to a minute-precision local
// datetime. Every other value, including the empty string, is returned as is.
func PadSeconds(value string) string {
	if len(value) == LocalMinuteLength {
		return value + ":00"
	}
	return value
}

// TrimToMinute cuts a bound down to the datetime-local form value
func TrimToMinute(value string) string {
	if len(value) > LocalMinuteLength {
		return value[:LocalMinuteLength]
	}
	return value
}
