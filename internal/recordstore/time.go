package recordstore

import (
	"strings"
	"time"
)

// Time is a timestamp as serialized by the record store.
// The store emits "2006-01-02 15:04:05.000Z"; historical imports also left
// RFC3339 strings and bare dates in date fields. Unparseable values decode
// to the zero Time instead of failing the whole payload — consumers skip
// zero-dated events.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999Z07:00",
	"2006-01-02 15:04:05.999Z0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// UnmarshalJSON decodes a store timestamp, tolerating legacy formats.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	// Malformed date: zero value, never an error.
	t.Time = time.Time{}
	return nil
}

// MarshalJSON encodes in the store's native format (UTC).
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.UTC().Format("2006-01-02 15:04:05.000Z") + `"`), nil
}

// Day truncates the timestamp to a calendar day in the given location.
func (t Time) Day(loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
