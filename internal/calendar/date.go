// Package calendar holds the whole-day date values the scheduler works with.
//
// Dates are stored and compared as ISO "YYYY-MM-DD" strings, so lexicographic
// order is chronological order. "Today" is always resolved in one canonical
// timezone rather than the caller's local clock.
package calendar

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the ISO calendar-day layout used for storage and comparison.
const Layout = "2006-01-02"

// Date is a calendar day. The zero value means "no date".
type Date string

// ParseDate validates s as a calendar day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(t.Format(Layout)), nil
}

// MustParseDate is ParseDate for literals; it panics on bad input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(Layout))
}

// AddDays returns d moved by n whole days, crossing month and year
// boundaries correctly. An unparsable d is returned unchanged.
func AddDays(d Date, n int) Date {
	t, err := time.Parse(Layout, string(d))
	if err != nil {
		return d
	}
	return Date(t.AddDate(0, 0, n).Format(Layout))
}

// IsZero reports whether d is absent.
func (d Date) IsZero() bool { return d == "" }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d < o }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d > o }

// Valid reports whether d parses as a calendar day.
func (d Date) Valid() bool {
	_, err := time.Parse(Layout, string(d))
	return err == nil
}

func (d Date) String() string { return string(d) }

// Value stores an absent date as NULL.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return string(d), nil
}

// Scan reads TEXT, BLOB, DATE or NULL columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case string:
		*d = Date(v)
	case []byte:
		*d = Date(v)
	case time.Time:
		*d = Date(v.Format(Layout))
	default:
		return fmt.Errorf("calendar: cannot scan %T into Date", src)
	}
	return nil
}

// MarshalJSON encodes an absent date as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = ""
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
