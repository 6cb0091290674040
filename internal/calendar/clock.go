package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the deployment's canonical scheduling timezone.
const DefaultTimezone = "Asia/Shanghai"

// Clock resolves wall-clock time and "today" in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a Clock for loc. A nil loc means UTC.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// LoadClock builds a Clock from an IANA timezone name.
func LoadClock(name string) (*Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return NewClock(loc), nil
}

// FixedClock always reports t. Handy in tests.
func FixedClock(t time.Time, loc *time.Location) *Clock {
	c := NewClock(loc)
	c.now = func() time.Time { return t }
	return c
}

// ClockFunc reads the time from now. Tests use it to move across days.
func ClockFunc(now func() time.Time, loc *time.Location) *Clock {
	c := NewClock(loc)
	if now != nil {
		c.now = now
	}
	return c
}

// Now returns the current instant in the clock's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current calendar day in the clock's location.
func (c *Clock) Today() Date {
	return DateOf(c.Now())
}

// Location returns the clock's timezone.
func (c *Clock) Location() *time.Location {
	return c.loc
}
