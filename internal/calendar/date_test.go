package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/calendar"
)

func TestAddDays(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		days     int
		expected string
	}{
		{name: "next day", date: "2026-02-14", days: 1, expected: "2026-02-15"},
		{name: "month rollover", date: "2026-02-28", days: 1, expected: "2026-03-01"},
		{name: "thirty days", date: "2026-01-01", days: 30, expected: "2026-01-31"},
		{name: "zero days", date: "2026-02-14", days: 0, expected: "2026-02-14"},
		{name: "year rollover", date: "2025-12-31", days: 1, expected: "2026-01-01"},
		{name: "leap day", date: "2028-02-28", days: 1, expected: "2028-02-29"},
		{name: "negative", date: "2026-03-01", days: -1, expected: "2026-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calendar.AddDays(calendar.Date(tt.date), tt.days)
			assert.Equal(t, calendar.Date(tt.expected), got)
		})
	}
}

func TestAddDays_InvalidDateUnchanged(t *testing.T) {
	assert.Equal(t, calendar.Date("not-a-date"), calendar.AddDays("not-a-date", 3))
	assert.Equal(t, calendar.Date(""), calendar.AddDays("", 3))
}

func TestParseDate(t *testing.T) {
	d, err := calendar.ParseDate("2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, calendar.Date("2026-02-14"), d)

	_, err = calendar.ParseDate("2026-02-30")
	assert.Error(t, err)

	_, err = calendar.ParseDate("14/02/2026")
	assert.Error(t, err)
}

func TestDate_Ordering(t *testing.T) {
	a := calendar.MustParseDate("2026-02-09")
	b := calendar.MustParseDate("2026-02-10")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
	assert.False(t, a.Before(a))
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Next calendar.Date `json:"next"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"next":null}`, string(b))

	var v struct {
		Next calendar.Date `json:"next"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"next":"2026-03-01"}`), &v))
	assert.Equal(t, calendar.Date("2026-03-01"), v.Next)

	assert.Error(t, json.Unmarshal([]byte(`{"next":"March 1"}`), &v))
}

func TestDate_Scan(t *testing.T) {
	var d calendar.Date
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	require.NoError(t, d.Scan("2026-02-14"))
	assert.Equal(t, calendar.Date("2026-02-14"), d)

	require.NoError(t, d.Scan([]byte("2026-02-15")))
	assert.Equal(t, calendar.Date("2026-02-15"), d)

	require.NoError(t, d.Scan(time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, calendar.Date("2026-02-16"), d)

	assert.Error(t, d.Scan(42))

	v, err := calendar.Date("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestClock_TodayUsesCanonicalTimezone(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	// 20:30 UTC on Feb 14 is already Feb 15 in Shanghai.
	instant := time.Date(2026, 2, 14, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, calendar.Date("2026-02-15"), calendar.FixedClock(instant, shanghai).Today())
	assert.Equal(t, calendar.Date("2026-02-14"), calendar.FixedClock(instant, time.UTC).Today())
}

func TestLoadClock_UnknownZone(t *testing.T) {
	_, err := calendar.LoadClock("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestClockFunc_FollowsSource(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	clock := calendar.ClockFunc(func() time.Time { return now }, time.UTC)
	assert.Equal(t, calendar.Date("2026-02-28"), clock.Today())

	now = now.Add(24 * time.Hour)
	assert.Equal(t, calendar.Date("2026-03-01"), clock.Today())
}
