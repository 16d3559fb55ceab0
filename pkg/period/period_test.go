package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, loc)

	tests := []struct {
		token string
		start time.Time
	}{
		{"today", time.Date(2025, 3, 15, 0, 0, 0, 0, loc)},
		{"week", time.Date(2025, 3, 8, 14, 30, 0, 0, loc)},
		{"month", time.Date(2025, 3, 1, 0, 0, 0, 0, loc)},
		{"", time.Date(2025, 3, 1, 0, 0, 0, 0, loc)},
		{"quarter", time.Date(2025, 1, 1, 0, 0, 0, 0, loc)},
		{"year", time.Date(2025, 1, 1, 0, 0, 0, 0, loc)},
		{" MONTH ", time.Date(2025, 3, 1, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p, err := Resolve(tt.token, now)
			require.NoError(t, err)
			assert.True(t, p.Start.Equal(tt.start), "start = %s, want %s", p.Start, tt.start)
			assert.True(t, p.End.Equal(now))
		})
	}
}

func TestResolve_QuarterBoundaries(t *testing.T) {
	tests := []struct {
		month time.Month
		want  time.Month
	}{
		{time.January, time.January},
		{time.March, time.January},
		{time.April, time.April},
		{time.June, time.April},
		{time.August, time.July},
		{time.October, time.October},
		{time.December, time.October},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			p, err := Resolve(Quarter, time.Date(2025, tt.month, 20, 8, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Start.Month())
			assert.Equal(t, 1, p.Start.Day())
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Resolve("fortnight", time.Now())
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestParse(t *testing.T) {
	loc := time.UTC

	p, err := Parse("2025-01-01", "2025-01-31", loc)
	require.NoError(t, err)
	assert.True(t, p.Start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, loc)))
	assert.True(t, p.End.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, loc)))

	p, err = Parse("2025-01-01T10:00:00+07:00", "2025-01-02T10:00:00+07:00", loc)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, p.Duration())

	_, err = Parse("2025-02-01", "2025-01-01", loc)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Parse("yesterday", "2025-01-01", loc)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestFromQuery(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	p, err := FromQuery("year", "2025-02-01", "2025-02-10", now)
	require.NoError(t, err)
	assert.Equal(t, time.February, p.Start.Month())

	_, err = FromQuery("year", "2025-02-01", "", now)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = Query{Token: "month", End: "2025-02-10"}.Resolve(now)
	assert.ErrorIs(t, err, ErrInvalidRange)

	p, err = FromQuery("year", " ", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.January, p.Start.Month())

	p, err = Query{Token: "today"}.Resolve(now)
	require.NoError(t, err)
	assert.Equal(t, 15, p.Start.Day())
	assert.Zero(t, p.Start.Hour())

	_, err = Query{Token: "decade"}.Resolve(now)
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestPrevious(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := Period{Start: start, End: start.Add(10 * 24 * time.Hour)}

	prev := p.Previous()
	assert.True(t, prev.Start.Equal(start.Add(-10*24*time.Hour)))
	assert.True(t, prev.End.Before(p.Start))
	assert.False(t, prev.Contains(p.Start))
}

func TestContainsAndDays(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := Period{Start: start, End: start.Add(10 * 24 * time.Hour)}

	assert.True(t, p.Contains(start))
	assert.True(t, p.Contains(p.End))
	assert.False(t, p.Contains(p.End.Add(time.Nanosecond)))
	assert.Equal(t, 10, p.Days())

	assert.Equal(t, 11, Period{Start: start, End: start.Add(10*24*time.Hour + time.Minute)}.Days())
	assert.Equal(t, 1, Period{Start: start, End: start}.Days())
}
