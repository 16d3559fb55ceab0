// Package period resolves named reporting windows and explicit date ranges
// into concrete instants.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Today   = "today"
	Week    = "week"
	Month   = "month"
	Quarter = "quarter"
	Year    = "year"

	Default = Month

	dateLayout = "2006-01-02"
)

var (
	ErrUnknownPeriod = errors.New("unknown period")
	ErrInvalidRange  = errors.New("invalid period range")
)

// Period is a closed interval [Start, End].
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Resolve maps a named token to a window ending at now. An empty token
// resolves to the current month.
func Resolve(token string, now time.Time) (Period, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		token = Default
	}

	y, m, d := now.Date()
	loc := now.Location()

	var start time.Time
	switch token {
	case Today:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Week:
		start = now.AddDate(0, 0, -7)
	case Month:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Quarter:
		firstMonth := time.Month((int(m)-1)/3*3 + 1)
		start = time.Date(y, firstMonth, 1, 0, 0, 0, 0, loc)
	case Year:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return Period{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, token)
	}

	return Period{Start: start, End: now}, nil
}

// Parse reads explicit bounds as RFC3339 instants or YYYY-MM-DD dates. Dates
// are taken verbatim as midnight in loc.
func Parse(start, end string, loc *time.Location) (Period, error) {
	s, err := parseInstant(start, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}
	e, err := parseInstant(end, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}
	if s.After(e) {
		return Period{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
	}
	return Period{Start: s, End: e}, nil
}

// Query holds the raw period selectors of a report request.
type Query struct {
	Token string
	Start string
	End   string
}

func (q Query) Resolve(now time.Time) (Period, error) {
	return FromQuery(q.Token, q.Start, q.End, now)
}

// FromQuery prefers explicit bounds over the named token. Giving only one of
// start and end is ErrInvalidRange.
func FromQuery(token, start, end string, now time.Time) (Period, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return Parse(start, end, now.Location())
	case start != "":
		return Period{}, fmt.Errorf("%w: end is required when start is given", ErrInvalidRange)
	case end != "":
		return Period{}, fmt.Errorf("%w: start is required when end is given", ErrInvalidRange)
	}
	return Resolve(token, now)
}

func parseInstant(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(dateLayout, value, loc)
}

func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Previous is the window of equal length ending just before p starts.
func (p Period) Previous() Period {
	return Period{
		Start: p.Start.Add(-p.Duration()),
		End:   p.Start.Add(-time.Nanosecond),
	}
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Days is the length of the period in days, rounded up, never less than one.
func (p Period) Days() int {
	d := p.Duration()
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return max(days, 1)
}
