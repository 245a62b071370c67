package model

import (
	"fmt"
	"time"
)

// Period identifies a calendar month.
type Period struct {
	Year  int
	Month int
}

// NewPeriod builds a period, validating the month.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid month %d: must be 1-12", month)
	}
	if year < 1 {
		return Period{}, fmt.Errorf("invalid year %d", year)
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// CurrentPeriod returns the period containing now.
func CurrentPeriod() Period {
	return PeriodOf(time.Now())
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return PeriodOf(t), nil
}

// Start returns the first instant of the month in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month (exclusive bound).
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Contains reports whether t falls within the month. The comparison uses the
// calendar year and month of t, independent of its location.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// Key returns the "YYYY-MM" form.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// String implements fmt.Stringer.
func (p Period) String() string {
	return p.Start().Format("January 2006")
}

// Prev returns the previous month.
func (p Period) Prev() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

// Next returns the following month.
func (p Period) Next() Period {
	return PeriodOf(p.End())
}
