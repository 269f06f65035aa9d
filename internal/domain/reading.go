package domain

import "time"

// Reading represents a single daily energy consumption reading.
type Reading struct {
	Date        time.Time
	Consumption float64 // kWh
}

// MonthKey identifies a (year, month) aggregation bucket.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyOf returns the bucket a date falls into.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Less orders keys by (year, month).
func (k MonthKey) Less(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

func (k MonthKey) String() string {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// ReportPeriod is the earliest and latest valid date observed during a run.
type ReportPeriod struct {
	First time.Time
	Last  time.Time
}

// Observe widens the period to include t. Ties keep the extreme seen first.
func (p *ReportPeriod) Observe(t time.Time) {
	if p.First.IsZero() || t.Before(p.First) {
		p.First = t
	}
	if p.Last.IsZero() || t.After(p.Last) {
		p.Last = t
	}
}

// Empty reports whether no date has been observed.
func (p ReportPeriod) Empty() bool {
	return p.First.IsZero()
}
