package domain

// MonthSummary is one row of the monthly report.
type MonthSummary struct {
	Key          MonthKey
	Total        float64
	Days         int
	DailyAverage float64
}

// ScanStats counts the data rows seen after the header.
type ScanStats struct {
	Rows    int
	Valid   int
	Short   int // fewer than two fields, skipped silently
	Invalid int // unparseable date or consumption
}

// Summary is the derived report for one run.
type Summary struct {
	Months []MonthSummary // ascending by (year, month)

	TotalConsumption          float64
	AverageMonthlyConsumption float64

	// OverallDailyAverage is the mean of the per-month daily averages.
	OverallDailyAverage float64

	Period ReportPeriod
	Stats  ScanStats
}
