package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/milad/energyreport/internal/domain"
)

const (
	ruleWidth      = 75
	monthNameWidth = 10

	noDataMessage = "No valid data found."
)

var rule = strings.Repeat("-", ruleWidth)

// WriteText renders the monthly table followed by the period totals.
func WriteText(w io.Writer, s domain.Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%-20s %-30s %-30s\n", "Year-Month", "Total Consumption (kWh)", "Daily Average (kWh/day)")
	fmt.Fprintln(bw, rule)
	for _, m := range s.Months {
		fmt.Fprintf(bw, "%d - %-*s %25.2f %25.2f\n",
			m.Key.Year, monthNameWidth, monthName(m.Key), m.Total, m.DailyAverage)
	}
	fmt.Fprintln(bw, rule)

	fmt.Fprintf(bw, "\nTotal energy consumption in the period: %.2f kWh\n", s.TotalConsumption)
	fmt.Fprintf(bw, "Average monthly consumption = %.2f kWh\n", s.AverageMonthlyConsumption)
	fmt.Fprintf(bw, "Overall daily average of monthly daily averages = %.2f kWh/day\n", s.OverallDailyAverage)

	return bw.Flush()
}

// WriteNoData prints the message shown instead of the table when no row was usable.
func WriteNoData(w io.Writer) error {
	_, err := fmt.Fprintln(w, noDataMessage)
	return err
}

// monthName returns the English month name, truncated to the column width.
func monthName(k domain.MonthKey) string {
	name := k.Month.String()
	if len(name) > monthNameWidth {
		name = name[:monthNameWidth]
	}
	return name
}
