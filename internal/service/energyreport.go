package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/milad/energyreport/internal/domain"
	"github.com/milad/energyreport/internal/repo"
)

// ErrNoValidData is returned when the source produced no valid readings.
var ErrNoValidData = errors.New("no valid data found")

type EnergyReportService struct {
	source repo.ReadingSource
	logger zerolog.Logger
	diag   zerolog.Logger // row diagnostics, never filtered above warn
}

func NewEnergyReportService(src repo.ReadingSource, logger zerolog.Logger) *EnergyReportService {
	logger = logger.With().Str("component", "energyreport").Logger()
	diag := logger
	if diag.GetLevel() > zerolog.WarnLevel {
		diag = diag.Level(zerolog.WarnLevel)
	}
	return &EnergyReportService{
		source: src,
		logger: logger,
		diag:   diag,
	}
}

// Summarize scans the source once and derives the monthly report.
// Malformed rows are skipped and logged at warn, even when the logger is
// configured above warn. It returns ErrNoValidData, together with the scan
// statistics, if no row was usable.
func (s *EnergyReportService) Summarize(ctx context.Context) (domain.Summary, error) {
	var (
		agg    = domain.NewMonthlyAggregate()
		period domain.ReportPeriod
	)

	stats, err := s.source.Scan(ctx,
		func(r domain.Reading) error {
			agg.Add(r)
			period.Observe(r.Date)
			return nil
		},
		func(e *repo.RowError) {
			s.diag.Warn().
				Int("row", e.Row).
				Strs("fields", e.Fields).
				Err(e.Err).
				Msg("error processing row")
		},
	)
	if err != nil {
		return domain.Summary{Stats: stats}, err
	}

	ev := s.logger.Info().
		Int("rows", stats.Rows).
		Int("valid", stats.Valid).
		Int("short", stats.Short).
		Int("invalid", stats.Invalid).
		Int("months", agg.Len())
	if !period.Empty() {
		ev = ev.Str("first_date", period.First.Format("2006-01-02")).
			Str("last_date", period.Last.Format("2006-01-02"))
	}
	ev.Msg("ingestion complete")

	return BuildSummary(agg, period, stats)
}

// BuildSummary derives the report figures from a populated aggregate.
func BuildSummary(agg *domain.MonthlyAggregate, period domain.ReportPeriod, stats domain.ScanStats) (domain.Summary, error) {
	sum := domain.Summary{Period: period, Stats: stats}

	keys := agg.Keys()
	if len(keys) == 0 {
		return sum, ErrNoValidData
	}

	var dailyAvgSum float64
	sum.Months = make([]domain.MonthSummary, 0, len(keys))
	for _, k := range keys {
		b, _ := agg.Bucket(k)
		avg := b.DailyAverage()
		sum.Months = append(sum.Months, domain.MonthSummary{
			Key:          k,
			Total:        b.Total,
			Days:         b.Days,
			DailyAverage: avg,
		})
		sum.TotalConsumption += b.Total
		dailyAvgSum += avg
	}

	n := float64(len(keys))
	sum.AverageMonthlyConsumption = sum.TotalConsumption / n
	sum.OverallDailyAverage = dailyAvgSum / n
	return sum, nil
}
