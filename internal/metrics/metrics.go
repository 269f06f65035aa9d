package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/milad/energyreport/internal/domain"
)

// Recorder collects the metrics of a single report run. Each Recorder owns
// its registry so runs (and tests) never share state.
type Recorder struct {
	reg *prometheus.Registry

	rowsTotal          *prometheus.CounterVec
	months             prometheus.Gauge
	consumptionKWh     prometheus.Gauge
	runDurationSeconds prometheus.Gauge
	lastRunTimestamp   prometheus.Gauge
	lastRunSuccess     prometheus.Gauge
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		rowsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "energyreport_rows_total",
				Help: "Data rows read from the input, by outcome.",
			},
			[]string{"outcome"},
		),
		months: f.NewGauge(prometheus.GaugeOpts{
			Name: "energyreport_months",
			Help: "Distinct months present in the input.",
		}),
		consumptionKWh: f.NewGauge(prometheus.GaugeOpts{
			Name: "energyreport_consumption_kwh_total",
			Help: "Total energy consumption over the reported period in kWh.",
		}),
		runDurationSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: "energyreport_run_duration_seconds",
			Help: "Wall time of the last report run in seconds.",
		}),
		lastRunTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "energyreport_last_run_timestamp_seconds",
			Help: "Unix time the last report run finished.",
		}),
		lastRunSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "energyreport_last_run_success",
			Help: "1 if the last run produced a report, 0 otherwise.",
		}),
	}
}

// Registry exposes the underlying registry, e.g. for gathering in tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveRun records the outcome of one run. s may be partially filled
// when the run did not produce a report.
func (r *Recorder) ObserveRun(s domain.Summary, ok bool, finished time.Time, dur time.Duration) {
	r.rowsTotal.WithLabelValues("valid").Add(float64(s.Stats.Valid))
	r.rowsTotal.WithLabelValues("short").Add(float64(s.Stats.Short))
	r.rowsTotal.WithLabelValues("invalid").Add(float64(s.Stats.Invalid))

	r.months.Set(float64(len(s.Months)))
	r.consumptionKWh.Set(s.TotalConsumption)
	r.runDurationSeconds.Set(dur.Seconds())
	r.lastRunTimestamp.Set(float64(finished.Unix()))
	if ok {
		r.lastRunSuccess.Set(1)
	} else {
		r.lastRunSuccess.Set(0)
	}
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node_exporter textfile collector. The write is atomic.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
