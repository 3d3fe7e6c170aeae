package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Metrics provides observability for the evaluation module.
type Metrics struct {
	ReportDuration    prometheus.Histogram
	ReportSheets      prometheus.Histogram
	CoverageDuration  prometheus.Histogram
	RecordsDeleted    prometheus.Counter
	RecordsRestored   prometheus.Counter
	Submissions       *prometheus.CounterVec
	ReferenceCacheHit *prometheus.CounterVec
}

// New registers the evaluation metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ReportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "missionsuivi_report_duration_seconds",
			Help:    "Duration of GenerateReport, from filter resolution to rendered workbook",
			Buckets: durationBuckets,
		}),
		ReportSheets: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "missionsuivi_report_sheets",
			Help:    "Number of sheets per rendered workbook",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		CoverageDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "missionsuivi_coverage_duration_seconds",
			Help:    "Duration of GetCoverageStats",
			Buckets: durationBuckets,
		}),
		RecordsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "missionsuivi_evaluations_deleted_total",
			Help: "Evaluation rows soft-deleted",
		}),
		RecordsRestored: f.NewCounter(prometheus.CounterOpts{
			Name: "missionsuivi_evaluations_restored_total",
			Help: "Evaluation rows restored",
		}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "missionsuivi_submissions_total",
			Help: "Evaluation submissions by mode (new, replace)",
		}, []string{"mode"}),
		ReferenceCacheHit: f.NewCounterVec(prometheus.CounterOpts{
			Name: "missionsuivi_reference_cache_lookups_total",
			Help: "Reference cache lookups by kind and result (hit, miss, error)",
		}, []string{"kind", "result"}),
	}
}

// ObserveReport records the duration of a GenerateReport call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveReport(start time.Time, sheets int) {
	m.ReportDuration.Observe(time.Since(start).Seconds())
	m.ReportSheets.Observe(float64(sheets))
}

func (m *Metrics) ObserveCoverage(start time.Time) {
	m.CoverageDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddDeleted(n int64) {
	m.RecordsDeleted.Add(float64(n))
}

func (m *Metrics) AddRestored(n int64) {
	m.RecordsRestored.Add(float64(n))
}

func (m *Metrics) IncSubmission(replace bool) {
	mode := "new"
	if replace {
		mode = "replace"
	}
	m.Submissions.WithLabelValues(mode).Inc()
}

func (m *Metrics) IncCacheLookup(kind, result string) {
	m.ReferenceCacheHit.WithLabelValues(kind, result).Inc()
}
