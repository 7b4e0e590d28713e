package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder publishes analysis metrics to Prometheus.
type Recorder struct {
	duration    prometheus.Histogram
	analyses    *prometheus.CounterVec
	setups      *prometheus.CounterVec
	cache       *prometheus.CounterVec
	batchSize   prometheus.Histogram
	httpTotal   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_analysis_duration_seconds",
			Help:    "Duration of a single engine pass in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_analyses_total",
			Help: "Total number of analysis requests by outcome",
		}, []string{"outcome"}),
		setups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_setups_total",
			Help: "Total number of trade setups produced by technique",
		}, []string{"technique"}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_cache_requests_total",
			Help: "Analysis cache lookups by result",
		}, []string{"result"}),
		batchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_batch_series",
			Help:    "Number of series per batch request",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		httpTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "method", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinel_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "class"}),
	}
}

// Outcomes for RecordAnalysis.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// RecordAnalysis counts one analysis with its outcome.
func (r *Recorder) RecordAnalysis(outcome string) {
	r.analyses.WithLabelValues(outcome).Inc()
}

// RecordDuration records the engine time for one pass.
func (r *Recorder) RecordDuration(seconds float64) {
	r.duration.Observe(seconds)
}

// RecordSetup counts one generated setup.
func (r *Recorder) RecordSetup(technique string) {
	r.setups.WithLabelValues(technique).Inc()
}

// RecordCache counts a cache lookup; result is hit, miss or error.
func (r *Recorder) RecordCache(result string) {
	r.cache.WithLabelValues(result).Inc()
}

// RecordBatch records the number of series in a batch request.
func (r *Recorder) RecordBatch(series int) {
	r.batchSize.Observe(float64(series))
}

// RecordHTTP records one served request.
func (r *Recorder) RecordHTTP(route, method, status, class string, seconds float64) {
	r.httpTotal.WithLabelValues(route, method, status).Inc()
	r.httpLatency.WithLabelValues(route, method, class).Observe(seconds)
}
