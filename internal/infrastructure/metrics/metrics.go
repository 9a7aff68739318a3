package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg          *prometheus.Registry
	Normalized   *prometheus.CounterVec
	Rejected     *prometheus.CounterVec
	FetchSeconds *prometheus.HistogramVec
	FetchErrors  *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	normalized := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockview_records_normalized_total",
		Help: "Raw records converted into view-models.",
	}, []string{"entity"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockview_records_rejected_total",
		Help: "Raw records that were not objects.",
	}, []string{"entity"})
	fetchSeconds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stockview_backend_fetch_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection"})
	fetchErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stockview_backend_fetch_errors_total",
	}, []string{"collection"})

	r.MustRegister(normalized, rejected, fetchSeconds, fetchErrors)
	return &Registry{
		reg:          r,
		Normalized:   normalized,
		Rejected:     rejected,
		FetchSeconds: fetchSeconds,
		FetchErrors:  fetchErrors,
	}
}

// RecordBatch counts one normalization batch.
func (r *Registry) RecordBatch(entity string, normalized, rejected int) {
	if r == nil {
		return
	}
	r.Normalized.WithLabelValues(entity).Add(float64(normalized))
	r.Rejected.WithLabelValues(entity).Add(float64(rejected))
}

// ObserveFetch matches cache.FetchObserver.
func (r *Registry) ObserveFetch(collection string, took time.Duration, err error) {
	if r == nil {
		return
	}
	r.FetchSeconds.WithLabelValues(collection).Observe(took.Seconds())
	if err != nil {
		r.FetchErrors.WithLabelValues(collection).Inc()
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
