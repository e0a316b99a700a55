package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecordsLoaded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insightedu_records_loaded_total",
		Help: "Total records accepted by the loader",
	}, []string{"dataset"})
	RowsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insightedu_rows_skipped_total",
		Help: "Total rows dropped for a missing primary value",
	}, []string{"dataset"})
	LoadErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insightedu_load_errors_total",
		Help: "Total failed loads",
	}, []string{"dataset"})
	AlertsRaised = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insightedu_alerts_total",
		Help: "Total alert records produced, by kind",
	}, []string{"kind"})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insightedu_http_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"route", "code"})
	HTTPDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insightedu_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "insightedu_cache_hits_total",
		Help: "Total response cache hits",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "insightedu_cache_misses_total",
		Help: "Total response cache misses",
	})
)

func init() {
	prometheus.MustRegister(RecordsLoaded)
	prometheus.MustRegister(RowsSkipped)
	prometheus.MustRegister(LoadErrors)
	prometheus.MustRegister(AlertsRaised)
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDurationMs)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }
