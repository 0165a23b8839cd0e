package providers

import (
	"hrvd/internal/models"
	"hrvd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFetch(user string, success bool)
	ObserveFetchDuration(user string, duration time.Duration)
	IncTokenExchange(user string, success bool)
	IncTokenRefresh(user string, success bool)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	fetchesTotal    *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	exchangesTotal  *prometheus.CounterVec
	refreshesTotal  *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncFetch(user string, success bool) {
	m.fetchesTotal.WithLabelValues(user, resultLabel(success)).Inc()
}

func (m *MetricsProvider) ObserveFetchDuration(user string, duration time.Duration) {
	m.fetchDuration.WithLabelValues(user).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncTokenExchange(user string, success bool) {
	m.exchangesTotal.WithLabelValues(user, resultLabel(success)).Inc()
}

func (m *MetricsProvider) IncTokenRefresh(user string, success bool) {
	m.refreshesTotal.WithLabelValues(user, resultLabel(success)).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, tokens *models.TokenStore, series *models.SeriesCache) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hrvd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrvd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hrvd_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hrvd_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		fetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hrvd_fetches_total",
			Help: "Total number of HRV fetch attempts against the provider",
		}, []string{"user", "result"}),

		fetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrvd_fetch_duration_seconds",
			Help:    "Duration of HRV fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"user"}),

		exchangesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hrvd_token_exchanges_total",
			Help: "Total number of authorization code exchanges",
		}, []string{"user", "result"}),

		refreshesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hrvd_token_refreshes_total",
			Help: "Total number of access token refreshes",
		}, []string{"user", "result"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hrvd_authorized_users",
		Help: "Number of users with a token on record",
	}, func() float64 {
		return float64(tokens.Len())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hrvd_cached_series",
		Help: "Number of users with a cached HRV series",
	}, func() float64 {
		return float64(series.Len())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncFetch(_ string, _ bool)                        {}
func (n *noopMetrics) ObserveFetchDuration(_ string, _ time.Duration)   {}
func (n *noopMetrics) IncTokenExchange(_ string, _ bool)                {}
func (n *noopMetrics) IncTokenRefresh(_ string, _ bool)                 {}
