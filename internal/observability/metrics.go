package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// weather engine.
type Metrics struct {
	// Upstream transport metrics.
	UpstreamRequests        *prometheus.CounterVec   // labels: endpoint={area,contents,forecast,warning,other}, outcome
	UpstreamRequestDuration *prometheus.HistogramVec // labels: endpoint
	UpstreamRetries         prometheus.Counter
	RateLimitRejections     prometheus.Counter

	// Response cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
	CacheEntries prometheus.Gauge

	// Engine metrics.
	AreaDirectorySize prometheus.Gauge
	CityResolutions   *prometheus.CounterVec // labels: outcome={memo,curated,parent,prefecture,search,failed}
	EngineReady       prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jma_weather",
			Name:      "upstream_requests_total",
			Help:      "Upstream bosai requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jma_weather",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream bosai request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		UpstreamRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jma_weather",
			Name:      "upstream_retries_total",
			Help:      "Total retried upstream attempts.",
		}),
		RateLimitRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jma_weather",
			Name:      "rate_limit_rejections_total",
			Help:      "Requests refused by the local sliding-window limiter.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jma_weather",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result.",
		}, []string{"result"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jma_weather",
			Name:      "cache_entries",
			Help:      "Live entries in the response cache.",
		}),
		AreaDirectorySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jma_weather",
			Name:      "area_directory_size",
			Help:      "Entries in the loaded area directory.",
		}),
		CityResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jma_weather",
			Name:      "city_resolutions_total",
			Help:      "Curated city code resolutions by outcome.",
		}, []string{"outcome"}),
		EngineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jma_weather",
			Name:      "engine_ready",
			Help:      "1 once the area directory has loaded, 0 before.",
		}),
	}

	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamRequestDuration,
		m.UpstreamRetries,
		m.RateLimitRejections,
		m.CacheLookups,
		m.CacheEntries,
		m.AreaDirectorySize,
		m.CityResolutions,
		m.EngineReady,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		UpstreamRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "jma_weather", Name: "upstream_requests_total"}, []string{"endpoint", "outcome"}),
		UpstreamRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "jma_weather", Name: "upstream_request_duration_seconds"}, []string{"endpoint"}),
		UpstreamRetries:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "jma_weather", Name: "upstream_retries_total"}),
		RateLimitRejections:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "jma_weather", Name: "rate_limit_rejections_total"}),
		CacheLookups:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "jma_weather", Name: "cache_lookups_total"}, []string{"result"}),
		CacheEntries:            prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "jma_weather", Name: "cache_entries"}),
		AreaDirectorySize:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "jma_weather", Name: "area_directory_size"}),
		CityResolutions:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "jma_weather", Name: "city_resolutions_total"}, []string{"outcome"}),
		EngineReady:             prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "jma_weather", Name: "engine_ready"}),
	}
}
