package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Monitor represents a Prometheus monitor
// It contains Prometheus registry and all available metrics
type Monitor struct {
	Registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	CacheRequests  *prometheus.CounterVec
	CrawlLocations *prometheus.CounterVec
	CrawlLastID    *prometheus.GaugeVec
	CrawlRunning   *prometheus.GaugeVec
}

// New creates a new Monitor
func New() *Monitor {
	reg := prometheus.NewRegistry()
	monitor := &Monitor{
		Registry: reg,

		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meteoam_requests_total",
			Help: "Location page requests by outcome",
		}, []string{"outcome"}),

		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meteoam_fetch_duration_seconds",
			Help:    "Duration of location page downloads",
			Buckets: prometheus.DefBuckets,
		}, []string{}),

		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meteoam_cache_requests_total",
			Help: "Forecast cache lookups by result",
		}, []string{"result"}),

		CrawlLocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meteoam_crawl_locations_total",
			Help: "Identifiers visited by the crawler by outcome",
		}, []string{"outcome"}),

		CrawlLastID: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "meteoam_crawl_last_id",
			Help: "Last identifier visited by the crawler",
		}, []string{}),

		CrawlRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "meteoam_crawl_running",
			Help: "Is the crawler running",
		}, []string{}),
	}

	reg.MustRegister(
		monitor.Requests,
		monitor.FetchDuration,
		monitor.CacheRequests,
		monitor.CrawlLocations,
		monitor.CrawlLastID,
		monitor.CrawlRunning,
	)

	return monitor
}
