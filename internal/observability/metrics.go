package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the scene
// engine and its transport.
type Metrics struct {
	SceneRecomputes   prometheus.Counter
	RecomputeDuration prometheus.Histogram
	EngineRunning     prometheus.Gauge

	// Session lifecycle metrics.
	SessionsActive  prometheus.Gauge
	SessionsCreated prometheus.Counter
	SessionsExpired prometheus.Counter

	// Weather source metrics.
	WeatherFetches *prometheus.CounterVec // labels: outcome={success,error}
	WeatherCache   *prometheus.CounterVec // labels: result={hit,miss}

	// Frame fan-out metrics.
	FramesPublished prometheus.Counter
	FramesDropped   prometheus.Counter
	StreamClients   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SceneRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "scene_recomputes_total",
			Help:      "Total per-session scene resolutions.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ambience",
			Name:      "recompute_duration_seconds",
			Help:      "Duration of one full engine tick across all sessions.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		EngineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ambience",
			Name:      "engine_running",
			Help:      "1 when the scene engine loop is active, 0 when shut down.",
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ambience",
			Name:      "sessions_active",
			Help:      "Currently live viewing sessions.",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "sessions_created_total",
			Help:      "Total sessions created.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "sessions_expired_total",
			Help:      "Sessions reaped by the idle janitor.",
		}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "weather_fetches_total",
			Help:      "Weather provider requests by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		FramesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "frames_published_total",
			Help:      "Scene frames handed to the broker.",
		}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ambience",
			Name:      "frames_dropped_total",
			Help:      "Frames dropped because a subscriber channel was full.",
		}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ambience",
			Name:      "stream_clients",
			Help:      "Connected scene stream subscribers.",
		}),
	}

	prometheus.MustRegister(
		m.SceneRecomputes,
		m.RecomputeDuration,
		m.EngineRunning,
		m.SessionsActive,
		m.SessionsCreated,
		m.SessionsExpired,
		m.WeatherFetches,
		m.WeatherCache,
		m.FramesPublished,
		m.FramesDropped,
		m.StreamClients,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SceneRecomputes:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ambience", Name: "scene_recomputes_total"}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "ambience", Name: "recompute_duration_seconds"}),
		EngineRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "ambience", Name: "engine_running"}),
		SessionsActive:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "ambience", Name: "sessions_active"}),
		SessionsCreated:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ambience", Name: "sessions_created_total"}),
		SessionsExpired:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ambience", Name: "sessions_expired_total"}),
		WeatherFetches:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ambience", Name: "weather_fetches_total"}, []string{"outcome"}),
		WeatherCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ambience", Name: "weather_cache_total"}, []string{"result"}),
		FramesPublished:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ambience", Name: "frames_published_total"}),
		FramesDropped:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ambience", Name: "frames_dropped_total"}),
		StreamClients:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "ambience", Name: "stream_clients"}),
	}
}
