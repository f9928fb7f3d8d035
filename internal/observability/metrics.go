package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the frost pipeline.
type Metrics struct {
	Cycles          *prometheus.CounterVec // labels: outcome={success,invalid_observation,external_failure,dispatch_error}
	CycleDuration   prometheus.Histogram
	LastCycleTime   prometheus.Gauge
	SchedulerActive prometheus.Gauge

	// Decision metrics.
	Verdicts     *prometheus.CounterVec // labels: verdict={at_risk,clear}
	RiskSignals  prometheus.Gauge
	DroneTrigger prometheus.Counter

	// Weather provider metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error}
	WeatherAPIDuration prometheus.Histogram

	// Dispatch sink metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Cycles,
		m.CycleDuration,
		m.LastCycleTime,
		m.SchedulerActive,
		m.Verdicts,
		m.RiskSignals,
		m.DroneTrigger,
		m.WeatherRequests,
		m.WeatherAPIDuration,
		m.EventsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests. Offline tools
// that never serve /metrics use it too.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frostguard",
			Name:      "cycles_total",
			Help:      "Evaluation cycles by outcome.",
		}, []string{"outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "frostguard",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-evaluate-dispatch cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastCycleTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "frostguard",
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time of the last completed cycle.",
		}),
		SchedulerActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "frostguard",
			Name:      "scheduler_running",
			Help:      "1 when scheduled cycles are active, 0 when shut down.",
		}),
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frostguard",
			Name:      "verdicts_total",
			Help:      "Frost-risk verdicts by result.",
		}, []string{"verdict"}),
		RiskSignals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "frostguard",
			Name:      "risk_signals",
			Help:      "Number of threshold signals that held in the last evaluation.",
		}),
		DroneTrigger: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frostguard",
			Name:      "drone_triggers_total",
			Help:      "Anti-frost drone activations requested.",
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frostguard",
			Name:      "weather_requests_total",
			Help:      "Weather provider requests by outcome.",
		}, []string{"outcome"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "frostguard",
			Name:      "weather_api_duration_seconds",
			Help:      "Weather provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frostguard",
			Name:      "events_published_total",
			Help:      "Dispatch events written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frostguard",
			Name:      "publish_errors_total",
			Help:      "Dispatch events that failed to publish.",
		}),
	}
}
