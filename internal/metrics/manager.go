package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "netgains"
	Subsystem = "brief"
)

type Manager struct {
	// counters
	CounterBriefs       *prometheus.CounterVec
	CounterDegradations *prometheus.CounterVec
	CounterEnrichment   *prometheus.CounterVec
	CounterCache        *prometheus.CounterVec
	CounterInvalidation *prometheus.CounterVec

	// histograms
	HistGenerateDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager(Namespace, "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager(Namespace, "test", reg), reg
}

// SetupPrometheus returns a registry with the Go runtime, process and build
// collectors plus any extra collectors (e.g. connection pool stats).
func SetupPrometheus(extra ...prometheus.Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, c := range extra {
		reg.MustRegister(c)
	}
	return reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterBriefs := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generated_total",
		Help:      "Briefs computed by the engine, by status and mode",
	}, []string{"status", "mode"})
	counterDegradations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "degradations_total",
		Help:      "Sub-queries that failed and were replaced by an empty result",
	}, []string{"source"})
	counterEnrichment := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "enrichment_total",
		Help:      "Text generator outcomes",
	}, []string{"outcome"})
	counterCache := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_lookups_total",
		Help:      "Brief cache lookups by result",
	}, []string{"result"})
	counterInvalidation := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_invalidations_total",
		Help:      "Brief cache invalidations by event type",
	}, []string{"event"})

	histGenerateDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generate_duration_seconds",
		Help:      "Time to compute a brief on a cache miss",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	return &Manager{
		CounterBriefs:        counterBriefs,
		CounterDegradations:  counterDegradations,
		CounterEnrichment:    counterEnrichment,
		CounterCache:         counterCache,
		CounterInvalidation:  counterInvalidation,
		HistGenerateDuration: histGenerateDuration,
	}
}
