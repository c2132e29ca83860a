package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	batches       prometheus.Counter
	batchDuration prometheus.Histogram
	sessions      *prometheus.CounterVec
	sessionSize   prometheus.Histogram
	seated        *prometheus.CounterVec
	unseated      prometheus.Counter
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector. A nil registerer means
// prometheus.DefaultRegisterer and an empty namespace means "seating".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "seating"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.batches = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "batch",
			Name:      "runs_total",
			Help:      "Total completed allocation runs.",
		})
		p.batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Wall time of allocation runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		})
		p.sessions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "sessions_total",
			Help:      "Total exam sessions allocated by session label.",
		}, []string{"session"})
		p.sessionSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "session_courses",
			Help:      "Number of courses sitting in an allocated session.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		})
		p.seated = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "seated_students_total",
			Help:      "Total seated students by room pool.",
		}, []string{"pool"})
		p.unseated = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocator",
			Name:      "unseated_students_total",
			Help:      "Total students left without a seat because both pools ran dry.",
		})

		p.reg.MustRegister(p.batches)
		p.reg.MustRegister(p.batchDuration)
		p.reg.MustRegister(p.sessions)
		p.reg.MustRegister(p.sessionSize)
		p.reg.MustRegister(p.seated)
		p.reg.MustRegister(p.unseated)
	})
}

// RecordBatch records a finished run.
func (p *PrometheusCollector) RecordBatch(durationSeconds float64) {
	p.ensureRegistered()
	p.batches.Inc()
	p.batchDuration.Observe(durationSeconds)
}

// RecordSession records one allocated session.
func (p *PrometheusCollector) RecordSession(session string, courses int) {
	p.ensureRegistered()
	p.sessions.WithLabelValues(session).Inc()
	p.sessionSize.Observe(float64(courses))
}

// AddSeated adds seated students for a pool.
func (p *PrometheusCollector) AddSeated(pool string, n int) {
	if n <= 0 {
		return
	}
	p.ensureRegistered()
	p.seated.WithLabelValues(pool).Add(float64(n))
}

// AddUnseated adds students left without a seat.
func (p *PrometheusCollector) AddUnseated(n int) {
	if n <= 0 {
		return
	}
	p.ensureRegistered()
	p.unseated.Add(float64(n))
}
