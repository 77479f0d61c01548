package synth

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the collectors of one Synthesizer.
type Metrics struct {
	Hits     *prometheus.CounterVec
	Misses   *prometheus.CounterVec
	Errors   *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Cached   prometheus.Gauge
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Hits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typeforge_synth_cache_hits_total",
				Help: "Synthesis requests served from the type cache",
			},
			[]string{"kind"},
		),
		Misses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typeforge_synth_cache_misses_total",
				Help: "Synthesis requests that built a new type",
			},
			[]string{"kind"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typeforge_synth_errors_total",
				Help: "Synthesis requests that failed",
			},
			[]string{"kind"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "typeforge_synth_duration_seconds",
				Help:    "Time spent building a type on a cache miss",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "strategy"},
		),
		Cached: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "typeforge_synth_cached_types",
			Help: "Number of types held by the synthesis cache",
		}),
	}
}

// Register adds the collectors to reg. Collectors already registered there
// are adopted, so several synthesizers can share one registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if reg == nil {
		return nil
	}

	var are prometheus.AlreadyRegisteredError

	register := func(c prometheus.Collector) (prometheus.Collector, error) {
		if err := reg.Register(c); err != nil {
			if errors.As(err, &are) {
				return are.ExistingCollector, nil
			}

			return nil, err
		}

		return c, nil
	}

	for _, target := range []**prometheus.CounterVec{&m.Hits, &m.Misses, &m.Errors} {
		c, err := register(*target)
		if err != nil {
			return err
		}

		if existing, ok := c.(*prometheus.CounterVec); ok {
			*target = existing
		}
	}

	c, err := register(m.Duration)
	if err != nil {
		return err
	}

	if existing, ok := c.(*prometheus.HistogramVec); ok {
		m.Duration = existing
	}

	c, err = register(m.Cached)
	if err != nil {
		return err
	}

	if existing, ok := c.(prometheus.Gauge); ok {
		m.Cached = existing
	}

	return nil
}
