package observability

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// OpticsCollector bundles Prometheus metrics for ray sweeps and efficiency
// figures.
type OpticsCollector struct {
	gatherer prometheus.Gatherer

	RaysTraced     *prometheus.CounterVec
	BoundaryRays   *prometheus.CounterVec
	SweepDurations prometheus.Histogram
	ConfigReplaced prometheus.Counter

	SpilloverEfficiency prometheus.Gauge
	ApertureEfficiency  prometheus.Gauge
	EdgeTaperDB         prometheus.Gauge
	SpilloverRatio      prometheus.Gauge
}

// NewOpticsCollector registers the optics metrics against reg, defaulting to
// the global Prometheus registry when nil. Registering twice against the same
// registry returns the existing collectors.
func NewOpticsCollector(reg prometheus.Registerer) (*OpticsCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	rays, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optics_rays_traced_total",
		Help: "Background rays traced, labeled by outcome (hit, spillover, no_intersection).",
	}, []string{"outcome"}), "optics_rays_traced_total")
	if err != nil {
		return nil, err
	}
	boundary, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optics_boundary_rays_total",
		Help: "10 dB edge rays traced, labeled by side (lower, upper) and outcome.",
	}, []string{"side", "outcome"}), "optics_boundary_rays_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optics_sweep_duration_seconds",
		Help:    "Wall time to trace one sweep and its efficiency figures.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}), "optics_sweep_duration_seconds")
	if err != nil {
		return nil, err
	}
	replaced, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optics_config_replacements_total",
		Help: "Configuration snapshots installed.",
	}), "optics_config_replacements_total")
	if err != nil {
		return nil, err
	}

	gauges := make([]prometheus.Gauge, 0, 4)
	for _, opts := range []prometheus.GaugeOpts{
		{Name: "optics_spillover_efficiency", Help: "Fraction of forward feed power landing on the dish."},
		{Name: "optics_aperture_efficiency", Help: "Spillover times illumination efficiency; zero when the feed is defocused."},
		{Name: "optics_edge_taper_db", Help: "Feed power at the rim angle relative to boresight, in dB."},
		{Name: "optics_sweep_spillover_ratio", Help: "Fraction of intersecting background rays that miss the dish."},
	} {
		g, err := registerGauge(reg, prometheus.NewGauge(opts), opts.Name)
		if err != nil {
			return nil, err
		}
		gauges = append(gauges, g)
	}

	return &OpticsCollector{
		gatherer:            gatherer,
		RaysTraced:          rays,
		BoundaryRays:        boundary,
		SweepDurations:      durations,
		ConfigReplaced:      replaced,
		SpilloverEfficiency: gauges[0],
		ApertureEfficiency:  gauges[1],
		EdgeTaperDB:         gauges[2],
		SpilloverRatio:      gauges[3],
	}, nil
}

// FrameStats is the per-frame summary the collector records. It mirrors the
// engine's frame report without importing it.
type FrameStats struct {
	Hits, Spillovers, Misses int
	LowerOutcome             string
	UpperOutcome             string
	SpilloverRatio           float64
	SpilloverEfficiency      float64
	ApertureEfficiency       float64
	EdgeTaperDB              float64
	Duration                 time.Duration
}

// RecordFrame updates counters and gauges from one evaluated frame.
func (c *OpticsCollector) RecordFrame(s FrameStats) {
	if c == nil {
		return
	}
	c.RaysTraced.WithLabelValues("hit").Add(float64(s.Hits))
	c.RaysTraced.WithLabelValues("spillover").Add(float64(s.Spillovers))
	c.RaysTraced.WithLabelValues("no_intersection").Add(float64(s.Misses))
	c.BoundaryRays.WithLabelValues("lower", s.LowerOutcome).Inc()
	c.BoundaryRays.WithLabelValues("upper", s.UpperOutcome).Inc()
	c.SweepDurations.Observe(s.Duration.Seconds())
	c.SpilloverRatio.Set(s.SpilloverRatio)
	c.SpilloverEfficiency.Set(s.SpilloverEfficiency)
	c.ApertureEfficiency.Set(s.ApertureEfficiency)
	c.EdgeTaperDB.Set(s.EdgeTaperDB)
}

// RecordConfigReplaced counts an installed configuration snapshot.
func (c *OpticsCollector) RecordConfigReplaced() {
	if c == nil {
		return
	}
	c.ConfigReplaced.Inc()
}

// WriteText dumps every gathered metric family to w in the Prometheus text
// exposition format.
func (c *OpticsCollector) WriteText(w io.Writer) error {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
