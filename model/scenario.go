package model

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a setting lies outside the range the
// driver accepts.
var ErrOutOfRange = errors.New("setting out of range")

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Slider ranges offered by the interactive tool.
var (
	DiameterRange   = Range{Min: 0.3, Max: 10}
	FocalRatioRange = Range{Min: 0.1, Max: 1}
	BeamwidthRange  = Range{Min: 10, Max: 160}
	OffsetRange     = Range{Min: -10, Max: 10}
)

// DishConfig describes the reflector. The focal length is always derived as
// DiameterM x FocalRatio.
type DishConfig struct {
	DiameterM  float64 `json:"diameter_m"`
	FocalRatio float64 `json:"f_over_d"`
}

// FocalLengthM returns D x f/D in metres.
func (d DishConfig) FocalLengthM() float64 {
	return d.DiameterM * d.FocalRatio
}

// FeedConfig describes the feed horn.
type FeedConfig struct {
	Beamwidth10dBDeg float64 `json:"beamwidth_10db_deg"`
	HeightOffsetM    float64 `json:"height_offset_m"`
}

// SweepConfig controls how densely the background fan is sampled.
type SweepConfig struct {
	Rays       int     `json:"rays"`
	SpanFactor float64 `json:"span_factor"`
}

// DisplayConfig holds presentation toggles. None of them affect the optics.
type DisplayConfig struct {
	ShowRays    bool `json:"show_rays"`
	ShowNormals bool `json:"show_normals"`
	ShowFeed    bool `json:"show_feed"`
}

// Scenario is one complete configuration snapshot. It is a plain value;
// replace it wholesale rather than mutating a shared copy.
type Scenario struct {
	Name    string        `json:"name,omitempty"`
	Dish    DishConfig    `json:"dish"`
	Feed    FeedConfig    `json:"feed"`
	Sweep   SweepConfig   `json:"sweep"`
	Display DisplayConfig `json:"display"`
}

// DefaultScenario returns the tool's start-up settings: a 3 m dish at
// f/D 0.5 fed from the focus by a 90 degree feed.
func DefaultScenario() Scenario {
	return Scenario{
		Name: "default",
		Dish: DishConfig{DiameterM: 3, FocalRatio: 0.5},
		Feed: FeedConfig{Beamwidth10dBDeg: 90, HeightOffsetM: 0},
		Sweep: SweepConfig{
			Rays:       40,
			SpanFactor: 1.5,
		},
		Display: DisplayConfig{ShowRays: true, ShowFeed: true},
	}
}

// Validate enforces the slider ranges.
func (s Scenario) Validate() error {
	checks := []struct {
		name string
		v    float64
		r    Range
	}{
		{"dish.diameter_m", s.Dish.DiameterM, DiameterRange},
		{"dish.f_over_d", s.Dish.FocalRatio, FocalRatioRange},
		{"feed.beamwidth_10db_deg", s.Feed.Beamwidth10dBDeg, BeamwidthRange},
		{"feed.height_offset_m", s.Feed.HeightOffsetM, OffsetRange},
	}
	for _, c := range checks {
		if !c.r.Contains(c.v) {
			return fmt.Errorf("%w: %s = %v, want [%v, %v]", ErrOutOfRange, c.name, c.v, c.r.Min, c.r.Max)
		}
	}
	if s.Sweep.Rays < 1 {
		return fmt.Errorf("%w: sweep.rays = %d, want >= 1", ErrOutOfRange, s.Sweep.Rays)
	}
	if s.Sweep.SpanFactor <= 0 {
		return fmt.Errorf("%w: sweep.span_factor = %v, want > 0", ErrOutOfRange, s.Sweep.SpanFactor)
	}
	return nil
}
