package core

import (
	"fmt"

	"github.com/signalsfoundry/dish-optics/model"
)

// Optics is everything derived from one configuration snapshot.
type Optics struct {
	Surface ReflectorSurface
	Feed    FeedSource
	Pattern FeedPattern
	Tracer  RayTracer
	Sweep   SweepSpec
}

// NewOptics builds the reflector, feed, pattern and tracer for a scenario.
// Only the physical preconditions are checked here; slider ranges are the
// caller's business (see model.Scenario.Validate).
func NewOptics(s model.Scenario) (Optics, error) {
	surface, err := NewReflectorSurface(s.Dish.DiameterM, s.Dish.FocalLengthM())
	if err != nil {
		return Optics{}, err
	}
	feed, err := NewFeedSource(s.Feed.Beamwidth10dBDeg, s.Feed.HeightOffsetM)
	if err != nil {
		return Optics{}, err
	}
	spec := SweepSpec{Rays: s.Sweep.Rays, SpanFactor: s.Sweep.SpanFactor}
	if err := spec.Validate(); err != nil {
		return Optics{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return Optics{
		Surface: surface,
		Feed:    feed,
		Pattern: feed.Pattern(),
		Tracer:  NewRayTracer(surface, feed),
		Sweep:   spec,
	}, nil
}
