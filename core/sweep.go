package core

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultSweepRays is the number of background rays drawn per frame.
	DefaultSweepRays = 40
	// DefaultSpanFactor widens the background fan past the 10 dB cone.
	DefaultSpanFactor = 1.5
)

// SweepSpec selects the background rays of a sweep: Rays+1 evenly spaced
// launch angles covering SpanFactor times the 10 dB beamwidth, centred on
// boresight.
type SweepSpec struct {
	Rays       int
	SpanFactor float64
	// Workers bounds the goroutines tracing in parallel. Zero means GOMAXPROCS.
	Workers int
}

// DefaultSweepSpec returns 40 rays across 1.5x the 10 dB beamwidth.
func DefaultSweepSpec() SweepSpec {
	return SweepSpec{Rays: DefaultSweepRays, SpanFactor: DefaultSpanFactor}
}

// Validate checks the spec before any tracing.
func (s SweepSpec) Validate() error {
	if s.Rays < 1 {
		return fmt.Errorf("%w: need at least one ray interval, got %d", ErrInvalidSweep, s.Rays)
	}
	if !isFinite(s.SpanFactor) || s.SpanFactor <= 0 {
		return fmt.Errorf("%w: span factor must be positive, got %v", ErrInvalidSweep, s.SpanFactor)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidSweep, s.Workers)
	}
	return nil
}

// Angles returns the launch angles of the background rays for a feed.
func (s SweepSpec) Angles(feed FeedSource) []float64 {
	maxAngle := 2 * feed.HalfAngle() * s.SpanFactor
	return floats.Span(make([]float64, s.Rays+1), -maxAngle/2, maxAngle/2)
}

// SweepResult holds one traced fan of rays.
type SweepResult struct {
	// Rays are in ascending launch-angle order.
	Rays []TraceResult

	// Lower and Upper are the 10 dB edge rays.
	Lower TraceResult
	Upper TraceResult

	Hits       int
	Spillovers int
	Misses     int
}

// Boundaries returns the two 10 dB edge rays.
func (r *SweepResult) Boundaries() [2]TraceResult {
	return [2]TraceResult{r.Lower, r.Upper}
}

// SpilloverRatio returns the fraction of intersecting background rays that
// miss the dish. It is zero when no ray intersects.
func (r *SweepResult) SpilloverRatio() float64 {
	n := r.Hits + r.Spillovers
	if n == 0 {
		return 0
	}
	return float64(r.Spillovers) / float64(n)
}

// Sweep traces every background angle of spec plus the two boundary rays.
// Angles are traced by a bounded pool of goroutines; results do not depend
// on scheduling. It returns early with ctx.Err() if ctx is cancelled.
func Sweep(ctx context.Context, rt RayTracer, spec SweepSpec) (*SweepResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	angles := spec.Angles(rt.Feed())
	rays := make([]TraceResult, len(angles))

	workers := spec.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(angles) {
		workers = len(angles)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rays[i] = rt.Trace(angles[i])
			}
		}()
	}

	var err error
dispatch:
	for i := range angles {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return nil, err
	}

	res := &SweepResult{Rays: rays}
	res.Lower, res.Upper = rt.TraceBoundaries()
	for _, r := range rays {
		switch r.Outcome {
		case OutcomeHit:
			res.Hits++
		case OutcomeSpillover:
			res.Spillovers++
		default:
			res.Misses++
		}
	}
	return res, nil
}
