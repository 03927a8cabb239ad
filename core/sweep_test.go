package core

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestSweepSpecAngles(t *testing.T) {
	feed, err := NewFeedSource(90, 0)
	if err != nil {
		t.Fatalf("NewFeedSource: %v", err)
	}
	angles := DefaultSweepSpec().Angles(feed)
	if len(angles) != 41 {
		t.Fatalf("len(Angles) = %d, want 41", len(angles))
	}
	// 1.5 x 90° = 135° fan, centred on boresight
	want := 135.0 / 2 * math.Pi / 180
	if math.Abs(angles[0]+want) > 1e-12 || math.Abs(angles[40]-want) > 1e-12 {
		t.Fatalf("fan = [%v, %v], want ±%v", angles[0], angles[40], want)
	}
	if math.Abs(angles[20]) > 1e-12 {
		t.Fatalf("middle angle = %v, want 0", angles[20])
	}
	for i := 1; i < len(angles); i++ {
		if angles[i] <= angles[i-1] {
			t.Fatalf("angles not ascending at %d", i)
		}
	}
}

func TestSweepSpecValidate(t *testing.T) {
	for _, spec := range []SweepSpec{
		{Rays: 0, SpanFactor: 1.5},
		{Rays: 40, SpanFactor: 0},
		{Rays: 40, SpanFactor: math.NaN()},
		{Rays: 40, SpanFactor: 1, Workers: -1},
	} {
		if err := spec.Validate(); !errors.Is(err, ErrInvalidSweep) {
			t.Fatalf("Validate(%+v) = %v, want ErrInvalidSweep", spec, err)
		}
	}
}

func TestSweepMatchesSequentialTracing(t *testing.T) {
	rt := mustTracer(t, 3, 1.5, 120, 0.2)
	spec := SweepSpec{Rays: 64, SpanFactor: 1.5, Workers: 4}

	res, err := Sweep(context.Background(), rt, spec)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	angles := spec.Angles(rt.Feed())
	if len(res.Rays) != len(angles) {
		t.Fatalf("len(Rays) = %d, want %d", len(res.Rays), len(angles))
	}
	hits, spills, misses := 0, 0, 0
	for i, th := range angles {
		want := rt.Trace(th)
		if !reflect.DeepEqual(res.Rays[i], want) {
			t.Fatalf("ray %d differs from Trace(%v)", i, th)
		}
		switch want.Outcome {
		case OutcomeHit:
			hits++
		case OutcomeSpillover:
			spills++
		default:
			misses++
		}
	}
	if res.Hits != hits || res.Spillovers != spills || res.Misses != misses {
		t.Fatalf("counts = %d/%d/%d, want %d/%d/%d", res.Hits, res.Spillovers, res.Misses, hits, spills, misses)
	}

	lo, hi := rt.TraceBoundaries()
	if b := res.Boundaries(); !reflect.DeepEqual(b[0], lo) || !reflect.DeepEqual(b[1], hi) {
		t.Fatalf("boundary rays differ from TraceBoundaries")
	}
}

func TestSweepIsDeterministicAcrossWorkerCounts(t *testing.T) {
	rt := mustTracer(t, 2, 0.8, 100, -0.1)
	base, err := Sweep(context.Background(), rt, SweepSpec{Rays: 100, SpanFactor: 1.5, Workers: 1})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	for _, w := range []int{0, 2, 7, 500} {
		got, err := Sweep(context.Background(), rt, SweepSpec{Rays: 100, SpanFactor: 1.5, Workers: w})
		if err != nil {
			t.Fatalf("Sweep(workers=%d): %v", w, err)
		}
		if !reflect.DeepEqual(got, base) {
			t.Fatalf("Sweep(workers=%d) differs from single-worker sweep", w)
		}
	}
}

func TestSweepSpilloverRatio(t *testing.T) {
	rt := mustTracer(t, 0.3, 0.15, 160, 0)
	res, err := Sweep(context.Background(), rt, DefaultSweepSpec())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Spillovers == 0 {
		t.Fatalf("expected spillover rays for a 160° feed on a 0.3 m dish")
	}
	want := float64(res.Spillovers) / float64(res.Hits+res.Spillovers)
	if got := res.SpilloverRatio(); got != want {
		t.Fatalf("SpilloverRatio = %v, want %v", got, want)
	}
	if got := (&SweepResult{}).SpilloverRatio(); got != 0 {
		t.Fatalf("empty SpilloverRatio = %v, want 0", got)
	}
}

func TestSweepHonoursCancelledContext(t *testing.T) {
	rt := mustTracer(t, 3, 1.5, 90, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Sweep(ctx, rt, DefaultSweepSpec()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Sweep error = %v, want context.Canceled", err)
	}
}
