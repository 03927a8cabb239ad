package core

import (
	"errors"
	"math"
	"testing"
)

func TestNewFeedSourceValidation(t *testing.T) {
	for _, bw := range []float64{0, -10, 180, 200, math.NaN()} {
		if _, err := NewFeedSource(bw, 0); !errors.Is(err, ErrInvalidFeed) {
			t.Fatalf("NewFeedSource(%v) error = %v, want ErrInvalidFeed", bw, err)
		}
	}
	if _, err := NewFeedSource(90, math.Inf(-1)); !errors.Is(err, ErrInvalidFeed) {
		t.Fatalf("NewFeedSource with infinite offset error = %v, want ErrInvalidFeed", err)
	}
}

func TestFeedGeometry(t *testing.T) {
	feed, err := NewFeedSource(90, 0.25)
	if err != nil {
		t.Fatalf("NewFeedSource: %v", err)
	}
	s := mustSurface(t, 3, 1.5)
	if got := feed.Position(s); got != (Vec2{X: 0, Y: 1.75}) {
		t.Fatalf("Position = %v, want (0, 1.75)", got)
	}
	lo, hi := feed.BoundaryAngles()
	if math.Abs(hi-math.Pi/4) > 1e-15 || lo != -hi {
		t.Fatalf("BoundaryAngles = (%v, %v), want ±π/4", lo, hi)
	}
}

func TestPowerAtBoresightAndBeamEdge(t *testing.T) {
	for bw := 1.0; bw < 180; bw += 7 {
		p, err := NewFeedPattern(bw)
		if err != nil {
			t.Fatalf("NewFeedPattern(%v): %v", bw, err)
		}
		if p.Kind() != PatternCosine {
			t.Fatalf("NewFeedPattern(%v).Kind() = %v, want cosine", bw, p.Kind())
		}
		if got := p.Power(0); got != 1 {
			t.Fatalf("bw %v: Power(0) = %v, want 1", bw, got)
		}
		half := bw / 2 * math.Pi / 180
		if got := p.Power(half); math.Abs(got-0.1) > 1e-9 {
			t.Fatalf("bw %v: Power(halfAngle) = %v, want 0.1", bw, got)
		}
		if got := p.Power(-half); math.Abs(got-0.1) > 1e-9 {
			t.Fatalf("bw %v: Power(-halfAngle) = %v, want 0.1", bw, got)
		}
		if got := p.PowerDB(half); math.Abs(got+10) > 1e-6 {
			t.Fatalf("bw %v: PowerDB(halfAngle) = %v, want -10", bw, got)
		}
	}
}

func TestPowerIsZeroBehindFeed(t *testing.T) {
	p, err := NewFeedPattern(160)
	if err != nil {
		t.Fatalf("NewFeedPattern: %v", err)
	}
	for _, th := range []float64{math.Pi/2 + 1e-9, 2, math.Pi, -math.Pi / 2 * 1.01, -3} {
		if got := p.Power(th); got != 0 {
			t.Fatalf("Power(%v) = %v, want 0", th, got)
		}
	}
	if got := p.PowerDB(math.Pi); got != MinPowerDB {
		t.Fatalf("PowerDB(π) = %v, want %v", got, MinPowerDB)
	}
}

func TestPowerOfNonFiniteAngleIsZero(t *testing.T) {
	for _, bw := range []float64{90, 0.1} {
		p, err := NewFeedPattern(bw)
		if err != nil {
			t.Fatalf("NewFeedPattern(%v): %v", bw, err)
		}
		for _, th := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			if got := p.Power(th); got != 0 {
				t.Fatalf("bw %v: Power(%v) = %v, want 0", bw, th, got)
			}
			if got := p.PowerDB(th); got != MinPowerDB {
				t.Fatalf("bw %v: PowerDB(%v) = %v, want %v", bw, th, got, MinPowerDB)
			}
		}
	}
}

func TestPowerDecreasesAwayFromBoresight(t *testing.T) {
	p, err := NewFeedPattern(60)
	if err != nil {
		t.Fatalf("NewFeedPattern: %v", err)
	}
	prev := p.Power(0)
	for th := 0.05; th < math.Pi/2; th += 0.05 {
		cur := p.Power(th)
		if cur > prev || cur < 0 {
			t.Fatalf("Power(%v) = %v after %v, want monotone non-increasing in [0,1]", th, cur, prev)
		}
		prev = cur
	}
}

func TestCollimatedPattern(t *testing.T) {
	// 0.1 degrees full width is below the 0.001 rad half-angle threshold.
	p, err := NewFeedPattern(0.1)
	if err != nil {
		t.Fatalf("NewFeedPattern: %v", err)
	}
	if p.Kind() != PatternCollimated {
		t.Fatalf("Kind = %v, want collimated", p.Kind())
	}
	if p.Exponent() != 0 {
		t.Fatalf("Exponent = %v, want 0", p.Exponent())
	}
	if got := p.Power(0); got != 1 {
		t.Fatalf("Power(0) = %v, want 1", got)
	}
	for _, th := range []float64{1e-9, -0.01, 0.5} {
		if got := p.Power(th); got != 0 {
			t.Fatalf("Power(%v) = %v, want 0", th, got)
		}
	}
	if got := p.Sample([]float64{-0.1, 0, 0.1}); got[0] != 0 || got[1] != 1 || got[2] != 0 {
		t.Fatalf("Sample = %v, want [0 1 0]", got)
	}
}

func TestPatternKindString(t *testing.T) {
	if PatternCosine.String() != "cosine" || PatternCollimated.String() != "collimated" {
		t.Fatalf("unexpected kind names %q %q", PatternCosine, PatternCollimated)
	}
}
