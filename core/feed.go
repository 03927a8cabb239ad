package core

import (
	"fmt"
	"math"
)

const (
	// tenDBPower is the linear power ratio at the 10 dB beam edge.
	tenDBPower = 0.1

	// CollimatedThreshold is the half-angle (radians) below which the cosine
	// exponent is numerically meaningless and the pattern is treated as
	// collimated.
	CollimatedThreshold = 0.001

	// MinPowerDB floors PowerDB so a zero linear power never yields -Inf.
	MinPowerDB = -100.0
)

// FeedSource is the illuminating feed: its 10 dB full beamwidth (degrees) and
// its offset (metres) along the axis from the dish focus.
type FeedSource struct {
	beamwidthDeg float64
	offset       float64
}

// NewFeedSource validates a feed description. The beamwidth must lie in
// (0, 180) degrees.
func NewFeedSource(beamwidth10dBDeg, heightOffset float64) (FeedSource, error) {
	if !isFinite(beamwidth10dBDeg) || beamwidth10dBDeg <= 0 || beamwidth10dBDeg >= 180 {
		return FeedSource{}, fmt.Errorf("%w: 10 dB beamwidth must be in (0, 180) degrees, got %v", ErrInvalidFeed, beamwidth10dBDeg)
	}
	if !isFinite(heightOffset) {
		return FeedSource{}, fmt.Errorf("%w: height offset must be finite, got %v", ErrInvalidFeed, heightOffset)
	}
	return FeedSource{beamwidthDeg: beamwidth10dBDeg, offset: heightOffset}, nil
}

// Beamwidth10dB returns the full 10 dB beamwidth in degrees.
func (f FeedSource) Beamwidth10dB() float64 { return f.beamwidthDeg }

// HeightOffset returns the axial offset from the focus in metres.
func (f FeedSource) HeightOffset() float64 { return f.offset }

// HalfAngle returns half the 10 dB beamwidth in radians.
func (f FeedSource) HalfAngle() float64 {
	return f.beamwidthDeg / 2 * math.Pi / 180
}

// BoundaryAngles returns the launch angles of the two 10 dB edge rays,
// -halfAngle and +halfAngle.
func (f FeedSource) BoundaryAngles() (lower, upper float64) {
	h := f.HalfAngle()
	return -h, h
}

// Position returns the feed location (0, f + offset) for the given dish.
func (f FeedSource) Position(s ReflectorSurface) Vec2 {
	return Vec2{X: 0, Y: s.FocalLength() + f.offset}
}

// Pattern derives the feed's power pattern.
func (f FeedSource) Pattern() FeedPattern {
	return newFeedPattern(f.HalfAngle())
}

// PatternKind tags the variant of a FeedPattern.
type PatternKind int

const (
	// PatternCosine is P(θ) = cos(θ)^n.
	PatternCosine PatternKind = iota
	// PatternCollimated radiates only along boresight.
	PatternCollimated
)

func (k PatternKind) String() string {
	switch k {
	case PatternCosine:
		return "cosine"
	case PatternCollimated:
		return "collimated"
	default:
		return fmt.Sprintf("PatternKind(%d)", int(k))
	}
}

// FeedPattern maps launch angle to relative radiated power in [0, 1].
// A cosine pattern holds its exponent n with cos(halfAngle)^n = 0.1.
// A collimated pattern is a delta at boresight.
type FeedPattern struct {
	kind     PatternKind
	exponent float64
}

// NewFeedPattern derives the pattern for a 10 dB full beamwidth in degrees.
func NewFeedPattern(beamwidth10dBDeg float64) (FeedPattern, error) {
	feed, err := NewFeedSource(beamwidth10dBDeg, 0)
	if err != nil {
		return FeedPattern{}, err
	}
	return feed.Pattern(), nil
}

func newFeedPattern(halfAngle float64) FeedPattern {
	if math.Abs(halfAngle) < CollimatedThreshold {
		return FeedPattern{kind: PatternCollimated}
	}
	n := math.Log(tenDBPower) / math.Log(math.Cos(halfAngle))
	return FeedPattern{kind: PatternCosine, exponent: n}
}

// Kind returns the pattern variant.
func (p FeedPattern) Kind() PatternKind { return p.kind }

// Exponent returns the cosine exponent n. It is zero for a collimated pattern.
func (p FeedPattern) Exponent() float64 { return p.exponent }

// Power returns the relative power radiated at angle theta (radians) from
// boresight. Nothing is radiated backwards, |θ| > π/2, and a non-finite
// angle radiates nothing.
func (p FeedPattern) Power(theta float64) float64 {
	if !isFinite(theta) || math.Abs(theta) > math.Pi/2 {
		return 0
	}
	if p.kind == PatternCollimated {
		if theta == 0 {
			return 1
		}
		return 0
	}
	c := math.Cos(theta)
	if c <= 0 {
		return 0
	}
	return math.Pow(c, p.exponent)
}

// PowerDB returns Power in decibels relative to boresight, floored at
// MinPowerDB.
func (p FeedPattern) PowerDB(theta float64) float64 {
	pw := p.Power(theta)
	if pw <= 0 {
		return MinPowerDB
	}
	return math.Max(10*math.Log10(pw), MinPowerDB)
}

// Sample evaluates Power at each angle.
func (p FeedPattern) Sample(angles []float64) []float64 {
	out := make([]float64, len(angles))
	for i, a := range angles {
		out[i] = p.Power(a)
	}
	return out
}
