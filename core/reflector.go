package core

import (
	"fmt"
	"math"
)

// ReflectorSurface is the axial cross-section of a parabolic dish,
// x² = 4fy, with its vertex at the origin and its focus at (0, f).
//
// Values are immutable once constructed; copy them freely between goroutines.
type ReflectorSurface struct {
	diameter    float64
	focalLength float64
}

// NewReflectorSurface validates the dish diameter and focal length (both in
// metres). The two are taken as given; the caller decides how f relates to D.
func NewReflectorSurface(diameter, focalLength float64) (ReflectorSurface, error) {
	if !isFinite(diameter) || diameter <= 0 {
		return ReflectorSurface{}, fmt.Errorf("%w: diameter must be positive, got %v", ErrInvalidReflector, diameter)
	}
	if !isFinite(focalLength) || focalLength <= 0 {
		return ReflectorSurface{}, fmt.Errorf("%w: focal length must be positive, got %v", ErrInvalidReflector, focalLength)
	}
	return ReflectorSurface{diameter: diameter, focalLength: focalLength}, nil
}

// Diameter returns D in metres.
func (s ReflectorSurface) Diameter() float64 { return s.diameter }

// FocalLength returns f in metres.
func (s ReflectorSurface) FocalLength() float64 { return s.focalLength }

// HalfDiameter returns the aperture radius D/2.
func (s ReflectorSurface) HalfDiameter() float64 { return s.diameter / 2 }

// FocalRatio returns f/D.
func (s ReflectorSurface) FocalRatio() float64 { return s.focalLength / s.diameter }

// Focus returns the focal point (0, f).
func (s ReflectorSurface) Focus() Vec2 { return Vec2{X: 0, Y: s.focalLength} }

// Height returns the surface height x²/4f. It extrapolates past the rim.
func (s ReflectorSurface) Height(x float64) float64 {
	return x * x / (4 * s.focalLength)
}

// Slope returns dy/dx = x/2f.
func (s ReflectorSurface) Slope(x float64) float64 {
	return x / (2 * s.focalLength)
}

// Normal returns the unit surface normal at x. The tangent is (1, m) so the
// normal (-m, 1) always has a positive Y component and faces the feed side.
func (s ReflectorSurface) Normal(x float64) Vec2 {
	m := s.Slope(x)
	l := math.Sqrt(m*m + 1)
	return Vec2{X: -m / l, Y: 1 / l}
}

// Depth returns the height of the rim above the vertex, D²/16f.
func (s ReflectorSurface) Depth() float64 {
	return s.Height(s.HalfDiameter())
}

// Rim returns the right-hand rim point (D/2, depth).
func (s ReflectorSurface) Rim() Vec2 {
	return Vec2{X: s.HalfDiameter(), Y: s.Depth()}
}

// OnDish reports whether x lies within the aperture, |x| <= D/2.
func (s ReflectorSurface) OnDish(x float64) bool {
	return math.Abs(x) <= s.HalfDiameter()
}

// Outline returns steps+1 evenly spaced surface points from -D/2 to D/2.
func (s ReflectorSurface) Outline(steps int) []Vec2 {
	if steps < 1 {
		steps = 1
	}
	pts := make([]Vec2, 0, steps+1)
	for i := 0; i <= steps; i++ {
		x := -s.HalfDiameter() + s.diameter*float64(i)/float64(steps)
		pts = append(pts, Vec2{X: x, Y: s.Height(x)})
	}
	return pts
}
