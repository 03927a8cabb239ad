package core

import "math"

// Vec2 is a point or direction in the dish's local axial frame, in metres.
// X runs across the aperture, Y along the dish axis with the vertex at the
// origin.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Norm returns the Euclidean norm of the vector.
func (v Vec2) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Unit returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec2) Unit() Vec2 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vec2{X: v.X / n, Y: v.Y / n}
}

// Reflect mirrors v about the unit normal n: v - 2(v·n)n.
func (v Vec2) Reflect(n Vec2) Vec2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// IsFinite reports whether both components are finite.
func (v Vec2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Ray is a half-line starting at Origin and heading along the unit vector
// Direction.
type Ray struct {
	Origin    Vec2
	Direction Vec2
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec2 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// launchDirection is the unit direction of a ray leaving the feed at angle
// theta from boresight. Boresight points down the axis toward the vertex.
func launchDirection(theta float64) Vec2 {
	return Vec2{X: math.Sin(theta), Y: -math.Cos(theta)}
}
