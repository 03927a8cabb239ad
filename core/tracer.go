package core

import (
	"fmt"
	"math"
)

// linearEpsilon is the |a| below which the intersection equation is solved
// as linear (ray along the axis).
const linearEpsilon = 1e-6

// Outcome classifies a traced ray.
type Outcome int

const (
	// OutcomeNoIntersection means the ray never meets the parabola ahead of the feed.
	OutcomeNoIntersection Outcome = iota
	// OutcomeHit means the ray lands on the dish within its aperture.
	OutcomeHit
	// OutcomeSpillover means the ray crosses the extended parabola outside the rim.
	OutcomeSpillover
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoIntersection:
		return "no_intersection"
	case OutcomeHit:
		return "hit"
	case OutcomeSpillover:
		return "spillover"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// TraceResult is the outcome of tracing one launch angle.
type TraceResult struct {
	Theta    float64
	Incident Ray
	Outcome  Outcome

	// T is the distance from the feed to Point. Point and T are zero when
	// Outcome is OutcomeNoIntersection.
	T     float64
	Point Vec2

	// Normal and Reflected are only set for hits.
	Normal    Vec2
	Reflected *Ray
}

// Intersects reports whether the ray met the parabola at all.
func (r TraceResult) Intersects() bool { return r.Outcome != OutcomeNoIntersection }

// IsHit reports whether the ray landed on the dish.
func (r TraceResult) IsHit() bool { return r.Outcome == OutcomeHit }

// RayTracer traces feed rays against a reflector. It holds both by value and
// carries no other state, so one tracer can serve any number of goroutines.
type RayTracer struct {
	surface ReflectorSurface
	feed    FeedSource
}

// NewRayTracer pairs a reflector with a feed.
func NewRayTracer(surface ReflectorSurface, feed FeedSource) RayTracer {
	return RayTracer{surface: surface, feed: feed}
}

// Surface returns the reflector being traced.
func (rt RayTracer) Surface() ReflectorSurface { return rt.surface }

// Feed returns the illuminating feed.
func (rt RayTracer) Feed() FeedSource { return rt.feed }

// FeedPosition returns the feed location in the dish frame.
func (rt RayTracer) FeedPosition() Vec2 { return rt.feed.Position(rt.surface) }

// Trace follows the ray launched at theta radians from boresight to its
// nearest forward crossing of x² = 4fy, classifies it, and mirrors it about
// the surface normal when it hits.
func (rt RayTracer) Trace(theta float64) TraceResult {
	origin := rt.FeedPosition()
	d := launchDirection(theta)
	res := TraceResult{
		Theta:    theta,
		Incident: Ray{Origin: origin, Direction: d},
		Outcome:  OutcomeNoIntersection,
	}

	t, ok := rt.intersect(origin.Y, d)
	if !ok {
		return res
	}
	p := res.Incident.At(t)
	if !p.IsFinite() {
		return res
	}
	res.T = t
	res.Point = p

	if !rt.surface.OnDish(p.X) {
		res.Outcome = OutcomeSpillover
		return res
	}
	res.Outcome = OutcomeHit
	n := rt.surface.Normal(p.X)
	res.Normal = n
	res.Reflected = &Ray{Origin: p, Direction: d.Reflect(n)}
	return res
}

// intersect solves a t² + b t + c = 0 for the smallest positive t, where
// the ray (t·dx, feedY + t·dy) is substituted into x² = 4fy.
func (rt RayTracer) intersect(feedY float64, d Vec2) (float64, bool) {
	f := rt.surface.FocalLength()
	a := d.X * d.X
	b := -4 * f * d.Y
	c := -4 * f * feedY

	if math.Abs(a) < linearEpsilon {
		if b == 0 {
			return 0, false
		}
		t := -c / b
		return t, t > 0 && isFinite(t)
	}

	delta := b*b - 4*a*c
	if delta < 0 {
		return 0, false
	}
	sq := math.Sqrt(delta)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	switch {
	case t1 > 0 && isFinite(t1):
		return t1, true
	case t2 > 0 && isFinite(t2):
		return t2, true
	}
	return 0, false
}

// TraceBoundaries traces the two 10 dB edge rays at -halfAngle and
// +halfAngle.
func (rt RayTracer) TraceBoundaries() (lower, upper TraceResult) {
	lo, hi := rt.feed.BoundaryAngles()
	return rt.Trace(lo), rt.Trace(hi)
}

// EdgeAngle returns the launch angle (radians, positive side) of the ray that
// lands exactly on the rim. It exceeds π/2 when the feed sits below the rim
// plane.
func (rt RayTracer) EdgeAngle() float64 {
	toRim := rt.surface.Rim().Sub(rt.FeedPosition())
	// boresight is -Y, so measure from (0, -1)
	return math.Atan2(toRim.X, -toRim.Y)
}
