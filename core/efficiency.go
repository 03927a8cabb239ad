package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// DefaultEfficiencySamples is the integration grid size used by the driver.
const DefaultEfficiencySamples = 2048

// focusTolerance is how close (metres) the feed must be to the focus for the
// aperture efficiency to be reported.
const focusTolerance = 1e-9

// Efficiency summarises how well a feed pattern illuminates a dish, treating
// the pattern as rotationally symmetric about the axis.
type Efficiency struct {
	// Spillover is the fraction of forward-radiated power that lands on the dish.
	Spillover float64
	// EdgeAngle is the launch angle (radians) of the ray that meets the rim.
	EdgeAngle float64
	// EdgeTaperDB is the feed power at EdgeAngle relative to boresight.
	EdgeTaperDB float64

	// Focused is set when the feed sits at the focus. Aperture and Taper
	// are only computed then and are zero otherwise.
	Focused bool
	// Aperture is the product of spillover and illumination efficiency.
	Aperture float64
	// Taper is the illumination efficiency, Aperture / Spillover.
	Taper float64
}

// ComputeEfficiency integrates the pattern over launch angle on a grid of
// samples points using the trapezoidal rule.
func ComputeEfficiency(rt RayTracer, pattern FeedPattern, samples int) (Efficiency, error) {
	if samples < 2 {
		return Efficiency{}, fmt.Errorf("%w: efficiency needs at least 2 samples, got %d", ErrInvalidSweep, samples)
	}
	eff := Efficiency{
		EdgeAngle: rt.EdgeAngle(),
		Focused:   math.Abs(rt.Feed().HeightOffset()) < focusTolerance,
	}
	eff.EdgeTaperDB = pattern.PowerDB(eff.EdgeAngle)

	if pattern.Kind() == PatternCollimated {
		if rt.Trace(0).IsHit() {
			eff.Spillover = 1
		}
		return eff, nil
	}

	theta := floats.Span(make([]float64, samples), 0, math.Pi/2)
	total := make([]float64, samples)
	onDish := make([]float64, samples)
	for i, th := range theta {
		w := pattern.Power(th) * math.Sin(th)
		total[i] = w
		if rt.Trace(th).IsHit() {
			onDish[i] = w
		}
	}
	radiated := integrate.Trapezoidal(theta, total)
	if radiated <= 0 {
		return eff, nil
	}
	eff.Spillover = clamp01(integrate.Trapezoidal(theta, onDish) / radiated)

	if eff.Focused {
		eff.Aperture = apertureEfficiency(pattern, eff.EdgeAngle, radiated, samples)
		if eff.Spillover > 0 {
			eff.Taper = clamp01(eff.Aperture / eff.Spillover)
		}
	}
	return eff, nil
}

// apertureEfficiency evaluates cot²(ψ0/2)·(∫₀^ψ0 √G(ψ)·tan(ψ/2) dψ)² with the
// pattern normalised to directivity G = 2P / ∫P sinψ dψ.
func apertureEfficiency(pattern FeedPattern, edge, radiated float64, samples int) float64 {
	if edge <= 0 || edge >= math.Pi {
		return 0
	}
	psi := floats.Span(make([]float64, samples), 0, edge)
	f := make([]float64, samples)
	for i, p := range psi {
		g := 2 * pattern.Power(p) / radiated
		f[i] = math.Sqrt(g) * math.Tan(p/2)
	}
	cot := 1 / math.Tan(edge/2)
	v := integrate.Trapezoidal(psi, f)
	return clamp01(cot * cot * v * v)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
