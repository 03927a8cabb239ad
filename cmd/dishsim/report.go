package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/signalsfoundry/dish-optics/core"
)

func deg(rad float64) float64 { return rad * 180 / math.Pi }

// writeReport prints a human-readable summary of one frame.
func writeReport(w io.Writer, r *core.FrameReport) {
	s := r.Scenario
	o := r.Optics
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "scenario\t%s\n", s.Name)
	fmt.Fprintf(tw, "diameter\t%.2f m\n", o.Surface.Diameter())
	fmt.Fprintf(tw, "f/D\t%.2f\n", o.Surface.FocalRatio())
	fmt.Fprintf(tw, "focal length\t%.3f m\n", o.Surface.FocalLength())
	fmt.Fprintf(tw, "depth\t%.3f m\n", o.Surface.Depth())
	fmt.Fprintf(tw, "feed\t%.1f° -10 dB beamwidth, %s pattern", o.Feed.Beamwidth10dB(), o.Pattern.Kind())
	if o.Pattern.Kind() == core.PatternCosine {
		fmt.Fprintf(tw, " (n=%.2f)", o.Pattern.Exponent())
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "feed offset\t%+.3f m (y=%.3f m)\n", o.Feed.HeightOffset(), o.Tracer.FeedPosition().Y)

	sw := r.Sweep
	fmt.Fprintf(tw, "rays\t%d traced: %d hit, %d spillover, %d no intersection\n",
		len(sw.Rays), sw.Hits, sw.Spillovers, sw.Misses)
	for _, b := range []struct {
		name string
		res  core.TraceResult
	}{{"lower edge", sw.Lower}, {"upper edge", sw.Upper}} {
		fmt.Fprintf(tw, "%s\t%+.2f° %s", b.name, deg(b.res.Theta), b.res.Outcome)
		if b.res.Intersects() {
			fmt.Fprintf(tw, " at (%.3f, %.3f)", b.res.Point.X, b.res.Point.Y)
		}
		fmt.Fprintln(tw)
	}

	e := r.Efficiency
	fmt.Fprintf(tw, "rim edge angle\t%.2f°\n", deg(e.EdgeAngle))
	fmt.Fprintf(tw, "edge taper\t%.2f dB\n", e.EdgeTaperDB)
	fmt.Fprintf(tw, "spillover efficiency\t%.1f%%\n", 100*e.Spillover)
	if e.Focused {
		fmt.Fprintf(tw, "taper efficiency\t%.1f%%\n", 100*e.Taper)
		fmt.Fprintf(tw, "aperture efficiency\t%.1f%%\n", 100*e.Aperture)
	} else {
		fmt.Fprintf(tw, "aperture efficiency\tn/a (feed defocused)\n")
	}
	_ = tw.Flush()
}
