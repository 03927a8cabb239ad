package render

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/signalsfoundry/dish-optics/core"
)

const (
	patternSamples = 361
	plotFloorDB    = -40.0
)

// PatternPlot builds a plot of the feed pattern in dB against off-axis angle,
// with markers at the -10 dB half-angle and, when edge is non-zero, at the
// rim edge angle.
func PatternPlot(feed core.FeedSource, edgeDeg float64) (*plot.Plot, error) {
	pattern := feed.Pattern()
	angles := floats.Span(make([]float64, patternSamples), -math.Pi/2, math.Pi/2)
	power := pattern.Sample(angles)
	pts := make(plotter.XYs, len(angles))
	for i, a := range angles {
		y := plotFloorDB
		if power[i] > 0 {
			y = math.Max(10*math.Log10(power[i]), plotFloorDB)
		}
		pts[i] = plotter.XY{X: a * 180 / math.Pi, Y: y}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Feed pattern (%s, -10 dB beamwidth %.1f°)", pattern.Kind(), feed.Beamwidth10dB())
	p.X.Label.Text = "angle off boresight (deg)"
	p.Y.Label.Text = "relative power (dB)"
	p.X.Min, p.X.Max = -90, 90
	p.Y.Min, p.Y.Max = plotFloorDB, 1
	p.Add(plotter.NewGrid())

	if err := plotutil.AddLines(p, "pattern", pts); err != nil {
		return nil, fmt.Errorf("render: pattern line: %w", err)
	}

	half := feed.HalfAngle() * 180 / math.Pi
	if err := addMarker(p, "-10 dB", half, 1); err != nil {
		return nil, err
	}
	if edgeDeg != 0 && !math.IsNaN(edgeDeg) {
		if err := addMarker(p, "rim edge", math.Abs(edgeDeg), 2); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WritePatternPlot renders the plot in format ("svg", "png", "pdf", ...).
func WritePatternPlot(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("render: pattern plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePatternPlot writes the plot to path; the extension picks the format.
func SavePatternPlot(path string, p *plot.Plot) error {
	if strings.TrimPrefix(filepath.Ext(path), ".") == "" {
		return fmt.Errorf("render: %q has no file extension", path)
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// addMarker draws a vertical pair of lines at ±deg.
func addMarker(p *plot.Plot, name string, deg float64, style int) error {
	for _, x := range []float64{-deg, deg} {
		l, err := plotter.NewLine(plotter.XYs{{X: x, Y: p.Y.Min}, {X: x, Y: p.Y.Max}})
		if err != nil {
			return fmt.Errorf("render: %s marker: %w", name, err)
		}
		l.LineStyle.Color = plotutil.Color(style)
		l.LineStyle.Dashes = plotutil.Dashes(style)
		p.Add(l)
		if x > 0 {
			p.Legend.Add(name, l)
		}
	}
	return nil
}
