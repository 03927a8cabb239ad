package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/signalsfoundry/dish-optics/core"
)

const (
	outlineSteps    = 100
	reflectedLength = 50.0 // metres
	missLength      = 20.0 // metres
	normalLength    = 0.3  // metres
	lobeSteps       = 90
)

// Options are the presentation toggles.
type Options struct {
	ShowRays    bool
	ShowNormals bool
	ShowFeed    bool
	// Title is written in the top-left corner when non-empty.
	Title string
}

// Diagram is one frame to draw.
type Diagram struct {
	Optics core.Optics
	Sweep  *core.SweepResult
}

// WriteSVG draws the dish cross-section, focus, feed and, depending on opts,
// the traced rays, surface normals at hits and the feed power lobe.
func WriteSVG(w io.Writer, view View, d Diagram, opts Options) error {
	if d.Sweep == nil {
		return fmt.Errorf("render: diagram has no sweep")
	}
	canvas := svg.New(w)
	canvas.Start(view.Width, view.Height)
	canvas.Rect(0, 0, view.Width, view.Height, "fill:#1a1a1a")

	drawDish(canvas, view, d.Optics.Surface)
	feedPos := d.Optics.Tracer.FeedPosition()
	if opts.ShowFeed {
		drawLobe(canvas, view, feedPos, d.Optics.Pattern, d.Optics.Surface.Diameter()/2)
	}
	if opts.ShowRays {
		for _, r := range d.Sweep.Rays {
			drawRay(canvas, view, r, false)
		}
		for _, r := range d.Sweep.Boundaries() {
			drawRay(canvas, view, r, true)
		}
	}
	if opts.ShowNormals {
		for _, r := range d.Sweep.Rays {
			if !r.IsHit() {
				continue
			}
			x1, y1 := view.ToCanvas(r.Point)
			x2, y2 := view.ToCanvas(r.Point.Add(r.Normal.Scale(normalLength)))
			canvas.Line(x1, y1, x2, y2, "stroke:#ff00ff;stroke-width:1")
		}
	}

	fx, fy := view.ToCanvas(feedPos)
	canvas.Circle(fx, fy, 4, "fill:#0f0")
	if opts.Title != "" {
		canvas.Text(10, 20, opts.Title, "fill:#ccc;font-family:monospace;font-size:12px")
	}
	canvas.End()
	return nil
}

func drawDish(canvas *svg.SVG, view View, s core.ReflectorSurface) {
	pts := s.Outline(outlineSteps)
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = view.ToCanvas(p)
	}
	canvas.Polyline(xs, ys, "fill:none;stroke:#fff;stroke-width:2")

	fx, fy := view.ToCanvas(s.Focus())
	canvas.Circle(fx, fy, 3, "fill:red")
}

func drawRay(canvas *svg.SVG, view View, r core.TraceResult, boundary bool) {
	if !r.Intersects() {
		return
	}
	x0, y0 := view.ToCanvas(r.Incident.Origin)
	x1, y1 := view.ToCanvas(r.Point)

	incident := "stroke:#ffff00;stroke-opacity:0.1;stroke-width:1"
	if boundary {
		incident = "stroke:#00ff00;stroke-width:3"
		if !r.IsHit() {
			incident = "stroke:#ff0000;stroke-width:3"
		}
	}
	canvas.Line(x0, y0, x1, y1, incident)

	switch {
	case r.Reflected != nil:
		x2, y2 := view.ToCanvas(r.Reflected.At(reflectedLength))
		style := "stroke:#00ffff;stroke-opacity:0.15;stroke-width:1"
		if boundary {
			style = "stroke:#00ffff;stroke-width:2"
		}
		canvas.Line(x1, y1, x2, y2, style)
	case boundary:
		// show the spilled ray carrying on past the rim
		x2, y2 := view.ToCanvas(r.Point.Add(r.Incident.Direction.Scale(missLength)))
		canvas.Line(x1, y1, x2, y2, "stroke:#ff0000;stroke-width:3")
	}
}

// drawLobe outlines the power pattern as a polar curve around the feed,
// radius proportional to linear power, pointing down the axis.
func drawLobe(canvas *svg.SVG, view View, feed core.Vec2, p core.FeedPattern, radius float64) {
	xs := make([]int, 0, lobeSteps+1)
	ys := make([]int, 0, lobeSteps+1)
	for i := 0; i <= lobeSteps; i++ {
		th := -math.Pi/2 + math.Pi*float64(i)/lobeSteps
		r := radius * p.Power(th)
		pt := feed.Add(core.Vec2{X: math.Sin(th), Y: -math.Cos(th)}.Scale(r))
		x, y := view.ToCanvas(pt)
		xs = append(xs, x)
		ys = append(ys, y)
	}
	canvas.Polygon(xs, ys, "fill:#00ff00;fill-opacity:0.08;stroke:#00ff00;stroke-opacity:0.6;stroke-width:1")
}
