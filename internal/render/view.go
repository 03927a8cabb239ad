// Package render draws traced sweeps. It owns the only screen-space
// transform in the module; everything it is given is in the dish frame.
package render

import (
	"math"

	"github.com/signalsfoundry/dish-optics/core"
)

const (
	defaultZoom   = 40 // pixels per metre
	defaultMargin = 50 // pixels below the vertex
)

// View maps dish-frame metres to canvas pixels. The vertex sits Margin pixels
// above the bottom edge, horizontally centred, shifted by PanX/PanY.
type View struct {
	Width, Height int
	Zoom          float64
	PanX, PanY    float64
	Margin        int
}

// DefaultView returns a w x h canvas at 40 px/m.
func DefaultView(w, h int) View {
	return View{Width: w, Height: h, Zoom: defaultZoom, Margin: defaultMargin}
}

// FitView picks a zoom that keeps the dish and the feed on a w x h canvas.
func FitView(w, h int, surface core.ReflectorSurface, feed core.Vec2) View {
	v := DefaultView(w, h)
	spanX := surface.Diameter() * 1.2
	top := math.Max(surface.Depth(), feed.Y)
	bottom := math.Min(0, feed.Y)
	spanY := (top - bottom) * 1.3
	if spanX <= 0 || spanY <= 0 {
		return v
	}
	zx := float64(w) / spanX
	zy := float64(h-2*defaultMargin) / spanY
	v.Zoom = math.Min(zx, zy)
	if v.Zoom <= 0 {
		v.Zoom = defaultZoom
	}
	// keep a feed below the vertex on the canvas
	if bottom < 0 {
		v.PanY = bottom * v.Zoom
	}
	return v
}

// ToCanvas converts a dish-frame point to pixel coordinates.
func (v View) ToCanvas(p core.Vec2) (int, int) {
	cx := float64(v.Width)/2 + v.PanX
	cy := float64(v.Height-v.Margin) + v.PanY
	return int(math.Round(cx + p.X*v.Zoom)), int(math.Round(cy - p.Y*v.Zoom))
}

// Pan shifts the view by dx, dy pixels.
func (v View) Pan(dx, dy float64) View {
	v.PanX += dx
	v.PanY += dy
	return v
}

// ZoomBy scales the view by factor, ignoring non-positive factors.
func (v View) ZoomBy(factor float64) View {
	if factor > 0 {
		v.Zoom *= factor
	}
	return v
}
