// Package canvas implements the designer's canvas controller: the pan/zoom
// viewport transform, node placement, selection, and connection drawing
// against the current workflow document.
package canvas

import "github.com/flowlet/studio/pkg/workflow"

// Point is a screen-space coordinate (pointer position, canvas origin).
// Logical document coordinates use workflow.Position.
type Point struct {
	X float64
	Y float64
}

// Viewport holds the pan offset and zoom factor of the canvas. The forward
// transform maps logical document coordinates to screen coordinates; the
// inverse transform must invert it exactly or dropped nodes land in the
// wrong place.
type Viewport struct {
	// Pan is the screen-space offset applied after scaling.
	Pan Point
	// Zoom is the scale factor applied to logical coordinates.
	Zoom float64
}

const (
	// MinZoom is the lowest allowed zoom factor.
	MinZoom = 0.25
	// MaxZoom is the highest allowed zoom factor.
	MaxZoom = 2.0
)

// NewViewport returns a viewport at the origin with zoom 1.0.
func NewViewport() Viewport {
	return Viewport{Zoom: 1.0}
}

// Render maps a logical position to screen coordinates:
// screen = logical*zoom + pan.
func (v Viewport) Render(logical workflow.Position) Point {
	return Point{
		X: logical.X*v.Zoom + v.Pan.X,
		Y: logical.Y*v.Zoom + v.Pan.Y,
	}
}

// DropPosition maps a pointer position back to logical coordinates:
// logical = (pointer - origin - pan) / zoom. It is the exact inverse of
// Render for origin (0,0); origin accounts for the canvas element's own
// offset within the window.
func (v Viewport) DropPosition(pointer, origin Point) workflow.Position {
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1.0
	}
	return workflow.Position{
		X: (pointer.X - origin.X - v.Pan.X) / zoom,
		Y: (pointer.Y - origin.Y - v.Pan.Y) / zoom,
	}
}

// PanBy shifts the viewport by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan.X += dx
	v.Pan.Y += dy
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(zoom float64) {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	v.Zoom = zoom
}

// ZoomIn increases zoom by one step.
func (v *Viewport) ZoomIn() {
	v.SetZoom(v.Zoom + 0.25)
}

// ZoomOut decreases zoom by one step.
func (v *Viewport) ZoomOut() {
	v.SetZoom(v.Zoom - 0.25)
}
