package editor

import (
	"math"

	"whiteboard/geometry"
)

// Viewport maps world coordinates to screen coordinates:
//
//	screen = (world - offset) * scale
type Viewport struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`

	minScale float64
	maxScale float64
}

// NewViewport returns an identity viewport clamped to [minScale, maxScale].
func NewViewport(minScale, maxScale float64) Viewport {
	return Viewport{Scale: 1, minScale: minScale, maxScale: maxScale}
}

// SetLimits changes the zoom range and clamps the current scale into it.
func (v *Viewport) SetLimits(minScale, maxScale float64) {
	v.minScale, v.maxScale = minScale, maxScale
	v.Scale = v.clamp(v.Scale)
}

func (v *Viewport) clamp(s float64) float64 {
	if v.maxScale > 0 && v.minScale > 0 {
		return geometry.Clamp(s, v.minScale, v.maxScale)
	}
	return s
}

// WorldToScreen converts a world point to screen pixels.
func (v Viewport) WorldToScreen(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: (p.X - v.OffsetX) * v.Scale,
		Y: (p.Y - v.OffsetY) * v.Scale,
	}
}

// ScreenToWorld converts screen pixels to a world point.
func (v Viewport) ScreenToWorld(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: p.X/v.Scale + v.OffsetX,
		Y: p.Y/v.Scale + v.OffsetY,
	}
}

// ScreenRectToWorld converts a screen-space rectangle.
func (v Viewport) ScreenRectToWorld(r geometry.Rect) geometry.Rect {
	tl := v.ScreenToWorld(geometry.Point{X: r.X, Y: r.Y})
	return geometry.Rect{X: tl.X, Y: tl.Y, W: r.W / v.Scale, H: r.H / v.Scale}
}

// WorldRectToScreen converts a world-space rectangle.
func (v Viewport) WorldRectToScreen(r geometry.Rect) geometry.Rect {
	tl := v.WorldToScreen(geometry.Point{X: r.X, Y: r.Y})
	return geometry.Rect{X: tl.X, Y: tl.Y, W: r.W * v.Scale, H: r.H * v.Scale}
}

// PanBy moves the view by a screen-space delta. Content follows the pointer.
func (v *Viewport) PanBy(dx, dy float64) {
	v.OffsetX -= dx / v.Scale
	v.OffsetY -= dy / v.Scale
}

// ZoomAt multiplies the scale by factor, keeping the world point under the
// screen position (sx, sy) fixed. The result is clamped to the zoom range;
// a non-positive factor is ignored. It reports whether the scale changed.
func (v *Viewport) ZoomAt(sx, sy, factor float64) bool {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return false
	}
	next := v.clamp(v.Scale * factor)
	if next == v.Scale {
		return false
	}
	anchor := v.ScreenToWorld(geometry.Point{X: sx, Y: sy})
	v.Scale = next
	v.OffsetX = anchor.X - sx/next
	v.OffsetY = anchor.Y - sy/next
	return true
}

// Reset restores scale 1 at the world origin.
func (v *Viewport) Reset() {
	v.Scale = v.clamp(1)
	v.OffsetX, v.OffsetY = 0, 0
}

// FitRect zooms and pans so world rect r fills a screenW x screenH view with
// padding pixels on every side. An empty view leaves the viewport alone.
func (v *Viewport) FitRect(r geometry.Rect, screenW, screenH, padding float64) {
	availW := screenW - 2*padding
	availH := screenH - 2*padding
	if availW <= 0 || availH <= 0 {
		return
	}
	scale := v.Scale
	if r.W > 0 && r.H > 0 {
		scale = math.Min(availW/r.W, availH/r.H)
	}
	v.Scale = v.clamp(scale)
	c := r.Center()
	v.OffsetX = c.X - (screenW/2)/v.Scale
	v.OffsetY = c.Y - (screenH/2)/v.Scale
}
