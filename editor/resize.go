package editor

import (
	"math"

	"whiteboard/geometry"
)

// ResizeHandle is one of the eight grips around a selected node.
type ResizeHandle int

const (
	ResizeNW ResizeHandle = iota
	ResizeN
	ResizeNE
	ResizeE
	ResizeSE
	ResizeS
	ResizeSW
	ResizeW
)

var resizeNames = [...]string{"nw", "n", "ne", "e", "se", "s", "sw", "w"}

func (h ResizeHandle) String() string {
	if h < 0 || int(h) >= len(resizeNames) {
		return "?"
	}
	return resizeNames[h]
}

// Corner reports whether the handle changes both dimensions.
func (h ResizeHandle) Corner() bool {
	return h == ResizeNW || h == ResizeNE || h == ResizeSE || h == ResizeSW
}

func (h ResizeHandle) movesLeft() bool   { return h == ResizeNW || h == ResizeW || h == ResizeSW }
func (h ResizeHandle) movesRight() bool  { return h == ResizeNE || h == ResizeE || h == ResizeSE }
func (h ResizeHandle) movesTop() bool    { return h == ResizeNW || h == ResizeN || h == ResizeNE }
func (h ResizeHandle) movesBottom() bool { return h == ResizeSW || h == ResizeS || h == ResizeSE }

// ResizeConstraints bound a resize.
type ResizeConstraints struct {
	MinWidth   float64
	MinHeight  float64
	KeepAspect bool
}

// Resize computes the bounds after dragging handle h of orig by (dx, dy)
// world units. Edges the handle moves follow the pointer; the opposite edges
// stay put. Sizes below the minimum are clamped and reported via clamped.
func Resize(orig geometry.Rect, h ResizeHandle, dx, dy float64, c ResizeConstraints) (geometry.Rect, bool) {
	left, top := orig.X, orig.Y
	right, bottom := orig.Right(), orig.Bottom()

	if h.movesLeft() {
		left += dx
	}
	if h.movesRight() {
		right += dx
	}
	if h.movesTop() {
		top += dy
	}
	if h.movesBottom() {
		bottom += dy
	}

	w := right - left
	ht := bottom - top

	if c.KeepAspect && orig.W > 0 && orig.H > 0 {
		w, ht = keepAspect(orig, h, w, ht)
	}

	clamped := false
	if w < c.MinWidth {
		w = c.MinWidth
		clamped = true
	}
	if ht < c.MinHeight {
		ht = c.MinHeight
		clamped = true
	}
	if c.KeepAspect && clamped && orig.W > 0 && orig.H > 0 {
		ratio := orig.W / orig.H
		if w/ht > ratio {
			ht = w / ratio
		} else {
			w = ht * ratio
		}
	}

	out := geometry.Rect{W: w, H: ht}
	switch {
	case h.movesLeft():
		out.X = orig.Right() - w
	case h.movesRight():
		out.X = orig.X
	default:
		out.X = orig.Center().X - w/2
	}
	switch {
	case h.movesTop():
		out.Y = orig.Bottom() - ht
	case h.movesBottom():
		out.Y = orig.Y
	default:
		out.Y = orig.Center().Y - ht/2
	}
	return out, clamped
}

// keepAspect scales both dimensions uniformly. Corners follow whichever
// axis the pointer moved further; side handles drive the other axis.
func keepAspect(orig geometry.Rect, h ResizeHandle, w, ht float64) (float64, float64) {
	ratio := orig.W / orig.H
	switch {
	case h.Corner():
		sx := w / orig.W
		sy := ht / orig.H
		if math.Abs(sx-1) >= math.Abs(sy-1) {
			return w, w / ratio
		}
		return ht * ratio, ht
	case h == ResizeE || h == ResizeW:
		return w, w / ratio
	default:
		return ht * ratio, ht
	}
}

// ResizeHandles returns the grip positions for bounds, indexed by handle.
func ResizeHandles(b geometry.Rect) [8]geometry.Point {
	cx, cy := b.Center().X, b.Center().Y
	return [8]geometry.Point{
		ResizeNW: {X: b.X, Y: b.Y},
		ResizeN:  {X: cx, Y: b.Y},
		ResizeNE: {X: b.Right(), Y: b.Y},
		ResizeE:  {X: b.Right(), Y: cy},
		ResizeSE: {X: b.Right(), Y: b.Bottom()},
		ResizeS:  {X: cx, Y: b.Bottom()},
		ResizeSW: {X: b.X, Y: b.Bottom()},
		ResizeW:  {X: b.X, Y: cy},
	}
}

// ResizeHandleAt returns the grip of bounds within tolerance of p, corners
// first. The tolerance never exceeds a quarter of the shorter side, so the
// middle of a small node stays draggable.
func ResizeHandleAt(b geometry.Rect, p geometry.Point, tolerance float64) (ResizeHandle, bool) {
	tolerance = math.Min(tolerance, math.Min(b.W, b.H)/4)
	grips := ResizeHandles(b)
	for _, h := range []ResizeHandle{ResizeNW, ResizeNE, ResizeSE, ResizeSW, ResizeN, ResizeE, ResizeS, ResizeW} {
		if geometry.Distance(grips[h], p) <= tolerance {
			return h, true
		}
	}
	return 0, false
}
