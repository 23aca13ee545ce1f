package geometry

import "math"

// Snap rounds v to the nearest multiple of grid. A non-positive grid
// leaves v untouched.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapPoint snaps both coordinates of p.
func SnapPoint(p Point, grid float64) Point {
	return Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// SnapRect rounds x, y, width and height to the grid. Sizes never drop below
// the smallest grid multiple that still honours minW/minH.
func SnapRect(r Rect, grid, minW, minH float64) Rect {
	if grid <= 0 {
		return r
	}
	p := SnapPoint(Point{X: r.X, Y: r.Y}, grid)
	out := Rect{X: p.X, Y: p.Y, W: Snap(r.W, grid), H: Snap(r.H, grid)}
	if out.W < minW {
		out.W = math.Ceil(minW/grid) * grid
	}
	if out.H < minH {
		out.H = math.Ceil(minH/grid) * grid
	}
	return out
}
