package main

import (
	"strings"

	"whiteboard/diagram"
	"whiteboard/editor"
	"whiteboard/geometry"
)

type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]rune, h)}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", w))
	}
	return g
}

func (g *grid) in(x, y int) bool { return x >= 0 && y >= 0 && x < g.w && y < g.h }

func (g *grid) set(x, y int, r rune) {
	if g.in(x, y) {
		g.cells[y][x] = r
	}
}

func (g *grid) get(x, y int) rune {
	if g.in(x, y) {
		return g.cells[y][x]
	}
	return ' '
}

// hline and vline draw inclusive segments; crossing lines become '+'.
func (g *grid) hline(x0, x1, y int, r rune) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		if c := g.get(x, y); c == '|' && r == '-' {
			g.set(x, y, '+')
			continue
		}
		g.set(x, y, r)
	}
}

func (g *grid) vline(x, y0, y1 int, r rune) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		if c := g.get(x, y); c == '-' && r == '|' {
			g.set(x, y, '+')
			continue
		}
		g.set(x, y, r)
	}
}

func (g *grid) text(x, y int, s string) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r)
	}
}

func (g *grid) lines() []string {
	out := make([]string, g.h)
	for y, row := range g.cells {
		out[y] = string(row)
	}
	return out
}

// boardRenderer draws one engine's board into a cell grid.
type boardRenderer struct {
	g    *grid
	view editor.Viewport
	e    *editor.Engine
}

func (b *boardRenderer) cellOf(p geometry.Point) (int, int) {
	s := b.view.WorldToScreen(p)
	return screenToCell(s.X, s.Y)
}

func (b *boardRenderer) worldAt(cx, cy int) geometry.Point {
	sx, sy := cellToScreen(cx, cy)
	return b.view.ScreenToWorld(geometry.Point{X: sx, Y: sy})
}

// cellRange is the inclusive block of cells covering world rect r.
func (b *boardRenderer) cellRange(r geometry.Rect) (x0, y0, x1, y1 int) {
	s := b.view.WorldRectToScreen(r)
	x0, y0 = screenToCell(s.X, s.Y)
	x1, y1 = screenToCell(s.Right()-0.01, s.Bottom()-0.01)
	return
}

// renderBoard draws e at its viewport into a w x h cell grid.
func renderBoard(e *editor.Engine, w, h int) []string {
	b := &boardRenderer{g: newGrid(w, h), view: e.Viewport(), e: e}
	ov := e.Overlay()
	for _, edge := range e.RoutedEdges() {
		b.drawEdge(edge)
	}
	for _, n := range e.Nodes() {
		text := n.Text
		editing := false
		if id, t, ok := e.EditingText(); ok && id == n.ID {
			text, editing = t, true
		}
		b.drawNode(n, text, e.IsSelected(n.ID), editing)
	}
	b.drawOverlay(ov)
	return b.g.lines()
}

func outwardCell(h diagram.Handle) (int, int) {
	o := h.Outward()
	return int(o.X), int(o.Y)
}

func arrowInto(h diagram.Handle) rune {
	switch h {
	case diagram.HandleTop:
		return '▼'
	case diagram.HandleBottom:
		return '▲'
	case diagram.HandleLeft:
		return '▶'
	default:
		return '◀'
	}
}

func (b *boardRenderer) drawEdge(edge editor.RoutedEdge) {
	ax, ay := b.cellOf(edge.FromPoint)
	dx, dy := outwardCell(edge.FromHandle)
	ax, ay = ax+dx, ay+dy
	bx, by := b.cellOf(edge.ToPoint)
	dx, dy = outwardCell(edge.ToHandle)
	bx, by = bx+dx, by+dy

	horizontal := edge.FromHandle == diagram.HandleLeft || edge.FromHandle == diagram.HandleRight
	b.orthogonal(ax, ay, bx, by, horizontal, '-', '|')
	b.g.set(bx, by, arrowInto(edge.ToHandle))
}

// orthogonal draws a three-segment path from (ax, ay) to (bx, by), leaving
// horizontally or vertically.
func (b *boardRenderer) orthogonal(ax, ay, bx, by int, horizontal bool, hr, vr rune) {
	if horizontal {
		mx := (ax + bx) / 2
		b.g.hline(ax, mx, ay, hr)
		b.g.vline(mx, ay, by, vr)
		b.g.hline(mx, bx, by, hr)
		if ay != by {
			b.g.set(mx, ay, '+')
			b.g.set(mx, by, '+')
		}
		return
	}
	my := (ay + by) / 2
	b.g.vline(ax, ay, my, vr)
	b.g.hline(ax, bx, my, hr)
	b.g.vline(bx, my, by, vr)
	if ax != bx {
		b.g.set(ax, my, '+')
		b.g.set(bx, my, '+')
	}
}

type borderStyle struct {
	corner, horizontal, vertical rune
}

var (
	plainBorder    = borderStyle{'+', '-', '|'}
	selectedBorder = borderStyle{'#', '#', '#'}
	stickyBorder   = borderStyle{'+', '=', '|'}
)

func (b *boardRenderer) drawNode(n diagram.Node, text string, selected, editing bool) {
	x0, y0, x1, y1 := b.cellRange(n.Bounds())
	if x1 <= x0 || y1 <= y0 {
		c := b.view.WorldToScreen(n.Bounds().Center())
		cx, cy := screenToCell(c.X, c.Y)
		b.g.set(cx, cy, '▪')
		return
	}

	round := n.Type == diagram.ShapeDiamond || n.Type == diagram.ShapeEllipse
	inside := func(cx, cy int) bool {
		if cx < x0 || cx > x1 || cy < y0 || cy > y1 {
			return false
		}
		return !round || n.Contains(b.worldAt(cx, cy))
	}

	style := plainBorder
	if n.Type == diagram.ShapeSticky {
		style = stickyBorder
	}
	if selected {
		style = selectedBorder
	}

	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if !inside(cx, cy) {
				continue
			}
			edge := !inside(cx-1, cy) || !inside(cx+1, cy) || !inside(cx, cy-1) || !inside(cx, cy+1)
			r := ' '
			switch {
			case !edge:
			case n.Type == diagram.ShapeText:
				if selected {
					r = '.'
				}
			case round:
				r = '*'
				if selected {
					r = '#'
				}
			case (cx == x0 || cx == x1) && (cy == y0 || cy == y1):
				r = style.corner
			case cy == y0 || cy == y1:
				r = style.horizontal
			default:
				r = style.vertical
			}
			b.g.set(cx, cy, r)
		}
	}

	if n.Type == diagram.ShapeImage && text == "" {
		text = "[image]"
	}
	if editing {
		text += "█"
	}
	b.drawLabel(text, x0, y0, x1, y1)
}

// drawLabel centers text inside the interior of a cell box, clipping lines
// that do not fit.
func (b *boardRenderer) drawLabel(text string, x0, y0, x1, y1 int) {
	if text == "" {
		return
	}
	innerW := x1 - x0 - 1
	innerH := y1 - y0 - 1
	if innerW < 1 || innerH < 1 {
		return
	}
	lines := strings.Split(text, "\n")
	if len(lines) > innerH {
		lines = lines[len(lines)-innerH:]
	}
	top := y0 + 1 + (innerH-len(lines))/2
	for i, line := range lines {
		r := []rune(line)
		if len(r) > innerW {
			r = r[len(r)-innerW:]
		}
		left := x0 + 1 + (innerW-len(r))/2
		b.g.text(left, top+i, string(r))
	}
}

func (b *boardRenderer) drawRect(r geometry.Rect, corner, edge rune) {
	x0, y0, x1, y1 := b.cellRange(r)
	b.g.hline(x0, x1, y0, edge)
	b.g.hline(x0, x1, y1, edge)
	for y := y0 + 1; y < y1; y++ {
		b.g.set(x0, y, edge)
		b.g.set(x1, y, edge)
	}
	for _, c := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		b.g.set(c[0], c[1], corner)
	}
}

func (b *boardRenderer) drawOverlay(ov editor.Overlay) {
	for _, r := range ov.Preview {
		b.drawRect(r, ':', ':')
	}
	if ov.Marquee != nil {
		b.drawRect(*ov.Marquee, '+', '.')
	}
	if ov.Creation != nil {
		b.drawRect(*ov.Creation, '+', '.')
	}
	for _, grip := range ov.Grips {
		x, y := b.cellOf(grip.Point)
		b.g.set(x, y, '■')
	}
	for _, c := range ov.Connectors {
		x, y := b.cellOf(c.Point)
		b.g.set(x, y, '○')
	}
	if c := ov.Connection; c != nil {
		ax, ay := b.cellOf(c.From)
		bx, by := b.cellOf(c.To)
		b.orthogonal(ax, ay, bx, by, abs(bx-ax) >= abs(by-ay), '~', ':')
		if c.Target != nil {
			b.g.set(bx, by, '◎')
		} else {
			b.g.set(bx, by, '●')
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
