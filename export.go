package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"whiteboard/diagram"
	"whiteboard/editor"
	"whiteboard/geometry"
)

const (
	pngPadding  = 20.0
	pngFontSize = 12.0
	arrowSize   = 8.0
	arrowAngle  = 0.5
)

var stickyFill = color.RGBA{R: 0xff, G: 0xf1, B: 0x76, A: 0xff}

func (m *model) exportPNGCmd(path string) tea.Cmd {
	snap := m.getEngine().Snapshot()
	return func() tea.Msg {
		return exportedMsg{path: path, err: exportPNG(snap, path)}
	}
}

// exportPNG draws the board at scale 1, cropped to its content.
func exportPNG(snap diagram.Snapshot, filename string) error {
	dc, err := drawPNG(snap)
	if err != nil {
		return err
	}
	return dc.SavePNG(filename)
}

func drawPNG(snap diagram.Snapshot) (*gg.Context, error) {
	doc := diagram.NewDocument()
	if err := doc.Restore(snap); err != nil {
		return nil, err
	}
	bounds, ok := doc.Bounds()
	if !ok {
		return nil, fmt.Errorf("nothing to export")
	}
	bounds = bounds.Inset(-pngPadding)

	dc := gg.NewContext(int(math.Ceil(bounds.W)), int(math.Ceil(bounds.H)))
	dc.SetColor(color.White)
	dc.Clear()
	dc.Translate(-bounds.X, -bounds.Y)

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    pngFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	// Edges first so shapes sit on top of them.
	for _, edge := range editor.Route(doc) {
		drawEdgePNG(dc, edge)
	}
	for _, n := range doc.Nodes() {
		drawNodePNG(dc, n)
	}
	return dc, nil
}

func drawEdgePNG(dc *gg.Context, edge editor.RoutedEdge) {
	from, to := edge.FromPoint, edge.ToPoint
	dc.SetLineWidth(1.5)
	dc.SetColor(color.Black)
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()
	drawArrowPNG(dc, from, to)
}

func drawArrowPNG(dc *gg.Context, from, to geometry.Point) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-arrowSize*dx+arrowSize*dy*arrowAngle, to.Y-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(to.X-arrowSize*dx-arrowSize*dy*arrowAngle, to.Y-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

func drawNodePNG(dc *gg.Context, n diagram.Node) {
	b := n.Bounds()
	c := b.Center()
	switch n.Type {
	case diagram.ShapeEllipse:
		dc.DrawEllipse(c.X, c.Y, b.W/2, b.H/2)
	case diagram.ShapeDiamond:
		dc.MoveTo(c.X, b.Y)
		dc.LineTo(b.Right(), c.Y)
		dc.LineTo(c.X, b.Bottom())
		dc.LineTo(b.X, c.Y)
		dc.ClosePath()
	case diagram.ShapeText:
	default:
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	}

	fill := color.Color(color.White)
	if n.Type == diagram.ShapeSticky {
		fill = stickyFill
	}
	if hex, ok := n.Style["fill"]; ok {
		if parsed, ok := parseHexColor(hex); ok {
			fill = parsed
		}
	}
	if n.Type != diagram.ShapeText {
		dc.SetColor(fill)
		dc.FillPreserve()
		dc.SetColor(color.Black)
		dc.SetLineWidth(1.5)
		dc.Stroke()
	}

	if n.Type == diagram.ShapeImage {
		dc.DrawLine(b.X, b.Y, b.Right(), b.Bottom())
		dc.DrawLine(b.Right(), b.Y, b.X, b.Bottom())
		dc.SetColor(color.Gray{Y: 0xaa})
		dc.Stroke()
	}

	if n.Text != "" {
		dc.SetColor(color.Black)
		lines := strings.Split(n.Text, "\n")
		lineHeight := dc.FontHeight() * 1.3
		top := c.Y - lineHeight*float64(len(lines)-1)/2
		for i, line := range lines {
			dc.DrawStringAnchored(line, c.X, top+float64(i)*lineHeight, 0.5, 0.35)
		}
	}
}

// parseHexColor accepts #rgb and #rrggbb.
func parseHexColor(s string) (color.Color, bool) {
	s = strings.TrimPrefix(s, "#")
	var r, g, b uint8
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return nil, false
		}
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return nil, false
		}
		r, g, b = r*17, g*17, b*17
	default:
		return nil, false
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
}

// exportVisualTXT writes the board exactly as it is drawn in the terminal,
// without overlays.
func (m *model) exportVisualTXT(filename string) error {
	e := m.getEngine()
	if e == nil {
		return fmt.Errorf("no board available")
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w, h := m.canvasSize()
	for _, line := range renderSnapshot(e, w, h) {
		fmt.Fprintln(file, strings.TrimRight(line, " "))
	}
	return nil
}

// renderSnapshot draws the committed board at e's viewport, with no
// selection, grips or gesture preview.
func renderSnapshot(e *editor.Engine, w, h int) []string {
	plain, err := editor.NewEngine(e.Project(), e.Options(), nil)
	if err != nil {
		return renderBoard(e, w, h)
	}
	if err := plain.Load(e.Snapshot()); err != nil {
		return renderBoard(e, w, h)
	}
	v := e.Viewport()
	plain.ZoomAt(0, 0, v.Scale)
	plain.PanBy(-v.OffsetX*v.Scale, -v.OffsetY*v.Scale)
	return renderBoard(plain, w, h)
}
