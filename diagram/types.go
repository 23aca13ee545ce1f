// Package diagram contains the canonical in-memory board: nodes, edges, the
// serializable snapshot exchanged with persistence, and change notifications.
package diagram

import "whiteboard/geometry"

// Node is a shape placed on the board.
type Node struct {
	ID     string            `json:"id" validate:"required"`
	Type   ShapeKind         `json:"type"`
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	Width  float64           `json:"width" validate:"gt=0"`
	Height float64           `json:"height" validate:"gt=0"`
	Text   string            `json:"text,omitempty"`
	Style  map[string]string `json:"style,omitempty"`
	ZIndex int               `json:"zIndex"`
}

// Bounds returns the node's box in world space.
func (n Node) Bounds() geometry.Rect {
	return geometry.Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height}
}

// Contains runs the shape-specific hit test.
func (n Node) Contains(p geometry.Point) bool {
	return n.Type.HitTest(n.Bounds(), p)
}

// Anchor returns the connection point of handle h at the node's current
// bounds.
func (n Node) Anchor(h Handle) geometry.Point {
	return n.Type.Anchor(n.Bounds(), h)
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.Style = cloneStyle(n.Style)
	return n
}

// Edge is a directed connection between two node handles. It stores handle
// names, never coordinates.
type Edge struct {
	ID         string            `json:"id" validate:"required"`
	From       string            `json:"from" validate:"required"`
	FromHandle Handle            `json:"fromHandle"`
	To         string            `json:"to" validate:"required"`
	ToHandle   Handle            `json:"toHandle"`
	Style      map[string]string `json:"style,omitempty"`
}

// Clone returns a deep copy of the edge.
func (e Edge) Clone() Edge {
	e.Style = cloneStyle(e.Style)
	return e
}

// NodeSpec describes a node to create. An empty ID asks the document to
// generate one.
type NodeSpec struct {
	ID     string
	Type   ShapeKind
	X      float64
	Y      float64
	Width  float64
	Height float64
	Text   string
	Style  map[string]string
}

// NodeSpecFrom turns an existing node back into a creation spec.
func NodeSpecFrom(n Node) NodeSpec {
	return NodeSpec{
		ID:     n.ID,
		Type:   n.Type,
		X:      n.X,
		Y:      n.Y,
		Width:  n.Width,
		Height: n.Height,
		Text:   n.Text,
		Style:  cloneStyle(n.Style),
	}
}

// NodePatch is a partial update. Nil fields are left alone; a Style entry
// with an empty value removes that key.
type NodePatch struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Text   *string
	Style  map[string]string
}

// MoveTo builds a patch that sets the node position.
func MoveTo(x, y float64) NodePatch {
	return NodePatch{X: &x, Y: &y}
}

// SetBounds builds a patch that sets position and size.
func SetBounds(r geometry.Rect) NodePatch {
	return NodePatch{X: &r.X, Y: &r.Y, Width: &r.W, Height: &r.H}
}

// SetText builds a patch that replaces the text.
func SetText(text string) NodePatch {
	return NodePatch{Text: &text}
}

// EdgeSpec describes an edge to create. An empty ID asks the document to
// generate one.
type EdgeSpec struct {
	ID         string
	From       string
	FromHandle Handle
	To         string
	ToHandle   Handle
	Style      map[string]string
}

func cloneStyle(style map[string]string) map[string]string {
	if style == nil {
		return nil
	}
	out := make(map[string]string, len(style))
	for k, v := range style {
		out[k] = v
	}
	return out
}
