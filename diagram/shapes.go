package diagram

import (
	"fmt"
	"math"

	"whiteboard/geometry"
)

// ShapeKind is the closed set of node types a board can hold.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeDiamond
	ShapeEllipse
	ShapeText
	ShapeSticky
	ShapeImage
)

var shapeNames = [...]string{
	ShapeRectangle: "rectangle",
	ShapeDiamond:   "diamond",
	ShapeEllipse:   "ellipse",
	ShapeText:      "text",
	ShapeSticky:    "sticky",
	ShapeImage:     "image",
}

// ShapeKinds lists every kind in declaration order.
func ShapeKinds() []ShapeKind {
	return []ShapeKind{ShapeRectangle, ShapeDiamond, ShapeEllipse, ShapeText, ShapeSticky, ShapeImage}
}

// String returns the wire name of the kind.
func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k ShapeKind) Valid() bool {
	return k >= ShapeRectangle && k <= ShapeImage
}

// ParseShapeKind maps a wire name back to its kind.
func ParseShapeKind(s string) (ShapeKind, error) {
	for i, name := range shapeNames {
		if name == s {
			return ShapeKind(i), nil
		}
	}
	return 0, ErrInvalidShape.WithDetail("kind", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k ShapeKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal shape kind %d: %w", int(k), ErrInvalidShape)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ShapeKind) UnmarshalText(b []byte) error {
	parsed, err := ParseShapeKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// HitTest reports whether p falls inside the visible outline of a shape of
// this kind drawn in bounds.
func (k ShapeKind) HitTest(bounds geometry.Rect, p geometry.Point) bool {
	if !bounds.Contains(p) {
		return false
	}
	switch k {
	case ShapeEllipse:
		rx, ry := bounds.W/2, bounds.H/2
		if rx == 0 || ry == 0 {
			return false
		}
		c := bounds.Center()
		nx, ny := (p.X-c.X)/rx, (p.Y-c.Y)/ry
		return nx*nx+ny*ny <= 1
	case ShapeDiamond:
		rx, ry := bounds.W/2, bounds.H/2
		if rx == 0 || ry == 0 {
			return false
		}
		c := bounds.Center()
		return math.Abs(p.X-c.X)/rx+math.Abs(p.Y-c.Y)/ry <= 1
	default:
		return true
	}
}

// Anchor returns the connection point for handle h. Every kind in the set
// touches the midpoint of each bounding box side, so the anchor is that
// midpoint.
func (k ShapeKind) Anchor(bounds geometry.Rect, h Handle) geometry.Point {
	c := bounds.Center()
	switch h {
	case HandleTop:
		return geometry.Point{X: c.X, Y: bounds.Y}
	case HandleRight:
		return geometry.Point{X: bounds.Right(), Y: c.Y}
	case HandleBottom:
		return geometry.Point{X: c.X, Y: bounds.Bottom()}
	case HandleLeft:
		return geometry.Point{X: bounds.X, Y: c.Y}
	default:
		return c
	}
}

// Handle names one side of a node used as a connection anchor.
type Handle int

const (
	HandleTop Handle = iota
	HandleRight
	HandleBottom
	HandleLeft
)

var handleNames = [...]string{
	HandleTop:    "top",
	HandleRight:  "right",
	HandleBottom: "bottom",
	HandleLeft:   "left",
}

// Handles lists all connection handles.
func Handles() []Handle {
	return []Handle{HandleTop, HandleRight, HandleBottom, HandleLeft}
}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "unknown"
	}
	return handleNames[h]
}

// Valid reports whether h is one of the four sides.
func (h Handle) Valid() bool {
	return h >= HandleTop && h <= HandleLeft
}

// Outward returns the unit normal pointing away from the node on this side.
func (h Handle) Outward() geometry.Point {
	switch h {
	case HandleTop:
		return geometry.Point{Y: -1}
	case HandleRight:
		return geometry.Point{X: 1}
	case HandleBottom:
		return geometry.Point{Y: 1}
	case HandleLeft:
		return geometry.Point{X: -1}
	default:
		return geometry.Point{}
	}
}

// ParseHandle maps a wire name back to its handle.
func ParseHandle(s string) (Handle, error) {
	for i, name := range handleNames {
		if name == s {
			return Handle(i), nil
		}
	}
	return 0, ErrInvalidHandle.WithDetail("handle", s)
}

// MarshalText implements encoding.TextMarshaler.
func (h Handle) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("marshal handle %d: %w", int(h), ErrInvalidHandle)
	}
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Handle) UnmarshalText(b []byte) error {
	parsed, err := ParseHandle(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
