package editor

import (
	"whiteboard/diagram"
	"whiteboard/geometry"
)

// Grip is a resize handle drawn around a selected node.
type Grip struct {
	NodeID string
	Handle ResizeHandle
	Point  geometry.Point
}

// Connector is a connection affordance drawn outside a selected node.
type Connector struct {
	NodeID string
	Handle diagram.Handle
	Point  geometry.Point
}

// LiveConnection is the provisional edge of a connect gesture. To follows the
// pointer until a valid target is hovered, then sits on the target anchor.
type LiveConnection struct {
	From   geometry.Point
	To     geometry.Point
	Target *HandleHit
}

// Overlay is the transient state a renderer draws on top of the document.
// Every coordinate is in world space.
type Overlay struct {
	Marquee     *geometry.Rect
	Connection  *LiveConnection
	Creation    *geometry.Rect
	Preview     []geometry.Rect
	Grips       []Grip
	Connectors  []Connector
	EditingNode string
	Hover       geometry.Point
}

// Overlay returns what is being drawn for the current mode.
func (e *Engine) Overlay() Overlay {
	o := Overlay{Hover: e.hover}
	switch e.mode {
	case ModeMarqueeSelecting:
		if e.g.moved {
			r := geometry.RectFromPoints(e.g.startWorld, e.g.world)
			o.Marquee = &r
		}
	case ModeConnectingEdge:
		o.Connection = &LiveConnection{From: e.g.source.Point, To: e.g.world}
		if e.g.target != nil {
			t := *e.g.target
			o.Connection.To = t.Point
			o.Connection.Target = &t
		}
	case ModeCreatingNode:
		r := e.creationRect(e.g.world, e.g.moved)
		o.Creation = &r
	case ModeDraggingNodes, ModeResizingNode:
		if e.opts.SnapToGrid && !e.opts.SnapWhileDragging && e.g.moved {
			o.Preview = e.snappedPreview()
		}
	case ModeEditingText:
		o.EditingNode = e.g.nodeID
	}

	if e.tool == ToolSelect && (e.mode == ModeIdle || e.mode == ModeEditingText) {
		offset := e.opts.ConnectorOffset / e.view.Scale
		for _, id := range e.sel.IDs() {
			n, ok := e.doc.Node(id)
			if !ok {
				continue
			}
			for h, p := range ResizeHandles(n.Bounds()) {
				o.Grips = append(o.Grips, Grip{NodeID: id, Handle: ResizeHandle(h), Point: p})
			}
			for _, h := range diagram.Handles() {
				o.Connectors = append(o.Connectors, Connector{NodeID: id, Handle: h, Point: ConnectorPoint(n, h, offset)})
			}
		}
	}
	return o
}

func (e *Engine) snappedPreview() []geometry.Rect {
	var out []geometry.Rect
	for _, id := range e.g.ids {
		n, ok := e.doc.Node(id)
		if !ok {
			continue
		}
		b := n.Bounds()
		if e.mode == ModeDraggingNodes {
			b = e.snapRect(b)
		} else {
			b, _ = e.resizeTo(e.g.world, true)
		}
		out = append(out, b)
	}
	return out
}
