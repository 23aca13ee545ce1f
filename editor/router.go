package editor

import (
	"math"

	"whiteboard/diagram"
	"whiteboard/geometry"
)

// RoutedEdge is an edge with endpoints resolved against live node bounds.
type RoutedEdge struct {
	ID         string
	From       string
	To         string
	FromHandle diagram.Handle
	ToHandle   diagram.Handle
	FromPoint  geometry.Point
	ToPoint    geometry.Point
	Style      map[string]string
}

// HandleHit names one connection handle of one node.
type HandleHit struct {
	NodeID string
	Handle diagram.Handle
	Point  geometry.Point
}

// AnchorFor returns the connection point of h on node n.
func AnchorFor(n diagram.Node, h diagram.Handle) geometry.Point {
	return n.Anchor(h)
}

// Route resolves every edge of doc. Coordinates are derived on each call, so
// moving or resizing a node moves its edges with no extra bookkeeping.
func Route(doc *diagram.Document) []RoutedEdge {
	edges := doc.Edges()
	out := make([]RoutedEdge, 0, len(edges))
	for _, e := range edges {
		from, ok := doc.Node(e.From)
		if !ok {
			continue
		}
		to, ok := doc.Node(e.To)
		if !ok {
			continue
		}
		out = append(out, RoutedEdge{
			ID:         e.ID,
			From:       e.From,
			To:         e.To,
			FromHandle: e.FromHandle,
			ToHandle:   e.ToHandle,
			FromPoint:  AnchorFor(from, e.FromHandle),
			ToPoint:    AnchorFor(to, e.ToHandle),
			Style:      e.Style,
		})
	}
	return out
}

// HandleAt returns the handle whose anchor lies within tolerance of p,
// checking the topmost node first. Tolerance is in world units.
func HandleAt(doc *diagram.Document, p geometry.Point, tolerance float64) (HandleHit, bool) {
	nodes := doc.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if hit, ok := handleOf(nodes[i], p, tolerance, 0); ok {
			return hit, true
		}
	}
	return HandleHit{}, false
}

// ConnectorAt is HandleAt for the connector affordance drawn offset
// outward from each anchor. Only the listed nodes are considered.
func ConnectorAt(doc *diagram.Document, ids []string, p geometry.Point, tolerance, offset float64) (HandleHit, bool) {
	for _, id := range ids {
		n, ok := doc.Node(id)
		if !ok {
			continue
		}
		if hit, ok := handleOf(n, p, tolerance, offset); ok {
			return hit, true
		}
	}
	return HandleHit{}, false
}

// ConnectorPoint returns where the affordance for h is drawn, offset world
// units outside the anchor.
func ConnectorPoint(n diagram.Node, h diagram.Handle, offset float64) geometry.Point {
	return AnchorFor(n, h).Add(h.Outward().Scale(offset))
}

func handleOf(n diagram.Node, p geometry.Point, tolerance, offset float64) (HandleHit, bool) {
	best := HandleHit{}
	bestDist := math.Inf(1)
	for _, h := range diagram.Handles() {
		a := ConnectorPoint(n, h, offset)
		if d := geometry.Distance(a, p); d <= tolerance && d < bestDist {
			best = HandleHit{NodeID: n.ID, Handle: h, Point: AnchorFor(n, h)}
			bestDist = d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// NearestHandle returns the handle of n whose anchor is closest to p.
func NearestHandle(n diagram.Node, p geometry.Point) diagram.Handle {
	best := diagram.HandleTop
	bestDist := math.Inf(1)
	for _, h := range diagram.Handles() {
		if d := geometry.Distance(AnchorFor(n, h), p); d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}

// EdgeAt returns the id of the edge whose straight route passes within
// tolerance of p. Later edges win ties.
func EdgeAt(doc *diagram.Document, p geometry.Point, tolerance float64) (string, bool) {
	routes := Route(doc)
	for i := len(routes) - 1; i >= 0; i-- {
		r := routes[i]
		if geometry.DistanceToSegment(p, r.FromPoint, r.ToPoint) <= tolerance {
			return r.ID, true
		}
	}
	return "", false
}
