package diagram

import (
	"fmt"
	"math"
	"sort"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"whiteboard/geometry"
)

const (
	DefaultMinWidth  = 10
	DefaultMinHeight = 10
)

// Document owns every node and edge of one open board. It is not safe for
// concurrent use: a single writer drives it from its event loop.
type Document struct {
	nodes     map[string]*Node
	order     []string
	edges     map[string]*Edge
	edgeOrder []string

	minWidth  float64
	minHeight float64

	newID     func() (string, error)
	now       func() time.Time
	origin    Origin
	session   string
	listeners listenerSet
	logger    *zap.Logger
}

// DocumentOption configures a Document at construction.
type DocumentOption func(*Document)

// WithMinSize sets the smallest width and height a node may have.
func WithMinSize(w, h float64) DocumentOption {
	return func(d *Document) {
		if w > 0 {
			d.minWidth = w
		}
		if h > 0 {
			d.minHeight = h
		}
	}
}

// WithIDGenerator replaces the nanoid generator, mostly for tests.
func WithIDGenerator(fn func() (string, error)) DocumentOption {
	return func(d *Document) { d.newID = fn }
}

// WithSession stamps every change with the editing session id.
func WithSession(session string) DocumentOption {
	return func(d *Document) { d.session = session }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) DocumentOption {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock overrides the change timestamp source.
func WithClock(now func() time.Time) DocumentOption {
	return func(d *Document) { d.now = now }
}

// NewDocument creates an empty board.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{
		nodes:     make(map[string]*Node),
		edges:     make(map[string]*Edge),
		minWidth:  DefaultMinWidth,
		minHeight: DefaultMinHeight,
		newID:     func() (string, error) { return gonanoid.New() },
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MinSize returns the minimum node width and height.
func (d *Document) MinSize() (float64, float64) {
	return d.minWidth, d.minHeight
}

// SetMinSize changes the minimum node size for future mutations.
func (d *Document) SetMinSize(w, h float64) {
	WithMinSize(w, h)(d)
}

// Subscribe registers l for every change and returns a function that
// removes it.
func (d *Document) Subscribe(l Listener) func() {
	return d.listeners.add(l)
}

// Remote runs fn with every change it makes tagged OriginRemote.
func (d *Document) Remote(fn func(*Document) error) error {
	prev := d.origin
	d.origin = OriginRemote
	defer func() { d.origin = prev }()
	return fn(d)
}

// Notify publishes a change that did not originate in the document itself,
// such as a selection change, through the same listener set.
func (d *Document) Notify(c Change) {
	d.emit(c)
}

func (d *Document) emit(c Change) {
	c.Origin = d.origin
	c.Session = d.session
	c.At = d.now()
	d.listeners.emit(c)
}

func (d *Document) generateID() (string, error) {
	id, err := d.newID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id, nil
}

// finite reports whether every coordinate of n is a real number.
func finite(n *Node) bool {
	for _, v := range []float64{n.X, n.Y, n.Width, n.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (d *Document) clampSize(n *Node) bool {
	clamped := false
	if n.Width < d.minWidth {
		n.Width = d.minWidth
		clamped = true
	}
	if n.Height < d.minHeight {
		n.Height = d.minHeight
		clamped = true
	}
	return clamped
}

func (d *Document) topZ() int {
	z := -1
	for _, n := range d.nodes {
		if n.ZIndex > z {
			z = n.ZIndex
		}
	}
	return z
}

// AddNode creates a node on top of the z-order and returns its id.
func (d *Document) AddNode(spec NodeSpec) (string, error) {
	if !spec.Type.Valid() {
		return "", ErrInvalidShape.WithDetail("kind", int(spec.Type))
	}
	id := spec.ID
	if id == "" {
		var err error
		if id, err = d.generateID(); err != nil {
			return "", err
		}
	}
	if _, exists := d.nodes[id]; exists {
		return "", ErrDuplicateID.WithDetail("id", id)
	}

	n := &Node{
		ID:     id,
		Type:   spec.Type,
		X:      spec.X,
		Y:      spec.Y,
		Width:  spec.Width,
		Height: spec.Height,
		Text:   spec.Text,
		Style:  cloneStyle(spec.Style),
		ZIndex: d.topZ() + 1,
	}
	if !finite(n) {
		return "", ErrInvalidGeometry.WithDetail("id", id)
	}
	d.clampSize(n)
	d.nodes[id] = n
	d.order = append(d.order, id)

	c := n.Clone()
	d.emit(Change{Kind: NodeAdded, NodeID: id, Node: &c})
	return id, nil
}

// UpdateNode applies patch to the node. It is a silent no-op returning false
// when the node does not exist, the patch holds NaN or infinite geometry, or
// nothing changed.
func (d *Document) UpdateNode(id string, patch NodePatch) bool {
	n, ok := d.nodes[id]
	if !ok {
		return false
	}
	before := n.Clone()
	next := n.Clone()
	if patch.X != nil {
		next.X = *patch.X
	}
	if patch.Y != nil {
		next.Y = *patch.Y
	}
	if patch.Width != nil {
		next.Width = *patch.Width
	}
	if patch.Height != nil {
		next.Height = *patch.Height
	}
	if patch.Text != nil {
		next.Text = *patch.Text
	}
	if len(patch.Style) > 0 {
		if next.Style == nil {
			next.Style = make(map[string]string, len(patch.Style))
		}
		for k, v := range patch.Style {
			if v == "" {
				delete(next.Style, k)
			} else {
				next.Style[k] = v
			}
		}
		if len(next.Style) == 0 {
			next.Style = nil
		}
	}
	if !finite(&next) {
		d.logger.Warn("ignoring non-finite node geometry", zap.String("node_id", id))
		return false
	}
	d.clampSize(&next)
	if nodesEqual(before, next) {
		return false
	}
	*n = next

	c := n.Clone()
	d.emit(Change{Kind: NodeUpdated, NodeID: id, Node: &c})
	return true
}

// RemoveNode deletes the node and, in the same transaction, every edge that
// references it.
func (d *Document) RemoveNode(id string) bool {
	n, ok := d.nodes[id]
	if !ok {
		return false
	}
	var cascaded []Edge
	kept := d.edgeOrder[:0:0]
	for _, eid := range d.edgeOrder {
		e := d.edges[eid]
		if e.From == id || e.To == id {
			cascaded = append(cascaded, e.Clone())
			delete(d.edges, eid)
			continue
		}
		kept = append(kept, eid)
	}
	d.edgeOrder = kept
	delete(d.nodes, id)
	d.order = removeString(d.order, id)

	if len(cascaded) > 0 {
		d.logger.Debug("cascaded edge removal",
			zap.String("node_id", id),
			zap.Int("edge_count", len(cascaded)))
	}
	for i := range cascaded {
		e := cascaded[i]
		d.emit(Change{Kind: EdgeRemoved, EdgeID: e.ID, Edge: &e})
	}
	removed := n.Clone()
	d.emit(Change{Kind: NodeRemoved, NodeID: id, Node: &removed})
	return true
}

// AddEdge connects two existing nodes. Nothing is created when it fails.
func (d *Document) AddEdge(spec EdgeSpec) (string, error) {
	if !spec.FromHandle.Valid() || !spec.ToHandle.Valid() {
		return "", ErrInvalidHandle
	}
	if _, ok := d.nodes[spec.From]; !ok {
		return "", ErrInvalidEndpoint.WithDetail("from", spec.From)
	}
	if _, ok := d.nodes[spec.To]; !ok {
		return "", ErrInvalidEndpoint.WithDetail("to", spec.To)
	}
	if spec.From == spec.To {
		return "", ErrInvalidEndpoint.WithDetail("self_loop", spec.From)
	}
	for _, e := range d.edges {
		if e.From == spec.From && e.To == spec.To &&
			e.FromHandle == spec.FromHandle && e.ToHandle == spec.ToHandle {
			return "", ErrDuplicateEdge.WithDetail("edge", e.ID)
		}
	}
	id := spec.ID
	if id == "" {
		var err error
		if id, err = d.generateID(); err != nil {
			return "", err
		}
	}
	if _, exists := d.edges[id]; exists {
		return "", ErrDuplicateID.WithDetail("id", id)
	}

	e := &Edge{
		ID:         id,
		From:       spec.From,
		FromHandle: spec.FromHandle,
		To:         spec.To,
		ToHandle:   spec.ToHandle,
		Style:      cloneStyle(spec.Style),
	}
	d.edges[id] = e
	d.edgeOrder = append(d.edgeOrder, id)

	c := e.Clone()
	d.emit(Change{Kind: EdgeAdded, EdgeID: id, Edge: &c})
	return id, nil
}

// RemoveEdge deletes an edge, returning false if it does not exist.
func (d *Document) RemoveEdge(id string) bool {
	e, ok := d.edges[id]
	if !ok {
		return false
	}
	delete(d.edges, id)
	d.edgeOrder = removeString(d.edgeOrder, id)

	c := e.Clone()
	d.emit(Change{Kind: EdgeRemoved, EdgeID: id, Edge: &c})
	return true
}

// BringToFront moves the given nodes above all others, keeping their
// relative order, then renumbers every ZIndex from zero.
func (d *Document) BringToFront(ids ...string) bool {
	return d.restack(ids, true)
}

// SendToBack moves the given nodes below all others.
func (d *Document) SendToBack(ids ...string) bool {
	return d.restack(ids, false)
}

func (d *Document) restack(ids []string, front bool) bool {
	pick := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := d.nodes[id]; ok {
			pick[id] = struct{}{}
		}
	}
	if len(pick) == 0 {
		return false
	}
	var moved, rest []string
	for _, id := range d.zOrder() {
		if _, ok := pick[id]; ok {
			moved = append(moved, id)
		} else {
			rest = append(rest, id)
		}
	}
	var stacked []string
	if front {
		stacked = append(rest, moved...)
	} else {
		stacked = append(moved, rest...)
	}

	var changed []string
	for z, id := range stacked {
		if n := d.nodes[id]; n.ZIndex != z {
			n.ZIndex = z
			changed = append(changed, id)
		}
	}
	for _, id := range changed {
		c := d.nodes[id].Clone()
		d.emit(Change{Kind: NodeUpdated, NodeID: id, Node: &c})
	}
	return len(changed) > 0
}

// zOrder returns node ids bottom to top; equal ZIndex falls back to
// insertion order.
func (d *Document) zOrder() []string {
	ids := append([]string(nil), d.order...)
	sort.SliceStable(ids, func(i, j int) bool {
		return d.nodes[ids[i]].ZIndex < d.nodes[ids[j]].ZIndex
	})
	return ids
}

// HasNode reports whether the node exists.
func (d *Document) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// Node returns a copy of the node.
func (d *Document) Node(id string) (Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// Edge returns a copy of the edge.
func (d *Document) Edge(id string) (Edge, bool) {
	e, ok := d.edges[id]
	if !ok {
		return Edge{}, false
	}
	return e.Clone(), true
}

// Nodes returns copies of every node, bottom of the stack first.
func (d *Document) Nodes() []Node {
	ids := d.zOrder()
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.nodes[id].Clone())
	}
	return out
}

// NodeIDs returns node ids in insertion order.
func (d *Document) NodeIDs() []string {
	return append([]string(nil), d.order...)
}

// Edges returns copies of every edge in insertion order.
func (d *Document) Edges() []Edge {
	out := make([]Edge, 0, len(d.edgeOrder))
	for _, id := range d.edgeOrder {
		out = append(out, d.edges[id].Clone())
	}
	return out
}

// EdgesOf returns every edge touching the node.
func (d *Document) EdgesOf(nodeID string) []Edge {
	var out []Edge
	for _, id := range d.edgeOrder {
		e := d.edges[id]
		if e.From == nodeID || e.To == nodeID {
			out = append(out, e.Clone())
		}
	}
	return out
}

// NodeAt returns the topmost node whose shape contains p.
func (d *Document) NodeAt(p geometry.Point) (Node, bool) {
	ids := d.zOrder()
	for i := len(ids) - 1; i >= 0; i-- {
		if n := d.nodes[ids[i]]; n.Contains(p) {
			return n.Clone(), true
		}
	}
	return Node{}, false
}

// NodesIntersecting returns ids of nodes whose bounds overlap r.
func (d *Document) NodesIntersecting(r geometry.Rect) []string {
	var out []string
	for _, id := range d.order {
		if d.nodes[id].Bounds().Intersects(r) {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of nodes.
func (d *Document) Len() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Document) EdgeCount() int { return len(d.edges) }

// Bounds returns the box covering every node, or false for an empty board.
func (d *Document) Bounds() (geometry.Rect, bool) {
	var r geometry.Rect
	for i, id := range d.order {
		b := d.nodes[id].Bounds()
		if i == 0 {
			r = b
			continue
		}
		r = r.Union(b)
	}
	return r, len(d.order) > 0
}

// Snapshot returns a deep copy of the board in insertion order.
func (d *Document) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]Node, 0, len(d.order)),
		Edges: make([]Edge, 0, len(d.edgeOrder)),
	}
	for _, id := range d.order {
		s.Nodes = append(s.Nodes, d.nodes[id].Clone())
	}
	for _, id := range d.edgeOrder {
		s.Edges = append(s.Edges, d.edges[id].Clone())
	}
	return s
}

// Restore replaces the board with s. Listeners see the difference as
// granular removals, additions and updates, emitted after the swap.
func (d *Document) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	nodes := make(map[string]*Node, len(s.Nodes))
	order := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		c := n.Clone()
		d.clampSize(&c)
		nodes[c.ID] = &c
		order = append(order, c.ID)
	}
	edges := make(map[string]*Edge, len(s.Edges))
	edgeOrder := make([]string, 0, len(s.Edges))
	for _, e := range s.Edges {
		c := e.Clone()
		edges[c.ID] = &c
		edgeOrder = append(edgeOrder, c.ID)
	}

	var changes []Change
	for _, id := range d.edgeOrder {
		old := d.edges[id]
		if next, ok := edges[id]; !ok || !edgesEqual(*old, *next) {
			c := old.Clone()
			changes = append(changes, Change{Kind: EdgeRemoved, EdgeID: id, Edge: &c})
		}
	}
	for _, id := range d.order {
		if _, ok := nodes[id]; !ok {
			c := d.nodes[id].Clone()
			changes = append(changes, Change{Kind: NodeRemoved, NodeID: id, Node: &c})
		}
	}
	for _, id := range order {
		next := nodes[id].Clone()
		old, ok := d.nodes[id]
		switch {
		case !ok:
			changes = append(changes, Change{Kind: NodeAdded, NodeID: id, Node: &next})
		case !nodesEqual(*old, next):
			changes = append(changes, Change{Kind: NodeUpdated, NodeID: id, Node: &next})
		}
	}
	for _, id := range edgeOrder {
		next := edges[id].Clone()
		if old, ok := d.edges[id]; !ok || !edgesEqual(*old, next) {
			changes = append(changes, Change{Kind: EdgeAdded, EdgeID: id, Edge: &next})
		}
	}

	d.nodes, d.order = nodes, order
	d.edges, d.edgeOrder = edges, edgeOrder
	for _, c := range changes {
		d.emit(c)
	}
	return nil
}

func nodesEqual(a, b Node) bool {
	return a.ID == b.ID && a.Type == b.Type &&
		a.X == b.X && a.Y == b.Y && a.Width == b.Width && a.Height == b.Height &&
		a.Text == b.Text && a.ZIndex == b.ZIndex && stylesEqual(a.Style, b.Style)
}

func edgesEqual(a, b Edge) bool {
	return a.ID == b.ID && a.From == b.From && a.To == b.To &&
		a.FromHandle == b.FromHandle && a.ToHandle == b.ToHandle &&
		stylesEqual(a.Style, b.Style)
}

func stylesEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
