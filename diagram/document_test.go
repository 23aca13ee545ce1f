package diagram

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/geometry"
)

func sequentialIDs() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("id%d", n), nil
	}
}

func newTestDocument() *Document {
	return NewDocument(WithIDGenerator(sequentialIDs()))
}

func mustAddNode(t *testing.T, d *Document, x, y, w, h float64) string {
	t.Helper()
	id, err := d.AddNode(NodeSpec{Type: ShapeRectangle, X: x, Y: y, Width: w, Height: h})
	require.NoError(t, err)
	return id
}

func TestAddNodeClampsToMinimumSize(t *testing.T) {
	d := newTestDocument()
	id := mustAddNode(t, d, 0, 0, 2, -4)

	n, ok := d.Node(id)
	require.True(t, ok)
	assert.Equal(t, float64(DefaultMinWidth), n.Width)
	assert.Equal(t, float64(DefaultMinHeight), n.Height)
}

func TestAddNodeRejectsDuplicateID(t *testing.T) {
	d := newTestDocument()
	_, err := d.AddNode(NodeSpec{ID: "a", Width: 20, Height: 20})
	require.NoError(t, err)

	_, err = d.AddNode(NodeSpec{ID: "a", Width: 20, Height: 20})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 1, d.Len())
}

func TestUpdateNodeMissingIsNoop(t *testing.T) {
	d := newTestDocument()
	var changes []Change
	d.Subscribe(func(c Change) { changes = append(changes, c) })

	assert.False(t, d.UpdateNode("ghost", MoveTo(1, 1)))
	assert.Empty(t, changes)
}

func TestNonFiniteGeometryIsRejected(t *testing.T) {
	d := newTestDocument()
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := d.AddNode(NodeSpec{Type: ShapeRectangle, Width: v, Height: 20})
		assert.ErrorIs(t, err, ErrInvalidGeometry)
		_, err = d.AddNode(NodeSpec{Type: ShapeRectangle, X: v, Width: 20, Height: 20})
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	}
	assert.Zero(t, d.Len())

	id := mustAddNode(t, d, 0, 0, 100, 50)
	assert.False(t, d.UpdateNode(id, NodePatch{Height: ptr(math.NaN())}))
	assert.False(t, d.UpdateNode(id, MoveTo(math.Inf(1), 0)))
	n, _ := d.Node(id)
	assert.Equal(t, geometry.Rect{W: 100, H: 50}, n.Bounds())
}

func ptr(v float64) *float64 { return &v }

func TestUpdateNodeMergesStyle(t *testing.T) {
	d := newTestDocument()
	id, err := d.AddNode(NodeSpec{Width: 20, Height: 20, Style: map[string]string{"fill": "red", "stroke": "black"}})
	require.NoError(t, err)

	assert.True(t, d.UpdateNode(id, NodePatch{Style: map[string]string{"fill": "blue", "stroke": ""}}))
	n, _ := d.Node(id)
	assert.Equal(t, map[string]string{"fill": "blue"}, n.Style)

	assert.False(t, d.UpdateNode(id, NodePatch{Style: map[string]string{"fill": "blue"}}), "no change")
}

func TestAddEdgeInvalidEndpoint(t *testing.T) {
	d := newTestDocument()
	a := mustAddNode(t, d, 0, 0, 100, 50)

	_, err := d.AddEdge(EdgeSpec{From: a, FromHandle: HandleRight, To: "missing", ToHandle: HandleLeft})
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
	assert.Zero(t, d.EdgeCount())

	_, err = d.AddEdge(EdgeSpec{From: a, FromHandle: HandleRight, To: a, ToHandle: HandleLeft})
	assert.ErrorIs(t, err, ErrInvalidEndpoint, "self loop")
	assert.Zero(t, d.EdgeCount())
}

func TestAddEdgeRejectsDuplicate(t *testing.T) {
	d := newTestDocument()
	a := mustAddNode(t, d, 0, 0, 100, 50)
	b := mustAddNode(t, d, 200, 0, 100, 50)
	spec := EdgeSpec{From: a, FromHandle: HandleRight, To: b, ToHandle: HandleLeft}

	_, err := d.AddEdge(spec)
	require.NoError(t, err)
	_, err = d.AddEdge(spec)
	assert.ErrorIs(t, err, ErrDuplicateEdge)
	assert.Equal(t, 1, d.EdgeCount())
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	d := newTestDocument()
	a := mustAddNode(t, d, 0, 0, 100, 50)
	b := mustAddNode(t, d, 200, 0, 100, 50)
	c := mustAddNode(t, d, 400, 0, 100, 50)
	_, err := d.AddEdge(EdgeSpec{From: a, FromHandle: HandleRight, To: b, ToHandle: HandleLeft})
	require.NoError(t, err)
	_, err = d.AddEdge(EdgeSpec{From: c, FromHandle: HandleLeft, To: b, ToHandle: HandleRight})
	require.NoError(t, err)
	keep, err := d.AddEdge(EdgeSpec{From: a, FromHandle: HandleBottom, To: c, ToHandle: HandleBottom})
	require.NoError(t, err)

	var kinds []ChangeKind
	d.Subscribe(func(ch Change) {
		// the node must already be gone when listeners run
		assert.False(t, d.HasNode(b))
		kinds = append(kinds, ch.Kind)
	})

	require.True(t, d.RemoveNode(b))
	assert.Equal(t, []ChangeKind{EdgeRemoved, EdgeRemoved, NodeRemoved}, kinds)
	require.Equal(t, 1, d.EdgeCount())
	assert.Equal(t, keep, d.Edges()[0].ID)
	assert.Empty(t, d.EdgesOf(b))
}

func TestBringToFrontAndSendToBack(t *testing.T) {
	d := newTestDocument()
	a := mustAddNode(t, d, 0, 0, 10, 10)
	b := mustAddNode(t, d, 0, 0, 10, 10)
	c := mustAddNode(t, d, 0, 0, 10, 10)

	require.True(t, d.BringToFront(a))
	assert.Equal(t, []string{b, c, a}, ids(d.Nodes()))

	top, ok := d.NodeAt(geometry.Point{X: 5, Y: 5})
	require.True(t, ok)
	assert.Equal(t, a, top.ID)

	require.True(t, d.SendToBack(c, a))
	assert.Equal(t, []string{c, a, b}, ids(d.Nodes()))
	for z, n := range d.Nodes() {
		assert.Equal(t, z, n.ZIndex)
	}

	assert.False(t, d.SendToBack(c, a), "already at the back")
}

func TestZOrderTiesFallBackToInsertionOrder(t *testing.T) {
	d := newTestDocument()
	require.NoError(t, d.Restore(Snapshot{Nodes: []Node{
		{ID: "x", Width: 10, Height: 10, ZIndex: 1},
		{ID: "y", Width: 10, Height: 10, ZIndex: 0},
		{ID: "z", Width: 10, Height: 10, ZIndex: 1},
	}}))

	assert.Equal(t, []string{"y", "x", "z"}, ids(d.Nodes()))
}

func TestNodeAtUsesShapeHitTest(t *testing.T) {
	d := newTestDocument()
	id, err := d.AddNode(NodeSpec{Type: ShapeEllipse, Width: 100, Height: 100})
	require.NoError(t, err)

	_, ok := d.NodeAt(geometry.Point{X: 2, Y: 2})
	assert.False(t, ok, "corner of the bounding box is outside the ellipse")

	n, ok := d.NodeAt(geometry.Point{X: 50, Y: 50})
	require.True(t, ok)
	assert.Equal(t, id, n.ID)
}

func TestRestoreEmitsDiff(t *testing.T) {
	d := newTestDocument()
	a := mustAddNode(t, d, 0, 0, 100, 50)
	b := mustAddNode(t, d, 200, 0, 100, 50)
	_, err := d.AddEdge(EdgeSpec{From: a, FromHandle: HandleRight, To: b, ToHandle: HandleLeft})
	require.NoError(t, err)
	before := d.Snapshot()

	require.True(t, d.UpdateNode(a, MoveTo(40, 40)))
	require.True(t, d.RemoveNode(b))

	var kinds []ChangeKind
	d.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })
	require.NoError(t, d.Restore(before))

	assert.ElementsMatch(t, []ChangeKind{NodeAdded, NodeUpdated, EdgeAdded}, kinds)
	assert.Equal(t, before, d.Snapshot())
}

func TestRestoreRejectsInvalidSnapshot(t *testing.T) {
	d := newTestDocument()
	mustAddNode(t, d, 0, 0, 10, 10)
	before := d.Snapshot()

	err := d.Restore(Snapshot{
		Nodes: []Node{{ID: "a", Width: 10, Height: 10}},
		Edges: []Edge{{ID: "e", From: "a", To: "nope"}},
	})
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
	assert.Equal(t, before, d.Snapshot())
}

func TestRemoteOriginTagging(t *testing.T) {
	d := NewDocument(WithIDGenerator(sequentialIDs()), WithSession("s1"))
	var got []Change
	d.Subscribe(func(c Change) { got = append(got, c) })

	mustAddNode(t, d, 0, 0, 10, 10)
	require.NoError(t, d.Remote(func(doc *Document) error {
		_, err := doc.AddNode(NodeSpec{Width: 10, Height: 10})
		return err
	}))
	mustAddNode(t, d, 0, 0, 10, 10)

	require.Len(t, got, 3)
	assert.Equal(t, OriginLocal, got[0].Origin)
	assert.Equal(t, OriginRemote, got[1].Origin)
	assert.Equal(t, OriginLocal, got[2].Origin)
	assert.Equal(t, "s1", got[1].Session)
}

func TestUnsubscribe(t *testing.T) {
	d := newTestDocument()
	calls := 0
	cancel := d.Subscribe(func(Change) { calls++ })
	mustAddNode(t, d, 0, 0, 10, 10)
	cancel()
	mustAddNode(t, d, 0, 0, 10, 10)
	assert.Equal(t, 1, calls)
}

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
