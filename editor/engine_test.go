package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/diagram"
	"whiteboard/geometry"
)

func newTestEngine(t *testing.T, mutate ...func(*Options)) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.SnapToGrid = false
	for _, m := range mutate {
		m(&opts)
	}
	n := 0
	ids := func() (string, error) {
		n++
		return fmt.Sprintf("n%d", n), nil
	}
	e, err := NewEngine("test", opts, nil, diagram.WithIDGenerator(ids))
	require.NoError(t, err)
	return e
}

func down(t *testing.T, e *Engine, x, y float64, mods Modifiers) Outcome {
	t.Helper()
	out, err := e.HandlePointer(PointerEvent{Kind: PointerDown, X: x, Y: y, Mods: mods, Clicks: 1})
	require.NoError(t, err)
	return out
}

func move(t *testing.T, e *Engine, x, y float64) {
	t.Helper()
	_, err := e.HandlePointer(PointerEvent{Kind: PointerMove, X: x, Y: y})
	require.NoError(t, err)
}

func up(t *testing.T, e *Engine, x, y float64) Outcome {
	t.Helper()
	out, err := e.HandlePointer(PointerEvent{Kind: PointerUp, X: x, Y: y})
	require.NoError(t, err)
	return out
}

func drag(t *testing.T, e *Engine, x0, y0, x1, y1 float64, mods Modifiers) Outcome {
	t.Helper()
	down(t, e, x0, y0, mods)
	move(t, e, (x0+x1)/2, (y0+y1)/2)
	move(t, e, x1, y1)
	return up(t, e, x1, y1)
}

// addBox draws a rectangle with the rectangle tool and returns its id.
func addBox(t *testing.T, e *Engine, x, y, w, h float64) string {
	t.Helper()
	require.NoError(t, e.SetTool(ToolRectangle))
	out := drag(t, e, x, y, x+w, y+h, 0)
	require.True(t, out.Committed)
	require.Equal(t, ToolSelect, e.Tool(), "shape tools revert to select")
	sel := e.Selection()
	require.Len(t, sel, 1)
	return sel[0]
}

// connectAB builds A(0,0,100,50) and B(200,0,100,50) joined right to left.
func connectAB(t *testing.T, e *Engine) (string, string) {
	t.Helper()
	a := addBox(t, e, 0, 0, 100, 50)
	b := addBox(t, e, 200, 0, 100, 50)
	require.NoError(t, e.SetTool(ToolConnect))
	out := drag(t, e, 100, 25, 200, 25, 0)
	require.True(t, out.Committed)
	require.NoError(t, e.SetTool(ToolSelect))
	return a, b
}

func TestCreateNodeByDragging(t *testing.T) {
	e := newTestEngine(t)
	id := addBox(t, e, 10, 20, 100, 50)

	n, ok := e.Document().Node(id)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, W: 100, H: 50}, n.Bounds())
	assert.Equal(t, ModeIdle, e.Mode())
	assert.Equal(t, 1, e.HistoryStats().Index)
}

func TestCreateNodeSnapsAtCommit(t *testing.T) {
	e := newTestEngine(t, func(o *Options) { o.SnapToGrid = true })
	id := addBox(t, e, 31, 9, 4, 52)

	n, _ := e.Document().Node(id)
	assert.Equal(t, geometry.Rect{X: 40, Y: 0, W: 20, H: 60}, n.Bounds())
}

// loadOffGrid opens a board holding one node x at (5,5,100,50), selected,
// with snapping on a 20 unit grid.
func loadOffGrid(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t)
	require.NoError(t, e.Load(diagram.Snapshot{Nodes: []diagram.Node{
		{ID: "x", Type: diagram.ShapeRectangle, X: 5, Y: 5, Width: 100, Height: 50},
	}}))
	opts := e.Options()
	opts.SnapToGrid = true
	opts.GridSize = 20
	require.NoError(t, e.SetOptions(opts))
	require.True(t, e.Select("x"))
	return e
}

func TestSnapAtCommitAlignsOffGridNodes(t *testing.T) {
	t.Run("resize then drag", func(t *testing.T) {
		e := loadOffGrid(t)

		out := drag(t, e, 105, 55, 118, 68, 0)
		require.Equal(t, "resize", out.Label)
		n, _ := e.Document().Node("x")
		assert.Equal(t, geometry.Rect{X: 0, Y: 0, W: 120, H: 60}, n.Bounds())

		out = drag(t, e, 60, 30, 73, 43, 0)
		require.Equal(t, "move", out.Label)
		n, _ = e.Document().Node("x")
		assert.Equal(t, geometry.Rect{X: 20, Y: 20, W: 120, H: 60}, n.Bounds())
	})

	t.Run("drag snaps size too", func(t *testing.T) {
		e := loadOffGrid(t)

		out := drag(t, e, 55, 30, 68, 43, 0)
		require.Equal(t, "move", out.Label)
		n, _ := e.Document().Node("x")
		assert.Equal(t, geometry.Rect{X: 20, Y: 20, W: 100, H: 60}, n.Bounds())
	})
}

func TestConnectAndMoveKeepsEdgeAttached(t *testing.T) {
	e := newTestEngine(t)
	a, b := connectAB(t, e)

	edges := e.Document().Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, a, edges[0].From)
	assert.Equal(t, diagram.HandleRight, edges[0].FromHandle)
	assert.Equal(t, b, edges[0].To)
	assert.Equal(t, diagram.HandleLeft, edges[0].ToHandle)

	out := drag(t, e, 250, 25, 350, 25, 0)
	assert.True(t, out.Committed)
	assert.Equal(t, "move", out.Label)

	nb, _ := e.Document().Node(b)
	assert.Equal(t, 300.0, nb.X)
	routes := e.RoutedEdges()
	require.Len(t, routes, 1)
	assert.Equal(t, geometry.Point{X: 100, Y: 25}, routes[0].FromPoint)
	assert.Equal(t, geometry.Point{X: 300, Y: 25}, routes[0].ToPoint)
}

func TestConnectOverEmptySpaceDiscards(t *testing.T) {
	e := newTestEngine(t)
	addBox(t, e, 0, 0, 100, 50)
	before := e.HistoryStats()

	require.NoError(t, e.SetTool(ToolConnect))
	out := drag(t, e, 100, 25, 400, 400, 0)
	assert.False(t, out.Committed)
	assert.Zero(t, e.Document().EdgeCount())
	assert.Equal(t, before, e.HistoryStats())
}

func TestConnectLiveEndpointSnapsToTarget(t *testing.T) {
	e := newTestEngine(t)
	addBox(t, e, 0, 0, 100, 50)
	b := addBox(t, e, 200, 0, 100, 50)
	require.NoError(t, e.SetTool(ToolConnect))

	down(t, e, 100, 25, 0)
	move(t, e, 150, 100)
	ov := e.Overlay()
	require.NotNil(t, ov.Connection)
	assert.Nil(t, ov.Connection.Target)
	assert.Equal(t, geometry.Point{X: 150, Y: 100}, ov.Connection.To)

	move(t, e, 203, 27)
	ov = e.Overlay()
	require.NotNil(t, ov.Connection.Target)
	assert.Equal(t, b, ov.Connection.Target.NodeID)
	assert.Equal(t, geometry.Point{X: 200, Y: 25}, ov.Connection.To)
}

func TestConnectorAffordanceStartsConnection(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)
	b := addBox(t, e, 200, 0, 100, 50)
	require.True(t, e.Select(a))

	// right connector of A sits ConnectorOffset outside the anchor
	x := 100 + DefaultOptions().ConnectorOffset
	down(t, e, x, 25, 0)
	assert.Equal(t, ModeConnectingEdge, e.Mode())
	move(t, e, 210, 25)
	out := up(t, e, 210, 25)

	assert.True(t, out.Committed)
	edges := e.Document().Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, b, edges[0].To)
	assert.Equal(t, diagram.HandleLeft, edges[0].ToHandle, "dropping on the body picks the nearest handle")
}

func TestDuplicateConnectionRejected(t *testing.T) {
	e := newTestEngine(t)
	connectAB(t, e)
	before := e.HistoryStats()

	require.NoError(t, e.SetTool(ToolConnect))
	down(t, e, 100, 25, 0)
	move(t, e, 200, 25)
	_, err := e.HandlePointer(PointerEvent{Kind: PointerUp, X: 200, Y: 25})
	assert.ErrorIs(t, err, diagram.ErrDuplicateEdge)
	assert.Equal(t, 1, e.Document().EdgeCount())
	assert.Equal(t, before, e.HistoryStats())
	assert.Equal(t, ModeIdle, e.Mode())
}

func TestUndoAllRedoAllReproducesState(t *testing.T) {
	e := newTestEngine(t)
	connectAB(t, e)
	drag(t, e, 250, 25, 350, 25, 0)
	final := e.Snapshot()

	undos := 0
	for {
		if _, err := e.Undo(); err != nil {
			assert.ErrorIs(t, err, diagram.ErrHistoryUnderflow)
			break
		}
		undos++
	}
	assert.Equal(t, 4, undos)
	assert.Zero(t, e.Document().Len())

	for {
		if _, err := e.Redo(); err != nil {
			assert.ErrorIs(t, err, diagram.ErrHistoryOverflow)
			break
		}
	}
	assert.Equal(t, final, e.Snapshot())
}

func TestMarqueeSelectsByOverlap(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)
	addBox(t, e, 200, 0, 100, 50)
	e.ClearSelection()

	out := drag(t, e, -50, -50, 50, 20, 0)
	assert.True(t, out.Committed)
	assert.Equal(t, []string{a}, e.Selection())
}

func TestMarqueeClickClearsSelectionWithoutHistory(t *testing.T) {
	e := newTestEngine(t)
	addBox(t, e, 0, 0, 100, 50)
	before := e.HistoryStats()

	down(t, e, 500, 500, 0)
	out := up(t, e, 500, 500)
	assert.False(t, out.Committed)
	assert.Empty(t, e.Selection())
	assert.Equal(t, before, e.HistoryStats())
}

func TestShiftMarqueeIsAdditive(t *testing.T) {
	e := newTestEngine(t)
	addBox(t, e, 0, 0, 100, 50)
	b := addBox(t, e, 200, 0, 100, 50)
	require.Len(t, e.Selection(), 1)

	drag(t, e, -50, -50, 50, 20, ModShift)
	assert.Len(t, e.Selection(), 2)
	assert.True(t, e.IsSelected(b))
}

func TestClickWithoutMoveDoesNotCommit(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)
	before := e.HistoryStats()

	down(t, e, 50, 25, 0)
	out := up(t, e, 51, 25)
	assert.False(t, out.Committed)
	assert.Equal(t, before, e.HistoryStats())
	n, _ := e.Document().Node(a)
	assert.Zero(t, n.X)
}

func TestDraggingUnselectedNodeSelectsOnlyIt(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)
	b := addBox(t, e, 200, 0, 100, 50)
	e.Select(b)
	require.Equal(t, []string{b}, e.Selection())

	drag(t, e, 50, 25, 50, 125, 0)
	assert.Equal(t, []string{a}, e.Selection())
	nb, _ := e.Document().Node(b)
	assert.Zero(t, nb.Y)
}

func TestSmallSelectedNodeCanBeDragged(t *testing.T) {
	e := newTestEngine(t)
	id := addBox(t, e, 0, 0, 16, 16)

	out := drag(t, e, 8, 8, 48, 8, 0)
	assert.Equal(t, "move", out.Label)
	n, _ := e.Document().Node(id)
	assert.Equal(t, geometry.Rect{X: 40, Y: 0, W: 16, H: 16}, n.Bounds())
}

func TestDraggingMovesWholeSelection(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)
	b := addBox(t, e, 200, 0, 100, 50)
	e.SelectAll()

	out := drag(t, e, 50, 25, 50, 125, 0)
	assert.True(t, out.Committed)
	na, _ := e.Document().Node(a)
	nb, _ := e.Document().Node(b)
	assert.Equal(t, 100.0, na.Y)
	assert.Equal(t, 100.0, nb.Y)
}

func TestShiftClickTogglesMembership(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)
	b := addBox(t, e, 200, 0, 100, 50)

	down(t, e, 50, 25, ModShift)
	up(t, e, 50, 25)
	assert.ElementsMatch(t, []string{a, b}, e.Selection())

	down(t, e, 250, 25, ModShift)
	up(t, e, 250, 25)
	assert.Equal(t, []string{a}, e.Selection())
}

func TestResizeGesture(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)

	out := drag(t, e, 100, 50, 150, 70, 0)
	assert.True(t, out.Committed)
	assert.Equal(t, "resize", out.Label)
	n, _ := e.Document().Node(a)
	assert.Equal(t, geometry.Rect{W: 150, H: 70}, n.Bounds())
}

func TestResizeBelowMinimumClamps(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)

	drag(t, e, 0, 0, 300, 300, 0)
	n, _ := e.Document().Node(a)
	assert.Equal(t, geometry.Rect{X: 90, Y: 40, W: 10, H: 10}, n.Bounds())
}

func TestEscapeCancelsGestures(t *testing.T) {
	escape := KeyEvent{Key: KeyEscape}

	t.Run("resize", func(t *testing.T) {
		e := newTestEngine(t)
		a := addBox(t, e, 0, 0, 100, 50)
		before := e.HistoryStats()

		down(t, e, 100, 50, 0)
		move(t, e, 180, 90)
		require.Equal(t, ModeResizingNode, e.Mode())
		_, err := e.HandleKey(escape)
		require.NoError(t, err)

		n, _ := e.Document().Node(a)
		assert.Equal(t, geometry.Rect{W: 100, H: 50}, n.Bounds())
		assert.Equal(t, ModeIdle, e.Mode())
		assert.Equal(t, before, e.HistoryStats())
		up(t, e, 180, 90)
		assert.Equal(t, before, e.HistoryStats())
	})

	t.Run("drag", func(t *testing.T) {
		e := newTestEngine(t)
		a := addBox(t, e, 0, 0, 100, 50)

		down(t, e, 50, 25, 0)
		move(t, e, 90, 90)
		_, err := e.HandleKey(escape)
		require.NoError(t, err)

		n, _ := e.Document().Node(a)
		assert.Zero(t, n.X)
		assert.Zero(t, n.Y)
	})

	t.Run("connect", func(t *testing.T) {
		e := newTestEngine(t)
		addBox(t, e, 0, 0, 100, 50)
		addBox(t, e, 200, 0, 100, 50)
		require.NoError(t, e.SetTool(ToolConnect))

		down(t, e, 100, 25, 0)
		move(t, e, 200, 25)
		_, err := e.HandleKey(escape)
		require.NoError(t, err)
		up(t, e, 200, 25)
		assert.Zero(t, e.Document().EdgeCount())
	})

	t.Run("marquee", func(t *testing.T) {
		e := newTestEngine(t)
		a := addBox(t, e, 0, 0, 100, 50)
		addBox(t, e, 200, 0, 100, 50)
		require.True(t, e.Select(a))

		down(t, e, 150, -50, 0)
		move(t, e, 350, 100)
		require.NotNil(t, e.Overlay().Marquee)
		_, err := e.HandleKey(escape)
		require.NoError(t, err)
		assert.Equal(t, []string{a}, e.Selection())
		assert.Nil(t, e.Overlay().Marquee)
	})
}

func TestEraserCommitsOneEntry(t *testing.T) {
	e := newTestEngine(t)
	connectAB(t, e)
	before := e.HistoryStats()

	require.NoError(t, e.SetTool(ToolEraser))
	down(t, e, 50, 25, 0)
	assert.Equal(t, 1, e.Document().Len(), "removal is immediate")
	move(t, e, 250, 25)
	out := up(t, e, 250, 25)

	assert.True(t, out.Committed)
	assert.Zero(t, e.Document().Len())
	assert.Zero(t, e.Document().EdgeCount())
	assert.Equal(t, before.Index+1, e.HistoryStats().Index)

	_, err := e.Undo()
	require.NoError(t, err)
	assert.Equal(t, 2, e.Document().Len())
	assert.Equal(t, 1, e.Document().EdgeCount())
}

func TestDeleteCascadesAndPrunesSelection(t *testing.T) {
	e := newTestEngine(t)
	a, b := connectAB(t, e)
	e.SelectAll()

	var selections [][]string
	e.Document().Subscribe(func(c diagram.Change) {
		if c.Kind == diagram.SelectionChanged {
			selections = append(selections, c.Selection)
		}
	})

	require.NoError(t, e.ApplyRemote(func(d *diagram.Document) error {
		d.RemoveNode(a)
		return nil
	}))
	assert.Equal(t, []string{b}, e.Selection())
	assert.Zero(t, e.Document().EdgeCount())
	require.Len(t, selections, 1)
	assert.Equal(t, []string{b}, selections[0])

	out, err := e.HandleKey(KeyEvent{Key: KeyDelete})
	require.NoError(t, err)
	assert.True(t, out.Committed)
	assert.Zero(t, e.Document().Len())
	assert.Empty(t, e.Selection())
}

func TestApplyRemoteAmendsHistory(t *testing.T) {
	e := newTestEngine(t)
	addBox(t, e, 0, 0, 100, 50)
	before := e.HistoryStats()

	var origins []diagram.Origin
	e.Document().Subscribe(func(c diagram.Change) { origins = append(origins, c.Origin) })

	require.NoError(t, e.ApplyRemote(func(d *diagram.Document) error {
		_, err := d.AddNode(diagram.NodeSpec{ID: "remote", X: 500, Width: 40, Height: 40})
		return err
	}))
	assert.Equal(t, before, e.HistoryStats())
	assert.Equal(t, []diagram.Origin{diagram.OriginRemote}, origins)
	assert.True(t, e.Document().HasNode("remote"))

	down(t, e, 50, 25, 0)
	err := e.ApplyRemote(func(*diagram.Document) error { return nil })
	assert.ErrorIs(t, err, diagram.ErrBusy)
	up(t, e, 50, 25)

	_, err = e.Undo()
	require.NoError(t, err)
	assert.False(t, e.Document().HasNode("remote"), "undo reverts the amended remote edit")
}

func TestWheelZoomsAtPointer(t *testing.T) {
	e := newTestEngine(t)
	p := geometry.Point{X: 400, Y: 300}
	before := e.Viewport().ScreenToWorld(p)

	e.HandleWheel(WheelEvent{X: p.X, Y: p.Y, DY: -1})
	assert.Greater(t, e.Viewport().Scale, 1.0)
	after := e.Viewport().ScreenToWorld(p)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestHandPanDoesNotTouchHistory(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.SetTool(ToolHand))
	before := e.HistoryStats()

	drag(t, e, 100, 100, 150, 80, 0)
	vp := e.Viewport()
	assert.Equal(t, -50.0, vp.OffsetX)
	assert.Equal(t, 20.0, vp.OffsetY)
	assert.Equal(t, before, e.HistoryStats())
}

func TestTextToolEntersEditing(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.SetTool(ToolText))
	down(t, e, 300, 300, 0)
	out := up(t, e, 300, 300)
	require.True(t, out.Committed)
	assert.Equal(t, ModeEditingText, out.Mode)

	id, _, ok := e.EditingText()
	require.True(t, ok)
	for _, r := range "hix" {
		_, err := e.HandleKey(KeyEvent{Key: KeyRune, Rune: r})
		require.NoError(t, err)
	}
	_, err := e.HandleKey(KeyEvent{Key: KeyBackspace})
	require.NoError(t, err)
	out, err = e.HandleKey(KeyEvent{Key: KeyEnter})
	require.NoError(t, err)

	assert.True(t, out.Committed)
	assert.Equal(t, ModeIdle, e.Mode())
	n, _ := e.Document().Node(id)
	assert.Equal(t, "hi", n.Text)
}

func TestEscapeRestoresTextBeforeEdit(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)
	_, err := e.SetText(a, "before")
	require.NoError(t, err)
	stats := e.HistoryStats()

	_, err = e.HandlePointer(PointerEvent{Kind: PointerDown, X: 50, Y: 25, Clicks: 2})
	require.NoError(t, err)
	require.Equal(t, ModeEditingText, e.Mode())
	_, err = e.HandleKey(KeyEvent{Key: KeyRune, Rune: '!'})
	require.NoError(t, err)
	_, err = e.HandleKey(KeyEvent{Key: KeyEscape})
	require.NoError(t, err)

	n, _ := e.Document().Node(a)
	assert.Equal(t, "before", n.Text)
	assert.Equal(t, stats, e.HistoryStats())
}

func TestKeyboardShortcuts(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)

	out, err := e.HandleKey(KeyEvent{Key: KeyRight, Mods: ModShift})
	require.NoError(t, err)
	assert.True(t, out.Committed)
	n, _ := e.Document().Node(a)
	assert.Equal(t, 5*DefaultOptions().GridSize, n.X)

	_, err = e.HandleKey(KeyEvent{Key: KeyRune, Rune: 'z', Mods: ModCtrl})
	require.NoError(t, err)
	n, _ = e.Document().Node(a)
	assert.Zero(t, n.X)

	_, err = e.HandleKey(KeyEvent{Key: KeyRune, Rune: 'Z', Mods: ModCtrl | ModShift})
	require.NoError(t, err)
	n, _ = e.Document().Node(a)
	assert.Equal(t, 100.0, n.X)

	out, err = e.HandleKey(KeyEvent{Key: KeyRune, Rune: 'd', Mods: ModCtrl})
	require.NoError(t, err)
	assert.Equal(t, "duplicate", out.Label)
	assert.Equal(t, 2, e.Document().Len())
	require.Len(t, e.Selection(), 1)
	assert.NotEqual(t, a, e.Selection()[0])
}

func TestPasteReassignsIDs(t *testing.T) {
	e := newTestEngine(t)
	connectAB(t, e)
	e.SelectAll()
	clip := e.CopySelection()
	require.Len(t, clip.Edges, 1)

	ids, out, err := e.Paste(clip, geometry.Point{X: 0, Y: 500})
	require.NoError(t, err)
	assert.True(t, out.Committed)
	require.Len(t, ids, 2)
	assert.Equal(t, 4, e.Document().Len())
	assert.Equal(t, 2, e.Document().EdgeCount())
	assert.ElementsMatch(t, ids, e.Selection())

	n, _ := e.Document().Node(ids[0])
	assert.Equal(t, 500.0, n.Y)
}

func TestMoveCoalescerKeepsLatest(t *testing.T) {
	e := newTestEngine(t)
	a := addBox(t, e, 0, 0, 100, 50)
	var c MoveCoalescer

	down(t, e, 50, 25, 0)
	for x := 60.0; x <= 150; x += 10 {
		c.Push(PointerEvent{Kind: PointerMove, X: x, Y: 25})
	}
	assert.True(t, c.Pending())
	_, err := c.Flush(e)
	require.NoError(t, err)
	assert.False(t, c.Pending())

	n, _ := e.Document().Node(a)
	assert.Equal(t, 100.0, n.X)
	out := up(t, e, 150, 25)
	assert.True(t, out.Committed)
}

func TestSetOptionsValidates(t *testing.T) {
	e := newTestEngine(t)
	bad := DefaultOptions()
	bad.MinScale = 10
	assert.Error(t, e.SetOptions(bad))

	good := DefaultOptions()
	good.MaxScale = 2
	require.NoError(t, e.SetOptions(good))
	e.ZoomAt(0, 0, 10)
	assert.Equal(t, 2.0, e.Viewport().Scale)
}
