package editor

import (
	"go.uber.org/zap"

	"whiteboard/diagram"
	"whiteboard/geometry"
)

// gesture holds everything captured when a pointer gesture starts.
type gesture struct {
	startScreen geometry.Point
	startWorld  geometry.Point
	lastScreen  geometry.Point
	world       geometry.Point
	moved       bool

	before    diagram.Snapshot
	beforeSel []string
	beforeVP  Viewport

	// DraggingNodes
	ids     []string
	origins map[string]geometry.Rect

	// ResizingNode, EditingText
	nodeID     string
	resize     ResizeHandle
	origBounds geometry.Rect
	keepAspect bool

	// MarqueeSelecting
	additive bool

	// ConnectingEdge
	source HandleHit
	target *HandleHit

	// CreatingNode
	shape diagram.ShapeKind

	// Erasing
	erased bool

	// EditingText
	textBefore string
	text       []rune
}

// HandlePointer feeds one pointer sample to the state machine.
func (e *Engine) HandlePointer(ev PointerEvent) (Outcome, error) {
	screen := geometry.Point{X: ev.X, Y: ev.Y}
	world := e.view.ScreenToWorld(screen)
	switch ev.Kind {
	case PointerDown:
		return e.pointerDown(ev, screen, world)
	case PointerMove:
		return e.pointerMove(ev, screen, world), nil
	case PointerUp:
		return e.pointerUp(ev, screen, world)
	}
	return e.idle(), nil
}

func (e *Engine) begin(mode Mode, screen, world geometry.Point) {
	e.mode = mode
	e.g = gesture{
		startScreen: screen,
		startWorld:  world,
		lastScreen:  screen,
		world:       world,
		before:      e.doc.Snapshot(),
		beforeSel:   e.sel.IDs(),
		beforeVP:    e.view,
	}
}

func (e *Engine) end() {
	e.mode = ModeIdle
	e.g = gesture{}
}

// tolerance converts a screen-pixel distance to world units.
func (e *Engine) tolerance(px float64) float64 {
	return px / e.view.Scale
}

func (e *Engine) pointerDown(ev PointerEvent, screen, world geometry.Point) (Outcome, error) {
	if e.mode == ModeEditingText {
		if n, ok := e.doc.NodeAt(world); ok && n.ID == e.g.nodeID {
			return e.idle(), nil
		}
		e.finishText()
	}
	if e.mode != ModeIdle {
		return e.idle(), nil
	}
	e.hover = world

	if ev.Button == ButtonMiddle || (ev.Button == ButtonLeft && e.tool == ToolHand) {
		e.begin(ModePanningCanvas, screen, world)
		return e.idle(), nil
	}
	if ev.Button != ButtonLeft {
		return e.idle(), nil
	}

	switch e.tool {
	case ToolSelect:
		return e.selectDown(ev, screen, world)
	case ToolConnect:
		if hit, ok := e.handleUnder(world, ""); ok {
			e.begin(ModeConnectingEdge, screen, world)
			e.g.source = hit
		}
		return e.idle(), nil
	case ToolEraser:
		e.begin(ModeErasing, screen, world)
		e.eraseAt(world)
		return e.idle(), nil
	}
	if kind, ok := e.tool.Shape(); ok {
		e.begin(ModeCreatingNode, screen, world)
		e.g.shape = kind
	}
	return e.idle(), nil
}

func (e *Engine) selectDown(ev PointerEvent, screen, world geometry.Point) (Outcome, error) {
	tol := e.tolerance(e.opts.HandleTolerance)

	for _, id := range e.sel.IDs() {
		n, ok := e.doc.Node(id)
		if !ok {
			continue
		}
		if h, ok := ResizeHandleAt(n.Bounds(), world, tol); ok {
			e.begin(ModeResizingNode, screen, world)
			e.g.nodeID = id
			e.g.ids = []string{id}
			e.g.resize = h
			e.g.origBounds = n.Bounds()
			e.g.keepAspect = ev.Mods.Has(ModShift) || n.Type == diagram.ShapeImage
			return e.idle(), nil
		}
	}
	if hit, ok := ConnectorAt(e.doc, e.sel.IDs(), world, tol, e.tolerance(e.opts.ConnectorOffset)); ok {
		e.begin(ModeConnectingEdge, screen, world)
		e.g.source = hit
		return e.idle(), nil
	}

	n, ok := e.doc.NodeAt(world)
	if !ok {
		e.begin(ModeMarqueeSelecting, screen, world)
		e.g.additive = ev.Mods.Has(ModShift)
		return e.idle(), nil
	}

	if ev.Clicks >= 2 {
		if e.sel.SelectOnly(n.ID) {
			e.notifySelection()
		}
		e.beginText(n.ID)
		return e.idle(), nil
	}

	switch {
	case ev.Mods.Has(ModShift):
		e.sel.Toggle(n.ID)
		e.notifySelection()
		if !e.sel.Contains(n.ID) {
			return e.idle(), nil
		}
	case !e.sel.Contains(n.ID):
		if e.sel.SelectOnly(n.ID) {
			e.notifySelection()
		}
	}

	e.begin(ModeDraggingNodes, screen, world)
	e.g.ids = e.sel.IDs()
	e.g.origins = make(map[string]geometry.Rect, len(e.g.ids))
	for _, id := range e.g.ids {
		if sn, ok := e.doc.Node(id); ok {
			e.g.origins[id] = sn.Bounds()
		}
	}
	return e.idle(), nil
}

// handleUnder finds a connection start or target at world point p: a handle
// within tolerance, else the nearest handle of the node under p. The node
// named by exclude is skipped.
func (e *Engine) handleUnder(p geometry.Point, exclude string) (HandleHit, bool) {
	if hit, ok := HandleAt(e.doc, p, e.tolerance(e.opts.HandleTolerance)); ok && hit.NodeID != exclude {
		return hit, true
	}
	n, ok := e.doc.NodeAt(p)
	if !ok || n.ID == exclude {
		return HandleHit{}, false
	}
	h := NearestHandle(n, p)
	return HandleHit{NodeID: n.ID, Handle: h, Point: AnchorFor(n, h)}, true
}

func (e *Engine) pointerMove(ev PointerEvent, screen, world geometry.Point) Outcome {
	e.hover = world
	if !e.mode.Gesture() {
		return e.idle()
	}
	e.g.world = world
	if !e.g.moved && geometry.Distance(screen, e.g.startScreen) >= e.opts.DragThreshold {
		e.g.moved = true
	}

	switch e.mode {
	case ModePanningCanvas:
		d := screen.Sub(e.g.lastScreen)
		e.view.PanBy(d.X, d.Y)
		e.g.lastScreen = screen
	case ModeDraggingNodes:
		if e.g.moved {
			e.moveTo(world, e.opts.SnapToGrid && e.opts.SnapWhileDragging)
		}
	case ModeResizingNode:
		if e.g.moved {
			r, _ := e.resizeTo(world, e.opts.SnapToGrid && e.opts.SnapWhileDragging)
			e.doc.UpdateNode(e.g.nodeID, diagram.SetBounds(r))
		}
	case ModeConnectingEdge:
		e.g.target = nil
		if hit, ok := e.handleUnder(world, e.g.source.NodeID); ok {
			e.g.target = &hit
		}
	case ModeErasing:
		e.eraseAt(world)
	}
	return e.idle()
}

// moveTo places every dragged node at its origin plus the world delta from
// gesture start, so only the latest pointer position matters. With snap the
// whole box, size included, lands on the grid.
func (e *Engine) moveTo(world geometry.Point, snap bool) bool {
	d := world.Sub(e.g.startWorld)
	changed := false
	for _, id := range e.g.ids {
		o, ok := e.g.origins[id]
		if !ok {
			continue
		}
		r := o.Translate(d.X, d.Y)
		if snap {
			r = e.snapRect(r)
		}
		if e.doc.UpdateNode(id, diagram.SetBounds(r)) {
			changed = true
		}
	}
	return changed
}

// snapRect rounds position and size to the grid, keeping the minimum size.
func (e *Engine) snapRect(r geometry.Rect) geometry.Rect {
	minW, minH := e.doc.MinSize()
	return geometry.SnapRect(r, e.opts.GridSize, minW, minH)
}

// resizeTo computes the resized bounds for the pointer at world. With snap
// the moving edges land on grid lines first, then the whole box is snapped
// so an off-grid fixed edge is aligned too.
func (e *Engine) resizeTo(world geometry.Point, snap bool) (geometry.Rect, bool) {
	d := world.Sub(e.g.startWorld)
	orig := e.g.origBounds
	if snap {
		h := e.g.resize
		switch {
		case h.movesLeft():
			d.X = geometry.Snap(orig.X+d.X, e.opts.GridSize) - orig.X
		case h.movesRight():
			d.X = geometry.Snap(orig.Right()+d.X, e.opts.GridSize) - orig.Right()
		}
		switch {
		case h.movesTop():
			d.Y = geometry.Snap(orig.Y+d.Y, e.opts.GridSize) - orig.Y
		case h.movesBottom():
			d.Y = geometry.Snap(orig.Bottom()+d.Y, e.opts.GridSize) - orig.Bottom()
		}
	}
	minW, minH := e.doc.MinSize()
	r, clamped := Resize(orig, e.g.resize, d.X, d.Y, ResizeConstraints{
		MinWidth:   minW,
		MinHeight:  minH,
		KeepAspect: e.g.keepAspect,
	})
	if snap {
		r = e.snapRect(r)
	}
	return r, clamped
}

func (e *Engine) eraseAt(world geometry.Point) {
	if n, ok := e.doc.NodeAt(world); ok {
		e.doc.RemoveNode(n.ID)
		e.g.erased = true
		return
	}
	if id, ok := EdgeAt(e.doc, world, e.tolerance(e.opts.EdgeTolerance)); ok {
		e.doc.RemoveEdge(id)
		e.g.erased = true
	}
}

// creationRect is the box a shape tool would place. A click without drag
// gives the default size centered on the pointer.
func (e *Engine) creationRect(world geometry.Point, dragged bool) geometry.Rect {
	if dragged {
		return geometry.RectFromPoints(e.g.startWorld, world)
	}
	w, h := e.opts.DefaultNodeWidth, e.opts.DefaultNodeHeight
	return geometry.Rect{X: e.g.startWorld.X - w/2, Y: e.g.startWorld.Y - h/2, W: w, H: h}
}

func (e *Engine) pointerUp(ev PointerEvent, screen, world geometry.Point) (Outcome, error) {
	if !e.mode.Gesture() {
		return e.idle(), nil
	}
	e.pointerMove(ev, screen, world)

	switch e.mode {
	case ModePanningCanvas:
		e.end()
		return e.idle(), nil
	case ModeMarqueeSelecting:
		return e.finishMarquee(world), nil
	case ModeDraggingNodes:
		return e.finishDrag(world), nil
	case ModeResizingNode:
		return e.finishResize(world), nil
	case ModeConnectingEdge:
		return e.finishConnect(world)
	case ModeCreatingNode:
		return e.finishCreate(world)
	case ModeErasing:
		return e.finishErase(), nil
	}
	e.end()
	return e.idle(), nil
}

func (e *Engine) finishMarquee(world geometry.Point) Outcome {
	moved, additive := e.g.moved, e.g.additive
	start := e.g.startWorld
	e.end()
	if !moved {
		if !additive && e.sel.Clear() {
			e.notifySelection()
		}
		return e.idle()
	}
	if !e.sel.SelectWithinRect(e.doc, geometry.RectFromPoints(start, world), additive) {
		return e.idle()
	}
	e.notifySelection()
	return e.commit("select")
}

func (e *Engine) finishDrag(world geometry.Point) Outcome {
	if !e.g.moved {
		e.end()
		return e.idle()
	}
	e.moveTo(world, e.opts.SnapToGrid)
	changed := false
	for _, id := range e.g.ids {
		n, ok := e.doc.Node(id)
		if ok && n.Bounds() != e.g.origins[id] {
			changed = true
			break
		}
	}
	e.end()
	if !changed {
		return e.idle()
	}
	return e.commit("move")
}

func (e *Engine) finishResize(world geometry.Point) Outcome {
	if !e.g.moved {
		e.end()
		return e.idle()
	}
	id, orig := e.g.nodeID, e.g.origBounds
	r, clamped := e.resizeTo(world, e.opts.SnapToGrid)
	e.doc.UpdateNode(id, diagram.SetBounds(r))
	e.end()
	if clamped {
		e.logger.Debug("resize clamped",
			zap.String("node_id", id),
			zap.Error(diagram.ErrDegenerateResize))
	}
	if n, ok := e.doc.Node(id); !ok || n.Bounds() == orig {
		return e.idle()
	}
	return e.commit("resize")
}

func (e *Engine) finishConnect(world geometry.Point) (Outcome, error) {
	source := e.g.source
	target, ok := e.handleUnder(world, source.NodeID)
	e.end()
	if !ok {
		return e.idle(), nil
	}
	_, err := e.doc.AddEdge(diagram.EdgeSpec{
		From:       source.NodeID,
		FromHandle: source.Handle,
		To:         target.NodeID,
		ToHandle:   target.Handle,
	})
	if err != nil {
		return e.idle(), e.reject("connect", err)
	}
	return e.commit("connect"), nil
}

func (e *Engine) finishCreate(world geometry.Point) (Outcome, error) {
	kind := e.g.shape
	r := e.creationRect(world, e.g.moved)
	e.end()
	if e.opts.SnapToGrid {
		minW, minH := e.doc.MinSize()
		r = geometry.SnapRect(r, e.opts.GridSize, minW, minH)
	}
	id, err := e.doc.AddNode(diagram.NodeSpec{
		Type:   kind,
		X:      r.X,
		Y:      r.Y,
		Width:  r.W,
		Height: r.H,
	})
	if err != nil {
		return e.idle(), e.reject("create", err)
	}
	if e.sel.SelectOnly(id) {
		e.notifySelection()
	}
	e.tool = ToolSelect
	out := e.commit("add " + kind.String())
	if kind == diagram.ShapeText || kind == diagram.ShapeSticky {
		e.beginText(id)
		out.Mode = e.mode
	}
	return out, nil
}

func (e *Engine) finishErase() Outcome {
	erased := e.g.erased
	e.end()
	if !erased {
		return e.idle()
	}
	return e.commit("erase")
}

// cancel abandons the gesture in progress and restores the state captured
// when it began. Erasing has already removed entities, so it commits.
func (e *Engine) cancel() (Outcome, error) {
	switch e.mode {
	case ModeIdle:
		e.ClearSelection()
		return e.idle(), nil
	case ModeErasing:
		return e.finishErase(), nil
	case ModeEditingText:
		e.cancelText()
		return e.idle(), nil
	case ModePanningCanvas:
		e.view = e.g.beforeVP
	case ModeDraggingNodes, ModeResizingNode:
		if err := e.doc.Restore(e.g.before); err != nil {
			e.end()
			return e.idle(), err
		}
	}
	if e.sel.SelectOnly(e.g.beforeSel...) {
		e.notifySelection()
	}
	e.end()
	return e.idle(), nil
}
