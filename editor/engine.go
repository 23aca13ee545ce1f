// Package editor turns pointer, key and wheel input into edits of a
// diagram.Document: the interaction state machine, viewport, selection,
// connection routing, resizing and undo history.
package editor

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"whiteboard/diagram"
	"whiteboard/geometry"
)

// Engine is the interaction state machine for one open document. It is not
// safe for concurrent use; drive it from a single event loop.
type Engine struct {
	project string
	session string
	opts    Options
	logger  *zap.Logger
	now     func() time.Time

	doc     *diagram.Document
	view    Viewport
	sel     *Selection
	history *History

	mode  Mode
	tool  Tool
	g     gesture
	hover geometry.Point
}

// NewEngine creates an engine over an empty document.
func NewEngine(project string, opts Options, logger *zap.Logger, docOpts ...diagram.DocumentOption) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	session := uuid.NewString()
	logger = logger.With(zap.String("project", project), zap.String("session", session))

	base := []diagram.DocumentOption{
		diagram.WithSession(session),
		diagram.WithLogger(logger),
		diagram.WithMinSize(opts.MinNodeWidth, opts.MinNodeHeight),
	}
	e := &Engine{
		project: project,
		session: session,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		doc:     diagram.NewDocument(append(base, docOpts...)...),
		view:    NewViewport(opts.MinScale, opts.MaxScale),
		sel:     NewSelection(),
	}
	e.history = NewHistory(e.entry("open"), opts.HistoryCapacity)
	e.doc.Subscribe(e.onChange)
	return e, nil
}

// onChange keeps the selection free of removed nodes.
func (e *Engine) onChange(c diagram.Change) {
	if c.Kind == diagram.NodeRemoved && e.sel.Remove(c.NodeID) {
		e.notifySelection()
	}
}

func (e *Engine) notifySelection() {
	e.doc.Notify(diagram.Change{Kind: diagram.SelectionChanged, Selection: e.sel.IDs()})
}

func (e *Engine) entry(label string) Entry {
	return Entry{
		Label:     label,
		Snapshot:  e.doc.Snapshot(),
		Selection: e.sel.IDs(),
		At:        e.now(),
	}
}

// commit records the current document as one undoable step.
func (e *Engine) commit(label string) Outcome {
	e.history.Commit(e.entry(label))
	e.logger.Debug("committed",
		zap.String("label", label),
		zap.Int("history_index", e.history.Stats().Index))
	return Outcome{Mode: e.mode, Committed: true, Label: label}
}

func (e *Engine) idle() Outcome {
	return Outcome{Mode: e.mode}
}

func (e *Engine) reject(op string, err error) error {
	e.logger.Warn("operation rejected", zap.String("op", op), zap.Error(err))
	return err
}

// busy reports whether an operation that rewrites the document must wait.
// An in-progress text edit is committed first instead of blocking.
func (e *Engine) busy() bool {
	if e.mode == ModeEditingText {
		e.finishText()
	}
	return e.mode != ModeIdle
}

// Project returns the project id the engine was opened for.
func (e *Engine) Project() string { return e.project }

// Session returns the unique id of this editing session.
func (e *Engine) Session() string { return e.session }

// Mode returns the current interaction state.
func (e *Engine) Mode() Mode { return e.mode }

// Tool returns the active tool.
func (e *Engine) Tool() Tool { return e.tool }

// Options returns the active options.
func (e *Engine) Options() Options { return e.opts }

// Viewport returns a copy of the view transform.
func (e *Engine) Viewport() Viewport { return e.view }

// Document exposes the underlying document, mainly for subscriptions.
// Mutating it directly bypasses history.
func (e *Engine) Document() *diagram.Document { return e.doc }

// Selection returns the selected node ids, sorted.
func (e *Engine) Selection() []string { return e.sel.IDs() }

// IsSelected reports whether node id is selected.
func (e *Engine) IsSelected(id string) bool { return e.sel.Contains(id) }

// Nodes returns every node bottom to top.
func (e *Engine) Nodes() []diagram.Node { return e.doc.Nodes() }

// RoutedEdges returns every edge with live endpoint coordinates.
func (e *Engine) RoutedEdges() []RoutedEdge { return Route(e.doc) }

// Snapshot returns the serializable document.
func (e *Engine) Snapshot() diagram.Snapshot { return e.doc.Snapshot() }

// HistoryStats describes the undo window.
func (e *Engine) HistoryStats() HistoryStats { return e.history.Stats() }

// SetOptions swaps in new options. Zoom limits, minimum size and history
// capacity take effect immediately.
func (e *Engine) SetOptions(o Options) error {
	if err := o.Validate(); err != nil {
		return err
	}
	e.opts = o
	e.view.SetLimits(o.MinScale, o.MaxScale)
	e.doc.SetMinSize(o.MinNodeWidth, o.MinNodeHeight)
	e.history.SetCapacity(o.HistoryCapacity)
	return nil
}

// SetTool switches the active tool. An in-progress text edit is committed.
func (e *Engine) SetTool(t Tool) error {
	if !t.Valid() {
		return fmt.Errorf("set tool: unknown tool %d", int(t))
	}
	if e.busy() {
		return e.reject("set_tool", diagram.ErrBusy)
	}
	e.tool = t
	return nil
}

// PanBy moves the view by a screen delta.
func (e *Engine) PanBy(dx, dy float64) {
	e.view.PanBy(dx, dy)
}

// ZoomAt zooms around screen point (sx, sy).
func (e *Engine) ZoomAt(sx, sy, factor float64) bool {
	return e.view.ZoomAt(sx, sy, factor)
}

// ResetView returns to scale 1 at the origin.
func (e *Engine) ResetView() {
	e.view.Reset()
}

// FitView frames every node in a screenW x screenH view.
func (e *Engine) FitView(screenW, screenH, padding float64) bool {
	r, ok := e.doc.Bounds()
	if !ok {
		return false
	}
	e.view.FitRect(r, screenW, screenH, padding)
	return true
}

// SelectAll selects every node.
func (e *Engine) SelectAll() bool {
	if e.sel.SelectOnly(e.doc.NodeIDs()...) {
		e.notifySelection()
		return true
	}
	return false
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() bool {
	if e.sel.Clear() {
		e.notifySelection()
		return true
	}
	return false
}

// Select replaces the selection with ids that exist.
func (e *Engine) Select(ids ...string) bool {
	var keep []string
	for _, id := range ids {
		if e.doc.HasNode(id) {
			keep = append(keep, id)
		}
	}
	if e.sel.SelectOnly(keep...) {
		e.notifySelection()
		return true
	}
	return false
}

// SetStyle sets one style key on the given nodes. An empty value removes it.
func (e *Engine) SetStyle(ids []string, key, value string) (Outcome, error) {
	if e.busy() {
		return e.idle(), e.reject("set_style", diagram.ErrBusy)
	}
	changed := false
	for _, id := range ids {
		if e.doc.UpdateNode(id, diagram.NodePatch{Style: map[string]string{key: value}}) {
			changed = true
		}
	}
	if !changed {
		return e.idle(), nil
	}
	return e.commit("style " + key), nil
}

// SetText replaces the text of a node.
func (e *Engine) SetText(id, text string) (Outcome, error) {
	if e.busy() {
		return e.idle(), e.reject("set_text", diagram.ErrBusy)
	}
	if !e.doc.HasNode(id) {
		return e.idle(), e.reject("set_text", diagram.ErrNodeNotFound.WithDetail("id", id))
	}
	if !e.doc.UpdateNode(id, diagram.SetText(text)) {
		return e.idle(), nil
	}
	return e.commit("edit text"), nil
}

// DeleteSelection removes the selected nodes and every edge touching them.
func (e *Engine) DeleteSelection() (Outcome, error) {
	if e.busy() {
		return e.idle(), e.reject("delete", diagram.ErrBusy)
	}
	ids := e.sel.IDs()
	if len(ids) == 0 {
		return e.idle(), nil
	}
	for _, id := range ids {
		e.doc.RemoveNode(id)
	}
	return e.commit("delete"), nil
}

// BringToFront raises the selection above every other node.
func (e *Engine) BringToFront() (Outcome, error) {
	if e.busy() {
		return e.idle(), e.reject("bring_to_front", diagram.ErrBusy)
	}
	if !e.doc.BringToFront(e.sel.IDs()...) {
		return e.idle(), nil
	}
	return e.commit("bring to front"), nil
}

// SendToBack lowers the selection below every other node.
func (e *Engine) SendToBack() (Outcome, error) {
	if e.busy() {
		return e.idle(), e.reject("send_to_back", diagram.ErrBusy)
	}
	if !e.doc.SendToBack(e.sel.IDs()...) {
		return e.idle(), nil
	}
	return e.commit("send to back"), nil
}

// Nudge moves the selection by whole grid steps.
func (e *Engine) Nudge(stepsX, stepsY int) (Outcome, error) {
	if e.busy() {
		return e.idle(), e.reject("nudge", diagram.ErrBusy)
	}
	dx := float64(stepsX) * e.opts.GridSize
	dy := float64(stepsY) * e.opts.GridSize
	changed := false
	for _, id := range e.sel.IDs() {
		n, ok := e.doc.Node(id)
		if !ok {
			continue
		}
		if e.doc.UpdateNode(id, diagram.MoveTo(n.X+dx, n.Y+dy)) {
			changed = true
		}
	}
	if !changed {
		return e.idle(), nil
	}
	return e.commit("nudge"), nil
}

// CopySelection returns the selected nodes and the edges between them.
func (e *Engine) CopySelection() diagram.Snapshot {
	return e.doc.Snapshot().Subset(e.sel.IDs())
}

// Paste inserts a copy of s with fresh ids, its top-left corner at world
// point at, and selects the pasted nodes.
func (e *Engine) Paste(s diagram.Snapshot, at geometry.Point) ([]string, Outcome, error) {
	if e.busy() {
		return nil, e.idle(), e.reject("paste", diagram.ErrBusy)
	}
	if err := s.Validate(); err != nil {
		return nil, e.idle(), e.reject("paste", err)
	}
	if len(s.Nodes) == 0 {
		return nil, e.idle(), nil
	}

	nodes := append([]diagram.Node(nil), s.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ZIndex < nodes[j].ZIndex })
	bounds := nodes[0].Bounds()
	for _, n := range nodes[1:] {
		bounds = bounds.Union(n.Bounds())
	}
	dx, dy := at.X-bounds.X, at.Y-bounds.Y
	if e.opts.SnapToGrid {
		dx = geometry.Snap(bounds.X+dx, e.opts.GridSize) - bounds.X
		dy = geometry.Snap(bounds.Y+dy, e.opts.GridSize) - bounds.Y
	}

	idMap := make(map[string]string, len(nodes))
	pasted := make([]string, 0, len(nodes))
	for _, n := range nodes {
		spec := diagram.NodeSpecFrom(n)
		spec.ID = ""
		spec.X += dx
		spec.Y += dy
		id, err := e.doc.AddNode(spec)
		if err != nil {
			e.rollback(pasted)
			return nil, e.idle(), e.reject("paste", err)
		}
		idMap[n.ID] = id
		pasted = append(pasted, id)
	}
	for _, edge := range s.Edges {
		_, err := e.doc.AddEdge(diagram.EdgeSpec{
			From:       idMap[edge.From],
			FromHandle: edge.FromHandle,
			To:         idMap[edge.To],
			ToHandle:   edge.ToHandle,
			Style:      edge.Style,
		})
		if err != nil {
			e.rollback(pasted)
			return nil, e.idle(), e.reject("paste", err)
		}
	}
	if e.sel.SelectOnly(pasted...) {
		e.notifySelection()
	}
	return pasted, e.commit("paste"), nil
}

func (e *Engine) rollback(nodeIDs []string) {
	for _, id := range nodeIDs {
		e.doc.RemoveNode(id)
	}
}

// Duplicate pastes a copy of the selection one grid step down and right.
func (e *Engine) Duplicate() ([]string, Outcome, error) {
	if e.busy() {
		return nil, e.idle(), e.reject("duplicate", diagram.ErrBusy)
	}
	s := e.CopySelection()
	if len(s.Nodes) == 0 {
		return nil, e.idle(), nil
	}
	bounds := s.Nodes[0].Bounds()
	for _, n := range s.Nodes[1:] {
		bounds = bounds.Union(n.Bounds())
	}
	step := e.opts.GridSize
	ids, out, err := e.Paste(s, geometry.Point{X: bounds.X + step, Y: bounds.Y + step})
	if out.Committed {
		out.Label = "duplicate"
	}
	return ids, out, err
}

// Undo restores the previous history entry.
func (e *Engine) Undo() (Outcome, error) {
	if e.busy() {
		return e.idle(), e.reject("undo", diagram.ErrBusy)
	}
	label := e.history.Label()
	entry, err := e.history.Undo()
	if err != nil {
		return e.idle(), err
	}
	if err := e.apply(entry); err != nil {
		return e.idle(), err
	}
	return Outcome{Mode: e.mode, Label: "undo " + label}, nil
}

// Redo re-applies the next history entry.
func (e *Engine) Redo() (Outcome, error) {
	if e.busy() {
		return e.idle(), e.reject("redo", diagram.ErrBusy)
	}
	entry, err := e.history.Redo()
	if err != nil {
		return e.idle(), err
	}
	if err := e.apply(entry); err != nil {
		return e.idle(), err
	}
	return Outcome{Mode: e.mode, Label: "redo " + entry.Label}, nil
}

func (e *Engine) apply(entry Entry) error {
	if err := e.doc.Restore(entry.Snapshot); err != nil {
		return fmt.Errorf("restore history entry %q: %w", entry.Label, err)
	}
	if e.sel.SelectOnly(entry.Selection...) {
		e.notifySelection()
	}
	return nil
}

// Load replaces the document with s and starts a fresh history. Any gesture
// in progress is abandoned.
func (e *Engine) Load(s diagram.Snapshot) error {
	if err := e.doc.Restore(s); err != nil {
		return e.reject("load", err)
	}
	e.mode = ModeIdle
	e.g = gesture{}
	e.ClearSelection()
	e.history.Reset(e.entry("open"))
	e.logger.Info("document loaded",
		zap.Int("nodes", e.doc.Len()),
		zap.Int("edges", e.doc.EdgeCount()))
	return nil
}

// ApplyRemote runs fn against the document with every change tagged as
// remote. The edit joins the current history entry instead of adding one,
// so local undo does not replay it as a separate step. Undoing past that
// entry restores a snapshot taken before the remote edit, which reverts it
// locally. It is refused while a gesture is in progress.
func (e *Engine) ApplyRemote(fn func(*diagram.Document) error) error {
	if e.busy() {
		return e.reject("apply_remote", diagram.ErrBusy)
	}
	err := e.doc.Remote(fn)
	e.history.Amend(e.doc.Snapshot(), e.sel.IDs())
	if err != nil {
		var derr *diagram.Error
		if errors.As(err, &derr) {
			return e.reject("apply_remote", err)
		}
		return fmt.Errorf("apply remote edit: %w", err)
	}
	return nil
}
