package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"whiteboard/editor"
)

const doubleClickWindow = 400 * time.Millisecond

// cellToScreen maps a terminal cell to the screen point at its center.
func cellToScreen(x, y int) (float64, float64) {
	return float64(x)*cellWidth + cellWidth/2, float64(y)*cellHeight + cellHeight/2
}

// screenToCell is the inverse of cellToScreen, rounding down.
func screenToCell(sx, sy float64) (int, int) {
	return floorDiv(sx, cellWidth), floorDiv(sy, cellHeight)
}

func floorDiv(v, size float64) int {
	c := int(v / size)
	if v < 0 && float64(c)*size != v {
		c--
	}
	return c
}

func mouseModifiers(msg tea.MouseMsg) editor.Modifiers {
	var mods editor.Modifiers
	if msg.Shift {
		mods |= editor.ModShift
	}
	if msg.Ctrl {
		mods |= editor.ModCtrl
	}
	if msg.Alt {
		mods |= editor.ModAlt
	}
	return mods
}

func mouseButton(b tea.MouseButton) (editor.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return editor.ButtonLeft, true
	case tea.MouseButtonMiddle:
		return editor.ButtonMiddle, true
	case tea.MouseButtonRight:
		return editor.ButtonRight, true
	}
	return 0, false
}

// translateWheel turns a wheel report into a wheel event, with top the
// first terminal row of the board.
func translateWheel(msg tea.MouseMsg, top int) (editor.WheelEvent, bool) {
	x, y := cellToScreen(msg.X, msg.Y-top)
	ev := editor.WheelEvent{X: x, Y: y, Mods: mouseModifiers(msg)}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ev.DY = -1
	case tea.MouseButtonWheelDown:
		ev.DY = 1
	case tea.MouseButtonWheelLeft:
		ev.DX = -1
	case tea.MouseButtonWheelRight:
		ev.DX = 1
	default:
		return ev, false
	}
	return ev, true
}

// translatePointer turns a press, release or motion report into a pointer
// event. Wheel reports are not pointer events.
func translatePointer(msg tea.MouseMsg, top int) (editor.PointerEvent, bool) {
	x, y := cellToScreen(msg.X, msg.Y-top)
	ev := editor.PointerEvent{X: x, Y: y, Mods: mouseModifiers(msg), Button: editor.ButtonLeft, Clicks: 1}
	switch msg.Action {
	case tea.MouseActionPress:
		b, ok := mouseButton(msg.Button)
		if !ok {
			return ev, false
		}
		ev.Kind = editor.PointerDown
		ev.Button = b
	case tea.MouseActionRelease:
		ev.Kind = editor.PointerUp
		if b, ok := mouseButton(msg.Button); ok {
			ev.Button = b
		}
	case tea.MouseActionMotion:
		ev.Kind = editor.PointerMove
		if b, ok := mouseButton(msg.Button); ok {
			ev.Button = b
		}
	default:
		return ev, false
	}
	return ev, true
}

// translateKey maps a terminal key to an engine key. ok is false for keys
// the engine has no use for.
func translateKey(msg tea.KeyMsg) (editor.KeyEvent, bool) {
	var mods editor.Modifiers
	if msg.Alt {
		mods |= editor.ModAlt
	}
	ev := editor.KeyEvent{Mods: mods}
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		if len(msg.Runes) != 1 {
			return ev, false
		}
		ev.Key = editor.KeyRune
		ev.Rune = msg.Runes[0]
	case tea.KeyEsc:
		ev.Key = editor.KeyEscape
	case tea.KeyEnter:
		ev.Key = editor.KeyEnter
	case tea.KeyCtrlJ:
		ev.Key = editor.KeyEnter
		ev.Mods |= editor.ModShift
	case tea.KeyBackspace:
		ev.Key = editor.KeyBackspace
	case tea.KeyDelete:
		ev.Key = editor.KeyDelete
	case tea.KeyTab:
		ev.Key = editor.KeyTab
	case tea.KeyUp, tea.KeyDown, tea.KeyLeft, tea.KeyRight:
		ev.Key = arrowKey(msg.Type)
	case tea.KeyShiftUp, tea.KeyShiftDown, tea.KeyShiftLeft, tea.KeyShiftRight:
		ev.Key = arrowKey(msg.Type)
		ev.Mods |= editor.ModShift
	case tea.KeyCtrlZ, tea.KeyCtrlY, tea.KeyCtrlA, tea.KeyCtrlD:
		ev.Key = editor.KeyRune
		ev.Rune = ctrlRunes[msg.Type]
		ev.Mods |= editor.ModCtrl
	default:
		return ev, false
	}
	if msg.Type == tea.KeySpace {
		ev.Rune = ' '
	}
	return ev, true
}

var ctrlRunes = map[tea.KeyType]rune{
	tea.KeyCtrlZ: 'z',
	tea.KeyCtrlY: 'y',
	tea.KeyCtrlA: 'a',
	tea.KeyCtrlD: 'd',
}

func arrowKey(t tea.KeyType) editor.Key {
	switch t {
	case tea.KeyUp, tea.KeyShiftUp:
		return editor.KeyUp
	case tea.KeyDown, tea.KeyShiftDown:
		return editor.KeyDown
	case tea.KeyLeft, tea.KeyShiftLeft:
		return editor.KeyLeft
	default:
		return editor.KeyRight
	}
}

// countClicks turns repeated presses on the same cell into a double click.
func (m *model) countClicks(msg tea.MouseMsg, now time.Time) int {
	clicks := 1
	if now.Sub(m.lastClickAt) <= doubleClickWindow && msg.X == m.lastClickX && msg.Y == m.lastClickY {
		clicks = 2
		m.lastClickAt = time.Time{}
	} else {
		m.lastClickAt = now
	}
	m.lastClickX, m.lastClickY = msg.X, msg.Y
	return clicks
}

// canvasTop is the first terminal row the board is drawn on.
func (m *model) canvasTop() int {
	if m.showBufferBar() {
		return 1
	}
	return 0
}

func (m *model) showBufferBar() bool {
	return m.mode != ModeStartup && len(m.buffers) > 1
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal || m.help {
		return m, nil
	}
	buf := m.getCurrentBuffer()
	if buf == nil {
		return m, nil
	}
	top := m.canvasTop()

	if msg.Action == tea.MouseActionPress {
		if ev, ok := translateWheel(msg, top); ok {
			m.flushMoves()
			buf.engine.HandleWheel(ev)
			return m, nil
		}
	}

	ev, ok := translatePointer(msg, top)
	if !ok {
		return m, nil
	}
	if ev.Kind == editor.PointerMove {
		buf.moves.Push(ev)
		cmd := m.scheduleTick()
		return m, cmd
	}
	m.flushMoves()
	if ev.Kind == editor.PointerDown {
		ev.Clicks = m.countClicks(msg, time.Now())
	}
	out, err := buf.engine.HandlePointer(ev)
	m.afterEngine(out, err)
	return m, nil
}

func (m *model) scheduleTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// flushMoves delivers the latest coalesced move of the current buffer.
func (m *model) flushMoves() {
	buf := m.getCurrentBuffer()
	if buf == nil || !buf.moves.Pending() {
		return
	}
	out, err := buf.moves.Flush(buf.engine)
	m.afterEngine(out, err)
}

// afterEngine records the result of an engine call in the status line.
func (m *model) afterEngine(out editor.Outcome, err error) {
	if err != nil {
		m.errorMessage = err.Error()
		m.successMessage = ""
		return
	}
	if out.Committed {
		if buf := m.getCurrentBuffer(); buf != nil {
			buf.dirty = true
		}
		m.errorMessage = ""
		m.successMessage = out.Label
	}
}
