package editor

// PointerKind distinguishes pointer event phases.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// Button is the pointer button involved in an event.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Modifiers is the set of keyboard modifiers held during an event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in m is held.
func (m Modifiers) Has(o Modifiers) bool { return m&o == o }

// PointerEvent is a pointer sample in screen coordinates. Clicks counts
// consecutive clicks for a down event (2 for a double click).
type PointerEvent struct {
	Kind   PointerKind
	X, Y   float64
	Button Button
	Mods   Modifiers
	Clicks int
}

// Key names a non-printable key. Printable input arrives as KeyRune.
type Key int

const (
	KeyRune Key = iota
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyTab
)

// KeyEvent is a key press.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifiers
}

// WheelEvent is a scroll at screen position X, Y. DY < 0 scrolls up.
type WheelEvent struct {
	X, Y   float64
	DX, DY float64
	Mods   Modifiers
}

// Outcome describes the result of handling one input event.
type Outcome struct {
	Mode      Mode
	Committed bool
	Label     string
}

// MoveCoalescer keeps only the most recent pointer move between frames.
type MoveCoalescer struct {
	pending *PointerEvent
}

// Push records ev, replacing any move not yet flushed.
func (c *MoveCoalescer) Push(ev PointerEvent) {
	c.pending = &ev
}

// Pending reports whether a move is waiting.
func (c *MoveCoalescer) Pending() bool { return c.pending != nil }

// Flush delivers the latest move to e, if any.
func (c *MoveCoalescer) Flush(e *Engine) (Outcome, error) {
	if c.pending == nil {
		return Outcome{Mode: e.Mode()}, nil
	}
	ev := *c.pending
	c.pending = nil
	return e.HandlePointer(ev)
}
