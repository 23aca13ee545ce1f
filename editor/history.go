package editor

import (
	"time"

	"whiteboard/diagram"
)

// Entry is one immutable point in the history: the whole board plus the
// selection at the time it was committed.
type Entry struct {
	Label     string
	Snapshot  diagram.Snapshot
	Selection []string
	At        time.Time
}

func (e Entry) clone() Entry {
	e.Snapshot = e.Snapshot.Clone()
	e.Selection = append([]string(nil), e.Selection...)
	return e
}

// HistoryStats describes the history window.
type HistoryStats struct {
	Index   int
	Length  int
	Dropped int
}

// History is a linear undo/redo stack of snapshots. Entry 0 is the state the
// document was opened in; committing after an undo drops the redo tail.
type History struct {
	entries  []Entry
	current  int
	capacity int
	dropped  int
}

// NewHistory starts a history at base. A capacity of zero means unbounded.
func NewHistory(base Entry, capacity int) *History {
	return &History{
		entries:  []Entry{base.clone()},
		capacity: capacity,
	}
}

// Commit appends e after the current entry, discarding any redo tail. The
// oldest entries are dropped once capacity is exceeded.
func (h *History) Commit(e Entry) {
	h.entries = append(h.entries[:h.current+1], e.clone())
	h.current = len(h.entries) - 1
	if h.capacity > 0 && len(h.entries) > h.capacity {
		drop := len(h.entries) - h.capacity
		h.entries = append([]Entry(nil), h.entries[drop:]...)
		h.current -= drop
		h.dropped += drop
	}
}

// Amend replaces the current entry's snapshot and selection, keeping its
// label. Used for edits that must not become their own undo step.
func (h *History) Amend(s diagram.Snapshot, selection []string) {
	cur := &h.entries[h.current]
	cur.Snapshot = s.Clone()
	cur.Selection = append([]string(nil), selection...)
}

// CanUndo returns true if we can undo
func (h *History) CanUndo() bool { return h.current > 0 }

// CanRedo returns true if we can redo
func (h *History) CanRedo() bool { return h.current < len(h.entries)-1 }

// Undo steps back and returns the entry to restore. At the start of a
// window whose oldest entries were dropped it reports ErrHistoryTruncated.
func (h *History) Undo() (Entry, error) {
	if !h.CanUndo() {
		if h.dropped > 0 {
			return Entry{}, diagram.ErrHistoryTruncated
		}
		return Entry{}, diagram.ErrHistoryUnderflow
	}
	h.current--
	return h.entries[h.current].clone(), nil
}

// Redo steps forward and returns the entry to restore.
func (h *History) Redo() (Entry, error) {
	if !h.CanRedo() {
		return Entry{}, diagram.ErrHistoryOverflow
	}
	h.current++
	return h.entries[h.current].clone(), nil
}

// Current returns the entry the document should match.
func (h *History) Current() Entry {
	return h.entries[h.current].clone()
}

// Label returns the label of the step Undo would revert.
func (h *History) Label() string {
	return h.entries[h.current].Label
}

// Reset discards everything and starts again at base.
func (h *History) Reset(base Entry) {
	h.entries = []Entry{base.clone()}
	h.current = 0
	h.dropped = 0
}

// SetCapacity changes the bound, trimming the oldest entries if needed.
func (h *History) SetCapacity(capacity int) {
	h.capacity = capacity
	if capacity > 0 && len(h.entries) > capacity {
		drop := len(h.entries) - capacity
		if drop > h.current {
			drop = h.current
		}
		h.entries = append([]Entry(nil), h.entries[drop:]...)
		h.current -= drop
		h.dropped += drop
	}
}

// Stats returns current position and window size.
func (h *History) Stats() HistoryStats {
	return HistoryStats{Index: h.current, Length: len(h.entries), Dropped: h.dropped}
}
