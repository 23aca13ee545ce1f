package diagram

import "time"

// ChangeKind names what happened to the board.
type ChangeKind string

const (
	NodeAdded        ChangeKind = "node.added"
	NodeUpdated      ChangeKind = "node.updated"
	NodeRemoved      ChangeKind = "node.removed"
	EdgeAdded        ChangeKind = "edge.added"
	EdgeRemoved      ChangeKind = "edge.removed"
	SelectionChanged ChangeKind = "selection.changed"
)

// Origin tags where a mutation came from so a realtime collaborator can
// avoid re-broadcasting remote edits.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

func (o Origin) String() string {
	if o == OriginRemote {
		return "remote"
	}
	return "local"
}

// Change is a single notification. Node and Edge carry a copy of the entity
// after the change (before it, for removals).
type Change struct {
	Kind      ChangeKind `json:"kind"`
	Origin    Origin     `json:"origin"`
	Session   string     `json:"session,omitempty"`
	NodeID    string     `json:"nodeId,omitempty"`
	EdgeID    string     `json:"edgeId,omitempty"`
	Node      *Node      `json:"node,omitempty"`
	Edge      *Edge      `json:"edge,omitempty"`
	Selection []string   `json:"selection,omitempty"`
	At        time.Time  `json:"at"`
}

// Listener receives changes synchronously, inside the mutating call. It must
// not mutate the document; forward the change elsewhere instead.
type Listener func(Change)

type listenerSet struct {
	next  int
	funcs map[int]Listener
	order []int
}

func (s *listenerSet) add(l Listener) func() {
	if s.funcs == nil {
		s.funcs = make(map[int]Listener)
	}
	id := s.next
	s.next++
	s.funcs[id] = l
	s.order = append(s.order, id)
	return func() {
		delete(s.funcs, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *listenerSet) emit(c Change) {
	ids := append([]int(nil), s.order...)
	for _, id := range ids {
		if l, ok := s.funcs[id]; ok {
			l(c)
		}
	}
}
