package editor

import (
	"sort"

	"whiteboard/geometry"
)

// SpatialIndex finds nodes overlapping a world rectangle.
type SpatialIndex interface {
	NodesIntersecting(r geometry.Rect) []string
}

// Selection is the set of selected node ids. Every mutator reports whether
// the set changed.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// SelectOnly replaces the selection with ids.
func (s *Selection) SelectOnly(ids ...string) bool {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	if sameSet(s.ids, next) {
		return false
	}
	s.ids = next
	return true
}

// Add puts ids into the selection.
func (s *Selection) Add(ids ...string) bool {
	changed := false
	for _, id := range ids {
		if _, ok := s.ids[id]; !ok {
			s.ids[id] = struct{}{}
			changed = true
		}
	}
	return changed
}

// Remove takes ids out of the selection.
func (s *Selection) Remove(ids ...string) bool {
	changed := false
	for _, id := range ids {
		if _, ok := s.ids[id]; ok {
			delete(s.ids, id)
			changed = true
		}
	}
	return changed
}

// Toggle flips membership of id.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	return true
}

// SelectWithinRect selects every node whose bounds overlap r. Touching is not
// overlap. With additive the hits join the current selection.
func (s *Selection) SelectWithinRect(index SpatialIndex, r geometry.Rect, additive bool) bool {
	hits := index.NodesIntersecting(r)
	if additive {
		return s.Add(hits...)
	}
	return s.SelectOnly(hits...)
}

// Clear empties the selection.
func (s *Selection) Clear() bool {
	if len(s.ids) == 0 {
		return false
	}
	s.ids = make(map[string]struct{})
	return true
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected ids sorted.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// Prune drops ids for which exists returns false.
func (s *Selection) Prune(exists func(string) bool) bool {
	changed := false
	for id := range s.ids {
		if !exists(id) {
			delete(s.ids, id)
			changed = true
		}
	}
	return changed
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
