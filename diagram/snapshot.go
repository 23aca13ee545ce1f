package diagram

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Snapshot is the serializable document exchanged with persistence and
// realtime collaborators. It never carries viewport or selection state.
type Snapshot struct {
	Nodes []Node `json:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" validate:"dive"`
}

var validate = validator.New()

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.Clone()
	}
	for i, e := range s.Edges {
		out.Edges[i] = e.Clone()
	}
	return out
}

// Validate checks field constraints and referential integrity: unique ids,
// known shape kinds and handles, and edges whose endpoints exist.
func (s Snapshot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return ErrInvalidSnapshot.WithCause(err)
	}
	nodes := make(map[string]struct{}, len(s.Nodes))
	for _, n := range s.Nodes {
		if !n.Type.Valid() {
			return ErrInvalidShape.WithDetail("node", n.ID)
		}
		if _, dup := nodes[n.ID]; dup {
			return ErrDuplicateID.WithDetail("id", n.ID)
		}
		nodes[n.ID] = struct{}{}
	}
	edges := make(map[string]struct{}, len(s.Edges))
	for _, e := range s.Edges {
		if _, dup := edges[e.ID]; dup {
			return ErrDuplicateID.WithDetail("id", e.ID)
		}
		edges[e.ID] = struct{}{}
		if !e.FromHandle.Valid() || !e.ToHandle.Valid() {
			return ErrInvalidHandle.WithDetail("edge", e.ID)
		}
		_, fromOK := nodes[e.From]
		_, toOK := nodes[e.To]
		if !fromOK || !toOK {
			return ErrInvalidEndpoint.WithDetail("edge", e.ID)
		}
		if e.From == e.To {
			return ErrInvalidEndpoint.WithDetail("self_loop", e.ID)
		}
	}
	return nil
}

// Subset returns the named nodes and every edge with both endpoints among
// them.
func (s Snapshot) Subset(ids []string) Snapshot {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	var out Snapshot
	for _, n := range s.Nodes {
		if _, ok := keep[n.ID]; ok {
			out.Nodes = append(out.Nodes, n.Clone())
		}
	}
	for _, e := range s.Edges {
		_, fromOK := keep[e.From]
		_, toOK := keep[e.To]
		if fromOK && toOK {
			out.Edges = append(out.Edges, e.Clone())
		}
	}
	return out
}

// Empty reports whether the snapshot holds no entities.
func (s Snapshot) Empty() bool {
	return len(s.Nodes) == 0 && len(s.Edges) == 0
}

// MarshalSnapshot encodes a snapshot as indented JSON.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	if s.Nodes == nil {
		s.Nodes = []Node{}
	}
	if s.Edges == nil {
		s.Edges = []Edge{}
	}
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot decodes and validates a snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", ErrInvalidSnapshot.WithCause(err))
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}
