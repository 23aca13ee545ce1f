package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boardJSON = `{
  "nodes": [
    {"id": "a", "type": "rectangle", "x": 0, "y": 0, "width": 100, "height": 50, "zIndex": 0},
    {"id": "b", "type": "diamond", "x": 200, "y": 0, "width": 100, "height": 50, "text": "ok?", "zIndex": 1}
  ],
  "edges": [
    {"id": "e1", "from": "a", "fromHandle": "right", "to": "b", "toHandle": "left"}
  ]
}`

func TestUnmarshalSnapshotUsesNames(t *testing.T) {
	s, err := UnmarshalSnapshot([]byte(boardJSON))
	require.NoError(t, err)

	require.Len(t, s.Nodes, 2)
	assert.Equal(t, ShapeDiamond, s.Nodes[1].Type)
	assert.Equal(t, "ok?", s.Nodes[1].Text)
	require.Len(t, s.Edges, 1)
	assert.Equal(t, HandleRight, s.Edges[0].FromHandle)
	assert.Equal(t, HandleLeft, s.Edges[0].ToHandle)

	out, err := MarshalSnapshot(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type": "diamond"`)
	assert.Contains(t, string(out), `"fromHandle": "right"`)
}

func TestUnmarshalSnapshotRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{
			name: "unknown shape",
			json: `{"nodes":[{"id":"a","type":"hexagon","width":10,"height":10}]}`,
			want: ErrInvalidSnapshot,
		},
		{
			name: "zero width",
			json: `{"nodes":[{"id":"a","type":"rectangle","width":0,"height":10}]}`,
			want: ErrInvalidSnapshot,
		},
		{
			name: "duplicate node",
			json: `{"nodes":[{"id":"a","width":10,"height":10},{"id":"a","width":10,"height":10}]}`,
			want: ErrDuplicateID,
		},
		{
			name: "dangling edge",
			json: `{"nodes":[{"id":"a","width":10,"height":10}],"edges":[{"id":"e","from":"a","fromHandle":"top","to":"b","toHandle":"top"}]}`,
			want: ErrInvalidEndpoint,
		},
		{
			name: "self loop",
			json: `{"nodes":[{"id":"a","width":10,"height":10}],"edges":[{"id":"e","from":"a","fromHandle":"top","to":"a","toHandle":"left"}]}`,
			want: ErrInvalidEndpoint,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalSnapshot([]byte(tt.json))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSnapshotSubsetKeepsInternalEdges(t *testing.T) {
	s := Snapshot{
		Nodes: []Node{
			{ID: "a", Width: 10, Height: 10},
			{ID: "b", Width: 10, Height: 10},
			{ID: "c", Width: 10, Height: 10},
		},
		Edges: []Edge{
			{ID: "ab", From: "a", To: "b"},
			{ID: "bc", From: "b", To: "c"},
		},
	}

	sub := s.Subset([]string{"a", "b"})
	assert.Len(t, sub.Nodes, 2)
	require.Len(t, sub.Edges, 1)
	assert.Equal(t, "ab", sub.Edges[0].ID)
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := Snapshot{Nodes: []Node{{ID: "a", Width: 10, Height: 10, Style: map[string]string{"fill": "red"}}}}
	c := s.Clone()
	c.Nodes[0].Style["fill"] = "blue"
	c.Nodes[0].X = 99

	assert.Equal(t, "red", s.Nodes[0].Style["fill"])
	assert.Zero(t, s.Nodes[0].X)
}
