package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"whiteboard/geometry"
)

type fixedIndex []string

func (f fixedIndex) NodesIntersecting(geometry.Rect) []string { return f }

func TestSelectionMutatorsReportChange(t *testing.T) {
	s := NewSelection()

	assert.True(t, s.SelectOnly("b", "a"))
	assert.False(t, s.SelectOnly("a", "b"))
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	assert.False(t, s.Add("a"))
	assert.True(t, s.Add("c"))
	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))

	assert.True(t, s.Toggle("b"))
	assert.False(t, s.Contains("b"))
	assert.True(t, s.Toggle("b"))
	assert.True(t, s.Contains("b"))

	assert.True(t, s.Clear())
	assert.False(t, s.Clear())
	assert.Zero(t, s.Len())
}

func TestSelectWithinRect(t *testing.T) {
	s := NewSelection()
	s.SelectOnly("z")

	assert.True(t, s.SelectWithinRect(fixedIndex{"a", "b"}, geometry.Rect{}, true))
	assert.Equal(t, []string{"a", "b", "z"}, s.IDs())

	assert.True(t, s.SelectWithinRect(fixedIndex{"a"}, geometry.Rect{}, false))
	assert.Equal(t, []string{"a"}, s.IDs())

	assert.False(t, s.SelectWithinRect(fixedIndex{"a"}, geometry.Rect{}, false))
}

func TestSelectionPrune(t *testing.T) {
	s := NewSelection()
	s.SelectOnly("a", "b", "c")
	alive := map[string]bool{"b": true}

	assert.True(t, s.Prune(func(id string) bool { return alive[id] }))
	assert.Equal(t, []string{"b"}, s.IDs())
	assert.False(t, s.Prune(func(id string) bool { return alive[id] }))
}
