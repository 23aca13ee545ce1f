package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whiteboard/diagram"
)

func TestCleanClipboardText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "a\r\nb\rc", "a\nb\nc"},
		{"control characters", "a\x00b\x07", "ab"},
		{"rtf", `{\rtf1\ansi{\fonttbl\f0 Helvetica;}\f0 hello\par world \{x\}}`, "Helvetica;hello\nworld {x}"},
		{"html", "<html><body><div>1 &lt; 2 &amp;&amp; 3</div></body></html>", "1 < 2 && 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanClipboardText(tt.in))
		})
	}
}

func TestStickyFromText(t *testing.T) {
	snap := stickyFromText("buy milk\ncall home\n")
	require.NoError(t, snap.Validate())
	require.Len(t, snap.Nodes, 1)

	n := snap.Nodes[0]
	assert.Equal(t, diagram.ShapeSticky, n.Type)
	assert.Equal(t, "buy milk\ncall home", n.Text)
	assert.Equal(t, 13*cellWidth, n.Width)
	assert.Equal(t, 4*cellHeight, n.Height)
}
