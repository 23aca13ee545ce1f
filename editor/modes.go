package editor

import (
	"fmt"

	"whiteboard/diagram"
)

// Mode is the interaction state of the engine.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanningCanvas
	ModeMarqueeSelecting
	ModeDraggingNodes
	ModeConnectingEdge
	ModeResizingNode
	ModeEditingText
	ModeCreatingNode
	ModeErasing
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModePanningCanvas:
		return "PAN"
	case ModeMarqueeSelecting:
		return "MARQUEE"
	case ModeDraggingNodes:
		return "DRAG"
	case ModeConnectingEdge:
		return "CONNECT"
	case ModeResizingNode:
		return "RESIZE"
	case ModeEditingText:
		return "TEXT"
	case ModeCreatingNode:
		return "CREATE"
	case ModeErasing:
		return "ERASE"
	default:
		return "UNKNOWN"
	}
}

// Gesture reports whether the mode is a pointer gesture in progress.
func (m Mode) Gesture() bool {
	return m != ModeIdle && m != ModeEditingText
}

// Tool is the active palette entry.
type Tool int

const (
	ToolSelect Tool = iota
	ToolHand
	ToolConnect
	ToolEraser
	ToolRectangle
	ToolDiamond
	ToolEllipse
	ToolText
	ToolSticky
	ToolImage
)

var toolNames = [...]string{
	ToolSelect:    "select",
	ToolHand:      "hand",
	ToolConnect:   "connect",
	ToolEraser:    "eraser",
	ToolRectangle: "rectangle",
	ToolDiamond:   "diamond",
	ToolEllipse:   "ellipse",
	ToolText:      "text",
	ToolSticky:    "sticky",
	ToolImage:     "image",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolNames[t]
}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t >= ToolSelect && int(t) < len(toolNames)
}

// ParseTool maps a tool name to its value.
func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if name == s {
			return Tool(i), nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}

// Shape returns the shape kind a placement tool creates.
func (t Tool) Shape() (diagram.ShapeKind, bool) {
	switch t {
	case ToolRectangle:
		return diagram.ShapeRectangle, true
	case ToolDiamond:
		return diagram.ShapeDiamond, true
	case ToolEllipse:
		return diagram.ShapeEllipse, true
	case ToolText:
		return diagram.ShapeText, true
	case ToolSticky:
		return diagram.ShapeSticky, true
	case ToolImage:
		return diagram.ShapeImage, true
	}
	return 0, false
}
