package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusStyle  = lipgloss.NewStyle().Reverse(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

var helpLines = []string{
	"Whiteboard Help",
	"===============",
	"",
	"Mouse:",
	"------",
	"  Drag on empty space      Marquee select (Shift adds to the selection)",
	"  Click a shape            Select it (Shift toggles)",
	"  Drag a shape             Move the selection",
	"  Drag a ■ grip            Resize (Shift keeps the aspect ratio)",
	"  Drag from a ○            Connect to another shape",
	"  Double click a shape     Edit its text",
	"  Middle drag              Pan",
	"  Wheel                    Zoom at the pointer (Ctrl/Alt+wheel pans)",
	"",
	"Tools:",
	"------",
	"  v  Select    h  Hand      c  Connect   e  Eraser",
	"  r  Rectangle d  Diamond   o  Ellipse",
	"  t  Text      s  Sticky    i  Image",
	"",
	"Editing:",
	"--------",
	"  Enter                    Edit the text of the selected shape",
	"  Shift+Enter / Ctrl+J     New line while editing",
	"  Delete/Backspace         Delete the selection",
	"  Arrows                   Nudge the selection one grid step (Shift: 5)",
	"  [ / ]                    Send to back / bring to front",
	"  Ctrl+A                   Select all",
	"  Ctrl+D                   Duplicate",
	"  y / p                    Copy / paste",
	"  u / U  (Ctrl+Z / Ctrl+Y) Undo / redo",
	"  Esc                      Cancel the current gesture or clear the selection",
	"",
	"View:",
	"-----",
	"  Arrows (nothing selected) Pan",
	"  + / - / 0                Zoom in / out / reset",
	"  f                        Fit the board",
	"  g                        Toggle snap to grid",
	"",
	"Files and buffers:",
	"------------------",
	"  Ctrl+S                   Save",
	"  Ctrl+O / O               Open in this buffer / a new buffer",
	"  S / T                    Export PNG / visual text",
	"  n / N                    New board here / in a new buffer",
	"  { / }                    Previous / next buffer",
	"  x                        Close buffer",
	"",
	"  ?                        Toggle this help screen",
	"  q/Ctrl+C                 Quit",
}

func (m model) View() string {
	if m.help && m.mode != ModeStartup {
		return m.helpView()
	}
	w, h := m.canvasSize()

	var result strings.Builder
	if m.showBufferBar() {
		result.WriteString(m.renderBufferBar(w))
		result.WriteString("\n")
	}

	if m.mode == ModeFileInput {
		result.WriteString(m.fileInputView(w, h))
	} else if e := m.getEngine(); e != nil {
		result.WriteString(strings.Join(renderBoard(e, w, h), "\n"))
	}

	result.WriteString("\n")
	result.WriteString(m.statusLine(w))
	return result.String()
}

func (m *model) renderBufferBar(width int) string {
	var bar strings.Builder
	bar.WriteString("Open boards: ")
	for i, buf := range m.buffers {
		if i > 0 {
			bar.WriteString(" | ")
		}
		name := buf.filename
		if name == "" {
			name = fmt.Sprintf("Buffer %d", i+1)
		}
		if buf.dirty {
			name += "*"
		}
		if i == m.currentBufferIndex {
			bar.WriteString(activeStyle.Render(name))
		} else {
			bar.WriteString(name)
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(bar.String())
}

func (m *model) fileInputView(width, height int) string {
	var out []string
	opening := m.fileOp == FileOpOpen || m.fileOp == FileOpOpenNewBuffer
	if opening {
		out = append(out, titleStyle.Render("Select a saved board:"), strings.Repeat("─", width))
		if len(m.fileList) == 0 {
			out = append(out, "(No saved boards)")
		}
		maxFiles := height - 4
		if maxFiles < 1 {
			maxFiles = 1
		}
		start := 0
		if m.selectedFileIndex >= maxFiles {
			start = m.selectedFileIndex - maxFiles + 1
		}
		for i := start; i < len(m.fileList) && i < start+maxFiles; i++ {
			if i == m.selectedFileIndex {
				out = append(out, "> "+m.fileList[i]+" <")
			} else {
				out = append(out, "  "+m.fileList[i])
			}
		}
		out = append(out, strings.Repeat("─", width))
	}
	for len(out) < height-1 {
		out = append(out, "")
	}
	prompt := "Filename: "
	switch m.fileOp {
	case FileOpSavePNG:
		prompt = "Export PNG as: "
	case FileOpSaveVisualTXT:
		prompt = "Export text as: "
	}
	out = append(out, prompt+m.filename+"█")
	return strings.Join(out, "\n")
}

func (m *model) statusLine(width int) string {
	var msg string
	switch m.mode {
	case ModeStartup:
		msg = "Press 'n' for a new board, 'o' to open one, or 'q' to quit"
	case ModeFileInput:
		msg = "Enter to confirm, Esc to cancel"
	case ModeConfirm:
		msg = m.confirmMessage()
	default:
		msg = m.engineStatus()
	}
	line := statusStyle.Width(width).MaxWidth(width).Render(msg) + "\n"
	switch {
	case m.errorMessage != "":
		line += errorStyle.MaxWidth(width).Render(m.errorMessage)
	case m.successMessage != "" && m.mode == ModeNormal:
		line += successStyle.MaxWidth(width).Render(m.successMessage)
	}
	return line
}

func (m *model) engineStatus() string {
	buf := m.getCurrentBuffer()
	if buf == nil {
		return ""
	}
	e := buf.engine
	stats := e.HistoryStats()
	snap := "off"
	if e.Options().SnapToGrid {
		snap = "on"
	}
	name := buf.filename
	if name == "" {
		name = "untitled"
	}
	if buf.dirty {
		name += "*"
	}
	return fmt.Sprintf(" %s | %s | zoom %d%% | history %d/%d | snap %s | %d selected | %s | ? help",
		e.Mode(), e.Tool(), int(e.Viewport().Scale*100+0.5), stats.Index, stats.Length-1,
		snap, len(e.Selection()), name)
}

func (m *model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmQuit:
		return "Quit Whiteboard? (y/n)"
	case ConfirmNewChart:
		return "Create a new board? Unsaved changes will be lost. (y/n)"
	case ConfirmCloseBuffer:
		return "Close current buffer? Unsaved changes will be lost. (y/n)"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("Board %s already exists. Overwrite? (y/n)", m.filename)
	}
	return ""
}

func (m model) helpView() string {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	start := m.helpScroll
	if start > len(helpLines)-visibleHeight {
		start = len(helpLines) - visibleHeight
	}
	if start < 0 {
		start = 0
	}
	end := start + visibleHeight
	if end > len(helpLines) {
		end = len(helpLines)
	}
	status := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, any other key to close",
		start+1, end, len(helpLines))
	return strings.Join(helpLines[start:end], "\n") + "\n" + statusStyle.Render(status)
}
