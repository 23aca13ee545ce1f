package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"whiteboard/diagram"
	"whiteboard/geometry"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// copySelection keeps the selected shapes for pasting and puts them on the
// system clipboard as JSON, so another window can paste them too.
func (m *model) copySelection() {
	e := m.getEngine()
	snap := e.CopySelection()
	if snap.Empty() {
		m.errorMessage = "Nothing selected"
		return
	}
	m.clipboard = &snap
	m.successMessage = "Copied"
	data, err := diagram.MarshalSnapshot(snap)
	if err != nil {
		m.logger.Warn("encode clipboard", zap.Error(err))
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		m.logger.Debug("system clipboard unavailable", zap.Error(err))
	}
}

// paste inserts, in order of preference, shapes from the system clipboard,
// plain clipboard text as a sticky note, or the last shapes copied here.
func (m *model) paste() {
	e := m.getEngine()
	snap, ok := m.clipboardSnapshot()
	if !ok {
		m.errorMessage = "Clipboard is empty"
		return
	}
	w, h := m.canvasSize()
	at := e.Viewport().ScreenToWorld(geometry.Point{X: float64(w) * cellWidth / 4, Y: float64(h) * cellHeight / 4})
	_, out, err := e.Paste(snap, at)
	m.afterEngine(out, err)
}

func (m *model) clipboardSnapshot() (diagram.Snapshot, bool) {
	text, err := readClipboardText()
	if err != nil {
		m.logger.Debug("system clipboard unavailable", zap.Error(err))
	}
	if text != "" {
		if snap, err := diagram.UnmarshalSnapshot([]byte(text)); err == nil && !snap.Empty() {
			return snap, true
		}
		if note := cleanClipboardText(text); strings.TrimSpace(note) != "" {
			return stickyFromText(note), true
		}
	}
	if m.clipboard != nil {
		return *m.clipboard, true
	}
	return diagram.Snapshot{}, false
}

// stickyFromText sizes a sticky note to fit text in terminal cells.
func stickyFromText(text string) diagram.Snapshot {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	cols := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > cols {
			cols = n
		}
	}
	return diagram.Snapshot{Nodes: []diagram.Node{{
		ID:     "clipboard",
		Type:   diagram.ShapeSticky,
		Width:  float64(cols+4) * cellWidth,
		Height: float64(len(lines)+2) * cellHeight,
		Text:   strings.Join(lines, "\n"),
	}}}
}

// cleanClipboardText reduces rich clipboard content to plain text with
// unix newlines.
func cleanClipboardText(text string) string {
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r >= 32 {
			return r
		}
		return -1
	}, text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div"))
}

// extractTextFromRTF drops groups, control words and control symbols, keeping
// \par and \line as newlines and \tab as a tab.
func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	runes := []rune(rtf)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '{' || r == '}':
		case r == '\\' && i+1 < len(runes):
			next := runes[i+1]
			if next == '\'' {
				i += 3
				continue
			}
			if !isLetter(next) {
				if next == '\\' || next == '{' || next == '}' {
					out.WriteRune(next)
				}
				i++
				continue
			}
			j := i + 1
			for j < len(runes) && isLetter(runes[j]) {
				j++
			}
			word := string(runes[i+1 : j])
			for j < len(runes) && (runes[j] == '-' || (runes[j] >= '0' && runes[j] <= '9')) {
				j++
			}
			if j < len(runes) && runes[j] == ' ' {
				j++
			}
			switch word {
			case "par", "line":
				out.WriteByte('\n')
			case "tab":
				out.WriteByte('\t')
			}
			i = j - 1
		case r == '\n' || r == '\r':
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

var htmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
	"&amp;", "&",
)

func extractTextFromHTML(html string) string {
	var out strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			out.WriteRune(r)
		}
	}
	return htmlEntities.Replace(out.String())
}
