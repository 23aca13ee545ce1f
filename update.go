package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"whiteboard/editor"
)

var toolKeys = map[string]editor.Tool{
	"v": editor.ToolSelect,
	"h": editor.ToolHand,
	"c": editor.ToolConnect,
	"e": editor.ToolEraser,
	"r": editor.ToolRectangle,
	"d": editor.ToolDiamond,
	"o": editor.ToolEllipse,
	"t": editor.ToolText,
	"s": editor.ToolSticky,
	"i": editor.ToolImage,
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help && m.mode != ModeStartup {
		return m.handleHelpKey(msg)
	}
	switch m.mode {
	case ModeStartup:
		return m.handleStartupKey(msg)
	case ModeFileInput:
		return m.handleFileInputKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		maxScroll := len(helpLines) - (m.height - 1)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m model) handleStartupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		if err := m.resetBuffer(); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.mode = ModeNormal
		m.errorMessage = ""
	case "o":
		m.fromStartup = true
		cmd := m.startFileInput(FileOpOpen)
		return m, cmd
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.getEngine()
	if e == nil {
		return m, nil
	}
	m.flushMoves()

	// Text editing and gestures own the keyboard until they end.
	if _, _, editing := e.EditingText(); editing || e.Mode() != editor.ModeIdle {
		if msg.Type == tea.KeyCtrlC {
			return m.confirm(ConfirmQuit)
		}
		if ev, ok := translateKey(msg); ok {
			out, err := e.HandleKey(ev)
			m.afterEngine(out, err)
		}
		return m, nil
	}

	m.errorMessage = ""
	key := msg.String()
	if tool, ok := toolKeys[key]; ok {
		if err := e.SetTool(tool); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = "Tool: " + tool.String()
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m.confirm(ConfirmQuit)
	case "?":
		m.help = true
		m.helpScroll = 0
	case "u":
		m.undo()
	case "U":
		m.redo()
	case "+", "=":
		m.zoomCenter(zoomStep)
	case "-", "_":
		m.zoomCenter(1 / zoomStep)
	case "0":
		e.ResetView()
	case "f":
		w, h := m.canvasSize()
		if !e.FitView(float64(w)*cellWidth, float64(h)*cellHeight, fitPadding) {
			m.successMessage = "Nothing to fit"
		}
	case "g":
		m.toggleSnap()
	case "y":
		m.copySelection()
	case "p":
		m.paste()
	case "ctrl+s":
		return m.save()
	case "S":
		cmd := m.startFileInput(FileOpSavePNG)
		return m, cmd
	case "T":
		cmd := m.startFileInput(FileOpSaveVisualTXT)
		return m, cmd
	case "ctrl+o":
		cmd := m.startFileInput(FileOpOpen)
		return m, cmd
	case "O":
		cmd := m.startFileInput(FileOpOpenNewBuffer)
		return m, cmd
	case "n":
		m.createNewBuffer = false
		return m.confirm(ConfirmNewChart)
	case "N":
		m.createNewBuffer = true
		return m.confirm(ConfirmNewChart)
	case "x":
		return m.confirm(ConfirmCloseBuffer)
	case "{":
		m.switchBuffer(-1)
	case "}":
		m.switchBuffer(1)
	case "up", "down", "left", "right", "shift+up", "shift+down", "shift+left", "shift+right":
		if len(e.Selection()) == 0 {
			m.handlePan(key, m.getMoveSpeed(key))
			return m, nil
		}
		fallthrough
	default:
		if ev, ok := translateKey(msg); ok {
			out, err := e.HandleKey(ev)
			m.afterEngine(out, err)
		}
	}
	return m, nil
}

// confirm asks before a destructive action, unless confirmations are off.
func (m model) confirm(action ConfirmAction) (tea.Model, tea.Cmd) {
	needed := m.config.Confirmations
	if action == ConfirmCloseBuffer || action == ConfirmNewChart {
		needed = needed && m.getCurrentBuffer().dirty
	}
	if !needed {
		return m.runConfirmed(action)
	}
	m.mode = ModeConfirm
	m.confirmAction = action
	return m, nil
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		return m.runConfirmed(m.confirmAction)
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.createNewBuffer = false
		if m.confirmAction == ConfirmOverwriteFile {
			m.filename = ""
		}
	}
	return m, nil
}

func (m model) runConfirmed(action ConfirmAction) (tea.Model, tea.Cmd) {
	var err error
	switch action {
	case ConfirmQuit:
		return m, tea.Quit
	case ConfirmNewChart:
		if m.createNewBuffer {
			err = m.addNewBuffer("")
		} else {
			err = m.resetBuffer()
		}
		m.createNewBuffer = false
	case ConfirmCloseBuffer:
		m.closeBuffer()
	case ConfirmOverwriteFile:
		name := m.filename
		m.filename = ""
		return m, m.saveCmd(name)
	}
	if err != nil {
		m.errorMessage = err.Error()
	}
	return m, nil
}

func (m *model) startFileInput(op FileOperation) tea.Cmd {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = ""
	m.fileList = nil
	m.selectedFileIndex = -1
	m.errorMessage = ""
	if buf := m.getCurrentBuffer(); buf != nil && (op == FileOpSave || op == FileOpSavePNG || op == FileOpSaveVisualTXT) {
		m.filename = buf.filename
	}
	return m.listCmd()
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opening := m.fileOp == FileOpOpen || m.fileOp == FileOpOpenNewBuffer
	switch msg.Type {
	case tea.KeyEsc:
		if m.fromStartup {
			m.mode = ModeStartup
			m.fromStartup = false
		} else {
			m.mode = ModeNormal
		}
		m.filename = ""
		m.errorMessage = ""
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		if opening && len(m.fileList) > 0 {
			step := 1
			if msg.Type == tea.KeyUp {
				step = -1
			}
			n := len(m.fileList)
			m.selectedFileIndex = ((m.selectedFileIndex+step)%n + n) % n
			m.filename = m.fileList[m.selectedFileIndex]
		}
		return m, nil
	case tea.KeyBackspace:
		if len(m.filename) > 0 {
			r := []rune(m.filename)
			m.filename = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		m.filename += string(msg.Runes)
		return m, nil
	case tea.KeyEnter:
		return m.submitFileInput()
	}
	return m, nil
}

func (m model) submitFileInput() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.filename)
	if name == "" {
		m.errorMessage = "Please enter a filename"
		return m, nil
	}
	m.fromStartup = false
	m.mode = ModeNormal
	switch m.fileOp {
	case FileOpOpen, FileOpOpenNewBuffer:
		m.filename = ""
		return m, m.loadCmd(name, m.fileOp == FileOpOpenNewBuffer)
	case FileOpSave:
		buf := m.getCurrentBuffer()
		if m.config.Confirmations && name != buf.filename && containsString(m.fileList, name) {
			m.filename = name
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwriteFile
			return m, nil
		}
		m.filename = ""
		return m, m.saveCmd(name)
	case FileOpSavePNG:
		m.filename = ""
		return m, m.exportPNGCmd(m.config.GetSavePath(withExt(name, ".png")))
	case FileOpSaveVisualTXT:
		m.filename = ""
		path := m.config.GetSavePath(withExt(name, ".txt"))
		if err := m.exportVisualTXT(path); err != nil {
			m.errorMessage = fmt.Sprintf("Error exporting: %v", err)
		} else {
			m.successMessage = fmt.Sprintf("Exported %s", path)
		}
	}
	return m, nil
}

// save writes the current board under its name, or asks for one.
func (m model) save() (tea.Model, tea.Cmd) {
	buf := m.getCurrentBuffer()
	if buf.filename == "" {
		cmd := m.startFileInput(FileOpSave)
		return m, cmd
	}
	return m, m.saveCmd(buf.filename)
}

func (m *model) saveCmd(project string) tea.Cmd {
	e := m.getEngine()
	snap := e.Snapshot()
	st, logger := m.store, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		err := st.Save(ctx, project, snap)
		if err != nil {
			logger.Error("save board", zap.String("project", project), zap.Error(err))
		}
		return savedMsg{project: project, buffer: e, err: err}
	}
}

func (m *model) loadCmd(project string, newBuffer bool) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		snap, err := st.Load(ctx, project)
		return loadedMsg{project: project, snapshot: snap, newBuffer: newBuffer, err: err}
	}
}

func (m *model) listCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		names, err := st.List(ctx)
		return projectsMsg{names: names, err: err}
	}
}

func (m *model) zoomCenter(factor float64) {
	w, h := m.canvasSize()
	m.getEngine().ZoomAt(float64(w)*cellWidth/2, float64(h)*cellHeight/2, factor)
}

func (m *model) toggleSnap() {
	e := m.getEngine()
	opts := e.Options()
	opts.SnapToGrid = !opts.SnapToGrid
	if err := e.SetOptions(opts); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.getCurrentBuffer().snapToggled = true
	if opts.SnapToGrid {
		m.successMessage = "Snap to grid on"
	} else {
		m.successMessage = "Snap to grid off"
	}
}

// canvasSize is the board area in cells, below the buffer bar and above
// the two status rows.
func (m *model) canvasSize() (int, int) {
	w := m.width
	if w < 1 {
		w = 80
	}
	h := m.height - 2 - m.canvasTop()
	if h < 1 {
		h = 1
	}
	return w, h
}

func withExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
