package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"whiteboard/diagram"
	"whiteboard/editor"
	"whiteboard/store"
)

const welcomeText = "Welcome to Whiteboard!\n\n'n' New board\n'o' Open a saved board\n'q' Quit"

func main() {
	config, err := loadConfig(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "whiteboard: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(config.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whiteboard: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	backend, err := store.Open(config.StoreTarget(), logger)
	if err != nil {
		logger.Error("open store", zap.Error(err))
		fmt.Fprintf(os.Stderr, "whiteboard: %v\n", err)
		os.Exit(1)
	}
	boards := store.NewGuarded(backend, store.DefaultBreakerConfig("boards"), logger)
	defer boards.Close()

	m, err := initialModel(config, boards, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whiteboard: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	watcher, err := watchConfig(config.Path, logger, func(c *Config, err error) {
		p.Send(configReloadedMsg{config: c, err: err})
	})
	if err != nil {
		logger.Warn("config hot reload disabled", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "whiteboard: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to path, or nowhere when path is empty. The terminal belongs
// to the UI.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return logger, nil
}

func initialModel(config *Config, st store.Store, logger *zap.Logger) (model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := model{
		mode:              ModeNormal,
		selectedFileIndex: -1,
		config:            config,
		store:             st,
		logger:            logger,
	}
	if err := m.addNewBuffer(""); err != nil {
		return m, err
	}
	if config.StartMenu {
		m.mode = ModeStartup
		m.showWelcome()
	}
	return m, nil
}

func (m *model) showWelcome() {
	e := m.getEngine()
	e.ApplyRemote(func(d *diagram.Document) error {
		_, err := d.AddNode(diagram.NodeSpec{
			Type:   diagram.ShapeSticky,
			X:      cellWidth,
			Y:      cellHeight,
			Width:  32 * cellWidth,
			Height: 9 * cellHeight,
			Text:   welcomeText,
		})
		return err
	})
}

func (m *model) newEngine(project string) (*editor.Engine, error) {
	return editor.NewEngine(project, m.config.EngineOptions(), m.logger)
}

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return &m.buffers[m.currentBufferIndex]
}

func (m *model) getEngine() *editor.Engine {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.engine
	}
	return nil
}

func (m *model) addNewBuffer(filename string) error {
	e, err := m.newEngine(filename)
	if err != nil {
		return err
	}
	m.buffers = append(m.buffers, Buffer{engine: e, filename: filename})
	m.currentBufferIndex = len(m.buffers) - 1
	return nil
}

// resetBuffer replaces the current buffer's board with an empty one.
func (m *model) resetBuffer() error {
	e, err := m.newEngine("")
	if err != nil {
		return err
	}
	m.buffers[m.currentBufferIndex] = Buffer{engine: e}
	return nil
}

func (m *model) closeBuffer() {
	if len(m.buffers) <= 1 {
		m.resetBuffer()
		return
	}
	m.buffers = append(m.buffers[:m.currentBufferIndex], m.buffers[m.currentBufferIndex+1:]...)
	if m.currentBufferIndex > 0 {
		m.currentBufferIndex--
	}
}

func (m *model) switchBuffer(delta int) {
	if len(m.buffers) <= 1 {
		return
	}
	m.flushMoves()
	n := len(m.buffers)
	m.currentBufferIndex = ((m.currentBufferIndex+delta)%n + n) % n
}

func (m *model) bufferFor(e *editor.Engine) *Buffer {
	for i := range m.buffers {
		if m.buffers[i].engine == e {
			return &m.buffers[i]
		}
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.ticking = false
		m.flushMoves()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Error saving %s: %v", msg.project, msg.err)
			return m, nil
		}
		if buf := m.bufferFor(msg.buffer); buf != nil {
			buf.filename = msg.project
			buf.dirty = false
		}
		m.successMessage = fmt.Sprintf("Saved %s", msg.project)
		return m, nil

	case loadedMsg:
		return m.handleLoaded(msg)

	case projectsMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Error listing boards: %v", msg.err)
			return m, nil
		}
		m.fileList = msg.names
		if m.fileOp == FileOpOpen || m.fileOp == FileOpOpenNewBuffer {
			m.selectedFileIndex = -1
			if len(m.fileList) > 0 {
				m.selectedFileIndex = 0
				m.filename = m.fileList[0]
			}
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Error exporting: %v", msg.err)
		} else {
			m.successMessage = fmt.Sprintf("Exported %s", msg.path)
		}
		return m, nil

	case configReloadedMsg:
		return m.handleConfigReload(msg)
	}
	return m, nil
}

func (m model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorMessage = fmt.Sprintf("Error loading %s: %v", msg.project, msg.err)
		return m, nil
	}
	e, err := m.newEngine(msg.project)
	if err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	if err := e.Load(msg.snapshot); err != nil {
		m.errorMessage = fmt.Sprintf("Error loading %s: %v", msg.project, err)
		return m, nil
	}
	buf := Buffer{engine: e, filename: msg.project}
	if msg.newBuffer {
		m.buffers = append(m.buffers, buf)
		m.currentBufferIndex = len(m.buffers) - 1
	} else {
		m.buffers[m.currentBufferIndex] = buf
	}
	m.mode = ModeNormal
	m.successMessage = fmt.Sprintf("Opened %s", msg.project)
	return m, nil
}

func (m model) handleConfigReload(msg configReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorMessage = fmt.Sprintf("Config not reloaded: %v", msg.err)
		return m, nil
	}
	for i := range m.buffers {
		buf := &m.buffers[i]
		opts := msg.config.EngineOptions()
		if buf.snapToggled {
			opts.SnapToGrid = buf.engine.Options().SnapToGrid
		}
		if err := buf.engine.SetOptions(opts); err != nil {
			m.errorMessage = fmt.Sprintf("Config not applied: %v", err)
			return m, nil
		}
	}
	m.config = msg.config
	m.successMessage = "Config reloaded"
	return m, nil
}
