package main

import (
	"time"

	"go.uber.org/zap"

	"whiteboard/diagram"
	"whiteboard/editor"
	"whiteboard/store"
)

// Buffer is one open board.
type Buffer struct {
	engine   *editor.Engine
	moves    editor.MoveCoalescer
	filename string
	dirty    bool
	// snapToggled marks a snap setting chosen with the g key, kept across
	// config reloads.
	snapToggled bool
}

type model struct {
	width              int
	height             int
	buffers            []Buffer
	currentBufferIndex int
	mode               Mode
	help               bool
	helpScroll         int
	filename           string
	fileList           []string
	selectedFileIndex  int
	fileOp             FileOperation
	confirmAction      ConfirmAction
	createNewBuffer    bool
	fromStartup        bool
	errorMessage       string
	successMessage     string
	clipboard          *diagram.Snapshot
	config             *Config
	store              store.Store
	logger             *zap.Logger
	ticking            bool
	lastClickAt        time.Time
	lastClickX         int
	lastClickY         int
}

type tickMsg struct{}

type savedMsg struct {
	project string
	buffer  *editor.Engine
	err     error
}

type loadedMsg struct {
	project   string
	snapshot  diagram.Snapshot
	newBuffer bool
	err       error
}

type projectsMsg struct {
	names []string
	err   error
}

type exportedMsg struct {
	path string
	err  error
}

type configReloadedMsg struct {
	config *Config
	err    error
}
