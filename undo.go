package main

import (
	"errors"

	"whiteboard/diagram"
)

func (m *model) undo() {
	e := m.getEngine()
	if e == nil {
		return
	}
	out, err := e.Undo()
	switch {
	case errors.Is(err, diagram.ErrHistoryTruncated):
		m.errorMessage = "Nothing more to undo (older steps were dropped)"
	case errors.Is(err, diagram.ErrHistoryUnderflow):
		m.errorMessage = "Nothing to undo"
	case err != nil:
		m.errorMessage = err.Error()
	default:
		m.getCurrentBuffer().dirty = true
		m.successMessage = out.Label
	}
}

func (m *model) redo() {
	e := m.getEngine()
	if e == nil {
		return
	}
	out, err := e.Redo()
	switch {
	case errors.Is(err, diagram.ErrHistoryOverflow):
		m.errorMessage = "Nothing to redo"
	case err != nil:
		m.errorMessage = err.Error()
	default:
		m.getCurrentBuffer().dirty = true
		m.successMessage = out.Label
	}
}
