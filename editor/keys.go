package editor

import (
	"unicode"

	"whiteboard/diagram"
)

// HandleKey feeds one key press to the state machine.
func (e *Engine) HandleKey(ev KeyEvent) (Outcome, error) {
	if e.mode == ModeEditingText {
		return e.textKey(ev), nil
	}
	if ev.Key == KeyEscape {
		return e.cancel()
	}
	if e.mode != ModeIdle {
		return e.idle(), nil
	}

	ctrl := ev.Mods.Has(ModCtrl) || ev.Mods.Has(ModMeta)
	switch ev.Key {
	case KeyDelete, KeyBackspace:
		return e.DeleteSelection()
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		steps := 1
		if ev.Mods.Has(ModShift) {
			steps = 5
		}
		switch ev.Key {
		case KeyUp:
			return e.Nudge(0, -steps)
		case KeyDown:
			return e.Nudge(0, steps)
		case KeyLeft:
			return e.Nudge(-steps, 0)
		default:
			return e.Nudge(steps, 0)
		}
	case KeyEnter:
		if ids := e.sel.IDs(); len(ids) == 1 {
			e.beginText(ids[0])
		}
		return e.idle(), nil
	case KeyRune:
	default:
		return e.idle(), nil
	}

	r := unicode.ToLower(ev.Rune)
	switch {
	case ctrl && r == 'z' && ev.Mods.Has(ModShift), ctrl && r == 'y':
		return e.Redo()
	case ctrl && r == 'z':
		return e.Undo()
	case ctrl && r == 'a':
		e.SelectAll()
		return e.idle(), nil
	case ctrl && r == 'd':
		_, out, err := e.Duplicate()
		return out, err
	case ev.Rune == ']':
		return e.BringToFront()
	case ev.Rune == '[':
		return e.SendToBack()
	}
	return e.idle(), nil
}

// HandleWheel zooms around the pointer, or pans with Ctrl or Alt held.
func (e *Engine) HandleWheel(ev WheelEvent) Outcome {
	if ev.Mods.Has(ModCtrl) || ev.Mods.Has(ModAlt) {
		e.view.PanBy(-ev.DX, -ev.DY)
		return e.idle()
	}
	if ev.DY == 0 {
		return e.idle()
	}
	factor := 1.1
	if ev.DY > 0 {
		factor = 1 / factor
	}
	e.view.ZoomAt(ev.X, ev.Y, factor)
	return e.idle()
}

// BeginText starts editing the text of node id.
func (e *Engine) BeginText(id string) error {
	if e.busy() {
		return e.reject("begin_text", diagram.ErrBusy)
	}
	if !e.doc.HasNode(id) {
		return e.reject("begin_text", diagram.ErrNodeNotFound.WithDetail("id", id))
	}
	e.beginText(id)
	return nil
}

func (e *Engine) beginText(id string) {
	n, ok := e.doc.Node(id)
	if !ok {
		return
	}
	e.mode = ModeEditingText
	e.g = gesture{
		nodeID:     id,
		textBefore: n.Text,
		text:       []rune(n.Text),
		beforeSel:  e.sel.IDs(),
	}
}

// EditingText returns the node being edited and its current buffer.
func (e *Engine) EditingText() (string, string, bool) {
	if e.mode != ModeEditingText {
		return "", "", false
	}
	return e.g.nodeID, string(e.g.text), true
}

func (e *Engine) textKey(ev KeyEvent) Outcome {
	switch ev.Key {
	case KeyEscape:
		e.cancelText()
		return e.idle()
	case KeyEnter:
		if ev.Mods.Has(ModShift) {
			e.g.text = append(e.g.text, '\n')
			break
		}
		return e.finishText()
	case KeyBackspace:
		if len(e.g.text) > 0 {
			e.g.text = e.g.text[:len(e.g.text)-1]
		}
	case KeyTab:
		e.g.text = append(e.g.text, '\t')
	case KeyRune:
		if ev.Rune != 0 && (unicode.IsPrint(ev.Rune) || ev.Rune == ' ') {
			e.g.text = append(e.g.text, ev.Rune)
		}
	default:
		return e.idle()
	}
	e.doc.UpdateNode(e.g.nodeID, diagram.SetText(string(e.g.text)))
	return e.idle()
}

// finishText ends the edit and commits it if the text changed.
func (e *Engine) finishText() Outcome {
	id, before := e.g.nodeID, e.g.textBefore
	text := string(e.g.text)
	e.end()
	e.doc.UpdateNode(id, diagram.SetText(text))
	if text == before || !e.doc.HasNode(id) {
		return e.idle()
	}
	return e.commit("edit text")
}

func (e *Engine) cancelText() {
	id, before := e.g.nodeID, e.g.textBefore
	e.end()
	e.doc.UpdateNode(id, diagram.SetText(before))
}
