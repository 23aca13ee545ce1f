package main

// handlePan scrolls the board by speed steps of panCells cells.
func (m *model) handlePan(key string, speed int) {
	e := m.getEngine()
	if e == nil {
		return
	}
	dx := float64(speed*panCells) * cellWidth
	dy := float64(speed*panCells) * cellHeight / 2
	switch key {
	case "h", "left", "H", "shift+left":
		e.PanBy(dx, 0)
	case "l", "right", "L", "shift+right":
		e.PanBy(-dx, 0)
	case "k", "up", "K", "shift+up":
		e.PanBy(0, dy)
	case "j", "down", "J", "shift+down":
		e.PanBy(0, -dy)
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
