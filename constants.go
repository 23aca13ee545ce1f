package main

import "time"

type Mode int

const (
	ModeStartup Mode = iota
	ModeNormal
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpSavePNG
	FileOpSaveVisualTXT
	FileOpOpen
	FileOpOpenNewBuffer
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmNewChart
	ConfirmCloseBuffer
	ConfirmOverwriteFile
)

// Pixel size of one terminal cell in screen space.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const (
	frameInterval = time.Second / 30
	zoomStep      = 1.25
	panCells      = 4
	storeTimeout  = 10 * time.Second
	fitPadding    = 2 * cellWidth
)
