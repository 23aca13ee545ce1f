package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"whiteboard/geometry"
)

var minTen = ResizeConstraints{MinWidth: 10, MinHeight: 10}

func TestResizeSouthEast(t *testing.T) {
	r, clamped := Resize(geometry.Rect{W: 100, H: 50}, ResizeSE, 50, 20, minTen)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, W: 150, H: 70}, r)
	assert.False(t, clamped)
}

func TestResizeNorthWestKeepsOppositeCorner(t *testing.T) {
	r, _ := Resize(geometry.Rect{W: 100, H: 50}, ResizeNW, 10, 10, minTen)
	assert.Equal(t, geometry.Rect{X: 10, Y: 10, W: 90, H: 40}, r)
}

func TestResizeSideHandleChangesOneDimension(t *testing.T) {
	orig := geometry.Rect{X: 5, Y: 5, W: 100, H: 50}

	r, _ := Resize(orig, ResizeE, 30, 99, minTen)
	assert.Equal(t, geometry.Rect{X: 5, Y: 5, W: 130, H: 50}, r)

	r, _ = Resize(orig, ResizeN, 99, -20, minTen)
	assert.Equal(t, geometry.Rect{X: 5, Y: -15, W: 100, H: 70}, r)
}

func TestResizeClampsAtMinimum(t *testing.T) {
	orig := geometry.Rect{W: 100, H: 50}

	r, clamped := Resize(orig, ResizeNW, 200, 200, minTen)
	assert.True(t, clamped)
	assert.Equal(t, geometry.Rect{X: 90, Y: 40, W: 10, H: 10}, r)

	r, clamped = Resize(orig, ResizeSE, -500, 0, minTen)
	assert.True(t, clamped)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, W: 10, H: 50}, r)
}

func TestResizeKeepAspect(t *testing.T) {
	c := minTen
	c.KeepAspect = true

	r, _ := Resize(geometry.Rect{W: 100, H: 50}, ResizeSE, 100, 10, c)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, W: 200, H: 100}, r)

	r, _ = Resize(geometry.Rect{W: 100, H: 50}, ResizeNW, -100, 0, c)
	assert.Equal(t, geometry.Rect{X: -100, Y: -50, W: 200, H: 100}, r)
}

func TestResizeHandleAt(t *testing.T) {
	b := geometry.Rect{W: 100, H: 50}

	h, ok := ResizeHandleAt(b, geometry.Point{X: 101, Y: 49}, 4)
	assert.True(t, ok)
	assert.Equal(t, ResizeSE, h)

	h, ok = ResizeHandleAt(b, geometry.Point{X: 50, Y: 2}, 4)
	assert.True(t, ok)
	assert.Equal(t, ResizeN, h)

	_, ok = ResizeHandleAt(b, geometry.Point{X: 50, Y: 25}, 4)
	assert.False(t, ok)
}

func TestResizeHandleAtSmallNode(t *testing.T) {
	b := geometry.Rect{W: 16, H: 16}

	_, ok := ResizeHandleAt(b, geometry.Point{X: 8, Y: 8}, 8)
	assert.False(t, ok, "center of a small node is body")

	h, ok := ResizeHandleAt(b, geometry.Point{X: 17, Y: 17}, 8)
	assert.True(t, ok)
	assert.Equal(t, ResizeSE, h)
}
