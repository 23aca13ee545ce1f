package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersectsIsOverlapNotContainment(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	marquee := Rect{X: 5, Y: 5, W: 10, H: 10}

	assert.True(t, a.Intersects(marquee))
	assert.True(t, marquee.Intersects(a))

	touching := Rect{X: 10, Y: 0, W: 5, H: 5}
	assert.False(t, a.Intersects(touching), "shared edge has no area")

	far := Rect{X: 50, Y: 50, W: 5, H: 5}
	assert.False(t, a.Intersects(far))
}

func TestRectFromPointsNormalizes(t *testing.T) {
	r := RectFromPoints(Point{X: 10, Y: 20}, Point{X: 2, Y: 5})
	assert.Equal(t, Rect{X: 2, Y: 5, W: 8, H: 15}, r)
}

func TestUnion(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}.Union(Rect{X: 20, Y: -5, W: 5, H: 5})
	assert.Equal(t, Rect{X: 0, Y: -5, W: 25, H: 15}, r)
}

func TestDistanceToSegment(t *testing.T) {
	a, b := Point{X: 0, Y: 0}, Point{X: 10, Y: 0}

	assert.InDelta(t, 3.0, DistanceToSegment(Point{X: 5, Y: 3}, a, b), 1e-9)
	assert.InDelta(t, 5.0, DistanceToSegment(Point{X: 13, Y: 4}, a, b), 1e-9)
	assert.InDelta(t, 5.0, DistanceToSegment(Point{X: 3, Y: 4}, a, a), 1e-9)
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 20.0, Snap(14, 20))
	assert.Equal(t, 0.0, Snap(9, 20))
	assert.Equal(t, -20.0, Snap(-11, 20))
	assert.Equal(t, 7.5, Snap(7.5, 0))
}

func TestSnapRectKeepsMinimum(t *testing.T) {
	r := SnapRect(Rect{X: 31, Y: 9, W: 4, H: 52}, 20, 10, 10)
	assert.Equal(t, Rect{X: 40, Y: 0, W: 20, H: 60}, r)
}
