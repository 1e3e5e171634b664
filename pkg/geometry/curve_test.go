package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerimeter(t *testing.T) {
	circle := GenerateCirclePoints(0, 0, 10, 1000)
	assert.InDelta(t, 2*math.Pi*10, circle.Perimeter(), 0.01)

	square := ClosedCurve{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	assert.InDelta(t, 4, square.Perimeter(), 1e-12)

	assert.Zero(t, ClosedCurve{{1, 1}}.Perimeter())
}

func TestArea(t *testing.T) {
	square := ClosedCurve{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	assert.InDelta(t, 4, square.Area(), 1e-12)

	// Winding direction does not change the magnitude.
	reversed := ClosedCurve{{0, 2}, {2, 2}, {2, 0}, {0, 0}}
	assert.InDelta(t, 4, reversed.Area(), 1e-12)

	circle := GenerateCirclePoints(5, 5, 3, 1000)
	assert.InDelta(t, math.Pi*9, circle.Area(), 0.01)

	assert.Zero(t, ClosedCurve{{0, 0}, {1, 1}}.Area())
}

func TestShiftStart(t *testing.T) {
	curve := ClosedCurve{{0, 0}, {1, 0}, {2, 0}, {3, 0}}

	shifted := curve.ShiftStart(1)
	require.Equal(t, ClosedCurve{{1, 0}, {2, 0}, {3, 0}, {0, 0}}, shifted)

	assert.Equal(t, curve, curve.ShiftStart(0))
	assert.Equal(t, curve, curve.ShiftStart(4))
	assert.Equal(t, curve.ShiftStart(3), curve.ShiftStart(-1))
}

func TestDedup(t *testing.T) {
	curve := ClosedCurve{{0, 0}, {0, 0}, {1, 0}, {1, 0}, {1, 1}, {0, 0}}
	assert.Equal(t, ClosedCurve{{0, 0}, {1, 0}, {1, 1}}, curve.Dedup())

	assert.Nil(t, ClosedCurve(nil).Dedup())
	assert.Equal(t, ClosedCurve{{2, 3}}, ClosedCurve{{2, 3}, {2, 3}}.Dedup())
}

func TestTransform(t *testing.T) {
	curve := ClosedCurve{{1, 0}, {0, 1}}

	rotated := curve.Transform(Rotation(math.Pi / 2))
	assert.InDelta(t, 0, rotated[0].X, 1e-12)
	assert.InDelta(t, 1, rotated[0].Y, 1e-12)

	scaled := curve.Transform(Scaling(3))
	assert.InDelta(t, 3, scaled[0].X, 1e-12)

	moved := curve.Transform(Translation(5, -2))
	assert.InDelta(t, 6, moved[0].X, 1e-12)
	assert.InDelta(t, -2, moved[0].Y, 1e-12)
}

func TestGenerateEllipsePoints(t *testing.T) {
	ellipse := GenerateEllipsePoints(10, 20, 4, 2, 0, 360)
	require.Len(t, ellipse, 360)

	center := ellipse.Centroid()
	assert.InDelta(t, 10, center.X, 1e-9)
	assert.InDelta(t, 20, center.Y, 1e-9)

	bounds := ellipse.Bounds()
	assert.InDelta(t, 8, bounds.Width, 1e-3)
	assert.InDelta(t, 4, bounds.Height, 1e-3)

	// Rotating by pi/2 swaps the axes.
	rotated := GenerateEllipsePoints(0, 0, 4, 2, math.Pi/2, 360)
	rb := rotated.Bounds()
	assert.InDelta(t, 4, rb.Width, 1e-3)
	assert.InDelta(t, 8, rb.Height, 1e-3)
}
