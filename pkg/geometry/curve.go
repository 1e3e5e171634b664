package geometry

import (
	"math"
)

// ClosedCurve is an ordered sequence of boundary points. The curve is
// implicitly closed: the last point connects back to the first.
type ClosedCurve []Point2D

// Perimeter returns the total arc length of the closed curve, including
// the closing segment from the last point back to the first.
func (c ClosedCurve) Perimeter() float64 {
	if len(c) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(c); i++ {
		total += c[i].Distance(c[i-1])
	}
	total += c[0].Distance(c[len(c)-1])
	return total
}

// Centroid returns the average position of the curve's points.
func (c ClosedCurve) Centroid() Point2D {
	return Centroid(c)
}

// Area returns the enclosed area of the curve by the shoelace formula.
// The result is positive regardless of winding direction.
func (c ClosedCurve) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	var sum float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(sum) / 2
}

// Bounds returns the axis-aligned bounding box of the curve.
func (c ClosedCurve) Bounds() Rect {
	return BoundingBox(c)
}

// Transform returns a new curve with the transform applied to every point.
func (c ClosedCurve) Transform(t AffineTransform) ClosedCurve {
	out := make(ClosedCurve, len(c))
	for i, p := range c {
		out[i] = t.Apply(p)
	}
	return out
}

// ShiftStart returns the curve cyclically re-indexed so that point k becomes
// the new starting point. The traced shape is unchanged.
func (c ClosedCurve) ShiftStart(k int) ClosedCurve {
	n := len(c)
	if n == 0 {
		return nil
	}
	k = ((k % n) + n) % n
	out := make(ClosedCurve, 0, n)
	out = append(out, c[k:]...)
	out = append(out, c[:k]...)
	return out
}

// Dedup returns the curve with consecutive duplicate points removed,
// including a duplicate closing point equal to the start. Zero-length
// segments carry no arc length and break chord parametrization.
func (c ClosedCurve) Dedup() ClosedCurve {
	if len(c) == 0 {
		return nil
	}
	out := make(ClosedCurve, 0, len(c))
	out = append(out, c[0])
	for _, p := range c[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// GenerateCirclePoints generates n evenly-spaced points around a circle.
func GenerateCirclePoints(centerX, centerY, radius float64, n int) ClosedCurve {
	return GenerateEllipsePoints(centerX, centerY, radius, radius, 0, n)
}

// GenerateEllipsePoints generates n points around an ellipse with semi-axes
// a and b, rotated by theta radians about its center.
func GenerateEllipsePoints(centerX, centerY, a, b, theta float64, n int) ClosedCurve {
	cos := math.Cos(theta)
	sin := math.Sin(theta)
	points := make(ClosedCurve, n)
	for i := 0; i < n; i++ {
		t := float64(i) * 2.0 * math.Pi / float64(n)
		x := a * math.Cos(t)
		y := b * math.Sin(t)
		points[i] = Point2D{
			X: centerX + cos*x - sin*y,
			Y: centerY + sin*x + cos*y,
		}
	}
	return points
}
