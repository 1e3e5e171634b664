package efd

import (
	"math"

	"wing-morph/pkg/geometry"
)

// Reconstruct samples the truncated Fourier series at n evenly spaced
// parameter values and returns the resulting closed curve, centered at the
// origin. Useful for checking how much shape a given harmonic order retains
// and for validating normalization in tests.
func Reconstruct(c Coefficients, n int) geometry.ClosedCurve {
	if n <= 0 {
		return nil
	}

	curve := make(geometry.ClosedCurve, n)
	for j := 0; j < n; j++ {
		t := float64(j) * 2 * math.Pi / float64(n)
		var x, y float64
		for h := 1; h <= c.Harmonics(); h++ {
			cos := math.Cos(float64(h) * t)
			sin := math.Sin(float64(h) * t)
			x += c.A[h-1]*cos + c.B[h-1]*sin
			y += c.C[h-1]*cos + c.D[h-1]*sin
		}
		curve[j] = geometry.Point2D{X: x, Y: y}
	}
	return curve
}
