package efd

import (
	"fmt"
	"math"

	"wing-morph/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

// Estimate fits an elliptic Fourier series of the given harmonic order to a
// closed curve, using cumulative chord length as the curve parameter. The
// returned coefficients are raw: size, rotation, and starting point are
// whatever the input curve had. Normalization is a separate step.
func Estimate(curve geometry.ClosedCurve, harmonics int) (Coefficients, error) {
	if harmonics < 1 {
		return Coefficients{}, fmt.Errorf("harmonic order must be positive, got %d", harmonics)
	}

	pts := curve.Dedup()
	if len(pts) < harmonics+1 {
		return Coefficients{}, fmt.Errorf("%w: %d distinct points for %d harmonics",
			ErrDegenerateCurve, len(pts), harmonics)
	}

	// Segment i runs from point i to point i+1, wrapping at the end.
	n := len(pts)
	dx := make([]float64, n)
	dy := make([]float64, n)
	dt := make([]float64, n)
	for i := 0; i < n; i++ {
		next := pts[(i+1)%n]
		dx[i] = next.X - pts[i].X
		dy[i] = next.Y - pts[i].Y
		dt[i] = math.Hypot(dx[i], dy[i])
	}

	// Cumulative chord length; t[i] is the parameter at the end of segment i.
	t := floats.CumSum(make([]float64, n), dt)
	total := t[n-1]
	if total <= 0 {
		return Coefficients{}, fmt.Errorf("%w: zero arc length", ErrDegenerateCurve)
	}

	coeffs := NewCoefficients(harmonics)
	for h := 1; h <= harmonics; h++ {
		omega := 2 * math.Pi * float64(h) / total
		scale := total / (2 * float64(h) * float64(h) * math.Pi * math.Pi)

		var a, b, c, d float64
		tPrev := 0.0
		for i := 0; i < n; i++ {
			// Dedup guarantees dt[i] > 0.
			cosDiff := math.Cos(omega*t[i]) - math.Cos(omega*tPrev)
			sinDiff := math.Sin(omega*t[i]) - math.Sin(omega*tPrev)
			a += dx[i] / dt[i] * cosDiff
			b += dx[i] / dt[i] * sinDiff
			c += dy[i] / dt[i] * cosDiff
			d += dy[i] / dt[i] * sinDiff
			tPrev = t[i]
		}

		coeffs.A[h-1] = scale * a
		coeffs.B[h-1] = scale * b
		coeffs.C[h-1] = scale * c
		coeffs.D[h-1] = scale * d
	}

	return coeffs, nil
}
