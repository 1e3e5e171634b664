package efd

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultSizeTolerance is the smallest first-harmonic eigenvalue considered
// scalable during size normalization.
const DefaultSizeTolerance = 1e-9

// SemiMajorAxis returns the semi-major axis length of the first-harmonic
// ellipse: the square root of the larger eigenvalue of the coefficient
// matrix product MᵀM, where M = [a1 b1; c1 d1].
func SemiMajorAxis(c Coefficients, tolerance float64) (float64, error) {
	if tolerance <= 0 {
		tolerance = DefaultSizeTolerance
	}
	a1, b1, c1, d1 := c.Harmonic(1)

	s1 := a1*a1 + b1*b1 + c1*c1 + d1*d1
	diag := a1*a1 + c1*c1 - b1*b1 - d1*d1
	off := 2 * (a1*b1 + c1*d1)
	lambda1 := (s1 + math.Hypot(diag, off)) / 2

	if lambda1 < tolerance {
		return 0, fmt.Errorf("%w: first-harmonic eigenvalue %g below tolerance %g",
			ErrDegenerateFirstHarmonic, lambda1, tolerance)
	}
	return math.Sqrt(lambda1), nil
}

// NormalizeSize divides every coefficient by the semi-major axis of the
// first-harmonic ellipse, removing overall size from the descriptor.
func NormalizeSize(c Coefficients, tolerance float64) (Coefficients, error) {
	axis, err := SemiMajorAxis(c, tolerance)
	if err != nil {
		return Coefficients{}, err
	}

	out := c.Clone()
	floats.Scale(1/axis, out.A)
	floats.Scale(1/axis, out.B)
	floats.Scale(1/axis, out.C)
	floats.Scale(1/axis, out.D)
	return out, nil
}

// NormalizeRotation aligns the principal axis of the first-harmonic ellipse
// with the x axis. The rotation angle comes from the first harmonic only but
// the same rotation is applied to every harmonic's (a,c) and (b,d) pairs.
// Returns the rotated coefficients and the angle in radians.
func NormalizeRotation(c Coefficients) (Coefficients, float64) {
	a1, b1, c1, d1 := c.Harmonic(1)

	xx := a1*a1 + b1*b1
	yy := c1*c1 + d1*d1
	xy := a1*c1 + b1*d1
	phi := 0.5 * math.Atan2(2*xy, xx-yy)

	cos := math.Cos(phi)
	sin := math.Sin(phi)

	out := NewCoefficients(c.Harmonics())
	for i := range c.A {
		out.A[i] = cos*c.A[i] + sin*c.C[i]
		out.C[i] = -sin*c.A[i] + cos*c.C[i]
		out.B[i] = cos*c.B[i] + sin*c.D[i]
		out.D[i] = -sin*c.B[i] + cos*c.D[i]
	}
	return out, phi
}

// NormalizePhase removes the arbitrary starting point of the parametrization.
// The fundamental's phase phi1 = atan2(b1, a1) is computed once; harmonic n
// is then rotated by -n*phi1. The factor n is essential: a start-point shift
// advances harmonic n's phase n times as fast as the fundamental's.
// Returns the corrected coefficients and phi1 in radians.
func NormalizePhase(c Coefficients) (Coefficients, float64) {
	a1, b1, _, _ := c.Harmonic(1)
	phi1 := math.Atan2(b1, a1)

	out := NewCoefficients(c.Harmonics())
	for i := range c.A {
		theta := float64(i+1) * phi1
		cos := math.Cos(theta)
		sin := math.Sin(theta)

		out.A[i] = cos*c.A[i] + sin*c.B[i]
		out.B[i] = -sin*c.A[i] + cos*c.B[i]
		out.C[i] = cos*c.C[i] + sin*c.D[i]
		out.D[i] = -sin*c.C[i] + cos*c.D[i]
	}
	return out, phi1
}

// Normalize applies the three canonical transforms in their fixed order:
// size, then rotation, then phase. The order is load-bearing; reordering
// produces different descriptors. After normalization a1 is close to 1 and
// b1, c1 close to 0 for any non-degenerate shape.
func Normalize(c Coefficients, tolerance float64) (Coefficients, error) {
	scaled, err := NormalizeSize(c, tolerance)
	if err != nil {
		return Coefficients{}, err
	}
	rotated, _ := NormalizeRotation(scaled)
	phased, _ := NormalizePhase(rotated)
	return phased, nil
}
