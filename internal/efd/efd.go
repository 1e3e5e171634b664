// Package efd implements elliptic Fourier descriptors: estimation of the
// harmonic coefficients of a closed curve and their normalization into a
// canonical shape signature invariant to size, rotation, and choice of
// starting point.
package efd

import (
	"errors"
)

// DefaultHarmonics is the harmonic order used when none is configured.
const DefaultHarmonics = 10

var (
	// ErrDegenerateCurve indicates the input curve cannot support the
	// requested harmonic order: too few distinct points or zero arc length.
	ErrDegenerateCurve = errors.New("degenerate curve")

	// ErrDegenerateFirstHarmonic indicates the first-harmonic ellipse has a
	// vanishing semi-major axis, so size normalization cannot proceed.
	ErrDegenerateFirstHarmonic = errors.New("degenerate first harmonic")
)

// Coefficients holds one elliptic Fourier expansion: four parallel series
// indexed by harmonic. A[0] is the first (fundamental) harmonic, which
// anchors every normalization step.
type Coefficients struct {
	A []float64
	B []float64
	C []float64
	D []float64
}

// NewCoefficients allocates zeroed coefficients of the given harmonic order.
func NewCoefficients(harmonics int) Coefficients {
	return Coefficients{
		A: make([]float64, harmonics),
		B: make([]float64, harmonics),
		C: make([]float64, harmonics),
		D: make([]float64, harmonics),
	}
}

// Harmonics returns the harmonic order of the expansion.
func (c Coefficients) Harmonics() int {
	return len(c.A)
}

// Clone returns a deep copy.
func (c Coefficients) Clone() Coefficients {
	out := NewCoefficients(c.Harmonics())
	copy(out.A, c.A)
	copy(out.B, c.B)
	copy(out.C, c.C)
	copy(out.D, c.D)
	return out
}

// Harmonic returns the four coefficients of harmonic n (1-based).
func (c Coefficients) Harmonic(n int) (a, b, cc, d float64) {
	return c.A[n-1], c.B[n-1], c.C[n-1], c.D[n-1]
}
