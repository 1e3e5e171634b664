// Package contour extracts the dominant closed boundary from a segmented
// wing image.
package contour

import (
	"errors"
	"fmt"
	"image"

	"wing-morph/internal/imageio"
	"wing-morph/pkg/geometry"

	"gocv.io/x/gocv"
)

// ErrNoContour indicates the image contains no usable boundary: either no
// closed contour was detected, or the best candidate is below the minimum
// point threshold.
var ErrNoContour = errors.New("no contour found")

// DefaultMinPoints is the minimum boundary length (in points) for a contour
// to be treated as a wing outline rather than noise.
const DefaultMinPoints = 50

// Options configures contour extraction.
type Options struct {
	MinPoints int // Minimum point count for a valid contour
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{MinPoints: DefaultMinPoints}
}

// Extract returns the largest closed boundary in the image as an ordered
// point sequence. The image is binarized with Otsu's threshold, so both
// pre-made binary masks and grayscale scans work. "Largest" means most
// boundary points; ties resolve to the first contour OpenCV reports, which
// is stable but carries no meaning.
func Extract(srcImg image.Image, opts Options) (geometry.ClosedCurve, error) {
	if opts.MinPoints <= 0 {
		opts.MinPoints = DefaultMinPoints
	}

	gray, err := imageio.ToGrayMat(srcImg)
	if err != nil {
		return nil, fmt.Errorf("contour extraction: %w", err)
	}
	defer gray.Close()

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	// ChainApproxNone keeps every boundary pixel so point count tracks
	// boundary length rather than polygon complexity.
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()

	best := -1
	bestSize := 0
	for i := 0; i < contours.Size(); i++ {
		if n := contours.At(i).Size(); n > bestSize {
			best = i
			bestSize = n
		}
	}

	if best < 0 || bestSize < opts.MinPoints {
		return nil, fmt.Errorf("%w: best candidate has %d points, need %d",
			ErrNoContour, bestSize, opts.MinPoints)
	}

	pv := contours.At(best)
	curve := make(geometry.ClosedCurve, pv.Size())
	for j := 0; j < pv.Size(); j++ {
		pt := pv.At(j)
		curve[j] = geometry.Point2D{X: float64(pt.X), Y: float64(pt.Y)}
	}
	return curve, nil
}
