package main

import (
	"fmt"
	"math"

	"wing-morph/internal/contour"
	"wing-morph/internal/efd"
	"wing-morph/internal/imageio"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <image>",
	Short: "Run the descriptor pipeline on a single image and print diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var (
	inspectHarmonics int
	inspectMinPoints int
)

func init() {
	inspectCmd.Flags().IntVar(&inspectHarmonics, "harmonics", efd.DefaultHarmonics, "harmonic order")
	inspectCmd.Flags().IntVar(&inspectMinPoints, "min-points", contour.DefaultMinPoints, "minimum contour point count")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	img, err := imageio.Load(path)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())

	curve, err := contour.Extract(img, contour.Options{MinPoints: inspectMinPoints})
	if err != nil {
		return err
	}
	bbox := curve.Bounds()
	fmt.Printf("Contour: %d points, perimeter %.1f px, area %.0f px2, bounds %.0fx%.0f px\n",
		len(curve), curve.Perimeter(), curve.Area(), bbox.Width, bbox.Height)

	raw, err := efd.Estimate(curve, inspectHarmonics)
	if err != nil {
		return err
	}
	axis, err := efd.SemiMajorAxis(raw, efd.DefaultSizeTolerance)
	if err != nil {
		return err
	}
	fmt.Printf("Semi-major axis: %.2f px\n", axis)

	desc, err := efd.Normalize(raw, efd.DefaultSizeTolerance)
	if err != nil {
		return err
	}

	fmt.Printf("\nNormalized coefficients (%d harmonics):\n", desc.Harmonics())
	fmt.Printf("%4s %12s %12s %12s %12s\n", "n", "a", "b", "c", "d")
	for n := 1; n <= desc.Harmonics(); n++ {
		a, b, c, d := desc.Harmonic(n)
		fmt.Printf("%4d %12.6f %12.6f %12.6f %12.6f\n", n, a, b, c, d)
	}

	// Power beyond the first harmonic indicates how much the outline
	// deviates from a plain ellipse.
	if desc.Harmonics() > 1 {
		var residual float64
		for n := 2; n <= desc.Harmonics(); n++ {
			a, b, c, d := desc.Harmonic(n)
			residual += a*a + b*b + c*c + d*d
		}
		fmt.Printf("\nHigher-harmonic power: %.6f (rms %.6f)\n",
			residual, math.Sqrt(residual/float64(desc.Harmonics()-1)))
	}
	return nil
}
