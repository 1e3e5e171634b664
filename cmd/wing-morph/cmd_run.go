package main

import (
	"context"
	"fmt"
	"strings"

	"wing-morph/internal/batch"
	"wing-morph/internal/config"
	"wing-morph/internal/table"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a directory tree of wing images into a feature table",
	RunE:  runBatch,
}

var (
	flagInput     string
	flagOutput    string
	flagHarmonics int
	flagWorkers   int
	flagMinPoints int
	flagTolerance float64
	flagMeans     bool
)

func init() {
	runCmd.Flags().StringVarP(&flagInput, "input", "i", "", "root directory of the {species}_{locality}/{sex}_{cell_type} tree")
	runCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output CSV path")
	runCmd.Flags().IntVar(&flagHarmonics, "harmonics", 0, "harmonic order of the Fourier expansion")
	runCmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker pool size")
	runCmd.Flags().IntVar(&flagMinPoints, "min-points", 0, "minimum contour point count")
	runCmd.Flags().Float64Var(&flagTolerance, "tolerance", 0, "size-normalization degeneracy tolerance")
	runCmd.Flags().BoolVar(&flagMeans, "means", false, "also write a per-group mean coefficient table")
	rootCmd.AddCommand(runCmd)
}

// loadConfig merges defaults, the optional config file, and any flags the
// user set explicitly, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("input") {
		cfg.Root = flagInput
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = flagOutput
	}
	if cmd.Flags().Changed("harmonics") {
		cfg.Harmonics = flagHarmonics
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if cmd.Flags().Changed("min-points") {
		cfg.MinContourPoints = flagMinPoints
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.SizeTolerance = flagTolerance
	}

	return cfg, cfg.Validate()
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	params := batch.Params{
		Harmonics:        cfg.Harmonics,
		Workers:          cfg.Workers,
		MinContourPoints: cfg.MinContourPoints,
		SizeTolerance:    cfg.SizeTolerance,
	}

	pipeline := batch.NewPipeline(params, logger)
	result, err := pipeline.Run(context.Background(), cfg.Root)
	if err != nil {
		return err
	}

	if err := table.WriteFile(cfg.Output, result.Records, cfg.Harmonics); err != nil {
		return err
	}

	if flagMeans {
		means := table.GroupMeans(result.Records, cfg.Harmonics)
		meansPath := meansPathFor(cfg.Output)
		if err := table.WriteMeansFile(meansPath, means, cfg.Harmonics); err != nil {
			return err
		}
		fmt.Printf("Group means:  %s (%d groups)\n", meansPath, len(means))
	}

	fmt.Printf("Discovered:   %d\n", result.Discovered)
	fmt.Printf("Succeeded:    %d\n", result.Succeeded)
	fmt.Printf("Failed:       %d\n", result.Failed)
	fmt.Printf("Feature table: %s\n", cfg.Output)
	return nil
}

// meansPathFor derives the group-means path from the main table path:
// "out.csv" becomes "out_group_means.csv".
func meansPathFor(output string) string {
	if idx := strings.LastIndex(output, "."); idx > 0 {
		return output[:idx] + "_group_means" + output[idx:]
	}
	return output + "_group_means.csv"
}
