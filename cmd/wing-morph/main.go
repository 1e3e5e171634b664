// Command wing-morph turns segmented wing images into normalized elliptic
// Fourier shape descriptors for downstream morphometric analysis.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger

	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "wing-morph",
	Short: "Elliptic Fourier shape analysis for wing outlines",
	Long: `wing-morph converts wing outline images into normalized elliptic Fourier
descriptors: image -> contour -> Fourier coefficients -> size/rotation/phase
normalization -> one CSV row per image. The output table feeds the PCA and
group-comparison stages.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
