// Package config holds the pipeline configuration, loadable from a YAML
// file and overridable by CLI flags.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface of a pipeline run.
type Config struct {
	// Root is the input directory holding the {species}_{locality} taxonomy.
	Root string `yaml:"root"`

	// Output is the path of the CSV feature table to write.
	Output string `yaml:"output"`

	// Harmonics is the elliptic Fourier harmonic order, fixed per run.
	Harmonics int `yaml:"harmonics"`

	// Workers is the worker pool size.
	Workers int `yaml:"workers"`

	// MinContourPoints is the minimum boundary length for a valid outline.
	MinContourPoints int `yaml:"min_contour_points"`

	// SizeTolerance is the degeneracy tolerance for size normalization.
	SizeTolerance float64 `yaml:"size_tolerance"`
}

// Default returns the default configuration. Root and Output have no
// defaults and must be supplied.
func Default() Config {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	return Config{
		Output:           "efd_normalized.csv",
		Harmonics:        10,
		Workers:          workers,
		MinContourPoints: 50,
		SizeTolerance:    1e-9,
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if c.Harmonics < 1 {
		return fmt.Errorf("harmonics must be at least 1, got %d", c.Harmonics)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MinContourPoints < 3 {
		return fmt.Errorf("min_contour_points must be at least 3, got %d", c.MinContourPoints)
	}
	if c.SizeTolerance <= 0 {
		return fmt.Errorf("size_tolerance must be positive, got %g", c.SizeTolerance)
	}
	return nil
}
