package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"wing-morph/internal/contour"
	"wing-morph/internal/efd"
	"wing-morph/internal/imageio"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoRecords indicates a completed run produced zero records. Downstream
// analysis cannot run on an empty table, so this is batch-fatal rather than
// silently swallowed.
var ErrNoRecords = errors.New("no images processed successfully")

// Record is one row of the output feature table: group labels plus the
// normalized descriptor of a single image. Immutable once emitted.
type Record struct {
	ImageID  string
	Species  string
	Sex      string
	Locality string
	CellType string
	Desc     efd.Coefficients
}

// Params configures a pipeline run.
type Params struct {
	Harmonics        int     // Harmonic order of the Fourier expansion
	Workers          int     // Worker pool size
	MinContourPoints int     // Minimum boundary points for a valid outline
	SizeTolerance    float64 // Degeneracy tolerance for size normalization
}

// DefaultParams returns the default pipeline parameters. Workers defaults
// to cores minus one so the reducer and OS keep a core.
func DefaultParams() Params {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	return Params{
		Harmonics:        efd.DefaultHarmonics,
		Workers:          workers,
		MinContourPoints: contour.DefaultMinPoints,
		SizeTolerance:    efd.DefaultSizeTolerance,
	}
}

// Result summarizes a completed run. Records are sorted by ImageID so the
// output is identical regardless of worker count or completion order.
type Result struct {
	Records    []Record
	Discovered int
	Succeeded  int
	Failed     int
}

// Pipeline runs the per-image descriptor pipeline over a job list.
type Pipeline struct {
	params Params
	logger *zap.Logger

	// process is swappable in tests to exercise scatter-gather behavior
	// without image fixtures.
	process func(Job) (*Record, error)
}

// NewPipeline creates a pipeline with the given parameters.
func NewPipeline(params Params, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{params: params, logger: logger}
	p.process = p.processImage
	return p
}

// Run discovers jobs under root and processes them across the worker pool.
// Each job is independent: any failure inside one job is logged, counted,
// and dropped without affecting the others. Workers write into their own
// slot of a preallocated slice; the single-threaded reduce step after Wait
// is the only place results are merged.
func (p *Pipeline) Run(ctx context.Context, root string) (*Result, error) {
	jobs, err := DiscoverJobs(root, p.logger)
	if err != nil {
		return nil, err
	}
	p.logger.Info("jobs discovered", zap.Int("count", len(jobs)))

	results := make([]*Record, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.params.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := p.process(job)
			if err != nil {
				p.logger.Warn("job failed",
					zap.String("image", job.Path), zap.Error(err))
				return nil
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Discovered: len(jobs)}
	for _, rec := range results {
		if rec == nil {
			res.Failed++
			continue
		}
		res.Succeeded++
		res.Records = append(res.Records, *rec)
	}
	sort.Slice(res.Records, func(i, j int) bool {
		return res.Records[i].ImageID < res.Records[j].ImageID
	})

	p.logger.Info("batch complete",
		zap.Int("discovered", res.Discovered),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed))

	if res.Succeeded == 0 {
		return nil, fmt.Errorf("%w: %d jobs discovered, %d failed",
			ErrNoRecords, res.Discovered, res.Failed)
	}
	return res, nil
}

// processImage runs the full per-image pipeline: decode, contour, estimate,
// normalize.
func (p *Pipeline) processImage(job Job) (*Record, error) {
	img, err := imageio.Load(job.Path)
	if err != nil {
		return nil, err
	}

	curve, err := contour.Extract(img, contour.Options{MinPoints: p.params.MinContourPoints})
	if err != nil {
		return nil, err
	}

	raw, err := efd.Estimate(curve, p.params.Harmonics)
	if err != nil {
		return nil, err
	}

	desc, err := efd.Normalize(raw, p.params.SizeTolerance)
	if err != nil {
		return nil, err
	}

	return &Record{
		ImageID:  job.ImageID,
		Species:  job.Species,
		Sex:      job.Sex,
		Locality: job.Locality,
		CellType: job.CellType,
		Desc:     desc,
	}, nil
}
