package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wing-morph/internal/efd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeTree lays out a small taxonomy with empty image files, enough for
// discovery, which never opens the files.
func writeTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}
	return root
}

func TestDiscoverJobs(t *testing.T) {
	root := writeTree(t,
		"Calliphora_vicina_UK/male_wingcell/img1.png",
		"Calliphora_vicina_UK/male_wingcell/nested/img2.jpg",
		"Calliphora_vicina_UK/female_dm/img3.tif",
		"Lucilia_DE/male/imgA.png",
		"Loner/female_dm/imgB.bmp",
		"Calliphora_vicina_UK/male_wingcell/notes.txt",
		"stray.png",
	)

	jobs, err := DiscoverJobs(root, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, jobs, 5)

	byID := make(map[string]Job, len(jobs))
	for _, j := range jobs {
		byID[j.ImageID] = j
	}

	j, ok := byID["Calliphora_vicina_UK/male_wingcell/img1"]
	require.True(t, ok)
	assert.Equal(t, "Calliphora_vicina", j.Species)
	assert.Equal(t, "UK", j.Locality)
	assert.Equal(t, "male", j.Sex)
	assert.Equal(t, "wingcell", j.CellType)

	_, ok = byID["Calliphora_vicina_UK/male_wingcell/nested/img2"]
	assert.True(t, ok, "images are collected recursively below level 2")

	j, ok = byID["Lucilia_DE/male/imgA"]
	require.True(t, ok)
	assert.Equal(t, "male", j.Sex)
	assert.Equal(t, UnknownLabel, j.CellType)

	j, ok = byID["Loner/female_dm/imgB"]
	require.True(t, ok)
	assert.Equal(t, "Loner", j.Species)
	assert.Equal(t, UnknownLabel, j.Locality)
}

func TestDiscoverJobsMissingRoot(t *testing.T) {
	_, err := DiscoverJobs(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	require.Error(t, err)
}

// stubDescriptor returns a deterministic descriptor derived from the id, so
// result sets can be compared across runs.
func stubDescriptor(id string, harmonics int) efd.Coefficients {
	desc := efd.NewCoefficients(harmonics)
	for i := range desc.A {
		desc.A[i] = float64(len(id)+i) / 10
	}
	return desc
}

func stubPipeline(t *testing.T, workers int, failSubstr string) *Pipeline {
	t.Helper()
	params := DefaultParams()
	params.Workers = workers
	p := NewPipeline(params, zap.NewNop())
	p.process = func(job Job) (*Record, error) {
		if failSubstr != "" && strings.Contains(job.ImageID, failSubstr) {
			return nil, errors.New("injected failure")
		}
		return &Record{
			ImageID:  job.ImageID,
			Species:  job.Species,
			Sex:      job.Sex,
			Locality: job.Locality,
			CellType: job.CellType,
			Desc:     stubDescriptor(job.ImageID, params.Harmonics),
		}, nil
	}
	return p
}

func TestRunFailureIsolation(t *testing.T) {
	root := writeTree(t,
		"A_X/male_dm/good1.png",
		"A_X/male_dm/bad.png",
		"A_X/female_dm/good2.png",
		"B_Y/male_dm/good3.png",
	)

	result, err := stubPipeline(t, 4, "bad").Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Discovered)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Records, 3)
	for _, rec := range result.Records {
		assert.NotContains(t, rec.ImageID, "bad")
	}
}

func TestRunDeterministicAcrossWorkerCounts(t *testing.T) {
	var paths []string
	for g := 0; g < 3; g++ {
		for i := 0; i < 20; i++ {
			paths = append(paths, fmt.Sprintf("Sp%c_L/male_dm/img%02d.png", 'A'+g, i))
		}
	}
	root := writeTree(t, paths...)

	first, err := stubPipeline(t, 1, "").Run(context.Background(), root)
	require.NoError(t, err)
	second, err := stubPipeline(t, 8, "").Run(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, first.Records, second.Records)
}

func TestRunNoRecordsIsFatal(t *testing.T) {
	root := writeTree(t, "A_X/male_dm/img.png")

	_, err := stubPipeline(t, 2, "img").Run(context.Background(), root)
	require.ErrorIs(t, err, ErrNoRecords)
}

// writeEllipseMask renders a filled white ellipse on black, the shape of the
// masks the segmentation stage produces.
func writeEllipseMask(t *testing.T, path string, a, b float64) {
	t.Helper()
	const w, h = 240, 200
	img := image.NewGray(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) - cx) / a
			dy := (float64(y) - cy) / b
			if dx*dx+dy*dy <= 1 {
				img.Pix[y*w+x] = 255
			}
		}
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeEllipseMask(t, filepath.Join(root, "A_X", "male_dm", "img1.png"), 80, 40)
	writeEllipseMask(t, filepath.Join(root, "A_X", "male_dm", "img2.png"), 60, 55)
	writeEllipseMask(t, filepath.Join(root, "A_X", "female_dm", "img3.png"), 90, 30)

	// One unreadable file among the valid ones must cost exactly one job.
	corrupt := filepath.Join(root, "A_X", "male_dm", "broken.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a png"), 0o644))

	params := DefaultParams()
	params.Workers = 2
	result, err := NewPipeline(params, zap.NewNop()).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Discovered)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	for _, rec := range result.Records {
		a1, b1, c1, _ := rec.Desc.Harmonic(1)
		assert.InDelta(t, 1, a1, 0.05, "%s", rec.ImageID)
		assert.InDelta(t, 0, b1, 0.05, "%s", rec.ImageID)
		assert.InDelta(t, 0, c1, 0.05, "%s", rec.ImageID)
	}
}
