package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"wing-morph/internal/imageio"

	"go.uber.org/zap"
)

// DiscoverJobs walks the two-level directory taxonomy under root and builds
// the job list. Level-1 directories carry "{species}_{locality}", level-2
// directories carry "{sex}_{cell_type}"; image files are collected
// recursively below level 2. Malformed directory names are logged and fall
// back to Unknown labels rather than failing. A missing root is the only
// error.
func DiscoverJobs(root string, logger *zap.Logger) ([]Job, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", root)
	}

	level1, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var jobs []Job
	for _, groupDir := range level1 {
		if !groupDir.IsDir() {
			continue
		}
		species, locality, ok := ParseSpeciesLocality(groupDir.Name())
		if !ok {
			logger.Warn("directory name does not match {species}_{locality}, using fallback labels",
				zap.String("dir", groupDir.Name()))
		}

		groupPath := filepath.Join(root, groupDir.Name())
		level2, err := os.ReadDir(groupPath)
		if err != nil {
			logger.Warn("skipping unreadable group directory",
				zap.String("dir", groupPath), zap.Error(err))
			continue
		}

		for _, cellDir := range level2 {
			if !cellDir.IsDir() {
				continue
			}
			sex, cellType, ok := ParseSexCellType(cellDir.Name())
			if !ok {
				logger.Warn("directory name does not match {sex}_{cell_type}, using fallback labels",
					zap.String("dir", cellDir.Name()))
			}

			cellPath := filepath.Join(groupPath, cellDir.Name())
			walkErr := filepath.WalkDir(cellPath, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
					return nil
				}
				if d.IsDir() || !imageio.IsSupportedFormat(path) {
					return nil
				}
				jobs = append(jobs, Job{
					Path:     path,
					ImageID:  imageID(root, path),
					Species:  species,
					Locality: locality,
					Sex:      sex,
					CellType: cellType,
				})
				return nil
			})
			if walkErr != nil {
				logger.Warn("walk aborted", zap.String("dir", cellPath), zap.Error(walkErr))
			}
		}
	}

	return jobs, nil
}

// imageID derives a stable identifier from the image's root-relative path:
// slash-separated and without the file extension, so ids stay unique when
// the same filename appears under different groups.
func imageID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
