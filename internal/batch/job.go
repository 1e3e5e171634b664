// Package batch discovers wing images from a labeled directory taxonomy,
// runs the contour/descriptor pipeline over them in parallel, and gathers
// the per-image results into one feature set.
package batch

import (
	"strings"
)

// UnknownLabel is the fallback for any group label that cannot be parsed
// from a directory name.
const UnknownLabel = "Unknown"

// Job is one image to process, with the group labels parsed from its
// enclosing directories.
type Job struct {
	Path     string // Absolute or root-relative path to the image file
	ImageID  string // Root-relative path without extension, slash-separated
	Species  string
	Locality string
	Sex      string
	CellType string
}

// ParseSpeciesLocality splits a level-1 directory name of the form
// "{species}_{locality}". The locality is the token after the last
// underscore; everything before it is the species, which may itself contain
// underscores ("Calliphora_vicina_UK"). Returns ok=false when the name has
// no usable delimiter, in which case species is the whole name and locality
// falls back to Unknown.
func ParseSpeciesLocality(name string) (species, locality string, ok bool) {
	idx := strings.LastIndex(name, "_")
	if idx <= 0 || idx == len(name)-1 {
		return name, UnknownLabel, false
	}
	return name[:idx], name[idx+1:], true
}

// ParseSexCellType splits a level-2 directory name of the form
// "{sex}_{cell_type}" on the first underscore. Returns ok=false when the
// name has no usable delimiter; sex is then the whole name and cell type
// falls back to Unknown.
func ParseSexCellType(name string) (sex, cellType string, ok bool) {
	idx := strings.Index(name, "_")
	if idx <= 0 || idx == len(name)-1 {
		return name, UnknownLabel, false
	}
	return name[:idx], name[idx+1:], true
}
