// Package table serializes batch results into the CSV feature table consumed
// by the downstream statistics and plotting stages.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"wing-morph/internal/batch"
)

// Header returns the CSV header for the given harmonic order: the metadata
// columns followed by a1..aH, b1..bH, c1..cH, d1..dH (column-major by
// series, then harmonic index).
func Header(harmonics int) []string {
	cols := []string{"image_id", "species", "sex", "locality", "cell_type"}
	for _, series := range []string{"a", "b", "c", "d"} {
		for n := 1; n <= harmonics; n++ {
			cols = append(cols, fmt.Sprintf("%s%d", series, n))
		}
	}
	return cols
}

// Write emits one CSV row per record. Every record must carry the given
// harmonic order; H is fixed per run.
func Write(w io.Writer, records []batch.Record, harmonics int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(harmonics)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range records {
		if rec.Desc.Harmonics() != harmonics {
			return fmt.Errorf("record %s has %d harmonics, table expects %d",
				rec.ImageID, rec.Desc.Harmonics(), harmonics)
		}
		row := []string{rec.ImageID, rec.Species, rec.Sex, rec.Locality, rec.CellType}
		row = appendFloats(row, rec.Desc.A, rec.Desc.B, rec.Desc.C, rec.Desc.D)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %s: %w", rec.ImageID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the feature table to path, creating or truncating it.
func WriteFile(path string, records []batch.Record, harmonics int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output table: %w", err)
	}
	defer f.Close()

	if err := Write(f, records, harmonics); err != nil {
		return err
	}
	return f.Close()
}

func appendFloats(row []string, series ...[]float64) []string {
	for _, s := range series {
		for _, v := range s {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return row
}
