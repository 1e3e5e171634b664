package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"wing-morph/internal/batch"
	"wing-morph/internal/efd"

	"gonum.org/v1/gonum/stat"
)

// GroupKey identifies one biological group in the sample.
type GroupKey struct {
	Species  string
	Locality string
	Sex      string
	CellType string
}

// GroupMean is the per-coefficient mean descriptor of one group, used for
// quick shape comparisons before any formal statistics.
type GroupMean struct {
	GroupKey
	Count int
	Desc  efd.Coefficients
}

// GroupMeans averages every coefficient column within each
// (species, locality, sex, cell_type) group. Groups are returned in sorted
// key order.
func GroupMeans(records []batch.Record, harmonics int) []GroupMean {
	byGroup := make(map[GroupKey][]batch.Record)
	for _, rec := range records {
		key := GroupKey{rec.Species, rec.Locality, rec.Sex, rec.CellType}
		byGroup[key] = append(byGroup[key], rec)
	}

	means := make([]GroupMean, 0, len(byGroup))
	for key, group := range byGroup {
		mean := GroupMean{GroupKey: key, Count: len(group), Desc: efd.NewCoefficients(harmonics)}

		column := make([]float64, len(group))
		average := func(dst []float64, pick func(batch.Record) []float64) {
			for h := 0; h < harmonics; h++ {
				for i, rec := range group {
					column[i] = pick(rec)[h]
				}
				dst[h] = stat.Mean(column, nil)
			}
		}
		average(mean.Desc.A, func(r batch.Record) []float64 { return r.Desc.A })
		average(mean.Desc.B, func(r batch.Record) []float64 { return r.Desc.B })
		average(mean.Desc.C, func(r batch.Record) []float64 { return r.Desc.C })
		average(mean.Desc.D, func(r batch.Record) []float64 { return r.Desc.D })

		means = append(means, mean)
	}

	sort.Slice(means, func(i, j int) bool {
		a, b := means[i], means[j]
		if a.Species != b.Species {
			return a.Species < b.Species
		}
		if a.Locality != b.Locality {
			return a.Locality < b.Locality
		}
		if a.Sex != b.Sex {
			return a.Sex < b.Sex
		}
		return a.CellType < b.CellType
	})
	return means
}

// WriteMeans emits the group-mean table as CSV.
func WriteMeans(w io.Writer, means []GroupMean, harmonics int) error {
	cw := csv.NewWriter(w)

	header := []string{"species", "locality", "sex", "cell_type", "n"}
	for _, series := range []string{"a", "b", "c", "d"} {
		for n := 1; n <= harmonics; n++ {
			header = append(header, fmt.Sprintf("%s%d", series, n))
		}
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, m := range means {
		row := []string{m.Species, m.Locality, m.Sex, m.CellType, strconv.Itoa(m.Count)}
		row = appendFloats(row, m.Desc.A, m.Desc.B, m.Desc.C, m.Desc.D)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing group %v: %w", m.GroupKey, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMeansFile writes the group-mean table to path.
func WriteMeansFile(path string, means []GroupMean, harmonics int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating means table: %w", err)
	}
	defer f.Close()

	if err := WriteMeans(f, means, harmonics); err != nil {
		return err
	}
	return f.Close()
}
