// Package dataset loads delimited tabular intrusion-detection data and
// turns encoded bit vectors into training batches.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/bitgate-ml/bitgate/internal/encoding"
	"github.com/bitgate-ml/bitgate/internal/tensor"
)

// Samples holds raw records and their binary labels, 1:1 by index.
type Samples struct {
	Records []encoding.Record
	Labels  []float32 // 0 benign, 1 attack
}

// Load reads a delimited text file with a header row.
//
// Every schema field name and the label column must appear in the
// header; extra columns are ignored. Label values must be exactly 0
// or 1.
//
// Parameters:
//   - filename: path to the data file
//   - schema: fields to extract; header names must match
//   - labelColumn: name of the label column
//   - delimiter: field separator (',' for CSV)
func Load(filename string, schema encoding.Schema, labelColumn string, delimiter rune) (*Samples, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s is empty or missing header", filename)
	}

	header := rows[0]
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	fieldCols := make([]int, len(schema))
	for i, f := range schema {
		col, ok := columns[f.Name]
		if !ok {
			return nil, fmt.Errorf("%s: header missing schema field %q", filename, f.Name)
		}
		fieldCols[i] = col
	}
	labelCol, ok := columns[labelColumn]
	if !ok {
		return nil, fmt.Errorf("%s: header missing label column %q", filename, labelColumn)
	}

	rows = rows[1:]
	samples := &Samples{
		Records: make([]encoding.Record, len(rows)),
		Labels:  make([]float32, len(rows)),
	}

	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%s: row %d has %d columns, want %d", filename, i+1, len(row), len(header))
		}

		record := make(encoding.Record, len(schema))
		for j, f := range schema {
			record[f.Name] = row[fieldCols[j]]
		}
		samples.Records[i] = record

		label, err := strconv.Atoi(row[labelCol])
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("%s: invalid label %q at row %d (want 0 or 1)", filename, row[labelCol], i+1)
		}
		samples.Labels[i] = float32(label)
	}

	return samples, nil
}

// NumSamples returns the number of rows.
func (s *Samples) NumSamples() int {
	return len(s.Records)
}

// Split divides the samples into two parts; the second holds the last
// ratio fraction of rows.
func (s *Samples) Split(ratio float32) (*Samples, *Samples) {
	splitIdx := int(float32(s.NumSamples()) * (1.0 - ratio))
	return &Samples{
			Records: s.Records[:splitIdx],
			Labels:  s.Labels[:splitIdx],
		}, &Samples{
			Records: s.Records[splitIdx:],
			Labels:  s.Labels[splitIdx:],
		}
}

// Dataset pairs encoded vectors with labels, 1:1 by index.
type Dataset struct {
	Vectors []encoding.BitVector
	Labels  []float32
	Width   int
}

// Encode converts samples into a Dataset using a fitted table, encoding
// records in parallel across workers (<= 0 selects GOMAXPROCS).
func Encode(samples *Samples, table *encoding.BitAllocationTable, workers int) (*Dataset, error) {
	vectors, err := table.EncodeAll(samples.Records, workers)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Vectors: vectors,
		Labels:  samples.Labels,
		Width:   table.TotalBits(),
	}, nil
}

// NumSamples returns the number of encoded rows.
func (d *Dataset) NumSamples() int {
	return len(d.Vectors)
}

// Batch is one mini-batch of model inputs and targets.
type Batch struct {
	Inputs  *tensor.Tensor // [size, width], values in {0,1}
	Targets *tensor.Tensor // [size], values in {0,1}
	Size    int
}

// Batches splits the dataset into mini-batches.
//
// With shuffle, rows are permuted by a seeded Fisher-Yates pass so runs
// are reproducible. The last batch may be smaller when the data does
// not divide evenly.
func (d *Dataset) Batches(batchSize int, shuffle bool, seed int64) ([]*Batch, error) {
	numSamples := d.NumSamples()
	if numSamples != len(d.Labels) {
		return nil, fmt.Errorf("vectors and labels length mismatch: %d vs %d", numSamples, len(d.Labels))
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("batch size must be >= 1, got %d", batchSize)
	}

	indices := make([]int, numSamples)
	for i := range indices {
		indices[i] = i
	}
	if shuffle {
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(numSamples, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	numBatches := (numSamples + batchSize - 1) / batchSize
	batches := make([]*Batch, 0, numBatches)

	for start := 0; start < numSamples; start += batchSize {
		end := min(start+batchSize, numSamples)
		size := end - start

		inputs := tensor.Zeros(tensor.Shape{size, d.Width})
		targets := tensor.Zeros(tensor.Shape{size})

		for row := start; row < end; row++ {
			idx := indices[row]
			vec := d.Vectors[idx]
			if len(vec) != d.Width {
				return nil, fmt.Errorf("vector %d has width %d, want %d", idx, len(vec), d.Width)
			}
			base := (row - start) * d.Width
			for j, b := range vec {
				inputs.Data()[base+j] = float32(b)
			}
			targets.Data()[row-start] = d.Labels[idx]
		}

		batches = append(batches, &Batch{
			Inputs:  inputs,
			Targets: targets,
			Size:    size,
		})
	}

	return batches, nil
}
