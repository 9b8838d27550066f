// Package dataset holds the tabular rows of a submission run together with
// the column lookup used to read individual fields from a row.
package dataset

import (
	"strings"
)

// SampleNameField is the column used to key rows in the data map
const SampleNameField = "sample_name"

// Metadata describes the columns of a dataset and the rows seen so far
type Metadata struct {
	// ColumnIndexMap maps a column name to its position in a split row
	ColumnIndexMap map[string]int
	// DataMap maps a sample name to its raw row. It is filled while actions
	// are assembled so generators can resolve rows that reference each other.
	DataMap map[string]string
}

// Dataset is the parsed input of one run
type Dataset struct {
	Rows     []string
	Metadata Metadata
}

// New creates a dataset from a column list and raw tab-delimited rows.
// Unnamed columns are not addressable.
func New(columns []string, rows []string) *Dataset {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			continue
		}
		index[c] = i
	}
	return &Dataset{
		Rows: rows,
		Metadata: Metadata{
			ColumnIndexMap: index,
			DataMap:        make(map[string]string),
		},
	}
}

// Value returns the field of a split row. The second result is false when
// the column is unknown or the row is too short to hold it.
func (d *Dataset) Value(values []string, field string) (string, bool) {
	idx, ok := d.Metadata.ColumnIndexMap[field]
	if !ok {
		return "", false
	}
	if idx < 0 || idx >= len(values) {
		return "", false
	}
	return values[idx], true
}

// Record stores a raw row under its sample name
func (d *Dataset) Record(sampleName, raw string) {
	if d.Metadata.DataMap == nil {
		d.Metadata.DataMap = make(map[string]string)
	}
	d.Metadata.DataMap[sampleName] = raw
}

// Lookup returns the split values of a previously recorded row
func (d *Dataset) Lookup(sampleName string) ([]string, bool) {
	raw, ok := d.Metadata.DataMap[sampleName]
	if !ok {
		return nil, false
	}
	return SplitRow(raw), true
}

// Columns returns the column names ordered by index. Unnamed columns
// before the last named one are returned as empty strings.
func (d *Dataset) Columns() []string {
	width := 0
	for _, idx := range d.Metadata.ColumnIndexMap {
		if idx >= width {
			width = idx + 1
		}
	}
	cols := make([]string, width)
	for name, idx := range d.Metadata.ColumnIndexMap {
		if idx >= 0 {
			cols[idx] = name
		}
	}
	return cols
}

// SplitRow removes a trailing carriage return and splits a row on tabs
func SplitRow(raw string) []string {
	return strings.Split(strings.TrimSuffix(raw, "\r"), "\t")
}
