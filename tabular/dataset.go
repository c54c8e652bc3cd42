// Package tabular defines the tabular survey-extract dataset consumed by the
// joiner: named, typed columns with per-column metadata such as display
// labels and value labels.
//
// Reading full statistical extracts (fixed-width data, codebooks, label
// metadata) is out of scope; callers construct datasets directly or use
// [FromCSV] for delimited files.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Kind is the declared type of a tabular column.
type Kind string

const (
	// KindString holds text values; "" is the missing value.
	KindString Kind = "string"
	// KindNumeric holds numeric values; NaN is the missing value.
	KindNumeric Kind = "numeric"
)

// Column is one named, typed column with optional metadata. Exactly one of
// Str and Num is populated, matching Kind.
type Column struct {
	Name string
	Kind Kind

	Str []string
	Num []float64

	// Label is the human-readable display label, if any.
	Label string
	// ValueLabels maps coded values to their display text, if any.
	ValueLabels map[string]string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Num)
	}
	return len(c.Str)
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Label: c.Label}
	if c.Str != nil {
		out.Str = append([]string(nil), c.Str...)
	}
	if c.Num != nil {
		out.Num = append([]float64(nil), c.Num...)
	}
	if c.ValueLabels != nil {
		out.ValueLabels = make(map[string]string, len(c.ValueLabels))
		for k, v := range c.ValueLabels {
			out.ValueLabels[k] = v
		}
	}
	return out
}

// Take returns a new column holding the values at the given row indices,
// in order, with metadata carried over.
func (c *Column) Take(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Label: c.Label, ValueLabels: c.ValueLabels}
	if c.Kind == KindNumeric {
		out.Num = make([]float64, len(rows))
		for i, r := range rows {
			out.Num[i] = c.Num[r]
		}
		return out
	}
	out.Str = make([]string, len(rows))
	for i, r := range rows {
		out.Str[i] = c.Str[r]
	}
	return out
}

// Dataset maps column names to typed columns, preserving declaration order.
type Dataset struct {
	cols   []*Column
	byName map[string]int
	nrows  int
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{byName: make(map[string]int)}
}

// AddColumn appends a column. The first column fixes the row count; later
// columns must match it. Duplicate names are rejected.
func (d *Dataset) AddColumn(col *Column) error {
	if _, ok := d.byName[col.Name]; ok {
		return fmt.Errorf("duplicate column %q", col.Name)
	}
	if len(d.cols) == 0 {
		d.nrows = col.Len()
	} else if col.Len() != d.nrows {
		return fmt.Errorf("column %q has %d rows, dataset has %d", col.Name, col.Len(), d.nrows)
	}
	d.byName[col.Name] = len(d.cols)
	d.cols = append(d.cols, col)
	return nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.nrows
}

// Columns returns the columns in declaration order.
func (d *Dataset) Columns() []*Column {
	return d.cols
}

// Column returns the named column, if present.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

// ColumnNames returns the column names in declaration order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.cols))
	for i, col := range d.cols {
		names[i] = col.Name
	}
	return names
}

// Take returns a new dataset holding the given rows of every column.
func (d *Dataset) Take(rows []int) *Dataset {
	out := NewDataset()
	for _, col := range d.cols {
		// AddColumn cannot fail here: names stay unique and lengths agree.
		_ = out.AddColumn(col.Take(rows))
	}
	return out
}

// FromCSV reads a delimited file with a header row into a dataset. A column
// is numeric when every non-blank value parses as a float; otherwise it is a
// string column. Blank values become the missing value for the column kind.
func FromCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading csv: no header row")
	}

	header := records[0]
	rows := records[1:]

	ds := NewDataset()
	for j, name := range header {
		values := make([]string, len(rows))
		numeric := true
		for i, rec := range rows {
			if j >= len(rec) {
				return nil, fmt.Errorf("csv row %d has %d fields, header has %d", i+2, len(rec), len(header))
			}
			values[i] = rec[j]
			v := strings.TrimSpace(rec[j])
			if v == "" {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
			}
		}

		col := &Column{Name: name}
		if numeric {
			col.Kind = KindNumeric
			col.Num = make([]float64, len(values))
			for i, v := range values {
				v = strings.TrimSpace(v)
				if v == "" {
					col.Num[i] = math.NaN()
					continue
				}
				col.Num[i], _ = strconv.ParseFloat(v, 64)
			}
		} else {
			col.Kind = KindString
			col.Str = values
		}
		if err := ds.AddColumn(col); err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
	}
	return ds, nil
}
