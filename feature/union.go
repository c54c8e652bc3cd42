package feature

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/strevens/shapejoin/sjerrors"
)

// Union merges collections with possibly different attribute schemas into
// one. Columns missing from a collection are filled with the type-appropriate
// missing value; a column name declared with more than one distinct type
// across collections is a schema conflict. Row order is input order; column
// order is first-seen order across the inputs.
//
// A single input is returned unchanged.
func Union(collections []*Collection) (*Collection, error) {
	if len(collections) == 0 {
		return nil, fmt.Errorf("union of zero collections")
	}
	if len(collections) == 1 {
		return collections[0], nil
	}

	// Global schema in first-seen order, rejecting type conflicts.
	var schema []Descriptor
	seen := make(map[string]ColType)
	for _, coll := range collections {
		for _, d := range coll.Descriptors() {
			if err := validateType(d); err != nil {
				return nil, err
			}
			prev, ok := seen[d.Name]
			if !ok {
				seen[d.Name] = d.Type
				schema = append(schema, d)
				continue
			}
			if prev != d.Type {
				return nil, &sjerrors.SchemaConflictError{
					Column: d.Name,
					Types:  []string{string(prev), string(d.Type)},
				}
			}
		}
	}

	total := 0
	for _, coll := range collections {
		total += coll.Len()
	}

	out := NewCollection(collections[0].Kind)
	for _, d := range schema {
		col := &Column{Name: d.Name, Type: d.Type}
		switch d.Type {
		case TypeString:
			col.Str = make([]string, 0, total)
		case TypeNumeric:
			col.Num = make([]float64, 0, total)
		case TypeGeometry:
			col.Geom = make([]orb.Geometry, 0, total)
		}
		for _, coll := range collections {
			appendValues(col, coll)
		}
		// Carry column metadata from the first collection declaring it.
		for _, coll := range collections {
			if src, ok := coll.Column(d.Name); ok {
				col.Label = src.Label
				col.ValueLabels = src.ValueLabels
				break
			}
		}
		if err := out.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// appendValues appends coll's values for col.Name to col, or the missing
// fill when coll lacks the column.
func appendValues(col *Column, coll *Collection) {
	src, ok := coll.Column(col.Name)
	switch col.Type {
	case TypeString:
		if ok {
			col.Str = append(col.Str, src.Str...)
			return
		}
		for i := 0; i < coll.Len(); i++ {
			col.Str = append(col.Str, "")
		}
	case TypeNumeric:
		if ok {
			col.Num = append(col.Num, src.Num...)
			return
		}
		for i := 0; i < coll.Len(); i++ {
			col.Num = append(col.Num, math.NaN())
		}
	case TypeGeometry:
		if ok {
			col.Geom = append(col.Geom, src.Geom...)
			return
		}
		for i := 0; i < coll.Len(); i++ {
			col.Geom = append(col.Geom, nil)
		}
	}
}

func validateType(d Descriptor) error {
	switch d.Type {
	case TypeString, TypeNumeric, TypeGeometry:
		return nil
	}
	return &sjerrors.ColumnTypeError{Column: d.Name, Type: string(d.Type)}
}
