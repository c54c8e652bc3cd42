package feature

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// GeometryColumn is the conventional name of the geometry column in a
// collection. Loaders always populate it; attribute columns may not use it.
const GeometryColumn = "geometry"

// ColType is the declared type of a collection column. The set is closed:
// any other observed type is an error.
type ColType string

const (
	// TypeString holds text attribute values; "" is the missing value.
	TypeString ColType = "string"
	// TypeNumeric holds numeric attribute values; NaN is the missing value.
	TypeNumeric ColType = "numeric"
	// TypeGeometry holds geometry values; nil is the missing value.
	TypeGeometry ColType = "geometry"
)

// Kind discriminates the two geometric-collection variants the joiner
// accepts. Both behave identically today; the discriminant is explicit so
// callers never rely on runtime introspection.
type Kind string

const (
	// KindSimpleFeature marks collections produced by the shapefile backend.
	KindSimpleFeature Kind = "simple-feature"
	// KindLegacyFrame marks collections converted from legacy spatial frames.
	KindLegacyFrame Kind = "legacy-frame"
)

// Column is one named, typed column of a collection. Exactly one of Str,
// Num, and Geom is populated, matching Type.
type Column struct {
	Name string
	Type ColType

	Str  []string
	Num  []float64
	Geom []orb.Geometry

	// Label is the human-readable display label, if any.
	Label string
	// ValueLabels maps coded values to their display text, if any.
	ValueLabels map[string]string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.Type {
	case TypeString:
		return len(c.Str)
	case TypeNumeric:
		return len(c.Num)
	case TypeGeometry:
		return len(c.Geom)
	}
	return 0
}

// Clone returns a deep copy of the column. Merged metadata is always built
// on a clone; existing columns are never mutated in place.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Type: c.Type, Label: c.Label}
	if c.Str != nil {
		out.Str = append([]string(nil), c.Str...)
	}
	if c.Num != nil {
		out.Num = append([]float64(nil), c.Num...)
	}
	if c.Geom != nil {
		out.Geom = append([]orb.Geometry(nil), c.Geom...)
	}
	if c.ValueLabels != nil {
		out.ValueLabels = make(map[string]string, len(c.ValueLabels))
		for k, v := range c.ValueLabels {
			out.ValueLabels[k] = v
		}
	}
	return out
}

// IsMissing reports whether the value at row i is the missing value for the
// column's type.
func (c *Column) IsMissing(i int) bool {
	switch c.Type {
	case TypeString:
		return c.Str[i] == ""
	case TypeNumeric:
		return math.IsNaN(c.Num[i])
	case TypeGeometry:
		return c.Geom[i] == nil
	}
	return true
}

// StringValue renders the value at row i for keying and diagnostics.
func (c *Column) StringValue(i int) string {
	switch c.Type {
	case TypeString:
		return c.Str[i]
	case TypeNumeric:
		if math.IsNaN(c.Num[i]) {
			return ""
		}
		return fmt.Sprintf("%g", c.Num[i])
	case TypeGeometry:
		if c.Geom[i] == nil {
			return ""
		}
		return c.Geom[i].GeoJSONType()
	}
	return ""
}

// Take returns a new column holding the values at the given row indices,
// in order, with metadata carried over.
func (c *Column) Take(rows []int) *Column {
	out := &Column{Name: c.Name, Type: c.Type, Label: c.Label, ValueLabels: c.ValueLabels}
	switch c.Type {
	case TypeString:
		out.Str = make([]string, len(rows))
		for i, r := range rows {
			out.Str[i] = c.Str[r]
		}
	case TypeNumeric:
		out.Num = make([]float64, len(rows))
		for i, r := range rows {
			out.Num[i] = c.Num[r]
		}
	case TypeGeometry:
		out.Geom = make([]orb.Geometry, len(rows))
		for i, r := range rows {
			out.Geom[i] = c.Geom[r]
		}
	}
	return out
}

// Descriptor is a (name, type) pair used to reconcile schemas across
// collections before union.
type Descriptor struct {
	Name string
	Type ColType
}

// Collection is a table-like structure pairing geometry values with named
// attribute columns. Column names are unique within a collection; row order
// is insertion order and carries no meaning beyond pairing with geometry.
type Collection struct {
	// Source is the originating file path, kept for diagnostics.
	Source string
	// Kind discriminates the collection variant.
	Kind Kind

	cols   []*Column
	byName map[string]int
	nrows  int
}

// NewCollection returns an empty collection of the given kind.
func NewCollection(kind Kind) *Collection {
	return &Collection{Kind: kind, byName: make(map[string]int)}
}

// FromFrame converts a legacy spatial frame, an attribute table carried next
// to a parallel geometry slice, into a collection of [KindLegacyFrame]. The
// geometries land in the standard geometry column; attribute column order is
// preserved. Attribute columns must not be geometry-typed.
func FromFrame(geoms []orb.Geometry, attrs ...*Column) (*Collection, error) {
	c := NewCollection(KindLegacyFrame)
	if err := c.AddColumn(&Column{Name: GeometryColumn, Type: TypeGeometry, Geom: geoms}); err != nil {
		return nil, err
	}
	for _, col := range attrs {
		if col.Type == TypeGeometry {
			return nil, fmt.Errorf("frame column %q: geometry attributes are not allowed", col.Name)
		}
		if err := c.AddColumn(col); err != nil {
			return nil, fmt.Errorf("frame column %q: %w", col.Name, err)
		}
	}
	return c, nil
}

// AddColumn appends a column. The first column fixes the row count; later
// columns must match it. Duplicate names are rejected.
func (c *Collection) AddColumn(col *Column) error {
	if _, ok := c.byName[col.Name]; ok {
		return fmt.Errorf("duplicate column %q", col.Name)
	}
	if len(c.cols) == 0 {
		c.nrows = col.Len()
	} else if col.Len() != c.nrows {
		return fmt.Errorf("column %q has %d rows, collection has %d", col.Name, col.Len(), c.nrows)
	}
	c.byName[col.Name] = len(c.cols)
	c.cols = append(c.cols, col)
	return nil
}

// Len returns the number of rows.
func (c *Collection) Len() int {
	return c.nrows
}

// Columns returns the columns in declaration order.
func (c *Collection) Columns() []*Column {
	return c.cols
}

// Column returns the named column, if present.
func (c *Collection) Column(name string) (*Column, bool) {
	i, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.cols[i], true
}

// ColumnNames returns the column names in declaration order.
func (c *Collection) ColumnNames() []string {
	names := make([]string, len(c.cols))
	for i, col := range c.cols {
		names[i] = col.Name
	}
	return names
}

// Descriptors returns the (name, type) pair of every column in order.
func (c *Collection) Descriptors() []Descriptor {
	out := make([]Descriptor, len(c.cols))
	for i, col := range c.cols {
		out[i] = Descriptor{Name: col.Name, Type: col.Type}
	}
	return out
}

// Geometry returns the geometry column values, or nil if the collection has
// no geometry column.
func (c *Collection) Geometry() []orb.Geometry {
	col, ok := c.Column(GeometryColumn)
	if !ok {
		return nil
	}
	return col.Geom
}

// Take returns a new collection holding the given rows of every column.
func (c *Collection) Take(rows []int) *Collection {
	out := NewCollection(c.Kind)
	out.Source = c.Source
	for _, col := range c.cols {
		// AddColumn cannot fail here: names stay unique and lengths agree.
		_ = out.AddColumn(col.Take(rows))
	}
	if len(c.cols) == 0 {
		out.nrows = 0
	}
	return out
}
