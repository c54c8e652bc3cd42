package joiner

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/strevens/shapejoin/feature"
	"github.com/strevens/shapejoin/tabular"
)

// assemble builds the joined collection from the computed row pairs: one
// merged copy of each key column, the geometry-side columns, then the
// tabular columns, with name collisions between the sides disambiguated by
// the configured suffix pair.
func assemble(geo *feature.Collection, tab *tabular.Dataset, rec *reconciled,
	cfg joinConfig, pairs []rowPair) (*feature.Collection, error) {

	keyGeo := make(map[string]bool, len(cfg.keys))
	keyTab := make(map[string]bool, len(cfg.keys))
	for _, k := range cfg.keys {
		keyGeo[k.Geometry] = true
		keyTab[k.Tabular] = true
	}
	tabNonKey := make(map[string]bool)
	for _, col := range tab.Columns() {
		if !keyTab[col.Name] {
			tabNonKey[col.Name] = true
		}
	}

	out := feature.NewCollection(geo.Kind)

	// Key columns appear once, under the geometry-side name, with values
	// taken from whichever side is present for the row.
	for i, k := range cfg.keys {
		col := mergeKeyColumn(k.Geometry, rec.geometry[i], rec.tabular[i], pairs)
		if err := out.AddColumn(col); err != nil {
			return nil, err
		}
	}

	for _, col := range geo.Columns() {
		if keyGeo[col.Name] {
			continue
		}
		name := col.Name
		if tabNonKey[name] {
			name += cfg.geoSuffix
		}
		if err := out.AddColumn(takeSide(col, name, pairs, true)); err != nil {
			return nil, fmt.Errorf("geometry-side column %q: %w", col.Name, err)
		}
	}

	for _, tcol := range tab.Columns() {
		if keyTab[tcol.Name] {
			continue
		}
		col := fromTabular(tcol)
		name := col.Name
		if _, exists := out.Column(name); exists {
			name += cfg.tabSuffix
		}
		if _, exists := out.Column(name); exists {
			return nil, fmt.Errorf("column %q collides on both sides and the suffix pair (%q, %q) cannot disambiguate it",
				tcol.Name, cfg.geoSuffix, cfg.tabSuffix)
		}
		if err := out.AddColumn(takeSide(col, name, pairs, false)); err != nil {
			return nil, fmt.Errorf("tabular-side column %q: %w", tcol.Name, err)
		}
	}
	return out, nil
}

// mergeKeyColumn builds the single result key column from the reconciled
// pair of key columns.
func mergeKeyColumn(name string, g, t *feature.Column, pairs []rowPair) *feature.Column {
	out := &feature.Column{Name: name, Type: g.Type, Label: g.Label, ValueLabels: g.ValueLabels}
	switch g.Type {
	case feature.TypeNumeric:
		out.Num = make([]float64, len(pairs))
		for i, p := range pairs {
			if p.geo >= 0 {
				out.Num[i] = g.Num[p.geo]
			} else {
				out.Num[i] = t.Num[p.tab]
			}
		}
	default:
		out.Str = make([]string, len(pairs))
		for i, p := range pairs {
			if p.geo >= 0 {
				out.Str[i] = g.Str[p.geo]
			} else {
				out.Str[i] = t.Str[p.tab]
			}
		}
	}
	return out
}

// takeSide projects one side's column onto the result rows, filling the
// type-appropriate missing value where the side has no row.
func takeSide(col *feature.Column, name string, pairs []rowPair, geoSide bool) *feature.Column {
	out := &feature.Column{Name: name, Type: col.Type, Label: col.Label, ValueLabels: col.ValueLabels}
	idx := func(p rowPair) int {
		if geoSide {
			return p.geo
		}
		return p.tab
	}
	switch col.Type {
	case feature.TypeString:
		out.Str = make([]string, len(pairs))
		for i, p := range pairs {
			if j := idx(p); j >= 0 {
				out.Str[i] = col.Str[j]
			}
		}
	case feature.TypeNumeric:
		out.Num = make([]float64, len(pairs))
		for i, p := range pairs {
			if j := idx(p); j >= 0 {
				out.Num[i] = col.Num[j]
			} else {
				out.Num[i] = math.NaN()
			}
		}
	case feature.TypeGeometry:
		out.Geom = make([]orb.Geometry, len(pairs))
		for i, p := range pairs {
			if j := idx(p); j >= 0 {
				out.Geom[i] = col.Geom[j]
			}
		}
	}
	return out
}
