package joiner

import (
	"github.com/strevens/shapejoin/feature"
	"github.com/strevens/shapejoin/internal/coerce"
	"github.com/strevens/shapejoin/sjerrors"
	"github.com/strevens/shapejoin/tabular"
)

// reconciled holds the key columns of both sides after type reconciliation,
// in key-spec order. Tabular key columns are carried as feature columns so
// keying treats both sides uniformly.
type reconciled struct {
	geometry []*feature.Column
	tabular  []*feature.Column
}

// reconcile aligns the declared type of every key pair. Same-kind pairs pass
// through; string-vs-numeric pairs get the string side coerced to numeric.
// Pairs that cannot be reconciled are collected and reported together.
// Reconciled columns are fresh values carrying both sides' merged metadata;
// the input columns are never mutated.
func reconcile(geo *feature.Collection, tab *tabular.Dataset, keys []KeyPair) (*reconciled, error) {
	rec := &reconciled{
		geometry: make([]*feature.Column, 0, len(keys)),
		tabular:  make([]*feature.Column, 0, len(keys)),
	}
	var failed []sjerrors.KeyPairRef

	for _, k := range keys {
		gcol, _ := geo.Column(k.Geometry)
		tcolRaw, _ := tab.Column(k.Tabular)
		tcol := fromTabular(tcolRaw)

		g, t, ok := reconcilePair(gcol, tcol)
		if !ok {
			failed = append(failed, sjerrors.KeyPairRef{Geometry: k.Geometry, Tabular: k.Tabular})
			continue
		}

		label, valueLabels := mergeMeta(g, t)
		g.Label, t.Label = label, label
		g.ValueLabels, t.ValueLabels = valueLabels, valueLabels

		rec.geometry = append(rec.geometry, g)
		rec.tabular = append(rec.tabular, t)
	}

	if len(failed) > 0 {
		return nil, &sjerrors.KeyTypeMismatchError{Pairs: failed}
	}
	return rec, nil
}

// reconcilePair returns fresh copies of both columns with matching types, or
// ok=false when the pair cannot be reconciled.
func reconcilePair(g, t *feature.Column) (*feature.Column, *feature.Column, bool) {
	if g.Type == feature.TypeGeometry {
		return nil, nil, false
	}
	if g.Type == t.Type {
		return g.Clone(), t.Clone(), true
	}
	if g.Type == feature.TypeString && t.Type == feature.TypeNumeric {
		coerced, ok := coerceColumn(g)
		return coerced, t.Clone(), ok
	}
	if g.Type == feature.TypeNumeric && t.Type == feature.TypeString {
		coerced, ok := coerceColumn(t)
		return g.Clone(), coerced, ok
	}
	return nil, nil, false
}

// coerceColumn retypes a string column as numeric via best-effort literal
// parsing. ok is false when any value fails to parse.
func coerceColumn(c *feature.Column) (*feature.Column, bool) {
	nums, bad := coerce.Column(c.Str)
	if len(bad) > 0 {
		return nil, false
	}
	out := c.Clone()
	out.Type = feature.TypeNumeric
	out.Str = nil
	out.Num = nums
	return out, true
}

// mergeMeta merges both sides' column metadata. The tabular side wins on any
// collision, being the more information-rich source.
func mergeMeta(g, t *feature.Column) (string, map[string]string) {
	label := g.Label
	if t.Label != "" {
		label = t.Label
	}

	if g.ValueLabels == nil && t.ValueLabels == nil {
		return label, nil
	}
	merged := make(map[string]string, len(g.ValueLabels)+len(t.ValueLabels))
	for k, v := range g.ValueLabels {
		merged[k] = v
	}
	for k, v := range t.ValueLabels {
		merged[k] = v
	}
	return label, merged
}

// fromTabular views a tabular column as a feature column without copying
// values.
func fromTabular(c *tabular.Column) *feature.Column {
	out := &feature.Column{Name: c.Name, Label: c.Label, ValueLabels: c.ValueLabels}
	if c.Kind == tabular.KindNumeric {
		out.Type = feature.TypeNumeric
		out.Num = c.Num
		return out
	}
	out.Type = feature.TypeString
	out.Str = c.Str
	return out
}
