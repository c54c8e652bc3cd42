package joiner

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/strevens/shapejoin/feature"
	"github.com/strevens/shapejoin/sjerrors"
	"github.com/strevens/shapejoin/tabular"
)

// joinerLogger is used for diagnostics in join functions.
// Tests can replace this with a discard logger to suppress expected warnings.
var joinerLogger = slog.Default()

// Direction selects the relational join semantics. Left and right are
// defined with the tabular dataset as the logical left side: left preserves
// every tabular row, right preserves every geometry row.
type Direction string

const (
	// DirectionFull preserves rows from both sides.
	DirectionFull Direction = "full"
	// DirectionInner keeps only rows with matching keys on both sides.
	DirectionInner Direction = "inner"
	// DirectionLeft preserves every tabular row.
	DirectionLeft Direction = "left"
	// DirectionRight preserves every geometry row.
	DirectionRight Direction = "right"
)

// ValidDirections returns all valid direction strings.
func ValidDirections() []string {
	return []string{
		string(DirectionFull),
		string(DirectionInner),
		string(DirectionLeft),
		string(DirectionRight),
	}
}

// IsValidDirection checks if a direction string is valid.
func IsValidDirection(direction string) bool {
	switch Direction(direction) {
	case DirectionFull, DirectionInner, DirectionLeft, DirectionRight:
		return true
	default:
		return false
	}
}

// KeyPair names the join-key column on each side. Geometry and Tabular may
// be the same name or a renaming pair.
type KeyPair struct {
	Geometry string
	Tabular  string
}

// JoinStats summarizes a join for diagnostics.
type JoinStats struct {
	// GeometryRows is the input geometry-side row count.
	GeometryRows int
	// TabularRows is the input tabular-side row count.
	TabularRows int
	// ResultRows is the joined row count.
	ResultRows int
	// MatchedKeys is the number of distinct keys present on both sides.
	MatchedKeys int
	// UnmatchedGeometryRows is the number of geometry rows with no tabular match.
	UnmatchedGeometryRows int
	// UnmatchedTabularRows is the number of tabular rows with no geometry match.
	UnmatchedTabularRows int
}

// JoinResult contains the joined collection and join metadata. Unmatched-row
// subsets are auxiliary data, never merged into the main row set, and are
// populated only when unmatched reporting is enabled and the subset is
// non-empty.
type JoinResult struct {
	// Data is the joined geometric collection.
	Data *feature.Collection
	// UnmatchedGeometry holds geometry rows whose key has no tabular match.
	UnmatchedGeometry *feature.Collection
	// UnmatchedTabular holds tabular rows whose key has no geometry match.
	UnmatchedTabular *tabular.Dataset
	// Warnings lists non-fatal issues encountered during the join.
	Warnings []JoinWarning
	// Stats summarizes the join.
	Stats JoinStats
}

// rowPair is one result row: indices into the tabular and geometry sides,
// -1 when the side has no row.
type rowPair struct {
	tab int
	geo int
}

// Join joins a geometric collection to a tabular dataset on the configured
// keys. Key columns whose declared types differ between the sides are
// reconciled by numeric coercion first; rows left unmatched on either side
// are reported, not fatal.
func Join(geo *feature.Collection, tab *tabular.Dataset, opts ...Option) (*JoinResult, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if len(cfg.keys) == 0 {
		return nil, fmt.Errorf("no join keys configured")
	}

	if err := validateKeys(geo, tab, cfg.keys); err != nil {
		return nil, err
	}

	rec, err := reconcile(geo, tab, cfg.keys)
	if err != nil {
		return nil, err
	}

	geoKeys := keyStrings(rec.geometry, geo.Len())
	tabKeys := keyStrings(rec.tabular, tab.Len())

	geoIndex := indexRows(geoKeys)
	tabIndex := indexRows(tabKeys)

	result := &JoinResult{Stats: JoinStats{GeometryRows: geo.Len(), TabularRows: tab.Len()}}
	checkDuplicates(result, "geometry", geoIndex)
	checkDuplicates(result, "tabular", tabIndex)

	pairs := buildPairs(cfg.direction, tabKeys, geoKeys, tabIndex, geoIndex)

	data, err := assemble(geo, tab, rec, cfg, pairs)
	if err != nil {
		return nil, err
	}
	result.Data = data
	result.Stats.ResultRows = data.Len()
	result.Stats.MatchedKeys = countMatched(geoIndex, tabIndex)

	if cfg.reportUnmatched {
		reportUnmatched(result, geo, tab, geoKeys, tabKeys, geoIndex, tabIndex, cfg.verbose)
	}
	return result, nil
}

// validateKeys checks every key name exists on its side before any work.
func validateKeys(geo *feature.Collection, tab *tabular.Dataset, keys []KeyPair) error {
	var missingGeo, missingTab []string
	for _, k := range keys {
		if _, ok := geo.Column(k.Geometry); !ok {
			missingGeo = append(missingGeo, k.Geometry)
		}
		if _, ok := tab.Column(k.Tabular); !ok {
			missingTab = append(missingTab, k.Tabular)
		}
	}
	if len(missingGeo) > 0 {
		return &sjerrors.UnknownKeyError{Side: "geometry", Columns: missingGeo}
	}
	if len(missingTab) > 0 {
		return &sjerrors.UnknownKeyError{Side: "tabular", Columns: missingTab}
	}
	return nil
}

// keySep separates the parts of a composite key. Unit separator never
// appears in geographic identifiers.
const keySep = "\x1f"

func keyStrings(keyCols []*feature.Column, n int) []string {
	out := make([]string, n)
	parts := make([]string, len(keyCols))
	for i := 0; i < n; i++ {
		for j, col := range keyCols {
			parts[j] = col.StringValue(i)
		}
		out[i] = strings.Join(parts, keySep)
	}
	return out
}

func indexRows(keys []string) map[string][]int {
	idx := make(map[string][]int, len(keys))
	for i, k := range keys {
		idx[k] = append(idx[k], i)
	}
	return idx
}

// checkDuplicates warns when a side holds duplicated keys. The threshold
// deliberately tolerates exactly one duplicated key group, matching the
// long-standing behavior of the uniqueness check this replaces.
func checkDuplicates(result *JoinResult, side string, index map[string][]int) {
	groups := 0
	for _, rows := range index {
		if len(rows) > 1 {
			groups++
		}
	}
	if groups > 1 {
		result.Warnings = append(result.Warnings, NewDuplicateKeysWarning(side, groups))
	}
}

// buildPairs computes the result rows for the chosen direction with the
// tabular dataset as the logical left operand.
func buildPairs(direction Direction, tabKeys, geoKeys []string, tabIndex, geoIndex map[string][]int) []rowPair {
	var pairs []rowPair

	// Tabular-major passes cover inner, left, and the left half of full.
	if direction != DirectionRight {
		for t, key := range tabKeys {
			matches := geoIndex[key]
			if len(matches) == 0 {
				if direction == DirectionLeft || direction == DirectionFull {
					pairs = append(pairs, rowPair{tab: t, geo: -1})
				}
				continue
			}
			for _, g := range matches {
				pairs = append(pairs, rowPair{tab: t, geo: g})
			}
		}
	}

	switch direction {
	case DirectionRight:
		for g, key := range geoKeys {
			matches := tabIndex[key]
			if len(matches) == 0 {
				pairs = append(pairs, rowPair{tab: -1, geo: g})
				continue
			}
			for _, t := range matches {
				pairs = append(pairs, rowPair{tab: t, geo: g})
			}
		}
	case DirectionFull:
		for g, key := range geoKeys {
			if len(tabIndex[key]) == 0 {
				pairs = append(pairs, rowPair{tab: -1, geo: g})
			}
		}
	}
	return pairs
}

func countMatched(geoIndex, tabIndex map[string][]int) int {
	n := 0
	for key := range geoIndex {
		if len(tabIndex[key]) > 0 {
			n++
		}
	}
	return n
}

// reportUnmatched attaches the unmatched subsets from both sides when either
// is non-empty and emits a diagnostic with the counts. Partial mismatch is
// an expected, reportable outcome, never an error.
func reportUnmatched(result *JoinResult, geo *feature.Collection, tab *tabular.Dataset,
	geoKeys, tabKeys []string, geoIndex, tabIndex map[string][]int, verbose bool) {

	var geoOnly, tabOnly []int
	for i, key := range geoKeys {
		if len(tabIndex[key]) == 0 {
			geoOnly = append(geoOnly, i)
		}
	}
	for i, key := range tabKeys {
		if len(geoIndex[key]) == 0 {
			tabOnly = append(tabOnly, i)
		}
	}

	result.Stats.UnmatchedGeometryRows = len(geoOnly)
	result.Stats.UnmatchedTabularRows = len(tabOnly)
	if len(geoOnly) == 0 && len(tabOnly) == 0 {
		return
	}

	result.UnmatchedGeometry = geo.Take(geoOnly)
	result.UnmatchedTabular = tab.Take(tabOnly)
	result.Warnings = append(result.Warnings, NewUnmatchedRowsWarning(len(geoOnly), len(tabOnly)))
	if verbose {
		joinerLogger.Warn("join left rows unmatched",
			"geometry_only", len(geoOnly), "tabular_only", len(tabOnly))
	}
}
