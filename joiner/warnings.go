package joiner

import "fmt"

// WarningCategory identifies the type of warning.
type WarningCategory string

const (
	// WarnUnmatchedRows indicates that rows on one or both sides had no
	// match and were reported as auxiliary subsets.
	WarnUnmatchedRows WarningCategory = "unmatched_rows"
	// WarnDuplicateKeys indicates that a join side carries duplicate key
	// values, so matched rows multiply in the result.
	WarnDuplicateKeys WarningCategory = "duplicate_keys"
)

// JoinWarning represents a structured warning from the joiner package.
// It provides context about non-fatal issues encountered during a join.
type JoinWarning struct {
	// Category identifies the type of warning.
	Category WarningCategory
	// Message is a human-readable description.
	Message string
	// Context provides additional details.
	Context map[string]any
}

// String returns the formatted warning message.
func (w JoinWarning) String() string {
	return w.Message
}

// NewUnmatchedRowsWarning creates a warning for rows left unmatched by the
// join, counted per side.
func NewUnmatchedRowsWarning(geometryOnly, tabularOnly int) JoinWarning {
	return JoinWarning{
		Category: WarnUnmatchedRows,
		Message: fmt.Sprintf("join left %d geometry row(s) and %d tabular row(s) unmatched",
			geometryOnly, tabularOnly),
		Context: map[string]any{
			"unmatched_geometry_rows": geometryOnly,
			"unmatched_tabular_rows":  tabularOnly,
		},
	}
}

// NewDuplicateKeysWarning creates a warning for duplicate join-key values
// on one side of the join.
func NewDuplicateKeysWarning(side string, groups int) JoinWarning {
	return JoinWarning{
		Category: WarnDuplicateKeys,
		Message: fmt.Sprintf("%s dataset carries %d duplicate join-key group(s); matched rows will multiply",
			side, groups),
		Context: map[string]any{
			"side":             side,
			"duplicate_groups": groups,
		},
	}
}
