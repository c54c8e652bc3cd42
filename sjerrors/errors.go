// Package sjerrors provides structured error types for shapejoin.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - UnsupportedFormatError: input path is neither an archive nor a geometry file
//   - AmbiguousSelectionError: a layer filter matched more than one candidate
//   - MalformedArchiveError: an archive holds no usable shapefile contents
//   - GeometryLoadError: the geometry backend failed to read a shapefile
//   - SchemaConflictError: the same column is declared with conflicting types
//   - ColumnTypeError: a column has a type outside the supported set
//   - KeyTypeMismatchError: join keys could not be reconciled across sides
//   - UnknownKeyError: a join key is missing from one side
//
// # Usage with errors.Is
//
//	coll, err := loader.LoadBoundaries("boundaries.zip")
//	if err != nil {
//	    var selErr *sjerrors.AmbiguousSelectionError
//	    if errors.As(err, &selErr) {
//	        // Present selErr.Matches to the user for layer selection
//	    }
//	}
package sjerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrUnsupportedFormat indicates an input path with an unrecognized extension.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrAmbiguousSelection indicates a layer filter matched more than one candidate.
	ErrAmbiguousSelection = errors.New("ambiguous layer selection")

	// ErrMalformedArchive indicates an archive without usable shapefile contents.
	ErrMalformedArchive = errors.New("malformed archive")

	// ErrGeometryLoad indicates the geometry backend failed to read a file.
	ErrGeometryLoad = errors.New("geometry load failure")

	// ErrSchemaConflict indicates conflicting column types across collections.
	ErrSchemaConflict = errors.New("schema type conflict")

	// ErrColumnType indicates a column type outside the supported set.
	ErrColumnType = errors.New("unsupported column type")

	// ErrKeyTypeMismatch indicates join keys that could not be reconciled.
	ErrKeyTypeMismatch = errors.New("join key type mismatch")

	// ErrUnknownKey indicates a join key missing from one side of the join.
	ErrUnknownKey = errors.New("unknown join key")
)

// UnsupportedFormatError indicates that an input path does not carry a
// recognized archive or geometry-file extension.
type UnsupportedFormatError struct {
	// Path is the offending input path
	Path string
	// Extension is the terminal extension that was not recognized
	Extension string
}

// Error returns a human-readable error message.
func (e *UnsupportedFormatError) Error() string {
	msg := "unsupported input format"
	if e.Extension != "" {
		msg += fmt.Sprintf(" %q", e.Extension)
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// AmbiguousSelectionError indicates that a layer filter matched more than one
// candidate entry in an archive while multiple selection was disallowed.
type AmbiguousSelectionError struct {
	// Archive is the archive that was being resolved
	Archive string
	// Matches lists every candidate entry that matched the filter
	Matches []string
}

// Error returns a human-readable error message.
func (e *AmbiguousSelectionError) Error() string {
	msg := fmt.Sprintf("ambiguous layer selection: %d entries match", len(e.Matches))
	if e.Archive != "" {
		msg += " in " + e.Archive
	}
	if len(e.Matches) > 0 {
		msg += ": " + strings.Join(e.Matches, ", ")
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *AmbiguousSelectionError) Is(target error) bool {
	return target == ErrAmbiguousSelection
}

// MalformedArchiveError indicates an archive that contains neither nested
// archives nor shapefile entries, or one missing required companion files.
type MalformedArchiveError struct {
	// Path is the archive path
	Path string
	// Message describes what was missing or wrong
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MalformedArchiveError) Error() string {
	msg := "malformed archive"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MalformedArchiveError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *MalformedArchiveError) Is(target error) bool {
	return target == ErrMalformedArchive
}

// GeometryLoadError indicates that the geometry backend failed to read a
// shapefile. The offending path is always attached.
type GeometryLoadError struct {
	// Path is the geometry file that failed to load
	Path string
	// Cause is the backend error
	Cause error
}

// Error returns a human-readable error message.
func (e *GeometryLoadError) Error() string {
	msg := "geometry load failure"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *GeometryLoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *GeometryLoadError) Is(target error) bool {
	return target == ErrGeometryLoad
}

// SchemaConflictError indicates that a column name is declared with more than
// one distinct type across the collections being unioned.
type SchemaConflictError struct {
	// Column is the conflicting column name
	Column string
	// Types lists the distinct declared types observed for the column
	Types []string
}

// Error returns a human-readable error message.
func (e *SchemaConflictError) Error() string {
	msg := fmt.Sprintf("schema type conflict on column %q", e.Column)
	if len(e.Types) > 0 {
		msg += ": declared as " + strings.Join(e.Types, " and ")
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *SchemaConflictError) Is(target error) bool {
	return target == ErrSchemaConflict
}

// ColumnTypeError indicates a column whose declared type is outside the
// supported set of string, numeric, and geometry.
type ColumnTypeError struct {
	// Column is the offending column name
	Column string
	// Type is the unsupported declared type
	Type string
}

// Error returns a human-readable error message.
func (e *ColumnTypeError) Error() string {
	return fmt.Sprintf("unsupported column type %q on column %q", e.Type, e.Column)
}

// Is reports whether target matches this error type.
func (e *ColumnTypeError) Is(target error) bool {
	return target == ErrColumnType
}

// KeyPairRef names one failed key pair as "geometry-column -> tabular-column".
type KeyPairRef struct {
	// Geometry is the geometry-side column name
	Geometry string
	// Tabular is the tabular-side column name
	Tabular string
}

// String returns the "geometry -> tabular" rendering of the pair.
func (k KeyPairRef) String() string {
	return k.Geometry + " -> " + k.Tabular
}

// KeyTypeMismatchError indicates join-key pairs whose types differ between the
// geometry side and the tabular side and could not be reconciled by numeric
// coercion. Every failed pair is listed.
type KeyTypeMismatchError struct {
	// Pairs lists every key pair that failed reconciliation
	Pairs []KeyPairRef
}

// Error returns a human-readable error message.
func (e *KeyTypeMismatchError) Error() string {
	parts := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		parts[i] = p.String()
	}
	return "join key type mismatch: " + strings.Join(parts, ", ")
}

// Is reports whether target matches this error type.
func (e *KeyTypeMismatchError) Is(target error) bool {
	return target == ErrKeyTypeMismatch
}

// UnknownKeyError indicates join keys that are missing from one side of the
// join. Side is "geometry" or "tabular".
type UnknownKeyError struct {
	// Side names the side the keys were expected on
	Side string
	// Columns lists the missing key column names
	Columns []string
}

// Error returns a human-readable error message.
func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown join key on %s side: %s", e.Side, strings.Join(e.Columns, ", "))
}

// Is reports whether target matches this error type.
func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey
}
