// Package joiner provides relational joining of a geometric collection to a
// tabular dataset.
//
// The joiner matches rows on one or more key column pairs, reconciling a
// string-vs-numeric type split between the sides by parsing the string side
// as numeric literals. Rows left unmatched on either side are an expected
// outcome: they are returned as auxiliary subsets alongside a warning, never
// merged into the main result and never fatal.
//
// # Quick Start
//
// Join on a shared identifier column using functional options:
//
//	result, err := joiner.Join(boundaries, income,
//		joiner.WithKey("GEOID"),
//		joiner.WithDirection(joiner.DirectionInner),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//		log.Println(w)
//	}
//
// # Directions
//
// The tabular dataset is the logical left operand:
//   - DirectionFull: preserve rows from both sides (default)
//   - DirectionInner: keep only matched rows
//   - DirectionLeft: preserve every tabular row
//   - DirectionRight: preserve every geometry row
//
// # Column Naming
//
// Each key pair appears once in the result, under its geometry-side name.
// Non-key columns sharing a name across the sides are disambiguated by the
// configured suffix pair; by default the geometry side keeps the bare name
// and the tabular column gains "_SHAPE".
package joiner
