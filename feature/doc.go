// Package feature provides the in-memory geometric-collection model used
// throughout shapejoin.
//
// A [Collection] is a table pairing geometry values with named attribute
// columns of declared types (string, numeric, geometry). Loaders produce one
// collection per shapefile; [Union] merges collections with heterogeneous
// attribute schemas into one, filling absent columns with type-appropriate
// missing values and rejecting conflicting column types.
//
// Geometry values are github.com/paulmach/orb types. [Collection.GeoJSON]
// exports a collection as a GeoJSON feature collection for downstream
// mapping tools.
package feature
