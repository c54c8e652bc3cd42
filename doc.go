// Package shapejoin provides tools for loading geospatial boundary shapefiles
// and joining them to tabular survey-extract data.
//
// Boundary files are distributed alongside statistical extracts as bare
// shapefiles, zip archives of shapefiles, or zip archives of zip archives
// (one archive per layer). shapejoin normalizes any of these into a single
// in-memory geometric collection and joins it to a tabular dataset on shared
// geographic identifiers.
//
// # Overview
//
// The library consists of these primary packages:
//
//   - loader: Resolve, decode, and load boundary files into a feature.Collection
//   - feature: The geometric-collection data model and schema-aware union
//   - joiner: Join a geometric collection to a tabular dataset by key
//   - tabular: The tabular survey-extract dataset consumed by the joiner
//   - archive: Archive discovery and scoped extraction of shapefile sets
//   - cpg: Character-encoding detection from shapefile .cpg companions
//   - sjerrors: Structured error types shared across the library
//
// # Quick Start
//
// Load boundaries from a zip archive of shapefiles:
//
//	import "github.com/strevens/shapejoin/loader"
//
//	coll, err := loader.LoadBoundaries("boundaries.zip")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("loaded %d boundaries\n", coll.Len())
//
// Join the boundaries to a tabular extract:
//
//	import "github.com/strevens/shapejoin/joiner"
//
//	result, err := joiner.Join(coll, extract,
//		joiner.WithKeys(joiner.KeyPair{Geometry: "GISJOIN", Tabular: "GISJOIN"}),
//		joiner.WithDirection(joiner.DirectionInner),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("joined %d rows\n", result.Data.Len())
//
// Unmatched rows on either side of the join are reported, not fatal: when
// requested, the result carries the unmatched subsets from both sides as
// auxiliary data so callers can inspect identifier mismatches.
package shapejoin
