// Package loader turns a boundary input path into a single geometric
// collection: it resolves the archive structure, detects per-file character
// encodings, loads each resolved file through the geometry backend, and
// unions the results.
package loader

import (
	"log/slog"

	"github.com/strevens/shapejoin/archive"
	"github.com/strevens/shapejoin/cpg"
	"github.com/strevens/shapejoin/feature"
	"github.com/strevens/shapejoin/sjerrors"
)

// loaderLogger is used for verbose progress output.
// Tests can replace this with a discard logger to suppress expected chatter.
var loaderLogger = slog.Default()

// Option configures a load operation.
type Option func(*config)

type config struct {
	layer         archive.Selector
	allowMultiple bool
	backend       Backend
	verbose       bool
}

// WithLayer restricts which archive entries are considered. The default
// selects everything; see the archive package for the selection convention.
func WithLayer(sel archive.Selector) Option {
	return func(c *config) { c.layer = sel }
}

// WithAllowMultiple controls whether the layer selection may match more than
// one entry. Default: true.
func WithAllowMultiple(allow bool) Option {
	return func(c *config) { c.allowMultiple = allow }
}

// WithBackend injects the geometry backend. Default: [ShapefileBackend].
func WithBackend(b Backend) Option {
	return func(c *config) { c.backend = b }
}

// WithVerbose controls progress logging. Default: true.
func WithVerbose(verbose bool) Option {
	return func(c *config) { c.verbose = verbose }
}

// LoadBoundaries loads every boundary layer behind path into one geometric
// collection. The scoped extraction directory used for archive inputs is
// always removed before returning, on success and on error.
func LoadBoundaries(path string, opts ...Option) (*feature.Collection, error) {
	cfg := config{allowMultiple: true, backend: ShapefileBackend{}, verbose: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	set, err := archive.Resolve(path, cfg.layer, cfg.allowMultiple)
	if err != nil {
		return nil, err
	}
	defer set.Close()

	collections := make([]*feature.Collection, 0, len(set.Paths))
	for _, p := range set.Paths {
		enc, err := cpg.Detect(p)
		if err != nil {
			return nil, &sjerrors.GeometryLoadError{Path: p, Cause: err}
		}
		if cfg.verbose {
			loaderLogger.Info("loading boundary file", "path", p, "encoding", enc.Name)
		}
		coll, err := cfg.backend.Read(p, enc.Encoding)
		if err != nil {
			return nil, &sjerrors.GeometryLoadError{Path: p, Cause: err}
		}
		collections = append(collections, coll)
	}

	merged, err := feature.Union(collections)
	if err != nil {
		return nil, err
	}
	if cfg.verbose {
		loaderLogger.Info("loaded boundaries",
			"files", len(set.Paths), "rows", merged.Len(), "columns", len(merged.Columns()))
	}
	return merged, nil
}
