package joiner

import "fmt"

// Option is a function that configures a join operation
type Option func(*joinConfig) error

// joinConfig holds configuration for a join operation
type joinConfig struct {
	keys            []KeyPair
	direction       Direction
	geoSuffix       string
	tabSuffix       string
	reportUnmatched bool
	verbose         bool
}

func defaultConfig() joinConfig {
	return joinConfig{
		direction:       DirectionFull,
		geoSuffix:       "",
		tabSuffix:       "_SHAPE",
		reportUnmatched: true,
		verbose:         true,
	}
}

// WithKeys sets the join-key column pairs. At least one pair is required.
func WithKeys(pairs ...KeyPair) Option {
	return func(c *joinConfig) error {
		for _, p := range pairs {
			if p.Geometry == "" || p.Tabular == "" {
				return fmt.Errorf("join key pair must name both sides, got (%q, %q)", p.Geometry, p.Tabular)
			}
		}
		c.keys = append(c.keys, pairs...)
		return nil
	}
}

// WithKey sets a symmetric join key: the same column name on both sides.
func WithKey(name string) Option {
	return WithKeys(KeyPair{Geometry: name, Tabular: name})
}

// WithDirection sets the join direction. Default: DirectionFull.
func WithDirection(d Direction) Option {
	return func(c *joinConfig) error {
		if !IsValidDirection(string(d)) {
			return fmt.Errorf("invalid join direction %q; valid values: %v", d, ValidDirections())
		}
		c.direction = d
		return nil
	}
}

// WithSuffixes sets the suffixes applied to colliding non-key column names:
// geoSuffix for the geometry side, tabSuffix for the tabular side.
// Default: ("", "_SHAPE").
func WithSuffixes(geoSuffix, tabSuffix string) Option {
	return func(c *joinConfig) error {
		if geoSuffix == tabSuffix {
			return fmt.Errorf("suffix pair must differ, got (%q, %q)", geoSuffix, tabSuffix)
		}
		c.geoSuffix = geoSuffix
		c.tabSuffix = tabSuffix
		return nil
	}
}

// WithReportUnmatched controls unmatched-row reporting. Default: true.
func WithReportUnmatched(report bool) Option {
	return func(c *joinConfig) error {
		c.reportUnmatched = report
		return nil
	}
}

// WithVerbose controls diagnostic logging. Default: true.
func WithVerbose(verbose bool) Option {
	return func(c *joinConfig) error {
		c.verbose = verbose
		return nil
	}
}
