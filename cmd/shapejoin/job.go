package main

import (
	"fmt"
	"os"
	"strings"

	yamlv4 "go.yaml.in/yaml/v4"
	yaml "gopkg.in/yaml.v3"

	"github.com/strevens/shapejoin/internal/fileutil"
	"github.com/strevens/shapejoin/internal/pathutil"
	"github.com/strevens/shapejoin/joiner"
)

// joinJob describes one complete join: inputs, keys, direction, and outputs.
// It is populated either from a YAML job file or from the join flags.
type joinJob struct {
	Boundaries  string       `yaml:"boundaries"`
	Layer       string       `yaml:"layer,omitempty"`
	Match       string       `yaml:"match,omitempty"`
	Table       string       `yaml:"table"`
	Keys        []joinJobKey `yaml:"keys"`
	Direction   string       `yaml:"direction,omitempty"`
	GeoSuffix   string       `yaml:"geo_suffix,omitempty"`
	TabSuffix   string       `yaml:"tab_suffix,omitempty"`
	NoUnmatched bool         `yaml:"no_unmatched,omitempty"`
	Output      string       `yaml:"output,omitempty"`
	Report      string       `yaml:"report,omitempty"`
}

type joinJobKey struct {
	Geometry string `yaml:"geometry"`
	Tabular  string `yaml:"tabular,omitempty"`
}

// loadJoinJob reads and decodes a YAML job file, applying defaults for
// omitted settings.
func loadJoinJob(path string) (*joinJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	job := &joinJob{}
	if err := yamlv4.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("decoding job file %s: %w", path, err)
	}
	if job.Direction == "" {
		job.Direction = string(joiner.DirectionFull)
	}
	if job.TabSuffix == "" {
		job.TabSuffix = "_SHAPE"
	}
	return job, nil
}

// jobFromFlags builds a job from the positional arguments and flags.
func jobFromFlags(boundaries, table string, flags *joinFlags) (*joinJob, error) {
	keys, err := parseKeys(flags.keys)
	if err != nil {
		return nil, err
	}
	return &joinJob{
		Boundaries:  boundaries,
		Layer:       flags.layer,
		Match:       flags.match,
		Table:       table,
		Keys:        keys,
		Direction:   flags.direction,
		GeoSuffix:   flags.geoSuffix,
		TabSuffix:   flags.tabSuffix,
		NoUnmatched: flags.noUnmatched,
		Output:      flags.output,
		Report:      flags.report,
	}, nil
}

// parseKeys parses the -keys flag value: a comma-separated list where each
// element is NAME or GEOMETRY=TABULAR.
func parseKeys(s string) ([]joinJobKey, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	keys := make([]joinJobKey, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty key in -keys value %q", s)
		}
		geo, tab, found := strings.Cut(part, "=")
		if !found {
			tab = geo
		}
		if geo == "" || tab == "" {
			return nil, fmt.Errorf("invalid key %q; expected NAME or GEOMETRY=TABULAR", part)
		}
		keys = append(keys, joinJobKey{Geometry: geo, Tabular: tab})
	}
	return keys, nil
}

func (j *joinJob) validate() error {
	if j.Boundaries == "" {
		return fmt.Errorf("boundaries path is required")
	}
	if j.Table == "" {
		return fmt.Errorf("table path is required")
	}
	if len(j.Keys) == 0 {
		return fmt.Errorf("at least one join key is required (use -keys or the job file keys list)")
	}
	for _, k := range j.Keys {
		if k.Geometry == "" {
			return fmt.Errorf("every join key must name its geometry-side column")
		}
	}
	if !joiner.IsValidDirection(j.Direction) {
		return fmt.Errorf("invalid direction '%s'. Valid directions: %v", j.Direction, joiner.ValidDirections())
	}
	return nil
}

func (j *joinJob) keyPairs() []joiner.KeyPair {
	pairs := make([]joiner.KeyPair, 0, len(j.Keys))
	for _, k := range j.Keys {
		tab := k.Tabular
		if tab == "" {
			tab = k.Geometry
		}
		pairs = append(pairs, joiner.KeyPair{Geometry: k.Geometry, Tabular: tab})
	}
	return pairs
}

// joinReport is the YAML report written after a join.
type joinReport struct {
	Boundaries string `yaml:"boundaries"`
	Table      string `yaml:"table"`
	Direction  string `yaml:"direction"`
	Stats      struct {
		GeometryRows          int `yaml:"geometry_rows"`
		TabularRows           int `yaml:"tabular_rows"`
		ResultRows            int `yaml:"result_rows"`
		MatchedKeys           int `yaml:"matched_keys"`
		UnmatchedGeometryRows int `yaml:"unmatched_geometry_rows"`
		UnmatchedTabularRows  int `yaml:"unmatched_tabular_rows"`
	} `yaml:"stats"`
	Columns  []string `yaml:"columns"`
	Warnings []string `yaml:"warnings,omitempty"`
}

func buildJoinReport(result *joiner.JoinResult, job *joinJob) *joinReport {
	report := &joinReport{
		Boundaries: job.Boundaries,
		Table:      job.Table,
		Direction:  job.Direction,
		Columns:    result.Data.ColumnNames(),
	}
	report.Stats.GeometryRows = result.Stats.GeometryRows
	report.Stats.TabularRows = result.Stats.TabularRows
	report.Stats.ResultRows = result.Stats.ResultRows
	report.Stats.MatchedKeys = result.Stats.MatchedKeys
	report.Stats.UnmatchedGeometryRows = result.Stats.UnmatchedGeometryRows
	report.Stats.UnmatchedTabularRows = result.Stats.UnmatchedTabularRows
	for _, w := range result.Warnings {
		report.Warnings = append(report.Warnings, w.Message)
	}
	return report
}

func writeJoinReport(result *joiner.JoinResult, job *joinJob, path string) error {
	clean, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return fmt.Errorf("invalid report path: %w", err)
	}
	data, err := yaml.Marshal(buildJoinReport(result, job))
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(clean, data, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	return nil
}
