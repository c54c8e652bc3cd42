package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/strevens/shapejoin/joiner"
	"github.com/strevens/shapejoin/tabular"
)

type joinKeyInput struct {
	Geometry string `json:"geometry"          jsonschema:"Key column name on the geometry side"`
	Tabular  string `json:"tabular,omitempty" jsonschema:"Key column name on the tabular side; defaults to the geometry name"`
}

type joinInput struct {
	boundaryInput
	CSV       string         `json:"csv"                  jsonschema:"Path to the tabular CSV file to join"`
	Keys      []joinKeyInput `json:"keys"                 jsonschema:"Join key column pairs (minimum 1)"`
	Direction string         `json:"direction,omitempty"  jsonschema:"Join direction: full or inner or left or right. Tabular is the logical left side."`
	GeoSuffix string         `json:"geo_suffix,omitempty" jsonschema:"Suffix for colliding geometry-side column names"`
	TabSuffix string         `json:"tab_suffix,omitempty" jsonschema:"Suffix for colliding tabular-side column names"`
	Output    string         `json:"output,omitempty"     jsonschema:"File path to write the joined collection as GeoJSON. If omitted only the summary is returned."`
}

type joinWarning struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type joinOutput struct {
	RowCount              int                 `json:"row_count"`
	MatchedKeys           int                 `json:"matched_keys"`
	UnmatchedGeometryRows int                 `json:"unmatched_geometry_rows"`
	UnmatchedTabularRows  int                 `json:"unmatched_tabular_rows"`
	Columns               []columnSummary     `json:"columns"`
	Preview               []map[string]string `json:"preview,omitempty"`
	Warnings              []joinWarning       `json:"warnings,omitempty"`
	WrittenTo             string              `json:"written_to,omitempty"`
	Summary               string              `json:"summary"`
}

func handleSpatialJoin(_ context.Context, _ *mcp.CallToolRequest, input joinInput) (*mcp.CallToolResult, joinOutput, error) {
	// Apply config defaults.
	if input.Direction == "" {
		input.Direction = cfg.JoinDirection
	}
	if input.GeoSuffix == "" {
		input.GeoSuffix = cfg.GeoSuffix
	}
	if input.TabSuffix == "" {
		input.TabSuffix = cfg.TabSuffix
	}

	if len(input.Keys) == 0 {
		return errResult(fmt.Errorf("at least 1 join key is required")), joinOutput{}, nil
	}
	if input.CSV == "" {
		return errResult(fmt.Errorf("csv is required")), joinOutput{}, nil
	}
	if !joiner.IsValidDirection(input.Direction) {
		return errResult(fmt.Errorf("invalid direction %q; valid values: %v",
			input.Direction, joiner.ValidDirections())), joinOutput{}, nil
	}

	coll, err := input.load()
	if err != nil {
		return errResult(err), joinOutput{}, nil
	}

	f, err := os.Open(input.CSV)
	if err != nil {
		return errResult(fmt.Errorf("opening csv: %w", err)), joinOutput{}, nil
	}
	dataset, err := tabular.FromCSV(f)
	closeErr := f.Close()
	if err != nil {
		return errResult(fmt.Errorf("reading csv: %w", err)), joinOutput{}, nil
	}
	if closeErr != nil {
		return errResult(closeErr), joinOutput{}, nil
	}

	pairs := make([]joiner.KeyPair, 0, len(input.Keys))
	for _, k := range input.Keys {
		tab := k.Tabular
		if tab == "" {
			tab = k.Geometry
		}
		pairs = append(pairs, joiner.KeyPair{Geometry: k.Geometry, Tabular: tab})
	}

	result, err := joiner.Join(coll, dataset,
		joiner.WithKeys(pairs...),
		joiner.WithDirection(joiner.Direction(input.Direction)),
		joiner.WithSuffixes(input.GeoSuffix, input.TabSuffix),
		joiner.WithVerbose(cfg.Verbose),
	)
	if err != nil {
		return errResult(err), joinOutput{}, nil
	}

	output := joinOutput{
		RowCount:              result.Stats.ResultRows,
		MatchedKeys:           result.Stats.MatchedKeys,
		UnmatchedGeometryRows: result.Stats.UnmatchedGeometryRows,
		UnmatchedTabularRows:  result.Stats.UnmatchedTabularRows,
		Columns:               summarizeColumns(result.Data),
		Preview:               previewRows(result.Data),
	}
	for _, w := range result.Warnings {
		output.Warnings = append(output.Warnings, joinWarning{
			Category: string(w.Category),
			Message:  w.Message,
		})
	}

	if input.Output != "" {
		written, err := writeGeoJSON(result.Data, input.Output)
		if err != nil {
			return errResult(err), joinOutput{}, nil
		}
		output.WrittenTo = written
	}

	output.Summary = buildJoinSummary(input.Direction, output)
	return nil, output, nil
}

func buildJoinSummary(direction string, output joinOutput) string {
	summary := "Joined (" + direction + ") into " + strconv.Itoa(output.RowCount) + " row(s) on " +
		strconv.Itoa(output.MatchedKeys) + " matched key(s)."
	if output.UnmatchedGeometryRows > 0 || output.UnmatchedTabularRows > 0 {
		summary += " Unmatched: " + strconv.Itoa(output.UnmatchedGeometryRows) + " geometry, " +
			strconv.Itoa(output.UnmatchedTabularRows) + " tabular."
	}
	return summary
}
