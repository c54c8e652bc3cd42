package mcpserver

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type loadInput struct {
	boundaryInput
	Output string `json:"output,omitempty" jsonschema:"File path to write the collection as GeoJSON. If omitted only the summary is returned."`
}

type loadOutput struct {
	RowCount  int                 `json:"row_count"`
	Kind      string              `json:"kind"`
	Columns   []columnSummary     `json:"columns"`
	Preview   []map[string]string `json:"preview,omitempty"`
	WrittenTo string              `json:"written_to,omitempty"`
	Summary   string              `json:"summary"`
}

func handleLoadBoundaries(_ context.Context, _ *mcp.CallToolRequest, input loadInput) (*mcp.CallToolResult, loadOutput, error) {
	coll, err := input.load()
	if err != nil {
		return errResult(err), loadOutput{}, nil
	}

	output := loadOutput{
		RowCount: coll.Len(),
		Kind:     string(coll.Kind),
		Columns:  summarizeColumns(coll),
		Preview:  previewRows(coll),
	}

	if input.Output != "" {
		written, err := writeGeoJSON(coll, input.Output)
		if err != nil {
			return errResult(err), loadOutput{}, nil
		}
		output.WrittenTo = written
	}

	output.Summary = "Loaded " + strconv.Itoa(output.RowCount) + " boundary row(s) with " +
		strconv.Itoa(len(output.Columns)) + " column(s)."
	return nil, output, nil
}
