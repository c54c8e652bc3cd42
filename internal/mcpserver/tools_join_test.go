package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolErrText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestSpatialJoinTool_InputValidation(t *testing.T) {
	clearShapejoinEnv(t)

	tests := []struct {
		name          string
		input         joinInput
		errorContains string
	}{
		{
			name: "missing keys",
			input: joinInput{
				boundaryInput: boundaryInput{Path: "boundaries.zip"},
				CSV:           "income.csv",
			},
			errorContains: "at least 1 join key",
		},
		{
			name: "missing csv",
			input: joinInput{
				boundaryInput: boundaryInput{Path: "boundaries.zip"},
				Keys:          []joinKeyInput{{Geometry: "GEOID"}},
			},
			errorContains: "csv is required",
		},
		{
			name: "invalid direction",
			input: joinInput{
				boundaryInput: boundaryInput{Path: "boundaries.zip"},
				CSV:           "income.csv",
				Keys:          []joinKeyInput{{Geometry: "GEOID"}},
				Direction:     "outer",
			},
			errorContains: "invalid direction",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, output, err := handleSpatialJoin(context.Background(), &mcp.CallToolRequest{}, tc.input)
			require.NoError(t, err)
			assert.Zero(t, output)
			assert.Contains(t, toolErrText(t, result), tc.errorContains)
		})
	}
}

func TestSpatialJoinTool_MissingBoundaryFile(t *testing.T) {
	clearShapejoinEnv(t)

	input := joinInput{
		boundaryInput: boundaryInput{Path: "no-such-file.zip"},
		CSV:           "income.csv",
		Keys:          []joinKeyInput{{Geometry: "GEOID"}},
	}
	result, _, err := handleSpatialJoin(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestBuildJoinSummary(t *testing.T) {
	out := joinOutput{RowCount: 3, MatchedKeys: 1, UnmatchedGeometryRows: 1, UnmatchedTabularRows: 1}
	summary := buildJoinSummary("full", out)
	assert.Contains(t, summary, "3 row(s)")
	assert.Contains(t, summary, "1 matched key(s)")
	assert.Contains(t, summary, "Unmatched: 1 geometry, 1 tabular")

	clean := buildJoinSummary("inner", joinOutput{RowCount: 2, MatchedKeys: 2})
	assert.NotContains(t, clean, "Unmatched")
}
