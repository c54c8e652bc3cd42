package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBoundariesTool_MissingPath(t *testing.T) {
	result, output, err := handleLoadBoundaries(context.Background(), &mcp.CallToolRequest{}, loadInput{})
	require.NoError(t, err)
	assert.Zero(t, output)
	assert.Contains(t, toolErrText(t, result), "path is required")
}

func TestLoadBoundariesTool_UnsupportedFormat(t *testing.T) {
	input := loadInput{boundaryInput: boundaryInput{Path: "boundaries.geojson"}}
	result, _, err := handleLoadBoundaries(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "unsupported")
}

func TestLoadBoundariesTool_InvalidLayerPattern(t *testing.T) {
	input := loadInput{boundaryInput: boundaryInput{Path: "boundaries.zip", Layer: "(", Match: "regexp"}}
	result, _, err := handleLoadBoundaries(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Contains(t, toolErrText(t, result), "invalid layer pattern")
}
