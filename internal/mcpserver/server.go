// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes shapejoin capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/strevens/shapejoin"
)

const serverInstructions = `shapejoin MCP server — loads boundary shapefiles from zip archives and joins them to tabular data.

Configuration: All defaults are configurable via SHAPEJOIN_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- SHAPEJOIN_JOIN_DIRECTION (default: full) — default join direction
- SHAPEJOIN_GEO_SUFFIX (default: empty) — suffix for colliding geometry-side columns
- SHAPEJOIN_TAB_SUFFIX (default: _SHAPE) — suffix for colliding tabular-side columns
- SHAPEJOIN_PREVIEW_ROWS (default: 10) — rows rendered inline in tool output
- SHAPEJOIN_VERBOSE (default: false) — enable library diagnostics on stderr

Inputs: boundary paths may be a bare .shp file, a zip of shapefile companions, or a zip of zips (one nesting level). Layer selection narrows which nested layer to load; omit it to load and union every layer.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "shapejoin", Version: shapejoin.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_boundaries",
		Description: "Load a boundary shapefile from a path: a bare .shp file, a zip of shapefile companions, or a zip of zips. Multiple matched layers are unioned into one collection with a reconciled schema. Returns the schema, row count, and a row preview; use layer/match to select one nested layer, and output to write the collection as GeoJSON.",
	}, handleLoadBoundaries)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "spatial_join",
		Description: "Load a boundary shapefile and join it to a tabular CSV dataset on one or more key columns. Key types are reconciled across sides (string identifiers parse as numbers when needed). Directions: full (default), inner, left (preserve tabular rows), right (preserve geometry rows). Unmatched rows are reported with counts, never fatal. Use output to write the joined collection as GeoJSON. Direction and suffix defaults are configurable via SHAPEJOIN_JOIN_DIRECTION, SHAPEJOIN_GEO_SUFFIX, and SHAPEJOIN_TAB_SUFFIX env vars.",
	}, handleSpatialJoin)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
