package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/strevens/shapejoin/joiner"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Join tool defaults.
	JoinDirection string
	GeoSuffix     string
	TabSuffix     string

	// PreviewRows caps the number of rows rendered inline in tool output.
	PreviewRows int

	// Verbose enables library diagnostics on the server's stderr.
	Verbose bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from SHAPEJOIN_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		JoinDirection: envDirection("SHAPEJOIN_JOIN_DIRECTION", string(joiner.DirectionFull)),
		GeoSuffix:     envString("SHAPEJOIN_GEO_SUFFIX", ""),
		TabSuffix:     envString("SHAPEJOIN_TAB_SUFFIX", "_SHAPE"),
		PreviewRows:   envInt("SHAPEJOIN_PREVIEW_ROWS", 10),
		Verbose:       envBool("SHAPEJOIN_VERBOSE", false),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDirection(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if !joiner.IsValidDirection(v) {
		slog.Warn("invalid direction env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return v
}
