package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// clearShapejoinEnv clears all SHAPEJOIN_* env vars to isolate tests from the ambient environment.
func clearShapejoinEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SHAPEJOIN_JOIN_DIRECTION", "SHAPEJOIN_GEO_SUFFIX",
		"SHAPEJOIN_TAB_SUFFIX", "SHAPEJOIN_PREVIEW_ROWS",
		"SHAPEJOIN_VERBOSE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearShapejoinEnv(t)

	c := loadConfig()

	assert.Equal(t, "full", c.JoinDirection)
	assert.Equal(t, "", c.GeoSuffix)
	assert.Equal(t, "_SHAPE", c.TabSuffix)
	assert.Equal(t, 10, c.PreviewRows)
	assert.False(t, c.Verbose)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearShapejoinEnv(t)
	t.Setenv("SHAPEJOIN_JOIN_DIRECTION", "inner")
	t.Setenv("SHAPEJOIN_GEO_SUFFIX", "_geo")
	t.Setenv("SHAPEJOIN_TAB_SUFFIX", "_tab")
	t.Setenv("SHAPEJOIN_PREVIEW_ROWS", "3")
	t.Setenv("SHAPEJOIN_VERBOSE", "true")

	c := loadConfig()

	assert.Equal(t, "inner", c.JoinDirection)
	assert.Equal(t, "_geo", c.GeoSuffix)
	assert.Equal(t, "_tab", c.TabSuffix)
	assert.Equal(t, 3, c.PreviewRows)
	assert.True(t, c.Verbose)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearShapejoinEnv(t)
	t.Setenv("SHAPEJOIN_JOIN_DIRECTION", "outer")
	t.Setenv("SHAPEJOIN_PREVIEW_ROWS", "-5")
	t.Setenv("SHAPEJOIN_VERBOSE", "maybe")

	c := loadConfig()

	assert.Equal(t, "full", c.JoinDirection)
	assert.Equal(t, 10, c.PreviewRows)
	assert.False(t, c.Verbose)
}
