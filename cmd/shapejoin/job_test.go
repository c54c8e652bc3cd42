package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strevens/shapejoin/feature"
	"github.com/strevens/shapejoin/internal/fileutil"
	"github.com/strevens/shapejoin/joiner"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []joinJobKey
		wantErr bool
	}{
		{
			name:  "single symmetric key",
			input: "GEOID",
			want:  []joinJobKey{{Geometry: "GEOID", Tabular: "GEOID"}},
		},
		{
			name:  "renaming pair",
			input: "GEOID=geoid",
			want:  []joinJobKey{{Geometry: "GEOID", Tabular: "geoid"}},
		},
		{
			name:  "multiple keys with spaces",
			input: "STATEFP, COUNTYFP=county",
			want: []joinJobKey{
				{Geometry: "STATEFP", Tabular: "STATEFP"},
				{Geometry: "COUNTYFP", Tabular: "county"},
			},
		},
		{
			name:  "empty value",
			input: "",
			want:  nil,
		},
		{
			name:    "dangling comma",
			input:   "GEOID,",
			wantErr: true,
		},
		{
			name:    "missing tabular name",
			input:   "GEOID=",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKeys(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadJoinJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	content := `boundaries: counties.zip
layer: county
table: income.csv
keys:
  - geometry: GEOID
    tabular: geoid
direction: inner
output: joined.geojson
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	job, err := loadJoinJob(path)
	require.NoError(t, err)

	assert.Equal(t, "counties.zip", job.Boundaries)
	assert.Equal(t, "county", job.Layer)
	assert.Equal(t, "income.csv", job.Table)
	assert.Equal(t, "inner", job.Direction)
	assert.Equal(t, "joined.geojson", job.Output)
	require.Len(t, job.Keys, 1)
	assert.Equal(t, joinJobKey{Geometry: "GEOID", Tabular: "geoid"}, job.Keys[0])
	// Omitted settings take defaults.
	assert.Equal(t, "_SHAPE", job.TabSuffix)
	require.NoError(t, job.validate())
}

func TestLoadJoinJob_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := loadJoinJob(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "job.yaml")
		require.NoError(t, os.WriteFile(path, []byte("boundaries: [unclosed"), 0o600))
		_, err := loadJoinJob(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding job file")
	})
}

func TestJoinJobValidate(t *testing.T) {
	valid := func() *joinJob {
		return &joinJob{
			Boundaries: "counties.zip",
			Table:      "income.csv",
			Keys:       []joinJobKey{{Geometry: "GEOID"}},
			Direction:  "full",
		}
	}

	tests := []struct {
		name          string
		mutate        func(*joinJob)
		errorContains string
	}{
		{
			name:          "missing boundaries",
			mutate:        func(j *joinJob) { j.Boundaries = "" },
			errorContains: "boundaries path is required",
		},
		{
			name:          "missing table",
			mutate:        func(j *joinJob) { j.Table = "" },
			errorContains: "table path is required",
		},
		{
			name:          "missing keys",
			mutate:        func(j *joinJob) { j.Keys = nil },
			errorContains: "at least one join key",
		},
		{
			name:          "key without geometry name",
			mutate:        func(j *joinJob) { j.Keys = []joinJobKey{{Tabular: "geoid"}} },
			errorContains: "geometry-side column",
		},
		{
			name:          "bad direction",
			mutate:        func(j *joinJob) { j.Direction = "outer" },
			errorContains: "invalid direction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := valid()
			tt.mutate(job)
			err := job.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}

	require.NoError(t, valid().validate())
}

func TestJoinJobKeyPairs(t *testing.T) {
	job := &joinJob{Keys: []joinJobKey{
		{Geometry: "GEOID"},
		{Geometry: "STATEFP", Tabular: "state"},
	}}
	assert.Equal(t, []joiner.KeyPair{
		{Geometry: "GEOID", Tabular: "GEOID"},
		{Geometry: "STATEFP", Tabular: "state"},
	}, job.keyPairs())
}

func TestWriteJoinReport(t *testing.T) {
	result := &joiner.JoinResult{Data: feature.NewCollection(feature.KindSimpleFeature)}
	result.Stats.ResultRows = 3
	result.Warnings = []joiner.JoinWarning{
		{Category: joiner.WarnUnmatchedRows, Message: "2 tabular rows had no geometry match"},
	}
	job := &joinJob{Boundaries: "counties.zip", Table: "income.csv", Direction: "full"}

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, writeJoinReport(result, job, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fileutil.ReadableByAll, info.Mode().Perm(), "reports are meant for other tools to read")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boundaries: counties.zip")
	assert.Contains(t, string(data), "2 tabular rows had no geometry match")
}
