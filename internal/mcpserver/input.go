package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/strevens/shapejoin/archive"
	"github.com/strevens/shapejoin/feature"
	"github.com/strevens/shapejoin/internal/fileutil"
	"github.com/strevens/shapejoin/internal/pathutil"
	"github.com/strevens/shapejoin/loader"
)

// boundaryInput identifies a boundary source and a layer selection within it.
// It is embedded in every tool input that loads boundaries.
type boundaryInput struct {
	Path  string `json:"path"            jsonschema:"Path to a .shp file or a zip archive of shapefile companions (possibly a zip of zips)"`
	Layer string `json:"layer,omitempty" jsonschema:"Layer selection pattern; omit to load every layer"`
	Match string `json:"match,omitempty" jsonschema:"How to interpret layer: contains (default) or exact or regexp"`
}

// selector translates the layer fields into an archive selector.
func (b boundaryInput) selector() (archive.Selector, error) {
	if b.Layer == "" {
		return archive.All(), nil
	}
	switch strings.ToLower(b.Match) {
	case "", "contains":
		return archive.Contains(b.Layer), nil
	case "exact":
		return archive.Name(b.Layer), nil
	case "regexp":
		re, err := regexp.Compile(b.Layer)
		if err != nil {
			return nil, fmt.Errorf("invalid layer pattern: %w", err)
		}
		return archive.Matches(re), nil
	default:
		return nil, fmt.Errorf("invalid match value %q; valid values: contains, exact, regexp", b.Match)
	}
}

// load resolves the selection and loads the boundary collection.
func (b boundaryInput) load() (*feature.Collection, error) {
	if b.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	sel, err := b.selector()
	if err != nil {
		return nil, err
	}
	return loader.LoadBoundaries(b.Path,
		loader.WithLayer(sel),
		loader.WithVerbose(cfg.Verbose),
	)
}

// columnSummary describes one column of a collection or dataset.
type columnSummary struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
}

func summarizeColumns(c *feature.Collection) []columnSummary {
	cols := c.Columns()
	out := make([]columnSummary, 0, len(cols))
	for _, col := range cols {
		out = append(out, columnSummary{Name: col.Name, Type: string(col.Type), Label: col.Label})
	}
	return out
}

// previewRows renders up to cfg.PreviewRows rows as name → display value
// maps, geometry column excluded.
func previewRows(c *feature.Collection) []map[string]string {
	n := c.Len()
	if n > cfg.PreviewRows {
		n = cfg.PreviewRows
	}
	if n == 0 {
		return nil
	}
	rows := make([]map[string]string, 0, n)
	for i := 0; i < n; i++ {
		row := make(map[string]string)
		for _, col := range c.Columns() {
			if col.Type == feature.TypeGeometry {
				continue
			}
			row[col.Name] = col.StringValue(i)
		}
		rows = append(rows, row)
	}
	return rows
}

// writeGeoJSON marshals the collection as GeoJSON and writes it to path.
func writeGeoJSON(c *feature.Collection, path string) (string, error) {
	clean, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	data, err := json.Marshal(c.GeoJSON())
	if err != nil {
		return "", fmt.Errorf("encoding GeoJSON: %w", err)
	}
	if err := os.WriteFile(clean, data, fileutil.ReadableByAll); err != nil {
		return "", fmt.Errorf("writing output file: %w", err)
	}
	return clean, nil
}
