// Package archive resolves a boundary input path into the concrete list of
// geometry files to load. The input is either a bare shapefile, a zip
// archive of shapefile companion sets, or a zip archive of zip archives
// (one nested archive per layer, exactly one level of nesting).
//
// Archive inputs are extracted into a scoped temporary directory owned by
// the returned [Set]; callers must Close it, and every error path inside
// resolution releases the directory before returning.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/strevens/shapejoin/internal/ziputil"
	"github.com/strevens/shapejoin/sjerrors"
)

const (
	extArchive  = ".zip"
	extGeometry = ".shp"
	extEncoding = ".cpg"
)

// companionExts is the fixed suffix set of a complete shapefile companion
// set: geometry, attribute table, projection, spatial index.
var companionExts = []string{".shp", ".dbf", ".prj", ".shx"}

// Set is the resolved, ordered list of geometry-file paths plus the scoped
// temporary directory holding extracted archives, if any.
type Set struct {
	// Paths are the geometry files to load, in resolution order.
	Paths []string

	tempDir string
}

// Close removes the scoped temporary extraction directory. It is a no-op
// for bare geometry-file inputs and is safe to call more than once.
func (s *Set) Close() error {
	if s.tempDir == "" {
		return nil
	}
	dir := s.tempDir
	s.tempDir = ""
	return os.RemoveAll(dir)
}

// Resolve determines the geometry files behind path. A bare geometry file
// resolves to itself. For archives, nested archive entries matching layer
// are preferred; bare geometry entries are the fallback. When more than one
// candidate matches and allowMultiple is false, resolution fails listing the
// candidates. A nil layer selects everything.
func Resolve(path string, layer Selector, allowMultiple bool) (*Set, error) {
	// The terminal extension check is case-sensitive on the last 4 bytes.
	switch {
	case strings.HasSuffix(path, extGeometry):
		return &Set{Paths: []string{path}}, nil
	case strings.HasSuffix(path, extArchive):
		return resolveArchive(path, layer, allowMultiple)
	}
	ext := path
	if len(path) > 4 {
		ext = path[len(path)-4:]
	}
	return nil, &sjerrors.UnsupportedFormatError{Path: path, Extension: ext}
}

func resolveArchive(path string, layer Selector, allowMultiple bool) (*Set, error) {
	entries, err := ziputil.ListEntries(path)
	if err != nil {
		return nil, &sjerrors.MalformedArchiveError{Path: path, Cause: err}
	}

	var nested, shapes []string
	for _, name := range entries {
		switch {
		case strings.HasSuffix(name, extArchive):
			nested = append(nested, name)
		case strings.HasSuffix(name, extGeometry):
			shapes = append(shapes, name)
		}
	}

	if matched := apply(layer, nested); len(matched) > 0 {
		if len(matched) > 1 && !allowMultiple {
			return nil, &sjerrors.AmbiguousSelectionError{Archive: path, Matches: matched}
		}
		return extractNested(path, matched)
	}

	matched := apply(layer, shapes)
	if len(matched) == 0 {
		return nil, &sjerrors.MalformedArchiveError{
			Path:    path,
			Message: "no nested archives or geometry entries match the layer selection",
		}
	}
	if len(matched) > 1 && !allowMultiple {
		return nil, &sjerrors.AmbiguousSelectionError{Archive: path, Matches: matched}
	}
	return extractShapes(path, entries, matched)
}

// extractNested extracts each matched nested archive into the scoped temp
// directory, then extracts that archive's own contents and collects every
// geometry file found. Exactly one level of nesting; geometry files inside
// deeper archives are not discovered.
func extractNested(path string, matched []string) (set *Set, err error) {
	tempDir, err := scopedDir()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(tempDir)
		}
	}()

	if err := ziputil.Extract(path, matched, tempDir); err != nil {
		return nil, &sjerrors.MalformedArchiveError{Path: path, Cause: err}
	}

	var paths []string
	for _, name := range matched {
		inner := filepath.Join(tempDir, filepath.Base(name))
		layerDir := strings.TrimSuffix(inner, extArchive)
		if err := os.MkdirAll(layerDir, 0o700); err != nil {
			return nil, fmt.Errorf("creating layer directory: %w", err)
		}
		written, err := ziputil.ExtractAll(inner, layerDir)
		if err != nil {
			return nil, &sjerrors.MalformedArchiveError{Path: path, Message: "nested archive " + filepath.Base(name), Cause: err}
		}
		for _, p := range written {
			if strings.HasSuffix(p, extGeometry) {
				paths = append(paths, p)
			}
		}
	}
	if len(paths) == 0 {
		return nil, &sjerrors.MalformedArchiveError{Path: path, Message: "nested archives hold no geometry files"}
	}
	return &Set{Paths: paths, tempDir: tempDir}, nil
}

// extractShapes extracts each matched geometry entry plus its full companion
// set into the scoped temp directory. A missing required companion is a hard
// failure; the optional encoding declaration is taken when present.
func extractShapes(path string, entries, matched []string) (set *Set, err error) {
	byName := make(map[string]bool, len(entries))
	for _, e := range entries {
		byName[e] = true
	}

	tempDir, err := scopedDir()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(tempDir)
		}
	}()

	var paths []string
	for _, shp := range matched {
		base := strings.TrimSuffix(shp, extGeometry)

		want := make([]string, 0, len(companionExts)+1)
		for _, ext := range companionExts {
			name := base + ext
			if !byName[name] {
				return nil, &sjerrors.MalformedArchiveError{
					Path:    path,
					Message: fmt.Sprintf("entry %s is missing companion %s", shp, name),
				}
			}
			want = append(want, name)
		}
		if cpg := findEncodingEntry(entries, base); cpg != "" {
			want = append(want, cpg)
		}

		if err := ziputil.Extract(path, want, tempDir); err != nil {
			return nil, &sjerrors.MalformedArchiveError{Path: path, Cause: err}
		}
		paths = append(paths, filepath.Join(tempDir, filepath.Base(shp)))
	}
	return &Set{Paths: paths, tempDir: tempDir}, nil
}

// findEncodingEntry locates the case-insensitively matched encoding
// declaration for base among the archive entries, or "".
func findEncodingEntry(entries []string, base string) string {
	want := strings.ToLower(base + extEncoding)
	for _, e := range entries {
		if strings.ToLower(e) == want {
			return e
		}
	}
	return ""
}

func scopedDir() (string, error) {
	dir, err := os.MkdirTemp("", "shapejoin-")
	if err != nil {
		return "", fmt.Errorf("creating scoped extraction directory: %w", err)
	}
	return dir, nil
}
