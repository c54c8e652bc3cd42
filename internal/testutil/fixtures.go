// Package testutil provides fixture builders shared by archive, loader, and
// joiner tests: throwaway zip archives and shapefile companion sets.
package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// WriteZip creates a zip archive at path containing the given entries.
// Entry order inside the archive follows map iteration and does not matter
// to any caller.
func WriteZip(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating zip %s: %v", path, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		e, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := e.Write(content); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip %s: %v", path, err)
	}
}

// ZipBytes builds a zip archive in memory and returns its bytes, for nesting
// archives inside other archives.
func ZipBytes(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "inner.zip")
	WriteZip(t, path, entries)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading zip bytes: %v", err)
	}
	return data
}

// CompanionSet returns zip entries for a complete shapefile companion set
// with the given base name. Contents are placeholders; resolution only cares
// about names and byte identity.
func CompanionSet(base string) map[string][]byte {
	return map[string][]byte{
		base + ".shp": []byte("shp:" + base),
		base + ".dbf": []byte("dbf:" + base),
		base + ".prj": []byte("prj:" + base),
		base + ".shx": []byte("shx:" + base),
	}
}

// Merge combines entry maps into one; later maps win on name collisions.
func Merge(maps ...map[string][]byte) map[string][]byte {
	out := make(map[string][]byte)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// WriteCompanionSet writes a bare shapefile companion set into dir and
// returns the path of the .shp file.
func WriteCompanionSet(t *testing.T, dir, base string) string {
	t.Helper()

	for name, content := range CompanionSet(base) {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o600); err != nil {
			t.Fatalf("writing companion %s: %v", name, err)
		}
	}
	return filepath.Join(dir, base+".shp")
}
