// Package ziputil wraps archive listing and selective extraction for the
// archive resolver. Only zip archives are supported.
package ziputil

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/strevens/shapejoin/internal/fileutil"
)

// ListEntries returns the names of every file entry in the archive, in
// archive order. Directory entries are skipped.
func ListEntries(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}

// Extract copies the named entries out of the archive into dest. Each entry
// is written under its base name; archive-internal directory structure is
// flattened. It fails if any requested entry is absent or if two requested
// entries flatten to the same base name.
func Extract(path string, names []string, dest string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer r.Close()

	byName := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		byName[f.Name] = f
	}

	seen := make(map[string]string, len(names))
	for _, name := range names {
		f, ok := byName[name]
		if !ok {
			return fmt.Errorf("archive %s has no entry %q", path, name)
		}
		base := filepath.Base(f.Name)
		if prev, dup := seen[base]; dup {
			return fmt.Errorf("archive %s: entries %q and %q both flatten to %q", path, prev, name, base)
		}
		seen[base] = name
		if err := extractOne(f, filepath.Join(dest, base)); err != nil {
			return err
		}
	}
	return nil
}

// ExtractAll extracts every file entry in the archive into dest, flattened to
// base names, and returns the written paths in archive order. Entries in
// different archive directories that flatten to the same base name are an
// error.
func ExtractAll(path, dest string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer r.Close()

	seen := make(map[string]string, len(r.File))
	var written []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(f.Name)
		if prev, dup := seen[base]; dup {
			return nil, fmt.Errorf("archive %s: entries %q and %q both flatten to %q", path, prev, f.Name, base)
		}
		seen[base] = f.Name
		out := filepath.Join(dest, base)
		if err := extractOne(f, out); err != nil {
			return nil, err
		}
		written = append(written, out)
	}
	return written, nil
}

func extractOne(f *zip.File, dest string) error {
	// Entry names come from the archive; reject anything that would escape.
	if strings.Contains(f.Name, "..") {
		return fmt.Errorf("archive entry %q: path traversal rejected", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %q: %w", f.Name, err)
	}
	defer rc.Close()

	w, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileutil.OwnerReadWrite)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer w.Close()

	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("extracting %q to %s: %w", f.Name, dest, err)
	}
	return nil
}
