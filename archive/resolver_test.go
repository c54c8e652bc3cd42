package archive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strevens/shapejoin/internal/testutil"
	"github.com/strevens/shapejoin/sjerrors"
)

func TestResolveBareGeometryFile(t *testing.T) {
	dir := t.TempDir()
	shp := testutil.WriteCompanionSet(t, dir, "county")

	set, err := Resolve(shp, nil, true)
	require.NoError(t, err)
	defer set.Close()

	assert.Equal(t, []string{shp}, set.Paths, "a bare geometry file resolves to itself")
}

func TestResolveUnsupportedFormat(t *testing.T) {
	_, err := Resolve("boundaries.tar", nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sjerrors.ErrUnsupportedFormat))

	// The terminal extension check is case-sensitive.
	_, err = Resolve("boundaries.ZIP", nil, true)
	assert.True(t, errors.Is(err, sjerrors.ErrUnsupportedFormat))
}

func TestResolveSingleCompanionSet(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	testutil.WriteZip(t, zipPath, testutil.CompanionSet("county"))

	set, err := Resolve(zipPath, nil, true)
	require.NoError(t, err)
	defer set.Close()

	require.Len(t, set.Paths, 1)
	assert.Equal(t, "county.shp", filepath.Base(set.Paths[0]))

	// The extracted geometry file is byte-identical to the archived one.
	got, err := os.ReadFile(set.Paths[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("shp:county"), got)

	// Companions landed beside it.
	for _, ext := range []string{".dbf", ".prj", ".shx"} {
		_, err := os.Stat(strings.TrimSuffix(set.Paths[0], ".shp") + ext)
		assert.NoError(t, err, "companion %s should be extracted", ext)
	}
}

func TestResolveExtractsEncodingCompanion(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	entries := testutil.Merge(testutil.CompanionSet("county"), map[string][]byte{
		"county.CPG": []byte("ANSI 1252"),
	})
	testutil.WriteZip(t, zipPath, entries)

	set, err := Resolve(zipPath, nil, true)
	require.NoError(t, err)
	defer set.Close()

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(set.Paths[0]), "county.*"))
	require.NoError(t, err)
	assert.Len(t, matches, 5, "the encoding declaration should be extracted when present")
}

func TestResolveMultipleSetsAmbiguous(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	entries := testutil.Merge(testutil.CompanionSet("county"), testutil.CompanionSet("tract"))
	testutil.WriteZip(t, zipPath, entries)

	_, err := Resolve(zipPath, nil, false)
	require.Error(t, err)

	var sel *sjerrors.AmbiguousSelectionError
	require.True(t, errors.As(err, &sel))
	assert.Len(t, sel.Matches, 2, "ambiguity error should list every candidate")
}

func TestResolveMultipleSetsAllowed(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	entries := testutil.Merge(testutil.CompanionSet("county"), testutil.CompanionSet("tract"))
	testutil.WriteZip(t, zipPath, entries)

	set, err := Resolve(zipPath, nil, true)
	require.NoError(t, err)
	defer set.Close()
	assert.Len(t, set.Paths, 2)
}

func TestResolveLayerSelection(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	entries := testutil.Merge(testutil.CompanionSet("county"), testutil.CompanionSet("tract"))
	testutil.WriteZip(t, zipPath, entries)

	set, err := Resolve(zipPath, Contains("tract"), false)
	require.NoError(t, err)
	defer set.Close()

	require.Len(t, set.Paths, 1)
	assert.Equal(t, "tract.shp", filepath.Base(set.Paths[0]))
}

func TestResolveMissingCompanionIsHardFailure(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	partial := testutil.CompanionSet("county")
	delete(partial, "county.prj")
	testutil.WriteZip(t, zipPath, partial)

	_, err := Resolve(zipPath, nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sjerrors.ErrMalformedArchive))
	assert.Contains(t, err.Error(), "county.prj")
}

func TestResolveNestedArchives(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")

	inner1 := testutil.ZipBytes(t, testutil.CompanionSet("county"))
	inner2 := testutil.ZipBytes(t, testutil.CompanionSet("tract"))
	testutil.WriteZip(t, zipPath, map[string][]byte{
		"county.zip": inner1,
		"tract.zip":  inner2,
	})

	set, err := Resolve(zipPath, nil, true)
	require.NoError(t, err)
	defer set.Close()

	require.Len(t, set.Paths, 2)
	bases := []string{filepath.Base(set.Paths[0]), filepath.Base(set.Paths[1])}
	assert.ElementsMatch(t, []string{"county.shp", "tract.shp"}, bases)
}

func TestResolveNestedArchivesAmbiguous(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	testutil.WriteZip(t, zipPath, map[string][]byte{
		"county.zip": testutil.ZipBytes(t, testutil.CompanionSet("county")),
		"tract.zip":  testutil.ZipBytes(t, testutil.CompanionSet("tract")),
	})

	_, err := Resolve(zipPath, nil, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sjerrors.ErrAmbiguousSelection))
}

func TestResolveNestedFallsBackToBareEntries(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	entries := testutil.Merge(testutil.CompanionSet("county"), map[string][]byte{
		"readme.zip": testutil.ZipBytes(t, map[string][]byte{"readme.txt": []byte("x")}),
	})
	testutil.WriteZip(t, zipPath, entries)

	// Nested archives exist but none match the layer filter; the bare
	// geometry entries are the fallback.
	set, err := Resolve(zipPath, Contains("county"), false)
	require.NoError(t, err)
	defer set.Close()
	require.Len(t, set.Paths, 1)
	assert.Equal(t, "county.shp", filepath.Base(set.Paths[0]))
}

func TestResolveEmptyArchive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	testutil.WriteZip(t, zipPath, map[string][]byte{"notes.txt": []byte("no layers here")})

	_, err := Resolve(zipPath, nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sjerrors.ErrMalformedArchive))
}

func TestResolveNotAZip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("plain text"), 0o600))

	_, err := Resolve(zipPath, nil, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sjerrors.ErrMalformedArchive))
}

func TestSetCloseRemovesTempDir(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bounds.zip")
	testutil.WriteZip(t, zipPath, testutil.CompanionSet("county"))

	set, err := Resolve(zipPath, nil, true)
	require.NoError(t, err)

	extracted := filepath.Dir(set.Paths[0])
	require.NoError(t, set.Close())
	_, statErr := os.Stat(extracted)
	assert.True(t, os.IsNotExist(statErr), "Close should remove the scoped extraction directory")

	assert.NoError(t, set.Close(), "Close is safe to call twice")
}

func TestSetCloseBareInputIsNoop(t *testing.T) {
	dir := t.TempDir()
	shp := testutil.WriteCompanionSet(t, dir, "county")

	set, err := Resolve(shp, nil, true)
	require.NoError(t, err)
	require.NoError(t, set.Close())

	_, statErr := os.Stat(shp)
	assert.NoError(t, statErr, "bare inputs are never deleted")
}
