// Package cpg detects the character encoding of a shapefile's string
// attributes from its .cpg companion file.
//
// The .cpg file is a single line of text naming an encoding. Detection is a
// deliberate heuristic, not a full code-page parser: the tokens "ANSI 1252"
// and a flexible UTF-8 spelling are recognized; anything else, including a
// missing companion, falls back to the legacy single-byte Western European
// default.
package cpg

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names returned by Detect.
const (
	NameLatin1      = "ISO-8859-1"
	NameWindows1252 = "Windows-1252"
	NameUTF8        = "UTF-8"
)

// utf8Pattern tolerates a hyphen, an underscore, a space, or no separator
// between "UTF" and "8".
var utf8Pattern = regexp.MustCompile(`(?i)UTF[-_ ]?8`)

// Result names the detected encoding and carries the matching decoder.
type Result struct {
	// Name is the canonical encoding name.
	Name string
	// Encoding decodes attribute bytes to UTF-8.
	Encoding encoding.Encoding
}

// Default returns the legacy default used when no declaration is present or
// the declaration is unrecognized.
func Default() Result {
	return Result{Name: NameLatin1, Encoding: charmap.ISO8859_1}
}

// Detect inspects the directory of the given geometry file for an
// encoding-declaration companion sharing its base name (matched
// case-insensitively) and classifies its first line. A missing or
// unrecognized declaration yields the legacy default.
func Detect(geometryPath string) (Result, error) {
	cpgPath, err := findCompanion(geometryPath)
	if err != nil {
		return Result{}, err
	}
	if cpgPath == "" {
		return Default(), nil
	}

	f, err := os.Open(cpgPath)
	if err != nil {
		return Result{}, fmt.Errorf("opening encoding declaration %s: %w", cpgPath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Result{}, fmt.Errorf("reading encoding declaration %s: %w", cpgPath, err)
		}
		return Default(), nil
	}
	return Classify(scanner.Text()), nil
}

// Classify maps the first line of an encoding declaration to a Result.
func Classify(line string) Result {
	switch {
	case strings.Contains(line, "ANSI 1252"):
		return Result{Name: NameWindows1252, Encoding: charmap.Windows1252}
	case utf8Pattern.MatchString(line):
		return Result{Name: NameUTF8, Encoding: unicode.UTF8}
	default:
		return Default()
	}
}

// findCompanion locates the case-insensitively matched .cpg companion of the
// geometry file, or "" when none exists.
func findCompanion(geometryPath string) (string, error) {
	dir := filepath.Dir(geometryPath)
	base := strings.TrimSuffix(filepath.Base(geometryPath), filepath.Ext(geometryPath))
	want := strings.ToLower(base + ".cpg")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scanning %s for encoding declaration: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.ToLower(e.Name()) == want {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", nil
}
