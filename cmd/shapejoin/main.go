package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/strevens/shapejoin"
	"github.com/strevens/shapejoin/archive"
	"github.com/strevens/shapejoin/feature"
	"github.com/strevens/shapejoin/internal/fileutil"
	"github.com/strevens/shapejoin/internal/mcpserver"
	"github.com/strevens/shapejoin/internal/pathutil"
	"github.com/strevens/shapejoin/joiner"
	"github.com/strevens/shapejoin/loader"
	"github.com/strevens/shapejoin/tabular"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("shapejoin v%s\n", shapejoin.Version())
	case "help", "-h", "--help":
		printUsage()
	case "load":
		if err := handleLoad(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "join":
		if err := handleJoin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := mcpserver.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

// layerSelector translates the -layer/-match flag pair into a selector.
func layerSelector(layer, match string) (archive.Selector, error) {
	if layer == "" {
		return archive.All(), nil
	}
	switch strings.ToLower(match) {
	case "", "contains":
		return archive.Contains(layer), nil
	case "exact":
		return archive.Name(layer), nil
	case "regexp":
		re, err := regexp.Compile(layer)
		if err != nil {
			return nil, fmt.Errorf("invalid layer pattern: %w", err)
		}
		return archive.Matches(re), nil
	default:
		return nil, fmt.Errorf("invalid match mode '%s'. Valid modes: contains, exact, regexp", match)
	}
}

// writeGeoJSON writes the collection to path as a GeoJSON FeatureCollection.
func writeGeoJSON(coll *feature.Collection, path string) error {
	clean, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	data, err := json.Marshal(coll.GeoJSON())
	if err != nil {
		return fmt.Errorf("encoding GeoJSON: %w", err)
	}
	if err := os.WriteFile(clean, data, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// loadFlags contains flags for the load command
type loadFlags struct {
	layer  string
	match  string
	output string
	quiet  bool
}

func setupLoadFlags() (*flag.FlagSet, *loadFlags) {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	flags := &loadFlags{}

	fs.StringVar(&flags.layer, "layer", "", "layer selection pattern (default: all layers)")
	fs.StringVar(&flags.match, "match", "contains", "layer pattern interpretation (contains, exact, regexp)")
	fs.StringVar(&flags.output, "o", "", "output GeoJSON file path")
	fs.StringVar(&flags.output, "output", "", "output GeoJSON file path")
	fs.BoolVar(&flags.quiet, "quiet", false, "suppress diagnostic logging")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: shapejoin load [flags] <file>\n\n")
		_, _ = fmt.Fprintf(output, "Load a boundary shapefile and print its schema and row count.\n")
		_, _ = fmt.Fprintf(output, "The input may be a bare .shp file, a zip of shapefile companions,\n")
		_, _ = fmt.Fprintf(output, "or a zip of zips; multiple layers are unioned into one collection.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  shapejoin load tl_2024_us_county.zip\n")
		_, _ = fmt.Fprintf(output, "  shapejoin load -layer county -o counties.geojson states.zip\n")
		_, _ = fmt.Fprintf(output, "  shapejoin load -layer '^tl_\\d{4}_' -match regexp nested.zip\n")
	}

	return fs, flags
}

func handleLoad(args []string) error {
	fs, flags := setupLoadFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("load command requires exactly one file path")
	}

	path := fs.Arg(0)

	sel, err := layerSelector(flags.layer, flags.match)
	if err != nil {
		return err
	}

	startTime := time.Now()
	coll, err := loader.LoadBoundaries(path,
		loader.WithLayer(sel),
		loader.WithVerbose(!flags.quiet),
	)
	totalTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("loading boundaries: %w", err)
	}

	fmt.Printf("Boundary Loader\n")
	fmt.Printf("===============\n\n")
	fmt.Printf("shapejoin version: %s\n", shapejoin.Version())
	fmt.Printf("Source: %s\n", path)
	fmt.Printf("Rows: %d\n", coll.Len())
	fmt.Printf("Load Time: %v\n\n", totalTime)

	fmt.Printf("Columns (%d):\n", len(coll.Columns()))
	for _, col := range coll.Columns() {
		line := fmt.Sprintf("  %-24s %s", col.Name, col.Type)
		if col.Label != "" {
			line += "  (" + col.Label + ")"
		}
		fmt.Println(line)
	}

	if flags.output != "" {
		if err := writeGeoJSON(coll, flags.output); err != nil {
			return err
		}
		fmt.Printf("\nOutput: %s\n", flags.output)
	}
	return nil
}

// joinFlags contains flags for the join command
type joinFlags struct {
	jobFile     string
	layer       string
	match       string
	keys        string
	direction   string
	geoSuffix   string
	tabSuffix   string
	noUnmatched bool
	output      string
	report      string
	quiet       bool
}

func setupJoinFlags() (*flag.FlagSet, *joinFlags) {
	fs := flag.NewFlagSet("join", flag.ContinueOnError)
	flags := &joinFlags{}

	fs.StringVar(&flags.jobFile, "job", "", "YAML job file describing the whole join (overrides positional arguments)")
	fs.StringVar(&flags.layer, "layer", "", "layer selection pattern (default: all layers)")
	fs.StringVar(&flags.match, "match", "contains", "layer pattern interpretation (contains, exact, regexp)")
	fs.StringVar(&flags.keys, "keys", "", "comma-separated join keys; each key is NAME or GEOMETRY=TABULAR")
	fs.StringVar(&flags.direction, "direction", "full", "join direction (full, inner, left, right)")
	fs.StringVar(&flags.geoSuffix, "geo-suffix", "", "suffix for colliding geometry-side column names")
	fs.StringVar(&flags.tabSuffix, "tab-suffix", "_SHAPE", "suffix for colliding tabular-side column names")
	fs.BoolVar(&flags.noUnmatched, "no-unmatched", false, "skip unmatched-row reporting")
	fs.StringVar(&flags.output, "o", "", "output GeoJSON file path")
	fs.StringVar(&flags.output, "output", "", "output GeoJSON file path")
	fs.StringVar(&flags.report, "report", "", "write a YAML join report to this path")
	fs.BoolVar(&flags.quiet, "quiet", false, "suppress diagnostic logging")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: shapejoin join [flags] <boundaries> <table.csv>\n")
		_, _ = fmt.Fprintf(output, "       shapejoin join -job job.yaml\n\n")
		_, _ = fmt.Fprintf(output, "Join a boundary shapefile to a tabular CSV dataset on key columns.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nDirections (tabular is the logical left side):\n")
		_, _ = fmt.Fprintf(output, "  full    Preserve rows from both sides (default)\n")
		_, _ = fmt.Fprintf(output, "  inner   Keep only rows matched on both sides\n")
		_, _ = fmt.Fprintf(output, "  left    Preserve every tabular row\n")
		_, _ = fmt.Fprintf(output, "  right   Preserve every geometry row\n")
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  shapejoin join -keys GEOID -o joined.geojson counties.zip income.csv\n")
		_, _ = fmt.Fprintf(output, "  shapejoin join -keys GEOID=geoid -direction inner counties.zip income.csv\n")
		_, _ = fmt.Fprintf(output, "  shapejoin join -job county-income.yaml\n")
		_, _ = fmt.Fprintf(output, "\nNotes:\n")
		_, _ = fmt.Fprintf(output, "  - Key types are reconciled across sides; numeric identifiers match string columns\n")
		_, _ = fmt.Fprintf(output, "  - Unmatched rows are reported, never fatal\n")
	}

	return fs, flags
}

func handleJoin(args []string) error {
	fs, flags := setupJoinFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	var job *joinJob
	if flags.jobFile != "" {
		if fs.NArg() != 0 {
			fs.Usage()
			return fmt.Errorf("join command takes no positional arguments when -job is set")
		}
		loaded, err := loadJoinJob(flags.jobFile)
		if err != nil {
			return err
		}
		job = loaded
	} else {
		if fs.NArg() != 2 {
			fs.Usage()
			return fmt.Errorf("join command requires a boundaries path and a CSV path (or -job)")
		}
		built, err := jobFromFlags(fs.Arg(0), fs.Arg(1), flags)
		if err != nil {
			return err
		}
		job = built
	}
	if err := job.validate(); err != nil {
		return err
	}

	sel, err := layerSelector(job.Layer, job.Match)
	if err != nil {
		return err
	}

	startTime := time.Now()
	coll, err := loader.LoadBoundaries(job.Boundaries,
		loader.WithLayer(sel),
		loader.WithVerbose(!flags.quiet),
	)
	if err != nil {
		return fmt.Errorf("loading boundaries: %w", err)
	}

	f, err := os.Open(job.Table)
	if err != nil {
		return fmt.Errorf("opening table: %w", err)
	}
	dataset, err := tabular.FromCSV(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("reading table: %w", err)
	}

	result, err := joiner.Join(coll, dataset,
		joiner.WithKeys(job.keyPairs()...),
		joiner.WithDirection(joiner.Direction(job.Direction)),
		joiner.WithSuffixes(job.GeoSuffix, job.TabSuffix),
		joiner.WithReportUnmatched(!job.NoUnmatched),
		joiner.WithVerbose(!flags.quiet),
	)
	totalTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("joining: %w", err)
	}

	fmt.Printf("Spatial Joiner\n")
	fmt.Printf("==============\n\n")
	fmt.Printf("shapejoin version: %s\n", shapejoin.Version())
	fmt.Printf("Boundaries: %s (%d rows)\n", job.Boundaries, result.Stats.GeometryRows)
	fmt.Printf("Table: %s (%d rows)\n", job.Table, result.Stats.TabularRows)
	fmt.Printf("Direction: %s\n", job.Direction)
	fmt.Printf("Result Rows: %d\n", result.Stats.ResultRows)
	fmt.Printf("Matched Keys: %d\n", result.Stats.MatchedKeys)
	fmt.Printf("Total Time: %v\n\n", totalTime)

	if len(result.Warnings) > 0 {
		fmt.Printf("Warnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  %s\n", w.String())
		}
		fmt.Println()
	}

	if job.Output != "" {
		if err := writeGeoJSON(result.Data, job.Output); err != nil {
			return err
		}
		fmt.Printf("Output: %s\n", job.Output)
	}
	if job.Report != "" {
		if err := writeJoinReport(result, job, job.Report); err != nil {
			return err
		}
		fmt.Printf("Report: %s\n", job.Report)
	}
	return nil
}

func printUsage() {
	fmt.Println(`shapejoin - Boundary Shapefile Tools

Usage:
  shapejoin <command> [options]

Commands:
  load        Load a boundary shapefile and print its schema
  join        Join a boundary shapefile to a tabular CSV dataset
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  shapejoin load tl_2024_us_county.zip
  shapejoin load -layer county -o counties.geojson states.zip
  shapejoin join -keys GEOID -o joined.geojson counties.zip income.csv
  shapejoin join -job county-income.yaml
  shapejoin mcp

Run 'shapejoin <command> --help' for more information on a command.`)
}

var commands = []string{"load", "join", "mcp", "version", "help"}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, cmd := range commands {
		if d := editDistance(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
