package main

import "testing"

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Typos within edit distance 2
		{"laod", "load"},
		{"lod", "load"},
		{"joi", "join"},
		{"jion", "join"},
		{"mpc", "mcp"},
		{"versio", "version"},
		{"hep", "help"},

		// Too far - no suggestion (distance > 2)
		{"xyz", ""},
		{"foobar", ""},
		{"boundaries", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := suggestCommand(tt.input)
			if got != tt.expected {
				t.Errorf("suggestCommand(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLayerSelector(t *testing.T) {
	tests := []struct {
		name      string
		layer     string
		match     string
		candidate string
		want      bool
		wantErr   bool
	}{
		{name: "empty layer matches everything", layer: "", match: "contains", candidate: "anything", want: true},
		{name: "contains", layer: "county", match: "contains", candidate: "tl_2024_county.zip", want: true},
		{name: "exact misses substring", layer: "county", match: "exact", candidate: "tl_2024_county.zip", want: false},
		{name: "regexp", layer: `^tl_\d{4}_`, match: "regexp", candidate: "tl_2024_county.zip", want: true},
		{name: "bad regexp", layer: "(", match: "regexp", wantErr: true},
		{name: "bad mode", layer: "county", match: "glob", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := layerSelector(tt.layer, tt.match)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := sel.Match(tt.candidate); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}
