package coerce

import (
	"math"
	"testing"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "plain integer", input: "10", want: 10, ok: true},
		{name: "plain float", input: "3.25", want: 3.25, ok: true},
		{name: "negative", input: "-42", want: -42, ok: true},
		{name: "leading whitespace", input: "  7", want: 7, ok: true},
		{name: "thousands separators", input: "1,234,567", want: 1234567, ok: true},
		{name: "currency prefix", input: "$1,200.50", want: 1200.50, ok: true},
		{name: "percent suffix", input: "12%", want: 12, ok: true},
		{name: "scientific notation", input: "1e3", want: 1000, ok: true},
		{name: "alphabetic", input: "abc", ok: false},
		{name: "mixed", input: "10a", ok: false},
		{name: "noise only", input: "$,", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(tt.input)
			if ok != tt.ok {
				t.Fatalf("Number(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Number(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	t.Run("empty string coerces to NaN", func(t *testing.T) {
		got, ok := Number("")
		if !ok || !math.IsNaN(got) {
			t.Errorf("Number(\"\") = %v, %v, want NaN, true", got, ok)
		}
	})
}

func TestColumn(t *testing.T) {
	t.Run("all values parse", func(t *testing.T) {
		got, failed := Column([]string{"10", "20", "30"})
		if len(failed) != 0 {
			t.Fatalf("unexpected failures: %v", failed)
		}
		want := []float64{10, 20, 30}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Column()[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("failures collected in order", func(t *testing.T) {
		got, failed := Column([]string{"10", "abc", "x7"})
		if len(failed) != 2 || failed[0] != "abc" || failed[1] != "x7" {
			t.Fatalf("failed = %v, want [abc x7]", failed)
		}
		if !math.IsNaN(got[1]) || !math.IsNaN(got[2]) {
			t.Error("failed positions should hold NaN")
		}
	})

	t.Run("missing values stay missing", func(t *testing.T) {
		got, failed := Column([]string{"", "  "})
		if len(failed) != 0 {
			t.Fatalf("unexpected failures: %v", failed)
		}
		if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
			t.Error("blank values should coerce to NaN")
		}
	})
}
