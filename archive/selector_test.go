package archive

import (
	"regexp"
	"testing"
)

func TestApplySelectors(t *testing.T) {
	candidates := []string{"county.shp", "tract.shp", "blockgroup.shp", "county_water.shp"}

	tests := []struct {
		name string
		sel  Selector
		want []string
	}{
		{name: "nil selects everything", sel: nil, want: candidates},
		{name: "All selects everything", sel: All(), want: candidates},
		{name: "Name exact match", sel: Name("tract.shp"), want: []string{"tract.shp"}},
		{name: "Name no match", sel: Name("state.shp"), want: nil},
		{name: "Contains substring", sel: Contains("county"), want: []string{"county.shp", "county_water.shp"}},
		{name: "Matches regex", sel: Matches(regexp.MustCompile(`^county.*\.shp$`)), want: []string{"county.shp", "county_water.shp"}},
		{name: "Not inverts", sel: Not(Contains("county")), want: []string{"tract.shp", "blockgroup.shp"}},
		{name: "Not of nil selects nothing", sel: Not(nil), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apply(tt.sel, candidates)
			if len(got) != len(tt.want) {
				t.Fatalf("apply() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("apply()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSelectorString(t *testing.T) {
	if got := Name("a.shp").String(); got != `name "a.shp"` {
		t.Errorf("Name.String() = %q", got)
	}
	if got := Not(Contains("x")).String(); got != `everything except names containing "x"` {
		t.Errorf("Not.String() = %q", got)
	}
}
