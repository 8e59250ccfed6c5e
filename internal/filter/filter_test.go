package filter

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/afrimarkets/dashboard/internal/fallback"
	"github.com/afrimarkets/dashboard/internal/model"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ids(records []model.MarketRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func sample() []model.MarketRecord {
	return []model.MarketRecord{
		{ID: "a", Symbol: "ALPHA", Name: "Élan Index", Exchange: "Alpha Exchange", Sector: "Banks", RawValue: decimal.NewFromInt(300), ChangePercent: dec("1.5"), Volume: "1.2M"},
		{ID: "b", Market: "BETA", Name: "beta index", Exchange: "Beta Exchange", Sector: "Mining", RawValue: decimal.NewFromInt(100), Change: dec("-4"), Volume: "900K"},
		{ID: "c", Name: "Zulu Index", Exchange: "alpha exchange", Sector: "Banks", RawValue: decimal.NewFromInt(200), Volume: "N/A"},
		{ID: "d", Symbol: "DELTA", Name: "Delta Index", Exchange: "Delta Exchange", RawValue: decimal.NewFromInt(100), ChangePercent: dec("-0.5"), Volume: "3,000,000"},
	}
}

func TestApply_SearchFallbackDataset(t *testing.T) {
	records := fallback.Records()

	for _, term := range []string{"jse", "JSE", "Jse"} {
		got := Apply(records, Spec{Search: term})
		if len(got) != 1 || got[0].ID != "jse" {
			t.Errorf("Apply(search=%q) = %v, want [jse]", term, ids(got))
		}
	}
}

func TestApply_Search(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"a", "b", "c", "d"}},
		{"alpha", []string{"a"}},           // symbol
		{"BETA", []string{"b"}},            // market id
		{"zulu", []string{"c"}},            // name
		{"élan", []string{"a"}},            // unicode case folding
		{"index", []string{"a", "b", "c", "d"}},
		{"nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got := ids(Apply(sample(), Spec{Search: tt.search}))
			if !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_EqualityFilters(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"exchange case-insensitive", Spec{Exchange: "ALPHA EXCHANGE"}, []string{"a", "c"}},
		{"exchange all", Spec{Exchange: "all"}, []string{"a", "b", "c", "d"}},
		{"exchange All", Spec{Exchange: "All"}, []string{"a", "b", "c", "d"}},
		{"sector", Spec{Sector: "Banks"}, []string{"a", "c"}},
		{"sector is case-sensitive", Spec{Sector: "banks"}, []string{}},
		{"sector all", Spec{Sector: All}, []string{"a", "b", "c", "d"}},
		{"combined", Spec{Exchange: "alpha exchange", Sector: "Banks", Search: "zulu"}, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(sample(), tt.spec))
			if !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_RangeFilters(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"price min inclusive", Spec{PriceMin: "200"}, []string{"a", "c"}},
		{"price max inclusive", Spec{PriceMax: "100"}, []string{"b", "d"}},
		{"price window", Spec{PriceMin: "150", PriceMax: "250"}, []string{"c"}},
		{"empty bounds", Spec{PriceMin: "", PriceMax: "  "}, []string{"a", "b", "c", "d"}},
		{"unparsable bound", Spec{PriceMin: "abc"}, []string{"a", "b", "c", "d"}},
		// b has only a plain change (-4), c has none (0).
		{"change min", Spec{ChangeMin: "0"}, []string{"a", "c"}},
		{"change max", Spec{ChangeMax: "-1"}, []string{"b"}},
		{"change window", Spec{ChangeMin: "-1", ChangeMax: "1"}, []string{"c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(sample(), tt.spec))
			if !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_Sort(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"name asc locale-aware", Spec{SortBy: SortByName, SortOrder: Asc}, []string{"b", "d", "a", "c"}},
		{"name desc", Spec{SortBy: SortByName, SortOrder: Desc}, []string{"c", "a", "d", "b"}},
		{"symbol falls back to market and id", Spec{SortBy: SortBySymbol, SortOrder: Asc}, []string{"a", "b", "c", "d"}},
		{"price asc stable", Spec{SortBy: SortByPrice, SortOrder: Asc}, []string{"b", "d", "c", "a"}},
		{"price desc stable", Spec{SortBy: SortByPrice, SortOrder: Desc}, []string{"a", "c", "b", "d"}},
		{"change with fallback", Spec{SortBy: SortByChange, SortOrder: Asc}, []string{"b", "d", "c", "a"}},
		{"volume", Spec{SortBy: SortByVolume, SortOrder: Desc}, []string{"d", "a", "b", "c"}},
		{"no sort key", Spec{SortOrder: Desc}, []string{"a", "b", "c", "d"}},
		{"unknown sort key", Spec{SortBy: "market_cap", SortOrder: Asc}, []string{"a", "b", "c", "d"}},
		{"missing order is ascending", Spec{SortBy: SortByPrice}, []string{"b", "d", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(sample(), tt.spec))
			if !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_PriceOrderOverFallback(t *testing.T) {
	records := fallback.Records()

	asc := Apply(records, Spec{SortBy: SortByPrice, SortOrder: Asc})
	for i := 1; i < len(asc); i++ {
		if asc[i].RawValue.LessThan(asc[i-1].RawValue) {
			t.Fatalf("asc not non-decreasing at %d: %s < %s", i, asc[i].RawValue, asc[i-1].RawValue)
		}
	}

	desc := Apply(records, Spec{SortBy: SortByPrice, SortOrder: Desc})
	for i := 1; i < len(desc); i++ {
		if desc[i].RawValue.GreaterThan(desc[i-1].RawValue) {
			t.Fatalf("desc not non-increasing at %d: %s > %s", i, desc[i].RawValue, desc[i-1].RawValue)
		}
	}

	if len(asc) != len(records) || len(desc) != len(records) {
		t.Errorf("sorting changed record count")
	}
}

func TestApply_Pure(t *testing.T) {
	records := sample()
	before := ids(records)
	spec := Spec{Search: "index", SortBy: SortByName, SortOrder: Desc, PriceMin: "50"}
	specCopy := spec

	first := Apply(records, spec)
	second := Apply(records, spec)

	if !slices.Equal(ids(records), before) {
		t.Error("Apply reordered its input")
	}
	if spec != specCopy {
		t.Error("Apply modified the spec")
	}
	if !slices.Equal(ids(first), ids(second)) {
		t.Error("Apply is not deterministic")
	}
	if len(first) > 0 && &first[0] == &records[0] {
		t.Error("Apply returned the input backing array")
	}
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"4.5B", 4.5e9},
		{"412.5M", 412.5e6},
		{"900k", 900e3},
		{"12,400", 12400},
		{"N/A", 0},
		{"unavailable", 0},
		{"", 0},
		{" 7 ", 7},
	}
	for _, tt := range tests {
		if got := ParseVolume(tt.in); got != tt.want {
			t.Errorf("ParseVolume(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
