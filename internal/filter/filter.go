package filter

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/afrimarkets/dashboard/internal/model"
)

// All is the sentinel that disables an equality filter.
const All = "all"

// SortKey selects the projection records are ordered by.
type SortKey string

const (
	SortByName   SortKey = "name"
	SortBySymbol SortKey = "symbol"
	SortByPrice  SortKey = "price"
	SortByChange SortKey = "change"
	SortByVolume SortKey = "volume"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Spec describes one dashboard query. Bounds are kept as entered; empty or
// unparsable bounds impose no constraint.
type Spec struct {
	Search    string    `form:"search" json:"search,omitempty"`
	Exchange  string    `form:"exchange" json:"exchange,omitempty"`
	Sector    string    `form:"sector" json:"sector,omitempty"`
	PriceMin  string    `form:"priceMin" json:"priceMin,omitempty"`
	PriceMax  string    `form:"priceMax" json:"priceMax,omitempty"`
	ChangeMin string    `form:"changeMin" json:"changeMin,omitempty"`
	ChangeMax string    `form:"changeMax" json:"changeMax,omitempty"`
	SortBy    SortKey   `form:"sortBy" json:"sortBy,omitempty" binding:"omitempty,oneof=name symbol price change volume"`
	SortOrder SortOrder `form:"sortOrder" json:"sortOrder,omitempty" binding:"omitempty,oneof=asc desc"`
}

// Language used for locale-aware string ordering.
var Language = language.English

// Apply filters and sorts records according to spec and returns a new slice.
func Apply(records []model.MarketRecord, spec Spec) []model.MarketRecord {
	preds := predicates(spec)

	out := make([]model.MarketRecord, 0, len(records))
	for i := range records {
		if matchAll(&records[i], preds) {
			out = append(out, records[i])
		}
	}

	if cmp := comparator(spec.SortBy, spec.SortOrder); cmp != nil {
		slices.SortStableFunc(out, func(a, b model.MarketRecord) int {
			return cmp(&a, &b)
		})
	}

	return out
}

type predicate func(*model.MarketRecord) bool

func matchAll(r *model.MarketRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

func predicates(spec Spec) []predicate {
	var preds []predicate

	if spec.Search != "" {
		fold := cases.Fold()
		term := fold.String(spec.Search)
		preds = append(preds, func(r *model.MarketRecord) bool {
			for _, field := range []string{r.Symbol, r.Name, r.Market, r.ID} {
				if field != "" && strings.Contains(fold.String(field), term) {
					return true
				}
			}
			return false
		})
	}

	if active(spec.Exchange) {
		preds = append(preds, func(r *model.MarketRecord) bool {
			return strings.EqualFold(r.Exchange, spec.Exchange)
		})
	}

	if active(spec.Sector) {
		preds = append(preds, func(r *model.MarketRecord) bool {
			return r.Sector == spec.Sector
		})
	}

	preds = appendRange(preds, spec.PriceMin, spec.PriceMax, price)
	preds = appendRange(preds, spec.ChangeMin, spec.ChangeMax, change)

	return preds
}

func active(v string) bool {
	return v != "" && !strings.EqualFold(v, All)
}

func appendRange(preds []predicate, minStr, maxStr string, value func(*model.MarketRecord) float64) []predicate {
	if lo, ok := parseBound(minStr); ok {
		preds = append(preds, func(r *model.MarketRecord) bool { return value(r) >= lo })
	}
	if hi, ok := parseBound(maxStr); ok {
		preds = append(preds, func(r *model.MarketRecord) bool { return value(r) <= hi })
	}
	return preds
}

func parseBound(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// price is the resolved numeric value of a record.
func price(r *model.MarketRecord) float64 {
	return r.RawValue.InexactFloat64()
}

// change resolves percent change, then plain change, then zero.
func change(r *model.MarketRecord) float64 {
	switch {
	case r.ChangePercent != nil:
		return r.ChangePercent.InexactFloat64()
	case r.Change != nil:
		return r.Change.InexactFloat64()
	default:
		return 0
	}
}

// newCollator returns a collator for Language. Collators are not safe for
// concurrent use, so each Apply call gets its own.
func newCollator() *collate.Collator {
	return collate.New(Language)
}
