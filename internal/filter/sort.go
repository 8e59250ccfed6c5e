package filter

import (
	"cmp"
	"strconv"
	"strings"

	"golang.org/x/text/collate"

	"github.com/afrimarkets/dashboard/internal/model"
)

type compareFunc func(a, b *model.MarketRecord) int

// comparators maps each sort key to its comparator. String keys are built
// per call around a fresh collator.
var comparators = map[SortKey]func(c *collate.Collator) compareFunc{
	SortByName: func(c *collate.Collator) compareFunc {
		return func(a, b *model.MarketRecord) int { return c.CompareString(a.Name, b.Name) }
	},
	SortBySymbol: func(c *collate.Collator) compareFunc {
		return func(a, b *model.MarketRecord) int { return c.CompareString(symbolOf(a), symbolOf(b)) }
	},
	SortByPrice: func(*collate.Collator) compareFunc {
		return func(a, b *model.MarketRecord) int { return a.RawValue.Cmp(b.RawValue) }
	},
	SortByChange: func(*collate.Collator) compareFunc {
		return func(a, b *model.MarketRecord) int { return cmp.Compare(change(a), change(b)) }
	},
	SortByVolume: func(*collate.Collator) compareFunc {
		return func(a, b *model.MarketRecord) int { return cmp.Compare(ParseVolume(a.Volume), ParseVolume(b.Volume)) }
	},
}

// comparator returns nil for an empty or unknown key.
func comparator(key SortKey, order SortOrder) compareFunc {
	build, ok := comparators[key]
	if !ok {
		return nil
	}
	fn := build(newCollator())
	if order == Desc {
		return func(a, b *model.MarketRecord) int { return fn(b, a) }
	}
	return fn
}

func symbolOf(r *model.MarketRecord) string {
	switch {
	case r.Symbol != "":
		return r.Symbol
	case r.Market != "":
		return r.Market
	default:
		return r.ID
	}
}

var volumeMultipliers = map[byte]float64{
	'K': 1e3,
	'M': 1e6,
	'B': 1e9,
	'T': 1e12,
}

// ParseVolume turns a free-form volume ("4.2B", "12,400", "N/A") into a
// number. Anything unparsable is 0.
func ParseVolume(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}

	mult := 1.0
	if m, ok := volumeMultipliers[strings.ToUpper(s[len(s)-1:])[0]]; ok {
		mult = m
		s = strings.TrimSpace(s[:len(s)-1])
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f * mult
}
