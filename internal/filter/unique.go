package filter

import (
	"slices"

	"github.com/afrimarkets/dashboard/internal/model"
)

// fields maps the keys accepted by UniqueValues to record accessors.
var fields = map[string]func(*model.MarketRecord) string{
	"id":       func(r *model.MarketRecord) string { return r.ID },
	"symbol":   func(r *model.MarketRecord) string { return r.Symbol },
	"market":   func(r *model.MarketRecord) string { return r.Market },
	"name":     func(r *model.MarketRecord) string { return r.Name },
	"country":  func(r *model.MarketRecord) string { return r.Country },
	"exchange": func(r *model.MarketRecord) string { return r.Exchange },
	"sector":   func(r *model.MarketRecord) string { return r.Sector },
	"currency": func(r *model.MarketRecord) string { return r.Currency },
	"source":   func(r *model.MarketRecord) string { return string(r.Source) },
}

// UniqueValues returns the distinct non-empty values of key across records,
// sorted ascending. Unknown keys give an empty result.
func UniqueValues(records []model.MarketRecord, key string) []string {
	get, ok := fields[key]
	if !ok {
		return []string{}
	}

	seen := make(map[string]struct{})
	out := []string{}
	for i := range records {
		v := get(&records[i])
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	slices.Sort(out)
	return out
}

// Keys lists the keys UniqueValues accepts.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
