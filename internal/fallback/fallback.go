package fallback

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/afrimarkets/dashboard/internal/model"
)

//go:embed markets.yaml
var marketsYAML []byte

// entry is one record as authored in markets.yaml.
type entry struct {
	ID            string `yaml:"id"`
	Symbol        string `yaml:"symbol"`
	Market        string `yaml:"market"`
	Name          string `yaml:"name"`
	Country       string `yaml:"country"`
	Exchange      string `yaml:"exchange"`
	Sector        string `yaml:"sector"`
	Currency      string `yaml:"currency"`
	RawValue      string `yaml:"rawValue"`
	ChangePercent string `yaml:"changePercent"`
	Volume        string `yaml:"volume"`
}

var dataset = sync.OnceValue(func() []model.MarketRecord {
	records, err := parse(marketsYAML)
	if err != nil {
		panic(fmt.Sprintf("fallback: embedded dataset: %v", err))
	}
	return records
})

// Records returns a fresh copy of the demo records.
func Records() []model.MarketRecord {
	src := dataset()
	out := make([]model.MarketRecord, len(src))
	for i, r := range src {
		if r.ChangePercent != nil {
			v := *r.ChangePercent
			r.ChangePercent = &v
		}
		out[i] = r
	}
	return out
}

// Snapshot returns the demo dataset as a snapshot stamped with now.
func Snapshot(now time.Time) *model.Snapshot {
	return model.NewSnapshot(Records(), now, model.SourceDemo)
}

func parse(data []byte) ([]model.MarketRecord, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	records := make([]model.MarketRecord, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("record %q has no id", e.Name)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("duplicate id %q", e.ID)
		}
		seen[e.ID] = struct{}{}

		raw, err := decimal.NewFromString(e.RawValue)
		if err != nil {
			return nil, fmt.Errorf("%s: rawValue: %w", e.ID, err)
		}
		change, err := decimal.NewFromString(e.ChangePercent)
		if err != nil {
			return nil, fmt.Errorf("%s: changePercent: %w", e.ID, err)
		}

		rec := model.MarketRecord{
			ID:            e.ID,
			Symbol:        e.Symbol,
			Market:        e.Market,
			Name:          e.Name,
			Country:       e.Country,
			Exchange:      e.Exchange,
			Sector:        e.Sector,
			Currency:      e.Currency,
			RawValue:      raw,
			ChangePercent: &change,
			Volume:        e.Volume,
			Source:        model.SourceDemo,
		}
		rec.Normalize()
		records = append(records, rec)
	}

	return records, nil
}
