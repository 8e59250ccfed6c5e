package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/afrimarkets/dashboard/internal/model"
)

// ParseTimestamp parses an ISO 8601 timestamp.
func ParseTimestamp(iso string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05.999999999", iso)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}

// ToModel converts an APIMarket to model.MarketRecord.
func (m *APIMarket) ToModel() model.MarketRecord {
	raw := m.RawValue
	if !raw.Valid {
		raw = m.Price
	}
	if !raw.Valid {
		if d, ok := ParseNumber(m.Value); ok {
			raw = Number{Value: d, Valid: true}
		}
	}

	id := m.ID
	if id == "" {
		id = strings.ToLower(m.Market)
	}

	rec := model.MarketRecord{
		ID:            id,
		Symbol:        m.Symbol,
		Market:        m.Market,
		Name:          m.Name,
		Country:       m.Country,
		Exchange:      m.Exchange,
		Sector:        m.Sector,
		Currency:      m.Currency,
		Value:         m.Value,
		RawValue:      raw.Value,
		ChangePercent: m.ChangePercent.Ptr(),
		Change:        m.Change.Ptr(),
		Volume:        volumeString(m.Volume),
		Source:        model.SourceLive,
	}
	rec.Normalize()
	return rec
}

// ToSnapshot validates the response and converts it into a live snapshot.
// Errors wrap ErrMalformed.
func (r *MarketsResponse) ToSnapshot() (*model.Snapshot, error) {
	if r.Data == nil || r.Data.Markets == nil {
		return nil, fmt.Errorf("%w: missing data.markets", ErrMalformed)
	}

	updatedAt, err := ParseTimestamp(r.Data.LastUpdate)
	if err != nil {
		return nil, fmt.Errorf("%w: lastUpdate %q", ErrMalformed, r.Data.LastUpdate)
	}

	records := make([]model.MarketRecord, 0, len(r.Data.Markets))
	seen := make(map[string]struct{}, len(r.Data.Markets))
	for i := range r.Data.Markets {
		rec := r.Data.Markets[i].ToModel()
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: market %d has no id", ErrMalformed, i)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate market id %q", ErrMalformed, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}

	return model.NewSnapshot(records, updatedAt, model.SourceLive), nil
}

// volumeString renders the free-form volume field, which the service sends
// either as a string or a number.
func volumeString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "N/A"
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return "N/A"
		}
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return "N/A"
}
