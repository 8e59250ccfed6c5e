package api

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// StatusResponse from GET /status
type StatusResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// MarketsResponse from GET /markets and POST /refresh
type MarketsResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    *MarketsData `json:"data"`
}

// MarketsData is the payload of a markets response.
type MarketsData struct {
	Markets    []APIMarket `json:"markets"`
	LastUpdate string      `json:"lastUpdate"` // ISO 8601
}

// APIMarket represents a market record as sent by the service.
// Numeric fields accept JSON numbers or loosely formatted strings.
type APIMarket struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Market   string `json:"market"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	Currency string `json:"currency"`

	Value    string `json:"value"`
	RawValue Number `json:"rawValue"`
	Price    Number `json:"price"` // Older payloads send price instead of rawValue

	ChangePercent Number `json:"changePercent"`
	Change        Number `json:"change"`

	Volume json.RawMessage `json:"volume"`
}

// Number is an optional decimal decoded leniently: 1234.5, "1,234.5",
// "+1.2%" all parse; null, "", "N/A" and other text leave it unset.
type Number struct {
	Value decimal.Decimal
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if d, ok := ParseNumber(s); ok {
			n.Value, n.Valid = d, true
		}
		return nil
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return nil
	}
	n.Value, n.Valid = d, true
	return nil
}

// Ptr returns the value as a pointer, nil when unset.
func (n Number) Ptr() *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// ParseNumber parses a display-formatted number such as "1,234.56",
// "+0.85%" or " -12 ". Returns false for empty or non-numeric input.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
