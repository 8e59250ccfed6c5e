package model

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Provenance tags where data came from.
type Provenance string

const (
	SourceLive Provenance = "live" // remote market data service
	SourceDemo Provenance = "demo" // embedded fallback dataset
)

// -----------------------------------------------------------------------------
// Market Types
// -----------------------------------------------------------------------------

// MarketRecord is one exchange index as shown on the dashboard.
type MarketRecord struct {
	ID       string `json:"id"`               // Unique within a snapshot (e.g., "jse")
	Symbol   string `json:"symbol,omitempty"` // Index symbol (e.g., "J203")
	Market   string `json:"market,omitempty"` // Market identifier used by the backend
	Name     string `json:"name"`             // Display name
	Country  string `json:"country"`
	Exchange string `json:"exchange"` // Source exchange name
	Sector   string `json:"sector,omitempty"`
	Currency string `json:"currency"`

	// Current value
	Value    string          `json:"value"`    // Formatted (e.g., "78,412.35")
	RawValue decimal.Decimal `json:"rawValue"` // Numeric

	// Change
	ChangePercent *decimal.Decimal `json:"changePercent,omitempty"`
	Change        *decimal.Decimal `json:"change,omitempty"` // Plain (absolute) change
	Positive      bool             `json:"positive"`         // ChangePercent >= 0

	Volume string     `json:"volume"` // Free-form, "N/A" when unavailable
	Source Provenance `json:"source"`
}

// Normalize derives Positive from ChangePercent and fills Value from RawValue
// when the formatted form is missing.
func (r *MarketRecord) Normalize() {
	r.Positive = r.ChangePercent == nil || !r.ChangePercent.IsNegative()
	if r.Value == "" {
		r.Value = FormatValue(r.RawValue)
	}
}

// FormatValue renders a value with two decimals and comma thousands separators.
func FormatValue(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Snapshot is an immutable view of the current market record set.
// A new snapshot always replaces the previous one as a whole.
type Snapshot struct {
	ID        uuid.UUID      `json:"id"`
	Records   []MarketRecord `json:"markets"`
	UpdatedAt time.Time      `json:"lastUpdate"`
	Source    Provenance     `json:"source"`
}

// NewSnapshot normalizes the records and stamps them with the snapshot source.
// The input slice is not modified.
func NewSnapshot(records []MarketRecord, updatedAt time.Time, source Provenance) *Snapshot {
	recs := make([]MarketRecord, len(records))
	for i, r := range records {
		r.Source = source
		r.Normalize()
		recs[i] = r
	}
	return &Snapshot{
		ID:        uuid.New(),
		Records:   recs,
		UpdatedAt: updatedAt.UTC(),
		Source:    source,
	}
}

// Clone returns a deep copy safe to hand to callers.
func (s *Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	c := *s
	c.Records = slices.Clone(s.Records)
	for i := range c.Records {
		if p := c.Records[i].ChangePercent; p != nil {
			v := *p
			c.Records[i].ChangePercent = &v
		}
		if p := c.Records[i].Change; p != nil {
			v := *p
			c.Records[i].Change = &v
		}
	}
	return c
}

// -----------------------------------------------------------------------------
// Connectivity
// -----------------------------------------------------------------------------

// ConnectivityStatus is the outcome of the most recent probe sequence.
type ConnectivityStatus struct {
	Connected    bool           `json:"connected"`
	Message      string         `json:"message"`
	Kind         string         `json:"kind,omitempty"`         // Failure kind, empty when connected
	ResponseTime time.Duration  `json:"responseTime,omitempty"` // Latency of the successful attempt
	Diagnostics  map[string]any `json:"diagnostics,omitempty"`  // Payload from GET /status
	CheckedAt    time.Time      `json:"checkedAt"`
}
