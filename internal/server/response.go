package server

import (
	"net/http"
	"time"

	"github.com/afrimarkets/dashboard/internal/model"
)

// Res is the response envelope.
type Res struct {
	Success bool `json:"success"`
	Error   any  `json:"error"`
	Data    any  `json:"data"`
}

// ErrorType describes one invalid request field.
type ErrorType struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CustomError is an error with a fixed HTTP status.
type CustomError struct {
	StatusCode int
	Message    string
}

func NewCError(statusCode int, message string) CustomError {
	return CustomError{StatusCode: statusCode, Message: message}
}

func (err CustomError) Error() string {
	return err.Message
}

var (
	ErrNoSnapshot = NewCError(http.StatusServiceUnavailable,
		"market data not loaded yet")
	ErrUnknownField = NewCError(http.StatusBadRequest,
		"unknown filter field")
)

// MarketsRes is the data of GET /api/v1/markets.
type MarketsRes struct {
	Markets    []model.MarketRecord `json:"markets"`
	Total      int                  `json:"total"` // records in the snapshot
	Count      int                  `json:"count"` // records after filtering
	LastUpdate time.Time            `json:"lastUpdate"`
	Source     model.Provenance     `json:"source"`
	State      string               `json:"state"`
	SnapshotID string               `json:"snapshotId"`
}

// StatusRes is the data of the status endpoints.
type StatusRes struct {
	Connectivity model.ConnectivityStatus `json:"connectivity"`
	State        string                   `json:"state"`
	Loading      bool                     `json:"loading"`
	AutoRefresh  bool                     `json:"autoRefresh"`
}
