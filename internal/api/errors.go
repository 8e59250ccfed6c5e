package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrMalformed marks a 2xx response whose body does not match the contract.
var ErrMalformed = errors.New("malformed response")

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market api error %d: %s", e.StatusCode, e.Message)
}

// LogicalError is a 2xx response whose success indicator is false.
type LogicalError struct {
	Endpoint string
	Message  string
}

func (e *LogicalError) Error() string {
	if e.Message == "" {
		return e.Endpoint + " reported failure"
	}
	return e.Endpoint + " reported failure: " + e.Message
}

// OriginError is a response rejected by cross-origin policy.
type OriginError struct {
	Origin  string
	Allowed string // Access-Control-Allow-Origin, empty when absent
}

func (e *OriginError) Error() string {
	if e.Allowed == "" {
		return fmt.Sprintf("cross-origin request from %s blocked: no Access-Control-Allow-Origin header", e.Origin)
	}
	return fmt.Sprintf("cross-origin request from %s blocked: allowed origin is %s", e.Origin, e.Allowed)
}

// ErrorKind classifies request failures.
type ErrorKind string

const (
	KindNone        ErrorKind = ""
	KindTimeout     ErrorKind = "timeout"
	KindNetwork     ErrorKind = "network"
	KindCrossOrigin ErrorKind = "cross_origin"
	KindLogical     ErrorKind = "logical"
	KindHTTP        ErrorKind = "http"
	KindCanceled    ErrorKind = "canceled"
)

// IsTransport reports whether the request never produced a usable response.
func (k ErrorKind) IsTransport() bool {
	return k == KindTimeout || k == KindNetwork || k == KindCrossOrigin
}

// Classify maps an error returned by Client to its kind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var originErr *OriginError
	if errors.As(err, &originErr) {
		return KindCrossOrigin
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return KindHTTP
	}

	var logicalErr *LogicalError
	if errors.As(err, &logicalErr) || errors.Is(err, ErrMalformed) {
		return KindLogical
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	return KindNetwork
}

// Message returns the short user-facing connectivity message for a kind.
func Message(kind ErrorKind) string {
	switch kind {
	case KindNone:
		return "Connected to market data service"
	case KindTimeout:
		return "Connection timed out: the market data service did not respond in time"
	case KindNetwork:
		return "Network error: unable to reach the market data service"
	case KindCrossOrigin:
		return "Request blocked by cross-origin policy"
	case KindCanceled:
		return "Connectivity check cancelled"
	default:
		return "Market data service unavailable"
	}
}
