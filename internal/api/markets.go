package api

import (
	"context"
	"fmt"
	"net/http"
)

// GetMarkets fetches the current market list.
func (c *Client) GetMarkets(ctx context.Context) (*MarketsResponse, error) {
	var resp MarketsResponse
	if err := c.do(ctx, http.MethodGet, "/markets", nil, &resp); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("get markets: %w", &LogicalError{Endpoint: "/markets", Message: resp.Message})
	}
	return &resp, nil
}

// TriggerRefresh asks the service to recollect market data and returns the
// fresh list. It waits for the recollection to finish.
func (c *Client) TriggerRefresh(ctx context.Context) (*MarketsResponse, error) {
	var resp MarketsResponse
	if err := c.do(ctx, http.MethodPost, "/refresh", struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("trigger refresh: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("trigger refresh: %w", &LogicalError{Endpoint: "/refresh", Message: resp.Message})
	}
	return &resp, nil
}
