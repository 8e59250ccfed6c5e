package api

import (
	"context"
	"fmt"
	"net/http"
)

// GetStatus fetches the service status. A 2xx response with success=false
// is reported as a *LogicalError.
func (c *Client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("get status: %w", &LogicalError{Endpoint: "/status", Message: resp.Message})
	}
	return &resp, nil
}
