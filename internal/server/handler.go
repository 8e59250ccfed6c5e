package server

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/afrimarkets/dashboard/internal/filter"
	"github.com/afrimarkets/dashboard/internal/market"
	"github.com/afrimarkets/dashboard/internal/version"
)

func (s *Server) status() StatusRes {
	return StatusRes{
		Connectivity: s.sync.Connectivity(),
		State:        s.sync.State().String(),
		Loading:      s.sync.Loading(),
		AutoRefresh:  s.sync.AutoRefresh(),
	}
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Build      version.Info   `json:"build"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Build:      version.Get(),
		Components: make(map[string]any),
	}

	// Demo data is a supported state, but worth flagging.
	snap, ok := s.sync.Snapshot()
	conn := s.sync.Connectivity()
	health.Components["synchronizer"] = map[string]any{
		"state":     s.sync.State().String(),
		"markets":   len(snap.Records),
		"connected": conn.Connected,
		"message":   conn.Message,
	}
	if !ok || !conn.Connected {
		health.Status = "degraded"
	}

	for name, dep := range s.deps {
		if err := dep.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components[name] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
			continue
		}
		health.Components[name] = "connected"
	}

	code := http.StatusOK
	if health.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, health)
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, Res{Success: true, Data: s.status()})
}

func (s *Server) checkStatus(c *gin.Context) {
	s.sync.Recheck(c.Request.Context())
	if c.Request.Context().Err() != nil {
		c.Error(c.Request.Context().Err())
		return
	}
	c.JSON(http.StatusOK, Res{Success: true, Data: s.status()})
}

func (s *Server) getMarkets(c *gin.Context) {
	var spec filter.Spec
	if err := c.ShouldBindQuery(&spec); err != nil {
		c.Error(err)
		return
	}

	snap, ok := s.sync.Snapshot()
	if !ok {
		c.Error(ErrNoSnapshot)
		return
	}

	records := filter.Apply(snap.Records, spec)
	c.JSON(http.StatusOK, Res{
		Success: true,
		Data: MarketsRes{
			Markets:    records,
			Total:      len(snap.Records),
			Count:      len(records),
			LastUpdate: snap.UpdatedAt,
			Source:     snap.Source,
			State:      s.sync.State().String(),
			SnapshotID: snap.ID.String(),
		},
	})
}

func (s *Server) getOptions(c *gin.Context) {
	key := c.Param("key")
	if !slices.Contains(filter.Keys(), key) {
		c.Error(ErrUnknownField)
		return
	}

	snap, ok := s.sync.Snapshot()
	if !ok {
		c.Error(ErrNoSnapshot)
		return
	}

	c.JSON(http.StatusOK, Res{
		Success: true,
		Data:    filter.UniqueValues(snap.Records, key),
	})
}

func (s *Server) refreshMarkets(c *gin.Context) {
	s.sync.RefreshMarkets(c.Request.Context())
	if c.Request.Context().Err() != nil {
		c.Error(c.Request.Context().Err())
		return
	}
	c.JSON(http.StatusOK, Res{Success: true, Data: s.status()})
}

func (s *Server) toggleAutoRefresh(c *gin.Context) {
	s.sync.ToggleAutoRefresh()
	c.JSON(http.StatusOK, Res{Success: true, Data: s.status()})
}

func (s *Server) serveWS(c *gin.Context) {
	greeting := market.Change{
		Kind:  market.ChangeSnapshot,
		State: s.sync.State(),
		At:    time.Now().UTC(),
	}
	if snap, ok := s.sync.Snapshot(); ok {
		greeting.Snapshot = &snap
	}
	conn := s.sync.Connectivity()
	greeting.Connectivity = &conn

	if err := s.stream.ServeWS(c.Writer, c.Request, greeting); err != nil {
		s.logger.Debug("websocket upgrade failed", "err", err)
	}
}
