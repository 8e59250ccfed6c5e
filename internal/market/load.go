package market

import (
	"context"
	"time"

	"github.com/afrimarkets/dashboard/internal/api"
	"github.com/afrimarkets/dashboard/internal/fallback"
	"github.com/afrimarkets/dashboard/internal/model"
)

// LoadMarkets fetches the market list and installs it as a live snapshot.
// Any failure installs the demo dataset instead. If ctx is cancelled while
// loading, the result is dropped and the previous snapshot stays.
func (s *Synchronizer) LoadMarkets(ctx context.Context) {
	prev := s.state.beginLoading()
	start := time.Now()

	snap, err := s.fetch(ctx, s.source.GetMarkets)
	if err != nil {
		if ctx.Err() != nil {
			s.state.abandonLoading(prev)
			s.logger.Debug("market load abandoned", "err", err)
			return
		}
		s.logger.Warn("failed to load markets, using demo data",
			"kind", api.Classify(err),
			"err", err,
		)
		s.loadFallback(ctx)
		return
	}

	s.install(ctx, snap, StateLive)
	s.logger.Info("markets loaded",
		"markets", len(snap.Records),
		"last_update", snap.UpdatedAt,
		"duration", time.Since(start),
	)
}

// LoadFallbackData installs the embedded demo dataset. It cannot fail.
func (s *Synchronizer) LoadFallbackData() {
	s.loadFallback(context.Background())
}

func (s *Synchronizer) loadFallback(ctx context.Context) {
	snap := fallback.Snapshot(time.Now())
	s.install(ctx, snap, StateDemo)
	s.logger.Info("demo data loaded", "markets", len(snap.Records))
}

// RefreshMarkets asks the service to recollect data and installs the result.
// Success marks the service connected; failure marks it disconnected and
// installs demo data. Concurrent calls share one request, and Loading
// reports true until it completes. If ctx ends first, RefreshMarkets
// returns early and the shared request carries on.
func (s *Synchronizer) RefreshMarkets(ctx context.Context) {
	ch := s.refreshes.DoChan("refresh", func() (any, error) {
		s.refreshing.Store(true)
		defer s.refreshing.Store(false)

		ctx, cancel := s.detach(ctx)
		defer cancel()

		s.refresh(ctx)
		return nil, nil
	})

	select {
	case <-ch:
	case <-ctx.Done():
	}
}

func (s *Synchronizer) refresh(ctx context.Context) {
	prev := s.state.beginLoading()
	start := time.Now()

	snap, err := s.fetch(ctx, s.source.TriggerRefresh)
	if err != nil {
		if ctx.Err() != nil {
			s.state.abandonLoading(prev)
			s.logger.Debug("market refresh abandoned", "err", err)
			return
		}

		kind := api.Classify(err)
		s.logger.Warn("market refresh failed, using demo data",
			"kind", kind,
			"err", err,
		)
		s.SetConnectivity(model.ConnectivityStatus{
			Connected: false,
			Message:   api.Message(kind),
			Kind:      string(kind),
		})
		s.loadFallback(ctx)
		return
	}

	latency := time.Since(start)
	s.install(ctx, snap, StateLive)
	s.SetConnectivity(model.ConnectivityStatus{
		Connected:    true,
		Message:      api.Message(api.KindNone),
		ResponseTime: latency,
	})
	s.logger.Info("markets refreshed",
		"markets", len(snap.Records),
		"duration", latency,
	)
}

// fetch calls one of the market endpoints and converts the payload.
func (s *Synchronizer) fetch(ctx context.Context, call func(context.Context) (*api.MarketsResponse, error)) (*model.Snapshot, error) {
	resp, err := call(ctx)
	if err != nil {
		return nil, err
	}
	return resp.ToSnapshot()
}

// install replaces the snapshot, announces it and runs snapshot handlers.
func (s *Synchronizer) install(ctx context.Context, snap *model.Snapshot, phase State) {
	handlers := s.state.install(snap, phase)

	s.state.notifyChange(Change{
		Kind:     ChangeSnapshot,
		State:    phase,
		Snapshot: snap,
		At:       time.Now().UTC(),
	})

	for _, h := range handlers {
		if err := h.HandleSnapshot(ctx, snap); err != nil {
			s.logger.Warn("snapshot handler failed",
				"snapshot", snap.ID,
				"err", err,
			)
		}
	}
}
