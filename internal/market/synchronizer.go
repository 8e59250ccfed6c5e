package market

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/afrimarkets/dashboard/internal/api"
	"github.com/afrimarkets/dashboard/internal/model"
	"github.com/afrimarkets/dashboard/internal/probe"
)

// ChangeBufferSize is the capacity of the Change channel.
const ChangeBufferSize = 64

// MarketSource is the market endpoints of the data service.
type MarketSource interface {
	GetMarkets(ctx context.Context) (*api.MarketsResponse, error)
	TriggerRefresh(ctx context.Context) (*api.MarketsResponse, error)
}

// Checker runs connectivity probes.
type Checker interface {
	Probe(ctx context.Context) probe.Result
}

// SnapshotHandler receives every snapshot the synchronizer installs.
type SnapshotHandler interface {
	HandleSnapshot(ctx context.Context, snapshot *model.Snapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(context.Context, *model.Snapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(ctx context.Context, s *model.Snapshot) error {
	return f(ctx, s)
}

// Config holds synchronizer configuration.
type Config struct {
	RefreshInterval time.Duration // Auto-refresh interval (default: 30s)
	AutoRefresh     bool          // Initial auto-refresh flag (default: true)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 30 * time.Second,
		AutoRefresh:     true,
	}
}

// Synchronizer keeps the market snapshot in step with the data service.
type Synchronizer struct {
	cfg     Config
	source  MarketSource
	checker Checker
	logger  *slog.Logger

	state *syncState

	refreshing atomic.Bool
	refreshes  singleflight.Group
	probes     singleflight.Group

	auto autoRefresh

	// life bounds shared probe and refresh calls, which outlive the
	// callers that started them.
	life context.Context
	kill context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Synchronizer. checker may be nil, in which case Start
// goes straight to demo data.
func New(cfg Config, source MarketSource, checker Checker, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultConfig().RefreshInterval
	}

	s := &Synchronizer{
		cfg:     cfg,
		source:  source,
		checker: checker,
		logger:  logger,
		state:   newState(),
	}
	s.life, s.kill = context.WithCancel(context.Background())
	s.auto.enabled = cfg.AutoRefresh
	return s
}

// Start runs the initial connectivity check in the background and arms
// auto-refresh once the service is reachable.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	context.AfterFunc(s.ctx, s.kill)

	s.auto.mu.Lock()
	s.auto.parent = s.ctx
	s.auto.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-s.recheck(s.ctx)
	}()

	s.logger.Info("market synchronizer started",
		"refresh_interval", s.cfg.RefreshInterval,
		"auto_refresh", s.AutoRefresh(),
	)

	return nil
}

// Stop cancels the initial check and the auto-refresh loop and waits for
// them to finish.
func (s *Synchronizer) Stop(ctx context.Context) error {
	s.auto.mu.Lock()
	task := s.auto.task
	s.auto.task = nil
	s.auto.parent = nil
	s.auto.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.kill()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		if task != nil {
			task.stop()
		}
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("market synchronizer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recheck probes the service and applies the result. Only one probe
// sequence runs at a time; concurrent callers wait for the one in flight.
// If ctx ends first, Recheck returns early and the probe carries on.
func (s *Synchronizer) Recheck(ctx context.Context) model.ConnectivityStatus {
	select {
	case <-s.recheck(ctx):
	case <-ctx.Done():
	}
	return s.Connectivity()
}

func (s *Synchronizer) recheck(ctx context.Context) <-chan singleflight.Result {
	return s.probes.DoChan("probe", func() (any, error) {
		ctx, cancel := s.detach(ctx)
		defer cancel()

		if s.checker == nil {
			s.loadFallback(ctx)
			return nil, nil
		}
		s.ApplyProbe(ctx, s.checker.Probe(ctx))
		return nil, nil
	})
}

// detach returns a context that keeps ctx's values but is cancelled only
// when the synchronizer stops.
func (s *Synchronizer) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// ApplyProbe records a probe result and picks the data source: live data when
// connected, demo data when the prober asks for it or nothing is loaded yet.
func (s *Synchronizer) ApplyProbe(ctx context.Context, res probe.Result) {
	if ctx.Err() != nil {
		return
	}

	s.SetConnectivity(res.Status)

	switch {
	case res.Status.Connected:
		s.LoadMarkets(ctx)
	case res.Fallback, s.state.snapshot.Load() == nil:
		s.loadFallback(ctx)
	}
}

// OnSnapshot registers a handler for installed snapshots. Register handlers
// before Start.
func (s *Synchronizer) OnSnapshot(h SnapshotHandler) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.handlers = append(s.state.handlers, h)
}

// SubscribeChanges returns the channel of snapshot and connectivity changes.
// Slow readers lose the oldest changes.
func (s *Synchronizer) SubscribeChanges() <-chan Change {
	return s.state.changes
}

// Snapshot returns a copy of the current snapshot. ok is false before the
// first load.
func (s *Synchronizer) Snapshot() (snap model.Snapshot, ok bool) {
	p := s.state.snapshot.Load()
	if p == nil {
		return model.Snapshot{}, false
	}
	return p.Clone(), true
}

// State returns the current synchronizer state.
func (s *Synchronizer) State() State {
	return s.state.getPhase()
}

// Loading reports whether a manual refresh is in flight.
func (s *Synchronizer) Loading() bool {
	return s.refreshing.Load()
}

// Connectivity returns the last known connectivity status.
func (s *Synchronizer) Connectivity() model.ConnectivityStatus {
	return s.state.getConnectivity()
}

// SetConnectivity records a connectivity status and re-arms or cancels
// auto-refresh to match.
func (s *Synchronizer) SetConnectivity(status model.ConnectivityStatus) {
	if status.CheckedAt.IsZero() {
		status.CheckedAt = time.Now().UTC()
	}

	changed := s.state.setConnectivity(status)
	if changed {
		s.logger.Info("connectivity changed",
			"connected", status.Connected,
			"kind", status.Kind,
			"message", status.Message,
		)
	}
	s.state.notifyChange(Change{
		Kind:         ChangeConnectivity,
		Connectivity: &status,
		State:        s.State(),
		At:           status.CheckedAt,
	})

	s.reconcileAutoRefresh()
}
