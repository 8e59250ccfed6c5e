package market

import (
	"context"
	"sync"
	"time"
)

// autoRefresh is the gate and handle for the periodic reload.
type autoRefresh struct {
	mu      sync.Mutex
	enabled bool
	parent  context.Context // set between Start and Stop
	task    *scheduledTask
}

// scheduledTask is one armed auto-refresh loop.
type scheduledTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// stop cancels the loop and waits until it has exited.
func (t *scheduledTask) stop() {
	t.cancel()
	<-t.done
}

// AutoRefresh reports whether auto-refresh is enabled.
func (s *Synchronizer) AutoRefresh() bool {
	s.auto.mu.Lock()
	defer s.auto.mu.Unlock()
	return s.auto.enabled
}

// ToggleAutoRefresh flips auto-refresh and returns the new value. When it
// returns false, no further scheduled loads will run.
func (s *Synchronizer) ToggleAutoRefresh() bool {
	s.auto.mu.Lock()
	s.auto.enabled = !s.auto.enabled
	enabled := s.auto.enabled
	s.auto.mu.Unlock()

	s.logger.Info("auto-refresh toggled", "enabled", enabled)
	s.reconcileAutoRefresh()
	return enabled
}

// reconcileAutoRefresh arms the loop when auto-refresh is on, the
// synchronizer is running and the service is connected, and cancels it
// otherwise. It is the only place tasks are created or stopped, apart from
// Stop.
func (s *Synchronizer) reconcileAutoRefresh() {
	s.auto.mu.Lock()
	defer s.auto.mu.Unlock()

	want := s.auto.enabled &&
		s.auto.parent != nil &&
		s.auto.parent.Err() == nil &&
		s.Connectivity().Connected

	switch {
	case want && s.auto.task == nil:
		s.auto.task = s.schedule(s.auto.parent)
		s.logger.Debug("auto-refresh armed", "interval", s.cfg.RefreshInterval)
	case !want && s.auto.task != nil:
		// The loop never takes auto.mu, so waiting here cannot deadlock.
		s.auto.task.stop()
		s.auto.task = nil
		s.logger.Debug("auto-refresh cancelled")
	}
}

func (s *Synchronizer) schedule(parent context.Context) *scheduledTask {
	ctx, cancel := context.WithCancel(parent)
	t := &scheduledTask{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.runAutoRefresh(ctx, t.done)
	return t
}

// runAutoRefresh reloads markets every RefreshInterval until ctx is done.
func (s *Synchronizer) runAutoRefresh(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Both cases may be ready; cancellation wins.
			if ctx.Err() != nil {
				return
			}
			s.LoadMarkets(ctx)
		}
	}
}
