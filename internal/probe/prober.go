package probe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/afrimarkets/dashboard/internal/api"
	"github.com/afrimarkets/dashboard/internal/model"
)

// StatusSource is the status endpoint of the market data service.
type StatusSource interface {
	GetStatus(ctx context.Context) (*api.StatusResponse, error)
}

// Config holds prober configuration.
type Config struct {
	Attempts    int           // Max attempts per probe (default: 3)
	Timeout     time.Duration // Per-attempt timeout (default: 30s)
	BackoffStep time.Duration // Wait after transport failure N is BackoffStep*N (default: 2s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Attempts:    3,
		Timeout:     30 * time.Second,
		BackoffStep: 2 * time.Second,
	}
}

// Result is the outcome of one probe sequence.
type Result struct {
	Status   model.ConnectivityStatus
	Attempts int           // attempts actually made
	Backoff  time.Duration // total time spent waiting between attempts

	// Fallback is set when the final attempt failed at the transport level;
	// the caller should switch to demo data.
	Fallback bool
}

// Prober checks whether the market data service is reachable.
type Prober struct {
	cfg    Config
	source StatusSource
	logger *slog.Logger

	// wait blocks for d or until ctx is done.
	wait func(ctx context.Context, d time.Duration) error

	mu   sync.RWMutex
	last model.ConnectivityStatus
}

// New creates a new Prober. Zero config fields take their defaults.
func New(cfg Config, source StatusSource, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BackoffStep <= 0 {
		cfg.BackoffStep = def.BackoffStep
	}
	return &Prober{
		cfg:    cfg,
		source: source,
		logger: logger,
		wait:   sleep,
		last: model.ConnectivityStatus{
			Message: "Connectivity not checked yet",
		},
	}
}

// Status returns the status produced by the most recent probe sequence
// that was not cancelled.
func (p *Prober) Status() model.ConnectivityStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Probe runs one probe sequence. Attempts are strictly sequential.
func (p *Prober) Probe(ctx context.Context) Result {
	var res Result

	for attempt := 1; attempt <= p.cfg.Attempts; attempt++ {
		res.Attempts = attempt

		start := time.Now()
		resp, err := p.attempt(ctx)
		latency := time.Since(start)

		if err == nil {
			res.Status = model.ConnectivityStatus{
				Connected:    true,
				Message:      api.Message(api.KindNone),
				ResponseTime: latency,
				Diagnostics:  resp.Data,
			}
			p.logger.Info("market api reachable",
				"attempt", attempt,
				"latency", latency,
			)
			return p.finish(res)
		}

		kind := api.Classify(err)
		if kind == api.KindCanceled || ctx.Err() != nil {
			res.Status = disconnected(api.KindCanceled)
			return p.finish(res)
		}

		final := attempt == p.cfg.Attempts

		p.logger.Warn("connectivity check failed",
			"attempt", attempt,
			"attempts", p.cfg.Attempts,
			"kind", kind,
			"err", err,
		)

		if !kind.IsTransport() {
			// Logical or HTTP failure: the service answered, so move on
			// without backing off.
			if final {
				res.Status = disconnected(kind)
			}
			continue
		}

		if final {
			res.Status = disconnected(kind)
			res.Fallback = true
			break
		}

		delay := p.cfg.BackoffStep * time.Duration(attempt)
		if err := p.wait(ctx, delay); err != nil {
			res.Status = disconnected(api.KindCanceled)
			return p.finish(res)
		}
		res.Backoff += delay
	}

	return p.finish(res)
}

func (p *Prober) attempt(ctx context.Context) (*api.StatusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()
	return p.source.GetStatus(ctx)
}

func (p *Prober) finish(res Result) Result {
	res.Status.CheckedAt = time.Now().UTC()

	// A cancelled sequence says nothing about the service.
	if res.Status.Kind != string(api.KindCanceled) {
		p.mu.Lock()
		p.last = res.Status
		p.mu.Unlock()
	}

	if !res.Status.Connected {
		p.logger.Warn("market api unreachable",
			"kind", res.Status.Kind,
			"attempts", res.Attempts,
			"backoff", res.Backoff,
			"fallback", res.Fallback,
		)
	}
	return res
}

func disconnected(kind api.ErrorKind) model.ConnectivityStatus {
	return model.ConnectivityStatus{
		Connected: false,
		Message:   api.Message(kind),
		Kind:      string(kind),
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
