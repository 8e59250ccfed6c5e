package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/afrimarkets/dashboard/internal/model"
)

// ErrNoSnapshot is returned by Latest when nothing has been published yet.
var ErrNoSnapshot = errors.New("no snapshot published")

// Config holds publisher settings.
type Config struct {
	Key     string        // Key holding the latest snapshot
	Channel string        // Channel each snapshot is published on
	TTL     time.Duration // Expiry of Key; 0 keeps it forever
}

// Publisher writes snapshots to Redis. It implements market.SnapshotHandler.
type Publisher struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a Publisher on an existing client.
func New(client *redis.Client, cfg Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// HandleSnapshot stores snap under Key and publishes it on Channel in one
// transaction.
func (p *Publisher) HandleSnapshot(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, p.cfg.Key, data, p.cfg.TTL)
		pipe.Publish(ctx, p.cfg.Channel, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}

	p.logger.Debug("snapshot published",
		"snapshot", snap.ID,
		"source", snap.Source,
		"markets", len(snap.Records),
		"bytes", len(data),
	)
	return nil
}

// Latest reads back the last published snapshot.
func (p *Publisher) Latest(ctx context.Context) (*model.Snapshot, error) {
	data, err := p.client.Get(ctx, p.cfg.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Ping checks the Redis connection.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
