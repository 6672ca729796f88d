package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PropertyFinder lists properties that still need generated content.
type PropertyFinder interface {
	FindWithoutContent(ctx context.Context, limit int) ([]uuid.UUID, error)
}

// ContentRequester schedules background generation for a property without blocking.
type ContentRequester interface {
	RequestContent(ctx context.Context, propertyID uuid.UUID) error
}

// BackfillConfig controls the Backfiller.
type BackfillConfig struct {
	// Interval between passes. Zero or negative disables the periodic loop.
	Interval time.Duration

	// BatchSize is the maximum number of properties requested per pass.
	BatchSize int
}

// Backfiller periodically requests content for properties that have none.
type Backfiller struct {
	finder    PropertyFinder
	requester ContentRequester
	config    BackfillConfig
	logger    *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewBackfiller creates a Backfiller.
func NewBackfiller(finder PropertyFinder, requester ContentRequester, config BackfillConfig, logger *slog.Logger) (*Backfiller, error) {
	if finder == nil || requester == nil {
		return nil, errors.New("finder and requester cannot be nil")
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 20
	}
	return &Backfiller{
		finder:    finder,
		requester: requester,
		config:    config,
		logger:    logger.With("component", "backfiller"),
	}, nil
}

// RunOnce performs a single pass and returns how many properties were requested.
// A full queue ends the pass early without error.
func (b *Backfiller) RunOnce(ctx context.Context) (int, error) {
	ids, err := b.finder.FindWithoutContent(ctx, b.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list properties without content: %w", err)
	}

	requested := 0
	for _, id := range ids {
		if err := b.requester.RequestContent(ctx, id); err != nil {
			if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed) {
				b.logger.WarnContext(ctx, "backfill pass stopped early", "reason", err.Error(), "requested", requested)
				break
			}
			b.logger.WarnContext(ctx, "failed to request content", "property_id", id, "error", err)
			continue
		}
		requested++
	}

	if len(ids) > 0 {
		b.logger.InfoContext(ctx, "backfill pass finished", "candidates", len(ids), "requested", requested)
	}
	return requested, nil
}

// Start runs a pass immediately and then every Interval until Stop.
// It does nothing when Interval is not positive.
func (b *Backfiller) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.config.Interval <= 0 || b.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})

	go func() {
		defer close(b.done)
		ticker := time.NewTicker(b.config.Interval)
		defer ticker.Stop()

		for {
			if _, err := b.RunOnce(ctx); err != nil && ctx.Err() == nil {
				b.logger.Error("backfill pass failed", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	b.logger.Info("backfiller started", "interval", b.config.Interval, "batch_size", b.config.BatchSize)
}

// Stop ends the periodic loop and waits for an in-progress pass to return.
func (b *Backfiller) Stop() {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel = nil
	b.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	b.logger.Info("backfiller stopped")
}
