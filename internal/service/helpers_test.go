package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/generation"
	"github.com/phrazzld/estate-api/internal/mocks"
	"github.com/phrazzld/estate-api/internal/task"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testContent() *domain.GeneratedContent {
	return &domain.GeneratedContent{
		KeyHighlights:  "<ul><li>Sea view</li></ul>",
		InvestmentData: "Rental yield near 4%",
		NearbyPlaces:   "<ul><li>RK Beach, 2 km</li></ul>",
		UniqueFeatures: "Rooftop garden",
		GeneratedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func testFacts() domain.PropertyFacts {
	return domain.PropertyFacts{
		Name:     "Lakeview Residency",
		Address:  "Beach Road, MVP Colony, Visakhapatnam",
		Price:    7500000,
		Area:     1450,
		Category: "Apartment",
	}
}

// recordedSleeps replaces real backoff waits and records requested delays.
type recordedSleeps struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recordedSleeps) all() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

type contentServiceFixture struct {
	svc       *ContentService
	store     *mocks.MockPropertyStore
	generator *mocks.MockGenerator
	queue     *task.TaskQueue
	sleeps    *recordedSleeps
	now       time.Time
}

func newContentServiceFixture(t *testing.T, queueSize int) *contentServiceFixture {
	t.Helper()

	f := &contentServiceFixture{
		store:     &mocks.MockPropertyStore{},
		generator: mocks.NewMockGeneratorWithContent(testContent()),
		sleeps:    &recordedSleeps{},
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	var queue task.TaskQueueWriter
	if queueSize > 0 {
		f.queue = task.NewTaskQueue(queueSize, testLogger())
		queue = f.queue
	}

	svc, err := NewContentService(f.store, f.generator, queue, ContentServiceConfig{
		Generation:      generation.GenerationConfig{APIKey: "test-key", Model: "test-model"},
		MaxRetries:      2,
		RetryDelay:      100 * time.Millisecond,
		FailureCooldown: 10 * time.Minute,
	}, testLogger())
	require.NoError(t, err)

	svc.now = func() time.Time { return f.now }
	svc.sleep = f.sleeps.sleep
	f.svc = svc
	return f
}
