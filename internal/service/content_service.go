package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/generation"
	"github.com/phrazzld/estate-api/internal/platform/logger"
	"github.com/phrazzld/estate-api/internal/redact"
	"github.com/phrazzld/estate-api/internal/store"
	"github.com/phrazzld/estate-api/internal/task"
)

// ContentServiceConfig holds the caller policy around generation.
type ContentServiceConfig struct {
	// Generation is passed unchanged to every Generate call.
	Generation generation.GenerationConfig

	// MaxRetries is the number of extra attempts after a transport failure.
	MaxRetries int

	// RetryDelay is the base delay of the exponential backoff.
	RetryDelay time.Duration

	// FailureCooldown suppresses automatic generation for a property after a
	// failed attempt. Explicit regeneration ignores it.
	FailureCooldown time.Duration
}

// ContentService generates, persists and schedules property marketing content.
// It is safe for concurrent use.
type ContentService struct {
	properties store.PropertyStore
	generator  generation.Generator
	queue      task.TaskQueueWriter
	config     ContentServiceConfig
	logger     *slog.Logger

	locks *keyedMutex

	mu       sync.Mutex
	failures map[uuid.UUID]time.Time
	pending  map[uuid.UUID]struct{}

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewContentService creates a ContentService. queue may be nil, in which case
// RequestContent and RequestRegeneration report task.ErrQueueClosed.
func NewContentService(
	properties store.PropertyStore,
	generator generation.Generator,
	queue task.TaskQueueWriter,
	config ContentServiceConfig,
	logger *slog.Logger,
) (*ContentService, error) {
	if properties == nil {
		return nil, errors.New("property store cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	return &ContentService{
		properties: properties,
		generator:  generator,
		queue:      queue,
		config:     config,
		logger:     logger.With("component", "content_service"),
		locks:      newKeyedMutex(),
		failures:   make(map[uuid.UUID]time.Time),
		pending:    make(map[uuid.UUID]struct{}),
		now:        time.Now,
		sleep:      sleepContext,
	}, nil
}

var (
	_ task.ContentService   = (*ContentService)(nil)
	_ task.ContentRequester = (*ContentService)(nil)
)

// Regenerate fetches the property's facts, generates content and persists it.
// Failures are logged with the property ID and failure kind and returned.
func (s *ContentService) Regenerate(ctx context.Context, propertyID uuid.UUID) (*domain.GeneratedContent, error) {
	unlock := s.locks.Lock(propertyID)
	defer unlock()
	return s.regenerateLocked(ctx, propertyID)
}

// EnsureContent generates content only when the property has none and is not
// cooling down after a failure. It reports whether a generation ran.
// The pending mark set by RequestContent is released on every path,
// including a cancelled context.
func (s *ContentService) EnsureContent(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	defer s.clearPending(propertyID)
	if err := ctx.Err(); err != nil {
		return false, err
	}

	unlock := s.locks.Lock(propertyID)
	defer unlock()

	generated, err := s.properties.IsContentGenerated(ctx, propertyID)
	if err != nil {
		return false, NewServiceError("ensure_content", "failed to read content flag", err)
	}
	if generated {
		return false, nil
	}
	if remaining, cooling := s.coolingDown(propertyID); cooling {
		s.log(ctx).DebugContext(ctx, "skipping generation during cool-down",
			"property_id", propertyID, "remaining", remaining)
		return false, nil
	}

	if _, err := s.regenerateLocked(ctx, propertyID); err != nil {
		return false, err
	}
	return true, nil
}

// RequestContent schedules background generation when the property has no
// content. It never calls the model and never blocks on the queue.
func (s *ContentService) RequestContent(ctx context.Context, propertyID uuid.UUID) error {
	generated, err := s.properties.IsContentGenerated(ctx, propertyID)
	if err != nil {
		return NewServiceError("request_content", "failed to read content flag", err)
	}
	if generated {
		return nil
	}
	if _, cooling := s.coolingDown(propertyID); cooling {
		return nil
	}
	if !s.markPending(propertyID) {
		return nil
	}

	if _, err := s.enqueue(propertyID, task.ModeEnsure); err != nil {
		s.clearPending(propertyID)
		return err
	}
	return nil
}

// RequestRegeneration schedules a forced regeneration and returns the task ID.
func (s *ContentService) RequestRegeneration(ctx context.Context, propertyID uuid.UUID) (uuid.UUID, error) {
	if _, err := s.properties.IsContentGenerated(ctx, propertyID); err != nil {
		return uuid.Nil, NewServiceError("request_regeneration", "failed to look up property", err)
	}
	return s.enqueue(propertyID, task.ModeForce)
}

func (s *ContentService) enqueue(propertyID uuid.UUID, mode task.GenerationMode) (uuid.UUID, error) {
	if s.queue == nil {
		return uuid.Nil, task.ErrQueueClosed
	}
	t, err := task.NewContentGenerationTask(propertyID, mode, s, s.logger)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create generation task: %w", err)
	}
	if err := s.queue.Enqueue(t); err != nil {
		s.logger.Warn("failed to enqueue generation task",
			"property_id", propertyID, "mode", mode, "error", err)
		return uuid.Nil, err
	}
	return t.ID(), nil
}

func (s *ContentService) regenerateLocked(ctx context.Context, propertyID uuid.UUID) (*domain.GeneratedContent, error) {
	log := s.log(ctx).With("property_id", propertyID)

	facts, err := s.properties.GetFacts(ctx, propertyID)
	if err != nil {
		return nil, NewServiceError("regenerate", "failed to load property facts", err)
	}

	content, err := s.generateWithRetry(ctx, log, facts)
	if err != nil {
		s.recordFailure(propertyID)
		log.ErrorContext(ctx, "content generation failed",
			"failure_kind", string(generation.KindOf(err)),
			"error", redact.Error(err))
		return nil, err
	}

	if err := s.properties.PersistContent(ctx, propertyID, content); err != nil {
		s.recordFailure(propertyID)
		log.ErrorContext(ctx, "failed to persist generated content", "error", redact.Error(err))
		return nil, NewServiceError("regenerate", "failed to persist content", err)
	}

	s.clearFailure(propertyID)
	log.InfoContext(ctx, "content generated", "degraded", content.Degraded)
	return content, nil
}

// generateWithRetry calls the generator, retrying transport failures with
// exponential backoff and jitter: delay = base * 2^attempt * [0.5, 1.0).
func (s *ContentService) generateWithRetry(
	ctx context.Context,
	log *slog.Logger,
	facts domain.PropertyFacts,
) (*domain.GeneratedContent, error) {
	for attempt := 0; ; attempt++ {
		content, err := s.generator.Generate(ctx, facts, s.config.Generation)
		if err == nil {
			return content, nil
		}
		if attempt >= s.config.MaxRetries || !generation.IsRetryable(ctx, err) {
			return nil, err
		}

		backoff := float64(s.config.RetryDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5))
		log.WarnContext(ctx, "retrying content generation",
			"attempt", attempt+1,
			"max_retries", s.config.MaxRetries,
			"delay", delay,
			"error", redact.Error(err))

		if serr := s.sleep(ctx, delay); serr != nil {
			return nil, err
		}
	}
}

func (s *ContentService) coolingDown(propertyID uuid.UUID) (time.Duration, bool) {
	if s.config.FailureCooldown <= 0 {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	failedAt, ok := s.failures[propertyID]
	if !ok {
		return 0, false
	}
	remaining := s.config.FailureCooldown - s.now().Sub(failedAt)
	if remaining <= 0 {
		delete(s.failures, propertyID)
		return 0, false
	}
	return remaining, true
}

func (s *ContentService) recordFailure(propertyID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[propertyID] = s.now()
}

func (s *ContentService) clearFailure(propertyID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, propertyID)
}

// markPending records an outstanding ensure task, reporting false if one exists.
func (s *ContentService) markPending(propertyID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[propertyID]; ok {
		return false
	}
	s.pending[propertyID] = struct{}{}
	return true
}

func (s *ContentService) clearPending(propertyID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, propertyID)
}

func (s *ContentService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
