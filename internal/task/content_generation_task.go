package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/estate-api/internal/domain"
)

// Common errors
var (
	ErrNilContentService = errors.New("content service cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrEmptyPropertyID   = errors.New("property ID cannot be empty")
	ErrInvalidMode       = errors.New("invalid generation mode")
)

// GenerationMode selects what a ContentGenerationTask does.
type GenerationMode string

const (
	// ModeEnsure generates content only when the property has none.
	ModeEnsure GenerationMode = "ensure"
	// ModeForce regenerates content unconditionally.
	ModeForce GenerationMode = "force"
)

// ContentService is the subset of the content service a task needs.
type ContentService interface {
	// Regenerate generates and persists content for a property.
	Regenerate(ctx context.Context, propertyID uuid.UUID) (*domain.GeneratedContent, error)

	// EnsureContent generates content only if the property has none,
	// reporting whether a generation ran.
	EnsureContent(ctx context.Context, propertyID uuid.UUID) (bool, error)
}

// contentGenerationPayload represents the serialized data of the task
type contentGenerationPayload struct {
	PropertyID uuid.UUID      `json:"property_id"`
	Mode       GenerationMode `json:"mode"`
}

// ContentGenerationTask implements Task for generating the marketing
// content of one property.
type ContentGenerationTask struct {
	id         uuid.UUID
	propertyID uuid.UUID
	mode       GenerationMode
	service    ContentService
	logger     *slog.Logger
	status     *statusHolder
}

// NewContentGenerationTask creates a new content generation task
func NewContentGenerationTask(
	propertyID uuid.UUID,
	mode GenerationMode,
	service ContentService,
	logger *slog.Logger,
) (*ContentGenerationTask, error) {
	if service == nil {
		return nil, ErrNilContentService
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if propertyID == uuid.Nil {
		return nil, ErrEmptyPropertyID
	}
	if mode != ModeEnsure && mode != ModeForce {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	id := uuid.New()
	return &ContentGenerationTask{
		id:         id,
		propertyID: propertyID,
		mode:       mode,
		service:    service,
		logger: logger.With(
			"task_id", id,
			"task_type", TaskTypeContentGeneration,
			"property_id", propertyID,
			"mode", mode,
		),
		status: newStatusHolder(),
	}, nil
}

// ID returns the task's unique identifier
func (t *ContentGenerationTask) ID() uuid.UUID { return t.id }

// Type returns the task type identifier
func (t *ContentGenerationTask) Type() string { return TaskTypeContentGeneration }

// PropertyID returns the property the task generates content for.
func (t *ContentGenerationTask) PropertyID() uuid.UUID { return t.propertyID }

// Mode returns the generation mode.
func (t *ContentGenerationTask) Mode() GenerationMode { return t.mode }

// Payload returns the task data as JSON
func (t *ContentGenerationTask) Payload() []byte {
	data, err := json.Marshal(contentGenerationPayload{PropertyID: t.propertyID, Mode: t.mode})
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}
	return data
}

// Status returns the current task status
func (t *ContentGenerationTask) Status() TaskStatus { return t.status.get() }

// Execute runs the generation through the content service. Failures have
// already been logged by the service; they are returned so the worker pool
// can report them. Ensure tasks always reach the service, even with a
// cancelled context, so it can release its bookkeeping for the property.
func (t *ContentGenerationTask) Execute(ctx context.Context) error {
	t.status.set(TaskStatusProcessing)

	switch t.mode {
	case ModeForce:
		if err := ctx.Err(); err != nil {
			t.status.set(TaskStatusFailed)
			return fmt.Errorf("task cancelled by context: %w", err)
		}
		if _, err := t.service.Regenerate(ctx, t.propertyID); err != nil {
			t.status.set(TaskStatusFailed)
			return fmt.Errorf("failed to regenerate content: %w", err)
		}
		t.logger.Info("content regenerated")
	default:
		ran, err := t.service.EnsureContent(ctx, t.propertyID)
		if err != nil {
			t.status.set(TaskStatusFailed)
			return fmt.Errorf("failed to ensure content: %w", err)
		}
		if ran {
			t.logger.Info("content generated")
		} else {
			t.logger.Debug("content generation skipped")
		}
	}

	t.status.set(TaskStatusCompleted)
	return nil
}
