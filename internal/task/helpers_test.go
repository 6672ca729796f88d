package task_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/estate-api/internal/domain"
	"github.com/phrazzld/estate-api/internal/task"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// funcTask is a Task whose Execute delegates to fn.
type funcTask struct {
	id uuid.UUID
	fn func(ctx context.Context) error
}

func newFuncTask(fn func(ctx context.Context) error) *funcTask {
	return &funcTask{id: uuid.New(), fn: fn}
}

func (t *funcTask) ID() uuid.UUID                     { return t.id }
func (t *funcTask) Type() string                      { return "test" }
func (t *funcTask) Payload() []byte                   { return nil }
func (t *funcTask) Status() task.TaskStatus           { return task.TaskStatusPending }
func (t *funcTask) Execute(ctx context.Context) error { return t.fn(ctx) }

// fakeContentService records calls made by content generation tasks.
type fakeContentService struct {
	mu            sync.Mutex
	regenerated   []uuid.UUID
	ensured       []uuid.UUID
	ensureResult  bool
	err           error
	requested     []uuid.UUID
	requestErrFor map[uuid.UUID]error
}

func (f *fakeContentService) Regenerate(_ context.Context, id uuid.UUID) (*domain.GeneratedContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regenerated = append(f.regenerated, id)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.GeneratedContent{KeyHighlights: "x"}, nil
}

func (f *fakeContentService) EnsureContent(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensured = append(f.ensured, id)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return f.ensureResult, f.err
}

func (f *fakeContentService) RequestContent(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requestErrFor[id]; err != nil {
		return err
	}
	f.requested = append(f.requested, id)
	return nil
}

func (f *fakeContentService) requestedIDs() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.requested...)
}
