package task_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/estate-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finderFunc func(ctx context.Context, limit int) ([]uuid.UUID, error)

func (f finderFunc) FindWithoutContent(ctx context.Context, limit int) ([]uuid.UUID, error) {
	return f(ctx, limit)
}

func TestBackfiller_RunOnce(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	failing := ids[1]
	svc := &fakeContentService{requestErrFor: map[uuid.UUID]error{failing: errors.New("lookup failed")}}

	var gotLimit int
	finder := finderFunc(func(_ context.Context, limit int) ([]uuid.UUID, error) {
		gotLimit = limit
		return ids, nil
	})

	b, err := task.NewBackfiller(finder, svc, task.BackfillConfig{BatchSize: 7}, discardLogger())
	require.NoError(t, err)

	n, err := b.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, gotLimit)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uuid.UUID{ids[0], ids[2]}, svc.requestedIDs())
}

func TestBackfiller_StopsWhenQueueFull(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	svc := &fakeContentService{requestErrFor: map[uuid.UUID]error{ids[1]: task.ErrQueueFull}}
	finder := finderFunc(func(context.Context, int) ([]uuid.UUID, error) { return ids, nil })

	b, err := task.NewBackfiller(finder, svc, task.BackfillConfig{}, discardLogger())
	require.NoError(t, err)

	n, err := b.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uuid.UUID{ids[0]}, svc.requestedIDs())
}

func TestBackfiller_FinderError(t *testing.T) {
	t.Parallel()

	finder := finderFunc(func(context.Context, int) ([]uuid.UUID, error) { return nil, errors.New("db down") })
	b, err := task.NewBackfiller(finder, &fakeContentService{}, task.BackfillConfig{}, discardLogger())
	require.NoError(t, err)

	_, err = b.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestBackfiller_StartStop(t *testing.T) {
	t.Parallel()

	var passes atomic.Int32
	finder := finderFunc(func(context.Context, int) ([]uuid.UUID, error) {
		passes.Add(1)
		return nil, nil
	})
	b, err := task.NewBackfiller(finder, &fakeContentService{}, task.BackfillConfig{Interval: 5 * time.Millisecond}, discardLogger())
	require.NoError(t, err)

	b.Start()
	assert.Eventually(t, func() bool { return passes.Load() >= 2 }, time.Second, 5*time.Millisecond)
	b.Stop()
	b.Stop()

	after := passes.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, passes.Load())
}

func TestNewBackfiller_Validation(t *testing.T) {
	t.Parallel()

	_, err := task.NewBackfiller(nil, &fakeContentService{}, task.BackfillConfig{}, discardLogger())
	assert.Error(t, err)
	_, err = task.NewBackfiller(finderFunc(nil), &fakeContentService{}, task.BackfillConfig{}, nil)
	assert.ErrorIs(t, err, task.ErrNilLogger)
}
