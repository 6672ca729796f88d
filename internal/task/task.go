package task

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task type constants
const (
	// TaskTypeContentGeneration generates marketing content for one property.
	TaskTypeContentGeneration = "content_generation"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue without blocking.
	// Returns ErrQueueFull or ErrQueueClosed when the task cannot be accepted.
	Enqueue(task Task) error

	// Close closes the task queue, preventing further task submission
	Close()
}

// statusHolder stores a TaskStatus so workers and readers can access it concurrently.
type statusHolder struct {
	v atomic.Value
}

func newStatusHolder() *statusHolder {
	h := &statusHolder{}
	h.v.Store(TaskStatusPending)
	return h
}

func (h *statusHolder) set(s TaskStatus) { h.v.Store(s) }

func (h *statusHolder) get() TaskStatus { return h.v.Load().(TaskStatus) }
