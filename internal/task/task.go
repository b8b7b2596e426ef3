package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeNoteSave persists a note snapshot.
	TaskTypeNoteSave = "note_save"

	// TaskTypeStatsSave persists a user stats snapshot.
	TaskTypeStatsSave = "stats_save"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// funcTask adapts a plain function to the Task interface.
type funcTask struct {
	id       uuid.UUID
	taskType string
	fn       func(ctx context.Context) error
}

// NewFuncTask wraps fn as a Task with a freshly generated ID.
func NewFuncTask(taskType string, fn func(ctx context.Context) error) Task {
	return &funcTask{
		id:       uuid.New(),
		taskType: taskType,
		fn:       fn,
	}
}

func (t *funcTask) ID() uuid.UUID { return t.id }

func (t *funcTask) Type() string { return t.taskType }

func (t *funcTask) Execute(ctx context.Context) error { return t.fn(ctx) }
