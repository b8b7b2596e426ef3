package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRunnerExecutesSubmittedTasks(t *testing.T) {
	t.Parallel()

	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 2, QueueSize: 10}, nil)
	runner.Start()
	defer runner.Stop()

	var mu sync.Mutex
	executed := 0
	done := make(chan struct{})

	for i := 0; i < 5; i++ {
		err := runner.Submit(NewFuncTask(TaskTypeNoteSave, func(ctx context.Context) error {
			mu.Lock()
			executed++
			if executed == 5 {
				close(done)
			}
			mu.Unlock()
			return nil
		}))
		require.NoError(t, err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, executed)
}

func TestTaskRunnerSurvivesTaskFailure(t *testing.T) {
	t.Parallel()

	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 10}, nil)
	runner.Start()
	defer runner.Stop()

	done := make(chan struct{})
	require.NoError(t, runner.Submit(NewFuncTask(TaskTypeStatsSave, func(ctx context.Context) error {
		return errors.New("save failed")
	})))
	require.NoError(t, runner.Submit(NewFuncTask(TaskTypeNoteSave, func(ctx context.Context) error {
		close(done)
		return nil
	})))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker stopped processing after a failed task")
	}
}

func TestTaskRunnerSubmitDoesNotBlockWhenFull(t *testing.T) {
	t.Parallel()

	// No workers started, so the queue never drains.
	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, nil)

	block := func(ctx context.Context) error { return nil }
	require.NoError(t, runner.Submit(NewFuncTask(TaskTypeNoteSave, block)))

	err := runner.Submit(NewFuncTask(TaskTypeNoteSave, block))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestTaskRunnerRejectsSubmitAfterStop(t *testing.T) {
	t.Parallel()

	runner := NewTaskRunner(TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, nil)
	runner.Start()
	runner.Stop()

	err := runner.Submit(NewFuncTask(TaskTypeNoteSave, func(ctx context.Context) error {
		return nil
	}))
	assert.ErrorIs(t, err, ErrRunnerStopped)
}

func TestNewFuncTaskAssignsIdentity(t *testing.T) {
	t.Parallel()

	a := NewFuncTask(TaskTypeNoteSave, func(ctx context.Context) error { return nil })
	b := NewFuncTask(TaskTypeStatsSave, func(ctx context.Context) error { return nil })

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, TaskTypeNoteSave, a.Type())
	assert.Equal(t, TaskTypeStatsSave, b.Type())
}
