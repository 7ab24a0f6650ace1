package systems

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestNewJobSystemValidatesArguments(t *testing.T) {
	if _, err := NewJobSystem(0, 4); !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("zero workers: got %v", err)
	}
	if _, err := NewJobSystem(2, -1); !errors.Is(err, ErrNegativeChannelSize) {
		t.Fatalf("negative channel: got %v", err)
	}
}

func TestRunBatchRunsEveryTaskBeforeReturning(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	if err != nil {
		t.Fatalf("job system: %v", err)
	}
	defer js.Shutdown()

	const count = 64
	var started, completed atomic.Int64
	tasks := make([]JobTask, 0, count)
	for i := 0; i < count; i++ {
		tasks = append(tasks, JobTask{
			Name: "task",
			OnStart: func() error {
				started.Add(1)
				return nil
			},
			OnComplete: func() {
				completed.Add(1)
			},
		})
	}

	js.RunBatch(tasks)

	if started.Load() != count || completed.Load() != count {
		t.Fatalf("ran %d/%d tasks, want %d", started.Load(), completed.Load(), count)
	}
}

func TestRunBatchReportsFailures(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	if err != nil {
		t.Fatalf("job system: %v", err)
	}
	defer js.Shutdown()

	boom := errors.New("boom")
	var failures atomic.Int64
	var completions atomic.Int64
	js.RunBatch([]JobTask{
		{
			Name:    "failing",
			OnStart: func() error { return boom },
			OnFailure: func(err error) {
				if errors.Is(err, boom) {
					failures.Add(1)
				}
			},
			OnComplete: func() { completions.Add(1) },
		},
	})

	if failures.Load() != 1 {
		t.Fatalf("failure callback ran %d times, want 1", failures.Load())
	}
	if completions.Load() != 0 {
		t.Fatalf("completion callback must not run for a failed task")
	}
}

func TestShutdownDrainsSubmittedWork(t *testing.T) {
	js, err := NewJobSystem(2, 8)
	if err != nil {
		t.Fatalf("job system: %v", err)
	}

	var ran atomic.Int64
	for i := 0; i < 8; i++ {
		js.Submit(JobTask{
			Name:    "queued",
			OnStart: func() error { ran.Add(1); return nil },
		})
	}

	if err := js.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if ran.Load() != 8 {
		t.Fatalf("shutdown drained %d tasks, want 8", ran.Load())
	}
}
