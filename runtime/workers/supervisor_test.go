package workers

import (
	"collab-hub/mocks"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSupervisor_RestartOnPanic(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	worker := mocks.NewMockWorker(ctrl)

	// Given a worker that always panics
	var calls atomic.Int32
	worker.EXPECT().
		Run(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			calls.Add(1)
			panic("boom")
		}).
		AnyTimes()

	var restarts atomic.Int32
	sup := NewSupervisor(slog.Default(), 20*time.Millisecond).
		OnRestart(func(string) { restarts.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sup.Add(worker)
		sup.Run(ctx)
		close(done)
	}()

	// Then it is restarted, and every restart is reported
	req.Eventually(func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	req.GreaterOrEqual(restarts.Load(), int32(2))

	// And canceling the parent ends the loop
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("supervisor did not stop after cancel")
	}
}

func TestSupervisor_StopOnSuccess(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)

	workerMock := mocks.NewMockWorker(ctrl)

	// Given a worker running only once
	workerMock.EXPECT().
		Run(gomock.Any()).
		Return(nil).
		Times(1)

	sup := NewSupervisor(log, 0)

	// Given a channel to notify when Run() terminated
	done := make(chan struct{})

	go func() {
		sup.Add(workerMock).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
		// Then supervisor detected a success, returned nil and stopped
	case <-time.After(500 * time.Millisecond):
		req.Fail("Supervisor should have stopped after worker success")
	}
}

func TestSupervisor_SpawnWhileRunning(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	sup := NewSupervisor(slog.Default(), 0)

	blocking := mocks.NewMockWorker(ctrl)
	blocking.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	late := mocks.NewMockWorker(ctrl)
	started := make(chan struct{})
	late.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})

	done := make(chan struct{})
	go func() {
		sup.Add(blocking).Run(context.Background())
		close(done)
	}()

	// When a worker is spawned on the running supervisor
	req.Eventually(func() bool {
		sup.mu.Lock()
		defer sup.mu.Unlock()
		return sup.ctx != nil
	}, time.Second, 5*time.Millisecond)
	sup.Spawn(late)

	// Then it runs, and Stop waits for both
	select {
	case <-started:
	case <-time.After(time.Second):
		req.Fail("spawned worker never started")
	}
	sup.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("supervisor did not stop")
	}

	// And workers spawned after shutdown are ignored
	sup.Spawn(mocks.NewMockWorker(ctrl))
}
