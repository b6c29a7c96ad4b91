package workers

import (
	"collab-hub/contract"
	"collab-hub/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultRestartInterval = 200 * time.Millisecond

// Supervisor runs the hub's long-lived workers: the command workers of the
// router, the archive writer and the samplers. A worker that panics or fails
// is restarted after restartInterval; one that returns nil is done for good.
// Canceling the parent context, or calling Stop, ends every worker and Run
// returns once they all have.
type Supervisor struct {
	mu              sync.Mutex
	cancel          context.CancelFunc
	ctx             context.Context // nil until Run
	wg              sync.WaitGroup
	log             *slog.Logger
	pending         []contract.Worker
	restartInterval time.Duration
	onRestart       func(worker string)
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	if restartInterval <= 0 {
		restartInterval = defaultRestartInterval
	}
	return &Supervisor{log: log, restartInterval: restartInterval}
}

// OnRestart registers a hook called with the worker name before each restart.
func (s *Supervisor) OnRestart(hook func(worker string)) *Supervisor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRestart = hook
	return s
}

func (s *Supervisor) Run(ctx context.Context) {
	supervised, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancel = cancel
	s.ctx = supervised
	for _, w := range s.pending {
		s.Start(supervised, w)
	}
	s.pending = nil
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, worker...)
	return s
}

// Spawn starts a worker on a supervisor that may already be running,
// e.g. the command worker of a document seen for the first time.
// Before Run it behaves like Add, after shutdown the worker is ignored.
func (s *Supervisor) Spawn(worker contract.Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.ctx == nil:
		s.pending = append(s.pending, worker)
	case s.ctx.Err() != nil:
		s.log.Debug("Supervisor stopped, worker not spawned", "worker", contract.GetWorkerName(worker))
	default:
		s.Start(s.ctx, worker)
	}
}

// Start runs a worker in its own goroutine until it returns nil or ctx ends.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	name := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()
		for ctx.Err() == nil {
			err := runGuarded(ctx, worker)
			switch {
			case err == nil:
				s.log.Info("Worker finished", "worker", name)
				return
			case ctx.Err() != nil:
				s.log.Info("Worker stopped", "worker", name)
				return
			}

			s.log.Warn("Worker crashed, restarting", "worker", name, "error", err, "after", s.restartInterval)
			s.mu.Lock()
			hook := s.onRestart
			s.mu.Unlock()
			if hook != nil {
				hook(name)
			}
			select {
			case <-ctx.Done():
			case <-time.After(s.restartInterval):
			}
		}
	}()
}

// runGuarded turns a panic of the worker into an ErrWorkerPanic error.
func runGuarded(ctx context.Context, worker contract.Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
		}
	}()
	return worker.Run(ctx)
}

// Stop cancels every worker. Run returns once they have all exited.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}
