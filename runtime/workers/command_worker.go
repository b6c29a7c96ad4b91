package workers

import (
	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/errors"
	"context"
	"log/slog"
)

// CommandWorker drains one ordered command queue into a processor.
// The router owns one for session-wide commands and one per document, which is
// what serializes updates of a document without serializing the whole hub.
// The queue outlives a panic of Run: the supervisor restarts the worker on the same channel.
type CommandWorker struct {
	name      string
	log       *slog.Logger
	commands  chan domain.Command
	processor contract.CommandProcessor
}

func NewCommandWorker(name string, log *slog.Logger, processor contract.CommandProcessor, bufferSize int) *CommandWorker {
	return &CommandWorker{
		name:      name,
		log:       log.With("worker", name),
		commands:  make(chan domain.Command, bufferSize),
		processor: processor,
	}
}

func (w *CommandWorker) Name() string {
	return w.name
}

// Enqueue blocks while the queue is full, giving backpressure to the reader
// that produced the command.
func (w *CommandWorker) Enqueue(ctx context.Context, cmd domain.Command) error {
	select {
	case <-ctx.Done():
		return errors.ErrRouterStopped
	case w.commands <- cmd:
		return nil
	}
}

// Queue exposes the channel for capacity sampling.
func (w *CommandWorker) Queue() chan domain.Command {
	return w.commands
}

func (w *CommandWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return nil
		case cmd := <-w.commands:
			w.processor.Process(ctx, cmd)
		}
	}
}
