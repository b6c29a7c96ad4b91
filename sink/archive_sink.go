package sink

import (
	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/domain/event"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	flushTimeout   = 2 * time.Second
	enqueueTimeout = 100 * time.Millisecond
)

// ArchiveSink persists accepted chat entries off the router's path.
// Consume only enqueues; Run, supervised, writes to the archive.
// A full queue is waited on for enqueueTimeout, after which the entry is
// dropped and counted. Dropped entries show up as sequence gaps on restore.
type ArchiveSink struct {
	archive contract.ChatArchive
	entries chan domain.ChatEntry
	log     *slog.Logger
	dropped atomic.Uint64
}

func NewArchiveSink(archive contract.ChatArchive, bufferSize int, log *slog.Logger) *ArchiveSink {
	return &ArchiveSink{
		archive: archive,
		entries: make(chan domain.ChatEntry, bufferSize),
		log:     log,
	}
}

func (a *ArchiveSink) Consume(ctx context.Context, e event.Event) error {
	switch evt := e.(type) {
	case event.ChatReceived:
		select {
		case a.entries <- evt.Entry:
			return nil
		default:
		}
		timer := time.NewTimer(enqueueTimeout)
		defer timer.Stop()
		select {
		case a.entries <- evt.Entry:
		case <-timer.C:
			a.drop(evt.Entry)
		case <-ctx.Done():
			a.drop(evt.Entry)
		}
		return nil
	default:
		a.log.Debug(fmt.Sprintf("Not archived event : %v", evt.Kind()))
		return nil
	}
}

func (a *ArchiveSink) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.flush()
			return nil
		case entry := <-a.entries:
			a.store(ctx, entry)
		}
	}
}

// flush writes what is still queued when the hub stops.
func (a *ArchiveSink) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	for {
		select {
		case entry := <-a.entries:
			a.store(ctx, entry)
		default:
			return
		}
	}
}

func (a *ArchiveSink) store(ctx context.Context, entry domain.ChatEntry) {
	if err := a.archive.Store(ctx, entry); err != nil {
		a.log.Error("Unable to archive chat entry", "sequence", entry.Sequence, "error", err)
	}
}

func (a *ArchiveSink) drop(entry domain.ChatEntry) {
	total := a.dropped.Add(1)
	a.log.Error("Archive queue full, chat entry not persisted", "sequence", entry.Sequence, "dropped", total)
}

// Dropped counts the entries never handed to the archive.
func (a *ArchiveSink) Dropped() uint64 {
	return a.dropped.Load()
}

// Queue exposes the channel for capacity sampling.
func (a *ArchiveSink) Queue() chan domain.ChatEntry {
	return a.entries
}
