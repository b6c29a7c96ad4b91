package sink_test

import (
	"collab-hub/domain"
	"collab-hub/domain/event"
	"collab-hub/mocks"
	"collab-hub/sink"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestArchiveSink_StoresChatEntries(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	archive := mocks.NewMockChatArchive(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := sink.NewArchiveSink(archive, 10, logger)

	stored := make(chan uint64, 2)
	archive.EXPECT().Store(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry domain.ChatEntry) error {
			stored <- entry.Sequence
			return nil
		}).
		Times(2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	// When chat and non chat events are consumed
	req.NoError(s.Consume(ctx, event.ChatReceived{Entry: domain.ChatEntry{Sequence: 1}}))
	req.NoError(s.Consume(ctx, event.ContentChanged{State: domain.DocumentState{ID: "main.go"}}))
	req.NoError(s.Consume(ctx, event.ChatReceived{Entry: domain.ChatEntry{Sequence: 2}}))

	// Then only chat entries reach the archive, in order
	for _, want := range []uint64{1, 2} {
		select {
		case got := <-stored:
			req.Equal(want, got)
		case <-time.After(time.Second):
			req.Fail("entry not archived")
		}
	}
}

func TestArchiveSink_FlushesOnStop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	archive := mocks.NewMockChatArchive(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := sink.NewArchiveSink(archive, 1, logger)

	// Given an entry queued and a full queue dropping the next one
	req.NoError(s.Consume(context.Background(), event.ChatReceived{Entry: domain.ChatEntry{Sequence: 1}}))
	req.NoError(s.Consume(context.Background(), event.ChatReceived{Entry: domain.ChatEntry{Sequence: 2}}))
	req.Len(s.Queue(), 1)
	req.Equal(uint64(1), s.Dropped())

	archive.EXPECT().Store(gomock.Any(), domain.ChatEntry{Sequence: 1}).Return(nil)

	// When the sink runs on an already canceled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.NoError(s.Run(ctx))

	// Then the queued entry was still written
	req.Empty(s.Queue())
}

func TestArchiveSink_FullQueueWaitsForTheWriter(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	archive := mocks.NewMockChatArchive(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := sink.NewArchiveSink(archive, 1, logger)

	// Given a full queue
	req.NoError(s.Consume(context.Background(), event.ChatReceived{Entry: domain.ChatEntry{Sequence: 1}}))

	stored := make(chan uint64, 2)
	archive.EXPECT().Store(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry domain.ChatEntry) error {
			stored <- entry.Sequence
			return nil
		}).
		Times(2)

	// When the writer catches up shortly after the next entry arrives
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = s.Run(ctx)
	}()
	req.NoError(s.Consume(ctx, event.ChatReceived{Entry: domain.ChatEntry{Sequence: 2}}))

	// Then no sequence is lost
	for _, want := range []uint64{1, 2} {
		select {
		case got := <-stored:
			req.Equal(want, got)
		case <-time.After(time.Second):
			req.Fail("entry not archived")
		}
	}
	req.Zero(s.Dropped())
}
