package services

import (
	"collab-hub/domain"
	"collab-hub/errors"
	"collab-hub/mocks"
	"collab-hub/observability"
	"collab-hub/runtime"
	"collab-hub/runtime/workers"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func startRouter(t *testing.T) (*runtime.Router, context.Context) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	supervisor := workers.NewSupervisor(log, 10*time.Millisecond)
	router := runtime.NewRouter(log, supervisor,
		runtime.NewSessionRegistry(4), runtime.NewDocumentChannelMap(), runtime.NewChatLog(10),
		observability.NewHubStats(log), 16, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	router.Start(ctx)
	go func() {
		supervisor.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return router, ctx
}

func TestHubService_Documents(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	router, ctx := startRouter(t)
	service := NewHubService(router, nil)

	sink := mocks.NewMockEventSink(ctrl)
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	// Given a participant writing a plain text document
	alice, err := service.Join(ctx, "alice", sink)
	req.NoError(err)
	req.NoError(service.UpdateContent(ctx, domain.ContentUpdateCommand{
		Document:      "notes.txt",
		Content:       "hello world",
		WriterID:      alice.ID,
		ClientVersion: 1,
	}))

	// When the documents are listed
	// Then the applied write is described with its detected mime type
	req.Eventually(func() bool {
		docs := service.Documents()
		return len(docs) == 1 && docs[0].Version == 1
	}, 2*time.Second, 5*time.Millisecond)
	doc := service.Documents()[0]
	req.Equal(domain.DocumentID("notes.txt"), doc.ID)
	req.Equal(alice.ID, doc.LastWriter)
	req.Equal(len("hello world"), doc.Size)
	req.Equal("text/plain; charset=utf-8", doc.MimeType)
	req.Len(service.Participants(), 1)
}

func TestHubService_ChatHistory(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	router, ctx := startRouter(t)
	service := NewHubService(router, nil)

	sink := mocks.NewMockEventSink(ctrl)
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	bob, err := service.Join(ctx, "bob", sink)
	req.NoError(err)

	req.NoError(service.SendChat(ctx, domain.ChatSendCommand{AuthorID: bob.ID, Body: "first"}))
	req.NoError(service.SendChat(ctx, domain.ChatSendCommand{AuthorID: bob.ID, Body: "second"}))

	req.Eventually(func() bool { return len(service.ChatHistory(10)) == 2 }, 2*time.Second, 5*time.Millisecond)
	history := service.ChatHistory(10)
	req.Equal("first", history[0].Body)
	req.Equal("second", history[1].Body)
	req.Equal("bob", history[1].Author)
	req.EqualValues(2, service.Stats().ChatEntries)
}

func TestHubService_SearchChat(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	router, ctx := startRouter(t)

	t.Run("without archive", func(t *testing.T) {
		_, err := NewHubService(router, nil).SearchChat(ctx, "hello", 5)
		require.ErrorIs(t, err, errors.ErrArchiveUnavailable)
	})

	t.Run("delegates to the archive", func(t *testing.T) {
		archive := mocks.NewMockChatArchive(ctrl)
		want := []domain.ChatEntry{{Sequence: 7, Author: "carol", Body: "hello there"}}
		archive.EXPECT().Search(gomock.Any(), "hello", 5).Return(want, nil)

		got, err := NewHubService(router, archive).SearchChat(ctx, "hello", 5)

		req.NoError(err)
		req.Equal(want, got)
	})
}
