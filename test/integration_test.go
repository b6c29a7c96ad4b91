package test

import (
	"collab-hub/domain"
	"collab-hub/mocks"
	"collab-hub/observability"
	"collab-hub/repositories"
	"collab-hub/runtime"
	"collab-hub/runtime/workers"
	"collab-hub/sink"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type hub struct {
	router *runtime.Router
	stop   func()
}

// startHub wires a router with the archive the way cmd/hub does.
func startHub(log *slog.Logger, archive *repositories.ChatArchive) hub {
	supervisor := workers.NewSupervisor(log, 200*time.Millisecond)
	archiveSink := sink.NewArchiveSink(archive, 16, log)
	router := runtime.NewRouter(log, supervisor,
		runtime.NewSessionRegistry(10), runtime.NewDocumentChannelMap(), runtime.NewChatLog(50),
		observability.NewHubStats(log), 64, 20).
		WithArchive(archive)
	router.AddSinks(archiveSink)
	supervisor.Add(archiveSink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	router.Start(ctx)
	go func() {
		supervisor.Run(ctx)
		close(done)
	}()
	return hub{router: router, stop: func() {
		cancel()
		<-done
	}}
}

func Test_Scenario(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() {
		_ = writer.Close()
		_ = db.Close()
	})

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	archive := repositories.NewChatArchive(
		repositories.NewChatRepository(db, log),
		repositories.NewChatIndex(writer, log), log)

	// 1. A first hub where alice and bob talk
	ctrl := gomock.NewController(t)
	quiet := mocks.NewMockEventSink(ctrl)
	quiet.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	first := startHub(log, archive)
	alice, err := first.router.Join(ctx, "alice", quiet)
	req.NoError(err)
	bob, err := first.router.Join(ctx, "bob", quiet)
	req.NoError(err)
	for _, msg := range []struct {
		author domain.Participant
		body   string
	}{
		{alice, "the release build is red"},
		{bob, "looking at it"},
		{alice, "fixed, it was a flaky test"},
	} {
		req.NoError(first.router.Handle(ctx, domain.ChatSendCommand{
			AuthorID: msg.author.ID,
			Body:     msg.body,
			SentAt:   time.Now().UTC(),
		}))
	}

	// And wait for the archive to catch up
	req.Eventually(func() bool {
		stored, err := archive.Recent(ctx, 10)
		return err == nil && len(stored) == 3
	}, 2*time.Second, 10*time.Millisecond)
	first.stop()

	// 2. When a second hub starts on the same archive
	second := startHub(log, archive)
	t.Cleanup(second.stop)

	// Then the history is restored with its sequences
	history := second.router.ChatHistory(10)
	req.Equal([]uint64{1, 2, 3}, lo.Map(history, func(e domain.ChatEntry, _ int) uint64 { return e.Sequence }))
	req.Equal("bob", history[1].Author)

	// And a newcomer is welcomed with it, numbering continues after it
	carol, err := second.router.Join(ctx, "carol", quiet)
	req.NoError(err)
	req.NoError(second.router.Handle(ctx, domain.ChatSendCommand{AuthorID: carol.ID, Body: "welcome back", SentAt: time.Now().UTC()}))
	req.Eventually(func() bool { return len(second.router.ChatHistory(10)) == 4 }, 2*time.Second, 10*time.Millisecond)
	req.Equal(uint64(4), second.router.ChatHistory(1)[0].Sequence)

	// 3. The archive search finds entries of both runs
	req.Eventually(func() bool {
		found, err := archive.Search(ctx, "back", 5)
		return err == nil && len(found) == 1 && found[0].Author == "carol"
	}, 2*time.Second, 10*time.Millisecond)
	found, err := archive.Search(ctx, "build", 5)
	req.NoError(err)
	req.Len(found, 1)
	req.Equal(uint64(1), found[0].Sequence)
}
