package main

import (
	"collab-hub/assist"
	"collab-hub/auth"
	"collab-hub/contract"
	"collab-hub/gateway"
	"collab-hub/infrastructure/grpc/server"
	"collab-hub/internal"
	"collab-hub/moderation"
	"collab-hub/observability"
	"collab-hub/repositories"
	"collab-hub/runtime"
	"collab-hub/runtime/workers"
	"collab-hub/services"
	"collab-hub/sink"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const (
	debugPort     = 8081
	debugEndpoint = "/inspect"
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hub terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning instead of exiting lets the deferred database cleanup run.
func run() (int, error) {
	// 1. Configuration & Logger
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return exitConfig, fmt.Errorf(".env error: %w", err)
	}
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Chat archive (BadgerDB + Bluge), optional
	var archive contract.ChatArchive
	var archiveSink *sink.ArchiveSink
	if config.ArchiveEnabled() {
		db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			logger.Info("Closing BadgerDB...")
			_ = db.Close()
		}()

		blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
		if err != nil {
			return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
		}
		defer func() {
			logger.Info("Closing Bluge...")
			_ = blugeWriter.Close()
		}()

		if logger.Enabled(ctx, slog.LevelDebug) {
			logger.Info("Debug Badger inspector available",
				"url", fmt.Sprintf("http://localhost:%d%s?prefix=chat:", debugPort, debugEndpoint))
			database.StartDebugServer(db, debugPort, debugEndpoint, ChatMapper)
		}

		archive = repositories.NewChatArchive(
			repositories.NewChatRepository(db, logger),
			repositories.NewChatIndex(blugeWriter, logger),
			logger,
		)
		archiveSink = sink.NewArchiveSink(archive, config.BufferSize, logger)
	} else {
		logger.Info("Chat archive disabled, history is kept in memory only")
	}

	// 3. Supervision & Router
	stats := observability.NewHubStats(logger)
	supervisor := workers.NewSupervisor(logger, config.RestartInterval).OnRestart(stats.RecordWorkerRestart)
	router := runtime.NewRouter(logger, supervisor,
		runtime.NewSessionRegistry(config.MaxParticipants),
		runtime.NewDocumentChannelMap(),
		runtime.NewChatLog(config.ChatLogCapacity),
		stats, config.BufferSize, config.ChatReplayLimit,
	)

	if words := config.Censored(); len(words) > 0 {
		moderator, err := moderation.NewModerator(words, charReplacement, logger)
		if err != nil {
			return exitConfig, fmt.Errorf("moderation setup failed: %w", err)
		}
		router.WithModerator(moderator)
	}
	if archive != nil {
		router.WithArchive(archive)
		router.AddSinks(archiveSink)
		supervisor.Add(archiveSink)
	}

	queues := func() []workers.NamedChannel {
		res := router.Queues()
		if archiveSink != nil {
			res = append(res, workers.NamedChannel{Name: "archive", Channel: archiveSink.Queue()})
		}
		return res
	}
	supervisor.Add(
		workers.NewChannelCapacityWorker(logger, queues, stats, config.MetricInterval, config.LowCapacityThreshold),
		workers.NewHealthMonitoringWorker(logger, stats, config.MetricInterval),
	)

	router.Start(ctx)
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		logger.Info("Starting supervisor...")
		supervisor.Run(ctx)
	}()

	// 4. Gateway & assist endpoints
	var tokens *auth.TokenIssuer
	if config.JWTSecret != "" {
		tokens = auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	}
	gw := gateway.NewServer(logger, services.NewHubService(router, archive), stats, tokens, gateway.Config{
		Host:                 config.Host,
		Port:                 config.Port,
		HeartbeatTimeout:     config.HeartbeatTimeout,
		WriteTimeout:         config.WriteTimeout,
		ConnectionBufferSize: config.ConnectionBufferSize,
		ChatBacklog:          config.ChatBacklog,
		MaxContentLength:     config.MaxContentLength,
		MaxChatLength:        config.MaxChatLength,
	})
	if config.OpenAIAPIKey != "" {
		completer := assist.NewOpenAICompleter(config.OpenAIAPIKey, config.OpenAIBaseURL, config.AIMaxTokens, config.AITimeout)
		gw.Mount(assist.NewHandler(logger, completer, config.AIModel, config.Models()).Register)
		logger.Info("Assist endpoints enabled", "model", config.AIModel)
	}

	// 5. Admin gRPC health
	adminAddress := fmt.Sprintf("%s:%d", config.Host, config.AdminPort)
	listener, err := net.Listen("tcp", adminAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", adminAddress, err)
	}
	admin := server.NewAdminServer(logger)

	errChan := make(chan error, 2)
	go func() {
		if err := gw.Run(ctx); err != nil {
			errChan <- fmt.Errorf("gateway error: %w", err)
		}
	}()
	go func() {
		if err := admin.Run(ctx, listener); err != nil {
			errChan <- err
		}
	}()
	admin.SetServing(true)

	// 6. Wait for Stop or Error
	code := exitOK
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
		stop()
	}

	// 7. Graceful shutdown: probes go red first, then workers drain.
	logger.Info("Shutting down gracefully...")
	admin.SetServing(false)
	supervisor.Stop()
	select {
	case <-supervisorDone:
	case <-time.After(config.SinkTimeout):
		logger.Warn("Workers did not stop in time")
	}
	router.Close()
	logger.Info("Program stopped cleanly")
	return code, runErr
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}

	return options
}

// ChatMapper renders archived chat entries in the debug inspector.
func ChatMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	var entry repositories.DiskChatEntry
	if err := json.Unmarshal(val, &entry); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = "CHAT"
	row.Detail = fmt.Sprintf("#%d %s: %s", entry.Sequence, entry.Author, entry.Body)
	return row
}
