package gateway

import (
	"collab-hub/auth"
	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/domain/event"
	"collab-hub/errors"
	"collab-hub/mocks"
	"collab-hub/observability"
	"collab-hub/runtime"
	"collab-hub/runtime/workers"
	"collab-hub/services"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/mock/gomock"
)

const readTimeout = 2 * time.Second

var testConfig = Config{
	HeartbeatTimeout:     5 * time.Second,
	WriteTimeout:         time.Second,
	ConnectionBufferSize: 16,
	ChatBacklog:          16,
	MaxContentLength:     1024,
	MaxChatLength:        256,
}

func startGateway(t *testing.T, hub contract.IHubService, tokens *auth.TokenIssuer) (*httptest.Server, *observability.HubStats) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	stats := observability.NewHubStats(log)
	srv := httptest.NewServer(NewServer(log, hub, stats, tokens, testConfig).Handler())
	t.Cleanup(srv.Close)
	return srv, stats
}

func wsURL(srv *httptest.Server, query url.Values) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query.Encode()
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_HandshakeRejected(t *testing.T) {
	issuer := auth.NewTokenIssuer("0123456789abcdef0123", time.Hour)
	valid, err := issuer.GenerateToken("carol")
	require.NoError(t, err)

	tests := []struct {
		name   string
		tokens *auth.TokenIssuer
		query  url.Values
		setup  func(hub *mocks.MockIHubService)
		status int
	}{
		{name: "missing token", tokens: issuer, query: url.Values{}, status: http.StatusUnauthorized},
		{name: "forged token", tokens: issuer, query: url.Values{"token": {"not-a-jwt"}}, status: http.StatusUnauthorized},
		{name: "invalid display name", query: url.Values{"name": {"bad\x01name"}}, status: http.StatusBadRequest},
		{
			name:   "hub full",
			tokens: issuer,
			query:  url.Values{"token": {valid}},
			setup: func(hub *mocks.MockIHubService) {
				hub.EXPECT().Join(gomock.Any(), "carol", gomock.Any()).
					Return(domain.Participant{}, errors.ErrCapacityExceeded)
			},
			status: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			hub := mocks.NewMockIHubService(ctrl)
			if tt.setup != nil {
				tt.setup(hub)
			}
			srv, stats := startGateway(t, hub, tt.tokens)

			// When a client attempts the handshake
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tt.query), nil)

			// Then it is refused before any upgrade
			req.ErrorIs(err, websocket.ErrBadHandshake)
			req.Equal(tt.status, resp.StatusCode)
			if tt.status == http.StatusServiceUnavailable {
				req.EqualValues(1, stats.GetLatest(0, 0).RejectedConnections)
			}
		})
	}
}

func TestServer_HandshakeWithToken(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	hub := mocks.NewMockIHubService(ctrl)
	issuer := auth.NewTokenIssuer("0123456789abcdef0123", time.Hour)
	token, err := issuer.GenerateToken("carol")
	req.NoError(err)
	carol := domain.Participant{ID: "p-carol", DisplayName: "carol"}

	// Given a hub accepting carol and queuing her welcome
	hub.EXPECT().Join(gomock.Any(), "carol", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, sink contract.EventSink) (domain.Participant, error) {
			return carol, sink.Consume(ctx, event.Welcome{Participant: carol, Roster: []domain.Participant{carol}})
		})
	left := make(chan struct{})
	hub.EXPECT().Leave(gomock.Any(), carol.ID).DoAndReturn(func(context.Context, domain.ParticipantID) error {
		close(left)
		return nil
	})
	srv, _ := startGateway(t, hub, issuer)

	// When she connects with a bearer token
	header := http.Header{"Authorization": {"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, url.Values{}), header)
	req.NoError(err)

	// Then the welcome comes first, followed by the roster
	frame := readFrame(t, conn)
	req.Equal(TypeWelcome, frame.Get("type").String())
	req.Equal("p-carol", frame.Get("participant_id").String())
	frame = readFrame(t, conn)
	req.Equal(TypeUserList, frame.Get("type").String())
	req.Equal(`["carol"]`, frame.Get("users").Raw)

	// And closing the socket leaves the hub
	req.NoError(conn.Close())
	select {
	case <-left:
	case <-time.After(readTimeout):
		req.Fail("leave was not delivered")
	}
}

func TestServer_RestEndpoints(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	hub := mocks.NewMockIHubService(ctrl)
	srv, _ := startGateway(t, hub, nil)
	writeAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	hub.EXPECT().Participants().Return([]domain.Participant{{ID: "p-1", DisplayName: "alice", JoinedAt: writeAt}})
	status, body := get(t, srv, "/api/participants")
	req.Equal(http.StatusOK, status)
	req.JSONEq(`[{"id":"p-1","name":"alice","joined_at":"2026-02-01T12:00:00Z"}]`, body)

	hub.EXPECT().Documents().Return([]domain.DocumentInfo{{
		ID: "main.go", Version: 3, LastWriter: "p-1", LastWriteAt: writeAt, Size: 12, MimeType: "text/plain; charset=utf-8",
	}})
	status, body = get(t, srv, "/api/documents")
	req.Equal(http.StatusOK, status)
	req.JSONEq(`[{"file_path":"main.go","version":3,"last_writer":"p-1","last_write_at":"2026-02-01T12:00:00Z","size":12,"mime_type":"text/plain; charset=utf-8"}]`, body)

	// Limits default to 50 and are capped at 500
	hub.EXPECT().ChatHistory(50).Return(nil)
	status, _ = get(t, srv, "/api/chat")
	req.Equal(http.StatusOK, status)
	hub.EXPECT().ChatHistory(500).Return([]domain.ChatEntry{{Sequence: 1, Author: "alice", Body: "hi", SentAt: writeAt}})
	status, body = get(t, srv, "/api/chat?limit=10000")
	req.Equal(http.StatusOK, status)
	req.Equal("hi", gjson.Get(body, "0.message").String())
	req.Equal(int64(1), gjson.Get(body, "0.sequence").Int())

	status, _ = get(t, srv, "/api/chat?limit=zero")
	req.Equal(http.StatusBadRequest, status)

	hub.EXPECT().Stats().Return(observability.HubSnapshot{Status: "OK", Participants: 1})
	status, body = get(t, srv, "/healthz")
	req.Equal(http.StatusOK, status)
	req.Equal("OK", gjson.Get(body, "status").String())
}

func TestServer_ChatSearch(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		setup  func(hub *mocks.MockIHubService)
		status int
	}{
		{name: "missing query", path: "/api/chat/search", status: http.StatusBadRequest},
		{
			name: "no archive",
			path: "/api/chat/search?q=build",
			setup: func(hub *mocks.MockIHubService) {
				hub.EXPECT().SearchChat(gomock.Any(), "build", 50).Return(nil, errors.ErrArchiveUnavailable)
			},
			status: http.StatusNotFound,
		},
		{
			name: "index failure",
			path: "/api/chat/search?q=build&limit=5",
			setup: func(hub *mocks.MockIHubService) {
				hub.EXPECT().SearchChat(gomock.Any(), "build", 5).Return(nil, io.ErrUnexpectedEOF)
			},
			status: http.StatusInternalServerError,
		},
		{
			name: "hits",
			path: "/api/chat/search?q=build",
			setup: func(hub *mocks.MockIHubService) {
				hub.EXPECT().SearchChat(gomock.Any(), "build", 50).
					Return([]domain.ChatEntry{{Sequence: 9, Author: "bob", Body: "build is green"}}, nil)
			},
			status: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			hub := mocks.NewMockIHubService(ctrl)
			if tt.setup != nil {
				tt.setup(hub)
			}
			srv, _ := startGateway(t, hub, nil)

			status, _ := get(t, srv, tt.path)

			require.Equal(t, tt.status, status)
		})
	}
}

// liveHub runs a real router behind the gateway.
type liveHub struct {
	router *runtime.Router
	srv    *httptest.Server
}

func startLiveHub(t *testing.T, cfg Config) liveHub {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	stats := observability.NewHubStats(log)
	supervisor := workers.NewSupervisor(log, 10*time.Millisecond)
	router := runtime.NewRouter(log, supervisor,
		runtime.NewSessionRegistry(8), runtime.NewDocumentChannelMap(), runtime.NewChatLog(16),
		stats, 16, 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	router.Start(ctx)
	go func() {
		supervisor.Run(ctx)
		close(done)
	}()

	gw := NewServer(log, services.NewHubService(router, nil), stats, nil, cfg)
	srv := httptest.NewServer(gw.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return liveHub{router: router, srv: srv}
}

func (h liveHub) dial(t *testing.T, name string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(h.srv, url.Values{"name": {name}}), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) gjson.Result {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data), "invalid frame %s", data)
	return gjson.ParseBytes(data)
}

func send(t *testing.T, conn *websocket.Conn, msg any) {
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func TestServer_EndToEnd(t *testing.T) {
	req := require.New(t)
	hub := startLiveHub(t, testConfig)

	// Given alice connected alone
	alice := hub.dial(t, "alice")
	req.Equal(TypeWelcome, readFrame(t, alice).Get("type").String())
	req.Equal(`["alice"]`, readFrame(t, alice).Get("users").Raw)

	// When bob joins
	bob := hub.dial(t, "bob")
	welcome := readFrame(t, bob)
	req.Equal(TypeWelcome, welcome.Get("type").String())
	req.Equal("bob", welcome.Get("user").String())
	bobID := welcome.Get("participant_id").String()
	req.Equal(`["alice","bob"]`, readFrame(t, bob).Get("users").Raw)

	// Then alice sees the new roster
	req.Equal(`["alice","bob"]`, readFrame(t, alice).Get("users").Raw)

	// Given alice watching main.go
	send(t, alice, NewSubscribeRequest("main.go"))
	state := readFrame(t, alice)
	req.Equal(TypeCodeUpdate, state.Get("type").String())
	req.Equal(uint64(0), state.Get("version").Uint())

	// When bob writes it
	send(t, bob, NewCodeUpdateRequest("main.go", "package main", 1))

	// Then alice receives the new content with its version and writer
	update := readFrame(t, alice)
	req.Equal(TypeCodeUpdate, update.Get("type").String())
	req.Equal("main.go", update.Get("file_path").String())
	req.Equal("package main", update.Get("code").String())
	req.Equal(uint64(1), update.Get("version").Uint())
	req.Equal(bobID, update.Get("writer").String())

	// A malformed frame is dropped without closing the connection
	req.NoError(alice.WriteMessage(websocket.TextMessage, []byte(`{"type":"code_update"`)))
	send(t, alice, map[string]string{"type": TypePing})
	req.Equal(TypePong, readFrame(t, alice).Get("type").String())
	req.EqualValues(1, hub.router.Stats().MalformedEvents)

	// Chat reaches everyone under the author's display name
	send(t, alice, NewChatRequest("mallory", "ship it"))
	for _, conn := range []*websocket.Conn{alice, bob} {
		chat := readFrame(t, conn)
		if chat.Get("type").String() == TypeCodeUpdate {
			chat = readFrame(t, conn)
		}
		req.Equal(TypeChatMessage, chat.Get("type").String())
		req.Equal("alice", chat.Get("user").String())
		req.Equal("ship it", chat.Get("message").String())
	}

	// When bob disconnects, alice gets the shrunk roster
	req.NoError(bob.Close())
	req.Equal(`["alice"]`, readFrame(t, alice).Get("users").Raw)
}

func TestServer_SilentClientTimesOut(t *testing.T) {
	req := require.New(t)
	cfg := testConfig
	cfg.HeartbeatTimeout = 300 * time.Millisecond
	cfg.WriteTimeout = 100 * time.Millisecond
	hub := startLiveHub(t, cfg)

	// Given alice reading, which answers pings
	alice := hub.dial(t, "alice")
	req.Equal(TypeWelcome, readFrame(t, alice).Get("type").String())
	req.Equal(`["alice"]`, readFrame(t, alice).Get("users").Raw)

	// And bob connected but never reading nor writing
	hub.dial(t, "bob")
	req.Equal(`["alice","bob"]`, readFrame(t, alice).Get("users").Raw)

	// When the heartbeat timeout elapses
	// Then bob is dropped and alice gets the shrunk roster
	req.Equal(`["alice"]`, readFrame(t, alice).Get("users").Raw)
	req.Eventually(func() bool { return len(hub.router.Participants()) == 1 }, readTimeout, 10*time.Millisecond)
	req.Equal("alice", hub.router.Participants()[0].DisplayName)
}
