// Package gateway adapts WebSocket clients to the hub: handshake, heartbeat,
// backpressure and the JSON wire protocol, plus a small read-only HTTP API.
package gateway

import (
	"collab-hub/auth"
	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/errors"
	"collab-hub/observability"
	"collab-hub/sink"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/samber/lo"
)

const (
	shutdownTimeout   = 5 * time.Second
	defaultChatLimit  = 50
	maxChatLimit      = 500
	leaveTimeout      = 2 * time.Second
	readHeaderTimeout = 10 * time.Second
)

type Config struct {
	Host                 string
	Port                 int
	HeartbeatTimeout     time.Duration
	WriteTimeout         time.Duration
	ConnectionBufferSize int
	ChatBacklog          int
	MaxContentLength     int
	MaxChatLength        int
}

// pingPeriod must stay below the heartbeat timeout so a healthy peer always answers in time.
func (c Config) pingPeriod() time.Duration {
	return (c.HeartbeatTimeout * 9) / 10
}

type Server struct {
	log      *slog.Logger
	hub      contract.IHubService
	stats    *observability.HubStats
	tokens   *auth.TokenIssuer
	cfg      Config
	router   *httprouter.Router
	upgrader websocket.Upgrader
}

// NewServer builds the gateway. tokens may be nil, handshakes are then anonymous.
func NewServer(log *slog.Logger, hub contract.IHubService, stats *observability.HubStats,
	tokens *auth.TokenIssuer, cfg Config) *Server {
	s := &Server{
		log:    log,
		hub:    hub,
		stats:  stats,
		tokens: tokens,
		cfg:    cfg,
		router: httprouter.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Editor extensions connect without a browser origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/ws", s.handleWebSocket)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/api/participants", s.handleParticipants)
	s.router.GET("/api/documents", s.handleDocuments)
	s.router.GET("/api/chat", s.handleChat)
	s.router.GET("/api/chat/search", s.handleChatSearch)
}

// Mount lets other packages add routes, e.g. the assist endpoints.
func (s *Server) Mount(register func(router *httprouter.Router)) {
	register(s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
// Connection contexts derive from ctx, so open sockets are closed as well.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info(fmt.Sprintf("Gateway listening on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}
	s.log.Info("Gateway stopped")
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	name, err := s.displayName(r)
	switch {
	case stderrors.Is(err, errors.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	outbound := sink.NewConnectionSink(s.log, s.stats, s.cfg.ConnectionBufferSize, s.cfg.ChatBacklog)
	participant, err := s.hub.Join(r.Context(), name, outbound)
	if err != nil {
		s.stats.IncrRejectedConnections()
		s.log.Warn("Handshake rejected", "display_name", name, "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		s.log.Warn("WebSocket upgrade failed", "participant_id", participant.ID, "error", err)
		s.leave(participant.ID)
		return
	}
	s.stats.IncrConnections()

	newConnection(participant, conn, outbound, s.hub, s.stats, s.log, s.cfg).serve(r.Context())
	s.leave(participant.ID)
}

// leave outlives the request context, which is canceled on shutdown.
func (s *Server) leave(pID domain.ParticipantID) {
	ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()
	if err := s.hub.Leave(ctx, pID); err != nil {
		s.log.Debug("Leave not delivered", "participant_id", pID, "error", err)
	}
}

// displayName resolves the participant name: the token's name claim when
// tokens are enforced, else the optional name query parameter.
// An empty result lets the registry pick a guest name.
func (s *Server) displayName(r *http.Request) (string, error) {
	q := r.URL.Query()
	if s.tokens != nil {
		token := q.Get("token")
		if token == "" {
			token = bearer(r.Header.Get("Authorization"))
		}
		if token == "" {
			return "", fmt.Errorf("%w: missing token", errors.ErrUnauthorized)
		}
		claims, err := s.tokens.ValidateToken(token)
		if err != nil {
			return "", err
		}
		return claims.Name, nil
	}

	name := q.Get("name")
	if name == "" {
		return "", nil
	}
	if err := auth.ValidateDisplayName(name); err != nil {
		return "", err
	}
	return name, nil
}

func bearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.hub.Stats())
}

type participantView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

func (s *Server) handleParticipants(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, lo.Map(s.hub.Participants(), func(p domain.Participant, _ int) participantView {
		return participantView{ID: string(p.ID), Name: p.DisplayName, JoinedAt: p.JoinedAt}
	}))
}

type documentView struct {
	ID          string    `json:"file_path"`
	Version     uint64    `json:"version"`
	LastWriter  string    `json:"last_writer,omitempty"`
	LastWriteAt time.Time `json:"last_write_at"`
	Size        int       `json:"size"`
	MimeType    string    `json:"mime_type,omitempty"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, lo.Map(s.hub.Documents(), func(d domain.DocumentInfo, _ int) documentView {
		return documentView{
			ID:          string(d.ID),
			Version:     d.Version,
			LastWriter:  string(d.LastWriter),
			LastWriteAt: d.LastWriteAt,
			Size:        d.Size,
			MimeType:    d.MimeType,
		}
	}))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, err := parseLimit(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(s.hub.ChatHistory(limit), func(e domain.ChatEntry, _ int) ChatMessage {
		return toChatMessage(e)
	}))
}

func (s *Server) handleChatSearch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entries, err := s.hub.SearchChat(r.Context(), query, limit)
	switch {
	case stderrors.Is(err, errors.ErrArchiveUnavailable):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		s.log.Error("Chat search failed", "error", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(entries, func(e domain.ChatEntry, _ int) ChatMessage {
		return toChatMessage(e)
	}))
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultChatLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return min(limit, maxChatLimit), nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
