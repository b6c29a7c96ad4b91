package gateway

import (
	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/observability"
	"collab-hub/sink"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// Maximum frame size accepted from a client on top of the content limit.
const frameOverhead = 4096

// connection owns one client socket. readPump is the only reader and
// writePump the only writer, as gorilla/websocket requires.
type connection struct {
	participant domain.Participant
	conn        *websocket.Conn
	sink        *sink.ConnectionSink
	hub         contract.IHubService
	stats       *observability.HubStats
	log         *slog.Logger
	cfg         Config
	pong        chan struct{}
}

func newConnection(p domain.Participant, conn *websocket.Conn, sink *sink.ConnectionSink,
	hub contract.IHubService, stats *observability.HubStats, log *slog.Logger, cfg Config) *connection {
	return &connection{
		participant: p,
		conn:        conn,
		sink:        sink,
		hub:         hub,
		stats:       stats,
		log:         log.With("participant_id", p.ID),
		cfg:         cfg,
		pong:        make(chan struct{}, 1),
	}
}

// serve writes the handshake, then pumps until the client goes away,
// the heartbeat times out, the sink fails or ctx is canceled.
func (c *connection) serve(ctx context.Context) {
	defer c.conn.Close()

	// The welcome was queued by Join: it is written before any client frame is read.
	if err := c.flush(); err != nil {
		c.log.Warn("Handshake failed", "error", err)
		c.sink.Close(err)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump(ctx)
	}()
	c.readPump(ctx)
	c.sink.Close(nil)
	<-done
}

func (c *connection) readPump(ctx context.Context) {
	c.conn.SetReadLimit(int64(c.cfg.MaxContentLength + frameOverhead))
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.HeartbeatTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.HeartbeatTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info("Connection lost", "error", err)
			}
			return
		}
		// Any inbound traffic proves liveness.
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.HeartbeatTimeout))

		if err := c.handle(ctx, data); err != nil {
			c.log.Warn("Router unavailable, closing connection", "error", err)
			return
		}
	}
}

// handle dispatches one client frame. Malformed frames are dropped and the
// connection stays open. Only a router failure is returned.
func (c *connection) handle(ctx context.Context, data []byte) error {
	req, err := decodeInbound(data, limits{
		maxContentLength: c.cfg.MaxContentLength,
		maxChatLength:    c.cfg.MaxChatLength,
	})
	if err != nil {
		c.stats.IncrMalformedEvents()
		c.log.Warn("Malformed event dropped", "error", err)
		return nil
	}

	now := time.Now().UTC()
	switch r := req.(type) {
	case PingRequest:
		select {
		case c.pong <- struct{}{}:
		default:
		}
		return nil
	case SubscribeRequest:
		return c.hub.Subscribe(ctx, c.participant.ID, domain.DocumentID(r.FilePath))
	case CodeUpdateRequest:
		return c.hub.UpdateContent(ctx, domain.ContentUpdateCommand{
			Document:      domain.DocumentID(r.FilePath),
			Content:       *r.Code,
			WriterID:      c.participant.ID,
			ClientVersion: r.Version,
			ReceivedAt:    now,
		})
	case ChatRequest:
		return c.hub.SendChat(ctx, domain.ChatSendCommand{
			AuthorID: c.participant.ID,
			Body:     r.Message,
			SentAt:   now,
		})
	default:
		return nil
	}
}

func (c *connection) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.pingPeriod())
	defer func() {
		ticker.Stop()
		// Unblocks the reader.
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.writeClose(websocket.CloseGoingAway, "server shutting down")
			return
		case <-c.sink.Done():
			c.log.Debug("Sink closed, disconnecting", "error", c.sink.Err())
			c.writeClose(websocket.CloseTryAgainLater, "outbound queue closed")
			return
		case <-c.sink.Ready():
			if err := c.flush(); err != nil {
				c.log.Info("Write failed", "error", err)
				c.sink.Close(err)
				return
			}
		case <-c.pong:
			if err := c.writeJSON(PongMessage{Type: TypePong}); err != nil {
				c.sink.Close(err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.sink.Close(err)
				return
			}
		}
	}
}

// flush writes everything pending in the sink, in order.
func (c *connection) flush() error {
	for _, evt := range c.sink.Drain() {
		for _, msg := range encodeEvent(evt) {
			if err := c.writeJSON(msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *connection) writeJSON(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *connection) writeClose(code int, reason string) {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(c.cfg.WriteTimeout))
}
