// Package runtime owns the shared collaboration state and orders every mutation of it.
// Session-wide commands (join, leave, chat) are drained by one worker and each document
// gets its own worker, so a document's versions are assigned and broadcast in order
// while different documents progress independently.
package runtime

import (
	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/domain/event"
	"collab-hub/errors"
	"collab-hub/moderation"
	"collab-hub/observability"
	"collab-hub/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
)

const globalWorkerName = "session"

// joinCommand never leaves this package: the gateway goes through Router.Join
// so that the handshake snapshot is produced on the session worker.
type joinCommand struct {
	displayName string
	sink        contract.EventSink
	reply       chan joinResult
}

type joinResult struct {
	participant domain.Participant
	err         error
}

func (joinCommand) DocumentID() domain.DocumentID { return "" }

type Router struct {
	mu          sync.Mutex
	log         *slog.Logger
	sessions    *SessionRegistry
	documents   *DocumentChannelMap
	chat        *ChatLog
	stats       *observability.HubStats
	supervisor  contract.ISupervisor
	moderator   contract.Moderator
	archive     contract.ChatArchive
	sinks       []contract.EventSink // receive every chat entry
	global      *workers.CommandWorker
	docWorkers  map[domain.DocumentID]*workers.CommandWorker
	lifetime    context.Context
	bufferSize  int
	replayLimit int
	detectLang  func(string) string
	stamps      atomic.Uint64
}

func NewRouter(log *slog.Logger, supervisor contract.ISupervisor,
	sessions *SessionRegistry, documents *DocumentChannelMap, chat *ChatLog,
	stats *observability.HubStats, bufferSize, replayLimit int) *Router {
	r := &Router{
		log:         log,
		sessions:    sessions,
		documents:   documents,
		chat:        chat,
		stats:       stats,
		supervisor:  supervisor,
		docWorkers:  make(map[domain.DocumentID]*workers.CommandWorker),
		bufferSize:  bufferSize,
		replayLimit: replayLimit,
		detectLang:  moderation.DetectLanguage,
	}
	r.global = workers.NewCommandWorker(globalWorkerName, log, r, bufferSize)
	return r
}

// WithModerator censors chat bodies before they are appended.
func (r *Router) WithModerator(m contract.Moderator) *Router {
	r.moderator = m
	return r
}

// WithArchive restores the chat log from the archive on Start.
func (r *Router) WithArchive(a contract.ChatArchive) *Router {
	r.archive = a
	return r
}

// AddSinks registers permanent sinks receiving every accepted chat entry.
func (r *Router) AddSinks(sinks ...contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, sinks...)
}

// Start restores chat history and hands the session worker to the supervisor.
// The supervisor itself is run by the caller.
func (r *Router) Start(ctx context.Context) {
	if r.archive != nil {
		entries, err := r.archive.Recent(ctx, r.chat.Capacity())
		if err != nil {
			r.log.Error("Unable to restore chat history", "error", err)
		} else {
			missing := r.chat.Restore(entries)
			r.log.Info("Chat history restored", "entries", len(entries), "sequence", r.chat.LastSequence())
			if missing > 0 {
				r.log.Warn("Archived chat has sequence gaps, entries were dropped before restart", "missing", missing)
			}
		}
	}
	r.mu.Lock()
	r.lifetime = ctx
	r.mu.Unlock()
	r.supervisor.Spawn(r.global)
}

// Join registers a participant, delivers the handshake snapshot to its sink
// and announces the new roster to everyone.
func (r *Router) Join(ctx context.Context, displayName string, sink contract.EventSink) (domain.Participant, error) {
	reply := make(chan joinResult, 1)
	if err := r.Handle(ctx, joinCommand{displayName: displayName, sink: sink, reply: reply}); err != nil {
		return domain.Participant{}, err
	}
	select {
	case res := <-reply:
		return res.participant, res.err
	case <-ctx.Done():
		// The join may still be processed, undo it once it is.
		go func() {
			if res := <-reply; res.err == nil {
				_ = r.Handle(context.Background(), domain.LeaveCommand{ParticipantID: res.participant.ID})
			}
		}()
		return domain.Participant{}, ctx.Err()
	}
}

func (r *Router) Leave(ctx context.Context, pID domain.ParticipantID) error {
	return r.Handle(ctx, domain.LeaveCommand{ParticipantID: pID})
}

// Handle routes a command to the worker owning its ordering key.
// It only blocks while that worker's queue is full.
func (r *Router) Handle(ctx context.Context, cmd domain.Command) error {
	r.mu.Lock()
	lifetime := r.lifetime
	r.mu.Unlock()
	if lifetime == nil || lifetime.Err() != nil {
		return errors.ErrRouterStopped
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(lifetime, cancel)
	defer stop()

	// A connection calls Handle sequentially, so stamps taken here follow
	// each participant's command order.
	switch c := cmd.(type) {
	case domain.SubscribeCommand:
		c.Stamp = r.stamps.Add(1)
		cmd = c
	case domain.ContentUpdateCommand:
		c.Stamp = r.stamps.Add(1)
		cmd = c
	}

	if id := cmd.DocumentID(); id != "" {
		return r.documentWorker(id).Enqueue(ctx, cmd)
	}
	return r.global.Enqueue(ctx, cmd)
}

func (r *Router) documentWorker(id domain.DocumentID) *workers.CommandWorker {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.docWorkers[id]
	if !ok {
		w = workers.NewCommandWorker(fmt.Sprintf("document:%s", id), r.log, r, r.bufferSize)
		r.docWorkers[id] = w
		r.supervisor.Spawn(w)
	}
	return w
}

// Process applies one command. Each command type only ever reaches one worker,
// which is what makes the state changes below sequential per ordering key.
func (r *Router) Process(ctx context.Context, cmd domain.Command) {
	switch c := cmd.(type) {
	case joinCommand:
		r.processJoin(ctx, c)
	case domain.LeaveCommand:
		r.processLeave(ctx, c)
	case domain.ChatSendCommand:
		r.processChat(ctx, c)
	case domain.SubscribeCommand:
		r.processSubscribe(ctx, c)
	case domain.ContentUpdateCommand:
		r.processContentUpdate(ctx, c)
	default:
		r.log.Warn("Unsupported command", "type", fmt.Sprintf("%T", cmd))
	}
}

func (r *Router) processJoin(ctx context.Context, c joinCommand) {
	p, err := r.sessions.Register(c.displayName, c.sink)
	if err != nil {
		r.log.Warn("Participant rejected", "display_name", c.displayName, "error", err)
		c.reply <- joinResult{err: err}
		return
	}
	roster := r.sessions.List()
	welcome := event.Welcome{Participant: p, Roster: roster, History: r.chat.Snapshot(r.replayLimit)}
	if err := c.sink.Consume(ctx, welcome); err != nil {
		r.deliveryFailed(p.ID, welcome, err)
	}
	r.log.Info("Participant joined", "participant_id", p.ID, "display_name", p.DisplayName, "participants", len(roster))
	c.reply <- joinResult{participant: p}

	// The welcome already carries the roster to the newcomer.
	others := lo.FilterMap(roster, func(o domain.Participant, _ int) (domain.ParticipantID, bool) {
		return o.ID, o.ID != p.ID
	})
	r.broadcast(ctx, others, event.Joined{Participant: p, Roster: roster})
}

func (r *Router) processLeave(ctx context.Context, c domain.LeaveCommand) {
	p, ok := r.sessions.Unregister(c.ParticipantID)
	if !ok {
		r.log.Debug("Leave for unknown participant ignored", "participant_id", c.ParticipantID)
		return
	}
	r.documents.Unsubscribe(p.ID)
	roster := r.sessions.List()
	r.log.Info("Participant left", "participant_id", p.ID, "participants", len(roster))
	r.broadcastAll(ctx, event.Left{Participant: p, Roster: roster})
}

func (r *Router) processChat(ctx context.Context, c domain.ChatSendCommand) {
	author, ok := r.sessions.Lookup(c.AuthorID)
	if !ok {
		r.log.Debug("Chat dropped", "participant_id", c.AuthorID, "error", errors.ErrUnknownParticipant)
		return
	}
	body := c.Body
	if r.moderator != nil {
		var censored []string
		body, censored = r.moderator.Censor(body)
		if len(censored) > 0 {
			r.log.Debug("Chat censored", "participant_id", author.ID, "words", len(censored))
		}
	}
	entry := r.chat.Append(domain.ChatEntry{
		AuthorID: author.ID,
		Author:   author.DisplayName,
		Body:     body,
		SentAt:   c.SentAt,
		Lang:     r.detectLang(body),
	})
	r.stats.IncrChatEntries()
	r.log.Debug("Chat appended", "participant_id", author.ID, "sequence", entry.Sequence)

	evt := event.ChatReceived{Entry: entry}
	r.broadcastAll(ctx, evt)

	r.mu.Lock()
	sinks := r.sinks
	r.mu.Unlock()
	for _, s := range sinks {
		if err := s.Consume(ctx, evt); err != nil {
			r.log.Warn("Permanent sink rejected chat entry", "sequence", entry.Sequence, "error", err)
		}
	}
}

func (r *Router) processSubscribe(ctx context.Context, c domain.SubscribeCommand) {
	sink, ok := r.subscribe(c.ParticipantID, c.Document, c.Stamp)
	if !ok {
		return
	}
	evt := event.ContentChanged{State: r.documents.GetOrCreate(c.Document)}
	if err := sink.Consume(ctx, evt); err != nil {
		r.deliveryFailed(c.ParticipantID, evt, err)
	}
}

func (r *Router) processContentUpdate(ctx context.Context, c domain.ContentUpdateCommand) {
	_, known := r.sessions.Lookup(c.WriterID)
	if !known {
		r.log.Debug("Content update dropped", "participant_id", c.WriterID,
			"document_id", c.Document, "error", errors.ErrUnknownParticipant)
		return
	}
	sub := r.documents.Subscribe(c.WriterID, c.Document, c.Stamp)
	if sub.Superseded {
		r.log.Debug("Writer already moved on, subscription kept", "participant_id", c.WriterID, "document_id", c.Document)
	}
	writerSink, ok := r.checkSubscription(c.WriterID)
	if !ok {
		return
	}

	res := r.documents.ApplyUpdate(c.Document, c.Content, c.WriterID, c.ClientVersion, c.ReceivedAt)
	if res.NoOp {
		r.stats.IncrNoOpUpdates()
		r.log.Debug("Identical content, update suppressed", "document_id", c.Document, "version", res.State.Version)
		if sub.Switched {
			r.log.Debug("Writer switched document", "participant_id", c.WriterID, "from", sub.Previous, "to", c.Document)
			evt := event.ContentChanged{State: res.State}
			if err := writerSink.Consume(ctx, evt); err != nil {
				r.deliveryFailed(c.WriterID, evt, err)
			}
		}
		return
	}
	if res.Stale {
		r.stats.IncrStaleWrites()
		r.log.Debug("Stale write accepted", "document_id", c.Document,
			"client_version", c.ClientVersion, "version", res.State.Version)
	}
	r.broadcast(ctx, r.documents.SubscribersOf(c.Document), event.ContentChanged{State: res.State})
}

// subscribe binds the participant to the document and returns its sink.
// It reports false when the participant is gone or the call was superseded.
func (r *Router) subscribe(pID domain.ParticipantID, id domain.DocumentID, stamp uint64) (contract.EventSink, bool) {
	if _, known := r.sessions.Lookup(pID); !known {
		r.log.Debug("Subscribe dropped", "participant_id", pID, "document_id", id, "error", errors.ErrUnknownParticipant)
		return nil, false
	}
	if r.documents.Subscribe(pID, id, stamp).Superseded {
		r.log.Debug("Subscribe superseded by a later command", "participant_id", pID, "document_id", id)
		return nil, false
	}
	return r.checkSubscription(pID)
}

// checkSubscription runs after Subscribe: a leave processed concurrently on the
// session worker either sees the subscription and removes it, or has already
// unregistered the participant, in which case the subscription is undone here.
func (r *Router) checkSubscription(pID domain.ParticipantID) (contract.EventSink, bool) {
	sink, ok := r.sessions.Sink(pID)
	if !ok {
		r.documents.Unsubscribe(pID)
		return nil, false
	}
	return sink, true
}

func (r *Router) broadcastAll(ctx context.Context, evt event.Event) {
	r.broadcast(ctx, lo.Map(r.sessions.List(), func(p domain.Participant, _ int) domain.ParticipantID {
		return p.ID
	}), evt)
}

// broadcast delivers to every target. A failing target never stops the others.
func (r *Router) broadcast(ctx context.Context, targets []domain.ParticipantID, evt event.Event) {
	r.stats.IncrBroadcasts()
	for _, pID := range targets {
		sink, ok := r.sessions.Sink(pID)
		if !ok {
			continue
		}
		if err := sink.Consume(ctx, evt); err != nil {
			r.deliveryFailed(pID, evt, err)
		}
	}
}

func (r *Router) deliveryFailed(pID domain.ParticipantID, evt event.Event, err error) {
	r.stats.IncrDeliveryFailures()
	r.log.Warn("Delivery failed", "participant_id", pID, "event", evt.Kind(),
		"error", fmt.Errorf("%w: %w", errors.ErrTransportSendFailure, err))
}

func (r *Router) Participants() []domain.Participant {
	return r.sessions.List()
}

func (r *Router) Documents() []domain.DocumentState {
	return r.documents.Documents()
}

func (r *Router) ChatHistory(limit int) []domain.ChatEntry {
	return r.chat.Snapshot(limit)
}

func (r *Router) Stats() observability.HubSnapshot {
	return r.stats.GetLatest(r.sessions.Len(), len(r.documents.Documents()))
}

// Queues lists the command queues for capacity sampling.
func (r *Router) Queues() []workers.NamedChannel {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := []workers.NamedChannel{{Name: r.global.Name(), Channel: r.global.Queue()}}
	for _, w := range r.docWorkers {
		res = append(res, workers.NamedChannel{Name: w.Name(), Channel: w.Queue()})
	}
	return res
}

// Close tears the session down: documents are garbage-collected only here.
func (r *Router) Close() {
	r.documents.Reset()
	r.log.Info("Session closed")
}
