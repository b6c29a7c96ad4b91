package sink

import (
	"collab-hub/domain/event"
	"collab-hub/errors"
	"collab-hub/observability"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// ConnectionSink is the bounded outbound queue of one connection.
// Consume never blocks the router. When the connection drains slower than the
// broadcast rate, a pending content update is replaced by a newer one for the
// same document and a pending roster by the newer roster. Welcome and chat
// messages are never coalesced: once chatBacklog of them are waiting the
// connection is declared failed and closed.
//
// Closing discards whatever is still queued. A client that reconnects gets
// the welcome backfill of the last ChatReplayLimit chat entries only, so chat
// lost in a discarded queue beyond that window is not recovered.
type ConnectionSink struct {
	mu           sync.Mutex
	log          *slog.Logger
	stats        *observability.HubStats
	pending      []event.Event
	chatPending  int
	otherPending int
	maxChat      int
	maxOther     int
	ready        chan struct{}
	done         chan struct{}
	closeOnce    sync.Once
	err          error
}

func NewConnectionSink(log *slog.Logger, stats *observability.HubStats, bufferSize, chatBacklog int) *ConnectionSink {
	return &ConnectionSink{
		log:      log,
		stats:    stats,
		maxChat:  chatBacklog,
		maxOther: bufferSize,
		ready:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (s *ConnectionSink) Consume(_ context.Context, e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	switch evt := e.(type) {
	case event.ContentChanged:
		for i, p := range s.pending {
			pending, ok := p.(event.ContentChanged)
			if !ok || pending.State.ID != evt.State.ID {
				continue
			}
			// Only the latest version of a document matters to a slow reader.
			if pending.State.Version < evt.State.Version {
				s.pending[i] = e
			}
			s.coalesced(e)
			return nil
		}
		return s.appendOther(e)
	case event.Joined, event.Left:
		if s.replace(event.IsPresence, e) {
			return nil
		}
		return s.appendOther(e)
	default:
		if s.chatPending >= s.maxChat {
			s.closeLocked(fmt.Errorf("%w: chat backlog of %d reached", errors.ErrTransportSendFailure, s.maxChat))
			return s.err
		}
		s.chatPending++
		s.push(e)
		return nil
	}
}

// replace swaps the first pending event matching the predicate.
func (s *ConnectionSink) replace(match func(event.Event) bool, e event.Event) bool {
	for i, p := range s.pending {
		if match(p) {
			s.pending[i] = e
			s.coalesced(e)
			return true
		}
	}
	return false
}

func (s *ConnectionSink) coalesced(e event.Event) {
	s.stats.IncrCoalesced()
	s.log.Debug("Outbound event coalesced", "event", e.Kind())
}

func (s *ConnectionSink) appendOther(e event.Event) error {
	if s.otherPending >= s.maxOther {
		s.closeLocked(fmt.Errorf("%w: outbound queue of %d reached", errors.ErrTransportSendFailure, s.maxOther))
		return s.err
	}
	s.otherPending++
	s.push(e)
	return nil
}

func (s *ConnectionSink) push(e event.Event) {
	s.pending = append(s.pending, e)
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Ready is signaled whenever events are waiting to be drained.
func (s *ConnectionSink) Ready() <-chan struct{} {
	return s.ready
}

// Drain takes every pending event in delivery order.
func (s *ConnectionSink) Drain() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.pending
	s.pending = nil
	s.chatPending = 0
	s.otherPending = 0
	return res
}

// Done is closed once the sink has failed or was closed by its connection.
func (s *ConnectionSink) Done() <-chan struct{} {
	return s.done
}

func (s *ConnectionSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close is idempotent. Later Consume calls fail with err.
func (s *ConnectionSink) Close(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked(err)
}

func (s *ConnectionSink) closeLocked(err error) {
	s.closeOnce.Do(func() {
		if err == nil {
			err = fmt.Errorf("%w: connection closed", errors.ErrTransportSendFailure)
		}
		s.err = err
		// Queued chat is gone for good past the reconnect replay window.
		s.pending = nil
		close(s.done)
	})
}
