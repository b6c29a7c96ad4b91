package runtime

import (
	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/errors"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

type session struct {
	participant domain.Participant
	sink        contract.EventSink
}

// SessionRegistry is the source of truth for presence.
// It maps each connected participant to the sink delivering its outbound events.
type SessionRegistry struct {
	mu       sync.RWMutex
	max      int
	sessions map[domain.ParticipantID]session
	order    []domain.ParticipantID // join order
	now      func() time.Time
}

// NewSessionRegistry creates a registry accepting at most max concurrent participants.
// A non-positive max means no limit.
func NewSessionRegistry(max int) *SessionRegistry {
	return &SessionRegistry{
		max:      max,
		sessions: make(map[domain.ParticipantID]session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register assigns a fresh participant id, records the join time and binds the sink.
// An empty display name falls back to a guest name derived from the id.
func (r *SessionRegistry) Register(displayName string, sink contract.EventSink) (domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.max > 0 && len(r.sessions) >= r.max {
		return domain.Participant{}, errors.ErrCapacityExceeded
	}

	id := domain.NewParticipantID()
	for _, exists := r.sessions[id]; exists; _, exists = r.sessions[id] {
		id = domain.NewParticipantID()
	}
	if displayName == "" {
		displayName = domain.GuestName(id)
	}
	p := domain.Participant{ID: id, DisplayName: displayName, JoinedAt: r.now()}
	r.sessions[id] = session{participant: p, sink: sink}
	r.order = append(r.order, id)
	return p, nil
}

// Unregister is idempotent: removing an unknown id reports false and changes nothing.
func (r *SessionRegistry) Unregister(id domain.ParticipantID) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return domain.Participant{}, false
	}
	delete(r.sessions, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return s.participant, true
}

// List returns a consistent snapshot of the roster in join order.
func (r *SessionRegistry) List() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.order, func(id domain.ParticipantID, _ int) domain.Participant {
		return r.sessions[id].participant
	})
}

func (r *SessionRegistry) Lookup(id domain.ParticipantID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s.participant, ok
}

func (r *SessionRegistry) Sink(id domain.ParticipantID) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s.sink, ok
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
