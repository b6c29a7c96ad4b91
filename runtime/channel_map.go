package runtime

import (
	"cmp"
	"collab-hub/domain"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
)

type Set map[domain.ParticipantID]struct{}

// DocumentChannelMap holds the authoritative replica of every document seen
// during the session and the participants watching each of them.
// A participant watches at most one document at a time.
type DocumentChannelMap struct {
	mu            sync.RWMutex
	documents     map[domain.DocumentID]*domain.DocumentState
	subscribers   map[domain.DocumentID]Set
	subscriptions map[domain.ParticipantID]domain.DocumentID
	stamps        map[domain.ParticipantID]uint64
}

// SubscribeResult reports what a Subscribe call did.
// A superseded call changed nothing: a later command of the same participant already moved it.
type SubscribeResult struct {
	Previous   domain.DocumentID
	Switched   bool
	Superseded bool
}

func NewDocumentChannelMap() *DocumentChannelMap {
	return &DocumentChannelMap{
		documents:     make(map[domain.DocumentID]*domain.DocumentState),
		subscribers:   make(map[domain.DocumentID]Set),
		subscriptions: make(map[domain.ParticipantID]domain.DocumentID),
		stamps:        make(map[domain.ParticipantID]uint64),
	}
}

// GetOrCreate returns the current state, creating an empty one at version 0.
func (m *DocumentChannelMap) GetOrCreate(id domain.DocumentID) domain.DocumentState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.getOrCreate(id)
}

func (m *DocumentChannelMap) getOrCreate(id domain.DocumentID) *domain.DocumentState {
	state, ok := m.documents[id]
	if !ok {
		state = &domain.DocumentState{ID: id}
		m.documents[id] = state
	}
	return state
}

// Get returns the state without creating it.
func (m *DocumentChannelMap) Get(id domain.DocumentID) (domain.DocumentState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.documents[id]
	if !ok {
		return domain.DocumentState{}, false
	}
	return *state, true
}

// ApplyUpdate is last-writer-wins with a monotonic fence: every update is accepted
// and gets the next version, even when clientVersion is behind. Identical content
// is a no-op and leaves the version untouched.
func (m *DocumentChannelMap) ApplyUpdate(id domain.DocumentID, content string,
	writer domain.ParticipantID, clientVersion uint64, at time.Time) domain.ApplyResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.getOrCreate(id)
	if state.Content == content {
		return domain.ApplyResult{State: *state, NoOp: true}
	}

	stale := clientVersion < state.Version
	state.Version++
	state.Content = content
	state.LastWriter = writer
	state.LastWriteAt = at
	return domain.ApplyResult{State: *state, Stale: stale}
}

// Subscribe replaces any prior subscription of the participant.
// stamp orders the calls of one participant: document workers run concurrently,
// so a call carrying a stamp older than the last applied one is ignored.
// A zero stamp is never ignored.
func (m *DocumentChannelMap) Subscribe(pID domain.ParticipantID, id domain.DocumentID, stamp uint64) SubscribeResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getOrCreate(id)
	prev, had := m.subscriptions[pID]
	if stamp != 0 && stamp < m.stamps[pID] {
		return SubscribeResult{Previous: prev, Superseded: true}
	}
	if stamp > m.stamps[pID] {
		m.stamps[pID] = stamp
	}
	if had && prev == id {
		return SubscribeResult{Previous: prev}
	}
	if had {
		m.removeSubscriber(pID, prev)
	}
	m.subscriptions[pID] = id
	if _, ok := m.subscribers[id]; !ok {
		m.subscribers[id] = make(Set)
	}
	m.subscribers[id][pID] = struct{}{}
	return SubscribeResult{Previous: prev, Switched: true}
}

// Unsubscribe drops the participant's subscription, if any.
func (m *DocumentChannelMap) Unsubscribe(pID domain.ParticipantID) (domain.DocumentID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.stamps, pID)
	id, ok := m.subscriptions[pID]
	if !ok {
		return "", false
	}
	delete(m.subscriptions, pID)
	m.removeSubscriber(pID, id)
	return id, true
}

// removeSubscriber leaves no empty sets behind. The document state itself is kept.
func (m *DocumentChannelMap) removeSubscriber(pID domain.ParticipantID, id domain.DocumentID) {
	if members, ok := m.subscribers[id]; ok {
		delete(members, pID)
		if len(members) == 0 {
			delete(m.subscribers, id)
		}
	}
}

// SubscribersOf returns the watchers of a document in a stable order.
func (m *DocumentChannelMap) SubscribersOf(id domain.DocumentID) []domain.ParticipantID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := lo.Keys(m.subscribers[id])
	slices.Sort(res)
	return res
}

func (m *DocumentChannelMap) SubscriptionOf(pID domain.ParticipantID) (domain.DocumentID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.subscriptions[pID]
	return id, ok
}

// Documents returns a snapshot of every known document ordered by id.
func (m *DocumentChannelMap) Documents() []domain.DocumentState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := lo.MapToSlice(m.documents, func(_ domain.DocumentID, s *domain.DocumentState) domain.DocumentState {
		return *s
	})
	slices.SortFunc(res, func(a, b domain.DocumentState) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return res
}

// Reset drops every document and subscription. Used on session teardown.
func (m *DocumentChannelMap) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.documents)
	clear(m.subscribers)
	clear(m.subscriptions)
	clear(m.stamps)
}
