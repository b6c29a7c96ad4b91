package runtime

import (
	"collab-hub/domain"
	"sync"
)

// ChatLog is the bounded session-wide chat history.
// Oldest entries are evicted first and surviving entries keep their sequence.
type ChatLog struct {
	mu      sync.RWMutex
	entries []domain.ChatEntry // ring buffer
	start   int
	size    int
	lastSeq uint64
}

func NewChatLog(capacity int) *ChatLog {
	if capacity < 1 {
		capacity = 1
	}
	return &ChatLog{entries: make([]domain.ChatEntry, capacity)}
}

// Append assigns the next global sequence to the entry and stores it.
func (l *ChatLog) Append(entry domain.ChatEntry) domain.ChatEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastSeq++
	entry.Sequence = l.lastSeq
	l.push(entry)
	return entry
}

func (l *ChatLog) push(entry domain.ChatEntry) {
	capacity := len(l.entries)
	if l.size < capacity {
		l.entries[(l.start+l.size)%capacity] = entry
		l.size++
		return
	}
	l.entries[l.start] = entry
	l.start = (l.start + 1) % capacity
}

// Snapshot returns the most recent limit entries, oldest first.
// A non-positive limit returns everything retained.
func (l *ChatLog) Snapshot(limit int) []domain.ChatEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := l.size
	if limit > 0 && limit < n {
		n = limit
	}
	res := make([]domain.ChatEntry, 0, n)
	capacity := len(l.entries)
	for i := l.size - n; i < l.size; i++ {
		res = append(res, l.entries[(l.start+i)%capacity])
	}
	return res
}

// Restore reloads previously archived entries, oldest first.
// The sequence counter resumes after the highest restored sequence.
// It returns how many sequences are missing between the restored entries,
// which is what the archive failed to persist before the restart.
func (l *ChatLog) Restore(entries []domain.ChatEntry) (missing uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range entries {
		if e.Sequence <= l.lastSeq {
			continue
		}
		if l.lastSeq > 0 {
			missing += e.Sequence - l.lastSeq - 1
		}
		l.push(e)
		l.lastSeq = e.Sequence
	}
	return missing
}

func (l *ChatLog) LastSequence() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastSeq
}

func (l *ChatLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

func (l *ChatLog) Capacity() int {
	return len(l.entries)
}
