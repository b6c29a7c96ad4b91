// Package domain contains core concepts of the collaboration hub.
// This file defines chat entries and related rules.
// Entries are immutable once appended to the chat log.
package domain

import (
	"time"
)

// ChatEntry is one session-wide chat message.
// Sequence is assigned by the chat log, globally unique and strictly increasing.
type ChatEntry struct {
	Sequence uint64
	AuthorID ParticipantID
	Author   string
	Body     string
	SentAt   time.Time
	Lang     string
}
