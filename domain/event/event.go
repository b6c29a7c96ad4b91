package event

import (
	"collab-hub/domain"
)

type Kind string

const (
	KindWelcome        Kind = "welcome"
	KindJoined         Kind = "joined"
	KindLeft           Kind = "left"
	KindContentChanged Kind = "content_changed"
	KindChatReceived   Kind = "chat_received"
)

// Event is the outbound tagged union pushed from the router to sinks.
type Event interface {
	Kind() Kind
}

// Welcome is the handshake snapshot sent to a newly joined participant only:
// its own identity, the current roster and the most recent chat entries.
type Welcome struct {
	Participant domain.Participant
	Roster      []domain.Participant
	History     []domain.ChatEntry
}

func (Welcome) Kind() Kind { return KindWelcome }

type Joined struct {
	Participant domain.Participant
	Roster      []domain.Participant
}

func (Joined) Kind() Kind { return KindJoined }

type Left struct {
	Participant domain.Participant
	Roster      []domain.Participant
}

func (Left) Kind() Kind { return KindLeft }

type ContentChanged struct {
	State domain.DocumentState
}

func (ContentChanged) Kind() Kind { return KindContentChanged }

type ChatReceived struct {
	Entry domain.ChatEntry
}

func (ChatReceived) Kind() Kind { return KindChatReceived }

// IsPresence reports whether the event only carries a roster,
// in which case a newer presence event supersedes it.
func IsPresence(e Event) bool {
	switch e.(type) {
	case Joined, Left:
		return true
	default:
		return false
	}
}
