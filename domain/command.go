package domain

import (
	"time"
)

// Command is an inbound event for the router.
// Session-wide commands return an empty DocumentID.
type Command interface {
	DocumentID() DocumentID
}

type LeaveCommand struct {
	ParticipantID ParticipantID
}

func (LeaveCommand) DocumentID() DocumentID { return "" }

// Stamp is set by the router on arrival. It orders the subscription
// changes of one participant across document workers.
type SubscribeCommand struct {
	ParticipantID ParticipantID
	Document      DocumentID
	Stamp         uint64
}

func (c SubscribeCommand) DocumentID() DocumentID { return c.Document }

type ContentUpdateCommand struct {
	Document      DocumentID
	Content       string
	WriterID      ParticipantID
	ClientVersion uint64
	ReceivedAt    time.Time
	Stamp         uint64
}

func (c ContentUpdateCommand) DocumentID() DocumentID { return c.Document }

type ChatSendCommand struct {
	AuthorID ParticipantID
	Body     string
	SentAt   time.Time
}

func (ChatSendCommand) DocumentID() DocumentID { return "" }
