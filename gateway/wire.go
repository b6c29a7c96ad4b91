package gateway

import (
	"collab-hub/domain"
	"collab-hub/domain/event"
	"collab-hub/errors"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Wire message types. user_list, code_update and chat_message keep the field
// names existing editor clients rely on; everything else is additive.
const (
	TypeUserList    = "user_list"
	TypeCodeUpdate  = "code_update"
	TypeChatMessage = "chat_message"
	TypeSubscribe   = "subscribe"
	TypeWelcome     = "welcome"
	TypePing        = "ping"
	TypePong        = "pong"
)

var validate = validator.New()

type envelope struct {
	Type string `json:"type" validate:"required,oneof=code_update chat_message subscribe ping"`
}

type CodeUpdateRequest struct {
	Type     string  `json:"type"`
	Code     *string `json:"code" validate:"required"`
	FilePath string  `json:"file_path" validate:"required,max=1024"`
	Version  uint64  `json:"version"`
}

type SubscribeRequest struct {
	Type     string `json:"type"`
	FilePath string `json:"file_path" validate:"required,max=1024"`
}

// ChatRequest carries a client-side user label for interop only:
// the author of a chat entry is always the participant's display name.
type ChatRequest struct {
	Type    string `json:"type"`
	User    string `json:"user" validate:"max=64"`
	Message string `json:"message" validate:"required"`
}

type PingRequest struct{}

// Client side constructors, used by tools and tests.

func NewCodeUpdateRequest(filePath, code string, version uint64) CodeUpdateRequest {
	return CodeUpdateRequest{Type: TypeCodeUpdate, Code: &code, FilePath: filePath, Version: version}
}

func NewSubscribeRequest(filePath string) SubscribeRequest {
	return SubscribeRequest{Type: TypeSubscribe, FilePath: filePath}
}

func NewChatRequest(user, message string) ChatRequest {
	return ChatRequest{Type: TypeChatMessage, User: user, Message: message}
}

type limits struct {
	maxContentLength int
	maxChatLength    int
}

// decodeInbound turns a client frame into a typed request.
// Every failure wraps ErrMalformedEvent.
func decodeInbound(data []byte, l limits) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedEvent, err)
	}
	if err := validate.Struct(env); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedEvent, err)
	}

	var req any
	switch env.Type {
	case TypeCodeUpdate:
		req = &CodeUpdateRequest{}
	case TypeSubscribe:
		req = &SubscribeRequest{}
	case TypeChatMessage:
		req = &ChatRequest{}
	default:
		return PingRequest{}, nil
	}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedEvent, err)
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedEvent, err)
	}

	switch r := req.(type) {
	case *CodeUpdateRequest:
		if len(*r.Code) > l.maxContentLength {
			return nil, fmt.Errorf("%w: code of %d bytes exceeds %d", errors.ErrMalformedEvent, len(*r.Code), l.maxContentLength)
		}
		return *r, nil
	case *ChatRequest:
		if len(r.Message) > l.maxChatLength {
			return nil, fmt.Errorf("%w: message of %d bytes exceeds %d", errors.ErrMalformedEvent, len(r.Message), l.maxChatLength)
		}
		return *r, nil
	case *SubscribeRequest:
		return *r, nil
	}
	return nil, errors.ErrMalformedEvent
}

type UserListMessage struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

type CodeUpdateMessage struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	FilePath string `json:"file_path"`
	Version  uint64 `json:"version"`
	Writer   string `json:"writer,omitempty"`
}

type ChatMessage struct {
	Type     string    `json:"type"`
	User     string    `json:"user"`
	Message  string    `json:"message"`
	Sequence uint64    `json:"sequence"`
	SentAt   time.Time `json:"sent_at"`
	Lang     string    `json:"lang,omitempty"`
}

type WelcomeMessage struct {
	Type          string `json:"type"`
	ParticipantID string `json:"participant_id"`
	User          string `json:"user"`
}

type PongMessage struct {
	Type string `json:"type"`
}

// encodeEvent maps one outbound event to the wire messages that carry it.
// A welcome expands to the identity, the roster and the chat backfill, in that order.
func encodeEvent(e event.Event) []any {
	switch evt := e.(type) {
	case event.Welcome:
		res := []any{
			WelcomeMessage{Type: TypeWelcome, ParticipantID: string(evt.Participant.ID), User: evt.Participant.DisplayName},
			toUserList(evt.Roster),
		}
		for _, entry := range evt.History {
			res = append(res, toChatMessage(entry))
		}
		return res
	case event.Joined:
		return []any{toUserList(evt.Roster)}
	case event.Left:
		return []any{toUserList(evt.Roster)}
	case event.ContentChanged:
		return []any{CodeUpdateMessage{
			Type:     TypeCodeUpdate,
			Code:     evt.State.Content,
			FilePath: string(evt.State.ID),
			Version:  evt.State.Version,
			Writer:   string(evt.State.LastWriter),
		}}
	case event.ChatReceived:
		return []any{toChatMessage(evt.Entry)}
	default:
		return nil
	}
}

func toUserList(roster []domain.Participant) UserListMessage {
	return UserListMessage{
		Type:  TypeUserList,
		Users: lo.Map(roster, func(p domain.Participant, _ int) string { return p.DisplayName }),
	}
}

func toChatMessage(entry domain.ChatEntry) ChatMessage {
	return ChatMessage{
		Type:     TypeChatMessage,
		User:     entry.Author,
		Message:  entry.Body,
		Sequence: entry.Sequence,
		SentAt:   entry.SentAt,
		Lang:     entry.Lang,
	}
}
