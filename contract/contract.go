//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"collab-hub/domain"
	"collab-hub/domain/event"
	"collab-hub/observability"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Spawn(worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type namedWorker interface {
	Name() string
}

// GetWorkerName uses the worker's own Name when it has one,
// otherwise reflection to retrieve its type name.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	if n, ok := w.(namedWorker); ok {
		return n.Name()
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives outbound events. Consume must never block the caller
// on a slow reader: a sink that cannot keep up reports an error instead.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// CommandProcessor applies one command to the shared state.
// Called sequentially by a single worker per ordering key.
type CommandProcessor interface {
	Process(ctx context.Context, cmd domain.Command)
}

type Moderator interface {
	Censor(original string) (string, []string)
}

// ChatArchive durably keeps accepted chat entries.
type ChatArchive interface {
	Store(ctx context.Context, entry domain.ChatEntry) error
	Recent(ctx context.Context, limit int) ([]domain.ChatEntry, error)
	Search(ctx context.Context, query string, limit int) ([]domain.ChatEntry, error)
}

// Completer turns a prompt into a completion using a remote model.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// IHubService is everything the gateway needs from the hub.
type IHubService interface {
	Join(ctx context.Context, displayName string, sink EventSink) (domain.Participant, error)
	Leave(ctx context.Context, pID domain.ParticipantID) error
	Subscribe(ctx context.Context, pID domain.ParticipantID, document domain.DocumentID) error
	UpdateContent(ctx context.Context, cmd domain.ContentUpdateCommand) error
	SendChat(ctx context.Context, cmd domain.ChatSendCommand) error
	Participants() []domain.Participant
	Documents() []domain.DocumentInfo
	ChatHistory(limit int) []domain.ChatEntry
	SearchChat(ctx context.Context, query string, limit int) ([]domain.ChatEntry, error)
	Stats() observability.HubSnapshot
}
