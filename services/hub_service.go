package services

import (
	"collab-hub/contract"
	"collab-hub/domain"
	"collab-hub/errors"
	"collab-hub/observability"
	"collab-hub/runtime"
	"context"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

type HubService struct {
	router  *runtime.Router
	archive contract.ChatArchive
}

// NewHubService wires the router. archive may be nil, search is then unavailable.
func NewHubService(router *runtime.Router, archive contract.ChatArchive) *HubService {
	return &HubService{router: router, archive: archive}
}

func (s *HubService) Join(ctx context.Context, displayName string, sink contract.EventSink) (domain.Participant, error) {
	return s.router.Join(ctx, displayName, sink)
}

func (s *HubService) Leave(ctx context.Context, pID domain.ParticipantID) error {
	return s.router.Leave(ctx, pID)
}

func (s *HubService) Subscribe(ctx context.Context, pID domain.ParticipantID, document domain.DocumentID) error {
	return s.router.Handle(ctx, domain.SubscribeCommand{ParticipantID: pID, Document: document})
}

func (s *HubService) UpdateContent(ctx context.Context, cmd domain.ContentUpdateCommand) error {
	return s.router.Handle(ctx, cmd)
}

func (s *HubService) SendChat(ctx context.Context, cmd domain.ChatSendCommand) error {
	return s.router.Handle(ctx, cmd)
}

func (s *HubService) Participants() []domain.Participant {
	return s.router.Participants()
}

func (s *HubService) Documents() []domain.DocumentInfo {
	return lo.Map(s.router.Documents(), func(d domain.DocumentState, _ int) domain.DocumentInfo {
		return toDocumentInfo(d)
	})
}

func toDocumentInfo(d domain.DocumentState) domain.DocumentInfo {
	info := domain.DocumentInfo{
		ID:          d.ID,
		Version:     d.Version,
		LastWriter:  d.LastWriter,
		LastWriteAt: d.LastWriteAt,
		Size:        len(d.Content),
	}
	if d.Content != "" {
		info.MimeType = mimetype.Detect([]byte(d.Content)).String()
	}
	return info
}

func (s *HubService) ChatHistory(limit int) []domain.ChatEntry {
	return s.router.ChatHistory(limit)
}

func (s *HubService) SearchChat(ctx context.Context, query string, limit int) ([]domain.ChatEntry, error) {
	if s.archive == nil {
		return nil, errors.ErrArchiveUnavailable
	}
	return s.archive.Search(ctx, query, limit)
}

func (s *HubService) Stats() observability.HubSnapshot {
	return s.router.Stats()
}
