package repositories

import (
	"collab-hub/domain"
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
)

// ChatArchive keeps chat entries in badger and indexes them in bluge.
// Badger is the source of truth: search hits are hydrated from it.
type ChatArchive struct {
	repository *ChatRepository
	index      *ChatIndex
	log        *slog.Logger
}

func NewChatArchive(repository *ChatRepository, index *ChatIndex, log *slog.Logger) *ChatArchive {
	return &ChatArchive{repository: repository, index: index, log: log}
}

func (a *ChatArchive) Store(_ context.Context, entry domain.ChatEntry) error {
	disk := FromChatEntry(entry)
	if err := a.repository.Store(disk); err != nil {
		return fmt.Errorf("store chat entry %d: %w", entry.Sequence, err)
	}
	if err := a.index.Index(disk); err != nil {
		return fmt.Errorf("index chat entry %d: %w", entry.Sequence, err)
	}
	return nil
}

func (a *ChatArchive) Recent(_ context.Context, limit int) ([]domain.ChatEntry, error) {
	entries, err := a.repository.Recent(limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(e DiskChatEntry, _ int) domain.ChatEntry { return ToChatEntry(e) }), nil
}

func (a *ChatArchive) Search(ctx context.Context, query string, limit int) ([]domain.ChatEntry, error) {
	sequences, err := a.index.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search chat index: %w", err)
	}
	entries, err := a.repository.GetBySequences(sequences)
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(e DiskChatEntry, _ int) domain.ChatEntry { return ToChatEntry(e) }), nil
}
