package repositories

import (
	"collab-hub/domain"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const chatPrefix = "chat:"

type ChatRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewChatRepository(db *badger.DB, log *slog.Logger) *ChatRepository {
	return &ChatRepository{db: db, log: log}
}

type DiskChatEntry struct {
	Sequence uint64    `json:"sequence"`
	AuthorID string    `json:"author_id"`
	Author   string    `json:"author"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
	Lang     string    `json:"lang,omitempty"`
}

// chatKey is "chat:{sequence}" with 20-digit zero padding,
// so lexicographical order is sequence order for the whole uint64 range.
func chatKey(sequence uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", chatPrefix, sequence))
}

// Store persists a chat entry. Storing the same sequence twice overwrites it.
func (c *ChatRepository) Store(entry DiskChatEntry) error {
	bytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chatKey(entry.Sequence), bytes)
	})
}

// Recent returns the last limit entries, oldest first.
// It seeks to the end of the prefix and walks backwards.
func (c *ChatRepository) Recent(limit int) ([]DiskChatEntry, error) {
	var res []DiskChatEntry
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte(chatPrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Beyond the largest 20-digit key
		seekKey := append([]byte(chatPrefix), []byte("99999999999999999999~")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(res) == limit {
				c.log.Debug(fmt.Sprintf("Maximum of %d chat entries reached", limit))
				break
			}
			entry, err := decodeChatEntry(it.Item())
			if err != nil {
				return err
			}
			res = append(res, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(res)
	return res, nil
}

// GetBySequences fetches entries in the requested order, skipping missing ones.
func (c *ChatRepository) GetBySequences(sequences []uint64) ([]DiskChatEntry, error) {
	var res []DiskChatEntry
	err := c.db.View(func(txn *badger.Txn) error {
		for _, seq := range sequences {
			item, err := txn.Get(chatKey(seq))
			if errors.Is(err, badger.ErrKeyNotFound) {
				c.log.Debug("Indexed chat entry missing from archive", "sequence", seq)
				continue
			}
			if err != nil {
				return err
			}
			entry, err := decodeChatEntry(item)
			if err != nil {
				return err
			}
			res = append(res, entry)
		}
		return nil
	})
	return res, err
}

// Scan walks the whole archive in sequence order.
func (c *ChatRepository) Scan(fn func(DiskChatEntry) error) error {
	return c.db.View(func(txn *badger.Txn) error {
		prefix := []byte(chatPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			entry, err := decodeChatEntry(it.Item())
			if err != nil {
				return err
			}
			if err := fn(entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func decodeChatEntry(item *badger.Item) (DiskChatEntry, error) {
	var entry DiskChatEntry
	err := item.Value(func(value []byte) error {
		return json.Unmarshal(value, &entry)
	})
	if err != nil {
		return DiskChatEntry{}, fmt.Errorf("decode %s: %w", item.Key(), err)
	}
	return entry, nil
}

func FromChatEntry(entry domain.ChatEntry) DiskChatEntry {
	return DiskChatEntry{
		Sequence: entry.Sequence,
		AuthorID: string(entry.AuthorID),
		Author:   entry.Author,
		Body:     entry.Body,
		SentAt:   entry.SentAt.UTC(),
		Lang:     entry.Lang,
	}
}

func ToChatEntry(entry DiskChatEntry) domain.ChatEntry {
	return domain.ChatEntry{
		Sequence: entry.Sequence,
		AuthorID: domain.ParticipantID(entry.AuthorID),
		Author:   entry.Author,
		Body:     entry.Body,
		SentAt:   entry.SentAt,
		Lang:     entry.Lang,
	}
}
