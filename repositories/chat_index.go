package repositories

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/blugelabs/bluge"
)

const (
	bodyField   = "body"
	authorField = "author"
	langField   = "lang"
)

// ChatIndex is the full-text index over archived chat bodies.
// Documents are keyed by the entry sequence.
type ChatIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewChatIndex(writer *bluge.Writer, log *slog.Logger) *ChatIndex {
	return &ChatIndex{writer: writer, log: log}
}

func (i *ChatIndex) Index(entry DiskChatEntry) error {
	doc := bluge.NewDocument(strconv.FormatUint(entry.Sequence, 10)).
		AddField(bluge.NewTextField(bodyField, entry.Body)).
		AddField(bluge.NewKeywordField(authorField, entry.Author).StoreValue())
	if entry.Lang != "" {
		doc.AddField(bluge.NewKeywordField(langField, entry.Lang).StoreValue())
	}
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the sequences of the best matching entries, best first.
func (i *ChatIndex) Search(ctx context.Context, query string, limit int) ([]uint64, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Debug("Unable to close index reader", "error", err)
		}
	}()

	request := bluge.NewTopNSearch(limit, bluge.NewMatchQuery(query).SetField(bodyField))
	dmi, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var res []uint64
	match, err := dmi.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				if seq, parseErr := strconv.ParseUint(string(value), 10, 64); parseErr == nil {
					res = append(res, seq)
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		match, err = dmi.Next()
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
