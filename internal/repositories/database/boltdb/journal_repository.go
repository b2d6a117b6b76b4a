package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
	bolt "go.etcd.io/bbolt"
)

func (s *Store) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	var j *domain.Journal
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		j, err = findJournal(tx, journalID)
		return err
	})
	return j, err
}

// ListJournals walks the creation index backwards so the newest journals come first.
func (s *Store) ListJournals(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	var start []byte
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeJournalCursor(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		start = createdIndexKey(cursor.CreatedAt, cursor.JournalID)
	}

	out := make([]domain.Journal, 0, limit)
	var token *string
	err := s.db.View(func(tx *bolt.Tx) error {
		journals := tx.Bucket([]byte(bucketJournals))
		c := tx.Bucket([]byte(bucketJournalsCreated)).Cursor()

		var k []byte
		if start == nil {
			k, _ = c.Last()
		} else {
			k, _ = c.Seek(start)
			if k == nil {
				k, _ = c.Last()
			}
			// Step back past the cursor row itself and anything after it.
			for k != nil && bytes.Compare(k, start) >= 0 {
				k, _ = c.Prev()
			}
		}

		for ; k != nil; k, _ = c.Prev() {
			id := string(k[bytes.LastIndex(k, []byte(sep))+1:])
			var j domain.Journal
			found, err := getJSON(journals, id, &j)
			if err != nil {
				return err
			}
			if !found || !matches(filter, &j) {
				continue
			}
			if len(out) == limit {
				last := out[len(out)-1]
				t := pagination.EncodeJournalCursor(pagination.JournalCursor{CreatedAt: last.CreatedAt, JournalID: last.JournalID})
				token = &t
				return nil
			}
			j.Lines = nil
			out = append(out, j)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, token, nil
}

func matches(f domain.JournalFilter, j *domain.Journal) bool {
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	if f.SourceModule != "" && j.SourceModule != f.SourceModule {
		return false
	}
	if f.SourceDocumentID != "" && j.SourceDocumentID != f.SourceDocumentID {
		return false
	}
	return true
}

func unmarshal(k, v []byte, out any) error {
	if err := json.Unmarshal(v, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", k, err)
	}
	return nil
}
