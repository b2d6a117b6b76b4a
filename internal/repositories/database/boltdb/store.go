// Package boltdb implements the ledger ports on an embedded bbolt file. bbolt allows a
// single writer at a time, so every WithinTx call is serializable and account locking
// needs no extra bookkeeping.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	bolt "go.etcd.io/bbolt"
)

// Bucket names.
const (
	bucketAccounts        = "accounts"
	bucketJournals        = "journals"
	bucketJournalsByKey   = "journals_by_key"
	bucketJournalsCreated = "journals_by_created"
	bucketPostedKeys      = "posted_keys"
	bucketAccountLines    = "account_lines"
)

var allBuckets = []string{
	bucketAccounts,
	bucketJournals,
	bucketJournalsByKey,
	bucketJournalsCreated,
	bucketPostedKeys,
	bucketAccountLines,
}

const (
	sep        = "\x1f"
	sortFormat = "20060102T150405.000000000Z"
)

// Store is the bbolt-backed ledger. It implements LedgerStore and the read repositories.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database file at path and initializes buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Provider returns the store wired as every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerStore:   s,
		AccountRepo:   s,
		JournalRepo:   s,
		ReportingRepo: s,
	}
}

// WithinTx runs fn inside one read-write transaction. A cancelled context rolls back
// even when fn succeeded.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(btx *bolt.Tx) error {
		if err := fn(ctx, &ledgerTx{tx: btx}); err != nil {
			return err
		}
		return ctx.Err()
	})
}

var (
	_ portsrepo.LedgerStore             = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalReader           = (*Store)(nil)
	_ portsrepo.ReportingRepository     = (*Store)(nil)
)

func sortableTime(t time.Time) string {
	return t.UTC().Format(sortFormat)
}

func idempotencyPrefix(k domain.IdempotencyKey) string {
	return strings.Join([]string{string(k.SourceModule), k.SourceDocumentID, k.Purpose}, sep) + "\x1e"
}

func keyIndexKey(j *domain.Journal) []byte {
	return []byte(idempotencyPrefix(j.Key()) + sortableTime(j.CreatedAt) + sep + j.JournalID)
}

func createdIndexKey(createdAt time.Time, journalID string) []byte {
	return []byte(sortableTime(createdAt) + sep + journalID)
}

func accountLinePrefix(accountID string) string {
	return accountID + "\x1e"
}

func accountLineKey(accountID string, journalDate, createdAt time.Time, lineID string) []byte {
	return []byte(accountLinePrefix(accountID) + sortableTime(journalDate) + sep + sortableTime(createdAt) + sep + lineID)
}

func getJSON(b *bolt.Bucket, key string, v any) (bool, error) {
	data := b.Get([]byte(key))
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func putJSON(b *bolt.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return b.Put([]byte(key), data)
}
