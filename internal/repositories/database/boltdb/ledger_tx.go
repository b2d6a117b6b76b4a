package boltdb

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	bolt "go.etcd.io/bbolt"
)

// ledgerTx is the LedgerTx of one bbolt read-write transaction.
type ledgerTx struct {
	tx *bolt.Tx
}

func (t *ledgerTx) bucket(name string) *bolt.Bucket {
	return t.tx.Bucket([]byte(name))
}

func (t *ledgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	b := t.bucket(bucketAccounts)
	accounts := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		var acc domain.Account
		found, err := getJSON(b, id, &acc)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
		}
		accounts[id] = acc
	}
	return accounts, nil
}

func (t *ledgerTx) ApplyDelta(ctx context.Context, accountID string, delta domain.Money, actor string, at time.Time) error {
	b := t.bucket(bucketAccounts)
	var acc domain.Account
	found, err := getJSON(b, accountID, &acc)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	acc.Balance = acc.Balance.Add(delta)
	acc.Touch(actor, at)
	return putJSON(b, accountID, acc)
}

func (t *ledgerTx) FindJournalForUpdate(ctx context.Context, journalID string) (*domain.Journal, error) {
	return findJournal(t.tx, journalID)
}

func (t *ledgerTx) FindJournalsByKeyForUpdate(ctx context.Context, key domain.IdempotencyKey) ([]domain.Journal, error) {
	prefix := []byte(idempotencyPrefix(key))
	journals := t.bucket(bucketJournals)
	var out []domain.Journal
	c := t.bucket(bucketJournalsByKey).Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		id := string(k[bytes.LastIndex(k, []byte(sep))+1:])
		var j domain.Journal
		found, err := getJSON(journals, id, &j)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		j.Lines = nil
		out = append(out, j)
	}
	return out, nil
}

func (t *ledgerTx) InsertJournal(ctx context.Context, journal domain.Journal) error {
	journals := t.bucket(bucketJournals)
	if journals.Get([]byte(journal.JournalID)) != nil {
		if journal.Status == domain.Posted {
			return fmt.Errorf("%w: journal %s already exists", apperrors.ErrDuplicatePosting, journal.JournalID)
		}
		return fmt.Errorf("%w: journal %s", apperrors.ErrDuplicate, journal.JournalID)
	}
	if journal.Status == domain.Posted {
		if err := t.markPosted(&journal); err != nil {
			return err
		}
	}
	if err := t.bucket(bucketJournalsByKey).Put(keyIndexKey(&journal), nil); err != nil {
		return err
	}
	if err := t.bucket(bucketJournalsCreated).Put(createdIndexKey(journal.CreatedAt, journal.JournalID), nil); err != nil {
		return err
	}
	return putJSON(journals, journal.JournalID, journal)
}

func (t *ledgerTx) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, actor string, at time.Time) error {
	j, err := findJournal(t.tx, journalID)
	if err != nil {
		return err
	}
	switch {
	case status == domain.Posted && j.Status != domain.Posted:
		if err := t.markPosted(j); err != nil {
			return err
		}
	case j.Status == domain.Posted && status != domain.Posted:
		if err := t.bucket(bucketPostedKeys).Delete([]byte(idempotencyPrefix(j.Key()))); err != nil {
			return err
		}
	}
	j.Status = status
	if reversingJournalID != nil {
		j.ReversingJournalID = reversingJournalID
	}
	j.Touch(actor, at)
	return putJSON(t.bucket(bucketJournals), journalID, j)
}

func (t *ledgerTx) UpdateLineBalances(ctx context.Context, lines []domain.JournalLine) error {
	byJournal := make(map[string]map[string]domain.Money)
	for _, l := range lines {
		if byJournal[l.JournalID] == nil {
			byJournal[l.JournalID] = make(map[string]domain.Money)
		}
		byJournal[l.JournalID][l.LineID] = l.BalanceAfter
	}
	for journalID, balances := range byJournal {
		j, err := findJournal(t.tx, journalID)
		if err != nil {
			return err
		}
		for i := range j.Lines {
			if b, ok := balances[j.Lines[i].LineID]; ok {
				j.Lines[i].BalanceAfter = b
			}
		}
		if err := putJSON(t.bucket(bucketJournals), journalID, j); err != nil {
			return err
		}
	}
	return nil
}

func (t *ledgerTx) DeleteJournal(ctx context.Context, journalID string) error {
	j, err := findJournal(t.tx, journalID)
	if err != nil {
		return err
	}
	if j.Status == domain.Posted {
		if err := t.bucket(bucketPostedKeys).Delete([]byte(idempotencyPrefix(j.Key()))); err != nil {
			return err
		}
	}
	if j.Status != domain.Draft {
		lines := t.bucket(bucketAccountLines)
		for _, l := range j.Lines {
			if err := lines.Delete(accountLineKey(l.AccountID, j.JournalDate, j.CreatedAt, l.LineID)); err != nil {
				return err
			}
		}
	}
	if err := t.bucket(bucketJournalsByKey).Delete(keyIndexKey(j)); err != nil {
		return err
	}
	if err := t.bucket(bucketJournalsCreated).Delete(createdIndexKey(j.CreatedAt, j.JournalID)); err != nil {
		return err
	}
	return t.bucket(bucketJournals).Delete([]byte(journalID))
}

// markPosted claims the idempotency key for j and indexes its lines per account.
// It is the bbolt counterpart of the partial unique index on posted entries.
func (t *ledgerTx) markPosted(j *domain.Journal) error {
	posted := t.bucket(bucketPostedKeys)
	key := []byte(idempotencyPrefix(j.Key()))
	if owner := posted.Get(key); owner != nil && string(owner) != j.JournalID {
		return fmt.Errorf("%w: %s already posted as %s", apperrors.ErrDuplicatePosting, j.Key(), owner)
	}
	if err := posted.Put(key, []byte(j.JournalID)); err != nil {
		return err
	}
	lines := t.bucket(bucketAccountLines)
	for _, l := range j.Lines {
		if err := lines.Put(accountLineKey(l.AccountID, j.JournalDate, j.CreatedAt, l.LineID), []byte(j.JournalID)); err != nil {
			return err
		}
	}
	return nil
}

func findJournal(tx *bolt.Tx, journalID string) (*domain.Journal, error) {
	var j domain.Journal
	found, err := getJSON(tx.Bucket([]byte(bucketJournals)), journalID, &j)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFoundError("journal " + journalID)
	}
	return &j, nil
}
