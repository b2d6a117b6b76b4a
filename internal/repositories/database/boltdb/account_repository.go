package boltdb

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	bolt "go.etcd.io/bbolt"
)

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAccounts))
		if b.Get([]byte(account.AccountID)) != nil {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		account.Balance = domain.ZeroMoney()
		return putJSON(b, account.AccountID, account)
	})
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var acc domain.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket([]byte(bucketAccounts)), accountID, &acc)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NewNotFoundError("account " + accountID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAccounts))
		for _, id := range accountIDs {
			var acc domain.Account
			found, err := getJSON(b, id, &acc)
			if err != nil {
				return err
			}
			if found {
				accounts[id] = acc
			}
		}
		return nil
	})
	return accounts, err
}

func (s *Store) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts := []domain.Account{}
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketAccounts)).Cursor()
		skipped := 0
		for k, v := c.First(); k != nil && len(accounts) < limit; k, v = c.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			var acc domain.Account
			if err := unmarshal(k, v, &acc); err != nil {
				return err
			}
			accounts = append(accounts, acc)
		}
		return nil
	})
	return accounts, err
}

func (s *Store) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAccounts))
		var acc domain.Account
		found, err := getJSON(b, accountID, &acc)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NewNotFoundError("account " + accountID)
		}
		if !acc.IsActive {
			return apperrors.NewValidationError("account %s is already inactive", accountID)
		}
		if !acc.Balance.IsZero() {
			return apperrors.NewValidationError("account %s has a balance of %s", accountID, acc.Balance)
		}
		acc.IsActive = false
		acc.Touch(userID, now)
		return putJSON(b, accountID, acc)
	})
}
