package boltdb

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
	bolt "go.etcd.io/bbolt"
)

type sideTotals struct {
	debit, credit domain.Money
}

// forEachCountedJournal calls fn for every POSTED or REVERSED journal.
func forEachCountedJournal(tx *bolt.Tx, fn func(j *domain.Journal)) error {
	return tx.Bucket([]byte(bucketJournals)).ForEach(func(k, v []byte) error {
		var j domain.Journal
		if err := unmarshal(k, v, &j); err != nil {
			return err
		}
		if j.Status == domain.Posted || j.Status == domain.Reversed {
			fn(&j)
		}
		return nil
	})
}

func (s *Store) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	totals := make(map[string]*sideTotals)
	var rows []domain.TrialBalanceRow
	err := s.db.View(func(tx *bolt.Tx) error {
		err := forEachCountedJournal(tx, func(j *domain.Journal) {
			if j.JournalDate.After(asOf) {
				return
			}
			for _, l := range j.Lines {
				t, ok := totals[l.AccountID]
				if !ok {
					t = &sideTotals{}
					totals[l.AccountID] = t
				}
				t.debit = t.debit.Add(l.Debit)
				t.credit = t.credit.Add(l.Credit)
			}
		})
		if err != nil {
			return err
		}

		accounts := tx.Bucket([]byte(bucketAccounts))
		for id, t := range totals {
			var acc domain.Account
			if _, err := getJSON(accounts, id, &acc); err != nil {
				return err
			}
			rows = append(rows, domain.TrialBalanceRow{
				AccountID:   id,
				AccountName: acc.Name,
				AccountType: acc.AccountType,
				Debit:       t.debit,
				Credit:      t.credit,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rows, func(a, b domain.TrialBalanceRow) int { return strings.Compare(a.AccountID, b.AccountID) })
	return rows, nil
}

func (s *Store) GetAccountTotals(ctx context.Context) ([]domain.AccountTotals, error) {
	var out []domain.AccountTotals
	err := s.db.View(func(tx *bolt.Tx) error {
		totals := make(map[string]*sideTotals)
		err := forEachCountedJournal(tx, func(j *domain.Journal) {
			for _, l := range j.Lines {
				t, ok := totals[l.AccountID]
				if !ok {
					t = &sideTotals{}
					totals[l.AccountID] = t
				}
				t.debit = t.debit.Add(l.Debit)
				t.credit = t.credit.Add(l.Credit)
			}
		})
		if err != nil {
			return err
		}

		return tx.Bucket([]byte(bucketAccounts)).ForEach(func(k, v []byte) error {
			var acc domain.Account
			if err := unmarshal(k, v, &acc); err != nil {
				return err
			}
			row := domain.AccountTotals{Account: acc, Debit: domain.ZeroMoney(), Credit: domain.ZeroMoney()}
			if t, ok := totals[acc.AccountID]; ok {
				row.Debit, row.Credit = t.debit, t.credit
			}
			out = append(out, row)
			return nil
		})
	})
	return out, err
}

func (s *Store) ListStatementLines(ctx context.Context, accountID string, dateRange domain.DateRange, limit int, nextToken *string) ([]domain.StatementLine, *string, error) {
	if limit <= 0 {
		limit = 100
	}
	prefix := []byte(accountLinePrefix(accountID))
	start := prefix
	var after []byte
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeLineCursor(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		after = accountLineKey(accountID, cursor.JournalDate, cursor.CreatedAt, cursor.LineID)
		start = after
	} else if !dateRange.From.IsZero() {
		start = []byte(string(prefix) + sortableTime(dateRange.From))
	}

	out := make([]domain.StatementLine, 0, limit)
	var token *string
	err := s.db.View(func(tx *bolt.Tx) error {
		journals := tx.Bucket([]byte(bucketJournals))
		cache := make(map[string]*domain.Journal)
		c := tx.Bucket([]byte(bucketAccountLines)).Cursor()
		for k, v := c.Seek(start); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if after != nil && bytes.Equal(k, after) {
				continue
			}
			j, ok := cache[string(v)]
			if !ok {
				j = &domain.Journal{}
				found, err := getJSON(journals, string(v), j)
				if err != nil {
					return err
				}
				if !found {
					continue
				}
				cache[string(v)] = j
			}
			if !dateRange.To.IsZero() && j.JournalDate.After(dateRange.To) {
				break
			}
			if !dateRange.Contains(j.JournalDate) {
				continue
			}
			lineID := string(k[bytes.LastIndex(k, []byte(sep))+1:])
			idx := slices.IndexFunc(j.Lines, func(l domain.JournalLine) bool { return l.LineID == lineID })
			if idx < 0 {
				continue
			}
			if len(out) == limit {
				last := out[len(out)-1]
				t := pagination.EncodeLineCursor(pagination.LineCursor{JournalDate: last.JournalDate, CreatedAt: last.CreatedAt, LineID: last.LineID})
				token = &t
				return nil
			}
			l := j.Lines[idx]
			out = append(out, domain.StatementLine{
				LineID:             l.LineID,
				JournalID:          j.JournalID,
				JournalDate:        j.JournalDate,
				JournalDescription: j.Description,
				JournalStatus:      j.Status,
				AccountID:          l.AccountID,
				Debit:              l.Debit,
				Credit:             l.Credit,
				Description:        l.Description,
				BalanceAfter:       l.BalanceAfter,
				CreatedAt:          j.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, token, nil
}
