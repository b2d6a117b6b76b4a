package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerStore runs posting units of work in one Postgres transaction. Rows are locked with
// SELECT ... FOR UPDATE, accounts always in id order, so concurrent postings serialize per account.
type PgxLedgerStore struct {
	BaseRepository
}

func newPgxLedgerStore(pool *pgxpool.Pool) portsrepo.LedgerStore {
	return &PgxLedgerStore{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerStore = (*PgxLedgerStore)(nil)

// WithinTx commits when fn returns nil and the context is still live; otherwise it rolls back.
func (s *PgxLedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return mapPgError(err, false)
	}
	defer s.Rollback(ctx, tx) // no-op after a successful commit

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

// pgxLedgerTx is the LedgerTx of one Postgres transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

func (t *pgxLedgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	rows, err := t.tx.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE`, accountIDs)
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to lock accounts: %w", err), false)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, mapPgError(err, false)
	}

	locked := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		locked[acc.AccountID] = acc
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
		}
	}
	return locked, nil
}

func (t *pgxLedgerTx) ApplyDelta(ctx context.Context, accountID string, delta domain.Money, actor string, at time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`, accountID, delta.Decimal(), at, actor)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to update balance of account %s: %w", accountID, err), false)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
	}
	return nil
}

func (t *pgxLedgerTx) FindJournalForUpdate(ctx context.Context, journalID string) (*domain.Journal, error) {
	return findJournal(ctx, t.tx, journalID, "FOR UPDATE")
}

func (t *pgxLedgerTx) FindJournalsByKeyForUpdate(ctx context.Context, key domain.IdempotencyKey) ([]domain.Journal, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+journalColumns+`
		FROM journal_entries
		WHERE source_module = $1 AND source_document_id = $2 AND purpose = $3
		ORDER BY created_at, journal_id
		FOR UPDATE;
	`, string(key.SourceModule), key.SourceDocumentID, key.Purpose)
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to query journals for %s: %w", key, err), false)
	}
	journals, err := collectJournals(rows)
	if err != nil {
		return nil, mapPgError(err, false)
	}
	return journals, nil
}

func (t *pgxLedgerTx) InsertJournal(ctx context.Context, journal domain.Journal) error {
	posted := journal.Status == domain.Posted
	m := mapping.ToModelJournal(journal)
	_, err := t.tx.Exec(ctx, `
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`,
		m.JournalID,
		m.JournalDate,
		m.Description,
		m.Status,
		m.SourceModule,
		m.SourceDocumentID,
		m.Purpose,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to insert journal %s: %w", journal.JournalID, err), posted)
	}

	batch := &pgx.Batch{}
	for _, line := range journal.Lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(`
			INSERT INTO journal_entry_lines (`+lineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, l.LineID, l.JournalID, l.LineNo, l.AccountID, l.Debit, l.Credit, l.Description, l.BalanceAfter)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(fmt.Errorf("failed to insert lines of journal %s: %w", journal.JournalID, err), false)
	}
	return nil
}

func (t *pgxLedgerTx) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, actor string, at time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2,
			reversing_journal_id = COALESCE($3, reversing_journal_id),
			last_updated_at = $4,
			last_updated_by = $5
		WHERE journal_id = $1;
	`, journalID, string(status), reversingJournalID, at, actor)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to update status of journal %s: %w", journalID, err), status == domain.Posted)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID)
	}
	return nil
}

func (t *pgxLedgerTx) UpdateLineBalances(ctx context.Context, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`UPDATE journal_entry_lines SET balance_after = $2 WHERE line_id = $1;`, l.LineID, l.BalanceAfter.Decimal())
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(fmt.Errorf("failed to update line balances: %w", err), false)
	}
	return nil
}

// DeleteJournal removes the header; lines go with it through ON DELETE CASCADE.
func (t *pgxLedgerTx) DeleteJournal(ctx context.Context, journalID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM journal_entries WHERE journal_id = $1;`, journalID)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to delete journal %s: %w", journalID, err), false)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID)
	}
	return nil
}
