package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_engine/internal/models"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const journalColumns = `journal_id, journal_date, description, status, source_module, source_document_id, purpose,
	original_journal_id, reversing_journal_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, journal_id, line_no, account_id, debit, credit, description, balance_after`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal reads.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalReader {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalReader = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (domain.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.JournalDate,
		&m.Description,
		&m.Status,
		&m.SourceModule,
		&m.SourceDocumentID,
		&m.Purpose,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Journal{}, err
	}
	return mapping.ToDomainJournal(m), nil
}

func collectJournals(rows pgx.Rows) ([]domain.Journal, error) {
	defer rows.Close()
	var out []domain.Journal
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}
	return out, nil
}

// loadLines fetches the lines of one journal in position order.
func loadLines(ctx context.Context, q querier, journalID string) ([]domain.JournalLine, error) {
	rows, err := q.Query(ctx, `SELECT `+lineColumns+` FROM journal_entry_lines WHERE journal_id = $1 ORDER BY line_no`, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.LineID, &l.JournalID, &l.LineNo, &l.AccountID, &l.Debit, &l.Credit, &l.Description, &l.BalanceAfter); err != nil {
			return nil, fmt.Errorf("failed to scan line for journal %s: %w", journalID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lines for journal %s: %w", journalID, err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// findJournal loads a header and its lines. suffix is appended to the header query, e.g. FOR UPDATE.
func findJournal(ctx context.Context, q querier, journalID, suffix string) (*domain.Journal, error) {
	row := q.QueryRow(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE journal_id = $1 `+suffix, journalID)
	j, err := scanJournal(row)
	if err != nil {
		return nil, mapPgError(fmt.Errorf("journal %s: %w", journalID, err), false)
	}
	j.Lines, err = loadLines(ctx, q, journalID)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// FindJournalByID retrieves a journal with its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	return findJournal(ctx, r.Pool, journalID, "")
}

// ListJournals retrieves journal headers newest first using token-based pagination.
// One extra row is fetched to decide whether a next page exists.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(string(filter.Status)))
	}
	if filter.SourceModule != "" {
		where = append(where, "source_module = "+arg(string(filter.SourceModule)))
	}
	if filter.SourceDocumentID != "" {
		where = append(where, "source_document_id = "+arg(filter.SourceDocumentID))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeJournalCursor(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		where = append(where, fmt.Sprintf("(created_at, journal_id) < (%s, %s)", arg(cursor.CreatedAt), arg(cursor.JournalID)))
	}

	query := `SELECT ` + journalColumns + ` FROM journal_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, journal_id DESC LIMIT " + arg(limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journals: %w", err)
	}
	journals, err := collectJournals(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[limit-1]
		t := pagination.EncodeJournalCursor(pagination.JournalCursor{CreatedAt: last.CreatedAt, JournalID: last.JournalID})
		token = &t
	}
	if journals == nil {
		journals = []domain.Journal{}
	}
	return journals, token, nil
}
