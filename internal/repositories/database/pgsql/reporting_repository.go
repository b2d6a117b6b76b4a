package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_posting_engine/internal/models"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// countedStatuses are the statuses whose lines make up balances. A reversed entry stays on
// the books next to the reversal that cancels it.
const countedStatuses = `('POSTED', 'REVERSED')`

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetTrialBalanceData retrieves trial balance data as of a specific date
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.name AS account_name,
			a.account_type,
			SUM(l.debit) AS total_debit,
			SUM(l.credit) AS total_credit
		FROM journal_entry_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries j ON l.journal_id = j.journal_id
		WHERE j.journal_date <= $1
			AND j.status IN ` + countedStatuses + `
		GROUP BY a.account_id, a.name, a.account_type
		ORDER BY a.account_id
	`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		var debit, credit decimal.Decimal

		if err := rows.Scan(
			&row.AccountID,
			&row.AccountName,
			&accountType,
			&debit,
			&credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		row.Debit = mapping.ToMoney(debit)
		row.Credit = mapping.ToMoney(credit)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	if len(result) == 0 {
		// Return empty slice instead of nil
		return []domain.TrialBalanceRow{}, nil
	}

	return result, nil
}

// GetAccountTotals retrieves every account with the all-time totals of its counted lines.
func (r *reportingRepository) GetAccountTotals(ctx context.Context) ([]domain.AccountTotals, error) {
	query := `
		SELECT
			a.account_id, a.name, a.account_type, a.parent_account_id, a.description, a.is_active, a.balance,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
			COALESCE(t.total_debit, 0), COALESCE(t.total_credit, 0)
		FROM accounts a
		LEFT JOIN (
			SELECT l.account_id, SUM(l.debit) AS total_debit, SUM(l.credit) AS total_credit
			FROM journal_entry_lines l
			JOIN journal_entries j ON l.journal_id = j.journal_id
			WHERE j.status IN ` + countedStatuses + `
			GROUP BY l.account_id
		) t ON t.account_id = a.account_id
		ORDER BY a.account_id
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying account totals: %w", err)
	}
	defer rows.Close()

	var result []domain.AccountTotals
	for rows.Next() {
		var m models.Account
		var debit, credit decimal.Decimal
		if err := rows.Scan(
			&m.AccountID, &m.Name, &m.AccountType, &m.ParentAccountID, &m.Description, &m.IsActive, &m.Balance,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
			&debit, &credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning account totals row: %w", err)
		}
		result = append(result, domain.AccountTotals{
			Account: mapping.ToDomainAccount(m),
			Debit:   mapping.ToMoney(debit),
			Credit:  mapping.ToMoney(credit),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account totals rows: %w", err)
	}
	return result, nil
}

// ListStatementLines retrieves one page of an account's counted lines ordered by
// (journal_date, created_at, line_id), fetching one extra row to detect a next page.
func (r *reportingRepository) ListStatementLines(ctx context.Context, accountID string, dateRange domain.DateRange, limit int, nextToken *string) ([]domain.StatementLine, *string, error) {
	if limit <= 0 {
		limit = 100
	}

	args := []any{accountID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	where := []string{"l.account_id = $1", "j.status IN " + countedStatuses}
	if !dateRange.From.IsZero() {
		where = append(where, "j.journal_date >= "+arg(dateRange.From))
	}
	if !dateRange.To.IsZero() {
		where = append(where, "j.journal_date <= "+arg(dateRange.To))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeLineCursor(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		where = append(where, fmt.Sprintf("(j.journal_date, j.created_at, l.line_id) > (%s, %s, %s)",
			arg(cursor.JournalDate), arg(cursor.CreatedAt), arg(cursor.LineID)))
	}

	query := `
		SELECT l.line_id, l.journal_id, j.journal_date, j.description, j.status, l.account_id,
		       l.debit, l.credit, l.description, l.balance_after, j.created_at
		FROM journal_entry_lines l
		JOIN journal_entries j ON l.journal_id = j.journal_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY j.journal_date, j.created_at, l.line_id
		LIMIT ` + arg(limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query statement for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := make([]domain.StatementLine, 0, limit)
	for rows.Next() {
		var l domain.StatementLine
		var status string
		var debit, credit, balance decimal.Decimal
		if err := rows.Scan(&l.LineID, &l.JournalID, &l.JournalDate, &l.JournalDescription, &status, &l.AccountID,
			&debit, &credit, &l.Description, &balance, &l.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan statement line: %w", err)
		}
		l.JournalStatus = domain.JournalStatus(status)
		l.Debit, l.Credit, l.BalanceAfter = mapping.ToMoney(debit), mapping.ToMoney(credit), mapping.ToMoney(balance)
		l.JournalDate, l.CreatedAt = l.JournalDate.UTC(), l.CreatedAt.UTC()
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating statement lines: %w", err)
	}

	var token *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[limit-1]
		t := pagination.EncodeLineCursor(pagination.LineCursor{JournalDate: last.JournalDate, CreatedAt: last.CreatedAt, LineID: last.LineID})
		token = &t
	}
	return lines, token, nil
}
