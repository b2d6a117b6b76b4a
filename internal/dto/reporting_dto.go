package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// endOfDay returns the last instant of the UTC day of t, so a date bound includes
// every entry dated that day.
func endOfDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour).Add(24*time.Hour - time.Nanosecond)
}

func parseDate(name, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("%s must be a date in YYYY-MM-DD format, got %q", name, value)
	}
	return t, nil
}

// TrialBalanceParams defines the query parameters of the trial balance report.
type TrialBalanceParams struct {
	AsOf string `form:"asOf"` // YYYY-MM-DD, defaults to today
}

// AsOfDate returns the end of the requested day, or of today when asOf is empty.
func (p TrialBalanceParams) AsOfDate() (time.Time, error) {
	if p.AsOf == "" {
		return endOfDay(time.Now()), nil
	}
	t, err := parseDate("asOf", p.AsOf)
	if err != nil {
		return time.Time{}, err
	}
	return endOfDay(t), nil
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string       `json:"accountID"`
	AccountName string       `json:"accountName"`
	AccountType string       `json:"accountType"`
	Debit       domain.Money `json:"debit"`
	Credit      domain.Money `json:"credit"`
	Balance     domain.Money `json:"balance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  domain.Money `json:"debit"`
		Credit domain.Money `json:"credit"`
	} `json:"totals"`
	Balanced bool `json:"balanced"`
}

// StatementParams defines the query parameters of an account statement.
type StatementParams struct {
	From      string  `form:"from"` // YYYY-MM-DD, inclusive
	To        string  `form:"to"`   // YYYY-MM-DD, inclusive
	Limit     int     `form:"limit,default=100" binding:"min=1,max=1000"`
	NextToken *string `form:"nextToken"`
}

// DateRange converts the from and to dates to an inclusive range. Empty sides stay open.
func (p StatementParams) DateRange() (domain.DateRange, error) {
	var r domain.DateRange
	if p.From != "" {
		from, err := parseDate("from", p.From)
		if err != nil {
			return r, err
		}
		r.From = from
	}
	if p.To != "" {
		to, err := parseDate("to", p.To)
		if err != nil {
			return r, err
		}
		r.To = endOfDay(to)
	}
	return r, nil
}

// StatementLineResponse is one line of an account statement.
type StatementLineResponse struct {
	LineID       string               `json:"lineID"`
	JournalID    string               `json:"journalID"`
	JournalDate  time.Time            `json:"journalDate"`
	Status       domain.JournalStatus `json:"status"`
	Description  string               `json:"description"`
	Debit        domain.Money         `json:"debit"`
	Credit       domain.Money         `json:"credit"`
	BalanceAfter domain.Money         `json:"balanceAfter"` // balance at posting time
}

// StatementResponse is one page of an account statement.
type StatementResponse struct {
	AccountID string                  `json:"accountID"`
	Lines     []StatementLineResponse `json:"lines"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// VerificationResponse reports whether cached balances match the journal.
type VerificationResponse struct {
	CheckedAt       time.Time                   `json:"checkedAt"`
	AccountsChecked int                         `json:"accountsChecked"`
	Consistent      bool                        `json:"consistent"`
	Imbalance       domain.Money                `json:"imbalance"`
	Discrepancies   []domain.BalanceDiscrepancy `json:"discrepancies"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:     tb.AsOf.Format("2006-01-02"),
		Rows:     make([]TrialBalanceRowResponse, len(tb.Rows)),
		Balanced: tb.Balanced(),
	}
	for i, row := range tb.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
			Balance:     row.Balance(),
		}
	}
	response.Totals.Debit = tb.TotalDebit
	response.Totals.Credit = tb.TotalCredit
	return response
}

// ToStatementResponse converts a page of statement lines to a DTO response.
func ToStatementResponse(accountID string, lines []domain.StatementLine, nextToken *string) StatementResponse {
	resp := StatementResponse{
		AccountID: accountID,
		Lines:     make([]StatementLineResponse, len(lines)),
		NextToken: nextToken,
	}
	for i, l := range lines {
		description := l.Description
		if description == "" {
			description = l.JournalDescription
		}
		resp.Lines[i] = StatementLineResponse{
			LineID:       l.LineID,
			JournalID:    l.JournalID,
			JournalDate:  l.JournalDate,
			Status:       l.JournalStatus,
			Description:  description,
			Debit:        l.Debit,
			Credit:       l.Credit,
			BalanceAfter: l.BalanceAfter,
		}
	}
	return resp
}

// ToVerificationResponse converts a ledger verification to a DTO response.
func ToVerificationResponse(v *domain.LedgerVerification) VerificationResponse {
	discrepancies := v.Discrepancies
	if discrepancies == nil {
		discrepancies = []domain.BalanceDiscrepancy{}
	}
	return VerificationResponse{
		CheckedAt:       v.CheckedAt,
		AccountsChecked: v.AccountsChecked,
		Consistent:      v.Consistent(),
		Imbalance:       v.Imbalance,
		Discrepancies:   discrepancies,
	}
}
