package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
)

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID       string       `json:"lineID"`
	LineNo       int          `json:"lineNo"`
	AccountID    string       `json:"accountID"`
	Debit        domain.Money `json:"debit"`
	Credit       domain.Money `json:"credit"`
	Description  string       `json:"description"`
	BalanceAfter domain.Money `json:"balanceAfter"` // balance at posting time
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID          string                `json:"journalID"`
	Date               time.Time             `json:"date"`
	Description        string                `json:"description"`
	Status             domain.JournalStatus  `json:"status"`
	SourceModule       domain.SourceModule   `json:"sourceModule"`
	SourceDocumentID   string                `json:"sourceDocumentID"`
	Purpose            string                `json:"purpose"`
	OriginalJournalID  *string               `json:"originalJournalID,omitempty"`
	ReversingJournalID *string               `json:"reversingJournalID,omitempty"`
	TotalDebit         domain.Money          `json:"totalDebit"`
	TotalCredit        domain.Money          `json:"totalCredit"`
	Lines              []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	CreatedBy          string                `json:"createdBy"`
	LastUpdatedAt      time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy      string                `json:"lastUpdatedBy"`
}

// ListJournalsParams defines the query parameters for listing journals.
type ListJournalsParams struct {
	Limit            int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken        *string `form:"nextToken"`
	Status           string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	SourceModule     string  `form:"sourceModule"`
	SourceDocumentID string  `form:"sourceDocumentID"`
}

// Filter converts the query parameters to a domain filter.
func (p ListJournalsParams) Filter() domain.JournalFilter {
	return domain.JournalFilter{
		Status:           domain.JournalStatus(p.Status),
		SourceModule:     domain.SourceModule(p.SourceModule),
		SourceDocumentID: p.SourceDocumentID,
	}
}

// ListJournalsResponse wraps a page of journals and the token for the next page.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// UnpostResponse pairs the reversal entry with the new draft.
type UnpostResponse struct {
	Reversal JournalResponse `json:"reversal"`
	Draft    JournalResponse `json:"draft"`
}

// ToJournalLineResponse converts a domain.JournalLine to JournalLineResponse DTO.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:       l.LineID,
		LineNo:       l.LineNo,
		AccountID:    l.AccountID,
		Debit:        l.Debit,
		Credit:       l.Credit,
		Description:  l.Description,
		BalanceAfter: l.BalanceAfter,
	}
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	debit, credit := j.Totals()
	resp := JournalResponse{
		JournalID:          j.JournalID,
		Date:               j.JournalDate,
		Description:        j.Description,
		Status:             j.Status,
		SourceModule:       j.SourceModule,
		SourceDocumentID:   j.SourceDocumentID,
		Purpose:            j.Purpose,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		TotalDebit:         debit,
		TotalCredit:        credit,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
		LastUpdatedAt:      j.LastUpdatedAt,
		LastUpdatedBy:      j.LastUpdatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i, l := range j.Lines {
			resp.Lines[i] = ToJournalLineResponse(l)
		}
	}
	return resp
}

// ToUnpostResponse converts a domain.UnpostResult to UnpostResponse DTO.
func ToUnpostResponse(r *domain.UnpostResult) UnpostResponse {
	return UnpostResponse{
		Reversal: ToJournalResponse(r.Reversal),
		Draft:    ToJournalResponse(r.Draft),
	}
}
