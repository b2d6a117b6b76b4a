package mapping

import (
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/models"
)

// ToModelJournal converts a domain Journal header to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:          d.JournalID,
		JournalDate:        d.JournalDate,
		Description:        d.Description,
		Status:             string(d.Status),
		SourceModule:       string(d.SourceModule),
		SourceDocumentID:   d.SourceDocumentID,
		Purpose:            d.Purpose,
		OriginalJournalID:  d.OriginalJournalID,
		ReversingJournalID: d.ReversingJournalID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal without lines
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:          m.JournalID,
		JournalDate:        m.JournalDate.UTC(),
		Description:        m.Description,
		Status:             domain.JournalStatus(m.Status),
		SourceModule:       domain.SourceModule(m.SourceModule),
		SourceDocumentID:   m.SourceDocumentID,
		Purpose:            m.Purpose,
		OriginalJournalID:  m.OriginalJournalID,
		ReversingJournalID: m.ReversingJournalID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		JournalID:    d.JournalID,
		LineNo:       d.LineNo,
		AccountID:    d.AccountID,
		Debit:        d.Debit.Decimal(),
		Credit:       d.Credit.Decimal(),
		Description:  d.Description,
		BalanceAfter: d.BalanceAfter.Decimal(),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:       m.LineID,
		JournalID:    m.JournalID,
		LineNo:       m.LineNo,
		AccountID:    m.AccountID,
		Debit:        ToMoney(m.Debit),
		Credit:       ToMoney(m.Credit),
		Description:  m.Description,
		BalanceAfter: ToMoney(m.BalanceAfter),
	}
}

// ToDomainJournalLineSlice converts a slice of model lines to domain lines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
