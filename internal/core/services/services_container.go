package services

import (
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/sources"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, accounts sources.AccountMap, engineOptions ...PostingEngineOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Posting = NewPostingEngine(repos.LedgerStore, engineOptions...)
	container.Documents = NewDocumentService(container.Posting, accounts)
	container.Journal = NewJournalService(repos.JournalRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade   = (*accountService)(nil)
	_ portssvc.PostingEngine      = (*postingEngine)(nil)
	_ portssvc.DocumentPostingSvc = (*documentService)(nil)
	_ portssvc.JournalReaderSvc   = (*journalService)(nil)
	_ portssvc.ReportingService   = (*reportingService)(nil)
)
