package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/events"
	"github.com/SscSPs/ledger_posting_engine/internal/metrics"
	"github.com/SscSPs/ledger_posting_engine/internal/utils/accounting"
)

// Operation labels used for metrics and logs.
const (
	opPost        = "post"
	opCreateDraft = "create_draft"
	opPostDraft   = "post_draft"
	opDeleteDraft = "delete_draft"
	opReverse     = "reverse"
	opUnpost      = "unpost"
)

// postingEngine is the only component that writes account balances.
type postingEngine struct {
	BaseService
	store     portsrepo.LedgerStore
	publisher events.Publisher
	recorder  metrics.PostingRecorder
	now       func() time.Time
}

// PostingEngineOption is a functional option for configuring the posting engine
type PostingEngineOption func(*postingEngine)

// WithEventPublisher sets where committed changes are announced.
func WithEventPublisher(p events.Publisher) PostingEngineOption {
	return func(e *postingEngine) {
		e.publisher = p
	}
}

// WithPostingMetrics sets the recorder for operation counts and latency.
func WithPostingMetrics(r metrics.PostingRecorder) PostingEngineOption {
	return func(e *postingEngine) {
		e.recorder = r
	}
}

// WithClock overrides the time source used for audit fields and reversal dates.
func WithClock(now func() time.Time) PostingEngineOption {
	return func(e *postingEngine) {
		e.now = now
	}
}

// NewPostingEngine creates a posting engine over an already-open ledger store.
func NewPostingEngine(store portsrepo.LedgerStore, options ...PostingEngineOption) portssvc.PostingEngine {
	e := &postingEngine{
		store:     store,
		publisher: events.NoopPublisher{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(e)
	}
	return e
}

var _ portssvc.PostingEngine = (*postingEngine)(nil)

func (e *postingEngine) Post(ctx context.Context, entry *domain.Journal, userID string) (result *domain.Journal, err error) {
	defer e.observe(opPost, time.Now(), &err)

	if err := e.checkCandidate(entry); err != nil {
		return nil, err
	}
	now := e.now()

	var posted domain.Journal
	err = e.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.FindJournalsByKeyForUpdate(ctx, entry.Key())
		if err != nil {
			return err
		}
		if dup := findPosted(existing); dup != nil {
			return fmt.Errorf("%w: %s already posted as %s", apperrors.ErrDuplicatePosting, entry.Key(), dup.JournalID)
		}

		candidate := cloneJournal(entry)
		id := availableID(entry.Key(), entry.JournalID, existing)
		if isDraftID(existing, id) {
			if err := tx.DeleteJournal(ctx, id); err != nil {
				return err
			}
		}
		rekey(&candidate, id)
		candidate.AuditFields = domain.NewAuditFields(userID, now)

		if err := e.applyPosting(ctx, tx, &candidate, userID, now); err != nil {
			return err
		}
		posted = candidate
		return nil
	})
	if err != nil {
		return nil, e.classify(ctx, opPost, err)
	}

	e.LogInfo(ctx, "Journal posted",
		slog.String("journal_id", posted.JournalID),
		slog.String("idempotency_key", posted.Key().String()))
	e.publish(ctx, events.NewLedgerEvent(events.JournalPosted, &posted, userID, now))
	return &posted, nil
}

func (e *postingEngine) CreateDraft(ctx context.Context, entry *domain.Journal, userID string) (result *domain.Journal, err error) {
	defer e.observe(opCreateDraft, time.Now(), &err)

	if err := e.checkCandidate(entry); err != nil {
		return nil, err
	}
	now := e.now()

	var draft domain.Journal
	err = e.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.FindJournalsByKeyForUpdate(ctx, entry.Key())
		if err != nil {
			return err
		}
		if dup := findPosted(existing); dup != nil {
			return fmt.Errorf("%w: %s already posted as %s", apperrors.ErrDuplicatePosting, entry.Key(), dup.JournalID)
		}

		id := availableID(entry.Key(), entry.JournalID, existing)
		if isDraftID(existing, id) {
			return fmt.Errorf("%w: draft %s already exists for %s", apperrors.ErrDuplicate, id, entry.Key())
		}

		draft = cloneJournal(entry)
		rekey(&draft, id)
		draft.Status = domain.Draft
		draft.AuditFields = domain.NewAuditFields(userID, now)
		for i := range draft.Lines {
			draft.Lines[i].BalanceAfter = domain.ZeroMoney()
		}
		return tx.InsertJournal(ctx, draft)
	})
	if err != nil {
		return nil, e.classify(ctx, opCreateDraft, err)
	}

	e.LogInfo(ctx, "Draft journal created", slog.String("journal_id", draft.JournalID))
	return &draft, nil
}

func (e *postingEngine) PostDraft(ctx context.Context, journalID string, userID string) (result *domain.Journal, err error) {
	defer e.observe(opPostDraft, time.Now(), &err)
	now := e.now()

	var posted domain.Journal
	err = e.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		draft, err := tx.FindJournalForUpdate(ctx, journalID)
		if err != nil {
			return err
		}
		if err := draft.Status.ValidateTransition(domain.Posted); err != nil {
			return fmt.Errorf("journal %s: %w", journalID, err)
		}
		if err := draft.Validate(); err != nil {
			return err
		}

		existing, err := tx.FindJournalsByKeyForUpdate(ctx, draft.Key())
		if err != nil {
			return err
		}
		if dup := findPosted(existing); dup != nil {
			return fmt.Errorf("%w: %s already posted as %s", apperrors.ErrDuplicatePosting, draft.Key(), dup.JournalID)
		}

		accounts, err := e.lockAccounts(ctx, tx, draft)
		if err != nil {
			return err
		}
		if err := accounting.ApplyRunningBalances(draft.Lines, accounts); err != nil {
			return err
		}
		if err := tx.UpdateLineBalances(ctx, draft.Lines); err != nil {
			return err
		}
		if err := tx.UpdateJournalStatusAndLinks(ctx, draft.JournalID, domain.Posted, nil, userID, now); err != nil {
			return err
		}
		if err := e.applyDeltas(ctx, tx, draft, accounts, userID, now); err != nil {
			return err
		}

		draft.Status = domain.Posted
		draft.Touch(userID, now)
		posted = *draft
		return nil
	})
	if err != nil {
		return nil, e.classify(ctx, opPostDraft, err)
	}

	e.LogInfo(ctx, "Draft journal posted", slog.String("journal_id", posted.JournalID))
	e.publish(ctx, events.NewLedgerEvent(events.JournalPosted, &posted, userID, now))
	return &posted, nil
}

func (e *postingEngine) DeleteDraft(ctx context.Context, journalID string, userID string) (err error) {
	defer e.observe(opDeleteDraft, time.Now(), &err)
	now := e.now()

	var deleted domain.Journal
	err = e.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		j, err := tx.FindJournalForUpdate(ctx, journalID)
		if err != nil {
			return err
		}
		if !j.Status.CanDelete() {
			return fmt.Errorf("%w: journal %s is %s, only drafts can be deleted", apperrors.ErrInvalidStateTransition, journalID, j.Status)
		}
		deleted = *j
		return tx.DeleteJournal(ctx, journalID)
	})
	if err != nil {
		return e.classify(ctx, opDeleteDraft, err)
	}

	e.LogInfo(ctx, "Draft journal deleted", slog.String("journal_id", journalID), slog.String("user_id", userID))
	e.publish(ctx, events.NewLedgerEvent(events.JournalDraftDeleted, &deleted, userID, now))
	return nil
}

func (e *postingEngine) Reverse(ctx context.Context, journalID string, userID string) (result *domain.Journal, err error) {
	defer e.observe(opReverse, time.Now(), &err)
	now := e.now()

	var reversal domain.Journal
	err = e.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		rev, err := e.reverseWithinTx(ctx, tx, journalID, userID, now)
		if err != nil {
			return err
		}
		reversal = *rev
		return nil
	})
	if err != nil {
		return nil, e.classify(ctx, opReverse, err)
	}

	e.LogInfo(ctx, "Journal reversed",
		slog.String("journal_id", journalID),
		slog.String("reversal_id", reversal.JournalID))
	ev := events.NewLedgerEvent(events.JournalReversed, &reversal, userID, now)
	ev.JournalID, ev.RelatedJournalID, ev.Status = journalID, reversal.JournalID, domain.Reversed
	e.publish(ctx, ev)
	return &reversal, nil
}

func (e *postingEngine) Unpost(ctx context.Context, journalID string, userID string) (result *domain.UnpostResult, err error) {
	defer e.observe(opUnpost, time.Now(), &err)
	now := e.now()

	var out domain.UnpostResult
	err = e.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		original, err := tx.FindJournalForUpdate(ctx, journalID)
		if err != nil {
			return err
		}
		if !original.SourceModule.AllowsUnpost() {
			return fmt.Errorf("%w: %s entries cannot be un-posted, reverse them instead", apperrors.ErrInvalidStateTransition, original.SourceModule)
		}

		reversal, err := e.reverseWithinTx(ctx, tx, journalID, userID, now)
		if err != nil {
			return err
		}

		existing, err := tx.FindJournalsByKeyForUpdate(ctx, original.Key())
		if err != nil {
			return err
		}
		draft := original.Redraft(nextRevisionID(original.Key(), existing, false))
		draft.AuditFields = domain.NewAuditFields(userID, now)
		if err := tx.InsertJournal(ctx, draft); err != nil {
			return err
		}

		out = domain.UnpostResult{Reversal: reversal, Draft: &draft}
		return nil
	})
	if err != nil {
		return nil, e.classify(ctx, opUnpost, err)
	}

	e.LogInfo(ctx, "Journal un-posted",
		slog.String("journal_id", journalID),
		slog.String("reversal_id", out.Reversal.JournalID),
		slog.String("draft_id", out.Draft.JournalID))
	ev := events.NewLedgerEvent(events.JournalUnposted, out.Reversal, userID, now)
	ev.JournalID, ev.RelatedJournalID, ev.Status = journalID, out.Draft.JournalID, domain.Reversed
	e.publish(ctx, ev)
	return &out, nil
}

// reverseWithinTx posts the compensating entry of journalID and marks it REVERSED.
func (e *postingEngine) reverseWithinTx(ctx context.Context, tx portsrepo.LedgerTx, journalID, userID string, now time.Time) (*domain.Journal, error) {
	original, err := tx.FindJournalForUpdate(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.IsReversal() {
		return nil, fmt.Errorf("%w: journal %s is itself a reversal", apperrors.ErrInvalidStateTransition, journalID)
	}
	if err := original.Status.ValidateTransition(domain.Reversed); err != nil {
		return nil, fmt.Errorf("journal %s: %w", journalID, err)
	}

	reversal := original.Reversal(domain.DeriveReversalID(journalID), now)
	reversal.AuditFields = domain.NewAuditFields(userID, now)
	if err := e.applyPosting(ctx, tx, &reversal, userID, now); err != nil {
		return nil, err
	}
	if err := tx.UpdateJournalStatusAndLinks(ctx, journalID, domain.Reversed, &reversal.JournalID, userID, now); err != nil {
		return nil, err
	}
	return &reversal, nil
}

// applyPosting locks the accounts of entry, stamps running balances, inserts it as POSTED
// and applies the net delta of every account.
func (e *postingEngine) applyPosting(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.Journal, userID string, now time.Time) error {
	accounts, err := e.lockAccounts(ctx, tx, entry)
	if err != nil {
		return err
	}
	if err := accounting.ApplyRunningBalances(entry.Lines, accounts); err != nil {
		return err
	}
	entry.Status = domain.Posted
	if err := tx.InsertJournal(ctx, *entry); err != nil {
		return err
	}
	return e.applyDeltas(ctx, tx, entry, accounts, userID, now)
}

// lockAccounts locks every account of entry in id order and rejects inactive ones.
func (e *postingEngine) lockAccounts(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.Journal) (map[string]domain.Account, error) {
	ids := entry.AccountIDs()
	slices.Sort(ids)
	accounts, err := tx.LockAccounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, apperrors.NewValidationError("account %s is inactive", id)
		}
	}
	return accounts, nil
}

// applyDeltas is the single place account balances change.
func (e *postingEngine) applyDeltas(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.Journal, accounts map[string]domain.Account, userID string, now time.Time) error {
	if err := accounting.ValidateRawDeltas(entry.Lines); err != nil {
		return err
	}
	deltas, err := accounting.NetAccountDeltas(entry.Lines, accounts)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if err := tx.ApplyDelta(ctx, id, deltas[id], userID, now); err != nil {
			return err
		}
	}
	return nil
}

// checkCandidate rejects entries that cannot be posted before a transaction begins.
func (e *postingEngine) checkCandidate(entry *domain.Journal) error {
	if entry == nil {
		return apperrors.NewValidationError("journal entry is required")
	}
	if entry.Status != "" && entry.Status != domain.Draft {
		return fmt.Errorf("%w: journal %s is %s", apperrors.ErrInvalidStateTransition, entry.JournalID, entry.Status)
	}
	return entry.Validate()
}

// classify passes typed ledger errors through and reports everything else as an aborted transaction.
func (e *postingEngine) classify(ctx context.Context, op string, err error) error {
	if !apperrors.IsLedgerError(err) {
		err = fmt.Errorf("%w: %w", apperrors.ErrTransactionAborted, err)
	}
	if errors.Is(err, apperrors.ErrDuplicatePosting) {
		e.LogInfo(ctx, "Posting skipped, already posted", slog.String("operation", op), slog.String("reason", err.Error()))
	} else {
		e.LogError(ctx, err, "Posting engine operation failed", slog.String("operation", op))
	}
	return err
}

func (e *postingEngine) observe(op string, start time.Time, errp *error) {
	if e.recorder == nil {
		return
	}
	result := metrics.ResultSuccess
	switch {
	case *errp == nil:
	case errors.Is(*errp, apperrors.ErrDuplicatePosting):
		result = metrics.ResultDuplicate
	default:
		result = metrics.ResultError
	}
	e.recorder.ObservePosting(op, result, time.Since(start))
}

// publish announces a committed change. Failures are logged and never reach the caller.
func (e *postingEngine) publish(ctx context.Context, ev events.LedgerEvent) {
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.LogError(ctx, err, "Failed to publish ledger event",
			slog.String("event_type", string(ev.EventType)),
			slog.String("journal_id", ev.JournalID))
		if f, ok := e.recorder.(interface{ EventPublishFailed() }); ok {
			f.EventPublishFailed()
		}
	}
}

func findPosted(existing []domain.Journal) *domain.Journal {
	for i := range existing {
		if existing[i].Status == domain.Posted {
			return &existing[i]
		}
	}
	return nil
}

func isDraftID(existing []domain.Journal, id string) bool {
	for _, j := range existing {
		if j.JournalID == id {
			return j.Status == domain.Draft
		}
	}
	return false
}

// availableID keeps id unless a non-draft entry of the key already holds it, in which
// case the first revision id not held by a non-draft entry is used.
func availableID(key domain.IdempotencyKey, id string, existing []domain.Journal) string {
	for _, j := range existing {
		if j.JournalID == id && j.Status != domain.Draft {
			return nextRevisionID(key, existing, true)
		}
	}
	return id
}

// nextRevisionID returns the lowest revision id of key not held by an existing entry.
// With reuseDrafts, an id held by a draft counts as free.
func nextRevisionID(key domain.IdempotencyKey, existing []domain.Journal, reuseDrafts bool) string {
	held := make(map[string]domain.JournalStatus, len(existing))
	for _, j := range existing {
		held[j.JournalID] = j.Status
	}
	for n := 1; ; n++ {
		id := domain.DeriveRevisionID(key, n)
		status, taken := held[id]
		if !taken || (reuseDrafts && status == domain.Draft) {
			return id
		}
	}
}

func rekey(j *domain.Journal, id string) {
	j.JournalID = id
	for i := range j.Lines {
		j.Lines[i].JournalID = id
	}
}

func cloneJournal(j *domain.Journal) domain.Journal {
	c := *j
	c.Lines = slices.Clone(j.Lines)
	return c
}
