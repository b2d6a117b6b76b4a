package domain

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	journalNamespace  = uuid.NewSHA1(uuid.NameSpaceOID, []byte("ledger_posting_engine/journal"))
	reversalNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("ledger_posting_engine/reversal"))

	lineEntropyMu sync.Mutex
	lineEntropy   = ulid.Monotonic(rand.Reader, 0)
)

// DeriveJournalID returns the stable id of the first entry for a key. The same key always
// yields the same id, so a retried derivation maps onto the same row.
func DeriveJournalID(key IdempotencyKey) string {
	moduleNS := uuid.NewSHA1(journalNamespace, []byte(key.SourceModule))
	return uuid.NewSHA1(moduleNS, []byte(key.SourceDocumentID+"|"+key.Purpose)).String()
}

// DeriveRevisionID returns the id of the n-th entry for a key (1-based). Revisions after the
// first exist only when earlier entries were reversed or un-posted.
func DeriveRevisionID(key IdempotencyKey, revision int) string {
	base := DeriveJournalID(key)
	if revision <= 1 {
		return base
	}
	return fmt.Sprintf("%s-r%d", base, revision)
}

// DeriveReversalID returns the id of the entry that reverses originalID.
func DeriveReversalID(originalID string) string {
	return uuid.NewSHA1(reversalNamespace, []byte(originalID)).String()
}

// NewLineID returns a time-ordered ULID for a journal line.
func NewLineID() string {
	lineEntropyMu.Lock()
	defer lineEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), lineEntropy).String()
}
