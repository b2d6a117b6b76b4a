package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// LineCursor marks the last statement line a page returned.
// Lines are ordered by (JournalDate, CreatedAt, LineID).
type LineCursor struct {
	JournalDate time.Time
	CreatedAt   time.Time
	LineID      string
}

// JournalCursor marks the last journal a page returned. Journals are ordered by (CreatedAt, JournalID).
type JournalCursor struct {
	CreatedAt time.Time
	JournalID string
}

// EncodeLineCursor creates a URL-safe token for a statement page.
func EncodeLineCursor(c LineCursor) string {
	return EncodeMultiFieldToken(c.JournalDate.UTC().Format(timeFormat), c.CreatedAt.UTC().Format(timeFormat), c.LineID)
}

// DecodeLineCursor parses a token produced by EncodeLineCursor.
func DecodeLineCursor(token string) (LineCursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return LineCursor{}, err
	}
	if len(parts) != 3 {
		return LineCursor{}, fmt.Errorf("%w: invalid pagination token format (fields)", apperrors.ErrValidation)
	}
	journalDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return LineCursor{}, fmt.Errorf("%w: invalid pagination token format (journal date parse): %v", apperrors.ErrValidation, err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return LineCursor{}, fmt.Errorf("%w: invalid pagination token format (created_at parse): %v", apperrors.ErrValidation, err)
	}
	return LineCursor{JournalDate: journalDate, CreatedAt: createdAt, LineID: parts[2]}, nil
}

// EncodeJournalCursor creates a URL-safe token for a journal list page.
func EncodeJournalCursor(c JournalCursor) string {
	return EncodeMultiFieldToken(c.CreatedAt.UTC().Format(timeFormat), c.JournalID)
}

// DecodeJournalCursor parses a token produced by EncodeJournalCursor.
func DecodeJournalCursor(token string) (JournalCursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return JournalCursor{}, err
	}
	if len(parts) != 2 {
		return JournalCursor{}, fmt.Errorf("%w: invalid pagination token format (fields)", apperrors.ErrValidation)
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return JournalCursor{}, fmt.Errorf("%w: invalid pagination token format (created_at parse): %v", apperrors.ErrValidation, err)
	}
	return JournalCursor{CreatedAt: createdAt, JournalID: parts[1]}, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	return base64.URLEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pagination token format (base64 decode): %v", apperrors.ErrValidation, err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
