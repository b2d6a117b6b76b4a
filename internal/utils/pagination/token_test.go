package pagination

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeLineCursor(t *testing.T) {
	cursor := LineCursor{
		JournalDate: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		LineID:      "01J0000000000000000000000A",
	}

	token := EncodeLineCursor(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "+", "Token must be safe in a query string")

	decoded, err := DecodeLineCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.True(t, cursor.JournalDate.Equal(decoded.JournalDate), "Journal date should match after decode")
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt), "Created at time should match after decode")
	assert.Equal(t, cursor.LineID, decoded.LineID)
}

func TestEncodeDecodeJournalCursor(t *testing.T) {
	now := time.Now().UTC()
	decoded, err := DecodeJournalCursor(EncodeJournalCursor(JournalCursor{CreatedAt: now, JournalID: "j-1"}))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decoded.CreatedAt), "Current time should match after decode")
	assert.Equal(t, "j-1", decoded.JournalID)
}

func TestDecodeCursorErrors(t *testing.T) {
	_, err := DecodeLineCursor("this is not base64!")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	_, err = DecodeLineCursor(EncodeMultiFieldToken("only-one-field"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = DecodeLineCursor(EncodeMultiFieldToken("not-a-date", "2023-05-15T00:00:00Z", "x"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "journal date parse")

	_, err = DecodeJournalCursor(EncodeMultiFieldToken("2023-05-15T00:00:00Z", "j-1", "extra"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
