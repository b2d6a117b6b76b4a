package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_posting_engine/internal/apperrors"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code,omitempty"`
	Informational bool   `json:"informational,omitempty"` // the request had already been fulfilled
	Retryable     bool   `json:"retryable,omitempty"`     // retrying the whole request is safe
}

const (
	codeValidation        = "VALIDATION_FAILED"
	codeInvalidAmount     = "INVALID_AMOUNT"
	codeUnbalanced        = "UNBALANCED_ENTRY"
	codeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	codeNotFound          = "NOT_FOUND"
	codeDuplicatePosting  = "DUPLICATE_POSTING"
	codeDuplicate         = "DUPLICATE"
	codeInvalidTransition = "INVALID_STATE_TRANSITION"
	codeTransactionAbort  = "TRANSACTION_ABORTED"
	codeInconsistent      = "LEDGER_INCONSISTENT"
	codeInternal          = "INTERNAL"
)

// errorMapping is checked in order; the first match wins. ErrAccountNotFound comes
// before ErrNotFound so a bad line account is reported as unprocessable, not missing.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{apperrors.ErrInvalidAmount, http.StatusBadRequest, codeInvalidAmount},
	{apperrors.ErrValidation, http.StatusBadRequest, codeValidation},
	{apperrors.ErrUnbalancedEntry, http.StatusUnprocessableEntity, codeUnbalanced},
	{apperrors.ErrAccountNotFound, http.StatusUnprocessableEntity, codeAccountNotFound},
	{apperrors.ErrNotFound, http.StatusNotFound, codeNotFound},
	{apperrors.ErrDuplicatePosting, http.StatusConflict, codeDuplicatePosting},
	{apperrors.ErrDuplicate, http.StatusConflict, codeDuplicate},
	{apperrors.ErrInvalidStateTransition, http.StatusConflict, codeInvalidTransition},
	{apperrors.ErrConflict, http.StatusConflict, codeInvalidTransition},
	{apperrors.ErrTransactionAborted, http.StatusServiceUnavailable, codeTransactionAbort},
	{apperrors.ErrLedgerInconsistent, http.StatusInternalServerError, codeInconsistent},
}

// respondWithError writes the status and body for err and logs it at a level matching the status.
func respondWithError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		logger.Warn(msg, slog.String("error", err.Error()))
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	for _, m := range errorMapping {
		if !errors.Is(err, m.target) {
			continue
		}
		resp := ErrorResponse{Error: err.Error(), Code: m.code}
		switch m.target {
		case apperrors.ErrDuplicatePosting:
			resp.Informational = true
			logger.Info(msg, slog.String("error", err.Error()))
		case apperrors.ErrTransactionAborted:
			resp.Retryable = true
			logger.Warn(msg, slog.String("error", err.Error()))
		case apperrors.ErrLedgerInconsistent:
			logger.Error(msg, slog.String("error", err.Error()))
		default:
			logger.Warn(msg, slog.String("error", err.Error()))
		}
		c.JSON(m.status, resp)
		return
	}

	logger.Error(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg, Code: codeInternal})
}

// respondBindError reports a request that could not be bound or failed its binding rules.
func respondBindError(c *gin.Context, err error, what string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	code := codeValidation
	if errors.Is(err, apperrors.ErrInvalidAmount) {
		code = codeInvalidAmount
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + what + ": " + err.Error(), Code: code})
}

// actorFromContext returns the authenticated user or writes 401.
func actorFromContext(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
