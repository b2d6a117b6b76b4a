package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalReaderSvc
	engine         portssvc.PostingEngine
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalReaderSvc, engine portssvc.PostingEngine) *journalHandler {
	return &journalHandler{
		journalService: js,
		engine:         engine,
	}
}

// registerJournalRoutes registers routes related to journals.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalReaderSvc, engine portssvc.PostingEngine) {
	h := newJournalHandler(journalService, engine)

	journals := rg.Group("/journals")
	{
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.POST("/:journalID/post", h.postDraft)
		journals.POST("/:journalID/reverse", h.reverseJournal)
		journals.POST("/:journalID/unpost", h.unpostJournal)
		journals.DELETE("/:journalID", h.deleteDraft)
	}
}

// listJournals godoc
// @Summary List journal entries
// @Description Lists journal headers newest first using token-based pagination
// @Tags journals
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Param status query string false "DRAFT, POSTED or REVERSED"
// @Param sourceModule query string false "Source module"
// @Param sourceDocumentID query string false "Source document id"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getJournal godoc
// @Summary Get a journal entry
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Security BearerAuth
// @Router /journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	journalID := c.Param("journalID")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// postDraft godoc
// @Summary Post a draft entry
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Not a draft, or the document is already posted"
// @Failure 503 {object} ErrorResponse "Transaction aborted, retry"
// @Security BearerAuth
// @Router /journals/{journalID}/post [post]
func (h *journalHandler) postDraft(c *gin.Context) {
	userID, ok := actorFromContext(c)
	if !ok {
		return
	}
	journalID := c.Param("journalID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("journal_id", journalID))

	journal, err := h.engine.PostDraft(c.Request.Context(), journalID, userID)
	if err != nil {
		respondWithError(c, err, "Failed to post draft")
		return
	}
	logger.Info("Draft posted")
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted entry
// @Description Posts the compensating entry and marks the original REVERSED
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 201 {object} dto.JournalResponse "The reversal entry"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Entry is not posted"
// @Failure 503 {object} ErrorResponse "Transaction aborted, retry"
// @Security BearerAuth
// @Router /journals/{journalID}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	userID, ok := actorFromContext(c)
	if !ok {
		return
	}
	journalID := c.Param("journalID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("journal_id", journalID))

	reversal, err := h.engine.Reverse(c.Request.Context(), journalID, userID)
	if err != nil {
		respondWithError(c, err, "Failed to reverse journal")
		return
	}
	logger.Info("Journal reversed", slog.String("reversal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// unpostJournal godoc
// @Summary Take a posted entry back to draft
// @Description Reverses a treasury or payroll entry and stores a fresh draft copy of it
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.UnpostResponse
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Entry cannot be unposted"
// @Security BearerAuth
// @Router /journals/{journalID}/unpost [post]
func (h *journalHandler) unpostJournal(c *gin.Context) {
	userID, ok := actorFromContext(c)
	if !ok {
		return
	}
	journalID := c.Param("journalID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("journal_id", journalID))

	result, err := h.engine.Unpost(c.Request.Context(), journalID, userID)
	if err != nil {
		respondWithError(c, err, "Failed to unpost journal")
		return
	}
	logger.Info("Journal unposted", slog.String("reversal_id", result.Reversal.JournalID), slog.String("draft_id", result.Draft.JournalID))
	c.JSON(http.StatusOK, dto.ToUnpostResponse(result))
}

// deleteDraft godoc
// @Summary Delete a draft entry
// @Tags journals
// @Param journalID path string true "Journal ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /journals/{journalID} [delete]
func (h *journalHandler) deleteDraft(c *gin.Context) {
	userID, ok := actorFromContext(c)
	if !ok {
		return
	}
	journalID := c.Param("journalID")

	if err := h.engine.DeleteDraft(c.Request.Context(), journalID, userID); err != nil {
		respondWithError(c, err, "Failed to delete draft")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Draft deleted", slog.String("journal_id", journalID))
	c.Status(http.StatusNoContent)
}
