package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/sources"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler accepts source documents and turns them into journal entries.
type postingHandler struct {
	documents portssvc.DocumentPostingSvc
}

func newPostingHandler(ds portssvc.DocumentPostingSvc) *postingHandler {
	return &postingHandler{documents: ds}
}

// registerPostingRoutes registers the per-source posting routes.
func registerPostingRoutes(rg *gin.RouterGroup, documents portssvc.DocumentPostingSvc, limit gin.HandlerFunc) {
	h := newPostingHandler(documents)

	postings := rg.Group("/postings")
	if limit != nil {
		postings.Use(limit)
	}
	{
		postings.POST("/sales-invoices", h.postSalesInvoice)
		postings.POST("/supplier-invoices", h.postSupplierInvoice)
		postings.POST("/vouchers", h.postVoucher)
		postings.POST("/journal-vouchers", h.postJournalVoucher)
		postings.POST("/settlements", h.postSettlement)
		postings.POST("/opening-balances", h.postOpeningBalance)
	}
}

// postSalesInvoice godoc
// @Summary Post a sales invoice
// @Description Derives the journal entry of a customer invoice (or credit note when isReturn is set) and posts it
// @Tags postings
// @Accept json
// @Produce json
// @Param draft query bool false "Store the entry as a draft instead of posting it"
// @Param invoice body dto.SalesInvoiceRequest true "Sales invoice"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Already posted (informational)"
// @Failure 422 {object} ErrorResponse "Unbalanced entry or unknown account"
// @Failure 503 {object} ErrorResponse "Transaction aborted, retry"
// @Security BearerAuth
// @Router /postings/sales-invoices [post]
func (h *postingHandler) postSalesInvoice(c *gin.Context) {
	var req dto.SalesInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "sales invoice")
		return
	}
	h.submit(c, req.ToDocument())
}

// postSupplierInvoice godoc
// @Summary Post a supplier invoice
// @Description Derives the journal entry of a bill received from a supplier and posts it
// @Tags postings
// @Accept json
// @Produce json
// @Param draft query bool false "Store the entry as a draft instead of posting it"
// @Param invoice body dto.SupplierInvoiceRequest true "Supplier invoice"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Already posted (informational)"
// @Failure 422 {object} ErrorResponse "Unbalanced entry or unknown account"
// @Failure 503 {object} ErrorResponse "Transaction aborted, retry"
// @Security BearerAuth
// @Router /postings/supplier-invoices [post]
func (h *postingHandler) postSupplierInvoice(c *gin.Context) {
	var req dto.SupplierInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "supplier invoice")
		return
	}
	h.submit(c, req.ToDocument())
}

// postVoucher godoc
// @Summary Post a receipt or payment voucher
// @Tags postings
// @Accept json
// @Produce json
// @Param draft query bool false "Store the entry as a draft instead of posting it"
// @Param voucher body dto.VoucherRequest true "Voucher"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Already posted (informational)"
// @Failure 422 {object} ErrorResponse "Unknown account"
// @Security BearerAuth
// @Router /postings/vouchers [post]
func (h *postingHandler) postVoucher(c *gin.Context) {
	var req dto.VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "voucher")
		return
	}
	h.submit(c, req.ToDocument())
}

// postJournalVoucher godoc
// @Summary Post a manual journal voucher
// @Description Posts explicit lines. Debits must equal credits.
// @Tags postings
// @Accept json
// @Produce json
// @Param draft query bool false "Store the entry as a draft instead of posting it"
// @Param voucher body dto.JournalVoucherRequest true "Journal voucher"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Already posted (informational)"
// @Failure 422 {object} ErrorResponse "Unbalanced entry or unknown account"
// @Security BearerAuth
// @Router /postings/journal-vouchers [post]
func (h *postingHandler) postJournalVoucher(c *gin.Context) {
	var req dto.JournalVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "journal voucher")
		return
	}
	doc, err := req.ToDocument()
	if err != nil {
		respondWithError(c, err, "Invalid journal voucher line")
		return
	}
	h.submit(c, doc)
}

// postSettlement godoc
// @Summary Post an employee settlement
// @Tags postings
// @Accept json
// @Produce json
// @Param draft query bool false "Store the entry as a draft instead of posting it"
// @Param settlement body dto.EmployeeSettlementRequest true "Settlement"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Already posted (informational)"
// @Failure 422 {object} ErrorResponse "Unknown account"
// @Security BearerAuth
// @Router /postings/settlements [post]
func (h *postingHandler) postSettlement(c *gin.Context) {
	var req dto.EmployeeSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "settlement")
		return
	}
	h.submit(c, req.ToDocument())
}

// postOpeningBalance godoc
// @Summary Post opening balances
// @Description Any difference between debits and credits is balanced against the opening balance equity account
// @Tags postings
// @Accept json
// @Produce json
// @Param draft query bool false "Store the entry as a draft instead of posting it"
// @Param batch body dto.OpeningBalanceRequest true "Opening balances"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Already posted (informational)"
// @Failure 422 {object} ErrorResponse "Unknown account"
// @Security BearerAuth
// @Router /postings/opening-balances [post]
func (h *postingHandler) postOpeningBalance(c *gin.Context) {
	var req dto.OpeningBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "opening balances")
		return
	}
	h.submit(c, req.ToDocument())
}

func (h *postingHandler) submit(c *gin.Context, doc sources.Document) {
	userID, ok := actorFromContext(c)
	if !ok {
		return
	}
	var q dto.PostingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	mode := portssvc.PostImmediately
	if q.Draft {
		mode = portssvc.SaveAsDraft
	}

	key := doc.Key()
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("idempotency_key", key.String()))
	logger.Info("Received document for posting", slog.Bool("draft", q.Draft))

	entry, err := h.documents.Submit(c.Request.Context(), doc, mode, userID)
	if err != nil {
		respondWithError(c, err, "Failed to post document")
		return
	}

	logger.Info("Document posted", slog.String("journal_id", entry.JournalID), slog.String("status", string(entry.Status)))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(entry))
}
