package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to ledger reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to ledger reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/verify", h.verifyLedger)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Sums posted lines per account for entries dated on or before asOf
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 500 {object} ErrorResponse "Ledger inconsistent"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}
	asOf, err := params.AsOfDate()
	if err != nil {
		respondWithError(c, err, "Invalid asOf date")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.Time("as_of", asOf))
	logger.Info("Received request to generate trial balance report")

	trialBalance, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondWithError(c, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(trialBalance.Rows)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(trialBalance))
}

// verifyLedger godoc
// @Summary Verify the ledger
// @Description Recomputes every account balance from the journal and compares it with the cached balance
// @Tags reports
// @Produce json
// @Success 200 {object} dto.VerificationResponse
// @Security BearerAuth
// @Router /reports/verify [get]
func (h *reportingHandler) verifyLedger(c *gin.Context) {
	result, err := h.reportingService.VerifyLedger(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to verify ledger")
		return
	}
	if !result.Consistent() {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Ledger verification found problems",
			slog.Int("discrepancies", len(result.Discrepancies)),
			slog.String("imbalance", result.Imbalance.String()),
		)
	}
	c.JSON(http.StatusOK, dto.ToVerificationResponse(result))
}
