package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/domain"
	"atithi/internal/domain/accounting"
	"atithi/internal/infrastructure/http/v1/dto"
)

// AccountingHandler handles journal and reporting endpoints. Entries
// are append-only; the only write here is the RCM self-invoice flow,
// every other entry is posted by the movement orchestrator.
type AccountingHandler struct {
	*BaseHandler
	service *accounting.Service
	ledgers accounting.LedgerRepository
}

// NewAccountingHandler creates a new accounting handler.
func NewAccountingHandler(base *BaseHandler, service *accounting.Service, ledgers accounting.LedgerRepository) *AccountingHandler {
	return &AccountingHandler{
		BaseHandler: base,
		service:     service,
		ledgers:     ledgers,
	}
}

// ListLedgers handles GET /accounting/ledgers - the chart of accounts.
func (h *AccountingHandler) ListLedgers(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 100)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "code")

	result, err := h.ledgers.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, ledger := range result.Items {
		items[i] = ledger
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// ListEntries handles GET /accounting/journal-entries.
func (h *AccountingHandler) ListEntries(c *gin.Context) {
	ctx := c.Request.Context()

	filter := accounting.EntryFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")

	if kindStr := c.Query("referenceKind"); kindStr != "" {
		kind := accounting.RefKind(kindStr)
		filter.ReferenceKind = &kind
	}
	if !h.parseIDFilter(c, "referenceId", &filter.ReferenceID) {
		return
	}
	if !h.parseIDFilter(c, "ledgerId", &filter.LedgerID) {
		return
	}
	if !h.parseDateFilter(c, "dateFrom", &filter.DateFrom) {
		return
	}
	if !h.parseDateFilter(c, "dateTo", &filter.DateTo) {
		return
	}

	result, err := h.service.ListEntries(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, entry := range result.Items {
		items[i] = entry
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GetEntry handles GET /accounting/journal-entries/:id.
func (h *AccountingHandler) GetEntry(c *gin.Context) {
	entryID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	entry, err := h.service.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// PostRCMExpense handles POST /accounting/rcm-expenses.
// Books a reverse-charge expense with a generated self-invoice number.
func (h *AccountingHandler) PostRCMExpense(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RCMExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	chart, err := h.service.Chart(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	expenseLedgerID, err := chart.LedgerID(req.ExpenseLedgerCode)
	if err != nil {
		h.Error(c, err)
		return
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	entry, err := h.service.PostRCMExpense(ctx, accounting.RCMExpenseAmounts{
		ExpenseLedgerID: expenseLedgerID,
		Date:            date,
		InterState:      req.InterState,
		Amount:          req.Amount,
		CGST:            req.CGST,
		SGST:            req.SGST,
		IGST:            req.IGST,
		PaidFromBank:    req.PaidFromBank,
		Memo:            req.Memo,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", entry)

	c.JSON(http.StatusCreated, entry)
}

// TrialBalance handles GET /accounting/trial-balance?start=&end=.
func (h *AccountingHandler) TrialBalance(c *gin.Context) {
	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return
	}

	report, err := h.service.TrialBalance(c.Request.Context(), query.Start.UTC(), query.End.UTC())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GSTSummary handles GET /accounting/gst-summary?start=&end=.
func (h *AccountingHandler) GSTSummary(c *gin.Context) {
	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return
	}

	report, err := h.service.GSTSummary(c.Request.Context(), query.Start.UTC(), query.End.UTC())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
