package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/id"
	"atithi/internal/domain/reports"
)

// ReportsHandler handles cross-document reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Valuation handles GET /inventory/reports/valuation.
// Values current stock levels at each item's unit cost.
func (h *ReportsHandler) Valuation(c *gin.Context) {
	filter := reports.StockValuationFilter{
		ExcludeZero: c.Query("excludeZero") == "true",
	}

	var locationID, itemID *id.ID
	if !h.parseIDFilter(c, "locationId", &locationID) {
		return
	}
	if !h.parseIDFilter(c, "itemId", &itemID) {
		return
	}
	if locationID != nil {
		filter.LocationIDs = []id.ID{*locationID}
	}
	if itemID != nil {
		filter.ItemIDs = []id.ID{*itemID}
	}

	report, err := h.service.StockValuation(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Documents handles GET /inventory/reports/documents - a journal of
// purchase orders, issues and waste logs in one stream.
func (h *ReportsHandler) Documents(c *gin.Context) {
	filter := reports.DocumentJournalFilter{
		DocumentTypes: c.QueryArray("type"),
		Limit:         h.ParseIntQuery(c, "limit", 50),
		Offset:        h.ParseIntQuery(c, "offset", 0),
	}

	if !h.parseDateFilter(c, "dateFrom", &filter.FromDate) {
		return
	}
	if !h.parseDateFilter(c, "dateTo", &filter.ToDate) {
		return
	}
	if postedStr := c.Query("posted"); postedStr != "" {
		posted, err := strconv.ParseBool(postedStr)
		if err == nil {
			filter.Posted = &posted
		}
	}

	journal, err := h.service.DocumentJournal(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, journal)
}

// DocumentSummary handles GET /inventory/reports/documents/summary.
func (h *ReportsHandler) DocumentSummary(c *gin.Context) {
	filter := reports.DocumentJournalFilter{
		DocumentTypes: c.QueryArray("type"),
	}

	if !h.parseDateFilter(c, "dateFrom", &filter.FromDate) {
		return
	}
	if !h.parseDateFilter(c, "dateTo", &filter.ToDate) {
		return
	}

	summary, err := h.service.DocumentTypeSummary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
