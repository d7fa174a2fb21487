package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/tx"
	"atithi/internal/core/types"
	"atithi/internal/domain/registers/stockledger"
	"atithi/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock ledger read endpoints.
type StockHandler struct {
	*BaseHandler
	ledger    *stockledger.Service
	txManager tx.Manager
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, ledger *stockledger.Service, txManager tx.Manager) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		ledger:      ledger,
		txManager:   txManager,
	}
}

// Levels handles GET /inventory/stock.
// locationId lists items at a location; itemId lists locations of an
// item. One of the two is required.
func (h *StockHandler) Levels(c *gin.Context) {
	ctx := c.Request.Context()

	var locationID, itemID *id.ID
	if !h.parseIDFilter(c, "locationId", &locationID) {
		return
	}
	if !h.parseIDFilter(c, "itemId", &itemID) {
		return
	}

	var levels []entity.StockLevel
	var err error

	switch {
	case locationID != nil:
		levels, err = h.ledger.GetLocationStock(ctx, *locationID)
	case itemID != nil:
		levels, err = h.ledger.GetItemLevels(ctx, *itemID)
	default:
		h.Error(c, apperror.NewValidation("locationId or itemId query parameter is required"))
		return
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	var total types.Quantity
	for _, level := range levels {
		total += level.Quantity
	}

	c.JSON(http.StatusOK, gin.H{
		"levels": levels,
		"total":  total,
	})
}

// Level handles GET /inventory/stock/level - one (location, item) cell.
func (h *StockHandler) Level(c *gin.Context) {
	ctx := c.Request.Context()

	locationID, err := id.Parse(c.Query("locationId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("locationId query parameter is required"))
		return
	}
	itemID, err := id.Parse(c.Query("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("itemId query parameter is required"))
		return
	}

	level, err := h.ledger.GetLevel(ctx, locationID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, level)
}

// Transactions handles GET /inventory/transactions - ledger history for
// an item.
func (h *StockHandler) Transactions(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Query("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("itemId query parameter is required"))
		return
	}

	filter := stockledger.TransactionFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if !h.parseIDFilter(c, "locationId", &filter.LocationID) {
		return
	}
	if kindStr := c.Query("kind"); kindStr != "" {
		kind := entity.TxnKind(kindStr)
		filter.Kind = &kind
	}
	if !h.parseDateFilter(c, "dateFrom", &filter.FromDate) {
		return
	}
	if !h.parseDateFilter(c, "dateTo", &filter.ToDate) {
		return
	}

	txns, err := h.ledger.GetHistory(ctx, itemID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// Turnover handles GET /inventory/stock/turnover - receipt and expense
// totals for a period.
func (h *StockHandler) Turnover(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := stockledger.TurnoverFilter{
		FromDate: query.Start.UTC(),
		ToDate:   query.End.UTC(),
	}
	if !h.parseIDFilter(c, "locationId", &filter.LocationID) {
		return
	}
	if !h.parseIDFilter(c, "itemId", &filter.ItemID) {
		return
	}

	turnover, err := h.ledger.GetTurnoverReport(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, turnover)
}

// Rebuild handles POST /inventory/stock/rebuild/:itemId.
// Resyncs every cached level of the item from its ledger sums. A
// maintenance endpoint; normal operation keeps levels in sync inside
// the mutating transactions.
func (h *StockHandler) Rebuild(c *gin.Context) {
	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	var total types.Quantity
	err = h.txManager.RunInTransaction(c.Request.Context(), func(ctx context.Context) error {
		var err error
		total, err = h.ledger.RebuildFromJournal(ctx, itemID)
		return err
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"itemId":    itemID.String(),
		"total":     total,
		"rebuiltAt": time.Now().UTC(),
	})
}
