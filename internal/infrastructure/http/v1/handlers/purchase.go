package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/domain"
	"atithi/internal/domain/documents/purchase"
	"atithi/internal/domain/movement"
	"atithi/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles purchase order endpoints. Draft CRUD goes
// through the document service; the lifecycle transitions (confirm,
// receive, cancel) go through the movement orchestrator because they
// touch stock and the books.
type PurchaseHandler struct {
	*BaseHandler
	service  *purchase.Service
	movement *movement.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service, mvt *movement.Service) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: base,
		service:     service,
		movement:    mvt,
	}
}

// List handles GET /inventory/purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := purchase.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")

	if !h.parseIDFilter(c, "vendorId", &filter.VendorID) {
		return
	}
	if !h.parseIDFilter(c, "locationId", &filter.LocationID) {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if !h.parseDateFilter(c, "dateFrom", &filter.DateFrom) {
		return
	}
	if !h.parseDateFilter(c, "dateTo", &filter.DateTo) {
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromPurchase(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /inventory/purchases/:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchase(doc))
}

// Create handles POST /inventory/purchases - creates a draft order.
func (h *PurchaseHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	vendorID, err := id.Parse(req.VendorID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid vendorId format"))
		return
	}
	destinationID, err := id.Parse(req.DestinationLocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid destinationLocationId format"))
		return
	}

	doc := purchase.NewPurchaseOrder(vendorID, destinationID)
	if req.Date != nil {
		doc.Date = req.Date.UTC()
	}
	doc.PaymentMethod = req.PaymentMethod
	doc.Comment = req.Comment

	if err := dto.ApplyPurchaseLines(doc, req.Lines); err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format in lines"))
		return
	}

	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", dto.FromPurchase(doc))

	c.JSON(http.StatusCreated, dto.FromPurchase(doc))
}

// Update handles PUT /inventory/purchases/:id - edits a draft.
func (h *PurchaseHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if req.Date != nil {
		doc.Date = req.Date.UTC()
	}
	doc.PaymentMethod = req.PaymentMethod
	doc.Comment = req.Comment
	doc.Version = req.Version

	if err := dto.ApplyPurchaseLines(doc, req.Lines); err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format in lines"))
		return
	}

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusOK, "application/json", dto.FromPurchase(doc))

	c.JSON(http.StatusOK, dto.FromPurchase(doc))
}

// Confirm handles POST /inventory/purchases/:id/confirm.
// Locks the tax split and books the payable.
func (h *PurchaseHandler) Confirm(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.movement.ConfirmPurchase(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchase(doc))
}

// Receive handles POST /inventory/purchases/:id/receive.
// Moves the ordered goods into stock; idempotent.
func (h *PurchaseHandler) Receive(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.ReceivePurchaseRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	var destinationID *id.ID
	if req.DestinationLocationID != nil {
		parsed, err := id.Parse(*req.DestinationLocationID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid destinationLocationId format"))
			return
		}
		destinationID = &parsed
	}

	doc, entry, err := h.movement.ReceivePurchase(c.Request.Context(), docID, destinationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"order":        dto.FromPurchase(doc),
		"journalEntry": entry,
	})
}

// Cancel handles POST /inventory/purchases/:id/cancel.
// Cancelling a confirmed order posts a reversal of the payable.
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.movement.CancelPurchase(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchase(doc))
}
