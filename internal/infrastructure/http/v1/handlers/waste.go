package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/domain"
	"atithi/internal/domain/documents/waste"
	"atithi/internal/domain/movement"
	"atithi/internal/infrastructure/http/v1/dto"
)

// WasteHandler handles waste log endpoints.
type WasteHandler struct {
	*BaseHandler
	repo     waste.Repository
	movement *movement.Service
}

// NewWasteHandler creates a new waste handler.
func NewWasteHandler(base *BaseHandler, repo waste.Repository, mvt *movement.Service) *WasteHandler {
	return &WasteHandler{
		BaseHandler: base,
		repo:        repo,
		movement:    mvt,
	}
}

// List handles GET /inventory/waste.
func (h *WasteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := waste.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")

	if !h.parseIDFilter(c, "locationId", &filter.LocationID) {
		return
	}
	if !h.parseIDFilter(c, "itemId", &filter.ItemID) {
		return
	}
	if reason := c.Query("reason"); reason != "" {
		filter.Reason = &reason
	}
	if !h.parseDateFilter(c, "dateFrom", &filter.DateFrom) {
		return
	}
	if !h.parseDateFilter(c, "dateTo", &filter.DateTo) {
		return
	}

	result, err := h.repo.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromWaste(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /inventory/waste/:id.
func (h *WasteHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.repo.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromWaste(doc))
}

// Create handles POST /inventory/waste - records and posts a waste event.
func (h *WasteHandler) Create(c *gin.Context) {
	var req dto.CreateWasteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	locationID, err := id.Parse(req.LocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid locationId format"))
		return
	}

	wasteReq := movement.WasteRequest{
		LocationID:      locationID,
		FoodDescription: req.FoodDescription,
		Quantity:        req.Quantity,
		Reason:          req.Reason,
		RecordedBy:      req.RecordedBy,
	}
	if wasteReq.RecordedBy == "" {
		wasteReq.RecordedBy = h.GetUserID(c)
	}

	if req.ItemID != nil {
		itemID, err := id.Parse(*req.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId format"))
			return
		}
		wasteReq.ItemID = &itemID
	}

	doc, err := h.movement.RecordWaste(c.Request.Context(), wasteReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", dto.FromWaste(doc))

	c.JSON(http.StatusCreated, dto.FromWaste(doc))
}
