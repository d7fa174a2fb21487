package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/domain"
	"atithi/internal/domain/catalogs/item"
	"atithi/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles item catalog endpoints. Items need a hand-rolled
// handler instead of the generic one: the category reference is parsed
// per request and updates run through reclassification, which resyncs
// the fixed-asset flag when the category changes.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /catalog/items.
// An optional categoryId query parameter narrows to one category.
func (h *ItemHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "name")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	var result domain.ListResult[*item.Item]
	var err error

	if categoryStr := c.Query("categoryId"); categoryStr != "" {
		categoryID, parseErr := id.Parse(categoryStr)
		if parseErr != nil {
			h.Error(c, apperror.NewValidation("invalid categoryId format"))
			return
		}
		result, err = h.service.ListByCategory(ctx, categoryID, filter)
	} else {
		result, err = h.service.List(ctx, filter)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, it := range result.Items {
		items[i] = dto.FromItem(it)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /catalog/items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	it, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromItem(it))
}

// Create handles POST /catalog/items.
func (h *ItemHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	categoryID, err := id.Parse(req.CategoryID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid categoryId format"))
		return
	}

	it := req.ToEntity(categoryID)

	if err := h.service.Create(ctx, it); err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", dto.FromItem(it))

	c.JSON(http.StatusCreated, dto.FromItem(it))
}

// Update handles PUT /catalog/items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	categoryID, err := id.Parse(req.CategoryID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid categoryId format"))
		return
	}

	existing, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(existing, categoryID)

	err = h.service.UpdateWithReclassification(ctx, item.UpdateParams{
		Item:                 existing,
		FixedAssetOverridden: req.IsFixedAsset != nil,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusOK, "application/json", dto.FromItem(existing))

	c.JSON(http.StatusOK, dto.FromItem(existing))
}

// Delete handles DELETE /catalog/items/:id (soft delete).
func (h *ItemHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, itemID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetDeletionMark handles POST /catalog/items/:id/deletion-mark.
func (h *ItemHandler) SetDeletionMark(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetDeletionMark(ctx, itemID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "deletion mark updated")
}

// GetTree handles GET /catalog/items/tree.
func (h *ItemHandler) GetTree(c *gin.Context) {
	ctx := c.Request.Context()

	var rootID *id.ID
	if rootStr := c.Query("rootId"); rootStr != "" {
		parsed, err := id.Parse(rootStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid rootId format"))
			return
		}
		rootID = &parsed
	}

	items, err := h.service.GetTree(ctx, rootID)
	if err != nil {
		h.Error(c, err)
		return
	}

	dtos := make([]any, len(items))
	for i, it := range items {
		dtos[i] = dto.FromItem(it)
	}

	c.JSON(http.StatusOK, gin.H{"items": dtos})
}
