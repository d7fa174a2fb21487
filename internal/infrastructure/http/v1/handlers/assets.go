package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/domain/assets"
	"atithi/internal/domain/movement"
	"atithi/internal/infrastructure/http/v1/dto"
)

// AssetHandler handles asset registry endpoints. Reads and repair
// transitions go through the asset service; anything touching location
// or stock goes through the movement orchestrator.
type AssetHandler struct {
	*BaseHandler
	service  *assets.Service
	movement *movement.Service
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(base *BaseHandler, service *assets.Service, mvt *movement.Service) *AssetHandler {
	return &AssetHandler{
		BaseHandler: base,
		service:     service,
		movement:    mvt,
	}
}

// List handles GET /inventory/assets.
func (h *AssetHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := assets.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if !h.parseIDFilter(c, "itemId", &filter.ItemID) {
		return
	}
	if !h.parseIDFilter(c, "locationId", &filter.LocationID) {
		return
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := assets.Status(statusStr)
		filter.Status = &status
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, instance := range result.Items {
		items[i] = dto.FromAsset(instance)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /inventory/assets/:id.
// A tag=true query parameter looks up by asset tag instead of ID.
func (h *AssetHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("tag") == "true" {
		instance, err := h.service.GetByTag(ctx, c.Param("id"))
		if err != nil {
			h.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromAsset(instance))
		return
	}

	instanceID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	instance, err := h.service.GetByID(ctx, instanceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAsset(instance))
}

// Create handles POST /inventory/assets - mints a new instance.
func (h *AssetHandler) Create(c *gin.Context) {
	var req dto.MintAssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	itemID, err := id.Parse(req.ItemID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}
	locationID, err := id.Parse(req.LocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid locationId format"))
		return
	}

	instance, err := h.movement.MintAsset(c.Request.Context(), itemID, locationID, req.Serial, req.AssetTag)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CompleteIdempotency(c, http.StatusCreated, "application/json", dto.FromAsset(instance))

	c.JSON(http.StatusCreated, dto.FromAsset(instance))
}

// Move handles POST /inventory/assets/:id/move.
func (h *AssetHandler) Move(c *gin.Context) {
	instanceID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.MoveAssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	destinationID, err := id.Parse(req.DestinationLocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid destinationLocationId format"))
		return
	}

	instance, err := h.movement.MoveAsset(c.Request.Context(), instanceID, destinationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAsset(instance))
}

// Retire handles POST /inventory/assets/:id/retire.
func (h *AssetHandler) Retire(c *gin.Context) {
	instanceID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.RetireAssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	instance, err := h.movement.RetireAsset(c.Request.Context(), instanceID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAsset(instance))
}

// LaundryOut handles POST /inventory/assets/:id/laundry-out.
func (h *AssetHandler) LaundryOut(c *gin.Context) {
	instanceID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	instance, err := h.movement.SendToLaundry(c.Request.Context(), instanceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAsset(instance))
}

// LaundryIn handles POST /inventory/assets/:id/laundry-in.
func (h *AssetHandler) LaundryIn(c *gin.Context) {
	instanceID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.LaundryReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	destinationID, err := id.Parse(req.DestinationLocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid destinationLocationId format"))
		return
	}

	instance, err := h.movement.ReturnFromLaundry(c.Request.Context(), instanceID, destinationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAsset(instance))
}

// MarkUnderRepair handles POST /inventory/assets/:id/repair.
func (h *AssetHandler) MarkUnderRepair(c *gin.Context) {
	instanceID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	instance, err := h.service.MarkUnderRepair(c.Request.Context(), instanceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAsset(instance))
}

// MarkRepaired handles POST /inventory/assets/:id/repaired.
func (h *AssetHandler) MarkRepaired(c *gin.Context) {
	instanceID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	instance, err := h.service.MarkRepaired(c.Request.Context(), instanceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAsset(instance))
}
