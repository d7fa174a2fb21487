package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/domain/movement"
	"atithi/internal/infrastructure/http/v1/dto"
)

// CheckoutHandler handles the guest checkout flows: returning allocated
// goods to storage and billing unpaid payable allocations.
type CheckoutHandler struct {
	*BaseHandler
	movement *movement.Service
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(base *BaseHandler, mvt *movement.Service) *CheckoutHandler {
	return &CheckoutHandler{
		BaseHandler: base,
		movement:    mvt,
	}
}

// Return handles POST /inventory/returns.
// Sends non-consumed allocations from a room back into storage.
func (h *CheckoutHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	roomID, err := id.Parse(req.RoomLocationID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid roomLocationId format"))
		return
	}

	returnReq := movement.ReturnRequest{
		RoomLocationID: roomID,
		ReturnedBy:     req.ReturnedBy,
	}
	if returnReq.ReturnedBy == "" {
		returnReq.ReturnedBy = h.GetUserID(c)
	}

	for _, line := range req.Lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId format in lines"))
			return
		}
		returnReq.Lines = append(returnReq.Lines, movement.ReturnLine{
			ItemID:   itemID,
			Quantity: line.Quantity,
		})
	}

	docs, err := h.movement.ReturnFromRoom(c.Request.Context(), returnReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := gin.H{"issues": dto.FromIssues(docs)}
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)

	c.JSON(http.StatusCreated, response)
}

// BillPayables handles POST /inventory/checkout/:stayId/bill-payables.
// Bills every unpaid payable allocation delivered to the room and marks
// the lines paid. Re-billing the same stay replays the posted entry.
func (h *CheckoutHandler) BillPayables(c *gin.Context) {
	stayID, err := id.Parse(c.Param("stayId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid stayId format"))
		return
	}

	roomID, err := id.Parse(c.Query("roomLocationId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("roomLocationId query parameter is required"))
		return
	}

	entry, err := h.movement.BillPayableAllocations(c.Request.Context(), stayID, roomID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if entry == nil {
		h.OK(c, gin.H{"billed": false, "journalEntry": nil})
		return
	}

	h.OK(c, gin.H{"billed": true, "journalEntry": entry})
}
