package dto

import (
	"atithi/internal/core/types"
	"atithi/internal/domain/documents/waste"
)

// --- Request DTOs ---

// CreateWasteRequest is the request body for recording waste.
// Exactly one of itemId and foodDescription must be given: tracked
// stock decrements a level, untracked prepared food only logs.
type CreateWasteRequest struct {
	LocationID      string         `json:"locationId" binding:"required"`
	ItemID          *string        `json:"itemId"`
	FoodDescription *string        `json:"foodDescription"`
	Quantity        types.Quantity `json:"quantity" binding:"required"`
	Reason          string         `json:"reason" binding:"required"`
	RecordedBy      string         `json:"recordedBy"`
}

// --- Response DTOs ---

// WasteResponse is the response body for a waste log.
type WasteResponse struct {
	DocumentResponse
	LocationID      string         `json:"locationId"`
	ItemID          *string        `json:"itemId,omitempty"`
	FoodDescription *string        `json:"foodDescription,omitempty"`
	Quantity        types.Quantity `json:"quantity"`
	Reason          string         `json:"reason"`
	RecordedBy      string         `json:"recordedBy,omitempty"`
	UnitCost        types.Money    `json:"unitCost"`
	Tracked         bool           `json:"tracked"`
}

// FromWaste creates response DTO from domain entity.
func FromWaste(doc *waste.WasteLog) *WasteResponse {
	resp := &WasteResponse{
		DocumentResponse: FromDocument(doc.Document),
		LocationID:       doc.LocationID.String(),
		FoodDescription:  doc.FoodDescription,
		Quantity:         doc.Quantity,
		Reason:           doc.Reason,
		RecordedBy:       doc.RecordedBy,
		UnitCost:         doc.UnitCost,
		Tracked:          doc.IsTracked(),
	}

	if doc.ItemID != nil {
		itemID := doc.ItemID.String()
		resp.ItemID = &itemID
	}

	return resp
}
