package dto

import (
	"time"

	"atithi/internal/domain/assets"
)

// --- Request DTOs ---

// MintAssetRequest registers one physical unit of a fixed-asset item.
type MintAssetRequest struct {
	ItemID     string  `json:"itemId" binding:"required"`
	LocationID string  `json:"locationId" binding:"required"`
	Serial     *string `json:"serial"`
	AssetTag   string  `json:"assetTag"`
}

// MoveAssetRequest relocates an instance.
type MoveAssetRequest struct {
	DestinationLocationID string `json:"destinationLocationId" binding:"required"`
}

// RetireAssetRequest writes an instance off.
type RetireAssetRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// LaundryReturnRequest sends an instance from the laundry queue back
// into service.
type LaundryReturnRequest struct {
	DestinationLocationID string `json:"destinationLocationId" binding:"required"`
}

// --- Response DTOs ---

// AssetResponse is the response body for an asset instance.
type AssetResponse struct {
	ID                string        `json:"id"`
	AssetTag          string        `json:"assetTag"`
	ItemID            string        `json:"itemId"`
	Serial            *string       `json:"serial,omitempty"`
	CurrentLocationID *string       `json:"currentLocationId,omitempty"`
	Status            assets.Status `json:"status"`
	LaundryCycles     int           `json:"laundryCycles"`
	RetirementReason  *string       `json:"retirementReason,omitempty"`
	Version           int           `json:"version"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// FromAsset creates response DTO from domain entity.
func FromAsset(a *assets.AssetInstance) *AssetResponse {
	resp := &AssetResponse{
		ID:               a.ID.String(),
		AssetTag:         a.AssetTag,
		ItemID:           a.ItemID.String(),
		Serial:           a.Serial,
		Status:           a.Status,
		LaundryCycles:    a.LaundryCycles,
		RetirementReason: a.RetirementReason,
		Version:          a.Version,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	if a.CurrentLocationID != nil {
		loc := a.CurrentLocationID.String()
		resp.CurrentLocationID = &loc
	}

	return resp
}
