package dto

import (
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	Code               string            `json:"code"`
	Name               string            `json:"name" binding:"required"`
	CategoryID         string            `json:"categoryId" binding:"required"`
	Unit               string            `json:"unit" binding:"required"`
	UnitCost           types.Money       `json:"unitCost"`
	SellingPrice       *types.Money      `json:"sellingPrice"`
	GSTRate            types.GSTRate     `json:"gstRate"`
	ComplimentaryLimit int               `json:"complimentaryLimit"`
	Sellable           bool              `json:"sellable"`
	Perishable         bool              `json:"perishable"`
	IsFixedAsset       *bool             `json:"isFixedAsset"`
	TrackLaundry       bool              `json:"trackLaundry"`
	MaxLaundryCycles   *int              `json:"maxLaundryCycles"`
	ParentID           *string           `json:"parentId"`
	Attributes         entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity. The category reference is
// parsed by the handler; invalid IDs are rejected before mapping.
func (r *CreateItemRequest) ToEntity(categoryID id.ID) *item.Item {
	it := item.NewItem(r.Code, r.Name, categoryID, r.Unit, r.UnitCost)
	it.SellingPrice = r.SellingPrice
	if !r.GSTRate.IsZero() {
		it.GSTRate = r.GSTRate
	}
	it.ComplimentaryLimit = r.ComplimentaryLimit
	it.Sellable = r.Sellable
	it.Perishable = r.Perishable
	if r.IsFixedAsset != nil {
		it.IsFixedAsset = *r.IsFixedAsset
	}
	it.TrackLaundry = r.TrackLaundry
	it.MaxLaundryCycles = r.MaxLaundryCycles
	it.ParentID = r.ParentID
	it.Attributes = r.Attributes
	return it
}

// UpdateItemRequest is the request body for updating an item.
// IsFixedAsset left null means the flag follows the category
// classification when the category changes.
type UpdateItemRequest struct {
	Code               string            `json:"code"`
	Name               string            `json:"name" binding:"required"`
	CategoryID         string            `json:"categoryId" binding:"required"`
	Unit               string            `json:"unit" binding:"required"`
	UnitCost           types.Money       `json:"unitCost"`
	SellingPrice       *types.Money      `json:"sellingPrice"`
	GSTRate            types.GSTRate     `json:"gstRate"`
	ComplimentaryLimit int               `json:"complimentaryLimit"`
	Sellable           bool              `json:"sellable"`
	Perishable         bool              `json:"perishable"`
	IsFixedAsset       *bool             `json:"isFixedAsset"`
	TrackLaundry       bool              `json:"trackLaundry"`
	MaxLaundryCycles   *int              `json:"maxLaundryCycles"`
	ParentID           *string           `json:"parentId"`
	Attributes         entity.Attributes `json:"attributes"`
	Version            int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item, categoryID id.ID) {
	it.Code = r.Code
	it.Name = r.Name
	it.CategoryID = categoryID
	it.Unit = r.Unit
	it.UnitCost = r.UnitCost
	it.SellingPrice = r.SellingPrice
	it.GSTRate = r.GSTRate
	it.ComplimentaryLimit = r.ComplimentaryLimit
	it.Sellable = r.Sellable
	it.Perishable = r.Perishable
	if r.IsFixedAsset != nil {
		it.IsFixedAsset = *r.IsFixedAsset
	}
	it.TrackLaundry = r.TrackLaundry
	it.MaxLaundryCycles = r.MaxLaundryCycles
	it.ParentID = r.ParentID
	it.Attributes = r.Attributes
	it.Version = r.Version
}

// --- Response DTOs ---

// ItemResponse is the response body for an item.
type ItemResponse struct {
	ID                 string            `json:"id"`
	Code               string            `json:"code"`
	Name               string            `json:"name"`
	CategoryID         string            `json:"categoryId"`
	Unit               string            `json:"unit"`
	UnitCost           types.Money       `json:"unitCost"`
	SellingPrice       *types.Money      `json:"sellingPrice,omitempty"`
	GSTRate            types.GSTRate     `json:"gstRate"`
	ComplimentaryLimit int               `json:"complimentaryLimit"`
	Sellable           bool              `json:"sellable"`
	Perishable         bool              `json:"perishable"`
	IsFixedAsset       bool              `json:"isFixedAsset"`
	TrackLaundry       bool              `json:"trackLaundry"`
	MaxLaundryCycles   *int              `json:"maxLaundryCycles,omitempty"`
	CurrentStock       types.Quantity    `json:"currentStock"`
	ParentID           *string           `json:"parentId,omitempty"`
	DeletionMark       bool              `json:"deletionMark"`
	Version            int               `json:"version"`
	Attributes         entity.Attributes `json:"attributes,omitempty"`
}

// FromItem creates response DTO from domain entity.
func FromItem(it *item.Item) *ItemResponse {
	return &ItemResponse{
		ID:                 it.ID.String(),
		Code:               it.Code,
		Name:               it.Name,
		CategoryID:         it.CategoryID.String(),
		Unit:               it.Unit,
		UnitCost:           it.UnitCost,
		SellingPrice:       it.SellingPrice,
		GSTRate:            it.GSTRate,
		ComplimentaryLimit: it.ComplimentaryLimit,
		Sellable:           it.Sellable,
		Perishable:         it.Perishable,
		IsFixedAsset:       it.IsFixedAsset,
		TrackLaundry:       it.TrackLaundry,
		MaxLaundryCycles:   it.MaxLaundryCycles,
		CurrentStock:       it.CurrentStock,
		ParentID:           it.ParentID,
		DeletionMark:       it.DeletionMark,
		Version:            it.Version,
		Attributes:         it.Attributes,
	}
}
