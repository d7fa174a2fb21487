package dto

import (
	"atithi/internal/core/entity"
	"atithi/internal/domain/catalogs/location"
)

// --- Request DTOs ---

// CreateLocationRequest is the request body for creating a location.
type CreateLocationRequest struct {
	Code       string                `json:"code"`
	Name       string                `json:"name" binding:"required"`
	Type       location.LocationType `json:"type" binding:"required"`
	Building   *string               `json:"building"`
	Area       *string               `json:"area"`
	ParentID   *string               `json:"parentId"`
	IsFolder   bool                  `json:"isFolder"`
	Attributes entity.Attributes     `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateLocationRequest) ToEntity() *location.Location {
	loc := location.NewLocation(r.Code, r.Name, r.Type)
	loc.Building = r.Building
	loc.Area = r.Area
	loc.ParentID = r.ParentID
	loc.IsFolder = r.IsFolder
	loc.Attributes = r.Attributes
	return loc
}

// UpdateLocationRequest is the request body for updating a location.
type UpdateLocationRequest struct {
	Code       string                `json:"code"`
	Name       string                `json:"name" binding:"required"`
	Type       location.LocationType `json:"type" binding:"required"`
	Building   *string               `json:"building"`
	Area       *string               `json:"area"`
	ParentID   *string               `json:"parentId"`
	IsFolder   bool                  `json:"isFolder"`
	Attributes entity.Attributes     `json:"attributes"`
	Version    int                   `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateLocationRequest) ApplyTo(loc *location.Location) {
	loc.Code = r.Code
	loc.Name = r.Name
	loc.Type = r.Type
	loc.Building = r.Building
	loc.Area = r.Area
	loc.ParentID = r.ParentID
	loc.IsFolder = r.IsFolder
	loc.Attributes = r.Attributes
	loc.Version = r.Version
}

// --- Response DTOs ---

// LocationResponse is the response body for a location.
type LocationResponse struct {
	ID           string                `json:"id"`
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	Type         location.LocationType `json:"type"`
	Building     *string               `json:"building,omitempty"`
	Area         *string               `json:"area,omitempty"`
	ParentID     *string               `json:"parentId,omitempty"`
	IsFolder     bool                  `json:"isFolder"`
	DeletionMark bool                  `json:"deletionMark"`
	Version      int                   `json:"version"`
	Attributes   entity.Attributes     `json:"attributes,omitempty"`
}

// FromLocation creates response DTO from domain entity.
func FromLocation(loc *location.Location) *LocationResponse {
	return &LocationResponse{
		ID:           loc.ID.String(),
		Code:         loc.Code,
		Name:         loc.Name,
		Type:         loc.Type,
		Building:     loc.Building,
		Area:         loc.Area,
		ParentID:     loc.ParentID,
		IsFolder:     loc.IsFolder,
		DeletionMark: loc.DeletionMark,
		Version:      loc.Version,
		Attributes:   loc.Attributes,
	}
}
