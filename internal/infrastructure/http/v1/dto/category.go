package dto

import (
	"atithi/internal/core/entity"
	"atithi/internal/domain/catalogs/category"
)

// --- Request DTOs ---

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Code           string                  `json:"code"`
	Name           string                  `json:"name" binding:"required"`
	Classification category.Classification `json:"classification" binding:"required"`
	Department     *string                 `json:"department"`
	TrackLaundry   bool                    `json:"trackLaundry"`
	ParentID       *string                 `json:"parentId"`
	IsFolder       bool                    `json:"isFolder"`
	Attributes     entity.Attributes       `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	cat := category.NewCategory(r.Code, r.Name, r.Classification)
	cat.Department = r.Department
	cat.TrackLaundry = r.TrackLaundry
	cat.ParentID = r.ParentID
	cat.IsFolder = r.IsFolder
	cat.Attributes = r.Attributes
	return cat
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Code           string                  `json:"code"`
	Name           string                  `json:"name" binding:"required"`
	Classification category.Classification `json:"classification" binding:"required"`
	Department     *string                 `json:"department"`
	TrackLaundry   bool                    `json:"trackLaundry"`
	ParentID       *string                 `json:"parentId"`
	IsFolder       bool                    `json:"isFolder"`
	Attributes     entity.Attributes       `json:"attributes"`
	Version        int                     `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCategoryRequest) ApplyTo(cat *category.Category) {
	cat.Code = r.Code
	cat.Name = r.Name
	cat.Classification = r.Classification
	cat.Department = r.Department
	cat.TrackLaundry = r.TrackLaundry
	cat.ParentID = r.ParentID
	cat.IsFolder = r.IsFolder
	cat.Attributes = r.Attributes
	cat.Version = r.Version
}

// --- Response DTOs ---

// CategoryResponse is the response body for a category.
type CategoryResponse struct {
	ID             string                  `json:"id"`
	Code           string                  `json:"code"`
	Name           string                  `json:"name"`
	Classification category.Classification `json:"classification"`
	Department     *string                 `json:"department,omitempty"`
	TrackLaundry   bool                    `json:"trackLaundry"`
	ParentID       *string                 `json:"parentId,omitempty"`
	IsFolder       bool                    `json:"isFolder"`
	DeletionMark   bool                    `json:"deletionMark"`
	Version        int                     `json:"version"`
	Attributes     entity.Attributes       `json:"attributes,omitempty"`
}

// FromCategory creates response DTO from domain entity.
func FromCategory(cat *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:             cat.ID.String(),
		Code:           cat.Code,
		Name:           cat.Name,
		Classification: cat.Classification,
		Department:     cat.Department,
		TrackLaundry:   cat.TrackLaundry,
		ParentID:       cat.ParentID,
		IsFolder:       cat.IsFolder,
		DeletionMark:   cat.DeletionMark,
		Version:        cat.Version,
		Attributes:     cat.Attributes,
	}
}
