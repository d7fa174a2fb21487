package dto

import (
	"atithi/internal/core/entity"
	"atithi/internal/domain/catalogs/vendor"
)

// --- Request DTOs ---

// CreateVendorRequest is the request body for creating a vendor.
type CreateVendorRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	LegalName     *string           `json:"legalName"`
	GSTIN         *string           `json:"gstin"`
	State         *string           `json:"state"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	ContactPerson *string           `json:"contactPerson"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateVendorRequest) ToEntity() *vendor.Vendor {
	v := vendor.NewVendor(r.Code, r.Name)
	v.LegalName = r.LegalName
	v.GSTIN = r.GSTIN
	v.State = r.State
	v.Phone = r.Phone
	v.Email = r.Email
	v.ContactPerson = r.ContactPerson
	v.Attributes = r.Attributes
	return v
}

// UpdateVendorRequest is the request body for updating a vendor.
type UpdateVendorRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	LegalName     *string           `json:"legalName"`
	GSTIN         *string           `json:"gstin"`
	State         *string           `json:"state"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	ContactPerson *string           `json:"contactPerson"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateVendorRequest) ApplyTo(v *vendor.Vendor) {
	v.Code = r.Code
	v.Name = r.Name
	v.LegalName = r.LegalName
	v.GSTIN = r.GSTIN
	v.State = r.State
	v.Phone = r.Phone
	v.Email = r.Email
	v.ContactPerson = r.ContactPerson
	v.Attributes = r.Attributes
	v.Version = r.Version
}

// --- Response DTOs ---

// VendorResponse is the response body for a vendor.
type VendorResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	LegalName     *string           `json:"legalName,omitempty"`
	GSTIN         *string           `json:"gstin,omitempty"`
	StateCode     string            `json:"stateCode,omitempty"`
	State         *string           `json:"state,omitempty"`
	Phone         *string           `json:"phone,omitempty"`
	Email         *string           `json:"email,omitempty"`
	ContactPerson *string           `json:"contactPerson,omitempty"`
	DeletionMark  bool              `json:"deletionMark"`
	Version       int               `json:"version"`
	Attributes    entity.Attributes `json:"attributes,omitempty"`
}

// FromVendor creates response DTO from domain entity.
func FromVendor(v *vendor.Vendor) *VendorResponse {
	return &VendorResponse{
		ID:            v.ID.String(),
		Code:          v.Code,
		Name:          v.Name,
		LegalName:     v.LegalName,
		GSTIN:         v.GSTIN,
		StateCode:     v.StateCode(),
		State:         v.State,
		Phone:         v.Phone,
		Email:         v.Email,
		ContactPerson: v.ContactPerson,
		DeletionMark:  v.DeletionMark,
		Version:       v.Version,
		Attributes:    v.Attributes,
	}
}
