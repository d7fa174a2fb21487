package entity

import (
	"context"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
)

// VendorAware is a trait for documents that reference a supplier.
// Used for composition in models like PurchaseOrder.
type VendorAware struct {
	// VendorID is the supplying counterparty
	VendorID id.ID `db:"vendor_id" json:"vendorId"`
}

// ValidateVendor ensures a vendor is set.
func (v *VendorAware) ValidateVendor(ctx context.Context) error {
	if id.IsNil(v.VendorID) {
		return apperror.NewValidation("vendor is required").
			WithDetail("field", "vendorId")
	}
	return nil
}

// GetVendorID returns the vendor ID (useful for interfaces).
func (v *VendorAware) GetVendorID() id.ID {
	return v.VendorID
}

// IVendorAware is an interface for any document that has a vendor.
type IVendorAware interface {
	GetVendorID() id.ID
	ValidateVendor(ctx context.Context) error
}
