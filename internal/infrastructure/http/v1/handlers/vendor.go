package handlers

import (
	"atithi/internal/domain/catalogs/vendor"
	"atithi/internal/infrastructure/http/v1/dto"
)

// VendorHTTPHandler is the concrete generic handler for vendors.
type VendorHTTPHandler = CatalogHandler[
	*vendor.Vendor,
	dto.CreateVendorRequest,
	dto.UpdateVendorRequest,
]

// NewVendorHandler wires the generic catalog handler for vendors.
func NewVendorHandler(
	base *BaseHandler,
	service *vendor.Service,
) *VendorHTTPHandler {

	config := CatalogHandlerConfig[
		*vendor.Vendor,
		dto.CreateVendorRequest,
		dto.UpdateVendorRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "vendor",

		MapCreateDTO: func(req dto.CreateVendorRequest) *vendor.Vendor {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateVendorRequest, existing *vendor.Vendor) *vendor.Vendor {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *vendor.Vendor) any {
			return dto.FromVendor(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
