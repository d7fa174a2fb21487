package handlers

import (
	"atithi/internal/domain/catalogs/location"
	"atithi/internal/infrastructure/http/v1/dto"
)

// LocationHTTPHandler is the concrete generic handler for locations.
type LocationHTTPHandler = CatalogHandler[
	*location.Location,
	dto.CreateLocationRequest,
	dto.UpdateLocationRequest,
]

// NewLocationHandler wires the generic catalog handler for locations.
func NewLocationHandler(
	base *BaseHandler,
	service *location.Service,
) *LocationHTTPHandler {

	config := CatalogHandlerConfig[
		*location.Location,
		dto.CreateLocationRequest,
		dto.UpdateLocationRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "location",

		MapCreateDTO: func(req dto.CreateLocationRequest) *location.Location {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateLocationRequest, existing *location.Location) *location.Location {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *location.Location) any {
			return dto.FromLocation(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
