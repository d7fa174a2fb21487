package handlers

import (
	"atithi/internal/domain/catalogs/category"
	"atithi/internal/infrastructure/http/v1/dto"
)

// CategoryHTTPHandler is the concrete generic handler for categories.
type CategoryHTTPHandler = CatalogHandler[
	*category.Category,
	dto.CreateCategoryRequest,
	dto.UpdateCategoryRequest,
]

// NewCategoryHandler wires the generic catalog handler for categories.
func NewCategoryHandler(
	base *BaseHandler,
	service *category.Service,
) *CategoryHTTPHandler {

	config := CatalogHandlerConfig[
		*category.Category,
		dto.CreateCategoryRequest,
		dto.UpdateCategoryRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "category",

		MapCreateDTO: func(req dto.CreateCategoryRequest) *category.Category {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *category.Category) *category.Category {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *category.Category) any {
			return dto.FromCategory(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
