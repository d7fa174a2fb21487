package category

import (
	"context"
	"fmt"
	"time"

	"atithi/internal/core/apperror"
	"atithi/internal/core/numerator"
	"atithi/internal/core/tx"
	"atithi/internal/domain"
)

// Service provides business logic for Category catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Category]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Category service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "category",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeDelete(svc.guardInUse)

	return svc
}

// prepareForCreate handles code generation.
func (s *Service) prepareForCreate(ctx context.Context, c *Category) error {
	if c.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CAT"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}
	return nil
}

// guardInUse blocks deactivation while items still reference the category.
func (s *Service) guardInUse(ctx context.Context, c *Category) error {
	count, err := s.repo.CountItems(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}
	if count > 0 {
		return apperror.NewCatalogInUse("category", c.ID.String(),
			fmt.Sprintf("%d active items reference this category", count))
	}
	return nil
}
