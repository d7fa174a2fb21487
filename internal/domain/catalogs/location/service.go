package location

import (
	"context"
	"fmt"
	"time"

	"atithi/internal/core/apperror"
	"atithi/internal/core/numerator"
	"atithi/internal/core/tx"
	"atithi/internal/domain"
)

// Service provides business logic for Location catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Location]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Location service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Location]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "location",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate generates a code and enforces singleton location kinds.
func (s *Service) prepareForCreate(ctx context.Context, l *Location) error {
	if l.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("LOC"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		l.Code = code
	}

	// One central warehouse and one laundry queue per resort.
	if l.Type == TypeCentralWarehouse || l.Type == TypeLaundryQueue {
		existing, err := s.repo.FindByType(ctx, l.Type)
		if err != nil {
			return fmt.Errorf("check existing %s: %w", l.Type, err)
		}
		if len(existing) > 0 {
			return apperror.NewConflict(fmt.Sprintf("a %s location already exists", l.Type)).
				WithDetail("existingId", existing[0].ID.String())
		}
	}

	return nil
}

// GetCentralWarehouse retrieves the central warehouse.
func (s *Service) GetCentralWarehouse(ctx context.Context) (*Location, error) {
	return s.repo.GetCentralWarehouse(ctx)
}

// GetLaundryQueue retrieves the laundry queue location.
func (s *Service) GetLaundryQueue(ctx context.Context) (*Location, error) {
	return s.repo.GetLaundryQueue(ctx)
}

// FindWarehouses retrieves all active warehouse-kind locations.
func (s *Service) FindWarehouses(ctx context.Context) ([]*Location, error) {
	warehouses, err := s.repo.FindByType(ctx, TypeWarehouse)
	if err != nil {
		return nil, err
	}
	central, err := s.repo.FindByType(ctx, TypeCentralWarehouse)
	if err != nil {
		return nil, err
	}
	return append(warehouses, central...), nil
}
