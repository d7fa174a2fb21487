package item

import (
	"context"
	"fmt"
	"time"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/core/tx"
	"atithi/internal/core/types"
	"atithi/internal/domain"
	"atithi/internal/domain/catalogs/category"
)

// StockChecker reports whether an item still holds stock anywhere.
// Implemented by the stock ledger service.
type StockChecker interface {
	GetItemAvailability(ctx context.Context, itemID id.ID) (types.Quantity, error)
}

// AssetCounter reports live asset instances of an item.
// Implemented by the asset registry service.
type AssetCounter interface {
	CountActiveByItem(ctx context.Context, itemID id.ID) (int, error)
}

// Service provides business logic for Item catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Item]
	repo       Repository
	categories category.Repository
	stock      StockChecker
	assets     AssetCounter
	numerator  numerator.Generator
}

// NewService creates a new Item service.
func NewService(
	repo Repository,
	categories category.Repository,
	stock StockChecker,
	assets AssetCounter,
	txManager tx.Manager,
	numerator numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  numerator,
		EntityName: "item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		categories:     categories,
		stock:          stock,
		assets:         assets,
		numerator:      numerator,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeDelete(svc.guardInUse)

	return svc
}

// prepareForCreate generates the code and applies the category default
// classification.
func (s *Service) prepareForCreate(ctx context.Context, it *Item) error {
	if it.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ITM"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
	}

	cat, err := s.categories.GetByID(ctx, it.CategoryID)
	if err != nil {
		return apperror.NewValidation("unknown category").
			WithDetail("categoryId", it.CategoryID.String())
	}

	it.IsFixedAsset = cat.DefaultsToFixedAsset()
	if cat.TrackLaundry {
		it.TrackLaundry = true
	}

	return nil
}

// UpdateParams carries an item update with the explicit-override marker
// for the fixed-asset flag.
type UpdateParams struct {
	Item *Item

	// FixedAssetOverridden marks that the caller set IsFixedAsset
	// deliberately; without it a category change resyncs the flag from
	// the new category's classification.
	FixedAssetOverridden bool
}

// UpdateWithReclassification updates an item, syncing the fixed-asset flag
// when the category changed and no explicit override was given.
func (s *Service) UpdateWithReclassification(ctx context.Context, params UpdateParams) error {
	it := params.Item

	current, err := s.repo.GetByID(ctx, it.ID)
	if err != nil {
		return err
	}

	if current.CategoryID != it.CategoryID && !params.FixedAssetOverridden {
		cat, err := s.categories.GetByID(ctx, it.CategoryID)
		if err != nil {
			return apperror.NewValidation("unknown category").
				WithDetail("categoryId", it.CategoryID.String())
		}
		it.IsFixedAsset = cat.DefaultsToFixedAsset()
	}

	return s.Update(ctx, it)
}

// guardInUse blocks deactivation while stock or live instances remain.
func (s *Service) guardInUse(ctx context.Context, it *Item) error {
	available, err := s.stock.GetItemAvailability(ctx, it.ID)
	if err != nil {
		return fmt.Errorf("check stock: %w", err)
	}
	if !available.IsZero() {
		return apperror.NewCatalogInUse("item", it.ID.String(),
			fmt.Sprintf("item holds %s units of stock", available.String()))
	}

	if it.IsFixedAsset && s.assets != nil {
		count, err := s.assets.CountActiveByItem(ctx, it.ID)
		if err != nil {
			return fmt.Errorf("check assets: %w", err)
		}
		if count > 0 {
			return apperror.NewCatalogInUse("item", it.ID.String(),
				fmt.Sprintf("%d active asset instances exist", count))
		}
	}

	return nil
}

// ListByCategory retrieves items of one category.
func (s *Service) ListByCategory(ctx context.Context, categoryID id.ID, filter domain.ListFilter) (domain.ListResult[*Item], error) {
	return s.repo.ListByCategory(ctx, categoryID, filter)
}
