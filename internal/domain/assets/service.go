package assets

import (
	"context"
	"fmt"
	"time"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/domain"
	"atithi/pkg/logger"
)

// Service provides registry operations for asset instances.
// Movements, write-off postings, and the paired stock transfers are
// orchestrated by the movement service; this service owns only the
// registry state (tags, serials, status, laundry counter).
type Service struct {
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new asset registry service.
func NewService(repo Repository, numerator numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		numerator: numerator,
	}
}

// MintParams describes a new instance.
type MintParams struct {
	ItemID       id.ID
	LocationID   id.ID
	LocationCode string
	Serial       *string
	AssetTag     string // optional; autogenerated when empty
}

// Mint creates a new active instance, generating a tag when none is given.
// Does not touch the stock ledger; aggregate counts come in through the
// purchase receipt that brought the unit in.
func (s *Service) Mint(ctx context.Context, params MintParams) (*AssetInstance, error) {
	instance := NewAssetInstance(params.ItemID, params.LocationID)
	instance.Serial = params.Serial
	instance.AssetTag = params.AssetTag

	if instance.AssetTag == "" {
		cfg := numerator.Config{
			Prefix:      "AST-" + params.LocationCode,
			PadWidth:    3,
			ResetPeriod: "never",
		}
		tag, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return nil, fmt.Errorf("generate asset tag: %w", err)
		}
		instance.AssetTag = tag
	}

	if err := instance.Validate(ctx); err != nil {
		return nil, err
	}

	// Tag and (item, serial) uniqueness. The DB constraints back these up;
	// the lookups give callers a structured error instead of a 23505.
	taken, err := s.repo.ExistsByTag(ctx, instance.AssetTag)
	if err != nil {
		return nil, fmt.Errorf("check tag: %w", err)
	}
	if taken {
		return nil, apperror.NewConflict("asset tag already exists").
			WithDetail("assetTag", instance.AssetTag)
	}

	if instance.Serial != nil && *instance.Serial != "" {
		taken, err := s.repo.ExistsBySerial(ctx, instance.ItemID, *instance.Serial)
		if err != nil {
			return nil, fmt.Errorf("check serial: %w", err)
		}
		if taken {
			return nil, apperror.NewConflict("serial already registered for this item").
				WithDetail("serial", *instance.Serial)
		}
	}

	if err := s.repo.Create(ctx, instance); err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	logger.Info(ctx, "asset minted",
		"asset_tag", instance.AssetTag,
		"item_id", instance.ItemID,
	)

	return instance, nil
}

// MarkUnderRepair moves an active instance into repair.
func (s *Service) MarkUnderRepair(ctx context.Context, instanceID id.ID) (*AssetInstance, error) {
	return s.applyTransition(ctx, instanceID, (*AssetInstance).MarkUnderRepair)
}

// MarkRepaired returns an instance from repair to service.
func (s *Service) MarkRepaired(ctx context.Context, instanceID id.ID) (*AssetInstance, error) {
	return s.applyTransition(ctx, instanceID, (*AssetInstance).MarkRepaired)
}

func (s *Service) applyTransition(ctx context.Context, instanceID id.ID, fn func(*AssetInstance) error) (*AssetInstance, error) {
	instance, err := s.repo.GetForUpdate(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	if err := fn(instance); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, instance); err != nil {
		return nil, fmt.Errorf("update instance: %w", err)
	}

	return instance, nil
}

// IncrementLaundryCycle bumps the cycle counter after a completed round
// trip. Exceeding the item's advisory limit only warns.
func (s *Service) IncrementLaundryCycle(ctx context.Context, instance *AssetInstance, maxCycles *int) {
	instance.LaundryCycles++
	if maxCycles != nil && instance.LaundryCycles > *maxCycles {
		logger.Warn(ctx, "asset exceeded laundry cycle limit",
			"asset_tag", instance.AssetTag,
			"cycles", instance.LaundryCycles,
			"limit", *maxCycles,
		)
	}
}

// GetForUpdate retrieves an instance with a row lock for the movement
// service's orchestration.
func (s *Service) GetForUpdate(ctx context.Context, instanceID id.ID) (*AssetInstance, error) {
	return s.repo.GetForUpdate(ctx, instanceID)
}

// Save persists registry state changed by the movement service.
func (s *Service) Save(ctx context.Context, instance *AssetInstance) error {
	return s.repo.Update(ctx, instance)
}

// GetByID retrieves an instance.
func (s *Service) GetByID(ctx context.Context, instanceID id.ID) (*AssetInstance, error) {
	return s.repo.GetByID(ctx, instanceID)
}

// GetByTag retrieves an instance by asset tag.
func (s *Service) GetByTag(ctx context.Context, tag string) (*AssetInstance, error) {
	return s.repo.GetByTag(ctx, tag)
}

// List retrieves instances with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*AssetInstance], error) {
	return s.repo.List(ctx, filter)
}

// CountActiveByItem counts non-written-off instances of an item.
// Used by the item catalog's deactivation guard.
func (s *Service) CountActiveByItem(ctx context.Context, itemID id.ID) (int, error) {
	return s.repo.CountActiveByItem(ctx, itemID)
}
