package movement

import (
	"context"
	"fmt"
	"time"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain/assets"
	"atithi/pkg/logger"
)

const assetRecorderType = "AssetInstance"

// MintAsset registers a new asset instance at a location. The stock
// ledger is untouched: aggregate counts arrived with the purchase
// receipt that brought the unit in.
func (s *Service) MintAsset(ctx context.Context, itemID, locationID id.ID, serial *string, assetTag string) (*assets.AssetInstance, error) {
	var instance *assets.AssetInstance

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		itm, err := s.items.GetByID(ctx, itemID)
		if err != nil {
			return fmt.Errorf("load item: %w", err)
		}
		if !itm.IsFixedAsset {
			return apperror.NewValidation("item is not a fixed asset").
				WithDetail("itemId", itemID)
		}

		loc, err := s.locations.GetByID(ctx, locationID)
		if err != nil {
			return fmt.Errorf("load location: %w", err)
		}

		instance, err = s.assets.Mint(ctx, assets.MintParams{
			ItemID:       itm.ID,
			LocationID:   loc.ID,
			LocationCode: loc.Code,
			Serial:       serial,
			AssetTag:     assetTag,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return instance, nil
}

// MoveAsset relocates an instance, writing the paired transfer that
// keeps aggregate counts consistent. No accounting effect.
func (s *Service) MoveAsset(ctx context.Context, instanceID, destinationID id.ID) (*assets.AssetInstance, error) {
	var instance *assets.AssetInstance

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		dest, err := s.locations.GetByID(ctx, destinationID)
		if err != nil {
			return fmt.Errorf("load destination: %w", err)
		}

		instance, err = s.transferInstance(ctx, instanceID, dest.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "asset moved",
		"asset_tag", instance.AssetTag,
		"destination_id", destinationID,
	)

	return instance, nil
}

// RetireAsset writes an instance off: waste-style stock decrement at its
// current location, terminal status, and a loss entry at item cost.
func (s *Service) RetireAsset(ctx context.Context, instanceID id.ID, reason string) (*assets.AssetInstance, error) {
	var instance *assets.AssetInstance

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		var err error
		instance, err = s.assets.GetForUpdate(ctx, instanceID)
		if err != nil {
			return err
		}

		itm, err := s.items.GetByID(ctx, instance.ItemID)
		if err != nil {
			return fmt.Errorf("load item: %w", err)
		}

		location := instance.CurrentLocationID

		if err := instance.Retire(reason); err != nil {
			return err
		}
		if err := s.assets.Save(ctx, instance); err != nil {
			return fmt.Errorf("save instance: %w", err)
		}

		now := time.Now().UTC()

		if location != nil {
			txn := entity.NewStockTransaction(
				instance.ID, assetRecorderType, instance.Version,
				now, entity.TxnKindWaste,
				*location, itm.ID, oneUnit(),
			)
			if err := s.ledger.Record(ctx, []entity.StockTransaction{txn}); err != nil {
				return err
			}
			if err := s.recomputeItemStock(ctx, map[id.ID]struct{}{itm.ID: {}}); err != nil {
				return err
			}
		}

		chart, err := s.accounting.Chart(ctx)
		if err != nil {
			return err
		}
		entry, err := chart.BuildWriteOffEntry(instance.ID, now, itm.UnitCost,
			fmt.Sprintf("write-off %s: %s", instance.AssetTag, reason))
		if err != nil {
			return err
		}
		_, err = s.accounting.Post(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "asset retired",
		"asset_tag", instance.AssetTag,
		"reason", reason,
	)

	return instance, nil
}

// SendToLaundry moves a laundry-tracked instance into the laundry queue
// and bumps its cycle counter. No accounting effect.
func (s *Service) SendToLaundry(ctx context.Context, instanceID id.ID) (*assets.AssetInstance, error) {
	var instance *assets.AssetInstance

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		queue, err := s.locations.GetLaundryQueue(ctx)
		if err != nil {
			return fmt.Errorf("load laundry queue: %w", err)
		}

		instance, err = s.assets.GetForUpdate(ctx, instanceID)
		if err != nil {
			return err
		}

		itm, err := s.items.GetByID(ctx, instance.ItemID)
		if err != nil {
			return fmt.Errorf("load item: %w", err)
		}
		if !itm.TrackLaundry {
			return apperror.NewValidation("item is not laundry-tracked").
				WithDetail("itemId", itm.ID)
		}

		if err := s.moveLocked(ctx, instance, queue.ID); err != nil {
			return err
		}

		s.assets.IncrementLaundryCycle(ctx, instance, itm.MaxLaundryCycles)
		return s.assets.Save(ctx, instance)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "asset sent to laundry",
		"asset_tag", instance.AssetTag,
		"cycles", instance.LaundryCycles,
	)

	return instance, nil
}

// ReturnFromLaundry moves an instance from the laundry queue back to a
// destination.
func (s *Service) ReturnFromLaundry(ctx context.Context, instanceID, destinationID id.ID) (*assets.AssetInstance, error) {
	var instance *assets.AssetInstance

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		queue, err := s.locations.GetLaundryQueue(ctx)
		if err != nil {
			return fmt.Errorf("load laundry queue: %w", err)
		}

		instance, err = s.assets.GetForUpdate(ctx, instanceID)
		if err != nil {
			return err
		}
		if err := instance.AssertAt(queue.ID); err != nil {
			return err
		}

		if err := s.moveLocked(ctx, instance, destinationID); err != nil {
			return err
		}

		return s.assets.Save(ctx, instance)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "asset returned from laundry",
		"asset_tag", instance.AssetTag,
		"destination_id", destinationID,
	)

	return instance, nil
}

// transferInstance locks, moves, and saves an instance in one step.
func (s *Service) transferInstance(ctx context.Context, instanceID, destinationID id.ID) (*assets.AssetInstance, error) {
	instance, err := s.assets.GetForUpdate(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	if err := s.moveLocked(ctx, instance, destinationID); err != nil {
		return nil, err
	}

	if err := s.assets.Save(ctx, instance); err != nil {
		return nil, fmt.Errorf("save instance: %w", err)
	}

	return instance, nil
}

// moveLocked writes the paired transfer for an already-locked instance
// and updates its location in memory. The caller saves.
func (s *Service) moveLocked(ctx context.Context, instance *assets.AssetInstance, destinationID id.ID) error {
	if instance.CurrentLocationID == nil || !instance.CanMove() {
		return apperror.NewStateConflict("asset instance", instance.ID.String(), string(instance.Status), "move")
	}

	source := *instance.CurrentLocationID
	if source == destinationID {
		return nil
	}

	now := time.Now().UTC()
	dest := destinationID

	out := entity.NewStockTransaction(
		instance.ID, assetRecorderType, instance.Version,
		now, entity.TxnKindTransferOut,
		source, instance.ItemID, oneUnit(),
	)
	out.CounterLocationID = &dest

	in := entity.NewStockTransaction(
		instance.ID, assetRecorderType, instance.Version,
		now, entity.TxnKindTransferIn,
		destinationID, instance.ItemID, oneUnit(),
	)
	in.CounterLocationID = &source

	if err := s.ledger.Record(ctx, []entity.StockTransaction{out, in}); err != nil {
		return err
	}

	return instance.MoveTo(destinationID)
}

func oneUnit() types.Quantity {
	return types.NewQuantityFromInt64Scaled(types.QuantityScale)
}
