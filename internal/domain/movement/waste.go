package movement

import (
	"context"
	"fmt"

	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/core/types"
	"atithi/internal/domain/documents/waste"
	"atithi/internal/domain/registers/stockledger"
	"atithi/pkg/logger"
)

// WasteRequest describes a waste event to record.
type WasteRequest struct {
	LocationID id.ID

	// ItemID or FoodDescription, exactly one
	ItemID          *id.ID
	FoodDescription *string

	Quantity   types.Quantity
	Reason     string
	RecordedBy string
}

// RecordWaste posts a one-sided stock decrement and books the cost
// against the waste expense ledger. Untracked prepared food only logs
// the event: it never entered stock and has no known cost.
func (s *Service) RecordWaste(ctx context.Context, req WasteRequest) (*waste.WasteLog, error) {
	var doc *waste.WasteLog

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		doc = waste.NewWasteLog(req.LocationID, req.Quantity, req.Reason, req.RecordedBy)
		if req.ItemID != nil {
			doc.ForItem(*req.ItemID)
		}
		if req.FoodDescription != nil {
			doc.ForFood(*req.FoodDescription)
		}

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		var err error
		doc.Number, err = s.numerator.GetNextNumber(ctx, numerator.DailyConfig("WST"), nil, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}

		if doc.IsTracked() {
			itm, err := s.items.GetByID(ctx, *doc.ItemID)
			if err != nil {
				return fmt.Errorf("load item: %w", err)
			}
			doc.UnitCost = itm.UnitCost

			if err := s.ledger.CheckAvailability(ctx, []stockledger.Requirement{{
				LocationID:  doc.LocationID,
				ItemID:      itm.ID,
				RequiredQty: doc.Quantity,
			}}); err != nil {
				return err
			}

			txn := entity.NewStockTransaction(
				doc.ID, doc.GetDocumentType(), doc.Version,
				doc.Date, entity.TxnKindWaste,
				doc.LocationID, itm.ID, doc.Quantity,
			)
			if err := s.ledger.Record(ctx, []entity.StockTransaction{txn}); err != nil {
				return err
			}

			if err := s.recomputeItemStock(ctx, map[id.ID]struct{}{itm.ID: {}}); err != nil {
				return err
			}

			chart, err := s.accounting.Chart(ctx)
			if err != nil {
				return err
			}
			entry, err := chart.BuildWasteEntry(doc.ID, doc.Date,
				doc.Quantity.Mul(doc.UnitCost),
				fmt.Sprintf("waste %s: %s", doc.Number, doc.Reason))
			if err != nil {
				return err
			}
			if _, err := s.accounting.Post(ctx, entry); err != nil {
				return err
			}
		}

		if err := s.wastes.Create(ctx, doc); err != nil {
			return fmt.Errorf("create waste log: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "waste recorded",
		"number", doc.Number,
		"reason", doc.Reason,
		"tracked", doc.IsTracked(),
	)

	return doc, nil
}
