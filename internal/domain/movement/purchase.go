package movement

import (
	"context"
	"fmt"
	"time"

	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/domain/accounting"
	"atithi/internal/domain/documents/purchase"
	"atithi/pkg/logger"
)

// ConfirmPurchase moves a draft order to confirmed and books the full
// purchase entry (inventory + input GST against accounts payable). The
// tax split is fixed here from the vendor's GSTIN state code.
func (s *Service) ConfirmPurchase(ctx context.Context, orderID id.ID) (*purchase.PurchaseOrder, error) {
	var order *purchase.PurchaseOrder

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.loadOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		vnd, err := s.vendors.GetByID(ctx, order.VendorID)
		if err != nil {
			return fmt.Errorf("load vendor: %w", err)
		}

		order.ComputeTotals(vnd.IsInterState(s.resortStateCode))
		if err := order.Confirm(); err != nil {
			return err
		}

		if err := s.purchases.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if err := s.purchases.SaveLines(ctx, order.ID, order.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		chart, err := s.accounting.Chart(ctx)
		if err != nil {
			return err
		}

		entry, err := chart.BuildPurchaseEntry(s.purchaseAmounts(order, accounting.PhaseConfirmed))
		if err != nil {
			return err
		}

		_, err = s.accounting.Post(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order confirmed",
		"number", order.Number,
		"grand_total", order.GrandTotal.String(),
		"inter_state", order.InterState,
	)

	return order, nil
}

// ReceivePurchase books the goods into stock at the destination and
// marks the order received. Idempotent: receiving an already-received
// order changes nothing and returns the existing journal entry.
func (s *Service) ReceivePurchase(ctx context.Context, orderID id.ID, destinationID *id.ID) (*purchase.PurchaseOrder, *accounting.JournalEntry, error) {
	var (
		order *purchase.PurchaseOrder
		entry *accounting.JournalEntry
	)

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.loadOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if order.IsReceived() {
			entry, err = s.accounting.GetEntryByReference(ctx, accounting.RefPurchase, order.ID)
			return err
		}

		if err := order.MarkReceived(); err != nil {
			return err
		}

		destID := order.DestinationLocationID
		if destinationID != nil {
			destID = *destinationID
		}
		dest, err := s.locations.GetByID(ctx, destID)
		if err != nil {
			return fmt.Errorf("load destination: %w", err)
		}
		if !dest.CanHoldStock() {
			return fmt.Errorf("location %s cannot hold stock", dest.Code)
		}

		// Goods come from outside the system: one receipt leg per line,
		// no transfer-out.
		txns := make([]entity.StockTransaction, 0, len(order.Lines))
		touched := make(map[id.ID]struct{}, len(order.Lines))
		for _, line := range order.Lines {
			txns = append(txns, entity.NewStockTransaction(
				order.ID, order.GetDocumentType(), order.Version,
				order.Date, entity.TxnKindIn,
				dest.ID, line.ItemID, line.Quantity,
			))
			touched[line.ItemID] = struct{}{}
		}

		if err := s.ledger.Record(ctx, txns); err != nil {
			return err
		}

		if err := s.purchases.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if err := s.recomputeItemStock(ctx, touched); err != nil {
			return err
		}

		// Merges with the confirmed-phase entry when one exists.
		chart, err := s.accounting.Chart(ctx)
		if err != nil {
			return err
		}
		built, err := chart.BuildPurchaseEntry(s.purchaseAmounts(order, accounting.PhaseReceived))
		if err != nil {
			return err
		}
		entry, err = s.accounting.Post(ctx, built)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "purchase order received",
		"number", order.Number,
		"entry_number", entry.Number,
	)

	return order, entry, nil
}

// CancelPurchase cancels a draft or confirmed order. Cancelling a
// confirmed order posts a reversing entry for its payable booking;
// received orders cannot be cancelled.
func (s *Service) CancelPurchase(ctx context.Context, orderID id.ID) (*purchase.PurchaseOrder, error) {
	var order *purchase.PurchaseOrder

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.loadOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		wasConfirmed := order.Status == purchase.StatusConfirmed

		if err := order.Cancel(); err != nil {
			return err
		}
		if err := s.purchases.Update(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if wasConfirmed {
			_, err = s.accounting.PostReversal(ctx,
				accounting.RefPurchase, order.ID,
				accounting.RefPurchaseReversal,
				time.Now().UTC(),
				fmt.Sprintf("cancellation of %s", order.Number),
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase order cancelled", "number", order.Number)

	return order, nil
}

func (s *Service) loadOrderForUpdate(ctx context.Context, orderID id.ID) (*purchase.PurchaseOrder, error) {
	order, err := s.purchases.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.purchases.GetLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load lines: %w", err)
	}
	order.Lines = lines

	return order, nil
}

func (s *Service) purchaseAmounts(order *purchase.PurchaseOrder, phase string) accounting.PurchaseAmounts {
	return accounting.PurchaseAmounts{
		OrderID:    order.ID,
		Phase:      phase,
		Date:       order.Date,
		InterState: order.InterState,
		SubTotal:   order.SubTotal,
		CGST:       order.CGST,
		SGST:       order.SGST,
		IGST:       order.IGST,
		GrandTotal: order.GrandTotal,
		Memo:       fmt.Sprintf("purchase %s", order.Number),
	}
}
