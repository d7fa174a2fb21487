package movement

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain/accounting"
	"atithi/pkg/logger"
)

// BillPayableAllocations posts the checkout revenue entry for every
// unpaid payable line delivered to the room and marks those lines paid.
// The billed goods leave the room's stock: they went out with the guest
// or were consumed during the stay. Idempotent per stay through the
// journal reference.
func (s *Service) BillPayableAllocations(ctx context.Context, stayID, roomLocationID id.ID) (*accounting.JournalEntry, error) {
	var entry *accounting.JournalEntry

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		payables, err := s.issues.FindUnpaidPayableLines(ctx, roomLocationID)
		if err != nil {
			return fmt.Errorf("find payable lines: %w", err)
		}
		if len(payables) == 0 {
			return nil
		}

		two := decimal.NewFromInt(2)
		hundred := decimal.NewFromInt(100)

		revenue := decimal.Zero
		cgst := decimal.Zero
		sgst := decimal.Zero
		cost := decimal.Zero

		lineIDs := make([]id.ID, 0, len(payables))
		txns := make([]entity.StockTransaction, 0, len(payables))
		touched := make(map[id.ID]struct{}, len(payables))
		now := time.Now().UTC()

		for _, p := range payables {
			itm, err := s.items.GetByID(ctx, p.Line.ItemID)
			if err != nil {
				return fmt.Errorf("load item: %w", err)
			}

			// Guest billing is on-premises supply: always the intra-state
			// CGST+SGST split, rounded per line like purchases.
			lineRevenue := types.RoundMoney(p.Line.Quantity.Mul(p.Line.UnitPrice))
			tax := lineRevenue.Mul(itm.GSTRate).Div(hundred)
			half := types.RoundMoney(tax.Div(two))

			revenue = revenue.Add(lineRevenue)
			cgst = cgst.Add(half)
			sgst = sgst.Add(half)
			cost = cost.Add(p.Line.Quantity.Mul(itm.UnitCost))

			lineIDs = append(lineIDs, p.Line.LineID)
			touched[itm.ID] = struct{}{}
			txns = append(txns, entity.NewStockTransaction(
				stayID, "GuestBilling", 1,
				now, entity.TxnKindOut,
				roomLocationID, itm.ID, p.Line.Quantity,
			))
		}

		// Billed goods are no longer resort stock; without this leg the
		// inventory credit could not be reconstructed from the ledger.
		if err := s.ledger.Record(ctx, txns); err != nil {
			return err
		}
		if err := s.recomputeItemStock(ctx, touched); err != nil {
			return err
		}

		chart, err := s.accounting.Chart(ctx)
		if err != nil {
			return err
		}

		built, err := chart.BuildGuestBillingEntry(accounting.GuestBillingAmounts{
			StayID:     stayID,
			Date:       now,
			InterState: false,
			Revenue:    revenue,
			OutputCGST: cgst,
			OutputSGST: sgst,
			Charge:     revenue.Add(cgst).Add(sgst),
			Cost:       cost,
			Memo:       fmt.Sprintf("checkout billing for stay %s", stayID),
		})
		if err != nil {
			return err
		}

		entry, err = s.accounting.Post(ctx, built)
		if err != nil {
			return err
		}

		if err := s.issues.MarkLinesPaid(ctx, lineIDs); err != nil {
			return fmt.Errorf("mark lines paid: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if entry == nil {
		logger.Info(ctx, "no unpaid payable allocations", "stay_id", stayID)
		return nil, nil
	}

	logger.Info(ctx, "payable allocations billed",
		"stay_id", stayID,
		"entry_number", entry.Number,
		"amount", entry.TotalDebit.String(),
	)

	return entry, nil
}
