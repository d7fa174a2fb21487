package movement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/core/types"
	"atithi/internal/domain/documents/stockissue"
	"atithi/internal/domain/registers/stockledger"
	"atithi/pkg/logger"
)

// IssueLineRequest is one requested line of a stock issue.
type IssueLineRequest struct {
	ItemID      id.ID
	Quantity    types.Quantity
	IsPayable   bool
	RentalPrice *types.Money

	// AssetInstanceIDs names specific instances moving with the line.
	// Each must currently sit at the source location.
	AssetInstanceIDs []id.ID
}

// IssueRequest describes a stock issue to create.
type IssueRequest struct {
	SourceLocationID      id.ID
	DestinationLocationID *id.ID
	IssuedBy              string
	Notes                 string
	Lines                 []IssueLineRequest
}

// CreateIssue creates and posts a stock issue in one transaction.
// The destination classifies it: absent means consumption (stock leaves
// the system, COGS is booked), a guest room means allocation (paired
// transfer, billing deferred to checkout), anything else is an internal
// transfer (paired transfer, no accounting effect).
func (s *Service) CreateIssue(ctx context.Context, req IssueRequest) (*stockissue.StockIssue, error) {
	var doc *stockissue.StockIssue

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		source, err := s.locations.GetByID(ctx, req.SourceLocationID)
		if err != nil {
			return fmt.Errorf("load source: %w", err)
		}

		doc = stockissue.NewStockIssue(source.ID, req.DestinationLocationID, req.IssuedBy)
		doc.Notes = req.Notes
		doc.Kind = stockissue.KindConsumption

		if req.DestinationLocationID != nil {
			dest, err := s.locations.GetByID(ctx, *req.DestinationLocationID)
			if err != nil {
				return fmt.Errorf("load destination: %w", err)
			}
			if dest.IsGuestRoom() {
				doc.Kind = stockissue.KindAllocation
			} else {
				doc.Kind = stockissue.KindTransfer
			}
		}

		// Resolve prices and collect the consumption cost while the
		// catalog rows are in hand.
		cost := decimal.Zero
		reqs := make([]stockledger.Requirement, 0, len(req.Lines))
		for _, line := range req.Lines {
			itm, err := s.items.GetByID(ctx, line.ItemID)
			if err != nil {
				return fmt.Errorf("load item: %w", err)
			}

			price := itm.EffectivePrice(line.IsPayable)
			if line.RentalPrice != nil {
				price = *line.RentalPrice
			}
			doc.AddLine(itm.ID, line.Quantity, price, line.IsPayable, line.RentalPrice)

			cost = cost.Add(line.Quantity.Mul(itm.UnitCost))
			reqs = append(reqs, stockledger.Requirement{
				LocationID:  source.ID,
				ItemID:      itm.ID,
				RequiredQty: line.Quantity,
			})
		}

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		doc.Number, err = s.numerator.GetNextNumber(ctx, numerator.DailyConfig("ISS"), nil, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}

		if err := s.ledger.CheckAvailability(ctx, reqs); err != nil {
			return err
		}

		if err := s.moveAssetInstances(ctx, req, doc); err != nil {
			return err
		}

		txns, touched := s.issueTransactions(doc)
		if err := s.ledger.Record(ctx, txns); err != nil {
			return err
		}

		if err := s.issues.Create(ctx, doc); err != nil {
			return fmt.Errorf("create issue: %w", err)
		}
		if err := s.issues.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		if err := s.recomputeItemStock(ctx, touched); err != nil {
			return err
		}

		// Only consumption leaves the system and hits the books now;
		// allocations bill at checkout, transfers never do.
		if doc.IsConsumption() {
			chart, err := s.accounting.Chart(ctx)
			if err != nil {
				return err
			}
			entry, err := chart.BuildConsumptionEntry(doc.ID, doc.Date, cost,
				fmt.Sprintf("consumption %s", doc.Number))
			if err != nil {
				return err
			}
			if _, err := s.accounting.Post(ctx, entry); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock issue posted",
		"number", doc.Number,
		"kind", doc.Kind,
		"lines", len(doc.Lines),
	)

	return doc, nil
}

// issueTransactions builds the ledger rows for a posted issue: a single
// expense leg for consumption, a transfer pair otherwise. Transfers
// never change an item's global quantity.
func (s *Service) issueTransactions(doc *stockissue.StockIssue) ([]entity.StockTransaction, map[id.ID]struct{}) {
	txns := make([]entity.StockTransaction, 0, len(doc.Lines)*2)
	touched := make(map[id.ID]struct{}, len(doc.Lines))

	for _, line := range doc.Lines {
		touched[line.ItemID] = struct{}{}

		if doc.DestinationLocationID == nil {
			txns = append(txns, entity.NewStockTransaction(
				doc.ID, doc.GetDocumentType(), doc.Version,
				doc.Date, entity.TxnKindOut,
				doc.SourceLocationID, line.ItemID, line.Quantity,
			))
			continue
		}

		out := entity.NewStockTransaction(
			doc.ID, doc.GetDocumentType(), doc.Version,
			doc.Date, entity.TxnKindTransferOut,
			doc.SourceLocationID, line.ItemID, line.Quantity,
		)
		out.CounterLocationID = doc.DestinationLocationID

		in := entity.NewStockTransaction(
			doc.ID, doc.GetDocumentType(), doc.Version,
			doc.Date, entity.TxnKindTransferIn,
			*doc.DestinationLocationID, line.ItemID, line.Quantity,
		)
		counter := doc.SourceLocationID
		in.CounterLocationID = &counter

		txns = append(txns, out, in)
	}

	return txns, touched
}

// moveAssetInstances relocates the named instances along with the issue.
// Each must be at the source; consumption cannot carry instances.
func (s *Service) moveAssetInstances(ctx context.Context, req IssueRequest, doc *stockissue.StockIssue) error {
	for _, line := range req.Lines {
		if len(line.AssetInstanceIDs) == 0 {
			continue
		}

		if doc.DestinationLocationID == nil {
			return apperror.NewValidation("asset instances cannot be consumed; retire them instead").
				WithDetail("itemId", line.ItemID)
		}

		for _, instanceID := range line.AssetInstanceIDs {
			instance, err := s.assets.GetForUpdate(ctx, instanceID)
			if err != nil {
				return err
			}
			if err := instance.AssertAt(doc.SourceLocationID); err != nil {
				return err
			}
			if err := instance.MoveTo(*doc.DestinationLocationID); err != nil {
				return err
			}
			if err := s.assets.Save(ctx, instance); err != nil {
				return fmt.Errorf("save instance %s: %w", instance.AssetTag, err)
			}
		}
	}

	return nil
}
