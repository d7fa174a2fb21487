package movement

import (
	"context"
	"fmt"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/core/types"
	"atithi/internal/domain/documents/stockissue"
	"atithi/internal/domain/registers/stockledger"
	"atithi/pkg/logger"
)

// ReturnLine is one item returned from a room at checkout.
type ReturnLine struct {
	ItemID   id.ID
	Quantity types.Quantity
}

// ReturnRequest describes a checkout return of non-consumed,
// non-payable allocations.
type ReturnRequest struct {
	RoomLocationID id.ID
	ReturnedBy     string
	Lines          []ReturnLine
}

// ReturnFromRoom sends allocated goods back into storage. Destination
// strategy, in order: the location the goods last transferred in from
// (if it is a warehouse), any warehouse holding positive stock of the
// item, the central warehouse. With no candidate the return fails.
// Produces transfer pairs only; a full round trip leaves every level at
// its pre-issue value and the books untouched.
func (s *Service) ReturnFromRoom(ctx context.Context, req ReturnRequest) ([]*stockissue.StockIssue, error) {
	var docs []*stockissue.StockIssue

	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		docs = nil

		room, err := s.locations.GetByID(ctx, req.RoomLocationID)
		if err != nil {
			return fmt.Errorf("load room: %w", err)
		}

		// Group lines by resolved destination so each destination gets
		// one return issue.
		grouped := make(map[id.ID][]ReturnLine)
		order := make([]id.ID, 0)
		reqs := make([]stockledger.Requirement, 0, len(req.Lines))
		for _, line := range req.Lines {
			destID, err := s.resolveReturnDestination(ctx, room.ID, line.ItemID)
			if err != nil {
				return err
			}
			if _, seen := grouped[destID]; !seen {
				order = append(order, destID)
			}
			grouped[destID] = append(grouped[destID], line)
			reqs = append(reqs, stockledger.Requirement{
				LocationID:  room.ID,
				ItemID:      line.ItemID,
				RequiredQty: line.Quantity,
			})
		}

		if err := s.ledger.CheckAvailability(ctx, reqs); err != nil {
			return err
		}

		for _, destID := range order {
			dest := destID
			doc := stockissue.NewStockIssue(room.ID, &dest, req.ReturnedBy)
			doc.Kind = stockissue.KindTransfer
			doc.Notes = "checkout return"

			for _, line := range grouped[destID] {
				itm, err := s.items.GetByID(ctx, line.ItemID)
				if err != nil {
					return fmt.Errorf("load item: %w", err)
				}
				doc.AddLine(itm.ID, line.Quantity, itm.UnitCost, false, nil)
			}

			if err := doc.Validate(ctx); err != nil {
				return err
			}

			doc.Number, err = s.numerator.GetNextNumber(ctx, numerator.DailyConfig("ISS"), nil, doc.Date)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}

			txns, touched := s.issueTransactions(doc)
			if err := s.ledger.Record(ctx, txns); err != nil {
				return err
			}

			if err := s.issues.Create(ctx, doc); err != nil {
				return fmt.Errorf("create return issue: %w", err)
			}
			if err := s.issues.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
				return fmt.Errorf("save lines: %w", err)
			}

			if err := s.recomputeItemStock(ctx, touched); err != nil {
				return err
			}

			docs = append(docs, doc)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "room return posted",
		"room_id", req.RoomLocationID,
		"issues", len(docs),
	)

	return docs, nil
}

// resolveReturnDestination applies the ordered return strategy for one
// item.
func (s *Service) resolveReturnDestination(ctx context.Context, roomID, itemID id.ID) (id.ID, error) {
	// 1. Where the goods last came from, if that is a warehouse.
	origin, err := s.ledger.GetLastTransferSource(ctx, roomID, itemID)
	if err != nil {
		return id.Nil(), err
	}
	if !id.IsNil(origin) {
		loc, err := s.locations.GetByID(ctx, origin)
		if err == nil && loc.IsWarehouse() {
			return loc.ID, nil
		}
		if err != nil && !apperror.IsNotFound(err) {
			return id.Nil(), err
		}
	}

	// 2. Any warehouse already holding the item.
	levels, err := s.ledger.GetItemLevels(ctx, itemID)
	if err != nil {
		return id.Nil(), err
	}
	for _, level := range levels {
		if !level.Quantity.IsPositive() {
			continue
		}
		loc, err := s.locations.GetByID(ctx, level.LocationID)
		if err != nil {
			continue
		}
		if loc.IsWarehouse() {
			return loc.ID, nil
		}
	}

	// 3. The central warehouse.
	central, err := s.locations.GetCentralWarehouse(ctx)
	if err == nil {
		return central.ID, nil
	}
	if !apperror.IsNotFound(err) {
		return id.Nil(), err
	}

	return id.Nil(), apperror.NewNoReturnLocation(itemID)
}
