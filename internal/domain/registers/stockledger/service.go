// Package stockledger provides the stock accumulation register service.
package stockledger

import (
	"context"
	"fmt"
	"sort"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/pkg/logger"
)

// Service provides business operations for the stock ledger.
// Transactions are managed by the caller (movement service).
type Service struct {
	repo Repository
}

// NewService creates a new stock ledger service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Record appends ledger rows and resyncs the affected levels.
// Must be called inside the posting transaction: the ledger rows and the
// cached levels either both land or neither does.
func (s *Service) Record(ctx context.Context, txns []entity.StockTransaction) error {
	if len(txns) == 0 {
		return nil
	}

	for i, t := range txns {
		if !t.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("transaction %d: quantity must be positive", i))
		}
		if !t.Kind.Valid() {
			return apperror.NewValidation(fmt.Sprintf("transaction %d: unknown kind %q", i, t.Kind))
		}
		if id.IsNil(t.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("transaction %d: recorder_id is required", i))
		}
	}

	// Lock the affected dimensions first, in canonical order.
	keys := SortedKeys(txns)
	if err := s.repo.LockLevels(ctx, keys); err != nil {
		return fmt.Errorf("lock levels: %w", err)
	}

	// Stock can never go negative. Net outflows are checked against the
	// locked level before anything is written.
	deltas := make(map[LevelKey]types.Quantity, len(keys))
	for _, t := range txns {
		k := LevelKey{LocationID: t.LocationID, ItemID: t.ItemID}
		deltas[k] += t.SignedQuantity()
	}
	for _, k := range keys {
		d := deltas[k]
		if d >= 0 {
			continue
		}
		level, err := s.repo.GetLevel(ctx, k.LocationID, k.ItemID)
		if err != nil {
			return fmt.Errorf("get level: %w", err)
		}
		if level.Quantity+d < 0 {
			return apperror.NewInsufficientStock(
				k.ItemID.String(),
				k.LocationID.String(),
				d.Neg().String(),
				level.Quantity.String(),
			)
		}
	}

	if err := s.repo.CreateTransactions(ctx, txns); err != nil {
		return fmt.Errorf("create transactions: %w", err)
	}

	if err := s.repo.SyncLevels(ctx, keys); err != nil {
		return fmt.Errorf("sync levels: %w", err)
	}

	logger.Info(ctx, "recorded stock transactions",
		"count", len(txns),
		"recorder_id", txns[0].RecorderID,
	)

	return nil
}

// Reverse removes ledger rows for a document and resyncs affected levels.
func (s *Service) Reverse(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	existing, err := s.repo.GetTransactionsByRecorder(ctx, recorderID)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	if len(existing) == 0 {
		return nil
	}

	keys := SortedKeys(existing)
	if err := s.repo.LockLevels(ctx, keys); err != nil {
		return fmt.Errorf("lock levels: %w", err)
	}

	if err := s.repo.DeleteTransactionsByRecorder(ctx, recorderID, beforeVersion); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}

	if err := s.repo.SyncLevels(ctx, keys); err != nil {
		return fmt.Errorf("sync levels: %w", err)
	}

	logger.Info(ctx, "reversed stock transactions",
		"recorder_id", recorderID,
		"before_version", beforeVersion,
	)

	return nil
}

// Requirement represents a stock check request.
type Requirement struct {
	LocationID  id.ID
	ItemID      id.ID
	RequiredQty types.Quantity
}

// CheckAvailability validates stock with pessimistic locking.
// Must be called within a transaction before recording expense rows.
// Requirements are checked in canonical key order so concurrent issues
// touching the same dimensions cannot deadlock each other.
func (s *Service) CheckAvailability(ctx context.Context, reqs []Requirement) error {
	sorted := make([]Requirement, len(reqs))
	copy(sorted, reqs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].LocationID != sorted[j].LocationID {
			return lessID(sorted[i].LocationID, sorted[j].LocationID)
		}
		return lessID(sorted[i].ItemID, sorted[j].ItemID)
	})

	for _, req := range sorted {
		level, err := s.repo.GetLevelForUpdate(ctx, req.LocationID, req.ItemID)
		if err != nil {
			return fmt.Errorf("get level for %s: %w", req.ItemID, err)
		}

		if level.Quantity < req.RequiredQty {
			return apperror.NewInsufficientStock(
				req.ItemID.String(),
				req.LocationID.String(),
				req.RequiredQty.String(),
				level.Quantity.String(),
			)
		}
	}

	return nil
}

// GetItemAvailability returns available quantity across locations.
func (s *Service) GetItemAvailability(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	levels, err := s.repo.GetLevelsByItem(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("get levels: %w", err)
	}

	var total types.Quantity
	for _, l := range levels {
		total += l.Quantity
	}

	return total, nil
}

// GetItemLevels returns nonzero levels for an item across locations.
func (s *Service) GetItemLevels(ctx context.Context, itemID id.ID) ([]entity.StockLevel, error) {
	return s.repo.GetLevelsByItem(ctx, itemID)
}

// GetLocationStock returns all items with stock at a location.
func (s *Service) GetLocationStock(ctx context.Context, locationID id.ID) ([]entity.StockLevel, error) {
	return s.repo.GetLevelsByLocation(ctx, locationID, LevelFilter{
		ExcludeZero: true,
	})
}

// GetLevel returns the current on-hand quantity for one dimension.
func (s *Service) GetLevel(ctx context.Context, locationID, itemID id.ID) (entity.StockLevel, error) {
	return s.repo.GetLevel(ctx, locationID, itemID)
}

// GetLastTransferSource returns where the item at this location last came
// from, or id.Nil when no transfer ever brought it here.
func (s *Service) GetLastTransferSource(ctx context.Context, locationID, itemID id.ID) (id.ID, error) {
	return s.repo.GetLastTransferSource(ctx, locationID, itemID)
}

// GetHistory returns the ledger history for an item.
func (s *Service) GetHistory(ctx context.Context, itemID id.ID, filter TransactionFilter) ([]entity.StockTransaction, error) {
	return s.repo.GetTransactionHistory(ctx, itemID, filter)
}

// GetTurnoverReport generates a turnover report for the period.
func (s *Service) GetTurnoverReport(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return s.repo.GetTurnover(ctx, filter)
}

// RebuildFromJournal resyncs every level of an item from its ledger
// sums and returns the recomputed total. Levels cannot drift in normal
// operation because SyncLevels runs in the mutating transaction; this
// is a maintenance hook for operators.
func (s *Service) RebuildFromJournal(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	keys, err := s.repo.ListLevelKeysByItem(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("list level keys: %w", err)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].LocationID != keys[j].LocationID {
			return lessID(keys[i].LocationID, keys[j].LocationID)
		}
		return lessID(keys[i].ItemID, keys[j].ItemID)
	})

	if err := s.repo.LockLevels(ctx, keys); err != nil {
		return 0, fmt.Errorf("lock levels: %w", err)
	}
	if err := s.repo.SyncLevels(ctx, keys); err != nil {
		return 0, fmt.Errorf("sync levels: %w", err)
	}

	return s.GetItemAvailability(ctx, itemID)
}

// SortedKeys extracts the distinct (location, item) dimensions touched by
// the rows, in ascending order. All locking paths share this ordering.
func SortedKeys(txns []entity.StockTransaction) []LevelKey {
	seen := make(map[LevelKey]struct{}, len(txns))
	keys := make([]LevelKey, 0, len(txns))
	for _, t := range txns {
		k := LevelKey{LocationID: t.LocationID, ItemID: t.ItemID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].LocationID != keys[j].LocationID {
			return lessID(keys[i].LocationID, keys[j].LocationID)
		}
		return lessID(keys[i].ItemID, keys[j].ItemID)
	})
	return keys
}

func lessID(a, b id.ID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
