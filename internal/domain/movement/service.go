// Package movement orchestrates every physical stock movement: purchase
// receipts, issues, waste, returns, and asset moves. It is the sole
// mutator of the stock ledger and the asset registry, and the only
// caller of accounting Post. Each operation is one serializable
// transaction; stock, assets, and accounting commit together or not at
// all.
package movement

import (
	"context"
	"fmt"

	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/core/tx"
	"atithi/internal/domain/accounting"
	"atithi/internal/domain/assets"
	"atithi/internal/domain/catalogs/item"
	"atithi/internal/domain/catalogs/location"
	"atithi/internal/domain/catalogs/vendor"
	"atithi/internal/domain/documents/purchase"
	"atithi/internal/domain/documents/stockissue"
	"atithi/internal/domain/documents/waste"
	"atithi/internal/domain/registers/stockledger"
)

// DefaultResortStateCode is Kerala; overridden through config.
const DefaultResortStateCode = "32"

// Service is the movement orchestrator.
type Service struct {
	resortStateCode string

	txManager tx.SerializableManager
	numerator numerator.Generator

	items     item.Repository
	locations location.Repository
	vendors   vendor.Repository

	purchases purchase.Repository
	issues    stockissue.Repository
	wastes    waste.Repository

	assets     *assets.Service
	ledger     *stockledger.Service
	accounting *accounting.Service
}

// ServiceConfig wires the movement service.
type ServiceConfig struct {
	// ResortStateCode drives the intra/inter-state GST split
	ResortStateCode string

	TxManager tx.SerializableManager
	Numerator numerator.Generator

	Items     item.Repository
	Locations location.Repository
	Vendors   vendor.Repository

	Purchases purchase.Repository
	Issues    stockissue.Repository
	Wastes    waste.Repository

	Assets     *assets.Service
	Ledger     *stockledger.Service
	Accounting *accounting.Service
}

// NewService creates the movement service.
func NewService(cfg ServiceConfig) *Service {
	stateCode := cfg.ResortStateCode
	if stateCode == "" {
		stateCode = DefaultResortStateCode
	}

	return &Service{
		resortStateCode: stateCode,
		txManager:       cfg.TxManager,
		numerator:       cfg.Numerator,
		items:           cfg.Items,
		locations:       cfg.Locations,
		vendors:         cfg.Vendors,
		purchases:       cfg.Purchases,
		issues:          cfg.Issues,
		wastes:          cfg.Wastes,
		assets:          cfg.Assets,
		ledger:          cfg.Ledger,
		accounting:      cfg.Accounting,
	}
}

// recomputeItemStock refreshes the cached per-item aggregate as the sum
// of its levels, inside the mutating transaction. The sum tolerates
// historical drift; it never derives from the previous cached value.
func (s *Service) recomputeItemStock(ctx context.Context, itemIDs map[id.ID]struct{}) error {
	for itemID := range itemIDs {
		total, err := s.ledger.GetItemAvailability(ctx, itemID)
		if err != nil {
			return fmt.Errorf("sum stock for %s: %w", itemID, err)
		}
		if err := s.items.UpdateCurrentStock(ctx, itemID, total); err != nil {
			return fmt.Errorf("update current stock for %s: %w", itemID, err)
		}
	}
	return nil
}
