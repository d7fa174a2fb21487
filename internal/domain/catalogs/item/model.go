// Package item provides the Item catalog.
// Items are the units of stock tracking: consumables, fixed assets, and
// rentable inventory offered to guests.
package item

import (
	"context"

	"github.com/shopspring/decimal"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// Item represents one stock-tracked good.
type Item struct {
	entity.Catalog

	// CategoryID is the owning category
	CategoryID id.ID `db:"category_id" json:"categoryId"`

	// Unit is the unit of measure (pcs, kg, ltr, set)
	Unit string `db:"unit" json:"unit"`

	// UnitCost is the purchase cost per unit
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// SellingPrice is the guest-facing price (nullable; required to bill)
	SellingPrice *types.Money `db:"selling_price" json:"sellingPrice,omitempty"`

	// GSTRate is the default tax rate percentage for this item
	GSTRate types.GSTRate `db:"gst_rate" json:"gstRate"`

	// ComplimentaryLimit is the free quota per occupancy; units beyond
	// the limit are treated as payable
	ComplimentaryLimit int `db:"complimentary_limit" json:"complimentaryLimit"`

	// Sellable indicates the item may be billed to guests
	Sellable bool `db:"sellable" json:"sellable"`

	// Perishable items participate in expiry-driven waste flows
	Perishable bool `db:"perishable" json:"perishable"`

	// IsFixedAsset enables per-instance tracking in the asset registry.
	// Defaults from the category classification; see reclassification sync.
	IsFixedAsset bool `db:"is_fixed_asset" json:"isFixedAsset"`

	// TrackLaundry enables the laundry cycle counter on instances
	TrackLaundry bool `db:"track_laundry" json:"trackLaundry"`

	// MaxLaundryCycles is an advisory wear limit (nullable = unbounded).
	// Exceeding it only logs a warning; retirement stays an operator action.
	MaxLaundryCycles *int `db:"max_laundry_cycles" json:"maxLaundryCycles,omitempty"`

	// CurrentStock is the cached aggregate across locations.
	// Recomputed as SUM(stock levels) inside every mutating transaction;
	// the stock ledger remains the source of truth.
	CurrentStock types.Quantity `db:"current_stock" json:"currentStock"`
}

// NewItem creates a new Item with required fields.
func NewItem(code, name string, categoryID id.ID, unit string, unitCost types.Money) *Item {
	return &Item{
		Catalog:    entity.NewCatalog(code, name),
		CategoryID: categoryID,
		Unit:       unit,
		UnitCost:   unitCost,
		GSTRate:    decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(i.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}

	if i.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if i.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}

	if i.SellingPrice != nil && i.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price cannot be negative").
			WithDetail("field", "sellingPrice")
	}

	if i.GSTRate.IsNegative() {
		return apperror.NewValidation("GST rate cannot be negative").
			WithDetail("field", "gstRate")
	}

	if i.ComplimentaryLimit < 0 {
		return apperror.NewValidation("complimentary limit cannot be negative").
			WithDetail("field", "complimentaryLimit")
	}

	if i.MaxLaundryCycles != nil && *i.MaxLaundryCycles <= 0 {
		return apperror.NewValidation("max laundry cycles must be positive").
			WithDetail("field", "maxLaundryCycles")
	}

	return nil
}

// EffectivePrice resolves the unit price for an issue line.
// Payable lines sell at selling price when one is set; everything else
// moves at cost.
func (i *Item) EffectivePrice(payable bool) types.Money {
	if payable && i.SellingPrice != nil {
		return *i.SellingPrice
	}
	return i.UnitCost
}

// Billable reports whether the item can be billed to a guest.
func (i *Item) Billable() bool {
	return i.Sellable && i.SellingPrice != nil
}
