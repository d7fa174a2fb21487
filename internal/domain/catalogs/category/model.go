// Package category provides the Category catalog.
// Categories group items and carry the default classification applied to
// new items (consumable, fixed asset, rentable).
package category

import (
	"context"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
)

// Classification defines how items of a category are tracked.
type Classification string

const (
	ClassConsumable Classification = "consumable" // quantity-tracked
	ClassAsset      Classification = "asset"      // instance-tracked with tags
	ClassRentable   Classification = "rentable"   // quantity-tracked, guest-billable
)

// Category groups items and sets their default classification.
type Category struct {
	entity.Catalog

	// Classification is the default applied to items created in this category
	Classification Classification `db:"classification" json:"classification"`

	// Department is the owning department (housekeeping, kitchen, front office)
	Department *string `db:"department" json:"department,omitempty"`

	// TrackLaundry enables laundry cycle counting for items in this category
	TrackLaundry bool `db:"track_laundry" json:"trackLaundry"`
}

// NewCategory creates a new Category with required fields.
func NewCategory(code, name string, classification Classification) *Category {
	return &Category{
		Catalog:        entity.NewCatalog(code, name),
		Classification: classification,
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidClassification(c.Classification) {
		return apperror.NewValidation("invalid classification").
			WithDetail("field", "classification").
			WithDetail("value", string(c.Classification))
	}

	return nil
}

// DefaultsToFixedAsset reports whether items of this category are
// instance-tracked by default.
func (c *Category) DefaultsToFixedAsset() bool {
	return c.Classification == ClassAsset
}

func isValidClassification(c Classification) bool {
	switch c {
	case ClassConsumable, ClassAsset, ClassRentable:
		return true
	}
	return false
}
