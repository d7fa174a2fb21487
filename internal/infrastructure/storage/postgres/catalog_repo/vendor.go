package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"atithi/internal/core/apperror"
	"atithi/internal/domain/catalogs/vendor"
	"atithi/internal/infrastructure/storage/postgres"
)

const vendorTable = "cat_vendors"

// VendorRepo implements vendor.Repository.
type VendorRepo struct {
	*BaseCatalogRepo[*vendor.Vendor]
}

// NewVendorRepo creates a new vendor repository.
func NewVendorRepo() *VendorRepo {
	return &VendorRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*vendor.Vendor](
			vendorTable,
			postgres.ExtractDBColumns[vendor.Vendor](),
			func() *vendor.Vendor { return &vendor.Vendor{} },
		),
	}
}

// FindByGSTIN retrieves a vendor by GSTIN.
func (r *VendorRepo) FindByGSTIN(ctx context.Context, gstin string) (*vendor.Vendor, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"gstin": gstin}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	v, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("vendor", gstin)
		}
		return nil, err
	}
	return v, nil
}
