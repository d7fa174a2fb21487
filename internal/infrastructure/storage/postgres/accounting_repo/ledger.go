// Package accounting_repo provides PostgreSQL implementations for the
// accounting repositories.
package accounting_repo

import (
	"context"
	"fmt"

	"atithi/internal/domain"
	"atithi/internal/domain/accounting"
	"atithi/internal/infrastructure/storage/postgres"
	"atithi/internal/infrastructure/storage/postgres/catalog_repo"
)

const (
	accountGroupsTable = "acc_account_groups"
	ledgersTable       = "acc_ledgers"
)

// AccountGroupRepo implements accounting.GroupRepository.
type AccountGroupRepo struct {
	*catalog_repo.BaseCatalogRepo[*accounting.AccountGroup]
}

// NewAccountGroupRepo creates a new account group repository.
func NewAccountGroupRepo() *AccountGroupRepo {
	return &AccountGroupRepo{
		BaseCatalogRepo: catalog_repo.NewBaseCatalogRepo(
			accountGroupsTable,
			postgres.ExtractDBColumns[accounting.AccountGroup](),
			func() *accounting.AccountGroup { return &accounting.AccountGroup{} },
		),
	}
}

var _ accounting.GroupRepository = (*AccountGroupRepo)(nil)

// LedgerRepo implements accounting.LedgerRepository.
type LedgerRepo struct {
	*catalog_repo.BaseCatalogRepo[*accounting.Ledger]
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo() *LedgerRepo {
	return &LedgerRepo{
		BaseCatalogRepo: catalog_repo.NewBaseCatalogRepo(
			ledgersTable,
			postgres.ExtractDBColumns[accounting.Ledger](),
			func() *accounting.Ledger { return &accounting.Ledger{} },
		),
	}
}

var _ accounting.LedgerRepository = (*LedgerRepo)(nil)

// GetChart loads every active ledger.
func (r *LedgerRepo) GetChart(ctx context.Context) ([]*accounting.Ledger, error) {
	result, err := r.List(ctx, domain.ListFilter{OrderBy: "code"})
	if err != nil {
		return nil, fmt.Errorf("load chart: %w", err)
	}
	return result.Items, nil
}
