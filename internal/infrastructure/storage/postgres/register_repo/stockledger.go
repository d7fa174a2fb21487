// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain/registers/stockledger"
	"atithi/internal/infrastructure/storage/postgres"
)

const (
	stockTransactionsTable = "reg_stock_transactions"
	stockLevelsTable       = "reg_stock_levels"
)

var stockTxnColumns = []string{
	"line_id", "recorder_id", "recorder_type", "recorder_version",
	"period", "record_type",
	"location_id", "item_id", "kind", "counter_location_id",
	"quantity", "created_at",
}

// StockLedgerRepo implements stockledger.Repository.
// TxManager is obtained from context per-request.
type StockLedgerRepo struct {
	builder squirrel.StatementBuilderType
}

// NewStockLedgerRepo creates a new stock ledger repository.
func NewStockLedgerRepo() *StockLedgerRepo {
	return &StockLedgerRepo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// getTxManager retrieves TxManager from context.
func (r *StockLedgerRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// CreateTransactions batch inserts ledger rows.
func (r *StockLedgerRepo) CreateTransactions(ctx context.Context, txns []entity.StockTransaction) error {
	if len(txns) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	txm := r.getTxManager(ctx)
	if tx := txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(txm)
		rows := make([][]any, 0, len(txns))
		for _, t := range txns {
			rows = append(rows, []any{
				t.LineID, t.RecorderID, t.RecorderType, t.RecorderVersion,
				t.Period, t.RecordType,
				t.LocationID, t.ItemID, t.Kind, t.CounterLocationID,
				t.Quantity, t.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockTransactionsTable, stockTxnColumns, rows); err != nil {
			return fmt.Errorf("copy transactions: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert (slower). Prefer calling within tx.
	q := r.builder.Insert(stockTransactionsTable).Columns(stockTxnColumns...)
	for _, t := range txns {
		q = q.Values(
			t.LineID, t.RecorderID, t.RecorderType, t.RecorderVersion,
			t.Period, t.RecordType,
			t.LocationID, t.ItemID, t.Kind, t.CounterLocationID,
			t.Quantity, t.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := txm.GetQuerier(ctx)
	if _, err = querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}

	return nil
}

// DeleteTransactionsByRecorder removes ledger rows for a document version.
func (r *StockLedgerRepo) DeleteTransactionsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	q := r.builder.Delete(stockTransactionsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		Where(squirrel.Lt{"recorder_version": beforeVersion})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err = querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}

	return nil
}

// GetTransactionsByRecorder retrieves ledger rows for a document.
func (r *StockLedgerRepo) GetTransactionsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockTransaction, error) {
	q := r.builder.Select(stockTxnColumns...).
		From(stockTransactionsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var txns []entity.StockTransaction
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &txns, sql, args...); err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}

	return txns, nil
}

// GetLevel returns current on-hand quantity for location+item.
func (r *StockLedgerRepo) GetLevel(ctx context.Context, locationID, itemID id.ID) (entity.StockLevel, error) {
	var level entity.StockLevel

	q := r.builder.Select(
		"location_id", "item_id",
		"quantity", "last_movement_at", "updated_at",
	).From(stockLevelsTable).
		Where(squirrel.Eq{
			"location_id": locationID,
			"item_id":     itemID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return level, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &level, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockLevel{
				LocationID: locationID,
				ItemID:     itemID,
				Quantity:   0,
			}, nil
		}
		return level, fmt.Errorf("get level: %w", err)
	}

	return level, nil
}

// GetLevelForUpdate returns the level with a pessimistic lock.
// Missing dimensions come back as zero without a lock; callers that need
// a guaranteed lock on a fresh dimension go through LockLevels first.
func (r *StockLedgerRepo) GetLevelForUpdate(ctx context.Context, locationID, itemID id.ID) (entity.StockLevel, error) {
	var level entity.StockLevel

	sql := `
		SELECT location_id, item_id, quantity, last_movement_at, updated_at
		FROM reg_stock_levels
		WHERE location_id = $1 AND item_id = $2
		FOR UPDATE
	`

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := pgxscan.Get(ctx, querier, &level, sql, locationID, itemID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockLevel{
				LocationID: locationID,
				ItemID:     itemID,
				Quantity:   0,
			}, nil
		}
		return level, fmt.Errorf("get level for update: %w", err)
	}

	return level, nil
}

// LockLevels acquires row locks for the keys in the given order, inserting
// zero rows for dimensions that do not exist yet. Callers pass keys sorted
// ascending so concurrent posters lock in the same order.
func (r *StockLedgerRepo) LockLevels(ctx context.Context, keys []stockledger.LevelKey) error {
	if len(keys) == 0 {
		return nil
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)

	insertSQL := `
		INSERT INTO reg_stock_levels (location_id, item_id, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, 0, NOW(), NOW())
		ON CONFLICT (location_id, item_id) DO NOTHING
	`
	lockSQL := `
		SELECT quantity FROM reg_stock_levels
		WHERE location_id = $1 AND item_id = $2
		FOR UPDATE
	`

	for _, k := range keys {
		if _, err := querier.Exec(ctx, insertSQL, k.LocationID, k.ItemID); err != nil {
			return fmt.Errorf("ensure level row: %w", err)
		}
		var q int64
		if err := querier.QueryRow(ctx, lockSQL, k.LocationID, k.ItemID).Scan(&q); err != nil {
			return fmt.Errorf("lock level row: %w", err)
		}
	}

	return nil
}

// SyncLevels recomputes the cached level for each key from the ledger sum.
// Runs inside the transaction that changed the rows, so the level can never
// drift from the ledger.
func (r *StockLedgerRepo) SyncLevels(ctx context.Context, keys []stockledger.LevelKey) error {
	if len(keys) == 0 {
		return nil
	}

	sql := `
		UPDATE reg_stock_levels l
		SET quantity = COALESCE(agg.qty, 0),
		    last_movement_at = COALESCE(agg.last_at, l.last_movement_at),
		    updated_at = NOW()
		FROM (
			SELECT
				COALESCE(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END), 0) AS qty,
				MAX(created_at) AS last_at
			FROM reg_stock_transactions
			WHERE location_id = $1 AND item_id = $2
		) agg
		WHERE l.location_id = $1 AND l.item_id = $2
	`

	// Level syncs run inside the posting transaction; one round trip
	// covers all touched dimensions.
	txm := r.getTxManager(ctx)
	if tx := txm.GetTx(ctx); tx != nil {
		queries := make([]postgres.BatchQuery, 0, len(keys))
		for _, k := range keys {
			queries = append(queries, postgres.BatchQuery{
				SQL:  sql,
				Args: []any{k.LocationID, k.ItemID},
			})
		}
		if err := postgres.NewBatchExecutor(txm).ExecuteBatch(ctx, queries); err != nil {
			return fmt.Errorf("sync levels: %w", err)
		}
		return nil
	}

	querier := txm.GetQuerier(ctx)
	for _, k := range keys {
		if _, err := querier.Exec(ctx, sql, k.LocationID, k.ItemID); err != nil {
			return fmt.Errorf("sync level: %w", err)
		}
	}

	return nil
}

// GetLevelsByLocation returns levels for a location.
func (r *StockLedgerRepo) GetLevelsByLocation(ctx context.Context, locationID id.ID, filter stockledger.LevelFilter) ([]entity.StockLevel, error) {
	q := r.builder.Select(
		"location_id", "item_id",
		"quantity", "last_movement_at", "updated_at",
	).From(stockLevelsTable).
		Where(squirrel.Eq{"location_id": locationID})

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"item_id": filter.ItemIDs})
	}

	if filter.MinQuantity != nil {
		q = q.Where(squirrel.GtOrEq{"quantity": filter.MinQuantity.Int64Scaled()})
	}

	if filter.MaxQuantity != nil {
		q = q.Where(squirrel.LtOrEq{"quantity": filter.MaxQuantity.Int64Scaled()})
	}

	q = q.OrderBy("item_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var levels []entity.StockLevel
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &levels, sql, args...); err != nil {
		return nil, fmt.Errorf("select levels: %w", err)
	}

	return levels, nil
}

// GetLevelsByItem returns levels for an item across locations.
func (r *StockLedgerRepo) GetLevelsByItem(ctx context.Context, itemID id.ID) ([]entity.StockLevel, error) {
	q := r.builder.Select(
		"location_id", "item_id",
		"quantity", "last_movement_at", "updated_at",
	).From(stockLevelsTable).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.NotEq{"quantity": int64(0)}).
		OrderBy("location_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var levels []entity.StockLevel
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &levels, sql, args...); err != nil {
		return nil, fmt.Errorf("select levels: %w", err)
	}

	return levels, nil
}

// ListLevelKeysByItem returns every level dimension for an item,
// including zero rows.
func (r *StockLedgerRepo) ListLevelKeysByItem(ctx context.Context, itemID id.ID) ([]stockledger.LevelKey, error) {
	q := r.builder.Select("location_id", "item_id").
		From(stockLevelsTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("location_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var keys []stockledger.LevelKey
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select level keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k stockledger.LevelKey
		if err := rows.Scan(&k.LocationID, &k.ItemID); err != nil {
			return nil, fmt.Errorf("scan level key: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// GetLevelAtDate calculates on-hand quantity as of a specific date.
func (r *StockLedgerRepo) GetLevelAtDate(ctx context.Context, locationID, itemID id.ID, date time.Time) (types.Quantity, error) {
	sql := `
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_transactions
		WHERE location_id = $1
		  AND item_id = $2
		  AND period <= $3
	`

	var scaled int64
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, locationID, itemID, date).Scan(&scaled)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("calculate level at date: %w", err)
	}

	return types.NewQuantityFromInt64Scaled(scaled), nil
}

// GetLastTransferSource returns the counter location of the most recent
// transfer_in row for location+item.
func (r *StockLedgerRepo) GetLastTransferSource(ctx context.Context, locationID, itemID id.ID) (id.ID, error) {
	sql := `
		SELECT counter_location_id
		FROM reg_stock_transactions
		WHERE location_id = $1
		  AND item_id = $2
		  AND kind = 'transfer_in'
		  AND counter_location_id IS NOT NULL
		ORDER BY period DESC, created_at DESC
		LIMIT 1
	`

	var source id.ID
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, locationID, itemID).Scan(&source)
	if err != nil {
		if err == pgx.ErrNoRows {
			return id.Nil(), nil
		}
		return id.Nil(), fmt.Errorf("get last transfer source: %w", err)
	}

	return source, nil
}

// GetTransactionHistory returns ledger history for an item.
func (r *StockLedgerRepo) GetTransactionHistory(ctx context.Context, itemID id.ID, filter stockledger.TransactionFilter) ([]entity.StockTransaction, error) {
	q := r.builder.Select(stockTxnColumns...).
		From(stockTransactionsTable).
		Where(squirrel.Eq{"item_id": itemID})

	if filter.LocationID != nil {
		q = q.Where(squirrel.Eq{"location_id": *filter.LocationID})
	}

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var txns []entity.StockTransaction
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &txns, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return txns, nil
}

// GetTurnover calculates receipt/expense totals for a period.
func (r *StockLedgerRepo) GetTurnover(ctx context.Context, filter stockledger.TurnoverFilter) (stockledger.Turnover, error) {
	var result stockledger.Turnover

	args := []any{filter.FromDate, filter.ToDate}
	baseConditions := "period >= $1 AND period < $2"
	argIndex := 3

	if filter.LocationID != nil {
		baseConditions += fmt.Sprintf(" AND location_id = $%d", argIndex)
		args = append(args, *filter.LocationID)
		result.LocationID = *filter.LocationID
		argIndex++
	}

	if filter.ItemID != nil {
		baseConditions += fmt.Sprintf(" AND item_id = $%d", argIndex)
		args = append(args, *filter.ItemID)
		result.ItemID = *filter.ItemID
		argIndex++
	}

	sql := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE 0 END), 0) as receipt,
			COALESCE(SUM(CASE WHEN record_type = 'expense' THEN quantity ELSE 0 END), 0) as expense
		FROM reg_stock_transactions
		WHERE %s
	`, baseConditions)

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	var receiptScaled, expenseScaled int64
	err := querier.QueryRow(ctx, sql, args...).Scan(&receiptScaled, &expenseScaled)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate turnover: %w", err)
	}
	result.Receipt = types.NewQuantityFromInt64Scaled(receiptScaled)
	result.Expense = types.NewQuantityFromInt64Scaled(expenseScaled)

	// Opening balance
	openingArgs := []any{filter.FromDate}
	openingConditions := "period < $1"
	argIndex = 2

	if filter.LocationID != nil {
		openingConditions += fmt.Sprintf(" AND location_id = $%d", argIndex)
		openingArgs = append(openingArgs, *filter.LocationID)
		argIndex++
	}

	if filter.ItemID != nil {
		openingConditions += fmt.Sprintf(" AND item_id = $%d", argIndex)
		openingArgs = append(openingArgs, *filter.ItemID)
	}

	openingSQL := fmt.Sprintf(`
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_transactions
		WHERE %s
	`, openingConditions)

	var openingScaled int64
	err = querier.QueryRow(ctx, openingSQL, openingArgs...).Scan(&openingScaled)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate opening balance: %w", err)
	}
	result.OpeningBalance = types.NewQuantityFromInt64Scaled(openingScaled)

	result.ClosingBalance = result.OpeningBalance + result.Receipt - result.Expense

	return result, nil
}

// Ensure interface compliance.
var _ stockledger.Repository = (*StockLedgerRepo)(nil)
