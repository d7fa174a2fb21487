package stockledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// fakeRepo keeps ledger rows in memory and derives levels from their sum,
// mirroring the SyncLevels contract of the real repository.
type fakeRepo struct {
	txns   []entity.StockTransaction
	levels map[LevelKey]entity.StockLevel
	locked []LevelKey
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{levels: make(map[LevelKey]entity.StockLevel)}
}

func (r *fakeRepo) CreateTransactions(ctx context.Context, txns []entity.StockTransaction) error {
	r.txns = append(r.txns, txns...)
	return nil
}

func (r *fakeRepo) DeleteTransactionsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	kept := r.txns[:0]
	for _, t := range r.txns {
		if t.RecorderID == recorderID && t.RecorderVersion < beforeVersion {
			continue
		}
		kept = append(kept, t)
	}
	r.txns = kept
	return nil
}

func (r *fakeRepo) GetTransactionsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockTransaction, error) {
	var out []entity.StockTransaction
	for _, t := range r.txns {
		if t.RecorderID == recorderID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetLevel(ctx context.Context, locationID, itemID id.ID) (entity.StockLevel, error) {
	key := LevelKey{LocationID: locationID, ItemID: itemID}
	if level, ok := r.levels[key]; ok {
		return level, nil
	}
	return entity.StockLevel{LocationID: locationID, ItemID: itemID}, nil
}

func (r *fakeRepo) GetLevelForUpdate(ctx context.Context, locationID, itemID id.ID) (entity.StockLevel, error) {
	return r.GetLevel(ctx, locationID, itemID)
}

func (r *fakeRepo) LockLevels(ctx context.Context, keys []LevelKey) error {
	r.locked = append(r.locked, keys...)
	return nil
}

func (r *fakeRepo) SyncLevels(ctx context.Context, keys []LevelKey) error {
	for _, k := range keys {
		var total types.Quantity
		for _, t := range r.txns {
			if t.LocationID == k.LocationID && t.ItemID == k.ItemID {
				total += t.SignedQuantity()
			}
		}
		r.levels[k] = entity.StockLevel{
			LocationID:     k.LocationID,
			ItemID:         k.ItemID,
			Quantity:       total,
			LastMovementAt: time.Now().UTC(),
			UpdatedAt:      time.Now().UTC(),
		}
	}
	return nil
}

func (r *fakeRepo) GetLevelsByLocation(ctx context.Context, locationID id.ID, filter LevelFilter) ([]entity.StockLevel, error) {
	var out []entity.StockLevel
	for _, l := range r.levels {
		if l.LocationID != locationID {
			continue
		}
		if filter.ExcludeZero && l.Quantity.IsZero() {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeRepo) GetLevelsByItem(ctx context.Context, itemID id.ID) ([]entity.StockLevel, error) {
	var out []entity.StockLevel
	for _, l := range r.levels {
		if l.ItemID == itemID && !l.Quantity.IsZero() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListLevelKeysByItem(ctx context.Context, itemID id.ID) ([]LevelKey, error) {
	var out []LevelKey
	for k := range r.levels {
		if k.ItemID == itemID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetLevelAtDate(ctx context.Context, locationID, itemID id.ID, date time.Time) (types.Quantity, error) {
	var total types.Quantity
	for _, t := range r.txns {
		if t.LocationID == locationID && t.ItemID == itemID && !t.Period.After(date) {
			total += t.SignedQuantity()
		}
	}
	return total, nil
}

func (r *fakeRepo) GetLastTransferSource(ctx context.Context, locationID, itemID id.ID) (id.ID, error) {
	for i := len(r.txns) - 1; i >= 0; i-- {
		t := r.txns[i]
		if t.LocationID == locationID && t.ItemID == itemID &&
			t.Kind == entity.TxnKindTransferIn && t.CounterLocationID != nil {
			return *t.CounterLocationID, nil
		}
	}
	return id.Nil(), nil
}

func (r *fakeRepo) GetTransactionHistory(ctx context.Context, itemID id.ID, filter TransactionFilter) ([]entity.StockTransaction, error) {
	var out []entity.StockTransaction
	for _, t := range r.txns {
		if t.ItemID == itemID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return Turnover{}, nil
}

var _ Repository = (*fakeRepo)(nil)

func units(n int64) types.Quantity {
	return types.Quantity(n * types.QuantityScale)
}

func inbound(recorder, location, item id.ID, qty types.Quantity) entity.StockTransaction {
	return entity.NewStockTransaction(recorder, "PurchaseOrder", 1, time.Now().UTC(), entity.TxnKindIn, location, item, qty)
}

func outbound(recorder, location, item id.ID, qty types.Quantity) entity.StockTransaction {
	return entity.NewStockTransaction(recorder, "StockIssue", 1, time.Now().UTC(), entity.TxnKindOut, location, item, qty)
}

func TestRecordValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	location, item := id.New(), id.New()

	t.Run("quantity must be positive", func(t *testing.T) {
		txn := inbound(id.New(), location, item, 0)
		err := svc.Record(ctx, []entity.StockTransaction{txn})
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		txn := inbound(id.New(), location, item, units(1))
		txn.Kind = "teleport"
		err := svc.Record(ctx, []entity.StockTransaction{txn})
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("recorder required", func(t *testing.T) {
		txn := inbound(id.Nil(), location, item, units(1))
		err := svc.Record(ctx, []entity.StockTransaction{txn})
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		require.NoError(t, svc.Record(ctx, nil))
	})
}

func TestRecordRejectsNegativeLevels(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	location, item := id.New(), id.New()

	require.NoError(t, svc.Record(ctx, []entity.StockTransaction{
		inbound(id.New(), location, item, units(3)),
	}))

	err := svc.Record(ctx, []entity.StockTransaction{
		outbound(id.New(), location, item, units(5)),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	// Nothing was written for the rejected batch.
	level, err := svc.GetLevel(ctx, location, item)
	require.NoError(t, err)
	assert.Equal(t, units(3), level.Quantity)
	assert.Len(t, repo.txns, 1)
}

func TestRecordNetsOutflowsWithinBatch(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	recorder := id.New()
	warehouse, kitchen := id.New(), id.New()
	item := id.New()

	require.NoError(t, svc.Record(ctx, []entity.StockTransaction{
		inbound(id.New(), warehouse, item, units(2)),
	}))

	// Both transfer legs land in one batch: the destination receipt must
	// not be blocked by its zero starting level.
	out := entity.NewStockTransaction(recorder, "StockIssue", 1, time.Now().UTC(), entity.TxnKindTransferOut, warehouse, item, units(2))
	out.CounterLocationID = &kitchen
	in := entity.NewStockTransaction(recorder, "StockIssue", 1, time.Now().UTC(), entity.TxnKindTransferIn, kitchen, item, units(2))
	in.CounterLocationID = &warehouse
	require.NoError(t, svc.Record(ctx, []entity.StockTransaction{out, in}))

	whLevel, err := svc.GetLevel(ctx, warehouse, item)
	require.NoError(t, err)
	assert.True(t, whLevel.Quantity.IsZero())

	ktLevel, err := svc.GetLevel(ctx, kitchen, item)
	require.NoError(t, err)
	assert.Equal(t, units(2), ktLevel.Quantity)

	source, err := svc.GetLastTransferSource(ctx, kitchen, item)
	require.NoError(t, err)
	assert.Equal(t, warehouse, source)
}

func TestReverseRestoresLevels(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	location, item := id.New(), id.New()
	issue := id.New()

	require.NoError(t, svc.Record(ctx, []entity.StockTransaction{
		inbound(id.New(), location, item, units(10)),
	}))
	require.NoError(t, svc.Record(ctx, []entity.StockTransaction{
		outbound(issue, location, item, units(4)),
	}))

	level, err := svc.GetLevel(ctx, location, item)
	require.NoError(t, err)
	assert.Equal(t, units(6), level.Quantity)

	require.NoError(t, svc.Reverse(ctx, issue, 2))

	level, err = svc.GetLevel(ctx, location, item)
	require.NoError(t, err)
	assert.Equal(t, units(10), level.Quantity)
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	location, item := id.New(), id.New()

	require.NoError(t, svc.Record(ctx, []entity.StockTransaction{
		inbound(id.New(), location, item, units(5)),
	}))

	err := svc.CheckAvailability(ctx, []Requirement{
		{LocationID: location, ItemID: item, RequiredQty: units(5)},
	})
	assert.NoError(t, err)

	err = svc.CheckAvailability(ctx, []Requirement{
		{LocationID: location, ItemID: item, RequiredQty: units(6)},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
}

func TestRebuildFromJournal(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	location, item := id.New(), id.New()

	require.NoError(t, svc.Record(ctx, []entity.StockTransaction{
		inbound(id.New(), location, item, units(7)),
	}))

	// Drift the cached level away from the ledger sum.
	key := LevelKey{LocationID: location, ItemID: item}
	drifted := repo.levels[key]
	drifted.Quantity = units(1)
	repo.levels[key] = drifted

	total, err := svc.RebuildFromJournal(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, units(7), total)
	assert.Equal(t, units(7), repo.levels[key].Quantity)
}
