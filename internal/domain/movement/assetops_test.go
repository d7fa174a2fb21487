package movement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain/accounting"
	"atithi/internal/domain/assets"
	"atithi/internal/domain/catalogs/item"
	"atithi/internal/domain/catalogs/location"
)

func testFixedAssetItem(e *env, code, unitCost string, trackLaundry bool) *item.Item {
	itm := item.NewItem(code, code, id.New(), "pcs", types.MustMoney(unitCost))
	itm.IsFixedAsset = true
	itm.TrackLaundry = trackLaundry
	return e.items.add(itm)
}

func TestMintAsset(t *testing.T) {
	ctx := context.Background()

	t.Run("mints with a generated tag", func(t *testing.T) {
		e := newEnv()
		warehouse := testLocation(e, "WH-001", location.TypeWarehouse)
		kayak := testFixedAssetItem(e, "ITM-KAYAK", "18000", false)

		instance, err := e.svc.MintAsset(ctx, kayak.ID, warehouse.ID, nil, "")
		require.NoError(t, err)

		assert.Equal(t, assets.StatusActive, instance.Status)
		assert.Contains(t, instance.AssetTag, "AST-WH-001")
		require.NotNil(t, instance.CurrentLocationID)
		assert.Equal(t, warehouse.ID, *instance.CurrentLocationID)

		// Minting never writes ledger rows.
		assert.Empty(t, e.stock.txns)
	})

	t.Run("rejects non-asset items", func(t *testing.T) {
		e := newEnv()
		warehouse := testLocation(e, "WH-001", location.TypeWarehouse)
		water := testItem(e, "ITM-WATER", "18", "", "12")

		_, err := e.svc.MintAsset(ctx, water.ID, warehouse.ID, nil, "")
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("rejects duplicate tags", func(t *testing.T) {
		e := newEnv()
		warehouse := testLocation(e, "WH-001", location.TypeWarehouse)
		kayak := testFixedAssetItem(e, "ITM-KAYAK", "18000", false)

		_, err := e.svc.MintAsset(ctx, kayak.ID, warehouse.ID, nil, "TAG-1")
		require.NoError(t, err)
		_, err = e.svc.MintAsset(ctx, kayak.ID, warehouse.ID, nil, "TAG-1")
		assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
	})
}

func TestMoveAsset(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	warehouse := testLocation(e, "WH-001", location.TypeWarehouse)
	room := testLocation(e, "RM-101", location.TypeGuestRoom)
	kayak := testFixedAssetItem(e, "ITM-KAYAK", "18000", false)
	require.NoError(t, e.seedStock(ctx, warehouse.ID, kayak.ID, qty(1)))

	instance, err := e.svc.MintAsset(ctx, kayak.ID, warehouse.ID, nil, "")
	require.NoError(t, err)

	moved, err := e.svc.MoveAsset(ctx, instance.ID, room.ID)
	require.NoError(t, err)

	require.NotNil(t, moved.CurrentLocationID)
	assert.Equal(t, room.ID, *moved.CurrentLocationID)

	// The instance move carries one unit of aggregate stock with it.
	assert.Equal(t, qty(0), e.level(ctx, warehouse.ID, kayak.ID))
	assert.Equal(t, qty(1), e.level(ctx, room.ID, kayak.ID))
	assert.Empty(t, e.journal.entries)
}

func TestRetireAsset(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	warehouse := testLocation(e, "WH-001", location.TypeWarehouse)
	towel := testFixedAssetItem(e, "ITM-TOWEL", "450", true)
	require.NoError(t, e.seedStock(ctx, warehouse.ID, towel.ID, qty(5)))

	instance, err := e.svc.MintAsset(ctx, towel.ID, warehouse.ID, nil, "")
	require.NoError(t, err)

	retired, err := e.svc.RetireAsset(ctx, instance.ID, "torn beyond repair")
	require.NoError(t, err)

	assert.Equal(t, assets.StatusWrittenOff, retired.Status)
	assert.Nil(t, retired.CurrentLocationID)

	// One unit leaves the aggregate, cost goes to the loss ledger.
	assert.Equal(t, qty(4), e.level(ctx, warehouse.ID, towel.ID))
	entry := e.entryFor(accounting.RefWriteOff, instance.ID)
	require.NotNil(t, entry)
	assert.True(t, entry.TotalDebit.Equal(types.MustMoney("450")))

	// Terminal: no further moves.
	_, err = e.svc.MoveAsset(ctx, instance.ID, warehouse.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeStateConflict))
}

func TestLaundryRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	warehouse := testLocation(e, "WH-001", location.TypeWarehouse)
	queue := testLocation(e, "LQ-001", location.TypeLaundryQueue)
	towel := testFixedAssetItem(e, "ITM-TOWEL", "450", true)
	require.NoError(t, e.seedStock(ctx, warehouse.ID, towel.ID, qty(1)))

	instance, err := e.svc.MintAsset(ctx, towel.ID, warehouse.ID, nil, "")
	require.NoError(t, err)

	sent, err := e.svc.SendToLaundry(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sent.LaundryCycles)
	assert.Equal(t, queue.ID, *sent.CurrentLocationID)
	assert.Equal(t, qty(1), e.level(ctx, queue.ID, towel.ID))

	back, err := e.svc.ReturnFromLaundry(ctx, instance.ID, warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, warehouse.ID, *back.CurrentLocationID)
	assert.Equal(t, qty(1), e.level(ctx, warehouse.ID, towel.ID))
	assert.Equal(t, qty(0), e.level(ctx, queue.ID, towel.ID))

	// Another trip bumps the counter again.
	sent, err = e.svc.SendToLaundry(ctx, instance.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sent.LaundryCycles)
}

func TestSendToLaundryRequiresTracking(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	warehouse := testLocation(e, "WH-001", location.TypeWarehouse)
	testLocation(e, "LQ-001", location.TypeLaundryQueue)
	kayak := testFixedAssetItem(e, "ITM-KAYAK", "18000", false)

	instance, err := e.svc.MintAsset(ctx, kayak.ID, warehouse.ID, nil, "")
	require.NoError(t, err)

	_, err = e.svc.SendToLaundry(ctx, instance.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestIssueCarriesAssetInstances(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	warehouse := testLocation(e, "WH-001", location.TypeWarehouse)
	room := testLocation(e, "RM-101", location.TypeGuestRoom)
	towel := testFixedAssetItem(e, "ITM-TOWEL", "450", true)
	require.NoError(t, e.seedStock(ctx, warehouse.ID, towel.ID, qty(2)))

	first, err := e.svc.MintAsset(ctx, towel.ID, warehouse.ID, nil, "")
	require.NoError(t, err)
	second, err := e.svc.MintAsset(ctx, towel.ID, warehouse.ID, nil, "")
	require.NoError(t, err)

	roomID := room.ID
	_, err = e.svc.CreateIssue(ctx, IssueRequest{
		SourceLocationID:      warehouse.ID,
		DestinationLocationID: &roomID,
		IssuedBy:              "housekeeping",
		Lines: []IssueLineRequest{{
			ItemID:           towel.ID,
			Quantity:         qty(2),
			AssetInstanceIDs: []id.ID{first.ID, second.ID},
		}},
	})
	require.NoError(t, err)

	moved, err := e.assetRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, *moved.CurrentLocationID)

	t.Run("instance must sit at the source", func(t *testing.T) {
		require.NoError(t, e.seedStock(ctx, warehouse.ID, towel.ID, qty(1)))
		_, err := e.svc.CreateIssue(ctx, IssueRequest{
			SourceLocationID:      warehouse.ID,
			DestinationLocationID: &roomID,
			IssuedBy:              "housekeeping",
			Lines: []IssueLineRequest{{
				ItemID:           towel.ID,
				Quantity:         qty(1),
				AssetInstanceIDs: []id.ID{first.ID},
			}},
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeAssetNotAtSource))
	})

	t.Run("instances cannot be consumed", func(t *testing.T) {
		_, err := e.svc.CreateIssue(ctx, IssueRequest{
			SourceLocationID: room.ID,
			IssuedBy:         "housekeeping",
			Lines: []IssueLineRequest{{
				ItemID:           towel.ID,
				Quantity:         qty(1),
				AssetInstanceIDs: []id.ID{first.ID},
			}},
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})
}
