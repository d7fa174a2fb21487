package movement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain/accounting"
	"atithi/internal/domain/catalogs/item"
	"atithi/internal/domain/catalogs/location"
	"atithi/internal/domain/catalogs/vendor"
	"atithi/internal/domain/documents/purchase"
	"atithi/internal/domain/documents/stockissue"
)

func qty(v float64) types.Quantity {
	return types.NewQuantityFromFloat64(v)
}

func testItem(e *env, code string, unitCost, sellingPrice, gstRate string) *item.Item {
	itm := item.NewItem(code, code, id.New(), "pcs", types.MustMoney(unitCost))
	if sellingPrice != "" {
		price := types.MustMoney(sellingPrice)
		itm.SellingPrice = &price
		itm.Sellable = true
	}
	itm.GSTRate = types.MustMoney(gstRate)
	return e.items.add(itm)
}

func testLocation(e *env, code string, locType location.LocationType) *location.Location {
	return e.locations.add(location.NewLocation(code, code, locType))
}

func testVendor(e *env, code, gstin string) *vendor.Vendor {
	v := vendor.NewVendor(code, code)
	if gstin != "" {
		v.GSTIN = &gstin
	}
	return e.vendors.add(v)
}

func TestIssueTransactions(t *testing.T) {
	svc := NewService(ServiceConfig{})
	source := id.New()
	itemID := id.New()

	t.Run("consumption is a single expense leg", func(t *testing.T) {
		doc := stockissue.NewStockIssue(source, nil, "chef")
		doc.Kind = stockissue.KindConsumption
		doc.AddLine(itemID, qty(3), types.MustMoney("18"), false, nil)

		txns, touched := svc.issueTransactions(doc)

		require.Len(t, txns, 1)
		assert.Equal(t, entity.TxnKindOut, txns[0].Kind)
		assert.Equal(t, source, txns[0].LocationID)
		assert.Nil(t, txns[0].CounterLocationID)
		assert.Contains(t, touched, itemID)
	})

	t.Run("transfer is a paired out and in", func(t *testing.T) {
		dest := id.New()
		doc := stockissue.NewStockIssue(source, &dest, "storekeeper")
		doc.Kind = stockissue.KindTransfer
		doc.AddLine(itemID, qty(5), types.MustMoney("18"), false, nil)

		txns, _ := svc.issueTransactions(doc)

		require.Len(t, txns, 2)
		out, in := txns[0], txns[1]
		assert.Equal(t, entity.TxnKindTransferOut, out.Kind)
		assert.Equal(t, source, out.LocationID)
		require.NotNil(t, out.CounterLocationID)
		assert.Equal(t, dest, *out.CounterLocationID)

		assert.Equal(t, entity.TxnKindTransferIn, in.Kind)
		assert.Equal(t, dest, in.LocationID)
		require.NotNil(t, in.CounterLocationID)
		assert.Equal(t, source, *in.CounterLocationID)

		// Signed sum is zero: transfers never change global quantity.
		assert.Equal(t, types.Quantity(0), out.SignedQuantity()+in.SignedQuantity())
	})
}

func TestCreateIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("consumption books COGS at cost", func(t *testing.T) {
		e := newEnv()
		kitchen := testLocation(e, "KT-001", location.TypeKitchen)
		water := testItem(e, "ITM-WATER", "18", "30", "12")
		require.NoError(t, e.seedStock(ctx, kitchen.ID, water.ID, qty(10)))

		doc, err := e.svc.CreateIssue(ctx, IssueRequest{
			SourceLocationID: kitchen.ID,
			IssuedBy:         "chef",
			Lines:            []IssueLineRequest{{ItemID: water.ID, Quantity: qty(4)}},
		})
		require.NoError(t, err)

		assert.Equal(t, stockissue.KindConsumption, doc.Kind)
		assert.Equal(t, "ISS-001", doc.Number)
		assert.Equal(t, qty(6), e.level(ctx, kitchen.ID, water.ID))
		assert.Equal(t, qty(6), e.items.stock[water.ID])

		entry := e.entryFor(accounting.RefConsumption, doc.ID)
		require.NotNil(t, entry)
		assert.True(t, entry.TotalDebit.Equal(types.MustMoney("72")))
		assert.True(t, entry.Balanced())
	})

	t.Run("guest room destination classifies as allocation", func(t *testing.T) {
		e := newEnv()
		store := testLocation(e, "BS-001", location.TypeBranchStore)
		room := testLocation(e, "RM-101", location.TypeGuestRoom)
		soap := testItem(e, "ITM-SOAP", "22.5", "", "18")
		require.NoError(t, e.seedStock(ctx, store.ID, soap.ID, qty(20)))

		roomID := room.ID
		doc, err := e.svc.CreateIssue(ctx, IssueRequest{
			SourceLocationID:      store.ID,
			DestinationLocationID: &roomID,
			IssuedBy:              "housekeeping",
			Lines:                 []IssueLineRequest{{ItemID: soap.ID, Quantity: qty(2)}},
		})
		require.NoError(t, err)

		assert.Equal(t, stockissue.KindAllocation, doc.Kind)
		assert.Equal(t, qty(18), e.level(ctx, store.ID, soap.ID))
		assert.Equal(t, qty(2), e.level(ctx, room.ID, soap.ID))
		// Global quantity unchanged.
		assert.Equal(t, qty(20), e.items.stock[soap.ID])

		// Allocations bill at checkout, not now.
		assert.Nil(t, e.entryFor(accounting.RefConsumption, doc.ID))
	})

	t.Run("other destination classifies as transfer", func(t *testing.T) {
		e := newEnv()
		central := testLocation(e, "CW-001", location.TypeCentralWarehouse)
		kitchen := testLocation(e, "KT-001", location.TypeKitchen)
		rice := testItem(e, "ITM-RICE", "55", "", "5")
		require.NoError(t, e.seedStock(ctx, central.ID, rice.ID, qty(100)))

		kitchenID := kitchen.ID
		doc, err := e.svc.CreateIssue(ctx, IssueRequest{
			SourceLocationID:      central.ID,
			DestinationLocationID: &kitchenID,
			IssuedBy:              "storekeeper",
			Lines:                 []IssueLineRequest{{ItemID: rice.ID, Quantity: qty(25)}},
		})
		require.NoError(t, err)

		assert.Equal(t, stockissue.KindTransfer, doc.Kind)
		assert.Equal(t, qty(75), e.level(ctx, central.ID, rice.ID))
		assert.Equal(t, qty(25), e.level(ctx, kitchen.ID, rice.ID))
		assert.Nil(t, e.entryFor(accounting.RefConsumption, doc.ID))
	})

	t.Run("insufficient stock fails the whole issue", func(t *testing.T) {
		e := newEnv()
		kitchen := testLocation(e, "KT-001", location.TypeKitchen)
		water := testItem(e, "ITM-WATER", "18", "", "12")
		require.NoError(t, e.seedStock(ctx, kitchen.ID, water.ID, qty(3)))

		_, err := e.svc.CreateIssue(ctx, IssueRequest{
			SourceLocationID: kitchen.ID,
			IssuedBy:         "chef",
			Lines:            []IssueLineRequest{{ItemID: water.ID, Quantity: qty(5)}},
		})
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
		assert.Empty(t, e.issues.rows)
		assert.Equal(t, qty(3), e.level(ctx, kitchen.ID, water.ID))
	})

	t.Run("payable lines price at selling price", func(t *testing.T) {
		e := newEnv()
		store := testLocation(e, "BS-001", location.TypeBranchStore)
		room := testLocation(e, "RM-101", location.TypeGuestRoom)
		water := testItem(e, "ITM-WATER", "18", "30", "12")
		require.NoError(t, e.seedStock(ctx, store.ID, water.ID, qty(10)))

		roomID := room.ID
		rental := types.MustMoney("150")
		doc, err := e.svc.CreateIssue(ctx, IssueRequest{
			SourceLocationID:      store.ID,
			DestinationLocationID: &roomID,
			IssuedBy:              "housekeeping",
			Lines: []IssueLineRequest{
				{ItemID: water.ID, Quantity: qty(2), IsPayable: true},
				{ItemID: water.ID, Quantity: qty(1), IsPayable: true, RentalPrice: &rental},
				{ItemID: water.ID, Quantity: qty(1)},
			},
		})
		require.NoError(t, err)

		assert.True(t, doc.Lines[0].UnitPrice.Equal(types.MustMoney("30")))
		assert.True(t, doc.Lines[1].UnitPrice.Equal(rental))
		assert.True(t, doc.Lines[2].UnitPrice.Equal(types.MustMoney("18")))
	})
}

func TestPurchaseFlow(t *testing.T) {
	ctx := context.Background()

	setup := func(gstin string) (*env, *purchase.PurchaseOrder, *location.Location, *item.Item) {
		e := newEnv()
		central := testLocation(e, "CW-001", location.TypeCentralWarehouse)
		vnd := testVendor(e, "VND-001", gstin)
		water := testItem(e, "ITM-WATER", "18", "30", "12")

		po := purchase.NewPurchaseOrder(vnd.ID, central.ID)
		po.Number = "PO-001"
		po.AddLine(water.ID, qty(10), types.MustMoney("100"), types.MustMoney("18"))
		require.NoError(t, e.purchases.Create(ctx, po))

		return e, po, central, water
	}

	t.Run("confirm computes intra-state totals and posts the payable", func(t *testing.T) {
		e, po, _, _ := setup("32AAAAA0000A1Z5")

		order, err := e.svc.ConfirmPurchase(ctx, po.ID)
		require.NoError(t, err)

		assert.Equal(t, purchase.StatusConfirmed, order.Status)
		assert.False(t, order.InterState)
		assert.True(t, order.CGST.Equal(types.MustMoney("90")))
		assert.True(t, order.SGST.Equal(types.MustMoney("90")))
		assert.True(t, order.GrandTotal.Equal(types.MustMoney("1180")))

		entry := e.entryFor(accounting.RefPurchase, po.ID)
		require.NotNil(t, entry)
		assert.Equal(t, accounting.PhaseConfirmed, entry.ReferencePhase)
		assert.Len(t, entry.Lines, 4)
		assert.True(t, entry.TotalCredit.Equal(types.MustMoney("1180")))
	})

	t.Run("inter-state vendor books IGST", func(t *testing.T) {
		e, po, _, _ := setup("33BBBBB0000B1Z4")

		order, err := e.svc.ConfirmPurchase(ctx, po.ID)
		require.NoError(t, err)

		assert.True(t, order.InterState)
		assert.True(t, order.IGST.Equal(types.MustMoney("180")))
		assert.True(t, order.CGST.IsZero())

		entry := e.entryFor(accounting.RefPurchase, po.ID)
		require.NotNil(t, entry)
		assert.Len(t, entry.Lines, 3)
	})

	t.Run("receive lands the goods and is idempotent", func(t *testing.T) {
		e, po, central, water := setup("32AAAAA0000A1Z5")
		_, err := e.svc.ConfirmPurchase(ctx, po.ID)
		require.NoError(t, err)

		order, entry, err := e.svc.ReceivePurchase(ctx, po.ID, nil)
		require.NoError(t, err)
		assert.True(t, order.IsReceived())
		require.NotNil(t, entry)
		assert.Equal(t, qty(10), e.level(ctx, central.ID, water.ID))
		assert.Equal(t, qty(10), e.items.stock[water.ID])

		// Receiving again changes nothing and returns the same entry.
		_, again, err := e.svc.ReceivePurchase(ctx, po.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, again.ID)
		assert.Equal(t, qty(10), e.level(ctx, central.ID, water.ID))
		assert.Len(t, e.journal.entries, 1)
	})

	t.Run("receive requires a confirmed order", func(t *testing.T) {
		e, po, _, _ := setup("32AAAAA0000A1Z5")

		_, _, err := e.svc.ReceivePurchase(ctx, po.ID, nil)
		assert.True(t, apperror.IsCode(err, apperror.CodeStateConflict))
	})

	t.Run("cancel after confirm posts a mirrored reversal", func(t *testing.T) {
		e, po, central, water := setup("32AAAAA0000A1Z5")
		_, err := e.svc.ConfirmPurchase(ctx, po.ID)
		require.NoError(t, err)

		order, err := e.svc.CancelPurchase(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, purchase.StatusCancelled, order.Status)

		reversal := e.entryFor(accounting.RefPurchaseReversal, po.ID)
		require.NotNil(t, reversal)
		assert.True(t, reversal.Balanced())
		assert.True(t, reversal.TotalDebit.Equal(types.MustMoney("1180")))
		assert.Equal(t, qty(0), e.level(ctx, central.ID, water.ID))
	})

	t.Run("cancel of a draft posts nothing", func(t *testing.T) {
		e, po, _, _ := setup("32AAAAA0000A1Z5")

		order, err := e.svc.CancelPurchase(ctx, po.ID)
		require.NoError(t, err)
		assert.Equal(t, purchase.StatusCancelled, order.Status)
		assert.Empty(t, e.journal.entries)
	})
}

func TestRecordWaste(t *testing.T) {
	ctx := context.Background()

	t.Run("tracked waste decrements stock and books the expense", func(t *testing.T) {
		e := newEnv()
		kitchen := testLocation(e, "KT-001", location.TypeKitchen)
		milk := testItem(e, "ITM-MILK", "60", "", "5")
		require.NoError(t, e.seedStock(ctx, kitchen.ID, milk.ID, qty(5)))

		milkID := milk.ID
		doc, err := e.svc.RecordWaste(ctx, WasteRequest{
			LocationID: kitchen.ID,
			ItemID:     &milkID,
			Quantity:   qty(2),
			Reason:     "spoilage",
			RecordedBy: "chef",
		})
		require.NoError(t, err)

		assert.True(t, doc.IsTracked())
		assert.True(t, doc.UnitCost.Equal(types.MustMoney("60")))
		assert.Equal(t, qty(3), e.level(ctx, kitchen.ID, milk.ID))

		entry := e.entryFor(accounting.RefWaste, doc.ID)
		require.NotNil(t, entry)
		assert.True(t, entry.TotalDebit.Equal(types.MustMoney("120")))
	})

	t.Run("prepared food waste only logs the event", func(t *testing.T) {
		e := newEnv()
		kitchen := testLocation(e, "KT-001", location.TypeKitchen)

		food := "buffet leftovers"
		doc, err := e.svc.RecordWaste(ctx, WasteRequest{
			LocationID:      kitchen.ID,
			FoodDescription: &food,
			Quantity:        qty(3),
			Reason:          "preparation",
			RecordedBy:      "chef",
		})
		require.NoError(t, err)

		assert.False(t, doc.IsTracked())
		assert.Empty(t, e.stock.txns)
		assert.Empty(t, e.journal.entries)
		assert.Len(t, e.wastes.rows, 1)
	})

	t.Run("cannot waste more than on hand", func(t *testing.T) {
		e := newEnv()
		kitchen := testLocation(e, "KT-001", location.TypeKitchen)
		milk := testItem(e, "ITM-MILK", "60", "", "5")
		require.NoError(t, e.seedStock(ctx, kitchen.ID, milk.ID, qty(1)))

		milkID := milk.ID
		_, err := e.svc.RecordWaste(ctx, WasteRequest{
			LocationID: kitchen.ID,
			ItemID:     &milkID,
			Quantity:   qty(2),
			Reason:     "spoilage",
			RecordedBy: "chef",
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
		assert.Empty(t, e.wastes.rows)
	})
}

func TestBillPayableAllocations(t *testing.T) {
	ctx := context.Background()

	t.Run("bills unpaid payable lines and empties the room", func(t *testing.T) {
		e := newEnv()
		store := testLocation(e, "BS-001", location.TypeBranchStore)
		room := testLocation(e, "RM-101", location.TypeGuestRoom)
		water := testItem(e, "ITM-WATER", "18", "30", "12")
		require.NoError(t, e.seedStock(ctx, store.ID, water.ID, qty(10)))

		roomID := room.ID
		_, err := e.svc.CreateIssue(ctx, IssueRequest{
			SourceLocationID:      store.ID,
			DestinationLocationID: &roomID,
			IssuedBy:              "housekeeping",
			Lines:                 []IssueLineRequest{{ItemID: water.ID, Quantity: qty(2), IsPayable: true}},
		})
		require.NoError(t, err)

		stayID := id.New()
		entry, err := e.svc.BillPayableAllocations(ctx, stayID, room.ID)
		require.NoError(t, err)
		require.NotNil(t, entry)

		// 2 x 30 revenue, 12% split into CGST+SGST, plus 36 cost moved
		// from inventory to COGS.
		assert.True(t, entry.TotalDebit.Equal(types.MustMoney("103.2")))
		assert.Equal(t, accounting.RefGuestBilling, entry.ReferenceKind)
		assert.Equal(t, stayID, entry.ReferenceID)
		assert.True(t, entry.Balanced())

		// Billed goods left with the guest.
		assert.Equal(t, qty(0), e.level(ctx, room.ID, water.ID))
		assert.Equal(t, qty(8), e.items.stock[water.ID])

		// Lines flipped to paid.
		payables, err := e.issues.FindUnpaidPayableLines(ctx, room.ID)
		require.NoError(t, err)
		assert.Empty(t, payables)
	})

	t.Run("nothing to bill returns nil", func(t *testing.T) {
		e := newEnv()
		room := testLocation(e, "RM-101", location.TypeGuestRoom)

		entry, err := e.svc.BillPayableAllocations(ctx, id.New(), room.ID)
		require.NoError(t, err)
		assert.Nil(t, entry)
		assert.Empty(t, e.journal.entries)
	})
}

func TestReturnFromRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("returns to the last transfer source", func(t *testing.T) {
		e := newEnv()
		warehouse := testLocation(e, "WH-001", location.TypeWarehouse)
		room := testLocation(e, "RM-101", location.TypeGuestRoom)
		towel := testItem(e, "ITM-TOWEL", "450", "", "5")
		require.NoError(t, e.seedStock(ctx, warehouse.ID, towel.ID, qty(10)))

		roomID := room.ID
		_, err := e.svc.CreateIssue(ctx, IssueRequest{
			SourceLocationID:      warehouse.ID,
			DestinationLocationID: &roomID,
			IssuedBy:              "housekeeping",
			Lines:                 []IssueLineRequest{{ItemID: towel.ID, Quantity: qty(2)}},
		})
		require.NoError(t, err)
		entriesBefore := len(e.journal.entries)

		docs, err := e.svc.ReturnFromRoom(ctx, ReturnRequest{
			RoomLocationID: room.ID,
			ReturnedBy:     "housekeeping",
			Lines:          []ReturnLine{{ItemID: towel.ID, Quantity: qty(2)}},
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)

		doc := docs[0]
		assert.Equal(t, stockissue.KindTransfer, doc.Kind)
		require.NotNil(t, doc.DestinationLocationID)
		assert.Equal(t, warehouse.ID, *doc.DestinationLocationID)

		// Full round trip: levels back where they started, books untouched.
		assert.Equal(t, qty(10), e.level(ctx, warehouse.ID, towel.ID))
		assert.Equal(t, qty(0), e.level(ctx, room.ID, towel.ID))
		assert.Len(t, e.journal.entries, entriesBefore)
	})

	t.Run("falls back to the central warehouse", func(t *testing.T) {
		e := newEnv()
		central := testLocation(e, "CW-001", location.TypeCentralWarehouse)
		room := testLocation(e, "RM-101", location.TypeGuestRoom)
		towel := testItem(e, "ITM-TOWEL", "450", "", "5")
		// Stock appeared at the room without a transfer trail.
		require.NoError(t, e.seedStock(ctx, room.ID, towel.ID, qty(1)))

		docs, err := e.svc.ReturnFromRoom(ctx, ReturnRequest{
			RoomLocationID: room.ID,
			ReturnedBy:     "housekeeping",
			Lines:          []ReturnLine{{ItemID: towel.ID, Quantity: qty(1)}},
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, central.ID, *docs[0].DestinationLocationID)
		assert.Equal(t, qty(1), e.level(ctx, central.ID, towel.ID))
	})

	t.Run("fails with no candidate destination", func(t *testing.T) {
		e := newEnv()
		room := testLocation(e, "RM-101", location.TypeGuestRoom)
		towel := testItem(e, "ITM-TOWEL", "450", "", "5")
		require.NoError(t, e.seedStock(ctx, room.ID, towel.ID, qty(1)))

		_, err := e.svc.ReturnFromRoom(ctx, ReturnRequest{
			RoomLocationID: room.ID,
			ReturnedBy:     "housekeeping",
			Lines:          []ReturnLine{{ItemID: towel.ID, Quantity: qty(1)}},
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeNoReturnLocation))
	})
}
