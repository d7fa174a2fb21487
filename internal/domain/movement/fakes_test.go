package movement

import (
	"context"
	"fmt"
	"time"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/core/types"
	"atithi/internal/domain"
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

// fakeTxManager runs the callback directly; every repo here is in
// memory, so there is nothing to commit or roll back.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// seqNumerator hands out sequential numbers per prefix.
type seqNumerator struct {
	counts map[string]int
}

func newSeqNumerator() *seqNumerator {
	return &seqNumerator{counts: make(map[string]int)}
}

func (s *seqNumerator) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	s.counts[cfg.Prefix]++
	return fmt.Sprintf("%s-%03d", cfg.Prefix, s.counts[cfg.Prefix]), nil
}

func (s *seqNumerator) SetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time, value int64) error {
	return nil
}

// stubCatalog supplies the catalog methods the movement service never
// touches. Concrete fakes shadow what they need.
type stubCatalog[T entity.Validatable] struct{}

func (stubCatalog[T]) Create(ctx context.Context, e T) error { return nil }
func (stubCatalog[T]) Update(ctx context.Context, e T) error { return nil }
func (stubCatalog[T]) Delete(ctx context.Context, rid id.ID) error {
	return nil
}
func (stubCatalog[T]) SetDeletionMark(ctx context.Context, rid id.ID, marked bool) error {
	return nil
}
func (stubCatalog[T]) GetByID(ctx context.Context, rid id.ID) (T, error) {
	var zero T
	return zero, apperror.NewNotFound("row", rid)
}
func (stubCatalog[T]) GetByCode(ctx context.Context, code string) (T, error) {
	var zero T
	return zero, apperror.NewNotFound("row", code)
}
func (stubCatalog[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	return domain.ListResult[T]{}, nil
}
func (stubCatalog[T]) Exists(ctx context.Context, rid id.ID) (bool, error) {
	return false, nil
}
func (stubCatalog[T]) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}
func (stubCatalog[T]) GetTree(ctx context.Context, rootID *id.ID) ([]T, error) {
	return nil, nil
}
func (stubCatalog[T]) GetPath(ctx context.Context, rid id.ID) ([]T, error) {
	return nil, nil
}

type fakeItemRepo struct {
	stubCatalog[*item.Item]

	rows  map[id.ID]*item.Item
	stock map[id.ID]types.Quantity
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		rows:  make(map[id.ID]*item.Item),
		stock: make(map[id.ID]types.Quantity),
	}
}

func (f *fakeItemRepo) add(itm *item.Item) *item.Item {
	f.rows[itm.ID] = itm
	return itm
}

func (f *fakeItemRepo) GetByID(ctx context.Context, rid id.ID) (*item.Item, error) {
	itm, ok := f.rows[rid]
	if !ok {
		return nil, apperror.NewNotFound("item", rid)
	}
	return itm, nil
}

func (f *fakeItemRepo) GetForUpdate(ctx context.Context, rid id.ID) (*item.Item, error) {
	return f.GetByID(ctx, rid)
}

func (f *fakeItemRepo) ListByCategory(ctx context.Context, categoryID id.ID, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	return domain.ListResult[*item.Item]{}, nil
}

func (f *fakeItemRepo) UpdateCurrentStock(ctx context.Context, itemID id.ID, quantity types.Quantity) error {
	f.stock[itemID] = quantity
	return nil
}

type fakeLocationRepo struct {
	stubCatalog[*location.Location]

	rows map[id.ID]*location.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{rows: make(map[id.ID]*location.Location)}
}

func (f *fakeLocationRepo) add(loc *location.Location) *location.Location {
	f.rows[loc.ID] = loc
	return loc
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, rid id.ID) (*location.Location, error) {
	loc, ok := f.rows[rid]
	if !ok {
		return nil, apperror.NewNotFound("location", rid)
	}
	return loc, nil
}

func (f *fakeLocationRepo) FindByType(ctx context.Context, locType location.LocationType) ([]*location.Location, error) {
	var out []*location.Location
	for _, loc := range f.rows {
		if loc.Type == locType {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (f *fakeLocationRepo) GetCentralWarehouse(ctx context.Context) (*location.Location, error) {
	for _, loc := range f.rows {
		if loc.IsCentralWarehouse() {
			return loc, nil
		}
	}
	return nil, apperror.NewNotFound("location", "central warehouse")
}

func (f *fakeLocationRepo) GetLaundryQueue(ctx context.Context) (*location.Location, error) {
	for _, loc := range f.rows {
		if loc.Type == location.TypeLaundryQueue {
			return loc, nil
		}
	}
	return nil, apperror.NewNotFound("location", "laundry queue")
}

type fakeVendorRepo struct {
	stubCatalog[*vendor.Vendor]

	rows map[id.ID]*vendor.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{rows: make(map[id.ID]*vendor.Vendor)}
}

func (f *fakeVendorRepo) add(v *vendor.Vendor) *vendor.Vendor {
	f.rows[v.ID] = v
	return v
}

func (f *fakeVendorRepo) GetByID(ctx context.Context, rid id.ID) (*vendor.Vendor, error) {
	v, ok := f.rows[rid]
	if !ok {
		return nil, apperror.NewNotFound("vendor", rid)
	}
	return v, nil
}

func (f *fakeVendorRepo) FindByGSTIN(ctx context.Context, gstin string) (*vendor.Vendor, error) {
	return nil, apperror.NewNotFound("vendor", gstin)
}

type fakePurchaseRepo struct {
	rows map[id.ID]*purchase.PurchaseOrder
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{rows: make(map[id.ID]*purchase.PurchaseOrder)}
}

func (f *fakePurchaseRepo) Create(ctx context.Context, doc *purchase.PurchaseOrder) error {
	f.rows[doc.ID] = doc
	return nil
}

func (f *fakePurchaseRepo) GetByID(ctx context.Context, docID id.ID) (*purchase.PurchaseOrder, error) {
	doc, ok := f.rows[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", docID)
	}
	return doc, nil
}

func (f *fakePurchaseRepo) GetByNumber(ctx context.Context, number string) (*purchase.PurchaseOrder, error) {
	for _, doc := range f.rows {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", number)
}

func (f *fakePurchaseRepo) Update(ctx context.Context, doc *purchase.PurchaseOrder) error {
	f.rows[doc.ID] = doc
	return nil
}

func (f *fakePurchaseRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(f.rows, docID)
	return nil
}

func (f *fakePurchaseRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase.PurchaseLine, error) {
	doc, err := f.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	return doc.Lines, nil
}

func (f *fakePurchaseRepo) SaveLines(ctx context.Context, docID id.ID, lines []purchase.PurchaseLine) error {
	doc, err := f.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	doc.Lines = lines
	return nil
}

func (f *fakePurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) (domain.ListResult[*purchase.PurchaseOrder], error) {
	return domain.ListResult[*purchase.PurchaseOrder]{}, nil
}

func (f *fakePurchaseRepo) GetForUpdate(ctx context.Context, docID id.ID) (*purchase.PurchaseOrder, error) {
	return f.GetByID(ctx, docID)
}

type fakeIssueRepo struct {
	rows []*stockissue.StockIssue
}

func (f *fakeIssueRepo) Create(ctx context.Context, doc *stockissue.StockIssue) error {
	f.rows = append(f.rows, doc)
	return nil
}

func (f *fakeIssueRepo) GetByID(ctx context.Context, docID id.ID) (*stockissue.StockIssue, error) {
	for _, doc := range f.rows {
		if doc.ID == docID {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("stock issue", docID)
}

func (f *fakeIssueRepo) GetByNumber(ctx context.Context, number string) (*stockissue.StockIssue, error) {
	for _, doc := range f.rows {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("stock issue", number)
}

func (f *fakeIssueRepo) Update(ctx context.Context, doc *stockissue.StockIssue) error {
	return nil
}

func (f *fakeIssueRepo) GetLines(ctx context.Context, docID id.ID) ([]stockissue.IssueLine, error) {
	doc, err := f.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	return doc.Lines, nil
}

func (f *fakeIssueRepo) SaveLines(ctx context.Context, docID id.ID, lines []stockissue.IssueLine) error {
	doc, err := f.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	doc.Lines = lines
	return nil
}

func (f *fakeIssueRepo) List(ctx context.Context, filter stockissue.ListFilter) (domain.ListResult[*stockissue.StockIssue], error) {
	return domain.ListResult[*stockissue.StockIssue]{}, nil
}

func (f *fakeIssueRepo) FindUnpaidPayableLines(ctx context.Context, destinationID id.ID) ([]stockissue.PayableLine, error) {
	var out []stockissue.PayableLine
	for _, doc := range f.rows {
		if doc.DestinationLocationID == nil || *doc.DestinationLocationID != destinationID {
			continue
		}
		for _, line := range doc.Lines {
			if line.IsPayable && !line.IsPaid {
				out = append(out, stockissue.PayableLine{
					IssueID:     doc.ID,
					IssueNumber: doc.Number,
					Line:        line,
				})
			}
		}
	}
	return out, nil
}

func (f *fakeIssueRepo) MarkLinesPaid(ctx context.Context, lineIDs []id.ID) error {
	paid := make(map[id.ID]struct{}, len(lineIDs))
	for _, lid := range lineIDs {
		paid[lid] = struct{}{}
	}
	for _, doc := range f.rows {
		for i := range doc.Lines {
			if _, ok := paid[doc.Lines[i].LineID]; ok {
				doc.Lines[i].IsPaid = true
			}
		}
	}
	return nil
}

type fakeWasteRepo struct {
	rows []*waste.WasteLog
}

func (f *fakeWasteRepo) Create(ctx context.Context, doc *waste.WasteLog) error {
	f.rows = append(f.rows, doc)
	return nil
}

func (f *fakeWasteRepo) GetByID(ctx context.Context, docID id.ID) (*waste.WasteLog, error) {
	for _, doc := range f.rows {
		if doc.ID == docID {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("waste log", docID)
}

func (f *fakeWasteRepo) GetByNumber(ctx context.Context, number string) (*waste.WasteLog, error) {
	for _, doc := range f.rows {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("waste log", number)
}

func (f *fakeWasteRepo) List(ctx context.Context, filter waste.ListFilter) (domain.ListResult[*waste.WasteLog], error) {
	return domain.ListResult[*waste.WasteLog]{}, nil
}

type fakeAssetRepo struct {
	rows map[id.ID]*assets.AssetInstance
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{rows: make(map[id.ID]*assets.AssetInstance)}
}

func (f *fakeAssetRepo) Create(ctx context.Context, instance *assets.AssetInstance) error {
	f.rows[instance.ID] = instance
	return nil
}

func (f *fakeAssetRepo) Update(ctx context.Context, instance *assets.AssetInstance) error {
	f.rows[instance.ID] = instance
	return nil
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, rid id.ID) (*assets.AssetInstance, error) {
	instance, ok := f.rows[rid]
	if !ok {
		return nil, apperror.NewNotFound("asset instance", rid)
	}
	return instance, nil
}

func (f *fakeAssetRepo) GetForUpdate(ctx context.Context, rid id.ID) (*assets.AssetInstance, error) {
	return f.GetByID(ctx, rid)
}

func (f *fakeAssetRepo) GetByTag(ctx context.Context, tag string) (*assets.AssetInstance, error) {
	for _, instance := range f.rows {
		if instance.AssetTag == tag {
			return instance, nil
		}
	}
	return nil, apperror.NewNotFound("asset instance", tag)
}

func (f *fakeAssetRepo) ExistsByTag(ctx context.Context, tag string) (bool, error) {
	_, err := f.GetByTag(ctx, tag)
	return err == nil, nil
}

func (f *fakeAssetRepo) ExistsBySerial(ctx context.Context, itemID id.ID, serial string) (bool, error) {
	return false, nil
}

func (f *fakeAssetRepo) List(ctx context.Context, filter assets.ListFilter) (domain.ListResult[*assets.AssetInstance], error) {
	return domain.ListResult[*assets.AssetInstance]{}, nil
}

func (f *fakeAssetRepo) ListByLocation(ctx context.Context, locationID id.ID) ([]*assets.AssetInstance, error) {
	var out []*assets.AssetInstance
	for _, instance := range f.rows {
		if instance.CurrentLocationID != nil && *instance.CurrentLocationID == locationID {
			out = append(out, instance)
		}
	}
	return out, nil
}

func (f *fakeAssetRepo) CountActiveByItem(ctx context.Context, itemID id.ID) (int, error) {
	count := 0
	for _, instance := range f.rows {
		if instance.ItemID == itemID && instance.Status != assets.StatusWrittenOff {
			count++
		}
	}
	return count, nil
}

// memStockRepo is an in-memory stock ledger: rows plus levels synced
// from the rows, mirroring the SQL implementation.
type memStockRepo struct {
	txns   []entity.StockTransaction
	levels map[stockledger.LevelKey]entity.StockLevel
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{levels: make(map[stockledger.LevelKey]entity.StockLevel)}
}

func (m *memStockRepo) CreateTransactions(ctx context.Context, txns []entity.StockTransaction) error {
	m.txns = append(m.txns, txns...)
	return nil
}

func (m *memStockRepo) DeleteTransactionsByRecorder(ctx context.Context, recorderID id.ID, beforeVersion int) error {
	kept := m.txns[:0]
	for _, t := range m.txns {
		if t.RecorderID == recorderID && t.RecorderVersion < beforeVersion {
			continue
		}
		kept = append(kept, t)
	}
	m.txns = kept
	return nil
}

func (m *memStockRepo) GetTransactionsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockTransaction, error) {
	var out []entity.StockTransaction
	for _, t := range m.txns {
		if t.RecorderID == recorderID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStockRepo) GetLevel(ctx context.Context, locationID, itemID id.ID) (entity.StockLevel, error) {
	key := stockledger.LevelKey{LocationID: locationID, ItemID: itemID}
	if level, ok := m.levels[key]; ok {
		return level, nil
	}
	return entity.StockLevel{LocationID: locationID, ItemID: itemID}, nil
}

func (m *memStockRepo) GetLevelForUpdate(ctx context.Context, locationID, itemID id.ID) (entity.StockLevel, error) {
	return m.GetLevel(ctx, locationID, itemID)
}

func (m *memStockRepo) LockLevels(ctx context.Context, keys []stockledger.LevelKey) error {
	for _, key := range keys {
		if _, ok := m.levels[key]; !ok {
			m.levels[key] = entity.StockLevel{LocationID: key.LocationID, ItemID: key.ItemID}
		}
	}
	return nil
}

func (m *memStockRepo) SyncLevels(ctx context.Context, keys []stockledger.LevelKey) error {
	for _, key := range keys {
		var total types.Quantity
		for _, t := range m.txns {
			if t.LocationID == key.LocationID && t.ItemID == key.ItemID {
				total += t.SignedQuantity()
			}
		}
		m.levels[key] = entity.StockLevel{
			LocationID: key.LocationID,
			ItemID:     key.ItemID,
			Quantity:   total,
			UpdatedAt:  time.Now().UTC(),
		}
	}
	return nil
}

func (m *memStockRepo) GetLevelsByLocation(ctx context.Context, locationID id.ID, filter stockledger.LevelFilter) ([]entity.StockLevel, error) {
	var out []entity.StockLevel
	for _, level := range m.levels {
		if level.LocationID != locationID {
			continue
		}
		if filter.ExcludeZero && level.Quantity.IsZero() {
			continue
		}
		out = append(out, level)
	}
	return out, nil
}

func (m *memStockRepo) GetLevelsByItem(ctx context.Context, itemID id.ID) ([]entity.StockLevel, error) {
	var out []entity.StockLevel
	for _, level := range m.levels {
		if level.ItemID == itemID {
			out = append(out, level)
		}
	}
	return out, nil
}

func (m *memStockRepo) ListLevelKeysByItem(ctx context.Context, itemID id.ID) ([]stockledger.LevelKey, error) {
	var out []stockledger.LevelKey
	for key := range m.levels {
		if key.ItemID == itemID {
			out = append(out, key)
		}
	}
	return out, nil
}

func (m *memStockRepo) GetLevelAtDate(ctx context.Context, locationID, itemID id.ID, date time.Time) (types.Quantity, error) {
	var total types.Quantity
	for _, t := range m.txns {
		if t.LocationID == locationID && t.ItemID == itemID && !t.Period.After(date) {
			total += t.SignedQuantity()
		}
	}
	return total, nil
}

func (m *memStockRepo) GetLastTransferSource(ctx context.Context, locationID, itemID id.ID) (id.ID, error) {
	for i := len(m.txns) - 1; i >= 0; i-- {
		t := m.txns[i]
		if t.Kind == entity.TxnKindTransferIn && t.LocationID == locationID && t.ItemID == itemID && t.CounterLocationID != nil {
			return *t.CounterLocationID, nil
		}
	}
	return id.Nil(), nil
}

func (m *memStockRepo) GetTransactionHistory(ctx context.Context, itemID id.ID, filter stockledger.TransactionFilter) ([]entity.StockTransaction, error) {
	var out []entity.StockTransaction
	for _, t := range m.txns {
		if t.ItemID == itemID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStockRepo) GetTurnover(ctx context.Context, filter stockledger.TurnoverFilter) (stockledger.Turnover, error) {
	return stockledger.Turnover{}, nil
}

// memLedgerRepo serves the seeded chart of accounts.
type memLedgerRepo struct {
	ledgers []*accounting.Ledger
}

func newMemLedgerRepo() *memLedgerRepo {
	defs := accounting.DefaultChart()
	ledgers := make([]*accounting.Ledger, 0, len(defs))
	for _, def := range defs {
		l := &accounting.Ledger{Type: def.Type}
		l.ID = id.New()
		l.Code = def.Code
		l.Name = def.Name
		ledgers = append(ledgers, l)
	}
	return &memLedgerRepo{ledgers: ledgers}
}

func (m *memLedgerRepo) Create(ctx context.Context, ledger *accounting.Ledger) error { return nil }
func (m *memLedgerRepo) Update(ctx context.Context, ledger *accounting.Ledger) error { return nil }

func (m *memLedgerRepo) GetByID(ctx context.Context, ledgerID id.ID) (*accounting.Ledger, error) {
	for _, l := range m.ledgers {
		if l.ID == ledgerID {
			return l, nil
		}
	}
	return nil, apperror.NewNotFound("ledger", ledgerID)
}

func (m *memLedgerRepo) GetByCode(ctx context.Context, code string) (*accounting.Ledger, error) {
	for _, l := range m.ledgers {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, apperror.NewNotFound("ledger", code)
}

func (m *memLedgerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*accounting.Ledger], error) {
	return domain.ListResult[*accounting.Ledger]{Items: m.ledgers}, nil
}

func (m *memLedgerRepo) GetChart(ctx context.Context) ([]*accounting.Ledger, error) {
	return m.ledgers, nil
}

// memJournalRepo stores posted entries in memory.
type memJournalRepo struct {
	entries []*accounting.JournalEntry
}

func (m *memJournalRepo) CreateEntry(ctx context.Context, entry *accounting.JournalEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memJournalRepo) GetByID(ctx context.Context, entryID id.ID) (*accounting.JournalEntry, error) {
	for _, e := range m.entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("journal entry", entryID)
}

func (m *memJournalRepo) GetByNumber(ctx context.Context, number string) (*accounting.JournalEntry, error) {
	for _, e := range m.entries {
		if e.Number == number {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("journal entry", number)
}

func (m *memJournalRepo) GetByReference(ctx context.Context, kind accounting.RefKind, refID id.ID) (*accounting.JournalEntry, error) {
	for _, e := range m.entries {
		if e.ReferenceKind == kind && e.ReferenceID == refID {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("journal entry", refID)
}

func (m *memJournalRepo) GetLines(ctx context.Context, entryID id.ID) ([]accounting.JournalLine, error) {
	entry, err := m.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return entry.Lines, nil
}

func (m *memJournalRepo) List(ctx context.Context, filter accounting.EntryFilter) (domain.ListResult[*accounting.JournalEntry], error) {
	return domain.ListResult[*accounting.JournalEntry]{Items: m.entries}, nil
}

func (m *memJournalRepo) LedgerTotals(ctx context.Context, start, end time.Time) ([]accounting.LedgerTotal, error) {
	return nil, nil
}

// env bundles the movement service with every fake behind it.
type env struct {
	svc *Service

	items     *fakeItemRepo
	locations *fakeLocationRepo
	vendors   *fakeVendorRepo
	purchases *fakePurchaseRepo
	issues    *fakeIssueRepo
	wastes    *fakeWasteRepo
	assetRepo *fakeAssetRepo
	stock     *memStockRepo
	journal   *memJournalRepo
	ledgerSvc *stockledger.Service
	chart     *memLedgerRepo
}

func newEnv() *env {
	e := &env{
		items:     newFakeItemRepo(),
		locations: newFakeLocationRepo(),
		vendors:   newFakeVendorRepo(),
		purchases: newFakePurchaseRepo(),
		issues:    &fakeIssueRepo{},
		wastes:    &fakeWasteRepo{},
		assetRepo: newFakeAssetRepo(),
		stock:     newMemStockRepo(),
		journal:   &memJournalRepo{},
		chart:     newMemLedgerRepo(),
	}

	txm := fakeTxManager{}
	numGen := newSeqNumerator()
	e.ledgerSvc = stockledger.NewService(e.stock)
	assetSvc := assets.NewService(e.assetRepo, numGen)
	accSvc := accounting.NewService(e.chart, e.journal, numGen, txm)

	e.svc = NewService(ServiceConfig{
		ResortStateCode: "32",
		TxManager:       txm,
		Numerator:       numGen,
		Items:           e.items,
		Locations:       e.locations,
		Vendors:         e.vendors,
		Purchases:       e.purchases,
		Issues:          e.issues,
		Wastes:          e.wastes,
		Assets:          assetSvc,
		Ledger:          e.ledgerSvc,
		Accounting:      accSvc,
	})

	return e
}

// seedStock places quantity at a location through a receipt row.
func (e *env) seedStock(ctx context.Context, locationID, itemID id.ID, qty types.Quantity) error {
	txn := entity.NewStockTransaction(
		id.New(), "OpeningBalance", 1,
		time.Now().UTC(), entity.TxnKindIn,
		locationID, itemID, qty,
	)
	return e.ledgerSvc.Record(ctx, []entity.StockTransaction{txn})
}

func (e *env) level(ctx context.Context, locationID, itemID id.ID) types.Quantity {
	level, err := e.ledgerSvc.GetLevel(ctx, locationID, itemID)
	if err != nil {
		return 0
	}
	return level.Quantity
}

func (e *env) entryFor(kind accounting.RefKind, refID id.ID) *accounting.JournalEntry {
	entry, err := e.journal.GetByReference(context.Background(), kind, refID)
	if err != nil {
		return nil
	}
	return entry
}
