package accounting_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"atithi/internal/core/apperror"
	"atithi/internal/core/id"
	"atithi/internal/domain"
	"atithi/internal/domain/accounting"
	"atithi/internal/infrastructure/storage/postgres"
)

const (
	journalEntriesTable = "acc_journal_entries"
	journalLinesTable   = "acc_journal_entry_lines"
)

// JournalRepo implements accounting.JournalRepository.
// Entries are append-only; the repo exposes no update or delete.
type JournalRepo struct {
	builder    squirrel.StatementBuilderType
	selectCols []string
}

// NewJournalRepo creates a new journal repository.
func NewJournalRepo() *JournalRepo {
	return &JournalRepo{
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		selectCols: postgres.ExtractDBColumns[accounting.JournalEntry](),
	}
}

var _ accounting.JournalRepository = (*JournalRepo)(nil)

// getTxManager retrieves TxManager from context.
func (r *JournalRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// CreateEntry inserts the entry and its lines.
func (r *JournalRepo) CreateEntry(ctx context.Context, entry *accounting.JournalEntry) error {
	data := postgres.StructToMap(entry)
	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder.Insert(journalEntriesTable).SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	lineQ := r.builder.Insert(journalLinesTable).
		Columns(
			"line_id", "entry_id", "line_no",
			"debit_ledger_id", "credit_ledger_id", "amount", "memo",
		)
	for _, line := range entry.Lines {
		lineQ = lineQ.Values(
			line.LineID, entry.ID, line.LineNo,
			line.DebitLedgerID, line.CreditLedgerID, line.Amount, line.Memo,
		)
	}

	lineSQL, lineArgs, err := lineQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, lineSQL, lineArgs...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

func (r *JournalRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(r.selectCols...).From(journalEntriesTable)
}

func (r *JournalRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*accounting.JournalEntry, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry accounting.JournalEntry
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(journalEntriesTable, key)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return &entry, nil
}

// GetByID retrieves an entry header by id.
func (r *JournalRepo) GetByID(ctx context.Context, entryID id.ID) (*accounting.JournalEntry, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entryID}), entryID.String())
}

// GetByNumber retrieves an entry header by number.
func (r *JournalRepo) GetByNumber(ctx context.Context, number string) (*accounting.JournalEntry, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"number": number}), number)
}

// GetByReference retrieves the entry posted for (kind, refID).
func (r *JournalRepo) GetByReference(ctx context.Context, kind accounting.RefKind, refID id.ID) (*accounting.JournalEntry, error) {
	q := r.baseSelect().Where(squirrel.Eq{
		"reference_kind": kind,
		"reference_id":   refID,
	})
	return r.getOne(ctx, q, fmt.Sprintf("%s/%s", kind, refID))
}

// GetLines retrieves lines for an entry.
func (r *JournalRepo) GetLines(ctx context.Context, entryID id.ID) ([]accounting.JournalLine, error) {
	q := r.builder.Select(
		"line_id", "line_no",
		"debit_ledger_id", "credit_ledger_id", "amount", "memo",
	).
		From(journalLinesTable).
		Where(squirrel.Eq{"entry_id": entryID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []accounting.JournalLine
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// List retrieves entry headers with filtering.
func (r *JournalRepo) List(ctx context.Context, filter accounting.EntryFilter) (domain.ListResult[*accounting.JournalEntry], error) {
	result := domain.ListResult[*accounting.JournalEntry]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.ReferenceKind != nil {
		q = q.Where(squirrel.Eq{"reference_kind": *filter.ReferenceKind})
	}

	if filter.ReferenceID != nil {
		q = q.Where(squirrel.Eq{"reference_id": *filter.ReferenceID})
	}

	if filter.LedgerID != nil {
		q = q.Where(squirrel.Expr(
			"id IN (SELECT entry_id FROM "+journalLinesTable+" WHERE debit_ledger_id = ? OR credit_ledger_id = ?)",
			*filter.LedgerID, *filter.LedgerID,
		))
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "date DESC, number DESC"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}

// LedgerTotals sums debit and credit amounts per ledger over a period.
func (r *JournalRepo) LedgerTotals(ctx context.Context, start, end time.Time) ([]accounting.LedgerTotal, error) {
	sql := `
		SELECT
			ledger_id,
			COALESCE(SUM(debit), 0)  AS debits,
			COALESCE(SUM(credit), 0) AS credits
		FROM (
			SELECT l.debit_ledger_id AS ledger_id, l.amount AS debit, NULL::numeric AS credit
			FROM acc_journal_entry_lines l
			JOIN acc_journal_entries e ON e.id = l.entry_id
			WHERE l.debit_ledger_id IS NOT NULL AND e.date >= $1 AND e.date < $2
			UNION ALL
			SELECT l.credit_ledger_id, NULL::numeric, l.amount
			FROM acc_journal_entry_lines l
			JOIN acc_journal_entries e ON e.id = l.entry_id
			WHERE l.credit_ledger_id IS NOT NULL AND e.date >= $1 AND e.date < $2
		) sides
		GROUP BY ledger_id
		ORDER BY ledger_id
	`

	var totals []accounting.LedgerTotal
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &totals, sql, start, end); err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}

	return totals, nil
}
