package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"atithi/internal/core/id"
	"atithi/internal/domain"
	"atithi/internal/domain/documents/stockissue"
	"atithi/internal/infrastructure/storage/postgres"
)

const (
	stockIssuesTable     = "doc_stock_issues"
	stockIssueLinesTable = "doc_stock_issue_lines"
)

// StockIssueRepo implements stockissue.Repository.
type StockIssueRepo struct {
	*BaseDocumentRepo[*stockissue.StockIssue]
}

// NewStockIssueRepo creates a new stock issue repository.
func NewStockIssueRepo() *StockIssueRepo {
	return &StockIssueRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			stockIssuesTable,
			postgres.ExtractDBColumns[stockissue.StockIssue](),
			func() *stockissue.StockIssue { return &stockissue.StockIssue{} },
		),
	}
}

var _ stockissue.Repository = (*StockIssueRepo)(nil)

// GetLines retrieves lines for a stock issue.
func (r *StockIssueRepo) GetLines(ctx context.Context, docID id.ID) ([]stockissue.IssueLine, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "item_id", "quantity",
			"unit_price", "rental_price", "is_payable", "is_paid",
			"is_damaged", "damage_notes",
		).
		From(stockIssueLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []stockissue.IssueLine
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a stock issue (delete existing + insert new).
func (r *StockIssueRepo) SaveLines(ctx context.Context, docID id.ID, lines []stockissue.IssueLine) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + stockIssueLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(stockIssueLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "item_id", "quantity",
			"unit_price", "rental_price", "is_payable", "is_paid",
			"is_damaged", "damage_notes",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ItemID, line.Quantity,
			line.UnitPrice, line.RentalPrice, line.IsPayable, line.IsPaid,
			line.IsDamaged, line.DamageNotes,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves stock issues with filtering.
func (r *StockIssueRepo) List(ctx context.Context, filter stockissue.ListFilter) (domain.ListResult[*stockissue.StockIssue], error) {
	result := domain.ListResult[*stockissue.StockIssue]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect(ctx)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}

	if filter.SourceLocationID != nil {
		q = q.Where(squirrel.Eq{"source_location_id": *filter.SourceLocationID})
	}

	if filter.DestinationLocationID != nil {
		q = q.Where(squirrel.Eq{"destination_location_id": *filter.DestinationLocationID})
	}

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
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

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "date DESC"
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

// FindUnpaidPayableLines returns unpaid payable lines allocated to the
// destination, joined with their issue header.
func (r *StockIssueRepo) FindUnpaidPayableLines(ctx context.Context, destinationID id.ID) ([]stockissue.PayableLine, error) {
	q := r.Builder().
		Select(
			"d.id AS issue_id", "d.number AS issue_number",
			"l.line_id AS \"line.line_id\"", "l.line_no AS \"line.line_no\"",
			"l.item_id AS \"line.item_id\"", "l.quantity AS \"line.quantity\"",
			"l.unit_price AS \"line.unit_price\"", "l.rental_price AS \"line.rental_price\"",
			"l.is_payable AS \"line.is_payable\"", "l.is_paid AS \"line.is_paid\"",
			"l.is_damaged AS \"line.is_damaged\"", "l.damage_notes AS \"line.damage_notes\"",
		).
		From(stockIssueLinesTable + " l").
		Join(stockIssuesTable + " d ON d.id = l.document_id").
		Where(squirrel.Eq{
			"d.destination_location_id": destinationID,
			"d.deletion_mark":           false,
			"l.is_payable":              true,
			"l.is_paid":                 false,
		}).
		OrderBy("d.date", "l.line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []stockissue.PayableLine
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("find payable lines: %w", err)
	}

	return rows, nil
}

// MarkLinesPaid flips is_paid on the given lines.
func (r *StockIssueRepo) MarkLinesPaid(ctx context.Context, lineIDs []id.ID) error {
	if len(lineIDs) == 0 {
		return nil
	}

	q := r.Builder().
		Update(stockIssueLinesTable).
		Set("is_paid", true).
		Where(squirrel.Eq{"line_id": lineIDs})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("mark lines paid: %w", err)
	}

	return nil
}
