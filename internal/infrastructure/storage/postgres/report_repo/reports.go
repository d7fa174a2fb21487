// Package report_repo provides PostgreSQL implementations for report
// repositories. TxManager is obtained from context per-request.
package report_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"atithi/internal/core/types"
	"atithi/internal/domain/reports"
	"atithi/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	builder squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// getTxManager retrieves TxManager from context.
func (r *ReportRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// StockValuation values current on-hand quantities at the item's unit
// cost, joined with item and location names.
func (r *ReportRepo) StockValuation(ctx context.Context, filter reports.StockValuationFilter) (*reports.StockValuationReport, error) {
	query := `
		SELECT
			l.location_id,
			loc.name AS location_name,
			l.item_id,
			i.code AS item_code,
			i.name AS item_name,
			i.unit,
			l.quantity,
			i.unit_cost,
			(l.quantity::numeric / 10000.0) * i.unit_cost AS value
		FROM reg_stock_levels l
		JOIN cat_locations loc ON l.location_id = loc.id
		JOIN cat_items i ON l.item_id = i.id
		WHERE true
	`
	var args []any
	argIndex := 1

	if len(filter.LocationIDs) > 0 {
		placeholders := make([]string, len(filter.LocationIDs))
		for i, locID := range filter.LocationIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, locID)
			argIndex++
		}
		query += fmt.Sprintf(" AND l.location_id IN (%s)", strings.Join(placeholders, ","))
	}

	if len(filter.ItemIDs) > 0 {
		placeholders := make([]string, len(filter.ItemIDs))
		for i, itemID := range filter.ItemIDs {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, itemID)
			argIndex++
		}
		query += fmt.Sprintf(" AND l.item_id IN (%s)", strings.Join(placeholders, ","))
	}

	if filter.ExcludeZero {
		query += " AND l.quantity != 0"
	}

	query += " ORDER BY loc.name, i.name"

	var items []reports.StockValuationRow
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("stock valuation report: %w", err)
	}

	total := types.Zero()
	for _, row := range items {
		total = total.Add(row.Value)
	}

	return &reports.StockValuationReport{
		GeneratedAt: time.Now().UTC(),
		Items:       items,
		TotalItems:  len(items),
		TotalValue:  total,
	}, nil
}

// journalSelect builds the per-type SELECT with a shared column shape
// so the branches can be UNIONed.
func journalSelect(docType string) (string, bool) {
	switch docType {
	case reports.DocTypePurchaseOrder:
		return `
			SELECT
				id, 'purchase_order' AS document_type, number, date,
				status, posted,
				destination_location_id AS location_id,
				grand_total AS amount,
				comment, created_at, updated_at
			FROM doc_purchase_orders d
			WHERE deletion_mark = false
		`, true
	case reports.DocTypeStockIssue:
		return `
			SELECT
				id, 'stock_issue' AS document_type, number, date,
				status, posted,
				source_location_id AS location_id,
				COALESCE((
					SELECT SUM((quantity::numeric / 10000.0) * unit_price)
					FROM doc_stock_issue_lines WHERE document_id = d.id
				), 0) AS amount,
				comment, created_at, updated_at
			FROM doc_stock_issues d
			WHERE deletion_mark = false
		`, true
	case reports.DocTypeWasteLog:
		return `
			SELECT
				id, 'waste_log' AS document_type, number, date,
				status, posted,
				location_id,
				(quantity::numeric / 10000.0) * unit_cost AS amount,
				comment, created_at, updated_at
			FROM doc_waste_logs d
			WHERE deletion_mark = false
		`, true
	}
	return "", false
}

func allDocumentTypes() []string {
	return []string{
		reports.DocTypePurchaseOrder,
		reports.DocTypeStockIssue,
		reports.DocTypeWasteLog,
	}
}

// DocumentJournal lists documents of every kind in one stream, newest
// first.
func (r *ReportRepo) DocumentJournal(ctx context.Context, filter reports.DocumentJournalFilter) (*reports.DocumentJournal, error) {
	docTypes := filter.DocumentTypes
	if len(docTypes) == 0 {
		docTypes = allDocumentTypes()
	}

	var unions []string
	var args []any
	argIndex := 1

	for _, docType := range docTypes {
		q, ok := journalSelect(docType)
		if !ok {
			continue
		}

		if filter.FromDate != nil {
			q += fmt.Sprintf(" AND date >= $%d", argIndex)
			args = append(args, *filter.FromDate)
			argIndex++
		}
		if filter.ToDate != nil {
			q += fmt.Sprintf(" AND date < $%d", argIndex)
			args = append(args, *filter.ToDate)
			argIndex++
		}
		if filter.Posted != nil {
			q += fmt.Sprintf(" AND posted = $%d", argIndex)
			args = append(args, *filter.Posted)
			argIndex++
		}

		unions = append(unions, q)
	}

	if len(unions) == 0 {
		return &reports.DocumentJournal{
			Items:  []reports.DocumentJournalItem{},
			Limit:  filter.Limit,
			Offset: filter.Offset,
		}, nil
	}

	query := strings.Join(unions, " UNION ALL ")
	query += " ORDER BY date DESC, number"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var items []reports.DocumentJournalItem
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, query, args...); err != nil {
		return nil, fmt.Errorf("document journal: %w", err)
	}

	return &reports.DocumentJournal{
		Items:      items,
		TotalCount: len(items),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// DocumentTypeSummary returns counts and amount totals per document
// type.
func (r *ReportRepo) DocumentTypeSummary(ctx context.Context, filter reports.DocumentJournalFilter) ([]reports.DocumentTypeSummary, error) {
	docTypes := filter.DocumentTypes
	if len(docTypes) == 0 {
		docTypes = allDocumentTypes()
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)

	var result []reports.DocumentTypeSummary
	for _, docType := range docTypes {
		var query string
		switch docType {
		case reports.DocTypePurchaseOrder:
			query = `
				SELECT
					COUNT(*) AS count,
					COUNT(*) FILTER (WHERE posted = true) AS posted_count,
					COALESCE(SUM(grand_total), 0) AS total_amount
				FROM doc_purchase_orders d
				WHERE deletion_mark = false
			`
		case reports.DocTypeStockIssue:
			query = `
				SELECT
					COUNT(*) AS count,
					COUNT(*) FILTER (WHERE posted = true) AS posted_count,
					COALESCE(SUM((
						SELECT SUM((quantity::numeric / 10000.0) * unit_price)
						FROM doc_stock_issue_lines WHERE document_id = d.id
					)), 0) AS total_amount
				FROM doc_stock_issues d
				WHERE deletion_mark = false
			`
		case reports.DocTypeWasteLog:
			query = `
				SELECT
					COUNT(*) AS count,
					COUNT(*) FILTER (WHERE posted = true) AS posted_count,
					COALESCE(SUM((quantity::numeric / 10000.0) * unit_cost), 0) AS total_amount
				FROM doc_waste_logs d
				WHERE deletion_mark = false
			`
		default:
			continue
		}

		var args []any
		argIndex := 1
		if filter.FromDate != nil {
			query += fmt.Sprintf(" AND date >= $%d", argIndex)
			args = append(args, *filter.FromDate)
			argIndex++
		}
		if filter.ToDate != nil {
			query += fmt.Sprintf(" AND date < $%d", argIndex)
			args = append(args, *filter.ToDate)
			argIndex++
		}

		summary := reports.DocumentTypeSummary{DocumentType: docType}
		err := querier.QueryRow(ctx, query, args...).Scan(
			&summary.Count,
			&summary.PostedCount,
			&summary.TotalAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("document type summary for %s: %w", docType, err)
		}

		result = append(result, summary)
	}

	return result, nil
}

// Ensure interface compliance
var _ reports.Repository = (*ReportRepo)(nil)
