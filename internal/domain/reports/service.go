package reports

import (
	"context"
	"fmt"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// StockValuation values current stock levels at item unit cost.
func (s *Service) StockValuation(ctx context.Context, filter StockValuationFilter) (*StockValuationReport, error) {
	report, err := s.repo.StockValuation(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("stock valuation report: %w", err)
	}

	return report, nil
}

// DocumentJournal returns the cross-document journal. The first page
// also carries per-type summaries.
func (s *Service) DocumentJournal(ctx context.Context, filter DocumentJournalFilter) (*DocumentJournal, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}

	journal, err := s.repo.DocumentJournal(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("document journal: %w", err)
	}

	if filter.Offset == 0 {
		summary, err := s.repo.DocumentTypeSummary(ctx, filter)
		if err == nil {
			journal.Summary = summary
		}
	}

	return journal, nil
}

// DocumentTypeSummary returns counts and totals per document type.
func (s *Service) DocumentTypeSummary(ctx context.Context, filter DocumentJournalFilter) ([]DocumentTypeSummary, error) {
	summary, err := s.repo.DocumentTypeSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("document type summary: %w", err)
	}

	return summary, nil
}
