package purchase

import (
	"context"
	"fmt"

	"atithi/internal/core/id"
	"atithi/internal/core/numerator"
	"atithi/internal/core/tx"
	"atithi/internal/domain"
	"atithi/pkg/logger"
)

// Service provides CRUD operations for purchase orders.
// Confirmation, receipt, and cancellation run through the movement
// service, which owns the stock and accounting effects.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new purchase order service.
func NewService(repo Repository, numerator numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numerator: numerator,
		txManager: txManager,
	}
}

// Create creates a new draft purchase order.
func (s *Service) Create(ctx context.Context, doc *PurchaseOrder) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DailyConfig("PO"), nil, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase order created",
		"number", doc.Number,
		"vendor_id", doc.VendorID,
	)

	return nil
}

// Update updates a draft purchase order.
func (s *Service) Update(ctx context.Context, doc *PurchaseOrder) error {
	current, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}

	// Only drafts are editable; later states change through their
	// dedicated transitions.
	if current.Status != StatusDraft {
		return current.CanModify()
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a purchase order with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves purchase orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}
