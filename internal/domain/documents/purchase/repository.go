package purchase

import (
	"context"
	"time"

	"atithi/internal/core/id"
	"atithi/internal/domain"
)

// Repository defines operations for purchase order documents.
type Repository interface {
	Create(ctx context.Context, doc *PurchaseOrder) error
	GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error)
	GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error)
	Update(ctx context.Context, doc *PurchaseOrder) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]PurchaseLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []PurchaseLine) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error)

	// GetForUpdate retrieves the document with a row lock.
	// Receiving and cancelling run under this lock.
	GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseOrder, error)
}

// ListFilter for filtering purchase orders.
type ListFilter struct {
	domain.ListFilter

	VendorID   *id.ID
	LocationID *id.ID
	Status     *string
	DateFrom   *time.Time
	DateTo     *time.Time
}
