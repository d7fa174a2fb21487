package waste

import (
	"context"
	"time"

	"atithi/internal/core/id"
	"atithi/internal/domain"
)

// Repository defines operations for waste log documents.
type Repository interface {
	Create(ctx context.Context, doc *WasteLog) error
	GetByID(ctx context.Context, docID id.ID) (*WasteLog, error)
	GetByNumber(ctx context.Context, number string) (*WasteLog, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*WasteLog], error)
}

// ListFilter for filtering waste logs.
type ListFilter struct {
	domain.ListFilter

	LocationID *id.ID
	ItemID     *id.ID
	Reason     *string
	DateFrom   *time.Time
	DateTo     *time.Time
}
