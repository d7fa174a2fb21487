package stockissue

import (
	"context"
	"time"

	"atithi/internal/core/id"
	"atithi/internal/domain"
)

// Repository defines operations for stock issue documents.
type Repository interface {
	Create(ctx context.Context, doc *StockIssue) error
	GetByID(ctx context.Context, docID id.ID) (*StockIssue, error)
	GetByNumber(ctx context.Context, number string) (*StockIssue, error)
	Update(ctx context.Context, doc *StockIssue) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]IssueLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []IssueLine) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockIssue], error)

	// FindUnpaidPayableLines returns payable, unpaid lines delivered to
	// the location, with their owning issue ids. Consumed by checkout
	// billing.
	FindUnpaidPayableLines(ctx context.Context, destinationID id.ID) ([]PayableLine, error)

	// MarkLinesPaid flips is_paid on the given lines.
	MarkLinesPaid(ctx context.Context, lineIDs []id.ID) error
}

// PayableLine is an unpaid payable line joined with its issue.
type PayableLine struct {
	IssueID     id.ID     `db:"issue_id" json:"issueId"`
	IssueNumber string    `db:"issue_number" json:"issueNumber"`
	Line        IssueLine `json:"line"`
}

// ListFilter for filtering stock issues.
type ListFilter struct {
	domain.ListFilter

	SourceLocationID      *id.ID
	DestinationLocationID *id.ID
	Kind                  *Kind
	DateFrom              *time.Time
	DateTo                *time.Time
}
