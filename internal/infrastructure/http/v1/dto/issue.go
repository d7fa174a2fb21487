package dto

import (
	"atithi/internal/core/types"
	"atithi/internal/domain/documents/stockissue"
)

// --- Request DTOs ---

// IssueLineRequest is one requested line of a stock issue.
type IssueLineRequest struct {
	ItemID           string         `json:"itemId" binding:"required"`
	Quantity         types.Quantity `json:"quantity" binding:"required"`
	IsPayable        bool           `json:"isPayable"`
	RentalPrice      *types.Money   `json:"rentalPrice"`
	AssetInstanceIDs []string       `json:"assetInstanceIds"`
}

// CreateIssueRequest is the request body for creating a stock issue.
// A missing destination means consumption; a guest room destination
// means allocation; anything else is an internal transfer.
type CreateIssueRequest struct {
	SourceLocationID      string             `json:"sourceLocationId" binding:"required"`
	DestinationLocationID *string            `json:"destinationLocationId"`
	IssuedBy              string             `json:"issuedBy"`
	Notes                 string             `json:"notes"`
	Lines                 []IssueLineRequest `json:"lines" binding:"required"`
}

// ReturnLineRequest is one item returned from a room.
type ReturnLineRequest struct {
	ItemID   string         `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`
}

// ReturnRequest is the request body for a checkout return.
type ReturnRequest struct {
	RoomLocationID string              `json:"roomLocationId" binding:"required"`
	ReturnedBy     string              `json:"returnedBy"`
	Lines          []ReturnLineRequest `json:"lines" binding:"required"`
}

// --- Response DTOs ---

// IssueLineResponse is one line of a stock issue.
type IssueLineResponse struct {
	LineID      string         `json:"lineId"`
	LineNo      int            `json:"lineNo"`
	ItemID      string         `json:"itemId"`
	Quantity    types.Quantity `json:"quantity"`
	UnitPrice   types.Money    `json:"unitPrice"`
	RentalPrice *types.Money   `json:"rentalPrice,omitempty"`
	IsPayable   bool           `json:"isPayable"`
	IsPaid      bool           `json:"isPaid"`
	IsDamaged   bool           `json:"isDamaged"`
	DamageNotes *string        `json:"damageNotes,omitempty"`
}

// IssueResponse is the response body for a stock issue.
type IssueResponse struct {
	DocumentResponse
	SourceLocationID      string              `json:"sourceLocationId"`
	DestinationLocationID *string             `json:"destinationLocationId,omitempty"`
	Kind                  stockissue.Kind     `json:"kind"`
	IssuedBy              string              `json:"issuedBy,omitempty"`
	Notes                 string              `json:"notes,omitempty"`
	Lines                 []IssueLineResponse `json:"lines,omitempty"`
}

// FromIssue creates response DTO from domain entity.
func FromIssue(doc *stockissue.StockIssue) *IssueResponse {
	resp := &IssueResponse{
		DocumentResponse: FromDocument(doc.Document),
		SourceLocationID: doc.SourceLocationID.String(),
		Kind:             doc.Kind,
		IssuedBy:         doc.IssuedBy,
		Notes:            doc.Notes,
	}

	if doc.DestinationLocationID != nil {
		dest := doc.DestinationLocationID.String()
		resp.DestinationLocationID = &dest
	}

	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, IssueLineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			ItemID:      line.ItemID.String(),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			RentalPrice: line.RentalPrice,
			IsPayable:   line.IsPayable,
			IsPaid:      line.IsPaid,
			IsDamaged:   line.IsDamaged,
			DamageNotes: line.DamageNotes,
		})
	}

	return resp
}

// FromIssues maps a batch of issues (checkout returns produce several).
func FromIssues(docs []*stockissue.StockIssue) []*IssueResponse {
	out := make([]*IssueResponse, len(docs))
	for i, doc := range docs {
		out[i] = FromIssue(doc)
	}
	return out
}
