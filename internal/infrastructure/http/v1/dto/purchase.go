package dto

import (
	"time"

	"atithi/internal/core/id"
	"atithi/internal/core/types"
	"atithi/internal/domain/documents/purchase"
)

// --- Request DTOs ---

// PurchaseLineRequest is one ordered line.
type PurchaseLineRequest struct {
	ItemID    string         `json:"itemId" binding:"required"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	UnitPrice types.Money    `json:"unitPrice"`
	GSTRate   types.GSTRate  `json:"gstRate"`
}

// CreatePurchaseRequest is the request body for creating a draft
// purchase order.
type CreatePurchaseRequest struct {
	VendorID              string                `json:"vendorId" binding:"required"`
	DestinationLocationID string                `json:"destinationLocationId" binding:"required"`
	Date                  *time.Time            `json:"date"`
	PaymentMethod         string                `json:"paymentMethod"`
	Comment               string                `json:"comment"`
	Lines                 []PurchaseLineRequest `json:"lines" binding:"required"`
}

// UpdatePurchaseRequest is the request body for updating a draft.
// Lines replace the existing table part entirely.
type UpdatePurchaseRequest struct {
	Date          *time.Time            `json:"date"`
	PaymentMethod string                `json:"paymentMethod"`
	Comment       string                `json:"comment"`
	Lines         []PurchaseLineRequest `json:"lines" binding:"required"`
	Version       int                   `json:"version" binding:"required"`
}

// ReceivePurchaseRequest optionally overrides the landing location.
type ReceivePurchaseRequest struct {
	DestinationLocationID *string `json:"destinationLocationId"`
}

// --- Response DTOs ---

// PurchaseLineResponse is one line of a purchase order.
type PurchaseLineResponse struct {
	LineID    string         `json:"lineId"`
	LineNo    int            `json:"lineNo"`
	ItemID    string         `json:"itemId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
	GSTRate   types.GSTRate  `json:"gstRate"`
	LineTotal types.Money    `json:"lineTotal"`
	CGST      types.Money    `json:"cgst"`
	SGST      types.Money    `json:"sgst"`
	IGST      types.Money    `json:"igst"`
}

// PurchaseResponse is the response body for a purchase order.
type PurchaseResponse struct {
	DocumentResponse
	VendorID              string                 `json:"vendorId"`
	DestinationLocationID string                 `json:"destinationLocationId"`
	PaymentMethod         string                 `json:"paymentMethod,omitempty"`
	PaymentStatus         string                 `json:"paymentStatus,omitempty"`
	InterState            bool                   `json:"interState"`
	SubTotal              types.Money            `json:"subTotal"`
	CGST                  types.Money            `json:"cgst"`
	SGST                  types.Money            `json:"sgst"`
	IGST                  types.Money            `json:"igst"`
	GrandTotal            types.Money            `json:"grandTotal"`
	Lines                 []PurchaseLineResponse `json:"lines,omitempty"`
}

// FromPurchase creates response DTO from domain entity.
func FromPurchase(doc *purchase.PurchaseOrder) *PurchaseResponse {
	resp := &PurchaseResponse{
		DocumentResponse:      FromDocument(doc.Document),
		VendorID:              doc.VendorID.String(),
		DestinationLocationID: doc.DestinationLocationID.String(),
		PaymentMethod:         doc.PaymentMethod,
		PaymentStatus:         doc.PaymentStatus,
		InterState:            doc.InterState,
		SubTotal:              doc.SubTotal,
		CGST:                  doc.CGST,
		SGST:                  doc.SGST,
		IGST:                  doc.IGST,
		GrandTotal:            doc.GrandTotal,
	}

	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ItemID:    line.ItemID.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			GSTRate:   line.GSTRate,
			LineTotal: line.LineTotal,
			CGST:      line.CGST,
			SGST:      line.SGST,
			IGST:      line.IGST,
		})
	}

	return resp
}

// ApplyPurchaseLines replaces the document's table part with the
// requested lines.
func ApplyPurchaseLines(doc *purchase.PurchaseOrder, lines []PurchaseLineRequest) error {
	doc.Lines = doc.Lines[:0]
	for _, line := range lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			return err
		}
		doc.AddLine(itemID, line.Quantity, line.UnitPrice, line.GSTRate)
	}
	return nil
}
