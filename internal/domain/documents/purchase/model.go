// Package purchase provides the PurchaseOrder document.
// Purchases bring goods in from vendors; confirming books the payable,
// receiving moves the goods into stock.
package purchase

import (
	"context"

	"github.com/shopspring/decimal"

	"atithi/internal/core/apperror"
	"atithi/internal/core/entity"
	"atithi/internal/core/id"
	"atithi/internal/core/types"
)

// Purchase order lifecycle states.
const (
	StatusDraft     = "draft"
	StatusConfirmed = "confirmed"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

// PurchaseOrder represents an order placed with a vendor.
type PurchaseOrder struct {
	entity.Document
	entity.VendorAware

	// DestinationLocationID is where the goods land on receipt
	DestinationLocationID id.ID `db:"destination_location_id" json:"destinationLocationId"`

	// PaymentMethod (cash, bank, credit)
	PaymentMethod string `db:"payment_method" json:"paymentMethod,omitempty"`

	// PaymentStatus (unpaid, partial, paid)
	PaymentStatus string `db:"payment_status" json:"paymentStatus,omitempty"`

	// InterState records the tax split applied at confirmation.
	// Derived from the vendor's GSTIN state code vs the resort state.
	InterState bool `db:"inter_state" json:"interState"`

	// Totals. Tax is computed per line at 4 decimal places; totals are
	// exact sums of the rounded lines.
	SubTotal   types.Money `db:"sub_total" json:"subTotal"`
	CGST       types.Money `db:"cgst" json:"cgst"`
	SGST       types.Money `db:"sgst" json:"sgst"`
	IGST       types.Money `db:"igst" json:"igst"`
	GrandTotal types.Money `db:"grand_total" json:"grandTotal"`

	// Table part: ordered goods
	Lines []PurchaseLine `db:"-" json:"lines"`
}

// PurchaseLine represents a line in the purchase order.
type PurchaseLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID    id.ID          `db:"item_id" json:"itemId"`
	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
	GSTRate   types.GSTRate  `db:"gst_rate" json:"gstRate"`

	// Computed amounts (4dp-rounded per line)
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
	CGST      types.Money `db:"cgst" json:"cgst"`
	SGST      types.Money `db:"sgst" json:"sgst"`
	IGST      types.Money `db:"igst" json:"igst"`
}

// NewPurchaseOrder creates a draft purchase order.
func NewPurchaseOrder(vendorID, destinationID id.ID) *PurchaseOrder {
	return &PurchaseOrder{
		Document:              entity.NewDocument(StatusDraft),
		VendorAware:           entity.VendorAware{VendorID: vendorID},
		DestinationLocationID: destinationID,
		PaymentStatus:         "unpaid",
		SubTotal:              decimal.Zero,
		CGST:                  decimal.Zero,
		SGST:                  decimal.Zero,
		IGST:                  decimal.Zero,
		GrandTotal:            decimal.Zero,
		Lines:                 make([]PurchaseLine, 0),
	}
}

// AddLine appends a line. Amounts are filled by ComputeTotals.
func (p *PurchaseOrder) AddLine(itemID id.ID, quantity types.Quantity, unitPrice types.Money, gstRate types.GSTRate) {
	p.Lines = append(p.Lines, PurchaseLine{
		LineID:   id.New(),
		LineNo:   len(p.Lines) + 1,
		ItemID:   itemID,
		Quantity: quantity,
		UnitPrice: unitPrice,
		GSTRate:  gstRate,
	})
}

// ComputeTotals fills per-line and document amounts for the given tax
// split. Intra-state splits the rate evenly into CGST+SGST; inter-state
// charges the full rate as IGST. Each line amount is rounded to 4dp once;
// totals are exact sums of the rounded lines.
func (p *PurchaseOrder) ComputeTotals(interState bool) {
	p.InterState = interState

	two := decimal.NewFromInt(2)
	hundred := decimal.NewFromInt(100)

	p.SubTotal = decimal.Zero
	p.CGST = decimal.Zero
	p.SGST = decimal.Zero
	p.IGST = decimal.Zero

	for i := range p.Lines {
		line := &p.Lines[i]

		line.LineTotal = types.RoundMoney(line.Quantity.Mul(line.UnitPrice))
		tax := line.LineTotal.Mul(line.GSTRate).Div(hundred)

		if interState {
			line.IGST = types.RoundMoney(tax)
			line.CGST = decimal.Zero
			line.SGST = decimal.Zero
		} else {
			half := types.RoundMoney(tax.Div(two))
			line.CGST = half
			line.SGST = half
			line.IGST = decimal.Zero
		}

		p.SubTotal = p.SubTotal.Add(line.LineTotal)
		p.CGST = p.CGST.Add(line.CGST)
		p.SGST = p.SGST.Add(line.SGST)
		p.IGST = p.IGST.Add(line.IGST)
	}

	p.GrandTotal = p.SubTotal.Add(p.CGST).Add(p.SGST).Add(p.IGST)
}

// Validate implements entity.Validatable.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if err := p.ValidateVendor(ctx); err != nil {
		return err
	}

	if id.IsNil(p.DestinationLocationID) {
		return apperror.NewValidation("destination location is required").
			WithDetail("field", "destinationLocationId")
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range p.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.GSTRate.IsNegative() {
			return apperror.NewValidation("GST rate cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// Confirm moves draft → confirmed.
func (p *PurchaseOrder) Confirm() error {
	if p.Status != StatusDraft {
		return apperror.NewStateConflict("purchase order", p.ID.String(), p.Status, "confirm")
	}
	p.Status = StatusConfirmed
	p.Touch()
	return nil
}

// MarkReceived moves confirmed → received.
func (p *PurchaseOrder) MarkReceived() error {
	if p.Status != StatusConfirmed {
		return apperror.NewStateConflict("purchase order", p.ID.String(), p.Status, "receive")
	}
	p.Status = StatusReceived
	p.Touch()
	return nil
}

// Cancel moves draft or confirmed → cancelled. Received is terminal.
func (p *PurchaseOrder) Cancel() error {
	if p.Status != StatusDraft && p.Status != StatusConfirmed {
		return apperror.NewStateConflict("purchase order", p.ID.String(), p.Status, "cancel")
	}
	p.Status = StatusCancelled
	p.Touch()
	return nil
}

// IsReceived reports whether goods already landed in stock.
func (p *PurchaseOrder) IsReceived() bool {
	return p.Status == StatusReceived
}

// GetDocumentType returns the document type name.
func (p *PurchaseOrder) GetDocumentType() string {
	return "PurchaseOrder"
}
