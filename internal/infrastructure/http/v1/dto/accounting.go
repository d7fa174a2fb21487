package dto

import (
	"time"

	"atithi/internal/core/types"
)

// --- Request DTOs ---

// RCMExpenseRequest books an expense under reverse charge: services
// from unregistered suppliers where the resort self-invoices the tax.
type RCMExpenseRequest struct {
	ExpenseLedgerCode string      `json:"expenseLedgerCode" binding:"required"`
	Date              *time.Time  `json:"date"`
	InterState        bool        `json:"interState"`
	Amount            types.Money `json:"amount" binding:"required"`
	CGST              types.Money `json:"cgst"`
	SGST              types.Money `json:"sgst"`
	IGST              types.Money `json:"igst"`
	PaidFromBank      bool        `json:"paidFromBank"`
	Memo              string      `json:"memo"`
}

// --- Query DTOs ---

// PeriodQuery bounds a reporting period. End is exclusive.
type PeriodQuery struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02"`
}
