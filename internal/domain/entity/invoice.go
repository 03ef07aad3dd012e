package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// Estados de una factura persistida.
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

var invoiceTransitions = map[string][]string{
	InvoiceStatusDraft:   {InvoiceStatusSent},
	InvoiceStatusSent:    {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue: {InvoiceStatusPaid},
}

// IsValidInvoiceStatus true si s es uno de los estados conocidos.
func IsValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// CanTransition flujo draft -> sent -> paid | overdue, overdue -> paid.
func CanTransition(from, to string) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Invoice cabecera de una factura emitida.
// Number es el número completo "PREFIX/TYPE/FY/SEQ"; Sequence su consecutivo numérico.
type Invoice struct {
	ID         string
	CompanyID  string
	Number     string
	Prefix     string
	Type       string
	FiscalYear string
	Sequence   int64
	Customer   invoice.Party // copia del receptor al momento de emitir
	IssueDate  time.Time
	DueDate    time.Time
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	TaxRate    decimal.Decimal // porcentaje (18 = 18%)
	TaxAmount  decimal.Decimal
	Adjustment decimal.Decimal
	GrandTotal decimal.Decimal
	Status     string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Details []*InvoiceDetail // se carga aparte
}
