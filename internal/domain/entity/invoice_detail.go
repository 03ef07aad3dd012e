package entity

import "github.com/shopspring/decimal"

// InvoiceDetail línea persistida de una factura. ProductID vacío = línea de texto libre.
type InvoiceDetail struct {
	ID          string
	InvoiceID   string
	ProductID   string
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}
