package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// CustomerSnapshot datos del receptor tal como se envían al crear la factura.
type CustomerSnapshot struct {
	CompanyName   string          `json:"companyName" validate:"required,max=200"`
	Address       invoice.Address `json:"address"`
	GSTNumber     string          `json:"gstNumber" validate:"required,max=15"`
	PhoneNumber   string          `json:"phoneNumber" validate:"required,max=30"`
	ContactPerson string          `json:"contactPerson" validate:"required,max=200"`
	DomainName    string          `json:"domainName,omitempty" validate:"max=200"`
	PANNumber     string          `json:"panNumber,omitempty" validate:"max=10"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// InvoiceNumber es el número propuesto por el cliente; el servidor asigna el definitivo.
type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoiceNumber,omitempty"`
	InvoiceType   string               `json:"invoiceType" validate:"required,oneof=SW GW HW SV"`
	Customer      CustomerSnapshot     `json:"customer"`
	Items         []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount      decimal.Decimal      `json:"discount"`
	Adjustment    decimal.Decimal      `json:"addLessAdjustments"`
	GSTRate       decimal.Decimal      `json:"gstRate"` // porcentaje, ej: 18
	IssueDate     string               `json:"date,omitempty"`
	DueDate       string               `json:"dueDate" validate:"required"`
}

// InvoiceItemRequest línea de factura. ItemID referencia el catálogo; vacío = texto libre.
// UnitPrice nil con ItemID usa el precio del catálogo; un 0 explícito se respeta.
type InvoiceItemRequest struct {
	ItemID      string           `json:"itemId,omitempty"`
	Description string           `json:"description" validate:"max=500"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
}

// CreateInvoiceResponse número asignado por el servidor.
type CreateInvoiceResponse struct {
	ID               string `json:"id"`
	NewInvoiceNumber string `json:"newInvoiceNumber"`
}

// UpdateInvoiceStatusRequest body para PUT /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent paid overdue"`
}

// InvoiceListRequest filtros de GET /api/invoices.
type InvoiceListRequest struct {
	PageRequest
	Query  string `query:"q" validate:"max=200"`
	Status string `query:"status" validate:"omitempty,oneof=draft sent paid overdue"`
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID                 string                  `json:"_id"`
	InvoiceNumber      string                  `json:"invoiceNumber"`
	InvoiceType        string                  `json:"invoiceType"`
	FiscalYear         string                  `json:"fiscalYear"`
	Customer           invoice.Party           `json:"customer"`
	Date               time.Time               `json:"date"`
	DueDate            time.Time               `json:"dueDate"`
	Subtotal           decimal.Decimal         `json:"subtotal"`
	Discount           decimal.Decimal         `json:"discount"`
	GSTRate            decimal.Decimal         `json:"gstRate"`
	GST                decimal.Decimal         `json:"gst"`
	AddLessAdjustments decimal.Decimal         `json:"addLessAdjustments"`
	GrandTotal         decimal.Decimal         `json:"grandTotal"`
	Status             string                  `json:"status"`
	CreatedAt          time.Time               `json:"createdAt"`
	Items              []InvoiceDetailResponse `json:"items,omitempty"`
}

// InvoiceDetailResponse línea de detalle en la respuesta.
type InvoiceDetailResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"itemId,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
