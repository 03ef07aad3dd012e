package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// EditorSnapshot estado de la sesión de edición para GET /api/editor.
type EditorSnapshot struct {
	Ready         bool                 `json:"ready"`
	Submitting    bool                 `json:"submitting"`
	Document      invoice.Document     `json:"document"`
	FullNumber    string               `json:"fullNumber"`
	ActiveSection string               `json:"activeSection,omitempty"`
	Draft         invoice.SectionValue `json:"draft,omitempty"`
	Warnings      []string             `json:"warnings,omitempty"`
	MinDueDate    string               `json:"minDueDate,omitempty"`
	LoadError     string               `json:"loadError,omitempty"`
}

// AddItemRequest agrega una línea al borrador: desde el catálogo (CatalogID) o texto libre.
type AddItemRequest struct {
	CatalogID   string           `json:"catalogId,omitempty"`
	Description string           `json:"description" validate:"required_without=CatalogID,max=500"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
}

// UpdateItemRequest cambia uno o más campos de una línea del borrador.
type UpdateItemRequest struct {
	Description *string          `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
}

// AdjustmentsRequest descuento y ajuste manual.
type AdjustmentsRequest struct {
	Discount   decimal.Decimal `json:"discount"`
	Adjustment decimal.Decimal `json:"addLessAdjustments"`
}

// SubmitResponse resultado de un envío exitoso.
type SubmitResponse struct {
	NewInvoiceNumber string         `json:"newInvoiceNumber"`
	Snapshot         EditorSnapshot `json:"snapshot"`
}
