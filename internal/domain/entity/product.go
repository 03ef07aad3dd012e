package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// Product ítem del catálogo de la empresa. Al agregarlo a una factura se copian
// nombre/descripción y precio; cambios posteriores no afectan facturas emitidas.
type Product struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CatalogEntry vista del producto que usa el editor.
func (p *Product) CatalogEntry() invoice.CatalogEntry {
	return invoice.CatalogEntry{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
	}
}
