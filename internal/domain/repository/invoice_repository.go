package repository

import (
	"context"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// InvoiceFilter filtros del listado. Query busca en número y nombre del cliente (sin distinguir mayúsculas).
type InvoiceFilter struct {
	CompanyID string
	Query     string
	Status    string
	Limit     int
	Offset    int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateDetail(ctx context.Context, detail *entity.InvoiceDetail) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetDetailsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceDetail, error)
	// List ordena por created_at descendente.
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, int, error)
	// RecentNumbers números de las facturas más recientes de la empresa (created_at descendente).
	RecentNumbers(ctx context.Context, companyID string, limit int) ([]invoice.NumberedInvoice, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
