package billing

import (
	"context"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		sequenceRepo repository.InvoiceSequenceRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ProfileSource perfil de la empresa emisora (BilledBy, PaymentDetails, Logo).
type ProfileSource interface {
	CompanyProfile(ctx context.Context, companyID string) (*entity.Company, error)
}

// CatalogSource productos del catálogo disponibles para agregar como líneas.
type CatalogSource interface {
	Catalog(ctx context.Context, companyID string) ([]invoice.CatalogEntry, error)
}

// NumberingSource último consecutivo emitido en el año fiscal ("" si no hay ninguno).
type NumberingSource interface {
	LastSequence(ctx context.Context, companyID, fiscalYear string) (string, error)
}

// InvoiceSubmitter persiste la factura y devuelve el número asignado.
type InvoiceSubmitter interface {
	CreateInvoice(ctx context.Context, companyID, userID string, in dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error)
}

// InvoicePDFGenerator genera el PDF de un documento de factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc invoice.Document, meta PDFMeta) ([]byte, error)
}

// PDFMeta datos de presentación que no son parte del documento editable.
type PDFMeta struct {
	FullNumber   string
	TaxPercent   string // "18"
	Status       string
	DirectorName string
	Email        string
}
