package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// PDFUseCase genera el PDF de facturas guardadas y la vista previa del documento en edición.
// Un fallo del generador (error o panic) se devuelve como *domain.RenderError.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	companyRepo repository.CompanyRepository
	generator   InvoicePDFGenerator
	numbering   invoice.Numbering
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	generator InvoicePDFGenerator,
	numbering invoice.Numbering,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		generator:   generator,
		numbering:   numbering,
	}
}

// RenderDocument genera el PDF sin modificar doc (trabaja sobre una copia).
func (uc *PDFUseCase) RenderDocument(ctx context.Context, doc invoice.Document, meta PDFMeta) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &domain.RenderError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	out, err = uc.generator.GenerateInvoicePDF(ctx, doc.Clone(), meta)
	if err != nil {
		return nil, &domain.RenderError{Err: err}
	}
	return out, nil
}

// PreviewSessionPDF PDF del documento confirmado de la sesión.
func (uc *PDFUseCase) PreviewSessionPDF(ctx context.Context, s *Session) ([]byte, string, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, "", err
	}
	meta := PDFMeta{
		FullNumber: doc.FullNumber(uc.numbering),
		TaxPercent: s.cfg.Calculator.TaxPercent().String(),
		Status:     entity.InvoiceStatusDraft,
	}
	if p := s.Profile(); p != nil {
		meta.DirectorName = p.DirectorName
		meta.Email = p.Email
	}
	pdf, err := uc.RenderDocument(ctx, doc, meta)
	if err != nil {
		return nil, "", err
	}
	return pdf, pdfFilename(meta.FullNumber), nil
}

// DownloadInvoicePDF recupera la factura, sus líneas y la empresa y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la empresa del token.
//   - *domain.RenderError        si falla el generador.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, companyID, invoiceID string) ([]byte, string, error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}

	// ── 2. Cargar empresa y líneas ────────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	details, err := uc.invoiceRepo.GetDetailsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener detalles: %w", err)
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	doc := DocumentFromInvoice(inv, details, company)
	meta := PDFMeta{
		FullNumber:   inv.Number,
		TaxPercent:   inv.TaxRate.String(),
		Status:       inv.Status,
		DirectorName: company.DirectorName,
		Email:        company.Email,
	}
	pdf, err := uc.RenderDocument(ctx, doc, meta)
	if err != nil {
		return nil, "", err
	}
	return pdf, pdfFilename(inv.Number), nil
}

func pdfFilename(number string) string {
	return "invoice_" + strings.ReplaceAll(number, "/", "-") + ".pdf"
}
