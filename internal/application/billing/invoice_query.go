package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// InvoiceQueryUseCase listado, detalle y cambio de estado de facturas guardadas.
type InvoiceQueryUseCase struct {
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

// NewInvoiceQueryUseCase construye el caso de uso.
func NewInvoiceQueryUseCase(invoiceRepo repository.InvoiceRepository) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{invoiceRepo: invoiceRepo, now: time.Now}
}

// List facturas de la empresa, más recientes primero, filtradas por número o cliente.
func (uc *InvoiceQueryUseCase) List(ctx context.Context, companyID string, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{
		CompanyID: companyID,
		Query:     strings.TrimSpace(in.Query),
		Status:    in.Status,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Get factura con sus líneas.
func (uc *InvoiceQueryUseCase) Get(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	details, err := uc.invoiceRepo.GetDetailsByInvoiceID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, details), nil
}

// UpdateStatus aplica una transición del flujo draft -> sent -> paid | overdue.
// Una transición no permitida devuelve domain.ErrConflict.
func (uc *InvoiceQueryUseCase) UpdateStatus(ctx context.Context, companyID, id, status string) (*dto.InvoiceResponse, error) {
	if !entity.IsValidInvoiceStatus(status) {
		return nil, domain.NewValidationError("status", "estado desconocido")
	}
	inv, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == status {
		return toInvoiceResponse(inv, nil), nil
	}
	if !entity.CanTransition(inv.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrConflict, inv.Status, status)
	}
	if err := uc.invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	inv.Status = status
	inv.UpdatedAt = uc.now()
	return toInvoiceResponse(inv, nil), nil
}

func (uc *InvoiceQueryUseCase) owned(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// DocumentFromInvoice reconstruye el documento de una factura guardada (para PDF).
func DocumentFromInvoice(inv *entity.Invoice, details []*entity.InvoiceDetail, company *entity.Company) invoice.Document {
	items := make(invoice.LineItems, 0, len(details))
	for _, d := range details {
		items = append(items, invoice.LineItem{
			ID:          d.ID,
			CatalogID:   d.ProductID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Amount:      d.Amount,
		})
	}
	doc := invoice.Document{
		BilledTo: inv.Customer,
		Details: invoice.Details{
			Type:       inv.Type,
			Sequence:   invoice.SequenceFromNumber(inv.Number),
			FiscalYear: inv.FiscalYear,
			IssueDate:  invoice.DateOf(inv.IssueDate),
			DueDate:    invoice.DateOf(inv.DueDate),
		},
		Items: items,
		Totals: invoice.Totals{
			Subtotal:   inv.Subtotal,
			Discount:   inv.Discount,
			TaxRate:    inv.TaxRate.Div(hundred),
			TaxAmount:  inv.TaxAmount,
			Adjustment: inv.Adjustment,
			GrandTotal: inv.GrandTotal,
		},
	}
	if company != nil {
		doc.BilledBy = company.Party()
		doc.PaymentDetails = company.Bank
		doc.Logo = company.Logo
	}
	return doc
}

func toInvoiceResponse(inv *entity.Invoice, details []*entity.InvoiceDetail) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.Number,
		InvoiceType:        inv.Type,
		FiscalYear:         inv.FiscalYear,
		Customer:           inv.Customer,
		Date:               inv.IssueDate,
		DueDate:            inv.DueDate,
		Subtotal:           inv.Subtotal,
		Discount:           inv.Discount,
		GSTRate:            inv.TaxRate,
		GST:                inv.TaxAmount,
		AddLessAdjustments: inv.Adjustment,
		GrandTotal:         inv.GrandTotal,
		Status:             inv.Status,
		CreatedAt:          inv.CreatedAt,
	}
	for _, d := range details {
		out.Items = append(out.Items, dto.InvoiceDetailResponse{
			ID:          d.ID,
			ItemID:      d.ProductID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Amount:      d.Amount,
		})
	}
	return out
}
