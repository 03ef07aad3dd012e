package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

var _ InvoiceSubmitter = (*CreateInvoiceUseCase)(nil)

var hundred = decimal.NewFromInt(100)

// CreateInvoiceUseCase persiste una factura y le asigna el consecutivo en una sola transacción.
type CreateInvoiceUseCase struct {
	txRunner  BillingTxRunner
	numbering invoice.Numbering
	calc      invoice.Calculator
	log       zerolog.Logger
	now       func() time.Time
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(txRunner BillingTxRunner, numbering invoice.Numbering, calc invoice.Calculator, log zerolog.Logger) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:  txRunner,
		numbering: numbering,
		calc:      calc,
		log:       log,
		now:       time.Now,
	}
}

// CreateInvoice valida el payload, resuelve precios del catálogo, calcula totales,
// reserva el siguiente consecutivo del año fiscal y guarda cabecera y líneas.
// El número propuesto por el cliente (InvoiceNumber) es solo informativo.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, companyID, userID string, in dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	if err := validateCreateInvoice(in); err != nil {
		return nil, err
	}

	now := uc.now()
	issue := invoice.DateOf(now)
	if in.IssueDate != "" {
		parsed, err := invoice.ParseDate(in.IssueDate)
		if err != nil {
			return nil, domain.NewValidationError("date", err.Error())
		}
		issue = parsed
	}
	due, err := invoice.ParseDate(in.DueDate)
	if err != nil || due.IsZero() {
		return nil, domain.NewValidationError("dueDate", "fecha inválida")
	}

	calc := uc.calc
	if !in.GSTRate.IsZero() {
		calc = invoice.NewCalculator(in.GSTRate.Div(hundred))
	}
	fiscalYear := invoice.FiscalYear(issue.Time)
	invoiceID := uuid.New().String()

	var number string
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		sequenceRepo repository.InvoiceSequenceRepository,
		productRepo repository.ProductRepository,
	) error {
		lines, err := uc.resolveLines(ctx, productRepo, companyID, in.Items)
		if err != nil {
			return err
		}
		totals := calc.Compute(lines, in.Adjustment, in.Discount)

		seed, err := uc.counterSeed(ctx, invoiceRepo, companyID, fiscalYear)
		if err != nil {
			return err
		}
		seq, err := sequenceRepo.Next(ctx, companyID, fiscalYear, seed)
		if err != nil {
			return fmt.Errorf("reservar consecutivo: %w", err)
		}
		sequence := uc.numbering.FormatSequence(int(seq))
		number = uc.numbering.Format(in.InvoiceType, fiscalYear, sequence)

		inv := &entity.Invoice{
			ID:         invoiceID,
			CompanyID:  companyID,
			Number:     number,
			Prefix:     uc.numbering.Prefix,
			Type:       in.InvoiceType,
			FiscalYear: fiscalYear,
			Sequence:   seq,
			Customer:   customerParty(in.Customer),
			IssueDate:  issue.Time,
			DueDate:    due.Time,
			Subtotal:   totals.Subtotal,
			Discount:   totals.Discount,
			TaxRate:    calc.TaxPercent(),
			TaxAmount:  totals.TaxAmount,
			Adjustment: totals.Adjustment,
			GrandTotal: totals.GrandTotal,
			Status:     entity.InvoiceStatusDraft,
			CreatedBy:  userID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for i, li := range lines {
			detail := &entity.InvoiceDetail{
				ID:          li.ID,
				InvoiceID:   invoiceID,
				ProductID:   li.CatalogID,
				Position:    i + 1,
				Description: li.Description,
				Quantity:    li.Quantity,
				UnitPrice:   li.UnitPrice,
				Amount:      li.Amount,
			}
			if err := invoiceRepo.CreateDetail(ctx, detail); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Info().
		Str("company_id", companyID).
		Str("invoice_id", invoiceID).
		Str("number", number)
	if in.InvoiceNumber != "" && in.InvoiceNumber != number {
		ev = ev.Str("proposed_number", in.InvoiceNumber)
	}
	ev.Msg("factura creada")

	return &dto.CreateInvoiceResponse{ID: invoiceID, NewInvoiceNumber: number}, nil
}

// resolveLines completa descripción y precio desde el catálogo cuando no vienen en la línea.
func (uc *CreateInvoiceUseCase) resolveLines(ctx context.Context, productRepo repository.ProductRepository, companyID string, items []dto.InvoiceItemRequest) ([]invoice.LineItem, error) {
	var ids []string
	for _, it := range items {
		if it.ItemID != "" {
			ids = append(ids, it.ItemID)
		}
	}
	products := map[string]*entity.Product{}
	if len(ids) > 0 {
		var err error
		products, err = productRepo.GetByIDs(ctx, companyID, ids)
		if err != nil {
			return nil, fmt.Errorf("consultar catálogo: %w", err)
		}
	}

	lines := make([]invoice.LineItem, 0, len(items))
	for i, it := range items {
		desc, price := it.Description, decimal.Zero
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		if it.ItemID != "" {
			p, ok := products[it.ItemID]
			if !ok {
				return nil, fmt.Errorf("%w: ítem de catálogo %s", domain.ErrNotFound, it.ItemID)
			}
			if strings.TrimSpace(desc) == "" {
				desc = p.Description
				if strings.TrimSpace(desc) == "" {
					desc = p.Name
				}
			}
			if it.UnitPrice == nil {
				price = p.UnitPrice
			}
		}
		li, err := invoice.LineItemFromFreeText(uuid.New().String(), desc, it.Quantity, price)
		if err != nil {
			return nil, prefixFields(err, fmt.Sprintf("items[%d].", i))
		}
		li.CatalogID = it.ItemID
		lines = append(lines, li)
	}
	return lines, nil
}

// counterSeed valor inicial del contador cuando todavía no existe: el mayor entre
// la base y el último consecutivo ya guardado en facturas de ese año fiscal.
// Con el contador ya creado Next ignora la semilla.
func (uc *CreateInvoiceUseCase) counterSeed(ctx context.Context, invoiceRepo repository.InvoiceRepository, companyID, fiscalYear string) (int64, error) {
	seed := int64(uc.numbering.BaselineValue())
	recent, err := invoiceRepo.RecentNumbers(ctx, companyID, recentNumbersLimit)
	if err != nil {
		return 0, fmt.Errorf("consultar facturas previas: %w", err)
	}
	for _, n := range recent {
		if invoice.FiscalYearFromNumber(n.Number) != fiscalYear {
			continue
		}
		v, err := strconv.ParseInt(invoice.SequenceFromNumber(n.Number), 10, 64)
		if err == nil && v > seed {
			seed = v
		}
	}
	return seed, nil
}

func validateCreateInvoice(in dto.CreateInvoiceRequest) error {
	fields := map[string]string{}
	if !invoice.IsValidType(in.InvoiceType) {
		fields["invoiceType"] = "tipo desconocido"
	}
	if strings.TrimSpace(in.Customer.CompanyName) == "" {
		fields["customer.companyName"] = "es requerido"
	}
	if len(in.Items) == 0 {
		fields["items"] = "se requiere al menos un ítem"
	}
	if in.Discount.IsNegative() {
		fields["discount"] = "no puede ser negativo"
	}
	if in.GSTRate.IsNegative() {
		fields["gstRate"] = "no puede ser negativo"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func prefixFields(err error, prefix string) error {
	ve, ok := err.(*domain.ValidationError)
	if !ok {
		return err
	}
	out := make(map[string]string, len(ve.Fields))
	for k, v := range ve.Fields {
		out[prefix+k] = v
	}
	return &domain.ValidationError{Fields: out}
}

func customerParty(c dto.CustomerSnapshot) invoice.Party {
	return invoice.Party{
		CompanyName: c.CompanyName,
		Address:     c.Address,
		TaxID:       c.GSTNumber,
		Contact:     c.ContactPerson,
		Phone:       c.PhoneNumber,
		Domain:      c.DomainName,
		PAN:         c.PANNumber,
	}
}
