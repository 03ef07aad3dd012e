package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

const (
	catalogLimit       = 500
	recentNumbersLimit = 50
)

var (
	_ ProfileSource   = (*RepositorySources)(nil)
	_ CatalogSource   = (*RepositorySources)(nil)
	_ NumberingSource = (*RepositorySources)(nil)
)

// RepositorySources implementa las fuentes de carga de la sesión sobre los repositorios.
type RepositorySources struct {
	companyRepo  repository.CompanyRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	sequenceRepo repository.InvoiceSequenceRepository
}

// NewRepositorySources construye las fuentes.
func NewRepositorySources(
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	sequenceRepo repository.InvoiceSequenceRepository,
) *RepositorySources {
	return &RepositorySources{
		companyRepo:  companyRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		sequenceRepo: sequenceRepo,
	}
}

// CompanyProfile devuelve domain.ErrNotFound si la empresa no existe.
func (s *RepositorySources) CompanyProfile(ctx context.Context, companyID string) (*entity.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func (s *RepositorySources) Catalog(ctx context.Context, companyID string) ([]invoice.CatalogEntry, error) {
	products, err := s.productRepo.ListByCompany(ctx, companyID, catalogLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("listar catálogo: %w", err)
	}
	out := make([]invoice.CatalogEntry, 0, len(products))
	for _, p := range products {
		out = append(out, p.CatalogEntry())
	}
	return out, nil
}

// LastSequence usa el contador del año fiscal; sin contador recurre a las facturas
// recientes (datos anteriores al contador).
func (s *RepositorySources) LastSequence(ctx context.Context, companyID, fiscalYear string) (string, error) {
	current, ok, err := s.sequenceRepo.Current(ctx, companyID, fiscalYear)
	if err != nil {
		return "", fmt.Errorf("consultar consecutivo: %w", err)
	}
	if ok {
		return invoice.FormatSequence(int(current)), nil
	}
	recent, err := s.invoiceRepo.RecentNumbers(ctx, companyID, recentNumbersLimit)
	if err != nil {
		return "", fmt.Errorf("consultar facturas recientes: %w", err)
	}
	return invoice.LastSequence(recent, fiscalYear), nil
}
