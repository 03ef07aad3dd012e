package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

var _ repository.InvoiceSequenceRepository = (*InvoiceSequenceRepo)(nil)

// InvoiceSequenceRepo contador de consecutivos por (empresa, año fiscal) en invoice_sequences.
// Next es un único upsert: dos emisiones concurrentes nunca reciben el mismo valor.
type InvoiceSequenceRepo struct {
	q Querier
}

// NewInvoiceSequenceRepository construye el repositorio. Pasar pool o tx (Querier).
func NewInvoiceSequenceRepository(q Querier) *InvoiceSequenceRepo {
	return &InvoiceSequenceRepo{q: q}
}

// Next avanza el contador; la primera emisión del año devuelve baseline+1.
func (r *InvoiceSequenceRepo) Next(ctx context.Context, companyID, fiscalYear string, baseline int64) (int64, error) {
	const q = `
		INSERT INTO invoice_sequences (company_id, fiscal_year, last, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (company_id, fiscal_year)
		DO UPDATE SET last = invoice_sequences.last + 1, updated_at = now()
		RETURNING last`
	var last int64
	if err := r.q.QueryRow(ctx, q, companyID, fiscalYear, baseline+1).Scan(&last); err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return last, nil
}

// Current último valor entregado para la empresa y el año.
func (r *InvoiceSequenceRepo) Current(ctx context.Context, companyID, fiscalYear string) (int64, bool, error) {
	const q = `SELECT last FROM invoice_sequences WHERE company_id = $1 AND fiscal_year = $2`
	var last int64
	if err := r.q.QueryRow(ctx, q, companyID, fiscalYear).Scan(&last); err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("current invoice sequence: %w", err)
	}
	return last, true, nil
}
