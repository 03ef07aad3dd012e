package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// El receptor se guarda completo en customer (JSONB) y su nombre en customer_name para la búsqueda.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, number, prefix, invoice_type, fiscal_year, sequence,
	customer, issue_date, due_date, subtotal, discount, tax_rate, tax_amount, adjustment,
	grand_total, status, created_by, created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	customer, err := json.Marshal(inv.Customer)
	if err != nil {
		return fmt.Errorf("encode invoice customer: %w", err)
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `, customer_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.Number, inv.Prefix, inv.Type, inv.FiscalYear, inv.Sequence,
		customer, inv.IssueDate, inv.DueDate, inv.Subtotal, inv.Discount, inv.TaxRate,
		inv.TaxAmount, inv.Adjustment, inv.GrandTotal, inv.Status, nullIfEmpty(inv.CreatedBy),
		inv.CreatedAt, inv.UpdatedAt, inv.Customer.CompanyName,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice number %s", domain.ErrDuplicate, inv.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de detalle.
func (r *InvoiceRepo) CreateDetail(ctx context.Context, detail *entity.InvoiceDetail) error {
	if detail.ID == "" {
		detail.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_details (id, invoice_id, product_id, position, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		detail.ID, detail.InvoiceID, nullIfEmpty(detail.ProductID), detail.Position,
		detail.Description, detail.Quantity, detail.UnitPrice, detail.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice detail: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetDetailsByInvoiceID obtiene las líneas en el orden en que se guardaron.
func (r *InvoiceRepo) GetDetailsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceDetail, error) {
	query := `
		SELECT id, invoice_id, product_id, position, description, quantity, unit_price, amount
		FROM invoice_details WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice details: %w", err)
	}
	defer rows.Close()

	var list []*entity.InvoiceDetail
	for rows.Next() {
		var (
			d         entity.InvoiceDetail
			productID *string
		)
		if err := rows.Scan(&d.ID, &d.InvoiceID, &productID, &d.Position, &d.Description, &d.Quantity, &d.UnitPrice, &d.Amount); err != nil {
			return nil, fmt.Errorf("scan invoice detail: %w", err)
		}
		d.ProductID = emptyIfNull(productID)
		list = append(list, &d)
	}
	return list, rows.Err()
}

// List filtra por empresa, estado y texto (número o nombre del cliente) y devuelve también el total.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, likePattern(q))
		where = append(where, fmt.Sprintf(`(number ILIKE $%d ESCAPE '\' OR customer_name ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// RecentNumbers números de las últimas facturas de la empresa.
func (r *InvoiceRepo) RecentNumbers(ctx context.Context, companyID string, limit int) ([]invoice.NumberedInvoice, error) {
	query := `SELECT number, created_at FROM invoices WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent invoice numbers: %w", err)
	}
	defer rows.Close()

	var list []invoice.NumberedInvoice
	for rows.Next() {
		var n invoice.NumberedInvoice
		if err := rows.Scan(&n.Number, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice number: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la factura.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar scanInvoice.
type pgxScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var (
		inv       entity.Invoice
		customer  []byte
		createdBy *string
	)
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.Number, &inv.Prefix, &inv.Type, &inv.FiscalYear, &inv.Sequence,
		&customer, &inv.IssueDate, &inv.DueDate, &inv.Subtotal, &inv.Discount, &inv.TaxRate,
		&inv.TaxAmount, &inv.Adjustment, &inv.GrandTotal, &inv.Status, &createdBy,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.CreatedBy = emptyIfNull(createdBy)
	if len(customer) > 0 {
		if err := json.Unmarshal(customer, &inv.Customer); err != nil {
			return nil, fmt.Errorf("decode invoice customer: %w", err)
		}
	}
	return &inv, nil
}
