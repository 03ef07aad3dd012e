package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
// address y bank_details se guardan como JSONB; address conserva la variante (string u objeto).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, address, gst_number, pan_number, director_name, phone, email,
	website, logo, bank_details, status, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	address, bank, err := marshalCompanyJSON(company)
	if err != nil {
		return err
	}
	query := `INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(ctx, query,
		company.ID, company.Name, address, company.GSTNumber, company.PANNumber,
		company.DirectorName, company.Phone, company.Email, company.Website,
		nullIfEmpty(company.Logo), bank, company.Status, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	var (
		c             entity.Company
		address, bank []byte
		logo          *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &address, &c.GSTNumber, &c.PANNumber, &c.DirectorName,
		&c.Phone, &c.Email, &c.Website, &logo, &bank, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	c.Logo = emptyIfNull(logo)
	if len(address) > 0 {
		if err := json.Unmarshal(address, &c.Address); err != nil {
			return nil, fmt.Errorf("decode company address: %w", err)
		}
	}
	if len(bank) > 0 {
		if err := json.Unmarshal(bank, &c.Bank); err != nil {
			return nil, fmt.Errorf("decode company bank: %w", err)
		}
	}
	return &c, nil
}

// Update actualiza el perfil de una empresa existente.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	address, bank, err := marshalCompanyJSON(company)
	if err != nil {
		return err
	}
	query := `
		UPDATE companies SET name = $2, address = $3, gst_number = $4, pan_number = $5,
		       director_name = $6, phone = $7, email = $8, website = $9, logo = $10,
		       bank_details = $11, status = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		company.ID, company.Name, address, company.GSTNumber, company.PANNumber,
		company.DirectorName, company.Phone, company.Email, company.Website,
		nullIfEmpty(company.Logo), bank, company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func marshalCompanyJSON(c *entity.Company) (address, bank []byte, err error) {
	if address, err = json.Marshal(c.Address); err != nil {
		return nil, nil, fmt.Errorf("encode company address: %w", err)
	}
	if bank, err = json.Marshal(c.Bank); err != nil {
		return nil, nil, fmt.Errorf("encode company bank: %w", err)
	}
	return address, bank, nil
}
