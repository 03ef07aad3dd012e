package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/application/usecase"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

type memCompanies map[string]*entity.Company

func (m memCompanies) Create(_ context.Context, c *entity.Company) error { m[c.ID] = c; return nil }
func (m memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m[id], nil
}
func (m memCompanies) Update(_ context.Context, c *entity.Company) error { m[c.ID] = c; return nil }

type memProducts map[string]*entity.Product

func (m memProducts) Create(_ context.Context, p *entity.Product) error { m[p.ID] = p; return nil }
func (m memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return m[id], nil
}
func (m memProducts) GetByIDs(_ context.Context, companyID string, ids []string) (map[string]*entity.Product, error) {
	out := map[string]*entity.Product{}
	for _, id := range ids {
		if p, ok := m[id]; ok && p.CompanyID == companyID {
			out[id] = p
		}
	}
	return out, nil
}
func (m memProducts) Update(_ context.Context, p *entity.Product) error { m[p.ID] = p; return nil }
func (m memProducts) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (m memProducts) Delete(_ context.Context, id string) error { delete(m, id); return nil }

func strPtr(s string) *string { return &s }

func TestCompanyUseCase_UpdateProfileParcial(t *testing.T) {
	repo := memCompanies{"c1": {ID: "c1", Name: "Anoop Tech", Phone: "+91 1234"}}
	uc := usecase.NewCompanyUseCase(repo)
	addr := invoice.NewStructuredAddress(invoice.StructuredAddress{Street: "MG Road", City: "Pune"})

	resp, err := uc.UpdateProfile(context.Background(), "c1", dto.UpdateCompanyProfileRequest{
		Address:     &addr,
		GSTNumber:   strPtr("27AAAAA0000A1Z5"),
		BankDetails: &dto.BankDetails{AccountNumber: "0001", IFSCCode: "HDFC0000001"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Anoop Tech", resp.CompanyName, "campos ausentes no cambian")
	assert.Equal(t, "MG Road, Pune", resp.Address.Format())
	assert.True(t, resp.ProfileComplete)
	assert.Equal(t, "HDFC0000001", repo["c1"].Bank.IFSCCode)
}

func TestCompanyUseCase_GetProfileNoExiste(t *testing.T) {
	uc := usecase.NewCompanyUseCase(memCompanies{})

	_, err := uc.GetProfile(context.Background(), "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.UpdateProfile(context.Background(), "zzz", dto.UpdateCompanyProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_CRUDPorEmpresa(t *testing.T) {
	repo := memProducts{}
	uc := usecase.NewProductUseCase(repo)
	ctx := context.Background()

	created, err := uc.Create(ctx, "c1", dto.CreateProductRequest{Name: " Hosting ", UnitPrice: decimal.NewFromInt(136)})
	require.NoError(t, err)
	assert.Equal(t, "Hosting", created.Name)

	price := decimal.NewFromInt(150)
	updated, err := uc.Update(ctx, "c1", created.ID, dto.UpdateProductRequest{UnitPrice: &price})
	require.NoError(t, err)
	assert.True(t, updated.UnitPrice.Equal(price))

	_, err = uc.GetByID(ctx, "otra", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "otra empresa no ve el producto")
	assert.ErrorIs(t, uc.Delete(ctx, "otra", created.ID), domain.ErrNotFound)

	list, err := uc.List(ctx, "c1", 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, uc.Delete(ctx, "c1", created.ID))
	assert.Empty(t, repo)
}

func TestProductUseCase_Validaciones(t *testing.T) {
	uc := usecase.NewProductUseCase(memProducts{})
	ctx := context.Background()

	_, err := uc.Create(ctx, "c1", dto.CreateProductRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, "c1", dto.CreateProductRequest{Name: "x", UnitPrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUseCase_ListByCompany(t *testing.T) {
	repo := &memUsers{users: []*entity.User{
		{ID: "u1", CompanyID: "c1", Email: "a@b.co", PasswordHash: "hash"},
		{ID: "u2", CompanyID: "c2", Email: "c@d.co"},
	}}
	uc := usecase.NewUserUseCase(repo)

	list, err := uc.ListByCompany(context.Background(), "c1", 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].ID)

	_, err = uc.GetByID(context.Background(), "zzz")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

type memUsers struct {
	users []*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.users = append(m.users, u)
	return nil
}
func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.users {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}
