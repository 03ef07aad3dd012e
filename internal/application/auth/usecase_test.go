package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/application/auth"
	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
	"github.com/jhoicas/invoice-builder-api/pkg/jwt"
)

type memCompanies map[string]*entity.Company

func (m memCompanies) Create(_ context.Context, c *entity.Company) error { m[c.ID] = c; return nil }
func (m memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m[id], nil
}
func (m memCompanies) Update(_ context.Context, c *entity.Company) error { m[c.ID] = c; return nil }

type memUsers struct {
	byID      map[string]*entity.User
	createErr error
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.byID[u.ID] = u
	return nil
}
func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) { return m.byID[id], nil }
func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (m *memUsers) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.byID {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeTx aplica los cambios directamente; no hay rollback.
type fakeTx struct {
	companies memCompanies
	users     *memUsers
}

func (f *fakeTx) RunAuth(_ context.Context, fn func(repository.CompanyRepository, repository.UserRepository) error) error {
	return fn(f.companies, f.users)
}

const secret = "secreto-de-prueba"

func newAuth() (*auth.AuthUseCase, memCompanies, *memUsers) {
	companies := memCompanies{}
	users := &memUsers{byID: map[string]*entity.User{}}
	uc := auth.NewAuthUseCase(users, companies, &fakeTx{companies: companies, users: users},
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"})
	return uc, companies, users
}

func TestRegisterUser_CreaEmpresaYAdmin(t *testing.T) {
	uc, companies, users := newAuth()

	resp, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Name: "Asha", Email: " Asha@Example.com ", Password: "supersecreto", CompanyName: "Anoop Tech",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", resp.Email)
	assert.Equal(t, entity.RoleAdmin, resp.Role)
	require.Contains(t, companies, resp.CompanyID)
	assert.Equal(t, "Anoop Tech", companies[resp.CompanyID].Name)
	assert.False(t, companies[resp.CompanyID].ProfileComplete())
	assert.NotEqual(t, "supersecreto", users.byID[resp.ID].PasswordHash)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _, _ := newAuth()
	in := dto.RegisterRequest{Email: "a@b.co", Password: "supersecreto"}
	_, err := uc.RegisterUser(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.RegisterUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_ErrorDelRepositorio(t *testing.T) {
	uc, _, users := newAuth()
	users.createErr = errors.New("db caída")

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "supersecreto"})
	assert.EqualError(t, err, "db caída")
}

func TestLogin_TokenYPerfil(t *testing.T) {
	uc, companies, _ := newAuth()
	reg, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "supersecreto"})
	require.NoError(t, err)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Email: "A@B.co", Password: "supersecreto"})
	require.NoError(t, err)
	assert.False(t, resp.ProfileComplete)
	userID, companyID, role, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, reg.CompanyID, companyID)
	assert.Equal(t, entity.RoleAdmin, role)

	c := companies[reg.CompanyID]
	c.Name = "Anoop Tech"
	c.Address = invoice.NewLegacyAddress("Pune")
	c.GSTNumber = "27AAAAA0000A1Z5"
	c.Phone = "+91 1234"
	c.Bank.AccountNumber = "0001"
	resp, err = uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.co", Password: "supersecreto"})
	require.NoError(t, err)
	assert.True(t, resp.ProfileComplete)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _, users := newAuth()
	reg, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "supersecreto"})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@b.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	users.byID[reg.ID].Status = entity.UserStatusInactive
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.co", Password: "supersecreto"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
