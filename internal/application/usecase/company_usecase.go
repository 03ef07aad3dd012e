package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/repository"
)

// CompanyUseCase perfil de la empresa emisora.
type CompanyUseCase struct {
	repo repository.CompanyRepository
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, now: time.Now}
}

// GetProfile devuelve domain.ErrNotFound si la empresa no existe.
func (uc *CompanyUseCase) GetProfile(ctx context.Context, companyID string) (*dto.CompanyProfileResponse, error) {
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyProfileResponse(company), nil
}

// UpdateProfile aplica solo los campos presentes.
func (uc *CompanyUseCase) UpdateProfile(ctx context.Context, companyID string, in dto.UpdateCompanyProfileRequest) (*dto.CompanyProfileResponse, error) {
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.CompanyName != nil {
		company.Name = *in.CompanyName
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.GSTNumber != nil {
		company.GSTNumber = *in.GSTNumber
	}
	if in.PANNumber != nil {
		company.PANNumber = *in.PANNumber
	}
	if in.DirectorName != nil {
		company.DirectorName = *in.DirectorName
	}
	if in.PhoneNumber != nil {
		company.Phone = *in.PhoneNumber
	}
	if in.Email != nil {
		company.Email = *in.Email
	}
	if in.Website != nil {
		company.Website = *in.Website
	}
	if in.Logo != nil {
		company.Logo = *in.Logo
	}
	if b := in.BankDetails; b != nil {
		company.Bank.AccountName = b.AccountName
		company.Bank.AccountNumber = b.AccountNumber
		company.Bank.BankName = b.BankName
		company.Bank.Branch = b.Branch
		company.Bank.IFSCCode = b.IFSCCode
	}
	company.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyProfileResponse(company), nil
}

func toCompanyProfileResponse(c *entity.Company) *dto.CompanyProfileResponse {
	return &dto.CompanyProfileResponse{
		ID:           c.ID,
		CompanyName:  c.Name,
		Address:      c.Address,
		GSTNumber:    c.GSTNumber,
		PANNumber:    c.PANNumber,
		DirectorName: c.DirectorName,
		PhoneNumber:  c.Phone,
		Email:        c.Email,
		Website:      c.Website,
		Logo:         c.Logo,
		BankDetails: dto.BankDetails{
			AccountName:   c.Bank.AccountName,
			AccountNumber: c.Bank.AccountNumber,
			BankName:      c.Bank.BankName,
			Branch:        c.Bank.Branch,
			IFSCCode:      c.Bank.IFSCCode,
		},
		ProfileComplete: c.ProfileComplete(),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
