package dto

import (
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// BankDetails datos bancarios del perfil.
type BankDetails struct {
	AccountName   string `json:"accountName" validate:"max=200"`
	AccountNumber string `json:"accountNumber" validate:"max=34"`
	BankName      string `json:"bankName" validate:"max=200"`
	Branch        string `json:"branch" validate:"max=200"`
	IFSCCode      string `json:"ifscCode" validate:"omitempty,len=11,alphanum"`
}

// UpdateCompanyProfileRequest entrada para PUT /api/company (campos opcionales).
// Address acepta un string (perfiles antiguos) o un objeto estructurado.
type UpdateCompanyProfileRequest struct {
	CompanyName  *string          `json:"companyName" validate:"omitempty,min=1,max=200"`
	Address      *invoice.Address `json:"address"`
	GSTNumber    *string          `json:"gstNumber" validate:"omitempty,len=15,alphanum"`
	PANNumber    *string          `json:"panNumber" validate:"omitempty,len=10,alphanum"`
	DirectorName *string          `json:"directorName" validate:"omitempty,max=200"`
	PhoneNumber  *string          `json:"phoneNumber" validate:"omitempty,max=30"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Website      *string          `json:"website" validate:"omitempty,max=200"`
	Logo         *string          `json:"logo"`
	BankDetails  *BankDetails     `json:"bankDetails"`
}

// CompanyProfileResponse perfil de la empresa.
type CompanyProfileResponse struct {
	ID              string          `json:"_id"`
	CompanyName     string          `json:"companyName"`
	Address         invoice.Address `json:"address"`
	GSTNumber       string          `json:"gstNumber"`
	PANNumber       string          `json:"panNumber"`
	DirectorName    string          `json:"directorName"`
	PhoneNumber     string          `json:"phoneNumber"`
	Email           string          `json:"email"`
	Website         string          `json:"website"`
	Logo            string          `json:"logo,omitempty"`
	BankDetails     BankDetails     `json:"bankDetails"`
	ProfileComplete bool            `json:"profileComplete"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
