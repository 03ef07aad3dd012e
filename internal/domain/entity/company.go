package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// Estados de Company.
const (
	CompanyStatusActive   = "active"
	CompanyStatusInactive = "inactive"
)

// Company organización emisora de facturas (un tenant por registro).
// Bank se copia a PaymentDetails y los datos fiscales a BilledBy en cada factura nueva.
type Company struct {
	ID           string
	Name         string
	Address      invoice.Address // estructurada o texto libre (perfiles antiguos)
	GSTNumber    string
	PANNumber    string
	DirectorName string
	Phone        string
	Email        string
	Website      string
	Logo         string // URL o data URI
	Bank         invoice.PaymentDetails
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileComplete true cuando el perfil tiene lo necesario para emitir facturas.
func (c *Company) ProfileComplete() bool {
	return strings.TrimSpace(c.Name) != "" &&
		!c.Address.IsBlank() &&
		strings.TrimSpace(c.GSTNumber) != "" &&
		strings.TrimSpace(c.Phone) != "" &&
		strings.TrimSpace(c.Bank.AccountNumber) != ""
}

// Party datos de la empresa como emisor (BilledBy).
func (c *Company) Party() invoice.Party {
	return invoice.Party{
		CompanyName: c.Name,
		Address:     c.Address,
		TaxID:       c.GSTNumber,
		Contact:     c.DirectorName,
		Phone:       c.Phone,
		Domain:      c.Website,
		PAN:         c.PANNumber,
	}
}
