package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

func TestCanTransition_Flujo(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.InvoiceStatusDraft, entity.InvoiceStatusSent, true},
		{entity.InvoiceStatusDraft, entity.InvoiceStatusPaid, false},
		{entity.InvoiceStatusSent, entity.InvoiceStatusPaid, true},
		{entity.InvoiceStatusSent, entity.InvoiceStatusOverdue, true},
		{entity.InvoiceStatusOverdue, entity.InvoiceStatusPaid, true},
		{entity.InvoiceStatusPaid, entity.InvoiceStatusSent, false},
		{entity.InvoiceStatusSent, entity.InvoiceStatusDraft, false},
		{"archived", entity.InvoiceStatusSent, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, entity.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.False(t, entity.IsValidInvoiceStatus("archived"))
	assert.True(t, entity.IsValidInvoiceStatus(entity.InvoiceStatusOverdue))
}

func TestProfileComplete(t *testing.T) {
	c := &entity.Company{
		Name:      "Anoop Tech",
		Address:   invoice.NewLegacyAddress("MG Road, Pune"),
		GSTNumber: "27AAACA1234A1Z5",
		Phone:     "+91 98765 43210",
		Bank:      invoice.PaymentDetails{AccountNumber: "001122334455"},
	}
	assert.True(t, c.ProfileComplete())

	c.Bank.AccountNumber = "  "
	assert.False(t, c.ProfileComplete(), "sin cuenta bancaria el perfil está incompleto")

	c.Bank.AccountNumber = "001122334455"
	c.Address = invoice.NewLegacyAddress("")
	assert.False(t, c.ProfileComplete())
}

func TestCompanyParty_MapeaEmisor(t *testing.T) {
	c := &entity.Company{Name: "Anoop Tech", GSTNumber: "GST1", DirectorName: "A. Kumar", Website: "anoop.tech", PANNumber: "PAN1"}

	p := c.Party()
	assert.Equal(t, "Anoop Tech", p.CompanyName)
	assert.Equal(t, "GST1", p.TaxID)
	assert.Equal(t, "A. Kumar", p.Contact)
	assert.Equal(t, "anoop.tech", p.Domain)
	assert.Equal(t, "PAN1", p.PAN)
}
