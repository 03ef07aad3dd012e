package invoice

import (
	"strings"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
)

// Validate comprueba los campos obligatorios antes de permitir el envío.
// Devuelve *domain.ValidationError con todos los campos faltantes.
func Validate(d Document) error {
	fields := map[string]string{}
	required := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			fields[key] = "es requerido"
		}
	}

	required("billedTo.companyName", d.BilledTo.CompanyName)
	if d.BilledTo.Address.IsBlank() {
		fields["billedTo.address"] = "es requerido"
	}
	required("billedTo.gstin", d.BilledTo.TaxID)
	required("billedTo.contact", d.BilledTo.Contact)
	required("billedTo.phone", d.BilledTo.Phone)

	if len(d.Items) == 0 {
		fields["items"] = "se requiere al menos un ítem"
	}

	required("invoiceDetails.type", d.Details.Type)
	if d.Details.IssueDate.IsZero() {
		fields["invoiceDetails.date"] = "es requerida"
	}
	if d.Details.DueDate.IsZero() {
		fields["invoiceDetails.dueDate"] = "es requerida"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Warnings restricciones blandas que no bloquean el envío.
func Warnings(d Document) []string {
	var out []string
	det := d.Details
	if !det.IssueDate.IsZero() && !det.DueDate.IsZero() && det.DueDate.Before(det.MinDueDate()) {
		out = append(out, "la fecha de vencimiento es anterior a la fecha de emisión")
	}
	if det.Type != "" && !IsValidType(det.Type) {
		out = append(out, "tipo de factura desconocido: "+det.Type)
	}
	return out
}
