package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
)

// LineItem una línea facturable. Amount siempre es Quantity × UnitPrice.
type LineItem struct {
	ID          string          `json:"id"`
	CatalogID   string          `json:"catalogId,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// CatalogEntry producto disponible en el catálogo de la empresa.
type CatalogEntry struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// LineItemFromCatalog crea una línea desde el catálogo: cantidad 1, Amount = UnitPrice.
// Si la entrada no tiene descripción se usa el nombre.
func LineItemFromCatalog(id string, entry CatalogEntry) (LineItem, error) {
	desc := entry.Description
	if strings.TrimSpace(desc) == "" {
		desc = entry.Name
	}
	item := LineItem{
		ID:          id,
		CatalogID:   entry.ID,
		Description: desc,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   entry.UnitPrice,
	}
	item.Recompute()
	if err := item.Validate(); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// LineItemFromFreeText crea una línea escrita a mano.
func LineItemFromFreeText(id, description string, quantity, unitPrice decimal.Decimal) (LineItem, error) {
	item := LineItem{
		ID:          id,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
	item.Recompute()
	if err := item.Validate(); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// Recompute recalcula Amount.
func (li *LineItem) Recompute() {
	li.Amount = li.Quantity.Mul(li.UnitPrice)
}

// WithQuantity devuelve una copia con la nueva cantidad y Amount recalculado.
func (li LineItem) WithQuantity(q decimal.Decimal) (LineItem, error) {
	if !q.GreaterThan(decimal.Zero) {
		return li, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	li.Quantity = q
	li.Recompute()
	return li, nil
}

// WithUnitPrice devuelve una copia con el nuevo precio unitario y Amount recalculado.
func (li LineItem) WithUnitPrice(p decimal.Decimal) (LineItem, error) {
	if p.IsNegative() {
		return li, domain.NewValidationError("unitPrice", "no puede ser negativo")
	}
	li.UnitPrice = p
	li.Recompute()
	return li, nil
}

// WithDescription devuelve una copia con la nueva descripción.
func (li LineItem) WithDescription(desc string) (LineItem, error) {
	if strings.TrimSpace(desc) == "" {
		return li, domain.NewValidationError("description", "es requerida")
	}
	li.Description = desc
	return li, nil
}

// Validate verifica descripción, cantidad y precio.
func (li LineItem) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(li.Description) == "" {
		fields["description"] = "es requerida"
	}
	if !li.Quantity.GreaterThan(decimal.Zero) {
		fields["quantity"] = "debe ser mayor que cero"
	}
	if li.UnitPrice.IsNegative() {
		fields["unitPrice"] = "no puede ser negativo"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// LineItems lista de líneas de la factura (sección "items").
type LineItems []LineItem

// Clone copia independiente de la lista.
func (l LineItems) Clone() LineItems {
	if l == nil {
		return nil
	}
	out := make(LineItems, len(l))
	copy(out, l)
	return out
}

// IndexOf posición del ítem con ese ID o -1.
func (l LineItems) IndexOf(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}
