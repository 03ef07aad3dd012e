// Package editor implementa la máquina de estados de edición por secciones de una factura.
//
// Estados: Idle (sin sección activa) y Editing(sección). Seleccionar una sección copia
// su contenido a un borrador independiente; guardar reemplaza la sección completa en el
// documento y, si la sección es "items", recalcula los totales.
package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// Editor no es seguro para uso concurrente; la sesión que lo posee serializa el acceso.
type Editor struct {
	doc    invoice.Document
	calc   invoice.Calculator
	active invoice.Section
	draft  invoice.SectionValue
	newID  func() string
}

// Option configura el Editor.
type Option func(*Editor)

// WithIDGenerator reemplaza el generador de IDs de línea (por defecto UUID v4).
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New crea un editor en estado Idle sobre una copia de doc.
func New(doc invoice.Document, calc invoice.Calculator, opts ...Option) *Editor {
	e := &Editor{
		doc:   doc.Clone(),
		calc:  calc,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Document copia profunda del documento confirmado.
func (e *Editor) Document() invoice.Document { return e.doc.Clone() }

// Calculator calculador de totales en uso.
func (e *Editor) Calculator() invoice.Calculator { return e.calc }

// ActiveSection sección en edición; false si el editor está en Idle.
func (e *Editor) ActiveSection() (invoice.Section, bool) {
	return e.active, e.active != ""
}

// Editing true si hay una sección en edición.
func (e *Editor) Editing() bool { return e.active != "" }

// Draft copia del borrador actual o nil en Idle.
func (e *Editor) Draft() invoice.SectionValue {
	if e.draft == nil {
		return nil
	}
	return cloneValue(e.draft)
}

// Select entra a Editing(s). Si ya se editaba otra sección su borrador se descarta.
func (e *Editor) Select(s invoice.Section) error {
	v, err := e.doc.Section(s)
	if err != nil {
		return err
	}
	e.active = s
	e.draft = v
	return nil
}

// Cancel vuelve a Idle sin tocar el documento. En Idle no hace nada.
func (e *Editor) Cancel() {
	e.active = ""
	e.draft = nil
}

// Save reemplaza la sección activa con v y vuelve a Idle.
// Con "items" se normalizan las líneas y se recalculan los totales conservando
// descuento y ajuste.
func (e *Editor) Save(v invoice.SectionValue) error {
	if e.active == "" {
		return domain.ErrNoActiveSection
	}
	if v == nil {
		return fmt.Errorf("%w: valor vacío para %s", domain.ErrSectionMismatch, e.active)
	}

	if e.active == invoice.SectionItems {
		items, ok := v.(invoice.LineItems)
		if !ok {
			return fmt.Errorf("%w: items espera LineItems, recibido %T", domain.ErrSectionMismatch, v)
		}
		normalized, err := e.normalizeItems(items)
		if err != nil {
			return err
		}
		v = normalized
	}

	if err := e.doc.ReplaceSection(e.active, v); err != nil {
		return err
	}
	if e.active == invoice.SectionItems {
		e.doc.Totals = e.calc.Recompute(e.doc.Items, e.doc.Totals)
	}
	e.Cancel()
	return nil
}

// SaveDraft confirma el borrador actual tal como está.
func (e *Editor) SaveDraft() error {
	if e.active == "" {
		return domain.ErrNoActiveSection
	}
	return e.Save(e.draft)
}

// Reset reemplaza el documento completo y vuelve a Idle.
func (e *Editor) Reset(doc invoice.Document) {
	e.doc = doc.Clone()
	e.Cancel()
}

// SetAdjustments fija descuento y ajuste manual y recalcula los totales con las
// líneas confirmadas. No altera el borrador.
func (e *Editor) SetAdjustments(discount, adjustment decimal.Decimal) error {
	if discount.IsNegative() {
		return domain.NewValidationError("discount", "no puede ser negativo")
	}
	e.doc.Totals = e.calc.Compute(e.doc.Items, adjustment, discount)
	return nil
}

// ── Operaciones sobre el borrador de ítems ───────────────────────────────────

// UpdateItem reemplaza una línea del borrador por lo que devuelva fn.
// Si fn falla el borrador no cambia.
func (e *Editor) UpdateItem(id string, fn func(invoice.LineItem) (invoice.LineItem, error)) error {
	return e.updateItem(id, fn)
}

// UpdateItemQuantity cambia la cantidad de una línea del borrador; su amount se
// recalcula al instante, los totales no hasta Save.
func (e *Editor) UpdateItemQuantity(id string, quantity decimal.Decimal) error {
	return e.updateItem(id, func(li invoice.LineItem) (invoice.LineItem, error) {
		return li.WithQuantity(quantity)
	})
}

// UpdateItemUnitPrice cambia el precio unitario de una línea del borrador.
func (e *Editor) UpdateItemUnitPrice(id string, price decimal.Decimal) error {
	return e.updateItem(id, func(li invoice.LineItem) (invoice.LineItem, error) {
		return li.WithUnitPrice(price)
	})
}

// UpdateItemDescription cambia la descripción de una línea del borrador.
func (e *Editor) UpdateItemDescription(id, description string) error {
	return e.updateItem(id, func(li invoice.LineItem) (invoice.LineItem, error) {
		return li.WithDescription(description)
	})
}

// AddFreeTextItem agrega una línea escrita a mano al final del borrador.
func (e *Editor) AddFreeTextItem(description string, quantity, unitPrice decimal.Decimal) (invoice.LineItem, error) {
	items, err := e.itemsDraft()
	if err != nil {
		return invoice.LineItem{}, err
	}
	li, err := invoice.LineItemFromFreeText(e.newID(), description, quantity, unitPrice)
	if err != nil {
		return invoice.LineItem{}, err
	}
	e.draft = append(items, li)
	return li, nil
}

// AddCatalogItem agrega una línea desde el catálogo con cantidad 1.
func (e *Editor) AddCatalogItem(entry invoice.CatalogEntry) (invoice.LineItem, error) {
	items, err := e.itemsDraft()
	if err != nil {
		return invoice.LineItem{}, err
	}
	li, err := invoice.LineItemFromCatalog(e.newID(), entry)
	if err != nil {
		return invoice.LineItem{}, err
	}
	e.draft = append(items, li)
	return li, nil
}

// RemoveItem quita una línea del borrador. La última línea no se puede quitar.
func (e *Editor) RemoveItem(id string) error {
	items, err := e.itemsDraft()
	if err != nil {
		return err
	}
	idx := items.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	if len(items) <= 1 {
		return fmt.Errorf("%w: %w", domain.ErrLastItem, domain.NewValidationError("items", domain.ErrLastItem.Error()))
	}
	out := make(invoice.LineItems, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	e.draft = out
	return nil
}

func (e *Editor) updateItem(id string, fn func(invoice.LineItem) (invoice.LineItem, error)) error {
	items, err := e.itemsDraft()
	if err != nil {
		return err
	}
	idx := items.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	updated, err := fn(items[idx])
	if err != nil {
		return err
	}
	items[idx] = updated
	return nil
}

func (e *Editor) itemsDraft() (invoice.LineItems, error) {
	if e.active == "" {
		return nil, domain.ErrNoActiveSection
	}
	if e.active != invoice.SectionItems {
		return nil, fmt.Errorf("%w: edición de ítems con %s activa", domain.ErrSectionMismatch, e.active)
	}
	items, _ := e.draft.(invoice.LineItems)
	return items, nil
}

// normalizeItems asigna IDs faltantes, recalcula amounts y valida cada línea.
func (e *Editor) normalizeItems(items invoice.LineItems) (invoice.LineItems, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "se requiere al menos un ítem")
	}
	out := items.Clone()
	seen := make(map[string]bool, len(out))
	fields := map[string]string{}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = e.newID()
		}
		if seen[out[i].ID] {
			fields[fmt.Sprintf("items[%d].id", i)] = "duplicado"
		}
		seen[out[i].ID] = true
		out[i].Recompute()
		if err := out[i].Validate(); err != nil {
			if ve, ok := err.(*domain.ValidationError); ok {
				for k, r := range ve.Fields {
					fields[fmt.Sprintf("items[%d].%s", i, k)] = r
				}
			}
		}
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	return out, nil
}

func cloneValue(v invoice.SectionValue) invoice.SectionValue {
	if items, ok := v.(invoice.LineItems); ok {
		return items.Clone()
	}
	return v
}
