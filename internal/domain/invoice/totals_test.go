package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(t *testing.T, id, qty, price string) invoice.LineItem {
	t.Helper()
	it, err := invoice.LineItemFromFreeText(id, "Licencia "+id, d(qty), d(price))
	require.NoError(t, err)
	return it
}

func TestCompute_SubtotalEsSumaDeAmounts(t *testing.T) {
	tests := []struct {
		name         string
		items        []invoice.LineItem
		wantSubtotal string
	}{
		{name: "lista vacía", items: nil, wantSubtotal: "0"},
		{name: "un ítem", items: []invoice.LineItem{item(t, "a", "2", "150.50")}, wantSubtotal: "301"},
		{
			name: "varios ítems",
			items: []invoice.LineItem{
				item(t, "a", "3", "100"),
				item(t, "b", "1", "0.10"),
				item(t, "c", "12", "25"),
			},
			wantSubtotal: "600.1",
		},
		{
			name:         "ítem sin amount cuenta como cero",
			items:        []invoice.LineItem{{ID: "x", Description: "vacío"}},
			wantSubtotal: "0",
		},
	}

	calc := invoice.NewCalculator(invoice.DefaultTaxRate)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Compute(tt.items, decimal.Zero, decimal.Zero)
			assert.True(t, d(tt.wantSubtotal).Equal(got.Subtotal),
				"subtotal esperado %s, obtenido %s", tt.wantSubtotal, got.Subtotal)

			sum := decimal.Zero
			for _, it := range tt.items {
				sum = sum.Add(it.Amount)
			}
			assert.True(t, sum.Equal(got.Subtotal))
		})
	}
}

func TestCompute_ImpuestoUsaTasaConfigurable(t *testing.T) {
	items := []invoice.LineItem{item(t, "a", "1", "1000")}

	t18 := invoice.NewCalculator(invoice.DefaultTaxRate).Compute(items, decimal.Zero, decimal.Zero)
	assert.True(t, d("180").Equal(t18.TaxAmount))
	assert.True(t, d("1180").Equal(t18.GrandTotal))

	t12 := invoice.NewCalculator(d("0.12")).Compute(items, decimal.Zero, decimal.Zero)
	assert.True(t, d("120").Equal(t12.TaxAmount))
	assert.True(t, d("12").Equal(invoice.NewCalculator(d("0.12")).TaxPercent()))
}

// Fórmula fijada: grandTotal = subtotal − discount + tax + adjustment.
// La aplicación original recalculaba subtotal × 1.18 e ignoraba descuento y ajuste.
func TestGrandTotal_IncluyeDescuentoYAjuste(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultTaxRate)
	items := []invoice.LineItem{item(t, "a", "2", "500")}

	got := calc.Compute(items, d("-10"), d("100"))

	assert.True(t, d("1000").Equal(got.Subtotal))
	assert.True(t, d("180").Equal(got.TaxAmount))
	assert.True(t, d("100").Equal(got.Discount))
	assert.True(t, d("-10").Equal(got.Adjustment))
	assert.True(t, d("1070").Equal(got.GrandTotal), "1000 - 100 + 180 - 10 = 1070, obtenido %s", got.GrandTotal)
}

func TestRecompute_ConservaDescuentoYAjuste(t *testing.T) {
	calc := invoice.NewCalculator(invoice.DefaultTaxRate)
	prev := calc.Compute([]invoice.LineItem{item(t, "a", "1", "100")}, d("5"), d("20"))

	next := calc.Recompute([]invoice.LineItem{item(t, "a", "1", "100"), item(t, "b", "1", "100")}, prev)

	assert.True(t, d("200").Equal(next.Subtotal))
	assert.True(t, d("20").Equal(next.Discount))
	assert.True(t, d("5").Equal(next.Adjustment))
	assert.True(t, d("221").Equal(next.GrandTotal))
}

func TestNewCalculator_TasaNegativaEsCero(t *testing.T) {
	calc := invoice.NewCalculator(d("-0.5"))
	assert.True(t, calc.TaxRate.IsZero())
}
