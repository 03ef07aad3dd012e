package invoice

import "github.com/shopspring/decimal"

// DefaultTaxRate GST 18% en fracción.
var DefaultTaxRate = decimal.RequireFromString("0.18")

// Totals resumen derivado de las líneas y los ajustes manuales.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	TaxAmount  decimal.Decimal `json:"gst"`
	Adjustment decimal.Decimal `json:"addLessAdjustments"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// Calculator calcula totales con una tasa de impuesto configurable (fracción: 0.18 = 18%).
type Calculator struct {
	TaxRate decimal.Decimal
}

// NewCalculator construye el calculador. Una tasa negativa se trata como cero.
func NewCalculator(taxRate decimal.Decimal) Calculator {
	if taxRate.IsNegative() {
		taxRate = decimal.Zero
	}
	return Calculator{TaxRate: taxRate}
}

// TaxPercent tasa expresada en porcentaje (0.18 -> 18).
func (c Calculator) TaxPercent() decimal.Decimal {
	return c.TaxRate.Mul(decimal.NewFromInt(100))
}

// Compute función pura: items + ajuste + descuento -> Totals.
//
//	subtotal   = Σ amount
//	taxAmount  = subtotal × TaxRate
//	grandTotal = subtotal − discount + taxAmount + adjustment
func (c Calculator) Compute(items []LineItem, adjustment, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount)
	}
	tax := subtotal.Mul(c.TaxRate)
	return Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		TaxRate:    c.TaxRate,
		TaxAmount:  tax,
		Adjustment: adjustment,
		GrandTotal: GrandTotal(subtotal, discount, tax, adjustment),
	}
}

// Recompute recalcula todo a partir de las líneas conservando descuento y ajuste previos.
func (c Calculator) Recompute(items []LineItem, prev Totals) Totals {
	return c.Compute(items, prev.Adjustment, prev.Discount)
}

// GrandTotal fórmula única del total a pagar.
func GrandTotal(subtotal, discount, taxAmount, adjustment decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(taxAmount).Add(adjustment)
}
