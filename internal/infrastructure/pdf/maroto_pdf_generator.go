// Package pdf genera la representación imprimible de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Logo + Emisor         │  N° Factura + Fechas        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILLED BY / BILLED TO                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Descripción | Cant. | P.Unit | Importe           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / GST / Ajuste / TOTAL        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGO + TÉRMINOS           │  Firma autorizada               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// La fuente base no tiene el símbolo de la rupia.
const currencyMarker = "Rs."

// Terms impresos al pie de cada factura.
var defaultTerms = []string{
	"Payment is due by the due date shown above.",
	"Please quote the invoice number with your payment.",
	"Goods and services once billed are not returnable.",
}

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
	terms   []string
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.English), terms: defaultTerms}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc invoice.Document, meta appbilling.PDFMeta) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+meta.FullNumber, true).
		WithAuthor(doc.BilledBy.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc, meta))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(doc.BilledBy, doc.BilledTo))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableDetailRows(doc.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc.Totals, meta.TaxPercent))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(doc, meta))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: logo y emisor (izq), número y fechas (der).
func (g *MarotoPDFGenerator) headerRow(doc invoice.Document, meta appbilling.PDFMeta) core.Row {
	nameSize := 7
	var cols []core.Col
	if logo, ext, ok := decodeLogo(doc.Logo); ok {
		cols = append(cols, col.New(2).Add(image.NewFromBytes(logo, ext, props.Rect{Percent: 90, Center: true})))
		nameSize = 5
	}
	cols = append(cols,
		col.New(nameSize).Add(
			text.New(doc.BilledBy.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("GSTIN: "+nonEmpty(doc.BilledBy.TaxID, "-"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("TAX INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(meta.FullNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Date: %s   Due: %s", doc.Details.IssueDate, doc.Details.DueDate), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New(strings.ToUpper(meta.Status), props.Text{
				Size: 7, Align: align.Right, Top: 18, Color: colorGray,
			}),
		),
	)
	return row.New(22).Add(cols...)
}

// partiesRow: emisor y receptor lado a lado.
func partiesRow(by, to invoice.Party) core.Row {
	block := func(title string, p invoice.Party) core.Col {
		return col.New(6).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(p.CompanyName, "-"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(nonEmpty(p.Address.Format(), "-"), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(fmt.Sprintf("GSTIN: %s   |   Tel: %s", nonEmpty(p.TaxID, "-"), nonEmpty(p.Phone, "-")),
				props.Text{Size: 8, Top: 17, Color: colorGray}),
			text.New(contactLine(p), props.Text{Size: 8, Top: 22, Color: colorGray}),
		)
	}
	return row.New(28).Add(block("BILLED BY", by), block("BILLED TO", to))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Description", 5, align.Left),
		h("Qty", 1, align.Center),
		h("Rate", 2, align.Right),
		h("Amount", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea, en el orden del documento.
func (g *MarotoPDFGenerator) tableDetailRows(items invoice.LineItems) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(g.money(it.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. Descuento y ajuste solo si no son cero.
func (g *MarotoPDFGenerator) totalsRow(t invoice.Totals, taxPercent string) core.Row {
	labels := col.New(3)
	values := col.New(3)
	top := 0.0
	add := func(label, value string, bold bool) {
		style := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if bold {
			style.Style = fontstyle.Bold
			style.Color = colorPrimary
			style.Size = 10
		}
		labels.Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: style.Size, Align: align.Right, Right: 2, Top: top, Color: style.Color}))
		values.Add(text.New(value, style))
		top += 5
	}
	add("Subtotal:", g.money(t.Subtotal), false)
	if !t.Discount.IsZero() {
		add("Discount:", "- "+g.money(t.Discount), false)
	}
	add(fmt.Sprintf("GST (%s%%):", taxPercent), g.money(t.TaxAmount), false)
	if !t.Adjustment.IsZero() {
		add("Add/Less adjustments:", g.money(t.Adjustment), false)
	}
	add("TOTAL:", g.money(t.GrandTotal), true)
	return row.New(top+2).Add(col.New(6), labels, values)
}

// footerRow: datos de pago y términos (izq), firma autorizada (der).
func (g *MarotoPDFGenerator) footerRow(doc invoice.Document, meta appbilling.PDFMeta) core.Row {
	p := doc.PaymentDetails
	left := col.New(8).Add(
		text.New("PAYMENT DETAILS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(fmt.Sprintf("%s   |   A/C %s", nonEmpty(p.AccountName, "-"), nonEmpty(p.AccountNumber, "-")),
			props.Text{Size: 8, Top: 6, Color: colorGray}),
		text.New(fmt.Sprintf("%s, %s   |   IFSC %s", nonEmpty(p.BankName, "-"), nonEmpty(p.Branch, "-"), nonEmpty(p.IFSCCode, "-")),
			props.Text{Size: 8, Top: 11, Color: colorGray}),
		text.New("TERMS AND CONDITIONS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 18}),
	)
	top := 23.0
	for i, term := range g.terms {
		left.Add(text.New(fmt.Sprintf("%d. %s", i+1, term), props.Text{Size: 7, Top: top, Color: colorGray}))
		top += 4
	}
	signatory := nonEmpty(meta.DirectorName, doc.BilledBy.Contact)
	right := col.New(4).Add(
		text.New("For "+doc.BilledBy.CompanyName, props.Text{Size: 8, Align: align.Right, Top: 1}),
		text.New(nonEmpty(signatory, " "), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 20}),
		text.New("Authorised Signatory", props.Text{Size: 7, Align: align.Right, Top: 25, Color: colorGray}),
		text.New(meta.Email, props.Text{Size: 7, Align: align.Right, Top: 29, Color: colorGray}),
	)
	return row.New(top+2).Add(left, right)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separador de miles y dos decimales: "Rs. 1,234.50".
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return currencyMarker + " " + g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func contactLine(p invoice.Party) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Contact, p.Domain} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if p.PAN != "" {
		parts = append(parts, "PAN: "+p.PAN)
	}
	return strings.Join(parts, "   |   ")
}

// decodeLogo acepta data URIs PNG o JPEG; cualquier otra cosa se omite.
func decodeLogo(logo string) ([]byte, extension.Type, bool) {
	var ext extension.Type
	switch {
	case strings.HasPrefix(logo, "data:image/png;base64,"):
		ext = extension.Png
	case strings.HasPrefix(logo, "data:image/jpeg;base64,"), strings.HasPrefix(logo, "data:image/jpg;base64,"):
		ext = extension.Jpg
	default:
		return nil, "", false
	}
	raw, err := base64.StdEncoding.DecodeString(logo[strings.Index(logo, ",")+1:])
	if err != nil || len(raw) == 0 {
		return nil, "", false
	}
	return raw, ext, true
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
