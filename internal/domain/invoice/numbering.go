package invoice

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPrefix prefijo fijo de la organización.
	DefaultPrefix = "ANO"
	// DefaultBaseline secuencia asumida cuando no hay facturas previas.
	DefaultBaseline = "0000"
	// SequenceWidth ancho por defecto del consecutivo cuando no hay base.
	SequenceWidth = 4
)

// Tipos de factura (códigos cortos).
const (
	TypeSoftware        = "SW"
	TypeGoogleWorkspace = "GW"
	TypeHardware        = "HW"
	TypeServices        = "SV"
)

var validTypes = map[string]bool{
	TypeSoftware:        true,
	TypeGoogleWorkspace: true,
	TypeHardware:        true,
	TypeServices:        true,
}

// IsValidType true si el código pertenece al conjunto fijo.
func IsValidType(t string) bool { return validTypes[t] }

// Number número de factura completo y su consecutivo.
type Number struct {
	Full     string `json:"full"`
	Sequence string `json:"sequence"`
}

// Numbering genera números "PREFIX/TYPE/FY/SEQ".
type Numbering struct {
	Prefix   string
	Baseline string
}

// NewNumbering aplica los valores por defecto si vienen vacíos.
func NewNumbering(prefix, baseline string) Numbering {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if _, err := parseSequence(baseline); err != nil {
		baseline = DefaultBaseline
	}
	return Numbering{Prefix: prefix, Baseline: baseline}
}

// Next incrementa lastSequence (o la base si está vacío o no es numérico).
// 9999 pasa a 10000: el ancho es mínimo, nunca se trunca.
func (n Numbering) Next(lastSequence, invoiceType, fiscalYear string) Number {
	last, err := parseSequence(lastSequence)
	if err != nil {
		last, err = parseSequence(n.Baseline)
		if err != nil {
			last = 0
		}
	}
	seq := n.FormatSequence(last + 1)
	return Number{Full: n.Format(invoiceType, fiscalYear, seq), Sequence: seq}
}

// Format une prefijo, tipo, año fiscal y consecutivo con "/".
func (n Numbering) Format(invoiceType, fiscalYear, sequence string) string {
	prefix := n.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return strings.Join([]string{prefix, invoiceType, fiscalYear, sequence}, "/")
}

// BaselineValue valor numérico de la base.
func (n Numbering) BaselineValue() int {
	v, err := parseSequence(n.Baseline)
	if err != nil {
		return 0
	}
	return v
}

// FormatSequence rellena con ceros al ancho de la base ("000100" da seis dígitos).
func (n Numbering) FormatSequence(v int) string {
	width := len(strings.TrimSpace(n.Baseline))
	if width == 0 {
		width = SequenceWidth
	}
	return fmt.Sprintf("%0*d", width, v)
}

// FormatSequence rellena con ceros a SequenceWidth dígitos.
func FormatSequence(v int) string {
	return fmt.Sprintf("%0*d", SequenceWidth, v)
}

func parseSequence(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("secuencia vacía")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("secuencia negativa")
	}
	return v, nil
}

// FiscalYear año fiscal indio (1 de abril a 31 de marzo) en formato "YYYY-YY".
func FiscalYear(t time.Time) string {
	year := t.Year()
	if t.Month() >= time.April {
		return fmt.Sprintf("%d-%02d", year, (year+1)%100)
	}
	return fmt.Sprintf("%d-%02d", year-1, year%100)
}

// SequenceFromNumber extrae el sufijo tras la última "/" ("ANO/GW/2024-25/0007" -> "0007").
func SequenceFromNumber(full string) string {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, "/"); i >= 0 {
		return full[i+1:]
	}
	return full
}

// FiscalYearFromNumber devuelve el segmento de año fiscal o "" si el formato no es el esperado.
func FiscalYearFromNumber(full string) string {
	parts := strings.Split(strings.TrimSpace(full), "/")
	if len(parts) < 4 {
		return ""
	}
	return parts[len(parts)-2]
}

// NumberedInvoice lo mínimo que necesita la numeración de una factura persistida.
type NumberedInvoice struct {
	Number    string
	CreatedAt time.Time
}

// LastSequence consecutivo de la factura más reciente (por CreatedAt descendente)
// dentro del año fiscal indicado. Sin facturas en ese año devuelve "" (Next usa la base).
// Con fiscalYear vacío considera todas las facturas.
func LastSequence(invoices []NumberedInvoice, fiscalYear string) string {
	sorted := make([]NumberedInvoice, 0, len(invoices))
	for _, inv := range invoices {
		if fiscalYear != "" && FiscalYearFromNumber(inv.Number) != fiscalYear {
			continue
		}
		sorted = append(sorted, inv)
	}
	if len(sorted) == 0 {
		return ""
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return SequenceFromNumber(sorted[0].Number)
}
