package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/invoice-builder-api/internal/domain"
)

const dateLayout = "2006-01-02"

// Date fecha de calendario sin hora ("YYYY-MM-DD" en JSON).
type Date struct {
	time.Time
}

// NewDate construye una fecha en UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf descarta la hora de t.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate acepta "YYYY-MM-DD" o RFC3339.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("fecha inválida %q", s)
	}
	return DateOf(t), nil
}

// AddDays devuelve la fecha desplazada n días.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

// Before compara solo la fecha.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Section agrupación editable del documento.
type Section string

const (
	SectionBilledTo       Section = "billedTo"
	SectionBilledBy       Section = "billedBy"
	SectionItems          Section = "items"
	SectionInvoiceDetails Section = "invoiceDetails"
	SectionPaymentDetails Section = "paymentDetails"
)

// Sections todas las secciones en orden de presentación.
var Sections = []Section{
	SectionInvoiceDetails,
	SectionBilledTo,
	SectionBilledBy,
	SectionItems,
	SectionPaymentDetails,
}

// ParseSection valida el nombre de sección.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownSection, s)
}

// SectionValue contenido de una sección (Party, Details, LineItems o PaymentDetails).
type SectionValue interface {
	cloneSection() SectionValue
}

// Party emisor (BilledBy) o receptor (BilledTo).
type Party struct {
	CompanyName string  `json:"companyName"`
	Address     Address `json:"address"`
	TaxID       string  `json:"gstin"`
	Contact     string  `json:"contact"`
	Phone       string  `json:"phone"`
	Domain      string  `json:"domain,omitempty"`
	PAN         string  `json:"pan,omitempty"`
}

func (p Party) cloneSection() SectionValue { return p }

// Details metadatos de la factura.
type Details struct {
	Type       string `json:"type"`
	Sequence   string `json:"number"`
	FiscalYear string `json:"currentFY"`
	IssueDate  Date   `json:"date"`
	DueDate    Date   `json:"dueDate"`
}

func (d Details) cloneSection() SectionValue { return d }

// MinDueDate mínimo sugerido para la fecha de vencimiento (restricción blanda).
func (d Details) MinDueDate() Date { return d.IssueDate }

// PaymentDetails datos bancarios de la organización.
type PaymentDetails struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	Branch        string `json:"branch"`
	IFSCCode      string `json:"ifscCode"`
}

func (p PaymentDetails) cloneSection() SectionValue { return p }

func (l LineItems) cloneSection() SectionValue { return l.Clone() }

// Document raíz del agregado editado por una sesión.
type Document struct {
	BilledTo       Party          `json:"billedTo"`
	BilledBy       Party          `json:"billedBy"`
	Details        Details        `json:"invoiceDetails"`
	Items          LineItems      `json:"items"`
	Totals         Totals         `json:"totals"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
	Logo           string         `json:"logo,omitempty"`
}

// Clone copia profunda: ninguna slice queda compartida.
func (d Document) Clone() Document {
	d.Items = d.Items.Clone()
	return d
}

// FullNumber número completo para mostrar.
func (d Document) FullNumber(n Numbering) string {
	return n.Format(d.Details.Type, d.Details.FiscalYear, d.Details.Sequence)
}

// Section copia profunda del contenido de una sección.
func (d Document) Section(s Section) (SectionValue, error) {
	var v SectionValue
	switch s {
	case SectionBilledTo:
		v = d.BilledTo
	case SectionBilledBy:
		v = d.BilledBy
	case SectionItems:
		items := d.Items
		if items == nil {
			items = LineItems{}
		}
		v = items
	case SectionInvoiceDetails:
		v = d.Details
	case SectionPaymentDetails:
		v = d.PaymentDetails
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSection, s)
	}
	return v.cloneSection(), nil
}

// ReplaceSection reemplaza por completo una sección. El tipo de v debe corresponder.
func (d *Document) ReplaceSection(s Section, v SectionValue) error {
	switch s {
	case SectionBilledTo, SectionBilledBy:
		p, ok := v.(Party)
		if !ok {
			return fmt.Errorf("%w: %s espera Party, recibido %T", domain.ErrSectionMismatch, s, v)
		}
		if s == SectionBilledTo {
			d.BilledTo = p
		} else {
			d.BilledBy = p
		}
	case SectionItems:
		items, ok := v.(LineItems)
		if !ok {
			return fmt.Errorf("%w: items espera LineItems, recibido %T", domain.ErrSectionMismatch, v)
		}
		d.Items = items.Clone()
	case SectionInvoiceDetails:
		det, ok := v.(Details)
		if !ok {
			return fmt.Errorf("%w: invoiceDetails espera Details, recibido %T", domain.ErrSectionMismatch, v)
		}
		d.Details = det
	case SectionPaymentDetails:
		pd, ok := v.(PaymentDetails)
		if !ok {
			return fmt.Errorf("%w: paymentDetails espera PaymentDetails, recibido %T", domain.ErrSectionMismatch, v)
		}
		d.PaymentDetails = pd
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownSection, s)
	}
	return nil
}

// DecodeSection decodifica JSON al tipo que corresponde a la sección.
func DecodeSection(s Section, data []byte) (SectionValue, error) {
	var (
		v   SectionValue
		err error
	)
	switch s {
	case SectionBilledTo, SectionBilledBy:
		var p Party
		err = json.Unmarshal(data, &p)
		v = p
	case SectionItems:
		var items LineItems
		err = json.Unmarshal(data, &items)
		if items == nil {
			items = LineItems{}
		}
		v = items
	case SectionInvoiceDetails:
		var det Details
		err = json.Unmarshal(data, &det)
		v = det
	case SectionPaymentDetails:
		var pd PaymentDetails
		err = json.Unmarshal(data, &pd)
		v = pd
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSection, s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return v, nil
}
