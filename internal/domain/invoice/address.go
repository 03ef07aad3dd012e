package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AddressKind identifica la variante de una dirección.
type AddressKind int

const (
	AddressEmpty AddressKind = iota
	AddressStructured
	AddressLegacy
)

// StructuredAddress dirección con campos separados (perfil de empresa, clientes nuevos).
type StructuredAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (s StructuredAddress) isBlank() bool {
	return strings.TrimSpace(s.Street) == "" &&
		strings.TrimSpace(s.City) == "" &&
		strings.TrimSpace(s.State) == "" &&
		strings.TrimSpace(s.PostalCode) == "" &&
		strings.TrimSpace(s.Country) == ""
}

// Address variante {Structured, Legacy(string)}. En JSON acepta un string o un objeto.
// El valor cero es una dirección vacía.
type Address struct {
	kind       AddressKind
	structured StructuredAddress
	legacy     string
}

// NewStructuredAddress construye la variante estructurada.
func NewStructuredAddress(s StructuredAddress) Address {
	return Address{kind: AddressStructured, structured: s}
}

// NewLegacyAddress construye la variante de texto libre (datos antiguos).
func NewLegacyAddress(s string) Address {
	if s == "" {
		return Address{}
	}
	return Address{kind: AddressLegacy, legacy: s}
}

// Kind devuelve la variante.
func (a Address) Kind() AddressKind { return a.kind }

// Structured devuelve los campos si la variante es estructurada.
func (a Address) Structured() (StructuredAddress, bool) {
	return a.structured, a.kind == AddressStructured
}

// Legacy devuelve el texto si la variante es de texto libre.
func (a Address) Legacy() (string, bool) {
	return a.legacy, a.kind == AddressLegacy
}

// IsBlank true si no hay ningún dato de dirección.
func (a Address) IsBlank() bool {
	switch a.kind {
	case AddressStructured:
		return a.structured.isBlank()
	case AddressLegacy:
		return strings.TrimSpace(a.legacy) == ""
	default:
		return true
	}
}

// Format única función de formato sobre ambas variantes.
// Estructurada: "calle, ciudad, estado, código postal, país" omitiendo partes vacías.
func (a Address) Format() string {
	switch a.kind {
	case AddressStructured:
		s := a.structured
		parts := make([]string, 0, 5)
		for _, p := range []string{s.Street, s.City, s.State, s.PostalCode, s.Country} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", ")
	case AddressLegacy:
		return a.legacy
	default:
		return ""
	}
}

func (a Address) String() string { return a.Format() }

// MarshalJSON serializa la variante legacy como string y la estructurada como objeto.
func (a Address) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AddressStructured:
		return json.Marshal(a.structured)
	case AddressLegacy:
		return json.Marshal(a.legacy)
	default:
		return []byte(`""`), nil
	}
}

// UnmarshalJSON acepta null, un string o un objeto {street, city, state, postalCode, country}.
func (a *Address) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Address{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = NewLegacyAddress(s)
		return nil
	case '{':
		var s StructuredAddress
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = NewStructuredAddress(s)
		return nil
	default:
		return fmt.Errorf("address: formato no soportado %q", string(data))
	}
}
