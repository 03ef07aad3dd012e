// seed_catalog genera un script SQL que carga el catálogo de productos de una empresa
// a partir de un CSV con columnas: name, description, unit_price.
//
// Uso: go run ./cmd/seed_catalog <company_id> [ruta/catalogo.csv]
// Por defecto lee catalogo.csv en el directorio actual. Acepta UTF-8 o ISO-8859-1
// (hojas exportadas desde Excel).
// Escribe: scripts/seed_catalog_<company_id>.sql
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogRow struct {
	name        string
	description string
	unitPrice   decimal.Decimal
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_catalog <company_id> [catalogo.csv]")
		os.Exit(2)
	}
	companyID, err := uuid.Parse(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "company_id inválido: %v\n", err)
		os.Exit(2)
	}
	csvPath := "catalogo.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outDir := filepath.Join(findModuleRoot(), "scripts")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	outPath := filepath.Join(outDir, "seed_catalog_"+companyID.String()+".sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, companyID.String(), rows, uuid.NewString); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

// readCatalog lee el CSV detectando la codificación: si el contenido no es UTF-8
// válido se decodifica como ISO-8859-1. La primera fila es la cabecera.
func readCatalog(r io.Reader) ([]catalogRow, error) {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(4096)
	var src io.Reader = br
	if !utf8.Valid(peek) {
		src = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 3
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV vacío")
	}

	rows := make([]catalogRow, 0, len(records)-1)
	seen := make(map[string]bool)
	for i, rec := range records[1:] {
		line := i + 2
		name := strings.TrimSpace(rec[0])
		if name == "" {
			return nil, fmt.Errorf("línea %d: name vacío", line)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("línea %d: producto duplicado %q", line, name)
		}
		seen[key] = true
		price, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: unit_price inválido %q", line, rec[2])
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("línea %d: unit_price negativo", line)
		}
		rows = append(rows, catalogRow{
			name:        name,
			description: strings.TrimSpace(rec[1]),
			unitPrice:   price.Round(2),
		})
	}
	return rows, nil
}

func writeSQL(w io.Writer, companyID string, rows []catalogRow, newID func() string) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "-- Catálogo de productos de la empresa %s\n", companyID)
	fmt.Fprintf(b, "-- Generado por cmd/seed_catalog\n\n")
	for _, r := range rows {
		fmt.Fprintf(b, "INSERT INTO products (id, company_id, name, description, unit_price)\n")
		fmt.Fprintf(b, "VALUES ('%s', '%s', '%s', '%s', %s)\n",
			newID(), companyID, escapeSQL(r.name), escapeSQL(r.description), r.unitPrice.StringFixed(2))
		b.WriteString("ON CONFLICT (company_id, name) DO UPDATE SET description = EXCLUDED.description, unit_price = EXCLUDED.unit_price, updated_at = now();\n")
	}
	return b.Flush()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
