package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadCatalog_UTF8(t *testing.T) {
	in := "name,description,unit_price\nWorkspace Business, Correo y Drive ,1380\nHosting,,136.456\n"

	rows, err := readCatalog(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Correo y Drive", rows[0].description)
	assert.Equal(t, "136.46", rows[1].unitPrice.StringFixed(2))
}

func TestReadCatalog_Latin1(t *testing.T) {
	latin, err := charmap.ISO8859_1.NewEncoder().String("name,description,unit_price\nDiseño,Logotipo pequeño,500\n")
	require.NoError(t, err)

	rows, err := readCatalog(strings.NewReader(latin))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Diseño", rows[0].name)
	assert.Equal(t, "Logotipo pequeño", rows[0].description)
}

func TestReadCatalog_Errores(t *testing.T) {
	cases := map[string]string{
		"precio inválido": "name,description,unit_price\nA,,abc\n",
		"precio negativo": "name,description,unit_price\nA,,-1\n",
		"nombre vacío":    "name,description,unit_price\n,,1\n",
		"duplicado":       "name,description,unit_price\nA,,1\na,,2\n",
		"vacío":           "",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readCatalog(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	rows, err := readCatalog(strings.NewReader("name,description,unit_price\nO'Brien Audit,,10\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, "c-1", rows, func() string { return "id-1" }))

	out := buf.String()
	assert.Contains(t, out, "VALUES ('id-1', 'c-1', 'O''Brien Audit', '', 10.00)")
	assert.Contains(t, out, "ON CONFLICT (company_id, name)")
}
