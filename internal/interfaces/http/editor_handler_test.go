package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
	apphttp "github.com/jhoicas/invoice-builder-api/internal/interfaces/http"
)

type stubSources struct {
	profileErr error
}

func (s *stubSources) CompanyProfile(_ context.Context, companyID string) (*entity.Company, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return &entity.Company{ID: companyID, Name: "Anoop Tech", GSTNumber: "36AAACA1234A1Z5", Phone: "+91 1234"}, nil
}

func (s *stubSources) Catalog(context.Context, string) ([]invoice.CatalogEntry, error) {
	return []invoice.CatalogEntry{{ID: "p1", Name: "Hosting", UnitPrice: decimal.NewFromInt(136)}}, nil
}

func (s *stubSources) LastSequence(context.Context, string, string) (string, error) {
	return "0005", nil
}

type stubSubmitter struct{}

func (stubSubmitter) CreateInvoice(context.Context, string, string, dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	return &dto.CreateInvoiceResponse{ID: "inv-1", NewInvoiceNumber: "ANO/GW/2025-26/0006"}, nil
}

type stubPDF struct{}

func (stubPDF) GenerateInvoicePDF(context.Context, invoice.Document, billing.PDFMeta) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

func buildEditorApp(sources *stubSources) *fiber.App {
	numbering := invoice.NewNumbering("ANO", "0000")
	cfg := billing.SessionConfig{
		Numbering:   numbering,
		Calculator:  invoice.NewCalculator(decimal.RequireFromString("0.18")),
		DefaultType: "GW",
		DueDays:     5,
	}
	deps := billing.SessionDeps{Profiles: sources, Catalog: sources, Numbers: sources, Submitter: stubSubmitter{}}
	fixed := func() time.Time { return time.Date(2025, time.May, 10, 9, 0, 0, 0, time.UTC) }
	sessions := billing.NewSessionManager(func(companyID, userID string) *billing.Session {
		return billing.NewSession(companyID, userID, cfg, deps, zerolog.Nop(), billing.WithClock(fixed))
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:   sessions,
		InvoicePDF: billing.NewPDFUseCase(nil, nil, stubPDF{}, numbering),
		JWTSecret:  testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, token, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func totals(t *testing.T, snap map[string]any) map[string]any {
	t.Helper()
	doc, ok := snap["document"].(map[string]any)
	require.True(t, ok, "snapshot sin document")
	tot, ok := doc["totals"].(map[string]any)
	require.True(t, ok, "document sin totals")
	return tot
}

func TestEditor_FlujoCompleto(t *testing.T) {
	app := buildEditorApp(&stubSources{})
	tok := tokenForRole(t, "admin")

	status, body := call(t, app, tok, http.MethodGet, "/api/editor", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "SESSION_NOT_READY", body["code"])

	status, snap := call(t, app, tok, http.MethodPost, "/api/editor", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, snap["ready"])
	assert.Equal(t, "ANO/GW/2025-26/0006", snap["fullNumber"])

	status, snap = call(t, app, tok, http.MethodPost, "/api/editor/sections/items", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "items", snap["activeSection"])

	status, _ = call(t, app, tok, http.MethodPost, "/api/editor/draft/items", `{"catalogId":"p1"}`)
	require.Equal(t, http.StatusCreated, status)

	status, snap = call(t, app, tok, http.MethodPost, "/api/editor/draft/commit", "")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, snap["activeSection"])
	assert.Equal(t, "160.48", totals(t, snap)["grandTotal"])

	status, snap = call(t, app, tok, http.MethodPut, "/api/editor/adjustments", `{"discount":"10","addLessAdjustments":"-0.48"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "150", totals(t, snap)["grandTotal"])

	status, body = call(t, app, tok, http.MethodPost, "/api/editor/sections/bogus", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNKNOWN_SECTION", body["code"])

	status, body = call(t, app, tok, http.MethodPost, "/api/editor/submit", "")
	assert.Equal(t, http.StatusBadRequest, status, "sin receptor la factura no es válida")
	assert.Equal(t, "VALIDATION", body["code"])
	assert.NotEmpty(t, body["fields"])
}

func TestEditor_EstadoInvalido(t *testing.T) {
	app := buildEditorApp(&stubSources{})
	tok := tokenForRole(t, "accountant")

	status, _ := call(t, app, tok, http.MethodPost, "/api/editor", "")
	require.Equal(t, http.StatusOK, status)

	status, body := call(t, app, tok, http.MethodPost, "/api/editor/draft/commit", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EDITOR_STATE", body["code"])

	status, _ = call(t, app, tok, http.MethodDelete, "/api/editor/draft", "")
	assert.Equal(t, http.StatusOK, status, "cancelar sin borrador no es error")

	status, body = call(t, app, tok, http.MethodPut, "/api/editor/draft", `no-json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestEditor_FalloDeCargaYReintento(t *testing.T) {
	sources := &stubSources{profileErr: errors.New("perfil caído")}
	app := buildEditorApp(sources)
	tok := tokenForRole(t, "admin")

	status, body := call(t, app, tok, http.MethodPost, "/api/editor", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "LOAD_FAILED", body["code"])

	status, snap := call(t, app, tok, http.MethodGet, "/api/editor", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, snap["ready"])
	assert.NotEmpty(t, snap["loadError"])

	status, body = call(t, app, tok, http.MethodPost, "/api/editor/sections/items", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "LOAD_FAILED", body["code"])

	sources.profileErr = nil
	status, snap = call(t, app, tok, http.MethodPost, "/api/editor", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, snap["ready"])
}

func TestEditor_PDFYCatalogo(t *testing.T) {
	app := buildEditorApp(&stubSources{})
	tok := tokenForRole(t, "admin")
	_, _ = call(t, app, tok, http.MethodPost, "/api/editor", "")

	req := httptest.NewRequest(http.MethodGet, "/api/editor/pdf", nil)
	req.Header.Set("Authorization", tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_ANO-GW-2025-26-0006.pdf")

	req = httptest.NewRequest(http.MethodGet, "/api/editor/catalog", nil)
	req.Header.Set("Authorization", tok)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var entries []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0]["_id"])
}

func TestEditor_SinToken(t *testing.T) {
	app := buildEditorApp(&stubSources{})

	status, body := call(t, app, "", http.MethodPost, "/api/editor", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}
