package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeSources struct {
	profileErr error
	catalogErr error
	numberErr  error
	lastSeq    string
	numberCall int
	mu         sync.Mutex
}

func (f *fakeSources) CompanyProfile(_ context.Context, companyID string) (*entity.Company, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &entity.Company{
		ID:        companyID,
		Name:      "Anoop Tech",
		Address:   invoice.NewLegacyAddress("Hyderabad"),
		GSTNumber: "36AAACA1234A1Z5",
		Phone:     "+91 40 0000 0000",
		Logo:      "https://cdn.example/logo.png",
		Bank:      invoice.PaymentDetails{AccountName: "Anoop Tech", AccountNumber: "001122", IFSCCode: "HDFC0000001"},
	}, nil
}

func (f *fakeSources) Catalog(context.Context, string) ([]invoice.CatalogEntry, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return []invoice.CatalogEntry{
		{ID: "prod-1", Name: "Workspace Business", UnitPrice: decimal.RequireFromString("1380")},
	}, nil
}

func (f *fakeSources) LastSequence(context.Context, string, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.numberCall++
	return f.lastSeq, f.numberErr
}

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   []dto.CreateInvoiceRequest
	number  string
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSubmitter) CreateInvoice(_ context.Context, _, _ string, in dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, in)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CreateInvoiceResponse{ID: "inv-1", NewInvoiceNumber: f.number}, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2025, time.May, 10, 9, 30, 0, 0, time.UTC)

func newSession(t *testing.T, src *fakeSources, sub *fakeSubmitter) *billing.Session {
	t.Helper()
	n := 0
	cfg := billing.SessionConfig{
		Numbering:   invoice.NewNumbering("ANO", "0000"),
		Calculator:  invoice.NewCalculator(invoice.DefaultTaxRate),
		DefaultType: "GW",
		DueDays:     5,
	}
	deps := billing.SessionDeps{Profiles: src, Catalog: src, Numbers: src, Submitter: sub}
	return billing.NewSession("company-1", "user-1", cfg, deps, zerolog.Nop(),
		billing.WithClock(func() time.Time { return fixedNow }),
		billing.WithLineIDs(func() string { n++; return fmt.Sprintf("li-%d", n) }),
	)
}

func fillValidDocument(t *testing.T, s *billing.Session) {
	t.Helper()
	require.NoError(t, s.Select("billedTo"))
	require.NoError(t, s.SaveSection([]byte(`{
		"companyName": "Globex India",
		"address": {"street": "4 Park St", "city": "Kolkata", "state": "WB", "postalCode": "700016", "country": "India"},
		"gstin": "19ABCDE1234F1Z5",
		"contact": "P. Sen",
		"phone": "+91 33 0000 0000"
	}`)))
	require.NoError(t, s.Select("items"))
	_, err := s.AddItem(dto.AddItemRequest{CatalogID: "prod-1"})
	require.NoError(t, err)
	require.NoError(t, s.SaveDraft())
}

// ── Carga ─────────────────────────────────────────────────────────────────────

func TestLoad_ConstruyeDocumentoInicial(t *testing.T) {
	s := newSession(t, &fakeSources{lastSeq: "0004"}, &fakeSubmitter{})

	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	assert.True(t, snap.Ready)
	assert.Equal(t, "ANO/GW/2025-26/0005", snap.FullNumber)
	assert.Equal(t, "Anoop Tech", snap.Document.BilledBy.CompanyName)
	assert.Equal(t, "001122", snap.Document.PaymentDetails.AccountNumber)
	assert.Equal(t, "2025-05-10", snap.Document.Details.IssueDate.String())
	assert.Equal(t, "2025-05-15", snap.Document.Details.DueDate.String())
	assert.Empty(t, snap.Document.Items)
	assert.True(t, snap.Document.Totals.GrandTotal.IsZero())
}

func TestLoad_FalloDeNumeracionUsaBase(t *testing.T) {
	s := newSession(t, &fakeSources{numberErr: errors.New("timeout")}, &fakeSubmitter{})

	require.NoError(t, s.Load(context.Background()))

	assert.True(t, s.Snapshot().Ready)
	assert.Equal(t, "ANO/GW/2025-26/0001", s.FullNumber())
}

func TestLoad_FalloDePerfilBloqueaEdicion(t *testing.T) {
	src := &fakeSources{profileErr: errors.New("connection refused")}
	s := newSession(t, src, &fakeSubmitter{})

	err := s.Load(context.Background())

	var le *domain.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "profile", le.Source)
	assert.False(t, s.Snapshot().Ready)
	assert.NotEmpty(t, s.Snapshot().LoadError)

	err = s.Select("billedTo")
	assert.ErrorIs(t, err, domain.ErrSessionNotReady)
	assert.True(t, errors.As(err, &le), "el error de carga sigue disponible")

	src.profileErr = nil
	require.NoError(t, s.Load(context.Background()), "se puede reintentar")
	assert.NoError(t, s.Select("billedTo"))
}

func TestLoad_FalloDeCatalogo(t *testing.T) {
	s := newSession(t, &fakeSources{catalogErr: errors.New("500")}, &fakeSubmitter{})

	var le *domain.LoadError
	require.True(t, errors.As(s.Load(context.Background()), &le))
	assert.Equal(t, "catalog", le.Source)
	_, err := s.CatalogEntries()
	assert.ErrorIs(t, err, domain.ErrSessionNotReady)
}

// ── Envío ─────────────────────────────────────────────────────────────────────

func TestSubmit_CamposFaltantesNoLlamaAlBackend(t *testing.T) {
	sub := &fakeSubmitter{number: "ANO/GW/2025-26/0005"}
	s := newSession(t, &fakeSources{}, sub)
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Submit(context.Background())

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "billedTo.companyName")
	assert.Contains(t, ve.Fields, "items")
	assert.Equal(t, 0, sub.callCount(), "no debe emitirse ninguna llamada")
}

func TestSubmit_ExitoReiniciaConSiguienteNumero(t *testing.T) {
	sub := &fakeSubmitter{number: "ANO/GW/2025-26/0012"}
	s := newSession(t, &fakeSources{lastSeq: "0004"}, sub)
	require.NoError(t, s.Load(context.Background()))
	fillValidDocument(t, s)
	require.NoError(t, s.SetAdjustments(decimal.NewFromInt(80), decimal.Zero))

	resp, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ANO/GW/2025-26/0012", resp.NewInvoiceNumber)

	require.Equal(t, 1, sub.callCount())
	payload := sub.calls[0]
	assert.Equal(t, "ANO/GW/2025-26/0005", payload.InvoiceNumber)
	assert.Equal(t, "GW", payload.InvoiceType)
	assert.Equal(t, "Globex India", payload.Customer.CompanyName)
	assert.Equal(t, "19ABCDE1234F1Z5", payload.Customer.GSTNumber)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "prod-1", payload.Items[0].ItemID)
	assert.True(t, decimal.NewFromInt(18).Equal(payload.GSTRate))
	assert.True(t, decimal.NewFromInt(80).Equal(payload.Discount))
	assert.Equal(t, "2025-05-15", payload.DueDate)

	doc := resp.Snapshot.Document
	assert.Equal(t, "ANO/GW/2025-26/0013", resp.Snapshot.FullNumber)
	assert.Empty(t, doc.BilledTo.CompanyName, "cliente limpio")
	assert.Empty(t, doc.Items)
	assert.True(t, doc.Totals.Discount.IsZero())
	assert.Equal(t, "Anoop Tech", doc.BilledBy.CompanyName, "emisor conservado")
	assert.Equal(t, "001122", doc.PaymentDetails.AccountNumber)
	assert.Equal(t, "https://cdn.example/logo.png", doc.Logo)
	assert.False(t, resp.Snapshot.Submitting)
}

func TestSubmit_SinNumeroEnRespuestaReconsulta(t *testing.T) {
	src := &fakeSources{lastSeq: "0004"}
	s := newSession(t, src, &fakeSubmitter{number: ""})
	require.NoError(t, s.Load(context.Background()))
	fillValidDocument(t, s)
	src.lastSeq = "0007"

	resp, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ANO/GW/2025-26/0008", resp.Snapshot.FullNumber)
	assert.Equal(t, 2, src.numberCall)
}

func TestSubmit_FechaDeOtroAnoFiscalReconsultaElActual(t *testing.T) {
	src := &fakeSources{lastSeq: "0005"}
	s := newSession(t, src, &fakeSubmitter{number: "ANO/GW/2024-25/0003"})
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, "ANO/GW/2025-26/0006", s.Snapshot().FullNumber)
	fillValidDocument(t, s)

	resp, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ANO/GW/2025-26/0006", resp.Snapshot.FullNumber, "no vuelve a la base")
	assert.Equal(t, 2, src.numberCall)
}

func TestSubmit_PayloadConservaPrecioCeroYPAN(t *testing.T) {
	sub := &fakeSubmitter{number: "ANO/GW/2025-26/0001"}
	s := newSession(t, &fakeSources{}, sub)
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Select("billedTo"))
	require.NoError(t, s.SaveSection([]byte(`{
		"companyName": "Globex India",
		"address": {"street": "4 Park St", "city": "Kolkata", "state": "WB", "postalCode": "700016", "country": "India"},
		"gstin": "19ABCDE1234F1Z5",
		"contact": "P. Sen",
		"phone": "+91 33 0000 0000",
		"pan": "ABCDE1234F"
	}`)))
	require.NoError(t, s.Select("items"))
	li, err := s.AddItem(dto.AddItemRequest{CatalogID: "prod-1"})
	require.NoError(t, err)
	zero := decimal.Zero
	require.NoError(t, s.UpdateItem(li.ID, dto.UpdateItemRequest{UnitPrice: &zero}))
	require.NoError(t, s.SaveDraft())

	_, err = s.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, sub.callCount())
	payload := sub.calls[0]
	assert.Equal(t, "ABCDE1234F", payload.Customer.PANNumber)
	require.Len(t, payload.Items, 1)
	require.NotNil(t, payload.Items[0].UnitPrice)
	assert.True(t, payload.Items[0].UnitPrice.IsZero())
}

func TestSubmit_FalloConservaDocumento(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("502 bad gateway")}
	s := newSession(t, &fakeSources{}, sub)
	require.NoError(t, s.Load(context.Background()))
	fillValidDocument(t, s)
	before := s.Snapshot().Document

	_, err := s.Submit(context.Background())

	var se *domain.SubmissionError
	require.True(t, errors.As(err, &se))
	snap := s.Snapshot()
	assert.Equal(t, before, snap.Document)
	assert.False(t, snap.Submitting)
	assert.NoError(t, s.Select("items"), "se puede seguir editando y reintentar")
}

func TestSubmit_ReentradaRechazada(t *testing.T) {
	sub := &fakeSubmitter{
		number:  "ANO/GW/2025-26/0001",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newSession(t, &fakeSources{}, sub)
	require.NoError(t, s.Load(context.Background()))
	fillValidDocument(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	<-sub.started

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)
	assert.ErrorIs(t, s.Select("billedTo"), domain.ErrSubmissionInProgress)
	assert.True(t, s.Snapshot().Submitting)

	close(sub.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, sub.callCount())
	assert.False(t, s.Snapshot().Submitting)
}

// ── Edición vía sesión ────────────────────────────────────────────────────────

func TestAddItem_DesdeCatalogoDeLaSesion(t *testing.T) {
	s := newSession(t, &fakeSources{}, &fakeSubmitter{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Select("items"))

	li, err := s.AddItem(dto.AddItemRequest{CatalogID: "prod-1"})
	require.NoError(t, err)
	assert.Equal(t, "li-1", li.ID)
	assert.Equal(t, "Workspace Business", li.Description)

	_, err = s.AddItem(dto.AddItemRequest{CatalogID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	qty := decimal.NewFromInt(3)
	require.NoError(t, s.UpdateItem("li-1", dto.UpdateItemRequest{Quantity: &qty}))
	require.NoError(t, s.SaveDraft())
	assert.True(t, decimal.NewFromInt(4140).Equal(s.Snapshot().Document.Totals.Subtotal))
}

func TestUpdateItem_CampoInvalidoNoDejaCambiosParciales(t *testing.T) {
	s := newSession(t, &fakeSources{}, &fakeSubmitter{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Select("items"))
	li, err := s.AddItem(dto.AddItemRequest{CatalogID: "prod-1"})
	require.NoError(t, err)

	qty := decimal.NewFromInt(3)
	price := decimal.NewFromInt(-1)
	err = s.UpdateItem(li.ID, dto.UpdateItemRequest{Quantity: &qty, UnitPrice: &price})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "unitPrice")
	draft, ok := s.Snapshot().Draft.(invoice.LineItems)
	require.True(t, ok)
	require.Len(t, draft, 1)
	assert.True(t, decimal.NewFromInt(1).Equal(draft[0].Quantity), "la cantidad no se aplicó")
	assert.True(t, decimal.NewFromInt(1380).Equal(draft[0].Amount))
}

func TestSessionManager_UnaSesionPorUsuario(t *testing.T) {
	created := 0
	m := billing.NewSessionManager(func(companyID, userID string) *billing.Session {
		created++
		return newSession(t, &fakeSources{}, &fakeSubmitter{})
	})

	a := m.GetOrCreate("company-1", "user-1")
	b := m.GetOrCreate("company-1", "user-1")
	assert.Same(t, a, b)
	assert.Equal(t, 1, created)

	m.Drop("user-1")
	_, ok := m.Get("user-1")
	assert.False(t, ok)
}
