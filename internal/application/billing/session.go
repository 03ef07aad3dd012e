package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
	"github.com/jhoicas/invoice-builder-api/internal/domain/editor"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
)

// SessionConfig parámetros de negocio de una sesión de edición.
type SessionConfig struct {
	Numbering   invoice.Numbering
	Calculator  invoice.Calculator
	DefaultType string
	DueDays     int
}

// SessionDeps puertos que usa la sesión.
type SessionDeps struct {
	Profiles  ProfileSource
	Catalog   CatalogSource
	Numbers   NumberingSource
	Submitter InvoiceSubmitter
}

// Session sesión de edición de una factura de un usuario.
// Todas las operaciones se serializan con mu. Mientras hay un envío en curso las
// operaciones que modifican el documento fallan con domain.ErrSubmissionInProgress.
type Session struct {
	companyID string
	userID    string
	cfg       SessionConfig
	deps      SessionDeps
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string

	mu         sync.Mutex
	ready      bool
	loadErr    error
	submitting bool
	editor     *editor.Editor
	catalog    []invoice.CatalogEntry
	profile    *entity.Company
}

// SessionOption configura la sesión (reloj e IDs en tests).
type SessionOption func(*Session)

// WithClock reemplaza time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithLineIDs reemplaza el generador de IDs de línea.
func WithLineIDs(fn func() string) SessionOption {
	return func(s *Session) { s.newID = fn }
}

// NewSession crea una sesión sin cargar; Load debe completarse antes de editar.
func NewSession(companyID, userID string, cfg SessionConfig, deps SessionDeps, log zerolog.Logger, opts ...SessionOption) *Session {
	if cfg.DefaultType == "" {
		cfg.DefaultType = invoice.TypeSoftware
	}
	s := &Session{
		companyID: companyID,
		userID:    userID,
		cfg:       cfg,
		deps:      deps,
		log:       log.With().Str("company_id", companyID).Str("user_id", userID).Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load consulta en paralelo perfil, catálogo y último consecutivo. La sesión queda
// lista solo si las tres consultas terminan. Un fallo de perfil o catálogo devuelve
// *domain.LoadError y deja la sesión sin cargar (se puede reintentar); un fallo de
// numeración usa la base configurada. Si la sesión ya está lista no hace nada.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	today := invoice.DateOf(s.now())
	fiscalYear := invoice.FiscalYear(today.Time)

	var (
		profile *entity.Company
		catalog []invoice.CatalogEntry
		lastSeq string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.deps.Profiles.CompanyProfile(gctx, s.companyID)
		if err != nil {
			return &domain.LoadError{Source: "profile", Err: err}
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		c, err := s.deps.Catalog.Catalog(gctx, s.companyID)
		if err != nil {
			return &domain.LoadError{Source: "catalog", Err: err}
		}
		catalog = c
		return nil
	})
	g.Go(func() error {
		lastSeq = s.fetchLastSequence(gctx, fiscalYear)
		return nil
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErr = err
		s.log.Error().Err(err).Msg("carga de sesión de factura fallida")
		return err
	}
	if s.ready {
		return nil
	}

	s.profile = profile
	s.catalog = catalog
	doc := s.freshDocument(profile.Party(), profile.Bank, profile.Logo, lastSeq, today)
	s.editor = editor.New(doc, s.cfg.Calculator, editor.WithIDGenerator(s.newID))
	s.loadErr = nil
	s.ready = true
	s.log.Info().Str("number", doc.FullNumber(s.cfg.Numbering)).Int("catalog", len(catalog)).Msg("sesión de factura lista")
	return nil
}

// fetchLastSequence nunca falla: ante error registra y devuelve "" (Next usa la base).
func (s *Session) fetchLastSequence(ctx context.Context, fiscalYear string) string {
	seq, err := s.deps.Numbers.LastSequence(ctx, s.companyID, fiscalYear)
	if err != nil {
		s.log.Warn().Err(err).Str("fiscal_year", fiscalYear).Str("baseline", s.cfg.Numbering.Baseline).
			Msg("no se pudo obtener el último consecutivo, se usa la base")
		return ""
	}
	return seq
}

func (s *Session) freshDocument(billedBy invoice.Party, bank invoice.PaymentDetails, logo, lastSeq string, today invoice.Date) invoice.Document {
	fiscalYear := invoice.FiscalYear(today.Time)
	next := s.cfg.Numbering.Next(lastSeq, s.cfg.DefaultType, fiscalYear)
	return invoice.Document{
		BilledBy: billedBy,
		Details: invoice.Details{
			Type:       s.cfg.DefaultType,
			Sequence:   next.Sequence,
			FiscalYear: fiscalYear,
			IssueDate:  today,
			DueDate:    today.AddDays(s.cfg.DueDays),
		},
		Items:          invoice.LineItems{},
		Totals:         s.cfg.Calculator.Compute(nil, decimal.Zero, decimal.Zero),
		PaymentDetails: bank,
		Logo:           logo,
	}
}

// Snapshot estado actual para la vista previa.
func (s *Session) Snapshot() dto.EditorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() dto.EditorSnapshot {
	snap := dto.EditorSnapshot{Ready: s.ready, Submitting: s.submitting}
	if s.loadErr != nil {
		snap.LoadError = s.loadErr.Error()
	}
	if s.editor == nil {
		return snap
	}
	doc := s.editor.Document()
	snap.Document = doc
	snap.FullNumber = doc.FullNumber(s.cfg.Numbering)
	if sec, ok := s.editor.ActiveSection(); ok {
		snap.ActiveSection = string(sec)
		snap.Draft = s.editor.Draft()
	}
	snap.Warnings = invoice.Warnings(doc)
	snap.MinDueDate = doc.Details.MinDueDate().String()
	return snap
}

// Document copia del documento confirmado (para PDF de vista previa).
func (s *Session) Document() (invoice.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return invoice.Document{}, s.notReadyErr()
	}
	return s.editor.Document(), nil
}

// FullNumber número completo del documento actual.
func (s *Session) FullNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor == nil {
		return ""
	}
	return s.editor.Document().FullNumber(s.cfg.Numbering)
}

// Profile perfil cargado con la sesión.
func (s *Session) Profile() *entity.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// CatalogEntries catálogo cargado con la sesión.
func (s *Session) CatalogEntries() ([]invoice.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, s.notReadyErr()
	}
	out := make([]invoice.CatalogEntry, len(s.catalog))
	copy(out, s.catalog)
	return out, nil
}

// ── Edición ──────────────────────────────────────────────────────────────────

// Select entra a la edición de una sección.
func (s *Session) Select(section string) error {
	return s.mutate(func(e *editor.Editor) error {
		sec, err := invoice.ParseSection(section)
		if err != nil {
			return err
		}
		return e.Select(sec)
	})
}

// Cancel descarta el borrador.
func (s *Session) Cancel() error {
	return s.mutate(func(e *editor.Editor) error {
		e.Cancel()
		return nil
	})
}

// SaveSection reemplaza la sección activa con el JSON recibido.
func (s *Session) SaveSection(raw json.RawMessage) error {
	return s.mutate(func(e *editor.Editor) error {
		sec, ok := e.ActiveSection()
		if !ok {
			return domain.ErrNoActiveSection
		}
		v, err := invoice.DecodeSection(sec, raw)
		if err != nil {
			return err
		}
		return e.Save(v)
	})
}

// SaveDraft confirma el borrador actual.
func (s *Session) SaveDraft() error {
	return s.mutate(func(e *editor.Editor) error { return e.SaveDraft() })
}

// AddItem agrega una línea desde el catálogo de la sesión o escrita a mano.
func (s *Session) AddItem(in dto.AddItemRequest) (invoice.LineItem, error) {
	var added invoice.LineItem
	err := s.mutate(func(e *editor.Editor) error {
		var err error
		if in.CatalogID != "" {
			entry, ok := s.catalogEntry(in.CatalogID)
			if !ok {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.CatalogID)
			}
			added, err = e.AddCatalogItem(entry)
			return err
		}
		qty := decimal.NewFromInt(1)
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		price := decimal.Zero
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}
		added, err = e.AddFreeTextItem(in.Description, qty, price)
		return err
	})
	return added, err
}

// UpdateItem aplica los campos presentes a una línea del borrador.
// Si alguno es inválido la línea queda como estaba.
func (s *Session) UpdateItem(id string, in dto.UpdateItemRequest) error {
	return s.mutate(func(e *editor.Editor) error {
		return e.UpdateItem(id, func(li invoice.LineItem) (invoice.LineItem, error) {
			var err error
			if in.Quantity != nil {
				if li, err = li.WithQuantity(*in.Quantity); err != nil {
					return li, err
				}
			}
			if in.UnitPrice != nil {
				if li, err = li.WithUnitPrice(*in.UnitPrice); err != nil {
					return li, err
				}
			}
			if in.Description != nil {
				if li, err = li.WithDescription(*in.Description); err != nil {
					return li, err
				}
			}
			return li, nil
		})
	})
}

// RemoveItem quita una línea del borrador.
func (s *Session) RemoveItem(id string) error {
	return s.mutate(func(e *editor.Editor) error { return e.RemoveItem(id) })
}

// SetAdjustments fija descuento y ajuste manual.
func (s *Session) SetAdjustments(discount, adjustment decimal.Decimal) error {
	return s.mutate(func(e *editor.Editor) error { return e.SetAdjustments(discount, adjustment) })
}

func (s *Session) mutate(fn func(e *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return s.notReadyErr()
	}
	if s.submitting {
		return domain.ErrSubmissionInProgress
	}
	return fn(s.editor)
}

func (s *Session) notReadyErr() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionNotReady, s.loadErr)
	}
	return domain.ErrSessionNotReady
}

func (s *Session) catalogEntry(id string) (invoice.CatalogEntry, bool) {
	for _, c := range s.catalog {
		if c.ID == id {
			return c, true
		}
	}
	return invoice.CatalogEntry{}, false
}

// ── Envío ────────────────────────────────────────────────────────────────────

// Submit valida el documento y lo envía. Con campos faltantes devuelve
// *domain.ValidationError sin llamar al backend. Si el backend falla devuelve
// *domain.SubmissionError y el documento no cambia. Tras un envío exitoso el
// documento se reinicia conservando emisor, datos bancarios y logo, con el
// siguiente número.
func (s *Session) Submit(ctx context.Context) (*dto.SubmitResponse, error) {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return nil, s.notReadyErr()
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, domain.ErrSubmissionInProgress
	}
	doc := s.editor.Document()
	if err := invoice.Validate(doc); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	req := s.buildPayload(doc)
	s.submitting = true
	s.mu.Unlock()

	resp, err := s.deps.Submitter.CreateInvoice(ctx, s.companyID, s.userID, req)

	var lastSeq string
	today := invoice.DateOf(s.now())
	if err == nil {
		lastSeq = invoice.SequenceFromNumber(resp.NewInvoiceNumber)
		if lastSeq == "" {
			lastSeq = s.fetchLastSequence(ctx, invoice.FiscalYear(today.Time))
		} else if fy := invoice.FiscalYearFromNumber(resp.NewInvoiceNumber); fy != "" && fy != invoice.FiscalYear(today.Time) {
			lastSeq = s.fetchLastSequence(ctx, invoice.FiscalYear(today.Time))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.log.Error().Err(err).Str("number", req.InvoiceNumber).Msg("envío de factura fallido")
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, &domain.SubmissionError{Err: err}
	}

	current := s.editor.Document()
	s.editor.Reset(s.freshDocument(current.BilledBy, current.PaymentDetails, current.Logo, lastSeq, today))
	s.log.Info().Str("number", resp.NewInvoiceNumber).Msg("factura enviada")

	return &dto.SubmitResponse{
		NewInvoiceNumber: resp.NewInvoiceNumber,
		Snapshot:         s.snapshotLocked(),
	}, nil
}

func (s *Session) buildPayload(doc invoice.Document) dto.CreateInvoiceRequest {
	items := make([]dto.InvoiceItemRequest, 0, len(doc.Items))
	for _, it := range doc.Items {
		price := it.UnitPrice
		items = append(items, dto.InvoiceItemRequest{
			ItemID:      it.CatalogID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   &price,
		})
	}
	return dto.CreateInvoiceRequest{
		InvoiceNumber: doc.FullNumber(s.cfg.Numbering),
		InvoiceType:   doc.Details.Type,
		Customer: dto.CustomerSnapshot{
			CompanyName:   doc.BilledTo.CompanyName,
			Address:       doc.BilledTo.Address,
			GSTNumber:     doc.BilledTo.TaxID,
			PhoneNumber:   doc.BilledTo.Phone,
			ContactPerson: doc.BilledTo.Contact,
			DomainName:    doc.BilledTo.Domain,
			PANNumber:     doc.BilledTo.PAN,
		},
		Items:      items,
		Discount:   doc.Totals.Discount,
		Adjustment: doc.Totals.Adjustment,
		GSTRate:    s.cfg.Calculator.TaxPercent(),
		IssueDate:  doc.Details.IssueDate.String(),
		DueDate:    doc.Details.DueDate.String(),
	}
}

// ── Registro de sesiones ─────────────────────────────────────────────────────

// SessionFactory crea la sesión de un usuario.
type SessionFactory func(companyID, userID string) *Session

// SessionManager sesiones en memoria, una por usuario.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  SessionFactory
}

// NewSessionManager construye el registro.
func NewSessionManager(factory SessionFactory) *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session), factory: factory}
}

// NewSessionFactory fábrica estándar con la configuración y los puertos dados.
func NewSessionFactory(cfg SessionConfig, deps SessionDeps, log zerolog.Logger) SessionFactory {
	return func(companyID, userID string) *Session {
		return NewSession(companyID, userID, cfg, deps, log)
	}
}

// GetOrCreate devuelve la sesión del usuario o crea una nueva sin cargar.
func (m *SessionManager) GetOrCreate(companyID, userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok && s.companyID == companyID {
		return s
	}
	s := m.factory(companyID, userID)
	m.sessions[userID] = s
	return s
}

// Get devuelve la sesión existente del usuario.
func (m *SessionManager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Drop elimina la sesión del usuario.
func (m *SessionManager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
