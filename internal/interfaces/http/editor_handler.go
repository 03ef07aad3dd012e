package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
)

// EditorHandler expone la sesión de edición de factura del usuario del token.
// Hay una sesión por usuario; POST /api/editor la carga, DELETE /api/editor la descarta.
type EditorHandler struct {
	sessions *billing.SessionManager
	pdf      *billing.PDFUseCase
}

// NewEditorHandler construye el handler.
func NewEditorHandler(sessions *billing.SessionManager, pdf *billing.PDFUseCase) *EditorHandler {
	return &EditorHandler{sessions: sessions, pdf: pdf}
}

// Load POST /api/editor
func (h *EditorHandler) Load(c *fiber.Ctx) error {
	s := h.sessions.GetOrCreate(GetCompanyID(c), GetUserID(c))
	if err := s.Load(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}

// Snapshot GET /api/editor
func (h *EditorHandler) Snapshot(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}

// Discard DELETE /api/editor
func (h *EditorHandler) Discard(c *fiber.Ctx) error {
	h.sessions.Drop(GetUserID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// Select POST /api/editor/sections/:section
func (h *EditorHandler) Select(c *fiber.Ctx) error {
	return h.apply(c, func(s *billing.Session) error { return s.Select(c.Params("section")) })
}

// SaveSection PUT /api/editor/draft; el cuerpo es el nuevo valor de la sección activa.
func (h *EditorHandler) SaveSection(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return writeError(c, domain.NewValidationError("body", "cuerpo JSON inválido"))
	}
	raw := json.RawMessage(append([]byte(nil), body...))
	return h.apply(c, func(s *billing.Session) error { return s.SaveSection(raw) })
}

// CommitDraft POST /api/editor/draft/commit
func (h *EditorHandler) CommitDraft(c *fiber.Ctx) error {
	return h.apply(c, func(s *billing.Session) error { return s.SaveDraft() })
}

// Cancel DELETE /api/editor/draft
func (h *EditorHandler) Cancel(c *fiber.Ctx) error {
	return h.apply(c, func(s *billing.Session) error { return s.Cancel() })
}

// SetAdjustments PUT /api/editor/adjustments
func (h *EditorHandler) SetAdjustments(c *fiber.Ctx) error {
	var in dto.AdjustmentsRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	return h.apply(c, func(s *billing.Session) error { return s.SetAdjustments(in.Discount, in.Adjustment) })
}

// AddItem POST /api/editor/draft/items
func (h *EditorHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	if _, err := s.AddItem(in); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
}

// UpdateItem PATCH /api/editor/draft/items/:id
func (h *EditorHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	return h.apply(c, func(s *billing.Session) error { return s.UpdateItem(c.Params("id"), in) })
}

// RemoveItem DELETE /api/editor/draft/items/:id
func (h *EditorHandler) RemoveItem(c *fiber.Ctx) error {
	return h.apply(c, func(s *billing.Session) error { return s.RemoveItem(c.Params("id")) })
}

// Submit POST /api/editor/submit
func (h *EditorHandler) Submit(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := s.Submit(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PDF GET /api/editor/pdf
func (h *EditorHandler) PDF(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	pdf, filename, err := h.pdf.PreviewSessionPDF(c.UserContext(), s)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, filename)
}

// Catalog GET /api/editor/catalog
func (h *EditorHandler) Catalog(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	entries, err := s.CatalogEntries()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}

// session sesión del usuario; sin POST /api/editor previo devuelve ErrSessionNotReady.
func (h *EditorHandler) session(c *fiber.Ctx) (*billing.Session, error) {
	s, ok := h.sessions.Get(GetUserID(c))
	if !ok {
		return nil, domain.ErrSessionNotReady
	}
	return s, nil
}

// apply ejecuta una operación de edición y responde con el snapshot resultante.
func (h *EditorHandler) apply(c *fiber.Ctx, op func(s *billing.Session) error) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := op(s); err != nil {
		return writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}
