package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas guardadas (protegido).
type InvoiceHandler struct {
	create *billing.CreateInvoiceUseCase
	query  *billing.InvoiceQueryUseCase
	pdf    *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(create *billing.CreateInvoiceUseCase, query *billing.InvoiceQueryUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{create: create, query: query, pdf: pdf}
}

// Create godoc
// @Summary      Crear factura
// @Description  El servidor asigna el consecutivo; invoiceNumber del cuerpo es solo una propuesta.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "factura"
// @Success      201   {object}  dto.CreateInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.create.CreateInvoice(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/invoices?q=&status=&limit=&offset=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.InvoiceListRequest
	if err := parseQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.query.List(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus PUT /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.query.UpdateStatus(c.UserContext(), GetCompanyID(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	pdf, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, filename)
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
