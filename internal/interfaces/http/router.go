package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-builder-api/internal/application/auth"
	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/usecase"
	"github.com/jhoicas/invoice-builder-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	CompanyUC     *usecase.CompanyUseCase
	ProductUC     *usecase.ProductUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	InvoiceQuery  *billing.InvoiceQueryUseCase
	InvoicePDF    *billing.PDFUseCase
	Sessions      *billing.SessionManager
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/auth/me", userHandler.Me)
	protected.Get("/users", RequireRole(entity.RoleAdmin), userHandler.List)

	// Perfil de la empresa: lectura para todos, cambios solo admin.
	company := protected.Group("/company")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	company.Get("/", companyHandler.Get)
	company.Put("/", RequireRole(entity.RoleAdmin), companyHandler.Update)

	// Catálogo
	items := protected.Group("/items")
	productHandler := NewProductHandler(deps.ProductUC)
	items.Post("/", productHandler.Create)
	items.Get("/", productHandler.List)
	items.Get("/:id", productHandler.GetByID)
	items.Put("/:id", productHandler.Update)
	items.Delete("/:id", productHandler.Delete)

	// Facturas guardadas
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.InvoiceQuery, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	// Sesión de edición
	ed := protected.Group("/editor")
	editorHandler := NewEditorHandler(deps.Sessions, deps.InvoicePDF)
	ed.Post("/", editorHandler.Load)
	ed.Get("/", editorHandler.Snapshot)
	ed.Delete("/", editorHandler.Discard)
	ed.Post("/sections/:section", editorHandler.Select)
	ed.Put("/draft", editorHandler.SaveSection)
	ed.Post("/draft/commit", editorHandler.CommitDraft)
	ed.Delete("/draft", editorHandler.Cancel)
	ed.Post("/draft/items", editorHandler.AddItem)
	ed.Patch("/draft/items/:id", editorHandler.UpdateItem)
	ed.Delete("/draft/items/:id", editorHandler.RemoveItem)
	ed.Put("/adjustments", editorHandler.SetAdjustments)
	ed.Post("/submit", editorHandler.Submit)
	ed.Get("/pdf", editorHandler.PDF)
	ed.Get("/catalog", editorHandler.Catalog)
}
