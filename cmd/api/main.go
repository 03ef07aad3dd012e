package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/invoice-builder-api/internal/application/auth"
	"github.com/jhoicas/invoice-builder-api/internal/application/billing"
	"github.com/jhoicas/invoice-builder-api/internal/application/usecase"
	"github.com/jhoicas/invoice-builder-api/internal/domain/invoice"
	infrapdf "github.com/jhoicas/invoice-builder-api/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-builder-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/invoice-builder-api/internal/interfaces/http"
	"github.com/jhoicas/invoice-builder-api/pkg/config"
	"github.com/jhoicas/invoice-builder-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("tax_rate", cfg.Invoice.TaxRate.String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	sequenceRepo := postgres.NewInvoiceSequenceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	numbering := invoice.NewNumbering(cfg.Invoice.Prefix, cfg.Invoice.Baseline)
	calculator := invoice.NewCalculator(cfg.Invoice.TaxRate)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, numbering, calculator, log.Component("billing"))
	invoiceQueryUC := billing.NewInvoiceQueryUseCase(invoiceRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, companyRepo, pdfGenerator, numbering)

	// Sesiones de edición: una por usuario, cargadas desde los repositorios.
	sources := billing.NewRepositorySources(companyRepo, productRepo, invoiceRepo, sequenceRepo)
	sessions := billing.NewSessionManager(billing.NewSessionFactory(
		billing.SessionConfig{
			Numbering:   numbering,
			Calculator:  calculator,
			DefaultType: cfg.Invoice.DefaultType,
			DueDays:     cfg.Invoice.DueDays,
		},
		billing.SessionDeps{
			Profiles:  sources,
			Catalog:   sources,
			Numbers:   sources,
			Submitter: createInvoiceUC,
		},
		log.Component("editor"),
	))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invoice Builder API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		CompanyUC:     companyUC,
		ProductUC:     productUC,
		CreateInvoice: createInvoiceUC,
		InvoiceQuery:  invoiceQueryUC,
		InvoicePDF:    invoicePDFUC,
		Sessions:      sessions,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
