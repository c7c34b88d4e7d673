package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Maquinaria-api/internal/application/catalog"
	"github.com/jhoicas/Maquinaria-api/internal/application/inventory"
	"github.com/jhoicas/Maquinaria-api/internal/application/masterdata"
	"github.com/jhoicas/Maquinaria-api/internal/application/purchase"
	infrapdf "github.com/jhoicas/Maquinaria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Maquinaria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Maquinaria-api/internal/interfaces/http"
	"github.com/jhoicas/Maquinaria-api/pkg/config"
	"github.com/jhoicas/Maquinaria-api/pkg/jwt"
	"github.com/jhoicas/Maquinaria-api/pkg/logger"
	"github.com/jhoicas/Maquinaria-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración JWT")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("sql"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	kardexRepo := postgres.NewKardexRepository(pool)
	unitRepo := postgres.NewItemUnitRepository(pool)
	intervalRepo := postgres.NewLocationIntervalRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	machineRepo := postgres.NewMachineRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	m := metrics.New()

	// PDF: kardex valorizado por insumo
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

	catalogUC := catalog.NewUseCase(catalogRepo, log.Component("catalog"))
	masterUC := masterdata.NewUseCase(itemRepo, catalogRepo, warehouseRepo, machineRepo, log.Component("masterdata"))
	kardexUC := inventory.NewKardexUseCase(
		txRunner, itemRepo, kardexRepo, catalogRepo, pdfGenerator, log.Component("kardex"), m,
	)
	unitUC := inventory.NewUnitUseCase(
		txRunner, unitRepo, intervalRepo, machineRepo, log.Component("units"), m,
	)
	purchaseUC := purchase.NewRegisterPurchaseUseCase(
		txRunner, purchaseRepo, kardexUC, unitUC,
		purchase.Config{
			TaxFactor:            cfg.Purchase.TaxFactor,
			DefaultCurrency:      cfg.Purchase.DefaultCurrency,
			ReceivingWarehouseID: cfg.Purchase.ReceivingWarehouseID,
		},
		log.Component("purchase"), m,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware(m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Maquinaria API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:    catalogUC,
		MasterDataUC: masterUC,
		PurchaseUC:   purchaseUC,
		KardexUC:     kardexUC,
		UnitUC:       unitUC,
		Tokens:       tokens,
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
