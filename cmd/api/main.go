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
	"github.com/jhoicas/conteo-api/internal/application/auth"
	"github.com/jhoicas/conteo-api/internal/application/stocktake"
	"github.com/jhoicas/conteo-api/internal/infrastructure/memory"
	"github.com/jhoicas/conteo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/conteo-api/internal/interfaces/http"
	"github.com/jhoicas/conteo-api/pkg/config"
	"github.com/jhoicas/conteo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	entryRepo := postgres.NewCountEntryRepository(pool)
	shelfRepo := postgres.NewShelfRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	draftRepo := postgres.NewDraftDocumentRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Bloqueos de artículo en memoria: TTL renovable y barrido periódico.
	locks := memory.NewLockRegistry(cfg.StockTake.LockTTL())
	locks.StartSweeper(ctx, cfg.StockTake.LockSweepInterval())

	authUC := auth.NewAuthUseCase(userRepo, branchRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	sessionUC := stocktake.NewSessionUseCase(txRunner, sessionRepo, branchRepo, draftRepo, movementRepo, locks, log)
	countUC := stocktake.NewCountUseCase(sessionRepo, entryRepo, shelfRepo, itemRepo, postgres.NewStockRepository(pool), locks)
	shelfUC := stocktake.NewShelfUseCase(sessionRepo, entryRepo, shelfRepo)
	verificationUC := stocktake.NewVerificationUseCase(sessionRepo, entryRepo)
	progressUC := stocktake.NewProgressUseCase(sessionRepo, entryRepo, itemRepo)
	lockUC := stocktake.NewLockUseCase(sessionRepo, userRepo, locks)
	itemUC := stocktake.NewItemUseCase(itemRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Conteo Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		SessionUC:      sessionUC,
		CountUC:        countUC,
		ShelfUC:        shelfUC,
		VerificationUC: verificationUC,
		ProgressUC:     progressUC,
		LockUC:         lockUC,
		ItemUC:         itemUC,
		JWTSecret:      cfg.JWT.Secret,
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
