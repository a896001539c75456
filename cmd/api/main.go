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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Produccion-api/internal/application/branch"
	"github.com/jhoicas/Produccion-api/internal/application/movement"
	"github.com/jhoicas/Produccion-api/internal/application/ports"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/cache"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/excel"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Produccion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// stores repositorios y ejecutor de transacciones del backend elegido.
type stores struct {
	tx          ports.TxRunner
	movements   repository.MovementRepository
	productions repository.ProductionRepository
	resources   repository.ResourceRepository
	branches    repository.BranchRepository
	transfers   repository.TransferRepository
	users       repository.UserRepository
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	// Redis es opcional: sin él no hay caché de estadísticas y los locks son no-op.
	var (
		locker     ports.Locker     = ports.NoopLocker{}
		statsCache ports.StatsCache = ports.NoopCache{}
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = cache.NewLocker(rdb, cfg.App.Name, log.Component("locker"))
		statsCache = cache.NewStatsCache(rdb, cfg.App.Name)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: sin caché de estadísticas ni locks distribuidos")
	}

	rec := metrics.NewRecorder(true)

	productionUC := production.NewUseCase(
		st.tx, st.productions, locker, statsCache, rec,
		infrapdf.NewSheetGenerator(cfg.App.Company), log.Component("produccion"),
	)
	movementUC := movement.NewUseCase(
		st.tx, st.movements, st.resources, st.productions, productionUC,
		locker, statsCache, rec, excel.NewHistoryExporter(),
		movement.Options{
			DefaultLimit: cfg.History.DefaultLimit,
			MaxLimit:     cfg.History.MaxLimit,
			StatsTTL:     cfg.Redis.StatsTTL(),
		},
		log.Component("movimientos"),
	)
	branchUC := branch.NewUseCase(
		st.tx, st.branches, st.transfers, st.resources,
		locker, statsCache, rec, cfg.Redis.StatsTTL(), log.Component("sucursales"),
	)
	userUC := usecase.NewUserUseCase(st.users)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), rec))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Producción API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.Store})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(rec.Registry(), promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductionUC: productionUC,
		MovementUC:   movementUC,
		BranchUC:     branchUC,
		UserUC:       userUC,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
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

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.App.Store == config.StoreMemory {
		log.Warn().Msg("STORE=memory: los datos se pierden al reiniciar")
		m := memory.NewStore()
		return stores{
			tx:          m,
			movements:   m.Movements(),
			productions: m.Productions(),
			resources:   m.Resources(),
			branches:    m.Branches(),
			transfers:   m.Transfers(),
			users:       m.Users(),
			close:       func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool, log.Component("migraciones"))
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("aplicadas", applied).Msg("migraciones al día")
	}
	return stores{
		tx:          postgres.NewTxRunner(pool),
		movements:   postgres.NewMovementRepository(pool),
		productions: postgres.NewProductionRepository(pool),
		resources:   postgres.NewResourceRepository(pool),
		branches:    postgres.NewBranchRepository(pool),
		transfers:   postgres.NewTransferRepository(pool),
		users:       postgres.NewUserRepository(pool),
		close:       pool.Close,
	}
}
