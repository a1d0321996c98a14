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
	"github.com/tu-usuario/almacen-pro/internal/application/alerts"
	"github.com/tu-usuario/almacen-pro/internal/application/forecast"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/internal/infrastructure/cache"
	"github.com/tu-usuario/almacen-pro/internal/infrastructure/eventbus"
	"github.com/tu-usuario/almacen-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/almacen-pro/internal/interfaces/http"
	"github.com/tu-usuario/almacen-pro/pkg/config"
	"github.com/tu-usuario/almacen-pro/pkg/logger"
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

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	notifRepo := postgres.NewNotificationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Cache de lectura (opcional): REDIS_ADDR vacío lo deshabilita.
	var readCache inventory.ReadCache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		readCache = redisCache
	}

	// Bus de eventos (opcional): AMQP_URL vacío lo deshabilita.
	var movementPublisher inventory.EventPublisher
	var alertPublisher alerts.AlertPublisher
	if cfg.AMQP.URL != "" {
		publisher, err := eventbus.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Warn().Err(err).Msg("bus de eventos no disponible al arranque")
		}
		defer publisher.Close()
		movementPublisher = publisher
		alertPublisher = publisher
	}

	recordMovementUC := inventory.NewRecordMovementUseCase(txRunner, movementPublisher, readCache, log.Component("inventory"))
	inventoryQueryUC := inventory.NewQueryUseCase(movementRepo, productRepo, readCache)
	forecastUC := forecast.NewUseCase(movementRepo, productRepo)
	notificationUC := alerts.NewNotificationUseCase(notifRepo)

	if cfg.Sentinel.Enabled {
		sentinel := alerts.NewLowStockSentinel(
			productRepo, userRepo, notificationUC, alertPublisher,
			alerts.SentinelConfig{
				Interval:         cfg.Sentinel.Interval,
				DedupWindow:      cfg.Sentinel.DedupWindow,
				DefaultThreshold: cfg.Sentinel.DefaultThreshold,
			},
			log.Component("sentinel"),
		)
		sentinel.Start(ctx)
	}

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
		Title:    "Almacén Pro API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		RecordMovement: recordMovementUC,
		InventoryQuery: inventoryQueryUC,
		ForecastUC:     forecastUC,
		NotificationUC: notificationUC,
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
	stop() // detiene el sentinel

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
