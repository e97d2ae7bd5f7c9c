package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/config"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/handlers"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/logging"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/metrics"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/middleware"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/repositories"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/services"
	"github.com/jaramillohillary70-ai/pata-verde-app/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

const rootMessage = "Servidor Pata Verde funcionando"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, "pata-verde")

	app, cleanup, err := newApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}
	defer cleanup()

	log.Info().Str("port", cfg.AppPort).Str("store", cfg.StoreDriver).Msg("starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// newApp wires repositories, services and handlers into a Fiber app. cleanup releases the broker
// connection, if any.
func newApp(cfg config.Config) (*fiber.App, func(), error) {
	repo, err := repositories.NewDatasetRepository(repositories.Options{
		Driver:     cfg.StoreDriver,
		DataFile:   cfg.DataFile,
		SQLiteFile: cfg.SQLiteFile,
		DSN:        cfg.DatabaseDSN,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var publisher services.Publisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			return nil, nil, err
		}
		if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
			log.Warn().Err(err).Msg("failed to start event consumer")
		}
		publisher = mqClient
		cleanup = func() {
			if err := mqClient.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close RabbitMQ client")
			}
		}
	} else {
		log.Info().Msg("RABBITMQ_URL not set, domain events are disabled")
	}

	var hasher services.PasswordHasher = services.PlainTextHasher{}
	if cfg.HashPasswords {
		hasher = services.NewBcryptHasher(cfg.BcryptCost)
	}

	m := metrics.New()
	authService := services.NewAuthService(repo, hasher, publisher, m)
	collectionService := services.NewCollectionService(repo, publisher, m)
	couponService := services.NewCouponService(repo, publisher, m)
	userService := services.NewUserService(repo)

	app := fiber.New(fiber.Config{
		AppName:      "pata-verde",
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog())
	app.Use(middleware.RequestContext())
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(rootMessage)
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  cfg.StoreDriver,
			"events": publisher != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	handlers.NewAuthHandler(authService).RegisterRoutes(app)
	handlers.NewCollectionHandler(collectionService).RegisterRoutes(app)
	handlers.NewCouponHandler(couponService).RegisterRoutes(app)
	handlers.NewUserHandler(userService).RegisterRoutes(app)

	return app, cleanup, nil
}
