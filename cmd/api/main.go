package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anjiri1684/skill_swap/chain"
	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/jobs"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/notifications"
	"github.com/anjiri1684/skill_swap/routes"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/anjiri1684/skill_swap/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	config.SetupLogger(settings)

	var storage *services.Storage
	if settings.CloudinaryURL != "" {
		if storage, err = services.NewStorage(settings.CloudinaryURL); err != nil {
			log.Fatal().Err(err).Msg("failed to configure cloudinary")
		}
	}

	chainCfg := chain.Config{
		AlgodServer:   settings.AlgodServer,
		AlgodToken:    settings.AlgodToken,
		IndexerServer: settings.IndexerServer,
		IndexerToken:  settings.IndexerToken,
		Timeout:       settings.LedgerTimeout,
		ConfirmRounds: settings.ConfirmRounds,
	}
	if storage != nil {
		chainCfg.MetadataHost = storage
	}
	ledger, err := chain.NewClient(chainCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create algorand client")
	}

	journal := openJournal(settings)

	hub := websocket.NewHub()
	notifier := notifications.NewNotifier(hub)
	mailer := notifications.NewEmailService(settings.BrevoAPIKey, settings.EmailSender, settings.EmailSenderName)

	sessions := services.NewSessionRegistry()
	payments := services.NewPaymentService(ledger, journal)

	var catalogOpts []services.CatalogOption
	if settings.ListingFeeAlgo > 0 {
		catalogOpts = append(catalogOpts, services.WithListingFee(payments, settings.ListingFeeAlgo, settings.PaymentReceiver))
	}
	catalog := services.NewCatalog(catalogOpts...)
	if settings.SeedDemoData {
		catalog.SeedDemo(settings.PaymentReceiver)
	}

	bookings := services.NewBookingService(catalog, payments, ledger, notifier, settings.PaymentReceiver)

	completions := services.NewCompletionService(catalog, ledger, nil, notifier)
	if settings.CertificatesEnabled && storage != nil {
		completions = services.NewCompletionService(catalog, ledger, services.NewCertificateService(storage, nil), notifier)
	}

	mentors := services.NewMentorDirectory(nil)
	if mailer != nil {
		mentors = services.NewMentorDirectory(mailer)
	}

	sessions.OnDisconnect(func(s *services.Session) {
		bookings.CloseSession(s.ID)
		notifier.Clear(s.Address)
		hub.DisconnectAddress(s.Address)
	})

	h := &handlers.Handler{
		Settings:    settings,
		Ledger:      ledger,
		Sessions:    sessions,
		Catalog:     catalog,
		Bookings:    bookings,
		Reviews:     services.NewReviewService(catalog, notifier),
		Payments:    payments,
		Completions: completions,
		Dashboard:   services.NewDashboardService(catalog),
		Mentors:     mentors,
		Notifier:    notifier,
		Hub:         hub,
	}
	if storage != nil {
		h.Storage = storage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	limiter := middleware.NewRateLimiter(float64(settings.PaymentRateLimit), settings.PaymentRateBurst)

	c := cron.New()
	if _, err := c.AddFunc(settings.ReconcileSchedule, jobs.ReconcilePayments(payments)); err != nil {
		log.Fatal().Err(err).Str("schedule", settings.ReconcileSchedule).Msg("invalid reconcile schedule")
	}
	if _, err := c.AddFunc("@every 5m", jobs.SweepIdleFlows(bookings, limiter, settings.FlowTTL)); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule flow sweeper")
	}
	c.Start()
	log.Info().Str("reconcile", settings.ReconcileSchedule).Dur("flow_ttl", settings.FlowTTL).Msg("cron jobs scheduled")

	app := fiber.New(fiber.Config{
		AppName:       "SkillSwap",
		CaseSensitive: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  2 * time.Minute,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(middleware.Metrics())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to SkillSwap API",
		})
	})
	routes.Setup(app, h, limiter)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		<-c.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("port", settings.Port).Str("env", settings.AppEnv).Msg("server starting")
	if err := app.Listen(":" + settings.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}

// openJournal uses Postgres when DATABASE_URL is set and an in-memory
// journal otherwise.
func openJournal(settings *config.Settings) database.PaymentJournal {
	if settings.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, payment journal is in memory")
		return database.NewMemoryJournal()
	}
	db, err := database.ConnectDB(settings.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	return database.NewGormJournal(db)
}
