package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"restaurantops_backend/internals/configs"
	database "restaurantops_backend/internals/databases"
	"restaurantops_backend/internals/features/evaluations/evaluations/repository"
	"restaurantops_backend/internals/features/evaluations/evaluations/scheduler"
	evaluationService "restaurantops_backend/internals/features/evaluations/evaluations/service"
	templateService "restaurantops_backend/internals/features/evaluations/templates/service"
	notificationService "restaurantops_backend/internals/features/home/notifications/service"
	userService "restaurantops_backend/internals/features/users/user/service"
	helper "restaurantops_backend/internals/helpers"
	"restaurantops_backend/internals/helpers/logger"
	middlewares "restaurantops_backend/internals/middlewares"
	routes "restaurantops_backend/internals/route"
	"restaurantops_backend/internals/seeds"
)

func main() {
	boot, _ := logger.New(logger.Options{})
	logger.SetGlobal(boot)

	cfg := configs.LoadEnv()
	log, err := logger.New(logger.Options{Level: cfg.LogLevel, HumanReadable: cfg.LogPretty})
	if err != nil {
		boot.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("invalid LOG_LEVEL")
	}
	logger.SetGlobal(log)

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.ErrorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            cfg.MutationTimeout + 5*time.Second,
		IdleTimeout:             90 * time.Second,
	})

	middlewares.SetupMiddlewares(app, middlewares.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.MutationTimeout,
		RateMax:        cfg.RateMax,
		RateWindow:     time.Minute,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		db    *gorm.DB
		store repository.Store
		staff userService.Staff
		inbox notificationService.Inbox
	)
	switch cfg.EvaluationStore {
	case "memory":
		log.Warn().Msg("EVALUATION_STORE=memory: data is lost on restart")
		store = repository.NewMemoryStore()
		staff = userService.NewMemoryDirectory()
		cfg.RunSeeds = true
	default:
		// 🔌 DB connect + pool + migrate + warm-up
		db, err = database.ConnectDB(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := database.TunePool(db); err != nil {
			log.Fatal().Err(err).Msg("database pool setup failed")
		}
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
		database.WarmUp(db, log)
		store = repository.NewGormStore(db)
		staff = userService.NewGormDirectory(db)
		inbox = notificationService.NewGormInbox(db)
	}

	dispatcher, closeDispatcher := buildDispatcher(cfg, db, log)
	notifier := notificationService.NewBestEffort(dispatcher, cfg.NotifyTimeout, log)

	evaluations := evaluationService.New(store, staff, notifier, log)
	templates := templateService.New(store, log)

	if cfg.RunSeeds {
		if err := seeds.RunAllSeeds(ctx, seeds.Deps{Templates: templates, Staff: staff, Logger: log}); err != nil {
			log.Error().Err(err).Msg("seeding failed")
		}
	}

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:          db,
		JWTSecret:   cfg.JWTSecret,
		Evaluations: evaluations,
		Templates:   templates,
		Staff:       staff,
		Inbox:       inbox,
		Logger:      log,

		MutationRateMax:    cfg.MutationRateMax,
		MutationRateWindow: cfg.MutationRateWindow,
	})

	// ⏱ reminder sweep setelah store siap
	reminders := scheduler.StartReminderScheduler(ctx, evaluations, scheduler.ReminderConfig{
		Interval: cfg.ReminderInterval,
		After:    cfg.ReminderAfter,
		Batch:    cfg.ReminderBatch,
	}, log)

	// Start server non-blocking
	go func() {
		log.Info().Str("port", cfg.Port).Msg("✅ Listening")
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// graceful shutdown + tutup pool DB
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)

	<-reminders
	notifier.Wait()
	closeDispatcher()

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// buildDispatcher fans notifications out to the inbox table and RabbitMQ when
// they are available, and to the log otherwise.
func buildDispatcher(cfg configs.Config, db *gorm.DB, log zerolog.Logger) (notificationService.Dispatcher, func()) {
	var out notificationService.Multi
	closer := func() {}

	if db != nil {
		out = append(out, notificationService.NewInApp(db))
	}
	if cfg.AMQPURL != "" {
		amqpDispatcher, err := notificationService.DialAMQP(cfg.AMQPURL, cfg.NotifyQueue, log)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, notifications stay in-app")
		} else {
			out = append(out, amqpDispatcher)
			closer = func() {
				if err := amqpDispatcher.Close(); err != nil {
					log.Warn().Err(err).Msg("closing RabbitMQ connection")
				}
			}
		}
	}
	if len(out) == 0 {
		out = append(out, notificationService.Log{Logger: log})
	}
	return out, closer
}
