package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/crestwatch/surfcast/internal/alerting"
	"github.com/crestwatch/surfcast/internal/cache"
	"github.com/crestwatch/surfcast/internal/controllers/alertscheduler"
	"github.com/crestwatch/surfcast/internal/controllers/restserver"
	"github.com/crestwatch/surfcast/internal/database"
	"github.com/crestwatch/surfcast/internal/log"
	"github.com/crestwatch/surfcast/internal/metrics"
	"github.com/crestwatch/surfcast/internal/notify"
	"github.com/crestwatch/surfcast/internal/scoring"
	"github.com/crestwatch/surfcast/pkg/config"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	// Database
	db := database.NewClient(&cfg.Database, a.logger)
	if err := db.Connect(); err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer db.Close()
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("could not run migrations: %w", err)
		}
	}

	// Score cache: Redis when configured, in-process otherwise
	var scoreCache cache.Cache
	if cfg.Redis != nil {
		scoreCache, err = cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("could not connect to Redis: %w", err)
		}
		log.Infof("Using Redis score cache at %v", cfg.Redis.Addr)
	} else {
		scoreCache = cache.NewMemory()
		log.Info("Using in-memory score cache")
	}

	// Metrics
	m := metrics.New()
	registry := prometheus.NewRegistry()
	if err := m.Register(registry); err != nil {
		return fmt.Errorf("could not register metrics: %w", err)
	}

	// Scoring
	store := scoring.NewStore(db, scoreCache, m, a.logger)

	// Notifications
	dispatcher := a.buildDispatcher(cfg)

	// Alert processing
	orch := alerting.NewOrchestrator(db, store, dispatcher, clockwork.NewRealClock(), m, a.logger)

	// REST server
	rest, err := restserver.NewController(ctx, &wg, cfg.HTTP, store, db, orch, registry, a.logger)
	if err != nil {
		return err
	}
	if err := rest.StartController(); err != nil {
		return err
	}

	// Scheduler
	if cfg.Scheduler.Enabled {
		sched, err := alertscheduler.NewController(ctx, &wg, cfg.Scheduler, orch, a.logger)
		if err != nil {
			return err
		}
		if err := sched.StartController(); err != nil {
			return err
		}
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}

// buildDispatcher registers a notifier per configured delivery method.
// In-app notifications always work; they only write to the log and the
// notifications table.
func (a *App) buildDispatcher(cfg *config.ConfigData) *notify.Dispatcher {
	dispatcher := notify.NewDispatcher(a.logger)
	dispatcher.Register(database.NotifyApp, notify.NewLog(a.logger))

	if cfg.Notifiers.SMTP != nil {
		dispatcher.Register(database.NotifyEmail, notify.NewEmail(cfg.Notifiers.SMTP))
	} else {
		log.Warn("No SMTP configuration; email alerts will fail to deliver")
	}

	if cfg.Notifiers.Webhook != nil {
		dispatcher.Register(database.NotifyWhatsApp, notify.NewWebhook(cfg.Notifiers.Webhook))
	} else {
		log.Warn("No webhook configuration; WhatsApp alerts will fail to deliver")
	}

	return dispatcher
}
