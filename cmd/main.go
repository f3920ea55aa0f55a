package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/api"
	"github.com/easyslot/easyslot/internal/browser"
	"github.com/easyslot/easyslot/internal/config"
	"github.com/easyslot/easyslot/internal/logger"
	"github.com/easyslot/easyslot/internal/metrics"
	"github.com/easyslot/easyslot/internal/monitor"
	"github.com/easyslot/easyslot/internal/notification"
	"github.com/easyslot/easyslot/internal/repositories"
	"github.com/easyslot/easyslot/internal/state"
)

func buildNotifier(cfg *config.Config, bus EventBus.Bus) *notification.Service {

	var senders []notification.Sender

	if cfg.Notifications.Email.Enabled {
		emailSender, err := notification.NewEmailSender(notification.EmailConfig{
			Host:      cfg.Notifications.Email.Host,
			Port:      cfg.Notifications.Email.Port,
			Sender:    cfg.Notifications.Email.Sender,
			Password:  cfg.Notifications.Email.Password,
			Recipient: cfg.Notifications.Email.Recipient,
		})
		if err != nil {
			log.Fatalf("can't create email sender: %v", err)
		}
		senders = append(senders, emailSender)
	}

	if cfg.Notifications.Telegram.Enabled {
		tgSender, err := notification.NewTelegramSender(
			cfg.Notifications.Telegram.Token, cfg.Notifications.Telegram.ChatID)
		if err != nil {
			log.Fatalf("can't create telegram sender: %v", err)
		}
		senders = append(senders, tgSender)
	}

	if len(senders) == 0 {
		log.Warn("no notification senders configured, alerts will only be logged")
	}

	notifier, err := notification.NewService(bus, cfg.Notifications.ThrottleInterval,
		cfg.Debug.Enabled, senders...)
	if err != nil {
		log.Fatalf("can't create notification service: %v", err)
	}
	return notifier
}

// failStartup tells every configured user their monitoring never started,
// then exits. Setup failures before the notifier exists can only be logged.
func failStartup(notifier *notification.Service, users []config.UserConfig, format string, args ...interface{}) {
	for _, user := range users {
		notifier.NotifyFatal("failed to start monitoring", user.ToSpec())
	}
	log.Fatalf(format, args...)
}

func runWorkers(ctx context.Context, cfg *config.Config, registry *browser.Registry,
	store *state.Store, notifier *notification.Service, bus EventBus.Bus) *sync.WaitGroup {

	saver, err := monitor.NewArtifactSaver(cfg.Debug.ArtifactDir, cfg.Debug.SaveScreenshots,
		cfg.Debug.SaveHTML, cfg.Debug.SendNotifications, notifier)
	if err != nil {
		failStartup(notifier, cfg.Users, "can't create artifact saver: %v", err)
	}

	checker := monitor.NewSiteChecker("", cfg.Monitoring.BusyMarkers, saver)

	var wg sync.WaitGroup
	for _, userCfg := range cfg.Users {
		worker := monitor.NewWorker(userCfg.ToSpec(), registry, store, notifier, bus, checker,
			cfg.Monitoring.CheckInterval, cfg.Monitoring.ErrorRetryInterval,
			monitor.WithDebugSink(saver))
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}
	return &wg
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	if err := monitor.PurgeArtifacts(cfg.Debug.ArtifactDir); err != nil {
		log.Errorf("can't purge old debug artifacts: %v", err)
	}

	bus := EventBus.New()
	notifier := buildNotifier(cfg, bus)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		failStartup(notifier, cfg.Users, "can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		failStartup(notifier, cfg.Users, "can't migrate db context: %v", err)
	}

	users := repositories.NewUserRepository(dbContext.DB)

	store, err := state.NewStore(cfg.Monitoring.StateDir)
	if err != nil {
		failStartup(notifier, cfg.Users, "can't create state store: %v", err)
	}

	registry := browser.NewRegistry(func(key string) (browser.Driver, error) {
		return browser.Connect(browser.Options{
			RemoteURL:      cfg.Browser.RemoteURL,
			BrowserName:    cfg.Browser.Type,
			Headless:       cfg.Browser.Headless,
			BinaryLocation: cfg.Browser.BinaryLocation,
		})
	})
	registry.SetRateLimit(cfg.Browser.MaxPageLoadsPerSecond)

	cleaner, err := monitor.NewArtifactCleaner(cfg.Debug.ArtifactDir)
	if err != nil {
		failStartup(notifier, cfg.Users, "can't create artifact cleaner: %v", err)
	}
	defer cleaner.Stop()

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(cfg.API.Address, store, users)
		apiServer.Start()
	}

	workers := runWorkers(ctx, cfg, registry, store, notifier, bus)

	<-ctx.Done()

	log.Info("Shutting down services...")
	workers.Wait()
	if apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api server shutdown error: %v", err)
		}
	}
	registry.CloseAll()
	log.Info("Services stopped.")
}
