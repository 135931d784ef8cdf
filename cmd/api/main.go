package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpme/internal/api"
	"helpme/internal/config"
	"helpme/internal/domain"
	"helpme/internal/events"
	"helpme/internal/export"
	"helpme/internal/google"
	"helpme/internal/logging"
	"helpme/internal/metrics"
	"helpme/internal/models"
	"helpme/internal/repository"
	"helpme/internal/service"
	"helpme/internal/store"
	"helpme/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqliteStore, err := store.NewSQLiteStore(cfg.Store.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("store_path", cfg.Store.Path).Msg("init store")
		return err
	}
	defer sqliteStore.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var st store.Store = sqliteStore
	if redisClient != nil {
		st = store.NewFailoverStore(sqliteStore, store.NewRedisStore(redisClient, cfg.Redis.KeyPrefix), &logger)
	}

	if cfg.Backup.Enabled {
		backup := store.NewBackupService(sqliteStore.Path(), cfg.Backup, &logger)
		go backup.Start(ctx)
	}

	mirror := initMirror(ctx, cfg, redisClient, &logger)

	httpServer, err := buildServer(ctx, cfg, st, mirror, &logger)
	if err != nil {
		return err
	}

	startMetrics(ctx, cfg, &logger)

	return serve(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := store.NewRedisClient(cfg.Redis)
	if err := store.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initMirror wires the spreadsheet mirror when credentials are configured.
// The worker is started here; a nil return disables mirroring.
func initMirror(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SyncWorker {
	if cfg.Google.GoogleCredentialsFile == "" || cfg.Google.ListingsSpreadSheetID == "" {
		return nil
	}

	sheets, err := google.NewSheetsService(cfg.Google.GoogleCredentialsFile, cfg.Google.ListingsSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without mirror")
		return nil
	}
	logger.Info().Msg("google sheets connected")

	workerLogger := logger.With().Str("component", "sheets-worker").Logger()
	w := worker.NewSheetsWorker(sheets, redisClient, worker.RetryPolicy{}, &workerLogger)
	go w.Start(ctx)
	return w
}

// loadSeedLinks reads the optional suggested-app seed file, falling back to
// the built-in placeholders.
func loadSeedLinks(logger *zerolog.Logger) []models.AppLink {
	linksPath := os.Getenv("LINKS_PATH")
	if linksPath == "" {
		linksPath = "configs/links.yaml"
	}

	data, err := os.ReadFile(linksPath)
	if err != nil {
		return service.DefaultLinks()
	}

	var linksConfig struct {
		Links []models.AppLink `yaml:"links"`
	}
	if err := yaml.Unmarshal(data, &linksConfig); err != nil {
		logger.Warn().Err(err).Str("links_path", linksPath).Msg("parse links file, using defaults")
		return service.DefaultLinks()
	}
	return linksConfig.Links
}

func buildServer(ctx context.Context, cfg *config.Config, st store.Store, mirror domain.SyncWorker, logger *zerolog.Logger) (*api.HTTPServer, error) {
	spots := repository.NewCollection(st, models.KeySpots, func(s models.ParkingSpot) string { return s.ID }, logger)
	requests := repository.NewCollection(st, models.KeyRequests, func(r models.ServiceRequest) string { return r.ID }, logger)
	rides := repository.NewCollection(st, models.KeyCarpool, func(r models.CarpoolRide) string { return r.ID }, logger)
	lost := repository.NewCollection(st, models.KeyLostFound, func(i models.LostItem) string { return i.ID }, logger)
	alerts := repository.NewCollection(st, models.KeySos, func(a models.SosAlert) string { return a.ID }, logger)
	notifs := repository.NewCollection(st, models.KeyNotifications, func(n models.Notification) string { return n.ID }, logger)
	chat := repository.NewCollection(st, models.KeyChat, func(m models.ChatMessage) string { return m.ID }, logger)
	users := repository.NewCollection(st, models.KeyUsers, func(u models.User) string { return u.Username }, logger)
	ads := repository.NewCollection(st, models.KeyAds, func(a models.Advertisement) string { return a.ID }, logger)
	links := repository.NewCollection(st, models.KeyLinks, func(l models.AppLink) string { return l.ID }, logger)

	spots.Load(ctx)
	requests.Load(ctx)
	rides.Load(ctx)
	lost.Load(ctx)
	alerts.Load(ctx)
	notifs.Load(ctx)
	chat.Load(ctx)
	users.Load(ctx)
	ads.Load(ctx)
	linksEverSaved := links.Load(ctx)

	bus := events.NewEventBus()
	notificationSvc := service.NewNotificationService(notifs, logger)
	notificationSvc.Subscribe(bus)

	listingSvc := service.NewListingService(spots, requests, rides, lost, alerts, bus, mirror, logger)
	settingsSvc := service.NewSettingsService(st, ads, links, logger)

	if _, err := settingsSvc.SeedLinks(ctx, linksEverSaved, loadSeedLinks(logger)); err != nil {
		logger.Error().Err(err).Msg("seed app links")
		return nil, err
	}

	svc := api.Services{
		Users:         service.NewUserService(users, cfg.Admins, logger),
		Listings:      listingSvc,
		Negotiations:  service.NewNegotiationService(spots, requests, alerts, bus, mirror, logger),
		Notifications: notificationSvc,
		Chat:          service.NewChatService(chat, logger),
		Share:         service.NewShareService(cfg.Share.BaseURL, listingSvc, logger),
		Settings:      settingsSvc,
		Exporter:      export.NewExporter(cfg.Export.Path, logger),
	}

	return api.NewHTTPServer(cfg.API, svc, logger), nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
