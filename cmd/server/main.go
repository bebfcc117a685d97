package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtfinder/config"
	"courtfinder/internal/adapters/apiclient"
	"courtfinder/internal/adapters/hkapi"
	"courtfinder/internal/adapters/storage"
	delivery "courtfinder/internal/delivery/http"
	"courtfinder/internal/delivery/http/middleware"
	"courtfinder/internal/domain"
	"courtfinder/internal/services"
)

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	primary := newBackend(string(apiclient.BackendPrimary), cfg.Primary, logger)
	secondary := newBackend(string(apiclient.BackendSecondary), cfg.Secondary, logger)
	router, err := apiclient.NewRouter(primary, secondary, apiclient.DefaultRouteTable(), logger)
	if err != nil {
		return fmt.Errorf("build backend router: %w", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	svc := services.NewSportDataService(store, hkapi.NewClient(router), logger, cfg.CacheTTL, nil)
	go services.NewRefresher(svc, logger, cfg.CacheTTL).Run(ctx)

	controller := delivery.NewAvailabilityController(logger, svc)
	handler := middleware.CORS(cfg.AllowedOrigins,
		middleware.LoggingMiddleware(logger, delivery.NewRouter(controller)))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment, "cache_store", cfg.CacheStore)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newBackend(name string, bc config.BackendConfig, logger *slog.Logger) *apiclient.Backend {
	var tokens apiclient.TokenSource
	if bc.StaticToken != "" {
		tokens = apiclient.StaticTokenSource(bc.StaticToken)
	} else {
		tokens = apiclient.NewClientCredentialsTokenSource(
			&http.Client{Timeout: bc.Timeout}, bc.TokenURL, bc.ClientID, bc.ClientSecret)
	}
	return apiclient.NewBackend(apiclient.BackendOptions{
		Name:       name,
		BaseURL:    bc.BaseURL,
		Client:     &http.Client{Timeout: bc.Timeout},
		Tokens:     tokens,
		MaxRetries: bc.MaxRetries,
		BaseDelay:  bc.BaseDelay,
		Logger:     logger,
	})
}

func newStore(ctx context.Context, cfg *config.Config) (domain.SportDataStore, error) {
	switch cfg.CacheStore {
	case "postgres":
		db, err := storage.OpenPostgres(ctx, cfg.DBUrl)
		if err != nil {
			return nil, fmt.Errorf("connect postgres cache: %w", err)
		}
		return storage.NewPostgresStore(db), nil
	default:
		return storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	}
}
