package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lintindex/rules-index/internal/api"
	"github.com/lintindex/rules-index/internal/config"
	"github.com/lintindex/rules-index/internal/domain"
	"github.com/lintindex/rules-index/internal/health"
	"github.com/lintindex/rules-index/internal/query"
	"github.com/lintindex/rules-index/internal/storage"
	"github.com/lintindex/rules-index/internal/view"

	docs "github.com/lintindex/rules-index/docs"
)

// @title ESLint Rules Index API
// @version 1.0
// @description Searchable index of ESLint core and plugin rules with links to their documentation

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
// @schemes http https

// @tag.name Rules
// @tag.description Rule catalog queries

// @tag.name System
// @tag.description System health and metrics operations

func main() {
	healthCheck := flag.Bool("health-check", false, "Perform health check and exit")
	flag.Parse()

	if *healthCheck {
		performHealthCheck()
		return
	}

	setupLogger()

	log.Info().Msg("ESLint rules index starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	docs.SwaggerInfo.Host = os.Getenv("DOMAIN")

	logStartupConfig(cfg)

	store := storage.NewFileStore(cfg.CatalogPath(), domain.NewValidator())

	ctx := context.Background()
	if err := store.Load(ctx); err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath()).Msg("Failed to load rules catalog")
	}

	engine := query.NewEngine(store)
	healthChecker := health.NewSystemHealthChecker(store, engine)

	assets, err := view.BuildAssets(true)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build client assets")
	}

	router := api.SetupRouter(api.RouterDependencies{
		Querier:       engine,
		Repository:    store,
		Validator:     domain.NewValidator(),
		HealthChecker: healthChecker,
		Assets:        assets,
	}, api.RouterConfig{
		CORSOrigins:     cfg.Security.CORSOrigins,
		BodyLimit:       cfg.Server.BodyLimit,
		RateLimitRPS:    cfg.Security.RateLimit,
		RateLimitBurst:  cfg.Security.RateLimit * 2,
		Title:           cfg.UI.Title,
		DefaultPageSize: cfg.UI.DefaultPageSize,
	})
	app := router.App

	app.Server().ReadTimeout = cfg.Server.ReadTimeout
	app.Server().WriteTimeout = cfg.Server.WriteTimeout

	stopReload := watchReload(store)
	setupGracefulShutdown(app, func() {
		stopReload()
		router.Cleanup()
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().
		Int("port", cfg.Server.Port).
		Str("addr", serverAddr).
		Msg("Starting HTTP server")

	if err := app.Listen(serverAddr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func setupLogger() {
	zerolog.TimeFieldFormat = time.RFC3339

	level := os.Getenv("LOG_LEVEL")
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if os.Getenv("LOG_FORMAT") == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func logStartupConfig(cfg *config.Config) {
	log.Info().
		Int("server_port", cfg.Server.Port).
		Dur("server_read_timeout", cfg.Server.ReadTimeout).
		Dur("server_write_timeout", cfg.Server.WriteTimeout).
		Int("server_body_limit", cfg.Server.BodyLimit).
		Str("catalog_path", cfg.Catalog.Path).
		Strs("security_cors_origins", cfg.Security.CORSOrigins).
		Bool("security_enable_https", cfg.Security.EnableHTTPS).
		Int("security_rate_limit", cfg.Security.RateLimit).
		Int("ui_default_page_size", cfg.UI.DefaultPageSize).
		Str("logging_level", cfg.Logging.Level).
		Str("logging_format", cfg.Logging.Format).
		Msg("Configuration loaded successfully")
}

// reloader is the part of the store swapped on SIGHUP
type reloader interface {
	Reload(ctx context.Context) error
}

// watchReload reloads the catalog on SIGHUP. A failed reload keeps the
// previous snapshot.
func watchReload(store reloader) func() {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-hup:
				reloadCatalog(store)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(hup)
		close(done)
	}
}

func reloadCatalog(store reloader) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	if err := store.Reload(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to reload rules catalog, keeping previous snapshot")
		return
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("Rules catalog reloaded")
}

func setupGracefulShutdown(app *fiber.App, cleanup func()) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-ctx.Done()
		stop()

		log.Info().Msg("Received shutdown signal, initiating graceful shutdown")

		if cleanup != nil {
			cleanup()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Info().Msg("Stopping HTTP server...")
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}

		log.Info().Msg("Graceful shutdown completed")
		os.Exit(0)
	}()
}

func performHealthCheck() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{
		Timeout: 3 * time.Second,
	}

	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/health", port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("Health check passed")
	os.Exit(0)
}
