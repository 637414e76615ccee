package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopadmin/internal/app"
	"shopadmin/internal/config"
	"shopadmin/internal/http/handlers"
	"shopadmin/internal/http/middleware"
	"shopadmin/internal/telemetry"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func main() {
	port := pflag.StringP("port", "p", "", "listen port (overrides PORT)")
	storeURL := pflag.StringP("store-url", "s", "", "legacy store base URL (overrides STORE_BASE_URL)")
	pflag.Parse()

	// Setup logger
	zerolog.TimeFieldFormat = time.RFC3339

	cfg, err := config.Load()
	if err != nil && *storeURL == "" {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg == nil {
		cfg = &config.Config{Env: "production", Port: "8080"}
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *storeURL != "" {
		cfg.StoreBaseURL = *storeURL
	}

	if cfg.Development() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Initialize telemetry (optional service)
	shutdown, enabled, err := telemetry.InitTelemetry()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without it")
		shutdown = func() {}
	} else if enabled {
		log.Info().Msg("Telemetry initialized successfully")
	} else {
		log.Info().Msg("Telemetry disabled")
	}
	defer shutdown()

	// Initialize services
	services := app.NewServices(cfg.StoreBaseURL, log.Logger)

	// Warm the reference lists and the product grid. The gateway still
	// starts if the store is unreachable; the UI surfaces it.
	startupCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	if err := services.Controller.RefreshCategories(startupCtx); err != nil {
		log.Warn().Err(err).Msg("Initial category load failed")
	}
	if err := services.Controller.RefreshBrands(startupCtx); err != nil {
		log.Warn().Err(err).Msg("Initial brand load failed")
	}
	if _, err := services.Controller.RefreshProducts(startupCtx); err != nil {
		log.Warn().Err(err).Msg("Initial product load failed")
	}
	cancelWarm()

	// Setup Echo
	e := echo.New()
	e.HideBanner = true

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID(log.Logger))
	e.Use(middleware.Telemetry())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Static landing page
	e.Static("/", "web/landing")

	// Setup routes
	api := e.Group("/api/v1")

	handlers.SetupRoutes(api, services, log.Logger)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBaseURL).Msg("Server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
