package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/ndmitriev/weathercast/internal/api/http"
	"github.com/ndmitriev/weathercast/internal/config"
	"github.com/ndmitriev/weathercast/internal/imagecache"
	"github.com/ndmitriev/weathercast/internal/location"
	"github.com/ndmitriev/weathercast/internal/logger"
	"github.com/ndmitriev/weathercast/internal/scheduler"
	"github.com/ndmitriev/weathercast/internal/store"
	"github.com/ndmitriev/weathercast/internal/weather"
	"github.com/ndmitriev/weathercast/internal/weather/providers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := logger.Build(logger.Config{}, os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Build(logger.Config{Level: cfg.LogLevel, Console: true}, os.Stdout)

	// Shared HTTP client for outbound calls; its timeout is the single
	// bound on each upstream request.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	icons, err := imagecache.New(cfg.ImageCacheCapacity, httpClient, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create image cache")
	}

	provider := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL, log)
	locations := location.NewGeocoderService(cfg.GeocoderAPIKey, cfg.City, cfg.Country, log)
	snapshots := store.NewSnapshotStore()

	service := weather.NewService(provider, locations, snapshots, weather.Coordinate{
		Latitude:  cfg.DefaultLat,
		Longitude: cfg.DefaultLon,
	}, log)

	sched := scheduler.New(service, cfg.FetchInterval, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weathercast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weathercast",
		})
	})

	httpapi.RegisterRoutes(app, service, icons)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
