package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Moscow is the fallback when no coordinate can be resolved.
const (
	defaultLatitude  = 55.7558
	defaultLongitude = 37.6176
)

type AppConfig struct {
	WeatherAPIKey     string `validate:"required"`
	WeatherAPIBaseURL string `validate:"required,url"`

	// City/Country identify the tracked place for geocoding; empty means
	// location access is effectively denied.
	City           string
	Country        string
	GeocoderAPIKey string

	// DefaultLat/DefaultLon are used when location resolution yields nothing.
	DefaultLat float64 `validate:"gte=-90,lte=90"`
	DefaultLon float64 `validate:"gte=-180,lte=180"`

	// HTTPTimeout bounds each upstream call. There are no retries.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// FetchInterval controls the background refresh cadence.
	FetchInterval time.Duration `validate:"gt=0"`

	// ImageCacheCapacity bounds the icon LRU by entry count.
	ImageCacheCapacity int `validate:"gt=0"`

	LogLevel string
	Port     string `validate:"required"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		WeatherAPIBaseURL: getenvDefault("WEATHERAPI_BASE_URL", "https://api.weatherapi.com/v1"),
		City:              os.Getenv("WEATHER_LOCATION_CITY"),
		Country:           os.Getenv("WEATHER_LOCATION_COUNTRY"),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		LogLevel:          getenvDefault("LOG_LEVEL", "info"),
		Port:              getenvDefault("PORT", "8080"),
	}

	cfg.DefaultLat = getenvFloat("DEFAULT_LAT", defaultLatitude)
	cfg.DefaultLon = getenvFloat("DEFAULT_LON", defaultLongitude)
	cfg.ImageCacheCapacity = getenvInt("IMAGE_CACHE_CAPACITY", 128)

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	interval, err := time.ParseDuration(getenvDefault("FETCH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
