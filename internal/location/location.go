// Package location implements the weather.LocationService capability on top
// of forward geocoding: the tracked place is configured by name and resolved
// to a coordinate once, then cached for the life of the process.
package location

import (
	"context"
	"sync"

	"github.com/kelvins/geocoder"
	"github.com/rs/zerolog"

	"github.com/ndmitriev/weathercast/internal/weather"
)

// GeocoderService resolves the configured city through the Google geocoding
// API. An unconfigured service (no city or no API key) behaves like denied
// location access: SettingsAlertNeeded reports true and resolution yields
// nothing.
type GeocoderService struct {
	city    string
	country string
	apiKey  string
	log     zerolog.Logger

	mu     sync.Mutex
	cached *weather.Coordinate
}

func NewGeocoderService(apiKey, city, country string, log zerolog.Logger) *GeocoderService {
	geocoder.ApiKey = apiKey
	return &GeocoderService{
		city:    city,
		country: country,
		apiKey:  apiKey,
		log:     log.With().Str("component", "location").Logger(),
	}
}

// SettingsAlertNeeded reports whether location resolution is impossible
// until the operator fixes the configuration.
func (s *GeocoderService) SettingsAlertNeeded() bool {
	return s.city == "" || s.apiKey == ""
}

// CurrentLocation resolves the configured city to a coordinate. The lookup
// runs in its own goroutine and is joined through a one-shot resolver so a
// canceled context abandons the wait without leaking a send.
func (s *GeocoderService) CurrentLocation(ctx context.Context) (weather.Coordinate, bool) {
	if s.SettingsAlertNeeded() {
		return weather.Coordinate{}, false
	}

	s.mu.Lock()
	if s.cached != nil {
		coord := *s.cached
		s.mu.Unlock()
		return coord, true
	}
	s.mu.Unlock()

	res := newResolver()
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{
			City:    s.city,
			Country: s.country,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("city", s.city).Msg("geocoding failed")
			res.reject()
			return
		}
		res.resolve(weather.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude})
	}()

	select {
	case out := <-res.done:
		if out.ok {
			s.mu.Lock()
			coord := out.coord
			s.cached = &coord
			s.mu.Unlock()
		}
		return out.coord, out.ok
	case <-ctx.Done():
		return weather.Coordinate{}, false
	}
}
