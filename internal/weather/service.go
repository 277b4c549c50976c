package weather

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Service runs the refresh protocol: resolve a coordinate, fetch current
// weather and forecast concurrently, validate the response timezone, window
// the hourly forecast and hand the assembled snapshot to the presenter.
type Service struct {
	provider     Provider
	location     LocationService
	store        Store
	defaultCoord Coordinate
	log          zerolog.Logger

	// firstLaunch gates the location-denied short circuit; it flips at most
	// once, the first time the denied state is actually observed.
	firstLaunch atomic.Bool

	now func() time.Time
}

// NewService creates a Service. defaultCoord is used whenever the location
// capability yields nothing.
func NewService(provider Provider, location LocationService, store Store, defaultCoord Coordinate, log zerolog.Logger) *Service {
	s := &Service{
		provider:     provider,
		location:     location,
		store:        store,
		defaultCoord: defaultCoord,
		log:          log.With().Str("component", "weather").Logger(),
		now:          time.Now,
	}
	s.firstLaunch.Store(true)
	return s
}

type currentResult struct {
	resp CurrentWeatherResponse
	err  error
}

type forecastResult struct {
	resp ForecastWeatherResponse
	err  error
}

// Refresh runs one invocation of the protocol. Exactly one outcome call is
// made on p, and SetLoading(false) fires after it in every terminal case.
// Failures never retry; the caller restarts the whole protocol if it wants
// another attempt.
func (s *Service) Refresh(ctx context.Context, p Presenter) {
	p.SetLoading(true)
	defer p.SetLoading(false)

	if s.location.SettingsAlertNeeded() && s.firstLaunch.CompareAndSwap(true, false) {
		s.log.Info().Msg("location access denied, prompting for settings")
		p.PresentLocationDenied()
		return
	}

	coord, ok := s.location.CurrentLocation(ctx)
	if !ok {
		s.log.Debug().
			Float64("lat", s.defaultCoord.Latitude).
			Float64("lon", s.defaultCoord.Longitude).
			Msg("no location resolved, using default coordinate")
		coord = s.defaultCoord
	}

	// Both calls start before either is awaited. The first observed error
	// wins; the sibling's result is still received and discarded.
	curCh := make(chan currentResult, 1)
	fcCh := make(chan forecastResult, 1)

	go func() {
		resp, err := s.provider.FetchCurrent(ctx, coord.Latitude, coord.Longitude)
		curCh <- currentResult{resp: resp, err: err}
	}()
	go func() {
		resp, err := s.provider.FetchForecast(ctx, coord.Latitude, coord.Longitude)
		fcCh <- forecastResult{resp: resp, err: err}
	}()

	var (
		current  CurrentWeatherResponse
		forecast ForecastWeatherResponse
		fetchErr error
	)
	for i := 0; i < 2; i++ {
		select {
		case r := <-curCh:
			if r.err != nil && fetchErr == nil {
				fetchErr = r.err
			}
			current = r.resp
		case r := <-fcCh:
			if r.err != nil && fetchErr == nil {
				fetchErr = r.err
			}
			forecast = r.resp
		}
	}
	if fetchErr != nil {
		s.log.Error().Err(fetchErr).Msg("weather fetch failed")
		p.PresentError(PresentableMessage(fetchErr))
		return
	}

	loc, err := s.resolveTimezone(current.Location.TzID)
	if err != nil {
		s.log.Error().Str("tz_id", current.Location.TzID).Msg("unresolvable timezone in current weather response")
		p.PresentError(ErrInvalidTimezone.Error())
		return
	}

	hours := SelectHours(forecast.Forecast.ForecastDay, s.now(), loc)

	hourly := make([]HourlyForecast, 0, len(hours))
	for _, h := range hours {
		hourly = append(hourly, HourlyForecast{
			Time:        FormatHourLabel(h.Time, loc),
			Temperature: h.TempC,
			IconURL:     h.Condition.Icon,
		})
	}

	daily := make([]DailyForecast, 0, len(forecast.Forecast.ForecastDay))
	for _, d := range forecast.Forecast.ForecastDay {
		daily = append(daily, DailyForecast{
			Date:    d.Date,
			MinTemp: d.Day.MinTempC,
			MaxTemp: d.Day.MaxTempC,
			IconURL: d.Day.Condition.Icon,
		})
	}

	snapshot := WeatherSnapshot{
		City:          current.Location.Name,
		CurrentTemp:   current.Current.TempC,
		ConditionIcon: current.Current.Condition.Icon,
		Hourly:        hourly,
		Daily:         daily,
	}

	s.store.SaveSnapshot(snapshot)
	s.log.Info().Str("city", snapshot.City).Int("hourly", len(hourly)).Int("daily", len(daily)).Msg("weather refreshed")
	p.PresentWeather(snapshot)
}

// Latest returns the last successfully assembled snapshot.
func (s *Service) Latest() (WeatherSnapshot, error) {
	return s.store.Latest()
}

// resolveTimezone validates the tz_id of a current-weather response.
// time.LoadLocation treats "" as UTC, which is not a valid upstream value.
func (s *Service) resolveTimezone(tzID string) (*time.Location, error) {
	if tzID == "" {
		return nil, ErrInvalidTimezone
	}
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}
