package weather

import "context"

// Provider abstracts the upstream weather API. Both calls are bounded by the
// provider's own fixed timeout; errors are classified as *APIError.
type Provider interface {
	FetchCurrent(ctx context.Context, lat, lon float64) (CurrentWeatherResponse, error)
	FetchForecast(ctx context.Context, lat, lon float64) (ForecastWeatherResponse, error)
}

// LocationService abstracts the platform location capability.
type LocationService interface {
	// CurrentLocation resolves the device position. It may suspend while a
	// permission flow runs; ok is false when nothing could be resolved.
	CurrentLocation(ctx context.Context) (coord Coordinate, ok bool)

	// SettingsAlertNeeded reports whether location access is denied or
	// restricted in a way only the user can fix.
	SettingsAlertNeeded() bool
}

// Presenter receives the outcome of one refresh. Exactly one of
// PresentWeather, PresentError or PresentLocationDenied fires per refresh,
// and SetLoading(false) always follows the outcome call.
type Presenter interface {
	PresentWeather(snapshot WeatherSnapshot)
	PresentError(message string)
	PresentLocationDenied()
	SetLoading(loading bool)
}

// Store persists the last successfully assembled snapshot.
type Store interface {
	SaveSnapshot(snapshot WeatherSnapshot)
	Latest() (WeatherSnapshot, error)
}
