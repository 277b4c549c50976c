package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndmitriev/weathercast/internal/weather"
)

func newTestProvider(t *testing.T, baseURL string, timeout time.Duration) *WeatherAPIProvider {
	t.Helper()
	return NewWeatherAPIProvider(&http.Client{Timeout: timeout}, "test-key", baseURL, zerolog.Nop())
}

func TestFetchCurrentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("expected key query parameter, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "55.755800,37.617600" {
			t.Errorf("unexpected q parameter %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"location": {"name": "Moscow", "lat": 55.7558, "lon": 37.6176, "tz_id": "Europe/Moscow"},
			"current": {"temp_c": 11.5, "condition": {"text": "Sunny", "icon": "//cdn.weatherapi.com/weather/64x64/day/113.png"}}
		}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, 5*time.Second)

	got, err := p.FetchCurrent(context.Background(), 55.7558, 37.6176)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location.Name != "Moscow" {
		t.Errorf("expected city Moscow, got %q", got.Location.Name)
	}
	if got.Location.TzID != "Europe/Moscow" {
		t.Errorf("expected tz_id Europe/Moscow, got %q", got.Location.TzID)
	}
	if got.Current.TempC != 11.5 {
		t.Errorf("expected temp 11.5, got %f", got.Current.TempC)
	}
}

func TestFetchForecastRequestsSevenDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("days"); got != "7" {
			t.Errorf("expected days=7, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"forecast": {"forecastday": [
				{"date": "2023-10-05",
				 "day": {"mintemp_c": 5, "maxtemp_c": 12, "condition": {"text": "Cloudy", "icon": "//cdn/i.png"}},
				 "hour": [{"time": "2023-10-05 00:00", "temp_c": 6, "condition": {"text": "Cloudy", "icon": "//cdn/i.png"}}]}
			]}
		}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, 5*time.Second)

	got, err := p.FetchForecast(context.Background(), 55.7558, 37.6176)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Forecast.ForecastDay) != 1 {
		t.Fatalf("expected 1 forecast day, got %d", len(got.Forecast.ForecastDay))
	}
	if got.Forecast.ForecastDay[0].Day.MaxTempC != 12 {
		t.Errorf("expected max temp 12, got %f", got.Forecast.ForecastDay[0].Day.MaxTempC)
	}
}

// TestFetchDecodesErrorEnvelope verifies that a non-2xx response carrying
// the WeatherAPI error envelope surfaces the upstream message verbatim.
func TestFetchDecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": 1006, "message": "No matching location found."}}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, 5*time.Second)

	_, err := p.FetchCurrent(context.Background(), 0, 0)
	var apiErr *weather.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *weather.APIError, got %v", err)
	}
	if apiErr.Kind != weather.ErrorAPI {
		t.Fatalf("expected ErrorAPI kind, got %d", apiErr.Kind)
	}
	if apiErr.Error() != "No matching location found." {
		t.Errorf("expected upstream message, got %q", apiErr.Error())
	}
}

// TestFetchHTTPErrorWithoutEnvelope falls back to a plain status error when
// the non-2xx body is not the error envelope.
func TestFetchHTTPErrorWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, 5*time.Second)

	_, err := p.FetchCurrent(context.Background(), 0, 0)
	var apiErr *weather.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *weather.APIError, got %v", err)
	}
	if apiErr.Kind != weather.ErrorHTTP || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected HTTP 500 classification, got kind=%d status=%d", apiErr.Kind, apiErr.Status)
	}
	if apiErr.Error() != "Ошибка сервера: 500" {
		t.Errorf("unexpected message %q", apiErr.Error())
	}
}

func TestFetchEmptyBodyIsInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, 5*time.Second)

	_, err := p.FetchCurrent(context.Background(), 0, 0)
	var apiErr *weather.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != weather.ErrorInvalidResponse {
		t.Fatalf("expected invalid response classification, got %v", err)
	}
}

func TestFetchUndecodableBodyIsDecodingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, 5*time.Second)

	_, err := p.FetchCurrent(context.Background(), 0, 0)
	var apiErr *weather.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != weather.ErrorDecoding {
		t.Fatalf("expected decoding classification, got %v", err)
	}
}

// TestFetchTimeoutIsClassified maps a client timeout to the localized
// timeout message, not a distinct error state.
func TestFetchTimeoutIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, 20*time.Millisecond)

	_, err := p.FetchCurrent(context.Background(), 0, 0)
	var apiErr *weather.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *weather.APIError, got %v", err)
	}
	if apiErr.Error() != "Таймаут соединения" {
		t.Errorf("expected timeout message, got %q", apiErr.Error())
	}
}

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline exceeded", context.DeadlineExceeded, "Таймаут соединения"},
		{"unknown host", errors.New(`Get "https://x": dial tcp: lookup x: no such host`), "Не удалось подключиться к серверу"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), "Не удалось подключиться к серверу"},
		{"network unreachable", errors.New("dial tcp: connect: network is unreachable"), "Нет интернет соединения"},
		{"anything else", errors.New("boom"), "Неизвестная ошибка"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTransportError(tt.err).Error(); got != tt.want {
				t.Errorf("classifyTransportError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
