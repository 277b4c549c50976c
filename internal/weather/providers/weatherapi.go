package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/ndmitriev/weathercast/internal/weather"
)

const forecastDays = 7

// WeatherAPIProvider implements weather.Provider against WeatherAPI.com.
// Each call is a single attempt bounded by the HTTP client's timeout; a
// circuit breaker keeps a flapping upstream from being hammered.
type WeatherAPIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewWeatherAPIProvider(client *http.Client, apiKey, baseURL string, log zerolog.Logger) *WeatherAPIProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &WeatherAPIProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		circuit: cb,
		log:     log.With().Str("component", "weatherapi").Logger(),
	}
}

func (p *WeatherAPIProvider) FetchCurrent(ctx context.Context, lat, lon float64) (weather.CurrentWeatherResponse, error) {
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", lat, lon))

	var out weather.CurrentWeatherResponse
	if err := p.getJSON(ctx, fmt.Sprintf("%s/current.json?%s", p.baseURL, values.Encode()), &out); err != nil {
		return weather.CurrentWeatherResponse{}, err
	}
	return out, nil
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, lat, lon float64) (weather.ForecastWeatherResponse, error) {
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", lat, lon))
	values.Set("days", fmt.Sprintf("%d", forecastDays))

	var out weather.ForecastWeatherResponse
	if err := p.getJSON(ctx, fmt.Sprintf("%s/forecast.json?%s", p.baseURL, values.Encode()), &out); err != nil {
		return weather.ForecastWeatherResponse{}, err
	}
	return out, nil
}

// getJSON performs one GET through the circuit breaker and decodes a 2xx
// body into out. Non-2xx bodies are probed for the WeatherAPI error
// envelope before falling back to a plain HTTP status error.
func (p *WeatherAPIProvider) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &weather.APIError{Kind: weather.ErrorInvalidURL}
	}

	result, err := p.circuit.Execute(func() (interface{}, error) {
		resp, doErr := p.client.Do(req)
		if doErr != nil {
			return nil, classifyTransportError(doErr)
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, &weather.APIError{Kind: weather.ErrorInvalidResponse}
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			var envelope weather.APIErrorResponse
			if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
				return nil, &weather.APIError{Kind: weather.ErrorAPI, Message: envelope.Error.Message}
			}
			return nil, &weather.APIError{Kind: weather.ErrorHTTP, Status: resp.StatusCode}
		}

		if len(body) == 0 {
			return nil, &weather.APIError{Kind: weather.ErrorInvalidResponse}
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			p.log.Warn().Msg("circuit breaker open, skipping upstream call")
			return &weather.APIError{Kind: weather.ErrorAPI, Message: "Сервис временно недоступен"}
		}
		return err
	}

	body, ok := result.([]byte)
	if !ok {
		return &weather.APIError{Kind: weather.ErrorUnknown}
	}
	if err := json.Unmarshal(body, out); err != nil {
		p.log.Error().Err(err).Msg("failed to decode upstream response")
		return &weather.APIError{Kind: weather.ErrorDecoding}
	}
	return nil
}

// classifyTransportError maps transport-level failures onto the user-facing
// taxonomy: timeout, no connectivity and unreachable host become API errors
// with localized text, anything else stays unknown.
func classifyTransportError(err error) *weather.APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &weather.APIError{Kind: weather.ErrorAPI, Message: "Таймаут соединения"}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &weather.APIError{Kind: weather.ErrorAPI, Message: "Таймаут соединения"}
	}

	msg := err.Error()
	switch {
	case hasAny(msg, "no such host", "connection refused", "cannot connect"):
		return &weather.APIError{Kind: weather.ErrorAPI, Message: "Не удалось подключиться к серверу"}
	case hasAny(msg, "network is unreachable", "network is down", "connection reset"):
		return &weather.APIError{Kind: weather.ErrorAPI, Message: "Нет интернет соединения"}
	default:
		return &weather.APIError{Kind: weather.ErrorUnknown}
	}
}

// hasAny reports whether s contains any of the substrings.
func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
