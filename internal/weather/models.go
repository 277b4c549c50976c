package weather

// Coordinate is a resolved geographic position.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// CurrentWeatherResponse mirrors the WeatherAPI /current.json payload,
// reduced to the fields the display needs.
type CurrentWeatherResponse struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
}

// Location carries the place metadata of a current-weather response.
// TzID is an IANA identifier and must resolve before any hourly math runs.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	TzID string  `json:"tz_id"`
}

type Current struct {
	TempC     float64   `json:"temp_c"`
	Condition Condition `json:"condition"`
}

type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// ForecastWeatherResponse mirrors the WeatherAPI /forecast.json payload.
type ForecastWeatherResponse struct {
	Forecast Forecast `json:"forecast"`
}

type Forecast struct {
	ForecastDay []ForecastDay `json:"forecastday"`
}

// ForecastDay is one calendar day of forecast data. Date is the API's
// "2006-01-02" wall-clock date in the location's own timezone.
type ForecastDay struct {
	Date string `json:"date"`
	Day  Day    `json:"day"`
	Hour []Hour `json:"hour"`
}

type Day struct {
	MinTempC  float64   `json:"mintemp_c"`
	MaxTempC  float64   `json:"maxtemp_c"`
	Condition Condition `json:"condition"`
}

// Hour is a single hourly forecast entry. Time is a "2006-01-02 15:04"
// wall-clock string in the location's timezone.
type Hour struct {
	Time      string    `json:"time"`
	TempC     float64   `json:"temp_c"`
	Condition Condition `json:"condition"`
}

// APIErrorResponse is the error envelope WeatherAPI returns on non-2xx.
type APIErrorResponse struct {
	Error APIErrorData `json:"error"`
}

type APIErrorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HourlyForecast is one selected, display-ready hourly item.
type HourlyForecast struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	IconURL     string  `json:"iconUrl"`
}

// DailyForecast is one display-ready daily item, in original forecast order.
type DailyForecast struct {
	Date    string  `json:"date"`
	MinTemp float64 `json:"minTemp"`
	MaxTemp float64 `json:"maxTemp"`
	IconURL string  `json:"iconUrl"`
}

// WeatherSnapshot is the assembled result of one successful refresh.
// Hourly items are non-decreasing in represented time, start at or after
// the current local hour and span at most today's tail plus tomorrow.
type WeatherSnapshot struct {
	City          string           `json:"city"`
	CurrentTemp   float64          `json:"currentTemp"`
	ConditionIcon string           `json:"conditionIcon"`
	Hourly        []HourlyForecast `json:"hourly"`
	Daily         []DailyForecast  `json:"daily"`
}
