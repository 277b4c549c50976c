package httpapi

import (
	"fmt"
	"time"

	"github.com/ndmitriev/weathercast/internal/weather"
)

// ViewModel is the display-ready rendering of a snapshot: temperatures as
// rounded degree strings, daily rows labeled with their weekday name.
type ViewModel struct {
	City          string       `json:"city"`
	CurrentTemp   string       `json:"currentTemp"`
	ConditionIcon string       `json:"conditionIcon"`
	Hourly        []HourlyItem `json:"hourly"`
	Daily         []DailyItem  `json:"daily"`
}

type HourlyItem struct {
	Time        string `json:"time"`
	Temperature string `json:"temperature"`
	IconURL     string `json:"iconUrl"`
}

type DailyItem struct {
	Day       string `json:"day"`
	TempRange string `json:"tempRange"`
	IconURL   string `json:"iconUrl"`
}

// NewViewModel renders a snapshot for display.
func NewViewModel(snapshot weather.WeatherSnapshot) ViewModel {
	hourly := make([]HourlyItem, 0, len(snapshot.Hourly))
	for _, h := range snapshot.Hourly {
		hourly = append(hourly, HourlyItem{
			Time:        h.Time,
			Temperature: fmt.Sprintf("%d°", int(h.Temperature)),
			IconURL:     h.IconURL,
		})
	}

	daily := make([]DailyItem, 0, len(snapshot.Daily))
	for _, d := range snapshot.Daily {
		day := d.Date
		if t, err := time.Parse("2006-01-02", d.Date); err == nil {
			day = t.Format("Monday")
		}
		daily = append(daily, DailyItem{
			Day:       day,
			TempRange: fmt.Sprintf("%d° / %d°", int(d.MinTemp), int(d.MaxTemp)),
			IconURL:   d.IconURL,
		})
	}

	return ViewModel{
		City:          snapshot.City,
		CurrentTemp:   fmt.Sprintf("%d°", int(snapshot.CurrentTemp)),
		ConditionIcon: snapshot.ConditionIcon,
		Hourly:        hourly,
		Daily:         daily,
	}
}
