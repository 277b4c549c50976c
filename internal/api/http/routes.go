package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ndmitriev/weathercast/internal/imagecache"
	"github.com/ndmitriev/weathercast/internal/store"
	"github.com/ndmitriev/weathercast/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, icons *imagecache.Cache) {
	v1 := app.Group("/api/v1")

	// Runs one full refresh and returns the assembled view, or the single
	// classified message the refresh produced.
	v1.Get("/weather", func(c *fiber.Ctx) error {
		rec := &refreshRecorder{}
		service.Refresh(c.Context(), rec)

		switch {
		case rec.denied:
			return fiber.NewError(fiber.StatusForbidden, "location access denied; fix the location configuration")
		case rec.errMsg != "":
			status := fiber.StatusBadGateway
			if rec.errMsg == weather.ErrInvalidTimezone.Error() {
				status = fiber.StatusUnprocessableEntity
			}
			return fiber.NewError(status, rec.errMsg)
		default:
			return c.JSON(NewViewModel(rec.snapshot))
		}
	})

	// Last successfully assembled view, without triggering a refresh.
	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		snapshot, err := service.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather data")
		}
		return c.JSON(NewViewModel(snapshot))
	})

	// Condition icon bytes through the image cache. Client disconnect
	// cancels only this caller's attachment.
	v1.Get("/icons", func(c *fiber.Ctx) error {
		var q iconQuery
		q.URL = c.Query("url")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "url query parameter is required")
		}

		token, result := icons.Request(q.URL)
		select {
		case res := <-result:
			if res.Err != nil {
				if errors.Is(res.Err, imagecache.ErrInvalidURL) {
					return fiber.NewError(fiber.StatusBadRequest, "invalid icon url")
				}
				return fiber.NewError(fiber.StatusBadGateway, "failed to load icon")
			}
			c.Set(fiber.HeaderContentType, http.DetectContentType(res.Data))
			return c.Send(res.Data)
		case <-c.Context().Done():
			icons.Cancel(token)
			return nil
		}
	})
}

type iconQuery struct {
	URL string `validate:"required"`
}

// refreshRecorder captures the single outcome of one refresh so the handler
// can translate it into a response after Refresh returns.
type refreshRecorder struct {
	snapshot weather.WeatherSnapshot
	errMsg   string
	denied   bool
}

func (r *refreshRecorder) PresentWeather(snapshot weather.WeatherSnapshot) { r.snapshot = snapshot }
func (r *refreshRecorder) PresentError(message string)                     { r.errMsg = message }
func (r *refreshRecorder) PresentLocationDenied()                          { r.denied = true }
func (r *refreshRecorder) SetLoading(bool)                                 {}
