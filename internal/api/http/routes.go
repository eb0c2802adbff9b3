package httpapi

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/farm-insight/internal/advisor"
	"github.com/i474232898/farm-insight/internal/geo"
)

var validate = validator.New()

// Advisor is the facade the handlers call. Its methods never fail.
type Advisor interface {
	Weather(ctx context.Context, locator geo.Locator) advisor.WeatherReport
	Market(ctx context.Context, locator geo.Locator) advisor.MarketReport
	ClearCaches()
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service Advisor) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/insight", func(c *fiber.Ctx) error {
		fix, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(service.Weather(c.UserContext(), geo.Static(fix)))
	})

	v1.Get("/market/insight", func(c *fiber.Ctx) error {
		fix, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(service.Market(c.UserContext(), geo.Static(fix)))
	})

	v1.Delete("/cache", func(c *fiber.Ctx) error {
		service.ClearCaches()
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// locationQuery holds the raw lat/lon query parameters.
type locationQuery struct {
	Lat string `validate:"required,latitude"`
	Lon string `validate:"required,longitude"`
}

func parseLocationQuery(c *fiber.Ctx) (geo.Fix, error) {
	q := locationQuery{
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}
	if err := validate.Struct(q); err != nil {
		return geo.Fix{}, err
	}

	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return geo.Fix{}, err
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return geo.Fix{}, err
	}
	return geo.Fix{Latitude: lat, Longitude: lon}, nil
}
