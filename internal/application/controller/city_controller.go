package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"city-weather/internal/application/shell"
	"city-weather/internal/domain/entity"
	"city-weather/internal/domain/gateway/api"
	"city-weather/internal/domain/model"
	"city-weather/internal/domain/usecase/weather"
	"city-weather/pkg/util/numberutils"
)

// SunriseFormat tells the JSON weather view how to show the sunrise.
type SunriseFormat struct {
	Unit     shell.SunriseUnit
	Location *time.Location
}

type CityController struct {
	api       *echo.Group
	navigator *shell.Navigator
	useCase   weather.UseCase
	sunrise   SunriseFormat
}

func NewCityController(api *echo.Group, navigator *shell.Navigator, useCase weather.UseCase, sunrise SunriseFormat) *CityController {
	return &CityController{api: api, navigator: navigator, useCase: useCase, sunrise: sunrise}
}

// InitCityRoutes initializes the JSON city routes
func (controller *CityController) InitCityRoutes() {
	controller.api.GET("/api/cities", controller.FindAllCities)
	controller.api.POST("/api/cities", controller.CreateCity)
	controller.api.DELETE("/api/cities/:id", controller.RemoveCity)
	controller.api.GET("/api/weather/:country/:city", controller.FindCityWeather)
	controller.api.GET("/api/history", controller.FindHistory)
}

// FindAllCities godoc
// @Summary Get all registered cities
// @Description Retrieve the cities of the list screen in insertion order
// @Tags cities
// @Produce json
// @Success 200 {array} model.CityDTO "Registered cities"
// @Failure 503 {object} map[string]string "Navigator stopped"
// @Router /api/cities [get]
func (controller *CityController) FindAllCities(c echo.Context) error {
	var cities []model.CityDTO
	err := controller.navigator.Dispatch(c.Request().Context(), func() error {
		cities = toCityDTOs(controller.navigator.ListScreen().Registry().Cities())
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cities)
}

// CreateCity godoc
// @Summary Add a city
// @Description Add a city to the list. Empty fields are accepted.
// @Tags cities
// @Accept json
// @Produce json
// @Param city body model.CreateCityDTO true "City data"
// @Success 201 {object} model.CityDTO "Created city"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 503 {object} map[string]string "Navigator stopped"
// @Router /api/cities [post]
func (controller *CityController) CreateCity(c echo.Context) error {
	var dto model.CreateCityDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	var created model.CityDTO
	err := controller.navigator.Dispatch(c.Request().Context(), func() error {
		row, err := controller.navigator.ListScreen().AddCity(dto)
		if err != nil {
			return err
		}
		created = toCityDTO(row.City())
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, created)
}

// RemoveCity godoc
// @Summary Remove a city
// @Description Remove a city from the list by its id
// @Tags cities
// @Produce json
// @Param id path string true "City id"
// @Success 204 "City removed"
// @Failure 404 {object} map[string]string "City not found"
// @Router /api/cities/{id} [delete]
func (controller *CityController) RemoveCity(c echo.Context) error {
	id := c.Param("id")
	err := controller.navigator.Dispatch(c.Request().Context(), func() error {
		row := controller.navigator.ListScreen().Row(id)
		if row == nil {
			return errCityNotFound
		}
		row.Remove()
		return nil
	})
	if errors.Is(err, errCityNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "City not found"})
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// FindCityWeather godoc
// @Summary Get the current weather of a city
// @Description Query the provider directly, without navigating or touching the list
// @Tags weather
// @Produce json
// @Param country path string true "Country code"
// @Param city path string true "City name"
// @Success 200 {object} model.WeatherDTO "Current weather"
// @Failure 429 {object} map[string]string "Provider quota exhausted"
// @Failure 502 {object} map[string]string "Provider failure"
// @Router /api/weather/{country}/{city} [get]
func (controller *CityController) FindCityWeather(c echo.Context) error {
	city := entity.NewCity(pathParam(c, "city"), pathParam(c, "country"))

	if err := controller.useCase.FetchCityWeather(c.Request().Context(), city); err != nil {
		return c.JSON(weatherErrorStatus(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, controller.toWeatherDTO(city))
}

// FindHistory godoc
// @Summary Get the navigation history
// @Tags shell
// @Produce json
// @Param limit query int false "Keep only the most recent entries"
// @Success 200 {object} model.HistoryDTO "Navigated paths, oldest first"
// @Failure 503 {object} map[string]string "Navigator stopped"
// @Router /api/history [get]
func (controller *CityController) FindHistory(c echo.Context) error {
	var history model.HistoryDTO
	err := controller.navigator.Dispatch(c.Request().Context(), func() error {
		entries := controller.navigator.History()
		limit := numberutils.Clamp(numberutils.ToIntWithDefault(c.QueryParam("limit"), len(entries)), 0, len(entries))
		history.Entries = entries[len(entries)-limit:]
		if screen := controller.navigator.Current(); screen != nil {
			history.Current = screen.Name()
		}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, history)
}

// weatherErrorStatus maps every provider side failure to 502 except an
// exhausted local quota.
func weatherErrorStatus(err error) int {
	if errors.Is(err, api.ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}

func (controller *CityController) toWeatherDTO(city *entity.City) model.WeatherDTO {
	dto := model.WeatherDTO{Name: city.Name, Country: city.Country}
	if w := city.Weather; w != nil {
		dto.StatusCode = w.StatusCode
		dto.Description = w.Summary()
		dto.Temperature = w.Temperature
		dto.Humidity = w.Humidity
		dto.Sunrise = shell.FormatSunrise(w.Sunrise, controller.sunrise.Unit, controller.sunrise.Location)
	}
	return dto
}

func toCityDTO(city *entity.City) model.CityDTO {
	return model.CityDTO{ID: city.ID, Name: city.Name, Country: city.Country}
}

func toCityDTOs(cities []*entity.City) []model.CityDTO {
	dtos := make([]model.CityDTO, 0, len(cities))
	for _, city := range cities {
		dtos = append(dtos, toCityDTO(city))
	}
	return dtos
}
