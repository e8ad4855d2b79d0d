package controller

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"city-weather/internal/application/shell"
	"city-weather/internal/application/view"
	"city-weather/internal/domain/model"
)

const htmxRequestHeader = "HX-Request"

var errCityNotFound = errors.New("city not found")

// ScreenController serves the HTML shell. Every handler hands its work to the
// navigator loop and renders whatever screen ends up mounted.
type ScreenController struct {
	api           *echo.Group
	navigator     *shell.Navigator
	surfaceErrors bool
}

func NewScreenController(api *echo.Group, navigator *shell.Navigator, surfaceErrors bool) *ScreenController {
	return &ScreenController{api: api, navigator: navigator, surfaceErrors: surfaceErrors}
}

// InitScreenRoutes initializes the HTML routes
func (controller *ScreenController) InitScreenRoutes() {
	controller.api.GET("/", controller.ShowCities)
	controller.api.POST("/cities", controller.AddCity)
	controller.api.POST("/cities/:id/remove", controller.RemoveCity)
	controller.api.POST("/cities/:id/weather", controller.ShowCityWeather)
	controller.api.GET("/weather/:country/:city", controller.ShowWeather)
	controller.api.POST("/back", controller.Back)
}

// ShowCities navigates to the list unless it is already mounted, so a page
// reload is not recorded as a second visit.
func (controller *ScreenController) ShowCities(c echo.Context) error {
	return controller.navigate(c, func() *shell.Transition {
		if _, mounted := controller.navigator.Current().(*shell.ListScreen); mounted {
			return shell.Settled(shell.RootPath)
		}
		return controller.navigator.Navigate(shell.RootPath)
	})
}

func (controller *ScreenController) AddCity(c echo.Context) error {
	var form model.CreateCityDTO
	if err := c.Bind(&form); err != nil {
		return c.String(http.StatusBadRequest, "invalid form")
	}

	var markup template.HTML
	err := controller.navigator.Dispatch(c.Request().Context(), func() error {
		row, err := controller.navigator.ListScreen().AddCity(form)
		if err != nil {
			return err
		}
		markup = row.Markup()
		return nil
	})
	if err != nil {
		return err
	}

	if isHTMX(c) {
		return c.HTML(http.StatusOK, string(markup))
	}
	return controller.renderCurrent(c, "")
}

func (controller *ScreenController) RemoveCity(c echo.Context) error {
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
		return c.String(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}

	if isHTMX(c) {
		return c.HTML(http.StatusOK, "")
	}
	return controller.renderCurrent(c, "")
}

func (controller *ScreenController) ShowCityWeather(c echo.Context) error {
	id := c.Param("id")
	var found bool
	err := controller.navigate(c, func() *shell.Transition {
		row := controller.navigator.ListScreen().Row(id)
		if row == nil {
			return nil
		}
		found = true
		return row.ShowWeather()
	})
	if err == nil && !found {
		return c.String(http.StatusNotFound, errCityNotFound.Error())
	}
	return err
}

func (controller *ScreenController) ShowWeather(c echo.Context) error {
	country := pathParam(c, "country")
	city := pathParam(c, "city")
	return controller.navigate(c, func() *shell.Transition {
		return controller.navigator.Navigate(shell.WeatherPath(country, city))
	})
}

// Back leaves the weather screen. Anywhere else it only re-renders.
func (controller *ScreenController) Back(c echo.Context) error {
	return controller.navigate(c, func() *shell.Transition {
		if screen, ok := controller.navigator.Current().(*shell.WeatherScreen); ok {
			return screen.Back()
		}
		return shell.Settled(shell.RootPath)
	})
}

// navigate starts a transition on the loop, waits for it outside the loop and
// renders the mounted screen. A nil transition renders nothing.
func (controller *ScreenController) navigate(c echo.Context, start func() *shell.Transition) error {
	ctx := c.Request().Context()

	var transition *shell.Transition
	if err := controller.navigator.Dispatch(ctx, func() error {
		transition = start()
		return nil
	}); err != nil {
		return err
	}
	if transition == nil {
		return nil
	}

	var notice string
	if err := transition.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		if controller.surfaceErrors && !errors.Is(err, shell.ErrStale) {
			notice = err.Error()
		}
	}
	return controller.renderCurrent(c, notice)
}

func (controller *ScreenController) renderCurrent(c echo.Context, notice string) error {
	page := view.Page{Notice: notice}
	err := controller.navigator.Dispatch(c.Request().Context(), func() error {
		screen := controller.navigator.Current()
		if screen == nil {
			return nil
		}
		page.Title = pageTitle(screen)
		if list, ok := screen.(*shell.ListScreen); ok {
			// rows may have changed since the list was mounted
			if err := list.Render(); err != nil {
				return err
			}
		}
		markup, err := screen.Markup()
		page.Content = markup
		return err
	})
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.LayoutTemplate, page)
}

func pageTitle(screen shell.Screen) string {
	if weather, ok := screen.(*shell.WeatherScreen); ok {
		return "Weather - " + weather.City().Name
	}
	return "Cities"
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get(htmxRequestHeader) == "true"
}

// pathParam returns a decoded route segment. echo routes on the raw path, and
// leaves segments escaped, only when the request carried one.
func pathParam(c echo.Context, name string) string {
	value := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return value
	}
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}
