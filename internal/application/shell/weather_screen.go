package shell

import (
	"html/template"
	"time"

	"city-weather/internal/domain/entity"
)

// SunriseUnit is the unit of the provider sunrise epoch value.
type SunriseUnit string

const (
	Milliseconds SunriseUnit = "ms"
	Seconds      SunriseUnit = "s"
)

// SunriseLayout is the time-of-day layout shown on the weather screen.
const SunriseLayout = "15:04:05 MST"

// FormatSunrise converts the provider epoch value to a local time of day.
func FormatSunrise(epoch int64, unit SunriseUnit, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	var t time.Time
	if unit == Seconds {
		t = time.Unix(epoch, 0)
	} else {
		t = time.UnixMilli(epoch)
	}
	return t.In(loc).Format(SunriseLayout)
}

// WeatherScreen shows the fetched weather of one transient city.
type WeatherScreen struct {
	city     *entity.City
	renderer Renderer
	nav      Navigation
	location *time.Location
	unit     SunriseUnit
	markup   template.HTML
}

func NewWeatherScreen(city *entity.City, renderer Renderer, nav Navigation, location *time.Location, unit SunriseUnit) *WeatherScreen {
	return &WeatherScreen{
		city:     city,
		renderer: renderer,
		nav:      nav,
		location: location,
		unit:     unit,
	}
}

func (s *WeatherScreen) Name() string {
	return TemplateWeather
}

func (s *WeatherScreen) City() *entity.City {
	return s.city
}

// Attributes is the template input. Formatting happens here so the markup stays logic free.
func (s *WeatherScreen) Attributes() map[string]any {
	attrs := map[string]any{
		"Name":    s.city.Name,
		"Country": s.city.Country,
	}

	w := s.city.Weather
	if w == nil {
		return attrs
	}
	attrs["StatusCode"] = w.StatusCode
	attrs["Description"] = w.Summary()
	attrs["Conditions"] = w.Conditions
	attrs["Temperature"] = w.Temperature
	attrs["FeelsLike"] = w.FeelsLike
	attrs["Humidity"] = w.Humidity
	attrs["Pressure"] = w.Pressure
	attrs["WindSpeed"] = w.WindSpeed
	attrs["Sunrise"] = FormatSunrise(w.Sunrise, s.unit, s.location)
	return attrs
}

func (s *WeatherScreen) Render() error {
	markup, err := s.renderer.Render(TemplateWeather, s.Attributes())
	if err != nil {
		return err
	}
	s.markup = markup
	return nil
}

func (s *WeatherScreen) Markup() (template.HTML, error) {
	return s.markup, nil
}

// Back returns to the list without touching the registry.
func (s *WeatherScreen) Back() *Transition {
	return s.nav.Navigate(RootPath)
}
