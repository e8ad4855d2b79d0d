package shell

import (
	"html/template"
	"net/url"
)

// Template slots every Renderer must provide.
const (
	TemplateList    = "list"
	TemplateItem    = "item"
	TemplateWeather = "weather"
)

const (
	// RootPath shows the city list.
	RootPath = ""
	// WeatherPattern shows the weather of one city.
	WeatherPattern = "weather/:country/:city"
)

// Renderer turns a named template and a plain attribute map into markup.
type Renderer interface {
	Render(name string, attrs map[string]any) (template.HTML, error)
}

// Screen is a renderable unit that can be mounted as the current content.
type Screen interface {
	Name() string
	Markup() (template.HTML, error)
}

// Navigation is what screens use to request a route change.
type Navigation interface {
	Navigate(path string) *Transition
}

// WeatherPath builds the weather route for a city, escaping each segment.
func WeatherPath(country string, name string) string {
	return "weather/" + url.PathEscape(country) + "/" + url.PathEscape(name)
}
