package shell

import (
	"html/template"

	"city-weather/internal/domain/entity"
)

// CityRow is the list entry of one city. It knows nothing about the
// registry: removal and navigation go through the handlers it was built with.
type CityRow struct {
	city     *entity.City
	renderer Renderer
	markup   template.HTML
	removed  bool

	onRemove      func(row *CityRow)
	onShowWeather func(path string) *Transition
}

func newCityRow(city *entity.City, renderer Renderer, onRemove func(*CityRow), onShowWeather func(string) *Transition) *CityRow {
	return &CityRow{
		city:          city,
		renderer:      renderer,
		onRemove:      onRemove,
		onShowWeather: onShowWeather,
	}
}

func (r *CityRow) ID() string {
	return r.city.ID
}

func (r *CityRow) City() *entity.City {
	return r.city
}

func (r *CityRow) Markup() template.HTML {
	return r.markup
}

// Render executes the item template for this row only.
func (r *CityRow) Render() error {
	markup, err := r.renderer.Render(TemplateItem, map[string]any{
		"ID":          r.city.ID,
		"Name":        r.city.Name,
		"Country":     r.city.Country,
		"WeatherPath": WeatherPath(r.city.Country, r.city.Name),
	})
	if err != nil {
		return err
	}
	r.markup = markup
	return nil
}

// Remove detaches the row and asks its owner to drop the city. Calling it
// again is a no-op.
func (r *CityRow) Remove() bool {
	if r.removed {
		return false
	}
	r.removed = true
	r.markup = ""
	if r.onRemove != nil {
		r.onRemove(r)
	}
	return true
}

// ShowWeather requests navigation to this city's weather route.
func (r *CityRow) ShowWeather() *Transition {
	return r.onShowWeather(WeatherPath(r.city.Country, r.city.Name))
}
