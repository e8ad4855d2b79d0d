package shell

import (
	"html/template"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"city-weather/internal/domain/entity"
	"city-weather/internal/domain/model"
	"city-weather/pkg/log"
	"city-weather/pkg/msg"
)

// ListScreen renders the registry and owns its add/remove interactions.
type ListScreen struct {
	registry *entity.Registry
	renderer Renderer
	nav      Navigation
	rows     []*CityRow
	newID    func() string
}

func NewListScreen(registry *entity.Registry, renderer Renderer, nav Navigation) *ListScreen {
	return &ListScreen{
		registry: registry,
		renderer: renderer,
		nav:      nav,
		newID:    uuid.NewString,
	}
}

func (s *ListScreen) Name() string {
	return TemplateList
}

func (s *ListScreen) Registry() *entity.Registry {
	return s.registry
}

// Rows returns the rendered rows in registry order.
func (s *ListScreen) Rows() []*CityRow {
	rows := make([]*CityRow, len(s.rows))
	copy(rows, s.rows)
	return rows
}

// Row finds a rendered row by its handle.
func (s *ListScreen) Row(id string) *CityRow {
	for _, row := range s.rows {
		if row.ID() == id {
			return row
		}
	}
	return nil
}

// Render drops every rendered row and builds one per registry entry.
func (s *ListScreen) Render() error {
	rows := make([]*CityRow, 0, s.registry.Len())
	var renderErr error

	s.registry.ForEach(func(_ int, city *entity.City) {
		if renderErr != nil {
			return
		}
		row := s.createRow(city)
		if err := row.Render(); err != nil {
			renderErr = err
			return
		}
		rows = append(rows, row)
	})
	if renderErr != nil {
		return renderErr
	}

	s.rows = rows
	return nil
}

// AddCity stores a city built from the form and appends its row. No field is
// validated.
func (s *ListScreen) AddCity(form model.CreateCityDTO) (*CityRow, error) {
	city := entity.NewCity(form.Name, form.Country)
	city.ID = s.newID()

	row := s.createRow(city)
	if err := row.Render(); err != nil {
		return nil, err
	}

	s.registry.Add(city)
	s.rows = append(s.rows, row)

	log.Info(msg.GetMessage("shell.city-added", city.Name, city.Country),
		zap.String("city_id", city.ID))
	return row, nil
}

// Markup wraps the already rendered rows in the list template.
func (s *ListScreen) Markup() (template.HTML, error) {
	items := make([]template.HTML, 0, len(s.rows))
	for _, row := range s.rows {
		items = append(items, row.Markup())
	}
	return s.renderer.Render(TemplateList, map[string]any{
		"Rows":  items,
		"Count": len(items),
	})
}

func (s *ListScreen) createRow(city *entity.City) *CityRow {
	return newCityRow(city, s.renderer, s.removeRow, s.nav.Navigate)
}

func (s *ListScreen) removeRow(row *CityRow) {
	for i, r := range s.rows {
		if r == row {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			break
		}
	}

	if s.registry.Remove(row.City()) {
		log.Info(msg.GetMessage("shell.city-removed", row.City().Name, row.City().Country),
			zap.String("city_id", row.ID()))
	}
}
