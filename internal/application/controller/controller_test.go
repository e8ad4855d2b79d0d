package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"city-weather/internal/application/shell"
	"city-weather/internal/application/view"
	"city-weather/internal/domain/entity"
	"city-weather/internal/domain/gateway/api"
	"city-weather/internal/domain/model"
	"city-weather/internal/domain/usecase/weather"
)

type MockWeatherUseCase struct {
	mock.Mock
}

func (m *MockWeatherUseCase) FetchCityWeather(ctx context.Context, city *entity.City) error {
	args := m.Called(ctx, city)
	return args.Error(0)
}

func cityQuery(query string) interface{} {
	return mock.MatchedBy(func(city *entity.City) bool { return city.Query() == query })
}

func attachWeather(args mock.Arguments) {
	city := args.Get(1).(*entity.City)
	city.Weather = &entity.Weather{
		StatusCode:  200,
		Conditions:  []entity.Condition{{Main: "Clear", Description: "cielo claro"}},
		Temperature: 285.4,
		Humidity:    61,
		Sunrise:     1700000000000,
	}
}

type testServer struct {
	echo      *echo.Echo
	navigator *shell.Navigator
	useCase   *MockWeatherUseCase
}

func newTestServer(t *testing.T, surfaceErrors bool) *testServer {
	t.Helper()

	renderer, err := view.NewRenderer("")
	require.NoError(t, err)

	useCase := &MockWeatherUseCase{}
	navigator := shell.NewNavigator(shell.Options{
		Renderer: renderer,
		Weather:  useCase,
		Location: time.UTC,
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = navigator.Run(ctx) }()
	t.Cleanup(cancel)

	e := echo.New()
	e.Renderer = renderer.Echo()
	group := e.Group("")
	NewScreenController(group, navigator, surfaceErrors).InitScreenRoutes()
	NewCityController(group, navigator, useCase, SunriseFormat{Unit: shell.Milliseconds, Location: time.UTC}).InitCityRoutes()

	return &testServer{echo: e, navigator: navigator, useCase: useCase}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *testServer) postForm(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if htmx {
		req.Header.Set(htmxRequestHeader, "true")
	}
	return s.do(req)
}

func (s *testServer) postJSON(path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.do(req)
}

func (s *testServer) history(t *testing.T) model.HistoryDTO {
	t.Helper()
	rec := s.get("/api/history")
	require.Equal(t, http.StatusOK, rec.Code)
	var history model.HistoryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	return history
}

func (s *testServer) cities(t *testing.T) []model.CityDTO {
	t.Helper()
	rec := s.get("/api/cities")
	require.Equal(t, http.StatusOK, rec.Code)
	var cities []model.CityDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cities))
	return cities
}

func TestShowCities(t *testing.T) {
	server := newTestServer(t, false)

	rec := server.get("/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<ul id="city_list">`)
	assert.Contains(t, rec.Body.String(), "<title>Cities</title>")
	assert.Equal(t, model.HistoryDTO{Entries: []string{""}, Current: shell.TemplateList}, server.history(t))
}

func TestAddCity(t *testing.T) {
	t.Run("htmx request gets the row fragment", func(t *testing.T) {
		server := newTestServer(t, false)

		rec := server.postForm("/cities", url.Values{"name": {"Madrid"}, "country": {"ES"}}, true)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), `<li id="city-`))
		assert.Contains(t, rec.Body.String(), "Madrid (ES)")

		cities := server.cities(t)
		require.Len(t, cities, 1)
		assert.Equal(t, "Madrid", cities[0].Name)
		assert.Equal(t, "ES", cities[0].Country)
		assert.NotEmpty(t, cities[0].ID)
	})

	t.Run("plain form post renders the list without navigating", func(t *testing.T) {
		server := newTestServer(t, false)
		server.get("/")

		rec := server.postForm("/cities", url.Values{"name": {""}, "country": {""}}, false)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `hx-push-url="/weather//"`)
		require.Len(t, server.cities(t), 1, "empty fields are accepted")

		server.get("/")
		assert.Equal(t, []string{""}, server.history(t).Entries, "reloading a mounted list is not a navigation")
	})
}

func TestRemoveCity(t *testing.T) {
	server := newTestServer(t, false)
	server.postForm("/cities", url.Values{"name": {"Madrid"}, "country": {"ES"}}, true)
	server.postForm("/cities", url.Values{"name": {"Lisboa"}, "country": {"PT"}}, true)
	id := server.cities(t)[0].ID

	rec := server.postForm("/cities/"+id+"/remove", url.Values{}, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	cities := server.cities(t)
	require.Len(t, cities, 1)
	assert.Equal(t, "Lisboa", cities[0].Name)

	rec = server.postForm("/cities/"+id+"/remove", url.Values{}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowWeather(t *testing.T) {
	t.Run("renders the fetched weather", func(t *testing.T) {
		server := newTestServer(t, false)
		server.useCase.On("FetchCityWeather", mock.Anything, cityQuery("San Sebastián,ES")).Run(attachWeather).Return(nil)

		rec := server.get("/weather/ES/San%20Sebasti%C3%A1n")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "San Sebastián, ES")
		assert.Contains(t, rec.Body.String(), `<dd id="sunrise">22:13:20 UTC</dd>`)
		assert.Contains(t, rec.Body.String(), "cielo claro")
		assert.Equal(t, shell.TemplateWeather, server.history(t).Current)
		server.useCase.AssertExpectations(t)
	})

	t.Run("failure keeps the previous screen silently", func(t *testing.T) {
		server := newTestServer(t, false)
		server.get("/")
		server.useCase.On("FetchCityWeather", mock.Anything, cityQuery("Nowhere,XX")).
			Return(fmt.Errorf("%w 404 for Nowhere,XX: city not found", weather.ErrUnexpectedStatus))

		rec := server.get("/weather/XX/Nowhere")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<ul id="city_list">`)
		assert.NotContains(t, rec.Body.String(), `class="notice"`)
		assert.Equal(t, []string{"", "weather/XX/Nowhere"}, server.history(t).Entries)
	})

	t.Run("failure is surfaced when enabled", func(t *testing.T) {
		server := newTestServer(t, true)
		server.get("/")
		server.useCase.On("FetchCityWeather", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		rec := server.get("/weather/ES/Madrid")

		assert.Contains(t, rec.Body.String(), `<p class="notice" role="alert">connection refused</p>`)
		assert.Contains(t, rec.Body.String(), `<ul id="city_list">`)
	})
}

func TestRowWeatherAndBack(t *testing.T) {
	server := newTestServer(t, false)
	server.get("/")
	server.postForm("/cities", url.Values{"name": {"Madrid"}, "country": {"ES"}}, true)
	id := server.cities(t)[0].ID
	server.useCase.On("FetchCityWeather", mock.Anything, cityQuery("Madrid,ES")).Run(attachWeather).Return(nil)

	rec := server.postForm("/cities/"+id+"/weather", url.Values{}, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Weather - Madrid</title>")

	rec = server.postForm("/back", url.Values{}, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<ul id="city_list">`)

	server.get("/")
	history := server.history(t)
	assert.Equal(t, []string{"", "weather/ES/Madrid", ""}, history.Entries)
	assert.Equal(t, shell.TemplateList, history.Current)

	rec = server.get("/api/history?limit=2")
	assert.JSONEq(t, `{"entries":["weather/ES/Madrid",""],"current":"list"}`, rec.Body.String())
	assert.Len(t, server.cities(t), 1, "back keeps the registry")

	rec = server.postForm("/cities/unknown/weather", url.Values{}, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBrowserFlowRecordsOneEntryPerNavigation(t *testing.T) {
	server := newTestServer(t, false)
	server.useCase.On("FetchCityWeather", mock.Anything, cityQuery("Madrid,ES")).Run(attachWeather).Return(nil)

	server.get("/")
	server.postForm("/cities", url.Values{"name": {"Madrid"}, "country": {"ES"}}, false)
	server.get("/")
	server.get("/weather/ES/Madrid")
	server.postForm("/back", url.Values{}, false)
	server.get("/")
	server.postForm("/back", url.Values{}, false)

	assert.Equal(t, []string{"", "weather/ES/Madrid", ""}, server.history(t).Entries)
}

func TestAddCityKeepsPendingFetch(t *testing.T) {
	server := newTestServer(t, false)
	release := make(chan struct{})
	server.useCase.On("FetchCityWeather", mock.Anything, cityQuery("Madrid,ES")).
		Run(func(args mock.Arguments) {
			<-release
			attachWeather(args)
		}).
		Return(nil)

	server.get("/")
	var pending *shell.Transition
	require.NoError(t, server.navigator.Dispatch(context.Background(), func() error {
		pending = server.navigator.Navigate(shell.WeatherPath("ES", "Madrid"))
		return nil
	}))

	rec := server.postForm("/cities", url.Values{"name": {"Lisboa"}, "country": {"PT"}}, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	close(release)
	assert.NoError(t, pending.Wait(context.Background()))
	assert.Equal(t, shell.TemplateWeather, server.history(t).Current)
}

func TestCityAPI(t *testing.T) {
	server := newTestServer(t, false)

	rec := server.postJSON("/api/cities", `{"name":"Madrid","country":"ES"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.CityDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Madrid", created.Name)

	rec = server.postJSON("/api/cities", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(httptest.NewRequest(http.MethodDelete, "/api/cities/"+created.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, server.cities(t))

	rec = server.do(httptest.NewRequest(http.MethodDelete, "/api/cities/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFindCityWeather(t *testing.T) {
	t.Run("success does not navigate", func(t *testing.T) {
		server := newTestServer(t, false)
		server.useCase.On("FetchCityWeather", mock.Anything, cityQuery("Madrid,ES")).Run(attachWeather).Return(nil)

		rec := server.get("/api/weather/ES/Madrid")

		require.Equal(t, http.StatusOK, rec.Code)
		var dto model.WeatherDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, model.WeatherDTO{
			Name:        "Madrid",
			Country:     "ES",
			StatusCode:  200,
			Description: "cielo claro",
			Temperature: 285.4,
			Humidity:    61,
			Sunrise:     "22:13:20 UTC",
		}, dto)
		assert.Empty(t, server.history(t).Entries)
	})

	t.Run("path segments are decoded once", func(t *testing.T) {
		tests := []struct {
			name  string
			path  string
			query string
		}{
			{"percent literal", "/api/weather/ES/100%2525", "100%25,ES"},
			{"escaped slash", "/api/weather/ES/A%2FB", "A/B,ES"},
			{"plain unicode", "/api/weather/ES/San%20Sebasti%C3%A1n", "San Sebastián,ES"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := newTestServer(t, false)
				server.useCase.On("FetchCityWeather", mock.Anything, cityQuery(tt.query)).Run(attachWeather).Return(nil)

				rec := server.get(tt.path)

				assert.Equal(t, http.StatusOK, rec.Code)
				server.useCase.AssertExpectations(t)
			})
		}
	})

	t.Run("errors map to status codes", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
		}{
			{"rate limited", fmt.Errorf("fetch weather: %w", api.ErrRateLimited), http.StatusTooManyRequests},
			{"unexpected status", weather.ErrUnexpectedStatus, http.StatusBadGateway},
			{"provider error", &api.ProviderError{HTTPStatus: http.StatusUnauthorized}, http.StatusBadGateway},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := newTestServer(t, false)
				server.useCase.On("FetchCityWeather", mock.Anything, mock.Anything).Return(tt.err)

				rec := server.get("/api/weather/ES/Madrid")

				assert.Equal(t, tt.status, rec.Code)
				assert.Contains(t, rec.Body.String(), `"error"`)
			})
		}
	})
}
