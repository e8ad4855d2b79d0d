package shell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"city-weather/internal/domain/entity"
	"city-weather/internal/domain/usecase/weather"
	"city-weather/pkg/log"
	"city-weather/pkg/msg"
)

var (
	// ErrRouteNotFound is reported for paths matching no route.
	ErrRouteNotFound = errors.New("route not found")
	// ErrStale is reported when a newer navigation superseded a pending one.
	ErrStale = errors.New("navigation superseded")
	// ErrLoopStopped is returned once the event loop has exited.
	ErrLoopStopped = errors.New("navigator event loop stopped")
)

const transitionKey = "shell.transition"

// Options configures a Navigator.
type Options struct {
	Renderer Renderer
	Weather  weather.UseCase
	// Location is the display time zone of the weather screen. Nil means time.Local.
	Location    *time.Location
	SunriseUnit SunriseUnit
	// HistoryLimit caps the kept history entries. Zero keeps everything.
	HistoryLimit int
}

// Navigator is the application context of the UI shell. It maps paths to
// screens, keeps the navigation history, owns the long-lived list screen with
// its registry and the currently mounted screen.
//
// All state is confined to the event loop started by Run. Code outside the
// loop goes through Dispatch; screens and handlers already run on it and call
// Navigate directly.
type Navigator struct {
	opts   Options
	router *echo.Echo

	events  chan func()
	stopped chan struct{}
	baseCtx context.Context

	history     []string
	current     Screen
	list        *ListScreen
	generation  uint64
	cancelFetch context.CancelFunc
}

func NewNavigator(opts Options) *Navigator {
	if opts.SunriseUnit == "" {
		opts.SunriseUnit = Milliseconds
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	n := &Navigator{
		opts:    opts,
		events:  make(chan func(), 16),
		stopped: make(chan struct{}),
		baseCtx: context.Background(),
	}
	n.router = n.routes()
	return n
}

// routes builds the path-pattern table. echo is used only as a matcher here.
func (n *Navigator) routes() *echo.Echo {
	e := echo.New()
	e.GET("/"+RootPath, func(c echo.Context) error {
		c.Set(transitionKey, n.showCities())
		return nil
	})
	e.GET("/"+WeatherPattern, func(c echo.Context) error {
		country, err := url.PathUnescape(c.Param("country"))
		if err != nil {
			return err
		}
		city, err := url.PathUnescape(c.Param("city"))
		if err != nil {
			return err
		}
		c.Set(transitionKey, n.showWeatherOfCity(country, city))
		return nil
	})
	return e
}

// Run processes events until ctx ends. It must be called once.
func (n *Navigator) Run(ctx context.Context) error {
	n.baseCtx = ctx
	defer close(n.stopped)
	defer n.supersede()

	for {
		select {
		case <-ctx.Done():
			log.Info(msg.GetMessage("shell.loop-stopped"))
			return ctx.Err()
		case fn := <-n.events:
			fn()
		}
	}
}

// Dispatch runs fn on the event loop and waits for it.
func (n *Navigator) Dispatch(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	event := func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("shell event panicked: %v", r)
			}
		}()
		result <- fn()
	}

	select {
	case n.events <- event:
	case <-ctx.Done():
		return ctx.Err()
	case <-n.stopped:
		return ErrLoopStopped
	}

	select {
	case err := <-result:
		return err
	case <-n.stopped:
		return ErrLoopStopped
	}
}

// Ping checks the loop still runs events.
func (n *Navigator) Ping(ctx context.Context) error {
	return n.Dispatch(ctx, func() error { return nil })
}

// post queues fn from a background goroutine.
func (n *Navigator) post(fn func()) bool {
	select {
	case n.events <- fn:
		return true
	case <-n.stopped:
		return false
	}
}

// Navigate pushes a history entry for path and runs its handler. Must run on the loop.
func (n *Navigator) Navigate(path string) *Transition {
	path = strings.Trim(path, "/")
	n.pushHistory(path)
	log.Info(msg.GetMessage("shell.navigate", path), zap.String("path", path))

	c := n.router.NewContext(nil, nil)
	n.router.Router().Find(http.MethodGet, "/"+path, c)
	if err := c.Handler()(c); err != nil {
		log.Error(msg.GetMessage("shell.route-not-found", path), zap.Error(err))
		return newTransition(path, n.generation).finish(fmt.Errorf("%w: %q", ErrRouteNotFound, path))
	}

	transition, ok := c.Get(transitionKey).(*Transition)
	if !ok {
		return newTransition(path, n.generation).finish(fmt.Errorf("%w: %q", ErrRouteNotFound, path))
	}
	return transition
}

// ListScreen returns the list screen, creating it with an empty registry on first use.
func (n *Navigator) ListScreen() *ListScreen {
	if n.list == nil {
		n.list = NewListScreen(entity.NewRegistry(), n.opts.Renderer, n)
		log.Info(msg.GetMessage("shell.list-created"))
	}
	return n.list
}

// Current returns the mounted screen, nil before the first navigation.
func (n *Navigator) Current() Screen {
	return n.current
}

// History returns the navigated paths, oldest first.
func (n *Navigator) History() []string {
	history := make([]string, len(n.history))
	copy(history, n.history)
	return history
}

func (n *Navigator) pushHistory(path string) {
	n.history = append(n.history, path)
	if limit := n.opts.HistoryLimit; limit > 0 && len(n.history) > limit {
		n.history = append([]string(nil), n.history[len(n.history)-limit:]...)
	}
}

// supersede cancels any in-flight fetch and invalidates its generation.
func (n *Navigator) supersede() {
	n.generation++
	if n.cancelFetch != nil {
		n.cancelFetch()
		n.cancelFetch = nil
	}
}

func (n *Navigator) showCities() *Transition {
	n.supersede()
	transition := newTransition(RootPath, n.generation)

	list := n.ListScreen()
	if err := list.Render(); err != nil {
		return transition.finish(err)
	}
	n.current = list
	return transition.finish(nil)
}

func (n *Navigator) showWeatherOfCity(country string, name string) *Transition {
	n.supersede()
	generation := n.generation
	path := WeatherPath(country, name)
	transition := newTransition(path, generation)

	city := entity.NewCity(name, country)
	ctx, cancel := context.WithCancel(n.baseCtx)
	n.cancelFetch = cancel

	go func() {
		err := n.opts.Weather.FetchCityWeather(ctx, city)
		if !n.post(func() { n.completeWeather(generation, transition, city, err) }) {
			cancel()
			transition.finish(ErrLoopStopped)
		}
	}()

	return transition
}

// completeWeather runs on the loop once a fetch settles.
func (n *Navigator) completeWeather(generation uint64, transition *Transition, city *entity.City, err error) {
	if generation != n.generation {
		log.Info(msg.GetMessage("shell.weather-stale", city.Name, city.Country, transition.Path),
			zap.Uint64("generation", generation))
		transition.finish(ErrStale)
		return
	}

	if n.cancelFetch != nil {
		n.cancelFetch()
		n.cancelFetch = nil
	}

	if err != nil {
		log.Error(msg.GetMessage("shell.weather-failed", city.Name, city.Country, err),
			zap.String("query", city.Query()), zap.Error(err))
		transition.finish(err)
		return
	}

	screen := NewWeatherScreen(city, n.opts.Renderer, n, n.opts.Location, n.opts.SunriseUnit)
	if err := screen.Render(); err != nil {
		log.Error(msg.GetMessage("shell.weather-failed", city.Name, city.Country, err), zap.Error(err))
		transition.finish(err)
		return
	}

	n.current = screen
	log.Info(msg.GetMessage("shell.weather-mounted", city.Name, city.Country))
	transition.finish(nil)
}
