package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"city-weather/configs"
	"city-weather/internal/application/controller"
	"city-weather/internal/application/middleware"
	"city-weather/internal/application/shell"
	"city-weather/internal/application/view"
	"city-weather/internal/domain/gateway/api"
	"city-weather/internal/domain/usecase/health"
	"city-weather/internal/domain/usecase/weather"
	httpclient "city-weather/pkg/http"
	"city-weather/pkg/log"
	"city-weather/pkg/msg"
	"city-weather/pkg/redis"
	"city-weather/pkg/resource"
)

func main() {
	env := configs.LoadEnv()
	if err := configs.Load(env); err != nil {
		log.Fatal(msg.GetMessage("app.config-failed", err), zap.Error(err))
	}
	log.Init(log.Options{AppName: resource.GetString("app.name"), Level: resource.GetString("app.log.level")})
	defer log.Sync()

	appName := resource.GetString("app.name")
	log.Info(msg.GetMessage("app.start", appName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init infra
	basePath := resource.GetString("app.server.context-path")
	renderer, err := view.NewRenderer(basePath)
	if err != nil {
		log.Fatal("fail to parse templates", zap.Error(err))
	}

	var redisChecker health.RedisChecker
	var limiter api.Limiter
	if resource.GetBool("app.redis.enabled") {
		redisClient, rateLimiter := initRedis()
		defer redisClient.Close()
		redisChecker = redisClient
		limiter = rateLimiter
	}

	// Init Gateway
	weatherGateway := api.NewWeatherGateway(api.GatewayConfig{
		BaseURL: resource.GetString("app.provider.base-url"),
		Path:    resource.GetString("app.provider.path"),
		APIKey:  resource.GetString("app.provider.api-key"),
		Lang:    resource.GetString("app.provider.lang"),
		Mode:    resource.GetString("app.provider.mode"),
		// XML answers carry no status and report the configured sentinel
		OKStatus:       resource.GetInt("app.provider.ok-status"),
		EpochInSeconds: shell.SunriseUnit(resource.GetString("app.provider.sunrise-unit")) == shell.Seconds,
		ClientOptions: httpclient.ClientOptions{
			ConnectionTimeout: resource.GetDuration("app.provider.connection-timeout"),
			ReadTimeout:       resource.GetDuration("app.provider.read-timeout"),
			Logger:            httpclient.NewZapLogger("appid"),
		},
		Limiter: limiter,
	})

	// Init UseCase
	weatherUseCase := weather.NewWeatherUseCase(weatherGateway, resource.GetInt("app.provider.ok-status"))

	// Init Shell
	sunrise := controller.SunriseFormat{
		Unit:     shell.SunriseUnit(resource.GetString("app.provider.sunrise-unit")),
		Location: displayLocation(resource.GetString("app.shell.display-timezone")),
	}
	navigator := shell.NewNavigator(shell.Options{
		Renderer:     renderer,
		Weather:      weatherUseCase,
		Location:     sunrise.Location,
		SunriseUnit:  sunrise.Unit,
		HistoryLimit: resource.GetInt("app.shell.history-limit"),
	})
	go func() {
		if err := navigator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(msg.GetMessage("shell.loop-stopped"), zap.Error(err))
		}
	}()
	if err := navigator.Dispatch(ctx, func() error {
		return navigator.Navigate(shell.RootPath).Err()
	}); err != nil {
		log.Fatal("fail to mount the city list", zap.Error(err))
	}

	healthUseCase := health.NewHealthUseCase(health.ProviderInfo{
		BaseURL:     resource.GetString("app.provider.base-url"),
		APIKeyIsSet: resource.GetString("app.provider.api-key") != "",
		RateLimited: limiter != nil,
		Lang:        resource.GetString("app.provider.lang"),
	}, redisChecker, navigator)

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer.Echo()
	middleware.SetupRequestLogger(e)
	group := e.Group(basePath)

	// Init Controller
	screenController := controller.NewScreenController(group, navigator, resource.GetBool("app.shell.surface-errors"))
	cityController := controller.NewCityController(group, navigator, weatherUseCase, sunrise)
	healthController := controller.NewHealthController(group, healthUseCase)

	// Init Routes
	screenController.InitScreenRoutes()
	cityController.InitCityRoutes()
	healthController.InitHealthRoutes()

	// Start Routes
	port := resource.GetString("app.server.port")
	go func() {
		log.Info(msg.GetMessage("app.started", appName, port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err.Error(), zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stop", appName))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(err.Error(), zap.Error(err))
	}
}

func initRedis() (*redis.Client, *redis.RateLimiter) {
	config := redis.NewRedisConfig().
		WithHost(resource.GetString("app.redis.host")).
		WithPort(resource.GetInt("app.redis.port")).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database"))

	client, err := redis.NewClient(config)
	if err != nil {
		log.Fatal("fail to connect to redis", zap.Error(err))
	}

	opts := redis.NewRateLimiterOptions().
		WithNamespace(resource.GetString("app.redis.rate-limit.namespace")).
		WithMaxTransactionsPerMinute(resource.GetInt("app.redis.rate-limit.per-minute"))
	limiter, err := redis.NewRateLimiter(client, "provider", opts)
	if err != nil {
		log.Fatal("fail to create provider rate limiter", zap.Error(err))
	}
	return client, limiter
}

func displayLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("unknown display timezone, using local time", zap.String("timezone", name), zap.Error(err))
		return time.Local
	}
	return loc
}
