package weather

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"city-weather/internal/domain/entity"
	"city-weather/internal/domain/gateway/api"
	"city-weather/internal/domain/model/external"
	"city-weather/pkg/log"
	"city-weather/pkg/msg"
)

// DefaultOKStatus is the provider's success sentinel
const DefaultOKStatus = 200

type weatherUseCase struct {
	apiGateway api.WeatherGateway
	okStatus   int
}

func NewWeatherUseCase(apiGateway api.WeatherGateway, okStatus int) UseCase {
	if okStatus == 0 {
		okStatus = DefaultOKStatus
	}
	return &weatherUseCase{
		apiGateway: apiGateway,
		okStatus:   okStatus,
	}
}

// FetchCityWeather gets the current weather for city from the provider
func (uc *weatherUseCase) FetchCityWeather(ctx context.Context, city *entity.City) error {
	log.Debug(msg.GetMessage("weather.fetch", city.Query()), zap.String("query", city.Query()))

	resp, err := uc.apiGateway.CurrentWeather(ctx, city.Name, city.Country)
	if errors.Is(err, api.ErrRateLimited) {
		log.Warn(msg.GetMessage("weather.rate-limited", city.Query()), zap.String("query", city.Query()))
	}
	if err != nil {
		return fmt.Errorf("fetch weather for %s: %w", city.Query(), err)
	}

	if int(resp.Cod) != uc.okStatus {
		return fmt.Errorf("%w %d for %s: %s", ErrUnexpectedStatus, int(resp.Cod), city.Query(), resp.MessageText())
	}

	city.Weather = toWeather(resp)
	return nil
}

func toWeather(resp *external.CurrentWeatherResponse) *entity.Weather {
	conditions := make([]entity.Condition, 0, len(resp.Weather))
	for _, w := range resp.Weather {
		conditions = append(conditions, entity.Condition{
			Main:        w.Main,
			Description: w.Description,
			Icon:        w.Icon,
		})
	}

	return &entity.Weather{
		StatusCode:  int(resp.Cod),
		Conditions:  conditions,
		Temperature: resp.Main.Temp,
		FeelsLike:   resp.Main.FeelsLike,
		TempMin:     resp.Main.TempMin,
		TempMax:     resp.Main.TempMax,
		Pressure:    resp.Main.Pressure,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		WindDegree:  resp.Wind.Deg,
		Cloudiness:  resp.Clouds.All,
		Sunrise:     resp.Sys.Sunrise,
		Sunset:      resp.Sys.Sunset,
		ObservedAt:  resp.Dt,
	}
}
