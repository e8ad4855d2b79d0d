package weather

import (
	"context"
	"errors"

	"city-weather/internal/domain/entity"
)

// ErrUnexpectedStatus marks a provider answer whose embedded status is not the OK sentinel
var ErrUnexpectedStatus = errors.New("unexpected provider status")

type UseCase interface {
	// FetchCityWeather performs one provider read for city and, when the
	// embedded status is OK, attaches the weather attributes to it. city is
	// left untouched on any failure.
	FetchCityWeather(ctx context.Context, city *entity.City) error
}
