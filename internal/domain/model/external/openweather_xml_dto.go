package external

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"
)

// xmlTimeLayout is the provider's XML timestamp format, always UTC.
const xmlTimeLayout = "2006-01-02T15:04:05"

// CurrentWeatherXML is the mode=xml payload of the current weather endpoint.
// It carries no embedded status, a decoded document is a success.
type CurrentWeatherXML struct {
	XMLName     xml.Name     `xml:"current"`
	City        XMLCity      `xml:"city"`
	Temperature XMLRange     `xml:"temperature"`
	FeelsLike   XMLAttr      `xml:"feels_like"`
	Humidity    XMLAttr      `xml:"humidity"`
	Pressure    XMLAttr      `xml:"pressure"`
	Wind        XMLWind      `xml:"wind"`
	Clouds      XMLAttr      `xml:"clouds"`
	Weather     []XMLWeather `xml:"weather"`
	LastUpdate  XMLAttr      `xml:"lastupdate"`
}

type XMLCity struct {
	ID       int    `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	Country  string `xml:"country"`
	Timezone int    `xml:"timezone"`
	Sun      XMLSun `xml:"sun"`
}

type XMLSun struct {
	Rise string `xml:"rise,attr"`
	Set  string `xml:"set,attr"`
}

type XMLRange struct {
	Value string `xml:"value,attr"`
	Min   string `xml:"min,attr"`
	Max   string `xml:"max,attr"`
}

// XMLAttr is an element whose reading sits in its value attribute.
type XMLAttr struct {
	Value string `xml:"value,attr"`
}

type XMLWind struct {
	Speed     XMLAttr `xml:"speed"`
	Direction XMLAttr `xml:"direction"`
}

type XMLWeather struct {
	Number int    `xml:"number,attr"`
	Value  string `xml:"value,attr"`
	Icon   string `xml:"icon,attr"`
}

// ToResponse maps the document onto the JSON shape with okStatus as its
// status. Timestamps become epoch milliseconds, or seconds when inSeconds.
// Readings the provider left empty stay zero.
func (x *CurrentWeatherXML) ToResponse(okStatus int, inSeconds bool) (*CurrentWeatherResponse, error) {
	sunrise, err := epoch(x.City.Sun.Rise, inSeconds)
	if err != nil {
		return nil, fmt.Errorf("sunrise: %w", err)
	}
	sunset, err := epoch(x.City.Sun.Set, inSeconds)
	if err != nil {
		return nil, fmt.Errorf("sunset: %w", err)
	}
	observed, err := epoch(x.LastUpdate.Value, inSeconds)
	if err != nil {
		return nil, fmt.Errorf("lastupdate: %w", err)
	}

	conditions := make([]WeatherCondition, 0, len(x.Weather))
	for _, w := range x.Weather {
		conditions = append(conditions, WeatherCondition{ID: w.Number, Description: w.Value, Icon: w.Icon})
	}

	return &CurrentWeatherResponse{
		Cod:      StatusCode(okStatus),
		ID:       x.City.ID,
		Name:     x.City.Name,
		Dt:       observed,
		Timezone: x.City.Timezone,
		Weather:  conditions,
		Main: MainMeasurements{
			Temp:      toFloat(x.Temperature.Value),
			FeelsLike: toFloat(x.FeelsLike.Value),
			TempMin:   toFloat(x.Temperature.Min),
			TempMax:   toFloat(x.Temperature.Max),
			Pressure:  toInt(x.Pressure.Value),
			Humidity:  toInt(x.Humidity.Value),
		},
		Wind:   Wind{Speed: toFloat(x.Wind.Speed.Value), Deg: toInt(x.Wind.Direction.Value)},
		Clouds: Clouds{All: toInt(x.Clouds.Value)},
		Sys:    Sys{Country: x.City.Country, Sunrise: sunrise, Sunset: sunset},
	}, nil
}

func epoch(value string, inSeconds bool) (int64, error) {
	if value == "" {
		return 0, nil
	}
	t, err := time.ParseInLocation(xmlTimeLayout, value, time.UTC)
	if err != nil {
		return 0, err
	}
	if inSeconds {
		return t.Unix(), nil
	}
	return t.UnixMilli(), nil
}

func toFloat(value string) float64 {
	f, _ := strconv.ParseFloat(value, 64)
	return f
}

func toInt(value string) int {
	i, err := strconv.Atoi(value)
	if err != nil {
		return int(toFloat(value))
	}
	return i
}
