package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// StatusCode is the provider's embedded "cod" field. The provider sends a
// number on success and a numeric string on errors.
type StatusCode int

func (s *StatusCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}

	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		code, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("invalid status code %q: %w", text, err)
		}
		*s = StatusCode(code)
		return nil
	}

	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("invalid status code %s: %w", data, err)
	}
	*s = StatusCode(code)
	return nil
}

// CurrentWeatherResponse represents the current weather endpoint payload
type CurrentWeatherResponse struct {
	Cod      StatusCode         `json:"cod"`
	Message  json.RawMessage    `json:"message,omitempty"`
	ID       int                `json:"id"`
	Name     string             `json:"name"`
	Dt       int64              `json:"dt"`
	Timezone int                `json:"timezone"`
	Weather  []WeatherCondition `json:"weather"`
	Main     MainMeasurements   `json:"main"`
	Wind     Wind               `json:"wind"`
	Clouds   Clouds             `json:"clouds"`
	Sys      Sys                `json:"sys"`
}

// WeatherCondition represents a single weather condition
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type MainMeasurements struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

type Clouds struct {
	All int `json:"all"`
}

type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// MessageText returns the provider message whether it was sent as a string or a number
func (r *CurrentWeatherResponse) MessageText() string {
	if len(r.Message) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(r.Message, &text); err == nil {
		return text
	}
	return string(r.Message)
}

// APIErrorResponse represents error responses from the provider
// in both modes. In XML mode it arrives as <ClientError><cod>..</cod><message>..</message></ClientError>.
type APIErrorResponse struct {
	Cod     StatusCode `json:"cod" xml:"cod"`
	Message string     `json:"message" xml:"message"`
}
