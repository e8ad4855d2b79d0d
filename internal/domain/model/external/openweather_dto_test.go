package external

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    StatusCode
		wantErr bool
	}{
		{name: "number", payload: `{"cod":200}`, want: 200},
		{name: "numeric string", payload: `{"cod":"404"}`, want: 404},
		{name: "null", payload: `{"cod":null}`, want: 0},
		{name: "missing", payload: `{}`, want: 0},
		{name: "garbage string", payload: `{"cod":"abc"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp CurrentWeatherResponse
			err := json.Unmarshal([]byte(tt.payload), &resp)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Cod)
		})
	}
}

func TestCurrentWeatherResponseDecode(t *testing.T) {
	payload := `{
		"cod": 200,
		"name": "Madrid",
		"weather": [{"id": 800, "main": "Clear", "description": "cielo claro", "icon": "01d"}],
		"main": {"temp": 21.5, "humidity": 40, "pressure": 1015},
		"wind": {"speed": 3.1, "deg": 270},
		"sys": {"country": "ES", "sunrise": 1700000000000, "sunset": 1700036000000}
	}`

	var resp CurrentWeatherResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))

	assert.Equal(t, StatusCode(200), resp.Cod)
	assert.Equal(t, "cielo claro", resp.Weather[0].Description)
	assert.Equal(t, 21.5, resp.Main.Temp)
	assert.Equal(t, int64(1700000000000), resp.Sys.Sunrise)
	assert.Equal(t, "", resp.MessageText())
}

func TestMessageText(t *testing.T) {
	resp := CurrentWeatherResponse{Message: json.RawMessage(`"city not found"`)}
	assert.Equal(t, "city not found", resp.MessageText())

	resp = CurrentWeatherResponse{Message: json.RawMessage(`0.0123`)}
	assert.Equal(t, "0.0123", resp.MessageText())
}
