package external

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const madridXML = `<current>
  <city id="3117735" name="Madrid"><country>ES</country><timezone>3600</timezone>
    <sun rise="2023-11-14T22:13:20" set="2023-11-15T08:00:00"/></city>
  <temperature value="285.4" min="283.1" max="287.2" unit="kelvin"/>
  <feels_like value="284.2" unit="kelvin"/>
  <humidity value="61" unit="%"/>
  <pressure value="1019" unit="hPa"/>
  <wind><speed value="3.6" unit="m/s" name="Gentle Breeze"/><direction value="" code="" name=""/></wind>
  <clouds value="0" name="clear sky"/>
  <weather number="800" value="cielo claro" icon="01n"/>
  <lastupdate value="2023-11-14T22:00:00"/>
</current>`

func TestCurrentWeatherXMLToResponse(t *testing.T) {
	var doc CurrentWeatherXML
	require.NoError(t, xml.Unmarshal([]byte(madridXML), &doc))

	t.Run("milliseconds", func(t *testing.T) {
		resp, err := doc.ToResponse(200, false)

		require.NoError(t, err)
		assert.Equal(t, StatusCode(200), resp.Cod)
		assert.Equal(t, "Madrid", resp.Name)
		assert.Equal(t, "ES", resp.Sys.Country)
		assert.Equal(t, int64(1700000000000), resp.Sys.Sunrise)
		assert.Equal(t, 285.4, resp.Main.Temp)
		assert.Equal(t, 61, resp.Main.Humidity)
		assert.Equal(t, 1019, resp.Main.Pressure)
		assert.Equal(t, 0, resp.Wind.Deg)
		require.Len(t, resp.Weather, 1)
		assert.Equal(t, "cielo claro", resp.Weather[0].Description)
	})

	t.Run("seconds", func(t *testing.T) {
		resp, err := doc.ToResponse(200, true)

		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), resp.Sys.Sunrise)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		broken := doc
		broken.City.Sun.Rise = "yesterday"

		_, err := broken.ToResponse(200, false)
		assert.ErrorContains(t, err, "sunrise")
	})
}

func TestAPIErrorResponseXML(t *testing.T) {
	var apiErr APIErrorResponse
	require.NoError(t, xml.Unmarshal([]byte(`<ClientError><cod>404</cod><message>city not found</message></ClientError>`), &apiErr))

	assert.Equal(t, StatusCode(404), apiErr.Cod)
	assert.Equal(t, "city not found", apiErr.Message)
}
