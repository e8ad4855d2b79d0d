package entity

// City is a place the user tracks. Weather stays nil until a provider fetch succeeds.
type City struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Weather *Weather `json:"weather,omitempty"`
}

// Weather holds the provider attributes a successful fetch attaches to a City.
type Weather struct {
	StatusCode  int         `json:"statusCode"`
	Conditions  []Condition `json:"conditions"`
	Temperature float64     `json:"temperature"`
	FeelsLike   float64     `json:"feelsLike"`
	TempMin     float64     `json:"tempMin"`
	TempMax     float64     `json:"tempMax"`
	Pressure    int         `json:"pressure"`
	Humidity    int         `json:"humidity"`
	WindSpeed   float64     `json:"windSpeed"`
	WindDegree  int         `json:"windDegree"`
	Cloudiness  int         `json:"cloudiness"`
	Sunrise     int64       `json:"sunrise"`
	Sunset      int64       `json:"sunset"`
	ObservedAt  int64       `json:"observedAt"`
}

type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func NewCity(name string, country string) *City {
	return &City{Name: name, Country: country}
}

// Query is the provider search term "{name},{country}".
func (c *City) Query() string {
	return c.Name + "," + c.Country
}

// Summary joins the condition descriptions, e.g. "nubes dispersas".
func (w *Weather) Summary() string {
	summary := ""
	for i, condition := range w.Conditions {
		if i > 0 {
			summary += ", "
		}
		summary += condition.Description
	}
	return summary
}
