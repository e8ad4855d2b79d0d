package model

// CreateCityDTO carries the add-city form. Both fields are free text and may be empty.
type CreateCityDTO struct {
	Name    string `json:"name" form:"name"`
	Country string `json:"country" form:"country"`
}

// CityDTO is the JSON view of a registry entry
type CityDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// WeatherDTO is the JSON view of a fetched city weather
type WeatherDTO struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	StatusCode  int     `json:"statusCode"`
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	Sunrise     string  `json:"sunrise"`
}

// HistoryDTO lists the navigated paths, oldest first
type HistoryDTO struct {
	Entries []string `json:"entries"`
	Current string   `json:"current"`
}
