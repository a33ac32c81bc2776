package wunderground

// apiResponse Weather Underground 接口响应，geolookup + conditions/forecast/forecast10day
type apiResponse struct {
	Response           responseMeta `json:"response"`
	Location           *location    `json:"location"`
	CurrentObservation *observation `json:"current_observation"`
	Forecast           *forecast    `json:"forecast"`
}

type responseMeta struct {
	Error   *apiError        `json:"error"`
	Results []locationResult `json:"results"`
}

type apiError struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// locationResult 查询有歧义时返回的候选地点
type locationResult struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type observation struct {
	DisplayLocation  location `json:"display_location"`
	ObservationEpoch string   `json:"observation_epoch"`
	LocalTZOffset    string   `json:"local_tz_offset"`
	Weather          string   `json:"weather"`
	TempF            float64  `json:"temp_f"`
	FeelsLikeF       string   `json:"feelslike_f"`
	RelativeHumidity string   `json:"relative_humidity"`
	WindString       string   `json:"wind_string"`
	WindMph          float64  `json:"wind_mph"`
	WindDir          string   `json:"wind_dir"`
	PrecipTodayIn    string   `json:"precip_today_in"`
}

type forecast struct {
	TxtForecast    txtForecast    `json:"txt_forecast"`
	SimpleForecast simpleForecast `json:"simpleforecast"`
}

type txtForecast struct {
	ForecastDay []txtForecastDay `json:"forecastday"`
}

type simpleForecast struct {
	ForecastDay []simpleForecastDay `json:"forecastday"`
}

type txtForecastDay struct {
	Period  int    `json:"period"`
	Title   string `json:"title"`
	FctText string `json:"fcttext"`
}

type simpleForecastDay struct {
	Date        forecastDate `json:"date"`
	Period      int          `json:"period"`
	High        temperature  `json:"high"`
	Low         temperature  `json:"low"`
	Conditions  string       `json:"conditions"`
	Pop         int          `json:"pop"`
	AveHumidity int          `json:"avehumidity"`
	AveWind     wind         `json:"avewind"`
}

type forecastDate struct {
	Day     int    `json:"day"`
	Month   int    `json:"month"`
	Year    int    `json:"year"`
	Weekday string `json:"weekday"`
}

type temperature struct {
	Fahrenheit string `json:"fahrenheit"`
	Celsius    string `json:"celsius"`
}

type wind struct {
	Mph int    `json:"mph"`
	Dir string `json:"dir"`
}
