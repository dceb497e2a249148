package rotator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/snowoball/statusrota/internal/domain"
)

// Weather is the current condition shown by {{weather_emoji}} and
// {{weather_text}}.
type Weather struct {
	Emoji string
	Text  string
}

// WeatherUnavailable replaces the weather when it cannot be fetched.
var WeatherUnavailable = Weather{Emoji: "🌫️", Text: "Weather unavailable"}

// WeatherSource reports current weather at a location.
type WeatherSource interface {
	Current(ctx context.Context, loc domain.Location) (Weather, error)
}

type wmoCode struct {
	desc  string
	emoji string
}

var wmoCodes = map[int]wmoCode{
	0:  {"Clear sky", "☀️"},
	1:  {"Mainly clear", "🌤️"},
	2:  {"Partly cloudy", "⛅"},
	3:  {"Overcast", "☁️"},
	45: {"Fog", "🌫️"},
	48: {"Rime fog", "🌫️"},
	51: {"Light drizzle", "🌦️"},
	53: {"Moderate drizzle", "🌦️"},
	55: {"Dense drizzle", "🌧️"},
	61: {"Slight rain", "🌦️"},
	63: {"Moderate rain", "🌧️"},
	65: {"Heavy rain", "🌧️"},
	71: {"Slight snow", "🌨️"},
	73: {"Moderate snow", "🌨️"},
	75: {"Heavy snow", "❄️"},
	80: {"Rain showers", "🌧️"},
	85: {"Snow showers", "🌨️"},
	95: {"Thunderstorm", "⛈️"},
	96: {"Thunderstorm with hail", "⛈️"},
	99: {"Thunderstorm with heavy hail", "🌩️"},
}

// DescribeWeather formats a temperature and WMO weather code.
func DescribeWeather(temperature float64, code int) Weather {
	c, ok := wmoCodes[code]
	if !ok {
		c = wmoCode{"Unknown", "🌫️"}
	}
	return Weather{
		Emoji: c.emoji,
		Text:  fmt.Sprintf("%.1f°C %s", temperature, c.desc),
	}
}

// OpenMeteo reads current weather from the open-meteo forecast API.
type OpenMeteo struct {
	endpoint string
	http     *http.Client
}

func NewOpenMeteo(endpoint string, timeout time.Duration) *OpenMeteo {
	return &OpenMeteo{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WeatherCode float64 `json:"weathercode"`
	} `json:"current_weather"`
}

func (o *OpenMeteo) Current(ctx context.Context, loc domain.Location) (Weather, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', 6, 64))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Weather{}, fmt.Errorf("creating weather request: %w", err)
	}
	resp, err := o.http.Do(req)
	if err != nil {
		return Weather{}, fmt.Errorf("fetching weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Weather{}, fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Weather{}, fmt.Errorf("decoding weather: %w", err)
	}
	if body.CurrentWeather == nil {
		return Weather{}, fmt.Errorf("weather response has no current_weather")
	}
	return DescribeWeather(body.CurrentWeather.Temperature, int(body.CurrentWeather.WeatherCode)), nil
}
