package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minsukang/dailybrief/pkg/models"
	"github.com/minsukang/dailybrief/pkg/utils"
)

// forecastSteps is how many 3-hour forecast entries cover the next 24 hours.
const forecastSteps = 8

// WeatherClient fetches current conditions and the short-term forecast
// from the OpenWeatherMap API.
type WeatherClient struct {
	apiKey  string
	city    string
	units   string
	lang    string
	baseURL string
	client  *http.Client
	cache   *Cache
}

// WeatherOption configures a WeatherClient.
type WeatherOption func(*WeatherClient)

// WithWeatherBaseURL overrides the API base URL (used in tests).
func WithWeatherBaseURL(u string) WeatherOption {
	return func(w *WeatherClient) { w.baseURL = strings.TrimSuffix(u, "/") }
}

// WithWeatherHTTPClient sets a custom HTTP client.
func WithWeatherHTTPClient(client *http.Client) WeatherOption {
	return func(w *WeatherClient) { w.client = client }
}

// NewWeatherClient creates a weather client for the given city.
func NewWeatherClient(apiKey, city, units, lang string, opts ...WeatherOption) (*WeatherClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	w := &WeatherClient{
		apiKey:  apiKey,
		city:    city,
		units:   units,
		lang:    lang,
		baseURL: "https://api.openweathermap.org/data/2.5",
		client:  HTTPClient,
		cache:   NewCache(10 * time.Minute),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// City returns the configured city string.
func (w *WeatherClient) City() string { return w.city }

// --- Upstream response shapes ---

type owmCurrentResponse struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Icon string `json:"icon"`
		} `json:"weather"`
		Pop float64 `json:"pop"` // precipitation probability, 0..1
	} `json:"list"`
}

// --- Public methods ---

// Current returns the current conditions for the configured city.
func (w *WeatherClient) Current(ctx context.Context) (*models.CurrentWeather, error) {
	const cacheKey = "weather:current"
	if cached, ok := w.cache.Get(cacheKey); ok {
		return cached.(*models.CurrentWeather), nil
	}

	var raw owmCurrentResponse
	if err := w.getJSON(ctx, "/weather", &raw); err != nil {
		return nil, fmt.Errorf("current weather: %w", err)
	}

	cur := &models.CurrentWeather{
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
	}
	if len(raw.Weather) > 0 {
		cur.Description = capitalize(raw.Weather[0].Description)
		cur.Icon = raw.Weather[0].Icon
	}

	w.cache.Set(cacheKey, cur)
	return cur, nil
}

// Forecast returns the hourly samples covering the next 24 hours,
// in chronological order, labeled with KST clock times.
func (w *WeatherClient) Forecast(ctx context.Context) ([]models.HourlySample, error) {
	const cacheKey = "weather:forecast"
	if cached, ok := w.cache.Get(cacheKey); ok {
		return cached.([]models.HourlySample), nil
	}

	var raw owmForecastResponse
	if err := w.getJSON(ctx, "/forecast", &raw); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	steps := raw.List
	if len(steps) > forecastSteps {
		steps = steps[:forecastSteps]
	}

	samples := make([]models.HourlySample, 0, len(steps))
	for _, step := range steps {
		s := models.HourlySample{
			Time:          time.Unix(step.Dt, 0).In(utils.KST).Format("15:04"),
			Temperature:   step.Main.Temp,
			Precipitation: step.Pop,
		}
		if len(step.Weather) > 0 {
			s.Icon = step.Weather[0].Icon
		}
		samples = append(samples, s)
	}

	w.cache.Set(cacheKey, samples)
	return samples, nil
}

// IconURL returns the OpenWeatherMap icon image URL for an icon code.
func IconURL(icon string) string {
	if icon == "" {
		return ""
	}
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", icon)
}

// --- Internal helpers ---

// getJSON fetches one API endpoint with the standard query parameters
// and decodes the JSON body into out.
func (w *WeatherClient) getJSON(ctx context.Context, path string, out any) error {
	q := url.Values{}
	q.Set("q", w.city)
	q.Set("appid", w.apiKey)
	q.Set("units", w.units)
	q.Set("lang", w.lang)

	body, err := doGet(ctx, w.client, w.baseURL+path+"?"+q.Encode())
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// capitalize upper-cases the first rune of a description.
// Localized descriptions (e.g. Korean) pass through unchanged.
func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
