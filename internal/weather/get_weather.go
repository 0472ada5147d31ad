package weather

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldvision/fieldvision-api-poc/internal/cache"
	"github.com/fieldvision/fieldvision-api-poc/internal/utils"
)

type HourlyData struct {
	Time             []string  `json:"time"`
	RelativeHumidity []float64 `json:"relative_humidity_2m"`
}

type DailyData struct {
	Time          []string  `json:"time"`
	Temperature   []float64 `json:"temperature_2m_mean"`
	Precipitation []float64 `json:"precipitation_sum"`
}

type WeatherResponse struct {
	Hourly HourlyData `json:"hourly"`
	Daily  DailyData  `json:"daily"`
}

type Weather struct {
	Precipitation float64
	Temperature   float64
	Humidity      float64
}

type HistoricalWeather map[time.Time]Weather

// Summary collapses recent history into the aggregates the recommendation
// engine consumes.
type Summary struct {
	TotalRainfall7d  float64 `json:"total_rainfall_7d"`
	AvgTemperature7d float64 `json:"avg_temperature_7d"`
	AvgHumidity7d    float64 `json:"avg_humidity_7d"`
}

func calculateMeanHumidity(hourlyData HourlyData) map[string]float64 {
	dailyHumidity := make(map[string][]float64)
	meanHumidity := make(map[string]float64)

	for i, t := range hourlyData.Time {
		h := hourlyData.RelativeHumidity[i]
		date := t[:10] // Extract the date (YYYY-MM-DD)
		dailyHumidity[date] = append(dailyHumidity[date], h)
	}

	for date, humidities := range dailyHumidity {
		var sum float64
		for _, h := range humidities {
			sum += h
		}
		meanHumidity[date] = sum / float64(len(humidities))
	}

	return meanHumidity
}

func FetchWeather(latitude, longitude float64, startDate, endDate time.Time, retries int) (HistoricalWeather, error) {
	weatherCache := cache.NewFileCache[HistoricalWeather]("weather")
	cacheKey := weatherCache.GenerateKey(latitude, longitude, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	if cached, ok := weatherCache.Get(cacheKey); ok {
		return cached, nil
	}

	url := "https://archive-api.open-meteo.com/v1/archive"
	params := fmt.Sprintf("?latitude=%f&longitude=%f&start_date=%s&end_date=%s&daily=temperature_2m_mean,precipitation_sum&hourly=relative_humidity_2m",
		latitude, longitude, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	var weatherData WeatherResponse
	var attempt int

	for attempt < retries {
		resp, err := http.Get(url + params)
		if err != nil {
			fmt.Printf("Failed to retrieve data: %v. Retrying... (%d/%d)\n", err, attempt+1, retries)
			time.Sleep(10 * time.Second)
			attempt++
			continue
		}

		if resp.StatusCode == http.StatusOK {
			err = json.NewDecoder(resp.Body).Decode(&weatherData)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to parse response: %v", err)
			}

			dataParsed := HistoricalWeather{}
			humidity := calculateMeanHumidity(weatherData.Hourly)

			for i, date := range weatherData.Daily.Time {
				parsedDate, err := time.Parse("2006-01-02", date)
				if err != nil {
					return nil, fmt.Errorf("failed to parse date: %v", err)
				}
				dataParsed[parsedDate] = Weather{
					Temperature:   weatherData.Daily.Temperature[i],
					Precipitation: weatherData.Daily.Precipitation[i],
					Humidity:      humidity[date],
				}
			}

			if err := weatherCache.Set(cacheKey, dataParsed); err != nil {
				fmt.Printf("Failed to cache weather data: %v\n", err)
			}

			return dataParsed, nil
		}

		resp.Body.Close()
		fmt.Printf("Failed to retrieve data: %d. Retrying... (%d/%d)\n", resp.StatusCode, attempt+1, retries)
		time.Sleep(10 * time.Second)
		attempt++
	}

	return nil, fmt.Errorf("failed to retrieve data after %d attempts", retries)
}

// Summarize reduces history to the trailing seven days ending at the most
// recent record.
func Summarize(history HistoricalWeather) Summary {
	if len(history) == 0 {
		return Summary{}
	}

	dates := utils.GetSortedKeys(history, false)
	if len(dates) > 7 {
		dates = dates[:7]
	}

	var summary Summary
	for _, date := range dates {
		w := history[date]
		summary.TotalRainfall7d += w.Precipitation
		summary.AvgTemperature7d += w.Temperature
		summary.AvgHumidity7d += w.Humidity
	}

	n := float64(len(dates))
	summary.AvgTemperature7d /= n
	summary.AvgHumidity7d /= n

	return summary
}
