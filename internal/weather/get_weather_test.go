package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeUsesTrailingSevenDays(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	history := HistoricalWeather{}
	for i := 1; i <= 10; i++ {
		history[base.AddDate(0, 0, i)] = Weather{
			Precipitation: float64(i),
			Temperature:   20 + float64(i),
			Humidity:      50 + float64(i),
		}
	}

	summary := Summarize(history)

	// Days 4 through 10 are the most recent seven.
	assert.InDelta(t, 49.0, summary.TotalRainfall7d, 1e-9)
	assert.InDelta(t, 27.0, summary.AvgTemperature7d, 1e-9)
	assert.InDelta(t, 57.0, summary.AvgHumidity7d, 1e-9)
}

func TestSummarizeShortHistory(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	history := HistoricalWeather{
		base:                  {Precipitation: 10, Temperature: 20, Humidity: 60},
		base.AddDate(0, 0, 1): {Precipitation: 20, Temperature: 30, Humidity: 80},
	}

	summary := Summarize(history)
	assert.InDelta(t, 30.0, summary.TotalRainfall7d, 1e-9)
	assert.InDelta(t, 25.0, summary.AvgTemperature7d, 1e-9)
	assert.InDelta(t, 70.0, summary.AvgHumidity7d, 1e-9)
}

func TestSummarizeEmptyHistory(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(HistoricalWeather{}))
}

func TestCalculateMeanHumidity(t *testing.T) {
	hourly := HourlyData{
		Time:             []string{"2025-06-01T00:00", "2025-06-01T01:00", "2025-06-02T00:00"},
		RelativeHumidity: []float64{40, 60, 80},
	}

	means := calculateMeanHumidity(hourly)
	assert.InDelta(t, 50.0, means["2025-06-01"], 1e-9)
	assert.InDelta(t, 80.0, means["2025-06-02"], 1e-9)
}
