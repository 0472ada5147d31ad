package recommendation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldvision/fieldvision-api-poc/internal/weather"
)

var july = time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)

func TestGenerateOrdersByPriority(t *testing.T) {
	zoneValues := map[string]float64{
		"zone_0_0": 0.05,
		"zone_0_1": 0.65,
		"zone_0_2": 0.40,
	}

	recommendations := Generate(zoneValues, nil, july)
	require.NotEmpty(t, recommendations)

	for i := 1; i < len(recommendations); i++ {
		assert.LessOrEqual(t, recommendations[i-1].Priority, recommendations[i].Priority)
	}

	first := recommendations[0]
	assert.Equal(t, 1, first.Priority)
	assert.Equal(t, "critical", first.Type)
	assert.Equal(t, "Northern Western Zone", first.Zone)
	assert.NotEmpty(t, first.Actions)
}

func TestGenerateEmptyInput(t *testing.T) {
	recommendations := Generate(map[string]float64{}, nil, july)
	assert.NotNil(t, recommendations)
	assert.Empty(t, recommendations)
}

func TestGenerateFiltersInvalidValues(t *testing.T) {
	zoneValues := map[string]float64{
		"zone_0_0": math.NaN(),
		"zone_0_1": math.Inf(1),
		"zone_0_2": 1.5,
		"zone_1_0": -2.0,
	}

	assert.Empty(t, Generate(zoneValues, nil, july))
}

func TestGenerateZoneDisplayNames(t *testing.T) {
	recommendations := Generate(map[string]float64{"zone_1_1": 0.05}, nil, july)
	require.NotEmpty(t, recommendations)
	assert.Equal(t, "Center Zone", recommendations[0].Zone)

	recommendations = Generate(map[string]float64{"zone_2_2": 0.05}, nil, july)
	require.NotEmpty(t, recommendations)
	assert.Equal(t, "Southern Eastern Zone", recommendations[0].Zone)
}

func TestGenerateFieldLevelAdvisories(t *testing.T) {
	poor := Generate(map[string]float64{
		"zone_0_0": 0.1,
		"zone_0_1": 0.15,
	}, nil, july)
	assert.True(t, hasZone(poor, "Overall Field", 1), "poor field average raises a critical field advisory")

	uneven := Generate(map[string]float64{
		"zone_0_0": 0.05,
		"zone_2_2": 0.9,
	}, nil, july)
	assert.True(t, hasZone(uneven, "Field Uniformity", 2), "high variance raises a uniformity warning")

	excellent := Generate(map[string]float64{
		"zone_0_0": 0.75,
		"zone_0_1": 0.72,
	}, nil, july)
	assert.True(t, hasZone(excellent, "Overall Field", 5), "excellent field average is acknowledged")
}

func TestGenerateWeatherAdvisories(t *testing.T) {
	zoneValues := map[string]float64{"zone_0_0": 0.75}

	drought := Generate(zoneValues, &weather.Summary{
		TotalRainfall7d:  2.0,
		AvgTemperature7d: 30.0,
	}, july)
	require.True(t, hasZone(drought, "Weather", 2))
	assert.Contains(t, findZone(drought, "Weather").Message, "drought")

	wet := Generate(zoneValues, &weather.Summary{
		TotalRainfall7d:  60.0,
		AvgTemperature7d: 18.0,
	}, july)
	require.True(t, hasZone(wet, "Weather", 3))
	assert.Contains(t, findZone(wet, "Weather").Message, "waterlogging")

	mild := Generate(zoneValues, &weather.Summary{
		TotalRainfall7d:  20.0,
		AvgTemperature7d: 18.0,
	}, july)
	assert.Nil(t, findZone(mild, "Weather"))
}

func TestGenerateSeasonalAdvisories(t *testing.T) {
	zoneValues := map[string]float64{"zone_0_0": 0.35}

	summer := findZone(Generate(zoneValues, nil, july), "Seasonal")
	require.NotNil(t, summer)
	assert.Contains(t, summer.Message, "Peak growing season")

	spring := findZone(Generate(zoneValues, nil, time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)), "Seasonal")
	require.NotNil(t, spring)
	assert.Contains(t, spring.Message, "Spring growth")

	fall := findZone(Generate(zoneValues, nil, time.Date(2025, time.October, 10, 0, 0, 0, 0, time.UTC)), "Seasonal")
	require.NotNil(t, fall)
	assert.Contains(t, fall.Message, "Harvest season")

	winter := findZone(Generate(zoneValues, nil, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)), "Seasonal")
	require.NotNil(t, winter)
	assert.Contains(t, winter.Message, "Winter season")

	// Healthy spring fields get no slow-growth advisory.
	healthySpring := findZone(Generate(map[string]float64{"zone_0_0": 0.6}, nil, time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)), "Seasonal")
	assert.Nil(t, healthySpring)
}

func hasZone(recommendations []Recommendation, zone string, priority int) bool {
	rec := findZone(recommendations, zone)
	return rec != nil && rec.Priority == priority
}

func findZone(recommendations []Recommendation, zone string) *Recommendation {
	for i := range recommendations {
		if recommendations[i].Zone == zone {
			return &recommendations[i]
		}
	}
	return nil
}
