package ndvi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
)

func testField(t *testing.T) (geometry.Boundary, []geometry.Zone) {
	t.Helper()
	b, err := geometry.NewBoundary([][]float64{
		{10.0, 20.0},
		{10.0, 20.01},
		{10.01, 20.01},
		{10.01, 20.0},
	})
	require.NoError(t, err)
	return b, geometry.CreateZones(b)
}

func uniformGrid(width, height int, value float64) *IndexGrid {
	grid := NewIndexGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.Set(x, y, value)
		}
	}
	return grid
}

func TestAnalyzeHealthyField(t *testing.T) {
	b, zones := testField(t)
	grid := uniformGrid(100, 100, 0.8)

	zoneStats, fieldStats := NewAggregator().Analyze(grid, zones, b.BBox())
	require.Len(t, zoneStats, 9)

	for _, zs := range zoneStats {
		assert.Greater(t, zs.PixelCount, 0)
		assert.InDelta(t, 0.8, zs.MeanNDVI, 1e-9)
		assert.InDelta(t, 0.8, zs.MedianNDVI, 1e-9)
		assert.Equal(t, 0.0, zs.StdNDVI)
		assert.Equal(t, "excellent", zs.HealthClassification)
		assert.Equal(t, 100.0, zs.VegetationCover)
		assert.Equal(t, 0.0, zs.StressPercentage)
	}

	assert.Equal(t, "excellent", fieldStats.OverallHealth)
	assert.InDelta(t, 0.8, fieldStats.FieldMeanNDVI, 1e-9)
	assert.Equal(t, 100.0, fieldStats.FieldUniformity)
	assert.Equal(t, 9, fieldStats.HealthyZones)
	assert.Equal(t, 0, fieldStats.StressedZones)
	assert.Equal(t, 9, fieldStats.TotalZones)
	assert.Equal(t, 100.0, fieldStats.ZoneHealthDistribution["excellent"])
}

func TestAnalyzeStressedField(t *testing.T) {
	b, zones := testField(t)
	grid := uniformGrid(100, 100, 0.05)

	zoneStats, fieldStats := NewAggregator().Analyze(grid, zones, b.BBox())

	for _, zs := range zoneStats {
		assert.Equal(t, "critical", zs.HealthClassification)
		assert.Equal(t, 0.0, zs.VegetationCover)
		assert.Equal(t, 100.0, zs.StressPercentage)
	}

	assert.Equal(t, "critical", fieldStats.OverallHealth)
	assert.Equal(t, 0, fieldStats.HealthyZones)
	assert.Equal(t, 9, fieldStats.StressedZones)
}

func TestAnalyzeFullyMaskedField(t *testing.T) {
	b, zones := testField(t)
	grid := uniformGrid(100, 100, math.NaN())

	zoneStats, fieldStats := NewAggregator().Analyze(grid, zones, b.BBox())

	for _, zs := range zoneStats {
		assert.Equal(t, "unknown", zs.HealthClassification)
		assert.Equal(t, 0, zs.PixelCount)
		assert.Equal(t, 100.0, zs.StressPercentage)
	}

	assert.Equal(t, "unknown", fieldStats.OverallHealth)
	assert.Equal(t, 0, fieldStats.HealthyZones)
	assert.Equal(t, 0, fieldStats.StressedZones)
	assert.Equal(t, 9, fieldStats.TotalZones)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	b, zones := testField(t)
	grid := NewIndexGrid(80, 80)
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			grid.Set(x, y, float64(x%10)/10.0)
		}
	}

	first, firstField := NewAggregator().Analyze(grid, zones, b.BBox())
	second, secondField := NewAggregator().Analyze(grid, zones, b.BBox())

	assert.Equal(t, first, second)
	assert.Equal(t, firstField, secondField)
}

func TestClassifyHealth(t *testing.T) {
	cases := []struct {
		value    float64
		expected string
	}{
		{0.85, "excellent"},
		{0.7, "excellent"},
		{0.5, "good"},
		{0.3, "fair"},
		{0.1, "poor"},
		{0.05, "critical"},
		{-0.5, "critical"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, ClassifyHealth(tc.value), "value %f", tc.value)
	}
}
