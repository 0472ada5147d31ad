package output

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldvision/fieldvision-api-poc/internal/delivery"
	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
	"github.com/fieldvision/fieldvision-api-poc/internal/ndvi"
)

func sampleReport(t *testing.T) *delivery.FieldReport {
	t.Helper()

	boundary, err := geometry.NewBoundary([][]float64{
		{10.0, 20.0},
		{10.0, 20.01},
		{10.01, 20.01},
		{10.01, 20.0},
	})
	require.NoError(t, err)

	zones := geometry.CreateZones(boundary)
	zoneStats := make(map[string]ndvi.ZoneStatistics, len(zones))
	for _, zone := range zones {
		zoneStats[zone.ID()] = ndvi.ZoneStatistics{
			Zone:                 zone.ID(),
			Name:                 zone.Name,
			MeanNDVI:             0.62,
			MedianNDVI:           0.6,
			HealthClassification: "good",
			VegetationCover:      95.0,
			PixelCount:           120,
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 13, G: 102, B: 13, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return &delivery.FieldReport{
		Farm:           "riverside",
		FieldID:        "north-40",
		IndexType:      "ndvi",
		AnalyzedAt:     time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Zones:          zones,
		BBox:           boundary.BBox(),
		ImagePNG:       buf.Bytes(),
		ZoneStatistics: zoneStats,
	}
}

func TestCreateReportCSV(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())
	report := sampleReport(t)

	path, err := CreateReportCSV(report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 10, "header plus nine zone rows")
	assert.Contains(t, lines[0], "zone")
	assert.Contains(t, lines[0], "health_classification")
	assert.Contains(t, lines[1], "zone_0_0", "rows come out in grid order")
	assert.Contains(t, lines[9], "zone_2_2")
}

func TestCreateReportGeoJSON(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())
	report := sampleReport(t)

	path, err := CreateReportGeoJSON(report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 9)
	assert.Equal(t, "good", fc.Features[0].Properties["health_classification"])
	assert.Equal(t, "#4a7c59", fc.Features[0].Properties["fill"], "fill color follows the health classification")
}

func TestCreateReportImage(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())
	report := sampleReport(t)

	path, err := CreateReportImage(report)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
}
