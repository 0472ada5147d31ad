package output

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/fieldvision/fieldvision-api-poc/internal/delivery"
	"github.com/fieldvision/fieldvision-api-poc/internal/properties"
)

// CreateReportGeoJSON writes the zone polygons with their statistics as a
// FeatureCollection and returns the file path.
func CreateReportGeoJSON(report *delivery.FieldReport) (string, error) {
	resultDir := fmt.Sprintf("%s/data/result/%s/%s", properties.RootPath(), report.Farm, report.FieldID)
	if err := os.MkdirAll(resultDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %v", err)
	}

	outputPath := fmt.Sprintf("%s/%s_%s_%s_%s_zones.geojson",
		resultDir, report.Farm, report.FieldID, report.IndexType, report.AnalyzedAt.Format("2006-01-02"))

	fc := geojson.NewFeatureCollection()
	for _, zone := range report.Zones {
		stats, ok := report.ZoneStatistics[zone.ID()]
		if !ok {
			continue
		}

		healthColor := properties.HealthColorMap[stats.HealthClassification]

		feature := geojson.NewFeature(zone.Polygon)
		feature.Properties = geojson.Properties{
			"zone":                  zone.ID(),
			"name":                  zone.Name,
			"mean_ndvi":             stats.MeanNDVI,
			"health_classification": stats.HealthClassification,
			"vegetation_cover":      stats.VegetationCover,
			"stress_percentage":     stats.StressPercentage,
			"pixel_count":           stats.PixelCount,
			"fill":                  fmt.Sprintf("#%02x%02x%02x", healthColor.R, healthColor.G, healthColor.B),
		}
		fc.Append(feature)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode GeoJSON: %v", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write GeoJSON file: %v", err)
	}

	fmt.Println("GeoJSON report created successfully at", outputPath)
	return outputPath, nil
}
