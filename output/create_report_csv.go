package output

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/fieldvision/fieldvision-api-poc/internal/delivery"
	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
	"github.com/fieldvision/fieldvision-api-poc/internal/ndvi"
	"github.com/fieldvision/fieldvision-api-poc/internal/properties"
)

// CreateReportCSV writes the per-zone statistics of a report to
// data/result/<farm>/<field>/ and returns the file path.
func CreateReportCSV(report *delivery.FieldReport) (string, error) {
	resultDir := fmt.Sprintf("%s/data/result/%s/%s", properties.RootPath(), report.Farm, report.FieldID)
	if err := os.MkdirAll(resultDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %v", err)
	}

	outputPath := fmt.Sprintf("%s/%s_%s_%s_%s_zones.csv",
		resultDir, report.Farm, report.FieldID, report.IndexType, report.AnalyzedAt.Format("2006-01-02"))

	rows := make([]*ndvi.ZoneStatistics, 0, len(report.ZoneStatistics))
	for row := 0; row < geometry.GridSize; row++ {
		for col := 0; col < geometry.GridSize; col++ {
			if stats, ok := report.ZoneStatistics[geometry.ZoneID(row, col)]; ok {
				statsCopy := stats
				rows = append(rows, &statsCopy)
			}
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %v", err)
	}

	fmt.Println("CSV report created successfully at", outputPath)
	return outputPath, nil
}
