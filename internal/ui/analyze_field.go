package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fieldvision/fieldvision-api-poc/internal/delivery"
	"github.com/fieldvision/fieldvision-api-poc/internal/fields"
	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
	"github.com/fieldvision/fieldvision-api-poc/internal/notification"
	"github.com/fieldvision/fieldvision-api-poc/internal/sentinel"
	"github.com/fieldvision/fieldvision-api-poc/output"
)

// AnalyzeField handles the UI for analyzing the vegetation health of a single
// field for a specific date
func AnalyzeField() {
	fmt.Println("\033[33m\nWarning:\033[0m")
	fmt.Println("\033[33m- A '.geojson' file with the farm name should be present in data/geojsons folder.\033[0m")
	fmt.Println("\033[33m- The '.geojson' file should contain the desired field in its features identified by field_id.\n\033[0m")

	farm, fieldID, err := ReadFarmAndField()
	if err != nil {
		PrintError(err.Error())
		return
	}

	indexType, err := ReadIndexType()
	if err != nil {
		PrintError(err.Error())
		return
	}

	endDate, err := ReadDate("Enter the date to be analyzed (YYYY-MM-DD | today): ")
	if err != nil {
		PrintError(err.Error())
		return
	}

	field, err := fields.LoadField(farm, fieldID)
	if err != nil {
		PrintError(err.Error())
		return
	}

	ctx := context.Background()
	client, err := sentinel.NewClient(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Error creating imagery client: %s", err.Error()))
		return
	}

	startTime := time.Now()
	report, err := delivery.AnalyzeField(ctx, client, field, indexType, endDate)
	if err != nil {
		PrintError(fmt.Sprintf("Error analyzing field: %s", err.Error()))
		notification.SendDiscordErrorNotification(fmt.Sprintf("FieldVision CLI\n\nError analyzing field %s/%s: %s", farm, fieldID, err.Error()))
		return
	}

	printReport(report)

	csvPath, err := output.CreateReportCSV(report)
	if err != nil {
		PrintError(fmt.Sprintf("Error creating CSV report: %s", err.Error()))
		return
	}
	geojsonPath, err := output.CreateReportGeoJSON(report)
	if err != nil {
		PrintError(fmt.Sprintf("Error creating GeoJSON report: %s", err.Error()))
		return
	}
	imagePath, err := output.CreateReportImage(report)
	if err != nil {
		PrintError(fmt.Sprintf("Error creating overlay image: %s", err.Error()))
		return
	}

	elapsedTime := time.Since(startTime)
	PrintSuccess(fmt.Sprintf("Successful analysis!\n CSV report located at: %s\n GeoJSON report located at: %s\n Overlay image located at: %s", csvPath, geojsonPath, imagePath))
	notification.SendDiscordSuccessNotification(fmt.Sprintf("FieldVision CLI\n\nSuccessful field analysis!\n - Farm: %s\n - Field: %s\n - Index: %s\n - Date: %s\n - Health: %s\n - Processing time: %s", farm, fieldID, indexType, endDate.Format("2006-01-02"), report.FieldStatistics.OverallHealth, elapsedTime.String()))
}

func printReport(report *delivery.FieldReport) {
	fmt.Printf("\n%sField %s/%s | %s | %.1f acres%s\n", ColorGreen, report.Farm, report.FieldID, report.IndexType, report.AreaAcres, ColorReset)
	fmt.Printf("%sOverall health: %s | Mean: %.3f | Uniformity: %.1f%%%s\n", ColorGreen, report.FieldStatistics.OverallHealth, report.FieldStatistics.FieldMeanNDVI, report.FieldStatistics.FieldUniformity, ColorReset)

	fmt.Printf("\n%s%-10s %-16s %-8s %-10s %-10s %-8s%s\n", ColorBlue, "Zone", "Name", "Mean", "Health", "Cover %", "Pixels", ColorReset)
	for row := 0; row < geometry.GridSize; row++ {
		for col := 0; col < geometry.GridSize; col++ {
			stats, ok := report.ZoneStatistics[geometry.ZoneID(row, col)]
			if !ok {
				continue
			}
			fmt.Printf("%-10s %-16s %-8.3f %-10s %-10.1f %-8d\n", stats.Zone, stats.Name, stats.MeanNDVI, stats.HealthClassification, stats.VegetationCover, stats.PixelCount)
		}
	}

	if len(report.Recommendations) == 0 {
		return
	}
	fmt.Printf("\n%sRecommendations:%s\n", ColorYellow, ColorReset)
	for _, rec := range report.Recommendations {
		fmt.Printf("%s[P%d][%s] %s%s\n", ColorYellow, rec.Priority, strings.ToUpper(rec.Type), rec.Message, ColorReset)
		for _, action := range rec.Actions {
			fmt.Printf("%s  - %s%s\n", ColorYellow, action, ColorReset)
		}
	}
}
