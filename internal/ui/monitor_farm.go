package ui

import (
	"context"
	"fmt"

	"github.com/fieldvision/fieldvision-api-poc/internal/monitor"
	"github.com/fieldvision/fieldvision-api-poc/internal/sentinel"
)

// MonitorFarm handles the UI for analyzing every field of a farm and reporting
// the urgent findings
func MonitorFarm() {
	fmt.Println("\033[33m\nWarning:\033[0m")
	fmt.Println("\033[33m- Every field of the farm will be analyzed, which may take a while for large farms.\n\033[0m")

	PrintInfo("Available farms: ")
	ListFarms()
	farm := ReadString("Enter the farm name: ")
	if farm == "" {
		PrintError("farm name cannot be empty")
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

	ctx := context.Background()
	client, err := sentinel.NewClient(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Error creating imagery client: %s", err.Error()))
		return
	}

	result, err := monitor.MonitorFarm(ctx, client, farm, indexType, endDate)
	if err != nil {
		PrintError(fmt.Sprintf("Error monitoring farm: %s", err.Error()))
		return
	}

	PrintSuccess(fmt.Sprintf("Farm %s monitored.\n - Fields analyzed: %d\n - Fields without imagery: %d\n - Urgent alerts: %d\n - Errors: %d", farm, result.Analyzed, result.NoData, len(result.Alerts), len(result.Errors)))
	for _, alert := range result.Alerts {
		fmt.Printf("%s[URGENT] field %s:%s\n", ColorRed, alert.FieldID, ColorReset)
		for _, rec := range alert.Recommendations {
			fmt.Printf("%s  - %s: %s%s\n", ColorRed, rec.Zone, rec.Message, ColorReset)
		}
	}
}
