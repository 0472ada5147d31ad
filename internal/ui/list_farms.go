package ui

import (
	"fmt"

	"github.com/fieldvision/fieldvision-api-poc/internal/fields"
)

// ListFarms handles the UI for viewing the list of available farms
func ListFarms() {
	farms, err := fields.ListFarms()
	if err != nil {
		PrintError(fmt.Sprintf("Error reading geojsons folder: %s", err.Error()))
		return
	}

	PrintWarning("To add a new farm, add its '.geojson' file at 'data/geojsons' folder.")

	fmt.Printf("\n%sAvailable farms:%s\n", ColorGreen, ColorReset)
	for _, farm := range farms {
		fmt.Printf("%s- %s%s\n", ColorGreen, farm, ColorReset)
	}
}
