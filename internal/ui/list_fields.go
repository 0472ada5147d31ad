package ui

import (
	"fmt"

	"github.com/fieldvision/fieldvision-api-poc/internal/fields"
)

// ListFields handles the UI for viewing the list of available fields in a farm
func ListFields(farm string) {
	PrintWarning("To add a field to a farm add the 'field_id' property at the '.geojson' file from the farm of your choice.\nThe 'field_id' property should be located at 'features[N]properties.field_id'.")

	if farm == "" {
		farm = ReadString("Enter the farm name: ")
	}

	fieldIDs, err := fields.ListFieldIDs(farm)
	if err != nil {
		PrintError(err.Error())
		return
	}

	fmt.Printf("\n%sAvailable fields:%s\n", ColorGreen, ColorReset)
	for _, fieldID := range fieldIDs {
		fmt.Printf("%s- %s%s\n", ColorGreen, fieldID, ColorReset)
	}
}
