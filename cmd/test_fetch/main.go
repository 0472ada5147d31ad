package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fieldvision/fieldvision-api-poc/internal/fields"
	"github.com/fieldvision/fieldvision-api-poc/internal/properties"
	"github.com/fieldvision/fieldvision-api-poc/internal/sentinel"
	"github.com/joho/godotenv"
)

func main() {
	// Hardcoded test parameters - modify these to test different scenarios
	farm := "demo-farm"
	fieldID := "1"
	indexType := sentinel.IndexNDVI
	testDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	fmt.Println("=== FieldVision Test Image Fetch ===")
	fmt.Printf("Farm: %s\n", farm)
	fmt.Printf("Field: %s\n", fieldID)
	fmt.Printf("Index: %s\n", indexType)
	fmt.Printf("Date: %s\n", testDate.Format("2006-01-02"))
	fmt.Println()

	// Load environment variables
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		fmt.Println("Make sure you have set the required environment variables:")
		fmt.Println("- SENTINEL_HUB_CLIENT_ID")
		fmt.Println("- SENTINEL_HUB_CLIENT_SECRET")
		fmt.Println("- ROOT_PATH")
		fmt.Println()
	}

	fmt.Printf("Loading boundary for farm '%s', field '%s'...\n", farm, fieldID)
	field, err := fields.LoadField(farm, fieldID)
	if err != nil {
		log.Fatalf("Failed to load field: %v", err)
	}
	fmt.Printf("✓ Boundary loaded, area: %.1f acres\n", field.Boundary.AreaAcres())

	ctx := context.Background()
	client, err := sentinel.NewClient(ctx)
	if err != nil {
		log.Fatalf("Failed to create imagery client: %v", err)
	}

	fmt.Println("Fetching imagery...")
	result, err := client.FetchImage(field.Boundary.BBox(), &field.Boundary, indexType, testDate)
	if err != nil {
		log.Fatalf("Failed to fetch imagery: %v", err)
	}
	if result.Status == sentinel.FetchNoData {
		fmt.Println("No cloud-free imagery available in any lookback window")
		return
	}

	fmt.Printf("✓ Imagery fetched: %dx%d pixels, %d day window\n", result.Width, result.Height, result.WindowDays)

	outputDir := fmt.Sprintf("%s/data/images/%s_%s", properties.RootPath(), farm, fieldID)
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create output folder: %v", err)
	}
	outputPath := fmt.Sprintf("%s/%s_%s.png", outputDir, indexType, testDate.Format("2006-01-02"))
	if err := os.WriteFile(outputPath, result.PNG, 0644); err != nil {
		log.Fatalf("Failed to write image: %v", err)
	}
	fmt.Printf("✓ Image saved at %s\n", outputPath)
}
