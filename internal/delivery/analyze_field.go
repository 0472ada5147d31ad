package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/fieldvision/fieldvision-api-poc/internal/cache"
	"github.com/fieldvision/fieldvision-api-poc/internal/fields"
	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
	"github.com/fieldvision/fieldvision-api-poc/internal/ndvi"
	"github.com/fieldvision/fieldvision-api-poc/internal/recommendation"
	"github.com/fieldvision/fieldvision-api-poc/internal/sentinel"
	"github.com/fieldvision/fieldvision-api-poc/internal/weather"
)

// ErrNoImagery is returned when the provider has no cloud-free imagery for the
// field in any lookback window.
var ErrNoImagery = errors.New("no cloud-free imagery available for this field")

// imageCacheMaxAge bounds how old a cached acquisition may be before a fresh
// fetch is forced.
const imageCacheMaxAge = 30 * 24 * time.Hour

// CachedImage is the imagery cache entry, keyed by farm, field and index type.
type CachedImage struct {
	PNG       []byte    `json:"png"`
	IndexType string    `json:"index_type"`
	FetchedAt time.Time `json:"fetched_at"`
}

// FieldReport is the full outcome of one field analysis.
type FieldReport struct {
	Farm            string                         `json:"farm"`
	FieldID         string                         `json:"field_id"`
	IndexType       string                         `json:"index_type"`
	AnalyzedAt      time.Time                      `json:"analyzed_at"`
	AreaAcres       float64                        `json:"area_acres"`
	ImageWidth      int                            `json:"image_width"`
	ImageHeight     int                            `json:"image_height"`
	Zones           []geometry.Zone                `json:"-"`
	BBox            orb.Bound                      `json:"-"`
	ImagePNG        []byte                         `json:"-"`
	ZoneStatistics  map[string]ndvi.ZoneStatistics `json:"zone_statistics"`
	FieldStatistics ndvi.FieldStatistics           `json:"field_statistics"`
	Recommendations []recommendation.Recommendation `json:"recommendations"`
	Weather         *weather.Summary               `json:"weather,omitempty"`
}

// AnalyzeField runs the full pipeline for one field: concurrent imagery and
// weather acquisition, index reconstruction, zone statistics and
// recommendations. Weather failures degrade to a report without weather
// advisories; imagery failures abort the analysis.
func AnalyzeField(ctx context.Context, client *sentinel.Client, field fields.Field, indexType sentinel.IndexType, endDate time.Time) (*FieldReport, error) {
	start := time.Now()
	fmt.Printf("Starting %s analysis for farm %s field %s\n", indexType, field.Farm, field.ID)

	bbox := field.Boundary.BBox()
	centroid := field.Boundary.Centroid()

	var imagePNG []byte
	var summary *weather.Summary

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		imagePNG, err = fetchImageCached(client, field, indexType, endDate)
		return err
	})
	g.Go(func() error {
		history, err := weather.FetchWeather(centroid[1], centroid[0], endDate.AddDate(0, 0, -7), endDate, 3)
		if err != nil {
			fmt.Printf("Weather fetch failed, continuing without weather data: %v\n", err)
			return nil
		}
		s := weather.Summarize(history)
		summary = &s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	fmt.Printf("Step 1 completed: imagery and weather acquired in %s\n", time.Since(start))

	img, err := png.Decode(bytes.NewReader(imagePNG))
	if err != nil {
		return nil, fmt.Errorf("failed to decode field image: %v", err)
	}

	grid := ndvi.NewInverter().InvertImage(img)
	fmt.Printf("Step 2 completed: index reconstructed for %dx%d raster\n", grid.Width, grid.Height)

	zones := geometry.CreateZones(field.Boundary)
	zoneStats, fieldStats := ndvi.NewAggregator().Analyze(grid, zones, bbox)
	fmt.Printf("Step 3 completed: %d zones aggregated\n", len(zoneStats))

	zoneValues := make(map[string]float64, len(zoneStats))
	for zoneID, stats := range zoneStats {
		if stats.PixelCount > 0 {
			zoneValues[zoneID] = stats.MeanNDVI
		}
	}
	recommendations := recommendation.Generate(zoneValues, summary, endDate)
	fmt.Printf("Step 4 completed: %d recommendations generated, total time %s\n", len(recommendations), time.Since(start))

	return &FieldReport{
		Farm:            field.Farm,
		FieldID:         field.ID,
		IndexType:       indexType.String(),
		AnalyzedAt:      time.Now(),
		AreaAcres:       field.Boundary.AreaAcres(),
		ImageWidth:      grid.Width,
		ImageHeight:     grid.Height,
		Zones:           zones,
		BBox:            bbox,
		ImagePNG:        imagePNG,
		ZoneStatistics:  zoneStats,
		FieldStatistics: fieldStats,
		Recommendations: recommendations,
		Weather:         summary,
	}, nil
}

// fetchImageCached serves masked imagery from the file cache when a fresh
// acquisition exists, fetching and caching otherwise.
func fetchImageCached(client *sentinel.Client, field fields.Field, indexType sentinel.IndexType, endDate time.Time) ([]byte, error) {
	imageCache := cache.NewFileCache[CachedImage]("imagery")
	key := imageCache.GenerateKey(field.Farm, field.ID, indexType.String(), endDate.Format("2006-01-02"))

	if cached, ok := imageCache.GetFresh(key, imageCacheMaxAge); ok {
		fmt.Printf("Using cached imagery for farm %s field %s\n", field.Farm, field.ID)
		return cached.PNG, nil
	}

	result, err := client.FetchImage(field.Boundary.BBox(), &field.Boundary, indexType, endDate)
	if err != nil {
		return nil, err
	}
	if result.Status == sentinel.FetchNoData {
		return nil, ErrNoImagery
	}

	entry := CachedImage{PNG: result.PNG, IndexType: indexType.String(), FetchedAt: time.Now()}
	if err := imageCache.Set(key, entry); err != nil {
		fmt.Printf("Failed to cache imagery: %v\n", err)
	}

	return result.PNG, nil
}
