package ndvi

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
)

// Thresholds for derived percentages.
const (
	vegetationCoverThreshold = 0.2
	stressThreshold          = 0.3
)

// DefaultSamplesPerAxis is the sample grid density per zone axis.
const DefaultSamplesPerAxis = 20

// ZoneStatistics summarizes the reconstructed index inside one zone.
type ZoneStatistics struct {
	Zone                 string  `json:"zone" csv:"zone"`
	Name                 string  `json:"name" csv:"name"`
	MeanNDVI             float64 `json:"mean_ndvi" csv:"mean_ndvi"`
	MedianNDVI           float64 `json:"median_ndvi" csv:"median_ndvi"`
	StdNDVI              float64 `json:"std_ndvi" csv:"std_ndvi"`
	MinNDVI              float64 `json:"min_ndvi" csv:"min_ndvi"`
	MaxNDVI              float64 `json:"max_ndvi" csv:"max_ndvi"`
	HealthClassification string  `json:"health_classification" csv:"health_classification"`
	VegetationCover      float64 `json:"vegetation_cover" csv:"vegetation_cover"`
	StressPercentage     float64 `json:"stress_percentage" csv:"stress_percentage"`
	PixelCount           int     `json:"pixel_count" csv:"pixel_count"`
}

// FieldStatistics summarizes the whole field.
type FieldStatistics struct {
	OverallHealth          string             `json:"overall_health"`
	FieldMeanNDVI          float64            `json:"field_mean_ndvi"`
	FieldUniformity        float64            `json:"field_uniformity"`
	HealthyZones           int                `json:"healthy_zones"`
	StressedZones          int                `json:"stressed_zones"`
	TotalZones             int                `json:"total_zones"`
	ZoneHealthDistribution map[string]float64 `json:"zone_health_distribution"`
}

// Aggregator samples an index raster through zone geometries and produces
// descriptive statistics per zone.
type Aggregator struct {
	SamplesPerAxis int
}

func NewAggregator() *Aggregator {
	return &Aggregator{SamplesPerAxis: DefaultSamplesPerAxis}
}

// Analyze computes statistics for every zone plus field-level aggregates.
// The bbox must be the geographic bounding box the raster was rendered for.
func (a *Aggregator) Analyze(grid *IndexGrid, zones []geometry.Zone, bbox orb.Bound) (map[string]ZoneStatistics, FieldStatistics) {
	zoneStats := make(map[string]ZoneStatistics, len(zones))
	for _, zone := range zones {
		zoneStats[zone.ID()] = a.ZoneStatistics(grid, zone, bbox)
	}
	return zoneStats, a.FieldStatistics(grid, zoneStats)
}

// ZoneStatistics samples one zone. Zones that yield no valid samples produce
// zero-filled statistics classified "unknown" rather than an error.
func (a *Aggregator) ZoneStatistics(grid *IndexGrid, zone geometry.Zone, bbox orb.Bound) ZoneStatistics {
	samples := a.sampleZone(grid, zone, bbox)

	if len(samples) == 0 {
		return ZoneStatistics{
			Zone:                 zone.ID(),
			Name:                 zone.Name,
			HealthClassification: "unknown",
			StressPercentage:     100.0,
		}
	}

	data := stats.Float64Data(samples)
	mean, _ := data.Mean()
	median, _ := data.Median()
	std, _ := data.StandardDeviation()
	minVal, _ := data.Min()
	maxVal, _ := data.Max()

	vegetated := 0
	stressed := 0
	for _, v := range samples {
		if v > vegetationCoverThreshold {
			vegetated++
		}
		if v < stressThreshold {
			stressed++
		}
	}
	total := float64(len(samples))

	return ZoneStatistics{
		Zone:                 zone.ID(),
		Name:                 zone.Name,
		MeanNDVI:             round3(mean),
		MedianNDVI:           round3(median),
		StdNDVI:              round3(std),
		MinNDVI:              round3(minVal),
		MaxNDVI:              round3(maxVal),
		HealthClassification: ClassifyHealth(mean),
		VegetationCover:      round1(float64(vegetated) / total * 100),
		StressPercentage:     round1(float64(stressed) / total * 100),
		PixelCount:           len(samples),
	}
}

// sampleZone walks a dense regular grid over the zone's bounding box, keeps
// points inside the clipped zone shape, maps them into the raster and reads
// finite index values. An empty harvest falls back to the zone centroid.
func (a *Aggregator) sampleZone(grid *IndexGrid, zone geometry.Zone, bbox orb.Bound) []float64 {
	perAxis := a.SamplesPerAxis
	if perAxis < 2 {
		perAxis = DefaultSamplesPerAxis
	}

	minX, minY := zone.Bound.Min[0], zone.Bound.Min[1]
	maxX, maxY := zone.Bound.Max[0], zone.Bound.Max[1]

	var samples []float64
	for i := 0; i < perAxis; i++ {
		for j := 0; j < perAxis; j++ {
			pt := orb.Point{
				minX + float64(i)/float64(perAxis-1)*(maxX-minX),
				minY + float64(j)/float64(perAxis-1)*(maxY-minY),
			}
			if !planar.PolygonContains(zone.Polygon, pt) {
				continue
			}
			px, py := geometry.GeoToPixel(pt, bbox, grid.Width, grid.Height)
			if v := grid.At(px, py); isFinite(v) {
				samples = append(samples, v)
			}
		}
	}

	if len(samples) == 0 {
		centroid, _ := planar.CentroidArea(zone.Polygon)
		px, py := geometry.GeoToPixel(centroid, bbox, grid.Width, grid.Height)
		if v := grid.At(px, py); isFinite(v) {
			samples = append(samples, v)
		}
	}

	return samples
}

// FieldStatistics aggregates the whole raster plus the per-zone results.
func (a *Aggregator) FieldStatistics(grid *IndexGrid, zoneStats map[string]ZoneStatistics) FieldStatistics {
	var valid []float64
	for _, v := range grid.Values() {
		if isFinite(v) {
			valid = append(valid, v)
		}
	}

	if len(valid) == 0 {
		return FieldStatistics{
			OverallHealth:          "unknown",
			TotalZones:             len(zoneStats),
			ZoneHealthDistribution: healthDistribution(zoneStats),
		}
	}

	data := stats.Float64Data(valid)
	mean, _ := data.Mean()
	std, _ := data.StandardDeviation()

	healthy := 0
	stressed := 0
	for _, zs := range zoneStats {
		if zs.PixelCount == 0 {
			continue
		}
		if zs.MeanNDVI > 0.5 {
			healthy++
		}
		if zs.MeanNDVI < 0.3 {
			stressed++
		}
	}

	return FieldStatistics{
		OverallHealth:          ClassifyHealth(mean),
		FieldMeanNDVI:          round3(mean),
		FieldUniformity:        round1(math.Max(0, 100-std*200)),
		HealthyZones:           healthy,
		StressedZones:          stressed,
		TotalZones:             len(zoneStats),
		ZoneHealthDistribution: healthDistribution(zoneStats),
	}
}

// ClassifyHealth maps a mean index value onto the five-level health scale.
func ClassifyHealth(value float64) string {
	switch {
	case value >= 0.7:
		return "excellent"
	case value >= 0.5:
		return "good"
	case value >= 0.3:
		return "fair"
	case value >= 0.1:
		return "poor"
	default:
		return "critical"
	}
}

func healthDistribution(zoneStats map[string]ZoneStatistics) map[string]float64 {
	distribution := map[string]float64{
		"excellent": 0, "good": 0, "fair": 0, "poor": 0, "critical": 0,
	}
	for _, zs := range zoneStats {
		if _, known := distribution[zs.HealthClassification]; known {
			distribution[zs.HealthClassification]++
		}
	}
	if total := float64(len(zoneStats)); total > 0 {
		for key := range distribution {
			distribution[key] = round1(distribution[key] / total * 100)
		}
	}
	return distribution
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
