package recommendation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fieldvision/fieldvision-api-poc/internal/weather"
)

// Recommendation is a typed, prioritized advisory. Priority 1 is most urgent.
type Recommendation struct {
	Type     string   `json:"type"`
	Zone     string   `json:"zone"`
	Message  string   `json:"message"`
	Priority int      `json:"priority"`
	Actions  []string `json:"actions"`
}

// Generate maps per-zone index values, plus optional weather aggregates, to a
// ranked advisory list. It is pure: no I/O, no stored state. Invalid zone
// values are filtered, an empty input yields an empty list, and the result is
// stable-sorted ascending by priority.
func Generate(zoneValues map[string]float64, summary *weather.Summary, now time.Time) []Recommendation {
	valid := make(map[string]float64, len(zoneValues))
	for zone, value := range zoneValues {
		if math.IsNaN(value) || math.IsInf(value, 0) || value < -1 || value > 1 {
			continue
		}
		valid[zone] = value
	}
	if len(valid) == 0 {
		return []Recommendation{}
	}

	zoneIDs := make([]string, 0, len(valid))
	for zone := range valid {
		zoneIDs = append(zoneIDs, zone)
	}
	sort.Strings(zoneIDs)

	var recommendations []Recommendation
	for _, zoneID := range zoneIDs {
		recommendations = append(recommendations, zoneRecommendations(zoneID, valid[zoneID])...)
	}

	recommendations = append(recommendations, fieldRecommendations(valid)...)
	if summary != nil {
		recommendations = append(recommendations, weatherRecommendations(*summary)...)
	}
	recommendations = append(recommendations, seasonalRecommendation(now.Month(), fieldAverage(valid))...)

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority < recommendations[j].Priority
	})

	return recommendations
}

func zoneRecommendations(zoneID string, value float64) []Recommendation {
	zoneName := displayName(zoneID)

	switch {
	case value < 0.1:
		return []Recommendation{{
			Type:     "critical",
			Zone:     zoneName,
			Message:  fmt.Sprintf("Critical vegetation stress detected in %s. Immediate irrigation and soil testing recommended.", zoneName),
			Priority: 1,
			Actions: []string{
				"Increase irrigation frequency",
				"Test soil pH and nutrients",
				"Check for pest or disease issues",
				"Consider replanting if necessary",
			},
		}}
	case value < 0.3:
		return []Recommendation{{
			Type:     "warning",
			Zone:     zoneName,
			Message:  fmt.Sprintf("Moderate vegetation stress in %s. Monitor closely and consider intervention.", zoneName),
			Priority: 2,
			Actions: []string{
				"Increase irrigation in this area",
				"Monitor for signs of disease or pests",
				"Consider fertilizer application",
				"Check drainage conditions",
			},
		}}
	case value < 0.5:
		return []Recommendation{{
			Type:     "info",
			Zone:     zoneName,
			Message:  fmt.Sprintf("Fair vegetation health in %s. Some improvement possible.", zoneName),
			Priority: 3,
			Actions: []string{
				"Monitor irrigation needs",
				"Consider nutrient supplementation",
				"Regular health monitoring",
			},
		}}
	case value > 0.7:
		return []Recommendation{{
			Type:     "success",
			Zone:     zoneName,
			Message:  fmt.Sprintf("Excellent vegetation health in %s. Continue current management practices.", zoneName),
			Priority: 4,
			Actions: []string{
				"Maintain current irrigation schedule",
				"Continue monitoring",
				"Use as reference for other zones",
			},
		}}
	}
	return nil
}

func fieldRecommendations(zoneValues map[string]float64) []Recommendation {
	avg := fieldAverage(zoneValues)
	variance := fieldVariance(zoneValues, avg)

	var recommendations []Recommendation
	if avg < 0.3 {
		recommendations = append(recommendations, Recommendation{
			Type:     "critical",
			Zone:     "Overall Field",
			Message:  "Overall field health is poor. Comprehensive intervention needed.",
			Priority: 1,
			Actions: []string{
				"Review irrigation system coverage",
				"Conduct comprehensive soil analysis",
				"Evaluate crop variety suitability",
				"Consider consulting agricultural specialist",
			},
		})
	} else if avg > 0.6 {
		recommendations = append(recommendations, Recommendation{
			Type:     "success",
			Zone:     "Overall Field",
			Message:  "Overall field health is excellent. Maintain current practices.",
			Priority: 5,
			Actions: []string{
				"Continue current management",
				"Document successful practices",
				"Monitor for seasonal changes",
			},
		})
	}

	if variance > 0.1 {
		recommendations = append(recommendations, Recommendation{
			Type:     "warning",
			Zone:     "Field Uniformity",
			Message:  "Significant variation in vegetation health across field zones.",
			Priority: 2,
			Actions: []string{
				"Check irrigation system uniformity",
				"Evaluate soil conditions across field",
				"Consider variable rate application of inputs",
				"Address drainage issues if present",
			},
		})
	}

	return recommendations
}

func weatherRecommendations(summary weather.Summary) []Recommendation {
	var recommendations []Recommendation

	if summary.TotalRainfall7d < 5 && summary.AvgTemperature7d > 25 {
		recommendations = append(recommendations, Recommendation{
			Type:     "warning",
			Zone:     "Weather",
			Message:  fmt.Sprintf("Hot and dry week (%.1f mm rain, %.1f°C average). Elevated drought risk.", summary.TotalRainfall7d, summary.AvgTemperature7d),
			Priority: 2,
			Actions: []string{
				"Increase irrigation to compensate for low rainfall",
				"Prioritize stressed zones for watering",
				"Monitor soil moisture daily",
			},
		})
	} else if summary.TotalRainfall7d > 50 {
		recommendations = append(recommendations, Recommendation{
			Type:     "info",
			Zone:     "Weather",
			Message:  fmt.Sprintf("Heavy rainfall this week (%.1f mm). Watch for waterlogging.", summary.TotalRainfall7d),
			Priority: 3,
			Actions: []string{
				"Check field drainage",
				"Delay further irrigation",
				"Watch for fungal disease pressure",
			},
		})
	}

	return recommendations
}

func seasonalRecommendation(month time.Month, avg float64) []Recommendation {
	switch {
	case month >= time.March && month <= time.May:
		if avg < 0.4 {
			return []Recommendation{{
				Type:     "info",
				Zone:     "Seasonal",
				Message:  "Spring growth appears slow. Consider early season fertilization.",
				Priority: 3,
				Actions: []string{
					"Apply nitrogen fertilizer",
					"Ensure adequate soil moisture",
					"Monitor temperature conditions",
				},
			}}
		}
		return nil
	case month >= time.June && month <= time.August:
		return []Recommendation{{
			Type:     "info",
			Zone:     "Seasonal",
			Message:  "Peak growing season. Monitor irrigation needs closely.",
			Priority: 3,
			Actions: []string{
				"Increase irrigation frequency",
				"Monitor for heat stress",
				"Watch for pest activity",
			},
		}}
	case month >= time.September && month <= time.November:
		return []Recommendation{{
			Type:     "info",
			Zone:     "Seasonal",
			Message:  "Harvest season approaching. Prepare for crop maturity assessment.",
			Priority: 4,
			Actions: []string{
				"Monitor crop maturity",
				"Plan harvest timing",
				"Reduce irrigation as appropriate",
			},
		}}
	default:
		return []Recommendation{{
			Type:     "info",
			Zone:     "Seasonal",
			Message:  "Winter season. Plan for next growing season.",
			Priority: 5,
			Actions: []string{
				"Plan crop rotation",
				"Soil preparation",
				"Equipment maintenance",
			},
		}}
	}
}

// displayName converts a zone_<row>_<col> key into a readable label. Unknown
// formats pass through unchanged.
func displayName(zoneID string) string {
	parts := strings.Split(zoneID, "_")
	if len(parts) != 3 {
		return zoneID
	}
	row, err1 := strconv.Atoi(parts[1])
	col, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || row < 0 || row > 2 || col < 0 || col > 2 {
		return zoneID
	}

	rowNames := []string{"Northern", "Central", "Southern"}
	colNames := []string{"Western", "Central", "Eastern"}

	switch {
	case row == 1 && col == 1:
		return "Center Zone"
	case row == 1:
		return fmt.Sprintf("Central %s Zone", colNames[col])
	case col == 1:
		return fmt.Sprintf("%s Central Zone", rowNames[row])
	default:
		return fmt.Sprintf("%s %s Zone", rowNames[row], colNames[col])
	}
}

func fieldAverage(zoneValues map[string]float64) float64 {
	if len(zoneValues) == 0 {
		return 0
	}
	var sum float64
	for _, v := range zoneValues {
		sum += v
	}
	return sum / float64(len(zoneValues))
}

func fieldVariance(zoneValues map[string]float64, mean float64) float64 {
	if len(zoneValues) == 0 {
		return 0
	}
	var sum float64
	for _, v := range zoneValues {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(zoneValues))
}
