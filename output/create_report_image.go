package output

import (
	"bytes"
	"fmt"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/fieldvision/fieldvision-api-poc/internal/delivery"
	"github.com/fieldvision/fieldvision-api-poc/internal/properties"
)

// CreateReportImage renders the zone health overlay on top of the analyzed
// imagery and returns the file path. Each zone is tinted with its health color
// and outlined, so the grid alignment is visible against the raw render.
func CreateReportImage(report *delivery.FieldReport) (string, error) {
	imagePNG := report.ImagePNG
	bbox := report.BBox
	resultDir := fmt.Sprintf("%s/data/result/%s/%s", properties.RootPath(), report.Farm, report.FieldID)
	if err := os.MkdirAll(resultDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %v", err)
	}

	outputPath := fmt.Sprintf("%s/%s_%s_%s_%s_overlay.png",
		resultDir, report.Farm, report.FieldID, report.IndexType, report.AnalyzedAt.Format("2006-01-02"))

	src, err := png.Decode(bytes.NewReader(imagePNG))
	if err != nil {
		return "", fmt.Errorf("failed to decode source image: %v", err)
	}

	width := src.Bounds().Dx()
	height := src.Bounds().Dy()

	dc := gg.NewContext(width, height)
	dc.DrawImage(src, 0, 0)

	for _, zone := range report.Zones {
		stats, ok := report.ZoneStatistics[zone.ID()]
		if !ok {
			continue
		}
		healthColor := properties.HealthColorMap[stats.HealthClassification]

		tracePolygon(dc, zone.Polygon, bbox, width, height)
		dc.SetRGBA255(int(healthColor.R), int(healthColor.G), int(healthColor.B), 90)
		dc.FillPreserve()
		dc.SetRGBA255(int(healthColor.R), int(healthColor.G), int(healthColor.B), 255)
		dc.SetLineWidth(2)
		dc.Stroke()
	}

	if err := dc.SavePNG(outputPath); err != nil {
		return "", fmt.Errorf("failed to save overlay image: %v", err)
	}

	fmt.Println("Overlay image created successfully at", outputPath)
	return outputPath, nil
}

func tracePolygon(dc *gg.Context, polygon orb.Polygon, bbox orb.Bound, width, height int) {
	if len(polygon) == 0 {
		return
	}
	dx := bbox.Max[0] - bbox.Min[0]
	dy := bbox.Max[1] - bbox.Min[1]
	if dx == 0 || dy == 0 {
		return
	}

	for i, pt := range polygon[0] {
		x := (pt[0] - bbox.Min[0]) / dx * float64(width)
		y := (1 - (pt[1]-bbox.Min[1])/dy) * float64(height)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}
