package sentinel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
)

func decodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %v", err)
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %v", err)
	}
	return buf.Bytes(), nil
}

// ApplyPolygonMask composites the source image onto a transparent canvas
// through the field outline, rasterized at the image's actual resolution.
// Pixels outside the field end up fully transparent, so the analyzer excludes
// them instead of averaging them in as zero.
func ApplyPolygonMask(src image.Image, boundary geometry.Boundary, bbox orb.Bound) image.Image {
	width := src.Bounds().Dx()
	height := src.Bounds().Dy()

	dc := gg.NewContext(width, height)
	dc.SetColor(color.Transparent)
	dc.Clear()

	ring := boundary.Polygon[0]
	for i, pt := range ring {
		x, y := geoToPixelF(pt, bbox, width, height)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.Clip()
	dc.DrawImage(src, 0, 0)

	return dc.Image()
}

// geoToPixelF is the continuous counterpart of geometry.GeoToPixel, used for
// sub-pixel path construction.
func geoToPixelF(pt orb.Point, bbox orb.Bound, width, height int) (float64, float64) {
	dx := bbox.Max[0] - bbox.Min[0]
	dy := bbox.Max[1] - bbox.Min[1]
	if dx == 0 || dy == 0 {
		return 0, 0
	}
	normX := (pt[0] - bbox.Min[0]) / dx
	normY := (pt[1] - bbox.Min[1]) / dy
	return normX * float64(width), (1 - normY) * float64(height)
}

// imageLooksEmpty reports whether a render contains no signal at all, which is
// how an acquisition-free window comes back from the provider.
func imageLooksEmpty(img image.Image) bool {
	bounds := img.Bounds()
	if bounds.Empty() {
		return true
	}

	// Sample a coarse grid rather than every pixel.
	const step = 16
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			if a > 0 && (r > 0x200 || g > 0x200 || b > 0x200) {
				return false
			}
		}
	}
	return true
}
