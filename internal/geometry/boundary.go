package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// ErrDegenerateBoundary is returned when a field outline cannot form a usable polygon.
var ErrDegenerateBoundary = errors.New("degenerate field boundary")

const squareMetersPerAcre = 4046.8564224

// Boundary is a field outline. The ring is stored in (lng, lat) order and is always closed.
type Boundary struct {
	Polygon orb.Polygon
}

// NewBoundary builds a boundary from ordered (lat, lng) vertex pairs.
// The outline is auto-closed when the last vertex does not repeat the first.
func NewBoundary(coords [][]float64) (Boundary, error) {
	points := make([]orb.Point, 0, len(coords))
	for _, coord := range coords {
		if len(coord) != 2 {
			return Boundary{}, fmt.Errorf("%w: vertex must be a (lat, lng) pair, got %v", ErrDegenerateBoundary, coord)
		}
		lat, lng := coord[0], coord[1]
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return Boundary{}, fmt.Errorf("%w: vertex (%f, %f) outside geographic range", ErrDegenerateBoundary, lat, lng)
		}
		points = append(points, orb.Point{lng, lat})
	}

	// Drop an explicit closing vertex before validating the vertex count.
	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return Boundary{}, fmt.Errorf("%w: need at least 3 vertices, got %d", ErrDegenerateBoundary, len(points))
	}

	ring := orb.Ring(append(points, points[0]))
	if planar.Area(orb.Polygon{ring}) == 0 {
		return Boundary{}, fmt.Errorf("%w: zero-area outline", ErrDegenerateBoundary)
	}

	return Boundary{Polygon: orb.Polygon{ring}}, nil
}

// BBox returns the axis-aligned bounding box of the boundary.
func (b Boundary) BBox() orb.Bound {
	return b.Polygon.Bound()
}

// Centroid returns the area-weighted centroid of the boundary.
func (b Boundary) Centroid() orb.Point {
	centroid, _ := planar.CentroidArea(b.Polygon)
	return centroid
}

// AreaAcres returns the geodesic field area in acres.
func (b Boundary) AreaAcres() float64 {
	return math.Abs(geo.Area(b.Polygon)) / squareMetersPerAcre
}

// GeoToPixel maps a geographic point into the pixel grid of a raster covering bbox.
// Row zero of the raster is the northern edge, so the latitude axis is inverted.
func GeoToPixel(pt orb.Point, bbox orb.Bound, width, height int) (int, int) {
	dx := bbox.Max[0] - bbox.Min[0]
	dy := bbox.Max[1] - bbox.Min[1]
	if dx == 0 || dy == 0 {
		return 0, 0
	}

	normX := (pt[0] - bbox.Min[0]) / dx
	normY := (pt[1] - bbox.Min[1]) / dy

	x := int(normX * float64(width))
	y := int((1 - normY) * float64(height))

	return clampPixel(x, width), clampPixel(y, height)
}

func clampPixel(v, size int) int {
	if v < 0 {
		return 0
	}
	if v >= size {
		return size - 1
	}
	return v
}
