package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// GridSize is the number of zone rows and columns a field is divided into.
const GridSize = 3

// fallbackZoneRadius is the point-buffer radius, in degrees, substituted when a
// grid cell has no overlap with the field outline.
const fallbackZoneRadius = 0.0001

// Compass labels are fixed by grid position. They describe the local grid, not
// geodetic compass directions, and are presentation only.
var zoneNames = [GridSize][GridSize]string{
	{"Northwest", "North", "Northeast"},
	{"West", "Center", "East"},
	{"Southwest", "South", "Southeast"},
}

// Zone is one cell of the 3x3 grid laid over a field, clipped to the field outline.
type Zone struct {
	Row, Col int
	Name     string
	Polygon  orb.Polygon
	Bound    orb.Bound
}

// ID returns the stable zone key used across statistics and reports.
func (z Zone) ID() string {
	return ZoneID(z.Row, z.Col)
}

func ZoneID(row, col int) string {
	return fmt.Sprintf("zone_%d_%d", row, col)
}

// ZoneName returns the compass label for a grid position.
func ZoneName(row, col int) string {
	return zoneNames[row][col]
}

// CreateZones divides a field into 9 zones aligned to the field's own principal
// axis. Zones are returned in row-major order and every grid position is always
// present: cells whose intersection with the field is empty get a small
// point-buffer at the cell's expected center instead.
func CreateZones(b Boundary) []Zone {
	ring := openRing(b.Polygon[0])
	centroid := b.Centroid()

	u := principalAxis(ring)
	v := orb.Point{-u[1], u[0]}

	// Scalar extents of the outline along the local frame.
	sMin, sMax := math.Inf(1), math.Inf(-1)
	tMin, tMax := math.Inf(1), math.Inf(-1)
	for _, p := range ring {
		s, t := project(p, centroid, u, v)
		sMin, sMax = math.Min(sMin, s), math.Max(sMax, s)
		tMin, tMax = math.Min(tMin, t), math.Max(tMax, t)
	}

	sStep := (sMax - sMin) / GridSize
	tStep := (tMax - tMin) / GridSize

	zones := make([]Zone, 0, GridSize*GridSize)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			s0 := sMin + float64(col)*sStep
			s1 := sMin + float64(col+1)*sStep
			t0 := tMin + float64(row)*tStep
			t1 := tMin + float64(row+1)*tStep

			// Cell corners in counterclockwise order, mapped back to lng/lat.
			cell := []orb.Point{
				unproject(s0, t0, centroid, u, v),
				unproject(s1, t0, centroid, u, v),
				unproject(s1, t1, centroid, u, v),
				unproject(s0, t1, centroid, u, v),
			}

			clipped := clipRingToConvex(ring, cell)
			var polygon orb.Polygon
			if clipped == nil {
				center := unproject((s0+s1)/2, (t0+t1)/2, centroid, u, v)
				polygon = pointBuffer(center, fallbackZoneRadius)
			} else {
				polygon = orb.Polygon{closeRing(clipped)}
			}

			zones = append(zones, Zone{
				Row:     row,
				Col:     col,
				Name:    zoneNames[row][col],
				Polygon: polygon,
				Bound:   polygon.Bound(),
			})
		}
	}

	return zones
}

// principalAxis returns the unit direction of the longest diagonal between two
// non-adjacent vertices. Ties resolve to the first pair found in iteration
// order. Triangles have no non-adjacent pairs, so the longest edge is used.
func principalAxis(ring []orb.Point) orb.Point {
	n := len(ring)
	best := -1.0
	axis := orb.Point{1, 0}

	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent across the wrap
			}
			if d := distSq(ring[i], ring[j]); d > best {
				best = d
				axis = orb.Point{ring[j][0] - ring[i][0], ring[j][1] - ring[i][1]}
			}
		}
	}

	if best <= 0 {
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if d := distSq(ring[i], ring[j]); d > best {
				best = d
				axis = orb.Point{ring[j][0] - ring[i][0], ring[j][1] - ring[i][1]}
			}
		}
	}

	length := math.Hypot(axis[0], axis[1])
	if length == 0 {
		return orb.Point{1, 0}
	}
	return orb.Point{axis[0] / length, axis[1] / length}
}

func project(p, origin, u, v orb.Point) (float64, float64) {
	dx := p[0] - origin[0]
	dy := p[1] - origin[1]
	return dx*u[0] + dy*u[1], dx*v[0] + dy*v[1]
}

func unproject(s, t float64, origin, u, v orb.Point) orb.Point {
	return orb.Point{
		origin[0] + s*u[0] + t*v[0],
		origin[1] + s*u[1] + t*v[1],
	}
}

func pointBuffer(center orb.Point, radius float64) orb.Polygon {
	const segments = 16
	ring := make(orb.Ring, 0, segments+1)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / segments
		ring = append(ring, orb.Point{
			center[0] + radius*math.Cos(angle),
			center[1] + radius*math.Sin(angle),
		})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

func openRing(ring orb.Ring) []orb.Point {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}

func closeRing(points []orb.Point) orb.Ring {
	ring := make(orb.Ring, len(points), len(points)+1)
	copy(ring, points)
	return append(ring, ring[0])
}

func distSq(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
