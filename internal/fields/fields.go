package fields

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
	"github.com/fieldvision/fieldvision-api-poc/internal/properties"
)

// Field is one analyzable parcel of a farm, loaded from the farm's GeoJSON
// file. Features are identified by a field_id property.
type Field struct {
	ID       string
	Farm     string
	Boundary geometry.Boundary
}

func geojsonDir() string {
	return properties.RootPath() + "/data/geojsons"
}

// ListFarms returns the farms that have a GeoJSON file under data/geojsons.
func ListFarms() ([]string, error) {
	entries, err := os.ReadDir(geojsonDir())
	if err != nil {
		return nil, fmt.Errorf("error reading geojsons folder: %v", err)
	}

	var farms []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".geojson") {
			farms = append(farms, strings.TrimSuffix(entry.Name(), ".geojson"))
		}
	}
	return farms, nil
}

// LoadFarm reads every field of a farm's GeoJSON file. Features without a
// usable field_id or polygon geometry are skipped.
func LoadFarm(farm string) ([]Field, error) {
	path := fmt.Sprintf("%s/%s.geojson", geojsonDir(), farm)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %v", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding GeoJSON: %v", err)
	}

	var result []Field
	for _, feature := range fc.Features {
		fieldID, ok := feature.Properties["field_id"].(string)
		if !ok {
			continue
		}

		boundary, err := boundaryFromGeometry(feature.Geometry)
		if err != nil {
			fmt.Printf("Skipping field %s: %v\n", fieldID, err)
			continue
		}

		result = append(result, Field{ID: fieldID, Farm: farm, Boundary: boundary})
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no fields found in the GeoJSON file for farm %s", farm)
	}
	return result, nil
}

// LoadField returns a single field of a farm.
func LoadField(farm, fieldID string) (Field, error) {
	all, err := LoadFarm(farm)
	if err != nil {
		return Field{}, err
	}
	for _, f := range all {
		if f.ID == fieldID {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("field %s not found in farm %s", fieldID, farm)
}

// ListFieldIDs returns the field identifiers of a farm.
func ListFieldIDs(farm string) ([]string, error) {
	all, err := LoadFarm(farm)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(all))
	for _, f := range all {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

func boundaryFromGeometry(g orb.Geometry) (geometry.Boundary, error) {
	var ring orb.Ring
	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) == 0 {
			return geometry.Boundary{}, fmt.Errorf("empty polygon")
		}
		ring = geom[0]
	case orb.MultiPolygon:
		if len(geom) == 0 || len(geom[0]) == 0 {
			return geometry.Boundary{}, fmt.Errorf("empty multipolygon")
		}
		ring = geom[0][0]
	default:
		return geometry.Boundary{}, fmt.Errorf("unsupported geometry type %T", g)
	}

	coords := make([][]float64, 0, len(ring))
	for _, pt := range ring {
		coords = append(coords, []float64{pt[1], pt[0]})
	}
	return geometry.NewBoundary(coords)
}
