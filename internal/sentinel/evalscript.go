package sentinel

import "fmt"

// IndexType selects which vegetation index visualization the imagery provider
// renders. Each type carries its own evalscript; everything downstream of the
// fetch is index-agnostic because all scripts share the same color ramp.
type IndexType int

const (
	IndexNDVI IndexType = iota
	IndexNDRE
	IndexMoisture
	IndexEVI
	IndexNDWI
	IndexChlorophyll
)

var indexTypeNames = map[IndexType]string{
	IndexNDVI:        "ndvi",
	IndexNDRE:        "ndre",
	IndexMoisture:    "moisture",
	IndexEVI:         "evi",
	IndexNDWI:        "ndwi",
	IndexChlorophyll: "chlorophyll",
}

// IndexTypes lists every supported index in a stable order.
var IndexTypes = []IndexType{
	IndexNDVI, IndexNDRE, IndexMoisture, IndexEVI, IndexNDWI, IndexChlorophyll,
}

func (t IndexType) String() string {
	if name, ok := indexTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func ParseIndexType(name string) (IndexType, error) {
	for t, n := range indexTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown index type %q", name)
}

// bands and formula per index, written against Sentinel-2 L2A band names.
var indexExpressions = map[IndexType]struct {
	bands   string
	formula string
}{
	IndexNDVI:        {`"B04", "B08"`, "(sample.B08 - sample.B04) / (sample.B08 + sample.B04)"},
	IndexNDRE:        {`"B05", "B08"`, "(sample.B08 - sample.B05) / (sample.B08 + sample.B05)"},
	IndexMoisture:    {`"B08", "B11"`, "(sample.B08 - sample.B11) / (sample.B08 + sample.B11)"},
	IndexEVI:         {`"B02", "B04", "B08"`, "2.5 * (sample.B08 - sample.B04) / (sample.B08 + 6.0 * sample.B04 - 7.5 * sample.B02 + 1.0)"},
	IndexNDWI:        {`"B03", "B08"`, "(sample.B03 - sample.B08) / (sample.B03 + sample.B08)"},
	IndexChlorophyll: {`"B05", "B07"`, "(sample.B07 - sample.B05) / (sample.B07 + sample.B05)"},
}

// Evalscript renders the index through the fixed agricultural stress ramp.
// Clouds, shadow, cirrus and snow are painted flat gray via the scene
// classification layer so the analyzer can exclude them.
func (t IndexType) Evalscript() string {
	expr := indexExpressions[t]
	return fmt.Sprintf(`//VERSION=3
function setup() {
    return {
        input: [{
            bands: [%s, "SCL"],
            units: "DN"
        }],
        output: {
            bands: 3,
            sampleType: "AUTO"
        }
    };
}

function evaluatePixel(sample) {
    let index = %s;

    // Mask clouds using Scene Classification Layer (SCL)
    if (sample.SCL == 3 || sample.SCL == 8 || sample.SCL == 9 || sample.SCL == 10 || sample.SCL == 11) {
        return [0.4, 0.4, 0.4]; // Dark gray for masked pixels
    }

    // Agricultural stress detection color mapping
    if (index < -0.3) return [0.2, 0.2, 0.4]; // Deep water - dark blue
    if (index < -0.1) return [0.4, 0.4, 0.6]; // Shallow water - blue
    if (index < 0.05) return [0.8, 0.7, 0.6]; // Bare soil/sand - tan
    if (index < 0.1) return [1.0, 0.2, 0.2]; // Critical stress/dying vegetation - bright red
    if (index < 0.15) return [1.0, 0.4, 0.2]; // Severe stress - red-orange
    if (index < 0.2) return [1.0, 0.6, 0.2]; // Moderate stress - orange
    if (index < 0.25) return [1.0, 0.8, 0.2]; // Mild stress - yellow-orange
    if (index < 0.3) return [1.0, 1.0, 0.2]; // Early stress - yellow
    if (index < 0.35) return [0.8, 1.0, 0.2]; // Recovery/low vigor - light green
    if (index < 0.45) return [0.6, 0.9, 0.1]; // Moderate health - green
    if (index < 0.55) return [0.4, 0.8, 0.1]; // Good health - darker green
    if (index < 0.65) return [0.2, 0.7, 0.1]; // Very healthy - dark green
    if (index < 0.75) return [0.1, 0.6, 0.1]; // Excellent health - very dark green
    return [0.05, 0.4, 0.05]; // Peak health - deepest green
}`, expr.bands, expr.formula)
}
