package ndvi

import (
	"image"
	"image/color"
	"math"
	"math/rand"
)

// Fixed index values for pixels the ramp cannot explain.
const (
	shadowIndex  = 0.05 // fully dark pixels, usually cloud shadow
	glareIndex   = 0.05 // saturated white pixels, cloud tops or bright soil
	defaultIndex = 0.1  // ambiguous colors that match no ramp family
)

// rampStop is one color of the rendering ramp together with the index value at
// the middle of the sub-range it encodes.
type rampStop struct {
	value   float64
	r, g, b float64
}

// Water colors, darkest first. The renderer maps index below -0.3 to deep
// water and [-0.3, -0.1) to shallow water.
var waterStops = []rampStop{
	{-0.65, 0.2, 0.2, 0.4},
	{-0.2, 0.4, 0.4, 0.6},
}

// Stress colors ordered by rising index. The green channel climbs from bright
// red through orange to yellow as the index recovers.
var stressStops = []rampStop{
	{0.075, 1.0, 0.2, 0.2},
	{0.125, 1.0, 0.4, 0.2},
	{0.175, 1.0, 0.6, 0.2},
	{0.225, 1.0, 0.8, 0.2},
	{0.275, 1.0, 1.0, 0.2},
}

// Vegetation colors ordered by rising index. The red channel falls as the
// canopy darkens toward peak health.
var vegetationStops = []rampStop{
	{0.325, 0.8, 1.0, 0.2},
	{0.4, 0.6, 0.9, 0.1},
	{0.5, 0.4, 0.8, 0.1},
	{0.6, 0.2, 0.7, 0.1},
	{0.7, 0.1, 0.6, 0.1},
	{0.8, 0.05, 0.4, 0.05},
}

// bareSoilIndex is the midpoint of the tan bucket covering [-0.1, 0.05).
const bareSoilIndex = -0.025

// Inverter reconstructs approximate vegetation index values from pixels of a
// color-ramped rendering. The reconstruction is lossy: bucket boundaries,
// anti-aliasing and compression all inject noise that downstream zone
// statistics are expected to average out.
type Inverter struct {
	// JitterAmplitude adds small uniform noise to break up banding in rendered
	// overlays. Zero disables it; tests and analysis keep it off.
	JitterAmplitude float64

	rng *rand.Rand
}

func NewInverter() *Inverter {
	return &Inverter{}
}

// NewJitterInverter enables seeded anti-banding jitter.
func NewJitterInverter(amplitude float64, seed int64) *Inverter {
	return &Inverter{
		JitterAmplitude: amplitude,
		rng:             rand.New(rand.NewSource(seed)),
	}
}

// InvertPixel estimates the index value rendered as the given color. Channels
// are normalized to [0, 1]. The result is clipped to [-1, 1]. NaN marks the
// gray cloud-mask color, which must be excluded from statistics.
func (inv *Inverter) InvertPixel(r, g, b float64) float64 {
	if isMaskGray(r, g, b) {
		return math.NaN()
	}

	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))

	var value float64
	switch {
	case maxc < 0.08:
		value = shadowIndex
	case minc > 0.92:
		value = glareIndex
	case b > r && b > g:
		// Water family: brighter blue means shallower water.
		value = interpolateStops(waterStops, b, waterStops[0].b, waterStops[1].b)
	case g > r && g > b:
		// Vegetation family: the red channel falls monotonically with health.
		value = interpolateVegetation(r)
	case r >= g && r > b:
		if b > 0.45 {
			value = bareSoilIndex // tan bare soil keeps a high blue channel
		} else {
			value = interpolateStops(stressStops, g, stressStops[0].g, stressStops[len(stressStops)-1].g)
		}
	default:
		value = defaultIndex
	}

	if inv.JitterAmplitude > 0 && inv.rng != nil {
		value += (inv.rng.Float64()*2 - 1) * inv.JitterAmplitude
	}

	return clip(value, -1, 1)
}

// interpolateStops maps a driving channel linearly across stops ordered by
// rising index. lo and hi are the channel values at the first and last stop.
func interpolateStops(stops []rampStop, channel, lo, hi float64) float64 {
	frac := (channel - lo) / (hi - lo)
	frac = clip(frac, 0, 1)
	pos := frac * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1].value
	}
	t := pos - float64(i)
	return stops[i].value + t*(stops[i+1].value-stops[i].value)
}

// interpolateVegetation walks the green stops by their red channel, which
// decreases from light green (0.8) to peak health (0.05).
func interpolateVegetation(r float64) float64 {
	first := vegetationStops[0]
	last := vegetationStops[len(vegetationStops)-1]
	if r >= first.r {
		return first.value
	}
	if r <= last.r {
		return last.value
	}
	for i := 0; i < len(vegetationStops)-1; i++ {
		hi := vegetationStops[i]
		lo := vegetationStops[i+1]
		if r <= hi.r && r >= lo.r {
			t := (hi.r - r) / (hi.r - lo.r)
			return hi.value + t*(lo.value-hi.value)
		}
	}
	return last.value
}

// isMaskGray detects the flat gray the renderer substitutes for clouds, cloud
// shadow, cirrus and snow.
func isMaskGray(r, g, b float64) bool {
	const center, tolerance = 0.4, 0.03
	return math.Abs(r-center) < tolerance &&
		math.Abs(g-center) < tolerance &&
		math.Abs(b-center) < tolerance
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IndexGrid is a per-pixel index raster. NaN marks masked or transparent pixels.
type IndexGrid struct {
	Width, Height int
	values        []float64
}

func NewIndexGrid(width, height int) *IndexGrid {
	values := make([]float64, width*height)
	return &IndexGrid{Width: width, Height: height, values: values}
}

// At returns the index value at pixel (x, y). Out-of-bounds reads return NaN.
func (g *IndexGrid) At(x, y int) float64 {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return math.NaN()
	}
	return g.values[y*g.Width+x]
}

func (g *IndexGrid) Set(x, y int, v float64) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return
	}
	g.values[y*g.Width+x] = v
}

// Values returns the backing slice, row-major from the top-left pixel.
func (g *IndexGrid) Values() []float64 {
	return g.values
}

// InvertImage reconstructs the index raster for a whole rendered image.
// Transparent pixels, produced by the field mask, become NaN.
func (inv *Inverter) InvertImage(img image.Image) *IndexGrid {
	bounds := img.Bounds()
	grid := NewIndexGrid(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			gx := x - bounds.Min.X
			gy := y - bounds.Min.Y
			if c.A == 0 {
				grid.Set(gx, gy, math.NaN())
				continue
			}
			grid.Set(gx, gy, inv.InvertPixel(
				float64(c.R)/255.0,
				float64(c.G)/255.0,
				float64(c.B)/255.0,
			))
		}
	}

	return grid
}
