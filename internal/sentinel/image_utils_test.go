package sentinel

import (
	"image"
	"image/color"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
)

func TestImageLooksEmpty(t *testing.T) {
	black := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			black.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	assert.True(t, imageLooksEmpty(black))

	black.SetNRGBA(0, 0, color.NRGBA{R: 13, G: 102, B: 13, A: 255})
	assert.False(t, imageLooksEmpty(black))

	transparent := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	assert.True(t, imageLooksEmpty(transparent))

	assert.True(t, imageLooksEmpty(image.NewNRGBA(image.Rect(0, 0, 0, 0))))
}

func TestApplyPolygonMask(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 13, G: 102, B: 13, A: 255})
		}
	}

	// Diamond inscribed in the bbox: corners fall outside the outline.
	boundary, err := geometry.NewBoundary([][]float64{
		{10.005, 20.0},
		{10.01, 20.005},
		{10.005, 20.01},
		{10.0, 20.005},
	})
	require.NoError(t, err)
	bbox := orb.Bound{Min: orb.Point{20.0, 10.0}, Max: orb.Point{20.01, 10.01}}

	masked := ApplyPolygonMask(src, boundary, bbox)

	_, _, _, centerAlpha := masked.At(50, 50).RGBA()
	assert.Greater(t, centerAlpha, uint32(0), "center stays visible")

	_, _, _, cornerAlpha := masked.At(2, 2).RGBA()
	assert.Equal(t, uint32(0), cornerAlpha, "corner outside the outline becomes transparent")

	assert.Equal(t, src.Bounds(), masked.Bounds())
}
