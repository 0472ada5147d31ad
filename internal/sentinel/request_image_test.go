package sentinel

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greenPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 13, G: 102, B: 13, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCalculateDimensionsWideBox(t *testing.T) {
	// Twice as wide as tall at the equator.
	bbox := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0.02, 0.01}}

	width, height := calculateDimensions(bbox)
	assert.Equal(t, 2500, width)
	assert.InDelta(t, 1250, height, 5)
}

func TestCalculateDimensionsShrinksWithLatitude(t *testing.T) {
	// A square in degrees near 60N covers half the ground distance east-west.
	bbox := orb.Bound{Min: orb.Point{10.0, 59.99}, Max: orb.Point{10.01, 60.0}}

	width, height := calculateDimensions(bbox)
	assert.Equal(t, 2500, height)
	assert.InDelta(t, 1251, width, 10)
}

func TestCalculateDimensionsClampsToMinimum(t *testing.T) {
	// Extremely wide sliver: the short axis hits the quality floor.
	bbox := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1.0, 0.001}}

	width, height := calculateDimensions(bbox)
	assert.Equal(t, 2500, width)
	assert.Equal(t, 256, height)
}

func TestIsNoDataResponse(t *testing.T) {
	assert.True(t, isNoDataResponse(http.StatusBadRequest, []byte("No data available for this request")))
	assert.True(t, isNoDataResponse(http.StatusNotFound, []byte("no available data in time range")))
	assert.False(t, isNoDataResponse(http.StatusInternalServerError, []byte("no data")))
	assert.False(t, isNoDataResponse(http.StatusBadRequest, []byte("invalid evalscript")))
}

func TestFetchImageWidensWindowOnNoData(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("no data available in requested time range"))
			return
		}
		w.Write(greenPNG(t, 32, 32))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)
	bbox := orb.Bound{Min: orb.Point{20.0, 10.0}, Max: orb.Point{20.01, 10.01}}

	result, err := client.FetchImage(bbox, nil, IndexNDVI, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, FetchOK, result.Status)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 21, result.WindowDays, "third attempt uses the 21 day window")
	assert.Equal(t, 32, result.Width)
	assert.Equal(t, 32, result.Height)
	assert.NotEmpty(t, result.PNG)
}

func TestFetchImageExhaustsWindows(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("no data available"))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)
	bbox := orb.Bound{Min: orb.Point{20.0, 10.0}, Max: orb.Point{20.01, 10.01}}

	result, err := client.FetchImage(bbox, nil, IndexNDVI, time.Now())
	require.NoError(t, err, "a no-data outcome is not an error")

	assert.Equal(t, FetchNoData, result.Status)
	assert.Equal(t, len(timeWindowsDays), calls)
	assert.Empty(t, result.PNG)
}

func TestFetchImageSkipsEmptyRenders(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// Successful response carrying a black frame: no acquisitions.
			var buf bytes.Buffer
			require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 32, 32))))
			w.Write(buf.Bytes())
			return
		}
		w.Write(greenPNG(t, 32, 32))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)
	bbox := orb.Bound{Min: orb.Point{20.0, 10.0}, Max: orb.Point{20.01, 10.01}}

	result, err := client.FetchImage(bbox, nil, IndexNDVI, time.Now())
	require.NoError(t, err)

	assert.Equal(t, FetchOK, result.Status)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 14, result.WindowDays)
}

func TestFetchImageHardFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client(), server.URL)
	bbox := orb.Bound{Min: orb.Point{20.0, 10.0}, Max: orb.Point{20.01, 10.01}}

	_, err := client.FetchImage(bbox, nil, IndexNDVI, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
