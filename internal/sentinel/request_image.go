package sentinel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/fieldvision/fieldvision-api-poc/internal/geometry"
	"github.com/fieldvision/fieldvision-api-poc/internal/properties"
)

const (
	// Equirectangular approximation. Latitude degrees are a fixed distance;
	// longitude degrees shrink with the cosine of the latitude.
	metersPerDegree = 111320.0

	// Provider pixel limits per axis, plus a quality floor.
	maxPixelDimension = 2500
	minPixelDimension = 256

	maxCloudCoverage = 20
)

// Escalating lookback windows tried until the provider has cloud-free data.
var timeWindowsDays = []int{7, 14, 21, 30}

// FetchStatus tags the outcome of an imagery request.
type FetchStatus int

const (
	// FetchOK means usable image bytes were returned.
	FetchOK FetchStatus = iota
	// FetchNoData means the provider had no cloud-free imagery in any window.
	FetchNoData
)

// FetchResult is the typed outcome of FetchImage. Status distinguishes the
// expected no-data case from success; hard failures surface as errors instead.
type FetchResult struct {
	Status     FetchStatus
	PNG        []byte
	Width      int
	Height     int
	WindowDays int
}

// Client talks to the Sentinel Hub process API.
type Client struct {
	httpClient *http.Client
	processURL string
}

// NewClient builds a client authenticated via OAuth2 client credentials taken
// from the environment.
func NewClient(ctx context.Context) (*Client, error) {
	clientID := properties.SentinelHubClientID()
	clientSecret := properties.SentinelHubClientSecret()
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("missing required environment variables: SENTINEL_HUB_CLIENT_ID or SENTINEL_HUB_CLIENT_SECRET")
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     properties.SentinelHubTokenURL(),
	}

	return &Client{
		httpClient: config.Client(ctx),
		processURL: properties.SentinelHubProcessURL(),
	}, nil
}

// NewClientWithHTTP injects a pre-built HTTP client, mainly for tests.
func NewClientWithHTTP(httpClient *http.Client, processURL string) *Client {
	return &Client{httpClient: httpClient, processURL: processURL}
}

// calculateDimensions fits the bounding box's geographic aspect ratio into the
// provider's pixel limits. The longer ground axis gets the maximum dimension
// and the other axis scales proportionally, each clamped independently.
func calculateDimensions(bbox orb.Bound) (int, int) {
	centerLat := (bbox.Min[1] + bbox.Max[1]) / 2
	widthMeters := (bbox.Max[0] - bbox.Min[0]) * metersPerDegree * math.Cos(centerLat*math.Pi/180)
	heightMeters := (bbox.Max[1] - bbox.Min[1]) * metersPerDegree

	width, height := maxPixelDimension, maxPixelDimension
	if widthMeters >= heightMeters && widthMeters > 0 {
		height = int(float64(maxPixelDimension) * heightMeters / widthMeters)
	} else if heightMeters > 0 {
		width = int(float64(maxPixelDimension) * widthMeters / heightMeters)
	}

	return clampDimension(width), clampDimension(height)
}

func clampDimension(v int) int {
	if v < minPixelDimension {
		return minPixelDimension
	}
	if v > maxPixelDimension {
		return maxPixelDimension
	}
	return v
}

// FetchImage requests a rendered index image for the bounding box, widening
// the lookback window until the provider has cloud-free data. When a boundary
// is supplied the returned PNG is masked to the field interior at the actual
// returned resolution. A no-data outcome is reported in the result status, not
// as an error.
func (c *Client) FetchImage(bbox orb.Bound, boundary *geometry.Boundary, indexType IndexType, endDate time.Time) (FetchResult, error) {
	width, height := calculateDimensions(bbox)

	for _, windowDays := range timeWindowsDays {
		startDate := endDate.AddDate(0, 0, -windowDays)
		payload := c.buildPayload(bbox, indexType, startDate, endDate, width, height)

		body, err := json.Marshal(payload)
		if err != nil {
			return FetchResult{}, fmt.Errorf("failed to marshal request payload: %v", err)
		}

		resp, err := c.httpClient.Post(c.processURL, "application/json", bytes.NewBuffer(body))
		if err != nil {
			return FetchResult{}, fmt.Errorf("failed to request image: %w", err)
		}

		content, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return FetchResult{}, fmt.Errorf("failed to read response body: %v", err)
		}

		if resp.StatusCode != http.StatusOK {
			if isNoDataResponse(resp.StatusCode, content) {
				fmt.Printf("No cloud-free imagery within %d days, widening window\n", windowDays)
				continue
			}
			return FetchResult{}, fmt.Errorf("imagery request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(content)))
		}

		img, err := decodePNG(content)
		if err != nil {
			return FetchResult{}, fmt.Errorf("failed to decode imagery response: %v", err)
		}

		// A technically successful render with no acquisitions comes back as
		// a flat black frame. Treat it like the explicit no-data case.
		if imageLooksEmpty(img) {
			fmt.Printf("Empty render for the last %d days, widening window\n", windowDays)
			continue
		}

		actualWidth := img.Bounds().Dx()
		actualHeight := img.Bounds().Dy()

		png := content
		if boundary != nil {
			masked := ApplyPolygonMask(img, *boundary, bbox)
			png, err = encodePNG(masked)
			if err != nil {
				return FetchResult{}, fmt.Errorf("failed to encode masked image: %v", err)
			}
		}

		return FetchResult{
			Status:     FetchOK,
			PNG:        png,
			Width:      actualWidth,
			Height:     actualHeight,
			WindowDays: windowDays,
		}, nil
	}

	return FetchResult{Status: FetchNoData}, nil
}

func (c *Client) buildPayload(bbox orb.Bound, indexType IndexType, startDate, endDate time.Time, width, height int) map[string]interface{} {
	return map[string]interface{}{
		"input": map[string]interface{}{
			"bounds": map[string]interface{}{
				"properties": map[string]interface{}{
					"crs": "http://www.opengis.net/def/crs/EPSG/0/4326",
				},
				"bbox": []float64{bbox.Min[0], bbox.Min[1], bbox.Max[0], bbox.Max[1]},
			},
			"data": []map[string]interface{}{
				{
					"type": "sentinel-2-l2a",
					"dataFilter": map[string]interface{}{
						"timeRange": map[string]string{
							"from": startDate.Format("2006-01-02T00:00:00Z"),
							"to":   endDate.Format("2006-01-02T23:59:59Z"),
						},
						"maxCloudCoverage": maxCloudCoverage,
					},
				},
			},
		},
		"output": map[string]interface{}{
			"width":  width,
			"height": height,
			"responses": []map[string]interface{}{
				{
					"identifier": "default",
					"format": map[string]string{
						"type": "image/png",
					},
				},
			},
		},
		"evalscript": indexType.Evalscript(),
		"mosaicking": "mostRecent",
	}
}

// isNoDataResponse recognizes the provider's "nothing acquired in this window"
// answer, which must widen the window instead of failing the fetch.
func isNoDataResponse(statusCode int, body []byte) bool {
	if statusCode != http.StatusBadRequest && statusCode != http.StatusNotFound {
		return false
	}
	text := strings.ToLower(string(body))
	return strings.Contains(text, "no data") || strings.Contains(text, "no available data")
}
