// Package geocoder resolves coordinates and free-text addresses into PlaceResults
// through the Google Geocoding API, with an optional redis cache in front
package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"address-resolver/internal/metrics"
	"address-resolver/internal/models"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrNoResults is returned when the provider answered but found nothing
var ErrNoResults = eris.New("geocoder: no results")

type googleResponse struct {
	Results      []googleResult `json:"results"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
}

type googleResult struct {
	AddressComponents []models.AddressComponent `json:"address_components"`
	FormattedAddress  string                    `json:"formatted_address"`
	Geometry          struct {
		Location *models.LatLng `json:"location"`
	} `json:"geometry"`
}

// Option configures a GoogleClient
type Option func(*GoogleClient)

// WithHTTPClient sets the HTTP client used for every request
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GoogleClient) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at a different Geocoding API endpoint
func WithBaseURL(u string) Option {
	return func(c *GoogleClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithRateLimit caps outgoing requests per second
func WithRateLimit(rps float64) Option {
	return func(c *GoogleClient) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithCountry restricts forward geocoding to an ISO 3166-1 country code
func WithCountry(code string) Option {
	return func(c *GoogleClient) {
		c.country = code
	}
}

// GoogleClient talks to the Google Geocoding API
type GoogleClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	country    string
	limiter    *rate.Limiter
}

// NewGoogleClient creates a client authenticated with apiKey
func NewGoogleClient(apiKey string, opts ...Option) *GoogleClient {
	c := &GoogleClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    googleGeocodeURL,
		country:    "au",
		limiter:    rate.NewLimiter(10, 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReverseGeocode returns the best address for a point
func (c *GoogleClient) ReverseGeocode(ctx context.Context, lat, lon float64) (*models.PlaceResult, error) {
	params := url.Values{
		"latlng": {strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	return c.do(ctx, "reverse", params)
}

// Geocode returns the best match for a free-text address
func (c *GoogleClient) Geocode(ctx context.Context, address string) (*models.PlaceResult, error) {
	if address == "" {
		return nil, eris.New("geocode: google empty address")
	}
	params := url.Values{
		"address": {address},
	}
	if c.country != "" {
		params.Set("components", "country:"+c.country)
	}
	return c.do(ctx, "forward", params)
}

func (c *GoogleClient) do(ctx context.Context, op string, params url.Values) (*models.PlaceResult, error) {
	if c.apiKey == "" {
		return nil, eris.New("geocode: google api key not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: google rate limit")
	}

	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google build request")
	}

	start := time.Now()
	metrics.GeocodeRequestsTotal.WithLabelValues(op).Inc()
	result, err := c.send(req)
	metrics.GeocodeDurationMs.WithLabelValues(op).Observe(float64(time.Since(start).Milliseconds()))
	switch {
	case errors.Is(err, ErrNoResults):
		log.Debug().Str("operation", op).Msg("google geocode: no results")
		return nil, err
	case err != nil:
		metrics.GeocodeFailTotal.WithLabelValues(op).Inc()
		log.Warn().Err(err).Str("operation", op).Msg("google geocode failed")
		return nil, err
	}
	return result, nil
}

func (c *GoogleClient) send(req *http.Request) (*models.PlaceResult, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: google returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google read body")
	}

	var gr googleResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, eris.Wrap(err, "geocode: google parse response")
	}

	switch gr.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoResults
	default:
		return nil, eris.Errorf("geocode: google status %s: %s", gr.Status, gr.ErrorMessage)
	}
	if len(gr.Results) == 0 {
		return nil, ErrNoResults
	}

	first := gr.Results[0]
	components := first.AddressComponents
	if components == nil {
		components = []models.AddressComponent{}
	}
	return &models.PlaceResult{
		Components:       components,
		FormattedAddress: first.FormattedAddress,
		Location:         first.Geometry.Location,
	}, nil
}
