// Package geocode is the thin client for the external forward-geocoding
// search service used by the manual-search side channel of the
// correction workflow. The service is an opaque collaborator; nothing
// here scores or re-ranks candidates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/geoproc/internal/debug"
)

// ErrUnavailable indicates a transport failure or non-OK response from
// the geocoding service. The triggering operation aborts and prior
// state is left unchanged.
var ErrUnavailable = errors.New("geocoding service unavailable")

// Candidate is one geocoding result. The workflow consumes only the
// first candidate on manual search.
type Candidate struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Client queries the geocoding service over HTTP. Successful lookups
// are cached per query for the lifetime of the client; the same address
// searched twice in a session costs one upstream call.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	// Debug enables request tracing
	Debug bool

	mu    sync.Mutex
	cache map[string][]Candidate
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   make(map[string][]Candidate),
	}
}

// wire shape of the service response
type geocodeResponse struct {
	Items []struct {
		Title    string `json:"title"`
		Position struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"position"`
	} `json:"items"`
}

// Geocode resolves a free-text query to zero or more candidates. Zero
// candidates is a valid answer, not an error; the caller decides what
// an empty result means.
func (c *Client) Geocode(ctx context.Context, query string) ([]Candidate, error) {
	c.mu.Lock()
	cached, ok := c.cache[query]
	c.mu.Unlock()
	if ok {
		debug.Output(c.Debug, "geocode cache hit for %q", query)
		return cached, nil
	}

	defer debug.Timing(c.Debug, fmt.Sprintf("geocode %q", query))()

	params := url.Values{}
	params.Set("q", query)
	if c.apiKey != "" {
		params.Set("apiKey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	candidates := make([]Candidate, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		candidates = append(candidates, Candidate{
			Label:     item.Title,
			Latitude:  item.Position.Lat,
			Longitude: item.Position.Lng,
		})
	}

	if len(candidates) > 0 {
		c.mu.Lock()
		c.cache[query] = candidates
		c.mu.Unlock()
	}
	return candidates, nil
}
