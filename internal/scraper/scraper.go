// Package scraper retrieves chemical records from PubChem's PUG REST API.
//
// Every request goes through the response cache keyed by URL, and a
// politeness throttle spaces out the requests that do reach the network.
// The throttle is a fixed pause, not a concurrency mechanism: the scraper
// is built for the CLI's sequential, one-lookup-at-a-time workflows.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/chemsafe/chemsafe/internal/cache"
)

// defaultUserAgent identifies chemsafe to the upstream API.
const defaultUserAgent = "chemsafe/1.0 (chemical safety database; +https://github.com/chemsafe/chemsafe)"

// errNotFound marks a 404 from upstream. PubChem answers unknown compound
// names and identifiers with 404 rather than an empty result, so callers
// that treat "unknown" as a normal outcome check for this.
var errNotFound = errors.New("not found upstream")

// SearchResult is one hit from a chemical search.
type SearchResult struct {
	CID             int64   `json:"cid"`
	Name            string  `json:"name"`
	Formula         string  `json:"formula,omitempty"`
	MolecularWeight float64 `json:"molecular_weight,omitempty"`
}

// Options configures a client. Zero values fall back to the PubChem
// production endpoints, a 30s request timeout, and a 200ms fetch pause.
type Options struct {
	// BaseURL is the PUG REST root (compound lookups).
	BaseURL string

	// ViewURL is the PUG View root (annotation sections).
	ViewURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Pause is the minimum spacing between network fetches. A negative
	// value disables the pause entirely.
	Pause time.Duration

	// Cache holds previously fetched responses. Nil disables caching.
	Cache cache.Store

	// UserAgent overrides the default request identity.
	UserAgent string
}

func (o *Options) applyDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	}
	if o.ViewURL == "" {
		o.ViewURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug_view"
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Pause == 0 {
		o.Pause = 200 * time.Millisecond
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
}

// client is the shared fetch machinery under the PubChem scraper.
type client struct {
	httpClient *http.Client
	cache      cache.Store
	userAgent  string
	pause      time.Duration
	lastFetch  time.Time
	logger     zerolog.Logger
}

func newClient(opts Options, logger zerolog.Logger) *client {
	return &client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		cache:      opts.Cache,
		userAgent:  opts.UserAgent,
		pause:      opts.Pause,
		logger:     logger,
	}
}

// getJSON fetches url, preferring the cache. Network responses are cached
// on success; cache write failures are non-fatal.
func (c *client) getJSON(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		if data, ok := c.cache.Get(ctx, url); ok {
			return data, nil
		}
	}

	c.throttle(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	// Failed requests still count toward the pause: a retry right after an
	// error should not hit the server any faster than a success would.
	c.lastFetch = time.Now()
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetching %s: %w", url, errNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, url, json.RawMessage(data)); err != nil {
			c.logger.Debug().Err(err).Str("url", url).Msg("response not cached")
		}
	}

	return data, nil
}

// throttle enforces the politeness pause between consecutive network
// fetches. Cache hits never wait.
func (c *client) throttle(ctx context.Context) {
	if c.pause <= 0 || c.lastFetch.IsZero() {
		return
	}

	wait := c.pause - time.Since(c.lastFetch)
	if wait <= 0 {
		return
	}

	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
