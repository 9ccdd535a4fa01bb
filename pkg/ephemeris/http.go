package ephemeris

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/errors"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTPOptions configures [NewHTTPClient].
type HTTPOptions struct {
	Timeout time.Duration     // Per-request timeout (default 10s)
	Backoff cache.Backoff     // Retry policy for 5xx and transport errors
	Headers map[string]string // Extra headers, e.g. an API key
}

// HTTPClient queries a remote ephemeris service for detailed positions.
//
// The service exposes two JSON endpoints:
//
//	GET {base}/v1/position?jd=2451545.0&body=moon       -> {"longitude": 223.32, "speed": 12.98}
//	GET {base}/v1/sidereal-time?jd=2451545.0&lon=77.2   -> {"hours": 23.85}
//
// A 404 or 422 answer means the service holds no data for that body or
// date and is reported as [errors.ErrCodeMissingEphemerisData].
type HTTPClient struct {
	base    string
	http    *http.Client
	backoff cache.Backoff
	headers map[string]string
}

// NewHTTPClient creates a client for the service rooted at baseURL.
func NewHTTPClient(baseURL string, opts HTTPOptions) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultHTTPTimeout
	}
	if opts.Backoff.Attempts == 0 {
		opts.Backoff = cache.DefaultBackoff
	}
	return &HTTPClient{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
		backoff: opts.Backoff,
		headers: opts.Headers,
	}
}

// Name implements [Provider].
func (c *HTTPClient) Name() string { return "remote" }

// Position implements [Provider].
func (c *HTTPClient) Position(ctx context.Context, jd float64, body Body) (Position, error) {
	q := url.Values{}
	q.Set("jd", strconv.FormatFloat(jd, 'f', 9, 64))
	q.Set("body", string(body))

	var resp struct {
		Longitude *float64 `json:"longitude"`
		Speed     float64  `json:"speed"`
	}
	if err := c.get(ctx, "/v1/position", q, &resp); err != nil {
		return Position{}, c.classify(err, "position of %s", body)
	}
	if resp.Longitude == nil {
		return Position{}, errors.New(errors.ErrCodeMissingEphemerisData, "remote ephemeris returned no longitude for %s", body)
	}
	return Position{Longitude: norm360(*resp.Longitude), Speed: resp.Speed, Precision: PrecisionDetailed}, nil
}

// SiderealTime implements [Provider].
func (c *HTTPClient) SiderealTime(ctx context.Context, jd, longitude float64) (float64, error) {
	q := url.Values{}
	q.Set("jd", strconv.FormatFloat(jd, 'f', 9, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', 6, 64))

	var resp struct {
		Hours float64 `json:"hours"`
	}
	if err := c.get(ctx, "/v1/sidereal-time", q, &resp); err != nil {
		return 0, c.classify(err, "sidereal time")
	}
	return norm24(resp.Hours), nil
}

var errNoData = stderrors.New("no ephemeris data")

func (c *HTTPClient) get(ctx context.Context, path string, q url.Values, v any) error {
	return c.backoff.Retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+q.Encode(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		for k, val := range c.headers {
			req.Header.Set(k, val)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var ne net.Error
			if stderrors.As(err, &ne) && ne.Timeout() {
				return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
			}
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return json.NewDecoder(resp.Body).Decode(v)
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity:
			return errNoData
		case resp.StatusCode >= 500:
			return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
		default:
			return fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode)
		}
	})
}

func (c *HTTPClient) classify(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	switch {
	case stderrors.Is(err, errNoData):
		return errors.Wrap(errors.ErrCodeMissingEphemerisData, err, "remote ephemeris has no %s", what)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "remote ephemeris timed out fetching %s", what)
	case stderrors.Is(err, cache.ErrNetwork):
		return errors.Wrap(errors.ErrCodeNetwork, err, "remote ephemeris failed fetching %s", what)
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "remote ephemeris returned malformed %s", what)
	}
}
