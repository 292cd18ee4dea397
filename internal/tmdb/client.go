package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/metrics"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 30 * time.Second
	userAgent      = "Marquee/1.0"
)

// Client implements domain.RemoteSource for the TMDB v3 API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter // nil = unthrottled
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. A client passed through
// WithHTTPClient is copied first, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithRateLimit throttles requests to rps per second with the given burst.
// rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new TMDB API client
func NewClient(baseURL, apiKey string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPopular returns one page of the popular movie list
func (c *Client) FetchPopular(ctx context.Context, page int) (domain.MoviePage, error) {
	var resp popularResponse
	if err := c.fetch(ctx, domain.PopularPage(page), &resp); err != nil {
		return domain.MoviePage{}, err
	}
	return MapPage(resp), nil
}

// FetchMovie returns the full record for one movie
func (c *Client) FetchMovie(ctx context.Context, id int) (domain.MovieDetail, error) {
	var resp detailDTO
	if err := c.fetch(ctx, domain.MovieByID(id), &resp); err != nil {
		return domain.MovieDetail{}, err
	}
	return MapDetail(resp), nil
}

// BuildURL resolves a resource descriptor to a request URL
func (c *Client) BuildURL(res domain.Resource) (string, error) {
	if err := res.Validate(); err != nil {
		return "", err
	}

	base, err := url.Parse(c.baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("%w: base url %q", domain.ErrInvalidRequest, c.baseURL)
	}

	query := url.Values{}
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}

	var u *url.URL
	switch res.Kind {
	case domain.ResourcePopular:
		u = base.JoinPath("movie", "popular")
		query.Set("page", strconv.Itoa(res.Page))
	case domain.ResourceMovie:
		u = base.JoinPath("movie", strconv.Itoa(res.ID))
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// fetch performs the request for res and decodes the body into dest
func (c *Client) fetch(ctx context.Context, res domain.Resource, dest interface{}) error {
	resource := resourceLabel(res)
	start := time.Now()
	defer func() {
		metrics.RemoteRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	}()

	body, err := c.doRequest(ctx, res)
	if err != nil {
		metrics.RemoteRequests.WithLabelValues(resource, outcomeLabel(err)).Inc()
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("tmdb decode error", "resource", res.String(), "error", err, "bodyLen", len(body))
		metrics.RemoteRequests.WithLabelValues(resource, "decode").Inc()
		return &domain.DecodeError{Err: err}
	}

	metrics.RemoteRequests.WithLabelValues(resource, "ok").Inc()
	return nil
}

// doRequest performs a GET for res and returns the raw body
func (c *Client) doRequest(ctx context.Context, res domain.Resource) ([]byte, error) {
	reqURL, err := c.BuildURL(res)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.TransportError{Err: err}
		}
	}

	c.logger.Debug("tmdb request", "resource", res.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "resource", res.String(), "error", err)
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("tmdb request error", "resource", res.String(), "status", resp.StatusCode)
		return nil, &domain.StatusError{Code: resp.StatusCode}
	}

	if len(body) == 0 {
		return nil, domain.ErrNoResponseData
	}

	return body, nil
}

func resourceLabel(res domain.Resource) string {
	switch res.Kind {
	case domain.ResourcePopular:
		return "popular"
	case domain.ResourceMovie:
		return "movie"
	default:
		return "unknown"
	}
}

func outcomeLabel(err error) string {
	var (
		statusErr    *domain.StatusError
		transportErr *domain.TransportError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, domain.ErrNoResponseData):
		return "empty"
	case errors.As(err, &statusErr):
		return "status"
	case errors.As(err, &transportErr):
		return "transport"
	default:
		return "decode"
	}
}
