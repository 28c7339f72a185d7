// Package harvest is the HTTP adapter for the Greenhouse Harvest API.
package harvest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/target/harvest-extract/internal/core"
	"github.com/target/harvest-extract/internal/domain/model"
	apperrors "github.com/target/harvest-extract/internal/errors"
)

const (
	// DefaultBaseURL is the public Harvest v1 endpoint.
	DefaultBaseURL = "https://harvest.greenhouse.io/v1/"
	// DefaultPerPage is the page size requested when none is configured.
	DefaultPerPage = 100
	// MaxPerPage is the largest page size Harvest accepts.
	MaxPerPage = 500

	defaultTimeout = 60 * time.Second
	userAgent      = "harvest-extract"
	// errorBodyLimit caps how much of an error response is quoted back.
	errorBodyLimit = 512
)

var _ core.HarvestClient = (*Client)(nil)

// Config captures the subset of Harvest client behaviour we need.
type Config struct {
	BaseURL string
	Token   string
	PerPage int
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
}

// Client talks to the Harvest REST API with HTTP Basic auth (token as user, empty password).
type Client struct {
	base    *url.URL
	token   string
	perPage int
	client  *http.Client
	logger  *slog.Logger
}

// NewClient builds a Harvest client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, apperrors.ValidationField("API_TOKEN", "harvest api token is required")
	}

	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, apperrors.ValidationField("HARVEST_BASE_URL", fmt.Sprintf("invalid base url %q", raw))
	}
	// Resources resolve relative to the base, which only works with a trailing slash.
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	perPage := cfg.PerPage
	switch {
	case perPage <= 0:
		perPage = DefaultPerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:    base,
		token:   token,
		perPage: perPage,
		client:  hc,
		logger:  logger.With("component", "harvest"),
	}, nil
}

// ResourceURL resolves a resource path such as "candidates/12" against the base URL.
func (c *Client) ResourceURL(resource string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimLeft(resource, "/"))
	if err != nil {
		return nil, apperrors.Validationf("invalid resource %q: %v", resource, err)
	}
	return c.base.ResolveReference(ref), nil
}

// List walks a paginated collection. The first request carries per_page and the date filter;
// later pages follow the Link rel="next" header verbatim. An empty page or a missing next
// link ends the sequence, and any failed page yields a single error and stops.
func (c *Client) List(ctx context.Context, resource string, filter model.DateFilter) iter.Seq2[json.RawMessage, error] {
	return func(yield func(json.RawMessage, error) bool) {
		first, err := c.ResourceURL(resource)
		if err != nil {
			yield(nil, err)
			return
		}
		q := first.Query()
		q.Set("per_page", strconv.Itoa(c.perPage))
		for k, v := range filter.Params() {
			q.Set(k, v)
		}
		first.RawQuery = q.Encode()

		next := first.String()
		for page := 1; next != ""; page++ {
			items, link, err := c.fetchPage(ctx, next)
			if err != nil {
				yield(nil, apperrors.Wrapf(err, apperrors.GetCode(err), "%s page %d", resource, page))
				return
			}
			c.logger.DebugContext(ctx, "fetched page",
				"resource", resource,
				"page", page,
				"items", len(items),
			)
			if len(items) == 0 {
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
			next = link
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) ([]json.RawMessage, string, error) {
	resp, err := c.do(ctx, pageURL, true)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeTransport, "malformed page")
	}
	next, err := nextLink(resp.Header, resp.Request.URL)
	if err != nil {
		return nil, "", err
	}
	return items, next, nil
}

// Get fetches a single JSON document.
func (c *Client) Get(ctx context.Context, resource string) (json.RawMessage, error) {
	u, err := c.ResourceURL(resource)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, u.String(), true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeTransport, "read %s", resource)
	}
	if !json.Valid(body) {
		return nil, apperrors.Transportf("%s returned a malformed document", resource)
	}
	return json.RawMessage(body), nil
}

// Download streams an attachment body into w. Attachment URLs are pre-signed, so no API
// credentials are sent with them.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	resp, err := c.do(ctx, rawURL, false)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, apperrors.Wrap(err, apperrors.ErrCodeTransport, "download interrupted")
	}
	return n, nil
}

func (c *Client) do(ctx context.Context, rawURL string, authenticate bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "create harvest request")
	}
	req.Header.Set("User-Agent", userAgent)
	if authenticate {
		req.SetBasicAuth(c.token, "")
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, requestError(ctx, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp, nil
}

func requestError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "harvest request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "harvest request timed out")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeTransport, "harvest request failed")
	}
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	msg := fmt.Sprintf("%s %s: %s", resp.Request.Method, redactURL(resp.Request.URL), resp.Status)
	if s := strings.TrimSpace(string(snippet)); s != "" {
		msg += ": " + s
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.Unauthorizedf("%s", msg)
	case http.StatusNotFound:
		return apperrors.NotFoundf("%s", msg)
	case http.StatusTooManyRequests:
		return apperrors.RateLimited(msg, retryAfter(resp.Header.Get("Retry-After"), time.Now()))
	default:
		return apperrors.Transportf("%s", msg)
	}
}

// retryAfter parses a Retry-After value given either in seconds or as an HTTP date.
func retryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// redactURL drops the query string, which for attachment URLs carries a signature.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	clean.RawQuery = ""
	clean.User = nil
	return clean.String()
}
