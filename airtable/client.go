package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Config is supplied explicitly at construction time. The credential is an
// opaque secret: it is sent in the Authorization header and nowhere else,
// and must never appear in logs, not even a prefix.
type Config struct {
	APIKey string
	BaseID string
	Table  string

	// View selects the server-side view the listing endpoint reads from.
	View string

	// BaseURL overrides the production endpoint, mainly for tests.
	BaseURL string

	// PageSize is the maxRecords parameter sent per listing request.
	PageSize int

	// MaxPages bounds the continuation-token chain so a misbehaving
	// upstream cannot keep us looping forever.
	MaxPages int

	// PageInterval is the politeness delay between consecutive pages.
	PageInterval time.Duration

	Timeout time.Duration
}

func (c *Config) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.airtable.com"
	}
	if c.Table == "" {
		c.Table = "Reins"
	}
	if c.View == "" {
		c.View = "Grid view"
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 50
	}
	if c.PageInterval <= 0 {
		c.PageInterval = 250 * time.Millisecond
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

type Client struct {
	cfg  Config
	http *retryablehttp.Client
	gate *rate.Limiter
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrConfig)
	}
	if cfg.BaseID == "" {
		return nil, fmt.Errorf("%w: missing base ID", ErrConfig)
	}
	cfg.setDefaults()

	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil // default logger would echo request URLs; keep quiet
	// Surface the final 4xx/5xx response instead of a "giving up" error so
	// we can map the status to an error kind.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		cfg:  cfg,
		http: rc,
		gate: rate.NewLimiter(rate.Every(cfg.PageInterval), 1),
	}, nil
}

type listQuery struct {
	offset  string
	filter  string
	perPage int // overrides Config.PageSize when > 0
}

func (c *Client) listURL(q listQuery) string {
	vals := url.Values{}
	size := c.cfg.PageSize
	if q.perPage > 0 {
		size = q.perPage
	}
	vals.Set("maxRecords", fmt.Sprintf("%d", size))
	vals.Set("view", c.cfg.View)
	if q.offset != "" {
		vals.Set("offset", q.offset)
	}
	if q.filter != "" {
		vals.Set("filterByFormula", q.filter)
	}
	return fmt.Sprintf("%s/v0/%s/%s?%s", c.cfg.BaseURL, c.cfg.BaseID, url.PathEscape(c.cfg.Table), vals.Encode())
}

func (c *Client) list(ctx context.Context, q listQuery) (*listResponse, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, err
	}
	var page listResponse
	if err := c.getJSON(ctx, c.listURL(q), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetRecord fetches one row by its opaque ID. A deleted or moved record is
// an expected condition; callers should test for ErrNotFound.
func (c *Client) GetRecord(ctx context.Context, id string) (*Record, error) {
	u := fmt.Sprintf("%s/v0/%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, url.PathEscape(c.cfg.Table), url.PathEscape(id))
	var rec Record
	if err := c.getJSON(ctx, u, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body apiErrorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
		return newAPIError(resp.StatusCode, body)
	}

	b, err := readAllLimit(resp.Body, 8<<20) // 8MB guard
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("airtable: decode response: %w", err)
	}
	return nil
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("payload too large")
	}
	return b, nil
}
