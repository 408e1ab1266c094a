// Package restdb is a catalog store backed by a hosted PostgREST-style database API.
package restdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aggarwalComputronix/website/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxAttempts      = 3
	defaultRetryBase = 500 * time.Millisecond
	// defaultPageSize matches the default max-rows cap of hosted PostgREST
	defaultPageSize = 1000
)

// Client talks to /rest/v1/{table} on the hosted database
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	table       string
	rateLimiter *rate.Limiter
	retryBase   time.Duration
	pageSize    int
	logger      *zap.Logger
}

// NewClient creates a client allowed requestsPerSecond requests with a small burst
func NewClient(baseURL, apiKey, table string, requestsPerSecond float64, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		table:       table,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		retryBase:   defaultRetryBase,
		pageSize:    defaultPageSize,
		logger:      logger.Named("restdb"),
	}
}

// exponentialBackoff returns the wait before retry number attempt (1-based)
func exponentialBackoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<(attempt-1))
}

// List fetches rows whose collection is in filter.Collections and whose type equals filter.Type
func (c *Client) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("order", "id.asc")
	if len(filter.Collections) > 0 {
		params.Set("collection", inList(filter.Collections))
	}
	if filter.Type != "" {
		params.Set("type", "eq."+filter.Type)
	}

	rows, err := c.listAll(ctx, params)
	if err != nil {
		return nil, err
	}
	return decodeRows(rows)
}

// listAll pages through a GET with limit/offset until a short page comes back.
// The page size must not exceed the server's max-rows setting.
func (c *Client) listAll(ctx context.Context, params url.Values) ([]row, error) {
	var all []row
	for offset := 0; ; offset += c.pageSize {
		params.Set("limit", strconv.Itoa(c.pageSize))
		params.Set("offset", strconv.Itoa(offset))

		var rows []row
		if err := c.do(ctx, http.MethodGet, params, nil, "", &rows); err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) < c.pageSize {
			return all, nil
		}
	}
}

// Get fetches one row by id
func (c *Client) Get(ctx context.Context, id int64) (*domain.Product, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("id", "eq."+strconv.FormatInt(id, 10))

	var rows []row
	if err := c.do(ctx, http.MethodGet, params, nil, "", &rows); err != nil {
		return nil, err
	}
	products, err := decodeRows(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return &products[0], nil
}

// InsertMany posts all rows in one request. The insert is not retried: a
// failed response may still have been committed.
func (c *Client) InsertMany(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	body := make([]map[string]any, 0, len(products))
	for _, p := range products {
		body = append(body, encodeRecord(p))
	}

	if err := c.do(ctx, http.MethodPost, nil, body, "return=minimal", nil); err != nil {
		return 0, err
	}
	return len(products), nil
}

// Update patches the row with p.ID
func (c *Client) Update(ctx context.Context, p domain.Product) error {
	params := url.Values{}
	params.Set("id", "eq."+strconv.FormatInt(p.ID, 10))

	var rows []row
	if err := c.do(ctx, http.MethodPatch, params, encodeRecord(p), "return=representation", &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Delete removes the row with id
func (c *Client) Delete(ctx context.Context, id int64) error {
	params := url.Values{}
	params.Set("id", "eq."+strconv.FormatInt(id, 10))

	var rows []row
	if err := c.do(ctx, http.MethodDelete, params, nil, "return=representation", &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Collections returns the distinct non-empty collection values, sorted
func (c *Client) Collections(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("select", "collection")
	params.Set("order", "id.asc")

	rows, err := c.listAll(ctx, params)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, r := range rows {
		if v := r.text("collection"); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func decodeRows(rows []row) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		p, err := decodeRecord(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// inList renders an in.(...) filter with every value double-quoted
func inList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		quoted[i] = `"` + v + `"`
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

// do sends one request, retrying transport errors, 429 and 5xx with exponential backoff.
// POST is sent once.
func (c *Client) do(ctx context.Context, method string, params url.Values, body any, prefer string, out any) error {
	reqURL := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, c.table)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	attempts := maxAttempts
	if method == http.MethodPost {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(exponentialBackoff(c.retryBase, attempt-1)):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		status, respBody, err := c.send(ctx, method, reqURL, payload, prefer)
		if err != nil {
			c.logger.Warn("request failed", zap.String("method", method), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
			continue
		}

		if status == http.StatusTooManyRequests || status >= 500 {
			c.logger.Warn("retryable status",
				zap.String("method", method),
				zap.Int("status", status),
				zap.Int("attempt", attempt),
				zap.ByteString("body", respBody))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrStoreFailure, status)
			continue
		}

		if status < 200 || status >= 300 {
			return fmt.Errorf("%w: status %d: %s", domain.ErrStoreFailure, status, bytes.TrimSpace(respBody))
		}

		c.logger.Debug("request ok", zap.String("method", method), zap.String("url", reqURL), zap.Int("status", status))

		if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	c.logger.Error("request failed after all attempts", zap.String("method", method), zap.Int("attempts", attempts), zap.Error(lastErr))
	return lastErr
}

func (c *Client) send(ctx context.Context, method, reqURL string, payload []byte, prefer string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Computronix/1.0")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
