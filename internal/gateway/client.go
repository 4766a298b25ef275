package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/PriyankaPriyadarsini7/ecommerce-dashboard/internal/domain"
	apperrors "github.com/PriyankaPriyadarsini7/ecommerce-dashboard/pkg/errors"
)

// Default paging constants for List. The dashboard loads the catalog in a
// single fixed-size page.
const (
	DefaultListLimit = 200
	DefaultListSkip  = 0
)

// Config holds catalog client configuration.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxConnsPerHost int
}

// DefaultConfig returns sensible defaults for the catalog client.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:         baseURL,
		Timeout:         30 * time.Second,
		MaxConnsPerHost: 100,
	}
}

// Client is an HTTP client for a dummyjson-compatible product catalog API.
// Calls are single-shot: failures surface to the caller without retries, and
// retry decisions belong to whoever dispatched the operation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a catalog client with a pooled transport.
func New(cfg Config, logger *slog.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}
}

// listResponse is the paginated envelope the catalog returns for GET /products.
type listResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

// List fetches a page of products. Zero or negative limit falls back to
// DefaultListLimit.
func (c *Client) List(ctx context.Context, limit, skip int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = DefaultListSkip
	}

	var resp listResponse
	path := fmt.Sprintf("/products?limit=%d&skip=%d", limit, skip)
	if err := c.do(ctx, http.MethodGet, path, "list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Get fetches a single product by ID.
func (c *Client) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	path := "/products/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, "get", nil, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Create submits a new product. The gateway assigns the ID and returns the
// fully formed record.
func (c *Client) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	var created domain.Product
	if err := c.do(ctx, http.MethodPost, "/products/add", "create", product, &created); err != nil {
		return domain.Product{}, err
	}
	return created, nil
}

// Update applies a partial update to an existing product and returns the
// merged record.
func (c *Client) Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error) {
	var updated domain.Product
	path := "/products/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPut, path, "update", patch, &updated); err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

// Delete removes a product by ID.
func (c *Client) Delete(ctx context.Context, id int64) error {
	path := "/products/" + strconv.FormatInt(id, 10)
	return c.do(ctx, http.MethodDelete, path, "delete", nil, nil)
}

// Ping checks reachability of the catalog with a minimal list request.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/products?limit=1&skip=0", "ping", nil, &listResponse{})
}

// errorBody is the error shape the catalog returns on non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
}

// do executes a single request, logging it and recording metrics. A non-2xx
// response is translated into a gateway error carrying the upstream message
// verbatim when one is present.
func (c *Client) do(ctx context.Context, method, path, operation string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "catalog request",
		slog.String("method", method),
		slog.String("path", path),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		observeRequest(operation, "error", duration)
		return fmt.Errorf("catalog %s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	observeRequest(operation, strconv.Itoa(resp.StatusCode), duration)

	c.logger.DebugContext(ctx, "catalog response",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseErrorResponse(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// parseErrorResponse reads a non-2xx body and surfaces the catalog's message
// verbatim when available, otherwise a generic gateway message.
func parseErrorResponse(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return apperrors.Gateway(resp.StatusCode,
			fmt.Sprintf("catalog returned status %d", resp.StatusCode))
	}

	var body errorBody
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		return apperrors.Gateway(resp.StatusCode, body.Message)
	}

	return apperrors.Gateway(resp.StatusCode,
		fmt.Sprintf("catalog returned status %d", resp.StatusCode))
}
