// Package client implements the wishlist store's repository over the item API.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/store"
	apperrors "github.com/utafrali/wishlist/pkg/errors"
	"github.com/utafrali/wishlist/pkg/httpclient"
	"github.com/utafrali/wishlist/pkg/httputil"
	"github.com/utafrali/wishlist/pkg/logger"
	"github.com/utafrali/wishlist/pkg/middleware"
)

const (
	serviceName = "wishlist-api"
	itemsPath   = "/api/v1/items"
)

var _ store.Repository = (*Client)(nil)

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8080.
	BaseURL string
	// Token is sent as a bearer token on every request.
	Token   string
	Timeout time.Duration
	// Doer replaces the default circuit-breaking HTTP client.
	Doer httpclient.Doer
}

// Client calls the wishlist item API.
type Client struct {
	baseURL string
	token   string
	http    httpclient.Doer
	logger  *slog.Logger
}

// New creates a client for the API at cfg.BaseURL.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}

	doer := cfg.Doer
	if doer == nil {
		httpCfg := httpclient.DefaultConfig()
		if cfg.Timeout > 0 {
			httpCfg.Timeout = cfg.Timeout
		}
		doer = newDoer(httpCfg, logger)
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    doer,
		logger:  logger,
	}, nil
}

// newDoer builds the circuit-breaking HTTP client used against the API.
// Requests are not retried: item mutations are not idempotent.
func newDoer(cfg httpclient.Config, logger *slog.Logger) httpclient.Doer {
	cbCfg := httpclient.DefaultCircuitBreakerConfig(serviceName)
	return httpclient.NewCircuitBreakerClient(httpclient.New(cfg), cbCfg, logger)
}

// GetItems returns every item, newest first.
func (c *Client) GetItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := c.do(ctx, "get items", http.MethodGet, itemsPath, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// AddItem creates an item from draft.
func (c *Client) AddItem(ctx context.Context, draft domain.Draft) (domain.Item, error) {
	var item domain.Item
	err := c.do(ctx, "add item", http.MethodPost, itemsPath, draft, &item)
	return item, err
}

// UpdateItem applies patch to the item with the given id.
func (c *Client) UpdateItem(ctx context.Context, id string, patch domain.Patch) (domain.Item, error) {
	var item domain.Item
	err := c.do(ctx, "update item", http.MethodPatch, itemPath(id), patch, &item)
	return item, err
}

// DeleteItem removes the item with the given id.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, "delete item", http.MethodDelete, itemPath(id), nil, nil)
}

// ToggleBought sets the bought flag of the item with the given id.
func (c *Client) ToggleBought(ctx context.Context, id string, bought bool) (domain.Item, error) {
	var item domain.Item
	body := struct {
		Bought bool `json:"bought"`
	}{Bought: bought}
	err := c.do(ctx, "toggle bought", http.MethodPut, itemPath(id)+"/bought", body, &item)
	return item, err
}

func itemPath(id string) string {
	return itemsPath + "/" + url.PathEscape(id)
}

// do sends one request and decodes the envelope's data into dst. Every
// failure, transport or HTTP, is returned as a repository failure.
func (c *Client) do(ctx context.Context, op, method, path string, body, dst any) error {
	req, err := httpclient.NewJSONRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.RepositoryFailed(op, err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	correlationID := logger.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	req.Header.Set(middleware.CorrelationHeader, correlationID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("correlation_id", correlationID),
	)

	resp, err := c.http.Do(ctx, req)
	if errors.Is(err, httpclient.ErrCircuitOpen) {
		return apperrors.RepositoryFailed(op,
			fmt.Errorf("%w: %w", apperrors.Unavailable("wishlist service is temporarily unavailable"), err))
	}
	if err != nil {
		return apperrors.RepositoryFailed(op, fmt.Errorf("call %s: %w", serviceName, err))
	}

	if !httpclient.IsSuccess(resp.StatusCode) {
		return apperrors.RepositoryFailed(op, httpclient.ParseResponseError(resp, serviceName))
	}
	defer func() { _ = resp.Body.Close() }()

	if err := httputil.DecodeData(resp.Body, dst); err != nil {
		return apperrors.RepositoryFailed(op, err)
	}
	return nil
}
