package recommender

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/application/recommendation"
	"github.com/shop/backend/internal/infrastructure/config"
)

// Client calls an external recommendation service over HTTP. Failures are
// reported to the caller, which falls back to local scoring.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption is a functional option for configuring the client
type ClientOption func(*Client)

// WithLogger sets the logger for the client
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a recommender client from configuration. The connect
// timeout bounds dialing only; the read timeout bounds the whole exchange.
func NewClient(cfg config.RecommenderConfig, opts ...ClientOption) *Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: cfg.ConnectTimeout,
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.ReadTimeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RecommendByProduct fetches recommendations for products similar to the given one
func (c *Client) RecommendByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]recommendation.RecommendationResponse, error) {
	return c.fetch(ctx, "/recommendations/product/"+productID.String(), limit)
}

// RecommendByUser fetches recommendations matching the given user's preferences
func (c *Client) RecommendByUser(ctx context.Context, userID uuid.UUID, limit int) ([]recommendation.RecommendationResponse, error) {
	return c.fetch(ctx, "/recommendations/user/"+userID.String(), limit)
}

func (c *Client) fetch(ctx context.Context, path string, limit int) ([]recommendation.RecommendationResponse, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("invalid recommender URL: %w", err)
	}
	endpoint += "?limit=" + strconv.Itoa(limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommender request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("recommender request failed",
			zap.String("url", endpoint),
			zap.Error(err),
		)
		return nil, fmt.Errorf("recommender request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("recommender returned non-OK status",
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("recommender returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read recommender response: %w", err)
	}

	items, err := decodeItems(body)
	if err != nil {
		c.logger.Warn("recommender returned unparseable body",
			zap.String("url", endpoint),
			zap.Error(err),
		)
		return nil, err
	}
	return items, nil
}

// decodeItems accepts either a bare JSON array or an {"items": [...]} envelope.
// An object without an "items" key is not a recommendation payload; treating it
// as an empty result would let arbitrary 200 responses mask remote failures.
func decodeItems(body []byte) ([]recommendation.RecommendationResponse, error) {
	var items []recommendation.RecommendationResponse
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var envelope struct {
		Items *[]recommendation.RecommendationResponse `json:"items"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode recommender response: %w", err)
	}
	if envelope.Items == nil {
		return nil, fmt.Errorf("recommender response has no items field")
	}
	return *envelope.Items, nil
}

var _ recommendation.RemoteClient = (*Client)(nil)
