package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"promptd/internal/domain"
)

// Client talks to the prompt storage API: the listing endpoint for the
// catalog and per-artifact signed URLs for raw content. Every call is
// bounded by the configured timeout; failures come back as domain errors
// with CodeUnavailable so the library layer can answer with a structured
// error result instead of an empty catalog.
type Client struct {
	mu         sync.RWMutex
	catalogURL string

	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
	metrics    domain.Metrics
}

type Config struct {
	CatalogURL string
	Timeout    time.Duration
}

func NewClient(cfg Config, metrics domain.Metrics, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultFetchTimeoutSeconds * time.Second
	}
	catalogURL := strings.TrimSpace(cfg.CatalogURL)
	if catalogURL == "" {
		catalogURL = domain.DefaultCatalogURL
	}
	return &Client{
		catalogURL: catalogURL,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		logger:     logger.Named("storage"),
		metrics:    metrics,
	}
}

// CatalogURL returns the configured listing endpoint.
func (c *Client) CatalogURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalogURL
}

// SetCatalogURL swaps the listing endpoint, used by config hot reload.
// Empty values are ignored.
func (c *Client) SetCatalogURL(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalogURL = url
}

// listEnvelope is the wire shape of the listing endpoint. Data is a
// pointer so a missing field is distinguishable from an empty list.
type listEnvelope struct {
	Status  int                          `json:"status"`
	Data    *[]domain.ArtifactDescriptor `json:"data"`
	Message string                       `json:"message"`
}

// ListArtifacts fetches the catalog. The only recognized success shape is
// {status:200, data:[...]}; anything else is reported as unavailable.
func (c *Client) ListArtifacts(ctx context.Context) ([]domain.ArtifactDescriptor, error) {
	start := time.Now()
	artifacts, err := c.listArtifacts(ctx)
	if c.metrics != nil {
		c.metrics.ObserveCatalogFetch(time.Since(start), err)
	}
	if err != nil {
		c.logger.Warn("catalog fetch failed",
			zap.String("url", c.CatalogURL()),
			zap.Error(err),
		)
		return nil, err
	}
	c.logger.Debug("catalog fetched",
		zap.Int("artifacts", len(artifacts)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return artifacts, nil
}

func (c *Client) listArtifacts(ctx context.Context) ([]domain.ArtifactDescriptor, error) {
	const op = "storage.ListArtifacts"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CatalogURL(), nil)
	if err != nil {
		return nil, domain.E(domain.CodeInvalidArgument, op, "", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, op, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.E(domain.CodeUnavailable, op,
			fmt.Sprintf("unexpected status: %s", resp.Status), domain.ErrCatalogUnavailable)
	}

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, domain.E(domain.CodeUnavailable, op, "decode envelope", domain.ErrMalformedEnvelope)
	}
	if envelope.Status != http.StatusOK || envelope.Data == nil {
		return nil, domain.E(domain.CodeUnavailable, op,
			fmt.Sprintf("envelope status %d", envelope.Status), domain.ErrMalformedEnvelope)
	}
	return *envelope.Data, nil
}

// FetchContent retrieves the raw text body behind a signed URL. Content is
// never cached; every call hits the storage backend.
func (c *Client) FetchContent(ctx context.Context, signedURL string) (string, error) {
	start := time.Now()
	content, err := c.fetchContent(ctx, signedURL)
	if c.metrics != nil {
		c.metrics.ObserveContentFetch(time.Since(start), err)
	}
	if err != nil {
		c.logger.Warn("content fetch failed", zap.Error(err))
		return "", err
	}
	return content, nil
}

func (c *Client) fetchContent(ctx context.Context, signedURL string) (string, error) {
	const op = "storage.FetchContent"

	if strings.TrimSpace(signedURL) == "" {
		return "", domain.E(domain.CodeInvalidArgument, op, "empty signed url", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		return "", domain.E(domain.CodeInvalidArgument, op, "", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.E(domain.CodeUnavailable, op, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", domain.E(domain.CodeUnavailable, op,
			fmt.Sprintf("unexpected status: %s", resp.Status), domain.ErrCatalogUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.E(domain.CodeUnavailable, op, "read body", err)
	}
	return string(body), nil
}
