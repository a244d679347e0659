package platform

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"plugsetup/internal/core"
)

// Client talks to the local platform's module management API. It implements
// the dispatcher's ModuleInstaller and HealthChecker ports.
type Client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger
}

// NewClient creates a platform client for the given base URL.
func NewClient(baseURL string, logger core.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Install installs the named module on the platform.
func (c *Client) Install(ctx context.Context, pluginID string) error {
	endpoint := fmt.Sprintf("%s/api/v1/modules/%s/install", c.baseURL, url.PathEscape(pluginID))
	return c.call(ctx, http.MethodPost, endpoint, "install "+pluginID)
}

// Uninstall removes the named module from the platform.
func (c *Client) Uninstall(ctx context.Context, pluginID string) error {
	endpoint := fmt.Sprintf("%s/api/v1/modules/%s", c.baseURL, url.PathEscape(pluginID))
	return c.call(ctx, http.MethodDelete, endpoint, "uninstall "+pluginID)
}

// Check probes the named service's health endpoint.
func (c *Client) Check(ctx context.Context, service string) error {
	endpoint := fmt.Sprintf("%s/api/v1/services/%s/health", c.baseURL, url.PathEscape(service))
	return c.call(ctx, http.MethodGet, endpoint, "health check "+service)
}

// call executes a single platform request. Transport failures become
// NetworkError, non-2xx responses become CapabilityError with the status.
func (c *Client) call(ctx context.Context, method, endpoint, operation string) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("platform request failed",
			"operation", operation,
			"error", err.Error(),
			"duration", duration,
		)
		return &core.NetworkError{Operation: operation, URL: endpoint, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", "error", err)
		}
	}()

	c.logger.Debug("platform request completed",
		"operation", operation,
		"status_code", resp.StatusCode,
		"duration", duration,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body bytes.Buffer
		if _, err := body.ReadFrom(resp.Body); err != nil {
			return &core.CapabilityError{
				Operation: operation,
				Status:    resp.StatusCode,
				Message:   fmt.Sprintf("status %d (failed to read error body)", resp.StatusCode),
			}
		}
		return &core.CapabilityError{
			Operation: operation,
			Status:    resp.StatusCode,
			Message:   body.String(),
		}
	}

	return nil
}
