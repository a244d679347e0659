package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"plugsetup/internal/core"
)

// probe describes how to verify a credential against one provider: a cheap
// authenticated GET that succeeds only with a working key.
type probe struct {
	baseURL   string
	path      string
	authorize func(req *http.Request, key string)
}

// Checker verifies API keys against the real provider endpoints. It
// implements the dispatcher's CredentialChecker port.
type Checker struct {
	probes map[string]probe
	http   *http.Client
	logger core.Logger
}

// NewChecker creates a checker with the built-in provider registry.
func NewChecker(logger core.Logger) *Checker {
	return &Checker{
		probes: map[string]probe{
			"openai": {
				baseURL: "https://api.openai.com",
				path:    "/v1/models",
				authorize: func(req *http.Request, key string) {
					req.Header.Set("Authorization", "Bearer "+key)
				},
			},
			"anthropic": {
				baseURL: "https://api.anthropic.com",
				path:    "/v1/models",
				authorize: func(req *http.Request, key string) {
					req.Header.Set("x-api-key", key)
					req.Header.Set("anthropic-version", "2023-06-01")
				},
			},
			"openrouter": {
				baseURL: "https://openrouter.ai",
				path:    "/api/v1/key",
				authorize: func(req *http.Request, key string) {
					req.Header.Set("Authorization", "Bearer "+key)
				},
			},
			"discord": {
				baseURL: "https://discord.com",
				path:    "/api/v10/users/@me",
				authorize: func(req *http.Request, key string) {
					req.Header.Set("Authorization", "Bot "+key)
				},
			},
		},
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// SetBaseURL points one provider's probe at a different host. Used by tests
// and air-gapped deployments with API proxies.
func (c *Checker) SetBaseURL(provider, baseURL string) {
	p, ok := c.probes[provider]
	if !ok {
		return
	}
	p.baseURL = baseURL
	c.probes[provider] = p
}

// Providers lists the supported provider names, sorted.
func (c *Checker) Providers() []string {
	names := make([]string, 0, len(c.probes))
	for name := range c.probes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check verifies a key against the named provider. A nil return means the
// provider accepted the key. An HTTP rejection (401, 403, anything non-2xx)
// comes back as CapabilityError, an unreachable provider as NetworkError.
func (c *Checker) Check(ctx context.Context, provider, key string) error {
	p, ok := c.probes[provider]
	if !ok {
		return &core.ValidationError{
			Message: fmt.Sprintf("Unknown provider %q; supported providers: %v", provider, c.Providers()),
		}
	}

	operation := "validate " + provider + " key"
	endpoint := p.baseURL + p.path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	p.authorize(req, key)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("credential check unreachable",
			"provider", provider,
			"error", err.Error(),
		)
		return &core.NetworkError{Operation: operation, URL: endpoint, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", "error", err)
		}
	}()

	c.logger.Debug("credential check completed",
		"provider", provider,
		"status_code", resp.StatusCode,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body bytes.Buffer
		_, _ = body.ReadFrom(resp.Body)
		return &core.CapabilityError{
			Operation: operation,
			Status:    resp.StatusCode,
			Message:   body.String(),
		}
	}

	return nil
}
