// Package token maintains the process-wide fallback bearer credential by
// periodically exchanging the OAuth authorization key for a fresh access
// token.
package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxResponseSizeBytes = 1 << 20

type Config struct {
	URL      string        `envconfig:"URL" split_words:"true" default:"https://ngw.devices.sberbank.ru:9443/api/v2/oauth"`
	AuthKey  string        `envconfig:"AUTH_KEY" split_words:"true" required:"true"`
	Scope    string        `envconfig:"SCOPE" split_words:"true" default:"GIGACHAT_API_PERS"`
	Interval time.Duration `envconfig:"INTERVAL" split_words:"true" default:"20m"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// Provider holds the current fallback access token and refreshes it on a
// fixed interval. The zero token means "no fallback available".
type Provider struct {
	endpoint   string
	authKey    string
	scope      string
	interval   time.Duration
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type oauthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

func NewProvider(cfg Config) (*Provider, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, errors.New("oauth url is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid oauth url: %w", err)
	}

	authKey := strings.TrimSpace(cfg.AuthKey)
	if authKey == "" {
		return nil, errors.New("oauth authorization key is required")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 20 * time.Minute
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Provider{
		endpoint: endpoint,
		authKey:  authKey,
		scope:    strings.TrimSpace(cfg.Scope),
		interval: interval,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNewProvider(cfg Config) *Provider {
	p, err := NewProvider(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Token returns the current fallback access token, or "" when no refresh has
// succeeded yet.
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

// Refresh exchanges the authorization key for a new access token.
func (p *Provider) Refresh(ctx context.Context) error {
	form := url.Values{}
	form.Set("scope", p.scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build oauth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", uuid.NewString())
	req.Header.Set("Authorization", "Basic "+p.authKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute oauth request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read oauth response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("oauth http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed oauthResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("decode oauth response: %w", err)
	}
	if strings.TrimSpace(parsed.AccessToken) == "" {
		return errors.New("oauth response has no access_token")
	}

	p.mu.Lock()
	p.token = strings.TrimSpace(parsed.AccessToken)
	p.mu.Unlock()
	return nil
}

// Run refreshes the token immediately and then on every interval tick until
// ctx is canceled. Refresh failures are logged and retried on the next tick;
// the previous token stays in place.
func (p *Provider) Run(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial access token refresh failed")
	} else {
		log.Info().Msg("fallback access token refreshed")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				log.Warn().Err(err).Msg("access token refresh failed")
				continue
			}
			log.Info().Msg("fallback access token refreshed")
		}
	}
}
