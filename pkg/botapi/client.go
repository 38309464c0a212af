// Package botapi is the HTTP client the chat-bot front end uses to talk to
// the advisor service.
package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSizeBytes = 4 << 20

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"http://localhost:8080"`
	Token   string        `envconfig:"TOKEN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"120s"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type resultResponse struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("advisor base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid advisor base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNewClient(cfg Config) *Client {
	c, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// DigitalMaturity submits the completed survey and returns the advisor's
// assessment text.
func (c *Client) DigitalMaturity(ctx context.Context, survey map[string]string) (string, error) {
	return c.post(ctx, "/digitalMaturity", survey)
}

// AskQuestion forwards a free-text question and returns the advisor's answer.
func (c *Client) AskQuestion(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", errors.New("question is empty")
	}
	return c.post(ctx, "/askQuestion", map[string]string{"question": question})
}

func (c *Client) post(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed resultResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("advisor http status=%d body=%s", resp.StatusCode, string(raw))
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", fmt.Errorf("advisor http status=%d: %s", resp.StatusCode, parsed.Error)
		}
		return "", fmt.Errorf("advisor http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return parsed.Result, nil
}
