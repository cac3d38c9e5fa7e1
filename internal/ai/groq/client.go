// Package groq implements ai.Generator against an OpenAI-compatible chat
// completions endpoint.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/ai"
	"github.com/spigell/career-navigator/internal/logger"
)

const (
	DefaultEndpoint    = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel       = "llama-3.1-8b-instant"
	DefaultTemperature = 0.3

	maxErrorBody = 512
)

// Options configures a Client.
type Options struct {
	APIKey      string
	Model       string
	Endpoint    string
	Temperature float64
	HTTPClient  *http.Client
	UserAgent   string
}

type Client struct {
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	userAgent   string
	httpClient  *http.Client
	logger      *zap.Logger
}

var _ ai.Generator = (*Client)(nil)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

func New(opts Options, log *zap.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("groq api key is required")
	}

	c := &Client{
		apiKey:      apiKey,
		model:       strings.TrimSpace(opts.Model),
		endpoint:    strings.TrimSpace(opts.Endpoint),
		temperature: opts.Temperature,
		userAgent:   opts.UserAgent,
		httpClient:  opts.HTTPClient,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.temperature <= 0 {
		c.temperature = DefaultTemperature
	}
	if c.userAgent == "" {
		c.userAgent = "career-navigator"
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c.logger = logger.WithCommonFields(log, ai.ProviderGroq, c.model)

	return c, nil
}

// GenerateContent posts a two-message completion request and returns the first
// choice's content.
func (c *Client) GenerateContent(ctx context.Context, system, msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", errors.New("message must not be empty")
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: msg},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("completion request failed: status %d: %s",
			resp.StatusCode, logger.TruncateForLog(string(payload), maxErrorBody))
	}

	if !gjson.ValidBytes(payload) {
		return "", errors.New("completion response is not valid json")
	}

	content := strings.TrimSpace(gjson.GetBytes(payload, "choices.0.message.content").String())
	if content == "" {
		return "", errors.New("completion response has no content")
	}

	c.logger.Debug("groq completion received",
		zap.Int("status", resp.StatusCode),
		zap.String("finish_reason", gjson.GetBytes(payload, "choices.0.finish_reason").String()),
	)

	return content, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}
