// Package anthropic implements ARIA's live responder on the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/samirrijal/survivetrack/internal/core/ports"
	"github.com/samirrijal/survivetrack/internal/core/usecases"
)

const apiVersion = "2023-06-01"

// ErrNotConfigured is returned when the client has no API key.
var ErrNotConfigured = errors.New("anthropic client not configured")

// Options configures the client.
type Options struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	BaseURL     string // e.g. https://api.anthropic.com/v1
}

// Client calls the Messages endpoint with fasthttp.
type Client struct {
	opts Options
	http *fasthttp.Client
}

var _ ports.Responder = (*Client)(nil)

// NewClient creates a client. Returns nil if apiKey is empty.
func NewClient(opts Options) *Client {
	if opts.APIKey == "" {
		return nil
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		opts: opts,
		http: &fasthttp.Client{
			Name:                "survivetrack",
			ReadTimeout:         opts.Timeout,
			WriteTimeout:        opts.Timeout,
			MaxIdleConnDuration: time.Minute,
		},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Online implements ports.Responder.
func (c *Client) Online() bool { return c != nil && c.opts.APIKey != "" }

// Model implements ports.Responder.
func (c *Client) Model() string {
	if c == nil {
		return "Offline"
	}
	return c.opts.Model
}

// Respond implements ports.Responder.
func (c *Client) Respond(ctx context.Context, p ports.Prompt) (string, error) {
	if !c.Online() {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := json.Marshal(request{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		System:      p.System,
		Messages:    []message{{Role: "user", Content: usecases.UserMessage(p.User, p.Zone)}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.opts.BaseURL + "/messages")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("x-api-key", c.opts.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.SetBody(body)

	if err := c.http.DoTimeout(req, resp, c.timeout(ctx)); err != nil {
		return "", fmt.Errorf("messages call: %w", err)
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK {
		var ae apiError
		if json.Unmarshal(resp.Body(), &ae) == nil && ae.Error.Message != "" {
			return "", fmt.Errorf("messages API %d (%s): %s", status, ae.Error.Type, ae.Error.Message)
		}
		return "", fmt.Errorf("messages API %d: %s", status, truncate(string(resp.Body()), 200))
	}

	var out response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	var b strings.Builder
	for _, block := range out.Content {
		if block.Type == "" || block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

// timeout is the configured timeout, shortened to the context deadline.
func (c *Client) timeout(ctx context.Context) time.Duration {
	t := c.opts.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < t {
			t = left
		}
	}
	if t <= 0 {
		t = time.Millisecond
	}
	return t
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
