// Package gemini implements ARIA's live responder on Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/samirrijal/survivetrack/internal/core/ports"
	"github.com/samirrijal/survivetrack/internal/core/usecases"
)

const defaultModel = "gemini-2.0-flash"

// Options configures the client.
type Options struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	BaseURL     string // optional endpoint override
}

// Client generates ARIA replies with Gemini.
type Client struct {
	client *genai.Client
	model  string
	config genai.GenerateContentConfig
}

var _ ports.Responder = (*Client)(nil)

// NewClient creates a Gemini client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := opts.Model
	if model == "" || strings.HasPrefix(model, "claude") {
		model = defaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
		config: genai.GenerateContentConfig{
			MaxOutputTokens: int32(opts.MaxTokens),
			Temperature:     genai.Ptr(float32(opts.Temperature)),
		},
	}, nil
}

// Online implements ports.Responder.
func (c *Client) Online() bool { return c != nil && c.client != nil }

// Model implements ports.Responder.
func (c *Client) Model() string { return c.model }

// Respond implements ports.Responder.
func (c *Client) Respond(ctx context.Context, p ports.Prompt) (string, error) {
	cfg := c.config
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	contents := []*genai.Content{
		genai.NewContentFromText(usecases.UserMessage(p.User, p.Zone), genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("no text returned")
	}
	return text, nil
}
