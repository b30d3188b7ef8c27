// Package gemini answers advice prompts with Google's Generative Language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gl "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

var (
	ErrMissingAPIKey = errors.New("missing Gemini API key")
	ErrNoCandidates  = errors.New("response has no text candidates")
)

// Client is an advice.Provider backed by generateContent.
type Client struct {
	models *gl.ModelsService
	model  string
}

// New builds a client for model. Extra options are appended after the API
// key, which is how tests point the client at a local server.
func New(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	svc, err := gl.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create generative language service: %w", err)
	}
	return &Client{models: svc.Models, model: resourceName(model)}, nil
}

func resourceName(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

// Model returns the resource name requests are sent to.
func (c *Client) Model() string { return c.model }

func (c *Client) Advise(ctx context.Context, prompt string) (string, error) {
	req := &gl.GenerateContentRequest{
		Contents: []*gl.Content{{
			Role:  "user",
			Parts: []*gl.Part{{Text: prompt}},
		}},
	}
	resp, err := c.models.GenerateContent(c.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", c.model, err)
	}
	return replyText(resp)
}

func replyText(resp *gl.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			return text, nil
		}
	}
	return "", ErrNoCandidates
}
