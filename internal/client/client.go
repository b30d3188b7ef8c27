// Package client talks to the budgeter HTTP API.
package client

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

	"budgeter/internal/advice"
	"budgeter/internal/core"
	"budgeter/internal/history"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client

	// used for /ai_chat; must exceed the server's AI timeout
	chat *http.Client
}

// New returns a client for the server at baseURL. Requests are bounded by
// timeout, except /ai_chat which waits at least DefaultChatTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		chat:    &http.Client{Timeout: max(timeout, DefaultChatTimeout)},
	}
}

type budgetRequest struct {
	Paycheck   core.Money      `json:"paycheck"`
	Categories core.Categories `json:"categories"`
}

// Budget posts the paycheck and categories to /budget.
func (c *Client) Budget(ctx context.Context, paycheck core.Money, cats core.Categories) (core.BudgetResult, error) {
	if cats == nil {
		cats = core.Categories{}
	}
	var res core.BudgetResult
	err := c.do(ctx, c.http, http.MethodPost, "/budget", budgetRequest{Paycheck: paycheck, Categories: cats}, &res)
	return res, err
}

func (c *Client) History(ctx context.Context) ([]history.Entry, error) {
	var entries []history.Entry
	if err := c.do(ctx, c.http, http.MethodGet, "/history", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

type chatRequest struct {
	Message string        `json:"message"`
	Context []advice.Turn `json:"context,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat sends a message to /ai_chat and returns the reply text.
func (c *Client) Chat(ctx context.Context, message string, turns []advice.Turn) (string, error) {
	var resp chatResponse
	if err := c.do(ctx, c.chat, http.MethodPost, "/ai_chat", chatRequest{Message: message, Context: turns}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

// IsAPIError reports whether err carries a server response with the given
// status.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
