// Package v0 is a small client for the v0.dev Platform API. Failed responses
// are returned as *APIError so the error pipeline can classify them by status.
package v0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const userAgent = "v0-mcp-server/1.0"

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx response from the v0 API.
type APIError struct {
	Status     int
	StatusText string
	Message    string
	// RetryAfter is the Retry-After header in seconds, 0 when absent.
	RetryAfter int
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", e.Status)
		if e.StatusText != "" {
			msg += ": " + e.StatusText
		}
	}
	if e.RetryAfter > 0 && !strings.Contains(strings.ToLower(msg), "retry") {
		msg += fmt.Sprintf(" (retry after %d seconds)", e.RetryAfter)
	}
	return msg
}

// StatusCode exposes the HTTP status to the categorizer.
func (e *APIError) StatusCode() int { return e.Status }

// Client calls the v0 Platform API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client. A zero timeout leaves the http.Client default.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// CreateChat starts a chat from a prompt.
func (c *Client) CreateChat(ctx context.Context, req CreateChatRequest) (*Chat, error) {
	var chat Chat
	if err := c.do(ctx, http.MethodPost, "chats", req, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// SendMessage sends a follow-up prompt to an existing chat.
func (c *Client) SendMessage(ctx context.Context, chatID string, req SendMessageRequest) (*Chat, error) {
	var chat Chat
	endpoint := "chats/" + url.PathEscape(chatID) + "/messages"
	if err := c.do(ctx, http.MethodPost, endpoint, req, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", c.baseURL, err)
	}
	// endpoint is already escaped.
	u := base.JoinPath(endpoint)

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		req, err = http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
		if err != nil {
			return nil, err
		}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, result any) error {
	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to transform response: %w", err)
	}
	return nil
}

// errorBody covers the shapes v0 uses for error payloads.
type errorBody struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
	if s := resp.Header.Get("Retry-After"); s != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			apiErr.RetryAfter = n
		}
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		switch {
		case body.Error.Message != "":
			apiErr.Message = body.Error.Message
		case body.Message != "":
			apiErr.Message = body.Message
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
		apiErr.Message = text
	}
	return apiErr
}
