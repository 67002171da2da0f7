package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"videostudio/internal/domain"
)

const (
	DefaultEndpoint = "https://oi-server.onrender.com/chat/completions"
	DefaultModel    = "replicate/google/veo-3"
	DefaultTimeout  = 15 * time.Minute
)

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 4 << 10

type Options struct {
	Endpoint   string
	APIKey     string
	CustomerID string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to a chat-completions style endpoint that fronts a
// text-to-video model.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	customerID string
	model      string
}

func NewClient(opts Options) *Client {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		endpoint:   endpoint,
		token:      strings.TrimSpace(opts.APIKey),
		customerID: strings.TrimSpace(opts.CustomerID),
		model:      model,
	}
}

// Model reports the model name sent upstream.
func (c *Client) Model() string {
	return c.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// APIError is returned when the upstream answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed: %d %s", e.StatusCode, e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == domain.ErrProviderFailure
}

// Complete sends one system and one user message and returns the decoded
// JSON body. It makes a single attempt.
func (c *Client) Complete(ctx context.Context, system, user string) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: video client not configured", domain.ErrProviderFailure)
	}
	if c.token == "" {
		return nil, fmt.Errorf("%w: video API key is missing", domain.ErrProviderFailure)
	}
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if c.customerID != "" {
		req.Header.Set("customerId", c.customerID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// statusText strips the numeric prefix net/http keeps in Response.Status.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
