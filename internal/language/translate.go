package language

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnavailable indicates the translation service is unreachable or refused
// the request. Callers treat this as a signal to pass the original text on.
var ErrUnavailable = errors.New("translation service unavailable")

// ErrThrottled indicates the local rate limiter rejected the call.
var ErrThrottled = errors.New("translation rate limit exceeded")

const defaultClientTimeout = 10 * time.Second

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Client is an HTTP client for the translation sidecar.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
}

// translateRequest is the request body for POST /translate.
type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// translateResponse is the response body from POST /translate.
type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	DetectedSource string `json:"detected_source,omitempty"`
}

// NewClient creates a translation client. rps bounds outbound request rate;
// rps <= 0 disables throttling.
func NewClient(baseURL string, timeout time.Duration, rps int) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), rps)
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Translate sends text for translation. The rate limiter rejects rather than
// queues: triage latency must not stack up behind a slow sidecar.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		return "", ErrThrottled
	}

	body, err := json.Marshal(translateRequest{Text: text, Source: source, Target: target})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result translateResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	if result.TranslatedText == "" {
		return "", fmt.Errorf("%w: empty translation", ErrUnavailable)
	}

	return result.TranslatedText, nil
}

// Health checks if the translation service is reachable.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
