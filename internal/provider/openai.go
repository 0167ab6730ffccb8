// OpenAI-compatible chat-completions client.
//
// One bounded HTTP call per Complete invocation: no retries, no streaming.
// Failures are classified into the package's Kind taxonomy at this boundary
// so the dispatcher never sees raw transport errors.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tbourn/go-text-gateway/internal/config"
	"github.com/tbourn/go-text-gateway/internal/prompt"
)

// OpenAIClient calls an OpenAI-compatible /chat/completions endpoint.
// Safe for concurrent use.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration

	// limiter paces outbound calls so a burst of gateway traffic cannot
	// exhaust the provider-side quota. Nil disables pacing.
	limiter *rate.Limiter

	httpc *http.Client
}

// NewOpenAIClient constructs a client from provider configuration.
func NewOpenAIClient(cfg config.ProviderConfig) *OpenAIClient {
	var lim *rate.Limiter
	if cfg.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)
	}
	return &OpenAIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: lim,
		httpc: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete issues one chat completion bounded by the configured timeout.
// The deadline covers outbound pacing, the round trip, and body decoding.
func (c *OpenAIClient) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", classify(ctx, "outbound pacing interrupted", err)
		}
	}

	msgs := make([]chatMessage, 0, 2)
	if p.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: p.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: p.Input})

	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: p.Temperature,
	})
	if err != nil {
		return "", &Error{Kind: KindInvalidResponse, Message: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindUpstream, Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", classify(ctx, "completion request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp chatErrorResponse
		msg := "unexpected status " + resp.Status
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&errResp); decodeErr == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return "", &Error{Kind: KindUpstream, Message: msg}
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", classify(ctx, "decode response", &Error{Kind: KindInvalidResponse, Message: "decode response", Err: err})
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", &Error{Kind: KindInvalidResponse, Message: "empty completion"}
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// classify maps a transport-level failure to the Kind taxonomy, preferring
// the timeout classification whenever the call deadline has elapsed.
func classify(ctx context.Context, msg string, err error) *Error {
	if ctx.Err() == context.DeadlineExceeded {
		return &Error{Kind: KindTimeout, Message: msg, Err: ctx.Err()}
	}
	if pe, ok := AsError(err); ok {
		return pe
	}
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}
