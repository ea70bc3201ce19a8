package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/utils"
)

// ErrEmptyCompletion is returned when the model answers with no content.
var ErrEmptyCompletion = errors.New("completion has no content")

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// LLMClient calls an OpenAI-compatible chat-completions endpoint.
type LLMClient struct {
	apiKey  string
	apiURL  string
	model   string
	referer string
	title   string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[string]
}

// ClientConfig configures an LLMClient.
type ClientConfig struct {
	APIKey  string
	APIURL  string
	Model   string
	Referer string
	Title   string
	Timeout time.Duration
}

const (
	temperature = 0.3
	maxTokens   = 4096
)

// NewLLMClient creates a client with its own circuit breaker.
// The breaker opens after three consecutive upstream failures and tries again
// after a minute. Canceled calls do not count against it.
func NewLLMClient(cfg ClientConfig, httpClient *http.Client) *LLMClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "openrouter",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// A caller that went away says nothing about the upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			utils.GetLogger().Warn("Circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &LLMClient{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.APIURL,
		model:   cfg.Model,
		referer: cfg.Referer,
		title:   cfg.Title,
		client:  httpClient,
		cb:      cb,
	}
}

// State returns the circuit breaker state.
func (c *LLMClient) State() gobreaker.State {
	return c.cb.State()
}

// Complete sends the messages and returns the first choice's content.
func (c *LLMClient) Complete(ctx context.Context, messages []Message) (string, error) {
	return c.cb.Execute(func() (string, error) {
		return c.complete(ctx, messages)
	})
}

func (c *LLMClient) complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		content = result.Choices[0].Text
	}
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
