package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"go.uber.org/zap"
)

// tokenScope is the AAD scope for Azure OpenAI when no static key is set.
const tokenScope = "https://cognitiveservices.azure.com/.default"

// Message is one chat-style message sent to the deployment.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage mirrors the token accounting returned by the service.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is a normalized completion outcome.
type Result struct {
	Content string
	Model   string
	Usage   *Usage
}

// Options are per-call sampling and retry overrides. Nil sampling fields
// are omitted from the request so the deployment defaults apply.
type Options struct {
	Temperature      *float64
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	// MaxRetries is the total number of attempts; zero means the client
	// default.
	MaxRetries int
}

// Client produces chat completions. A retried success is a valid
// explanation, not the same explanation: the upstream call is not
// deterministic across attempts.
type Client interface {
	ChatCompletion(ctx context.Context, messages []Message, opts Options) (*Result, error)
}

// Config configures the concrete client.
type Config struct {
	Endpoint   string
	Deployment string
	// APIKey selects static-key auth; when empty the client fetches
	// bearer tokens from the ambient Azure identity chain.
	APIKey         string
	APIVersion     string
	MaxRetries     int
	RetryBaseDelay time.Duration
	// AttemptTimeout bounds each round trip so a retry round cannot
	// block indefinitely on the transport.
	AttemptTimeout time.Duration
}

type client struct {
	endpoint       string
	deployment     string
	apiVersion     string
	apiKey         string
	credential     azcore.TokenCredential
	httpClient     *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
	attemptTimeout time.Duration
	logger         *zap.Logger
}

// NewClient builds the completion client. Construction is cheap; token
// acquisition happens on first use.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("openai endpoint not set")
	}
	if cfg.Deployment == "" {
		return nil, errors.New("openai deployment not set")
	}

	c := &client{
		endpoint:       strings.TrimRight(cfg.Endpoint, "/"),
		deployment:     cfg.Deployment,
		apiVersion:     cfg.APIVersion,
		apiKey:         cfg.APIKey,
		httpClient:     &http.Client{},
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		attemptTimeout: cfg.AttemptTimeout,
		logger:         logger,
	}
	if c.apiVersion == "" {
		c.apiVersion = "2024-02-01"
	}
	if c.maxRetries <= 0 {
		c.maxRetries = 3
	}
	if c.retryBaseDelay <= 0 {
		c.retryBaseDelay = 500 * time.Millisecond
	}

	if c.apiKey == "" {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("azure credential: %w", err)
		}
		c.credential = cred
	}

	return c, nil
}

type chatRequest struct {
	Messages         []Message `json:"messages"`
	Temperature      *float64  `json:"temperature,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
	FrequencyPenalty *float64  `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64  `json:"presence_penalty,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Model string `json:"model"`
	Usage *Usage `json:"usage"`
}

// httpError carries the upstream status code for retry classification.
type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("openai: status %d: %s", e.StatusCode, e.Body)
}

// isRetryable matches the transient upstream signals worth another try:
// rate-limited, internal error, unavailable.
func isRetryable(err error) bool {
	var he *httpError
	if !errors.As(err, &he) {
		return false
	}
	switch he.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// ChatCompletion sends the message list to the configured deployment,
// retrying transient failures with exponential backoff (base delay
// doubling per attempt). Non-retryable failures and exhausted retries
// propagate the last error.
func (c *client) ChatCompletion(ctx context.Context, messages []Message, opts Options) (*Result, error) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryBaseDelay << (attempt - 1)
			c.logger.Warn("completion request retrying",
				zap.Int("attempt", attempt+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := c.doOnce(ctx, messages, opts)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *client) doOnce(ctx context.Context, messages []Message, opts Options) (*Result, error) {
	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}

	body := chatRequest{
		Messages:         messages,
		Temperature:      opts.Temperature,
		TopP:             opts.TopP,
		FrequencyPenalty: opts.FrequencyPenalty,
		PresencePenalty:  opts.PresencePenalty,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, url.PathEscape(c.deployment), url.QueryEscape(c.apiVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("openai decode error: %w", err)
	}

	result := &Result{Model: decoded.Model, Usage: decoded.Usage}
	if result.Model == "" {
		result.Model = c.deployment
	}
	if len(decoded.Choices) > 0 {
		result.Content = decoded.Choices[0].Message.Content
	}
	return result, nil
}

func (c *client) authorize(ctx context.Context, req *http.Request) error {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
		return nil
	}
	token, err := c.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{tokenScope}})
	if err != nil {
		return fmt.Errorf("acquire token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.Token)
	return nil
}
