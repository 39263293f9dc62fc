// Package ai wraps the Anthropic API for the research and validation
// components: model selection, retry with exponential backoff, and a cap on
// concurrent API calls.
package ai

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
)

// Model constants. Research prompts need the stronger model to follow the
// extraction instructions reliably; schema validation is a simple check that
// Haiku handles at a fraction of the cost.
const (
	// ModelSonnet is the high-end model for research tasks
	ModelSonnet = "claude-sonnet-4-5-20250929"

	// ModelHaiku is the cost-efficient model for validation
	ModelHaiku = "claude-haiku-4-5-20251001"
)

// GetResearchModel returns the research model, checking SOURCER_MODEL_RESEARCH first
func GetResearchModel() string {
	if model := os.Getenv("SOURCER_MODEL_RESEARCH"); model != "" {
		return model
	}
	return ModelSonnet
}

// GetValidationModel returns the validation model, checking SOURCER_MODEL_VALIDATE first
func GetValidationModel() string {
	if model := os.Getenv("SOURCER_MODEL_VALIDATE"); model != "" {
		return model
	}
	return ModelHaiku
}

// Completer is the minimal surface the researchers and the validation gate
// depend on. Tests substitute a canned implementation.
type Completer interface {
	// Complete sends a single-turn prompt and returns the model's text output.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest describes one prompt to the model.
type CompletionRequest struct {
	Prompt    string // User-turn content (required)
	System    string // Optional system prompt
	Model     string // Model override; empty uses the client default
	MaxTokens int    // Output token cap; 0 uses 4096
	Operation string // Short label for log lines, e.g. "github-research"
}

// RetryConfig holds retry configuration for API calls
type RetryConfig struct {
	MaxRetries         int           // Maximum number of retries (default: 3)
	InitialBackoff     time.Duration // Initial backoff duration (default: 1s)
	MaxBackoff         time.Duration // Maximum backoff duration (default: 30s)
	BackoffMultiplier  float64       // Backoff multiplier (default: 2.0)
	Timeout            time.Duration // Per-attempt timeout (default: 60s)
	MaxConcurrentCalls int           // Maximum concurrent API calls (default: 3, 0 = unlimited)
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:         3,
		InitialBackoff:     1 * time.Second,
		MaxBackoff:         30 * time.Second,
		BackoffMultiplier:  2.0,
		Timeout:            60 * time.Second,
		MaxConcurrentCalls: 3,
	}
}

// Client is the shared Anthropic client. Safe for concurrent use; the
// semaphore bounds in-flight API calls across all researchers and the gate.
type Client struct {
	client *anthropic.Client
	model  string
	retry  RetryConfig
	sem    *semaphore.Weighted
}

// Compile-time check that Client implements Completer
var _ Completer = (*Client)(nil)

// Config holds client configuration
type Config struct {
	APIKey string // Anthropic API key (if empty, reads from ANTHROPIC_API_KEY env var)
	Model  string // Default model (default: research model)
	Retry  RetryConfig
}

// NewClient creates a new Anthropic client wrapper
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = GetResearchModel()
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	var sem *semaphore.Weighted
	if retry.MaxConcurrentCalls > 0 {
		sem = semaphore.NewWeighted(int64(retry.MaxConcurrentCalls))
	}

	return &Client{
		client: &client,
		model:  model,
		retry:  retry,
		sem:    sem,
	}, nil
}

// Complete sends a single-turn prompt with retry and returns the
// concatenated text blocks of the response.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	start := time.Now()
	var response *anthropic.Message
	err := c.retryWithBackoff(ctx, req.Operation, func(attemptCtx context.Context) error {
		resp, apiErr := c.client.Messages.New(attemptCtx, params)
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	log.Printf("[AI] %s call: input=%d tokens, output=%d tokens, duration=%v",
		req.Operation, response.Usage.InputTokens, response.Usage.OutputTokens,
		time.Since(start).Round(time.Millisecond))

	return text.String(), nil
}

// retryWithBackoff executes an operation with retry and exponential backoff.
func (c *Client) retryWithBackoff(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("failed to acquire concurrency slot for %s: %w", operation, err)
		}
		defer c.sem.Release(1)
	}

	var lastErr error
	backoff := c.retry.InitialBackoff

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.retry.Timeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			if attempt > 0 {
				log.Printf("[AI] %s succeeded after %d retries", operation, attempt)
			}
			return nil
		}
		lastErr = err

		if !isRetriableError(err) {
			log.Printf("[AI] %s failed with non-retriable error: %v", operation, err)
			return err
		}
		if attempt == c.retry.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s failed: context canceled: %w", operation, ctx.Err())
		}

		log.Printf("[AI] %s failed (attempt %d/%d), retrying in %v: %v",
			operation, attempt+1, c.retry.MaxRetries, backoff, err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return fmt.Errorf("%s failed: context canceled during backoff: %w", operation, ctx.Err())
		}

		backoff = time.Duration(float64(backoff) * c.retry.BackoffMultiplier)
		if backoff > c.retry.MaxBackoff {
			backoff = c.retry.MaxBackoff
		}
	}

	return fmt.Errorf("%s failed after %d retries: %w", operation, c.retry.MaxRetries, lastErr)
}

// isRetriableError classifies transient failures worth retrying. Auth and
// request-shape errors are not; rate limits, overloads, timeouts, and
// transport errors are.
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())

	nonRetriable := []string{
		"authentication",
		"invalid api key",
		"permission",
		"invalid_request",
	}
	for _, s := range nonRetriable {
		if strings.Contains(msg, s) {
			return false
		}
	}

	retriable := []string{
		"rate limit",
		"rate_limit",
		"overloaded",
		"529",
		"500",
		"502",
		"503",
		"504",
		"timeout",
		"deadline exceeded",
		"connection reset",
		"connection refused",
		"eof",
	}
	for _, s := range retriable {
		if strings.Contains(msg, s) {
			return true
		}
	}

	// Unknown errors default to retriable; the attempt budget bounds the cost.
	return true
}
