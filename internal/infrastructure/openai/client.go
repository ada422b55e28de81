package openai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/aislemate/backend/internal/domain"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// DefaultFallback is used when no fallback policy is supplied
var DefaultFallback = []string{"rice:500g", "soy sauce:100ml", "chicken:1kg"}

// Normalizer cleans ingredient names and quantities returned by the model
type Normalizer interface {
	NormalizeIngredient(name string) string
	NormalizeQuantity(qty string) string
}

// Config holds settings for the extraction client
type Config struct {
	APIKey             string
	BaseURL            string
	Model              string
	Temperature        float32
	Timeout            time.Duration
	MaxRetries         int
	RateLimitPerMinute int
}

// Client extracts ingredient requests from cooking requests using an
// OpenAI-compatible chat completion API. It implements domain.IngredientExtractor.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	maxRetries  int
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration

	normalizer Normalizer
	fallback   domain.FallbackPolicy
	debug      bool
}

// NewClient creates a new extraction client. Without an API key the client
// is still usable and always answers with the fallback list.
func NewClient(cfg Config, normalizer Normalizer, fallback domain.FallbackPolicy) *Client {
	var client *openai.Client
	if cfg.APIKey != "" {
		config := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			config.BaseURL = cfg.BaseURL
		}
		config.HTTPClient = &http.Client{}
		client = openai.NewClientWithConfig(config)
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if normalizer == nil {
		normalizer = passthrough{}
	}
	if fallback == nil {
		fallback = domain.NewStaticFallback(DefaultFallback)
	}

	return &Client{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		maxRetries:  cfg.MaxRetries,
		rateLimiter: newLimiter(cfg.RateLimitPerMinute),
		backoff:     exponentialBackoff,
		normalizer:  normalizer,
		fallback:    fallback,
	}
}

// SetDebug enables or disables verbose logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Extract returns the ingredient requests for the utterance. Any failure
// yields the fallback list with Source set to domain.SourceFallback.
func (c *Client) Extract(ctx context.Context, utterance string) domain.Extraction {
	requests, err := c.extract(ctx, utterance)
	if err != nil {
		log.Printf("[EXTRACT] Falling back for %q: %v", utterance, err)
		return domain.Extraction{
			Requests: c.fallback.Fallback(utterance, err),
			Source:   domain.SourceFallback,
			Err:      err,
		}
	}

	log.Printf("[EXTRACT] Extracted %d ingredients for %q", len(requests), utterance)
	return domain.Extraction{Requests: requests, Source: domain.SourceLLM}
}

func (c *Client) extract(ctx context.Context, utterance string) ([]domain.IngredientRequest, error) {
	if c.client == nil {
		return nil, fmt.Errorf("%w: no API key configured", domain.ErrLLMFailure)
	}

	content, err := c.complete(ctx, utterance)
	if err != nil {
		return nil, err
	}

	if c.debug {
		log.Printf("[EXTRACT] Raw response: %s", truncateString(content, 200))
	}

	return parseIngredients(content, c.normalizer)
}

// complete runs the chat completion, retrying transient failures
func (c *Client) complete(ctx context.Context, utterance string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    buildMessages(utterance),
		Temperature: c.temperature,
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrLLMFailure, err)
		}

		content, err := c.completeOnce(ctx, request)
		if err == nil {
			return content, nil
		}

		lastErr = fmt.Errorf("%w: %v", domain.ErrLLMFailure, err)
		if !isRetryable(ctx, err) || attempt == c.maxRetries {
			break
		}

		wait := c.backoff(attempt)
		log.Printf("[EXTRACT] Request error (attempt %d/%d), retrying in %v: %v", attempt, c.maxRetries, wait, err)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", domain.ErrLLMFailure, ctx.Err())
		case <-time.After(wait):
		}
	}

	return "", lastErr
}

func (c *Client) completeOnce(ctx context.Context, request openai.ChatCompletionRequest) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(attemptCtx, request)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyChoices
	}
	return resp.Choices[0].Message.Content, nil
}

var errEmptyChoices = errors.New("no choices in response")

// isRetryable reports whether a failed attempt may succeed when repeated:
// network errors, timeouts of a single attempt, 429 and 5xx responses.
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, errEmptyChoices) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// exponentialBackoff returns the wait before retry number attempt: 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := perMinute
	if burst > 10 {
		burst = 10
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

// truncateString cuts s to at most maxLen bytes on a rune boundary
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

type passthrough struct{}

func (passthrough) NormalizeIngredient(name string) string { return name }
func (passthrough) NormalizeQuantity(qty string) string    { return qty }
