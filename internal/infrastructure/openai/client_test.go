package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aislemate/backend/internal/domain"
)

// fakeServer answers chat completions with the responses in order; the last
// one repeats once the list is exhausted.
type fakeServer struct {
	*httptest.Server
	calls atomic.Int32

	mu       sync.Mutex
	requests []openai.ChatCompletionRequest
}

type fakeResponse struct {
	status  int
	content string
}

func newFakeServer(t *testing.T, responses ...fakeResponse) *fakeServer {
	t.Helper()
	fs := &fakeServer{}

	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fs.mu.Lock()
		fs.requests = append(fs.requests, req)
		fs.mu.Unlock()

		n := int(fs.calls.Add(1))
		resp := responses[len(responses)-1]
		if n <= len(responses) {
			resp = responses[n-1]
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.status != http.StatusOK {
			w.WriteHeader(resp.status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "upstream failure", "type": "server_error"},
			})
			return
		}

		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: resp.content},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(fs.Close)

	return fs
}

func ok(content string) fakeResponse {
	return fakeResponse{status: http.StatusOK, content: content}
}

func newTestClient(baseURL string) *Client {
	c := NewClient(Config{
		APIKey:      "test-api-key",
		BaseURL:     baseURL,
		Model:       "gpt-4",
		Temperature: 0.5,
		Timeout:     2 * time.Second,
		MaxRetries:  3,
	}, nil, domain.NewStaticFallback([]string{"rice:500g", "soy sauce:100ml"}))
	c.backoff = func(int) time.Duration { return time.Millisecond }
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		client := NewClient(Config{APIKey: "test-api-key"}, nil, nil)

		assert.NotNil(t, client.client)
		assert.Equal(t, openai.GPT4, client.model)
		assert.Equal(t, 30*time.Second, client.timeout)
		assert.Equal(t, 3, client.maxRetries)
		assert.NotNil(t, client.rateLimiter)
		assert.NotNil(t, client.fallback)
		assert.False(t, client.debug)
	})

	t.Run("no API key leaves client disabled", func(t *testing.T) {
		client := NewClient(Config{}, nil, nil)
		assert.Nil(t, client.client)
	})
}

func TestSetDebug(t *testing.T) {
	client := NewClient(Config{APIKey: "test-api-key"}, nil, nil)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestExtract_Success(t *testing.T) {
	server := newFakeServer(t, ok(`[{"ingredient": "rice", "quantity": "500g"}, {"ingredient": "soy sauce", "quantity": "100ml"}]`))
	client := newTestClient(server.URL)

	extraction := client.Extract(context.Background(), "cook Chinese food for 4 people")

	assert.Equal(t, domain.SourceLLM, extraction.Source)
	assert.NoError(t, extraction.Err)
	assert.Equal(t, []domain.IngredientRequest{
		{Ingredient: "rice", Quantity: "500g"},
		{Ingredient: "soy sauce", Quantity: "100ml"},
	}, extraction.Requests)

	server.mu.Lock()
	defer server.mu.Unlock()
	require.Len(t, server.requests, 1)
	req := server.requests[0]
	assert.Equal(t, "gpt-4", req.Model)
	assert.InDelta(t, 0.5, req.Temperature, 0.0001)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Respond ONLY with a JSON list")
	assert.Equal(t, "What ingredients do I need to cook Chinese food for 4 people?", req.Messages[1].Content)
}

func TestExtract_CodeFencedResponse(t *testing.T) {
	server := newFakeServer(t, ok("```json\n[{\"ingredient\": \"tofu\", \"quantity\": \"1 block\"}]\n```"))
	client := newTestClient(server.URL)

	extraction := client.Extract(context.Background(), "make mapo tofu")

	assert.Equal(t, domain.SourceLLM, extraction.Source)
	assert.Equal(t, []domain.IngredientRequest{{Ingredient: "tofu", Quantity: "1 block"}}, extraction.Requests)
}

func TestExtract_Fallback(t *testing.T) {
	fallback := []domain.IngredientRequest{
		{Ingredient: "rice", Quantity: "500g"},
		{Ingredient: "soy sauce", Quantity: "100ml"},
	}

	tests := []struct {
		name    string
		content string
	}{
		{"prose instead of JSON", "You will need rice and soy sauce."},
		{"object instead of list", `{"ingredient": "rice", "quantity": "500g"}`},
		{"unknown field", `[{"ingredient": "rice", "quantity": "500g", "notes": "long grain"}]`},
		{"non-string quantity", `[{"ingredient": "eggs", "quantity": 3}]`},
		{"empty list", `[]`},
		{"only blank ingredients", `[{"ingredient": "  ", "quantity": "1"}]`},
		{"trailing data", `[{"ingredient": "rice", "quantity": "1"}] [1]`},
		{"trailing bracket", `[{"ingredient": "rice", "quantity": "1"}]]`},
		{"trailing brace", `[{"ingredient": "rice", "quantity": "1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newFakeServer(t, ok(tt.content))
			client := newTestClient(server.URL)

			extraction := client.Extract(context.Background(), "dinner")

			assert.Equal(t, domain.SourceFallback, extraction.Source)
			assert.ErrorIs(t, extraction.Err, domain.ErrLLMFailure)
			assert.Equal(t, fallback, extraction.Requests)
			assert.Equal(t, int32(1), server.calls.Load(), "parse errors must not be retried")
		})
	}
}

func TestExtract_NoAPIKeyFallsBack(t *testing.T) {
	client := NewClient(Config{}, nil, nil)

	extraction := client.Extract(context.Background(), "dinner")

	assert.Equal(t, domain.SourceFallback, extraction.Source)
	assert.ErrorIs(t, extraction.Err, domain.ErrLLMFailure)
	assert.Equal(t, []domain.IngredientRequest{
		{Ingredient: "rice", Quantity: "500g"},
		{Ingredient: "soy sauce", Quantity: "100ml"},
		{Ingredient: "chicken", Quantity: "1kg"},
	}, extraction.Requests)
}

func TestExtract_ServerError_Retries(t *testing.T) {
	server := newFakeServer(t,
		fakeResponse{status: http.StatusInternalServerError},
		fakeResponse{status: http.StatusBadGateway},
		ok(`[{"ingredient": "noodles", "quantity": "200g"}]`),
	)
	client := newTestClient(server.URL)

	extraction := client.Extract(context.Background(), "make pad thai")

	assert.Equal(t, domain.SourceLLM, extraction.Source)
	assert.Equal(t, int32(3), server.calls.Load())
}

func TestExtract_TooManyRequests_Retries(t *testing.T) {
	server := newFakeServer(t,
		fakeResponse{status: http.StatusTooManyRequests},
		ok(`[{"ingredient": "basil", "quantity": "1 bunch"}]`),
	)
	client := newTestClient(server.URL)

	extraction := client.Extract(context.Background(), "make pesto")

	assert.Equal(t, domain.SourceLLM, extraction.Source)
	assert.Equal(t, int32(2), server.calls.Load())
}

func TestExtract_ClientError_NoRetry(t *testing.T) {
	server := newFakeServer(t, fakeResponse{status: http.StatusBadRequest})
	client := newTestClient(server.URL)

	extraction := client.Extract(context.Background(), "dinner")

	assert.Equal(t, domain.SourceFallback, extraction.Source)
	assert.Equal(t, int32(1), server.calls.Load())
}

func TestExtract_AllRetriesFail(t *testing.T) {
	server := newFakeServer(t, fakeResponse{status: http.StatusServiceUnavailable})
	client := newTestClient(server.URL)

	extraction := client.Extract(context.Background(), "dinner")

	assert.Equal(t, domain.SourceFallback, extraction.Source)
	assert.ErrorIs(t, extraction.Err, domain.ErrLLMFailure)
	assert.Equal(t, int32(3), server.calls.Load())
}

func TestExtract_CanceledContextFallsBack(t *testing.T) {
	server := newFakeServer(t, ok(`[{"ingredient": "rice", "quantity": "1"}]`))
	client := newTestClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	extraction := client.Extract(ctx, "dinner")

	assert.Equal(t, domain.SourceFallback, extraction.Source)
	assert.NotEmpty(t, extraction.Requests)
}

type upperNormalizer struct{}

func (upperNormalizer) NormalizeIngredient(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func (upperNormalizer) NormalizeQuantity(qty string) string {
	return strings.TrimSpace(qty)
}

func TestExtract_UsesNormalizer(t *testing.T) {
	server := newFakeServer(t, ok(`[{"ingredient": " ginger ", "quantity": " 1 knob "}]`))
	client := NewClient(Config{APIKey: "test-api-key", BaseURL: server.URL}, upperNormalizer{}, nil)

	extraction := client.Extract(context.Background(), "stir fry")

	assert.Equal(t, []domain.IngredientRequest{{Ingredient: "GINGER", Quantity: "1 knob"}}, extraction.Requests)
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "rice", 10, "rice"},
		{"ascii cut", "jasmine rice", 7, "jasmine..."},
		{"does not split a rune", "寿司寿司", 4, "寿..."},
		{"cut on boundary", "寿司寿司", 6, "寿司..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateString(tt.input, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
