package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/apperr"
	"github.com/prompt-general/knowledgehub/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.OpenAIConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL + "/v1",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestGenerateEmbeddingReturnsVector(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3]}],"model":"text-embedding-3-small","usage":{"prompt_tokens":3,"total_tokens":3}}`))
	})

	client := newTestClient(t, mux)

	vector := client.GenerateEmbedding(context.Background(), "hello world")
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestGenerateEmbeddingReturnsNilOnProviderError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"embedding backend unavailable","type":"server_error"}}`))
	})

	client := newTestClient(t, mux)

	vector := client.GenerateEmbedding(context.Background(), "hello world")
	assert.Nil(t, vector)
}

func TestGenerateEmbeddingReturnsNilOnEmptyResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[],"model":"text-embedding-3-small","usage":{"prompt_tokens":0,"total_tokens":0}}`))
	})

	client := newTestClient(t, mux)

	vector := client.GenerateEmbedding(context.Background(), "hello world")
	assert.Nil(t, vector)
}

func TestGenerateContentReturnsCompletion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Generated article body."},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":32,"total_tokens":42}}`))
	})

	client := newTestClient(t, mux)

	resp, err := client.GenerateContent(context.Background(), GenerationRequest{Prompt: "write about Go"})
	require.NoError(t, err)
	assert.Equal(t, "Generated article body.", resp.Content)
	assert.Equal(t, 42, resp.TokensUsed)
}

func TestGenerateContentWrapsProviderFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"requests"}}`))
	})

	client := newTestClient(t, mux)

	_, err := client.GenerateContent(context.Background(), GenerationRequest{Prompt: "write about Go"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindGenerationFailed, apperr.KindOf(err))
	assert.True(t, strings.Contains(err.Error(), "rate limit exceeded"),
		"provider message should be preserved, got: %s", err.Error())
}
