package perplexity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontoedu/apostila-review/internal/resilience"
)

func TestSummarize(t *testing.T) {
	var captured ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(ChatCompletionResponse{
			ID: "cmpl-1",
			Choices: []Choice{
				{Message: Message{Role: "assistant", Content: "Título: Artigo. Resumo do conteúdo real."}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	summary, err := c.Summarize(context.Background(), "https://example.com/artigo")
	require.NoError(t, err)
	assert.Equal(t, "Título: Artigo. Resumo do conteúdo real.", summary)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "NUNCA adicione informações")
	assert.Contains(t, captured.Messages[1].Content, "https://example.com/artigo")
	assert.Equal(t, "sonar-pro", captured.Model)
}

func TestSummarize_ModelOverride(t *testing.T) {
	var captured ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []Choice{{Message: Message{Content: "x"}}},
		})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithModel("sonar"))
	_, err := c.Summarize(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "sonar", captured.Model)
}

func TestSummarize_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(ChatCompletionResponse{})
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Summarize(context.Background(), "https://example.com")
	assert.Error(t, err)
}

func TestChatCompletion_TransientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestChatCompletion_BadRequestIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid model", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{})
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}
