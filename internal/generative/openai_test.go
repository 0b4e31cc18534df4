package generative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAI_RequiresKey(t *testing.T) {
	_, err := NewOpenAI(OpenAIOptions{}, nil)
	assert.Error(t, err)
}

func TestOpenAI_GenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-3.5-turbo", body.Model)
		assert.Equal(t, 120, body.MaxTokens)
		assert.InDelta(t, 0.7, body.Temperature, 0.001)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "prompt", body.Messages[0].Content)

		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": " Wear a light jacket. "}}]}`))
	}))
	defer server.Close()

	client, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: server.URL}, server.Client())
	require.NoError(t, err)

	text, err := client.GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Wear a light jacket.", text)
}

func TestOpenAI_GenerateImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)

		var body imageGenerationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 1, body.N)
		assert.Equal(t, "512x512", body.Size)

		w.Write([]byte(`{"data": [{"url": "https://img.example/outfit.png"}]}`))
	}))
	defer server.Close()

	client, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: server.URL}, server.Client())
	require.NoError(t, err)

	url, err := client.GenerateImage(context.Background(), "garments only")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/outfit.png", url)
}

func TestOpenAI_RateLimitedVersusGeneric(t *testing.T) {
	status := http.StatusTooManyRequests
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(`{"error": {"message": "You exceeded your current quota", "type": "insufficient_quota"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: server.URL}, server.Client())
	require.NoError(t, err)

	_, err = client.GenerateImage(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "You exceeded your current quota")
	assert.NotContains(t, err.Error(), "sk-test")

	status = http.StatusInternalServerError
	_, err = client.GenerateText(context.Background(), "p")
	require.Error(t, err)
	assert.False(t, IsRateLimited(err))
	assert.False(t, IsTransport(err))
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: server.URL}, server.Client())
	require.NoError(t, err)

	_, err = client.GenerateText(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAI_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: url}, nil)
	require.NoError(t, err)

	_, err = client.GenerateText(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}
