package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model":   "gpt-4o",
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
	})
}

func azureConfig(endpoint string) LLMConfig {
	cfg := testConfig(endpoint)
	cfg.Provider = ProviderAzure
	cfg.APIKey = "secret"
	cfg.Model = "gpt4o-deploy"
	cfg.APIVersion = "2024-08-01-preview"
	cfg.MaxRetries = 0
	return cfg
}

func TestAzureClient_WireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/gpt4o-deploy/chat/completions", r.URL.Path)
		assert.Equal(t, "2024-08-01-preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "be terse", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, 0.2, req.Temperature)
		assert.Equal(t, 900, req.MaxTokens)

		chatReply(w, "  Berth time rose 1.2h.  ")
	}))
	defer srv.Close()

	client, err := NewAzureClient(azureConfig(srv.URL), nil)
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task: TaskAsk, SystemPrompt: "be terse", UserPrompt: "why?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Berth time rose 1.2h.", resp.Text)
	assert.Equal(t, "gpt-4o", resp.Model)
	assert.True(t, client.Available(context.Background()))
}

func TestAzureClient_EmptyChoicesIsNoAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client, err := NewAzureClient(azureConfig(srv.URL), nil)
	require.NoError(t, err)
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskAsk, UserPrompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, NoAnswer, resp.Text)
}

func TestAzureClient_APIMHeaderFallback(t *testing.T) {
	var seen []string
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "" {
			seen = append(seen, "apim")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("access denied"))
			return
		}
		seen = append(seen, "api-key")
		chatReply(w, "ok")
	}))
	defer srv.Close()

	client, err := NewAzureClient(azureConfig(srv.URL), nil)
	require.NoError(t, err)
	// httptest hosts never look like APIM, so install its header order directly
	cc := client.(*chatClient)
	cc.authVariants = []http.Header{
		{"Ocp-Apim-Subscription-Key": {"secret"}},
		{"Api-Key": {"secret"}},
	}

	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskAsk, UserPrompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, []string{"apim", "api-key"}, seen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAzureClient_AllVariantsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewAzureClient(azureConfig(srv.URL), nil)
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskAsk, UserPrompt: "q"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.ErrorContains(t, err, "status 403")
}

func TestIsAPIMHost(t *testing.T) {
	assert.True(t, isAPIMHost("psa.developer.azure-api.net"))
	assert.True(t, isAPIMHost("GW.AZURE-API.NET:443"))
	assert.False(t, isAPIMHost("psa.openai.azure.com"))
}

func TestNewAzureClient_RequiresCredentials(t *testing.T) {
	cfg := azureConfig("https://psa.openai.azure.com")
	cfg.APIKey = ""
	_, err := NewAzureClient(cfg, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewAzureClient_APIMVariantsOrder(t *testing.T) {
	client, err := NewAzureClient(azureConfig("https://psa.developer.azure-api.net"), nil)
	require.NoError(t, err)
	cc := client.(*chatClient)
	require.Len(t, cc.authVariants, 2)
	assert.Equal(t, "secret", cc.authVariants[0].Get("Ocp-Apim-Subscription-Key"))
	assert.Equal(t, "secret", cc.authVariants[1].Get("api-key"))
}

func TestOpenAIClient_WireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		chatReply(w, "answer")
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = "sk-test"
	cfg.Model = "gpt-4o"
	client, err := NewOpenAIClient(cfg, nil)
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskBriefing, UserPrompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Text)
}

func TestOpenAIClient_DefaultEndpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "sk"
	cfg.Model = "gpt-4o"
	client, err := NewOpenAIClient(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", client.(*chatClient).url)
}
