package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_DisabledReturnsNil(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewClient_SelectsProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true

	client, err := NewClient(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &ollamaClient{}, client)

	cfg.Provider = ProviderOpenAI
	cfg.APIKey = "sk"
	client, err = NewClient(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &chatClient{}, client)

	cfg.Provider = ProviderAzure
	cfg.APIKey = ""
	_, err = NewClient(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	cfg.Provider = "bedrock"
	_, err = NewClient(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestGeminiClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent"), r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "systemInstruction")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Carbon abatement is up 2.2 t MTD."}]}}],"modelVersion":"gemini-2.0-flash"}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Provider = ProviderGemini
	cfg.APIKey = "g-key"
	cfg.Model = "gemini-2.0-flash"
	cfg.MaxRetries = 0

	client, err := NewClient(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.True(t, client.Available(context.Background()))

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task: TaskBriefing, SystemPrompt: "You are HarborGuide.", UserPrompt: "summarize",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carbon abatement is up 2.2 t MTD.", resp.Text)
	assert.Equal(t, "gemini-2.0-flash", resp.Model)
}

func TestGeminiClient_RequiresKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "gemini-2.0-flash"
	_, err := NewGeminiClient(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestObservers(t *testing.T) {
	var sb strings.Builder
	NewLogObserver(&sb).OnCallComplete(LLMCallEvent{Task: TaskAsk, Provider: ProviderAzure, Model: "m", Attempts: 2, ErrorCode: "TIMEOUT"})
	assert.Contains(t, sb.String(), "task=ask provider=azure model=m attempts=2")
	assert.Contains(t, sb.String(), "status=err:TIMEOUT")

	NewSlogObserver(nil).OnCallComplete(LLMCallEvent{Task: TaskAsk, Success: true})
	NoopObserver{}.OnCallComplete(LLMCallEvent{})
}
