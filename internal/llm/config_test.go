package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, 900, cfg.Tasks[TaskAsk].MaxTokens)
	assert.Equal(t, 0.2, cfg.Tasks[TaskBriefing].Temperature)
}

func TestLoadConfig_ProviderAndCredentials(t *testing.T) {
	t.Setenv("HARBOR_LLM_ENABLED", "true")
	t.Setenv("HARBOR_LLM_PROVIDER", " Azure ")
	t.Setenv("HARBOR_LLM_ENDPOINT", "https://psa.openai.azure.com/")
	t.Setenv("HARBOR_LLM_API_KEY", "secret")
	t.Setenv("HARBOR_LLM_MODEL", "gpt-4o")
	t.Setenv("HARBOR_LLM_API_VERSION", "2024-06-01")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, ProviderAzure, cfg.Provider)
	assert.Equal(t, "https://psa.openai.azure.com", cfg.Endpoint)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "2024-06-01", cfg.APIVersion)
}

func TestLoadConfig_TaskTimeoutOverrides(t *testing.T) {
	t.Setenv("HARBOR_LLM_TIMEOUT_MS", "9000")
	t.Setenv("HARBOR_LLM_ASK_TIMEOUT_MS", "15000")

	cfg := LoadConfig()

	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 15000, cfg.TaskTimeout(TaskAsk))
	assert.Equal(t, 30000, cfg.TaskTimeout(TaskBriefing))
	assert.Equal(t, 9000, cfg.TaskTimeout(TaskType("other")))
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("HARBOR_LLM_ASK_TIMEOUT_MS", "not-a-number")
	t.Setenv("HARBOR_LLM_MAX_RETRIES", "-2")

	cfg := LoadConfig()

	assert.Equal(t, 20000, cfg.TaskTimeout(TaskAsk))
	assert.Equal(t, 1, cfg.MaxRetries)
}
