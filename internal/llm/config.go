package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskAsk answers a free-form question, optionally grounded in data cards.
	TaskAsk TaskType = "ask"
	// TaskBriefing writes the three-section KPI briefing.
	TaskBriefing TaskType = "briefing"
)

// Provider selects the wire protocol used to reach the model.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderAzure  Provider = "azure"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Provider   Provider
	Endpoint   string
	APIKey     string
	Model      string // deployment name for azure
	APIVersion string // azure only
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig pointing at a local Ollama.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Provider:   ProviderOllama,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		APIVersion: "2024-08-01-preview",
		TimeoutMs:  20000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskAsk:      {Temperature: 0.2, MaxTokens: 900, TimeoutMs: 20000},
			TaskBriefing: {Temperature: 0.2, MaxTokens: 900, TimeoutMs: 30000},
		},
	}
}

// LoadConfig reads LLM configuration from HARBOR_LLM_* environment
// variables, falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("HARBOR_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("HARBOR_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("HARBOR_LLM_PROVIDER"); v != "" {
		cfg.Provider = Provider(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("HARBOR_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("HARBOR_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("HARBOR_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("HARBOR_LLM_API_VERSION"); v != "" {
		cfg.APIVersion = v
	}
	if v := os.Getenv("HARBOR_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("HARBOR_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskAsk, "HARBOR_LLM_ASK_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskBriefing, "HARBOR_LLM_BRIEFING_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
