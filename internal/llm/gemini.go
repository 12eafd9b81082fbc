package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient through the Gemini API SDK.
type geminiClient struct {
	caller
	client *genai.Client
}

// NewGeminiClient creates a Gemini client. Endpoint, when set to anything
// other than the Ollama default, overrides the API base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	cfg.Provider = ProviderGemini
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("%w: gemini needs api key and model", ErrNotConfigured)
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" && cfg.Endpoint != DefaultConfig().Endpoint {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{caller: newCaller(cfg, observer), client: client}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return c.run(ctx, req, c.generateOnce)
}

func (c *geminiClient) generateOnce(ctx context.Context, req resolved) (string, string, error) {
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.temperature)),
	}
	if req.maxTokens > 0 {
		gc.MaxOutputTokens = int32(req.maxTokens)
	}
	if req.SystemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.UserPrompt), gc)
	if err != nil {
		return "", "", err
	}
	return resp.Text(), resp.ModelVersion, nil
}

func (c *geminiClient) Available(context.Context) bool {
	return c.client != nil
}
