package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1"

// chatClient speaks the chat-completions protocol shared by OpenAI and
// Azure OpenAI. authVariants are tried in order on every attempt until one
// is accepted.
type chatClient struct {
	caller
	http         *http.Client
	url          string
	sendModel    bool
	authVariants []http.Header
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewAzureClient targets an Azure OpenAI deployment. Hosts behind API
// Management (*.azure-api.net) are tried with Ocp-Apim-Subscription-Key
// first and api-key second.
func NewAzureClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	cfg.Provider = ProviderAzure
	if cfg.Endpoint == "" || cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("%w: azure needs endpoint, api key and deployment", ErrNotConfigured)
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid azure endpoint %q", ErrNotConfigured, cfg.Endpoint)
	}

	target := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(cfg.Endpoint, "/"), url.PathEscape(cfg.Model), url.QueryEscape(cfg.APIVersion))

	var variants []http.Header
	if isAPIMHost(u.Host) {
		variants = append(variants, http.Header{"Ocp-Apim-Subscription-Key": {cfg.APIKey}})
	}
	variants = append(variants, http.Header{"Api-Key": {cfg.APIKey}})

	return &chatClient{caller: newCaller(cfg, observer), http: newHTTPClient(), url: target, authVariants: variants}, nil
}

// NewOpenAIClient targets the OpenAI chat-completions endpoint with a bearer key.
func NewOpenAIClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	cfg.Provider = ProviderOpenAI
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("%w: openai needs api key and model", ErrNotConfigured)
	}
	endpoint := cfg.Endpoint
	if endpoint == "" || endpoint == DefaultConfig().Endpoint {
		endpoint = defaultOpenAIEndpoint
	}
	return &chatClient{
		caller:       newCaller(cfg, observer),
		http:         newHTTPClient(),
		url:          strings.TrimRight(endpoint, "/") + "/chat/completions",
		sendModel:    true,
		authVariants: []http.Header{{"Authorization": {"Bearer " + cfg.APIKey}}},
	}, nil
}

func isAPIMHost(host string) bool {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	return strings.HasSuffix(host, ".azure-api.net")
}

func (c *chatClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return c.run(ctx, req, c.generateOnce)
}

func (c *chatClient) generateOnce(ctx context.Context, req resolved) (string, string, error) {
	body := chatRequest{
		Temperature: req.temperature,
		MaxTokens:   req.maxTokens,
	}
	if c.sendModel {
		body.Model = c.cfg.Model
	}
	if req.SystemPrompt != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.UserPrompt})

	data, err := json.Marshal(body)
	if err != nil {
		return "", "", fmt.Errorf("marshaling request: %w", err)
	}

	var errs []error
	for _, auth := range c.authVariants {
		text, model, err := c.post(ctx, data, auth)
		if err == nil {
			return text, model, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil || isConnectionError(err) {
			break
		}
	}
	return "", "", errors.Join(errs...)
}

func (c *chatClient) post(ctx context.Context, data []byte, auth http.Header) (string, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range auth {
		httpReq.Header[k] = v
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%s returned status %d: %s", c.cfg.Provider, httpResp.StatusCode, string(respBody))
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", "", fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", resp.Model, nil
	}
	return resp.Choices[0].Message.Content, resp.Model, nil
}

// Available reports whether the client is configured; chat endpoints offer
// no cheap unauthenticated check.
func (c *chatClient) Available(context.Context) bool {
	return c.url != "" && len(c.authVariants) > 0
}
