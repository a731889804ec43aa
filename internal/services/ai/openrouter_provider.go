// File: internal/services/ai/openrouter_provider.go
package ai

import (
	"context"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// headerTransport injects the OpenRouter attribution headers on every
// request when they are configured.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// OpenRouterProvider talks to the OpenRouter chat completions API through
// the OpenAI-compatible client.
type OpenRouterProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenRouterProvider(config *Config) *OpenRouterProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = config.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: config.Timeout,
		Transport: &headerTransport{
			referer: config.SiteURL,
			title:   config.SiteName,
		},
	}
	return &OpenRouterProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenRouterProvider) request(question, subject string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(subject)},
			{Role: openai.ChatMessageRoleUser, Content: strings.TrimSpace(question)},
		},
		Temperature: p.config.Temperature,
	}
}

func (p *OpenRouterProvider) Ask(ctx context.Context, question, subject string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", NewValidationError("completion", "question is required")
	}

	resp, err := p.client.CreateChatCompletion(ctx, p.request(question, subject))
	if err != nil {
		return "", NewProviderError("completion", "failed to create completion", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "empty completion response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenRouterProvider) StreamAsk(ctx context.Context, question, subject string, onDelta func(string) error) error {
	if strings.TrimSpace(question) == "" {
		return NewValidationError("streaming", "question is required")
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, p.request(question, subject))
	if err != nil {
		return NewProviderError("streaming", "failed to create stream", err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return NewProviderError("streaming", "stream receive error", err)
		}
		if len(response.Choices) > 0 {
			delta := response.Choices[0].Delta.Content
			if delta != "" && onDelta != nil {
				if cbErr := onDelta(delta); cbErr != nil {
					return cbErr
				}
			}
		}
	}
}

// HealthCheck verifies the provider is configured well enough to serve
// completions. It never calls the upstream API.
func (p *OpenRouterProvider) HealthCheck(ctx context.Context) error {
	if err := p.config.Validate(); err != nil {
		return NewConfigError(err.Error())
	}
	return nil
}

func (p *OpenRouterProvider) GetStatus(ctx context.Context) ProviderStatus {
	if err := p.HealthCheck(ctx); err != nil {
		return ProviderStatus{IsHealthy: false, Message: err.Error()}
	}
	return ProviderStatus{IsHealthy: true, Message: "OpenRouter provider healthy"}
}
