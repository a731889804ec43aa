// File: internal/services/image/clipdrop_provider.go
package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// ClipdropProvider renders a text prompt with the Clipdrop text-to-image API
// and returns the result as a data URL, so callers can embed it without
// hosting the bytes anywhere.
type ClipdropProvider struct {
	config *Config
	client *http.Client
}

func NewClipdropProvider(config *Config) *ClipdropProvider {
	return &ClipdropProvider{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (p *ClipdropProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", &ImageError{Type: ErrTypeValidation, Message: "prompt is required"}
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("prompt", prompt); err != nil {
		return "", &ImageError{Type: ErrTypeValidation, Message: "invalid form payload", Cause: err}
	}
	if err := form.Close(); err != nil {
		return "", &ImageError{Type: ErrTypeValidation, Message: "invalid form payload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.APIURL, &body)
	if err != nil {
		return "", &ImageError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("x-api-key", p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &ImageError{Type: ErrTypeNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	return p.handleResponse(resp)
}

func (p *ClipdropProvider) handleResponse(resp *http.Response) (string, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", &ImageError{
				Type:    ErrTypeRateLimit,
				Code:    resp.StatusCode,
				Message: "rate limit exceeded",
			}
		}
		return "", &ImageError{
			Type:    ErrTypeProvider,
			Code:    resp.StatusCode,
			Message: string(responseBody),
		}
	}

	imageBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ImageError{Type: ErrTypeNetwork, Message: "failed to read image body", Cause: err}
	}
	if len(imageBytes) == 0 {
		return "", &ImageError{Type: ErrTypeProvider, Message: "empty image response"}
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(imageBytes), nil
}

// HealthCheck verifies the provider is configured well enough to render
// images. It never calls the upstream API.
func (p *ClipdropProvider) HealthCheck(ctx context.Context) error {
	if err := p.config.Validate(); err != nil {
		return &ImageError{Type: ErrTypeConfig, Message: err.Error()}
	}
	return nil
}
