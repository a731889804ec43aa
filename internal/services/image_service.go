// File: internal/services/image_service.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/athenaai/go-tutor/internal/services/image"
)

// ImageService wraps an image provider with per-call timeouts and retries.
type ImageService struct {
	provider image.Provider
	retry    *image.RetryConfig
	timeout  time.Duration
}

func NewImageService(provider image.Provider, config *image.Config) *ImageService {
	return &ImageService{
		provider: provider,
		retry: &image.RetryConfig{
			MaxAttempts: config.MaxRetries,
			Delay:       config.RetryDelay,
		},
		timeout: config.Timeout,
	}
}

// Generate renders a prompt and returns the image as a data URL.
func (s *ImageService) Generate(ctx context.Context, prompt string) (string, error) {
	var url string
	err := image.RetryWithBackoff(ctx, s.retry, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		result, err := s.provider.GenerateImage(callCtx, prompt)
		if err != nil {
			log.Printf("[ImageService] generation attempt failed: %v", err)
			return err
		}
		url = result
		return nil
	})
	return url, err
}

func (s *ImageService) GetProviderStatus() image.ProviderStatus {
	if err := s.provider.HealthCheck(context.Background()); err != nil {
		return image.ProviderStatus{IsHealthy: false, Message: err.Error()}
	}
	return image.ProviderStatus{IsHealthy: true, Message: "Clipdrop provider healthy"}
}
