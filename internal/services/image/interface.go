// File: internal/services/image/interface.go
package image

import "context"

// ProviderStatus represents the health status of the image provider
type ProviderStatus struct {
	IsHealthy bool
	Message   string
}

type Provider interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
	HealthCheck(ctx context.Context) error
}

type Service interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GetProviderStatus() ProviderStatus
}
