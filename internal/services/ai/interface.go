// File: internal/services/ai/interface.go
package ai

import "context"

// ProviderStatus represents completion provider health
type ProviderStatus struct {
	IsHealthy bool
	Message   string
}

// CompletionProvider answers a student question scoped to one subject
type CompletionProvider interface {
	Ask(ctx context.Context, question, subject string) (string, error)
	StreamAsk(ctx context.Context, question, subject string, onDelta func(string) error) error
	HealthCheck(ctx context.Context) error
}

// Provider combines completions with status reporting
type Provider interface {
	CompletionProvider
	GetStatus(ctx context.Context) ProviderStatus
}

// Service defines the high-level tutoring AI interface
type Service interface {
	Ask(ctx context.Context, question, subject string) (string, error)
	StreamAsk(ctx context.Context, question, subject string, onDelta func(string) error) error
	GetProviderStatus() ProviderStatus
}
