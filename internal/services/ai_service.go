// File: internal/services/ai_service.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/athenaai/go-tutor/internal/services/ai"
)

// AIService wraps a completion provider with per-call timeouts and retries.
// It is the concrete implementation behind the session manager's completion
// collaborator.
type AIService struct {
	provider   ai.Provider
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

func NewAIService(provider ai.Provider, config *ai.Config) *AIService {
	return &AIService{
		provider:   provider,
		timeout:    config.Timeout,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}
}

// Ask returns the model's answer for a question scoped to one subject.
func (s *AIService) Ask(ctx context.Context, question, subject string) (string, error) {
	var answer string
	err := s.retryWithTimeout(ctx, func(ctx context.Context) error {
		reply, err := s.provider.Ask(ctx, question, subject)
		if err != nil {
			return err
		}
		answer = reply
		return nil
	})
	return answer, err
}

// StreamAsk streams the answer. Streams are not retried; a broken stream
// surfaces to the caller.
func (s *AIService) StreamAsk(ctx context.Context, question, subject string, onDelta func(string) error) error {
	streamCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.provider.StreamAsk(streamCtx, question, subject, onDelta)
}

func (s *AIService) GetProviderStatus() ai.ProviderStatus {
	return s.provider.GetStatus(context.Background())
}

func (s *AIService) retryWithTimeout(ctx context.Context, call func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := call(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if aiErr, ok := err.(*ai.AIError); ok {
			if aiErr.Type == ai.ErrTypeConfig || aiErr.Type == ai.ErrTypeValidation {
				return err
			}
		}

		log.Printf("[AIService] Retry %d/%d failed: %v", attempt, s.maxRetries, err)
		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * s.retryDelay):
			}
		}
	}
	return lastErr
}
