// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	// OpenRouter configuration
	APIKey  string
	BaseURL string
	Model   string

	// Attribution headers, sent when set
	SiteURL  string
	SiteName string

	// Performance configuration
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Model parameters
	Temperature float32
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://openrouter.ai/api/v1",
		Model:       "deepseek/deepseek-chat-v3-0324:free",
		Timeout:     2 * time.Minute,
		MaxRetries:  3,
		RetryDelay:  2 * time.Second,
		Temperature: 0.7,
	}
}
