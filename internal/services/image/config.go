// File: internal/services/image/config.go
package image

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey     string
	APIURL     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("CLIPDROP_API_KEY is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("image API URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		APIURL:     "https://clipdrop-api.co/text-to-image/v1",
		Timeout:    60 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Second,
	}
}
