// File: internal/services/image/clipdrop_provider_test.go
package image

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) *Config {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.APIURL = url
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestGenerateImageSuccess(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	var gotKey, gotPrompt string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPrompt = r.FormValue("prompt")
		w.Write(png)
	}))
	defer srv.Close()

	provider := NewClipdropProvider(testConfig(srv.URL))
	url, err := provider.GenerateImage(context.Background(), "a cell diagram")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "a cell diagram", gotPrompt)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png), url)
}

func TestGenerateImageErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ErrorType
	}{
		{"rate limited", http.StatusTooManyRequests, "slow down", ErrTypeRateLimit},
		{"provider failure", http.StatusBadRequest, "bad prompt", ErrTypeProvider},
		{"server error", http.StatusInternalServerError, "boom", ErrTypeProvider},
		{"empty success body", http.StatusOK, "", ErrTypeProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			provider := NewClipdropProvider(testConfig(srv.URL))
			_, err := provider.GenerateImage(context.Background(), "prompt")
			require.Error(t, err)

			var imgErr *ImageError
			require.True(t, errors.As(err, &imgErr))
			assert.Equal(t, tt.wantType, imgErr.Type)
		})
	}
}

func TestGenerateImageRequiresPrompt(t *testing.T) {
	provider := NewClipdropProvider(testConfig("http://unused.invalid"))

	_, err := provider.GenerateImage(context.Background(), "   ")
	require.Error(t, err)

	var imgErr *ImageError
	require.True(t, errors.As(err, &imgErr))
	assert.Equal(t, ErrTypeValidation, imgErr.Type)
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("retries transient errors", func(t *testing.T) {
		cfg := &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}
		calls := 0
		err := RetryWithBackoff(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return &ImageError{Type: ErrTypeNetwork, Message: "flaky"}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("validation errors are not retried", func(t *testing.T) {
		cfg := &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}
		calls := 0
		err := RetryWithBackoff(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			return &ImageError{Type: ErrTypeValidation, Message: "bad prompt"}
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts attempts and returns last error", func(t *testing.T) {
		cfg := &RetryConfig{MaxAttempts: 2, Delay: time.Millisecond}
		calls := 0
		err := RetryWithBackoff(context.Background(), cfg, func(ctx context.Context) error {
			calls++
			return &ImageError{Type: ErrTypeProvider, Message: "down"}
		})
		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.Error(t, cfg.Validate(), "missing API key must fail validation")

	cfg.APIKey = "k"
	require.NoError(t, cfg.Validate())
}

func TestHealthCheckValidatesConfig(t *testing.T) {
	provider := NewClipdropProvider(testConfig("http://unused.invalid"))
	require.NoError(t, provider.HealthCheck(context.Background()))

	broken := DefaultConfig()
	provider = NewClipdropProvider(broken)
	err := provider.HealthCheck(context.Background())
	require.Error(t, err)

	var imgErr *ImageError
	require.True(t, errors.As(err, &imgErr))
	assert.Equal(t, ErrTypeConfig, imgErr.Type)
}
