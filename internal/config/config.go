// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	JWTSecretKey string

	// OpenRouter completion settings
	OpenRouterAPIKey string
	Model            string
	SiteURL          string
	SiteName         string

	// Clipdrop text-to-image settings
	ClipdropAPIKey string

	Environment string
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "tutor.db"),
		JWTSecretKey:     getEnv("JWT_SECRET_KEY", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		Model:            getEnv("OPENROUTER_MODEL", "deepseek/deepseek-chat-v3-0324:free"),
		SiteURL:          getEnv("SITE_URL", ""),
		SiteName:         getEnv("SITE_NAME", ""),
		ClipdropAPIKey:   getEnv("CLIPDROP_API_KEY", ""),
		Environment:      env,
	}

	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.OpenRouterAPIKey == "" {
			missing = append(missing, "OPENROUTER_API_KEY")
		}
		if cfg.ClipdropAPIKey == "" {
			missing = append(missing, "CLIPDROP_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
