package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	LLM     LLMConfig
	Auth    AuthConfig
	Publish PublishConfig
	App     AppConfig
}

type ServerConfig struct {
	Port string
}

// StoreConfig selects the persistence backend for the project/agent documents.
// Driver is "redis" (default) or "postgres".
type StoreConfig struct {
	Driver    string
	RedisAddr string
	RedisDB   int
	DSN       string
}

type LLMConfig struct {
	// DefaultAPIKey is the process-wide credential used when an agent carries
	// no key of its own.
	DefaultAPIKey string
	GeminiBaseURL string
	OpenAIBaseURL string
	// CompatBaseURL serves the "other" provider (any OpenAI-compatible host).
	CompatBaseURL    string
	AnthropicBaseURL string
	DeepSeekBaseURL  string
	Timeout          time.Duration
}

// AuthConfig controls request authentication. Mode "firebase" verifies Bearer
// ID tokens; mode "dev" trusts the X-Debug-User header for local work.
type AuthConfig struct {
	Mode            string
	CredentialsPath string
}

type PublishConfig struct {
	// StepInterval is the delay between simulated build log lines.
	StepInterval time.Duration
	// ProgressCron enables the pending-project progress ticker when non-empty.
	ProgressCron string
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Store: StoreConfig{
			Driver:    getEnv("STORE_DRIVER", "redis"),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
			RedisDB:   getEnvAsInt("REDIS_DB", 0),
			DSN:       getEnv("DB_DSN", ""),
		},
		LLM: LLMConfig{
			DefaultAPIKey:    getEnv("LLM_API_KEY", ""),
			GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			CompatBaseURL:    getEnv("OPENAI_COMPAT_BASE_URL", ""),
			AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1"),
			DeepSeekBaseURL:  getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
			Timeout:          time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Auth: AuthConfig{
			Mode:            getEnv("AUTH_MODE", "firebase"),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Publish: PublishConfig{
			StepInterval: time.Duration(getEnvAsInt("BUILD_STEP_MS", 1000)) * time.Millisecond,
			ProgressCron: getEnv("PROGRESS_CRON", "@every 1m"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Driver {
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Auth.Mode != "firebase" && c.Auth.Mode != "dev" {
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}
	if c.Auth.Mode == "firebase" && c.Auth.CredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required in firebase auth mode")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
