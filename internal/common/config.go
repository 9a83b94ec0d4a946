package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR       OCRConfig
	LLM       LLMConfig
	RateLimit RateLimitConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Language    string
	TessdataDir string
	Timeout     time.Duration
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
}

// RateLimitConfig bounds the remote AI call budget.
type RateLimitConfig struct {
	MaxCalls int
	Window   time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Language:    getEnv("OCR_LANGUAGE", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			Timeout:     getEnvAsDuration("OCR_TIMEOUT", 60*time.Second),
		},
		LLM: LLMConfig{
			Model:       getEnv("PERPLEXITY_MODEL", "sonar-pro"),
			APIKey:      getEnv("PERPLEXITY_API_KEY", ""),
			BaseURL:     getEnv("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
			Temperature: getEnvAsFloat32("PERPLEXITY_TEMPERATURE", 0.2),
			MaxTokens:   getEnvAsInt("PERPLEXITY_MAX_TOKENS", 400),
			Timeout:     getEnvAsDuration("PERPLEXITY_TIMEOUT", 45*time.Second),
			MaxRetries:  getEnvAsInt("PERPLEXITY_MAX_RETRIES", 3),
		},
		RateLimit: RateLimitConfig{
			MaxCalls: getEnvAsInt("AI_RATE_LIMIT_CALLS", 15),
			Window:   getEnvAsDuration("AI_RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks invariants that would otherwise surface mid-pipeline.
// A missing API key is deliberately NOT an error here: the basic extraction
// path must work with no key configured at all.
func (c *Config) Validate() error {
	if c.RateLimit.MaxCalls <= 0 {
		return NewAppError("CONFIG_ERROR", "AI_RATE_LIMIT_CALLS must be positive", ErrConfiguration)
	}
	if c.RateLimit.Window <= 0 {
		return NewAppError("CONFIG_ERROR", "AI_RATE_LIMIT_WINDOW must be positive", ErrConfiguration)
	}
	return nil
}
