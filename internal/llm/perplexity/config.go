package perplexity

import (
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"
)

// Config for the Perplexity client.
type Config struct {
	APIKey      string        // if empty, falls back to env PERPLEXITY_API_KEY
	BaseURL     string        // default https://api.perplexity.ai
	Model       string        // e.g., "sonar-pro"
	Temperature float32       // 0..2
	MaxTokens   int           // completion budget
	Timeout     time.Duration // http client timeout
	MaxRetries  int           // extra attempts after a 429
	BaseDelay   time.Duration // backoff unit, doubled per attempt
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger

	// injectable for tests
	sleep  func(time.Duration)
	jitter func() time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("PERPLEXITY_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.perplexity.ai"
	}
	if cfg.Model == "" {
		cfg.Model = "sonar-pro"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 400
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
		sleep:      time.Sleep,
		jitter: func() time.Duration {
			return time.Duration(rand.Int63n(int64(time.Second)))
		},
	}
}
