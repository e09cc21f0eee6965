package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Provider names.
const (
	ProviderLocal     = "local"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	// DefaultLocalBaseURL points at an Ollama-style OpenAI-compatible endpoint.
	DefaultLocalBaseURL = "http://localhost:11434/v1"

	// LocalAPIKey is sent to local endpoints that do not check credentials.
	LocalAPIKey = "not-needed"

	DefaultBatchPollInterval = 10 * time.Second
	DefaultBatchMaxWait      = 600 * time.Second
)

// DefaultModels maps each provider to the model used when none is configured.
var DefaultModels = map[string]string{
	ProviderLocal:     "llama3",
	ProviderOpenAI:    "gpt-4o",
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
}

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrMissingAPIKey   = errors.New("missing API key")
)

// Config is the effective configuration of one invocation.
type Config struct {
	Provider    string        `json:"provider" env:"CODE_REVIEWER_PROVIDER" envDefault:"local"`
	Model       string        `json:"model" env:"CODE_REVIEWER_MODEL"`
	BaseURL     string        `json:"baseUrl,omitempty" env:"CODE_REVIEWER_BASE_URL"`
	APIKey      string        `json:"apiKey,omitempty"`
	LogLevel    string        `json:"logLevel" env:"CODE_REVIEWER_LOG_LEVEL" envDefault:"warn"`
	HTTPTimeout time.Duration `json:"httpTimeout" env:"CODE_REVIEWER_HTTP_TIMEOUT"`
	MaxTokens   int           `json:"maxTokens" env:"CODE_REVIEWER_MAX_TOKENS" envDefault:"4096"`
	Batch       BatchConfig   `json:"batch"`
	Keys        KeyConfig     `json:"-"`
}

// BatchConfig controls how long the batch backend waits for a job.
type BatchConfig struct {
	PollInterval time.Duration `json:"pollInterval" env:"CODE_REVIEWER_BATCH_POLL_INTERVAL" envDefault:"10s"`
	MaxWait      time.Duration `json:"maxWait" env:"CODE_REVIEWER_BATCH_MAX_WAIT" envDefault:"600s"`
	// BaseURL overrides the Anthropic API endpoint. Config.BaseURL never
	// reaches the batch backend.
	BaseURL string `json:"baseUrl,omitempty" env:"ANTHROPIC_BASE_URL"`
}

// KeyConfig holds the provider credentials as found in the environment.
// Only the key of the selected provider is copied into Config.APIKey.
type KeyConfig struct {
	OpenAI    string `env:"OPENAI_API_KEY"`
	Anthropic string `env:"ANTHROPIC_API_KEY"`
}

// Default returns a Config with only the built-in defaults applied.
func Default() Config {
	cfg, err := parse(map[string]string{})
	if err != nil {
		// envDefault values are constants; a failure here is a programming error.
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load builds the effective config from the process environment and the
// overrides map (CLI flags; only non-empty values should be set).
func Load(overrides map[string]string) (Config, error) {
	return LoadFrom(env.ToMap(os.Environ()), overrides)
}

// LoadFrom is Load with an explicit environment.
func LoadFrom(environ map[string]string, overrides map[string]string) (Config, error) {
	cfg, err := parse(environ)
	if err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	cfg.resolve()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["baseURL"]; ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := overrides["logLevel"]; ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := overrides["maxTokens"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid max tokens: %q", v)
		}
		cfg.MaxTokens = n
	}
	return nil
}

// resolve fills the provider-dependent values.
func (c *Config) resolve() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	if c.Model == "" {
		c.Model = DefaultModels[c.Provider]
	}

	switch c.Provider {
	case ProviderLocal:
		if c.BaseURL == "" {
			c.BaseURL = DefaultLocalBaseURL
		}
		c.APIKey = LocalAPIKey
	case ProviderOpenAI:
		c.APIKey = c.Keys.OpenAI
	case ProviderAnthropic:
		// the chat endpoint override must not receive the Anthropic key
		c.BaseURL = ""
		c.APIKey = c.Keys.Anthropic
	}

	if c.Batch.PollInterval <= 0 {
		c.Batch.PollInterval = DefaultBatchPollInterval
	}
	if c.Batch.MaxWait <= 0 {
		c.Batch.MaxWait = DefaultBatchMaxWait
	}
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
	case ProviderOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY environment variable is not set", ErrMissingAPIKey)
		}
	case ProviderAnthropic:
		if c.APIKey == "" {
			return fmt.Errorf("%w: ANTHROPIC_API_KEY environment variable is not set", ErrMissingAPIKey)
		}
	default:
		return fmt.Errorf("%w: %q (must be local, openai, or anthropic)", ErrUnknownProvider, c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP timeout must not be negative, got %s", c.HTTPTimeout)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}

// Redacted returns a copy safe to print: the API key keeps only its last four
// characters.
func (c Config) Redacted() Config {
	out := c
	switch {
	case c.APIKey == "" || c.APIKey == LocalAPIKey:
	case len(c.APIKey) <= 8:
		out.APIKey = "****"
	default:
		out.APIKey = "****" + c.APIKey[len(c.APIKey)-4:]
	}
	out.Keys = KeyConfig{}
	return out
}
