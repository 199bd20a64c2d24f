package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Model      ModelConfig      `yaml:"model" mapstructure:"model"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	YouTube    YouTubeConfig    `yaml:"youtube" mapstructure:"youtube"`
	Links      LinksConfig      `yaml:"links" mapstructure:"links"`
	Retry      RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the ementa store backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "postgres" or "sqlite"
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// ModelConfig selects the generative-model provider for criterion evaluation.
type ModelConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // "gemini" or "claude"
}

// GeminiConfig configures the Gemini generateContent API.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig configures the Claude Messages API.
type AnthropicConfig struct {
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PerplexityConfig configures the content-summarization API.
type PerplexityConfig struct {
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// YouTubeConfig configures the video-metadata API.
type YouTubeConfig struct {
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// LinksConfig tunes the link fan-out pipeline.
type LinksConfig struct {
	MaxConcurrent int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// RetryConfig tunes the fetch retry executor.
type RetryConfig struct {
	MaxAttempts    int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialDelayMS int `yaml:"initial_delay_ms" mapstructure:"initial_delay_ms"`
}

// InitialDelay returns the initial backoff as a duration.
func (r RetryConfig) InitialDelay() time.Duration {
	return time.Duration(r.InitialDelayMS) * time.Millisecond
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "json" or "console"
}

// Load reads configuration from config.yaml and APOSTILA_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("APOSTILA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("model.provider", "gemini")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("perplexity.timeout_secs", 20)
	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.timeout_secs", 10)
	v.SetDefault("links.max_concurrent", 8)
	v.SetDefault("links.rate_per_sec", 5)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_delay_ms", 1000)
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		// No config file is fine; env vars and defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ErrMissingCredential is returned by the Require* helpers. Handlers map it
// to a configuration-error response instead of a silent no-op.
var ErrMissingCredential = eris.New("config: missing required credential")

// RequireLinkAnalysis verifies that every credential the link pipeline can
// touch is present.
func (c *Config) RequireLinkAnalysis() error {
	missing := []string{}
	if c.Perplexity.APIKey == "" {
		missing = append(missing, "perplexity.api_key")
	}
	if c.YouTube.APIKey == "" {
		missing = append(missing, "youtube.api_key")
	}
	if err := c.RequireModel(); err != nil {
		missing = append(missing, c.Model.Provider+" api key")
	}
	if len(missing) > 0 {
		return eris.Wrapf(ErrMissingCredential, "link analysis needs: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RequireModel verifies the selected generative-model provider has a key.
func (c *Config) RequireModel() error {
	switch c.Model.Provider {
	case "claude":
		if c.Anthropic.APIKey == "" {
			return eris.Wrap(ErrMissingCredential, "anthropic.api_key")
		}
	default:
		if c.Gemini.APIKey == "" {
			return eris.Wrap(ErrMissingCredential, "gemini.api_key")
		}
	}
	return nil
}

// RequireStore verifies a datastore connection string is configured.
func (c *Config) RequireStore() error {
	if c.Store.DSN == "" {
		return eris.Wrap(ErrMissingCredential, "store.dsn")
	}
	return nil
}

// InitLogger configures the global zap logger based on the log config.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
