package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable holding the provider credential.
const APIKeyEnv = "OPENROUTER_API_KEY"

// ErrMissingAPIKey is returned by Load when no credential is configured.
var ErrMissingAPIKey = errors.New(APIKeyEnv + " not found: set it in the environment, a .env file, or llm.api_key")

// Config is the root configuration for the yamlassist service.
// It is built once at startup and never mutated.
type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	History HistoryConfig
}

// ServerConfig controls the inbound HTTP listener.
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// LLMConfig controls the outbound chat-completion provider.
type LLMConfig struct {
	BaseURL string
	Model   string
	APIKey  string        // from llm.api_key or OPENROUTER_API_KEY
	Referer string        // sent as HTTP-Referer
	Title   string        // sent as X-Title
	Timeout time.Duration // zero means no client timeout
}

// HistoryConfig controls the optional analysis history store.
type HistoryConfig struct {
	Driver string // "", "sqlite" or "postgres"
	DSN    string // file path for sqlite, connection URL for postgres
}

// Enabled reports whether analyses should be recorded.
func (h HistoryConfig) Enabled() bool {
	return h.Driver != ""
}

const (
	defaultAddr              = ":8000"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultBaseURL           = "https://openrouter.ai/api/v1"
	defaultModel             = "mistralai/mistral-7b-instruct"
	defaultReferer           = "http://localhost:8000"
	defaultTitle             = "AI YAML Assistant"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Server  rawServerConfig  `yaml:"server"`
	LLM     rawLLMConfig     `yaml:"llm"`
	History rawHistoryConfig `yaml:"history"`
}

type rawServerConfig struct {
	Addr              string `yaml:"addr"`
	ReadHeaderTimeout string `yaml:"read_header_timeout"`
	ShutdownTimeout   string `yaml:"shutdown_timeout"`
}

type rawLLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	Referer string `yaml:"referer"`
	Title   string `yaml:"title"`
	Timeout string `yaml:"timeout"`
}

type rawHistoryConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set keep their values.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads the YAML config at path, applies defaults and the environment,
// validates the result and returns it. An empty path skips the file and uses
// defaults plus environment only.
func Load(path string) (*Config, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}

	readHeaderTimeout, err := parseDuration("server.read_header_timeout", raw.Server.ReadHeaderTimeout, defaultReadHeaderTimeout)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("server.shutdown_timeout", raw.Server.ShutdownTimeout, defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}
	llmTimeout, err := parseDuration("llm.timeout", raw.LLM.Timeout, 0)
	if err != nil {
		return nil, err
	}

	apiKey := raw.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:              orDefault(raw.Server.Addr, defaultAddr),
			ReadHeaderTimeout: readHeaderTimeout,
			ShutdownTimeout:   shutdownTimeout,
		},
		LLM: LLMConfig{
			BaseURL: orDefault(raw.LLM.BaseURL, defaultBaseURL),
			Model:   orDefault(raw.LLM.Model, defaultModel),
			APIKey:  apiKey,
			Referer: orDefault(raw.LLM.Referer, defaultReferer),
			Title:   orDefault(raw.LLM.Title, defaultTitle),
			Timeout: llmTimeout,
		},
		History: HistoryConfig{
			Driver: raw.History.Driver,
			DSN:    raw.History.DSN,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadHistory reads only the history section of the config at path. It does
// not require a provider credential.
func LoadHistory(path string) (HistoryConfig, error) {
	raw, err := readRaw(path)
	if err != nil {
		return HistoryConfig{}, err
	}
	h := HistoryConfig{Driver: raw.History.Driver, DSN: raw.History.DSN}
	if err := validateHistory(h); err != nil {
		return HistoryConfig{}, err
	}
	return h, nil
}

func readRaw(path string) (rawConfig, error) {
	var raw rawConfig
	if path == "" {
		return raw, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, value, err)
	}
	return d, nil
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func validate(cfg *Config) error {
	if cfg.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	if cfg.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative, got %v", cfg.LLM.Timeout)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", cfg.Server.ShutdownTimeout)
	}

	return validateHistory(cfg.History)
}

func validateHistory(h HistoryConfig) error {
	switch h.Driver {
	case "":
	case "sqlite", "postgres":
		if h.DSN == "" {
			return fmt.Errorf("history.dsn is required when history.driver is %q", h.Driver)
		}
	default:
		return fmt.Errorf("history.driver must be \"sqlite\" or \"postgres\", got %q", h.Driver)
	}
	return nil
}
