// Package config loads the service configuration from an optional YAML file,
// an optional .env file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "STORY_POLISHER_"

// Config holds the server and model settings.
type Config struct {
	ServerAddr     string        `yaml:"server_addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LLM            LLMConfig     `yaml:"llm"`
	Log            LogConfig     `yaml:"log"`
}

// LLMConfig selects and tunes the model backend.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	// APIKeyEnv names the environment variable holding the key.
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	Strategy    string  `yaml:"strategy"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	MaxAttempts int     `yaml:"max_attempts"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ServerAddr:     ":8000",
		RequestTimeout: 60 * time.Second,
		LLM: LLMConfig{
			Provider:    "gemini",
			APIKeyEnv:   "API_KEY",
			Strategy:    "structured",
			MaxAttempts: 1,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set.
func LoadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := gotenv.Load(path); err != nil {
		slog.Warn("[Config] no .env file loaded, using OS environment", slog.String("path", path))
	}
}

// Load reads the YAML file at path (a missing file is not an error when
// optional is true), then applies environment overrides and validates.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && optional:
			slog.Debug("[Config] config file not found, using defaults", slog.String("path", path))
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envPrefix + "ADDR"); v != "" {
		c.ServerAddr = v
	}
	if v := os.Getenv(envPrefix + "PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv(envPrefix + "MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(envPrefix + "BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "STRATEGY"); v != "" {
		c.LLM.Strategy = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if c.LLM.APIKey == "" && c.LLM.APIKeyEnv != "" {
		c.LLM.APIKey = os.Getenv(c.LLM.APIKeyEnv)
	}
}

// Validate checks that the selected provider can be built.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai", "anthropic":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm provider %s requires an api key (llm.api_key or $%s)", c.LLM.Provider, c.LLM.APIKeyEnv)
		}
	case "deepseek":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm provider deepseek requires an api key (llm.api_key or $%s)", c.LLM.APIKeyEnv)
		}
		if c.LLM.BaseURL == "" {
			return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	case "ollama", "mock":
	case "":
		return errors.New("llm config missing; please set llm.provider")
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}

	switch c.LLM.Strategy {
	case "structured", "reformat":
	default:
		return fmt.Errorf("llm strategy %q not supported (structured, reformat)", c.LLM.Strategy)
	}

	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	return nil
}
