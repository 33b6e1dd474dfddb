package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	StoreFile  = "file"
	StoreRedis = "redis"

	defaultTemperature = 0.5
	maxTemperature     = 2.0
)

// CompletionConfig configures the OpenAI-compatible completion endpoint.
// A nil Temperature means the default of 0.5; an explicit 0 is kept.
type CompletionConfig struct {
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	TimeoutSecs int      `yaml:"timeout_secs"`
}

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	TTLSecs   int    `yaml:"ttl_secs"`
}

// ProfileConfig selects where the reader profile is persisted.
type ProfileConfig struct {
	Store string      `yaml:"store"`
	Path  string      `yaml:"path"`
	Redis RedisConfig `yaml:"redis"`
}

type LogConfig struct {
	Mode   string `yaml:"mode"`
	Output string `yaml:"output"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Provider   string           `yaml:"provider"`
	Completion CompletionConfig `yaml:"completion"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Profile    ProfileConfig    `yaml:"profile"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from path. A missing file yields defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/pdfreader/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := userPath("config.yaml")
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// Validate rejects unknown provider or store names and out-of-range
// sampling temperatures.
func (c *AppConfig) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if t := c.Completion.Temperature; t != nil && (*t < 0 || *t > maxTemperature) {
		return fmt.Errorf("completion temperature %v outside [0, %v]", *t, maxTemperature)
	}
	switch c.Profile.Store {
	case StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown profile store %q", c.Profile.Store)
	}
	return nil
}

// APIKeyEnv is the environment variable holding the credential for the
// configured provider.
func (c *AppConfig) APIKeyEnv() string {
	if c.Provider == ProviderGemini {
		return c.Gemini.APIKeyEnv
	}
	return c.Completion.APIKeyEnv
}

func userPath(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pdfreader", name), nil
}

func applyDefaults(cfg *AppConfig) {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = ProviderGroq
	}

	c := &cfg.Completion
	switch cfg.Provider {
	case ProviderOpenAI:
		if c.BaseURL == "" {
			c.BaseURL = "https://api.openai.com/v1"
		}
		if c.Model == "" {
			c.Model = "gpt-4o-mini"
		}
		if c.APIKeyEnv == "" {
			c.APIKeyEnv = "OPENAI_API_KEY"
		}
	default:
		if c.BaseURL == "" {
			c.BaseURL = "https://api.groq.com/openai/v1"
		}
		if c.Model == "" {
			c.Model = "llama-3.3-70b-versatile"
		}
		if c.APIKeyEnv == "" {
			c.APIKeyEnv = "GROQ_API_KEY"
		}
	}
	if c.Temperature == nil {
		t := defaultTemperature
		c.Temperature = &t
	}

	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Gemini.APIKeyEnv == "" {
		cfg.Gemini.APIKeyEnv = "GOOGLE_API_KEY"
	}

	p := &cfg.Profile
	p.Store = strings.ToLower(strings.TrimSpace(p.Store))
	if p.Store == "" {
		p.Store = StoreFile
	}
	if p.Path == "" {
		if path, err := userPath("profile.yaml"); err == nil {
			p.Path = path
		} else {
			p.Path = "profile.yaml"
		}
	}
	if p.Redis.Addr == "" {
		p.Redis.Addr = "localhost:6379"
	}
	if p.Redis.KeyPrefix == "" {
		p.Redis.KeyPrefix = "pdfreader:profile:"
	}

	if cfg.Log.Mode == "" {
		cfg.Log.Mode = "development"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
}
