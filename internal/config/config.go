package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"
)

// Profile selects the defaults for a deployment shell.
type Profile int

const (
	// ServerProfile is the long-running HTTP server.
	ServerProfile Profile = iota
	// FunctionProfile is the single-invocation serverless function.
	FunctionProfile
)

const (
	DefaultPort        = "4000"
	DefaultTemperature = float32(0.7)
	DefaultMaxTokens   = 500
)

// DefaultServerOrigins are the local development origins the server shell allows.
var DefaultServerOrigins = []string{"http://127.0.0.1:5501", "http://localhost:5501"}

// DefaultUpstreamURL returns the OpenAI chat completions endpoint.
func DefaultUpstreamURL() string {
	return openai.DefaultConfig("").BaseURL + "/chat/completions"
}

// Config is built once at startup and never mutated afterwards.
type Config struct {
	APIKey          string        `yaml:"api_key"`
	UpstreamURL     string        `yaml:"upstream_url"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	LogLevel        string        `yaml:"log_level"`
	Defaults        ChatDefaults  `yaml:"defaults"`
}

// ChatDefaults are applied to requests that omit sampling parameters.
type ChatDefaults struct {
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// HasAPIKey reports whether a non-blank credential is configured.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Defaults returns the configuration a profile starts from.
func Defaults(p Profile) *Config {
	cfg := &Config{
		UpstreamURL: DefaultUpstreamURL(),
		Port:        DefaultPort,
		Environment: "production",
		LogLevel:    "info",
		Defaults: ChatDefaults{
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
	}
	switch p {
	case FunctionProfile:
		cfg.AllowedOrigins = []string{"*"}
	default:
		cfg.AllowedOrigins = append([]string(nil), DefaultServerOrigins...)
	}
	return cfg
}

// LoadConfig loads configuration from a YAML file on top of base.
func LoadConfig(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load builds the configuration for a profile: defaults, then the optional
// YAML file at path, then .env and process environment.
func Load(p Profile, path string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Defaults(p)
	if path != "" {
		fileCfg, err := LoadConfig(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
		cfg = fileCfg
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := lookupEnv("OPENAI_API_KEY"); ok {
		cfg.APIKey = v
	}
	if v, ok := lookupEnv("UPSTREAM_URL"); ok {
		cfg.UpstreamURL = v
	}
	if v, ok := lookupEnv("ALLOWED_ORIGIN"); ok {
		cfg.AllowedOrigins = splitList(v)
	}
	if v, ok := lookupEnv("PORT"); ok {
		cfg.Port = v
	}
	if v, ok := lookupEnv("ENVIRONMENT"); ok {
		cfg.Environment = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookupEnv("UPSTREAM_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse UPSTREAM_TIMEOUT: %w", err)
		}
		cfg.UpstreamTimeout = d
	}
	if v, ok := lookupEnv("DEFAULT_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("parse DEFAULT_TEMPERATURE: %w", err)
		}
		cfg.Defaults.Temperature = float32(f)
	}
	if v, ok := lookupEnv("DEFAULT_MAX_TOKENS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse DEFAULT_MAX_TOKENS: %w", err)
		}
		cfg.Defaults.MaxTokens = n
	}
	return nil
}

// lookupEnv treats unset and empty variables alike, except for the
// credential whose emptiness the relay must see.
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	if key == "OPENAI_API_KEY" {
		return v, true
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
