package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DefaultAPIRoot   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel     = "gemini-1.5-flash-latest"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
	envPrefix        = "RELAY"
)

// The global, read-only config variable.
var (
	cfg  *Config
	once sync.Once
)

// LoadConfig loads the configuration and initializes the global cfg variable.
// It ensures that the configuration is set only once.
func LoadConfig(configFile string) (*Config, error) {
	var err error
	once.Do(func() {
		cfg, err = Load(configFile)
	})

	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, errors.New("configuration was not set")
	}

	return cfg, nil
}

// Load reads an optional YAML config file, a .env file if one exists, and
// RELAY_* environment variables, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("api_root", DefaultAPIRoot)
	v.SetDefault("model", DefaultModel)
	v.SetDefault("api_key_env", DefaultAPIKeyEnv)
	v.SetDefault("upstream_timeout", "30s")
	v.SetDefault("listen_address", "127.0.0.1:8080")
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", defaultLogFormat())
	v.SetDefault("cors_allowed_origins", []string{})

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	configuration.CORSAllowedOrigins = trimOrigins(configuration.CORSAllowedOrigins)

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

// Validate checks the settings the relay cannot run without.
func (c *Config) Validate() error {
	if c.APIRoot == "" {
		return errors.New("api_root is required")
	}
	if c.Model == "" {
		return errors.New("model is required")
	}
	if c.APIKeyEnv == "" {
		return errors.New("api_key_env is required")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream_timeout must be positive, got %s", c.UpstreamTimeout)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// trimOrigins drops the whitespace left by "a, b" style env lists.
func trimOrigins(origins []string) []string {
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			trimmed = append(trimmed, o)
		}
	}
	return trimmed
}

// GetConfig returns the loaded configuration.
// It panics if the configuration has not been set.
func GetConfig() *Config {
	if cfg == nil {
		panic("Config has not been set! Call LoadConfig first.")
	}
	return cfg
}

// IsServerless reports whether the process runs inside AWS Lambda or a
// Lambda-compatible host such as Netlify Functions.
func IsServerless() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func defaultLogFormat() string {
	if IsServerless() {
		return "json"
	}
	return "text"
}
