package config

import "time"

// Config holds the application configuration.
type Config struct {
	APIRoot            string        `mapstructure:"api_root"`
	Model              string        `mapstructure:"model"`
	APIKeyEnv          string        `mapstructure:"api_key_env"`
	UpstreamTimeout    time.Duration `mapstructure:"upstream_timeout"`
	ListenAddress      string        `mapstructure:"listen_address"`
	MaxBodyBytes       int64         `mapstructure:"max_body_bytes"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFormat          string        `mapstructure:"log_format"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
}
