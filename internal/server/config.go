package server

import (
	"time"
)

type Config struct {
	Name string `conf:"name" yaml:"name" json:"name"`
	Host string `conf:"host" yaml:"host" json:"host"`
	Port int    `conf:"port" yaml:"port" json:"port"`

	BasePath    string        `conf:"base_path"    yaml:"base_path"    json:"base_path"`
	ReadTimeout time.Duration `conf:"read_timeout" yaml:"read_timeout" json:"read_timeout"`

	// RequestTimeout bounds ordinary API requests.
	RequestTimeout time.Duration `conf:"request_timeout" yaml:"request_timeout" json:"request_timeout"`

	// GenerationTimeout bounds generation requests, which block on the
	// remote service and run much longer.
	GenerationTimeout time.Duration `conf:"generation_timeout" yaml:"generation_timeout" json:"generation_timeout"`

	// APIKey, when set, is required on every request via the
	// Authorization header.
	APIKey string `conf:"api_key" yaml:"api_key" json:"api_key"`

	Debug bool `conf:"debug" yaml:"debug" json:"debug"`
	CORS  CORS `conf:"cors" yaml:"cors" json:"cors"`
}

type CORS struct {
	Enabled          bool          `conf:"enabled" yaml:"enabled" json:"enabled"`
	AllowedOrigins   []string      `conf:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods   []string      `conf:"allowed_methods" yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders   []string      `conf:"allowed_headers" yaml:"allowed_headers" json:"allowed_headers"`
	ExposedHeaders   []string      `conf:"exposed_headers" yaml:"exposed_headers" json:"exposed_headers"`
	AllowCredentials bool          `conf:"allow_credentials" yaml:"allow_credentials" json:"allow_credentials"`
	MaxAge           time.Duration `conf:"max_age" yaml:"max_age" json:"max_age"`
}

// DefaultConfig returns the local development defaults.
func DefaultConfig() Config {
	return Config{
		Name:              "mediahub",
		Host:              "0.0.0.0",
		Port:              8090,
		ReadTimeout:       30 * time.Second,
		RequestTimeout:    30 * time.Second,
		GenerationTimeout: 10 * time.Minute,
	}
}
