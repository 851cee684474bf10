// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Engine   EngineConfig
	Rate     RateLimitConfig
	CORS     CORSConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// EngineConfig holds validation engine and import job settings.
type EngineConfig struct {
	// MaxBodySize is the maximum request body size in bytes (default: 25MB)
	MaxBodySize int64 `env:"ENGINE_MAX_BODY_SIZE" default:"26214400"`

	// MaxRows is the maximum number of rows accepted per request (default: 100000)
	MaxRows int `env:"ENGINE_MAX_ROWS" default:"100000"`

	// BatchSize is the number of rows processed between cancellation checks
	// and progress updates (default: 500)
	BatchSize int `env:"ENGINE_BATCH_SIZE" default:"500"`

	// MaxConcurrent is the maximum number of parallel import jobs (default: 4)
	MaxConcurrent int `env:"ENGINE_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a job slot (default: 30s)
	MaxWaitTime time.Duration `env:"ENGINE_MAX_WAIT_TIME" default:"30s"`

	// JobTimeout is the maximum duration for a single import job (default: 10m)
	JobTimeout time.Duration `env:"ENGINE_JOB_TIMEOUT" default:"10m"`

	// ResultRetention is how long finished jobs stay queryable (default: 5m)
	ResultRetention time.Duration `env:"ENGINE_RESULT_RETENTION" default:"5m"`

	// SchemaDir is an optional directory of preset schema files (JSON/YAML)
	// loaded at startup
	SchemaDir string `env:"ENGINE_SCHEMA_DIR"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// CORSConfig holds cross-origin settings. The validate API is called from
// pages embedding the importer, so cross-origin requests are the norm.
type CORSConfig struct {
	// AllowedOrigins is a comma-separated list of allowed origins (default: *)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`

	// MaxAge is how long preflight results may be cached, in seconds (default: 300)
	MaxAge int `env:"CORS_MAX_AGE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
