package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want 60s", cfg.Server.RequestTimeout)
	}
	if cfg.Engine.MaxBodySize != 26214400 {
		t.Errorf("Engine.MaxBodySize = %d, want 25MB", cfg.Engine.MaxBodySize)
	}
	if cfg.Engine.MaxRows != 100000 {
		t.Errorf("Engine.MaxRows = %d, want 100000", cfg.Engine.MaxRows)
	}
	if cfg.Engine.BatchSize != 500 {
		t.Errorf("Engine.BatchSize = %d, want 500", cfg.Engine.BatchSize)
	}
	if cfg.Engine.JobTimeout != 10*time.Minute {
		t.Errorf("Engine.JobTimeout = %v, want 10m", cfg.Engine.JobTimeout)
	}
	if !cfg.Rate.Enabled {
		t.Error("Rate.Enabled = false, want true by default")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("CORS.AllowedOrigins = %v, want [*]", cfg.CORS.AllowedOrigins)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENGINE_BATCH_SIZE", "50")
	t.Setenv("ENGINE_JOB_TIMEOUT", "2m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Engine.BatchSize != 50 {
		t.Errorf("Engine.BatchSize = %d, want 50", cfg.Engine.BatchSize)
	}
	if cfg.Engine.JobTimeout != 2*time.Minute {
		t.Errorf("Engine.JobTimeout = %v, want 2m", cfg.Engine.JobTimeout)
	}
	if cfg.Rate.Enabled {
		t.Error("Rate.Enabled = true, want false")
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != want[0] || cfg.CORS.AllowedOrigins[1] != want[1] {
		t.Errorf("CORS.AllowedOrigins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "non-numeric port",
			env:     map[string]string{"SERVER_PORT": "eighty"},
			wantErr: "invalid integer",
		},
		{
			name:    "bad duration",
			env:     map[string]string{"ENGINE_JOB_TIMEOUT": "soon"},
			wantErr: "invalid duration",
		},
		{
			name:    "bad boolean",
			env:     map[string]string{"RATE_LIMIT_ENABLED": "maybe"},
			wantErr: "invalid boolean",
		},
		{
			name:    "port out of range",
			env:     map[string]string{"SERVER_PORT": "70000"},
			wantErr: "SERVER_PORT",
		},
		{
			name:    "zero batch size",
			env:     map[string]string{"ENGINE_BATCH_SIZE": "0"},
			wantErr: "ENGINE_BATCH_SIZE must be positive",
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"LOG_LEVEL": "verbose"},
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "unknown log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ReportsAllValidationFailures(t *testing.T) {
	t.Setenv("ENGINE_MAX_ROWS", "0")
	t.Setenv("ENGINE_MAX_CONCURRENT", "-1")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() = nil, want error")
	}
	for _, want := range []string{"ENGINE_MAX_ROWS", "ENGINE_MAX_CONCURRENT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Load() error = %q, want it to mention %s", err, want)
		}
	}
}

func TestServerConfig_Addr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 9000}
	if got := c.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9000", got)
	}

	c = ServerConfig{Port: 8080}
	if got := c.Addr(); got != ":8080" {
		t.Errorf("Addr() = %q, want :8080", got)
	}
}
