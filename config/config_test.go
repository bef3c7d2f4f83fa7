package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty api base url",
			mutate: func(cfg *Config) {
				cfg.APIBaseURL = ""
			},
			wantErr: "api base URL",
		},
		{
			name: "url without host",
			mutate: func(cfg *Config) {
				cfg.APIBaseURL = "http://"
			},
			wantErr: "api base URL",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "zero page size",
			mutate: func(cfg *Config) {
				cfg.DefaultPageSize = 0
			},
			wantErr: "page size",
		},
		{
			name: "max page size below default",
			mutate: func(cfg *Config) {
				cfg.MaxPageSize = cfg.DefaultPageSize - 1
			},
			wantErr: "max page size",
		},
		{
			name: "zero id cache size",
			mutate: func(cfg *Config) {
				cfg.IDCacheSize = 0
			},
			wantErr: "id cache size",
		},
		{
			name: "empty cache file",
			mutate: func(cfg *Config) {
				cfg.CacheFile = ""
			},
			wantErr: "cache file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("TOKOTOK_TEST_INT", "42")
	value, ok, err := EnvInt("TOKOTOK_TEST_INT")
	if err != nil || !ok || value != 42 {
		t.Fatalf("EnvInt = %d, %v, %v", value, ok, err)
	}

	t.Setenv("TOKOTOK_TEST_INT", "not a number")
	if _, _, err := EnvInt("TOKOTOK_TEST_INT"); err == nil {
		t.Fatalf("expected parse error")
	}

	if _, ok, err := EnvInt("TOKOTOK_TEST_INT_UNSET"); ok || err != nil {
		t.Fatalf("unset var reported as set: %v, %v", ok, err)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("TOKOTOK_TEST_DUR", "30s")
	value, ok, err := EnvDuration("TOKOTOK_TEST_DUR")
	if err != nil || !ok || value != 30*time.Second {
		t.Fatalf("EnvDuration = %v, %v, %v", value, ok, err)
	}

	t.Setenv("TOKOTOK_TEST_DUR", "eleventy")
	if _, _, err := EnvDuration("TOKOTOK_TEST_DUR"); err == nil {
		t.Fatalf("expected parse error")
	}
}
