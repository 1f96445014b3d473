package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MatchWorkers: 4,
			Thresholds:   ThresholdsConfig{Fuzzy: 0.6, Partial: 0.3, Synonym: 0.9, Strong: 0.85},
		},
		Server: ServerConfig{
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid configuration",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "missing port",
			mutate:      func(c *Config) { c.Server.Port = "" },
			expectError: true,
			errorMsg:    "server port is required",
		},
		{
			name:        "unknown default format",
			mutate:      func(c *Config) { c.App.DefaultFormat = "xml" },
			expectError: true,
			errorMsg:    "invalid default format",
		},
		{
			name:        "zero match workers",
			mutate:      func(c *Config) { c.Engine.MatchWorkers = 0 },
			expectError: true,
			errorMsg:    "matchWorkers",
		},
		{
			name:        "threshold out of range",
			mutate:      func(c *Config) { c.Engine.Thresholds.Fuzzy = 1.5 },
			expectError: true,
			errorMsg:    "must be in [0,1]",
		},
		{
			name: "partial above fuzzy",
			mutate: func(c *Config) {
				c.Engine.Thresholds.Partial = 0.7
				c.Engine.Thresholds.Fuzzy = 0.5
			},
			expectError: true,
			errorMsg:    "must not exceed fuzzy",
		},
		{
			name: "server tls without key",
			mutate: func(c *Config) {
				c.Server.TLS = TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem"}
			},
			expectError: true,
			errorMsg:    "certificate and key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTLSMode(t *testing.T) {
	tests := []struct {
		name        string
		tls         TLSConfig
		expectError bool
		errorMsg    string
	}{
		{
			name:        "disabled mode",
			tls:         TLSConfig{Mode: "disabled"},
			expectError: false,
		},
		{
			name: "server mode valid",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			expectError: false,
		},
		{
			name: "mutual mode valid",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
				CAFile:   "/path/to/ca.pem",
			},
			expectError: false,
		},
		{
			name: "mutual mode missing CA",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			expectError: true,
			errorMsg:    "CA certificate is required",
		},
		{
			name: "mutual mode bad auth policy",
			tls: TLSConfig{
				Mode:             "mutual",
				CertFile:         "/path/to/cert.pem",
				KeyFile:          "/path/to/key.pem",
				CAFile:           "/path/to/ca.pem",
				ClientAuthPolicy: "always",
			},
			expectError: true,
			errorMsg:    "invalid clientAuthPolicy",
		},
		{
			name:        "invalid mode",
			tls:         TLSConfig{Mode: "invalid"},
			expectError: true,
			errorMsg:    "invalid TLS mode: invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTLSMode(tt.tls)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTLSVersion(t *testing.T) {
	assert.NoError(t, validateTLSVersion(TLSConfig{MinVersion: ""}))
	assert.NoError(t, validateTLSVersion(TLSConfig{MinVersion: "1.2"}))
	assert.NoError(t, validateTLSVersion(TLSConfig{MinVersion: "1.3"}))
	assert.Error(t, validateTLSVersion(TLSConfig{MinVersion: "1.0"}))
}

func TestApplyTLSDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Server.TLS = TLSConfig{Mode: "mutual", CertFile: "c", KeyFile: "k", CAFile: "ca"}

	cfg.applyFallbacks()

	assert.Equal(t, "require", cfg.Server.TLS.ClientAuthPolicy)
	assert.Equal(t, "1.2", cfg.Server.TLS.MinVersion)
}

func TestApplyObservabilityDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Observability.ServiceName = "tailorkit"

	cfg.applyFallbacks()

	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
	assert.Contains(t, cfg.Observability.ServiceInstance, "tailorkit-")
}
