package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "quotebox",
			Version:     "1.0.0",
			Environment: "test",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 10 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     1,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "quotes.db",
		},
		Sync: SyncConfig{
			Enabled:     true,
			Interval:    30 * time.Second,
			Endpoint:    DefaultSyncEndpoint,
			Limit:       5,
			Category:    "Server",
			ServiceName: "remote-quotes",
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: []string{"app.name", "required"},
		},
		{
			name:    "invalid environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantErr: []string{"app.environment", "must be one of"},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: []string{"server.port", "at most"},
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: []string{"log.format"},
		},
		{
			name: "log file without path",
			mutate: func(c *Config) {
				c.Log.File.Enabled = true
				c.Log.File.Path = ""
			},
			wantErr: []string{"log.file.path", "required when"},
		},
		{
			name:    "unknown storage driver",
			mutate:  func(c *Config) { c.Storage.Driver = "postgres" },
			wantErr: []string{"storage.driver"},
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Storage.Path = "" },
			wantErr: []string{"storage.path"},
		},
		{
			name:    "sync endpoint not a url",
			mutate:  func(c *Config) { c.Sync.Endpoint = "not a url" },
			wantErr: []string{"sync.endpoint", "valid URL"},
		},
		{
			name:    "sync limit zero",
			mutate:  func(c *Config) { c.Sync.Limit = 0 },
			wantErr: []string{"sync.limit"},
		},
		{
			name:    "sync interval shorter than client timeout",
			mutate:  func(c *Config) { c.Sync.Interval = 5 * time.Second },
			wantErr: []string{"sync.interval", "client.timeout"},
		},
		{
			name: "events enabled without url",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.SubjectPrefix = "quotebox"
			},
			wantErr: []string{"events.url"},
		},
		{
			name:    "display enabled without credentials",
			mutate:  func(c *Config) { c.Display.Enabled = true },
			wantErr: []string{"display.apikey", "display.deviceid"},
		},
		{
			name:    "retry attempts zero",
			mutate:  func(c *Config) { c.Client.Retry.MaxAttempts = 0 },
			wantErr: []string{"client.retry.maxattempts"},
		},
		{
			name: "auth enabled without write role",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.RolesHeader = "X-User-Roles"
				c.Auth.SubjectHeader = "X-User-ID"
			},
			wantErr: []string{"auth.writerole"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)

			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfig_Validate_SyncDisabledSkipsIntervalCheck(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.Enabled = false
	cfg.Sync.Interval = 5 * time.Second

	assert.NoError(t, cfg.Validate())
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.Server.Port", "server.port"},
		{"Config.Sync.Interval", "sync.interval"},
		{"Config.Client.Retry.MaxAttempts", "client.retry.maxattempts"},
		{"Port", "port"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFieldPath(tt.namespace))
		})
	}
}
