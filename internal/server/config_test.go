package server

import (
	"testing"
	"time"

	"github.com/tj/assert"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, "", cfg.IndexFile)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Duration(0), cfg.PingInterval)
	assert.Equal(t, 10*time.Second, cfg.WriteWait)
	assert.Equal(t, LogFormatConsole, cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "lowest port", mutate: func(cfg *Config) { cfg.Port = 1 }},
		{name: "highest port", mutate: func(cfg *Config) { cfg.Port = 65535 }},
		{name: "zero port", mutate: func(cfg *Config) { cfg.Port = 0 }, wantErr: true},
		{name: "port out of range", mutate: func(cfg *Config) { cfg.Port = 70000 }, wantErr: true},
		{name: "json logs", mutate: func(cfg *Config) { cfg.LogFormat = LogFormatJSON }},
		{name: "unknown log format", mutate: func(cfg *Config) { cfg.LogFormat = "xml" }, wantErr: true},
		{name: "keep-alive enabled", mutate: func(cfg *Config) { cfg.PingInterval = time.Second }},
		{name: "negative ping interval", mutate: func(cfg *Config) { cfg.PingInterval = -time.Second }, wantErr: true},
		{name: "zero write wait", mutate: func(cfg *Config) { cfg.WriteWait = 0 }, wantErr: true},
		{name: "zero shutdown timeout", mutate: func(cfg *Config) { cfg.ShutdownTimeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigAddr(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, ":8080", cfg.Addr())

	cfg.Host = "127.0.0.1"
	cfg.Port = 9000
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a.test", "https://b.test"}, ParseOrigins(" http://a.test , https://b.test "))
	assert.Equal(t, []string{"*"}, ParseOrigins("*"))
	assert.Len(t, ParseOrigins(""), 0)
	assert.Len(t, ParseOrigins(" , ,"), 0)
}
