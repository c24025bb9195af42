package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Log formats accepted by NewLogger.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config holds the server configuration settings.
type Config struct {
	// Host is the interface to bind; empty means all interfaces.
	Host string
	Port int

	// IndexFile is served at GET /. When empty the embedded page is used.
	IndexFile string

	// AllowedOrigins restricts browser upgrades by Origin header. "*" allows all.
	AllowedOrigins []string

	// PingInterval enables keep-alive pings when positive.
	PingInterval time.Duration
	// WriteWait bounds a single echo or control write.
	WriteWait       time.Duration
	ShutdownTimeout time.Duration

	LogFormat string
	LogLevel  string
}

func defaultConfig() Config {
	return Config{
		Port:            8080,
		AllowedOrigins:  []string{"*"},
		WriteWait:       10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		LogFormat:       LogFormatConsole,
		LogLevel:        "info",
	}
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}

	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format: %q", c.LogFormat)
	}

	if c.PingInterval < 0 {
		return errors.New("ping interval must not be negative")
	}
	if c.WriteWait <= 0 {
		return errors.New("write wait must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseOrigins splits a comma separated origin list, dropping blanks.
func ParseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
