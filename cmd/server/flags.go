package main

import (
	"time"

	"github.com/Tyrowin/echoserver/internal/server"
	"github.com/urfave/cli/v2"
)

var opts struct {
	Host            string
	Port            int
	IndexFile       string
	AllowedOrigins  string
	PingInterval    time.Duration
	WriteWait       time.Duration
	ShutdownTimeout time.Duration
	LogFormat       string
	LogLevel        string
}

func flags() []cli.Flag {
	defaults := server.NewConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "host",
			Usage:       "interface to listen on; empty for all",
			EnvVars:     []string{"HOST"},
			Destination: &opts.Host,
		},
		&cli.IntFlag{
			Name:        "port",
			Usage:       "port to listen on",
			Value:       defaults.Port,
			EnvVars:     []string{"PORT"},
			Destination: &opts.Port,
		},
		&cli.StringFlag{
			Name:        "index-file",
			Usage:       "HTML file served at /; the built-in page when empty",
			EnvVars:     []string{"INDEX_FILE"},
			Destination: &opts.IndexFile,
		},
		&cli.StringFlag{
			Name:        "allowed-origins",
			Usage:       "comma separated origins allowed to open WebSocket connections",
			Value:       "*",
			EnvVars:     []string{"ALLOWED_ORIGINS"},
			Destination: &opts.AllowedOrigins,
		},
		&cli.DurationFlag{
			Name:        "ping-interval",
			Usage:       "keep-alive ping interval; 0 disables pings",
			Value:       defaults.PingInterval,
			EnvVars:     []string{"PING_INTERVAL"},
			Destination: &opts.PingInterval,
		},
		&cli.DurationFlag{
			Name:        "write-wait",
			Usage:       "time allowed to write one frame to a client",
			Value:       defaults.WriteWait,
			EnvVars:     []string{"WRITE_WAIT"},
			Destination: &opts.WriteWait,
		},
		&cli.DurationFlag{
			Name:        "shutdown-timeout",
			Usage:       "time allowed for connections to drain on shutdown",
			Value:       defaults.ShutdownTimeout,
			EnvVars:     []string{"SHUTDOWN_TIMEOUT"},
			Destination: &opts.ShutdownTimeout,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "console or json",
			Value:       defaults.LogFormat,
			EnvVars:     []string{"LOG_FORMAT"},
			Destination: &opts.LogFormat,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "trace, debug, info, warn or error",
			Value:       defaults.LogLevel,
			EnvVars:     []string{"LOG_LEVEL"},
			Destination: &opts.LogLevel,
		},
	}
}

// configFromOpts maps parsed flags onto a server.Config.
func configFromOpts() *server.Config {
	cfg := server.NewConfig()
	cfg.Host = opts.Host
	cfg.Port = opts.Port
	cfg.IndexFile = opts.IndexFile
	if origins := server.ParseOrigins(opts.AllowedOrigins); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}
	cfg.PingInterval = opts.PingInterval
	cfg.WriteWait = opts.WriteWait
	cfg.ShutdownTimeout = opts.ShutdownTimeout
	if opts.LogFormat != "" {
		cfg.LogFormat = opts.LogFormat
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	return cfg
}
