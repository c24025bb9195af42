package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/Tyrowin/echoserver/internal/server"
	"github.com/urfave/cli/v2"
)

type runFunc func(ctx context.Context, cfg *server.Config) error

func main() {
	if err := newApp(run).Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func newApp(action runFunc) *cli.App {
	return &cli.App{
		Name:    "echoserver",
		Usage:   "WebSocket echo server",
		Version: commitHash(),
		Flags:   flags(),
		Action: func(c *cli.Context) error {
			return action(c.Context, configFromOpts())
		},
	}
}

func run(ctx context.Context, cfg *server.Config) error {
	logger, err := server.NewLogger(os.Stdout, cfg.LogFormat, cfg.LogLevel, commitHash())
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func commitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
		return info.Main.Version
	}
	return "unknown"
}
