package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Server owns the listener's HTTP server, the session hub and the settings
// both run with. Build one with New and drive it with Run or Serve.
type Server struct {
	cfg        Config
	logger     zerolog.Logger
	hub        *Hub
	origins    originPolicy
	upgrader   websocket.Upgrader
	static     fs.FS
	httpServer *http.Server
}

// New validates cfg and builds a Server. The hub starts immediately, so the
// handler returned by Handler is usable without calling Run.
func New(cfg *Config, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Server{
		cfg:     *cfg,
		logger:  logger,
		hub:     NewHub(logger),
		origins: newOriginPolicy(cfg.AllowedOrigins, logger),
		static:  staticFS(),
	}
	s.cfg.AllowedOrigins = append([]string(nil), cfg.AllowedOrigins...)
	s.upgrader = s.newUpgrader()
	s.httpServer = CreateServer(s.cfg.Addr(), s.Routes())

	go s.hub.Run()
	return s, nil
}

// Handler returns the handler serving both HTTP and WebSocket traffic.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Hub returns the server's session hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or serving fails, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	port := s.cfg.Port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}

	served := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(served)
		s.logger.Info().Int("port", port).Msgf("Server is running on port %d", port)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-served:
		}
		return s.Shutdown()
	})

	return g.Wait()
}

// Shutdown stops accepting requests, tells live sessions the server is going
// away and waits for them up to the configured timeout.
func (s *Server) Shutdown() error {
	s.logger.Debug().Msg("shutting down")
	return errors.Join(
		ShutdownServer(s.httpServer, s.cfg.ShutdownTimeout),
		s.hub.Shutdown(s.cfg.ShutdownTimeout),
	)
}
