package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func (s *Server) newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.origins.allows(r) {
		return true
	}

	zerolog.Ctx(r.Context()).Warn().
		Str("origin", r.Header.Get("Origin")).
		Msg("blocked WebSocket connection from disallowed origin")
	return false
}

// handleIndex serves the HTML document. A configured file is read from disk on
// every request; otherwise the embedded page is used.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.cfg.IndexFile != "" {
		http.ServeFile(w, r, s.cfg.IndexFile)
		return
	}
	http.ServeFileFS(w, r, s.static, indexName)
}

// handleWebSocket is the explicit /ws endpoint. It rejects anything but GET
// with a readable message before attempting the upgrade.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}
	s.upgrade(w, r)
}

// upgrade completes the handshake and hands the connection to the hub. On
// failure the upgrader has already written the HTTP error response.
func (s *Server) upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	session := NewSession(conn, r.RemoteAddr, &s.cfg, s.logger)
	if !s.hub.Register(session) {
		session.shutdown()
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprint(w, "Echo server is running!")
}
