package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Routes builds the handler for the listener. Upgrade requests are accepted on
// any path; everything else goes through the router:
//
//	GET  /        the HTML document
//	GET  /health  plain-text liveness
//	GET  /ws      explicit WebSocket endpoint
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		withLogger(s.logger),
		s.withUpgrade,
		withCORS(s.origins),
		middleware.GetHead,
	)

	r.Get("/", s.handleIndex)
	r.Get("/health", HealthHandler)
	r.HandleFunc("/ws", s.handleWebSocket)
	return r
}

func (s *Server) withUpgrade(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			s.upgrade(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withCORS answers cross-origin requests with the same origin decisions the
// upgrader makes.
func withCORS(policy originPolicy) func(next http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}
	if policy.allowAll {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowOriginFunc = func(_ *http.Request, origin string) bool {
			return policy.allowsOrigin(origin)
		}
	}
	return cors.Handler(opts)
}

func withLogger(logger zerolog.Logger) func(handler http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := logger.WithContext(req.Context())
			handler.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
