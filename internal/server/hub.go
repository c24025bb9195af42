package server

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub tracks live sessions so they can be closed on shutdown. It never routes
// messages between sessions; each session only talks to its own client.
type Hub struct {
	sessions   map[*Session]struct{}
	register   chan *Session
	unregister chan *Session
	mutex      sync.RWMutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	// drained is closed once every session loop started by Run has returned.
	drained    chan struct{}
	logger     zerolog.Logger
}

// NewHub creates a Hub. Call Run in its own goroutine before registering sessions.
func NewHub(logger zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		sessions:   make(map[*Session]struct{}),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		drained:    make(chan struct{}),
		logger:     logger,
	}
}

// Register hands a session to the hub, which starts its loop. It returns false
// once the hub has shut down; the caller then owns the connection.
func (h *Hub) Register(s *Session) bool {
	select {
	case h.register <- s:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) unregisterSession(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.ctx.Done():
	}
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.sessions)
}

// Run is the hub's event loop. It returns after Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownSessions()
			// No session is added after this point, so a single waiter is enough.
			go func() {
				h.wg.Wait()
				close(h.drained)
			}()
			return

		case s := <-h.register:
			if s == nil {
				continue
			}

			h.mutex.Lock()
			h.sessions[s] = struct{}{}
			count := len(h.sessions)
			h.mutex.Unlock()
			h.logger.Debug().Str(remoteField, s.addr).Int("sessions", count).Msg("session registered")

			h.wg.Add(1)
			go func() {
				defer h.wg.Done()
				s.run()
				h.unregisterSession(s)
			}()

		case s := <-h.unregister:
			h.mutex.Lock()
			delete(h.sessions, s)
			count := len(h.sessions)
			h.mutex.Unlock()
			h.logger.Debug().Str(remoteField, s.addr).Int("sessions", count).Msg("session unregistered")
		}
	}
}

func (h *Hub) shutdownSessions() {
	h.mutex.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[*Session]struct{})
	h.mutex.Unlock()

	for _, s := range sessions {
		s.shutdown()
	}

	h.logger.Debug().Int("sessions", len(sessions)).Msg("closed live sessions")
}

// Shutdown closes every live session and waits for their loops to finish or
// for timeout to pass. It is safe to call more than once; a call after a
// timeout waits on the same sessions again.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()
	<-h.done

	select {
	case <-h.drained:
		return nil
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}
