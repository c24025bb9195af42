package server

import (
	"errors"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Session is one open WebSocket connection. A reader goroutine hands inbound
// frames to the session loop over a channel, and the loop writes each echo
// before taking the next frame, so replies keep the order of the requests.
type Session struct {
	conn         *websocket.Conn
	addr         string
	logger       zerolog.Logger
	pingInterval time.Duration
	writeWait    time.Duration

	inbound chan Frame
	done    chan struct{}
	// readErr is written by readLoop before inbound is closed.
	readErr error
}

// NewSession wraps an upgraded connection. The session does nothing until it
// is registered with a Hub.
func NewSession(conn *websocket.Conn, addr string, cfg *Config, logger zerolog.Logger) *Session {
	return &Session{
		conn:         conn,
		addr:         addr,
		logger:       logger.With().Str(remoteField, addr).Logger(),
		pingInterval: cfg.PingInterval,
		writeWait:    cfg.WriteWait,
		inbound:      make(chan Frame),
		done:         make(chan struct{}),
	}
}

// Addr returns the client's remote address.
func (s *Session) Addr() string {
	return s.addr
}

// setupReadConnection replaces the deadline inherited from the http.Server.
// Without keep-alive a session may stay idle indefinitely.
func (s *Session) setupReadConnection() {
	if s.pingInterval <= 0 {
		if err := s.conn.SetReadDeadline(time.Time{}); err != nil {
			s.logger.Debug().Err(err).Msg("clearing read deadline")
		}
		return
	}

	pongWait := s.pingInterval + s.writeWait
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Debug().Err(err).Msg("setting initial read deadline")
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func (s *Session) run() {
	s.logger.Info().Msg("New client connected")

	s.setupReadConnection()
	go s.readLoop()

	var ticks <-chan time.Time
	if s.pingInterval > 0 {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	defer s.finish()

	for {
		select {
		case frame, ok := <-s.inbound:
			if !ok {
				return
			}
			if !s.echo(frame) {
				return
			}
		case <-ticks:
			if !s.ping() {
				return
			}
		}
	}
}

// readLoop delivers frames to the session loop until the transport fails or
// the session ends.
func (s *Session) readLoop() {
	defer close(s.inbound)

	for {
		msgType, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.readErr = err
			return
		}

		select {
		case s.inbound <- Frame{Type: msgType, Payload: payload}:
		case <-s.done:
			return
		}
	}
}

// finish releases the connection and waits for the reader to stop, so the
// disconnect line is written exactly once and last.
func (s *Session) finish() {
	close(s.done)
	s.closeConnection()
	for range s.inbound {
	}

	code := websocket.CloseAbnormalClosure
	if s.readErr != nil {
		s.logReadError(s.readErr)
		code = closeCode(s.readErr)
	}
	s.logger.Info().Int(codeField, code).Msg("Client disconnected")
}

func (s *Session) echo(frame Frame) bool {
	reply := Echo(frame.Payload)
	s.logger.Info().Msgf("Received message: %s", reply[len(EchoPrefix):])

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeWait)); err != nil {
		s.logger.Debug().Err(err).Msg("setting write deadline")
		return false
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, reply); err != nil {
		if !isExpectedCloseError(err) {
			s.logger.Debug().Err(err).Msg("writing echo")
		}
		return false
	}

	s.logger.Debug().Msgf("Sent message: %s", reply)
	return true
}

// ping sends a keep-alive ping.
func (s *Session) ping() bool {
	if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeWait)); err != nil {
		if !isExpectedCloseError(err) {
			s.logger.Debug().Err(err).Msg("writing ping")
		}
		return false
	}
	return true
}

// shutdown tells the client the server is going away and drops the transport.
// It is safe to call concurrently with the session loop.
func (s *Session) shutdown() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.writeWait)); err != nil {
		if !isExpectedCloseError(err) {
			s.logger.Debug().Err(err).Msg("writing close message")
		}
	}
	s.closeConnection()
}

// closeConnection closes the WebSocket connection, ignoring already-closed errors.
func (s *Session) closeConnection() {
	if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
		s.logger.Debug().Err(err).Msg("closing connection")
	}
}

// logReadError records why the reader stopped. Peer closes and dropped
// transports are the normal way a session ends.
func (s *Session) logReadError(err error) {
	switch {
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived):
		s.logger.Debug().Err(err).Msg("client closed the connection")
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), isExpectedCloseError(err):
		s.logger.Debug().Err(err).Msg("connection dropped")
	default:
		s.logger.Debug().Err(err).Msg("read error")
	}
}
