package server

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

// EchoPrefix is prepended to every payload sent back to a client.
const EchoPrefix = "Echo: "

// Frame is one inbound message read from a session. It is read once, used to
// build the reply, and then dropped.
type Frame struct {
	Type    int
	Payload []byte
}

// Echo returns the reply for payload. Binary payloads are treated as text:
// the bytes are decoded as UTF-8 and every byte that does not start a valid
// sequence becomes U+FFFD, so the reply is always a legal text frame.
func Echo(payload []byte) []byte {
	reply := make([]byte, 0, len(EchoPrefix)+len(payload))
	reply = append(reply, EchoPrefix...)
	return appendText(reply, payload)
}

func appendText(dst, payload []byte) []byte {
	if utf8.Valid(payload) {
		return append(dst, payload...)
	}
	for len(payload) > 0 {
		r, size := utf8.DecodeRune(payload)
		if r == utf8.RuneError && size == 1 {
			dst = utf8.AppendRune(dst, utf8.RuneError)
		} else {
			dst = append(dst, payload[:size]...)
		}
		payload = payload[size:]
	}
	return dst
}

// closeCode reports the close code carried by a read error. Anything that is
// not a close frame from the peer counts as an abnormal closure.
func closeCode(err error) int {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code
	}
	return websocket.CloseAbnormalClosure
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
