// Package testhelpers provides common utilities shared by the server's tests.
//
// It provides functions for dialing WebSocket clients against test servers,
// making HTTP requests, capturing log output, and polling for asynchronous
// conditions to reduce duplication in test files.
package testhelpers

import (
	"bytes"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketURL converts an httptest server URL into a ws:// URL for path.
func WebSocketURL(httpURL, path string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http") + path
}

// ConnectWebSocket creates a WebSocket connection to the specified URL
// without an Origin header, as a non-browser client would.
func ConnectWebSocket(url string) (*websocket.Conn, error) {
	return ConnectWebSocketWithOrigin(url, "")
}

// ConnectWebSocketWithOrigin dials url sending origin as the Origin header.
// The handshake response is returned so callers can inspect rejections.
func ConnectWebSocketWithOrigin(url, origin string) (*websocket.Conn, error) {
	conn, resp, err := DialWebSocket(url, origin)
	if resp != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// DialWebSocket dials url and returns the handshake response as well. The
// caller must close the response body when it is non-nil.
func DialWebSocket(url, origin string) (*websocket.Conn, *http.Response, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	headers := http.Header{}
	if origin != "" {
		headers.Set("Origin", origin)
	}

	return dialer.Dial(url, headers)
}

// SendText sends a text frame.
func SendText(conn *websocket.Conn, text string) error {
	return conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// ReceiveText reads the next frame, waiting at most timeout.
func ReceiveText(conn *websocket.Conn, timeout time.Duration) (int, string, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, "", err
	}
	msgType, payload, err := conn.ReadMessage()
	return msgType, string(payload), err
}

// CloseWebSocket sends a normal close frame and closes the connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}

// MakeRequest creates and executes an HTTP request, returning the response.
// It includes a 5-second timeout and fails the test if the request cannot be
// created or executed successfully.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(method, url, http.NoBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// WaitFor polls cond until it holds or timeout passes, failing the test on timeout.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out after %s: %s", timeout, msg)
}

// SyncBuffer is a goroutine-safe log sink.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Lines returns the non-empty lines written so far.
func (b *SyncBuffer) Lines() []string {
	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Count returns how many lines equal line exactly.
func (b *SyncBuffer) Count(line string) int {
	n := 0
	for _, l := range b.Lines() {
		if l == line {
			n++
		}
	}
	return n
}
