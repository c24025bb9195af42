package server_test

import (
	"context"
	"testing"
	"time"

	"github.com/Tyrowin/echoserver/internal/server"
	"github.com/Tyrowin/echoserver/internal/testhelpers"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/tj/assert"
)

func TestHubShutdownWithoutSessions(t *testing.T) {
	hub := server.NewHub(zerolog.Nop())

	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	assert.NoError(t, hub.Shutdown(2*time.Second))

	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("hub did not stop after shutdown")
	}

	// A second call returns immediately.
	assert.NoError(t, hub.Shutdown(time.Second))
}

func TestHubRejectsSessionsAfterShutdown(t *testing.T) {
	hub := server.NewHub(zerolog.Nop())
	go hub.Run()
	assert.NoError(t, hub.Shutdown(time.Second))

	session := server.NewSession(nil, "127.0.0.1:1", server.NewConfig(), zerolog.Nop())
	assert.False(t, hub.Register(session))
}

func TestServerShutdownClosesSessions(t *testing.T) {
	srv, testServer, logs := newTestServer(t, nil)
	url := testhelpers.WebSocketURL(testServer.URL, "/")

	const numClients = 5
	clients := make([]*websocket.Conn, numClients)
	for i := range clients {
		conn, err := testhelpers.ConnectWebSocket(url)
		assert.NoError(t, err)
		defer func() { _ = conn.Close() }()
		clients[i] = conn
	}
	testhelpers.WaitFor(t, readTimeout, func() bool { return srv.Hub().Count() == numClients }, "sessions not registered")

	done := make(chan error, 1)
	go func() { done <- srv.Shutdown() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("shutdown timeout exceeded")
	}

	for i, conn := range clients {
		_, _, err := testhelpers.ReceiveText(conn, readTimeout)
		assert.Error(t, err, "client %d still open", i)
		assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "client %d: %v", i, err)
	}

	assert.Equal(t, 0, srv.Hub().Count())
	assert.Equal(t, numClients, logs.Count("Client disconnected"))
}

func TestServeStopsWhenContextCancelled(t *testing.T) {
	srv, err := server.New(server.NewConfig(), zerolog.Nop())
	assert.NoError(t, err)

	ln := listenLocal(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	waitForHealth(t, "http://"+ln.Addr().String())
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
