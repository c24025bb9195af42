package server_test

import (
	"net/http/httptest"
	"testing"

	"github.com/Tyrowin/echoserver/internal/server"
	"github.com/Tyrowin/echoserver/internal/testhelpers"
	"github.com/tj/assert"
)

// newTestServer builds a Server logging to a captured buffer and serves it
// with httptest. Both are torn down when the test ends.
func newTestServer(t *testing.T, customize func(cfg *server.Config)) (*server.Server, *httptest.Server, *testhelpers.SyncBuffer) {
	t.Helper()

	cfg := server.NewConfig()
	if customize != nil {
		customize(cfg)
	}

	logs := &testhelpers.SyncBuffer{}
	logger, err := server.NewLogger(logs, cfg.LogFormat, cfg.LogLevel, "test")
	assert.NoError(t, err)

	srv, err := server.New(cfg, logger)
	assert.NoError(t, err)

	testServer := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Shutdown()
		testServer.Close()
	})

	return srv, testServer, logs
}
