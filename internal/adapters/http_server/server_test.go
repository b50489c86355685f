package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "restaurant_rater/internal/adapters/http_server"
)

func readyz(t *testing.T, srv *httpserver.Server) (int, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr.Code, body
}

func TestReadyz(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	code, body := readyz(t, httpserver.New())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])

	code, body = readyz(t, httpserver.New(httpserver.WithReadiness("mysql", up), httpserver.WithReadiness("redis", up)))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])

	code, body = readyz(t, httpserver.New(httpserver.WithReadiness("mysql", up), httpserver.WithReadiness("redis", down)))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, map[string]any{"redis": "connection refused"}, body["failed"])
}

func TestRequestTimeout(t *testing.T) {
	srv := httpserver.New(httpserver.WithRequestTimeout(20 * time.Millisecond))
	srv.Mount("/slow", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))

	rr := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "timeout", rr.Body.String())
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- httpserver.New().Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_BadAddress(t *testing.T) {
	err := httpserver.New().Run(context.Background(), "127.0.0.1:-1")
	assert.Error(t, err)
}
