package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit_PerIP(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) })
	h := RateLimit(1, 2)(ok)

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/v1/ratings", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusCreated, hit("10.0.0.1").Code)
	assert.Equal(t, http.StatusCreated, hit("10.0.0.1").Code)

	rr := hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "2", rr.Header().Get("Retry-After"))

	// another client has its own bucket
	assert.Equal(t, http.StatusCreated, hit("10.0.0.2").Code)
}

func TestVisitors_SweepsIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newVisitors(1, 1, time.Minute)
	s.now = func() time.Time { return now }

	s.get("a")
	s.get("b")
	assert.Equal(t, 2, s.len())

	now = now.Add(2 * time.Minute)
	s.get("c")
	assert.Equal(t, 1, s.len())
}
