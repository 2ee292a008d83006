package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLimitHTTPAllowsBurstThenRejects(t *testing.T) {
	handler := NewRateLimiter().LimitHTTP(okHandler())

	var lastCode int
	for i := 0; i < requestsPerHour+1; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
		r.RemoteAddr = "10.0.0.1:12345"
		handler.ServeHTTP(rec, r)
		lastCode = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestLimitHTTPTracksClientsSeparately(t *testing.T) {
	handler := NewRateLimiter().LimitHTTP(okHandler())

	for i := 0; i < requestsPerHour+1; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
		r.RemoteAddr = "10.0.0.1:12345"
		handler.ServeHTTP(rec, r)
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	r.RemoteAddr = "10.0.0.2:12345"
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLimitHTTPSkipsNonAPIPaths(t *testing.T) {
	handler := NewRateLimiter().LimitHTTP(okHandler())

	// exhaust the client's budget on the API surface
	for i := 0; i < requestsPerHour+1; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
		r.RemoteAddr = "10.0.0.1:12345"
		handler.ServeHTTP(rec, r)
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/tour/the-forest-hiker", nil)
	r.RemoteAddr = "10.0.0.1:12345"
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIPStripsPort(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.7:51234"
	assert.Equal(t, "192.168.1.7", clientIP(r))

	r.RemoteAddr = "no-port-here"
	assert.Equal(t, "no-port-here", clientIP(r))
}
