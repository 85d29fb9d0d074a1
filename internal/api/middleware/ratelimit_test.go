package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestRateLimiterThrottlesBursts(t *testing.T) {
	rl := NewRateLimiter(zerolog.Nop())
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var limited bool
	for i := 0; i < burstSize+5; i++ {
		req := httptest.NewRequest("GET", "/conversations", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if i < burstSize && w.Code != http.StatusOK {
			t.Fatalf("request %d within burst was limited: %d", i, w.Code)
		}
		if w.Code == http.StatusTooManyRequests {
			limited = true
			if w.Header().Get("Retry-After") == "" {
				t.Fatal("429 response missing Retry-After header")
			}
		}
	}
	if !limited {
		t.Fatal("burst was never limited")
	}
}

func TestRateLimiterExemptsHealthAndMetrics(t *testing.T) {
	rl := NewRateLimiter(zerolog.Nop())
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/health", "/metrics"} {
		for i := 0; i < burstSize*2; i++ {
			req := httptest.NewRequest("GET", path, nil)
			req.RemoteAddr = "10.0.0.2:5000"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("%s was rate limited: %d", path, w.Code)
			}
		}
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(zerolog.Nop())
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Exhaust one client's burst
	for i := 0; i < burstSize+1; i++ {
		req := httptest.NewRequest("GET", "/conversations", nil)
		req.RemoteAddr = "10.0.0.3:5000"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// Another client is unaffected
	req := httptest.NewRequest("GET", "/conversations", nil)
	req.RemoteAddr = "10.0.0.4:5000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("separate client was limited: %d", w.Code)
	}
}
