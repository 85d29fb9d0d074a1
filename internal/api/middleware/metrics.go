package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Vishal25102002/planify/internal/metrics"
)

// Metrics records a count and a latency observation for every request.
// Conversation IDs are collapsed out of the path label to keep
// cardinality bounded.
func Metrics(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			// Handler finished without writing anything
			status = http.StatusOK
		}
		path := normalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.
			WithLabelValues(r.Method, path, strconv.Itoa(status)).
			Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, path).
			Observe(time.Since(start).Seconds())
	}
	return http.HandlerFunc(fn)
}

// normalizePath replaces the variable segment of conversation routes
// with a placeholder.
func normalizePath(path string) string {
	if path == "/conversations/active" {
		return path
	}
	if strings.HasPrefix(path, "/conversations/") && len(path) > len("/conversations/") {
		if strings.HasSuffix(path, "/select") {
			return "/conversations/:id/select"
		}
		return "/conversations/:id"
	}
	return path
}
