package answer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, zerolog.Nop())
}

func TestAskSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ask" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content-type %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		var req struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Question != "What are the opening hours?" {
			t.Errorf("unexpected question %q", req.Question)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"answer": "We open at 9am.",
			"references": [{"content": "Opening hours: 9-5", "page": 3, "score": "91.0%"}]
		}`))
	}))
	defer srv.Close()

	ans, err := newTestClient(srv.URL).Ask(context.Background(), "What are the opening hours?")
	if err != nil {
		t.Fatal(err)
	}
	if ans.Text != "We open at 9am." {
		t.Fatalf("unexpected answer %q", ans.Text)
	}
	if len(ans.References) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(ans.References))
	}
	ref := ans.References[0]
	if ref.Content != "Opening hours: 9-5" || ref.Page != 3 || ref.Score != "91.0%" {
		t.Fatalf("unexpected reference %+v", ref)
	}
}

func TestAskServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Ask(context.Background(), "hello")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAskMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Ask(context.Background(), "hello")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAskTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).Ask(context.Background(), "hello")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).Ping(context.Background()); err != nil {
		t.Fatal(err)
	}

	srv.Close()
	if err := newTestClient(srv.URL).Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after shutdown, got %v", err)
	}
}
