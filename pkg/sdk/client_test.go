package concierge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAsk_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ask" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}

		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["query"] != "what bikes" {
			t.Errorf("query = %q", req["query"])
		}

		_ = json.NewEncoder(w).Encode(Answer{
			Answer:  "road and gravel",
			Outcome: "answered",
			Meta:    map[string]string{"source": "cache"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test")
	ans, err := c.Ask(context.Background(), "what bikes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Answer != "road and gravel" || ans.Outcome != "answered" {
		t.Errorf("answer = %+v", ans)
	}
	if ans.Meta["source"] != "cache" {
		t.Errorf("meta = %v", ans.Meta)
	}
}

func TestAsk_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "upstream_failed",
			"message": "the assistant could not answer this question",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Ask(context.Background(), "q")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Code != "upstream_failed" {
		t.Errorf("code = %q", apiErr.Code)
	}
}

func TestAsk_NoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("authorization = %q, want unset", got)
		}
		_ = json.NewEncoder(w).Encode(Answer{Outcome: "answered"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHistory_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"items": [{"question": "q1", "answer": "a1", "outcome": "answered"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	items, err := c.History(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Question != "q1" {
		t.Errorf("items = %+v", items)
	}
}

func TestHealth_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ok", "checks": {"database": "ok"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Status != "ok" {
		t.Errorf("status = %q", h.Status)
	}
}

func TestHealth_DegradedIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status": "degraded", "checks": {"database": "error"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("degraded health must not error, got: %v", err)
	}
	if h.Status != "degraded" {
		t.Errorf("status = %q", h.Status)
	}
	if h.Checks["database"] != "error" {
		t.Errorf("checks = %v", h.Checks)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" {
			t.Errorf("path = %q, want /history", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "")
	if _, err := c.History(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
