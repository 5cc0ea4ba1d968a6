package language_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/civicgrid/triage/internal/language"
)

func TestClientTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Text   string `json:"text"`
			Source string `json:"source"`
			Target string `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Source != "hi" || req.Target != "en" {
			t.Errorf("source/target = %s/%s, want hi/en", req.Source, req.Target)
		}
		json.NewEncoder(w).Encode(map[string]string{"translated_text": "big pothole on the road"})
	}))
	defer server.Close()

	client := language.NewClient(server.URL, 5*time.Second, 0)
	got, err := client.Translate(context.Background(), "सड़क पर गड्ढा", "hi", "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "big pothole on the road" {
		t.Errorf("Translate = %q", got)
	}
}

func TestClientTranslateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := language.NewClient(server.URL, 5*time.Second, 0)
	_, err := client.Translate(context.Background(), "text", "hi", "en")
	if !errors.Is(err, language.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestClientTranslateEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"translated_text": ""})
	}))
	defer server.Close()

	client := language.NewClient(server.URL, 5*time.Second, 0)
	_, err := client.Translate(context.Background(), "text", "hi", "en")
	if !errors.Is(err, language.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestClientTranslateUnreachable(t *testing.T) {
	client := language.NewClient("http://127.0.0.1:1", time.Second, 0)
	_, err := client.Translate(context.Background(), "text", "hi", "en")
	if !errors.Is(err, language.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestClientTranslateThrottled(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]string{"translated_text": "ok"})
	}))
	defer server.Close()

	// Burst of 1: the second immediate call must be rejected, not queued.
	client := language.NewClient(server.URL, 5*time.Second, 1)
	if _, err := client.Translate(context.Background(), "a", "hi", "en"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	_, err := client.Translate(context.Background(), "b", "hi", "en")
	if !errors.Is(err, language.ErrThrottled) {
		t.Errorf("err = %v, want ErrThrottled", err)
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1", calls)
	}
}

func TestClientHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := language.NewClient(server.URL, 5*time.Second, 0)
	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}
