package token

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testConfig(endpoint string) Config {
	return Config{
		URL:     endpoint,
		AuthKey: "dGVzdDp0ZXN0",
		Scope:   "GIGACHAT_API_PERS",
		Timeout: 5 * time.Second,
	}
}

func TestRefreshStoresToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Basic dGVzdDp0ZXN0" {
			t.Errorf("unexpected authorization header: %s", got)
		}
		if r.Header.Get("RqUID") == "" {
			t.Error("missing RqUID header")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("scope"); got != "GIGACHAT_API_PERS" {
			t.Errorf("unexpected scope: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh-token","expires_at":1735689600000}`))
	}))
	defer srv.Close()

	p, err := NewProvider(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Token() != "" {
		t.Fatalf("expected empty token before refresh, got %q", p.Token())
	}

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if p.Token() != "fresh-token" {
		t.Fatalf("expected fresh-token, got %q", p.Token())
	}
}

func TestRefreshKeepsOldTokenOnFailure(t *testing.T) {
	t.Parallel()

	failing := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"first-token"}`))
	}))
	defer srv.Close()

	p, err := NewProvider(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	failing = true
	err = p.Refresh(context.Background())
	if err == nil || !strings.Contains(err.Error(), "status=503") {
		t.Fatalf("expected status error, got %v", err)
	}
	if p.Token() != "first-token" {
		t.Fatalf("failed refresh must keep the old token, got %q", p.Token())
	}
}

func TestRefreshRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"expires_at":0}`))
	}))
	defer srv.Close()

	p, err := NewProvider(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Refresh(context.Background()); err == nil {
		t.Fatal("expected error for response without access_token")
	}
}

func TestNewProviderValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewProvider(Config{URL: "", AuthKey: "k"}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewProvider(Config{URL: "http://localhost", AuthKey: "  "}); err == nil {
		t.Fatal("expected error for empty auth key")
	}
	if _, err := NewProvider(Config{URL: "::bad::", AuthKey: "k"}); err == nil {
		t.Fatal("expected error for invalid url")
	}
}
