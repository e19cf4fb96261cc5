package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hunterxpress/courier-cli/internal/core/ports"
)

// memStore is an in-memory CredentialStore for tests.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func TestClient_InjectsBearerTokenWhenStored(t *testing.T) {
	store := newMemStore()
	_ = store.Set(context.Background(), ports.KeyAuthToken, "tok123")

	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, store, zerolog.Nop())
	if _, err := c.Get(context.Background(), "/user/me"); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if gotAuth != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected Accept application/json, got %q", gotAccept)
	}
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	store := newMemStore()

	var gotAuth string
	hasAuth := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, store, zerolog.Nop())
	if _, err := c.Post(context.Background(), "/user/login", map[string]string{"emailOrPhone": "a"}); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}

	if hasAuth {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_StoreFailureBlocksTransmission(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("disk gone")

	reached := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, store, zerolog.Nop())
	_, err := c.Get(context.Background(), "/deliveries")
	if err == nil {
		t.Fatal("expected error")
	}
	if reached {
		t.Fatal("request must not be transmitted when the token read fails")
	}
}

func TestClient_Non2xxBecomesHTTPError(t *testing.T) {
	store := newMemStore()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "message": "Invalid credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, store, zerolog.Nop())
	_, err := c.Post(context.Background(), "/user/login", map[string]string{})

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if he.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Status)
	}
	if he.Message != "Invalid credentials" {
		t.Fatalf("unexpected message: %q", he.Message)
	}
}

func TestClient_ErrorEnvelopeFallback(t *testing.T) {
	store := newMemStore()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "user not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, store, zerolog.Nop())
	_, err := c.Get(context.Background(), "/user/ghost")

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if he.Message != "user not found" {
		t.Fatalf("unexpected message: %q", he.Message)
	}
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	store := newMemStore()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, store, zerolog.Nop())
	_, err := c.Get(context.Background(), "/health")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestClient_DecodeJSONMalformed(t *testing.T) {
	store := newMemStore()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, store, zerolog.Nop())
	resp, err := c.Get(context.Background(), "/weird")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	var out map[string]any
	if err := resp.DecodeJSON(&out); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestClient_RequestOptionSetsHeader(t *testing.T) {
	store := newMemStore()

	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, store, zerolog.Nop())
	if _, err := c.Post(context.Background(), "/deliveries", map[string]string{}, WithHeader("Idempotency-Key", "abc-123")); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if gotKey != "abc-123" {
		t.Fatalf("expected idempotency key header, got %q", gotKey)
	}
}
