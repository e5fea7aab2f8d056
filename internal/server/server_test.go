package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthz(t *testing.T) {
	srv := New("127.0.0.1:0", testLogger(), nil)

	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "alive" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestReadyz(t *testing.T) {
	ready := ReadinessChecker(func(context.Context) error { return nil })
	srv := New("127.0.0.1:0", testLogger(), ready)

	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", http.NoBody))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestReadyzNotReady(t *testing.T) {
	ready := ReadinessChecker(func(context.Context) error { return errors.New("db down") })
	srv := New("127.0.0.1:0", testLogger(), ready)

	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", http.NoBody))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", w.Code)
	}
}

func TestHealthIncludesVersion(t *testing.T) {
	srv := New("127.0.0.1:0", testLogger(), nil)

	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/health", http.NoBody))

	var body HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Service != "roomsentry" || body.Status != "ok" {
		t.Errorf("body = %+v", body)
	}
	if body.Version["version"] == "" {
		t.Error("version map missing")
	}
}

type stubRegistrar struct{ hit *bool }

func (s stubRegistrar) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/stub", func(w http.ResponseWriter, _ *http.Request) {
		*s.hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRouteRegistrarsMounted(t *testing.T) {
	var hit bool
	srv := New("127.0.0.1:0", testLogger(), nil, stubRegistrar{hit: &hit})

	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/stub", http.NoBody))

	if w.Code != http.StatusOK || !hit {
		t.Errorf("registrar route not served: status=%d hit=%v", w.Code, hit)
	}
}
