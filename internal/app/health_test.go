package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	server := NewHTTPServer(newTestService(&fakeStore{}, nil), "*", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()

	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if ok, exists := response["ok"]; !exists || ok != true {
		t.Errorf("expected ok=true, got %v", ok)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected X-Request-ID header")
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected CORS header, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantReady  bool
	}{
		{"database up", nil, http.StatusOK, true},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeStore{pingFn: func(context.Context) error { return tt.pingErr }}
			server := NewHTTPServer(newTestService(fs, nil), "*", nil)

			rr := httptest.NewRecorder()
			server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			var response map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if response["ok"] != tt.wantReady {
				t.Fatalf("expected ok=%v, got %v", tt.wantReady, response["ok"])
			}
		})
	}
}

func TestPreflightAndUnknownRoutes(t *testing.T) {
	server := NewHTTPServer(newTestService(&fakeStore{}, nil), "https://notes.example.com", nil)

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/notes", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://notes.example.com" {
		t.Fatalf("unexpected allow origin %q", got)
	}

	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	server := NewHTTPServer(newTestService(&fakeStore{}, nil), "*", nil)
	handler := server.Handler()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), `dailynotes_http_requests_total{method="GET",route="/api/health",status_code="200"} 1`) {
		t.Fatalf("expected health request counter in exposition, got:\n%s", body)
	}
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("metrics must not be served as JSON")
	}
}

func TestRouteLabelCollapsesIDs(t *testing.T) {
	cases := map[string]string{
		"/api/notes":                "/api/notes",
		"/api/notes/search":         "/api/notes/search",
		"/api/notes/abc-123":        "/api/notes/{id}",
		"/api/notes/abc-123/status": "/api/notes/{id}/status",
		"/api/weekly-tags/current":  "/api/weekly-tags/current",
		"/api/weekly-tags/w1":       "/api/weekly-tags/{id}",
		"/":                         "/",
	}
	for in, want := range cases {
		if got := routeLabel(in); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
