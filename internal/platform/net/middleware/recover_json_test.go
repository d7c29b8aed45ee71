package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vfaq/internal/platform/net/middleware"
)

func TestRecoverJSONConvertsPanicTo500(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rr := httptest.NewRecorder()

	middleware.RecoverJSON(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500 got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["status_code"] != float64(http.StatusInternalServerError) {
		t.Fatalf("status_code = %v", body["status_code"])
	}
	if body["error"] == "" || body["error"] == nil {
		t.Fatalf("expected an error message, got %v", body["error"])
	}
}

func TestRecoverJSONLeavesHealthyHandlersAlone(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("fine"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	rr := httptest.NewRecorder()

	middleware.RecoverJSON(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted || rr.Body.String() != "fine" {
		t.Fatalf("handler output altered: %d %q", rr.Code, rr.Body.String())
	}
}
