package editor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vfaq/internal/adapters/editor"
	perr "vfaq/internal/platform/errors"
	"vfaq/internal/platform/testkit"
)

func newClient(t *testing.T, h http.HandlerFunc) *editor.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return editor.New(srv.URL, time.Second)
}

func TestStartReturnsToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/editor/input" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var in map[string]string
		testkit.MustNoErr(t, json.NewDecoder(r.Body).Decode(&in))
		if in["input"] != "hello" || in["command"] != "submit {token}" || in["application"] != "vfaq" {
			t.Errorf("unexpected body %v", in)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "abc123"}) // nolint:errcheck
	})

	token, err := c.Start(context.Background(), "hello", "submit {token}", "vfaq")
	testkit.MustNoErr(t, err)
	if token != "abc123" {
		t.Fatalf("token = %q", token)
	}
}

func TestStartRejectsMissingToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{}) // nolint:errcheck
	})
	_, err := c.Start(context.Background(), "x", "c", "a")
	testkit.MustErr(t, err)
	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestRetrieveReturnsBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/editor/output" || r.URL.Query().Get("token") != "abc123" {
			t.Errorf("unexpected target %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		w.Write([]byte("edited text")) // nolint:errcheck
	})

	out, err := c.Retrieve(context.Background(), "abc123")
	testkit.MustNoErr(t, err)
	if out != "edited text" {
		t.Fatalf("out = %q", out)
	}
}

func TestRetrieveEscapesToken(t *testing.T) {
	raw := "a b&c=d/e?"
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != raw {
			t.Errorf("token = %q, want %q", got, raw)
		}
		w.Write([]byte("ok")) // nolint:errcheck
	})

	out, err := c.Retrieve(context.Background(), raw)
	testkit.MustNoErr(t, err)
	if out != "ok" {
		t.Fatalf("out = %q", out)
	}
}

func TestRetrieveUnknownTokenIsNotFound(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Retrieve(context.Background(), "nope")
	testkit.MustErr(t, err)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
