package http_test

import (
	stdctx "context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	perr "vfaq/internal/platform/errors"
	phttp "vfaq/internal/platform/net/http"
	"vfaq/internal/platform/testkit"
	metahttp "vfaq/internal/services/meta/http"
)

type pinger struct{ err error }

func (p pinger) Ping(stdctx.Context) error { return p.err }

func mount(t *testing.T, d metahttp.Deps) *httptest.Server {
	t.Helper()
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/meta", func(rr phttp.Router) { metahttp.Register(rr, d) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) phttp.Envelope {
	t.Helper()
	res, err := http.Get(url)
	testkit.MustNoErr(t, err)
	defer res.Body.Close() // nolint:errcheck
	var env phttp.Envelope
	testkit.MustNoErr(t, json.NewDecoder(res.Body).Decode(&env))
	return env
}

func TestHealth(t *testing.T) {
	srv := mount(t, metahttp.Deps{ServiceName: "vfaq-api", StartedAt: time.Now()})

	env := get(t, srv.URL+"/meta/health")
	data := env.Data.(map[string]any)
	if data["ok"] != true || data["service"] != "vfaq-api" {
		t.Fatalf("unexpected health payload %v", data)
	}
}

func TestReadyStates(t *testing.T) {
	cases := []struct {
		name     string
		upstream metahttp.Pinger
		editor   metahttp.Pinger
		want     string
	}{
		{"all ok", pinger{}, pinger{}, "ok"},
		{"editor skipped", pinger{}, nil, "ok"},
		{"editor down degrades", pinger{}, pinger{err: perr.Upstreamf("down")}, "degraded"},
		{"repository down fails", pinger{err: perr.Upstreamf("down")}, pinger{}, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := mount(t, metahttp.Deps{
				ServiceName: "vfaq-api",
				StartedAt:   time.Now(),
				Upstream:    tc.upstream,
				Editor:      tc.editor,
			})
			data := get(t, srv.URL+"/meta/ready").Data.(map[string]any)
			if data["status"] != tc.want {
				t.Fatalf("status = %v, want %s", data["status"], tc.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	srv := mount(t, metahttp.Deps{ServiceName: "vfaq-api", StartedAt: time.Now()})

	data := get(t, srv.URL+"/meta/version").Data.(map[string]any)
	if data["service"] != "vfaq-api" || data["version"] != "dev" {
		t.Fatalf("unexpected version payload %v", data)
	}
}
