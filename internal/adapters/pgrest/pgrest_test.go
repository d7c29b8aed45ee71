package pgrest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vfaq/internal/adapters/pgrest"
	perr "vfaq/internal/platform/errors"
	"vfaq/internal/platform/testkit"
)

type row struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newClient(t *testing.T, h http.HandlerFunc) *pgrest.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return pgrest.New(pgrest.Config{BaseURL: srv.URL, AnonKey: "anon", AuthKey: "service"})
}

func TestSelectSendsAuthHeaders(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon" {
			t.Errorf("apikey header = %q", r.Header.Get("apikey"))
		}
		if r.Header.Get("authorization") != "Bearer service" {
			t.Errorf("authorization header = %q", r.Header.Get("authorization"))
		}
		if r.URL.Path != "/rest/v1/faqs" || r.URL.RawQuery != "active=is.true" {
			t.Errorf("unexpected target %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]row{{ID: 1, Name: "rules"}}) // nolint:errcheck
	})

	var rows []row
	testkit.MustNoErr(t, c.Select(context.Background(), "faqs", "active=is.true", &rows))
	if len(rows) != 1 || rows[0].Name != "rules" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestInsertSingleAsksForRepresentation(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("prefer") != "return=representation" {
			t.Errorf("prefer header = %q", r.Header.Get("prefer"))
		}
		if r.Header.Get("accept") != "application/vnd.pgrst.object+json" {
			t.Errorf("accept header = %q", r.Header.Get("accept"))
		}
		var in row
		testkit.MustNoErr(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 7
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in) // nolint:errcheck
	})

	var created row
	testkit.MustNoErr(t, c.InsertSingle(context.Background(), "faqs", row{Name: "votes"}, &created))
	if created.ID != 7 {
		t.Fatalf("expected representation back, got %+v", created)
	}
}

func TestUpdateSingleTargetsQuery(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.RawQuery != "id=eq.7" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(row{ID: 7, Name: "renamed"}) // nolint:errcheck
	})

	var updated row
	testkit.MustNoErr(t, c.UpdateSingle(context.Background(), "faqs", "id=eq.7", map[string]any{"name": "renamed"}, &updated))
	if updated.Name != "renamed" {
		t.Fatalf("unexpected row %+v", updated)
	}
}

func TestSelectSingleSetsObjectAccept(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("accept") != "application/vnd.pgrst.object+json" {
			t.Errorf("accept header = %q", r.Header.Get("accept"))
		}
		json.NewEncoder(w).Encode(row{ID: 3, Name: "one"}) // nolint:errcheck
	})

	var got row
	testkit.MustNoErr(t, c.SelectSingle(context.Background(), "history", "id=eq.3", &got))
	if got.ID != 3 {
		t.Fatalf("unexpected row %+v", got)
	}
}

func TestInsertRequiresCreated(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK) // acknowledged, but not with 201
	})

	err := c.Insert(context.Background(), "history", row{Name: "x"})
	testkit.MustErr(t, err)
	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestUpstreamFailureCarriesBodySnippet(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"duplicate key"}`, http.StatusConflict)
	})

	var rows []row
	err := c.Select(context.Background(), "faqs", "", &rows)
	testkit.MustErr(t, err)
	testkit.MustContain(t, err.Error(), "duplicate key")
}

func TestNewPanicsWithoutBaseURL(t *testing.T) {
	testkit.MustPanic(t, func() { pgrest.New(pgrest.Config{}) })
}
