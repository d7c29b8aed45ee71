package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vfaq/internal/adapters/editor"
	perr "vfaq/internal/platform/errors"
	phttp "vfaq/internal/platform/net/http"
	"vfaq/internal/platform/testkit"
	"vfaq/internal/services/faq/domain"
	fhttp "vfaq/internal/services/faq/http"
)

// fakeSvc implements just the operations each test exercises; calling an
// unimplemented one panics via the embedded nil port
type fakeSvc struct {
	domain.ServicePort

	topics     []domain.Topic
	lastAuthor uuid.UUID
	lastText   string
}

func (f *fakeSvc) List(ctx context.Context) ([]domain.Topic, error) { return f.topics, nil }

func (f *fakeSvc) FindByID(ctx context.Context, id int) (domain.Topic, error) {
	for _, t := range f.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Topic{}, perr.NotFoundf("no topic with id %d", id)
}

func (f *fakeSvc) FindByNameOrAlias(ctx context.Context, q string) (domain.Topic, error) {
	for _, t := range f.topics {
		if t.Topic == q {
			return t, nil
		}
	}
	return domain.Topic{}, perr.NotFoundf("no topic matches %q", q)
}

func (f *fakeSvc) Create(ctx context.Context, name string, author uuid.UUID) (domain.Topic, error) {
	f.lastAuthor = author
	return domain.Topic{ID: 1, Topic: name, Active: true}, nil
}

func (f *fakeSvc) SetContent(ctx context.Context, id int, content string, author uuid.UUID) (domain.Topic, error) {
	f.lastAuthor = author
	f.lastText = content
	return domain.Topic{ID: id, Content: content, Active: true}, nil
}

func (f *fakeSvc) Delete(ctx context.Context, id int, author uuid.UUID) error {
	f.lastAuthor = author
	return nil
}

func mount(t *testing.T, svc domain.ServicePort, opt fhttp.Options) *httptest.Server {
	t.Helper()
	if opt.MaxPerLine == 0 {
		opt.MaxPerLine = 5
	}
	if opt.DefaultGroup == "" {
		opt.DefaultGroup = "default"
	}
	if opt.PreviewLines == 0 {
		opt.PreviewLines = 3
	}
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/faq", func(rr phttp.Router) { fhttp.Register(rr, svc, opt) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, hdr map[string]string) (*http.Response, phttp.Envelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	testkit.MustNoErr(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	testkit.MustNoErr(t, err)
	t.Cleanup(func() { res.Body.Close() }) // nolint:errcheck

	var env phttp.Envelope
	if res.StatusCode != http.StatusNoContent {
		testkit.MustNoErr(t, json.NewDecoder(res.Body).Decode(&env))
	}
	return res, env
}

func TestCreateReturnsCreated(t *testing.T) {
	svc := &fakeSvc{}
	srv := mount(t, svc, fhttp.Options{})

	res, env := do(t, http.MethodPost, srv.URL+"/faq/topics", `{"topic":"rules"}`, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", res.StatusCode)
	}
	data := env.Data.(map[string]any)
	if data["topic"] != "rules" {
		t.Fatalf("unexpected data %v", env.Data)
	}
}

func TestCreateValidatesBody(t *testing.T) {
	srv := mount(t, &fakeSvc{}, fhttp.Options{})

	res, env := do(t, http.MethodPost, srv.URL+"/faq/topics", `{"topic":""}`, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if env.Code != perr.ErrorCodeValidation {
		t.Fatalf("code = %v", env.Code)
	}
}

func TestAuthorHeader(t *testing.T) {
	svc := &fakeSvc{}
	srv := mount(t, svc, fhttp.Options{})

	id := uuid.MustParse("a2b51f7e-9d4c-4f6a-8c3e-000000000001")
	do(t, http.MethodPost, srv.URL+"/faq/topics", `{"topic":"a"}`, map[string]string{"X-Author": id.String()})
	if svc.lastAuthor != id {
		t.Fatalf("author = %v", svc.lastAuthor)
	}

	do(t, http.MethodPost, srv.URL+"/faq/topics", `{"topic":"b"}`, map[string]string{"X-Author": "not-a-uuid"})
	if svc.lastAuthor != domain.SystemAuthor {
		t.Fatalf("malformed author must fall back to system, got %v", svc.lastAuthor)
	}
}

func TestLookupRequiresQuery(t *testing.T) {
	srv := mount(t, &fakeSvc{}, fhttp.Options{})

	res, env := do(t, http.MethodGet, srv.URL+"/faq/topics/lookup", "", nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if env.Code != perr.ErrorCodeInvalidArgument {
		t.Fatalf("code = %v", env.Code)
	}
}

func TestLookupReturnsPreview(t *testing.T) {
	svc := &fakeSvc{topics: []domain.Topic{
		{ID: 1, Topic: "rules", Content: "a\nb\nc\nd", Active: true},
	}}
	srv := mount(t, svc, fhttp.Options{PreviewLines: 2})

	res, env := do(t, http.MethodGet, srv.URL+"/faq/topics/lookup?q=rules", "", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	data := env.Data.(map[string]any)
	pv := data["preview"].(map[string]any)
	if pv["trimmed"] != true || pv["continuable"] != true {
		t.Fatalf("long content must be trimmed: %v", pv)
	}
	if lines := pv["lines"].([]any); len(lines) != 2 {
		t.Fatalf("preview lines: %v", lines)
	}
}

func TestInvalidTopicID(t *testing.T) {
	srv := mount(t, &fakeSvc{}, fhttp.Options{})

	res, env := do(t, http.MethodGet, srv.URL+"/faq/topics/abc", "", nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if env.Code != perr.ErrorCodeInvalidArgument {
		t.Fatalf("code = %v", env.Code)
	}
}

func TestDeleteNoContent(t *testing.T) {
	svc := &fakeSvc{}
	srv := mount(t, svc, fhttp.Options{})

	res, _ := do(t, http.MethodDelete, srv.URL+"/faq/topics/7", "", nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", res.StatusCode)
	}
}

func TestLayoutHonorsGroupsParam(t *testing.T) {
	svc := &fakeSvc{topics: []domain.Topic{
		{ID: 1, Topic: "a", Content: "x", Group: "default", Active: true},
		{ID: 2, Topic: "s", Content: "x", Group: "staff", Active: true},
		{ID: 3, Topic: "h", Content: "x", Group: "hidden", Active: true},
	}}
	srv := mount(t, svc, fhttp.Options{})

	_, env := do(t, http.MethodGet, srv.URL+"/faq/layout?groups=staff", "", nil)
	out, err := json.Marshal(env.Data)
	testkit.MustNoErr(t, err)
	testkit.MustContain(t, string(out), `"s"`)
	if strings.Contains(string(out), `"h"`) {
		t.Fatalf("ungranted group leaked into layout: %s", out)
	}
}

func TestEditorSubmitUnescapesNewlines(t *testing.T) {
	ed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`line1\nline2`)) // nolint:errcheck
	}))
	t.Cleanup(ed.Close)

	svc := &fakeSvc{topics: []domain.Topic{{ID: 7, Topic: "rules", Content: "x", Active: true}}}
	srv := mount(t, svc, fhttp.Options{
		Editor:    editor.New(ed.URL, time.Second),
		EditorURL: ed.URL,
	})

	res, _ := do(t, http.MethodPost, srv.URL+"/faq/topics/7/editor/content/submit", `{"token":"abc"}`, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if svc.lastText != "line1\nline2" {
		t.Fatalf("text = %q", svc.lastText)
	}
}
