// Package http provides http transport for the faq module
package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vfaq/internal/adapters/editor"
	"vfaq/internal/core/layout"
	"vfaq/internal/core/preview"
	perr "vfaq/internal/platform/errors"
	phttp "vfaq/internal/platform/net/http"
	"vfaq/internal/platform/net/http/bind"
	"vfaq/internal/services/faq/domain"
)

// Options carries the rendering knobs and collaborators the handlers need
type Options struct {
	DefaultGroup string
	MaxPerLine   int
	PreviewLines int

	// editor session plumbing; Editor may be nil, which disables the
	// session endpoints
	Editor    *editor.Client
	EditorURL string
	EditorCmd string
	AppName   string
}

// Register mounts the faq routes
func Register(r phttp.Router, s domain.ServicePort, o Options) {
	h := &handlers{svc: s, opt: o}

	phttp.GetJSON(r, "/topics", h.list)
	phttp.GetJSON(r, "/topics/lookup", h.lookup)
	phttp.GetJSON(r, "/topics/{id}", h.byID)
	r.Post("/topics", phttp.Handle(h.create))
	r.Delete("/topics/{id}", phttp.Handle(h.delete))

	phttp.PatchJSON[domain.RenameInput](r, "/topics/{id}/topic", h.rename)
	phttp.PatchJSON[domain.SetTextInput](r, "/topics/{id}/content", h.setContent)
	phttp.PatchJSON[domain.SetTextInput](r, "/topics/{id}/preface", h.setPreface)
	phttp.PatchJSON[domain.SetGroupInput](r, "/topics/{id}/group", h.setGroup)
	phttp.PostJSON[domain.AliasInput](r, "/topics/{id}/alias", h.addAlias)
	phttp.DeleteJSONBody[domain.AliasInput](r, "/topics/{id}/alias", h.removeAlias)
	phttp.PatchJSON[domain.SetPosInput](r, "/topics/{id}/pos", h.setPos)

	phttp.GetJSON(r, "/topics/{id}/history", h.historyForTopic)
	phttp.GetJSON(r, "/history/{id}", h.historyEntry)
	phttp.GetJSON(r, "/layout", h.layout)

	if o.Editor != nil {
		r.Post("/topics/{id}/editor/{field}", phttp.JSONHandlerNoBody(h.editorStart))
		phttp.PostJSON[domain.EditorSubmitInput](r, "/topics/{id}/editor/{field}/submit", h.editorSubmit)
	}
}

type handlers struct {
	svc domain.ServicePort
	opt Options
}

// authorOf reads the caller identity from the X-Author header; absent or
// malformed values fall back to the system identity
func authorOf(r *stdhttp.Request) uuid.UUID {
	id, err := uuid.Parse(r.Header.Get("X-Author"))
	if err != nil {
		return domain.SystemAuthor
	}
	return id
}

func topicID(r *stdhttp.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, perr.InvalidArgf("invalid topic id %q", raw)
	}
	return id, nil
}

// @Summary List active topics
// @Tags faq
// @Produce json
// @Success 200 {object} phttp.Envelope{data=[]domain.Topic} "ok"
// @Router /faq/topics [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// LookupOutput is a resolved topic plus its display excerpt
type LookupOutput struct {
	Topic   domain.Topic    `json:"topic"`
	Preview preview.Preview `json:"preview"`
}

// @Summary Resolve a topic by name or alias
// @Tags faq
// @Produce json
// @Param q query string true "lookup key"
// @Success 200 {object} phttp.Envelope{data=LookupOutput} "ok"
// @Failure 404 {object} phttp.Envelope "no or ambiguous match"
// @Router /faq/topics/lookup [get]
func (h *handlers) lookup(r *stdhttp.Request) (any, error) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		return nil, perr.InvalidArgf("query parameter q is required")
	}
	t, err := h.svc.FindByNameOrAlias(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return LookupOutput{
		Topic:   t,
		Preview: preview.Smart(t.Content, t.Preface, h.opt.PreviewLines),
	}, nil
}

// @Summary Fetch one topic
// @Tags faq
// @Produce json
// @Param id path int true "topic id"
// @Success 200 {object} phttp.Envelope{data=domain.Topic} "ok"
// @Router /faq/topics/{id} [get]
func (h *handlers) byID(r *stdhttp.Request) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.FindByID(r.Context(), id)
}

// @Summary Create an empty topic
// @Tags faq
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Create"
// @Success 201 {object} phttp.Envelope{data=domain.Topic} "created"
// @Failure 409 {object} phttp.Envelope "name collision"
// @Router /faq/topics [post]
func (h *handlers) create(r *stdhttp.Request) phttp.Response {
	in, err := bind.ParseJSON[domain.CreateInput](r)
	if err != nil {
		return phttp.Error(err)
	}
	t, err := h.svc.Create(r.Context(), in.Topic, authorOf(r))
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.Created(t)
}

// @Summary Soft-delete a topic
// @Tags faq
// @Param id path int true "topic id"
// @Success 204 "deleted"
// @Router /faq/topics/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) phttp.Response {
	id, err := topicID(r)
	if err != nil {
		return phttp.Error(err)
	}
	if err := h.svc.Delete(r.Context(), id, authorOf(r)); err != nil {
		return phttp.Error(err)
	}
	return phttp.NoContent()
}

// @Summary Rename a topic
// @Tags faq
// @Accept json
// @Produce json
// @Param id path int true "topic id"
// @Param payload body domain.RenameInput true "Rename"
// @Success 200 {object} phttp.Envelope{data=domain.Topic} "ok"
// @Failure 409 {object} phttp.Envelope "name collision"
// @Router /faq/topics/{id}/topic [patch]
func (h *handlers) rename(r *stdhttp.Request, in domain.RenameInput) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Rename(r.Context(), id, in.Topic, authorOf(r))
}

func (h *handlers) setContent(r *stdhttp.Request, in domain.SetTextInput) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.SetContent(r.Context(), id, in.Value, authorOf(r))
}

func (h *handlers) setPreface(r *stdhttp.Request, in domain.SetTextInput) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.SetPreface(r.Context(), id, in.Value, authorOf(r))
}

func (h *handlers) setGroup(r *stdhttp.Request, in domain.SetGroupInput) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.SetGroup(r.Context(), id, in.Group, authorOf(r))
}

func (h *handlers) addAlias(r *stdhttp.Request, in domain.AliasInput) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.AddAlias(r.Context(), id, in.Alias, authorOf(r))
}

func (h *handlers) removeAlias(r *stdhttp.Request, in domain.AliasInput) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.RemoveAlias(r.Context(), id, in.Alias, authorOf(r))
}

func (h *handlers) setPos(r *stdhttp.Request, in domain.SetPosInput) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.SetPosition(r.Context(), id, domain.Pos{Line: in.Line, Col: in.Col}, authorOf(r))
}

// @Summary Audit trail for one topic
// @Tags faq
// @Produce json
// @Param id path int true "topic id"
// @Success 200 {object} phttp.Envelope{data=[]domain.History} "ok"
// @Router /faq/topics/{id}/history [get]
func (h *handlers) historyForTopic(r *stdhttp.Request) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.HistoryForTopic(r.Context(), id)
}

func (h *handlers) historyEntry(r *stdhttp.Request) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.HistoryEntry(r.Context(), id)
}

// @Summary Arrange visible topics into display lines
// @Tags faq
// @Produce json
// @Param groups query string false "csv of non-default groups the caller may see"
// @Success 200 {object} phttp.Envelope{data=[]layout.Line} "ok"
// @Router /faq/layout [get]
func (h *handlers) layout(r *stdhttp.Request) (any, error) {
	topics, err := h.svc.List(r.Context())
	if err != nil {
		return nil, err
	}

	allowed := map[string]bool{}
	if raw := r.URL.Query().Get("groups"); raw != "" {
		for _, g := range strings.Split(raw, ",") {
			allowed[strings.TrimSpace(g)] = true
		}
	}

	items := make([]layout.Item, 0, len(topics))
	for _, t := range topics {
		items = append(items, layout.Item{
			ID:         t.ID,
			Name:       t.Topic,
			Group:      t.Group,
			Line:       t.Pos.Line,
			Col:        t.Pos.Col,
			Incomplete: t.Incomplete(),
		})
	}

	return layout.Arrange(items, layout.Options{
		DefaultGroup: h.opt.DefaultGroup,
		MaxPerLine:   h.opt.MaxPerLine,
		CanSee:       func(group string) bool { return allowed[group] },
	}), nil
}

func editorField(r *stdhttp.Request) (domain.Field, error) {
	switch chi.URLParam(r, "field") {
	case "content":
		return domain.FieldContent, nil
	case "preface":
		return domain.FieldPreface, nil
	default:
		return "", perr.InvalidArgf("field %q is not editable in a session", chi.URLParam(r, "field"))
	}
}

// @Summary Open a remote editing session for a text field
// @Tags faq
// @Produce json
// @Param id path int true "topic id"
// @Param field path string true "content or preface"
// @Success 200 {object} phttp.Envelope{data=domain.EditorStartOutput} "ok"
// @Router /faq/topics/{id}/editor/{field} [post]
func (h *handlers) editorStart(r *stdhttp.Request) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	field, err := editorField(r)
	if err != nil {
		return nil, err
	}
	t, err := h.svc.FindByID(r.Context(), id)
	if err != nil {
		return nil, err
	}

	text := t.Content
	if field == domain.FieldPreface {
		text = t.Preface
	}
	token, err := h.opt.Editor.Start(r.Context(), text, h.opt.EditorCmd, h.opt.AppName)
	if err != nil {
		return nil, err
	}
	return domain.EditorStartOutput{
		Token: token,
		URL:   h.opt.EditorURL + "?token=" + token,
	}, nil
}

// @Summary Apply a finished editing session to a text field
// @Tags faq
// @Accept json
// @Produce json
// @Param id path int true "topic id"
// @Param field path string true "content or preface"
// @Param payload body domain.EditorSubmitInput true "Submit"
// @Success 200 {object} phttp.Envelope{data=domain.Topic} "ok"
// @Router /faq/topics/{id}/editor/{field}/submit [post]
func (h *handlers) editorSubmit(r *stdhttp.Request, in domain.EditorSubmitInput) (any, error) {
	id, err := topicID(r)
	if err != nil {
		return nil, err
	}
	field, err := editorField(r)
	if err != nil {
		return nil, err
	}
	text, err := h.opt.Editor.Retrieve(r.Context(), in.Token)
	if err != nil {
		return nil, err
	}
	// editors hand back literal backslash-n sequences for line breaks
	text = strings.ReplaceAll(text, `\n`, "\n")

	if field == domain.FieldPreface {
		return h.svc.SetPreface(r.Context(), id, text, authorOf(r))
	}
	return h.svc.SetContent(r.Context(), id, text, authorOf(r))
}
