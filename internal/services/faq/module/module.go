// Package module wires the faq service into an HTTP server
package module

import (
	"time"

	"vfaq/internal/adapters/editor"
	"vfaq/internal/adapters/pgrest"
	phttp "vfaq/internal/platform/net/http"

	"vfaq/internal/services/faq/domain"
	fhttp "vfaq/internal/services/faq/http"
	"vfaq/internal/services/faq/repo"
	"vfaq/internal/services/faq/service"
)

// Options carries the module's collaborators and rendering knobs
type Options struct {
	Client *pgrest.Client
	Editor *editor.Client // nil disables the session endpoints

	CacheTTL     time.Duration
	DefaultGroup string
	MaxPerLine   int
	PreviewLines int

	EditorURL string
	EditorCmd string
	AppName   string
}

// Module owns the topic store and its HTTP surface
type Module struct {
	svc     domain.ServicePort
	httpOpt fhttp.Options
}

// New builds the module: repo over the pgrest client, service over the repo
func New(opt Options) *Module {
	ttl := opt.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Module{
		svc: service.New(repo.New(opt.Client), ttl),
		httpOpt: fhttp.Options{
			DefaultGroup: opt.DefaultGroup,
			MaxPerLine:   opt.MaxPerLine,
			PreviewLines: opt.PreviewLines,
			Editor:       opt.Editor,
			EditorURL:    opt.EditorURL,
			EditorCmd:    opt.EditorCmd,
			AppName:      opt.AppName,
		},
	}
}

// Service exposes the topic store port for embedding callers
func (m *Module) Service() domain.ServicePort { return m.svc }

// MountRoutes mounts the module routes under /faq
func (m *Module) MountRoutes(r phttp.Router) {
	r.Route("/faq", func(rr phttp.Router) {
		fhttp.Register(rr, m.svc, m.httpOpt)
	})
}
