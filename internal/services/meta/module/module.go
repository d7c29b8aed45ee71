// Package module wires the meta endpoints into the API
package module

import (
	"time"

	phttp "vfaq/internal/platform/net/http"
	metahttp "vfaq/internal/services/meta/http"
)

// Module serves health, readiness, version and uptime
type Module struct {
	deps metahttp.Deps
}

// New constructs the meta module; editor may be nil
func New(serviceName string, upstream, editor metahttp.Pinger) *Module {
	return &Module{deps: metahttp.Deps{
		ServiceName: serviceName,
		StartedAt:   time.Now(),
		Upstream:    upstream,
		Editor:      editor,
	}}
}

// MountRoutes mounts the module routes under /meta
func (m *Module) MountRoutes(r phttp.Router) {
	r.Route("/meta", func(rr phttp.Router) {
		metahttp.Register(rr, m.deps)
	})
}
