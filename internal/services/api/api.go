// Package api assembles the HTTP surface: middleware stack, docs, modules
package api

import (
	"time"

	"vfaq/internal/adapters/editor"
	"vfaq/internal/adapters/pgrest"
	"vfaq/internal/platform/config"
	phttp "vfaq/internal/platform/net/http"
	"vfaq/internal/platform/net/middleware"

	faqmod "vfaq/internal/services/faq/module"
	metahttp "vfaq/internal/services/meta/http"
	metamod "vfaq/internal/services/meta/module"
)

// Options are the API options
type Options struct {
	Supabase config.Conf // SUPABASE_*
	Editor   config.Conf // EDITOR_*
	Faq      config.Conf // FAQ_*

	EnableSwagger bool
}

// Mount builds the clients and modules and mounts everything onto r
func Mount(r phttp.Router, opt Options) {
	for _, mw := range middleware.CommonStack() {
		r.Use(mw)
	}
	phttp.MountSwagger(r, opt.EnableSwagger)

	client := pgrest.New(pgrest.Config{
		BaseURL: opt.Supabase.MustString("URL"),
		AnonKey: opt.Supabase.MustString("ANON_KEY"),
		AuthKey: opt.Supabase.MustString("AUTH_KEY"),
		Timeout: opt.Supabase.MayDuration("TIMEOUT", 10*time.Second),
	})

	var ed *editor.Client
	editorURL := opt.Editor.MayString("URL", "")
	if editorURL != "" {
		ed = editor.New(editorURL, opt.Editor.MayDuration("TIMEOUT", 10*time.Second))
	}

	faq := faqmod.New(faqmod.Options{
		Client:       client,
		Editor:       ed,
		CacheTTL:     opt.Supabase.MayDuration("CACHE_TTL", time.Minute),
		DefaultGroup: opt.Faq.MayString("DEFAULT_GROUP", "default"),
		MaxPerLine:   opt.Faq.MayInt("MAX_PER_LINE", 5),
		PreviewLines: opt.Faq.MayInt("PREVIEW_LINES", 3),
		EditorURL:    editorURL,
		EditorCmd:    opt.Editor.MayString("COMMAND", "faq editor submit {token}"),
		AppName:      opt.Editor.MayString("APP_NAME", "vfaq"),
	})

	// the editor client satisfies Pinger only when configured
	var edPing metahttp.Pinger
	if ed != nil {
		edPing = ed
	}
	meta := metamod.New("vfaq-api", client, edPing)

	r.Route("/api/v1", func(api phttp.Router) {
		meta.MountRoutes(api)
		faq.MountRoutes(api)
	})
}
