package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// docJSON is served when no generated spec is linked in; the UI still loads
var docJSON = `{"openapi":"3.0.3","info":{"title":"vfaq API","version":"0.1.0"},"paths":{}}`

// MountSwagger mounts the swagger UI and spec under /api/docs if enabled
func MountSwagger(r Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(docJSON))
	})
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
