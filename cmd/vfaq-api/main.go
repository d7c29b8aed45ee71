// @title         vfaq API
// @version       0.1.0
// @description   Audited FAQ topic store and layout endpoints

package main

import (
	"context"

	"vfaq/internal/platform/config"
	"vfaq/internal/platform/logger"
	phttp "vfaq/internal/platform/net/http"

	"vfaq/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(srv.Router(), api.Options{
		Supabase:      root.Prefix("SUPABASE_"),
		Editor:        root.Prefix("EDITOR_"),
		Faq:           root.Prefix("FAQ_"),
		EnableSwagger: apiCfg.MayBool("SWAGGER", true),
	})

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
