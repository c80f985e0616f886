// Package api provides the HTTP API for the application
package api

import (
	"tubelens/internal/platform/config"
	"tubelens/internal/platform/logger"
	phttp "tubelens/internal/platform/net/http"
	"tubelens/internal/platform/store"

	"tubelens/internal/modkit"
	"tubelens/internal/modkit/httpkit"
	"tubelens/internal/modkit/module"

	analyticsmod "tubelens/internal/services/analytics/module"
	metamod "tubelens/internal/services/api/meta/module"
	ingestmod "tubelens/internal/services/ingest/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	mods := []module.Module{
		metamod.New(deps),
		ingestmod.New(deps),
		analyticsmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
