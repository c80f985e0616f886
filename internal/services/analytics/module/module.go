// Package module wires analytics into the API using modkit
package module

import (
	"net/http"

	modkit "tubelens/internal/modkit"
	"tubelens/internal/modkit/httpkit"
	"tubelens/internal/platform/logger"
	str "tubelens/internal/platform/strings"
	analyticshttp "tubelens/internal/services/analytics/http"
	analyticsrepo "tubelens/internal/services/analytics/repo"
	analyticssvc "tubelens/internal/services/analytics/service"
)

// Ports exposes the analytics service to other modules and the CLI
type Ports struct {
	Analytics analyticssvc.Service
}

// Module implements the analytics module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc analyticssvc.Service
}

// New constructs the analytics module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("analytics"), modkit.WithPrefix("/analytics")}, opts...)...)

	cfg := analyticssvc.Config{
		Location:  deps.Cfg.MayTZ("TZ", nil),
		MinSample: deps.Cfg.MayInt("MIN_SAMPLE", 0),
	}
	if cfg.MinSample != 0 {
		logger.Named("analytics").Debug().Int("min_sample", cfg.MinSample).Msg("window sample floor overridden")
	}
	svc := analyticssvc.New(deps.PG, analyticsrepo.NewPG(), cfg)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Analytics: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		analyticshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports for cross module wiring
func (m *Module) Ports() any { return m.ports }
