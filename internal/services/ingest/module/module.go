// Package module wires ingest into the API using modkit
package module

import (
	"net/http"

	modkit "tubelens/internal/modkit"
	"tubelens/internal/modkit/httpkit"
	str "tubelens/internal/platform/strings"
	ingesthttp "tubelens/internal/services/ingest/http"
	ingestrepo "tubelens/internal/services/ingest/repo"
	ingestsvc "tubelens/internal/services/ingest/service"
)

// Ports exposes the ingest service to other modules and the CLI
type Ports struct {
	Ingest ingestsvc.Service
}

// Module implements the ingest module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc ingestsvc.Service
}

// New constructs the ingest module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("ingest"), modkit.WithPrefix("/ingest")}, opts...)...)

	svc := ingestsvc.New(
		deps.PG,
		ingestrepo.NewPG(),
		ingestrepo.NewWarehouse(deps.CH),
		ingestsvc.Config{Location: deps.Cfg.MayTZ("TZ", nil)},
	)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Ingest: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ingesthttp.Register(r, m.svc)
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
