// Package httpserver exposes the save and catalog JSON API over chi.
package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ladybyron/playroom/internal/model"
	"github.com/ladybyron/playroom/internal/service"
)

// CatalogLister serves the (possibly cached) game listing.
type CatalogLister interface {
	List(ctx context.Context) []model.CatalogEntry
}

// Locator resolves a slug to its packaging/engine descriptor.
type Locator interface {
	Locate(slug string) model.GameDescriptor
}

// Server wires services into HTTP handlers.
type Server struct {
	saves   service.SaveService
	catalog CatalogLister
	locator Locator
	signKey []byte
	maxBody int64
	log     *zap.Logger
}

// New constructs the HTTP server. maxBody bounds request bodies on the
// upsert endpoint; it should exceed the service's state ceiling by
// enough headroom for the JSON envelope.
func New(saves service.SaveService, catalog CatalogLister, locator Locator, signKey []byte, maxBody int64, log *zap.Logger) *Server {
	if maxBody <= 0 {
		maxBody = service.DefaultMaxStateBytes + 64*1024
	}
	return &Server{
		saves:   saves,
		catalog: catalog,
		locator: locator,
		signKey: signKey,
		maxBody: maxBody,
		log:     log,
	}
}

// Routes builds the chi router with middleware and all endpoints.
// The catalog is guest-readable; saves require an authenticated actor.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Recoverer(s.log))
	r.Use(RequestLogger(s.log))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", s.handleGamesList)
		r.Get("/games/{slug}", s.handleGameDescribe)

		r.Group(func(r chi.Router) {
			r.Use(Authenticator(s.signKey))
			r.Route("/saves/{slug}", func(r chi.Router) {
				r.Get("/", s.handleSavesList)
				r.Post("/", s.handleSaveUpsert)
				r.Get("/{slot}", s.handleSaveGet)
				r.Delete("/{slot}", s.handleSaveDelete)
			})
		})
	})
	return r
}
