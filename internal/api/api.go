// Package api exposes the catalog, template store and list engine as a JSON
// HTTP API.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"household-shopping/internal/catalog"
	"household-shopping/internal/identity"
	"household-shopping/internal/metrics"
	"household-shopping/internal/shopping"
	"household-shopping/internal/templates"
)

// Deps are the collaborators the API serves.
type Deps struct {
	Catalog   *catalog.Catalog
	Templates *templates.Service
	Lists     *shopping.Engine
	Verifier  identity.Verifier
	// Metrics is optional; when set every request is recorded.
	Metrics *metrics.Store
	// DatabasePath is the SQLite file sized on /health.
	DatabasePath string
}

type server struct {
	Deps
}

// NewRouter builds the HTTP routes. The returned router can be extended,
// e.g. with the Telegram webhook.
func NewRouter(d Deps) *chi.Mux {
	s := &server{Deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if d.Metrics != nil {
		r.Use(metrics.Middleware(d.Metrics))
	}

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(identity.Middleware(d.Verifier))

		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.listTemplates)
			r.Post("/", s.createTemplate)
			r.Get("/{id}", s.getTemplate)
			r.Put("/{id}", s.updateTemplate)
			r.Delete("/{id}", s.deleteTemplate)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", s.listLists)
			r.Post("/", s.createList)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getList)
				r.Patch("/", s.updateList)
				r.Delete("/", s.deleteList)
				r.Post("/status", s.setStatus)
				r.Post("/templates", s.addTemplate)
				r.Post("/items", s.addItem)
				r.Put("/items/{productId}", s.updateItem)
				r.Delete("/items/{productId}", s.removeItem)
				r.Put("/items/{productId}/checked", s.setItemChecked)
			})
		})
	})

	return r
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"system": metrics.ReadHealth(s.DatabasePath),
	})
}
