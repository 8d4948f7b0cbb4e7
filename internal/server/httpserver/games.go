package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ladybyron/playroom/internal/slug"
)

func (s *Server) handleGamesList(w http.ResponseWriter, r *http.Request) {
	items := s.catalog.List(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleGameDescribe reports how a slug resolves (engine and shape),
// for diagnostics and for clients that want to warn about missing
// games before launching them. Physical paths are never disclosed.
func (s *Server) handleGameDescribe(w http.ResponseWriter, r *http.Request) {
	sl := chi.URLParam(r, "slug")
	if !slug.ValidSlug(sl) {
		writeError(w, http.StatusBadRequest, "invalid_parameters")
		return
	}
	desc := s.locator.Locate(sl)
	if !desc.Exists {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, desc)
}
