package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ladybyron/playroom/internal/errs"
	"github.com/ladybyron/playroom/internal/model"
)

// upsertRequest is the POST /api/saves/{slug} body.
type upsertRequest struct {
	Slot        string          `json:"slot"`
	StateJSON   json.RawMessage `json:"stateJson"`
	MetaJSON    json.RawMessage `json:"metaJson,omitempty"`
	StoryHash   string          `json:"storyHash,omitempty"`
	ExpectedRev *int64          `json:"expectedRev,omitempty"`
}

// conflictResponse carries the winning record back on 409 so the
// client can reconcile without a second round trip.
type conflictResponse struct {
	Error   string            `json:"error"`
	Current *model.SaveRecord `json:"current"`
}

func (s *Server) handleSavesList(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	out, err := s.saves.List(r.Context(), userID, chi.URLParam(r, "slug"))
	if err != nil {
		s.writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (s *Server) handleSaveGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rec, err := s.saves.Get(r.Context(), userID, chi.URLParam(r, "slug"), chi.URLParam(r, "slot"))
	if err != nil {
		s.writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSaveUpsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req upsertRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameters")
		return
	}

	rec, err := s.saves.Upsert(r.Context(), userID, chi.URLParam(r, "slug"), model.UpsertSave{
		Slot:        req.Slot,
		StateJSON:   req.StateJSON,
		MetaJSON:    req.MetaJSON,
		StoryHash:   req.StoryHash,
		ExpectedRev: req.ExpectedRev,
	})
	if err != nil {
		if errors.Is(err, errs.ErrRevConflict) {
			writeJSON(w, http.StatusConflict, conflictResponse{Error: "rev_conflict", Current: rec})
			return
		}
		s.writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSaveDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	n, err := s.saves.Delete(r.Context(), userID, chi.URLParam(r, "slug"), chi.URLParam(r, "slot"))
	if err != nil {
		s.writeSaveError(w, err)
		return
	}
	// Deleting an absent tuple is not a store error; it surfaces here as 404.
	if n == 0 {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// writeSaveError maps service/repository errors to the response taxonomy.
func (s *Server) writeSaveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput), errors.Is(err, errs.ErrPayloadTooLarge):
		writeError(w, http.StatusBadRequest, "invalid_parameters")
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		s.log.Error("save store failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal")
	}
}
