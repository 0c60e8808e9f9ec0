package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roxaskeyheart/rgbnet-core/internal/layout"
)

// handleListLayouts returns the stored layouts without their documents.
func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeUnavailable(w, "layout catalogue not configured")
		return
	}
	entries, err := s.layouts.List(r.Context())
	if err != nil {
		s.logger.Error("listing layouts failed", "error", err)
		writeInternalError(w, "failed to list layouts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"layouts": entries, "count": len(entries)})
}

// handlePutLayout stores the YAML layout document in the request body for
// a manufacturer and model. Relative image references in an uploaded
// document cannot be anchored and are kept as written.
func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeUnavailable(w, "layout catalogue not configured")
		return
	}
	manufacturer, model := chi.URLParam(r, "manufacturer"), chi.URLParam(r, "model")

	doc, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "failed to read body")
		return
	}
	if len(doc) == 0 {
		writeBadRequest(w, "layout document is required")
		return
	}

	if err := s.layouts.Put(r.Context(), manufacturer, model, doc, ""); err != nil {
		if errors.Is(err, layout.ErrMalformed) {
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
			return
		}
		s.logger.Error("storing layout failed", "manufacturer", manufacturer, "model", model, "error", err)
		writeInternalError(w, "failed to store layout")
		return
	}

	s.logger.Info("layout stored", "manufacturer", manufacturer, "model", model)
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteLayout removes a stored layout.
func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeUnavailable(w, "layout catalogue not configured")
		return
	}
	manufacturer, model := chi.URLParam(r, "manufacturer"), chi.URLParam(r, "model")

	if err := s.layouts.Delete(r.Context(), manufacturer, model); err != nil {
		if errors.Is(err, layout.ErrNotFound) {
			writeNotFound(w, "layout not found")
			return
		}
		s.logger.Error("deleting layout failed", "error", err)
		writeInternalError(w, "failed to delete layout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
