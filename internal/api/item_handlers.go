package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NasuPanda/mnemos-web/internal/logger"
	"github.com/NasuPanda/mnemos-web/internal/models"
	"github.com/NasuPanda/mnemos-web/internal/services"
)

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.ItemService.ListActive(r.Context()))
}

func (s *Server) handleListArchived(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.ItemService.ListArchived(r.Context()))
}

func (s *Server) handleListDue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.ItemService.ListDue(r.Context(), time.Now()))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.ItemService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var input models.ItemInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	item, err := s.ItemService.Create(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var input models.ItemInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	item, err := s.ItemService.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ItemService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Item deleted successfully", ID: id})
}

func (s *Server) handleReviewItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req services.ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).WithFields(map[string]any{
		"item_id":     id,
		"review_type": req.Type,
	}).Debug("reviewing item")

	item, err := s.ItemService.Review(r.Context(), id, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleArchiveItem(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, true)
}

func (s *Server) handleUnarchiveItem(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, false)
}

func (s *Server) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	item, err := s.ItemService.SetArchived(r.Context(), chi.URLParam(r, "id"), archived)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}
