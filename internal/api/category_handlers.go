package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/NasuPanda/mnemos-web/internal/errors"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type renameResponse struct {
	Message string `json:"message"`
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
	Updated int    `json:"items_updated"`
}

// categoryParam returns the decoded {name} path segment. chi matches on
// RawPath when it is set, and only then is the segment still escaped.
func categoryParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	name, err := url.PathUnescape(name)
	if err != nil {
		return "", errors.NewBadRequestError("invalid category name in path")
	}
	return name, nil
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.CategoryService.List(r.Context()))
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	name, err := s.CategoryService.Add(r.Context(), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Category added successfully", Name: name})
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	oldName, err := categoryParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.CategoryService.Rename(r.Context(), oldName, req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, renameResponse{
		Message: "Category renamed successfully",
		OldName: result.OldName,
		NewName: result.NewName,
		Updated: result.ItemsUpdated,
	})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name, err := categoryParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.CategoryService.Delete(r.Context(), name); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Category deleted successfully", Name: name})
}
