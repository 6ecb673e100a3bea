package api

import (
	"net/http"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Mnemos API is running"})
}

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"state":  s.Readiness.State().String(),
	})
}

// handleReady returns a readiness probe. It answers 200 once requests can be
// served, and reports separately whether stored data has been loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if !s.Readiness.IsReady() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, map[string]any{
		"ready":       s.Readiness.IsReady(),
		"data_loaded": s.Readiness.HasData(),
		"state":       s.Readiness.State().String(),
	})
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Store.Get(r.Context()))
}
