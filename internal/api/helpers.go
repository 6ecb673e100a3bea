package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/NasuPanda/mnemos-web/internal/errors"
	"github.com/NasuPanda/mnemos-web/internal/logger"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write response: %v", err)
	}
}

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return errors.NewBadRequestError(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
}
