package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrEmptyPool), errors.Is(err, session.ErrSessionComplete):
		status = http.StatusConflict
	case errors.Is(err, spacedrep.ErrInvalidRating), errors.Is(err, store.ErrInvalidItem), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Printf("internal error: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON: %v", err)
	}
	return nil
}
