package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
)

func decodeJsonBody(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid json body, %w", err)
	}
	return nil
}

func respondWithJson(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func marshalAndRespond(w http.ResponseWriter, status int, response any) {
	bytes, err := json.Marshal(response)
	if err != nil {
		log.Errorf("failed to marshal %v, %v", response, err)
		http.Error(w, arena_errors.ErrInternal.Error(), http.StatusInternalServerError)
		return
	}
	respondWithJson(w, status, bytes)
}

// handlerError translates service errors into http status codes
func handlerError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, arena_errors.ErrInvalidUserCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, arena_errors.ErrUnAuthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, arena_errors.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, arena_errors.ErrConflictingUpdate),
		errors.Is(err, arena_errors.ErrEntityAlreadyExist):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, arena_errors.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, arena_errors.ErrInternal.Error(), http.StatusInternalServerError)
	}
}
