package handlers

import (
	"chatapp-client/internal/repository"
	"chatapp-client/internal/storage"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// statusOf picks the HTTP status for an Error message of a state holder.
func statusOf(message string) int {
	switch message {
	case repository.ErrInvalidCredentials.Error(), repository.ErrSessionExpired.Error():
		return http.StatusUnauthorized
	case repository.ErrForbidden.Error(), repository.ErrOwnerCantLeave.Error():
		return http.StatusForbidden
	case repository.ErrNotFound.Error():
		return http.StatusNotFound
	case repository.ErrAlreadyExists.Error():
		return http.StatusConflict
	case repository.ErrInvalidResetToken.Error(), storage.ErrTooLarge.Error():
		return http.StatusBadRequest
	}

	if strings.HasPrefix(message, storage.ErrUnsupportedPicture.Error()) {
		return http.StatusUnsupportedMediaType
	}

	// validation codes are single snake_case words
	if !strings.ContainsRune(message, ' ') {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail answers with the message of a failed operation. Internal failures
// are logged and their text isn't sent.
func (s *Server) fail(w http.ResponseWriter, message string) {
	status := statusOf(message)
	if status == http.StatusInternalServerError {
		s.sugar.Error(message)
		http.Error(w, "", status)
		return
	}
	http.Error(w, message, status)
}

func (s *Server) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		s.sugar.Error(err)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		s.sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return false
	}
	return true
}

var errUnknownIntent = errors.New("unknown intent")
