package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/apperrors"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// WriteError maps an error to its status code and writes the standard
// failure envelope. Internal error details are never echoed to clients.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status = appErr.StatusCode()
		message = appErr.Message
	}

	WriteJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
