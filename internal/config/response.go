package config

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/assessment-lambda/internal/apperror"
)

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		Log.WithError(err).Error("Failed to encode response")
	}
}

// WriteError renders business errors with their kind and code. Anything else
// is reported as an opaque internal error.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		JSON(w, apperror.HTTPStatus(err), appErr)
		return
	}
	JSON(w, http.StatusInternalServerError, map[string]string{
		"kind":    "INTERNAL",
		"message": "internal server error",
	})
}
