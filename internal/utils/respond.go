package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fenrir-gym/fenrir-backend/internal/codes"
)

// RespondJSON writes v with the given status. Every success payload is
// expected to carry its own "error": 0 field.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondError translates an error into the {"error": code} envelope.
// Unknown errors become a plain 500 so no internal detail leaks.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *codes.Error
	if errors.As(err, &appErr) {
		RespondJSON(w, appErr.Status, map[string]int{"error": appErr.Code})
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
