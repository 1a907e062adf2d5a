package apperror

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON serializes data to the response writer with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already out; the best we can do is log it.
		log.Printf("failed to encode response: %v", err)
	}
}

// WriteError converts any error into a standardized error response. Errors
// that are not *AppError are wrapped as InternalError. Server-side causes
// are logged, not sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := FromError(err)
	if !ok {
		appErr = NewInternalError("Internal server error", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, appErr)
	}

	if appErr.Type == AuthError {
		// Challenge header for bearer-token clients.
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
