package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gen-studio/internal/artifacts"
	"gen-studio/internal/engine"
	"gen-studio/internal/logging"
	"gen-studio/internal/store"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONStatus writes v with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONStatus(w, statusCode, map[string]string{"error": message})
}

// writeMappedError translates domain errors to their HTTP status:
// validation failures are the client's fault, missing records are 404,
// protected records are a conflict, and an unreachable engine is a bad
// gateway. Everything else is a 500.
func writeMappedError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrValidation), errors.Is(err, artifacts.ErrInvalidName):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, artifacts.ErrNotFound), errors.Is(err, engine.ErrOutputNotFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrProtectedRecord):
		writeJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, engine.ErrUnavailable):
		writeJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		logging.Error("%s: %v", fallback, err)
		writeJSONError(w, fallback, http.StatusInternalServerError)
	}
}

// decodeJSON parses a request body into v, rejecting unknown noise quietly.
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
