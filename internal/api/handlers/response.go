package handlers

import (
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json;charset=UTF-8"

// writeJSON writes v with the given status. Encoding errors are ignored since
// the status line has already gone out.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorEnvelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: true, Message: message})
}
