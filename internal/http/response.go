package http

import (
	"encoding/json"
	"net/http"

	"expenses/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors core.FieldErrors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeFieldErrors(w http.ResponseWriter, fe core.FieldErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: fe})
}
